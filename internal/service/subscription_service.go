package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrSubscriptionExists = errors.New("an active subscription already exists")
	ErrNoSubscription     = errors.New("no subscription found")
)

// entitlementCacheTTL bounds staleness of the cached premium flag. A fresh
// purchase overwrites the key immediately; the TTL only covers expiry
// rolling over mid-window.
const entitlementCacheTTL = 5 * time.Minute

// SubscriptionService handles premium entitlements. The billing provider
// owns payment; this service records outcomes and answers the single
// question the rest of the app asks: does this user have an active
// subscription right now.
type SubscriptionService struct {
	subRepo *repository.SubscriptionRepository
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subRepo *repository.SubscriptionRepository, rdb *redis.Client, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subRepo: subRepo,
		rdb:     rdb,
		log:     log.With().Str("component", "subscription_service").Logger(),
	}
}

// periodFor returns the billing period for a plan starting now.
func periodFor(plan model.SubscriptionPlan, now time.Time) (time.Time, time.Time) {
	switch plan {
	case model.PlanYearly:
		return now, now.AddDate(1, 0, 0)
	default:
		return now, now.AddDate(0, 1, 0)
	}
}

// Create activates a subscription after a completed checkout. Rejected when
// the user already holds an active one.
func (s *SubscriptionService) Create(ctx context.Context, userID uuid.UUID, plan model.SubscriptionPlan) (*model.Subscription, error) {
	existing, err := s.getCurrent(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsActive(time.Now()) {
		return nil, ErrSubscriptionExists
	}

	now := time.Now()
	start, end := periodFor(plan, now)
	sub := &model.Subscription{
		UserID:    userID,
		Plan:      plan,
		Status:    model.SubscriptionActive,
		StartDate: start,
		EndDate:   end,
		AutoRenew: true,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.cacheEntitlement(ctx, userID, true)
	return sub, nil
}

// Get returns the user's current subscription, marking it expired in storage
// if its end date has passed.
func (s *SubscriptionService) Get(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.getCurrent(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoSubscription
	}
	return sub, err
}

// Cancel turns off auto-renewal. Access continues until the end date.
func (s *SubscriptionService) Cancel(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.getCurrent(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, err
	}

	if err := s.subRepo.DisableAutoRenew(ctx, sub.ID); err != nil {
		return nil, err
	}
	sub.AutoRenew = false
	return sub, nil
}

// SwitchPlan moves the user's subscription to a new plan with a fresh
// billing period starting now.
func (s *SubscriptionService) SwitchPlan(ctx context.Context, userID uuid.UUID, plan model.SubscriptionPlan) (*model.Subscription, error) {
	sub, err := s.getCurrent(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	start, end := periodFor(plan, now)
	if err := s.subRepo.SwitchPlan(ctx, sub.ID, plan, start, end); err != nil {
		return nil, err
	}

	sub.Plan = plan
	sub.Status = model.SubscriptionActive
	sub.StartDate = start
	sub.EndDate = end
	sub.AutoRenew = true
	s.cacheEntitlement(ctx, userID, true)
	return sub, nil
}

// HasActiveSubscription answers the entitlement question consulted when a
// session starts. The flag is cached briefly in Redis; on a cache miss the
// answer comes from PostgreSQL and the cache is refilled.
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, userID uuid.UUID) bool {
	key := config.CacheKey.UserSubscriptionKey(userID.String())
	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		return cached == "1"
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("entitlement cache read failed")
	}

	sub, err := s.getCurrent(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			// Storage trouble fails closed for premium content.
			s.log.Error().Err(err).Str("user_id", userID.String()).Msg("entitlement lookup failed")
		}
		s.cacheEntitlement(ctx, userID, false)
		return false
	}

	active := sub.IsActive(time.Now())
	s.cacheEntitlement(ctx, userID, active)
	return active
}

// getCurrent fetches the latest subscription and lazily marks it expired
// once its end date has passed.
func (s *SubscriptionService) getCurrent(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.subRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sub.Status == model.SubscriptionActive && !sub.EndDate.After(time.Now()) {
		if err := s.subRepo.UpdateStatus(ctx, sub.ID, model.SubscriptionExpired); err != nil {
			s.log.Warn().Err(err).Str("subscription_id", sub.ID.String()).Msg("failed to mark subscription expired")
		} else {
			sub.Status = model.SubscriptionExpired
		}
		s.cacheEntitlement(ctx, userID, false)
	}
	return sub, nil
}

func (s *SubscriptionService) cacheEntitlement(ctx context.Context, userID uuid.UUID, active bool) {
	val := "0"
	if active {
		val = "1"
	}
	if err := s.rdb.Set(ctx, config.CacheKey.UserSubscriptionKey(userID.String()), val, entitlementCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("entitlement cache write failed")
	}
}
