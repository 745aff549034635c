package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AttemptService handles attempt history and progress statistics, and acts
// as the persistence sink for finished sessions: finalized attempts are
// pushed onto a Redis queue and written to PostgreSQL by a background
// worker, so a submitting user never waits on the database.
type AttemptService struct {
	attemptRepo *repository.AttemptRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(attemptRepo *repository.AttemptRepository, rdb *redis.Client, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
	}
}

// SaveAttempt enqueues a finalized attempt for background persistence. It
// satisfies the session engine's sink interface.
func (s *AttemptService) SaveAttempt(ctx context.Context, attempt *model.TestAttempt) (uuid.UUID, error) {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal attempt: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, raw).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("enqueue attempt: %w", err)
	}
	return attempt.ID, nil
}

// ListByUser retrieves a user's attempt history, most recent first.
func (s *AttemptService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TestAttempt, error) {
	return s.attemptRepo.ListByUser(ctx, userID)
}

// ListByUserAndPaper retrieves a user's attempts at one paper.
func (s *AttemptService) ListByUserAndPaper(ctx context.Context, userID, paperID uuid.UUID) ([]model.TestAttempt, error) {
	return s.attemptRepo.ListByUserAndPaper(ctx, userID, paperID)
}

// StatsByUser computes progress statistics over a user's full history.
func (s *AttemptService) StatsByUser(ctx context.Context, userID uuid.UUID) (*model.AttemptStats, error) {
	attempts, err := s.attemptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CalculateStats(attempts), nil
}

// CalculateStats aggregates attempts into progress statistics. Attempts with
// zero questions are counted toward totals but excluded from score averages.
func CalculateStats(attempts []model.TestAttempt) *model.AttemptStats {
	stats := &model.AttemptStats{TotalTests: len(attempts)}
	if len(attempts) == 0 {
		return stats
	}

	totalSeconds := 0
	totalScore := 0
	totalQuestions := 0
	best := 0.0
	valid := 0

	for _, a := range attempts {
		totalSeconds += a.TimeSpentSeconds
		if a.TotalQuestions <= 0 {
			continue
		}
		valid++
		totalScore += a.Score
		totalQuestions += a.TotalQuestions
		if pct := float64(a.Score) / float64(a.TotalQuestions) * 100; pct > best {
			best = pct
		}
	}

	stats.TotalTimeSpentMinutes = int(math.Round(float64(totalSeconds) / 60))
	if valid == 0 || totalQuestions == 0 {
		return stats
	}

	stats.AverageScorePercent = int(math.Round(float64(totalScore) / float64(totalQuestions) * 100))
	stats.BestScorePercent = int(math.Round(best))
	return stats
}
