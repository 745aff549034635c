package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus enumerates subscription lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// SubscriptionPlan enumerates the billing plans.
type SubscriptionPlan string

const (
	PlanMonthly SubscriptionPlan = "monthly"
	PlanYearly  SubscriptionPlan = "yearly"
)

// Subscription is a user's premium entitlement record. The billing provider
// owns the money side; this record only answers "has active subscription".
type Subscription struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Status    SubscriptionStatus `json:"status"`
	Plan      SubscriptionPlan   `json:"plan"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	AutoRenew bool               `json:"auto_renew"`
	CreatedAt time.Time          `json:"created_at"`
}

// IsActive reports whether the subscription currently grants premium access.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && s.EndDate.After(now)
}

// CreateSubscriptionRequest is the payload for activating a subscription
// after a completed checkout.
type CreateSubscriptionRequest struct {
	Plan string `json:"plan" binding:"required,oneof=monthly yearly"`
}
