package subscriptions

import (
	"time"

	"reluctant-seller-api/internal/domain/users"
)

const (
	ProviderStripe   = "stripe"
	ProviderCoinbase = "coinbase"

	PlanMonthly  = "monthly"
	PlanLifetime = "lifetime"

	StatusActive   = "active"
	StatusPaid     = "paid"
	StatusCanceled = "canceled"
)

// Subscription is one entitlement grant. A user may accumulate several rows
// over time (renewals, cancellations, a lifetime purchase next to an old
// monthly); whether the user currently has access is always derived from the
// full set, never stored as a flag.
type Subscription struct {
	ID     string `gorm:"primaryKey"`
	UserID string `gorm:"not null;index"`
	User   users.User

	// Synthesized as "lifetime:<sessionID>" for one-time payments so each
	// purchase stays unique. Nil for coinbase grants.
	ExternalSubscriptionID *string `gorm:"column:external_subscription_id;size:255;uniqueIndex:idx_subscriptions_external_id"`

	Provider         string `gorm:"size:32;not null;default:'stripe'"`
	PlanType         string `gorm:"size:32;not null"`
	Status           string `gorm:"size:64;not null"`
	CurrentPeriodEnd *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func IsValidPlan(value string) bool {
	return value == PlanMonthly || value == PlanLifetime
}
