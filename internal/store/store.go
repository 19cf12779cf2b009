package store

import (
	"context"
	"time"

	"reluctant-seller-api/internal/domain/documents"
	"reluctant-seller-api/internal/domain/users"
)

// SubscriptionState is the converged write used by both the verification
// endpoint and the Stripe webhook. Whichever path runs first creates the row;
// the other updates it by external subscription id.
type SubscriptionState struct {
	UserID                 string
	ExternalSubscriptionID string
	Provider               string
	PlanType               string
	Status                 string
	CurrentPeriodEnd       *time.Time
}

// Store is the entitlement store. Concurrency safety lives here, not in the
// handlers: the database unique constraints on email, external subscription
// id and (provider, event id) decide every race, and the implementation folds
// lost races into "already applied" outcomes.
type Store interface {
	UpsertUserByEmail(ctx context.Context, email string, stripeCustomerID *string) (*users.User, error)
	GetUserByEmail(ctx context.Context, email string) (*users.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*users.User, error)

	SetSubscriptionState(ctx context.Context, state SubscriptionState) error
	CreateSubscription(ctx context.Context, userID, provider, planType, status string) error
	UpdateSubscriptionStatus(ctx context.Context, externalSubscriptionID, status string, periodEnd *time.Time) error
	HasActiveEntitlement(ctx context.Context, userID string, lifetimeHint bool) (bool, error)

	// MarkWebhookProcessed atomically claims (provider, eventID). True means
	// the caller won and must apply side effects; false means a duplicate
	// delivery that must be acknowledged without further action.
	MarkWebhookProcessed(ctx context.Context, provider, eventID string) (bool, error)

	EnsurePlaybookDocument(ctx context.Context) (*documents.Document, error)
	ListActiveDocuments(ctx context.Context) ([]documents.Document, error)
	FindActiveDocument(ctx context.Context, idOrSlug string) (*documents.Document, error)
	LogDocumentAccess(ctx context.Context, userID, documentID, ipAddress, userAgent string) error
}
