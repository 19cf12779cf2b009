package stripewebhooks

import (
	"context"
	"encoding/json"
	"fmt"

	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/store"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, raw json.RawMessage) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	if session.CustomerEmail == "" {
		// Nothing to provision without an email; the verify path will
		// still cover this buyer.
		return nil
	}

	var customerID *string
	if session.Customer != nil && session.Customer.ID != "" {
		customerID = stripe.String(session.Customer.ID)
	}

	user, err := h.store.UpsertUserByEmail(ctx, session.CustomerEmail, customerID)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	if session.Mode == stripe.CheckoutSessionModePayment {
		return h.store.SetSubscriptionState(ctx, store.SubscriptionState{
			UserID:                 user.ID,
			ExternalSubscriptionID: "lifetime:" + session.ID,
			Provider:               subscriptions.ProviderStripe,
			PlanType:               subscriptions.PlanLifetime,
			Status:                 subscriptions.StatusPaid,
		})
	}

	if session.Subscription == nil || session.Subscription.ID == "" {
		return nil
	}
	return h.store.SetSubscriptionState(ctx, store.SubscriptionState{
		UserID:                 user.ID,
		ExternalSubscriptionID: session.Subscription.ID,
		Provider:               subscriptions.ProviderStripe,
		PlanType:               subscriptions.PlanMonthly,
		Status:                 subscriptions.StatusActive,
	})
}
