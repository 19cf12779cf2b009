package stripewebhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"reluctant-seller-api/internal/domain/subscriptions"
	infrastripe "reluctant-seller-api/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleSubscriptionChange(ctx context.Context, eventType string, raw json.RawMessage) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}
	if sub.ID == "" || sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}

	user, err := h.store.GetUserByStripeCustomerID(ctx, sub.Customer.ID)
	if err != nil {
		return err
	}
	if user == nil {
		// Customer was never recorded here; acknowledge so Stripe does not
		// retry an event we can never apply.
		log.Printf("stripe subscription event for unknown customer %s", sub.Customer.ID)
		return nil
	}

	status := infrastripe.NormalizeSubscriptionStatus(string(sub.Status))
	if eventType == "customer.subscription.deleted" {
		status = subscriptions.StatusCanceled
	}

	var periodEnd *time.Time
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0)
		periodEnd = &end
	}

	return h.store.UpdateSubscriptionStatus(ctx, sub.ID, status, periodEnd)
}
