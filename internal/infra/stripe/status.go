package stripe

import "strings"

// NormalizeSubscriptionStatus maps Stripe subscription status values onto the
// set stored on subscription rows. Unknown values pass through untouched.
func NormalizeSubscriptionStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "active":
		return "active"
	case "trialing":
		return "trialing"
	case "past_due", "unpaid", "incomplete":
		return "past_due"
	case "canceled", "incomplete_expired":
		return "canceled"
	default:
		return strings.TrimSpace(s)
	}
}
