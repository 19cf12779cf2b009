package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSubscriptionStatus(t *testing.T) {
	assert.Equal(t, "active", NormalizeSubscriptionStatus("active"))
	assert.Equal(t, "active", NormalizeSubscriptionStatus(" active "))
	assert.Equal(t, "trialing", NormalizeSubscriptionStatus("trialing"))
	assert.Equal(t, "past_due", NormalizeSubscriptionStatus("past_due"))
	assert.Equal(t, "past_due", NormalizeSubscriptionStatus("unpaid"))
	assert.Equal(t, "past_due", NormalizeSubscriptionStatus("incomplete"))
	assert.Equal(t, "canceled", NormalizeSubscriptionStatus("canceled"))
	assert.Equal(t, "canceled", NormalizeSubscriptionStatus("incomplete_expired"))
	assert.Equal(t, "paused", NormalizeSubscriptionStatus("paused"))
}
