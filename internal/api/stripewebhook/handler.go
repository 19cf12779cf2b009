package stripewebhooks

import (
	"io"
	"log"
	"net/http"

	"reluctant-seller-api/config"
	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75/webhook"
)

type Handler struct {
	store store.Store
}

func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

// Handle ingests Stripe events. Signature verification runs over the raw
// body before anything parses it; the dedup claim makes redelivery a no-op.
func (h *Handler) Handle(c *gin.Context) {
	payload, err := readRawBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		sig,
		config.STRIPE_WEBHOOK_SECRET,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Println("Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	won, err := h.store.MarkWebhookProcessed(c.Request.Context(), subscriptions.ProviderStripe, event.ID)
	if err != nil {
		log.Println("Stripe webhook dedup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !won {
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = h.handleCheckoutSessionCompleted(c.Request.Context(), event.Data.Raw)
	case "customer.subscription.updated", "customer.subscription.deleted":
		err = h.handleSubscriptionChange(c.Request.Context(), string(event.Type), event.Data.Raw)
	default:
		// Acknowledge unmodeled events so Stripe stops retrying them.
	}

	if err != nil {
		log.Println("Stripe webhook processing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func readRawBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
