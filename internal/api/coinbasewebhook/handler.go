package coinbasewebhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"reluctant-seller-api/config"
	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store store.Store
}

func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

type webhookPayload struct {
	ID    string `json:"id"`
	Event struct {
		Type string `json:"type"`
		Data struct {
			Metadata struct {
				Email string `json:"email"`
				Plan  string `json:"plan"`
			} `json:"metadata"`
		} `json:"data"`
	} `json:"event"`
}

// Handle ingests Coinbase Commerce events. The shared-secret HMAC over the
// raw body is checked before any JSON parsing; confirmed charges provision
// the buyer.
func (h *Handler) Handle(c *gin.Context) {
	signature := c.GetHeader("X-CC-Webhook-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 65536)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	if !verifySignature(body, signature, config.COINBASE_WEBHOOK_SHARED_SECRET) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Println("Coinbase webhook parse error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing event id"})
		return
	}

	won, err := h.store.MarkWebhookProcessed(c.Request.Context(), subscriptions.ProviderCoinbase, payload.ID)
	if err != nil {
		log.Println("Coinbase webhook dedup error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !won {
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}

	if payload.Event.Type == "charge:confirmed" && payload.Event.Data.Metadata.Email != "" {
		plan := subscriptions.PlanMonthly
		if payload.Event.Data.Metadata.Plan == subscriptions.PlanLifetime {
			plan = subscriptions.PlanLifetime
		}

		user, err := h.store.UpsertUserByEmail(c.Request.Context(), payload.Event.Data.Metadata.Email, nil)
		if err != nil {
			log.Println("Coinbase webhook upsert error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if err := h.store.CreateSubscription(c.Request.Context(), user.ID, subscriptions.ProviderCoinbase, plan, subscriptions.StatusPaid); err != nil {
			log.Println("Coinbase webhook subscription error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func verifySignature(rawBody []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
