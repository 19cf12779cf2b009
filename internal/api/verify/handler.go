package verify

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"reluctant-seller-api/config"
	"reluctant-seller-api/internal/auth"
	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/store"
	"reluctant-seller-api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

const (
	stripeRetrieveTimeout = 12 * time.Second

	monthlyTokenTTL  = 30 * 24 * time.Hour
	lifetimeTokenTTL = 10 * 365 * 24 * time.Hour
)

type Handler struct {
	store  store.Store
	tokens *auth.TokenService
}

func NewHandler(st store.Store, tokens *auth.TokenService) *Handler {
	return &Handler{store: st, tokens: tokens}
}

// VerifyCheckout exchanges a completed Stripe checkout session for a session
// cookie. The Stripe webhook may have already applied the same state; both
// paths converge on the same upsert so whichever runs first establishes the
// row and the other updates it.
func (h *Handler) VerifyCheckout(c *gin.Context) {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !validation.IsValidStripeSessionID(body.SessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY

	ctx, cancel := context.WithTimeout(c.Request.Context(), stripeRetrieveTimeout)
	defer cancel()

	session, err := checkoutsession.Get(body.SessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
			Expand:  []*string{stripe.String("subscription"), stripe.String("customer")},
		},
	})
	if err != nil {
		log.Println("Verify error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	email := sessionEmail(session)
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid || email == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Payment not completed"})
		return
	}

	var customerID *string
	if session.Customer != nil && session.Customer.ID != "" {
		customerID = stripe.String(session.Customer.ID)
	}

	isLifetime := session.Mode == stripe.CheckoutSessionModePayment

	user, err := h.store.UpsertUserByEmail(c.Request.Context(), email, customerID)
	if err != nil {
		log.Println("Verify upsert error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if isLifetime {
		err = h.store.SetSubscriptionState(c.Request.Context(), store.SubscriptionState{
			UserID:                 user.ID,
			ExternalSubscriptionID: "lifetime:" + session.ID,
			Provider:               subscriptions.ProviderStripe,
			PlanType:               subscriptions.PlanLifetime,
			Status:                 subscriptions.StatusPaid,
		})
	} else {
		if session.Subscription == nil || session.Subscription.ID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Missing subscription"})
			return
		}
		var periodEnd *time.Time
		if session.Subscription.CurrentPeriodEnd > 0 {
			end := time.Unix(session.Subscription.CurrentPeriodEnd, 0)
			periodEnd = &end
		}
		err = h.store.SetSubscriptionState(c.Request.Context(), store.SubscriptionState{
			UserID:                 user.ID,
			ExternalSubscriptionID: session.Subscription.ID,
			Provider:               subscriptions.ProviderStripe,
			PlanType:               subscriptions.PlanMonthly,
			Status:                 subscriptions.StatusActive,
			CurrentPeriodEnd:       periodEnd,
		})
	}
	if err != nil {
		log.Println("Verify subscription state error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ttl := monthlyTokenTTL
	if isLifetime {
		ttl = lifetimeTokenTTL
	}
	token, err := h.tokens.Issue(auth.Claims{
		UserID:   user.ID,
		Email:    email,
		Paid:     true,
		Lifetime: isLifetime,
	}, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(c, token, ttl)
	c.JSON(http.StatusOK, gin.H{"success": true, "email": email, "lifetime": isLifetime})
}

// VerifyCrypto issues a session for a buyer whose crypto payment was already
// confirmed through the Coinbase webhook. Without a confirmed grant in the
// store there is nothing to verify against.
func (h *Handler) VerifyCrypto(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	email := strings.ToLower(validation.ClampString(body.Email, 320))
	if !validation.IsValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Payment not confirmed yet"})
		return
	}

	entitled, err := h.store.HasActiveEntitlement(c.Request.Context(), user.ID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !entitled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Payment not confirmed yet"})
		return
	}

	token, err := h.tokens.Issue(auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Paid:   true,
	}, monthlyTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(c, token, monthlyTokenTTL)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Check reports whether the caller holds a valid session AND still has an
// active entitlement; its 401 body is the shape the frontend polls for.
func (h *Handler) Check(c *gin.Context) {
	tokenString, err := c.Cookie(auth.CookieName)
	if err != nil || tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"authorized": false, "authenticated": false})
		return
	}

	claims, err := h.tokens.Verify(tokenString)
	if err != nil || claims.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"authorized": false, "authenticated": false})
		return
	}

	entitled, err := h.store.HasActiveEntitlement(c.Request.Context(), claims.UserID, claims.Lifetime)
	if err != nil || !entitled {
		c.JSON(http.StatusUnauthorized, gin.H{"authorized": false, "authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized":    true,
		"authenticated": true,
		"email":         claims.Email,
	})
}

func sessionEmail(session *stripe.CheckoutSession) string {
	if session.CustomerEmail != "" {
		return strings.ToLower(session.CustomerEmail)
	}
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return strings.ToLower(session.CustomerDetails.Email)
	}
	return ""
}

func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(ttl.Seconds()), "/", "", true, true)
}
