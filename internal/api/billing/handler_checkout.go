package billing

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"reluctant-seller-api/config"
	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

const stripeCheckoutTimeout = 10 * time.Second

type checkoutRequest struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

// CreateCardCheckout builds a hosted Stripe checkout session for the chosen
// plan and hands back its redirect URL. Initiation never touches local state;
// users and subscriptions appear only through verification or webhooks.
func CreateCardCheckout(c *gin.Context) {
	var body checkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	email := strings.ToLower(validation.ClampString(body.Email, 320))
	if !subscriptions.IsValidPlan(body.Plan) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan"})
		return
	}
	if email != "" && !validation.IsValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY

	isLifetime := body.Plan == subscriptions.PlanLifetime
	priceID := config.STRIPE_PRICE_ID
	mode := stripe.CheckoutSessionModeSubscription
	if isLifetime {
		priceID = config.STRIPE_LIFETIME_PRICE_ID
		mode = stripe.CheckoutSessionModePayment
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), stripeCheckoutTimeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(mode)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:               stripe.String(config.APP_URL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:                stripe.String(config.APP_URL + "/#pricing"),
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	if !isLifetime {
		params.PaymentMethodCollection = stripe.String(string(stripe.CheckoutSessionPaymentMethodCollectionAlways))
	}

	session, err := checkoutsession.New(params)
	if err != nil {
		log.Println("Stripe checkout error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": session.URL})
}
