package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reluctant-seller-api/config"
	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/validation"

	"github.com/gin-gonic/gin"
)

const coinbaseCheckoutTimeout = 12 * time.Second

// Overridable in tests; Coinbase Commerce has no Go SDK, so the charge is
// created against the REST API directly.
var coinbaseChargesURL = "https://api.commerce.coinbase.com/charges"

var httpClient = &http.Client{}

type coinbaseChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PricingType string            `json:"pricing_type"`
	LocalPrice  coinbasePrice     `json:"local_price"`
	Metadata    map[string]string `json:"metadata"`
	RedirectURL string            `json:"redirect_url"`
	CancelURL   string            `json:"cancel_url"`
}

type coinbasePrice struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type coinbaseChargeResponse struct {
	Data struct {
		HostedURL string `json:"hosted_url"`
	} `json:"data"`
}

// CreateCryptoCheckout creates a Coinbase Commerce charge and returns its
// hosted payment URL. Like the card path, it performs no local writes.
func CreateCryptoCheckout(c *gin.Context) {
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

	isLifetime := body.Plan == subscriptions.PlanLifetime
	amount := "13.00"
	label := "Monthly Access"
	description := "Full playbook + Reluctant Email Generator. $13/month."
	if isLifetime {
		amount = "88.00"
		label = "Lifetime Access"
		description = "Full playbook + Reluctant Email Generator. One-time payment, lifetime access."
	}

	charge := coinbaseChargeRequest{
		Name:        "The Reluctant Seller - " + label,
		Description: description,
		PricingType: "fixed_price",
		LocalPrice:  coinbasePrice{Amount: amount, Currency: "USD"},
		Metadata:    map[string]string{"email": email, "plan": body.Plan},
		RedirectURL: config.APP_URL + "/success?crypto=true&email=" + url.QueryEscape(email),
		CancelURL:   config.APP_URL + "/#pricing",
	}

	payload, err := json.Marshal(charge)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), coinbaseCheckoutTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, coinbaseChargesURL, bytes.NewReader(payload))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CC-Api-Key", config.COINBASE_COMMERCE_API_KEY)
	req.Header.Set("X-CC-Version", "2018-03-22")

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Println("Coinbase charge error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Println("Coinbase charge rejected, status:", resp.StatusCode)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var chargeResp coinbaseChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&chargeResp); err != nil || chargeResp.Data.HostedURL == "" {
		log.Println("Coinbase charge response missing hosted_url")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": chargeResp.Data.HostedURL})
}
