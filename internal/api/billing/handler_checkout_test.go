package billing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reluctant-seller-api/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func billingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/checkout", CreateCardCheckout)
	r.POST("/crypto-checkout", CreateCryptoCheckout)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCardCheckoutRejectsInvalidPlan(t *testing.T) {
	r := billingRouter()

	w := postJSON(r, "/checkout", `{"email":"buyer@example.com","plan":"weekly"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid plan")
}

func TestCardCheckoutRejectsInvalidEmail(t *testing.T) {
	r := billingRouter()

	w := postJSON(r, "/checkout", `{"email":"not-an-email","plan":"monthly"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email")
}

func TestCryptoCheckoutRejectsInvalidPlan(t *testing.T) {
	r := billingRouter()

	w := postJSON(r, "/crypto-checkout", `{"email":"buyer@example.com","plan":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCryptoCheckoutReturnsHostedURL(t *testing.T) {
	var gotCharge map[string]interface{}
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2018-03-22", r.Header.Get("X-CC-Version"))
		assert.NotEmpty(t, r.Header.Get("X-CC-Api-Key"))
		_ = jsonDecode(r, &gotCharge)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"hosted_url":"https://commerce.coinbase.com/charges/ABC123"}}`))
	}))
	defer provider.Close()

	oldURL := coinbaseChargesURL
	coinbaseChargesURL = provider.URL
	defer func() { coinbaseChargesURL = oldURL }()
	config.COINBASE_COMMERCE_API_KEY = "test-key"
	config.APP_URL = "https://app.example.com"

	r := billingRouter()
	w := postJSON(r, "/crypto-checkout", `{"email":"buyer@example.com","plan":"lifetime"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://commerce.coinbase.com/charges/ABC123")

	assert.Equal(t, "fixed_price", gotCharge["pricing_type"])
	price := gotCharge["local_price"].(map[string]interface{})
	assert.Equal(t, "88.00", price["amount"])
	meta := gotCharge["metadata"].(map[string]interface{})
	assert.Equal(t, "buyer@example.com", meta["email"])
	assert.Equal(t, "lifetime", meta["plan"])
}

func TestCryptoCheckoutMapsProviderFailureToGenericError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"secret provider detail"}}`, http.StatusUnauthorized)
	}))
	defer provider.Close()

	oldURL := coinbaseChargesURL
	coinbaseChargesURL = provider.URL
	defer func() { coinbaseChargesURL = oldURL }()

	r := billingRouter()
	w := postJSON(r, "/crypto-checkout", `{"email":"buyer@example.com","plan":"monthly"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret provider detail")
}

func jsonDecode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
