package routes

import (
	"net/http"
	"time"

	"reluctant-seller-api/internal/api/billing"
	coinbasewebhooks "reluctant-seller-api/internal/api/coinbasewebhook"
	documentsapi "reluctant-seller-api/internal/api/documents"
	"reluctant-seller-api/internal/api/generate"
	stripewebhooks "reluctant-seller-api/internal/api/stripewebhook"
	"reluctant-seller-api/internal/api/verify"
	"reluctant-seller-api/internal/app/http/middleware"
	"reluctant-seller-api/internal/auth"
	"reluctant-seller-api/internal/store"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

type Deps struct {
	Store  store.Store
	Tokens *auth.TokenService
	AI     *openai.Client
}

// Per-action request budgets, each with its own window.
func limiter(limit int) middleware.Limiter {
	return middleware.NewMemoryLimiter(limit, time.Minute)
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Webhooks take the raw body as-is: no sanitizer, no origin check.
	r.POST("/webhook", stripewebhooks.NewHandler(d.Store).Handle)
	r.POST("/crypto-webhook", coinbasewebhooks.NewHandler(d.Store).Handle)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"service":   "reluctant-seller-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	verifyHandler := verify.NewHandler(d.Store, d.Tokens)

	public := r.Group("/")
	public.Use(middleware.EnforceOrigin(), middleware.SanitizeJSONInput())
	public.POST("/checkout", middleware.RateLimit("checkout", limiter(8)), billing.CreateCardCheckout)
	public.POST("/crypto-checkout", middleware.RateLimit("crypto-checkout", limiter(6)), billing.CreateCryptoCheckout)
	public.POST("/verify", middleware.RateLimit("verify", limiter(12)), verifyHandler.VerifyCheckout)
	public.POST("/verify/crypto", middleware.RateLimit("verify-crypto", limiter(12)), verifyHandler.VerifyCrypto)

	// Check does its own token/entitlement handling to keep the 401 body the
	// frontend polls for.
	r.GET("/verify/check", middleware.RateLimit("verify-check", limiter(40)), verifyHandler.Check)

	docs := documentsapi.NewHandler(d.Store)
	protected := r.Group("/")
	protected.Use(middleware.RequireSession(d.Tokens), middleware.RequireEntitlement(d.Store))
	protected.GET("/documents", middleware.RateLimit("documents-list", limiter(50)), docs.List)
	protected.GET("/documents/:id", middleware.RateLimit("documents-get", limiter(40)), docs.Get)

	gen := generate.NewHandler(d.AI)
	protected.POST("/generate",
		middleware.EnforceOrigin(),
		middleware.RateLimit("generate", limiter(25)),
		gen.Rewrite,
	)
}
