package middleware

import (
	"net/http"

	"reluctant-seller-api/internal/auth"
	"reluctant-seller-api/internal/store"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireSession for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxLifetime = "lifetime"
)

// RequireSession reads the session cookie and verifies the token. It only
// proves the caller passed verification at issuance time; RequireEntitlement
// still decides whether they keep access now.
func RequireSession(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(auth.CookieName)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxLifetime, claims.Lifetime)
		c.Next()
	}
}

// RequireEntitlement re-checks the store on every protected request. A
// canceled monthly subscription loses access here long before its token
// expires.
func RequireEntitlement(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		entitled, err := st.HasActiveEntitlement(c.Request.Context(), userID, c.GetBool(CtxLifetime))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !entitled {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
