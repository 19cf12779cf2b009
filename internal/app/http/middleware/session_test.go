package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reluctant-seller-api/internal/auth"
	"reluctant-seller-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEntitlementStore struct {
	store.Store
	entitled     bool
	lastUserID   string
	lastLifetime bool
}

func (s *stubEntitlementStore) HasActiveEntitlement(_ context.Context, userID string, lifetimeHint bool) (bool, error) {
	s.lastUserID = userID
	s.lastLifetime = lifetimeHint
	return s.entitled, nil
}

func protectedRouter(tokens *auth.TokenService, st store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireSession(tokens), RequireEntitlement(st), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(CtxEmail)})
	})
	return r
}

func TestProtectedRouteWithoutCookie(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	r := protectedRouter(tokens, &stubEntitlementStore{entitled: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteWithValidCookie(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	st := &stubEntitlementStore{entitled: true}
	r := protectedRouter(tokens, st)

	token, err := tokens.Issue(auth.Claims{
		UserID:   "user-1",
		Email:    "buyer@example.com",
		Paid:     true,
		Lifetime: true,
	}, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "buyer@example.com")
	assert.Equal(t, "user-1", st.lastUserID)
	assert.True(t, st.lastLifetime)
}

func TestProtectedRouteRevokedEntitlement(t *testing.T) {
	// Valid token, but the store no longer grants access. The live check
	// must win over the token's paid flag.
	tokens := auth.NewTokenService("test-secret")
	st := &stubEntitlementStore{entitled: false}
	r := protectedRouter(tokens, st)

	token, err := tokens.Issue(auth.Claims{UserID: "user-1", Paid: true}, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteTamperedCookie(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	other := auth.NewTokenService("different-secret")
	r := protectedRouter(tokens, &stubEntitlementStore{entitled: true})

	token, err := other.Issue(auth.Claims{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
