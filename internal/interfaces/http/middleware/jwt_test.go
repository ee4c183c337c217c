package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifemedical/backend/internal/infrastructure/auth"
	"github.com/lifemedical/backend/internal/infrastructure/config"
)

func testJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-middleware",
		Expiration: expiration,
		Issuer:     "lifemedical-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, companyID *uuid.UUID, role string) string {
	t.Helper()
	issued, err := svc.Generate(auth.GenerateTokenInput{
		UserID:    uuid.New(),
		Email:     "owner@pharmacy.test",
		Role:      role,
		CompanyID: companyID,
		Subdomain: "pharmacy",
	})
	require.NoError(t, err)
	return issued.Token
}

// failingBlacklist always errors on lookup
type failingBlacklist struct{}

func (failingBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return nil
}

func (failingBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, errors.New("redis down")
}

func jwtRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddleware(cfg))
	router.GET("/protected", func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.String(http.StatusInternalServerError, "no claims")
			return
		}
		c.String(http.StatusOK, claims.Email)
	})
	router.GET("/public", func(c *gin.Context) {
		c.String(http.StatusOK, "open")
	})
	router.GET("/webhooks/paymob", func(c *gin.Context) {
		c.String(http.StatusOK, "open")
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService(time.Hour)

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		companyID := uuid.New()
		router := jwtRouter(JWTMiddlewareConfig{JWTService: svc})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, &companyID, "owner"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "owner@pharmacy.test", w.Body.String())
	})

	t.Run("rejects missing authorization header", func(t *testing.T) {
		router := jwtRouter(JWTMiddlewareConfig{JWTService: svc})

		req := httptest.NewRequest("GET", "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication required")
	})

	t.Run("rejects malformed authorization header", func(t *testing.T) {
		router := jwtRouter(JWTMiddlewareConfig{JWTService: svc})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		router := jwtRouter(JWTMiddlewareConfig{JWTService: svc})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-jwt")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reports expiry on expired token", func(t *testing.T) {
		expired := testJWTService(-time.Minute)
		router := jwtRouter(JWTMiddlewareConfig{JWTService: expired})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, expired, nil, "owner"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has expired")
	})

	t.Run("skips configured paths", func(t *testing.T) {
		router := jwtRouter(JWTMiddlewareConfig{
			JWTService: svc,
			SkipPaths:  []string{"/public"},
		})

		req := httptest.NewRequest("GET", "/public", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("skips configured path prefixes", func(t *testing.T) {
		router := jwtRouter(JWTMiddlewareConfig{
			JWTService:       svc,
			SkipPathPrefixes: []string{"/webhooks/"},
		})

		req := httptest.NewRequest("GET", "/webhooks/paymob", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects revoked token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		router := jwtRouter(JWTMiddlewareConfig{
			JWTService:     svc,
			TokenBlacklist: blacklist,
		})

		token := issueToken(t, svc, nil, "owner")
		claims, err := svc.Validate(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has been revoked")
	})

	t.Run("fails open when blacklist is unavailable", func(t *testing.T) {
		router := jwtRouter(JWTMiddlewareConfig{
			JWTService:     svc,
			TokenBlacklist: failingBlacklist{},
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, nil, "owner"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestClaimsHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService(time.Hour)
	companyID := uuid.New()

	router := gin.New()
	router.Use(JWTAuthMiddleware(JWTMiddlewareConfig{JWTService: svc}))
	router.GET("/whoami", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		assert.True(t, ok)
		assert.NotEqual(t, uuid.Nil, userID)

		gotCompany, ok := GetClaimsCompanyID(c)
		assert.True(t, ok)
		if assert.NotNil(t, gotCompany) {
			assert.Equal(t, companyID, *gotCompany)
		}

		assert.Equal(t, "admin", GetRole(c))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, &companyID, "admin"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestClaimsHelpersWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetClaims(c))
	_, ok := GetUserID(c)
	assert.False(t, ok)
	_, ok = GetClaimsCompanyID(c)
	assert.False(t, ok)
	assert.Empty(t, GetRole(c))
}
