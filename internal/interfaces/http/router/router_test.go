package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/lifemedical/backend/internal/application/billing"
	catalogapp "github.com/lifemedical/backend/internal/application/catalog"
	identityapp "github.com/lifemedical/backend/internal/application/identity"
	"github.com/lifemedical/backend/internal/domain/billing"
	"github.com/lifemedical/backend/internal/domain/catalog"
	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/infrastructure/auth"
	"github.com/lifemedical/backend/internal/infrastructure/config"
	"github.com/lifemedical/backend/internal/infrastructure/persistence"
	"github.com/lifemedical/backend/internal/interfaces/http/handler"
)

type noopStorage struct{}

func (noopStorage) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	return "https://cdn.test/" + key, nil
}
func (noopStorage) Delete(context.Context, string) error { return nil }
func (noopStorage) URL(key string) string                { return "https://cdn.test/" + key }

type noopGateway struct{}

func (noopGateway) CreateCheckout(context.Context, billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{OrderID: 1, PaymentKey: "pk", IframeURL: "https://pay.test/checkout"}, nil
}
func (noopGateway) VerifySignature(billing.WebhookTransaction, string) bool { return false }

type routerFixture struct {
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&persistence.Sequence{},
		&identity.Company{},
		&identity.User{},
		&catalog.Category{},
		&catalog.Brand{},
		&catalog.Product{},
		&catalog.ProductImage{},
	))

	log := zap.NewNop()
	companyRepo := persistence.NewGormCompanyRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	brandRepo := persistence.NewGormBrandRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	sequences := persistence.NewGormSequenceRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "router-test-secret",
		Expiration: time.Hour,
		Issuer:     "lifemedical-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	storage := noopStorage{}

	authService := identityapp.NewAuthService(userRepo, companyRepo, sequences, jwtService, blacklist, "lifemedical.app", log)
	userService := identityapp.NewUserService(userRepo, log)
	companyService := identityapp.NewCompanyService(companyRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, sequences, storage, log)
	brandService := catalogapp.NewBrandService(brandRepo, productRepo, sequences, storage, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, sequences, storage, log)
	subscriptionService := billingapp.NewSubscriptionService(companyRepo, noopGateway{}, log)
	webhookService := billingapp.NewWebhookService(noopGateway{}, subscriptionService, log)

	engine := Setup(Config{
		Logger: log,
		HTTP: config.HTTPConfig{
			CORSAllowOrigins: []string{"*"},
			MaxBodySize:      1 << 20,
		},
		Tenant: config.TenantConfig{
			BaseDomain:     "lifemedical.app",
			ReservedLabels: []string{"www", "api"},
		},
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Companies:      companyRepo,
		Handlers: Handlers{
			System:     handler.NewSystemHandler(db),
			Auth:       handler.NewAuthHandler(authService),
			Users:      handler.NewUserHandler(userService),
			Categories: handler.NewCategoryHandler(categoryService),
			Brands:     handler.NewBrandHandler(brandService),
			Products:   handler.NewProductHandler(productService),
			Billing:    handler.NewBillingHandler(subscriptionService),
			Webhooks:   handler.NewPaymobWebhookHandler(webhookService),
			SuperAdmin: handler.NewSuperAdminHandler(companyService),
		},
	})
	return &routerFixture{engine: engine, jwt: jwtService}
}

func (f *routerFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = "api.lifemedical.app"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *routerFixture) token(t *testing.T, role identity.Role, companyID *uuid.UUID) string {
	t.Helper()
	issued, err := f.jwt.Generate(auth.GenerateTokenInput{
		UserID:    uuid.New(),
		Email:     string(role) + "@example.test",
		Role:      string(role),
		CompanyID: companyID,
	})
	require.NoError(t, err)
	return issued.Token
}

func TestRouterPublicRoutes(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("health is open", func(t *testing.T) {
		w := f.do(http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("login skips JWT validation", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
		// reaches the handler and fails binding, not the auth guard
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("webhook endpoint is open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paymob", bytes.NewBufferString("not-json"))
		req.Host = "api.lifemedical.app"
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("tenant signup rejects malformed subdomain", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/auth/tenant-signup", "", map[string]string{
			"name":             "Omar Fathy",
			"email":            "omar@example.test",
			"password":         "s3cretpass",
			"companySubdomain": "Bad_Subdomain!",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouterAuthGuard(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("protected route rejects missing token", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/products", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("protected route rejects garbage token", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/products", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRouterRoleGuards(t *testing.T) {
	f := newRouterFixture(t)
	companyID := uuid.New()

	t.Run("employee cannot write catalog", func(t *testing.T) {
		token := f.token(t, identity.RoleEmployee, &companyID)
		w := f.do(http.MethodPost, "/api/v1/categories", token, map[string]any{
			"name": map[string]string{"ar": "أدوية", "en": "Medicines"},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("employee can read catalog", func(t *testing.T) {
		token := f.token(t, identity.RoleEmployee, &companyID)
		w := f.do(http.MethodGet, "/api/v1/categories", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("owner is not a super admin", func(t *testing.T) {
		token := f.token(t, identity.RoleOwner, &companyID)
		w := f.do(http.MethodGet, "/api/v1/super-admin/companies", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("super admin lists companies", func(t *testing.T) {
		token := f.token(t, identity.RoleSuperAdmin, nil)
		w := f.do(http.MethodGet, "/api/v1/super-admin/companies", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("super admin without company binding cannot use tenant routes", func(t *testing.T) {
		token := f.token(t, identity.RoleSuperAdmin, nil)
		w := f.do(http.MethodGet, "/api/v1/categories", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRouterSignupFlow(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodPost, "/api/v1/auth/company-signup", "", map[string]string{
		"name":        "Sara Adel",
		"email":       "sara@elezaby.test",
		"password":    "s3cretpass",
		"companyName": "El Ezaby Pharmacy",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    identityapp.AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Data.Token)
	require.NotNil(t, resp.Data.Company)
	assert.Equal(t, "el-ezaby-pharmacy", resp.Data.Company.Subdomain)
	assert.Equal(t, identity.RoleOwner, resp.Data.User.Role)

	token := resp.Data.Token

	t.Run("owner token creates a category", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/categories", token, map[string]any{
			"name": map[string]string{"ar": "أدوية", "en": "Medicines"},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Medicines")
	})

	t.Run("owner token reads the profile", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/auth/profile", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "sara@elezaby.test")
	})

	t.Run("owner token reads the subscription", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/billing/subscription", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "free")
	})
}
