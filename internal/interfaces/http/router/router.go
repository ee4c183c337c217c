package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/infrastructure/auth"
	"github.com/lifemedical/backend/internal/infrastructure/config"
	"github.com/lifemedical/backend/internal/infrastructure/logger"
	"github.com/lifemedical/backend/internal/interfaces/http/handler"
	"github.com/lifemedical/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Brands     *handler.BrandHandler
	Products   *handler.ProductHandler
	Billing    *handler.BillingHandler
	Webhooks   *handler.PaymobWebhookHandler
	SuperAdmin *handler.SuperAdminHandler
}

// Config carries everything Setup needs to assemble the engine
type Config struct {
	Logger         *zap.Logger
	HTTP           config.HTTPConfig
	Tenant         config.TenantConfig
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Companies      identity.CompanyRepository
	Handlers       Handlers
}

// public paths never pass through JWT validation
var jwtSkipPaths = []string{
	"/health",
	"/api/v1/auth/login",
	"/api/v1/auth/company-signup",
	"/api/v1/auth/tenant-signup",
}

var jwtSkipPrefixes = []string{
	"/api/v1/webhooks/",
}

// Setup assembles the middleware chain and mounts all routes
func Setup(cfg Config) *gin.Engine {
	registerValidators()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSFromHTTPConfig(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	engine.Use(middleware.TenantResolver(middleware.TenantResolverConfig{
		Companies:      cfg.Companies,
		BaseDomain:     cfg.Tenant.BaseDomain,
		ReservedLabels: cfg.Tenant.ReservedLabels,
		Logger:         cfg.Logger,
	}))
	engine.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:       cfg.JWTService,
		TokenBlacklist:   cfg.TokenBlacklist,
		SkipPaths:        jwtSkipPaths,
		SkipPathPrefixes: jwtSkipPrefixes,
		Logger:           cfg.Logger,
	}))

	engine.GET("/health", cfg.Handlers.System.Health)

	api := engine.Group("/api/v1")

	registerAuthRoutes(api, cfg)
	registerTenantRoutes(api, cfg.Handlers)
	registerBillingRoutes(api, cfg.Handlers)
	registerWebhookRoutes(api, cfg.Handlers)
	registerSuperAdminRoutes(api, cfg.Handlers)

	return engine
}

func registerAuthRoutes(api *gin.RouterGroup, cfg Config) {
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", middleware.AuthRateLimit(loginLimiter), cfg.Handlers.Auth.Login)
	authGroup.POST("/company-signup", middleware.AuthRateLimit(loginLimiter), cfg.Handlers.Auth.CompanySignup)
	authGroup.POST("/tenant-signup", middleware.AuthRateLimit(loginLimiter), cfg.Handlers.Auth.TenantSignup)
	authGroup.GET("/profile", cfg.Handlers.Auth.Profile)
	authGroup.POST("/logout", cfg.Handlers.Auth.Logout)
}

// catalog writers; reads are open to every authenticated company member
var catalogWriters = []identity.Role{
	identity.RoleOwner,
	identity.RoleAdmin,
	identity.RoleManager,
}

func registerTenantRoutes(api *gin.RouterGroup, h Handlers) {
	write := middleware.RequireRoles(catalogWriters...)

	categories := api.Group("/categories", middleware.RequireTenant())
	categories.GET("", h.Categories.List)
	categories.GET("/:id", h.Categories.Get)
	categories.POST("", write, h.Categories.Create)
	categories.PATCH("/:id", write, h.Categories.Update)
	categories.DELETE("/:id", write, h.Categories.Delete)
	categories.POST("/bulk-delete", write, h.Categories.BulkDelete)

	brands := api.Group("/brands", middleware.RequireTenant())
	brands.GET("", h.Brands.List)
	brands.GET("/:id", h.Brands.Get)
	brands.POST("", write, h.Brands.Create)
	brands.PATCH("/:id", write, h.Brands.Update)
	brands.DELETE("/:id", write, h.Brands.Delete)
	brands.POST("/bulk-delete", write, h.Brands.BulkDelete)

	products := api.Group("/products", middleware.RequireTenant())
	products.GET("", h.Products.List)
	products.GET("/:id", h.Products.Get)
	products.POST("", write, h.Products.Create)
	products.PATCH("/:id", write, h.Products.Update)
	products.DELETE("/:id", write, h.Products.Delete)
	products.POST("/bulk-delete", write, h.Products.BulkDelete)
	products.POST("/:id/duplicate", write, h.Products.Duplicate)

	users := api.Group("/users", middleware.RequireTenant(),
		middleware.RequireRoles(identity.RoleOwner, identity.RoleAdmin))
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.PATCH("/:id/role", h.Users.UpdateRole)
	users.DELETE("/:id", h.Users.Delete)
}

func registerBillingRoutes(api *gin.RouterGroup, h Handlers) {
	billing := api.Group("/billing", middleware.RequireTenant())
	billing.GET("/subscription", h.Billing.Subscription)
	billing.POST("/subscribe",
		middleware.RequireRoles(identity.RoleOwner, identity.RoleAdmin), h.Billing.Subscribe)
	billing.GET("/checkout/:plan",
		middleware.RequireRoles(identity.RoleOwner), h.Billing.Checkout)
}

func registerWebhookRoutes(api *gin.RouterGroup, h Handlers) {
	api.POST("/webhooks/paymob", h.Webhooks.HandleTransaction)
}

func registerSuperAdminRoutes(api *gin.RouterGroup, h Handlers) {
	superAdmin := api.Group("/super-admin", middleware.RequireRoles(identity.RoleSuperAdmin))
	superAdmin.GET("/companies", h.SuperAdmin.ListCompanies)
	superAdmin.GET("/company/:id", h.SuperAdmin.GetCompany)
	superAdmin.PATCH("/company/:id/status", h.SuperAdmin.SetStatus)
	superAdmin.PATCH("/company/:id/subscription", h.SuperAdmin.SetSubscription)
}
