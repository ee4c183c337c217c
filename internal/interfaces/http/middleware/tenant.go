package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
	"github.com/lifemedical/backend/internal/infrastructure/logger"
	"github.com/lifemedical/backend/internal/interfaces/http/dto"
)

// Tenant context keys
const (
	TenantCompanyIDKey = "tenant_company_id"
	TenantSubdomainKey = "tenant_subdomain"
)

// TenantResolverConfig holds configuration for the subdomain resolver
type TenantResolverConfig struct {
	// Companies resolves subdomains; every request re-queries, no cache
	Companies identity.CompanyRepository
	// BaseDomain is the apex domain tenant subdomains hang off
	BaseDomain string
	// ReservedLabels never resolve to a tenant (www, api, ...)
	ReservedLabels []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// TenantResolver extracts the tenant from the Host header's first label
// and attaches the company to the request. Requests to the base domain
// itself, to reserved labels, or to bare addresses carry no tenant; an
// unknown subdomain is a 404. Runs before JWT middleware.
func TenantResolver(cfg TenantResolverConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		subdomain := extractSubdomain(c.Request.Host, cfg.BaseDomain, cfg.ReservedLabels)
		if subdomain == "" {
			c.Next()
			return
		}

		company, err := cfg.Companies.FindBySubdomain(c.Request.Context(), subdomain)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(
					"COMPANY_NOT_FOUND",
					fmt.Sprintf("No company is registered under %q", subdomain),
				))
				return
			}
			if cfg.Logger != nil {
				cfg.Logger.Error("Tenant lookup failed",
					zap.String("subdomain", subdomain),
					zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Could not resolve tenant"))
			return
		}

		c.Set(TenantCompanyIDKey, company.ID)
		c.Set(TenantSubdomainKey, company.Subdomain)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithCompanyID(ctx, log, company.ID.String(), company.Subdomain)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractSubdomain returns the tenant label of the host, or "" when the
// request targets no tenant.
func extractSubdomain(host, baseDomain string, reserved []string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || host == baseDomain || host == "localhost" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return ""
	}

	var label string
	if baseDomain != "" && strings.HasSuffix(host, "."+baseDomain) {
		label = strings.TrimSuffix(host, "."+baseDomain)
	} else {
		parts := strings.SplitN(host, ".", 2)
		if len(parts) < 2 {
			return ""
		}
		label = parts[0]
	}
	// a dotted label means a nested subdomain; only the first label routes
	if i := strings.Index(label, "."); i >= 0 {
		label = label[:i]
	}
	for _, r := range reserved {
		if label == r {
			return ""
		}
	}
	return label
}

// GetTenantCompanyID retrieves the resolved company id from context
func GetTenantCompanyID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(TenantCompanyIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetTenantSubdomain retrieves the resolved subdomain from context
func GetTenantSubdomain(c *gin.Context) string {
	if v, exists := c.Get(TenantSubdomainKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
