package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/interfaces/http/dto"
)

// RequireRoles allows the request through only when the authenticated
// user's role is one of the given roles. Must run after JWT middleware.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := identity.Role(GetRole(c))
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "This action requires a higher role"))
			return
		}
		c.Next()
	}
}

// RequireTenant rejects requests whose token carries no tenant binding.
// Platform operators hit the super-admin surface instead.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := GetClaimsCompanyID(c)
		if !ok || companyID == nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "This endpoint is tenant scoped"))
			return
		}
		c.Next()
	}
}
