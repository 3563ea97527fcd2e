package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/token"
)

var (
	errAuthRequired   = apierrors.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	errInvalidToken   = apierrors.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	errUserNotUsable  = apierrors.NewHTTPError(http.StatusUnauthorized, "User not found or inactive")
	errTenantNotFound = apierrors.NewHTTPError(http.StatusNotFound, "Tenant not found")
	errTenantDenied   = apierrors.NewHTTPError(http.StatusForbidden, "Access denied to this tenant")
	errRoleDenied     = apierrors.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
)

// Gate holds what the guards need to resolve a caller and their tenant
type Gate struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	tokens  *token.Service
}

func NewGate(users repository.UserRepository, tenants repository.TenantRepository, tokens *token.Service) *Gate {
	return &Gate{users: users, tenants: tenants, tokens: tokens}
}

// Authenticate verifies the bearer token and attaches the live user record.
// Role and tenant come from the store, not from the token claims.
func (g *Gate) Authenticate(c *gin.Context) error {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return errAuthRequired
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	if raw == "" {
		return errAuthRequired
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return errInvalidToken
	}

	user, err := g.users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errUserNotUsable
		}
		return err
	}
	if !user.IsActive {
		return errUserNotUsable
	}

	c.Set(constants.ContextKeyUser, user)
	return nil
}

// TenantAccess loads the tenant named by the route param. An unknown tenant is
// a 404 for everyone; a known one is a 403 unless it is the caller's own or
// the caller is the super admin.
func (g *Gate) TenantAccess(param string) Step {
	return func(c *gin.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return errAuthRequired
		}

		tenant, err := g.tenants.FindByID(c.Request.Context(), c.Param(param))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errTenantNotFound
			}
			return err
		}

		if user.Role != models.RoleSuperAdmin && (user.TenantID == nil || *user.TenantID != tenant.ID) {
			return errTenantDenied
		}

		c.Set(constants.ContextKeyTenant, tenant)
		return nil
	}
}

// RequireRole passes only callers with exactly role
func RequireRole(role models.UserRole) Step {
	return RequireAnyRole(role)
}

// RequireAnyRole passes callers holding one of roles
func RequireAnyRole(roles ...models.UserRole) Step {
	return func(c *gin.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return errAuthRequired
		}
		for _, role := range roles {
			if user.Role == role {
				return nil
			}
		}
		return errRoleDenied
	}
}

// CurrentUser returns the user attached by Authenticate, or nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(constants.ContextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentTenant returns the tenant attached by TenantAccess, or nil
func CurrentTenant(c *gin.Context) *models.Tenant {
	v, ok := c.Get(constants.ContextKeyTenant)
	if !ok {
		return nil
	}
	tenant, _ := v.(*models.Tenant)
	return tenant
}
