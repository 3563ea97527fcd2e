package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterTenant opens a tenant together with its first admin.
func (h *AuthHandler) RegisterTenant(c *gin.Context) {
	type RegisterTenantRequest struct {
		TenantName    string `json:"tenantName" binding:"required"`
		Subdomain     string `json:"subdomain" binding:"required"`
		AdminEmail    string `json:"adminEmail" binding:"required"`
		AdminPassword string `json:"adminPassword" binding:"required"`
		AdminFullName string `json:"adminFullName" binding:"required"`
	}

	var req RegisterTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, admin, err := h.authService.RegisterTenant(c.Request.Context(), services.RegisterTenantInput{
		TenantName:    req.TenantName,
		Subdomain:     req.Subdomain,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminFullName: req.AdminFullName,
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	apierrors.Created(c, dto.ToRegisterTenantResponse(tenant, admin), "Tenant registered successfully")
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email           string `json:"email" binding:"required"`
		Password        string `json:"password" binding:"required"`
		TenantID        string `json:"tenantId"`
		TenantSubdomain string `json:"tenantSubdomain"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:           req.Email,
		Password:        req.Password,
		TenantID:        req.TenantID,
		TenantSubdomain: req.TenantSubdomain,
		IPAddress:       c.ClientIP(),
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	apierrors.OK(c, dto.LoginResponse{
		User:      dto.ToUserDTO(result.User),
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
	}, "Login successful")
}

// Me returns the authenticated user and their tenant.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)

	tenant, err := h.authService.Me(c.Request.Context(), user)
	if err != nil {
		internalError(c, err)
		return
	}

	apierrors.OK(c, dto.ToMeResponse(user, tenant), "")
}

// Logout records the sign out. Tokens are stateless and stay valid until
// they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), actor(c))
	apierrors.OK(c, nil, "Logged out successfully")
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSubdomainTaken):
		apierrors.Conflict(c, "Subdomain already exists")
	case errors.Is(err, services.ErrTenantInactive):
		apierrors.Forbidden(c, "Tenant not active")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrAccountInactive):
		apierrors.Forbidden(c, "Account inactive")
	default:
		respondServiceError(c, err)
	}
}
