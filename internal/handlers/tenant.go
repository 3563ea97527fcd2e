package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

type TenantHandler struct {
	tenantService *services.TenantService
}

func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// ListTenants returns every tenant with usage counts (super admin only)
func (h *TenantHandler) ListTenants(c *gin.Context) {
	params, ok := pagination(c, constants.DefaultTenantPageSize)
	if !ok {
		return
	}

	tenants, total, err := h.tenantService.ListTenants(c.Request.Context(), services.ListTenantsInput{
		Status:           queryEnum[models.TenantStatus](c, "status"),
		SubscriptionPlan: queryEnum[models.SubscriptionPlan](c, "subscriptionPlan"),
		Pagination:       params,
	})
	if err != nil {
		respondTenantError(c, err)
		return
	}

	apierrors.OK(c, dto.ToTenantListResponse(tenants, total, params), "")
}

// GetTenant returns the tenant loaded by the tenant guard with its stats
func (h *TenantHandler) GetTenant(c *gin.Context) {
	detail, err := h.tenantService.GetTenant(c.Request.Context(), middleware.CurrentTenant(c))
	if err != nil {
		respondTenantError(c, err)
		return
	}

	apierrors.OK(c, dto.ToTenantDetailDTO(detail.Tenant, detail.Stats), "")
}

// UpdateTenant applies the fields present in the body
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	body, ok := readObject(c)
	if !ok {
		return
	}

	input, err := parseUpdateTenant(body)
	if err != nil {
		respondTenantError(c, err)
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), actor(c), middleware.CurrentTenant(c).ID, input)
	if err != nil {
		respondTenantError(c, err)
		return
	}

	apierrors.OK(c, dto.ToTenantDTO(tenant), "Tenant updated successfully")
}

func parseUpdateTenant(body []byte) (input services.UpdateTenantInput, err error) {
	if input.Name, err = optString(body, "name"); err != nil {
		return input, err
	}
	if input.Status, err = optEnum[models.TenantStatus](body, "status"); err != nil {
		return input, err
	}
	if input.SubscriptionPlan, err = optEnum[models.SubscriptionPlan](body, "subscriptionPlan"); err != nil {
		return input, err
	}
	if input.MaxUsers, err = optInt(body, "maxUsers"); err != nil {
		return input, err
	}
	input.MaxProjects, err = optInt(body, "maxProjects")
	return input, err
}

func respondTenantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRestrictedFields):
		apierrors.Forbidden(c, "Only super_admin can update plan/status/limits")
	default:
		respondServiceError(c, err)
	}
}
