package dto

import "github.com/yukikurage/tenant-task-api/internal/models"

// RegisterTenantResponse is returned after a tenant signs up
type RegisterTenantResponse struct {
	TenantID  string  `json:"tenantId"`
	Subdomain string  `json:"subdomain"`
	AdminUser UserDTO `json:"adminUser"`
}

// LoginResponse carries the bearer token
type LoginResponse struct {
	User      UserDTO `json:"user"`
	Token     string  `json:"token"`
	ExpiresIn int64   `json:"expiresIn"`
}

// MeTenantDTO is the slice of the tenant shown to its own members
type MeTenantDTO struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Subdomain        string                  `json:"subdomain"`
	SubscriptionPlan models.SubscriptionPlan `json:"subscriptionPlan"`
	MaxUsers         int                     `json:"maxUsers"`
	MaxProjects      int                     `json:"maxProjects"`
}

// MeResponse is the signed-in user. Tenant is null for the super admin.
type MeResponse struct {
	UserDTO
	Tenant *MeTenantDTO `json:"tenant"`
}

func ToRegisterTenantResponse(tenant *models.Tenant, admin *models.User) RegisterTenantResponse {
	return RegisterTenantResponse{
		TenantID:  tenant.ID,
		Subdomain: tenant.Subdomain,
		AdminUser: ToUserDTO(admin),
	}
}

func ToMeResponse(user *models.User, tenant *models.Tenant) MeResponse {
	resp := MeResponse{UserDTO: ToUserDTO(user)}
	if tenant != nil {
		resp.Tenant = &MeTenantDTO{
			ID:               tenant.ID,
			Name:             tenant.Name,
			Subdomain:        tenant.Subdomain,
			SubscriptionPlan: tenant.SubscriptionPlan,
			MaxUsers:         tenant.MaxUsers,
			MaxProjects:      tenant.MaxProjects,
		}
	}
	return resp
}
