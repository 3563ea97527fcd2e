package services

import "github.com/yukikurage/tenant-task-api/internal/models"

// Actor is the authenticated caller a rule is evaluated for
type Actor struct {
	UserID    string
	TenantID  *string
	Role      models.UserRole
	IPAddress string
}

// ActorFor builds an Actor from the live user record
func ActorFor(user *models.User, ip string) Actor {
	return Actor{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		Role:      user.Role,
		IPAddress: ip,
	}
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == models.RoleSuperAdmin
}

// InTenant reports whether the actor is a member of tenantID
func (a Actor) InTenant(tenantID string) bool {
	return a.TenantID != nil && *a.TenantID == tenantID
}

// AdminOf reports whether the actor is a tenant admin of tenantID
func (a Actor) AdminOf(tenantID string) bool {
	return a.Role == models.RoleTenantAdmin && a.InTenant(tenantID)
}

// Optional distinguishes an absent field from an explicit null. Value is nil
// for null.
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Set returns a present Optional holding v
func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Null returns a present Optional holding null
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}
