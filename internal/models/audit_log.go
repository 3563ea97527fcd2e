package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	ActionRegisterTenant   AuditAction = "REGISTER_TENANT"
	ActionLogin            AuditAction = "LOGIN"
	ActionLogout           AuditAction = "LOGOUT"
	ActionUpdateTenant     AuditAction = "UPDATE_TENANT"
	ActionCreateUser       AuditAction = "CREATE_USER"
	ActionUpdateSelf       AuditAction = "UPDATE_SELF"
	ActionUpdateUser       AuditAction = "UPDATE_USER"
	ActionDeleteUser       AuditAction = "DELETE_USER"
	ActionCreateProject    AuditAction = "CREATE_PROJECT"
	ActionUpdateProject    AuditAction = "UPDATE_PROJECT"
	ActionDeleteProject    AuditAction = "DELETE_PROJECT"
	ActionCreateTask       AuditAction = "CREATE_TASK"
	ActionUpdateTask       AuditAction = "UPDATE_TASK"
	ActionUpdateTaskStatus AuditAction = "UPDATE_TASK_STATUS"
)

// Entity types recorded in audit entries
const (
	EntityTenant  = "tenant"
	EntityUser    = "user"
	EntityProject = "project"
	EntityTask    = "task"
)

// AuditLog is append-only; rows are never updated or deleted.
type AuditLog struct {
	ID         string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID   *string     `gorm:"type:varchar(36);index" json:"tenantId"`
	UserID     *string     `gorm:"type:varchar(36);index" json:"userId"`
	Action     AuditAction `gorm:"type:varchar(50);not null" json:"action"`
	EntityType string      `gorm:"type:varchar(50);not null" json:"entityType"`
	EntityID   string      `gorm:"type:varchar(36)" json:"entityId"`
	IPAddress  string      `gorm:"type:varchar(64)" json:"ipAddress"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
