package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"
)

func (s TenantStatus) Valid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusTrial:
		return true
	}
	return false
}

type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// PlanLimits holds the resource caps attached to a subscription plan.
type PlanLimits struct {
	MaxUsers    int
	MaxProjects int
}

// LimitsFor returns the caps for plan. Unknown plans get the free tier.
func LimitsFor(plan SubscriptionPlan) PlanLimits {
	switch plan {
	case PlanEnterprise:
		return PlanLimits{MaxUsers: 100, MaxProjects: 50}
	case PlanPro:
		return PlanLimits{MaxUsers: 25, MaxProjects: 15}
	default:
		return PlanLimits{MaxUsers: 5, MaxProjects: 3}
	}
}

type Tenant struct {
	ID               string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name             string           `gorm:"type:varchar(255);not null" json:"name"`
	Subdomain        string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"subdomain"`
	Status           TenantStatus     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	SubscriptionPlan SubscriptionPlan `gorm:"type:varchar(20);not null;default:'free'" json:"subscriptionPlan"`
	MaxUsers         int              `gorm:"not null" json:"maxUsers"`
	MaxProjects      int              `gorm:"not null" json:"maxProjects"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
