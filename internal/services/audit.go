package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/telemetry"
)

// AuditEntry describes one state-changing action
type AuditEntry struct {
	TenantID   *string
	UserID     *string
	Action     models.AuditAction
	EntityType string
	EntityID   string
	IPAddress  string
}

// AuditRecorder writes audit entries as non-critical writes: a failure is
// logged and counted, never returned to the caller.
type AuditRecorder struct {
	repo repository.AuditRepository
	log  *zap.Logger
}

func NewAuditRecorder(repo repository.AuditRepository, log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log}
}

// Record appends entry. It runs detached from the request's cancellation so
// a client disconnect does not drop the entry.
func (r *AuditRecorder) Record(ctx context.Context, entry AuditEntry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.AuditWriteTimeout)
	defer cancel()

	err := r.repo.Create(ctx, &models.AuditLog{
		TenantID:   entry.TenantID,
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		IPAddress:  entry.IPAddress,
	})
	if err != nil {
		telemetry.AuditWriteFailuresTotal.Inc()
		r.log.Warn("Audit write failed",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
	}
}

// entryFor builds an entry for an action taken by actor inside tenantID. An
// empty tenantID is stored as NULL.
func entryFor(actor Actor, tenantID string, action models.AuditAction, entityType, entityID string) AuditEntry {
	userID := actor.UserID
	var tenant *string
	if tenantID != "" {
		tenant = &tenantID
	}
	return AuditEntry{
		TenantID:   tenant,
		UserID:     &userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  actor.IPAddress,
	}
}
