package repository

import (
	"context"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// AuditRepository log de auditoría append-only. Fire-and-forget desde el motor.
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
}
