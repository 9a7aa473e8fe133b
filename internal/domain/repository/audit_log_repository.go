package repository

import "github.com/coffeelink/marketplace-api/internal/domain/entity"

// AuditLogRepository define el puerto append-only para la bitácora de auditoría.
type AuditLogRepository interface {
	Create(log *entity.AuditLog) error
}
