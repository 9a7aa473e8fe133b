package repository

import "github.com/coffeelink/marketplace-api/internal/domain/entity"

// BusinessProfileRepository define el puerto de persistencia para perfiles de negocio.
type BusinessProfileRepository interface {
	Create(profile *entity.BusinessProfile) error
	GetByID(id string) (*entity.BusinessProfile, error)
	GetByUserID(userID string) (*entity.BusinessProfile, error)
	GetByRUT(rut string) (*entity.BusinessProfile, error)
	// ListByStatus incluye el User dueño (join) para la cola de revisión.
	ListByStatus(status string) ([]*entity.BusinessProfile, error)
	// ResolveFromPending transiciona el perfil a status solo si sigue PENDING.
	// Devuelve false si el perfil no existe o ya fue resuelto por otro admin.
	ResolveFromPending(id, status, adminNotes string) (bool, error)
}
