package repository

import "github.com/coffeelink/marketplace-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para órdenes y sus líneas.
type OrderRepository interface {
	// Create inserta la orden y todas sus líneas.
	Create(order *entity.Order) error
	// GetByID devuelve la orden con sus líneas.
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) y carga las líneas.
	GetForUpdate(id string) (*entity.Order, error)
	UpdateStatus(id, status string) error
}
