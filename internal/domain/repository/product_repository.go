package repository

import "github.com/coffeelink/marketplace-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos.
// GetForUpdate y DecrementStock se usan dentro de transacciones de fulfillment.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySlug(slug string) (*entity.Product, error)
	// ListActive incluye el vendedor (join) para el listado público.
	ListActive(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)
	// DecrementStock resta quantity solo si el stock alcanza (update condicional);
	// devuelve false si la condición no se cumple.
	DecrementStock(id string, quantity int) (bool, error)
}
