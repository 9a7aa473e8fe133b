package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product publicación de un vendedor en el marketplace.
// Stock se decrementa únicamente durante el fulfillment de órdenes pagadas.
type Product struct {
	ID          string
	SellerID    string
	Name        string
	Slug        string // único
	Description string
	Price       decimal.Decimal // precio de venta, no negativo
	Stock       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Seller *User // presente en listados con join
}
