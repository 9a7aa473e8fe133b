package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden. PENDING al crearla en checkout; PAID solo dentro del
// fulfillment atómico; inmutable una vez pagada.
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
	OrderStatusFailed  = "FAILED"
)

// Proveedores de pago soportados.
const (
	ProviderStripe = "STRIPE"
	ProviderWebpay = "WEBPAY"
)

// Order orden de compra con totales recalculados en servidor.
type Order struct {
	ID            string
	CustomerID    string
	Total         decimal.Decimal
	Status        string
	PaymentMethod string
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem línea de una orden. UnitPrice es un snapshot del precio almacenado
// al momento del checkout: cambios de precio posteriores no alteran la orden.
type OrderItem struct {
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}
