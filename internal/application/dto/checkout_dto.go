package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutItem línea solicitada en el checkout. El precio nunca viene del
// cliente: los totales se recalculan desde los precios almacenados.
type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CheckoutRequest entrada para iniciar un checkout.
type CheckoutRequest struct {
	Provider string         `json:"provider" validate:"required,oneof=STRIPE WEBPAY"`
	Items    []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

// CheckoutResponse referencia de sesión de pago devuelta por la pasarela.
type CheckoutResponse struct {
	OrderID     string          `json:"order_id"`
	Total       decimal.Decimal `json:"total"`
	RedirectURL string          `json:"redirect_url"`
	SessionRef  string          `json:"session_ref"`
}

// PaymentEvent evento entrante de la pasarela (webhook ya autenticado).
type PaymentEvent struct {
	Type     string `json:"type"` // payment.completed | payment.failed
	OrderRef string `json:"order_ref"`
}

// OrderItemResponse línea de una orden con el precio snapshot.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerID    string              `json:"customer_id"`
	Total         decimal.Decimal     `json:"total"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}
