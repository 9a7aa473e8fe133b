package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para la creación de la
// orden y para el fulfillment (PAID + decremento de stock).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// PaymentSession referencia de redirección devuelta por la pasarela.
type PaymentSession struct {
	RedirectURL string
	SessionRef  string
}

// PaymentGateway colaborador externo de pagos. La llamada ocurre siempre fuera
// de la transacción local: nunca se sostienen locks de BD durante I/O externo.
type PaymentGateway interface {
	CreateSession(ctx context.Context, orderID string, amount decimal.Decimal, provider string) (*PaymentSession, error)
}
