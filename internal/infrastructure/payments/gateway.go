// Package payments implementa la pasarela de pago. El marketplace soporta
// STRIPE y WEBPAY; mientras no haya credenciales de producción, las sesiones
// son mock con las mismas formas de URL que devuelven los proveedores reales.
package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coffeelink/marketplace-api/internal/application/checkout"
	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/pkg/logger"
)

var _ checkout.PaymentGateway = (*Gateway)(nil)

// Gateway despacha la creación de sesión al proveedor que pidió el cliente.
type Gateway struct {
	log *logger.Logger
}

// NewGateway construye la pasarela.
func NewGateway(log *logger.Logger) *Gateway {
	return &Gateway{log: log}
}

// CreateSession crea la sesión de pago para la orden ya commiteada.
func (g *Gateway) CreateSession(ctx context.Context, orderID string, amount decimal.Decimal, provider string) (*checkout.PaymentSession, error) {
	switch provider {
	case entity.ProviderStripe:
		return g.createStripeSession(orderID, amount), nil
	case entity.ProviderWebpay:
		return g.createWebpayTransaction(orderID, amount), nil
	}
	return nil, domain.ErrProveedorInvalido
}

// TODO: reemplazar por stripe.checkout.sessions.create cuando existan credenciales.
func (g *Gateway) createStripeSession(orderID string, amount decimal.Decimal) *checkout.PaymentSession {
	g.log.Info().Str("order_id", orderID).Str("amount", amount.String()).Msg("creando sesión Stripe")
	return &checkout.PaymentSession{
		RedirectURL: fmt.Sprintf("https://checkout.stripe.com/pay/mock_session_%s", orderID),
		SessionRef:  fmt.Sprintf("sess_%d", time.Now().UnixMilli()),
	}
}

// TODO: reemplazar por WebpayPlus.Transaction().create cuando existan credenciales.
func (g *Gateway) createWebpayTransaction(orderID string, amount decimal.Decimal) *checkout.PaymentSession {
	g.log.Info().Str("order_id", orderID).Str("amount", amount.String()).Msg("creando transacción Webpay")
	return &checkout.PaymentSession{
		RedirectURL: "https://webpay3gint.transbank.cl/webpayserver/initTransaction",
		SessionRef:  fmt.Sprintf("token_mock_%s", orderID),
	}
}
