package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// Tipos de evento que entrega la pasarela por webhook.
const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

// CheckoutUseCase checkout y fulfillment de órdenes. Los totales se calculan
// siempre desde los precios almacenados; el fulfillment es una transacción
// idempotente que transiciona a PAID y decrementa stock exactamente una vez.
type CheckoutUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	gateway     PaymentGateway
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	gateway PaymentGateway,
) *CheckoutUseCase {
	return &CheckoutUseCase{txRunner: txRunner, productRepo: productRepo, orderRepo: orderRepo, gateway: gateway}
}

// InitiateCheckout recalcula el total desde los precios almacenados (los
// precios del cliente nunca se usan), crea una orden PENDING con snapshot de
// precio por línea y delega en la pasarela la creación de la sesión de pago.
// El chequeo de stock aquí es optimista; el decremento autoritativo ocurre en
// el fulfillment. La transacción local commitea antes de llamar a la pasarela.
func (uc *CheckoutUseCase) InitiateCheckout(ctx context.Context, customerID string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if in.Provider != entity.ProviderStripe && in.Provider != entity.ProviderWebpay {
		return nil, domain.ErrProveedorInvalido
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEntradaInvalida
	}

	now := time.Now()
	order := &entity.Order{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		Status:        entity.OrderStatusPending,
		PaymentMethod: in.Provider,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	total := decimal.Zero
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, domain.ErrEntradaInvalida
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, domain.ErrProductoNoEncontrado
		}
		if item.Quantity > product.Stock {
			return nil, domain.ErrStockInsuficiente
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		order.Items = append(order.Items, entity.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price, // snapshot: cambios de precio posteriores no afectan la orden
		})
	}
	order.Total = total

	// Orden + líneas en una transacción.
	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
	) error {
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}

	// La pasarela se llama con la transacción ya commiteada: sin locks de BD
	// durante I/O externo. Si falla, la orden queda PENDING y puede reintentarse.
	session, err := uc.gateway.CreateSession(ctx, order.ID, order.Total, in.Provider)
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		OrderID:     order.ID,
		Total:       order.Total,
		RedirectURL: session.RedirectURL,
		SessionRef:  session.SessionRef,
	}, nil
}

// HandlePaymentConfirmation despacha un evento de la pasarela. Un pago
// completado ejecuta el fulfillment; un pago fallido no muta estado (la orden
// queda PENDING para manejo manual).
func (uc *CheckoutUseCase) HandlePaymentConfirmation(ctx context.Context, event dto.PaymentEvent) error {
	switch event.Type {
	case EventPaymentCompleted:
		return uc.FulfillOrder(ctx, event.OrderRef)
	case EventPaymentFailed:
		return nil
	default:
		return domain.ErrEntradaInvalida
	}
}

// FulfillOrder transiciona la orden a PAID y decrementa el stock de cada
// producto referenciado, todo en una transacción con la fila de la orden
// bloqueada. Idempotente: una orden ya PAID no vuelve a decrementar stock ante
// eventos de confirmación duplicados.
func (uc *CheckoutUseCase) FulfillOrder(ctx context.Context, orderID string) error {
	return uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusPaid {
			return nil // confirmación duplicada: no doble-decrementar
		}
		if order.Status != entity.OrderStatusPending {
			return domain.ErrEstadoInvalido
		}
		for _, item := range order.Items {
			ok, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrStockInsuficiente
			}
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusPaid)
	})
}

// GetOrderForCustomer devuelve la orden con sus líneas, verificando que
// pertenezca al cliente. Usada para el comprobante.
func (uc *CheckoutUseCase) GetOrderForCustomer(customerID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CustomerID != customerID {
		return nil, domain.ErrAccesoDenegado
	}
	return order, nil
}
