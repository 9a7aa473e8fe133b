package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// ReceiptLineForPDF línea de la boleta con el nombre del producto resuelto.
type ReceiptLineForPDF struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptPDFGenerator puerto del generador de boletas en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, order *entity.Order, customer *entity.User, lines []ReceiptLineForPDF) ([]byte, error)
}

// ReceiptUseCase genera la boleta (PDF) de una orden pagada.
// Solo el dueño de la orden puede descargarla y solo si ya está PAID.
type ReceiptUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		generator:   generator,
	}
}

// DownloadReceiptPDF recupera la orden, verifica dueño y estado, y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe.
//   - domain.ErrAccesoDenegado   si la orden no pertenece al cliente.
//   - domain.ErrEstadoInvalido   si la orden aún no está pagada.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, customerID, orderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener orden: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	if order.CustomerID != customerID {
		return nil, "", domain.ErrAccesoDenegado
	}
	if order.Status != entity.OrderStatusPaid {
		return nil, "", domain.ErrEstadoInvalido
	}

	customer, err := uc.userRepo.GetByID(customerID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener cliente: %w", err)
	}

	lines := make([]ReceiptLineForPDF, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.ProductID
		if product, err := uc.productRepo.GetByID(item.ProductID); err == nil && product != nil {
			name = product.Name
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		lines = append(lines, ReceiptLineForPDF{
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.UnitPrice.Mul(qty),
		})
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, order, customer, lines)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar PDF: %w", err)
	}
	return pdfBytes, fmt.Sprintf("boleta_%s.pdf", order.ID), nil
}
