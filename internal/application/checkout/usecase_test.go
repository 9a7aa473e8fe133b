package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeelink/marketplace-api/internal/application/checkout"
	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica de rollback
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		clone := *p
		r.products[p.ID] = &clone
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetBySlug(slug string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ListActive(limit, offset int) ([]*entity.Product, error) { return nil, nil }

func (r *fakeProductRepo) Update(p *entity.Product) error {
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) DecrementStock(id string, quantity int) (bool, error) {
	p, ok := r.products[id]
	if !ok || p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	return true, nil
}

func (r *fakeProductRepo) snapshot() map[string]entity.Product {
	s := map[string]entity.Product{}
	for id, p := range r.products {
		s[id] = *p
	}
	return s
}

func (r *fakeProductRepo) restore(s map[string]entity.Product) {
	r.products = map[string]*entity.Product{}
	for id, p := range s {
		clone := p
		r.products[id] = &clone
	}
}

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entity.Order{}}
}

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	clone := *o
	clone.Items = append([]entity.OrderItem(nil), o.Items...)
	r.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	clone := *o
	clone.Items = append([]entity.OrderItem(nil), o.Items...)
	return &clone, nil
}

func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) { return r.GetByID(id) }

func (r *fakeOrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) snapshot() map[string]entity.Order {
	s := map[string]entity.Order{}
	for id, o := range r.orders {
		clone := *o
		clone.Items = append([]entity.OrderItem(nil), o.Items...)
		s[id] = clone
	}
	return s
}

func (r *fakeOrderRepo) restore(s map[string]entity.Order) {
	r.orders = map[string]*entity.Order{}
	for id, o := range s {
		clone := o
		r.orders[id] = &clone
	}
}

// fakeTxRunner ejecuta fn sobre los repos compartidos y deshace los cambios si
// fn devuelve error (rollback), igual que el runner real sobre PostgreSQL.
type fakeTxRunner struct {
	orders   *fakeOrderRepo
	products *fakeProductRepo
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.OrderRepository, repository.ProductRepository) error) error {
	ordersSnap := t.orders.snapshot()
	productsSnap := t.products.snapshot()
	if err := fn(t.orders, t.products); err != nil {
		t.orders.restore(ordersSnap)
		t.products.restore(productsSnap)
		return err
	}
	return nil
}

// fakeGateway registra llamadas y puede inspeccionar el estado al momento de la llamada.
type fakeGateway struct {
	calls     int
	lastOrder string
	onCreate  func(orderID string)
	fail      bool
}

func (g *fakeGateway) CreateSession(_ context.Context, orderID string, amount decimal.Decimal, provider string) (*checkout.PaymentSession, error) {
	g.calls++
	g.lastOrder = orderID
	if g.onCreate != nil {
		g.onCreate(orderID)
	}
	if g.fail {
		return nil, errors.New("pasarela caída")
	}
	return &checkout.PaymentSession{
		RedirectURL: "https://checkout.example/pay/" + orderID,
		SessionRef:  "sess_" + orderID,
	}, nil
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newCheckoutFixture(products ...*entity.Product) (*checkout.CheckoutUseCase, *fakeOrderRepo, *fakeProductRepo, *fakeGateway) {
	productRepo := newFakeProductRepo(products...)
	orderRepo := newFakeOrderRepo()
	gateway := &fakeGateway{}
	uc := checkout.NewCheckoutUseCase(&fakeTxRunner{orders: orderRepo, products: productRepo}, productRepo, orderRepo, gateway)
	return uc, orderRepo, productRepo, gateway
}

func activeProduct(id, priceStr string, stock int) *entity.Product {
	return &entity.Product{ID: id, SellerID: "seller-1", Name: id, Slug: id, Price: price(priceStr), Stock: stock, IsActive: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// InitiateCheckout
// ──────────────────────────────────────────────────────────────────────────────

func TestInitiateCheckout_TotalDesdePreciosAlmacenados(t *testing.T) {
	uc, orderRepo, _, gateway := newCheckoutFixture(
		activeProduct("P1", "1990.50", 10),
		activeProduct("P2", "500", 10),
	)

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items: []dto.CheckoutItem{
			{ProductID: "P1", Quantity: 3},
			{ProductID: "P2", Quantity: 2},
		},
	})
	require.NoError(t, err)

	// 3×1990.50 + 2×500 = 6971.50, calculado solo desde la BD.
	assert.True(t, price("6971.50").Equal(out.Total), "total = %s", out.Total)
	assert.Equal(t, 1, gateway.calls)
	assert.NotEmpty(t, out.RedirectURL)

	order, err := orderRepo.GetByID(out.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.True(t, price("1990.50").Equal(order.Items[0].UnitPrice), "la línea guarda snapshot del precio")
}

func TestInitiateCheckout_SnapshotDePrecioInmuneACambios(t *testing.T) {
	uc, orderRepo, productRepo, _ := newCheckoutFixture(activeProduct("P1", "1000", 10))

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderWebpay,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 1}},
	})
	require.NoError(t, err)

	// Subida de precio después del checkout.
	p, _ := productRepo.GetByID("P1")
	p.Price = price("9999")
	require.NoError(t, productRepo.Update(p))

	order, _ := orderRepo.GetByID(out.OrderID)
	assert.True(t, price("1000").Equal(order.Items[0].UnitPrice),
		"el cambio de precio no altera la orden ya creada")
}

func TestInitiateCheckout_StockInsuficienteNoCreaOrden(t *testing.T) {
	uc, orderRepo, _, gateway := newCheckoutFixture(activeProduct("P1", "1000", 3))

	_, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)
	assert.Empty(t, orderRepo.orders, "no debe quedar ninguna orden creada")
	assert.Equal(t, 0, gateway.calls)
}

func TestInitiateCheckout_ProductoInexistenteOInactivo(t *testing.T) {
	inactive := activeProduct("P2", "500", 10)
	inactive.IsActive = false
	uc, _, _, _ := newCheckoutFixture(activeProduct("P1", "1000", 10), inactive)

	_, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductoNoEncontrado)

	_, err = uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P2", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductoNoEncontrado, "un producto despublicado no es comprable")
}

func TestInitiateCheckout_ProveedorInvalido(t *testing.T) {
	uc, _, _, gateway := newCheckoutFixture(activeProduct("P1", "1000", 10))

	_, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: "PAYPAL",
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProveedorInvalido)
	assert.Equal(t, 0, gateway.calls)
}

func TestInitiateCheckout_CarritoVacio(t *testing.T) {
	uc, _, _, _ := newCheckoutFixture()

	_, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestInitiateCheckout_PasarelaSeLlamaConLaOrdenYaCommiteada(t *testing.T) {
	uc, orderRepo, _, gateway := newCheckoutFixture(activeProduct("P1", "1000", 10))

	gateway.onCreate = func(orderID string) {
		order, err := orderRepo.GetByID(orderID)
		require.NoError(t, err)
		require.NotNil(t, order, "la orden debe existir antes de llamar a la pasarela")
	}

	_, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, gateway.calls)
}

func TestInitiateCheckout_NoDecrementaStock(t *testing.T) {
	uc, _, productRepo, _ := newCheckoutFixture(activeProduct("P1", "1000", 10))

	_, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 4}},
	})
	require.NoError(t, err)

	p, _ := productRepo.GetByID("P1")
	assert.Equal(t, 10, p.Stock, "el checkout no reserva stock; el decremento es del fulfillment")
}

// ──────────────────────────────────────────────────────────────────────────────
// FulfillOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestFulfillOrder_DecrementaPorLineaYMarcaPaid(t *testing.T) {
	uc, orderRepo, productRepo, _ := newCheckoutFixture(
		activeProduct("P1", "1000", 10),
		activeProduct("P2", "500", 10),
	)

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items: []dto.CheckoutItem{
			{ProductID: "P1", Quantity: 2},
			{ProductID: "P2", Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.NoError(t, uc.FulfillOrder(context.Background(), out.OrderID))

	order, _ := orderRepo.GetByID(out.OrderID)
	assert.Equal(t, entity.OrderStatusPaid, order.Status)

	p1, _ := productRepo.GetByID("P1")
	p2, _ := productRepo.GetByID("P2")
	assert.Equal(t, 8, p1.Stock)
	assert.Equal(t, 9, p2.Stock)
}

func TestFulfillOrder_IdempotenteAnteConfirmacionesDuplicadas(t *testing.T) {
	uc, _, productRepo, _ := newCheckoutFixture(activeProduct("P1", "1000", 10))

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.FulfillOrder(context.Background(), out.OrderID))
	require.NoError(t, uc.FulfillOrder(context.Background(), out.OrderID), "la segunda confirmación es no-op")

	p, _ := productRepo.GetByID("P1")
	assert.Equal(t, 7, p.Stock, "el stock se decrementa exactamente una vez")
}

func TestFulfillOrder_OrdenInexistente(t *testing.T) {
	uc, _, _, _ := newCheckoutFixture()
	err := uc.FulfillOrder(context.Background(), "ORD-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFulfillOrder_StockInsuficienteDejaTodoIntacto(t *testing.T) {
	uc, orderRepo, productRepo, _ := newCheckoutFixture(
		activeProduct("P1", "1000", 5),
		activeProduct("P2", "500", 5),
	)

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items: []dto.CheckoutItem{
			{ProductID: "P1", Quantity: 2},
			{ProductID: "P2", Quantity: 4},
		},
	})
	require.NoError(t, err)

	// Otro checkout se llevó el stock de P2 antes de esta confirmación.
	ok, err := productRepo.DecrementStock("P2", 3)
	require.NoError(t, err)
	require.True(t, ok)

	err = uc.FulfillOrder(context.Background(), out.OrderID)
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	// Rollback total: ni decremento parcial de P1 ni transición de estado.
	order, _ := orderRepo.GetByID(out.OrderID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	p1, _ := productRepo.GetByID("P1")
	assert.Equal(t, 5, p1.Stock, "el decremento de P1 debe deshacerse con el rollback")
}

// ──────────────────────────────────────────────────────────────────────────────
// HandlePaymentConfirmation
// ──────────────────────────────────────────────────────────────────────────────

func TestHandlePaymentConfirmation_CompletadoEjecutaFulfillment(t *testing.T) {
	uc, orderRepo, _, _ := newCheckoutFixture(activeProduct("P1", "1000", 10))

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 1}},
	})
	require.NoError(t, err)

	err = uc.HandlePaymentConfirmation(context.Background(), dto.PaymentEvent{
		Type: checkout.EventPaymentCompleted, OrderRef: out.OrderID,
	})
	require.NoError(t, err)

	order, _ := orderRepo.GetByID(out.OrderID)
	assert.Equal(t, entity.OrderStatusPaid, order.Status)
}

func TestHandlePaymentConfirmation_FallidoNoMutaEstado(t *testing.T) {
	uc, orderRepo, productRepo, _ := newCheckoutFixture(activeProduct("P1", "1000", 10))

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 1}},
	})
	require.NoError(t, err)

	err = uc.HandlePaymentConfirmation(context.Background(), dto.PaymentEvent{
		Type: checkout.EventPaymentFailed, OrderRef: out.OrderID,
	})
	require.NoError(t, err)

	order, _ := orderRepo.GetByID(out.OrderID)
	assert.Equal(t, entity.OrderStatusPending, order.Status, "queda para manejo manual")
	p, _ := productRepo.GetByID("P1")
	assert.Equal(t, 10, p.Stock)
}

func TestHandlePaymentConfirmation_TipoDesconocido(t *testing.T) {
	uc, _, _, _ := newCheckoutFixture()
	err := uc.HandlePaymentConfirmation(context.Background(), dto.PaymentEvent{Type: "refund.created"})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetOrderForCustomer
// ──────────────────────────────────────────────────────────────────────────────

func TestGetOrderForCustomer_SoloElDueno(t *testing.T) {
	uc, _, _, _ := newCheckoutFixture(activeProduct("P1", "1000", 10))

	out, err := uc.InitiateCheckout(context.Background(), "cust-1", dto.CheckoutRequest{
		Provider: entity.ProviderStripe,
		Items:    []dto.CheckoutItem{{ProductID: "P1", Quantity: 1}},
	})
	require.NoError(t, err)

	order, err := uc.GetOrderForCustomer("cust-1", out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", order.CustomerID)

	_, err = uc.GetOrderForCustomer("cust-2", out.OrderID)
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)
}
