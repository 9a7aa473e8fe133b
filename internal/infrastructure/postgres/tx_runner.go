package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coffeelink/marketplace-api/internal/application/business"
	"github.com/coffeelink/marketplace-api/internal/application/checkout"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// Ensure TxRunner implements business.TxRunner and CheckoutTxRunner implements checkout.TxRunner.
var _ business.TxRunner = (*TxRunner)(nil)
var _ checkout.TxRunner = (*CheckoutTxRunner)(nil)

// TxRunner ejecuta callbacks de onboarding dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessProfileRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewUserRepository(tx), NewBusinessProfileRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CheckoutTxRunner ejecuta callbacks de checkout/fulfillment dentro de una transacción.
type CheckoutTxRunner struct {
	pool *pgxpool.Pool
}

// NewCheckoutTxRunner construye el runner con el pool.
func NewCheckoutTxRunner(pool *pgxpool.Pool) *CheckoutTxRunner {
	return &CheckoutTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *CheckoutTxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewOrderRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
