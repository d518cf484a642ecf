package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mercado-api/internal/application/ordering"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ ordering.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunOrders inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Todo lo que fn escriba se descarta si devuelve error.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	idemRepo repository.IdempotencyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewCompanyRepository(tx),
		NewProductRepository(tx),
		NewOrderRepository(tx),
		NewAddressRepository(tx),
		NewIdempotencyRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
