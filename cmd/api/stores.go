package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mercado-api/internal/application/ordering"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
	"github.com/jhoicas/mercado-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mercado-api/pkg/config"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

// stores repositorios del driver elegido con STORAGE_DRIVER.
type stores struct {
	users       repository.UserRepository
	companies   repository.CompanyRepository
	products    repository.ProductRepository
	carts       repository.CartRepository
	orders      repository.OrderRepository
	couriers    repository.CourierLocationRepository
	addresses   repository.AddressRepository
	idempotency repository.IdempotencyRepository
	analytics   repository.AnalyticsRepository
	tx          ordering.TxRunner
	close       func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		st := memory.NewStore()
		return &stores{
			users:       st.Users(),
			companies:   st.Companies(),
			products:    st.Products(),
			carts:       st.Carts(),
			orders:      st.Orders(),
			couriers:    st.Couriers(),
			addresses:   st.Addresses(),
			idempotency: st.Idempotency(),
			analytics:   st.Analytics(),
			tx:          st,
			close:       func() {},
		}, nil
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.NewMigrator(pool, log.Component("migrator")).Up(ctx, 0); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		return postgresStores(pool), nil
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
	}
}

func postgresStores(pool *pgxpool.Pool) *stores {
	return &stores{
		users:       postgres.NewUserRepository(pool),
		companies:   postgres.NewCompanyRepository(pool),
		products:    postgres.NewProductRepository(pool),
		carts:       postgres.NewCartRepository(pool),
		orders:      postgres.NewOrderRepository(pool),
		couriers:    postgres.NewCourierLocationRepository(pool),
		addresses:   postgres.NewAddressRepository(pool),
		idempotency: postgres.NewIdempotencyRepository(pool),
		analytics:   postgres.NewAnalyticsRepository(pool),
		tx:          postgres.NewTxRunner(pool),
		close:       pool.Close,
	}
}
