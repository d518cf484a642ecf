package ordering

import (
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Deps dependencias del motor de pedidos. Publisher, Metrics y Receipts son opcionales.
type Deps struct {
	Tx          TxRunner
	Companies   repository.CompanyRepository
	Products    repository.ProductRepository
	Orders      repository.OrderRepository
	Addresses   repository.AddressRepository
	Users       repository.UserRepository
	Idempotency repository.IdempotencyRepository
	Publisher   EventPublisher
	Metrics     OrderMetrics
	Receipts    ReceiptGenerator
	Log         zerolog.Logger
	// IdempotencyTTL vida de una clave con respuesta guardada; 0 usa 24h.
	IdempotencyTTL time.Duration
	// IdempotencyLease vida de una clave en processing; 0 usa 2 minutos.
	IdempotencyLease time.Duration
}

// Service motor de pedidos: creación atómica, alcance por rol, historial y cambios de estado.
type Service struct {
	tx        TxRunner
	companies repository.CompanyRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	users     repository.UserRepository
	idem      repository.IdempotencyRepository
	publisher EventPublisher
	metrics   OrderMetrics
	receipts  ReceiptGenerator
	log       zerolog.Logger
	idemTTL   time.Duration
	idemLease time.Duration
	now       func() time.Time
}

// NewService construye el motor de pedidos.
func NewService(d Deps) *Service {
	s := &Service{
		tx:        d.Tx,
		companies: d.Companies,
		products:  d.Products,
		orders:    d.Orders,
		addresses: d.Addresses,
		users:     d.Users,
		idem:      d.Idempotency,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		receipts:  d.Receipts,
		log:       d.Log,
		idemTTL:   d.IdempotencyTTL,
		idemLease: d.IdempotencyLease,
		now:       time.Now,
	}
	if s.publisher == nil {
		s.publisher = nopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.idemTTL <= 0 {
		s.idemTTL = 24 * time.Hour
	}
	if s.idemLease <= 0 {
		s.idemLease = 2 * time.Minute
	}
	return s
}
