package ordering

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Un error devuelto por fn deshace todo lo escrito dentro de la transacción, incluida la
// respuesta idempotente guardada con idemRepo.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		addressRepo repository.AddressRepository,
		idemRepo repository.IdempotencyRepository,
	) error) error
}

// EventPublisher publica eventos de pedidos ya confirmados.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *entity.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *entity.Order, previous entity.OrderStatus) error
}

// OrderMetrics contadores de pedidos (prometheus en producción).
type OrderMetrics interface {
	OrdersCreated(n int)
	BatchRejected(reason string)
	StatusChanged(status entity.OrderStatus)
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(order *entity.Order, company *entity.Company, client *entity.User) ([]byte, error)
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderCreated(context.Context, *entity.Order) error { return nil }
func (nopPublisher) PublishOrderStatusChanged(context.Context, *entity.Order, entity.OrderStatus) error {
	return nil
}

type nopMetrics struct{}

func (nopMetrics) OrdersCreated(int)                {}
func (nopMetrics) BatchRejected(string)             {}
func (nopMetrics) StatusChanged(entity.OrderStatus) {}
