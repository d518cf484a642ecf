package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderTotal fila cruda para reportes de ventas: solo el total y la fecha del pedido.
// Lo produce la DB; el use case agrupa y convierte en DTO.
type OrderTotal struct {
	OrderID  string
	Total    decimal.Decimal
	PlacedAt time.Time
}

// AnalyticsRepository define las consultas de lectura para reportes de ventas.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// OrderTotalsSince devuelve los totales de los pedidos de todas las empresas del dueño
	// con fecha_pedido >= since.
	OrderTotalsSince(
		ctx context.Context,
		ownerID string,
		since time.Time,
	) ([]OrderTotal, error)
}
