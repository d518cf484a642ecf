package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para reportes de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// OrderTotalsSince totales de los pedidos de las empresas del dueño desde since.
// El agrupado por día se hace en Go para respetar la zona horaria configurada.
func (r *AnalyticsRepo) OrderTotalsSince(ctx context.Context, ownerID string, since time.Time) ([]repository.OrderTotal, error) {
	out := make([]repository.OrderTotal, 0)
	if !validID(ownerID) {
		return out, nil
	}
	const query = `
	SELECT o.id, o.total, o.placed_at
	FROM orders o
	JOIN companies c ON c.id = o.company_id
	WHERE c.owner_id = $1
	  AND o.placed_at >= $2
	ORDER BY o.placed_at`

	rows, err := r.q.Query(ctx, query, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("analytics.OrderTotalsSince: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row repository.OrderTotal
		if err := rows.Scan(&row.OrderID, &row.Total, &row.PlacedAt); err != nil {
			return nil, fmt.Errorf("analytics.OrderTotalsSince scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
