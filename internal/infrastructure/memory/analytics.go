package memory

import (
	"context"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de ventas sobre el store en memoria.
type AnalyticsRepo struct{ s *session }

func (r *AnalyticsRepo) OrderTotalsSince(_ context.Context, ownerID string, since time.Time) ([]repository.OrderTotal, error) {
	defer r.s.lock()()
	st := r.s.state()
	out := make([]repository.OrderTotal, 0)
	for _, o := range st.orders {
		if st.companyOwner(o.CompanyID) != ownerID || o.PlacedAt.Before(since) {
			continue
		}
		out = append(out, repository.OrderTotal{OrderID: o.ID, Total: o.Total, PlacedAt: o.PlacedAt})
	}
	return out, nil
}
