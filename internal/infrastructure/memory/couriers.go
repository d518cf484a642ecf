package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.CourierLocationRepository = (*CourierRepo)(nil)

// CourierRepo ubicaciones de repartidores en memoria, una por repartidor.
type CourierRepo struct{ s *session }

func (r *CourierRepo) Upsert(_ context.Context, courierID string, lat, lng float64, at time.Time) (*entity.CourierLocation, bool, error) {
	defer r.s.lock()()
	st := r.s.state()
	loc, exists := st.locations[courierID]
	if !exists {
		loc = entity.CourierLocation{ID: uuid.New().String(), CourierID: courierID}
	}
	loc.Latitude = lat
	loc.Longitude = lng
	loc.Timestamp = at
	st.locations[courierID] = loc
	return &loc, !exists, nil
}

func (r *CourierRepo) ListActiveSince(_ context.Context, since time.Time) ([]repository.ActiveCourier, error) {
	defer r.s.lock()()
	st := r.s.state()
	out := make([]repository.ActiveCourier, 0)
	for _, loc := range st.locations {
		if !loc.Timestamp.After(since) {
			continue
		}
		u := st.users[loc.CourierID]
		out = append(out, repository.ActiveCourier{
			Location:  loc,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location.Timestamp.After(out[j].Location.Timestamp)
	})
	return out, nil
}
