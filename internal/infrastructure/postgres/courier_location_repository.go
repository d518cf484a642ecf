package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.CourierLocationRepository = (*CourierLocationRepo)(nil)

// CourierLocationRepo última ubicación por repartidor (courier_id UNIQUE).
type CourierLocationRepo struct {
	q Querier
}

// NewCourierLocationRepository construye el adaptador de ubicaciones.
func NewCourierLocationRepository(q Querier) *CourierLocationRepo {
	return &CourierLocationRepo{q: q}
}

// Upsert crea o actualiza en una sola sentencia. xmax = 0 solo en filas recién insertadas.
func (r *CourierLocationRepo) Upsert(ctx context.Context, courierID string, lat, lng float64, at time.Time) (*entity.CourierLocation, bool, error) {
	if !validID(courierID) {
		return nil, false, domain.ErrUserNotFound
	}
	var (
		loc     entity.CourierLocation
		created bool
	)
	err := r.q.QueryRow(ctx, `
		INSERT INTO courier_locations (id, courier_id, latitude, longitude, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (courier_id) DO UPDATE
		SET latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, recorded_at = EXCLUDED.recorded_at
		RETURNING id, courier_id, latitude, longitude, recorded_at, (xmax = 0)`,
		uuid.New().String(), courierID, lat, lng, at,
	).Scan(&loc.ID, &loc.CourierID, &loc.Latitude, &loc.Longitude, &loc.Timestamp, &created)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, false, domain.ErrUserNotFound
		}
		return nil, false, fmt.Errorf("upsert courier location: %w", err)
	}
	return &loc, created, nil
}

// ListActiveSince ubicaciones con recorded_at > since, la más reciente primero.
func (r *CourierLocationRepo) ListActiveSince(ctx context.Context, since time.Time) ([]repository.ActiveCourier, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.courier_id, l.latitude, l.longitude, l.recorded_at,
		       u.first_name, u.last_name, u.email
		FROM courier_locations l
		JOIN users u ON u.id = l.courier_id
		WHERE l.recorded_at > $1
		ORDER BY l.recorded_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("list active couriers: %w", err)
	}
	defer rows.Close()

	out := make([]repository.ActiveCourier, 0)
	for rows.Next() {
		var a repository.ActiveCourier
		if err := rows.Scan(
			&a.Location.ID, &a.Location.CourierID, &a.Location.Latitude, &a.Location.Longitude,
			&a.Location.Timestamp, &a.FirstName, &a.LastName, &a.Email,
		); err != nil {
			return nil, fmt.Errorf("scan courier location: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
