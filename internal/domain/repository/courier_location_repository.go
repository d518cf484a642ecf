package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// ActiveCourier ubicación de un repartidor junto con sus datos de contacto.
type ActiveCourier struct {
	Location  entity.CourierLocation
	FirstName string
	LastName  string
	Email     string
}

// CourierLocationRepository guarda la última ubicación de cada repartidor.
type CourierLocationRepository interface {
	// Upsert crea o actualiza la fila del repartidor en una sola operación atómica.
	// created indica si la fila es nueva.
	Upsert(ctx context.Context, courierID string, lat, lng float64, at time.Time) (loc *entity.CourierLocation, created bool, err error)
	// ListActiveSince devuelve las ubicaciones con timestamp > since.
	ListActiveSince(ctx context.Context, since time.Time) ([]ActiveCourier, error)
}
