package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// Estados del upsert de ubicación.
const (
	LocationCreated = "creada"
	LocationUpdated = "actualizada"
)

// CourierConfig parámetros del seguimiento.
type CourierConfig struct {
	ActiveWindow time.Duration
	// LegacyZeroCoordinates: una coordenada 0 cuenta como ausente.
	LegacyZeroCoordinates bool
}

// CourierUseCase guarda la última ubicación de cada repartidor y lista los activos.
type CourierUseCase struct {
	repo repository.CourierLocationRepository
	cfg  CourierConfig
	now  func() time.Time
}

// NewCourierUseCase construye el caso de uso. Una ventana <= 0 usa 30 minutos.
func NewCourierUseCase(repo repository.CourierLocationRepository, cfg CourierConfig) *CourierUseCase {
	if cfg.ActiveWindow <= 0 {
		cfg.ActiveWindow = 30 * time.Minute
	}
	return &CourierUseCase{repo: repo, cfg: cfg, now: time.Now}
}

func (uc *CourierUseCase) missing(v *float64) bool {
	if v == nil {
		return true
	}
	return uc.cfg.LegacyZeroCoordinates && *v == 0
}

// Upsert crea o actualiza la ubicación del principal con timestamp = ahora.
func (uc *CourierUseCase) Upsert(ctx context.Context, p entity.Principal, lat, lng *float64) (*dto.CourierUpsertResponse, error) {
	if uc.missing(lat) || uc.missing(lng) {
		return nil, domain.NewValidationError("latitud", "latitud y longitud son requeridos")
	}
	if *lat < -90 || *lat > 90 {
		return nil, domain.NewValidationError("latitud", "latitud fuera de rango (-90, 90)")
	}
	if *lng < -180 || *lng > 180 {
		return nil, domain.NewValidationError("longitud", "longitud fuera de rango (-180, 180)")
	}

	loc, created, err := uc.repo.Upsert(ctx, p.ID, *lat, *lng, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	status := LocationUpdated
	if created {
		status = LocationCreated
	}
	return &dto.CourierUpsertResponse{
		Status:  status,
		Message: "Ubicación " + status + " exitosamente",
		Location: dto.CourierLocationResponse{
			ID:        loc.ID,
			CourierID: loc.CourierID,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Timestamp: loc.Timestamp,
		},
	}, nil
}

// ListActive repartidores con ubicación dentro de la ventana activa.
func (uc *CourierUseCase) ListActive(ctx context.Context) (*dto.ActiveCouriersResponse, error) {
	now := uc.now().UTC()
	list, err := uc.repo.ListActiveSince(ctx, now.Add(-uc.cfg.ActiveWindow))
	if err != nil {
		return nil, err
	}
	data := make([]dto.ActiveCourierResponse, 0, len(list))
	for _, ac := range list {
		if !ac.Location.ActiveAt(now, uc.cfg.ActiveWindow) {
			continue
		}
		data = append(data, dto.ActiveCourierResponse{
			CourierID:   ac.Location.CourierID,
			CourierName: entity.DisplayName(ac.FirstName, ac.LastName, ac.Email),
			Latitude:    ac.Location.Latitude,
			Longitude:   ac.Location.Longitude,
			Timestamp:   ac.Location.Timestamp,
			Active:      true,
		})
	}
	return &dto.ActiveCouriersResponse{
		Message: "Ubicaciones obtenidas exitosamente",
		Count:   len(data),
		Data:    data,
	}, nil
}
