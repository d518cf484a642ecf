package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// AddressUseCase direcciones de entrega del principal.
type AddressUseCase struct {
	repo repository.AddressRepository
	now  func() time.Time
}

// NewAddressUseCase construye el caso de uso.
func NewAddressUseCase(repo repository.AddressRepository) *AddressUseCase {
	return &AddressUseCase{repo: repo, now: time.Now}
}

func validateAddress(in dto.AddressRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewValidationError("nombre", "nombre requerido")
	}
	if strings.TrimSpace(in.Address) == "" {
		return domain.NewValidationError("direccion", "direccion requerida")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return domain.NewValidationError("latitud", "latitud fuera de rango")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return domain.NewValidationError("longitud", "longitud fuera de rango")
	}
	return nil
}

// List direcciones del principal.
func (uc *AddressUseCase) List(ctx context.Context, p entity.Principal) ([]dto.AddressResponse, error) {
	list, err := uc.repo.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AddressResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAddressResponse(a))
	}
	return out, nil
}

// Create guarda una dirección para el principal.
func (uc *AddressUseCase) Create(ctx context.Context, p entity.Principal, in dto.AddressRequest) (*dto.AddressResponse, error) {
	if err := validateAddress(in); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	addr := &entity.DeliveryAddress{
		ID:        uuid.New().String(),
		UserID:    p.ID,
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		Reference: strings.TrimSpace(in.Reference),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, addr); err != nil {
		return nil, err
	}
	return toAddressResponse(addr), nil
}

// Get dirección del principal.
func (uc *AddressUseCase) Get(ctx context.Context, p entity.Principal, id string) (*dto.AddressResponse, error) {
	addr, err := uc.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toAddressResponse(addr), nil
}

// Update reemplaza los datos de la dirección.
func (uc *AddressUseCase) Update(ctx context.Context, p entity.Principal, id string, in dto.AddressRequest) (*dto.AddressResponse, error) {
	addr, err := uc.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := validateAddress(in); err != nil {
		return nil, err
	}
	addr.Name = strings.TrimSpace(in.Name)
	addr.Address = strings.TrimSpace(in.Address)
	addr.Reference = strings.TrimSpace(in.Reference)
	addr.Latitude = in.Latitude
	addr.Longitude = in.Longitude
	addr.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, addr); err != nil {
		return nil, err
	}
	return toAddressResponse(addr), nil
}

// Delete borra la dirección.
func (uc *AddressUseCase) Delete(ctx context.Context, p entity.Principal, id string) error {
	if _, err := uc.owned(ctx, p, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *AddressUseCase) owned(ctx context.Context, p entity.Principal, id string) (*entity.DeliveryAddress, error) {
	addr, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if addr == nil || addr.UserID != p.ID {
		return nil, domain.ErrNotFound
	}
	return addr, nil
}
