package repository

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// AddressRepository persiste las direcciones de entrega.
type AddressRepository interface {
	Create(ctx context.Context, addr *entity.DeliveryAddress) error
	GetByID(ctx context.Context, id string) (*entity.DeliveryAddress, error)
	Update(ctx context.Context, addr *entity.DeliveryAddress) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.DeliveryAddress, error)
}
