package repository

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error)
	// ListByOwner devuelve los productos de todas las empresas del usuario.
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error)
	Search(ctx context.Context, term string) ([]*entity.Product, error)
}
