package repository

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. GetByID devuelve (nil, nil) si no existe.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, id string) error
	// ListByOwner ordena por (created_at, id) ascendente: el primero es la "primera empresa".
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Company, error)
	// Search filtra por nombre (subcadena, sin distinguir mayúsculas). term vacío = todas.
	Search(ctx context.Context, term string) ([]*entity.Company, error)
}
