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
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso CRUD para productos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	companyRepo repository.CompanyRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, companyRepo repository.CompanyRepository, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, companyRepo: companyRepo, log: log, now: time.Now}
}

// Create crea un producto. Solo el rol empresa con al menos una empresa puede crear.
// Si no se envía empresa_id se usa la primera empresa del principal por (created_at, id).
func (uc *ProductUseCase) Create(ctx context.Context, p entity.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !p.Is(entity.RoleEmpresa) {
		return nil, domain.NewPermissionError("Solo usuarios con rol 'empresa' pueden crear productos.")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("nombre", "nombre requerido")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("precio", "el precio no puede ser negativo")
	}

	company, err := uc.targetCompany(ctx, p, strings.TrimSpace(in.CompanyID))
	if err != nil {
		return nil, err
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Available:   available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) targetCompany(ctx context.Context, p entity.Principal, companyID string) (*entity.Company, error) {
	if companyID != "" {
		company, err := uc.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if company == nil || !company.OwnedBy(p.ID) {
			return nil, domain.NewPermissionError("La empresa indicada no pertenece al usuario.")
		}
		return company, nil
	}

	companies, err := uc.companyRepo.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, domain.NewPermissionError("Usuario no tiene ninguna empresa asociada.")
	}
	uc.log.Warn().
		Str("user_id", p.ID).
		Str("empresa_id", companies[0].ID).
		Int("empresas", len(companies)).
		Msg("producto sin empresa_id: se asigna a la primera empresa del usuario")
	return companies[0], nil
}

// ListOwned lista los productos de todas las empresas del principal. Vacío si el rol no es empresa.
func (uc *ProductUseCase) ListOwned(ctx context.Context, p entity.Principal) ([]dto.ProductResponse, error) {
	if !p.Is(entity.RoleEmpresa) {
		return []dto.ProductResponse{}, nil
	}
	list, err := uc.repo.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// GetOwned obtiene un producto de una empresa del principal.
func (uc *ProductUseCase) GetOwned(ctx context.Context, p entity.Principal, id string) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// UpdateOwned actualiza los campos enviados.
func (uc *ProductUseCase) UpdateOwned(ctx context.Context, p entity.Principal, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("nombre", "nombre requerido")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError("precio", "el precio no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Available != nil {
		product.Available = *in.Available
	}
	product.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// DeleteOwned borra un producto del principal.
func (uc *ProductUseCase) DeleteOwned(ctx context.Context, p entity.Principal, id string) error {
	if _, err := uc.owned(ctx, p, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ListPublic lista todos los productos; search filtra por nombre.
func (uc *ProductUseCase) ListPublic(ctx context.Context, search string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.Search(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

func (uc *ProductUseCase) owned(ctx context.Context, p entity.Principal, id string) (*entity.Product, error) {
	if !p.Is(entity.RoleEmpresa) {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	company, err := uc.companyRepo.GetByID(ctx, product.CompanyID)
	if err != nil {
		return nil, err
	}
	if !company.OwnedBy(p.ID) {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
