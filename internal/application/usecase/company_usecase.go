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

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
// Las operaciones "Owned" solo ven las empresas del principal; cualquier otra responde ErrNotFound.
type CompanyUseCase struct {
	repo        repository.CompanyRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, productRepo repository.ProductRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, productRepo: productRepo, now: time.Now}
}

// Create crea una empresa. El dueño es siempre el principal, aunque el cliente envíe otro.
func (uc *CompanyUseCase) Create(ctx context.Context, p entity.Principal, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("nombre", "nombre requerido")
	}
	now := uc.now().UTC()
	company := &entity.Company{
		ID:          uuid.New().String(),
		OwnerID:     p.ID,
		Name:        name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// ListOwned lista las empresas del principal, de la más antigua a la más reciente.
func (uc *CompanyUseCase) ListOwned(ctx context.Context, p entity.Principal) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return toCompanyList(list), nil
}

// GetOwned obtiene una empresa del principal.
func (uc *CompanyUseCase) GetOwned(ctx context.Context, p entity.Principal, id string) (*dto.CompanyResponse, error) {
	company, err := uc.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// UpdateOwned actualiza los campos enviados de una empresa del principal.
func (uc *CompanyUseCase) UpdateOwned(ctx context.Context, p entity.Principal, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("nombre", "nombre requerido")
		}
		company.Name = name
	}
	if in.Description != nil {
		company.Description = *in.Description
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	company.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// DeleteOwned borra una empresa del principal junto con sus productos.
func (uc *CompanyUseCase) DeleteOwned(ctx context.Context, p entity.Principal, id string) error {
	if _, err := uc.owned(ctx, p, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ListPublic lista todas las empresas; search filtra por nombre sin distinguir mayúsculas.
func (uc *CompanyUseCase) ListPublic(ctx context.Context, search string) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.Search(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	return toCompanyList(list), nil
}

// ListProductsOf lista los productos de una empresa (público). ErrNotFound si la empresa no existe.
func (uc *CompanyUseCase) ListProductsOf(ctx context.Context, companyID string) ([]dto.ProductResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.productRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

func (uc *CompanyUseCase) owned(ctx context.Context, p entity.Principal, id string) (*entity.Company, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.OwnedBy(p.ID) {
		return nil, domain.ErrNotFound
	}
	return company, nil
}
