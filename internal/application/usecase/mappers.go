package usecase

import (
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		Phone:       c.Phone,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCompanyList(list []*entity.Company) []dto.CompanyResponse {
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return items
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductList(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toCartResponse(c *entity.Cart) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(c.Items))
	for i := range c.Items {
		it := c.Items[i]
		items = append(items, dto.CartItemResponse{
			ID:       it.ID,
			Product:  toProductResponse(it.Product),
			Quantity: it.Quantity,
		})
	}
	return &dto.CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toAddressResponse(a *entity.DeliveryAddress) *dto.AddressResponse {
	return &dto.AddressResponse{
		ID:        a.ID,
		Name:      a.Name,
		Address:   a.Address,
		Reference: a.Reference,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		CreatedAt: a.CreatedAt,
	}
}
