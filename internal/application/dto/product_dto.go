package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// CompanyID es opcional: sin él se usa la primera empresa del usuario.
type CreateProductRequest struct {
	CompanyID   string          `json:"empresa_id"`
	Name        string          `json:"nombre" validate:"required,min=1,max=200"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen"`
	Available   *bool           `json:"disponible"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name        *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio"`
	ImageURL    *string          `json:"imagen"`
	Available   *bool            `json:"disponible"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"empresa"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen"`
	Available   bool            `json:"disponible"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
