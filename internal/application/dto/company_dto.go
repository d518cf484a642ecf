package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa. El dueño es siempre el usuario autenticado.
type CreateCompanyRequest struct {
	Name        string `json:"nombre" validate:"required,min=1,max=200"`
	Description string `json:"descripcion"`
	Address     string `json:"direccion"`
	Phone       string `json:"telefono"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name        *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Description *string `json:"descripcion"`
	Address     *string `json:"direccion"`
	Phone       *string `json:"telefono"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"usuario"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Address     string    `json:"direccion"`
	Phone       string    `json:"telefono"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
