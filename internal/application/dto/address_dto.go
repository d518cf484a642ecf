package dto

import "time"

// AddressRequest cuerpo de creación y actualización de direcciones.
type AddressRequest struct {
	Name      string   `json:"nombre" validate:"required"`
	Address   string   `json:"direccion" validate:"required"`
	Reference string   `json:"referencia"`
	Latitude  *float64 `json:"latitud"`
	Longitude *float64 `json:"longitud"`
}

// AddressResponse dirección de entrega.
type AddressResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Address   string    `json:"direccion"`
	Reference string    `json:"referencia"`
	Latitude  *float64  `json:"latitud"`
	Longitude *float64  `json:"longitud"`
	CreatedAt time.Time `json:"created_at"`
}
