package entity

import "time"

// DeliveryAddress dirección de entrega guardada por un usuario.
type DeliveryAddress struct {
	ID        string
	UserID    string
	Name      string
	Address   string
	Reference string
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
