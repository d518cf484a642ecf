package entity

import "time"

// CourierLocation última posición conocida de un repartidor (una fila por repartidor).
type CourierLocation struct {
	ID        string
	CourierID string
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

// ActiveAt informa si la ubicación está dentro de la ventana que termina en now.
func (l *CourierLocation) ActiveAt(now time.Time, window time.Duration) bool {
	return now.Sub(l.Timestamp) < window
}
