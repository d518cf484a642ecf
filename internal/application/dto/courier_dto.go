package dto

import "time"

// CourierLocationRequest cuerpo de POST /courier-location. Los punteros distinguen ausente de 0.
type CourierLocationRequest struct {
	Latitude  *float64 `json:"latitud"`
	Longitude *float64 `json:"longitud"`
}

// CourierLocationResponse ubicación guardada.
type CourierLocationResponse struct {
	ID        string    `json:"id"`
	CourierID string    `json:"repartidor"`
	Latitude  float64   `json:"latitud"`
	Longitude float64   `json:"longitud"`
	Timestamp time.Time `json:"timestamp"`
}

// CourierUpsertResponse resultado del upsert: status es "creada" o "actualizada".
type CourierUpsertResponse struct {
	Status   string                  `json:"status"`
	Message  string                  `json:"message"`
	Location CourierLocationResponse `json:"data"`
}

// ActiveCourierResponse repartidor con ubicación reciente.
type ActiveCourierResponse struct {
	CourierID   string    `json:"repartidor_id"`
	CourierName string    `json:"repartidor_nombre"`
	Latitude    float64   `json:"latitud"`
	Longitude   float64   `json:"longitud"`
	Timestamp   time.Time `json:"timestamp"`
	Active      bool      `json:"activo"`
}

// ActiveCouriersResponse listado de repartidores activos.
type ActiveCouriersResponse struct {
	Message string                  `json:"message"`
	Count   int                     `json:"count"`
	Data    []ActiveCourierResponse `json:"data"`
}
