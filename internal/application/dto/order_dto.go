package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest ítem de un pedido. Cantidad por defecto 1.
type OrderItemRequest struct {
	ProductID string `json:"producto_id"`
	Quantity  *int   `json:"cantidad"`
}

// CreateOrderRequest un pedido para una empresa.
type CreateOrderRequest struct {
	CompanyID string             `json:"empresa_id"`
	AddressID string             `json:"direccion_id"`
	Items     []OrderItemRequest `json:"items"`
}

// CreateOrdersBatchRequest cuerpo de POST /orders/crear-multiple.
// Acepta la lista en "pedidos" o en "orders".
type CreateOrdersBatchRequest struct {
	Pedidos []CreateOrderRequest `json:"pedidos"`
	Orders  []CreateOrderRequest `json:"orders"`
}

// List devuelve la lista enviada, priorizando "pedidos".
func (r CreateOrdersBatchRequest) List() []CreateOrderRequest {
	if r.Pedidos != nil {
		return r.Pedidos
	}
	return r.Orders
}

// UpdateOrderRequest cuerpo de PATCH /orders/:id.
type UpdateOrderRequest struct {
	Status    *string `json:"estado"`
	CourierID *string `json:"repartidor_id"`
}

// OrderItemResponse línea de un pedido.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"producto"`
	ProductName string          `json:"producto_nombre"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID        string              `json:"id"`
	CompanyID string              `json:"empresa"`
	ClientID  string              `json:"cliente"`
	CourierID *string             `json:"repartidor"`
	AddressID *string             `json:"direccion"`
	Status    string              `json:"estado"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	PlacedAt  time.Time           `json:"fecha_pedido"`
	UpdatedAt time.Time           `json:"updated_at"`

	ClientName       string   `json:"cliente_nombre"`
	ClientPhone      string   `json:"cliente_telefono"`
	AddressName      string   `json:"direccion_nombre"`
	AddressLine      string   `json:"direccion_completa"`
	AddressReference string   `json:"direccion_referencia"`
	AddressLatitude  *float64 `json:"direccion_latitud"`
	AddressLongitude *float64 `json:"direccion_longitud"`
}

// OrdersBatchResponse respuesta 201 de la creación múltiple.
type OrdersBatchResponse struct {
	Orders []OrderResponse `json:"pedidos"`
}

// WeeklySalesResponse ventas de los últimos 7 días agrupadas por día de la semana.
type WeeklySalesResponse struct {
	Labels []string          `json:"labels"`
	Sales  []decimal.Decimal `json:"ventas"`
}
