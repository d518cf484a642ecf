package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pendiente"
	OrderStatusPreparing OrderStatus = "en_proceso"
	OrderStatusShipped   OrderStatus = "enviado"
	OrderStatusDelivered OrderStatus = "entregado"
	OrderStatusCanceled  OrderStatus = "cancelado"
)

// Valid informa si el estado es conocido.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo aplica el ciclo pendiente → en_proceso → enviado → entregado.
// cancelado solo desde pendiente o en_proceso.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case OrderStatusPreparing:
		return s == OrderStatusPending
	case OrderStatusShipped:
		return s == OrderStatusPending || s == OrderStatusPreparing
	case OrderStatusDelivered:
		return s == OrderStatusShipped
	case OrderStatusCanceled:
		return s == OrderStatusPending || s == OrderStatusPreparing
	default:
		return false
	}
}

// Order (pedido) pertenece a una empresa y a un cliente; opcionalmente a un repartidor.
type Order struct {
	ID        string
	CompanyID string
	ClientID  string
	CourierID *string // nil = sin asignar
	AddressID *string
	Status    OrderStatus
	Items     []OrderItem
	Total     decimal.Decimal
	PlacedAt  time.Time
	UpdatedAt time.Time
	// Contact datos de entrega para el repartidor; se arma al leer, no se persiste con el pedido.
	Contact OrderContact
}

// OrderContact resumen del cliente y de la dirección de entrega de un pedido.
type OrderContact struct {
	ClientName  string
	ClientPhone string
	AddressName string
	Address     string
	Reference   string
	Latitude    *float64
	Longitude   *float64
}

// NewOrderContact arma el resumen; addr puede ser nil (pedido sin dirección).
func NewOrderContact(client *User, addr *DeliveryAddress) OrderContact {
	var c OrderContact
	if client != nil {
		c.ClientName = client.DisplayName()
		c.ClientPhone = client.Phone
	}
	if addr != nil {
		c.AddressName = addr.Name
		c.Address = addr.Address
		c.Reference = addr.Reference
		c.Latitude = addr.Latitude
		c.Longitude = addr.Longitude
	}
	return c
}

// OrderItem línea del pedido. UnitPrice se copia del producto al crear el pedido.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Unassigned informa si ningún repartidor tomó el pedido.
func (o *Order) Unassigned() bool { return o.CourierID == nil || *o.CourierID == "" }

// AssignedTo informa si el pedido está asignado al repartidor.
func (o *Order) AssignedTo(courierID string) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}

// RecalculateTotal suma los subtotales de las líneas.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(o.Items[i].Quantity)))
		total = total.Add(o.Items[i].Subtotal)
	}
	o.Total = total
}
