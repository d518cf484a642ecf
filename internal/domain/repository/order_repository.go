package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// OrderFilter restringe los pedidos visibles. Los campos no vacíos se combinan con AND,
// salvo CourierID + IncludeUnassigned que se combinan con OR entre sí.
type OrderFilter struct {
	None              bool   // no devuelve nada
	OrderID           string // un pedido concreto
	ClientID          string
	CompanyOwnerID    string // pedidos de las empresas de este usuario
	CourierID         string
	IncludeUnassigned bool // con CourierID: courier IS NULL OR courier = CourierID
	PlacedSince       time.Time
}

// Matches evalúa el filtro en memoria. companyOwner resuelve el dueño de una empresa.
func (f OrderFilter) Matches(o *entity.Order, companyOwner func(companyID string) string) bool {
	if f.None || o == nil {
		return false
	}
	if f.OrderID != "" && o.ID != f.OrderID {
		return false
	}
	if f.ClientID != "" && o.ClientID != f.ClientID {
		return false
	}
	if f.CompanyOwnerID != "" && companyOwner(o.CompanyID) != f.CompanyOwnerID {
		return false
	}
	if f.CourierID != "" {
		if !o.AssignedTo(f.CourierID) && !(f.IncludeUnassigned && o.Unassigned()) {
			return false
		}
	} else if f.IncludeUnassigned && !o.Unassigned() {
		return false
	}
	if !f.PlacedSince.IsZero() && o.PlacedAt.Before(f.PlacedSince) {
		return false
	}
	return true
}

// OrderRepository persiste pedidos con sus líneas.
type OrderRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// List devuelve los pedidos que cumplen el filtro, del más reciente al más antiguo.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	// Update persiste estado, repartidor y dirección.
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
}
