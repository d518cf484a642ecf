package ordering

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// History pedidos del principal según su rol, del más reciente al más antiguo.
func (s *Service) History(ctx context.Context, p entity.Principal) ([]dto.OrderResponse, error) {
	f, err := HistoryFilter(p)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, f)
}

// List pedidos dentro del alcance de consulta del principal.
func (s *Service) List(ctx context.Context, p entity.Principal) ([]dto.OrderResponse, error) {
	f, err := QueryFilter(p)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, f)
}

func (s *Service) list(ctx context.Context, f repository.OrderFilter) ([]dto.OrderResponse, error) {
	if f.None {
		return []dto.OrderResponse{}, nil
	}
	list, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return toOrderList(list), nil
}

// Get un pedido del alcance del principal. Fuera de alcance responde ErrNotFound.
func (s *Service) Get(ctx context.Context, p entity.Principal, id string) (*dto.OrderResponse, error) {
	o, err := s.scoped(ctx, p, id)
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(o)
	return &out, nil
}

func (s *Service) scoped(ctx context.Context, p entity.Principal, id string) (*entity.Order, error) {
	f, err := QueryFilter(p)
	if err != nil {
		return nil, err
	}
	if f.None || strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	f.OrderID = id
	list, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

// Estados que cada rol puede fijar.
var allowedTargets = map[entity.Role][]entity.OrderStatus{
	entity.RoleRepartidor:    {entity.OrderStatusShipped, entity.OrderStatusDelivered},
	entity.RoleEmpresa:       {entity.OrderStatusPreparing, entity.OrderStatusShipped, entity.OrderStatusCanceled},
	entity.RoleUsuarioNormal: {entity.OrderStatusCanceled},
}

func canSet(r entity.Role, st entity.OrderStatus) bool {
	for _, allowed := range allowedTargets[r] {
		if allowed == st {
			return true
		}
	}
	return false
}

// Update aplica un cambio de estado o la toma del pedido por un repartidor.
// Repartidor: toma un pedido sin asignar (pasa a enviado) y marca entregados los suyos.
// Empresa: en_proceso, enviado o cancelado sobre pedidos de sus empresas.
// Usuarionormal: cancela sus pedidos pendientes.
func (s *Service) Update(ctx context.Context, p entity.Principal, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if in.Status == nil && in.CourierID == nil {
		return nil, domain.NewValidationError("estado", "nada que actualizar: envíe estado o repartidor_id")
	}
	switch p.Role {
	case entity.RoleRepartidor, entity.RoleEmpresa, entity.RoleUsuarioNormal:
	case entity.RoleOther:
		return nil, domain.NewPermissionError("No autorizado")
	default:
		return nil, domain.ErrUnknownRole
	}

	order, err := s.scoped(ctx, p, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status

	var target *entity.OrderStatus
	if in.Status != nil {
		st := entity.OrderStatus(strings.TrimSpace(*in.Status))
		if !st.Valid() {
			return nil, domain.NewValidationError("estado", "estado inválido: "+string(st))
		}
		target = &st
	}

	if in.CourierID != nil {
		if !p.Is(entity.RoleRepartidor) {
			return nil, domain.NewPermissionError("Solo un repartidor puede tomar un pedido")
		}
		if strings.TrimSpace(*in.CourierID) != p.ID {
			return nil, domain.NewPermissionError("Un repartidor solo puede asignarse pedidos a sí mismo")
		}
		if order.Unassigned() {
			if order.Status != entity.OrderStatusPending && order.Status != entity.OrderStatusPreparing {
				return nil, domain.NewValidationError("repartidor_id", "el pedido ya no se puede tomar")
			}
			courierID := p.ID
			order.CourierID = &courierID
			if target == nil {
				st := entity.OrderStatusShipped
				target = &st
			}
		}
	}

	if target != nil && *target != order.Status {
		if !canSet(p.Role, *target) {
			return nil, domain.NewPermissionError("El rol " + string(p.Role) + " no puede cambiar el pedido a " + string(*target))
		}
		if p.Is(entity.RoleRepartidor) && !order.AssignedTo(p.ID) {
			return nil, domain.NewPermissionError("El pedido no está asignado a este repartidor")
		}
		if p.Is(entity.RoleUsuarioNormal) && order.Status != entity.OrderStatusPending {
			return nil, domain.NewValidationError("estado", "solo se pueden cancelar pedidos pendientes")
		}
		if !order.Status.CanTransitionTo(*target) {
			return nil, domain.NewValidationError("estado", "transición inválida de "+string(order.Status)+" a "+string(*target))
		}
		order.Status = *target
	}

	order.UpdatedAt = s.now().UTC()
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	if order.Status != previous {
		s.metrics.StatusChanged(order.Status)
		if pubErr := s.publisher.PublishOrderStatusChanged(ctx, order, previous); pubErr != nil {
			s.log.Warn().Err(pubErr).Str("order_id", order.ID).Msg("no se pudo publicar orders.status_changed")
		}
	}
	out := toOrderResponse(order)
	return &out, nil
}

// Delete borra un pedido pendiente. Solo el cliente o el dueño de la empresa.
func (s *Service) Delete(ctx context.Context, p entity.Principal, id string) error {
	switch p.Role {
	case entity.RoleUsuarioNormal, entity.RoleEmpresa:
	case entity.RoleRepartidor, entity.RoleOther:
		return domain.NewPermissionError("No autorizado")
	default:
		return domain.ErrUnknownRole
	}
	order, err := s.scoped(ctx, p, id)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderStatusPending {
		return domain.NewValidationError("estado", "solo se pueden eliminar pedidos pendientes")
	}
	return s.orders.Delete(ctx, order.ID)
}

// Receipt genera el comprobante PDF de un pedido del alcance del principal.
func (s *Service) Receipt(ctx context.Context, p entity.Principal, id string) ([]byte, error) {
	if s.receipts == nil {
		return nil, domain.NewUnexpectedError("Comprobante no disponible", errors.New("receipt generator no configurado"))
	}
	order, err := s.scoped(ctx, p, id)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.GetByID(ctx, order.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	var client *entity.User
	if s.users != nil {
		if client, err = s.users.GetByID(ctx, order.ClientID); err != nil {
			return nil, err
		}
	}
	return s.receipts.GenerateOrderReceipt(order, company, client)
}
