package ordering

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

const batchFailedMessage = "Error al procesar los pedidos"

// BatchResult respuesta de la creación múltiple. Replayed indica que vino del registro de idempotencia.
type BatchResult struct {
	Response dto.OrdersBatchResponse
	Replayed bool
}

// CreateOrder crea un único pedido para el principal con la misma validación que una entrada del lote.
func (s *Service) CreateOrder(ctx context.Context, p entity.Principal, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, domain.ErrUnauthorized
	}
	orders, err := s.placeAll(ctx, p, []dto.CreateOrderRequest{in}, "")
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(orders[0])
	return &out, nil
}

// CreateOrdersBatch crea todos los pedidos en una transacción o ninguno.
// idempotencyKey es opcional; con clave, un reintento con el mismo cuerpo devuelve la respuesta guardada.
//
// La clave se reserva con un lease corto (processing) y la respuesta se guarda en la misma
// transacción que los pedidos: o quedan ambos o ninguno. Si el proceso muere a mitad, el lease
// vence y el cliente puede reintentar.
func (s *Service) CreateOrdersBatch(ctx context.Context, p entity.Principal, reqs []dto.CreateOrderRequest, idempotencyKey string) (*BatchResult, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(reqs) == 0 {
		s.metrics.BatchRejected("validation")
		return nil, domain.NewValidationError("pedidos", `Se requiere una lista de pedidos en el campo "pedidos".`)
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.idem != nil {
		key = p.ID + ":" + key
		replay, err := s.reserveKey(ctx, key, reqs)
		if err != nil || replay != nil {
			return replay, err
		}
	} else {
		key = ""
	}

	orders, err := s.placeAll(ctx, p, reqs, key)
	if err != nil {
		if key != "" {
			if relErr := s.idem.Release(ctx, key); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		return nil, err
	}
	return &BatchResult{Response: dto.OrdersBatchResponse{Orders: toOrderList(orders)}}, nil
}

func (s *Service) reserveKey(ctx context.Context, key string, reqs []dto.CreateOrderRequest) (*BatchResult, error) {
	hash, err := requestHash(reqs)
	if err != nil {
		return nil, domain.NewUnexpectedError(batchFailedMessage, err)
	}
	rec, err := s.idem.Reserve(ctx, key, hash, s.now().UTC().Add(s.idemLease))
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, domain.ErrDuplicate):
		var resp dto.OrdersBatchResponse
		if uErr := json.Unmarshal(rec.ResponseBody, &resp); uErr != nil {
			s.log.Error().Err(uErr).Str("idempotency_key", key).Msg("respuesta idempotente ilegible")
			return nil, domain.NewUnexpectedError(batchFailedMessage, uErr)
		}
		return &BatchResult{Response: resp, Replayed: true}, nil
	case errors.Is(err, domain.ErrIdempotencyInFlight), errors.Is(err, domain.ErrIdempotencyMismatch):
		s.metrics.BatchRejected("idempotency")
		return nil, err
	default:
		return nil, domain.NewUnexpectedError(batchFailedMessage, err)
	}
}

// requestHash sha256 del cuerpo normalizado del lote.
func requestHash(reqs []dto.CreateOrderRequest) (string, error) {
	data, err := json.Marshal(reqs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte("crear-multiple:"), data...))
	return hex.EncodeToString(sum[:]), nil
}

// placeAll valida y crea cada pedido en orden dentro de una transacción.
// El primer fallo deshace todo y devuelve un *domain.BatchError con el índice (1-based).
// Con idemKey, la respuesta se guarda como done dentro de la misma transacción.
func (s *Service) placeAll(ctx context.Context, p entity.Principal, reqs []dto.CreateOrderRequest, idemKey string) ([]*entity.Order, error) {
	now := s.now().UTC()
	created := make([]*entity.Order, 0, len(reqs))

	var client *entity.User
	if s.users != nil {
		u, err := s.users.GetByID(ctx, p.ID)
		if err != nil {
			s.metrics.BatchRejected("error")
			s.log.Error().Err(err).Str("user_id", p.ID).Msg("no se pudo cargar el cliente del pedido")
			return nil, domain.NewUnexpectedError(batchFailedMessage, err)
		}
		client = u
	}

	err := s.tx.RunOrders(ctx, func(
		companyRepo repository.CompanyRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		addressRepo repository.AddressRepository,
		idemRepo repository.IdempotencyRepository,
	) error {
		for i, req := range reqs {
			order, err := buildOrder(ctx, i+1, p, client, req, now, companyRepo, productRepo, addressRepo)
			if err != nil {
				return err
			}
			if err := orderRepo.Create(ctx, order); err != nil {
				return err
			}
			created = append(created, order)
		}
		if idemKey == "" {
			return nil
		}
		body, err := json.Marshal(dto.OrdersBatchResponse{Orders: toOrderList(created)})
		if err != nil {
			return err
		}
		return idemRepo.MarkDone(ctx, idemKey, body, http.StatusCreated, now.Add(s.idemTTL))
	})
	if err != nil {
		var batchErr *domain.BatchError
		switch {
		case errors.As(err, &batchErr):
			s.metrics.BatchRejected(batchReason(batchErr))
			return nil, err
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
			s.metrics.BatchRejected("validation")
			return nil, err
		default:
			s.metrics.BatchRejected("error")
			s.log.Error().Err(err).Str("user_id", p.ID).Int("pedidos", len(reqs)).Msg("creación de pedidos revertida")
			return nil, domain.NewUnexpectedError(batchFailedMessage, err)
		}
	}

	s.metrics.OrdersCreated(len(created))
	for _, o := range created {
		if pubErr := s.publisher.PublishOrderCreated(ctx, o); pubErr != nil {
			s.log.Warn().Err(pubErr).Str("order_id", o.ID).Msg("no se pudo publicar orders.created")
		}
	}
	return created, nil
}

func batchReason(e *domain.BatchError) string {
	if errors.Is(e, domain.ErrNotFound) {
		return "not_found"
	}
	return "validation"
}

// buildOrder valida una entrada del lote y arma el pedido con precios copiados del producto
// y el resumen de contacto del cliente y la dirección.
func buildOrder(
	ctx context.Context,
	index int,
	p entity.Principal,
	client *entity.User,
	req dto.CreateOrderRequest,
	now time.Time,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
) (*entity.Order, error) {
	companyID := strings.TrimSpace(req.CompanyID)
	if companyID == "" {
		return nil, domain.MissingOrderField(index, "empresa_id")
	}
	if len(req.Items) == 0 {
		return nil, domain.MissingOrderField(index, "items")
	}
	company, err := companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.MissingReference(index, 0, "empresa", "empresa_id", companyID)
	}

	order := &entity.Order{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		ClientID:  p.ID,
		Status:    entity.OrderStatusPending,
		Items:     make([]entity.OrderItem, 0, len(req.Items)),
		PlacedAt:  now,
		UpdatedAt: now,
	}

	for j, it := range req.Items {
		productID := strings.TrimSpace(it.ProductID)
		if productID == "" {
			return nil, domain.MissingItemField(index, j+1, "producto_id")
		}
		product, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.MissingReference(index, j+1, "producto", "producto_id", productID)
		}
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		if qty < 1 {
			return nil, domain.InvalidItemField(index, j+1, "cantidad", "debe ser mayor o igual a 1")
		}
		order.Items = append(order.Items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    qty,
			UnitPrice:   product.Price,
		})
	}

	var addr *entity.DeliveryAddress
	if addressID := strings.TrimSpace(req.AddressID); addressID != "" {
		addr, err = addressRepo.GetByID(ctx, addressID)
		if err != nil {
			return nil, err
		}
		if addr == nil || addr.UserID != p.ID {
			return nil, domain.MissingReference(index, 0, "direccion", "direccion_id", addressID)
		}
		order.AddressID = &addr.ID
	}
	order.Contact = entity.NewOrderContact(client, addr)

	order.RecalculateTotal()
	return order, nil
}
