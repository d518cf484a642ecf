package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/ordering"
	"github.com/rs/zerolog"
)

// Cabeceras de la creación múltiple idempotente.
const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// OrderHandler pedidos: creación, historial, consulta por rol y cambios de estado.
type OrderHandler struct {
	svc *ordering.Service
	log zerolog.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(svc *ordering.Service, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

// CreateMultiple godoc
// @Summary      Crear varios pedidos
// @Description  Todos los pedidos se crean en una transacción o ninguno. Con Idempotency-Key un reintento devuelve la misma respuesta.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                        false  "Clave de idempotencia"
// @Param        body             body    dto.CreateOrdersBatchRequest  true   "pedidos"
// @Success      201  {object}  dto.OrdersBatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/orders/crear-multiple [post]
func (h *OrderHandler) CreateMultiple(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.CreateOrdersBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.svc.CreateOrdersBatch(c.UserContext(), p, in.List(), c.Get(HeaderIdempotencyKey))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if res.Replayed {
		c.Set(HeaderIdempotentReplayed, "true")
	}
	return c.Status(fiber.StatusCreated).JSON(res.Response)
}

// Create godoc
// @Summary      Crear un pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.CreateOrder(c.UserContext(), p, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de pedidos
// @Description  usuarionormal ve sus compras, empresa los pedidos de sus empresas y repartidor los asignados.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders/historial [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.svc.History(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Description  Igual que el historial, salvo que el repartidor también ve los pedidos sin asignar.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.svc.List(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.svc.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar estado o repartidor
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "estado y/o repartidor_id"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [patch]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), p, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido pendiente
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	if err := h.svc.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/comprobante [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	id := c.Params("id")
	pdf, err := h.svc.Receipt(c.UserContext(), p, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pedido-%s.pdf"`, id))
	return c.Send(pdf)
}
