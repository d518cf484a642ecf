package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/rs/zerolog"
)

// CartHandler carrito del usuario autenticado.
type CartHandler struct {
	uc  *usecase.CartUseCase
	log zerolog.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *usecase.CartUseCase, log zerolog.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log}
}

// MyCart godoc
// @Summary      Obtener mi carrito
// @Description  Crea el carrito vacío si el usuario aún no tiene uno.
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/carts/my-cart [get]
func (h *CartHandler) MyCart(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar producto al carrito
// @Description  Si el producto ya está en el carrito la cantidad se reemplaza.
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "producto_id y quantity (o cantidad)"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carts/add-item [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddItem(c.UserContext(), p, in.ProductID, in.Qty())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar producto del carrito
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RemoveCartItemRequest  true  "producto_id"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/carts/remove-item [post]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.RemoveCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RemoveItem(c.UserContext(), p, in.ProductID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/carts/clear-cart [post]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Clear(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
