package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/rs/zerolog"
)

// AddressHandler direcciones de entrega del usuario autenticado.
type AddressHandler struct {
	uc  *usecase.AddressUseCase
	log zerolog.Logger
}

// NewAddressHandler construye el handler.
func NewAddressHandler(uc *usecase.AddressUseCase, log zerolog.Logger) *AddressHandler {
	return &AddressHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar mis direcciones
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AddressResponse
// @Router       /api/addresses [get]
func (h *AddressHandler) List(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear dirección
// @Tags         addresses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddressRequest  true  "nombre y direccion"
// @Success      201   {object}  dto.AddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/addresses [post]
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.AddressRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), p, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener dirección
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la dirección"
// @Success      200  {object}  dto.AddressResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/addresses/{id} [get]
func (h *AddressHandler) Get(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar dirección
// @Tags         addresses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la dirección"
// @Param        body  body  dto.AddressRequest  true  "Datos"
// @Success      200   {object}  dto.AddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/addresses/{id} [put]
func (h *AddressHandler) Update(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.AddressRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), p, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar dirección
// @Tags         addresses
// @Security     Bearer
// @Param        id   path  string  true  "ID de la dirección"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/addresses/{id} [delete]
func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
