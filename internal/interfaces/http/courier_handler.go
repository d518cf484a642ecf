package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/rs/zerolog"
)

// CourierHandler ubicación de repartidores.
type CourierHandler struct {
	uc  *usecase.CourierUseCase
	log zerolog.Logger
}

// NewCourierHandler construye el handler.
func NewCourierHandler(uc *usecase.CourierUseCase, log zerolog.Logger) *CourierHandler {
	return &CourierHandler{uc: uc, log: log}
}

// Upsert godoc
// @Summary      Reportar mi ubicación
// @Description  Crea o reemplaza la ubicación del repartidor autenticado. 201 al crear, 200 al actualizar.
// @Tags         courier
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CourierLocationRequest  true  "latitud y longitud"
// @Success      200   {object}  dto.CourierUpsertResponse
// @Success      201   {object}  dto.CourierUpsertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/courier-location [post]
func (h *CourierHandler) Upsert(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.CourierLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Upsert(c.UserContext(), p, in.Latitude, in.Longitude)
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if out.Status == usecase.LocationCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Active godoc
// @Summary      Repartidores activos
// @Description  Repartidores con ubicación reportada dentro de la ventana configurada.
// @Tags         courier
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ActiveCouriersResponse
// @Router       /api/courier-location [get]
func (h *CourierHandler) Active(c *fiber.Ctx) error {
	if _, ok := principal(c); !ok {
		return nil
	}
	out, err := h.uc.ListActive(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
