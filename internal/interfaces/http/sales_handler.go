package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/analytics"
	"github.com/rs/zerolog"
)

// SalesHandler reportes de ventas para empresas.
type SalesHandler struct {
	uc  *analytics.SalesUseCase
	log zerolog.Logger
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *analytics.SalesUseCase, log zerolog.Logger) *SalesHandler {
	return &SalesHandler{uc: uc, log: log}
}

// Weekly godoc
// @Summary      Ventas de los últimos 7 días
// @Description  Suma de pedidos de mis empresas agrupada por día de la semana (Lun..Dom).
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WeeklySalesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders/ventas-semanales [get]
func (h *SalesHandler) Weekly(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.uc.WeeklySales(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
