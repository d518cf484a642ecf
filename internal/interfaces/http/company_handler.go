package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/rs/zerolog"
)

// CompanyHandler empresas: catálogo público y gestión del dueño.
type CompanyHandler struct {
	uc  *usecase.CompanyUseCase
	log zerolog.Logger
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase, log zerolog.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, log: log}
}

// ListPublic godoc
// @Summary      Listar empresas (público)
// @Tags         companies
// @Produce      json
// @Param        search  query  string  false  "Filtro por nombre"
// @Success      200     {array}  dto.CompanyResponse
// @Router       /api/companies/public [get]
func (h *CompanyHandler) ListPublic(c *fiber.Ctx) error {
	out, err := h.uc.ListPublic(c.UserContext(), c.Query("search"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Productos de una empresa (público)
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {array}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/products [get]
func (h *CompanyHandler) Products(c *fiber.Ctx) error {
	out, err := h.uc.ListProductsOf(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar mis empresas
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ListOwned(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear empresa
// @Description  El dueño es siempre el usuario autenticado.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), p, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener una de mis empresas
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	out, err := h.uc.GetOwned(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateOwned(c.UserContext(), p, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar empresa
// @Description  Borra también sus productos.
// @Tags         companies
// @Security     Bearer
// @Param        id   path  string  true  "ID de la empresa"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return nil
	}
	if err := h.uc.DeleteOwned(c.UserContext(), p, c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
