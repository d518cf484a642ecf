package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/analytics"
	"github.com/jhoicas/mercado-api/internal/application/auth"
	"github.com/jhoicas/mercado-api/internal/application/ordering"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	AddressUC *usecase.AddressUseCase
	CartUC    *usecase.CartUseCase
	CompanyUC *usecase.CompanyUseCase
	ProductUC *usecase.ProductUseCase
	CourierUC *usecase.CourierUseCase
	Orders    *ordering.Service
	SalesUC   *analytics.SalesUseCase
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API. Las rutas públicas van antes del grupo protegido
// porque el middleware de auth aplica a todo lo que se registre después bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	log := deps.Log

	authHandler := NewAuthHandler(deps.AuthUC, log)
	addressHandler := NewAddressHandler(deps.AddressUC, log)
	cartHandler := NewCartHandler(deps.CartUC, log)
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	productHandler := NewProductHandler(deps.ProductUC, log)
	courierHandler := NewCourierHandler(deps.CourierUC, log)
	orderHandler := NewOrderHandler(deps.Orders, log)
	salesHandler := NewSalesHandler(deps.SalesUC, log)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Catálogo público
	api.Get("/companies/public", companyHandler.ListPublic)
	api.Get("/companies/:id/products", companyHandler.Products)
	api.Get("/products/public", productHandler.ListPublic)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	addresses := protected.Group("/addresses")
	addresses.Get("/", addressHandler.List)
	addresses.Post("/", addressHandler.Create)
	addresses.Get("/:id", addressHandler.Get)
	addresses.Put("/:id", addressHandler.Update)
	addresses.Delete("/:id", addressHandler.Delete)

	carts := protected.Group("/carts")
	carts.Get("/my-cart", cartHandler.MyCart)
	carts.Post("/add-item", cartHandler.AddItem)
	carts.Post("/remove-item", cartHandler.RemoveItem)
	carts.Post("/clear-cart", cartHandler.Clear)

	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Las rutas fijas van antes de /:id.
	orders := protected.Group("/orders")
	orders.Post("/crear-multiple", orderHandler.CreateMultiple)
	orders.Get("/historial", orderHandler.History)
	orders.Get("/ventas-semanales", RequireRole(string(entity.RoleEmpresa)), salesHandler.Weekly)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)
	orders.Get("/:id/comprobante", orderHandler.Receipt)

	courier := protected.Group("/courier-location")
	courier.Get("/", courierHandler.Active)
	courier.Post("/", courierHandler.Upsert)
}
