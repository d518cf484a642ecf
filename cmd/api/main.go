package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/mercado-api/docs"
	"github.com/jhoicas/mercado-api/internal/application/analytics"
	"github.com/jhoicas/mercado-api/internal/application/auth"
	"github.com/jhoicas/mercado-api/internal/application/ordering"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/jhoicas/mercado-api/internal/infrastructure/kafka"
	"github.com/jhoicas/mercado-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/mercado-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/mercado-api/internal/interfaces/http"
	"github.com/jhoicas/mercado-api/pkg/config"
	"github.com/jhoicas/mercado-api/pkg/logger"
	"github.com/swaggo/swag"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("persistencia")
	}
	defer st.close()

	m := metrics.New(nil)

	var publisher ordering.EventPublisher
	if cfg.Kafka.Enabled() {
		p, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, log.Component("kafka"))
		if err != nil {
			log.Fatal().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("productor Kafka")
		}
		defer func() {
			if err := p.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor Kafka")
			}
		}()
		publisher = p
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrdersTopic).Msg("eventos de pedidos habilitados")
	}

	orderSvc := ordering.NewService(ordering.Deps{
		Tx:               st.tx,
		Companies:        st.companies,
		Products:         st.products,
		Orders:           st.orders,
		Addresses:        st.addresses,
		Users:            st.users,
		Idempotency:      st.idempotency,
		Publisher:        publisher,
		Metrics:          m,
		Receipts:         infrapdf.NewReceiptGenerator(),
		Log:              log.Component("orders"),
		IdempotencyTTL:   cfg.Orders.IdempotencyTTL,
		IdempotencyLease: cfg.Orders.IdempotencyLease,
	})
	cleaner := ordering.NewIdempotencyCleaner(st.idempotency, log.Component("idempotency"), 0, 0, m.IdempotencyCleaned)
	go cleaner.Run(ctx)

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(log.RequestLogger())
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Mercado API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		AddressUC: usecase.NewAddressUseCase(st.addresses),
		CartUC:    usecase.NewCartUseCase(st.carts),
		CompanyUC: usecase.NewCompanyUseCase(st.companies, st.products),
		ProductUC: usecase.NewProductUseCase(st.products, st.companies, log.Component("products")),
		CourierUC: usecase.NewCourierUseCase(st.couriers, usecase.CourierConfig{
			ActiveWindow:          cfg.Courier.ActiveWindow,
			LegacyZeroCoordinates: cfg.Courier.LegacyZeroCoordinates,
		}),
		Orders:    orderSvc,
		SalesUC:   analytics.NewSalesUseCase(st.analytics, cfg.App.Location()),
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
