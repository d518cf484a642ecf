package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/mercado-api/internal/application/ordering"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ ordering.OrderMetrics = (*Metrics)(nil)

// Metrics métricas de la API: HTTP, pedidos y limpieza de idempotencia.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	ordersCreated      prometheus.Counter
	batchRejected      *prometheus.CounterVec
	statusChanged      *prometheus.CounterVec
	idempotencyCleaned prometheus.Counter
}

// New registra las métricas en reg. Con reg nil usa el registro global.
func New(reg *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	return &Metrics{
		gatherer: gatherer,
		httpRequests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mercado_http_requests_total",
			Help: "Total de peticiones HTTP por método, ruta y código",
		}, []string{"method", "route", "status"})),
		httpDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mercado_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"})),
		ordersCreated: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mercado_orders_created_total",
			Help: "Pedidos creados",
		})),
		batchRejected: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mercado_order_batches_rejected_total",
			Help: "Lotes de pedidos rechazados por motivo",
		}, []string{"reason"})),
		statusChanged: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mercado_order_status_changes_total",
			Help: "Cambios de estado de pedidos por estado destino",
		}, []string{"status"})),
		idempotencyCleaned: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mercado_idempotency_keys_deleted_total",
			Help: "Claves de idempotencia vencidas borradas",
		})),
	}
}

// register devuelve el collector existente si ya estaba registrado (tests, reinicios en caliente).
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := already.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("collector ya registrado con otro tipo: %T", already.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("registrar collector: %v", err))
	}
	return c
}

// OrdersCreated suma n pedidos creados.
func (m *Metrics) OrdersCreated(n int) { m.ordersCreated.Add(float64(n)) }

// BatchRejected cuenta un lote rechazado.
func (m *Metrics) BatchRejected(reason string) { m.batchRejected.WithLabelValues(reason).Inc() }

// StatusChanged cuenta un cambio de estado.
func (m *Metrics) StatusChanged(s entity.OrderStatus) {
	m.statusChanged.WithLabelValues(string(s)).Inc()
}

// IdempotencyCleaned suma las claves borradas por el limpiador.
func (m *Metrics) IdempotencyCleaned(n int) { m.idempotencyCleaned.Add(float64(n)) }

// Middleware mide cada petición. Usa la ruta registrada (no la URL) para no disparar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "desconocida"
		}
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
