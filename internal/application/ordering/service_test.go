package ordering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

// El repositorio en memoria vence claves contra el reloj real.
var baseTime = time.Now().UTC().Truncate(time.Second)

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	changed []entity.OrderStatus
	err     error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o *entity.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, o.ID)
	return p.err
}

func (p *recordingPublisher) PublishOrderStatusChanged(_ context.Context, o *entity.Order, _ entity.OrderStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, o.Status)
	return p.err
}

type recordingMetrics struct {
	created  int
	rejected []string
	statuses []entity.OrderStatus
}

func (m *recordingMetrics) OrdersCreated(n int)                { m.created += n }
func (m *recordingMetrics) BatchRejected(reason string)        { m.rejected = append(m.rejected, reason) }
func (m *recordingMetrics) StatusChanged(s entity.OrderStatus) { m.statuses = append(m.statuses, s) }

// faultyTx envuelve el store y hace fallar el Create número failCreateAt (1-based) o el
// guardado de la respuesta idempotente, siempre dentro de la transacción.
type faultyTx struct {
	st           *memory.Store
	failCreateAt int
	createErr    error
	markDoneErr  error
}

func (f *faultyTx) RunOrders(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	idemRepo repository.IdempotencyRepository,
) error) error {
	return f.st.RunOrders(ctx, func(
		c repository.CompanyRepository,
		p repository.ProductRepository,
		o repository.OrderRepository,
		a repository.AddressRepository,
		i repository.IdempotencyRepository,
	) error {
		orders := &faultyOrders{OrderRepository: o, failAt: f.failCreateAt, err: f.createErr}
		return fn(c, p, orders, a, &faultyIdempotency{IdempotencyRepository: i, markDoneErr: f.markDoneErr})
	})
}

type faultyOrders struct {
	repository.OrderRepository
	calls  int
	failAt int
	err    error
}

func (r *faultyOrders) Create(ctx context.Context, o *entity.Order) error {
	r.calls++
	if r.calls == r.failAt {
		return r.err
	}
	return r.OrderRepository.Create(ctx, o)
}

type faultyIdempotency struct {
	repository.IdempotencyRepository
	markDoneErr error
	reserveTTL  []time.Time
}

func (r *faultyIdempotency) Reserve(ctx context.Context, key, hash string, ttlAt time.Time) (*entity.IdempotencyRecord, error) {
	r.reserveTTL = append(r.reserveTTL, ttlAt)
	return r.IdempotencyRepository.Reserve(ctx, key, hash, ttlAt)
}

func (r *faultyIdempotency) MarkDone(ctx context.Context, key string, body []byte, status int, ttlAt time.Time) error {
	if r.markDoneErr != nil {
		return r.markDoneErr
	}
	return r.IdempotencyRepository.MarkDone(ctx, key, body, status, ttlAt)
}

type fixture struct {
	svc     *Service
	store   *memory.Store
	pub     *recordingPublisher
	metrics *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

// newFixtureWith permite reemplazar dependencias (tx, idempotencia, TTLs) antes de construir el servicio.
func newFixtureWith(t *testing.T, override func(st *memory.Store, d *Deps)) *fixture {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()

	for _, u := range []entity.User{
		{ID: "owner", Email: "owner@mercado.test", Role: entity.RoleEmpresa},
		{ID: "owner2", Email: "owner2@mercado.test", Role: entity.RoleEmpresa},
		{ID: "u1", Email: "u1@mercado.test", FirstName: "Laura", LastName: "Gómez", Phone: "3001234567", Role: entity.RoleUsuarioNormal},
		{ID: "u2", Email: "u2@mercado.test", Role: entity.RoleUsuarioNormal},
		{ID: "r1", Email: "r1@mercado.test", Role: entity.RoleRepartidor},
		{ID: "r2", Email: "r2@mercado.test", Role: entity.RoleRepartidor},
	} {
		u := u
		u.Status = entity.UserStatusActive
		require.NoError(t, st.Users().Create(ctx, &u))
	}
	require.NoError(t, st.Companies().Create(ctx, &entity.Company{ID: "c1", OwnerID: "owner", Name: "Uno", CreatedAt: baseTime}))
	require.NoError(t, st.Companies().Create(ctx, &entity.Company{ID: "c2", OwnerID: "owner2", Name: "Dos", CreatedAt: baseTime}))
	require.NoError(t, st.Products().Create(ctx, &entity.Product{ID: "p1", CompanyID: "c1", Name: "Arroz", Price: decimal.RequireFromString("2500.50")}))
	require.NoError(t, st.Products().Create(ctx, &entity.Product{ID: "p2", CompanyID: "c2", Name: "Leche", Price: decimal.RequireFromString("3200")}))

	pub := &recordingPublisher{}
	m := &recordingMetrics{}
	deps := Deps{
		Tx:          st,
		Companies:   st.Companies(),
		Products:    st.Products(),
		Orders:      st.Orders(),
		Addresses:   st.Addresses(),
		Users:       st.Users(),
		Idempotency: st.Idempotency(),
		Publisher:   pub,
		Metrics:     m,
		Log:         zerolog.Nop(),
	}
	if override != nil {
		override(st, &deps)
	}
	svc := NewService(deps)
	svc.now = func() time.Time { return baseTime }
	return &fixture{svc: svc, store: st, pub: pub, metrics: m}
}

func qty(n int) *int { return &n }

func order(company string, products ...string) dto.CreateOrderRequest {
	req := dto.CreateOrderRequest{CompanyID: company}
	for _, p := range products {
		req.Items = append(req.Items, dto.OrderItemRequest{ProductID: p})
	}
	return req
}

func principal(id string, role entity.Role) entity.Principal {
	return entity.Principal{ID: id, Role: role}
}

func (f *fixture) countOrders(t *testing.T) int {
	t.Helper()
	list, err := f.store.Orders().List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	return len(list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación múltiple
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrdersBatch_CreaEnOrdenConPrecioCopiado(t *testing.T) {
	f := newFixture(t)
	reqs := []dto.CreateOrderRequest{
		{CompanyID: "c1", Items: []dto.OrderItemRequest{{ProductID: "p1", Quantity: qty(2)}}},
		order("c2", "p2"),
	}

	res, err := f.svc.CreateOrdersBatch(context.Background(), principal("u1", entity.RoleUsuarioNormal), reqs, "")
	require.NoError(t, err)
	require.Len(t, res.Response.Orders, 2)
	assert.False(t, res.Replayed)

	first := res.Response.Orders[0]
	assert.Equal(t, "c1", first.CompanyID)
	assert.Equal(t, "u1", first.ClientID)
	assert.Equal(t, string(entity.OrderStatusPending), first.Status)
	assert.True(t, first.Total.Equal(decimal.RequireFromString("5001")))
	assert.Nil(t, first.CourierID)
	assert.Equal(t, 1, res.Response.Orders[1].Items[0].Quantity, "cantidad por defecto 1")

	assert.Equal(t, 2, f.countOrders(t))
	assert.Equal(t, 2, f.metrics.created)
	assert.Len(t, f.pub.created, 2)
}

func TestCreateOrdersBatch_FalloEnTerceroDeCincoNoPersisteNada(t *testing.T) {
	f := newFixture(t)
	reqs := []dto.CreateOrderRequest{
		order("c1", "p1"),
		order("c2", "p2"),
		order("c1", "p1", "fantasma"),
		order("c1", "p1"),
		order("c2", "p2"),
	}

	_, err := f.svc.CreateOrdersBatch(context.Background(), principal("u1", entity.RoleUsuarioNormal), reqs, "")
	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 3, batchErr.Index)
	assert.Equal(t, 2, batchErr.ItemIndex)
	assert.Equal(t, "fantasma", batchErr.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, map[string]any{"pedido": 3, "item": 2, "campo": "producto_id", "id": "fantasma"}, batchErr.Details())

	assert.Zero(t, f.countOrders(t))
	assert.Empty(t, f.pub.created)
	assert.Equal(t, []string{"not_found"}, f.metrics.rejected)
}

func TestCreateOrdersBatch_ListaVacia(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateOrdersBatch(context.Background(), principal("u1", entity.RoleUsuarioNormal), nil, "")
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "pedidos", verr.Field)
}

func TestCreateOrdersBatch_CamposFaltantes(t *testing.T) {
	f := newFixture(t)
	p := principal("u1", entity.RoleUsuarioNormal)
	cases := []struct {
		name  string
		req   dto.CreateOrderRequest
		field string
		item  int
	}{
		{"sin empresa", dto.CreateOrderRequest{Items: []dto.OrderItemRequest{{ProductID: "p1"}}}, "empresa_id", 0},
		{"sin items", dto.CreateOrderRequest{CompanyID: "c1"}, "items", 0},
		{"item sin producto", dto.CreateOrderRequest{CompanyID: "c1", Items: []dto.OrderItemRequest{{}}}, "producto_id", 1},
		{"cantidad cero", dto.CreateOrderRequest{CompanyID: "c1", Items: []dto.OrderItemRequest{{ProductID: "p1", Quantity: qty(0)}}}, "cantidad", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateOrdersBatch(context.Background(), p, []dto.CreateOrderRequest{order("c1", "p1"), tc.req}, "")
			var batchErr *domain.BatchError
			require.True(t, errors.As(err, &batchErr))
			assert.Equal(t, 2, batchErr.Index)
			assert.Equal(t, tc.item, batchErr.ItemIndex)
			assert.Equal(t, tc.field, batchErr.Field)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
	assert.Zero(t, f.countOrders(t))
}

func TestCreateOrdersBatch_EmpresaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateOrdersBatch(context.Background(), principal("u1", entity.RoleUsuarioNormal),
		[]dto.CreateOrderRequest{order("c9", "p1")}, "")
	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, "empresa_id", batchErr.Field)
	assert.Equal(t, "La empresa con ID c9 no existe (pedido 1)", batchErr.Message)
}

func TestCreateOrdersBatch_DireccionAjena(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Addresses().Create(ctx, &entity.DeliveryAddress{ID: "a2", UserID: "u2", Name: "Casa", Address: "Calle 1"}))

	req := order("c1", "p1")
	req.AddressID = "a2"
	_, err := f.svc.CreateOrdersBatch(ctx, principal("u1", entity.RoleUsuarioNormal), []dto.CreateOrderRequest{req}, "")
	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, "direccion_id", batchErr.Field)
}

func TestCreateOrdersBatch_FalloDePublicacionNoAfectaAlCliente(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker caído")

	res, err := f.svc.CreateOrdersBatch(context.Background(), principal("u1", entity.RoleUsuarioNormal),
		[]dto.CreateOrderRequest{order("c1", "p1")}, "")
	require.NoError(t, err)
	assert.Len(t, res.Response.Orders, 1)
}

func TestCreateOrdersBatch_FalloInesperadoEnSegundoPedidoRevierteTodo(t *testing.T) {
	boom := errors.New("conexión con la base perdida")
	f := newFixtureWith(t, func(st *memory.Store, d *Deps) {
		d.Tx = &faultyTx{st: st, failCreateAt: 2, createErr: boom}
	})

	res, err := f.svc.CreateOrdersBatch(context.Background(), principal("u1", entity.RoleUsuarioNormal),
		[]dto.CreateOrderRequest{order("c1", "p1"), order("c2", "p2"), order("c1", "p1")}, "")
	assert.Nil(t, res)

	var unexpected *domain.UnexpectedError
	require.True(t, errors.As(err, &unexpected))
	assert.Equal(t, "Error al procesar los pedidos", unexpected.Message)
	assert.ErrorIs(t, err, boom)

	var batchErr *domain.BatchError
	assert.False(t, errors.As(err, &batchErr))
	assert.Zero(t, f.countOrders(t), "el primer pedido ya insertado se deshace")
	assert.Empty(t, f.pub.created)
	assert.Zero(t, f.metrics.created)
	assert.Equal(t, []string{"error"}, f.metrics.rejected)
}

func TestCreateOrder_ResumenDeContactoDelClienteYLaDireccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lat, lng := 4.6097, -74.0817
	require.NoError(t, f.store.Addresses().Create(ctx, &entity.DeliveryAddress{
		ID: "a1", UserID: "u1", Name: "Casa", Address: "Calle 10 # 5-20",
		Reference: "Portón verde", Latitude: &lat, Longitude: &lng,
	}))

	req := order("c1", "p1")
	req.AddressID = "a1"
	created, err := f.svc.CreateOrder(ctx, principal("u1", entity.RoleUsuarioNormal), req)
	require.NoError(t, err)

	check := func(o *dto.OrderResponse) {
		t.Helper()
		assert.Equal(t, "Laura Gómez", o.ClientName)
		assert.Equal(t, "3001234567", o.ClientPhone)
		assert.Equal(t, "Casa", o.AddressName)
		assert.Equal(t, "Calle 10 # 5-20", o.AddressLine)
		assert.Equal(t, "Portón verde", o.AddressReference)
		require.NotNil(t, o.AddressLatitude)
		require.NotNil(t, o.AddressLongitude)
		assert.InDelta(t, lat, *o.AddressLatitude, 1e-9)
		assert.InDelta(t, lng, *o.AddressLongitude, 1e-9)
	}
	check(created)

	// El repartidor ve lo mismo al listar los pedidos sin asignar.
	list, err := f.svc.List(ctx, principal("r1", entity.RoleRepartidor))
	require.NoError(t, err)
	require.Len(t, list, 1)
	check(&list[0])

	// Sin dirección solo viaja el cliente; el nombre cae al email si no hay nombre.
	other, err := f.svc.CreateOrder(ctx, principal("u2", entity.RoleUsuarioNormal), order("c1", "p1"))
	require.NoError(t, err)
	assert.Equal(t, "u2@mercado.test", other.ClientName)
	assert.Empty(t, other.AddressLine)
	assert.Nil(t, other.AddressLatitude)
}

func TestCreateOrder_PrincipalSinIDNoCrea(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateOrder(context.Background(), principal("", entity.RoleUsuarioNormal), order("c1", "p1"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.CreateOrdersBatch(context.Background(), principal(" ", entity.RoleUsuarioNormal),
		[]dto.CreateOrderRequest{order("c1", "p1")}, "k")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, f.countOrders(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrdersBatch_ReintentoMismaClaveDevuelveRespuestaGuardada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := principal("u1", entity.RoleUsuarioNormal)
	reqs := []dto.CreateOrderRequest{order("c1", "p1")}

	first, err := f.svc.CreateOrdersBatch(ctx, p, reqs, "clave-1")
	require.NoError(t, err)
	second, err := f.svc.CreateOrdersBatch(ctx, p, reqs, "clave-1")
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Response.Orders[0].ID, second.Response.Orders[0].ID)
	assert.Equal(t, 1, f.countOrders(t))

	_, err = f.svc.CreateOrdersBatch(ctx, p, []dto.CreateOrderRequest{order("c2", "p2")}, "clave-1")
	assert.True(t, errors.Is(err, domain.ErrIdempotencyMismatch))
}

func TestCreateOrdersBatch_ClaveEsPorUsuario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reqs := []dto.CreateOrderRequest{order("c1", "p1")}

	_, err := f.svc.CreateOrdersBatch(ctx, principal("u1", entity.RoleUsuarioNormal), reqs, "misma")
	require.NoError(t, err)
	res, err := f.svc.CreateOrdersBatch(ctx, principal("u2", entity.RoleUsuarioNormal), reqs, "misma")
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, 2, f.countOrders(t))
}

func TestCreateOrdersBatch_ClaveEnProceso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reqs := []dto.CreateOrderRequest{order("c1", "p1")}
	hash, err := requestHash(reqs)
	require.NoError(t, err)
	_, err = f.store.Idempotency().Reserve(ctx, "u1:k", hash, baseTime.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.CreateOrdersBatch(ctx, principal("u1", entity.RoleUsuarioNormal), reqs, "k")
	assert.True(t, errors.Is(err, domain.ErrIdempotencyInFlight))
	assert.Equal(t, []string{"idempotency"}, f.metrics.rejected)
}

func TestCreateOrdersBatch_FalloLiberaLaClave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := principal("u1", entity.RoleUsuarioNormal)
	bad := []dto.CreateOrderRequest{order("c1", "fantasma")}

	_, err := f.svc.CreateOrdersBatch(ctx, p, bad, "k")
	require.Error(t, err)

	// Tras liberar, la misma clave sirve para un cuerpo distinto.
	res, err := f.svc.CreateOrdersBatch(ctx, p, []dto.CreateOrderRequest{order("c1", "p1")}, "k")
	require.NoError(t, err)
	assert.False(t, res.Replayed)
}

func TestCreateOrdersBatch_LeaseCortoYRespuestaConTTLCompleto(t *testing.T) {
	var idem *faultyIdempotency
	f := newFixtureWith(t, func(st *memory.Store, d *Deps) {
		idem = &faultyIdempotency{IdempotencyRepository: st.Idempotency()}
		d.Idempotency = idem
		d.IdempotencyLease = 30 * time.Second
		d.IdempotencyTTL = 6 * time.Hour
	})
	ctx := context.Background()
	reqs := []dto.CreateOrderRequest{order("c1", "p1")}

	_, err := f.svc.CreateOrdersBatch(ctx, principal("u1", entity.RoleUsuarioNormal), reqs, "k")
	require.NoError(t, err)
	require.Len(t, idem.reserveTTL, 1)
	assert.True(t, idem.reserveTTL[0].Equal(baseTime.Add(30*time.Second)), "processing vive solo el lease")

	hash, err := requestHash(reqs)
	require.NoError(t, err)
	rec, err := f.store.Idempotency().Reserve(ctx, "u1:k", hash, baseTime.Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	require.NotNil(t, rec)
	assert.Equal(t, entity.IdempotencyStatusDone, rec.Status)
	assert.True(t, rec.TTLAt.Equal(baseTime.Add(6*time.Hour)), "la respuesta guardada vive el TTL completo")
}

func TestCreateOrdersBatch_FalloAlGuardarRespuestaRevierteLosPedidos(t *testing.T) {
	tx := &faultyTx{markDoneErr: errors.New("idempotency_keys bloqueada")}
	f := newFixtureWith(t, func(st *memory.Store, d *Deps) {
		tx.st = st
		d.Tx = tx
	})
	ctx := context.Background()
	p := principal("u1", entity.RoleUsuarioNormal)
	reqs := []dto.CreateOrderRequest{order("c1", "p1"), order("c2", "p2")}

	_, err := f.svc.CreateOrdersBatch(ctx, p, reqs, "k")
	var unexpected *domain.UnexpectedError
	require.True(t, errors.As(err, &unexpected))
	assert.Zero(t, f.countOrders(t), "sin respuesta guardada no quedan pedidos")
	assert.Empty(t, f.pub.created)

	// La clave quedó libre: el reintento crea los pedidos y no devuelve 409.
	tx.markDoneErr = nil
	res, err := f.svc.CreateOrdersBatch(ctx, p, reqs, "k")
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, 2, f.countOrders(t))

	again, err := f.svc.CreateOrdersBatch(ctx, p, reqs, "k")
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, 2, f.countOrders(t))
}

func TestCreateOrdersBatch_LeaseVencidoPermiteReintentar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reqs := []dto.CreateOrderRequest{order("c1", "p1")}
	hash, err := requestHash(reqs)
	require.NoError(t, err)
	// Un proceso anterior reservó la clave y murió antes de terminar.
	_, err = f.store.Idempotency().Reserve(ctx, "u1:k", hash, baseTime.Add(-time.Second))
	require.NoError(t, err)

	res, err := f.svc.CreateOrdersBatch(ctx, principal("u1", entity.RoleUsuarioNormal), reqs, "k")
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, 1, f.countOrders(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Alcance por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestHistoryFilter_PorRol(t *testing.T) {
	cases := []struct {
		role entity.Role
		want repository.OrderFilter
	}{
		{entity.RoleUsuarioNormal, repository.OrderFilter{ClientID: "x"}},
		{entity.RoleEmpresa, repository.OrderFilter{CompanyOwnerID: "x"}},
		{entity.RoleRepartidor, repository.OrderFilter{CourierID: "x"}},
		{entity.RoleOther, repository.OrderFilter{None: true}},
	}
	for _, tc := range cases {
		got, err := HistoryFilter(principal("x", tc.role))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.role)
	}
}

func TestQueryFilter_RepartidorIncluyeSinAsignar(t *testing.T) {
	got, err := QueryFilter(principal("r1", entity.RoleRepartidor))
	require.NoError(t, err)
	assert.Equal(t, repository.OrderFilter{CourierID: "r1", IncludeUnassigned: true}, got)
}

func TestFiltros_RolFueraDelEnum(t *testing.T) {
	_, err := HistoryFilter(principal("x", entity.Role("admin")))
	assert.True(t, errors.Is(err, domain.ErrUnknownRole))
	_, err = QueryFilter(principal("x", entity.Role("admin")))
	assert.True(t, errors.Is(err, domain.ErrUnknownRole))
}

func TestHistory_CadaRolVeLoSuyo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateOrdersBatch(ctx, principal("u1", entity.RoleUsuarioNormal),
		[]dto.CreateOrderRequest{order("c1", "p1"), order("c2", "p2")}, "")
	require.NoError(t, err)
	_, err = f.svc.CreateOrdersBatch(ctx, principal("u2", entity.RoleUsuarioNormal),
		[]dto.CreateOrderRequest{order("c1", "p1")}, "")
	require.NoError(t, err)

	count := func(p entity.Principal) int {
		list, err := f.svc.History(ctx, p)
		require.NoError(t, err)
		return len(list)
	}
	assert.Equal(t, 2, count(principal("u1", entity.RoleUsuarioNormal)))
	assert.Equal(t, 1, count(principal("u2", entity.RoleUsuarioNormal)))
	assert.Equal(t, 2, count(principal("owner", entity.RoleEmpresa)))
	assert.Equal(t, 1, count(principal("owner2", entity.RoleEmpresa)))
	assert.Equal(t, 0, count(principal("r1", entity.RoleRepartidor)))
	assert.Equal(t, 0, count(principal("z", entity.RoleOther)))

	list, err := f.svc.List(ctx, principal("r1", entity.RoleRepartidor))
	require.NoError(t, err)
	assert.Len(t, list, 3, "el repartidor ve los pendientes sin asignar")
}

func TestFiltros_PrincipalSinIDNoAutorizado(t *testing.T) {
	for _, role := range []entity.Role{entity.RoleUsuarioNormal, entity.RoleEmpresa, entity.RoleRepartidor, entity.RoleOther} {
		for _, id := range []string{"", "  "} {
			_, err := HistoryFilter(principal(id, role))
			assert.ErrorIs(t, err, domain.ErrUnauthorized, role)
			_, err = QueryFilter(principal(id, role))
			assert.ErrorIs(t, err, domain.ErrUnauthorized, role)
		}
	}
}

func TestHistory_PrincipalSinIDNoVePedidosAjenos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id1 := f.placeOne(t, "u1", "c1", "p1")
	f.placeOne(t, "u2", "c2", "p2")

	blank := principal("", entity.RoleUsuarioNormal)
	list, err := f.svc.History(ctx, blank)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, list)

	list, err = f.svc.List(ctx, blank)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, list)

	got, err := f.svc.Get(ctx, blank, id1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, got)

	_, err = f.svc.Update(ctx, principal("", entity.RoleEmpresa), id1, dto.UpdateOrderRequest{Status: strPtr("enviado")})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, f.svc.Delete(ctx, blank, id1), domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambios de estado
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) placeOne(t *testing.T, client, company, product string) string {
	t.Helper()
	out, err := f.svc.CreateOrder(context.Background(), principal(client, entity.RoleUsuarioNormal), order(company, product))
	require.NoError(t, err)
	return out.ID
}

func strPtr(s string) *string { return &s }

func TestUpdate_RepartidorTomaPedidoYLoEntrega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.placeOne(t, "u1", "c1", "p1")
	r1 := principal("r1", entity.RoleRepartidor)

	out, err := f.svc.Update(ctx, r1, id, dto.UpdateOrderRequest{CourierID: strPtr("r1")})
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusShipped), out.Status)
	require.NotNil(t, out.CourierID)
	assert.Equal(t, "r1", *out.CourierID)

	// r2 ya no lo ve.
	_, err = f.svc.Get(ctx, principal("r2", entity.RoleRepartidor), id)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	out, err = f.svc.Update(ctx, r1, id, dto.UpdateOrderRequest{Status: strPtr("entregado")})
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusDelivered), out.Status)

	assert.Equal(t, []entity.OrderStatus{entity.OrderStatusShipped, entity.OrderStatusDelivered}, f.pub.changed)
	assert.Equal(t, []entity.OrderStatus{entity.OrderStatusShipped, entity.OrderStatusDelivered}, f.metrics.statuses)
}

func TestUpdate_RepartidorNoAsignaAOtro(t *testing.T) {
	f := newFixture(t)
	id := f.placeOne(t, "u1", "c1", "p1")

	_, err := f.svc.Update(context.Background(), principal("r1", entity.RoleRepartidor), id, dto.UpdateOrderRequest{CourierID: strPtr("r2")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdate_EmpresaMueveSusPedidos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.placeOne(t, "u1", "c1", "p1")

	out, err := f.svc.Update(ctx, principal("owner", entity.RoleEmpresa), id, dto.UpdateOrderRequest{Status: strPtr("en_proceso")})
	require.NoError(t, err)
	assert.Equal(t, "en_proceso", out.Status)

	_, err = f.svc.Update(ctx, principal("owner", entity.RoleEmpresa), id, dto.UpdateOrderRequest{Status: strPtr("entregado")})
	assert.True(t, errors.Is(err, domain.ErrForbidden), "empresa no marca entregado")

	_, err = f.svc.Update(ctx, principal("owner2", entity.RoleEmpresa), id, dto.UpdateOrderRequest{Status: strPtr("cancelado")})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "pedido de otra empresa")
}

func TestUpdate_ClienteCancelaSoloPendientes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := principal("u1", entity.RoleUsuarioNormal)

	id := f.placeOne(t, "u1", "c1", "p1")
	out, err := f.svc.Update(ctx, u1, id, dto.UpdateOrderRequest{Status: strPtr("cancelado")})
	require.NoError(t, err)
	assert.Equal(t, "cancelado", out.Status)

	id2 := f.placeOne(t, "u1", "c1", "p1")
	_, err = f.svc.Update(ctx, principal("owner", entity.RoleEmpresa), id2, dto.UpdateOrderRequest{Status: strPtr("en_proceso")})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, u1, id2, dto.UpdateOrderRequest{Status: strPtr("cancelado")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUpdate_EstadoInvalidoYCuerpoVacio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.placeOne(t, "u1", "c1", "p1")
	owner := principal("owner", entity.RoleEmpresa)

	_, err := f.svc.Update(ctx, owner, id, dto.UpdateOrderRequest{Status: strPtr("perdido")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.svc.Update(ctx, owner, id, dto.UpdateOrderRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.svc.Update(ctx, principal("x", entity.RoleOther), id, dto.UpdateOrderRequest{Status: strPtr("cancelado")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDelete_SoloPendientes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := principal("u1", entity.RoleUsuarioNormal)

	id := f.placeOne(t, "u1", "c1", "p1")
	require.NoError(t, f.svc.Delete(ctx, u1, id))
	_, err := f.svc.Get(ctx, u1, id)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	id2 := f.placeOne(t, "u1", "c1", "p1")
	_, err = f.svc.Update(ctx, principal("owner", entity.RoleEmpresa), id2, dto.UpdateOrderRequest{Status: strPtr("en_proceso")})
	require.NoError(t, err)
	assert.True(t, errors.Is(f.svc.Delete(ctx, u1, id2), domain.ErrInvalidInput))

	assert.True(t, errors.Is(f.svc.Delete(ctx, principal("r1", entity.RoleRepartidor), id2), domain.ErrForbidden))
}

func TestReceipt_SinGeneradorEsError(t *testing.T) {
	f := newFixture(t)
	id := f.placeOne(t, "u1", "c1", "p1")

	_, err := f.svc.Receipt(context.Background(), principal("u1", entity.RoleUsuarioNormal), id)
	var unexpected *domain.UnexpectedError
	assert.True(t, errors.As(err, &unexpected))
}

// ──────────────────────────────────────────────────────────────────────────────
// Limpieza de claves
// ──────────────────────────────────────────────────────────────────────────────

func TestIdempotencyCleaner_BorraSoloVencidasEnLotes(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	repo := st.Idempotency()
	for _, k := range []string{"a", "b", "c"} {
		_, err := repo.Reserve(ctx, k, "h", baseTime.Add(-time.Minute))
		require.NoError(t, err)
	}
	_, err := repo.Reserve(ctx, "viva", "h", baseTime.Add(time.Hour))
	require.NoError(t, err)

	w := NewIdempotencyCleaner(repo, zerolog.Nop(), time.Minute, 2, nil)
	deleted, err := w.DeleteExpired(ctx, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	_, err = repo.Reserve(ctx, "viva", "otro", baseTime.Add(time.Hour))
	assert.True(t, errors.Is(err, domain.ErrIdempotencyMismatch), "la clave vigente sigue guardada")
}

func TestIdempotencyCleaner_RunSeDetieneAlCancelar(t *testing.T) {
	st := memory.NewStore()
	_, err := st.Idempotency().Reserve(context.Background(), "a", "h", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	done := make(chan int, 1)
	w := NewIdempotencyCleaner(st.Idempotency(), zerolog.Nop(), time.Hour, 0, func(n int) { done <- n })
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	assert.Equal(t, 1, <-done)
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}
