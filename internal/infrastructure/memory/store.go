package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"golang.org/x/text/cases"
)

// Store persistencia en memoria con la misma semántica que el adaptador PostgreSQL.
// Un único mutex protege todo el estado; RunOrders lo mantiene tomado durante la transacción
// y restaura una copia si la función falla.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	users      map[string]entity.User
	companies  map[string]entity.Company
	products   map[string]entity.Product
	carts      map[string]entity.Cart // por cart id, sin Items
	cartByUser map[string]string
	cartItems  map[string]entity.CartItem // cartID|productID
	orders     map[string]entity.Order
	locations  map[string]entity.CourierLocation // por courier id
	addresses  map[string]entity.DeliveryAddress
	idem       map[string]entity.IdempotencyRecord
}

func newState() *state {
	return &state{
		users:      make(map[string]entity.User),
		companies:  make(map[string]entity.Company),
		products:   make(map[string]entity.Product),
		carts:      make(map[string]entity.Cart),
		cartByUser: make(map[string]string),
		cartItems:  make(map[string]entity.CartItem),
		orders:     make(map[string]entity.Order),
		locations:  make(map[string]entity.CourierLocation),
		addresses:  make(map[string]entity.DeliveryAddress),
		idem:       make(map[string]entity.IdempotencyRecord),
	}
}

// clone copia los mapas. Los valores guardados nunca se mutan en sitio, así que basta una copia superficial.
func (s *state) clone() *state {
	return &state{
		users:      copyMap(s.users),
		companies:  copyMap(s.companies),
		products:   copyMap(s.products),
		carts:      copyMap(s.carts),
		cartByUser: copyMap(s.cartByUser),
		cartItems:  copyMap(s.cartItems),
		orders:     copyMap(s.orders),
		locations:  copyMap(s.locations),
		addresses:  copyMap(s.addresses),
		idem:       copyMap(s.idem),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// session da acceso al estado; dentro de una transacción el lock ya está tomado.
type session struct {
	store *Store
	inTx  bool
}

func (s *session) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.store.mu.Lock()
	return s.store.mu.Unlock
}

func (s *session) state() *state { return s.store.st }

func (st *Store) root() *session { return &session{store: st} }

// Repositorios fuera de transacción.

func (st *Store) Users() *UserRepo              { return &UserRepo{st.root()} }
func (st *Store) Companies() *CompanyRepo       { return &CompanyRepo{st.root()} }
func (st *Store) Products() *ProductRepo        { return &ProductRepo{st.root()} }
func (st *Store) Carts() *CartRepo              { return &CartRepo{st.root()} }
func (st *Store) Orders() *OrderRepo            { return &OrderRepo{st.root()} }
func (st *Store) Couriers() *CourierRepo        { return &CourierRepo{st.root()} }
func (st *Store) Addresses() *AddressRepo       { return &AddressRepo{st.root()} }
func (st *Store) Idempotency() *IdempotencyRepo { return &IdempotencyRepo{st.root()} }
func (st *Store) Analytics() *AnalyticsRepo     { return &AnalyticsRepo{st.root()} }

// RunOrders ejecuta fn con repos atados a una "transacción" en memoria.
func (st *Store) RunOrders(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	idemRepo repository.IdempotencyRepository,
) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	snapshot := st.st.clone()
	tx := &session{store: st, inTx: true}
	if err := fn(&CompanyRepo{tx}, &ProductRepo{tx}, &OrderRepo{tx}, &AddressRepo{tx}, &IdempotencyRepo{tx}); err != nil {
		st.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		st.st = snapshot
		return err
	}
	return nil
}

// containsFold búsqueda por subcadena sin distinguir mayúsculas.
// Un Caser no se comparte entre goroutines, por eso se crea en cada llamada.
func containsFold(s, term string) bool {
	if term == "" {
		return true
	}
	folder := cases.Fold()
	return strings.Contains(folder.String(s), folder.String(term))
}

// sortByCreated ordena por (created_at, id) ascendente.
func sortByCreated[T any](items []T, key func(T) (int64, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if ti != tj {
			return ti < tj
		}
		return ii < ij
	})
}
