package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carritos en memoria.
type CartRepo struct{ s *session }

func itemKey(cartID, productID string) string { return cartID + "|" + productID }

func (r *CartRepo) GetOrCreate(_ context.Context, userID string) (*entity.Cart, error) {
	defer r.s.lock()()
	st := r.s.state()
	id, ok := st.cartByUser[userID]
	if !ok {
		now := time.Now().UTC()
		c := entity.Cart{ID: uuid.New().String(), UserID: userID, CreatedAt: now, UpdatedAt: now}
		st.carts[c.ID] = c
		st.cartByUser[userID] = c.ID
		id = c.ID
	}
	return st.cartWithItems(id), nil
}

// UpsertItem falla con ErrNotFound si el producto no existe (mismo efecto que la FK en PostgreSQL).
func (r *CartRepo) UpsertItem(_ context.Context, cartID, productID string, quantity int) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.carts[cartID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := st.products[productID]; !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	key := itemKey(cartID, productID)
	it, ok := st.cartItems[key]
	if !ok {
		it = entity.CartItem{ID: uuid.New().String(), CartID: cartID, ProductID: productID, CreatedAt: now}
	}
	it.Quantity = quantity
	it.UpdatedAt = now
	st.cartItems[key] = it
	st.touchCart(cartID, now)
	return nil
}

func (r *CartRepo) RemoveItem(_ context.Context, cartID, productID string) error {
	defer r.s.lock()()
	st := r.s.state()
	key := itemKey(cartID, productID)
	if _, ok := st.cartItems[key]; ok {
		delete(st.cartItems, key)
		st.touchCart(cartID, time.Now().UTC())
	}
	return nil
}

func (r *CartRepo) Clear(_ context.Context, cartID string) error {
	defer r.s.lock()()
	st := r.s.state()
	for k, it := range st.cartItems {
		if it.CartID == cartID {
			delete(st.cartItems, k)
		}
	}
	st.touchCart(cartID, time.Now().UTC())
	return nil
}

func (s *state) touchCart(cartID string, now time.Time) {
	if c, ok := s.carts[cartID]; ok {
		c.UpdatedAt = now
		s.carts[cartID] = c
	}
}

func (s *state) cartWithItems(cartID string) *entity.Cart {
	c := s.carts[cartID]
	c.Items = make([]entity.CartItem, 0)
	for _, it := range s.cartItems {
		if it.CartID != cartID {
			continue
		}
		if p, ok := s.products[it.ProductID]; ok {
			it.Product = &p
		}
		c.Items = append(c.Items, it)
	}
	sortByCreated(c.Items, func(it entity.CartItem) (int64, string) { return it.CreatedAt.UnixNano(), it.ID })
	return &c
}
