package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carritos sobre PostgreSQL. carts.user_id y (cart_id, product_id) son UNIQUE.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador de carritos.
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetOrCreate inserta el carrito si falta (ON CONFLICT DO NOTHING) y lo devuelve con sus ítems.
func (r *CartRepo) GetOrCreate(ctx context.Context, userID string) (*entity.Cart, error) {
	now := time.Now().UTC()
	_, err := r.q.Exec(ctx, `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING`, uuid.New().String(), userID, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}

	var c entity.Cart
	err = r.q.QueryRow(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at, `+productColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	c.Items = make([]entity.CartItem, 0)
	for rows.Next() {
		var (
			it entity.CartItem
			p  entity.Product
		)
		if err := rows.Scan(
			&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
			&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Available,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.Product = &p
		c.Items = append(c.Items, it)
	}
	return &c, rows.Err()
}

// UpsertItem fija la cantidad; una segunda llamada sobrescribe, no suma.
func (r *CartRepo) UpsertItem(ctx context.Context, cartID, productID string, quantity int) error {
	if !validID(cartID) || !validID(productID) {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	_, err := r.q.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		uuid.New().String(), cartID, productID, quantity, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return r.touch(ctx, cartID, now)
}

// RemoveItem no falla si el ítem no existe.
func (r *CartRepo) RemoveItem(ctx context.Context, cartID, productID string) error {
	if !validID(cartID) || !validID(productID) {
		return nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil
	}
	return r.touch(ctx, cartID, time.Now().UTC())
}

// Clear vacía el carrito.
func (r *CartRepo) Clear(ctx context.Context, cartID string) error {
	if !validID(cartID) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return r.touch(ctx, cartID, time.Now().UTC())
}

func (r *CartRepo) touch(ctx context.Context, cartID string, now time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE carts SET updated_at = $2 WHERE id = $1`, cartID, now); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
