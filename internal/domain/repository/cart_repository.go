package repository

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// CartRepository persiste el carrito de cada usuario. (user_id) y (cart_id, product_id) son únicos.
type CartRepository interface {
	// GetOrCreate devuelve el carrito del usuario con sus ítems; lo crea si no existe.
	GetOrCreate(ctx context.Context, userID string) (*entity.Cart, error)
	// UpsertItem fija la cantidad del producto en el carrito (sobrescribe).
	UpsertItem(ctx context.Context, cartID, productID string, quantity int) error
	// RemoveItem no falla si el ítem no existe.
	RemoveItem(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}
