package dto

import "time"

// AddCartItemRequest cuerpo de POST /carts/add-item. Acepta "quantity" o "cantidad"; por defecto 1.
type AddCartItemRequest struct {
	ProductID string `json:"producto_id"`
	Quantity  *int   `json:"quantity"`
	Cantidad  *int   `json:"cantidad"`
}

// Qty devuelve la cantidad enviada o 1 si no vino ninguna.
func (r AddCartItemRequest) Qty() int {
	switch {
	case r.Quantity != nil:
		return *r.Quantity
	case r.Cantidad != nil:
		return *r.Cantidad
	default:
		return 1
	}
}

// RemoveCartItemRequest cuerpo de POST /carts/remove-item.
type RemoveCartItemRequest struct {
	ProductID string `json:"producto_id"`
}

// CartItemResponse ítem del carrito con el producto embebido.
type CartItemResponse struct {
	ID       string           `json:"id"`
	Product  *ProductResponse `json:"producto"`
	Quantity int              `json:"quantity"`
}

// CartResponse carrito del usuario.
type CartResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"usuario"`
	Items     []CartItemResponse `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
