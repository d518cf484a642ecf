package entity

import "time"

// Cart es el carrito único de un usuario; se crea en el primer acceso.
type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem es único por (carrito, producto). Quantity se sobrescribe, no se suma.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	Product   *Product // nil si el producto ya no existe
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item devuelve el ítem del producto o nil.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
