package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y líneas sobre PostgreSQL. Create debe correr dentro de una tx para ser atómico.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `o.id, o.company_id, o.client_id, o.courier_id, o.address_id, o.status, o.total, o.placed_at, o.updated_at`

// Resumen de contacto: cliente y dirección de entrega (LEFT JOIN, el pedido puede no tener dirección).
const orderContactColumns = `u.first_name, u.last_name, u.email, u.phone, a.name, a.address, a.reference, a.latitude, a.longitude`

const orderFrom = ` FROM orders o
	JOIN users u ON u.id = o.client_id
	LEFT JOIN delivery_addresses a ON a.id = o.address_id`

// Create inserta la cabecera y las líneas en un solo batch.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO orders (id, company_id, client_id, courier_id, address_id, status, total, placed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.CompanyID, o.ClientID, nullString(o.CourierID), nullString(o.AddressID),
		string(o.Status), o.Total, o.PlacedAt, o.UpdatedAt,
	)
	for i, it := range o.Items {
		b.Queue(`
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal, i,
		)
	}

	br := r.q.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			switch {
			case isForeignKeyViolation(err):
				return domain.ErrNotFound
			case isUniqueViolation(err):
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert order: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID pedido con sus líneas; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	list, err := r.List(ctx, repository.OrderFilter{OrderID: id})
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// List traduce el filtro a SQL y carga las líneas de los pedidos encontrados.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	if f.None {
		return []*entity.Order{}, nil
	}
	where, args, ok := orderWhere(f)
	if !ok {
		return []*entity.Order{}, nil
	}

	query := `SELECT ` + orderColumns + `, ` + orderContactColumns + orderFrom
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY o.placed_at DESC, o.id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]*entity.Order, 0)
	byID := make(map[string]*entity.Order)
	for rows.Next() {
		var (
			o                       entity.Order
			status                  string
			first, last, email      string
			addrName, addr, addrRef *string
		)
		if err := rows.Scan(
			&o.ID, &o.CompanyID, &o.ClientID, &o.CourierID, &o.AddressID, &status,
			&o.Total, &o.PlacedAt, &o.UpdatedAt,
			&first, &last, &email, &o.Contact.ClientPhone,
			&addrName, &addr, &addrRef, &o.Contact.Latitude, &o.Contact.Longitude,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(status)
		o.Contact.ClientName = entity.DisplayName(first, last, email)
		o.Contact.AddressName = derefString(addrName)
		o.Contact.Address = derefString(addr)
		o.Contact.Reference = derefString(addrRef)
		o.Items = make([]entity.OrderItem, 0)
		orders = append(orders, &o)
		byID[o.ID] = &o
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}
	if err := r.loadItems(ctx, byID); err != nil {
		return nil, err
	}
	return orders, nil
}

// orderWhere arma la cláusula WHERE. ok=false si algún id no puede existir.
func orderWhere(f repository.OrderFilter) (string, []any, bool) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	for _, id := range []string{f.OrderID, f.ClientID, f.CompanyOwnerID, f.CourierID} {
		if id != "" && !validID(id) {
			return "", nil, false
		}
	}

	if f.OrderID != "" {
		conds = append(conds, "o.id = "+arg(f.OrderID))
	}
	if f.ClientID != "" {
		conds = append(conds, "o.client_id = "+arg(f.ClientID))
	}
	if f.CompanyOwnerID != "" {
		conds = append(conds, "o.company_id IN (SELECT id FROM companies WHERE owner_id = "+arg(f.CompanyOwnerID)+")")
	}
	switch {
	case f.CourierID != "" && f.IncludeUnassigned:
		conds = append(conds, "(o.courier_id = "+arg(f.CourierID)+" OR o.courier_id IS NULL)")
	case f.CourierID != "":
		conds = append(conds, "o.courier_id = "+arg(f.CourierID))
	case f.IncludeUnassigned:
		conds = append(conds, "o.courier_id IS NULL")
	}
	if !f.PlacedSince.IsZero() {
		conds = append(conds, "o.placed_at >= "+arg(f.PlacedSince))
	}
	return strings.Join(conds, " AND "), args, true
}

func (r *OrderRepo) loadItems(ctx context.Context, byID map[string]*entity.Order) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it        entity.OrderItem
			productID *string
		)
		if err := rows.Scan(
			&it.ID, &it.OrderID, &productID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if productID != nil {
			it.ProductID = *productID
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// Update persiste estado, repartidor y dirección; las líneas no cambian.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, courier_id = $3, address_id = $4, updated_at = $5
		WHERE id = $1`,
		o.ID, string(o.Status), nullString(o.CourierID), nullString(o.AddressID), o.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el pedido; las líneas caen en cascada.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
