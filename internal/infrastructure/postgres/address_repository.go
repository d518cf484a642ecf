package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo direcciones de entrega sobre PostgreSQL.
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador de direcciones.
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

const addressColumns = `id, user_id, name, address, reference, latitude, longitude, created_at, updated_at`

func scanAddress(row pgx.Row) (*entity.DeliveryAddress, error) {
	var a entity.DeliveryAddress
	if err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Address, &a.Reference, &a.Latitude, &a.Longitude,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepo) Create(ctx context.Context, a *entity.DeliveryAddress) error {
	_, err := r.q.Exec(ctx, `INSERT INTO delivery_addresses (`+addressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.Name, a.Address, a.Reference, a.Latitude, a.Longitude, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *AddressRepo) GetByID(ctx context.Context, id string) (*entity.DeliveryAddress, error) {
	if !validID(id) {
		return nil, nil
	}
	a, err := scanAddress(r.q.QueryRow(ctx, `SELECT `+addressColumns+` FROM delivery_addresses WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (r *AddressRepo) Update(ctx context.Context, a *entity.DeliveryAddress) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE delivery_addresses
		SET name = $2, address = $3, reference = $4, latitude = $5, longitude = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Name, a.Address, a.Reference, a.Latitude, a.Longitude, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la dirección; orders.address_id queda en NULL (ON DELETE SET NULL).
func (r *AddressRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM delivery_addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AddressRepo) ListByUser(ctx context.Context, userID string) ([]*entity.DeliveryAddress, error) {
	out := make([]*entity.DeliveryAddress, 0)
	if !validID(userID) {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+addressColumns+` FROM delivery_addresses
		WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
