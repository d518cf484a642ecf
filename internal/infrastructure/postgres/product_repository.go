package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.company_id, p.name, p.description, p.price, p.image_url, p.available, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Available,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. La empresa debe existir.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if !validID(product.CompanyID) {
		return domain.ErrNotFound
	}
	query := `
		INSERT INTO products (id, company_id, name, description, price, image_url, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.CompanyID, product.Name, product.Description, product.Price,
		product.ImageURL, product.Available, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los campos editables del producto; la empresa no cambia.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, image_url = $5, available = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.ImageURL, product.Available, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. Los ítems de carrito caen en cascada; las líneas de pedido conservan
// nombre y precio con product_id en NULL.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany productos de una empresa por (created_at, id).
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	if !validID(companyID) {
		return []*entity.Product{}, nil
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.company_id = $1 ORDER BY p.created_at, p.id`, companyID)
}

// ListByOwner productos de todas las empresas del usuario.
func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error) {
	if !validID(ownerID) {
		return []*entity.Product{}, nil
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products p
		JOIN companies c ON c.id = p.company_id
		WHERE c.owner_id = $1 ORDER BY p.created_at, p.id`, ownerID)
}

// Search filtra por nombre sin distinguir mayúsculas; term vacío devuelve todos.
func (r *ProductRepo) Search(ctx context.Context, term string) ([]*entity.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.list(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.created_at, p.id`)
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.name ILIKE '%' || $1 || '%' ESCAPE '\' ORDER BY p.created_at, p.id`, likeEscape(term))
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
