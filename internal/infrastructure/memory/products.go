package memory

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *session }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.companies[p.CompanyID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.state().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.products[id]; !ok {
		return domain.ErrNotFound
	}
	st.deleteProduct(id)
	return nil
}

// deleteProduct borra el producto y sus ítems de carrito. Las líneas de pedido conservan su copia.
func (s *state) deleteProduct(id string) {
	delete(s.products, id)
	for k, it := range s.cartItems {
		if it.ProductID == id {
			delete(s.cartItems, k)
		}
	}
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Product, error) {
	defer r.s.lock()()
	return r.s.state().listProducts(func(p entity.Product) bool { return p.CompanyID == companyID }), nil
}

func (r *ProductRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Product, error) {
	defer r.s.lock()()
	st := r.s.state()
	return st.listProducts(func(p entity.Product) bool { return st.companyOwner(p.CompanyID) == ownerID }), nil
}

func (r *ProductRepo) Search(_ context.Context, term string) ([]*entity.Product, error) {
	defer r.s.lock()()
	return r.s.state().listProducts(func(p entity.Product) bool { return containsFold(p.Name, term) }), nil
}

func (s *state) listProducts(keep func(entity.Product) bool) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, p := range s.products {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sortByCreated(out, func(p *entity.Product) (int64, string) { return p.CreatedAt.UnixNano(), p.ID })
	return out
}
