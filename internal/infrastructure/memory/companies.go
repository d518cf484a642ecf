package memory

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ s *session }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	st.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	defer r.s.lock()()
	c, ok := r.s.state().companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	st.companies[c.ID] = *c
	return nil
}

// Delete borra en cascada productos, ítems de carrito y pedidos de la empresa.
func (r *CompanyRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.companies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.companies, id)
	for pid, p := range st.products {
		if p.CompanyID == id {
			st.deleteProduct(pid)
		}
	}
	for oid, o := range st.orders {
		if o.CompanyID == id {
			delete(st.orders, oid)
		}
	}
	return nil
}

func (r *CompanyRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Company, error) {
	defer r.s.lock()()
	return r.s.state().listCompanies(func(c entity.Company) bool { return c.OwnerID == ownerID }), nil
}

func (r *CompanyRepo) Search(_ context.Context, term string) ([]*entity.Company, error) {
	defer r.s.lock()()
	return r.s.state().listCompanies(func(c entity.Company) bool { return containsFold(c.Name, term) }), nil
}

func (s *state) listCompanies(keep func(entity.Company) bool) []*entity.Company {
	out := make([]*entity.Company, 0)
	for _, c := range s.companies {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sortByCreated(out, func(c *entity.Company) (int64, string) { return c.CreatedAt.UnixNano(), c.ID })
	return out
}

func (s *state) companyOwner(companyID string) string {
	return s.companies[companyID].OwnerID
}
