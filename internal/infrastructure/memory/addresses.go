package memory

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo direcciones de entrega en memoria.
type AddressRepo struct{ s *session }

func (r *AddressRepo) Create(_ context.Context, a *entity.DeliveryAddress) error {
	defer r.s.lock()()
	r.s.state().addresses[a.ID] = *a
	return nil
}

func (r *AddressRepo) GetByID(_ context.Context, id string) (*entity.DeliveryAddress, error) {
	defer r.s.lock()()
	a, ok := r.s.state().addresses[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AddressRepo) Update(_ context.Context, a *entity.DeliveryAddress) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.addresses[a.ID]; !ok {
		return domain.ErrNotFound
	}
	st.addresses[a.ID] = *a
	return nil
}

// Delete deja los pedidos que usaban la dirección sin dirección.
func (r *AddressRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.addresses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.addresses, id)
	for oid, o := range st.orders {
		if o.AddressID != nil && *o.AddressID == id {
			o = cloneOrder(o)
			o.AddressID = nil
			st.orders[oid] = o
		}
	}
	return nil
}

func (r *AddressRepo) ListByUser(_ context.Context, userID string) ([]*entity.DeliveryAddress, error) {
	defer r.s.lock()()
	out := make([]*entity.DeliveryAddress, 0)
	for _, a := range r.s.state().addresses {
		if a.UserID == userID {
			a := a
			out = append(out, &a)
		}
	}
	sortByCreated(out, func(a *entity.DeliveryAddress) (int64, string) { return a.CreatedAt.UnixNano(), a.ID })
	return out, nil
}
