package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos en memoria.
type OrderRepo struct{ s *session }

func cloneOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	if o.CourierID != nil {
		v := *o.CourierID
		o.CourierID = &v
	}
	if o.AddressID != nil {
		v := *o.AddressID
		o.AddressID = &v
	}
	return o
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.companies[o.CompanyID]; !ok {
		return domain.ErrNotFound
	}
	for _, it := range o.Items {
		if _, ok := st.products[it.ProductID]; !ok {
			return domain.ErrNotFound
		}
	}
	if _, ok := st.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	st.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer r.s.lock()()
	st := r.s.state()
	o, ok := st.orders[id]
	if !ok {
		return nil, nil
	}
	o = cloneOrder(o)
	o.Contact = st.orderContact(&o)
	return &o, nil
}

// orderContact lo que en SQL es el JOIN con users y delivery_addresses.
func (s *state) orderContact(o *entity.Order) entity.OrderContact {
	var client *entity.User
	if u, ok := s.users[o.ClientID]; ok {
		client = &u
	}
	var addr *entity.DeliveryAddress
	if o.AddressID != nil {
		if a, ok := s.addresses[*o.AddressID]; ok {
			addr = &a
		}
	}
	return entity.NewOrderContact(client, addr)
}

func (r *OrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	defer r.s.lock()()
	st := r.s.state()
	out := make([]*entity.Order, 0)
	for _, o := range st.orders {
		if filter.Matches(&o, st.companyOwner) {
			c := cloneOrder(o)
			c.Contact = st.orderContact(&c)
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].PlacedAt.After(out[j].PlacedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Update persiste estado, repartidor y dirección; las líneas no cambian.
func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	defer r.s.lock()()
	st := r.s.state()
	cur, ok := st.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneOrder(*o)
	cur = cloneOrder(cur)
	cur.Status = next.Status
	cur.CourierID = next.CourierID
	cur.AddressID = next.AddressID
	cur.UpdatedAt = next.UpdatedAt
	st.orders[o.ID] = cur
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	st := r.s.state()
	if _, ok := st.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.orders, id)
	return nil
}
