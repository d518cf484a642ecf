package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct{ s *session }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.s.lock()()
	st := r.s.state()
	for _, u := range st.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	st.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.state().users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.state().users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}
