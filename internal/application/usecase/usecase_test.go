package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers compartidos
// ──────────────────────────────────────────────────────────────────────────────

var baseTime = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func empresa(id string) entity.Principal {
	return entity.Principal{ID: id, Role: entity.RoleEmpresa}
}

func cliente(id string) entity.Principal {
	return entity.Principal{ID: id, Role: entity.RoleUsuarioNormal}
}

func repartidor(id string) entity.Principal {
	return entity.Principal{ID: id, Role: entity.RoleRepartidor}
}

func seedUser(t *testing.T, st *memory.Store, id string, role entity.Role) {
	t.Helper()
	require.NoError(t, st.Users().Create(context.Background(), &entity.User{
		ID: id, Email: id + "@mercado.test", Role: role, Status: entity.UserStatusActive,
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
}

func seedCompany(t *testing.T, st *memory.Store, id, owner, name string, created time.Time) {
	t.Helper()
	require.NoError(t, st.Companies().Create(context.Background(), &entity.Company{
		ID: id, OwnerID: owner, Name: name, CreatedAt: created, UpdatedAt: created,
	}))
}

func seedProduct(t *testing.T, st *memory.Store, id, companyID, name, price string) {
	t.Helper()
	require.NoError(t, st.Products().Create(context.Background(), &entity.Product{
		ID: id, CompanyID: companyID, Name: name, Price: decimal.RequireFromString(price),
		Available: true, CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
}
