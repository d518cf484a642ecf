package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsRepo struct {
	rows      []repository.OrderTotal
	err       error
	gotOwner  string
	gotSince  time.Time
	callCount int
}

func (f *fakeAnalyticsRepo) OrderTotalsSince(_ context.Context, ownerID string, since time.Time) ([]repository.OrderTotal, error) {
	f.callCount++
	f.gotOwner = ownerID
	f.gotSince = since
	return f.rows, f.err
}

func row(total string, at time.Time) repository.OrderTotal {
	return repository.OrderTotal{OrderID: at.String(), Total: decimal.RequireFromString(total), PlacedAt: at}
}

var owner = entity.Principal{ID: "owner-1", Role: entity.RoleEmpresa}

func TestWeekdayIndex_LunesEsCero(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(monday.AddDate(0, 0, i)))
	}
}

func TestWeeklySales_DosLunesSumanEnElMismoCubo(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) // lunes
	repo := &fakeAnalyticsRepo{rows: []repository.OrderTotal{
		row("100", time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)), // lunes anterior, dentro de la ventana
		row("50.5", time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)), // hoy
		row("30", time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)),  // miércoles
		row("999", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)),  // antes de la ventana
	}}
	uc := NewSalesUseCase(repo, time.UTC)
	uc.now = func() time.Time { return now }

	out, err := uc.WeeklySales(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, WeekdayLabels, out.Labels)
	require.Len(t, out.Sales, 7)
	assert.Equal(t, "150.5", out.Sales[0].String())
	assert.Equal(t, "30", out.Sales[2].String())
	for _, i := range []int{1, 3, 4, 5, 6} {
		assert.True(t, out.Sales[i].IsZero(), "día %d", i)
	}
	assert.Equal(t, "owner-1", repo.gotOwner)
	assert.True(t, repo.gotSince.Equal(now.Add(-7*24*time.Hour)))
}

func TestWeeklySales_DiaSegunZonaConfigurada(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	// martes 02:00 UTC es lunes 21:00 en Bogotá
	repo := &fakeAnalyticsRepo{rows: []repository.OrderTotal{row("10", time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))}}
	uc := NewSalesUseCase(repo, bogota)
	uc.now = func() time.Time { return now }

	out, err := uc.WeeklySales(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "10", out.Sales[0].String())
	assert.True(t, out.Sales[1].IsZero())
}

func TestWeeklySales_SinPedidosDevuelveCeros(t *testing.T) {
	uc := NewSalesUseCase(&fakeAnalyticsRepo{}, nil)
	out, err := uc.WeeklySales(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, out.Sales, 7)
	for _, s := range out.Sales {
		assert.True(t, s.IsZero())
	}
}

func TestWeeklySales_SoloEmpresa(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	uc := NewSalesUseCase(repo, time.UTC)
	for _, role := range []entity.Role{entity.RoleUsuarioNormal, entity.RoleRepartidor, entity.RoleOther} {
		_, err := uc.WeeklySales(context.Background(), entity.Principal{ID: "x", Role: role})
		assert.True(t, errors.Is(err, domain.ErrForbidden), role)
	}
	assert.Zero(t, repo.callCount)
}

func TestWeeklySales_PropagaErrorDelRepositorio(t *testing.T) {
	boom := errors.New("db caída")
	uc := NewSalesUseCase(&fakeAnalyticsRepo{err: boom}, time.UTC)
	_, err := uc.WeeklySales(context.Background(), owner)
	assert.ErrorIs(t, err, boom)
}

func TestWeeklySales_EmpresaSinIDNoConsulta(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	uc := NewSalesUseCase(repo, time.UTC)
	for _, id := range []string{"", "   "} {
		_, err := uc.WeeklySales(context.Background(), entity.Principal{ID: id, Role: entity.RoleEmpresa})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	assert.Zero(t, repo.callCount)
}
