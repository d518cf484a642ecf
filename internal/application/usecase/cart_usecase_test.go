package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (*CartUseCase, entity.Principal) {
	t.Helper()
	st := memory.NewStore()
	seedUser(t, st, "owner", entity.RoleEmpresa)
	seedUser(t, st, "u1", entity.RoleUsuarioNormal)
	seedCompany(t, st, "c1", "owner", "Frutería", baseTime)
	seedProduct(t, st, "p1", "c1", "Mango", "1200")
	seedProduct(t, st, "p2", "c1", "Piña", "3000")
	return NewCartUseCase(st.Carts()), cliente("u1")
}

func TestCart_GetCreaCarritoVacio(t *testing.T) {
	uc, p := newCartFixture(t)
	cart, err := uc.Get(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.Empty(t, cart.Items)

	again, err := uc.Get(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID, "un usuario tiene un solo carrito")
}

func TestCart_AddItemSobrescribeCantidad(t *testing.T) {
	uc, p := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, p, "p1", 2)
	require.NoError(t, err)
	cart, err := uc.AddItem(ctx, p, "p1", 7)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Mango", cart.Items[0].Product.Name)
}

func TestCart_AddItemValidaEntrada(t *testing.T) {
	uc, p := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, p, "  ", 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.AddItem(ctx, p, "p1", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCart_AddItemProductoInexistente(t *testing.T) {
	uc, p := newCartFixture(t)
	_, err := uc.AddItem(context.Background(), p, "no-existe", 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCart_RemoveItemEsIdempotente(t *testing.T) {
	uc, p := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, p, "p1", 1)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, p, "p2", 1)
	require.NoError(t, err)

	cart, err := uc.RemoveItem(ctx, p, "p1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].Product.ID)

	cart, err = uc.RemoveItem(ctx, p, "p1")
	require.NoError(t, err, "quitar un producto ausente no es error")
	assert.Len(t, cart.Items, 1)

	_, err = uc.RemoveItem(ctx, p, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCart_Clear(t *testing.T) {
	uc, p := newCartFixture(t)
	ctx := context.Background()
	_, err := uc.AddItem(ctx, p, "p1", 3)
	require.NoError(t, err)

	cart, err := uc.Clear(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
