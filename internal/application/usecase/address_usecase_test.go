package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressUseCase_CrudDelPropietario(t *testing.T) {
	st := memory.NewStore()
	uc := NewAddressUseCase(st.Addresses())
	ctx := context.Background()

	created, err := uc.Create(ctx, cliente("u1"), dto.AddressRequest{
		Name: " Casa ", Address: "Cra 7 # 12-30", Latitude: ptr(0), Longitude: ptr(-74.08),
	})
	require.NoError(t, err)
	assert.Equal(t, "Casa", created.Name)
	require.NotNil(t, created.Latitude)
	assert.Equal(t, 0.0, *created.Latitude)

	list, err := uc.List(ctx, cliente("u1"))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	updated, err := uc.Update(ctx, cliente("u1"), created.ID, dto.AddressRequest{Name: "Oficina", Address: "Calle 100"})
	require.NoError(t, err)
	assert.Equal(t, "Oficina", updated.Name)
	assert.Nil(t, updated.Latitude)

	require.NoError(t, uc.Delete(ctx, cliente("u1"), created.ID))
	_, err = uc.Get(ctx, cliente("u1"), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddressUseCase_AjenaEsNotFound(t *testing.T) {
	st := memory.NewStore()
	uc := NewAddressUseCase(st.Addresses())
	ctx := context.Background()

	created, err := uc.Create(ctx, cliente("u1"), dto.AddressRequest{Name: "Casa", Address: "Calle 1"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, cliente("u2"), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, cliente("u2"), created.ID, dto.AddressRequest{Name: "x", Address: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, cliente("u2"), created.ID), domain.ErrNotFound)

	list, err := uc.List(ctx, cliente("u2"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddressUseCase_Validaciones(t *testing.T) {
	uc := NewAddressUseCase(memory.NewStore().Addresses())
	cases := map[string]struct {
		in    dto.AddressRequest
		field string
	}{
		"sin nombre":    {dto.AddressRequest{Address: "Calle 1"}, "nombre"},
		"sin direccion": {dto.AddressRequest{Name: "Casa", Address: "  "}, "direccion"},
		"latitud 91":    {dto.AddressRequest{Name: "Casa", Address: "Calle 1", Latitude: ptr(91)}, "latitud"},
		"longitud -181": {dto.AddressRequest{Name: "Casa", Address: "Calle 1", Longitude: ptr(-181)}, "longitud"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), cliente("u1"), tc.in)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
