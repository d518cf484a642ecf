package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleEmpresa, ParseRole(" Empresa "))
	assert.Equal(t, RoleUsuarioNormal, ParseRole("usuarionormal"))
	assert.Equal(t, RoleRepartidor, ParseRole("REPARTIDOR"))
	assert.Equal(t, RoleOther, ParseRole("admin"))
	assert.Equal(t, RoleOther, ParseRole(""))
}

func TestRole_RegistrableExcluyeOther(t *testing.T) {
	assert.True(t, RoleEmpresa.Registrable())
	assert.False(t, RoleOther.Registrable())
	assert.False(t, Role("admin").Registrable())
	assert.True(t, RoleOther.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestOrderStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusPreparing, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPreparing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusPreparing, OrderStatusCanceled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusCanceled, false},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusPreparing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s → %s", tc.from, tc.to)
	}
	assert.False(t, OrderStatus("perdido").Valid())
}

func TestOrder_RecalculateTotal(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("1999.99")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.03")},
	}}
	o.RecalculateTotal()
	assert.Equal(t, "5999.97", o.Items[0].Subtotal.String())
	assert.Equal(t, "6000", o.Total.String())
}

func TestOrder_Asignacion(t *testing.T) {
	empty := ""
	r1 := "r1"
	assert.True(t, (&Order{}).Unassigned())
	assert.True(t, (&Order{CourierID: &empty}).Unassigned())
	o := &Order{CourierID: &r1}
	assert.False(t, o.Unassigned())
	assert.True(t, o.AssignedTo("r1"))
	assert.False(t, o.AssignedTo("r2"))
}

func TestDisplayName_UsaEmailComoRespaldo(t *testing.T) {
	assert.Equal(t, "Ana Ruiz", DisplayName(" Ana", "Ruiz ", "ana@x.co"))
	assert.Equal(t, "ana@x.co", DisplayName("", " ", "ana@x.co"))
}
