package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "0,00",
		"999":     "999,00",
		"25000":   "25.000,00",
		"1234.5":  "1.234,50",
		"1000000": "1.000.000,00",
		"-1500":   "-1.500,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateOrderReceipt_DevuelvePDF(t *testing.T) {
	order := &entity.Order{
		ID:        "3f2c9a1e-8b7d-4c6a-9e5f-1a2b3c4d5e6f",
		CompanyID: "emp-1",
		ClientID:  "cli-1",
		Status:    entity.OrderStatusPending,
		PlacedAt:  time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
		Items: []entity.OrderItem{
			{ProductName: "Café 500g", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
			{ProductName: "", Quantity: 1, UnitPrice: decimal.RequireFromString("3")},
		},
	}
	order.RecalculateTotal()
	company := &entity.Company{ID: "emp-1", Name: "Tostadores del Valle", Phone: "555-0101"}
	client := &entity.User{FirstName: "Ana", LastName: "Ruiz", Email: "ana@mercado.test"}

	out, err := NewReceiptGenerator().GenerateOrderReceipt(order, company, client)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateOrderReceipt_SinEmpresa(t *testing.T) {
	_, err := NewReceiptGenerator().GenerateOrderReceipt(&entity.Order{}, nil, nil)
	assert.Error(t, err)
}

func TestShortIDYEstado(t *testing.T) {
	assert.Equal(t, "N° 3F2C9A1E", shortID("3f2c9a1e-8b7d"))
	assert.Equal(t, "N° AB", shortID("ab"))
	assert.Equal(t, "En proceso", statusLabel(entity.OrderStatusPreparing))
	assert.Equal(t, "raro", statusLabel(entity.OrderStatus("raro")))
}
