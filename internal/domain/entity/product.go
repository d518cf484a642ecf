package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product (producto) pertenece a exactamente una empresa.
type Product struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	ImageURL    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
