// Package catalog resolves product ids to the name, price and availability
// that an order line snapshots at creation time.
package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a product id is unknown to the catalog.
var ErrNotFound = errors.New("product not found")

type Entry struct {
	ProductID uint            `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"is_available"`
}

// Lookup is read-only access to the product catalog.
type Lookup interface {
	Lookup(ctx context.Context, productID uint) (Entry, error)
}
