package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
//
// Price is nullable: some catalog items are listed without a price. Such
// items can be browsed and previewed but are not orderable.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	Image       string
	Price       decimal.NullDecimal
}

// Priceless reports whether the product has no price attached.
func (p Product) Priceless() bool {
	return !p.Price.Valid
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}
