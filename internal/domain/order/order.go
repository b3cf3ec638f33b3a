package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// ValidPayment reports whether m is one of the accepted payment methods.
func ValidPayment(m string) bool {
	return m == PaymentCard || m == PaymentCash
}

// Field names of the order draft, used as keys in validation error maps and
// as the <field> part of `order.<field>:change` / `contacts.<field>:change`
// bus events.
const (
	FieldAddress = "address"
	FieldPayment = "payment"
	FieldEmail   = "email"
	FieldPhone   = "phone"
)

// Draft is the in-progress checkout record: delivery and contact fields plus
// the ids of the selected products. Total is derived from the cart contents
// and recomputed before submission; it is never authoritative input.
type Draft struct {
	Address string
	Payment string
	Email   string
	Phone   string
	Total   decimal.Decimal
	Items   []string
}

// NewDraft returns an empty draft with the default payment method selected.
func NewDraft() Draft {
	return Draft{Payment: PaymentCard}
}

// Errors is a sparse mapping from draft field name to a human-readable
// message. An empty map means the corresponding form stage is valid.
type Errors map[string]string

// Order is a confirmed order as persisted by the API.
type Order struct {
	ID        string
	Items     []string
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
}
