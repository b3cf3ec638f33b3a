package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// Sentinel errors for order validation.
var ErrEmptyItems = fmt.Errorf("items required")

// UnknownProductError indicates an ordered product does not exist in the
// catalog.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// PricelessProductError indicates an ordered product has no price and
// therefore cannot be purchased.
type PricelessProductError struct {
	ProductID string
}

func (e *PricelessProductError) Error() string {
	return fmt.Sprintf("product %s has no price and cannot be ordered", e.ProductID)
}

// MissingFieldError indicates a required draft field is empty or invalid.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %s is required", e.Field)
}

// Service encapsulates order placement business logic on the API side.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// PlaceOrder validates the submitted draft, fetches the referenced products
// in a single batch, recomputes the total server-side, persists the order,
// and returns it. The client-supplied total is ignored: the catalog is the
// only source of prices.
func (s *Service) PlaceOrder(ctx context.Context, draft Draft) (*Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := validateDraftFields(draft); err != nil {
		return nil, err
	}

	// Batch fetch all referenced products in a single query.
	fetched, err := s.products.GetByIDs(ctx, draft.Items)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	// Every ordered id must resolve to a priced product.
	total := decimal.Zero
	for _, id := range draft.Items {
		p, ok := byID[id]
		if !ok {
			return nil, &UnknownProductError{ProductID: id}
		}
		if p.Priceless() {
			return nil, &PricelessProductError{ProductID: id}
		}
		total = total.Add(p.Price.Decimal)
	}
	total = total.Round(2)

	o := &Order{
		ID:    uuid.New().String(),
		Items: draft.Items,
		Total: total,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return o, nil
}

func validateDraftFields(draft Draft) error {
	if draft.Address == "" {
		return &MissingFieldError{Field: FieldAddress}
	}
	if !ValidPayment(draft.Payment) {
		return &MissingFieldError{Field: FieldPayment}
	}
	if draft.Email == "" {
		return &MissingFieldError{Field: FieldEmail}
	}
	if draft.Phone == "" {
		return &MissingFieldError{Field: FieldPhone}
	}
	return nil
}
