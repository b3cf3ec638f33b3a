// Package state owns the storefront's mutable application state: the product
// catalog, the shopping cart, and the in-progress order draft.
//
// All mutation goes through the exported methods, every method reports
// failure through an explicit error instead of logging and continuing, and
// change notifications are published on the event bus so views can re-render.
// Cart contents and the draft's item-id list move in lockstep, so at any
// point they contain exactly the same set of product ids.
//
// Product decision: items without a price cannot enter the cart at all.
// Allowing them into the cart but not into the order (as one historical
// variant did) would break the cart/order lockstep invariant.
package state

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// Bus events published by the state.
const (
	EventCatalogChanged = "items:changed"
	EventPreviewChanged = "preview:changed"
	EventBasketChanged  = "basket:changed"
	EventFormErrors     = "formErrors:change"
	EventOrderReady     = "order:ready"
	EventPhaseChanged   = "phase:changed"
)

// Mutation errors.
var (
	ErrMalformedProduct = errors.New("product has no id")
	ErrPriceless        = errors.New("product has no price and cannot be ordered")
	ErrNotInCart        = errors.New("product not in cart")
	ErrUnknownField     = errors.New("unknown order field")
	ErrBadPayment       = errors.New("unknown payment method")
	ErrNotReady         = errors.New("checkout stage is not valid yet")
	ErrSubmitInFlight   = errors.New("order submission already in flight")
	ErrBadTransition    = errors.New("checkout transition not allowed")
)

// Validation messages surfaced to the user via the error mapping.
const (
	msgAddressRequired = "delivery address is required"
	msgEmailRequired   = "email is required"
	msgPhoneRequired   = "phone is required"
	msgBadPayment      = "payment method must be card or cash"
)

// State is the single owned instance of application state. It is safe for
// concurrent use, though the widget drives it from one goroutine; bus events
// are emitted after the internal lock is released so handlers may read state
// freely.
type State struct {
	events *bus.Bus
	lg     *zap.Logger

	mu      sync.RWMutex
	catalog []product.Product
	cart    []product.Product
	preview string
	draft   order.Draft
	errs    order.Errors
	phase   Phase
}

// New creates an empty State publishing change events on events.
func New(events *bus.Bus, lg *zap.Logger) *State {
	return &State{
		events: events,
		lg:     lg,
		draft:  order.NewDraft(),
		errs:   order.Errors{},
		phase:  PhaseBrowsing,
	}
}

// ReplaceCatalog installs a new catalog wholesale and emits
// EventCatalogChanged. A product without an id aborts the whole replacement;
// no partial catalog is ever installed.
func (s *State) ReplaceCatalog(items []product.Product) error {
	for i, p := range items {
		if p.ID == "" {
			return errors.Wrapf(ErrMalformedProduct, "catalog item %d", i)
		}
	}

	s.mu.Lock()
	s.catalog = append([]product.Product(nil), items...)
	snapshot := s.catalogLocked()
	s.mu.Unlock()

	s.events.Emit(EventCatalogChanged, snapshot)
	return nil
}

// Catalog returns a copy of the current catalog.
func (s *State) Catalog() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogLocked()
}

func (s *State) catalogLocked() []product.Product {
	return append([]product.Product(nil), s.catalog...)
}

// SelectPreview records p as the currently previewed product and emits
// EventPreviewChanged carrying it.
func (s *State) SelectPreview(p product.Product) error {
	if p.ID == "" {
		return ErrMalformedProduct
	}

	s.mu.Lock()
	s.preview = p.ID
	s.phase = PhasePreviewing
	s.mu.Unlock()

	s.events.Emit(EventPreviewChanged, p)
	s.events.Emit(EventPhaseChanged, PhasePreviewing)
	return nil
}

// Preview returns the currently previewed product, if any.
func (s *State) Preview() (product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.catalog {
		if p.ID == s.preview {
			return p, true
		}
	}
	return product.Product{}, false
}

// AddToCart puts p into the cart and, in lockstep, appends its id to the
// order draft. Priceless products are rejected with ErrPriceless. Adding a
// product already present is a no-op.
func (s *State) AddToCart(p product.Product) error {
	if p.ID == "" {
		return ErrMalformedProduct
	}
	if p.Priceless() {
		return ErrPriceless
	}

	s.mu.Lock()
	if s.inCartLocked(p.ID) {
		s.mu.Unlock()
		return nil
	}
	s.cart = append(s.cart, p)
	s.draft.Items = append(s.draft.Items, p.ID)
	snapshot := s.cartLocked()
	s.mu.Unlock()

	s.events.Emit(EventBasketChanged, snapshot)
	return nil
}

// RemoveFromCart removes the product with the given id from the cart and the
// order draft. Removing an absent product returns ErrNotInCart, which
// callers treat as a warning.
func (s *State) RemoveFromCart(id string) error {
	s.mu.Lock()
	found := false
	for i, p := range s.cart {
		if p.ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			found = true
			break
		}
	}
	for i, item := range s.draft.Items {
		if item == id {
			s.draft.Items = append(s.draft.Items[:i], s.draft.Items[i+1:]...)
			break
		}
	}
	snapshot := s.cartLocked()
	s.mu.Unlock()

	if !found {
		return errors.Wrapf(ErrNotInCart, "product %q", id)
	}
	s.events.Emit(EventBasketChanged, snapshot)
	return nil
}

// ClearCart empties the cart and the draft item list, used after a confirmed
// order.
func (s *State) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.draft.Items = nil
	s.mu.Unlock()

	s.events.Emit(EventBasketChanged, []product.Product{})
}

// CartItems returns a copy of the current cart contents.
func (s *State) CartItems() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartLocked()
}

// CartEmpty reports whether the cart holds no products.
func (s *State) CartEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cart) == 0
}

// CartCount returns the number of products in the cart.
func (s *State) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cart)
}

func (s *State) cartLocked() []product.Product {
	return append([]product.Product(nil), s.cart...)
}

func (s *State) inCartLocked(id string) bool {
	for _, p := range s.cart {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Total sums the catalog prices of the products referenced by the order
// draft. An id that no longer resolves to a catalog product is skipped with
// a warning; the method never fails.
func (s *State) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalLocked()
}

func (s *State) totalLocked() decimal.Decimal {
	byID := make(map[string]product.Product, len(s.catalog))
	for _, p := range s.catalog {
		byID[p.ID] = p
	}

	total := decimal.Zero
	for _, id := range s.draft.Items {
		p, ok := byID[id]
		if !ok {
			s.lg.Warn("ordered product missing from catalog", zap.String("product_id", id))
			continue
		}
		if p.Priceless() {
			continue
		}
		total = total.Add(p.Price.Decimal)
	}
	return total
}

// SetOrderField assigns a delivery-stage draft field (address or payment),
// re-validates the stage, always emits EventFormErrors with the fresh error
// mapping, and emits EventOrderReady when the stage became valid.
func (s *State) SetOrderField(field, value string) error {
	switch field {
	case order.FieldAddress:
		s.mu.Lock()
		s.draft.Address = value
	case order.FieldPayment:
		if !order.ValidPayment(value) {
			return errors.Wrapf(ErrBadPayment, "%q", value)
		}
		s.mu.Lock()
		s.draft.Payment = value
	default:
		return errors.Wrapf(ErrUnknownField, "%q", field)
	}

	valid := s.validateOrderLocked()
	errsCopy := s.errsLocked()
	draft := s.draftLocked()
	s.mu.Unlock()

	s.events.Emit(EventFormErrors, errsCopy)
	if valid {
		s.events.Emit(EventOrderReady, draft)
	}
	return nil
}

// SetContactField assigns a contact-stage draft field (email or phone),
// re-validates the stage, always emits EventFormErrors, and emits
// EventOrderReady when the stage became valid.
func (s *State) SetContactField(field, value string) error {
	switch field {
	case order.FieldEmail:
		s.mu.Lock()
		s.draft.Email = value
	case order.FieldPhone:
		s.mu.Lock()
		s.draft.Phone = value
	default:
		return errors.Wrapf(ErrUnknownField, "%q", field)
	}

	valid := s.validateContactsLocked()
	errsCopy := s.errsLocked()
	draft := s.draftLocked()
	s.mu.Unlock()

	s.events.Emit(EventFormErrors, errsCopy)
	if valid {
		s.events.Emit(EventOrderReady, draft)
	}
	return nil
}

// validateOrderLocked overwrites the full error mapping with delivery-stage
// errors and reports whether the stage is valid.
func (s *State) validateOrderLocked() bool {
	errs := order.Errors{}
	if s.draft.Address == "" {
		errs[order.FieldAddress] = msgAddressRequired
	}
	if !order.ValidPayment(s.draft.Payment) {
		errs[order.FieldPayment] = msgBadPayment
	}
	s.errs = errs
	return len(errs) == 0
}

// validateContactsLocked overwrites the full error mapping with
// contact-stage errors and reports whether the stage is valid.
func (s *State) validateContactsLocked() bool {
	errs := order.Errors{}
	if s.draft.Email == "" {
		errs[order.FieldEmail] = msgEmailRequired
	}
	if s.draft.Phone == "" {
		errs[order.FieldPhone] = msgPhoneRequired
	}
	s.errs = errs
	return len(errs) == 0
}

// OrderValid reports whether the delivery stage of the draft is valid. It
// does not touch the error mapping.
func (s *State) OrderValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Address != "" && order.ValidPayment(s.draft.Payment)
}

// ContactsValid reports whether the contact stage of the draft is valid. It
// does not touch the error mapping.
func (s *State) ContactsValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Email != "" && s.draft.Phone != ""
}

// Errors returns a copy of the current validation error mapping. An empty
// mapping means the last validated stage is valid.
func (s *State) Errors() order.Errors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errsLocked()
}

func (s *State) errsLocked() order.Errors {
	out := make(order.Errors, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// Draft returns a copy of the current order draft with the total freshly
// recomputed from the cart contents.
func (s *State) Draft() order.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draftLocked()
}

func (s *State) draftLocked() order.Draft {
	d := s.draft
	d.Items = append([]string(nil), s.draft.Items...)
	d.Total = s.totalLocked()
	return d
}

// resetDraftLocked restores the draft to its initial empty form.
func (s *State) resetDraftLocked() {
	s.draft = order.NewDraft()
	s.errs = order.Errors{}
}
