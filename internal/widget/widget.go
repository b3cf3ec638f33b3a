// Package widget wires the storefront together: view events feed application
// state mutators, state change events feed view re-renders, and the two
// network boundaries (catalog fetch at startup, order submission at
// checkout) bridge into the synchronous event loop. The state instance is
// owned here and passed explicitly; nothing reaches it except through the
// bus subscriptions below.
package widget

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/state"
	"github.com/xenking/storefront/internal/view"
)

// Client is the remote API surface the widget depends on.
type Client interface {
	FetchCatalog(ctx context.Context) ([]product.Product, error)
	SubmitOrder(ctx context.Context, draft order.Draft) (string, error)
}

var (
	orderFieldRe    = regexp.MustCompile(`^order\..+:change$`)
	contactsFieldRe = regexp.MustCompile(`^contacts\..+:change$`)
)

// Widget owns the storefront's views and drives them off the event bus.
type Widget struct {
	events *bus.Bus
	state  *state.State
	client Client
	lg     *zap.Logger
	out    io.Writer

	catalog   *view.Catalog
	preview   *view.Preview
	basket    *view.Basket
	orderForm *view.OrderForm
	contacts  *view.ContactsForm
	confirmed *view.Confirmed
	modal     *view.Modal

	ctx         context.Context
	lastOrderID string
	lastTotal   string
	notice      string
}

// New builds the widget and registers every bus subscription. Rendered
// output goes to out.
func New(events *bus.Bus, st *state.State, client Client, lg *zap.Logger, out io.Writer) *Widget {
	w := &Widget{
		events:    events,
		state:     st,
		client:    client,
		lg:        lg,
		out:       out,
		catalog:   view.NewCatalog(events),
		preview:   view.NewPreview(events),
		basket:    view.NewBasket(events),
		orderForm: view.NewOrderForm(events),
		contacts:  view.NewContactsForm(events),
		confirmed: view.NewConfirmed(events),
		modal:     view.NewModal(events),
		ctx:       context.Background(),
	}
	w.subscribe()
	return w
}

func (w *Widget) subscribe() {
	w.events.On(state.EventCatalogChanged, func(any) { w.showCatalog() })
	w.events.On(state.EventBasketChanged, w.onBasketChanged)
	w.events.On(state.EventFormErrors, func(any) { w.showActiveForm() })

	w.events.On(view.EventCardSelect, w.onCardSelect)
	w.events.On(state.EventPreviewChanged, w.onPreviewChanged)
	w.events.On(view.EventCardAdd, w.onCardAdd)
	w.events.On(view.EventCardRemove, w.onCardRemove)
	w.events.On(view.EventBasketOpen, func(any) { w.onBasketOpen() })
	w.events.On(view.EventOrderOpen, func(any) { w.onOrderOpen() })
	w.events.On(view.EventPayment, w.onPaymentChange)
	w.events.OnPattern(orderFieldRe, w.onOrderField)
	w.events.OnPattern(contactsFieldRe, w.onContactsField)
	w.events.On(view.EventOrderSubmit, func(any) { w.onOrderSubmit() })
	w.events.On(view.EventContactSubmit, func(any) { w.onContactsSubmit() })
	w.events.On(view.EventModalClose, func(any) { w.onModalClose() })
}

// Start fetches the catalog and installs it. Transport failure after the
// client's retries surfaces here.
func (w *Widget) Start(ctx context.Context) error {
	w.ctx = ctx

	products, err := w.client.FetchCatalog(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	if err := w.state.ReplaceCatalog(products); err != nil {
		return errors.Wrap(err, "install catalog")
	}
	return nil
}

// --- event handlers ---

func (w *Widget) onCardSelect(data any) {
	p, ok := data.(product.Product)
	if !ok {
		return
	}
	if err := w.state.SelectPreview(p); err != nil {
		w.lg.Warn("preview rejected", zap.Error(err))
	}
}

func (w *Widget) onPreviewChanged(data any) {
	p, ok := data.(product.Product)
	if !ok {
		return
	}
	w.modal.Open()
	w.show(w.modal.Render(w.preview.Render(p, w.inCart(p.ID))))
}

func (w *Widget) onCardAdd(data any) {
	p, ok := data.(product.Product)
	if !ok {
		return
	}
	if err := w.state.AddToCart(p); err != nil {
		if errors.Is(err, state.ErrPriceless) {
			w.notice = "this item cannot be purchased"
			w.lg.Warn("priceless product rejected", zap.String("product_id", p.ID))
			w.showCatalog()
			return
		}
		w.lg.Warn("add to cart failed", zap.Error(err))
		return
	}
	w.closeOverlay()
}

func (w *Widget) onCardRemove(data any) {
	p, ok := data.(product.Product)
	if !ok {
		return
	}
	if err := w.state.RemoveFromCart(p.ID); err != nil {
		// Removing an absent item is a warning, not a failure.
		w.lg.Warn("remove from cart", zap.Error(err))
	}
}

func (w *Widget) onBasketChanged(any) {
	if w.state.Phase() == state.PhaseCartReview {
		w.showBasket()
		return
	}
	w.showCatalog()
}

func (w *Widget) onBasketOpen() {
	if err := w.state.OpenBasket(); err != nil {
		w.lg.Warn("open basket", zap.Error(err))
		return
	}
	w.modal.Open()
	w.showBasket()
}

func (w *Widget) onOrderOpen() {
	if err := w.state.OpenOrder(); err != nil {
		w.lg.Warn("open order", zap.Error(err))
		return
	}
	w.showOrderForm()
}

func (w *Widget) onPaymentChange(data any) {
	method, ok := data.(string)
	if !ok {
		return
	}
	if err := w.state.SetOrderField(order.FieldPayment, method); err != nil {
		w.lg.Warn("payment change rejected", zap.Error(err))
	}
}

func (w *Widget) onOrderField(data any) {
	fc, ok := data.(view.FieldChange)
	if !ok {
		return
	}
	if err := w.state.SetOrderField(fc.Field, fc.Value); err != nil {
		w.lg.Warn("order field rejected", zap.String("field", fc.Field), zap.Error(err))
	}
}

func (w *Widget) onContactsField(data any) {
	fc, ok := data.(view.FieldChange)
	if !ok {
		return
	}
	if err := w.state.SetContactField(fc.Field, fc.Value); err != nil {
		w.lg.Warn("contact field rejected", zap.String("field", fc.Field), zap.Error(err))
	}
}

func (w *Widget) onOrderSubmit() {
	if err := w.state.OpenContacts(); err != nil {
		w.lg.Warn("open contacts", zap.Error(err))
		return
	}
	w.showContactsForm()
}

// onContactsSubmit drives the one network submission. On failure the flow
// returns to the contact form with the error surfaced to the user; on
// success the cart is cleared and the confirmation panel shown.
func (w *Widget) onContactsSubmit() {
	draft, err := w.state.BeginSubmit()
	if err != nil {
		w.lg.Warn("submit rejected", zap.Error(err))
		return
	}

	orderID, err := w.client.SubmitOrder(w.ctx, draft)
	if err != nil {
		w.lg.Error("order submission failed", zap.Error(err))
		if ferr := w.state.FailSubmit(); ferr != nil {
			w.lg.Warn("fail transition", zap.Error(ferr))
		}
		w.notice = fmt.Sprintf("order failed: %v", err)
		w.showContactsForm()
		return
	}

	w.lastOrderID = orderID
	w.lastTotal = draft.Total.StringFixed(2)
	if err := w.state.ConfirmSubmit(); err != nil {
		w.lg.Warn("confirm transition", zap.Error(err))
	}
	w.show(w.modal.Render(w.confirmed.Render(w.lastOrderID, w.lastTotal)))
}

func (w *Widget) onModalClose() {
	// Ignore the modal's own close announcement; only a user dismissal
	// while the modal is still showing drives the transition.
	if !w.modal.IsOpen() {
		return
	}
	w.closeOverlay()
}

// --- rendering ---

func (w *Widget) show(s string) {
	if s == "" {
		return
	}
	fmt.Fprintln(w.out, s)
}

func (w *Widget) showCatalog() {
	if w.notice != "" {
		fmt.Fprintln(w.out, w.notice)
		w.notice = ""
	}
	w.show(w.catalog.Render(w.state.Catalog(), w.state.CartCount()))
}

func (w *Widget) showBasket() {
	w.show(w.modal.Render(w.basket.Render(w.state.CartItems(), w.state.Total().StringFixed(2))))
}

func (w *Widget) showOrderForm() {
	d := w.state.Draft()
	w.show(w.modal.Render(w.orderForm.Render(d.Address, d.Payment, w.state.Errors(), w.state.OrderValid())))
}

func (w *Widget) showContactsForm() {
	if w.notice != "" {
		fmt.Fprintln(w.out, w.notice)
		w.notice = ""
	}
	d := w.state.Draft()
	w.show(w.modal.Render(w.contacts.Render(d.Email, d.Phone, w.state.Errors(), w.state.ContactsValid())))
}

func (w *Widget) showActiveForm() {
	switch w.state.Phase() {
	case state.PhaseOrderDetails:
		w.showOrderForm()
	case state.PhaseContactDetails:
		w.showContactsForm()
	default:
	}
}

func (w *Widget) closeOverlay() {
	if err := w.state.CloseOverlay(); err != nil {
		w.lg.Warn("close overlay", zap.Error(err))
		return
	}
	w.modal.Close()
	w.showCatalog()
}

func (w *Widget) inCart(id string) bool {
	for _, p := range w.state.CartItems() {
		if p.ID == id {
			return true
		}
	}
	return false
}
