package view

import (
	"sort"
	"strings"

	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/domain/order"
)

// FieldChange is the payload of the namespaced `order.<field>:change` and
// `contacts.<field>:change` events.
type FieldChange struct {
	Field string
	Value string
}

// formatErrors joins the error mapping into one display line, keyed order
// kept stable for rendering.
func formatErrors(errs order.Errors) string {
	if len(errs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = errs[k]
	}
	return strings.Join(msgs, "; ")
}

func renderSubmit(label string, valid bool) string {
	if valid {
		return buttonStyle.Render("[ " + label + " ]")
	}
	return disabledStyle.Render("[ " + label + " ]")
}

// OrderForm projects the delivery/payment stage of checkout.
type OrderForm struct {
	events *bus.Bus
	valid  bool
}

// NewOrderForm creates the delivery/payment form view.
func NewOrderForm(events *bus.Bus) *OrderForm {
	return &OrderForm{events: events}
}

// Render draws the form with the payment toggle, address field, and current
// validation errors. The submit control is disabled until the stage is
// valid.
func (v *OrderForm) Render(address, payment string, errs order.Errors, valid bool) string {
	v.valid = valid

	var b strings.Builder
	b.WriteString(headerStyle.Render("delivery & payment"))
	b.WriteString("\n\n")

	b.WriteString("payment: ")
	for i, m := range []string{order.PaymentCard, order.PaymentCash} {
		if i > 0 {
			b.WriteString("  ")
		}
		if m == payment {
			b.WriteString(selectedStyle.Render(m))
		} else {
			b.WriteString(dimStyle.Render(m))
		}
	}
	b.WriteString("\n")
	b.WriteString("address: ")
	b.WriteString(address)
	b.WriteString("\n\n")

	if msg := formatErrors(errs); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n\n")
	}
	b.WriteString(renderSubmit("continue", valid))
	return b.String()
}

// Input forwards an address edit as a namespaced field-change event.
func (v *OrderForm) Input(field, value string) {
	v.events.Emit("order."+field+":change", FieldChange{Field: field, Value: value})
}

// ChoosePayment forwards a payment toggle click.
func (v *OrderForm) ChoosePayment(method string) {
	v.events.Emit(EventPayment, method)
}

// Submit forwards the submit click. Clicks on the disabled control are
// ignored.
func (v *OrderForm) Submit() {
	if !v.valid {
		return
	}
	v.events.Emit(EventOrderSubmit, nil)
}

// ContactsForm projects the contact stage of checkout.
type ContactsForm struct {
	events *bus.Bus
	valid  bool
}

// NewContactsForm creates the contact form view.
func NewContactsForm(events *bus.Bus) *ContactsForm {
	return &ContactsForm{events: events}
}

// Render draws the email/phone form. The pay control is disabled until both
// fields validate.
func (v *ContactsForm) Render(email, phone string, errs order.Errors, valid bool) string {
	v.valid = valid

	var b strings.Builder
	b.WriteString(headerStyle.Render("contacts"))
	b.WriteString("\n\n")
	b.WriteString("email: ")
	b.WriteString(email)
	b.WriteString("\n")
	b.WriteString("phone: ")
	b.WriteString(phone)
	b.WriteString("\n\n")

	if msg := formatErrors(errs); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n\n")
	}
	b.WriteString(renderSubmit("pay", valid))
	return b.String()
}

// Input forwards an email/phone edit as a namespaced field-change event.
func (v *ContactsForm) Input(field, value string) {
	v.events.Emit("contacts."+field+":change", FieldChange{Field: field, Value: value})
}

// Submit forwards the pay click. Clicks on the disabled control are ignored.
func (v *ContactsForm) Submit() {
	if !v.valid {
		return
	}
	v.events.Emit(EventContactSubmit, nil)
}
