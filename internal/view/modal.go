package view

import (
	"strings"

	"github.com/xenking/storefront/internal/bus"
)

// Modal is the popup shell wrapping preview, basket, form, and confirmation
// content.
type Modal struct {
	events *bus.Bus
	open   bool
}

// NewModal creates the modal shell.
func NewModal(events *bus.Bus) *Modal {
	return &Modal{events: events}
}

// Open marks the modal visible and announces it.
func (v *Modal) Open() {
	if !v.open {
		v.open = true
		v.events.Emit(EventModalOpen, nil)
	}
}

// Close hides the modal and announces it.
func (v *Modal) Close() {
	if v.open {
		v.open = false
		v.events.Emit(EventModalClose, nil)
	}
}

// IsOpen reports whether the modal is currently shown.
func (v *Modal) IsOpen() bool {
	return v.open
}

// Render wraps content in the modal frame. An empty string means the modal
// is closed.
func (v *Modal) Render(content string) string {
	if !v.open {
		return ""
	}
	return modalStyle.Render(content)
}

// Confirmed projects the order confirmation panel.
type Confirmed struct {
	events *bus.Bus
}

// NewConfirmed creates the confirmation view.
func NewConfirmed(events *bus.Bus) *Confirmed {
	return &Confirmed{events: events}
}

// Render draws the success panel with the charged total and order id.
func (v *Confirmed) Render(orderID, total string) string {
	var b strings.Builder
	b.WriteString(successStyle.Render("order placed"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("order " + orderID))
	b.WriteString("\n")
	b.WriteString("charged: ")
	b.WriteString(titleStyle.Render(total))
	b.WriteString("\n\n")
	b.WriteString(buttonStyle.Render("[ back to catalog ]"))
	return b.String()
}

// Dismiss forwards the close click on the confirmation panel.
func (v *Confirmed) Dismiss() {
	v.events.Emit(EventModalClose, nil)
}
