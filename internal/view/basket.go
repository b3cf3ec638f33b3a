package view

import (
	"fmt"
	"strings"

	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/domain/product"
)

// Basket projects the cart contents with numbered rows, the running total,
// and the checkout control.
type Basket struct {
	events   *bus.Bus
	canOrder bool
}

// NewBasket creates the basket view.
func NewBasket(events *bus.Bus) *Basket {
	return &Basket{events: events}
}

// Render draws the cart panel. The checkout control is disabled while the
// cart is empty; Checkout honors that flag.
func (v *Basket) Render(items []product.Product, total string) string {
	v.canOrder = len(items) > 0

	var b strings.Builder
	b.WriteString(headerStyle.Render("basket"))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString(dimStyle.Render("basket is empty"))
		b.WriteString("\n\n")
		b.WriteString(disabledStyle.Render("[ checkout ]"))
		return b.String()
	}

	for i, p := range items {
		b.WriteString(fmt.Sprintf("%d. %s  %s\n",
			i+1, titleStyle.Render(p.Title), FormatPrice(p.Price)))
	}
	b.WriteString("\n")
	b.WriteString("total: ")
	b.WriteString(titleStyle.Render(total))
	b.WriteString("\n\n")
	b.WriteString(buttonStyle.Render("[ checkout ]"))
	return b.String()
}

// Remove forwards a row's delete control click.
func (v *Basket) Remove(p product.Product) {
	v.events.Emit(EventCardRemove, p)
}

// Checkout forwards the checkout control click. A click on the disabled
// control (empty cart) is ignored.
func (v *Basket) Checkout() {
	if !v.canOrder {
		return
	}
	v.events.Emit(EventOrderOpen, nil)
}
