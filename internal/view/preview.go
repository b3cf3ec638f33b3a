package view

import (
	"strings"

	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/domain/product"
)

// Preview projects a single product in detail with an add-to-cart control.
type Preview struct {
	events *bus.Bus
}

// NewPreview creates the product preview view.
func NewPreview(events *bus.Bus) *Preview {
	return &Preview{events: events}
}

// Render draws the previewed product. The add control is disabled for
// priceless products and for products already in the cart.
func (v *Preview) Render(p product.Product, inCart bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(p.Category))
	b.WriteString("\n\n")
	if p.Description != "" {
		b.WriteString(p.Description)
		b.WriteString("\n\n")
	}
	b.WriteString(FormatPrice(p.Price))
	b.WriteString("\n\n")

	switch {
	case p.Priceless():
		b.WriteString(disabledStyle.Render("[ not for sale ]"))
	case inCart:
		b.WriteString(disabledStyle.Render("[ already in cart ]"))
	default:
		b.WriteString(buttonStyle.Render("[ add to cart ]"))
	}
	return b.String()
}

// AddToCart forwards the add control click as a semantic event.
func (v *Preview) AddToCart(p product.Product) {
	v.events.Emit(EventCardAdd, p)
}
