package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/domain/product"
)

// Semantic events emitted by views.
const (
	EventCardSelect    = "card:select"
	EventCardAdd       = "card:add"
	EventCardRemove    = "card:remove"
	EventBasketOpen    = "basket:open"
	EventOrderOpen     = "order:open"
	EventOrderSubmit   = "order:submit"
	EventContactSubmit = "contacts:submit"
	EventPayment       = "payment:change"
	EventModalOpen     = "modal:open"
	EventModalClose    = "modal:close"
)

// Catalog projects the product grid plus the cart counter.
type Catalog struct {
	events *bus.Bus
}

// NewCatalog creates the catalog view publishing on events.
func NewCatalog(events *bus.Bus) *Catalog {
	return &Catalog{events: events}
}

// Render draws the catalog grid. Each product shows its index, which the
// input loop maps back to Select.
func (v *Catalog) Render(items []product.Product, cartCount int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("storefront"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("cart: %d", cartCount)))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString(dimStyle.Render("catalog is empty"))
		return b.String()
	}

	cards := make([]string, len(items))
	for i, p := range items {
		cards[i] = renderCard(i+1, p)
	}
	for start := 0; start < len(cards); start += 3 {
		end := min(start+3, len(cards))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(index int, p product.Product) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("#%d ", index)))
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(p.Category))
	b.WriteString("\n")
	b.WriteString(FormatPrice(p.Price))
	return cardStyle.Render(b.String())
}

// Select forwards a card click as a semantic selection event.
func (v *Catalog) Select(p product.Product) {
	v.events.Emit(EventCardSelect, p)
}

// OpenBasket forwards the basket control click.
func (v *Catalog) OpenBasket() {
	v.events.Emit(EventBasketOpen, nil)
}
