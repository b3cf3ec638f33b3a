// Package view holds the storefront's terminal view components. Each view is
// a pure projection: Render turns a plain-data snapshot into styled text, and
// the interaction methods re-emit user input as semantic events on the bus.
// Views never mutate application state directly.
package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	danger  = lipgloss.Color("#EF4444") // red
	success = lipgloss.Color("#22C55E") // green
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	errorStyle    = lipgloss.NewStyle().Foreground(danger)
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(success)
	disabledStyle = lipgloss.NewStyle().Foreground(dim).Strikethrough(true)
	buttonStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 1).
			Width(28)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

// FormatPrice renders a nullable price for display. Priceless items show a
// placeholder instead of a number.
func FormatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "priceless"
	}
	return p.Decimal.StringFixed(2)
}
