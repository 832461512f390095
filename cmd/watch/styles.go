package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rxtech-lab/market-sim/internal/numeric"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// BidStyle colors buy side levels and trades.
	BidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// AskStyle colors sell side levels and trades.
	AskStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// PanelStyle frames the order book, trades and candle panels.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// FormatPrice renders a price with the given number of decimals.
func FormatPrice(price float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, price)
}

// FormatPriceWithArrow appends an arrow and the tick-over-tick move from previous.
// A zero previous price means there is nothing to compare against.
func FormatPriceWithArrow(current, previous float64, precision int) string {
	priceStr := FormatPrice(current, precision)

	if previous == 0 {
		return priceStr
	}

	move := numeric.Round(numeric.PercentChange(previous, current), 2)

	switch {
	case current > previous:
		return fmt.Sprintf("%s ▲ %+.2f%%", priceStr, move)
	case current < previous:
		return fmt.Sprintf("%s ▼ %+.2f%%", priceStr, move)
	default:
		return priceStr
	}
}

// FormatChange renders a 24h change with an explicit sign.
func FormatChange(change float64) string {
	return fmt.Sprintf("%+.2f%%", change)
}
