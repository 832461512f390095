package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// Rows shown per dashboard panel.
const (
	bookLevels   = 8
	tradeRows    = 12
	candleRows   = 8
	amountDigits = 4
)

// listItem implements list.Item for the pair and timeframe lists.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

func newList(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewPairList lists the tradable pairs.
func NewPairList(assets []types.AssetConfig) list.Model {
	items := make([]list.Item, 0, len(assets))
	for _, a := range assets {
		items = append(items, listItem{name: a.Pair, description: a.Name})
	}

	return newList("Select Pair", items)
}

// NewTimeframeList lists the supported candle timeframes.
func NewTimeframeList() list.Model {
	descriptions := map[types.Timeframe]string{
		types.TimeframeOneMinute:      "1 minute candles",
		types.TimeframeFiveMinutes:    "5 minute candles",
		types.TimeframeFifteenMinutes: "15 minute candles",
		types.TimeframeOneHour:        "1 hour candles",
		types.TimeframeFourHours:      "4 hour candles",
		types.TimeframeOneDay:         "1 day candles",
	}

	items := make([]list.Item, 0, len(descriptions))
	for _, tf := range types.Timeframes() {
		items = append(items, listItem{name: tf.String(), description: descriptions[tf]})
	}

	return newList("Select Timeframe", items)
}

// NewMarketTable creates the market overview table.
func NewMarketTable() table.Model {
	columns := []table.Column{
		{Title: "Pair", Width: 12},
		{Title: "Name", Width: 10},
		{Title: "Price", Width: 24},
		{Title: "24h", Width: 9},
		{Title: "Volume", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(7),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateMarketRows refreshes the overview rows in ticker order.
func UpdateMarketRows(t table.Model, tickers []types.AssetSummary, prevPrices map[string]float64) table.Model {
	rows := make([]table.Row, 0, len(tickers))

	for _, a := range tickers {
		rows = append(rows, table.Row{
			a.Pair,
			a.Name,
			FormatPriceWithArrow(a.Price, prevPrices[a.Pair], a.Precision),
			FormatChange(a.Change24h),
			FormatVolume(a.Volume24h),
		})
	}

	t.SetRows(rows)

	return t
}

// FormatVolume abbreviates large volumes (1.25M, 3.40K).
func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// RenderOrderBook draws asks worst-to-best above the spread and bids below it.
func RenderOrderBook(book types.OrderBook, levels int) string {
	precision := market.PrecisionForPrice(book.LastPrice)

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Order Book"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-14s %12s %12s\n", "Price", "Amount", "Total")

	asks := book.AsksForDisplay()
	if len(asks) > levels {
		asks = asks[len(asks)-levels:]
	}

	for _, e := range asks {
		b.WriteString(AskStyle.Render(fmt.Sprintf("%-14s %12.4f %12.4f", FormatPrice(e.Price, precision), e.Amount, e.Total)))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s  spread %s\n",
		TitleStyle.Render(FormatPrice(book.LastPrice, precision)),
		FormatPrice(book.Spread(), precision),
	)

	bids := book.Bids
	if len(bids) > levels {
		bids = bids[:levels]
	}

	for _, e := range bids {
		b.WriteString(BidStyle.Render(fmt.Sprintf("%-14s %12.4f %12.4f", FormatPrice(e.Price, precision), e.Amount, e.Total)))
		b.WriteString("\n")
	}

	return PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderTrades draws the newest trades first.
func RenderTrades(trades []types.TradeEntry, rows int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Recent Trades"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-9s %14s %10s\n", "Time", "Price", "Amount")

	if len(trades) > rows {
		trades = trades[:rows]
	}

	for _, t := range trades {
		style := AskStyle
		if t.Side == types.SideBuy {
			style = BidStyle
		}

		line := fmt.Sprintf("%-9s %14s %10.*f",
			t.Time.Format("15:04:05"),
			FormatPrice(t.Price, market.PrecisionForPrice(t.Price)),
			amountDigits, t.Amount,
		)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderCandles draws the most recent bars, newest last.
func RenderCandles(candles []types.Candle, tf types.Timeframe, rows int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Candles " + tf.String()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-12s %12s %12s %12s %12s %10s\n", "Open time", "Open", "High", "Low", "Close", "Volume")

	if len(candles) > rows {
		candles = candles[len(candles)-rows:]
	}

	for _, c := range candles {
		precision := market.PrecisionForPrice(c.Close)
		line := fmt.Sprintf("%-12s %12s %12s %12s %12s %10.2f",
			time.Unix(c.Time, 0).UTC().Format("01-02 15:04"),
			FormatPrice(c.Open, precision),
			FormatPrice(c.High, precision),
			FormatPrice(c.Low, precision),
			FormatPrice(c.Close, precision),
			c.Volume,
		)

		style := BidStyle
		if c.Close < c.Open {
			style = AskStyle
		}

		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}
