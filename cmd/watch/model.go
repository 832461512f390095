package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rxtech-lab/market-sim/internal/feed"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// Application states.
const (
	StatePairSelect = iota
	StateTimeframeSelect
	StateDashboard
)

const eventBuffer = 64

// Source is the part of the feed the dashboard reads.
type Source interface {
	Tickers() []types.AssetSummary
	Candles(pair string, tf types.Timeframe) ([]types.Candle, error)
	OrderBook(pair string) (types.OrderBook, error)
	Trades(pair string) ([]types.TradeEntry, error)
	Subscribe(buffer int) (<-chan feed.Event, func())
}

// Model is the Bubble Tea model of the market dashboard.
type Model struct {
	state         int
	source        Source
	pairList      list.Model
	timeframeList list.Model
	marketTable   table.Model

	pair      string
	timeframe types.Timeframe
	tickers   []types.AssetSummary
	prevPrice map[string]float64
	book      types.OrderBook
	trades    []types.TradeEntry
	candles   []types.Candle
	err       error
	width     int
	height    int

	events      <-chan feed.Event
	unsubscribe func()
}

// NewModel creates a Model that starts at pair selection.
func NewModel(source Source, assets []types.AssetConfig) Model {
	return Model{
		state:         StatePairSelect,
		source:        source,
		pairList:      NewPairList(assets),
		timeframeList: NewTimeframeList(),
		marketTable:   NewMarketTable(),
		prevPrice:     make(map[string]float64),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.stopStreaming()

			return m, tea.Quit
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pairList.SetSize(msg.Width, msg.Height-4)
		m.timeframeList.SetSize(msg.Width, msg.Height-4)
		m.marketTable.SetWidth(msg.Width)

		return m, nil

	case FeedEventMsg:
		// events from a subscription that has since been cancelled
		if m.state != StateDashboard {
			return m, nil
		}

		m = m.applyEvent(msg.Event)

		return m, waitForEvent(m.events)

	case StreamClosedMsg:
		return m, nil
	}

	switch m.state {
	case StatePairSelect:
		return m.updatePairSelect(msg)
	case StateTimeframeSelect:
		return m.updateTimeframeSelect(msg)
	case StateDashboard:
		return m.updateDashboard(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateTimeframeSelect:
		m.state = StatePairSelect
	case StateDashboard:
		m.stopStreaming()
		m.tickers = nil
		m.prevPrice = make(map[string]float64)
		m.book = types.OrderBook{}
		m.trades = nil
		m.candles = nil
		m.err = nil
		m.state = StateTimeframeSelect
	}

	return m, nil
}

func (m Model) updatePairSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.pairList.SelectedItem().(listItem); ok {
			m.pair = item.name
			m.state = StateTimeframeSelect

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.pairList, cmd = m.pairList.Update(msg)

	return m, cmd
}

func (m Model) updateTimeframeSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.timeframeList.SelectedItem().(listItem); ok {
			tf, err := types.ParseTimeframe(item.name)
			if err != nil {
				m.err = err

				return m, nil
			}

			m.timeframe = tf

			return m.startDashboard()
		}
	}

	var cmd tea.Cmd
	m.timeframeList, cmd = m.timeframeList.Update(msg)

	return m, cmd
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.marketTable, cmd = m.marketTable.Update(msg)

	return m, cmd
}

// startDashboard loads the current state of the selected pair and subscribes
// to updates.
func (m Model) startDashboard() (tea.Model, tea.Cmd) {
	m.state = StateDashboard
	m.err = nil

	m.tickers = m.source.Tickers()
	m.marketTable = UpdateMarketRows(m.marketTable, m.tickers, m.prevPrice)

	var err error
	if m.candles, err = m.source.Candles(m.pair, m.timeframe); err != nil {
		m.err = err
	}

	if m.book, err = m.source.OrderBook(m.pair); err != nil {
		m.err = err
	}

	if m.trades, err = m.source.Trades(m.pair); err != nil {
		m.err = err
	}

	m.events, m.unsubscribe = m.source.Subscribe(eventBuffer)

	return m, waitForEvent(m.events)
}

func (m *Model) stopStreaming() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}

	m.events = nil
}

// waitForEvent blocks on the subscription for the next update.
func waitForEvent(events <-chan feed.Event) tea.Cmd {
	if events == nil {
		return nil
	}

	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return StreamClosedMsg{}
		}

		return FeedEventMsg{Event: e}
	}
}

// applyEvent folds one feed update into the dashboard state.
func (m Model) applyEvent(e feed.Event) Model {
	switch e.Kind {
	case feed.EventTicker:
		tickers, ok := e.Data.([]types.AssetSummary)
		if !ok {
			return m
		}

		for _, t := range m.tickers {
			m.prevPrice[t.Pair] = t.Price
		}

		m.tickers = tickers
		m.marketTable = UpdateMarketRows(m.marketTable, m.tickers, m.prevPrice)

	case feed.EventDepth:
		if book, ok := e.Data.(types.OrderBook); ok && e.Pair == m.pair {
			m.book = book
		}

	case feed.EventTrade:
		if trade, ok := e.Data.(types.TradeEntry); ok && e.Pair == m.pair {
			trades := make([]types.TradeEntry, 0, len(m.trades)+1)
			trades = append(trades, trade)
			trades = append(trades, m.trades...)

			if len(trades) > types.MaxTrades {
				trades = trades[:types.MaxTrades]
			}

			m.trades = trades
		}

	case feed.EventKline:
		update, ok := e.Data.(feed.KlineUpdate)
		if !ok || e.Pair != m.pair || update.Timeframe != m.timeframe.String() {
			return m
		}

		m.candles = mergeCandle(m.candles, update.Candle)
	}

	return m
}

// mergeCandle replaces the last bar when it has the same open time, otherwise appends.
func mergeCandle(series []types.Candle, c types.Candle) []types.Candle {
	out := make([]types.Candle, 0, len(series)+1)
	out = append(out, series...)

	if n := len(out); n > 0 && out[n-1].Time == c.Time {
		out[n-1] = c
	} else {
		out = append(out, c)
	}

	if len(out) > types.MaxCandles {
		out = out[len(out)-types.MaxCandles:]
	}

	return out
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StatePairSelect:
		s.WriteString(TitleStyle.Render("Market Simulator"))
		s.WriteString("\n\n")
		s.WriteString(m.pairList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, q to quit"))

	case StateTimeframeSelect:
		s.WriteString(TitleStyle.Render("Pair " + m.pair))
		s.WriteString("\n\n")
		s.WriteString(m.timeframeList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, Esc to go back"))

	case StateDashboard:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Live Market - %s (%s)", m.pair, m.timeframe)))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		s.WriteString(m.marketTable.View())
		s.WriteString("\n")
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			RenderOrderBook(m.book, bookLevels),
			RenderTrades(m.trades, tradeRows),
		))
		s.WriteString("\n")
		s.WriteString(RenderCandles(m.candles, m.timeframe, candleRows))
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("q: quit | Esc: back"))
	}

	return s.String()
}
