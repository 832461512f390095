// Package server exposes the simulated market over REST and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rxtech-lab/market-sim/internal/feed"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/simulator/account"
	"github.com/rxtech-lab/market-sim/internal/types"
	"github.com/rxtech-lab/market-sim/internal/version"
	"github.com/rxtech-lab/market-sim/pkg/errors"
)

// MarketData is the read side of the feed the server publishes.
type MarketData interface {
	Tickers() []types.AssetSummary
	Candles(pair string, tf types.Timeframe) ([]types.Candle, error)
	OrderBook(pair string) (types.OrderBook, error)
	Trades(pair string) ([]types.TradeEntry, error)
	Balances() []types.AssetBalance
	OrderHistory() []types.OrderHistoryEntry
	Subscribe(buffer int) (<-chan feed.Event, func())
}

// subscriberBuffer is the event backlog each WebSocket client may fall behind by.
const subscriberBuffer = 64

const writeTimeout = 5 * time.Second

// Server serves market data from a MarketData source.
type Server struct {
	data MarketData
	log  *logger.Logger

	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader

	wsConnections map[*websocket.Conn]bool
	wsMu          sync.Mutex
}

// New creates a Server. Call Start to listen.
func New(data MarketData, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Server{
		data:       data,
		log:        log,
		httpServer: nil,
		listener:   nil,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		wsConnections: make(map[*websocket.Conn]bool),
		wsMu:          sync.Mutex{},
	}
}

// apiPrefix is the root of the REST routes.
const apiPrefix = "/api/v1"

// Router builds the route table. REST routes are registered on the root router
// so a known path with the wrong method answers 405.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	router.HandleFunc(apiPrefix+"/tickers", s.handleTickers).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/klines", s.handleKlines).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/depth", s.handleDepth).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/trades", s.handleTrades).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/account/balances", s.handleBalances).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/account/orders", s.handleOrders).Methods(http.MethodGet)

	router.HandleFunc("/ws", s.handleWebSocket)

	return router
}

// Start listens on address. An empty address or ":0" picks a free port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeServerStartFailed, err, "failed to listen on %s", address)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server error", zap.Error(err))
		}
	}()

	s.log.Info("Server listening", zap.String("address", s.Address()))

	return nil
}

// Stop closes WebSocket clients and shuts the HTTP server down.
func (s *Server) Stop() error {
	s.wsMu.Lock()
	for conn := range s.wsConnections {
		conn.Close()
	}
	s.wsConnections = make(map[*websocket.Conn]bool)
	s.wsMu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

// Address returns the listening address, or "" before Start.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}

// WebSocketURL returns the WebSocket base URL.
func (s *Server) WebSocketURL() string {
	return "ws://" + s.Address()
}

type errorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

type klinesResponse struct {
	Pair      string         `json:"pair"`
	Timeframe string         `json:"timeframe"`
	Candles   []types.Candle `json:"candles"`
}

type depthResponse struct {
	types.OrderBook
	Spread float64 `json:"spread"`
}

type tradesResponse struct {
	Pair   string             `json:"pair"`
	Trades []types.TradeEntry `json:"trades"`
}

type balancesResponse struct {
	Balances []types.AssetBalance `json:"balances"`
	TotalUSD float64              `json:"totalUsd"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.GetVersion()})
}

func (s *Server) handleTickers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.data.Tickers())
}

func (s *Server) handleKlines(w http.ResponseWriter, r *http.Request) {
	pair, err := requirePair(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	label := r.URL.Query().Get("timeframe")
	if label == "" {
		label = types.TimeframeOneMinute.String()
	}

	tf, err := types.ParseTimeframe(label)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidTimeframe, "invalid timeframe", err))

		return
	}

	candles, err := s.data.Candles(pair, tf)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, klinesResponse{Pair: pair, Timeframe: tf.String(), Candles: candles})
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	pair, err := requirePair(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	book, err := s.data.OrderBook(pair)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, depthResponse{OrderBook: book, Spread: book.Spread()})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	pair, err := requirePair(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	trades, err := s.data.Trades(pair)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if label := r.URL.Query().Get("side"); label != "" {
		side, err := types.ParseSide(label)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidSide, "invalid side", err))

			return
		}

		trades = filterSide(trades, side)
	}

	s.writeJSON(w, http.StatusOK, tradesResponse{Pair: pair, Trades: trades})
}

// filterSide keeps the trades printed on side, preserving order.
func filterSide(trades []types.TradeEntry, side types.Side) []types.TradeEntry {
	out := make([]types.TradeEntry, 0, len(trades))
	for _, t := range trades {
		if t.Side == side {
			out = append(out, t)
		}
	}

	return out
}

func (s *Server) handleBalances(w http.ResponseWriter, _ *http.Request) {
	balances := s.data.Balances()

	s.writeJSON(w, http.StatusOK, balancesResponse{Balances: balances, TotalUSD: account.TotalUSD(balances)})
}

func (s *Server) handleOrders(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.data.OrderHistory())
}

// handleWebSocket streams feed events, optionally filtered by ?pair=.
// Ticker events carry every asset and are never filtered.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	filter := ""
	if p := r.URL.Query().Get("pair"); p != "" {
		filter = market.NormalizePair(p)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", zap.Error(err))

		return
	}

	s.wsMu.Lock()
	s.wsConnections[conn] = true
	s.wsMu.Unlock()

	events, unsubscribe := s.data.Subscribe(subscriberBuffer)

	defer func() {
		unsubscribe()

		s.wsMu.Lock()
		delete(s.wsConnections, conn)
		s.wsMu.Unlock()
		conn.Close()
	}()

	// the read loop only notices the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.log.Debug("WebSocket client connected", zap.String("pair", filter))

	for {
		select {
		case <-closed:
			return
		case e, ok := <-events:
			if !ok {
				return
			}

			if filter != "" && e.Pair != "" && e.Pair != filter {
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(e); err != nil {
				s.log.Debug("WebSocket write failed", zap.Error(err))

				return
			}
		}
	}
}

func requirePair(r *http.Request) (string, error) {
	pair := r.URL.Query().Get("pair")
	if pair == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "missing pair parameter")
	}

	return market.NormalizePair(pair), nil
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Code:  int(errors.ErrCodeInvalidParameter),
		Error: fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", zap.Error(err))
	}

	s.writeJSON(w, status, errorResponse{Code: int(errors.GetCode(err)), Error: err.Error()})
}
