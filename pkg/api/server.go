package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/helixdex/helix/pkg/app/spot"
	"github.com/helixdex/helix/pkg/engine"
	"github.com/helixdex/helix/pkg/ledger"
)

// Server exposes the exchange over REST and streams events over WebSocket.
type Server struct {
	app         *spot.App
	router      *mux.Router
	hub         *Hub
	log         *zap.Logger
	corsOrigins []string
}

func NewServer(app *spot.App, log *zap.Logger, corsOrigins []string) *Server {
	s := &Server{
		app:         app,
		router:      mux.NewRouter(),
		hub:         NewHub(log),
		log:         log,
		corsOrigins: corsOrigins,
	}
	s.setupRoutes()
	return s
}

// Hub returns the WebSocket hub so the node can wire it in as an event sink.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/markets", s.handleGetMarkets).Methods("GET")
	api.HandleFunc("/markets/{id}", s.handleGetMarket).Methods("GET")
	api.HandleFunc("/markets/{id}/orderbook", s.handleGetOrderbook).Methods("GET")
	api.HandleFunc("/accounts/{address}/orders", s.handleGetOpenOrders).Methods("GET")
	api.HandleFunc("/accounts/{address}/balances", s.handleGetBalances).Methods("GET")

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/faucet", s.handleFaucet).Methods("POST")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	s.log.Info("api_server_starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, c.Handler(s.router))
}

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	markets := s.app.Markets()
	out := make([]MarketInfo, len(markets))
	for i, m := range markets {
		out[i] = s.marketInfo(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	m, ok := s.marketFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.marketInfo(m))
}

func (s *Server) marketInfo(m *engine.Market) MarketInfo {
	st, _ := s.app.Stats(m.ID)
	return MarketInfo{
		ID:            m.ID,
		Base:          m.Base,
		Quote:         m.Quote,
		LotSize:       m.Params.LotSize,
		TickSize:      m.Params.TickSize,
		MinSize:       m.Params.MinSize,
		FeeRateBps:    m.Params.FeeRateBps,
		BidLevels:     st.BidLevels,
		AskLevels:     st.AskLevels,
		EscrowedBase:  st.EscrowedBase,
		EscrowedQuote: st.EscrowedQuote,
	}
}

func (s *Server) handleGetOrderbook(w http.ResponseWriter, r *http.Request) {
	m, ok := s.marketFromPath(w, r)
	if !ok {
		return
	}
	depth := 0
	if v := r.URL.Query().Get("depth"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			depth = n
		}
	}
	bids, asks, err := s.app.Orderbook(m.ID, depth)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	resp := OrderbookResponse{MarketID: m.ID, Bids: bids, Asks: asks}
	if len(bids) > 0 {
		resp.BestBid = &bids[0].Price
	}
	if len(asks) > 0 {
		resp.BestAsk = &asks[0].Price
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOpenOrders(w http.ResponseWriter, r *http.Request) {
	owner, ok := addressFromPath(w, r)
	if !ok {
		return
	}
	var out []OrderInfo
	for _, m := range s.app.Markets() {
		orders, err := s.app.OpenOrders(m.ID, owner)
		if err != nil {
			continue
		}
		for _, o := range orders {
			out = append(out, OrderInfo{
				OrderID:     o.ID,
				MarketID:    m.ID,
				Side:        o.Side.String(),
				Price:       o.Price,
				Size:        o.Size,
				Filled:      o.Filled,
				Open:        o.Open(),
				Restriction: o.Restriction.String(),
				CreatedAt:   o.CreatedAt,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	owner, ok := addressFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, BalancesResponse{
		Owner:    owner.Hex(),
		Balances: s.app.Balances(owner),
	})
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if !common.IsHexAddress(req.Owner) {
		writeBadRequest(w, "invalid owner address")
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	restriction, err := parseRestriction(req.Restriction)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	id, err := s.app.PlaceOrder(req.MarketID, common.HexToAddress(req.Owner), side, req.Price, req.Size, restriction)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, PlaceOrderResponse{OrderID: id})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if !common.IsHexAddress(req.Owner) {
		writeBadRequest(w, "invalid owner address")
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.app.CancelOrder(req.MarketID, common.HexToAddress(req.Owner), req.OrderID, side, req.Price); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	var req FaucetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if !common.IsHexAddress(req.Owner) {
		writeBadRequest(w, "invalid owner address")
		return
	}
	if err := s.app.Fund(common.HexToAddress(req.Owner), req.Asset, req.Amount); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"funded": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) marketFromPath(w http.ResponseWriter, r *http.Request) (*engine.Market, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid market id")
		return nil, false
	}
	m, err := s.app.Market(id)
	if err != nil {
		writeError(w, s.log, err)
		return nil, false
	}
	return m, true
}

func addressFromPath(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := mux.Vars(r)["address"]
	if !common.IsHexAddress(raw) {
		writeBadRequest(w, "invalid address")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

// writeError maps engine and ledger errors onto HTTP statuses. Every engine
// failure is a rejected request, not a server fault.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrMarketNotFound), errors.Is(err, engine.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, engine.ErrSelfMatch):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrInvalidPrice),
		errors.Is(err, engine.ErrInvalidSize),
		errors.Is(err, engine.ErrInvalidParameter):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusUnprocessableEntity
	default:
		log.Error("request_failed", zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
