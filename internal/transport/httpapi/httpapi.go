package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/arbitrage"
)

type FlowFacade interface {
	Scan(ctx context.Context) (arbitrage.Result, error)
	Pairs() []domain.Pair
}

type Server struct {
	addr   string
	flow   FlowFacade
	log    *zap.Logger
	server *http.Server
}

func New(addr string, flow FlowFacade, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{addr: addr, flow: flow, log: log}
}

// Handler — роутер со всеми маршрутами и CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	// маршруты на корневом роутере: подроутер отвечает 404 вместо 405
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/opportunities", s.handleOpportunities).Methods(http.MethodGet)
	r.HandleFunc("/api/books", s.handleBooks).Methods(http.MethodGet)
	r.HandleFunc("/api/pairs", s.handlePairs).Methods(http.MethodGet)
	r.HandleFunc("/api/rate", s.handleRate).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("HTTP server listening", zap.String("addr", s.addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scan — один скан на запрос с таймаутом.
func (s *Server) scan(w http.ResponseWriter, r *http.Request) (arbitrage.Result, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	res, err := s.flow.Scan(ctx)
	if err != nil {
		s.log.Warn("scan failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return arbitrage.Result{}, false
	}
	return res, true
}

// handleOpportunities обрабатывает GET /api/opportunities[?pair=BTC/USDT][&venue=binance]
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	pair, ok := pairParam(w, r)
	if !ok {
		return
	}
	venue := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("venue")))

	res, ok := s.scan(w, r)
	if !ok {
		return
	}
	out := make([]arbitrage.Opportunity, 0, len(res.Opportunities))
	for _, op := range res.Opportunities {
		if pair != nil && !samePair(op.Sell.Pair, *pair) && !samePair(op.Buy.Pair, *pair) {
			continue
		}
		if venue != "" && op.Sell.Venue != venue && op.Buy.Venue != venue {
			continue
		}
		out = append(out, op)
	}
	respondJSON(w, http.StatusOK, OpportunitiesResponse{
		GeneratedAt:   res.GeneratedAt,
		Opportunities: out,
		Diagnostics:   res.Diagnostics,
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	res, ok := s.scan(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, BooksResponse{
		GeneratedAt: res.GeneratedAt,
		Books:       res.Books,
		Liquid:      res.Liquid,
		Illiquid:    res.Illiquid,
	})
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, PairsResponse{Pairs: s.flow.Pairs()})
}

// pairParam разбирает ?pair=BASE/COUNTER; nil — параметр не задан.
func pairParam(w http.ResponseWriter, r *http.Request) (*domain.Pair, bool) {
	raw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("pair")))
	if raw == "" {
		return nil, true
	}
	base, counter, ok := strings.Cut(raw, "/")
	if !ok || base == "" || counter == "" || base == counter {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "pair must look like BTC/USDT"})
		return nil, false
	}
	return &domain.Pair{Base: base, Counter: counter}, true
}

// samePair — пара в любом порядке.
func samePair(a, b domain.Pair) bool { return a == b || a == b.Flipped() }

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
