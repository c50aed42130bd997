package httpapi

import (
	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/arbitrage"
	"swaparb/internal/usecase/orderbook"
)

type OpportunitiesResponse struct {
	GeneratedAt   string                  `json:"generatedAt"`
	Opportunities []arbitrage.Opportunity `json:"opportunities"`
	Diagnostics   []string                `json:"diagnostics,omitempty"`
}

type BooksResponse struct {
	GeneratedAt string              `json:"generatedAt"`
	Books       []orderbook.Summary `json:"books"`
	Liquid      int                 `json:"liquid"`
	Illiquid    int                 `json:"illiquid"`
}

type PairsResponse struct {
	Pairs []domain.Pair `json:"pairs"`
}

// RateResponse — ответ на /api/rate: mid = Counter за 1 Base.
type RateResponse struct {
	Pair      domain.Pair     `json:"pair"`
	Mid       decimal.Decimal `json:"mid"`
	Exchanges []string        `json:"exchanges,omitempty"` // биржи, у которых взяли цены
}

type ErrorResponse struct {
	Error string `json:"error"`
}
