package arbitrage

import (
	"context"

	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/orderbook"
)

// ====== Чистые типы use-case (не зависят от HTTP и конкретных бирж) ======

// Repo — доступ к стаканам (реализация в инфраструктуре).
type Repo interface {
	// FetchBooks возвращает отсортированные стаканы всех бирж по парам и диагностику.
	FetchBooks(ctx context.Context, pairs []domain.Pair) ([]*orderbook.OrderBook, []string, error)
}

// Leg — одна нога сделки на конкретной бирже.
type Leg struct {
	Venue      string             `json:"venue"`
	Pair       domain.Pair        `json:"pair"`
	Order      string             `json:"order"`
	Submission *domain.Submission `json:"submission,omitempty"`
}

// Opportunity — прибыльный своп: продаём стартовую валюту на одной бирже,
// возвращаем её на другой.
type Opportunity struct {
	Alignment string          `json:"alignment"`
	Start     string          `json:"start"`
	Sell      Leg             `json:"sell"`
	Buy       Leg             `json:"buy"`
	SellOut   decimal.Decimal `json:"sellOut"` // Counter ноги продажи после комиссии
	BuyOut    decimal.Decimal `json:"buyOut"`  // Counter ноги покупки после комиссии
}

// Result — результат одного скана.
type Result struct {
	Pairs         []domain.Pair       `json:"pairs"`
	Books         []orderbook.Summary `json:"books"`
	Liquid        int                 `json:"liquid"`
	Illiquid      int                 `json:"illiquid"`
	Opportunities []Opportunity       `json:"opportunities"`
	Diagnostics   []string            `json:"diagnostics"`
	GeneratedAt   string              `json:"generatedAt"` // "15:04 02.01.2006"
}
