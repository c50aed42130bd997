package orderbook

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
)

// Summary — верх стакана для вывода в CLI и HTTP.
type Summary struct {
	Venue     string           `json:"venue"`
	Pair      domain.Pair      `json:"pair"`
	BestBid   *decimal.Decimal `json:"bestBid,omitempty"`
	BestAsk   *decimal.Decimal `json:"bestAsk,omitempty"`
	SpreadPct *decimal.Decimal `json:"spreadPct,omitempty"`
	Bids      int              `json:"bids"`
	Asks      int              `json:"asks"`
}

// Summarize снимает согласованную копию стакана и считает верх.
func Summarize(b *OrderBook) (Summary, error) {
	snap, err := b.Clone()
	if err != nil {
		return Summary{}, err
	}
	if err := snap.Sort(); err != nil {
		return Summary{}, err
	}
	s := Summary{Venue: b.Venue(), Pair: b.Pair()}
	s.Bids, s.Asks = len(snap.bids.orders), len(snap.asks.orders)
	if s.Bids > 0 {
		r := snap.bids.orders[0].Rate
		s.BestBid = &r
	}
	if s.Asks > 0 {
		r := snap.asks.orders[0].Rate
		s.BestAsk = &r
	}
	spread, err := snap.SpreadPct()
	switch {
	case err == nil:
		s.SpreadPct = &spread
	case errors.Is(err, domain.ErrEmptySide), errors.Is(err, domain.ErrDivideByZero):
	default:
		return Summary{}, err
	}
	return s, nil
}

// SummarizeAll — сводки по всем стаканам, упорядоченные по паре и бирже.
func SummarizeAll(books []*OrderBook) ([]Summary, error) {
	out := make([]Summary, 0, len(books))
	for _, b := range books {
		s, err := Summarize(b)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Pair.String(), out[j].Pair.String()
		if pi == pj {
			return out[i].Venue < out[j].Venue
		}
		return pi < pj
	})
	return out, nil
}
