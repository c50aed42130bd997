package httpapi

import (
	"net/http"
	"sort"

	"github.com/shopspring/decimal"
)

// handleRate обрабатывает GET /api/rate?pair=BTC/USDT
// Возвращает медиану mid-цен по биржам (Counter за 1 Base).
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	pair, ok := pairParam(w, r)
	if !ok {
		return
	}
	if pair == nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing 'pair' query param"})
		return
	}

	res, ok := s.scan(w, r)
	if !ok {
		return
	}

	two := decimal.NewFromInt(2)
	var mids []decimal.Decimal
	var exs []string
	for _, b := range res.Books {
		if b.Pair != *pair {
			continue
		}
		switch {
		case b.BestBid != nil && b.BestAsk != nil:
			mids = append(mids, b.BestBid.Add(*b.BestAsk).Div(two))
		case b.BestAsk != nil:
			mids = append(mids, *b.BestAsk)
		case b.BestBid != nil:
			mids = append(mids, *b.BestBid)
		default:
			continue
		}
		exs = append(exs, b.Venue)
	}

	if len(mids) == 0 {
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "no top-of-book prices for " + pair.String()})
		return
	}

	sort.Slice(mids, func(i, j int) bool { return mids[i].LessThan(mids[j]) })
	var median decimal.Decimal
	n := len(mids)
	if n%2 == 1 {
		median = mids[n/2]
	} else {
		median = mids[n/2-1].Add(mids[n/2]).Div(two)
	}

	respondJSON(w, http.StatusOK, RateResponse{Pair: *pair, Mid: median, Exchanges: exs})
}
