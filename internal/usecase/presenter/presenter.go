package presenter

import (
	"swaparb/internal/usecase/arbitrage"
	"swaparb/internal/usecase/orderbook"
)

type Presenter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)

	ShowBookSummary(s orderbook.Summary)
	ShowOpportunity(n int, op arbitrage.Opportunity)
	ShowTotals(res arbitrage.Result)
}
