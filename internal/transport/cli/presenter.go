package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"swaparb/internal/shared/format"
	"swaparb/internal/usecase/arbitrage"
	"swaparb/internal/usecase/orderbook"
)

type CLIPresenter struct {
	out io.Writer
}

func NewCLIPresenter(out io.Writer) *CLIPresenter { return &CLIPresenter{out: out} }

func (c *CLIPresenter) Infof(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }
func (c *CLIPresenter) Warnf(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }

func (c *CLIPresenter) ShowBookSummary(s orderbook.Summary) {
	fmt.Fprintf(c.out, "  %-8s %-10s Bid=%s, Ask=%s, спред=%s (%d/%d)\n",
		s.Venue, s.Pair, num(s.BestBid), num(s.BestAsk), pct(s.SpreadPct), s.Bids, s.Asks)
}

func (c *CLIPresenter) ShowOpportunity(n int, op arbitrage.Opportunity) {
	fmt.Fprintf(c.out, "\n=== Своп #%d (%s, старт %s) ===\n", n, op.Alignment, op.Start)
	c.showLeg("Продажа", op.Sell)
	c.showLeg("Покупка", op.Buy)
	fmt.Fprintf(c.out, "Итого: отдаём %s, получаем %s\n",
		format.DecimalRU(op.SellOut, 8), format.DecimalRU(op.BuyOut, 8))
}

func (c *CLIPresenter) showLeg(title string, l arbitrage.Leg) {
	fmt.Fprintf(c.out, "%s на %s (%s): %s\n", title, l.Venue, l.Pair, l.Order)
	if s := l.Submission; s != nil {
		fmt.Fprintf(c.out, "  заявка: %s %s %s %s @ %s %s/%s id=%s\n",
			s.Venue, s.Symbol, s.Side, s.Quantity, s.Price, s.Type, s.TimeInForce, s.ClientOrderID)
	}
}

func (c *CLIPresenter) ShowTotals(res arbitrage.Result) {
	fmt.Fprintf(c.out, "\nСтаканов: %d ликвидных, %d неликвидных; свопов: %d\n",
		res.Liquid, res.Illiquid, len(res.Opportunities))
}

func num(v *decimal.Decimal) string {
	if v == nil {
		return "-"
	}
	return format.DecimalRU(*v, 8)
}

func pct(v *decimal.Decimal) string {
	if v == nil {
		return "-"
	}
	return format.PercentRU(*v)
}
