package swap

import (
	"errors"

	"go.uber.org/zap"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/orderbook"
)

// Scanner перебирает пары стаканов и собирает прибыльные сделки.
type Scanner struct {
	log *zap.Logger
}

func NewScanner(log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{log: log}
}

// Scan проверяет каждую неупорядоченную пару стаканов в четырёх комбинациях:
// (A продаёт, B покупает) и (B продаёт, A покупает), каждая для базы и котировки A.
// Невыравниваемые комбинации, пустые стороны и нулевые курсы пропускаются;
// остальные ошибки прерывают скан.
func (s *Scanner) Scan(books []*orderbook.OrderBook) ([]Trade, error) {
	var out []Trade
	for i := 0; i < len(books); i++ {
		for j := i + 1; j < len(books); j++ {
			trades, err := s.scanPair(books[i], books[j])
			if err != nil {
				return nil, err
			}
			out = append(out, trades...)
		}
	}
	s.log.Debug("scan finished", zap.Int("books", len(books)), zap.Int("profitable", len(out)))
	return out, nil
}

// ScanOrderBooks — Scan по набору стаканов.
func (s *Scanner) ScanOrderBooks(obs *orderbook.OrderBooks) ([]Trade, error) {
	return s.Scan(obs.Books)
}

func (s *Scanner) scanPair(first, second *orderbook.OrderBook) ([]Trade, error) {
	// снимки: скан не держит блокировки двух стаканов сразу
	a, err := first.Clone()
	if err != nil {
		return nil, err
	}
	b, err := second.Clone()
	if err != nil {
		return nil, err
	}
	if err := a.Sort(); err != nil {
		return nil, err
	}
	if err := b.Sort(); err != nil {
		return nil, err
	}

	combos := []struct {
		sell, buy *orderbook.OrderBook
		trading   string
	}{
		{a, b, a.Base().Code},
		{a, b, a.Counter().Code},
		{b, a, a.Base().Code},
		{b, a, a.Counter().Code},
	}

	var out []Trade
	for _, c := range combos {
		t, err := Match(c.sell, c.buy, c.trading)
		switch {
		case errors.Is(err, domain.ErrInvalidOrderBookCombo),
			errors.Is(err, domain.ErrEmptySide),
			errors.Is(err, domain.ErrDivideByZero):
			s.log.Debug("combination skipped",
				zap.Stringer("sell", c.sell), zap.Stringer("buy", c.buy),
				zap.String("trading", c.trading), zap.Error(err))
			continue
		case err != nil:
			return nil, err
		}
		if t.IsProfitable() {
			sellOut, buyOut := t.Profit()
			s.log.Info("profitable swap",
				zap.Stringer("alignment", t.Alignment),
				zap.Stringer("start", t.StartingCurrency),
				zap.Stringer("sell", t.SellOrder), zap.Stringer("buy", t.BuyOrder),
				zap.String("sellOut", sellOut.String()), zap.String("buyOut", buyOut.String()))
			out = append(out, t)
		}
	}
	return out, nil
}
