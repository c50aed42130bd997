package usecase

import (
	"context"
	"strings"

	"swaparb/internal/usecase/arbitrage"
	"swaparb/internal/usecase/presenter"
)

// Scanner — то, что умеет выдать один скан (arbitrage.Service).
type Scanner interface {
	Scan(ctx context.Context) (arbitrage.Result, error)
}

// Report — основной сценарий CLI:
// 1) скан стаканов по всем биржам;
// 2) проблемы загрузки и неликвидные стаканы;
// 3) сводки стаканов;
// 4) найденные свопы с заявками;
// 5) итоги.
func Report(ctx context.Context, s Scanner, pr presenter.Presenter) error {
	res, err := s.Scan(ctx)
	if err != nil {
		return err
	}

	for _, d := range res.Diagnostics {
		if strings.HasSuffix(d, ":ok") {
			continue
		}
		pr.Warnf("! %s\n", d)
	}

	pr.Infof("\n=== Стаканы (%s) ===\n", res.GeneratedAt)
	for _, b := range res.Books {
		pr.ShowBookSummary(b)
	}

	if len(res.Opportunities) == 0 {
		pr.Infof("\nПрибыльных свопов не найдено.\n")
	}
	for i, op := range res.Opportunities {
		pr.ShowOpportunity(i+1, op)
	}

	pr.ShowTotals(res)
	return nil
}
