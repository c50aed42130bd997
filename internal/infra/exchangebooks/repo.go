package exchangebooks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/orderbook"
)

// Repo реализует arbitrage.Repo: тянет стаканы выбранных пар со всех бирж.
// Биржи опрашиваются параллельно, пары одной биржи — по очереди с паузой delay.
type Repo struct {
	venues []domain.Exchange
	limit  int
	delay  time.Duration
	log    *zap.Logger
}

func NewRepo(venues []domain.Exchange, limit int, delay time.Duration, log *zap.Logger) *Repo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repo{venues: venues, limit: limit, delay: delay, log: log}
}

type fetched struct {
	venue, pair int
	book        *orderbook.OrderBook
	diag        string
}

// FetchBooks возвращает стаканы в порядке (биржа, пара) и диагностику вида
// "binance:BTC/USDT:ok". Ошибка одной биржи не роняет остальные.
func (r *Repo) FetchBooks(ctx context.Context, pairs []domain.Pair) ([]*orderbook.OrderBook, []string, error) {
	ch := make(chan fetched, len(r.venues)*len(pairs))

	for vi, v := range r.venues {
		go func(vi int, v domain.Exchange) {
			for pi, p := range pairs {
				if pi > 0 && r.delay > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(r.delay):
					}
				}
				b, d := r.fetchOne(ctx, v, p)
				ch <- fetched{venue: vi, pair: pi, book: b, diag: d}
			}
		}(vi, v)
	}

	res := make([]fetched, 0, cap(ch))
	for i := 0; i < cap(ch); i++ {
		res = append(res, <-ch)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].venue != res[j].venue {
			return res[i].venue < res[j].venue
		}
		return res[i].pair < res[j].pair
	})
	var books []*orderbook.OrderBook
	var diags []string
	for _, f := range res {
		if f.book != nil {
			books = append(books, f.book)
		}
		diags = append(diags, f.diag)
	}
	return books, diags, nil
}

func (r *Repo) fetchOne(ctx context.Context, v domain.Exchange, p domain.Pair) (*orderbook.OrderBook, string) {
	tag := strings.ToLower(v.Name()) + ":" + p.String()
	d, err := v.FetchDepth(ctx, p, r.limit)
	if err != nil {
		r.log.Warn("depth fetch failed", zap.String("venue", v.Name()), zap.Stringer("pair", p), zap.Error(err))
		return nil, tag + ":err:" + err.Error()
	}
	if len(d.Bids) == 0 && len(d.Asks) == 0 {
		return nil, tag + ":empty"
	}
	b, err := Build(d)
	if err != nil {
		r.log.Warn("depth rejected", zap.String("venue", v.Name()), zap.Stringer("pair", p), zap.Error(err))
		return nil, tag + ":err:" + err.Error()
	}
	return b, tag + ":ok"
}

// Build собирает отсортированный стакан из снимка биржи.
func Build(d domain.Depth) (*orderbook.OrderBook, error) {
	b, err := orderbook.FromSides(d.Base, d.Counter, d.Bids, d.Asks)
	if err != nil {
		return nil, fmt.Errorf("exchangebooks: %s %s: %w", d.Exchange, d.Pair, err)
	}
	if err := b.Sort(); err != nil {
		return nil, err
	}
	return b, nil
}
