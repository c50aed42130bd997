package binanceadapter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"swaparb/internal/domain"
	"swaparb/internal/shared/retry"
	"swaparb/internal/usecase/fees"

	gbinance "github.com/adshao/go-binance/v2"
	"github.com/google/uuid"
)

type BinanceExchange struct {
	client *gbinance.Client
	config domain.Config
	fees   fees.Schedule
	now    func() time.Time
}

func New(config domain.Config, fs fees.Schedule) *BinanceExchange {
	client := gbinance.NewClient("", "")
	// Чуть мягче таймаут: не висим долго, но и не рвём слишком быстро
	client.HTTPClient = &http.Client{Timeout: 7 * time.Second}
	return &BinanceExchange{client: client, config: config, fees: fs, now: time.Now}
}

// WithBaseURL — другой REST-эндпоинт (тестнет, локальный стенд).
func (b *BinanceExchange) WithBaseURL(url string) *BinanceExchange {
	b.client.BaseURL = url
	return b
}

func (b *BinanceExchange) Name() string { return "Binance" }

func symbol(pair domain.Pair) string { return pair.Base + pair.Counter }

// Поддерживаемые лимиты Binance
func depthLimit(limit int) int {
	allowed := []int{5, 10, 20, 50, 100}
	for _, v := range allowed {
		if limit <= v {
			return v
		}
	}
	return allowed[len(allowed)-1]
}

func (b *BinanceExchange) FetchDepth(ctx context.Context, pair domain.Pair, limit int) (domain.Depth, error) {
	if limit <= 0 {
		limit = b.config.Limit
	}
	chosen := depthLimit(limit)
	sym := symbol(pair)

	var depth *gbinance.DepthResponse
	// 2 попытки по 5s — компромисс между скоростью и стабильностью
	err := retry.WithRetry(ctx, 2, 500*time.Millisecond, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		var err error
		depth, err = b.client.NewDepthService().Symbol(sym).Limit(chosen).Do(ctx)
		return err
	})
	if err != nil {
		return domain.Depth{}, fmt.Errorf("binance: стакан %s (limit=%d): %w", sym, chosen, err)
	}

	out := domain.Depth{
		Exchange:  b.Name(),
		Pair:      pair,
		Base:      b.fees.Currency(b.Name(), pair.Base),
		Counter:   b.fees.Currency(b.Name(), pair.Counter),
		Timestamp: b.now().UnixMilli(),
	}
	for _, d := range depth.Bids {
		o, err := domain.ParseLevel(out.Base, out.Counter, d.Price, d.Quantity)
		if err != nil {
			return domain.Depth{}, fmt.Errorf("binance: бид %s: %w", sym, err)
		}
		out.Bids = append(out.Bids, o)
	}
	for _, a := range depth.Asks {
		o, err := domain.ParseLevel(out.Base, out.Counter, a.Price, a.Quantity)
		if err != nil {
			return domain.Depth{}, fmt.Errorf("binance: аск %s: %w", sym, err)
		}
		out.Asks = append(out.Asks, o)
	}
	return out, nil
}

// EncodeOrder — лимитная IOC-заявка Binance для ноги сделки.
func (b *BinanceExchange) EncodeOrder(o domain.Order, pair domain.Pair) (domain.Submission, error) {
	sell, qty, price, err := domain.LegTerms(o, pair)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("binance: %w", err)
	}
	side := gbinance.SideTypeBuy
	if sell {
		side = gbinance.SideTypeSell
	}
	return domain.Submission{
		Venue:         b.Name(),
		Symbol:        symbol(pair),
		Side:          string(side),
		Type:          string(gbinance.OrderTypeLimit),
		TimeInForce:   string(gbinance.TimeInForceTypeIOC),
		Quantity:      qty.Round(8),
		Price:         price.Round(8),
		ClientOrderID: uuid.NewString(),
		CreatedAt:     b.now().UTC(),
	}, nil
}
