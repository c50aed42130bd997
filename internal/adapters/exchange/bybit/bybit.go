package bybitadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"swaparb/internal/domain"
	"swaparb/internal/shared/retry"
	"swaparb/internal/usecase/fees"
)

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 7 * time.Second}, // мягкий таймаут
	}
}

func (c *httpClient) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.WithRetry(ctx, 2, 400*time.Millisecond, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %s", resp.Status)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	return body, err
}

type BybitExchange struct {
	http   *httpClient
	config domain.Config
	fees   fees.Schedule
}

func New(config domain.Config, fs fees.Schedule) *BybitExchange {
	return &BybitExchange{
		http:   newHTTPClient("https://api.bybit.com"),
		config: config,
		fees:   fs,
	}
}

func (b *BybitExchange) WithBaseURL(url string) *BybitExchange {
	b.http.baseURL = url
	return b
}

func (b *BybitExchange) Name() string { return "Bybit" }

func symbol(pair domain.Pair) string { return pair.Base + pair.Counter }

type orderbookResp struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Symbol string     `json:"s"`
		Bids   [][]string `json:"b"`
		Asks   [][]string `json:"a"`
		Ts     int64      `json:"ts"`
	} `json:"result"`
}

func clampBybitLimit(limit int) int {
	allowed := []int{1, 3, 5, 10, 20, 50, 100}
	chosen := allowed[len(allowed)-1]
	for _, v := range allowed {
		if limit <= v {
			chosen = v
			break
		}
	}
	return chosen
}

func (b *BybitExchange) FetchDepth(ctx context.Context, pair domain.Pair, limit int) (domain.Depth, error) {
	if limit <= 0 {
		limit = b.config.Limit
	}
	chosen := clampBybitLimit(limit)
	sym := symbol(pair)
	url := fmt.Sprintf("%s/v5/market/orderbook?category=spot&symbol=%s&limit=%d",
		b.http.baseURL, sym, chosen)
	data, err := b.http.get(ctx, url)
	if err != nil {
		return domain.Depth{}, fmt.Errorf("bybit: ошибка запроса стакана: %w", err)
	}
	var resp orderbookResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Depth{}, fmt.Errorf("bybit: ошибка парсинга стакана: %w", err)
	}
	if resp.RetCode != 0 {
		return domain.Depth{}, fmt.Errorf("bybit: API error: %s", resp.RetMsg)
	}
	out := domain.Depth{
		Exchange:  b.Name(),
		Pair:      pair,
		Base:      b.fees.Currency(b.Name(), pair.Base),
		Counter:   b.fees.Currency(b.Name(), pair.Counter),
		Timestamp: resp.Result.Ts,
	}
	for _, d := range resp.Result.Bids {
		if len(d) < 2 {
			continue
		}
		o, err := domain.ParseLevel(out.Base, out.Counter, d[0], d[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("bybit: бид %s: %w", sym, err)
		}
		out.Bids = append(out.Bids, o)
	}
	for _, a := range resp.Result.Asks {
		if len(a) < 2 {
			continue
		}
		o, err := domain.ParseLevel(out.Base, out.Counter, a[0], a[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("bybit: аск %s: %w", sym, err)
		}
		out.Asks = append(out.Asks, o)
	}
	return out, nil
}

func (b *BybitExchange) EncodeOrder(o domain.Order, pair domain.Pair) (domain.Submission, error) {
	sell, qty, price, err := domain.LegTerms(o, pair)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("bybit: %w", err)
	}
	side := "Buy"
	if sell {
		side = "Sell"
	}
	return domain.Submission{
		Venue:         b.Name(),
		Symbol:        symbol(pair),
		Side:          side,
		Type:          "Limit",
		TimeInForce:   "IOC",
		Quantity:      qty.Round(8),
		Price:         price.Round(8),
		ClientOrderID: uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
	}, nil
}
