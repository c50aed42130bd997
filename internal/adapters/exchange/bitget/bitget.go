package bitgetadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"swaparb/internal/domain"
	"swaparb/internal/shared/retry"
	"swaparb/internal/usecase/fees"
)

// Bitget spot: символ "BTCUSDT" без разделителей.
// API: https://api.bitget.com
func bitgetSymbol(pair domain.Pair) string { return pair.Base + pair.Counter }

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 8 * time.Second},
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

type BitgetExchange struct {
	http   *httpClient
	config domain.Config
	fees   fees.Schedule
	now    func() time.Time
}

func New(config domain.Config, fs fees.Schedule) *BitgetExchange {
	return &BitgetExchange{
		http:   newHTTPClient("https://api.bitget.com"),
		config: config,
		fees:   fs,
		now:    time.Now,
	}
}

func (b *BitgetExchange) WithBaseURL(url string) *BitgetExchange {
	b.http.baseURL = url
	return b
}

func (b *BitgetExchange) Name() string { return "Bitget" }

// ===== order book =====
type depthResp struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Ts   string     `json:"ts"`
		Asks [][]string `json:"asks"` // [[price, size]]
		Bids [][]string `json:"bids"`
	} `json:"data"`
}

// поддерживаемые глубины: 1..150
func clampBitgetLimit(limit int) int {
	if limit <= 0 || limit > 150 {
		return 150
	}
	return limit
}

func (b *BitgetExchange) FetchDepth(ctx context.Context, pair domain.Pair, limit int) (domain.Depth, error) {
	if limit <= 0 {
		limit = b.config.Limit
	}
	sym := bitgetSymbol(pair)
	url := fmt.Sprintf("%s/api/v2/spot/market/orderbook?symbol=%s&type=step0&limit=%d",
		b.http.baseURL, sym, clampBitgetLimit(limit))
	data, err := b.http.get(ctx, url)
	if err != nil {
		return domain.Depth{}, fmt.Errorf("bitget: depth: %w", err)
	}
	var resp depthResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Depth{}, fmt.Errorf("bitget: parse depth: %w", err)
	}
	if resp.Code != "00000" {
		return domain.Depth{}, fmt.Errorf("bitget: API error: %s", resp.Msg)
	}

	ts := b.now().UnixMilli()
	if ms, err := strconv.ParseInt(resp.Data.Ts, 10, 64); err == nil {
		ts = ms
	}
	out := domain.Depth{
		Exchange:  b.Name(),
		Pair:      pair,
		Base:      b.fees.Currency(b.Name(), pair.Base),
		Counter:   b.fees.Currency(b.Name(), pair.Counter),
		Timestamp: ts,
	}
	for _, d := range resp.Data.Bids {
		if len(d) < 2 {
			continue
		}
		o, err := domain.ParseLevel(out.Base, out.Counter, d[0], d[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("bitget: бид %s: %w", sym, err)
		}
		out.Bids = append(out.Bids, o)
	}
	for _, a := range resp.Data.Asks {
		if len(a) < 2 {
			continue
		}
		o, err := domain.ParseLevel(out.Base, out.Counter, a[0], a[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("bitget: аск %s: %w", sym, err)
		}
		out.Asks = append(out.Asks, o)
	}
	return out, nil
}

// EncodeOrder — лимитная заявка Bitget, force=ioc.
func (b *BitgetExchange) EncodeOrder(o domain.Order, pair domain.Pair) (domain.Submission, error) {
	sell, qty, price, err := domain.LegTerms(o, pair)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("bitget: %w", err)
	}
	side := "buy"
	if sell {
		side = "sell"
	}
	return domain.Submission{
		Venue:         b.Name(),
		Symbol:        bitgetSymbol(pair),
		Side:          side,
		Type:          "limit",
		TimeInForce:   "ioc",
		Quantity:      qty.Round(8),
		Price:         price.Round(8),
		ClientOrderID: uuid.NewString(),
		CreatedAt:     b.now().UTC(),
	}, nil
}
