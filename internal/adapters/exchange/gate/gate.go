package gateadapter

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

// Gate.io использует "BTC_USDT".
func gateSymbol(pair domain.Pair) string { return pair.Base + "_" + pair.Counter }

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

type GateExchange struct {
	http   *httpClient
	config domain.Config
	fees   fees.Schedule
	now    func() time.Time
}

func New(config domain.Config, fs fees.Schedule) *GateExchange {
	return &GateExchange{
		http:   newHTTPClient("https://api.gateio.ws"),
		config: config,
		fees:   fs,
		now:    time.Now,
	}
}

func (g *GateExchange) WithBaseURL(url string) *GateExchange {
	g.http.baseURL = url
	return g
}

func (g *GateExchange) Name() string { return "Gate" }

// ===== order book =====
type bookResp struct {
	Current int64      `json:"current"` // ms
	Asks    [][]string `json:"asks"`    // [[price, amount], ...]
	Bids    [][]string `json:"bids"`
}

type errorResp struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

func (g *GateExchange) FetchDepth(ctx context.Context, pair domain.Pair, limit int) (domain.Depth, error) {
	if limit <= 0 {
		limit = g.config.Limit
	}
	cp := gateSymbol(pair)
	url := fmt.Sprintf("%s/api/v4/spot/order_book?currency_pair=%s&limit=%d", g.http.baseURL, cp, limit)
	data, err := g.http.get(ctx, url)
	if err != nil {
		return domain.Depth{}, fmt.Errorf("gate: order_book: %w", err)
	}
	var apiErr errorResp
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Label != "" {
		return domain.Depth{}, fmt.Errorf("gate: API error %s: %s", apiErr.Label, apiErr.Message)
	}
	var resp bookResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Depth{}, fmt.Errorf("gate: parse order_book: %w", err)
	}

	ts := resp.Current
	if ts == 0 {
		ts = g.now().UnixMilli()
	}
	out := domain.Depth{
		Exchange:  g.Name(),
		Pair:      pair,
		Base:      g.fees.Currency(g.Name(), pair.Base),
		Counter:   g.fees.Currency(g.Name(), pair.Counter),
		Timestamp: ts,
	}
	for _, b := range resp.Bids {
		if len(b) < 2 {
			continue
		}
		o, err := domain.ParseLevel(out.Base, out.Counter, b[0], b[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("gate: бид %s: %w", cp, err)
		}
		out.Bids = append(out.Bids, o)
	}
	for _, a := range resp.Asks {
		if len(a) < 2 {
			continue
		}
		o, err := domain.ParseLevel(out.Base, out.Counter, a[0], a[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("gate: аск %s: %w", cp, err)
		}
		out.Asks = append(out.Asks, o)
	}
	return out, nil
}

// EncodeOrder — лимитная заявка Gate, time_in_force=ioc.
func (g *GateExchange) EncodeOrder(o domain.Order, pair domain.Pair) (domain.Submission, error) {
	sell, qty, price, err := domain.LegTerms(o, pair)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("gate: %w", err)
	}
	side := "buy"
	if sell {
		side = "sell"
	}
	return domain.Submission{
		Venue:         g.Name(),
		Symbol:        gateSymbol(pair),
		Side:          side,
		Type:          "limit",
		TimeInForce:   "ioc",
		Quantity:      qty.Round(8),
		Price:         price.Round(8),
		ClientOrderID: uuid.NewString(),
		CreatedAt:     g.now().UTC(),
	}, nil
}
