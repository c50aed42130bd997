package htxadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"swaparb/internal/domain"
	"swaparb/internal/shared/retry"
	"swaparb/internal/usecase/fees"
)

// HTX (Huobi) использует "btcusdt" (lowercase, без разделителей).
func htxSymbol(pair domain.Pair) string { return strings.ToLower(pair.Base + pair.Counter) }

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

type HTXExchange struct {
	http   *httpClient
	config domain.Config
	fees   fees.Schedule
}

func New(config domain.Config, fs fees.Schedule) *HTXExchange {
	return &HTXExchange{
		http:   newHTTPClient("https://api.huobi.pro"),
		config: config,
		fees:   fs,
	}
}

func (h *HTXExchange) WithBaseURL(url string) *HTXExchange {
	h.http.baseURL = url
	return h
}

func (h *HTXExchange) Name() string { return "HTX" }

// ===== order book =====
type depthResp struct {
	Status string `json:"status"`
	ErrMsg string `json:"err-msg"`
	Ts     int64  `json:"ts"`
	Tick   struct {
		// числа, не строки: json.Number сохраняет исходную запись
		Bids [][]json.Number `json:"bids"` // [[price, amount], ...]
		Asks [][]json.Number `json:"asks"`
	} `json:"tick"`
}

func (h *HTXExchange) FetchDepth(ctx context.Context, pair domain.Pair, limit int) (domain.Depth, error) {
	if limit <= 0 {
		limit = h.config.Limit
	}
	s := htxSymbol(pair)
	// type=step0 — наименьшая агрегация. huobi не принимает limit — ограничим вручную.
	url := fmt.Sprintf("%s/market/depth?symbol=%s&type=step0", h.http.baseURL, s)
	data, err := h.http.get(ctx, url)
	if err != nil {
		return domain.Depth{}, fmt.Errorf("htx: depth: %w", err)
	}
	var resp depthResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Depth{}, fmt.Errorf("htx: parse depth: %w", err)
	}
	if resp.Status != "ok" {
		return domain.Depth{}, fmt.Errorf("htx: API status=%s %s", resp.Status, resp.ErrMsg)
	}
	out := domain.Depth{
		Exchange:  h.Name(),
		Pair:      pair,
		Base:      h.fees.Currency(h.Name(), pair.Base),
		Counter:   h.fees.Currency(h.Name(), pair.Counter),
		Timestamp: resp.Ts,
	}
	appendLevels := func(dst *[]domain.Order, src [][]json.Number) error {
		n := limit
		if n > len(src) {
			n = len(src)
		}
		for i := 0; i < n; i++ {
			r := src[i]
			if len(r) < 2 {
				continue
			}
			o, err := domain.ParseLevel(out.Base, out.Counter, r[0].String(), r[1].String())
			if err != nil {
				return err
			}
			*dst = append(*dst, o)
		}
		return nil
	}
	if err := appendLevels(&out.Bids, resp.Tick.Bids); err != nil {
		return domain.Depth{}, fmt.Errorf("htx: бид %s: %w", s, err)
	}
	if err := appendLevels(&out.Asks, resp.Tick.Asks); err != nil {
		return domain.Depth{}, fmt.Errorf("htx: аск %s: %w", s, err)
	}
	return out, nil
}

// EncodeOrder — у HTX сторона и IOC зашиты в тип: "sell-ioc" / "buy-ioc".
func (h *HTXExchange) EncodeOrder(o domain.Order, pair domain.Pair) (domain.Submission, error) {
	sell, qty, price, err := domain.LegTerms(o, pair)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("htx: %w", err)
	}
	side := "buy"
	if sell {
		side = "sell"
	}
	return domain.Submission{
		Venue:         h.Name(),
		Symbol:        htxSymbol(pair),
		Side:          side,
		Type:          side + "-ioc",
		TimeInForce:   "IOC",
		Quantity:      qty.Round(8),
		Price:         price.Round(8),
		ClientOrderID: uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
	}, nil
}
