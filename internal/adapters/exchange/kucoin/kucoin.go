package kucoinadapter

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

// KuCoin использует формат "BTC-USDT".
func kucoinSymbol(pair domain.Pair) string { return pair.Base + "-" + pair.Counter }

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

type KuCoinExchange struct {
	http   *httpClient
	config domain.Config
	fees   fees.Schedule
	now    func() time.Time
}

func New(config domain.Config, fs fees.Schedule) *KuCoinExchange {
	return &KuCoinExchange{
		http:   newHTTPClient("https://api.kucoin.com"),
		config: config,
		fees:   fs,
		now:    time.Now,
	}
}

func (k *KuCoinExchange) WithBaseURL(url string) *KuCoinExchange {
	k.http.baseURL = url
	return k
}

func (k *KuCoinExchange) Name() string { return "KuCoin" }

// ====== order book ======
type bookResp struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Time int64      `json:"time"`
		Asks [][]string `json:"asks"` // [price, size]
		Bids [][]string `json:"bids"`
	} `json:"data"`
}

// level2 отдаётся только глубиной 20 или 100.
func kucoinLevel(limit int) int {
	if limit <= 20 {
		return 20
	}
	return 100
}

func (k *KuCoinExchange) FetchDepth(ctx context.Context, pair domain.Pair, limit int) (domain.Depth, error) {
	if limit <= 0 {
		limit = k.config.Limit
	}
	sym := kucoinSymbol(pair)
	url := fmt.Sprintf("%s/api/v1/market/orderbook/level2_%d?symbol=%s", k.http.baseURL, kucoinLevel(limit), sym)
	data, err := k.http.get(ctx, url)
	if err != nil {
		return domain.Depth{}, fmt.Errorf("kucoin: orderbook: %w", err)
	}
	var resp bookResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Depth{}, fmt.Errorf("kucoin: parse orderbook: %w", err)
	}
	if resp.Code != "200000" {
		return domain.Depth{}, fmt.Errorf("kucoin: API error code=%s %s", resp.Code, resp.Msg)
	}

	ts := resp.Data.Time
	if ts == 0 {
		ts = k.now().UnixMilli()
	}
	out := domain.Depth{
		Exchange:  k.Name(),
		Pair:      pair,
		Base:      k.fees.Currency(k.Name(), pair.Base),
		Counter:   k.fees.Currency(k.Name(), pair.Counter),
		Timestamp: ts,
	}
	// Ограничим до limit вручную
	appendLevels := func(dst *[]domain.Order, src [][]string) error {
		n := limit
		if n > len(src) {
			n = len(src)
		}
		for i := 0; i < n; i++ {
			r := src[i]
			if len(r) < 2 {
				continue
			}
			o, err := domain.ParseLevel(out.Base, out.Counter, r[0], r[1])
			if err != nil {
				return err
			}
			*dst = append(*dst, o)
		}
		return nil
	}
	if err := appendLevels(&out.Bids, resp.Data.Bids); err != nil {
		return domain.Depth{}, fmt.Errorf("kucoin: бид %s: %w", sym, err)
	}
	if err := appendLevels(&out.Asks, resp.Data.Asks); err != nil {
		return domain.Depth{}, fmt.Errorf("kucoin: аск %s: %w", sym, err)
	}
	return out, nil
}

// EncodeOrder — лимитная заявка KuCoin с timeInForce=IOC.
func (k *KuCoinExchange) EncodeOrder(o domain.Order, pair domain.Pair) (domain.Submission, error) {
	sell, qty, price, err := domain.LegTerms(o, pair)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("kucoin: %w", err)
	}
	side := "buy"
	if sell {
		side = "sell"
	}
	return domain.Submission{
		Venue:         k.Name(),
		Symbol:        kucoinSymbol(pair),
		Side:          side,
		Type:          "limit",
		TimeInForce:   "IOC",
		Quantity:      qty.Round(8),
		Price:         price.Round(8),
		ClientOrderID: uuid.NewString(),
		CreatedAt:     k.now().UTC(),
	}, nil
}
