package okxadapter

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

// У OKX инструмент пишется через дефис: "BTC-USDT".
func instID(pair domain.Pair) string { return pair.Base + "-" + pair.Counter }

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 7 * time.Second},
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

type OKXExchange struct {
	http   *httpClient
	config domain.Config
	fees   fees.Schedule
	now    func() time.Time
}

func New(config domain.Config, fs fees.Schedule) *OKXExchange {
	return &OKXExchange{
		http:   newHTTPClient("https://www.okx.com"),
		config: config,
		fees:   fs,
		now:    time.Now,
	}
}

func (o *OKXExchange) WithBaseURL(url string) *OKXExchange {
	o.http.baseURL = url
	return o
}

func (o *OKXExchange) Name() string { return "OKX" }

// ===== /market/books =====

type orderbookResp struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		Asks [][]string `json:"asks"` // [[price, size, ...], ...]
		Bids [][]string `json:"bids"`
		Ts   string     `json:"ts"` // millis in string
	} `json:"data"`
}

func (o *OKXExchange) FetchDepth(ctx context.Context, pair domain.Pair, limit int) (domain.Depth, error) {
	if limit <= 0 {
		limit = o.config.Limit
	}
	id := instID(pair)
	url := fmt.Sprintf("%s/api/v5/market/books?instId=%s&sz=%d", o.http.baseURL, id, limit)
	data, err := o.http.get(ctx, url)
	if err != nil {
		return domain.Depth{}, fmt.Errorf("okx: ошибка запроса стакана: %w", err)
	}
	var resp orderbookResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Depth{}, fmt.Errorf("okx: ошибка парсинга стакана: %w", err)
	}
	if resp.Code != "0" || len(resp.Data) == 0 {
		return domain.Depth{}, fmt.Errorf("okx: API error: %s", resp.Msg)
	}

	ts := o.now().UnixMilli()
	if ms, err := strconv.ParseInt(resp.Data[0].Ts, 10, 64); err == nil {
		ts = ms
	}

	out := domain.Depth{
		Exchange:  o.Name(),
		Pair:      pair,
		Base:      o.fees.Currency(o.Name(), pair.Base),
		Counter:   o.fees.Currency(o.Name(), pair.Counter),
		Timestamp: ts,
	}
	for _, b := range resp.Data[0].Bids {
		if len(b) < 2 {
			continue
		}
		ord, err := domain.ParseLevel(out.Base, out.Counter, b[0], b[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("okx: бид %s: %w", id, err)
		}
		out.Bids = append(out.Bids, ord)
	}
	for _, a := range resp.Data[0].Asks {
		if len(a) < 2 {
			continue
		}
		ord, err := domain.ParseLevel(out.Base, out.Counter, a[0], a[1])
		if err != nil {
			return domain.Depth{}, fmt.Errorf("okx: аск %s: %w", id, err)
		}
		out.Asks = append(out.Asks, ord)
	}
	return out, nil
}

// EncodeOrder — заявка OKX: ordType=ioc уже означает лимитную IOC.
func (o *OKXExchange) EncodeOrder(ord domain.Order, pair domain.Pair) (domain.Submission, error) {
	sell, qty, price, err := domain.LegTerms(ord, pair)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("okx: %w", err)
	}
	side := "buy"
	if sell {
		side = "sell"
	}
	return domain.Submission{
		Venue:         o.Name(),
		Symbol:        instID(pair),
		Side:          side,
		Type:          "ioc",
		TimeInForce:   "IOC",
		Quantity:      qty.Round(8),
		Price:         price.Round(8),
		ClientOrderID: uuid.NewString(),
		CreatedAt:     o.now().UTC(),
	}, nil
}
