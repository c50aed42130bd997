package gateadapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/fees"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFetchDepth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/v4/spot/order_book" || q.Get("currency_pair") != "ETH_USDT" || q.Get("limit") != "10" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"current":1700000000789,"update":1700000000700,` +
			`"asks":[["3001","1.5"]],"bids":[["3000","2"],["2999.5","4"]]}`))
	}))
	defer srv.Close()

	fs := fees.Schedule{}
	if err := fs.Set("gate", "USDT", dec("0.001")); err != nil {
		t.Fatalf("fees: %v", err)
	}
	ex := New(domain.Config{Limit: 10}, fs).WithBaseURL(srv.URL)
	d, err := ex.FetchDepth(context.Background(), domain.Pair{Base: "ETH", Counter: "USDT"}, 0)
	if err != nil {
		t.Fatalf("FetchDepth: %v", err)
	}
	if d.Exchange != "Gate" || d.Timestamp != 1700000000789 || !d.Counter.TransferFee.Equal(dec("0.001")) {
		t.Fatalf("depth=%+v", d)
	}
	if len(d.Bids) != 2 || len(d.Asks) != 1 || !d.Bids[1].Rate.Equal(dec("2999.5")) {
		t.Fatalf("bids=%v asks=%v", d.Bids, d.Asks)
	}
}

func TestFetchDepthAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"label":"INVALID_CURRENCY_PAIR","message":"Invalid currency pair NOPE_USDT"}`))
	}))
	defer srv.Close()

	ex := New(domain.Config{Limit: 5}, fees.Schedule{}).WithBaseURL(srv.URL)
	if _, err := ex.FetchDepth(context.Background(), domain.Pair{Base: "NOPE", Counter: "USDT"}, 0); err == nil {
		t.Fatalf("api error must surface")
	}
}

func TestFetchDepthBadLevel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":1,"asks":[],"bids":[["0","2"]]}`))
	}))
	defer srv.Close()

	ex := New(domain.Config{Limit: 5}, fees.Schedule{}).WithBaseURL(srv.URL)
	if _, err := ex.FetchDepth(context.Background(), domain.Pair{Base: "ETH", Counter: "USDT"}, 0); err == nil {
		t.Fatalf("zero price level must be rejected")
	}
}

func TestEncodeOrder(t *testing.T) {
	ex := New(domain.Config{}, fees.Schedule{})
	eth := domain.Currency{Code: "ETH", Issuer: "gate"}
	usdt := domain.Currency{Code: "USDT", Issuer: "gate"}
	// 3000 USDT по 0.0005 ETH: покупка 1.5 ETH по 2000
	s, err := ex.EncodeOrder(domain.Order{Base: usdt, Counter: eth, BaseQuantity: dec("3000"), Rate: dec("0.0005")}, domain.Pair{Base: "ETH", Counter: "USDT"})
	if err != nil {
		t.Fatalf("EncodeOrder: %v", err)
	}
	if s.Side != "buy" || s.TimeInForce != "ioc" || s.Symbol != "ETH_USDT" || !s.Quantity.Equal(dec("1.5")) || !s.Price.Equal(dec("2000")) {
		t.Fatalf("submission=%+v", s)
	}
}
