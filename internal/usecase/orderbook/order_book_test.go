package orderbook

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	xrp = domain.Currency{Code: "XRP"}
	usd = domain.Currency{Code: "USD", Issuer: "gatehub", TransferFee: dec("0.1")}
)

func ord(base, counter domain.Currency, qty, rate string) domain.Order {
	return domain.Order{Base: base, Counter: counter, BaseQuantity: dec(qty), Rate: dec(rate)}
}

// xrpUSD — стакан XRP/USD в исходном (несортированном) виде.
func xrpUSD(t *testing.T) *OrderBook {
	t.Helper()
	b, err := FromSides(xrp, usd,
		[]domain.Order{ord(xrp, usd, "80", "0.23"), ord(xrp, usd, "100", "0.24")},
		[]domain.Order{ord(xrp, usd, "100", "0.26"), ord(xrp, usd, "90", "0.25")},
	)
	if err != nil {
		t.Fatalf("FromSides: %v", err)
	}
	return b
}

func rates(t *testing.T, xs []domain.Order) []string {
	t.Helper()
	out := make([]string, 0, len(xs))
	for _, o := range xs {
		out = append(out, o.Rate.String())
	}
	return out
}

func assertSorted(t *testing.T, b *OrderBook) {
	t.Helper()
	bids, err := b.Bids()
	if err != nil {
		t.Fatalf("Bids: %v", err)
	}
	asks, err := b.Asks()
	if err != nil {
		t.Fatalf("Asks: %v", err)
	}
	for i := 0; i+1 < len(bids); i++ {
		if bids[i].Rate.LessThan(bids[i+1].Rate) {
			t.Fatalf("bids not descending: %v", rates(t, bids))
		}
	}
	for i := 0; i+1 < len(asks); i++ {
		if asks[i].Rate.GreaterThan(asks[i+1].Rate) {
			t.Fatalf("asks not ascending: %v", rates(t, asks))
		}
	}
}

func TestSort(t *testing.T) {
	b := xrpUSD(t)
	bids, _ := b.Bids()
	if !bids[0].Rate.LessThan(bids[1].Rate) {
		t.Fatalf("fixture must start unsorted")
	}
	if err := b.Sort(); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	assertSorted(t, b)
	bid, _ := b.BestBid()
	ask, _ := b.BestAsk()
	if !bid.Rate.Equal(dec("0.24")) || !ask.Rate.Equal(dec("0.25")) {
		t.Fatalf("best bid=%s ask=%s", bid.Rate, ask.Rate)
	}
	// повторная сортировка ничего не меняет
	if err := b.Sort(); err != nil {
		t.Fatalf("second Sort: %v", err)
	}
	bids, _ = b.Bids()
	if got := rates(t, bids); got[0] != "0.24" || got[1] != "0.23" {
		t.Fatalf("bids=%v", got)
	}
}

func TestSpreadAndLiquidity(t *testing.T) {
	b := xrpUSD(t)
	if err := b.Sort(); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	spread, err := b.SpreadPct()
	if err != nil {
		t.Fatalf("SpreadPct: %v", err)
	}
	if d := spread.Sub(dec("0.0416666667")).Abs(); d.GreaterThan(dec("0.0000001")) {
		t.Fatalf("spread=%s want~0.04167", spread)
	}
	for _, tc := range []struct {
		threshold string
		want      bool
	}{{"0.05", true}, {"0.04", false}, {"0.0417", true}} {
		ok, err := b.IsLiquid(dec(tc.threshold))
		if err != nil {
			t.Fatalf("IsLiquid(%s): %v", tc.threshold, err)
		}
		if ok != tc.want {
			t.Fatalf("IsLiquid(%s)=%v want=%v", tc.threshold, ok, tc.want)
		}
		if ok != spread.LessThanOrEqual(dec(tc.threshold)) {
			t.Fatalf("IsLiquid disagrees with SpreadPct at %s", tc.threshold)
		}
	}
}

func TestSpreadEmptySide(t *testing.T) {
	b := New(xrp, usd)
	if err := b.AddOrder(ord(xrp, usd, "1", "0.2")); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	if _, err := b.SpreadPct(); !errors.Is(err, domain.ErrEmptySide) {
		t.Fatalf("err=%v want ErrEmptySide", err)
	}
	if _, err := b.IsLiquid(dec("1")); !errors.Is(err, domain.ErrEmptySide) {
		t.Fatalf("err=%v want ErrEmptySide", err)
	}
	if _, err := b.BestAsk(); !errors.Is(err, domain.ErrEmptySide) {
		t.Fatalf("BestAsk err=%v", err)
	}
}

func TestDetermineSide(t *testing.T) {
	b := New(xrp, usd)
	if s, err := b.DetermineSide(ord(xrp, usd, "1", "1")); err != nil || s != Bids {
		t.Fatalf("bid: side=%v err=%v", s, err)
	}
	if s, err := b.DetermineSide(ord(usd, xrp, "1", "1")); err != nil || s != Asks {
		t.Fatalf("ask: side=%v err=%v", s, err)
	}
	other := domain.Currency{Code: "USD", Issuer: "bitstamp", TransferFee: dec("0.1")}
	if _, err := b.DetermineSide(ord(xrp, other, "1", "1")); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("foreign issuer: err=%v", err)
	}
}

func TestAddOrder(t *testing.T) {
	b := New(xrp, usd)
	steps := []domain.Order{
		ord(xrp, usd, "80", "0.23"),
		ord(usd, xrp, "26", "3.846153846153846"), // аск 100 XRP по ~0.26
		ord(xrp, usd, "100", "0.24"),
		ord(usd, xrp, "22.5", "4"), // аск 90 XRP по 0.25
	}
	for _, o := range steps {
		if err := b.AddOrder(o); err != nil {
			t.Fatalf("AddOrder(%s): %v", o, err)
		}
		assertSorted(t, b)
	}
	asks, _ := b.Asks()
	if len(asks) != 2 {
		t.Fatalf("asks=%d want=2", len(asks))
	}
	for _, a := range asks {
		if !a.SamePair(xrp, usd) {
			t.Fatalf("ask stored in wrong orientation: %s", a)
		}
	}
	if !asks[0].Rate.Equal(dec("0.25")) || !asks[0].BaseQuantity.Equal(dec("90")) {
		t.Fatalf("best ask=%s", asks[0])
	}
}

func TestAddOrderInvalidLeavesBookUntouched(t *testing.T) {
	b := xrpUSD(t)
	if err := b.Sort(); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	before, _ := b.Bids()
	beforeAsks, _ := b.Asks()
	eur := domain.Currency{Code: "EUR"}
	if err := b.AddOrder(ord(xrp, eur, "1", "1")); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("err=%v want ErrInvalidOrder", err)
	}
	if err := b.AddOrder(ord(usd, xrp, "1", "0")); !errors.Is(err, domain.ErrDivideByZero) {
		t.Fatalf("zero-rate ask: err=%v want ErrDivideByZero", err)
	}
	for _, o := range []domain.Order{
		ord(xrp, usd, "-5", "-1"),
		ord(xrp, usd, "0", "0.24"),
		ord(xrp, usd, "10", "0"),
		ord(usd, xrp, "10", "-4"),
	} {
		if err := b.AddOrder(o); !errors.Is(err, domain.ErrInvalidOrder) {
			t.Fatalf("AddOrder(%s): err=%v want ErrInvalidOrder", o, err)
		}
	}
	after, _ := b.Bids()
	afterAsks, _ := b.Asks()
	if len(after) != len(before) || len(afterAsks) != len(beforeAsks) {
		t.Fatalf("book mutated: bids %d->%d asks %d->%d", len(before), len(after), len(beforeAsks), len(afterAsks))
	}
}

func TestFromSidesRejectsForeignOrders(t *testing.T) {
	_, err := FromSides(xrp, usd, []domain.Order{ord(usd, xrp, "1", "1")}, nil)
	if !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("err=%v want ErrInvalidOrder", err)
	}
}

func TestFromSidesRejectsNonPositiveOrders(t *testing.T) {
	cases := []struct {
		name       string
		bids, asks []domain.Order
	}{
		{"zero rate ask", nil, []domain.Order{ord(xrp, usd, "10", "0")}},
		{"negative rate bid", []domain.Order{ord(xrp, usd, "10", "-0.2")}, nil},
		{"zero quantity bid", []domain.Order{ord(xrp, usd, "0", "0.2")}, nil},
		{"negative quantity ask", nil, []domain.Order{ord(xrp, usd, "-1", "0.3")}},
	}
	for _, tc := range cases {
		if _, err := FromSides(xrp, usd, tc.bids, tc.asks); !errors.Is(err, domain.ErrInvalidOrder) {
			t.Fatalf("%s: err=%v want ErrInvalidOrder", tc.name, err)
		}
	}
}

func TestFlippedBook(t *testing.T) {
	b := xrpUSD(t)
	if err := b.Sort(); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	f, err := b.Flipped()
	if err != nil {
		t.Fatalf("Flipped: %v", err)
	}
	if !f.Base().Equal(usd) || !f.Counter().Equal(xrp) {
		t.Fatalf("currencies not swapped: %s", f)
	}
	bids, _ := f.Bids()
	asks, _ := f.Asks()
	if len(bids) != 2 || len(asks) != 2 {
		t.Fatalf("sides bids=%d asks=%d", len(bids), len(asks))
	}
	for _, o := range append(bids, asks...) {
		if !o.SamePair(usd, xrp) {
			t.Fatalf("order %s not in USD/XRP orientation", o)
		}
	}
	assertSorted(t, f)
	// лучший бид USD/XRP — перевёрнутый лучший аск XRP/USD (0.25 -> 4)
	if !bids[0].Rate.Equal(dec("4")) || !bids[0].BaseQuantity.Equal(dec("22.5")) {
		t.Fatalf("best bid=%s", bids[0])
	}
	// исходный стакан не тронут
	if !b.Base().Equal(xrp) {
		t.Fatalf("source book changed")
	}
	back, err := f.Flipped()
	if err != nil {
		t.Fatalf("second Flipped: %v", err)
	}
	bb, _ := back.BestBid()
	ba, _ := back.BestAsk()
	if !bb.Rate.Equal(dec("0.24")) || !ba.Rate.Equal(dec("0.25")) {
		t.Fatalf("double flip best bid=%s ask=%s", bb.Rate, ba.Rate)
	}
}

func TestFlippedBookZeroRate(t *testing.T) {
	// 1e20 при первом перевороте округляется до нулевого курса
	huge, err := FromSides(xrp, usd, []domain.Order{ord(xrp, usd, "1", "100000000000000000000")}, nil)
	if err != nil {
		t.Fatalf("FromSides: %v", err)
	}
	b, err := huge.Flipped()
	if err != nil {
		t.Fatalf("first Flipped: %v", err)
	}
	if _, err := b.Flipped(); !errors.Is(err, domain.ErrDivideByZero) {
		t.Fatalf("err=%v want ErrDivideByZero", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := xrpUSD(t)
	c, err := b.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if err := c.AddOrder(ord(xrp, usd, "5", "0.3")); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	bids, _ := b.Bids()
	if len(bids) != 2 {
		t.Fatalf("clone shares storage with source: bids=%d", len(bids))
	}
}

func TestPoisonedSide(t *testing.T) {
	b := xrpUSD(t)
	func() {
		defer func() { _ = recover() }()
		_ = b.withBoth(func(_, _ *[]domain.Order) error { panic("boom") })
	}()
	if err := b.Sort(); !errors.Is(err, domain.ErrLockUnavailable) {
		t.Fatalf("Sort err=%v want ErrLockUnavailable", err)
	}
	if _, err := b.BestAsk(); !errors.Is(err, domain.ErrLockUnavailable) {
		t.Fatalf("BestAsk err=%v want ErrLockUnavailable", err)
	}
	if err := b.AddOrder(ord(xrp, usd, "1", "0.2")); !errors.Is(err, domain.ErrLockUnavailable) {
		t.Fatalf("AddOrder err=%v want ErrLockUnavailable", err)
	}
	if _, err := b.Clone(); !errors.Is(err, domain.ErrLockUnavailable) {
		t.Fatalf("Clone err=%v want ErrLockUnavailable", err)
	}
}

func TestConcurrentAddAndRead(t *testing.T) {
	b := New(xrp, usd)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r := decimal.NewFromInt(int64(i*50 + j + 1)).Div(decimal.NewFromInt(1000))
				bid := domain.Order{Base: xrp, Counter: usd, BaseQuantity: dec("1"), Rate: r}
				ask := domain.Order{Base: usd, Counter: xrp, BaseQuantity: dec("1"), Rate: decimal.NewFromInt(1).Div(r)}
				if err := b.AddOrder(bid); err != nil {
					t.Errorf("AddOrder bid: %v", err)
					return
				}
				if err := b.AddOrder(ask); err != nil {
					t.Errorf("AddOrder ask: %v", err)
					return
				}
				_, _ = b.SpreadPct()
				_, _ = b.BestBid()
			}
		}(i)
	}
	wg.Wait()
	bids, _ := b.Bids()
	asks, _ := b.Asks()
	if len(bids) != 400 || len(asks) != 400 {
		t.Fatalf("bids=%d asks=%d want=400", len(bids), len(asks))
	}
	assertSorted(t, b)
}
