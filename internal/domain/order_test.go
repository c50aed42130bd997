package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

var (
	xrp = Currency{Code: "XRP"}
	usd = Currency{Code: "USD", Issuer: "gatehub", TransferFee: decimal.RequireFromString("0.1")}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// near — относительная погрешность не больше 1e-9.
func near(a, b decimal.Decimal) bool {
	if b.IsZero() {
		return a.IsZero()
	}
	return a.Div(b).Sub(decimal.NewFromInt(1)).Abs().LessThan(dec("0.000000001"))
}

func TestOrderFlipRoundTrip(t *testing.T) {
	rates := []string{"0.23", "0.24", "1", "3.7", "12345.6789", "0.00001234"}
	for _, r := range rates {
		o := Order{Base: xrp, Counter: usd, BaseQuantity: dec("80"), Rate: dec(r)}
		once, err := o.Flipped()
		if err != nil {
			t.Fatalf("rate=%s: flip: %v", r, err)
		}
		if !once.Base.Equal(usd) || !once.Counter.Equal(xrp) {
			t.Fatalf("rate=%s: currencies not swapped: %s", r, once)
		}
		twice, err := once.Flipped()
		if err != nil {
			t.Fatalf("rate=%s: second flip: %v", r, err)
		}
		if !twice.SamePair(xrp, usd) {
			t.Fatalf("rate=%s: pair not restored: %s", r, twice)
		}
		if !near(twice.Rate, o.Rate) {
			t.Fatalf("rate=%s: rate=%s after double flip", r, twice.Rate)
		}
		if !near(twice.BaseQuantity, o.BaseQuantity) {
			t.Fatalf("rate=%s: qty=%s after double flip", r, twice.BaseQuantity)
		}
	}
}

func TestOrderFlipQuantity(t *testing.T) {
	o := Order{Base: xrp, Counter: usd, BaseQuantity: dec("90"), Rate: dec("0.25")}
	f, err := o.Flipped()
	if err != nil {
		t.Fatalf("flip: %v", err)
	}
	if !f.BaseQuantity.Equal(dec("22.5")) {
		t.Fatalf("qty=%s want=22.5", f.BaseQuantity)
	}
	if !f.Rate.Equal(dec("4")) {
		t.Fatalf("rate=%s want=4", f.Rate)
	}
	if !o.Rate.Equal(dec("0.25")) {
		t.Fatalf("source order mutated: %s", o)
	}
}

func TestOrderFlipZeroRate(t *testing.T) {
	o := Order{Base: xrp, Counter: usd, BaseQuantity: dec("1"), Rate: decimal.Zero}
	if _, err := o.Flipped(); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("err=%v want ErrDivideByZero", err)
	}
}

func TestCounterQuantityAfterFee(t *testing.T) {
	o := Order{Base: xrp, Counter: usd, BaseQuantity: dec("100"), Rate: dec("0.24")}
	// 100 * 0.24 * (1 - 0.1)
	if got := o.CounterQuantityAfterFee(); !got.Equal(dec("21.6")) {
		t.Fatalf("counter after fee=%s want=21.6", got)
	}
	// комиссия базы не влияет
	o.Base.TransferFee = dec("0.5")
	if got := o.CounterQuantityAfterFee(); !got.Equal(dec("21.6")) {
		t.Fatalf("base fee leaked: %s", got)
	}
}

func TestOrderCompareByRateOnly(t *testing.T) {
	a := Order{Base: xrp, Counter: usd, BaseQuantity: dec("1"), Rate: dec("0.5")}
	b := Order{Base: xrp, Counter: usd, BaseQuantity: dec("1000"), Rate: dec("0.50")}
	if a.Compare(b) != 0 {
		t.Fatalf("equal rates must compare equal")
	}
	b.Rate = dec("0.6")
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Fatalf("compare by rate broken")
	}
}

func TestNewOrderValidation(t *testing.T) {
	if _, err := NewOrder(xrp, usd, dec("0"), dec("1")); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("zero qty: err=%v", err)
	}
	if _, err := NewOrder(xrp, usd, dec("1"), dec("-1")); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("negative rate: err=%v", err)
	}
	o, err := NewOrder(xrp, usd, dec("2"), dec("0.3"))
	if err != nil {
		t.Fatalf("valid order: %v", err)
	}
	if !o.SamePair(xrp, usd) {
		t.Fatalf("pair=%s", o)
	}
}

func TestOrderValidate(t *testing.T) {
	if err := (Order{Base: xrp, Counter: usd, BaseQuantity: dec("1"), Rate: dec("0.2")}).Validate(); err != nil {
		t.Fatalf("valid order: %v", err)
	}
	for _, qr := range [][2]string{{"0", "0.2"}, {"-1", "0.2"}, {"1", "0"}, {"1", "-0.2"}} {
		o := Order{Base: xrp, Counter: usd, BaseQuantity: dec(qr[0]), Rate: dec(qr[1])}
		if err := o.Validate(); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("qty=%s rate=%s: err=%v want ErrInvalidOrder", qr[0], qr[1], err)
		}
	}
}
