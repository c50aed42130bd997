package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Pair — валютная пара стакана в терминах кодов (BASE/COUNTER).
type Pair struct {
	Base    string `json:"base" yaml:"base"`
	Counter string `json:"counter" yaml:"counter"`
}

func (p Pair) String() string { return p.Base + "/" + p.Counter }

// Flipped — та же пара в обратном порядке.
func (p Pair) Flipped() Pair { return Pair{Base: p.Counter, Counter: p.Base} }

// Depth — снимок стакана одной биржи. Биды и аски в ориентации стакана:
// Base -> Counter, Rate — цена в единицах Counter.
type Depth struct {
	Exchange  string
	Pair      Pair
	Base      Currency
	Counter   Currency
	Bids      []Order
	Asks      []Order
	Timestamp int64
}

// Параметры запроса стаканов и задержек
type Config struct {
	DelayMS int `json:"delay_ms"`
	Limit   int `json:"limit"`
}

// Контракт адаптера биржи
type Exchange interface {
	Name() string
	FetchDepth(ctx context.Context, pair Pair, limit int) (Depth, error)
}

// Submission — заявка для отправки на конкретную биржу.
// Формируется, но не отправляется.
type Submission struct {
	Venue         string          `json:"venue"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	TimeInForce   string          `json:"timeInForce"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	ClientOrderID string          `json:"clientOrderId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderEncoder переводит ногу сделки в заявку биржи.
// pair — пара стакана, из которого взята нога.
type OrderEncoder interface {
	Name() string
	EncodeOrder(o Order, pair Pair) (Submission, error)
}

// Venue — биржа, умеющая и читать стаканы, и кодировать заявки.
type Venue interface {
	Exchange
	OrderEncoder
}

// LegTerms переводит ногу сделки в термины пары стакана.
// Нога продаёт Base пары: продажа BaseQuantity по Rate.
// Нога продаёт Counter пары: покупка BaseQuantity*Rate по 1/Rate.
func LegTerms(o Order, pair Pair) (sell bool, qty, price decimal.Decimal, err error) {
	switch {
	case o.Base.Code == pair.Base && o.Counter.Code == pair.Counter:
		return true, o.BaseQuantity, o.Rate, nil
	case o.Base.Code == pair.Counter && o.Counter.Code == pair.Base:
		if o.Rate.IsZero() {
			return false, decimal.Zero, decimal.Zero, ErrDivideByZero
		}
		return false, o.BaseQuantity.Mul(o.Rate), decimal.NewFromInt(1).Div(o.Rate), nil
	default:
		return false, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s not in %s", ErrInvalidOrder, o, pair)
	}
}

// ParseLevel — уровень стакана из строк биржи (цена, объём) как ордер Base -> Counter.
func ParseLevel(base, counter Currency, price, qty string) (Order, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Order{}, fmt.Errorf("%w: price %q: %v", ErrInvalidOrder, price, err)
	}
	q, err := decimal.NewFromString(qty)
	if err != nil {
		return Order{}, fmt.Errorf("%w: quantity %q: %v", ErrInvalidOrder, qty, err)
	}
	return NewOrder(base, counter, q, p)
}
