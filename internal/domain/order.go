package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order — предложение обменять BaseQuantity единиц Base
// на Rate*BaseQuantity единиц Counter.
type Order struct {
	Base         Currency
	Counter      Currency
	BaseQuantity decimal.Decimal
	Rate         decimal.Decimal
}

// NewOrder проверяет, что количество и курс положительные.
func NewOrder(base, counter Currency, qty, rate decimal.Decimal) (Order, error) {
	o := Order{Base: base, Counter: counter, BaseQuantity: qty, Rate: rate}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Validate — количество и курс строго больше нуля.
func (o Order) Validate() error {
	if !o.BaseQuantity.IsPositive() {
		return fmt.Errorf("%w: quantity %s must be > 0", ErrInvalidOrder, o.BaseQuantity)
	}
	if !o.Rate.IsPositive() {
		return fmt.Errorf("%w: rate %s must be > 0", ErrInvalidOrder, o.Rate)
	}
	return nil
}

// CounterQuantityAfterFee — сколько Counter придёт после комиссии.
// Комиссия берётся только с ноги Counter.
func (o Order) CounterQuantityAfterFee() decimal.Decimal {
	return o.Counter.AfterTransferFee(o.BaseQuantity.Mul(o.Rate))
}

// Flipped возвращает тот же ордер в обратной ориентации:
// курс 1/Rate, количество BaseQuantity*Rate, Base и Counter меняются местами.
// Исходный ордер не меняется.
func (o Order) Flipped() (Order, error) {
	if o.Rate.IsZero() {
		return Order{}, fmt.Errorf("flip %s/%s: %w", o.Base, o.Counter, ErrDivideByZero)
	}
	return Order{
		Base:         o.Counter,
		Counter:      o.Base,
		BaseQuantity: o.BaseQuantity.Mul(o.Rate),
		Rate:         decimal.NewFromInt(1).Div(o.Rate),
	}, nil
}

// Compare сравнивает только курсы. Ордера с равным курсом, но разным
// количеством считаются равными.
func (o Order) Compare(other Order) int {
	return o.Rate.Cmp(other.Rate)
}

// SamePair — совпадают ли валюты ордера с парой (полное равенство).
func (o Order) SamePair(base, counter Currency) bool {
	return o.Base.Equal(base) && o.Counter.Equal(counter)
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s -> %s @ %s", o.BaseQuantity, o.Base, o.Counter, o.Rate)
}
