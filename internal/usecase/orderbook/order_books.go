package orderbook

import (
	"errors"

	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
)

// OrderBooks — набор стаканов с общим порогом ликвидности.
type OrderBooks struct {
	Books           []*OrderBook
	LiquiditySpread decimal.Decimal
}

func NewOrderBooks(liquiditySpread decimal.Decimal, books ...*OrderBook) *OrderBooks {
	return &OrderBooks{Books: books, LiquiditySpread: liquiditySpread}
}

// Sort сортирует каждый стакан.
func (obs *OrderBooks) Sort() error {
	for _, b := range obs.Books {
		if err := b.Sort(); err != nil {
			return err
		}
	}
	return nil
}

// Liquid — стаканы со спредом не больше LiquiditySpread, в исходном порядке.
// Стаканы должны быть отсортированы. Каждый вызов заново считает спреды;
// если нужны обе группы, вызывайте Partition.
func (obs *OrderBooks) Liquid() ([]*OrderBook, error) {
	liquid, _, err := obs.Partition()
	return liquid, err
}

// Illiquid — остальные стаканы, включая стаканы с пустой стороной.
func (obs *OrderBooks) Illiquid() ([]*OrderBook, error) {
	_, illiquid, err := obs.Partition()
	return illiquid, err
}

// Partition делит стаканы на ликвидные и неликвидные за один проход.
// Пустая сторона или нулевой лучший бид — неликвидный стакан, не ошибка.
func (obs *OrderBooks) Partition() (liquid, illiquid []*OrderBook, err error) {
	for _, b := range obs.Books {
		ok, err := b.IsLiquid(obs.LiquiditySpread)
		switch {
		case errors.Is(err, domain.ErrEmptySide), errors.Is(err, domain.ErrDivideByZero):
			illiquid = append(illiquid, b)
		case err != nil:
			return nil, nil, err
		case ok:
			liquid = append(liquid, b)
		default:
			illiquid = append(illiquid, b)
		}
	}
	return liquid, illiquid, nil
}
