package swap

import (
	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
)

// Trade — пара ног между двумя стаканами с точки зрения трейдера:
// SellOrder продаёт стартовую валюту, BuyOrder возвращает её обратно.
type Trade struct {
	SellOrder        domain.Order
	BuyOrder         domain.Order
	StartingCurrency domain.Currency
	Alignment        Alignment
	// Пары стаканов, из которых взяты ноги.
	SellPair domain.Pair
	BuyPair  domain.Pair
}

// IsProfitable: sellOut = продажа после комиссии; покупка ограничивается
// min(sellOut, BuyOrder.BaseQuantity); прибыльно, если sellOut строго меньше
// того, что вернёт покупка после комиссии.
func (t Trade) IsProfitable() bool {
	sellOut, buyOut := t.Profit()
	return sellOut.LessThan(buyOut)
}

// Profit возвращает обе стороны сравнения из IsProfitable.
func (t Trade) Profit() (sellOut, buyOut decimal.Decimal) {
	sellOut = t.SellOrder.CounterQuantityAfterFee()
	buy := t.BuyOrder
	buy.BaseQuantity = decimal.Min(sellOut, buy.BaseQuantity)
	return sellOut, buy.CounterQuantityAfterFee()
}
