package swap

import (
	"fmt"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/orderbook"
)

// Match строит сделку: продаём в стакане sell, покупаем обратно в стакане buy.
// Оба стакана пересортировываются перед чтением лучших ордеров.
func Match(sell, buy *orderbook.OrderBook, trading string) (Trade, error) {
	if err := sell.Sort(); err != nil {
		return Trade{}, err
	}
	if err := buy.Sort(); err != nil {
		return Trade{}, err
	}

	al := Classify(sell.Base(), sell.Counter(), buy.Base(), buy.Counter(), trading)
	l, ok := legTable[al]
	if !ok {
		return Trade{}, fmt.Errorf("%s vs %s trading %s: %w", sell, buy, trading, domain.ErrInvalidOrderBookCombo)
	}

	sellOrder, err := leg(sell, l.sellFromAsks)
	if err != nil {
		return Trade{}, err
	}
	buyOrder, err := leg(buy, l.buyFromAsks)
	if err != nil {
		return Trade{}, err
	}

	start := sell.Base()
	if l.startCounter {
		start = sell.Counter()
	}
	return Trade{
		SellOrder:        sellOrder,
		BuyOrder:         buyOrder,
		StartingCurrency: start,
		Alignment:        al,
		SellPair:         sell.Pair(),
		BuyPair:          buy.Pair(),
	}, nil
}

// leg — лучший бид как есть или перевёрнутый лучший аск.
func leg(b *orderbook.OrderBook, fromAsks bool) (domain.Order, error) {
	if !fromAsks {
		return b.BestBid()
	}
	ask, err := b.BestAsk()
	if err != nil {
		return domain.Order{}, err
	}
	return ask.Flipped()
}
