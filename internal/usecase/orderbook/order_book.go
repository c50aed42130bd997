package orderbook

import (
	"fmt"

	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
)

// OrderBook — биды и аски одной валютной пары одной биржи.
//
// Все хранимые ордера ориентированы как (base, counter) стакана:
// аски переворачиваются перед вставкой. Валюты стакана неизменны.
//
// Операции над обеими сторонами захватывают сначала биды, потом аски.
type OrderBook struct {
	base    domain.Currency
	counter domain.Currency
	bids    *Side
	asks    *Side
}

// New — пустой стакан base/counter.
func New(base, counter domain.Currency) *OrderBook {
	return &OrderBook{
		base:    base,
		counter: counter,
		bids:    newSide(Bids, nil),
		asks:    newSide(Asks, nil),
	}
}

// FromSides собирает стакан из уже ориентированных сторон без сортировки.
// Каждый ордер должен быть в валютах стакана, с положительными количеством и курсом.
func FromSides(base, counter domain.Currency, bids, asks []domain.Order) (*OrderBook, error) {
	for _, side := range [][]domain.Order{bids, asks} {
		for _, o := range side {
			if !o.SamePair(base, counter) {
				return nil, fmt.Errorf("%w: %s is not %s/%s", domain.ErrInvalidOrder, o, base, counter)
			}
			if err := o.Validate(); err != nil {
				return nil, err
			}
		}
	}
	return &OrderBook{
		base:    base,
		counter: counter,
		bids:    newSide(Bids, bids),
		asks:    newSide(Asks, asks),
	}, nil
}

func (b *OrderBook) Base() domain.Currency    { return b.base }
func (b *OrderBook) Counter() domain.Currency { return b.counter }

// Venue — биржа стакана (эмитент базовой валюты).
func (b *OrderBook) Venue() string { return b.base.Issuer }

func (b *OrderBook) Pair() domain.Pair {
	return domain.Pair{Base: b.base.Code, Counter: b.counter.Code}
}

func (b *OrderBook) String() string {
	return fmt.Sprintf("%s/%s", b.base, b.counter)
}

func (b *OrderBook) withBoth(fn func(bids, asks *[]domain.Order) error) error {
	if err := b.bids.lock(); err != nil {
		return err
	}
	defer b.bids.release()
	if err := b.asks.lock(); err != nil {
		return err
	}
	defer b.asks.release()
	return fn(&b.bids.orders, &b.asks.orders)
}

// Sort — биды по убыванию, аски по возрастанию. Идемпотентна.
func (b *OrderBook) Sort() error {
	return b.withBoth(func(bids, asks *[]domain.Order) error {
		sortBids(*bids)
		sortAsks(*asks)
		return nil
	})
}

// SpreadPct = (bestAsk - bestBid) / bestBid.
// Берёт текущие ордера с индексом 0: вызывающий сортирует заранее.
func (b *OrderBook) SpreadPct() (decimal.Decimal, error) {
	var spread decimal.Decimal
	err := b.withBoth(func(bids, asks *[]domain.Order) error {
		if len(*bids) == 0 {
			return fmt.Errorf("%s bids: %w", b, domain.ErrEmptySide)
		}
		if len(*asks) == 0 {
			return fmt.Errorf("%s asks: %w", b, domain.ErrEmptySide)
		}
		bid, ask := (*bids)[0].Rate, (*asks)[0].Rate
		if bid.IsZero() {
			return fmt.Errorf("%s spread: %w", b, domain.ErrDivideByZero)
		}
		spread = ask.Sub(bid).Div(bid)
		return nil
	})
	return spread, err
}

// IsLiquid — спред не больше порога.
func (b *OrderBook) IsLiquid(threshold decimal.Decimal) (bool, error) {
	spread, err := b.SpreadPct()
	if err != nil {
		return false, err
	}
	return spread.LessThanOrEqual(threshold), nil
}

// DetermineSide: Bids если ордер в ориентации стакана, Asks если в обратной.
func (b *OrderBook) DetermineSide(o domain.Order) (SideType, error) {
	switch {
	case o.SamePair(b.base, b.counter):
		return Bids, nil
	case o.SamePair(b.counter, b.base):
		return Asks, nil
	default:
		return 0, fmt.Errorf("%w: %s does not belong to %s", domain.ErrInvalidOrder, o, b)
	}
}

// AddOrder добавляет ордер и пересортировывает стакан.
// Аск переворачивается в ориентацию стакана; аск с нулевым курсом даёт
// ErrDivideByZero, прочие неположительные курс или количество дают
// ErrInvalidOrder. При ошибке стакан не меняется.
func (b *OrderBook) AddOrder(o domain.Order) error {
	side, err := b.DetermineSide(o)
	if err != nil {
		return err
	}
	if side == Asks {
		if o, err = o.Flipped(); err != nil {
			return fmt.Errorf("add ask to %s: %w", b, err)
		}
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("add to %s: %w", b, err)
	}
	return b.withBoth(func(bids, asks *[]domain.Order) error {
		if side == Bids {
			*bids = append(*bids, o)
		} else {
			*asks = append(*asks, o)
		}
		sortBids(*bids)
		sortAsks(*asks)
		return nil
	})
}

func (b *OrderBook) BestBid() (domain.Order, error) { return b.bids.best() }
func (b *OrderBook) BestAsk() (domain.Order, error) { return b.asks.best() }

// Bids — копия бидов.
func (b *OrderBook) Bids() ([]domain.Order, error) { return b.bids.snapshot() }

// Asks — копия асков.
func (b *OrderBook) Asks() ([]domain.Order, error) { return b.asks.snapshot() }

// Clone — согласованный снимок обеих сторон.
func (b *OrderBook) Clone() (*OrderBook, error) {
	var out *OrderBook
	err := b.withBoth(func(bids, asks *[]domain.Order) error {
		out = &OrderBook{
			base:    b.base,
			counter: b.counter,
			bids:    newSide(Bids, *bids),
			asks:    newSide(Asks, *asks),
		}
		return nil
	})
	return out, err
}

// Flipped превращает стакан A/B в B/A: каждый ордер переворачивается,
// бывшие аски становятся бидами и наоборот, base и counter меняются местами.
// Исходный стакан не меняется.
func (b *OrderBook) Flipped() (*OrderBook, error) {
	var newBids, newAsks []domain.Order
	err := b.withBoth(func(bids, asks *[]domain.Order) error {
		var err error
		if newBids, err = flipAll(*asks); err != nil {
			return err
		}
		newAsks, err = flipAll(*bids)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("flip %s: %w", b, err)
	}
	sortBids(newBids)
	sortAsks(newAsks)
	return &OrderBook{
		base:    b.counter,
		counter: b.base,
		bids:    newSide(Bids, newBids),
		asks:    newSide(Asks, newAsks),
	}, nil
}

func flipAll(xs []domain.Order) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(xs))
	for _, o := range xs {
		f, err := o.Flipped()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
