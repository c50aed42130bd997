package orderbook

import (
	"fmt"
	"sort"
	"sync"

	"swaparb/internal/domain"
)

// SideType — сторона стакана.
type SideType int

const (
	Bids SideType = iota
	Asks
)

func (t SideType) String() string {
	switch t {
	case Bids:
		return "bids"
	case Asks:
		return "asks"
	default:
		return fmt.Sprintf("side(%d)", int(t))
	}
}

// Side — упорядоченные ордера одной стороны за собственным мьютексом.
// Если критическая секция паникует, сторона считается отравленной
// и все следующие захваты возвращают domain.ErrLockUnavailable.
type Side struct {
	kind     SideType
	mu       sync.Mutex
	poisoned bool
	orders   []domain.Order
}

func newSide(kind SideType, orders []domain.Order) *Side {
	return &Side{kind: kind, orders: append([]domain.Order(nil), orders...)}
}

func (s *Side) Type() SideType { return s.kind }

func (s *Side) lock() error {
	s.mu.Lock()
	if s.poisoned {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", s.kind, domain.ErrLockUnavailable)
	}
	return nil
}

// release вызывается только через defer после успешного lock.
func (s *Side) release() {
	if r := recover(); r != nil {
		s.poisoned = true
		s.mu.Unlock()
		panic(r)
	}
	s.mu.Unlock()
}

// with выполняет fn под блокировкой стороны.
func (s *Side) with(fn func(orders *[]domain.Order) error) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.release()
	return fn(&s.orders)
}

// best — лучший ордер (индекс 0) под блокировкой стороны.
func (s *Side) best() (domain.Order, error) {
	var out domain.Order
	err := s.with(func(orders *[]domain.Order) error {
		if len(*orders) == 0 {
			return fmt.Errorf("%s: %w", s.kind, domain.ErrEmptySide)
		}
		out = (*orders)[0]
		return nil
	})
	return out, err
}

func (s *Side) snapshot() ([]domain.Order, error) {
	var out []domain.Order
	err := s.with(func(orders *[]domain.Order) error {
		out = append([]domain.Order(nil), (*orders)...)
		return nil
	})
	return out, err
}

// Биды — по убыванию курса, аски — по возрастанию.
// Уже отсортированный срез не трогаем.
func sortBids(xs []domain.Order) {
	desc := func(i, j int) bool { return xs[i].Compare(xs[j]) > 0 }
	if !sort.SliceIsSorted(xs, desc) {
		sort.Slice(xs, desc)
	}
}

func sortAsks(xs []domain.Order) {
	asc := func(i, j int) bool { return xs[i].Compare(xs[j]) < 0 }
	if !sort.SliceIsSorted(xs, asc) {
		sort.Slice(xs, asc)
	}
}
