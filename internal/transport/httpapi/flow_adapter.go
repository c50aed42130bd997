package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/arbitrage"
)

// CachedFlow — тонкий адаптер над use-case: держит последний скан ttl,
// чтобы соседние запросы к /api/* не дёргали биржи заново.
type CachedFlow struct {
	Svc FlowFacade
	TTL time.Duration

	mu   sync.Mutex
	at   time.Time
	last arbitrage.Result
	now  func() time.Time
}

func NewCachedFlow(svc FlowFacade, ttl time.Duration) *CachedFlow {
	return &CachedFlow{Svc: svc, TTL: ttl, now: time.Now}
}

func (a *CachedFlow) Pairs() []domain.Pair {
	if a == nil || a.Svc == nil {
		return nil
	}
	return a.Svc.Pairs()
}

func (a *CachedFlow) Scan(ctx context.Context) (arbitrage.Result, error) {
	if a == nil || a.Svc == nil {
		return arbitrage.Result{}, fmt.Errorf("service is not initialized")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now
	if a.now != nil {
		now = a.now
	}
	if !a.at.IsZero() && now().Sub(a.at) < a.TTL {
		return a.last, nil
	}
	res, err := a.Svc.Scan(ctx)
	if err != nil {
		return arbitrage.Result{}, err
	}
	a.last, a.at = res, now()
	return res, nil
}
