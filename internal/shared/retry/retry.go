package retry

import (
	"context"
	"time"
)

// WithRetry выполняет op с повторами и простым экспоненциальным бэкоффом.
// Отмена ctx прерывает ожидание между попытками.
func WithRetry(ctx context.Context, attempts int, sleep time.Duration, op func(ctx context.Context) error) error {
	var err error
	backoff := sleep
	for i := 0; i < attempts; i++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
	return err
}
