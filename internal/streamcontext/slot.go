package streamcontext

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// slot is a guarded one-shot future: the first start seeds a
// background fetch, every subsequent start/wait observes the same
// result. Memoization itself never blocks — only wait does — so two
// concurrent getX() calls race harmlessly on the start without ever
// launching two fetches.
type slot[T any] struct {
	mu      sync.Mutex
	started bool
	done    chan struct{}
	value   T
}

func (s *slot[T]) start(ctx context.Context, log *zap.Logger, label string, fetch func(ctx context.Context) (T, error)) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		v, err := fetch(ctx)
		if err != nil {
			if log != nil {
				log.Warn("stream context fetch failed", zap.String("slot", label), zap.Error(err))
			}
			return
		}
		s.value = v
	}()
}

// wait blocks until the slot's fetch completes (or ctx is cancelled),
// returning the zero value for T if the slot was never started.
func (s *slot[T]) wait(ctx context.Context) T {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		var zero T
		return zero
	}
	select {
	case <-done:
		return s.value
	case <-ctx.Done():
		var zero T
		return zero
	}
}
