package dedupe

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"mrsummarizer/internal/config"
	"mrsummarizer/pkg/circuitbreaker"
)

// CircuitBreakerStore shields the shared backend: a run of Redis failures
// opens the breaker so poll cycles fail fast instead of stalling on timeouts.
type CircuitBreakerStore struct {
	store Store
	cb    *circuitbreaker.Wrapper
}

func NewCircuitBreakerStore(store Store, cfg config.CircuitBreakerConfig) *CircuitBreakerStore {
	if !cfg.Enabled {
		return &CircuitBreakerStore{
			store: store,
			cb:    nil,
		}
	}

	cbConfig := circuitbreaker.DefaultConfig("redis-dedupe")
	if cfg.MaxRequests > 0 {
		cbConfig.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		cbConfig.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 && cfg.MinRequests > 0 {
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		}
	}

	return &CircuitBreakerStore{
		store: store,
		cb:    circuitbreaker.NewWrapper(cbConfig),
	}
}

func (s *CircuitBreakerStore) Add(ctx context.Context, id string) error {
	if s.cb == nil {
		return s.store.Add(ctx, id)
	}

	_, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, s.store.Add(ctx, id)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil && s.cb.IsOpen() {
		return fmt.Errorf("circuit breaker is open for redis-dedupe: %w", err)
	}
	return err
}

func (s *CircuitBreakerStore) Contains(ctx context.Context, id string) (bool, error) {
	if s.cb == nil {
		return s.store.Contains(ctx, id)
	}

	result, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.store.Contains(ctx, id)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil {
		if s.cb.IsOpen() {
			return false, fmt.Errorf("circuit breaker is open for redis-dedupe: %w", err)
		}
		return false, err
	}

	member, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("store returned invalid result type")
	}

	return member, nil
}

func (s *CircuitBreakerStore) All(ctx context.Context) ([]string, error) {
	if s.cb == nil {
		return s.store.All(ctx)
	}

	result, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.store.All(ctx)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil {
		if s.cb.IsOpen() {
			return nil, fmt.Errorf("circuit breaker is open for redis-dedupe: %w", err)
		}
		return nil, err
	}

	ids, ok := result.([]string)
	if !ok {
		return nil, fmt.Errorf("store returned invalid result type")
	}

	return ids, nil
}

func (s *CircuitBreakerStore) Count(ctx context.Context) (int, error) {
	if s.cb == nil {
		return s.store.Count(ctx)
	}

	result, err := s.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.store.Count(ctx)
	})

	s.cb.RecordRequest(err == nil)

	if err != nil {
		if s.cb.IsOpen() {
			return 0, fmt.Errorf("circuit breaker is open for redis-dedupe: %w", err)
		}
		return 0, err
	}

	n, ok := result.(int)
	if !ok {
		return 0, fmt.Errorf("store returned invalid result type")
	}

	return n, nil
}

func (s *CircuitBreakerStore) Persist(ctx context.Context) error {
	return s.store.Persist(ctx)
}
