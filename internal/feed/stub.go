package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"live-strategy-lab/internal/domain"
)

// defaultStubPrices walks both baseline strategies through full buy/sell
// cycles around an anchor of 100.
var defaultStubPrices = []float64{
	100, 100.4, 100.9, 101.5, 100.7, 99.6,
	98.4, 99.1, 100.2, 101.1, 99.9, 98.9,
}

// Stub is an in-process Source that replays a fixed price cycle on a
// timer. It backs offline runs and tests; no network is involved.
type Stub struct {
	symbol   string
	interval time.Duration
	prices   []float64
	now      func() time.Time

	idx       int
	done      chan struct{}
	closeOnce sync.Once
}

// NewStub creates a stub source emitting one tick per interval, cycling
// through prices. A nil price slice uses the default cycle; a non-positive
// interval defaults to one second.
func NewStub(symbol string, interval time.Duration, prices []float64) *Stub {
	if interval <= 0 {
		interval = time.Second
	}
	if len(prices) == 0 {
		prices = defaultStubPrices
	}
	return &Stub{
		symbol:   symbol,
		interval: interval,
		prices:   prices,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// WithNow sets the observation time source. Used by tests.
func (s *Stub) WithNow(now func() time.Time) *Stub {
	s.now = now
	return s
}

// Next waits one interval and returns the next price in the cycle. Context
// deadline expiry maps to ErrReadTimeout to match the wire client.
func (s *Stub) Next(ctx context.Context) (domain.PriceTick, error) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-s.done:
		return domain.PriceTick{}, ErrClosed
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.PriceTick{}, ErrReadTimeout
		}
		return domain.PriceTick{}, ctx.Err()
	case <-timer.C:
		price := s.prices[s.idx%len(s.prices)]
		s.idx++
		return domain.PriceTick{Symbol: s.symbol, Price: price, ObservedAt: s.now()}, nil
	}
}

// Ping is a no-op; the stub has no connection to keep alive.
func (s *Stub) Ping(context.Context) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
		return nil
	}
}

// Close stops the stub. Safe to call more than once.
func (s *Stub) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// Ensure Stub implements Source
var _ Source = (*Stub)(nil)
