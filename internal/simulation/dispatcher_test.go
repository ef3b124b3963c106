package simulation

import (
	"testing"
	"time"

	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/portfolio"
)

// recordingStrategy keeps every price it was asked about and always holds.
type recordingStrategy struct {
	name   string
	prices []float64
}

func (s *recordingStrategy) Decide(price float64, view portfolio.View) domain.Action {
	s.prices = append(s.prices, price)
	return domain.Hold()
}

func (s *recordingStrategy) Name() string { return s.name }

func newRecordingRunner(name string, clock domain.Clock) (*Runner, *recordingStrategy) {
	spy := &recordingStrategy{name: name}
	runner := NewRunner(RunnerOptions{
		Strategy:  spy,
		Portfolio: portfolio.New(name, 100),
		Clock:     clock,
	})
	return runner, spy
}

func tickAt(price float64, at time.Time) domain.PriceTick {
	return domain.PriceTick{Symbol: "SOLUSDT", Price: price, ObservedAt: at}
}

func TestDispatcher_DeliversToAllRunnersInOrder(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := liveClock(start)

	r1, s1 := newRecordingRunner("one", clock)
	r2, s2 := newRecordingRunner("two", clock)
	r3, s3 := newRecordingRunner("three", clock)
	d := NewDispatcher(r1, r2, r3)

	if !d.Dispatch(tickAt(10, start)) {
		t.Fatalf("expected dispatch to continue")
	}
	if !d.Dispatch(tickAt(11, start.Add(time.Second))) {
		t.Fatalf("expected dispatch to continue")
	}

	for _, spy := range []*recordingStrategy{s1, s2, s3} {
		if len(spy.prices) != 2 || spy.prices[0] != 10 || spy.prices[1] != 11 {
			t.Fatalf("strategy %s saw %v, expected [10 11]", spy.name, spy.prices)
		}
	}
}

func TestDispatcher_StopNeverShortCircuitsSiblings(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// The first runner is already past its deadline; the ones behind it
	// must still see the same tick before the stop takes effect.
	stopped, stoppedSpy := newRecordingRunner("stopped", expiredClock(start))
	live1, liveSpy1 := newRecordingRunner("live-1", liveClock(start))
	live2, liveSpy2 := newRecordingRunner("live-2", liveClock(start))
	d := NewDispatcher(stopped, live1, live2)

	if d.Dispatch(tickAt(42.5, start)) {
		t.Fatalf("expected dispatch to signal stop")
	}

	if len(stoppedSpy.prices) != 0 {
		t.Fatalf("expired runner must not evaluate, saw %v", stoppedSpy.prices)
	}
	if !almostEqual(stopped.Snapshot().LastPrice, 42.5) {
		t.Fatalf("expired runner must still observe the price, got %.10f", stopped.Snapshot().LastPrice)
	}
	for _, spy := range []*recordingStrategy{liveSpy1, liveSpy2} {
		if len(spy.prices) != 1 || spy.prices[0] != 42.5 {
			t.Fatalf("strategy %s saw %v, expected [42.5]", spy.name, spy.prices)
		}
	}
}

func TestDispatcher_Register(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := NewDispatcher()
	if !d.Dispatch(tickAt(1, start)) {
		t.Fatalf("empty dispatcher should continue")
	}

	runner, spy := newRecordingRunner("late", liveClock(start))
	d.Register(runner)

	if !d.Dispatch(tickAt(2, start)) {
		t.Fatalf("expected dispatch to continue")
	}
	if len(spy.prices) != 1 || spy.prices[0] != 2 {
		t.Fatalf("registered runner saw %v, expected [2]", spy.prices)
	}
}
