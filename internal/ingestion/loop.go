// Package ingestion drives one bounded run against a connected price
// source: a synchronous read-then-dispatch loop with a concurrent
// heartbeat.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/feed"
	"live-strategy-lab/internal/observability"
)

const (
	defaultHeartbeatInterval = 15 * time.Second
	defaultReadTimeout       = 15 * time.Second
)

// TickHandler consumes one tick synchronously and reports whether
// ingestion should continue. The loop never reads ahead while a handler
// runs.
type TickHandler func(tick domain.PriceTick) bool

// Loop owns a source for the duration of one run. It reads ticks one at a
// time, hands each to the handler, and stops on the first of: runtime
// deadline, a quiet read window, a handler stop signal, a feed error, or
// context cancellation. The source is closed on every exit path.
type Loop struct {
	source            feed.Source
	clock             domain.Clock
	heartbeatInterval time.Duration
	readTimeout       time.Duration
	logger            zerolog.Logger
}

// LoopOptions configures a Loop.
type LoopOptions struct {
	// Source is the connected price stream. Required.
	Source feed.Source
	// Clock bounds the run.
	Clock domain.Clock
	// HeartbeatInterval between liveness pings. Default 15s.
	HeartbeatInterval time.Duration
	// ReadTimeout is the per-read window; a window with no message ends
	// the run benignly. Default 15s.
	ReadTimeout time.Duration
	// Logger for loop lifecycle events.
	Logger zerolog.Logger
}

// NewLoop creates a Loop with defaults applied.
func NewLoop(opts LoopOptions) *Loop {
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = defaultHeartbeatInterval
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	return &Loop{
		source:            opts.Source,
		clock:             opts.Clock,
		heartbeatInterval: opts.HeartbeatInterval,
		readTimeout:       opts.ReadTimeout,
		logger:            opts.Logger,
	}
}

// Run consumes the source until the run ends. It returns nil on the benign
// endings (deadline, quiet read window, handler stop), the context error on
// cancellation, and a wrapped feed error otherwise. The read goroutine
// cancels the shared context on every exit path, so the heartbeat can never
// outlive the loop.
func (l *Loop) Run(ctx context.Context, handle TickHandler) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return l.heartbeat(gctx)
	})
	g.Go(func() error {
		// closing the source unblocks an in-flight read; the loop owns
		// the source's lifetime for the run
		<-gctx.Done()
		if err := l.source.Close(); err != nil {
			l.logger.Debug().Err(err).Msg("close source")
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return l.read(gctx, handle)
	})

	return g.Wait()
}

// read is the synchronous receive loop: deadline check, bounded read,
// dispatch, repeat.
func (l *Loop) read(ctx context.Context, handle TickHandler) error {
	for {
		if ctx.Err() != nil {
			return l.cancelled(ctx)
		}
		if l.clock.Expired() {
			observability.RecordRunFinished("deadline")
			l.logger.Info().Time("deadline", l.clock.Deadline).Msg("runtime deadline reached")
			return nil
		}

		readCtx, cancel := context.WithTimeout(ctx, l.readTimeout)
		tick, err := l.source.Next(readCtx)
		cancel()

		switch {
		case err == nil:
			observability.RecordTick(tick.Price)
			l.logger.Debug().
				Str("symbol", tick.Symbol).
				Float64("price", tick.Price).
				Msg("tick received")
			if !handle(tick) {
				observability.RecordRunFinished("runner_stop")
				l.logger.Info().Msg("handler signalled stop")
				return nil
			}

		case errors.Is(err, feed.ErrReadTimeout):
			if ctx.Err() != nil {
				return l.cancelled(ctx)
			}
			observability.RecordRunFinished("read_timeout")
			l.logger.Info().
				Dur("window", l.readTimeout).
				Msg("no message within read window, ending run")
			return nil

		case errors.Is(err, feed.ErrBadFrame):
			observability.RecordFeedError("decode")
			observability.RecordRunFinished("decode_error")
			return fmt.Errorf("decode feed message: %w", err)

		default:
			if ctx.Err() != nil {
				return l.cancelled(ctx)
			}
			observability.RecordFeedError("connection")
			observability.RecordRunFinished("feed_error")
			return fmt.Errorf("read feed: %w", err)
		}
	}
}

func (l *Loop) cancelled(ctx context.Context) error {
	observability.RecordRunFinished("cancelled")
	l.logger.Info().Msg("ingestion cancelled")
	return ctx.Err()
}

// heartbeat pings the source at the configured interval until the run
// context ends. A failed ping stops the pinger only; the read loop
// surfaces the real connection error.
func (l *Loop) heartbeat(ctx context.Context) error {
	ticker := time.NewTicker(l.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.source.Ping(ctx); err != nil {
				l.logger.Warn().Err(err).Msg("heartbeat ping failed")
				return nil
			}
			observability.RecordHeartbeat()
			l.logger.Debug().Msg("heartbeat sent")
		}
	}
}
