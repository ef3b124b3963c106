package simulation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/ingestion"
	"live-strategy-lab/internal/reporting"
)

// Session wires one complete run: the ingestion loop feeding the
// dispatcher, the runners, and the reporter that renders every strategy's
// summary when the run ends, however it ends.
type Session struct {
	runID      string
	symbol     string
	loop       *ingestion.Loop
	dispatcher *Dispatcher
	runners    []*Runner
	journal    *Journal
	clock      domain.Clock
	reporter   reporting.Reporter
	logger     zerolog.Logger
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// Symbol labels the run in logs and summaries.
	Symbol string
	// Loop drives ingestion. Required.
	Loop *ingestion.Loop
	// Runners evaluated on every tick. Required.
	Runners []*Runner
	// Journal shared by the runners. Optional.
	Journal *Journal
	// Clock is the shared run clock.
	Clock domain.Clock
	// Reporter renders the final summary. Optional.
	Reporter reporting.Reporter
	// Logger for session lifecycle events.
	Logger zerolog.Logger
}

// NewSession creates a Session with a fresh run identifier.
func NewSession(opts SessionOptions) *Session {
	runID := uuid.New().String()
	return &Session{
		runID:      runID,
		symbol:     opts.Symbol,
		loop:       opts.Loop,
		dispatcher: NewDispatcher(opts.Runners...),
		runners:    opts.Runners,
		journal:    opts.Journal,
		clock:      opts.Clock,
		reporter:   opts.Reporter,
		logger:     opts.Logger.With().Str("run_id", runID).Logger(),
	}
}

// RunID returns the session's run identifier.
func (s *Session) RunID() string {
	return s.runID
}

// Run drives the ingestion loop to completion. Summaries are rendered on
// every exit path, including errors and cancellation. Cancellation is
// treated as a graceful ending and returns nil; feed failures are returned
// after the summaries are out.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info().
		Str("symbol", s.symbol).
		Time("deadline", s.clock.Deadline).
		Int("runners", len(s.runners)).
		Msg("run started")

	defer s.finalize()

	err := s.loop.Run(ctx, s.dispatcher.Dispatch)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Info().Msg("run cancelled")
		return nil
	}
	s.logger.Error().Err(err).Msg("run failed")
	return err
}

// finalize renders one summary per runner from whatever state exists.
func (s *Session) finalize() {
	summary := reporting.RunSummary{
		RunID:      s.runID,
		Symbol:     s.symbol,
		StartedAt:  s.clock.StartedAt,
		FinishedAt: s.clock.Now(),
	}
	for _, r := range s.runners {
		summary.Strategies = append(summary.Strategies, r.Snapshot())
	}
	if s.journal != nil {
		summary.Trades = s.journal.Events()
	}

	if s.reporter == nil {
		return
	}
	if err := s.reporter.Report(summary); err != nil {
		s.logger.Error().Err(err).Msg("render run summary")
	}
}
