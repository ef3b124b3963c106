package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"live-strategy-lab/internal/domain"
)

// TextReporter renders plain-text run summaries to a writer, one block per
// strategy followed by the trade log.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter creates a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Report renders the summary.
func (t *TextReporter) Report(summary RunSummary) error {
	_, err := io.WriteString(t.w, RenderText(summary))
	return err
}

// RenderText renders the run summary as a plain-text string.
func RenderText(summary RunSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Symbol: %s | Started: %s | Duration: %s\n",
		summary.Symbol,
		summary.StartedAt.Format(time.RFC3339),
		summary.Duration().Round(time.Second)))
	sb.WriteString("\n")

	if len(summary.Strategies) == 0 {
		sb.WriteString("No strategies ran.\n")
		return sb.String()
	}

	for _, snap := range summary.Strategies {
		sb.WriteString(fmt.Sprintf("=== %s ===\n", snap.Strategy))

		if snap.HasPosition {
			sb.WriteString(fmt.Sprintf("  Holding: %.6f @ $%.6f | Last Price: $%.6f | Unrealized PnL: $%.4f\n",
				snap.Quantity, snap.EntryPrice, snap.LastPrice, snap.UnrealizedPnL))
		} else {
			sb.WriteString(fmt.Sprintf("  Cash: $%.4f\n", snap.Cash))
		}

		sb.WriteString(fmt.Sprintf("  Final Value: $%.4f | PnL: $%.4f (%+.2f%%)\n",
			snap.NetWorth, snap.TotalPnL(), snap.TotalPnLPct()))
		sb.WriteString(fmt.Sprintf("  Realized PnL: $%.4f | Trades: %d | Wins: %d (%.1f%% win rate)\n",
			snap.RealizedPnL, snap.TradeCount, snap.WinCount, snap.WinRatePct()))

		trades := summary.TradesFor(snap.Strategy)
		if len(trades) > 0 {
			sb.WriteString("  Trade Log:\n")
			for _, ev := range trades {
				line := fmt.Sprintf("    %s  %-6s $%.6f qty %.6f",
					ev.At.Format("15:04:05"), ev.Kind, ev.Price, ev.Quantity)
				if ev.Kind == domain.TradeClosed {
					line += fmt.Sprintf(" pnl $%.4f", ev.RealizedPnL)
				}
				line += fmt.Sprintf(" (%s)\n", ev.Reason)
				sb.WriteString(line)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
