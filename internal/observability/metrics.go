// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the simulator.
type Metrics struct {
	// Ingestion metrics
	TicksIngested  prometheus.Counter
	FeedErrors     *prometheus.CounterVec
	HeartbeatsSent prometheus.Counter
	LastTickPrice  prometheus.Gauge
	RunsFinished   *prometheus.CounterVec

	// Simulation metrics
	TradesExecuted *prometheus.CounterVec
	ActionsDecided *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "live_strategy_lab"
	}

	return &Metrics{
		// Ingestion metrics
		TicksIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "ticks_total",
			Help:      "Total number of price ticks ingested",
		}),
		FeedErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "feed_errors_total",
			Help:      "Total number of feed errors by reason",
		}, []string{"reason"}),
		HeartbeatsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "heartbeats_sent_total",
			Help:      "Total number of liveness pings sent to the feed",
		}),
		LastTickPrice: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "last_tick_price",
			Help:      "Price of the most recent tick",
		}),
		RunsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "runs_finished_total",
			Help:      "Total number of ingestion runs finished by end reason",
		}, []string{"reason"}),

		// Simulation metrics
		TradesExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trades_executed_total",
			Help:      "Total number of portfolio transitions by strategy and kind",
		}, []string{"strategy", "kind"}),
		ActionsDecided: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "actions_decided_total",
			Help:      "Total number of strategy decisions by strategy and action",
		}, []string{"strategy", "action"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTick counts one ingested tick and updates the last price gauge.
func RecordTick(price float64) {
	DefaultMetrics.TicksIngested.Inc()
	DefaultMetrics.LastTickPrice.Set(price)
}

// RecordFeedError counts one feed error by reason.
func RecordFeedError(reason string) {
	DefaultMetrics.FeedErrors.WithLabelValues(reason).Inc()
}

// RecordHeartbeat counts one liveness ping.
func RecordHeartbeat() {
	DefaultMetrics.HeartbeatsSent.Inc()
}

// RecordRunFinished counts one finished ingestion run by end reason.
func RecordRunFinished(reason string) {
	DefaultMetrics.RunsFinished.WithLabelValues(reason).Inc()
}

// RecordTrade counts one executed portfolio transition.
func RecordTrade(strategy, kind string) {
	DefaultMetrics.TradesExecuted.WithLabelValues(strategy, kind).Inc()
}

// RecordAction counts one strategy decision.
func RecordAction(strategy, action string) {
	DefaultMetrics.ActionsDecided.WithLabelValues(strategy, action).Inc()
}
