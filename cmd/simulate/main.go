package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"live-strategy-lab/internal/config"
	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/feed"
	"live-strategy-lab/internal/ingestion"
	"live-strategy-lab/internal/observability"
	"live-strategy-lab/internal/portfolio"
	"live-strategy-lab/internal/reporting"
	"live-strategy-lab/internal/simulation"
	"live-strategy-lab/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	provider := flag.String("provider", "", "Feed provider: coinmarketcap, binance, or stub")
	symbol := flag.String("symbol", "", "Trading symbol for the binance and stub providers")
	contract := flag.String("contract", "", "Token contract address for the coinmarketcap provider")
	platform := flag.Int("platform", feed.PlatformSolana, "CoinMarketCap platform id (1 = Ethereum, 16 = Solana)")
	feedURL := flag.String("feed-url", "", "Override the provider stream URL")
	runtime := flag.Int("runtime", 0, "Run length in minutes")
	cash := flag.Float64("cash", 0, "Initial cash per strategy")
	heartbeat := flag.Int("heartbeat", 0, "Heartbeat interval in seconds")
	readTimeout := flag.Int("read-timeout", 0, "Per-read timeout in seconds")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics address (\"off\" to disable)")
	logLevel := flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Flags set on the command line win over the file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["provider"] {
		cfg.Feed.Provider = *provider
	}
	if set["symbol"] {
		cfg.Feed.Symbol = strings.ToUpper(*symbol)
	}
	if set["contract"] {
		cfg.Feed.Contract = *contract
	}
	if set["platform"] {
		cfg.Feed.PlatformID = *platform
	}
	if set["feed-url"] {
		cfg.Feed.URL = *feedURL
	}
	if set["runtime"] {
		cfg.Run.RuntimeMinutes = *runtime
	}
	if set["cash"] {
		cfg.Run.InitialCash = *cash
	}
	if set["heartbeat"] {
		cfg.Feed.HeartbeatSeconds = *heartbeat
	}
	if set["read-timeout"] {
		cfg.Feed.ReadTimeoutSeconds = *readTimeout
	}
	if set["metrics-addr"] {
		cfg.App.MetricsAddr = *metricsAddr
	}
	if set["log-level"] {
		cfg.App.LogLevel = *logLevel
	}

	logger := newLogger(cfg.App.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.App.MetricsAddr != "" && cfg.App.MetricsAddr != "off" {
		go serveMetrics(cfg.App.MetricsAddr, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := domain.NewClock(time.Now(), cfg.Runtime())

	source, err := openFeed(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect feed")
	}

	roster := cfg.StrategyConfigs()
	if roster == nil {
		roster = strategy.DefaultRoster()
	}

	journal := simulation.NewJournal()
	runners := make([]*simulation.Runner, 0, len(roster))
	for _, sc := range roster {
		strat, err := strategy.FromConfig(sc)
		if err != nil {
			logger.Fatal().Err(err).Str("strategy", sc.Name).Msg("build strategy")
		}
		runners = append(runners, simulation.NewRunner(simulation.RunnerOptions{
			Strategy:  strat,
			Portfolio: portfolio.New(sc.Name, cfg.Run.InitialCash),
			Clock:     clock,
			Journal:   journal,
			Logger:    logger,
		}))
	}

	loop := ingestion.NewLoop(ingestion.LoopOptions{
		Source:            source,
		Clock:             clock,
		HeartbeatInterval: cfg.HeartbeatInterval(),
		ReadTimeout:       cfg.ReadTimeout(),
		Logger:            logger,
	})

	session := simulation.NewSession(simulation.SessionOptions{
		Symbol:   cfg.Instrument(),
		Loop:     loop,
		Runners:  runners,
		Journal:  journal,
		Clock:    clock,
		Reporter: reporting.NewTextReporter(os.Stdout),
		Logger:   logger,
	})

	// Summaries are rendered on every exit path before Run returns.
	if err := session.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("run ended with error")
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	// Logs go to stderr; stdout carries the run summaries.
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

// openFeed connects the configured provider. The URL override applies to
// the websocket providers only; the stub has no URL.
func openFeed(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (feed.Source, error) {
	switch cfg.Feed.Provider {
	case feed.ProviderStub:
		return feed.NewStub(cfg.Feed.Symbol, time.Second, nil), nil
	case feed.ProviderBinance:
		endpoint := feed.BinanceEndpoint(cfg.Feed.Symbol)
		if cfg.Feed.URL != "" {
			endpoint.URL = cfg.Feed.URL
		}
		return feed.Dial(ctx, feed.ClientOptions{
			Endpoint:    endpoint,
			ReadTimeout: cfg.ReadTimeout(),
			Logger:      logger,
		})
	case feed.ProviderCoinMarketCap:
		endpoint := feed.CoinMarketCapEndpoint(cfg.Feed.PlatformID, cfg.Feed.Contract)
		if cfg.Feed.URL != "" {
			endpoint.URL = cfg.Feed.URL
		}
		return feed.Dial(ctx, feed.ClientOptions{
			Endpoint:    endpoint,
			ReadTimeout: cfg.ReadTimeout(),
			Logger:      logger,
		})
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Feed.Provider)
	}
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
