// Command probe connects to a price feed and logs raw ticks for a bounded
// duration. It is the quickest way to check that a provider, contract, or
// URL actually streams prices before pointing a simulation at it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
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
)

func main() {
	provider := flag.String("provider", feed.ProviderBinance, "Feed provider: coinmarketcap, binance, or stub")
	symbol := flag.String("symbol", "SOLUSDT", "Trading symbol for the binance and stub providers")
	contract := flag.String("contract", "", "Token contract address for the coinmarketcap provider")
	platform := flag.Int("platform", feed.PlatformSolana, "CoinMarketCap platform id (1 = Ethereum, 16 = Solana)")
	feedURL := flag.String("feed-url", "", "Override the provider stream URL")
	duration := flag.Duration("duration", time.Minute, "How long to stream")
	readTimeout := flag.Duration("read-timeout", 15*time.Second, "Per-read timeout")
	logLevel := flag.String("log-level", "debug", "Log level: trace, debug, info, warn, error")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(strings.ToLower(*logLevel))
	if err != nil {
		lvl = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)

	cfg := config.Default()
	cfg.Feed.Provider = *provider
	cfg.Feed.Symbol = strings.ToUpper(*symbol)
	cfg.Feed.Contract = *contract
	cfg.Feed.PlatformID = *platform
	cfg.Feed.URL = *feedURL
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid flags")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := openFeed(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect feed")
	}

	var ticks int
	var lastPrice float64
	handle := func(tick domain.PriceTick) bool {
		ticks++
		lastPrice = tick.Price
		logger.Info().
			Str("symbol", tick.Symbol).
			Float64("price", tick.Price).
			Time("observed_at", tick.ObservedAt).
			Msg("tick")
		return true
	}

	loop := ingestion.NewLoop(ingestion.LoopOptions{
		Source:      source,
		Clock:       domain.NewClock(time.Now(), *duration),
		ReadTimeout: *readTimeout,
		Logger:      logger,
	})

	runErr := loop.Run(ctx, handle)
	logger.Info().Int("ticks", ticks).Float64("last_price", lastPrice).Msg("probe finished")
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error().Err(runErr).Msg("stream failed")
		os.Exit(1)
	}
}

func openFeed(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (feed.Source, error) {
	switch cfg.Feed.Provider {
	case feed.ProviderStub:
		return feed.NewStub(cfg.Feed.Symbol, time.Second, nil), nil
	case feed.ProviderBinance:
		endpoint := feed.BinanceEndpoint(cfg.Feed.Symbol)
		if cfg.Feed.URL != "" {
			endpoint.URL = cfg.Feed.URL
		}
		return feed.Dial(ctx, feed.ClientOptions{Endpoint: endpoint, Logger: logger})
	case feed.ProviderCoinMarketCap:
		endpoint := feed.CoinMarketCapEndpoint(cfg.Feed.PlatformID, cfg.Feed.Contract)
		if cfg.Feed.URL != "" {
			endpoint.URL = cfg.Feed.URL
		}
		return feed.Dial(ctx, feed.ClientOptions{Endpoint: endpoint, Logger: logger})
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Feed.Provider)
	}
}
