// Package feed connects to a realtime price stream and turns wire frames
// into validated price ticks.
package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"live-strategy-lab/internal/domain"
)

// Provider names understood by the endpoint builders and the binaries.
const (
	ProviderCoinMarketCap = "coinmarketcap"
	ProviderBinance       = "binance"
	ProviderStub          = "stub"
)

// CoinMarketCap dex platform identifiers used in subscription channels.
const (
	PlatformEthereum = 1
	PlatformSolana   = 16
)

// Feed errors
var (
	// ErrReadTimeout is returned by Next when no message arrived within
	// the per-read window. Callers treat it as a benign end of stream.
	ErrReadTimeout = errors.New("feed read timed out")

	// ErrBadFrame is returned when a frame matches no known shape or
	// carries an unusable price. It ends the run.
	ErrBadFrame = errors.New("malformed feed frame")

	// ErrClosed is returned when reading from a closed source.
	ErrClosed = errors.New("feed source closed")
)

// Source is a connected, single-use price stream. Next may be called from
// one goroutine while Ping runs on another; no other concurrency is
// supported. A source is never reconnected: once it fails, the run it
// serves is over.
type Source interface {
	// Next blocks until the next tick, the context deadline, or a stream
	// error. The caller bounds each read through the context deadline.
	Next(ctx context.Context) (domain.PriceTick, error)

	// Ping sends a liveness probe over the connection.
	Ping(ctx context.Context) error

	// Close tears the stream down. It is safe to call more than once and
	// concurrently with a blocked Next, which it unblocks.
	Close() error
}

// Endpoint describes how to reach a provider for one instrument: the
// stream URL, the tick symbol, and an optional subscription frame sent
// once after connecting.
type Endpoint struct {
	URL          string
	Symbol       string
	Subscription any
}

// subscribeFrame is the CoinMarketCap subscription message.
type subscribeFrame struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
}

// CoinMarketCapEndpoint targets the CoinMarketCap dex transaction stream
// for one contract on one platform. Ticks are labeled with the contract
// address.
func CoinMarketCapEndpoint(platformID int, contract string) Endpoint {
	return Endpoint{
		URL:    "wss://dws.coinmarketcap.com/ws",
		Symbol: contract,
		Subscription: subscribeFrame{
			Method: "SUBSCRIPTION",
			Params: []string{fmt.Sprintf("quote@transaction@%d_%s", platformID, contract)},
		},
	}
}

// BinanceEndpoint targets the public Binance trade stream for one symbol.
// The stream path wants the symbol lowercase; ticks carry it uppercase.
func BinanceEndpoint(symbol string) Endpoint {
	return Endpoint{
		URL:    fmt.Sprintf("wss://stream.binance.com:9443/ws/%s@trade", strings.ToLower(symbol)),
		Symbol: strings.ToUpper(symbol),
	}
}
