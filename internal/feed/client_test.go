package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestClient_DialSendsSubscription(t *testing.T) {
	frames := make(chan []byte, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		frames <- msg

		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"d":{"t0pu":"0.042"}}`)); err != nil {
			return
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	endpoint := CoinMarketCapEndpoint(PlatformSolana, "So11111111111111111111111111111111111111112")
	endpoint.URL = wsURL(server)

	client, err := Dial(context.Background(), ClientOptions{Endpoint: endpoint})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	select {
	case msg := <-frames:
		var req subscribeFrame
		if err := json.Unmarshal(msg, &req); err != nil {
			t.Fatalf("unmarshal subscription: %v", err)
		}
		if req.Method != "SUBSCRIPTION" {
			t.Errorf("method = %q, want SUBSCRIPTION", req.Method)
		}
		want := "quote@transaction@16_So11111111111111111111111111111111111111112"
		if len(req.Params) != 1 || req.Params[0] != want {
			t.Errorf("params = %v, want [%s]", req.Params, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for subscription frame")
	}

	tick, err := client.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tick.Price != 0.042 {
		t.Errorf("price = %v, want 0.042", tick.Price)
	}
	if tick.Symbol != endpoint.Symbol {
		t.Errorf("symbol = %q, want %q", tick.Symbol, endpoint.Symbol)
	}
	if tick.ObservedAt.IsZero() {
		t.Error("observed at must be set")
	}
}

func TestClient_NextReadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// never send anything
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client, err := Dial(context.Background(), ClientOptions{
		Endpoint: Endpoint{URL: wsURL(server), Symbol: "TESTUSDT"},
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = client.Next(ctx)
	if !errors.Is(err, ErrReadTimeout) {
		t.Errorf("Next on quiet stream err = %v, want ErrReadTimeout", err)
	}
}

func TestClient_NextBadFrame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client, err := Dial(context.Background(), ClientOptions{
		Endpoint: Endpoint{URL: wsURL(server), Symbol: "TESTUSDT"},
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	_, err = client.Next(context.Background())
	if !errors.Is(err, ErrBadFrame) {
		t.Errorf("Next on garbage err = %v, want ErrBadFrame", err)
	}
}

func TestClient_CloseUnblocksNext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client, err := Dial(context.Background(), ClientOptions{
		Endpoint: Endpoint{URL: wsURL(server), Symbol: "TESTUSDT"},
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := client.Next(context.Background())
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Next after close err = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not unblock after Close")
	}

	// double close is safe
	if err := client.Close(); err != nil {
		t.Errorf("double Close: %v", err)
	}

	if _, err := client.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Next on closed client err = %v, want ErrClosed", err)
	}
}

func TestClient_Ping(t *testing.T) {
	pings := make(chan struct{}, 4)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.SetPingHandler(func(string) error {
			pings <- struct{}{}
			return nil
		})

		// control frames are processed by the read loop
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client, err := Dial(context.Background(), ClientOptions{
		Endpoint: Endpoint{URL: wsURL(server), Symbol: "TESTUSDT"},
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for ping frame")
	}

	client.Close()
	if err := client.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Ping after close err = %v, want ErrClosed", err)
	}
}

func TestClient_DialRequiresURL(t *testing.T) {
	if _, err := Dial(context.Background(), ClientOptions{}); err == nil {
		t.Error("expected error dialing empty URL")
	}
}

func TestBinanceEndpoint(t *testing.T) {
	endpoint := BinanceEndpoint("solusdt")
	if endpoint.URL != "wss://stream.binance.com:9443/ws/solusdt@trade" {
		t.Errorf("url = %q", endpoint.URL)
	}
	if endpoint.Symbol != "SOLUSDT" {
		t.Errorf("symbol = %q, want SOLUSDT", endpoint.Symbol)
	}
	if endpoint.Subscription != nil {
		t.Error("binance endpoint must not carry a subscription frame")
	}
}
