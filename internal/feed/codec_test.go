package feed

import (
	"errors"
	"testing"
)

func TestDecodePrice(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  float64
	}{
		{"trade frame string price", `{"p": "65123.45"}`, 65123.45},
		{"trade frame bare number", `{"p": 65123.45}`, 65123.45},
		{"trade frame with extras", `{"e":"trade","s":"BTCUSDT","p":"0.0031","q":"12"}`, 0.0031},
		{"dex quote string price", `{"d": {"t0pu": "0.0000421"}}`, 0.0000421},
		{"dex quote bare number", `{"d": {"t0pu": 1.25}}`, 1.25},
		{"dex quote with extras", `{"c":"quote","d":{"t0pu":"3.14","other":1}}`, 3.14},
		{"scientific notation", `{"p": "6.5e4"}`, 65000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePrice([]byte(tt.frame))
			if err != nil {
				t.Fatalf("DecodePrice(%s) failed: %v", tt.frame, err)
			}
			if got != tt.want {
				t.Errorf("DecodePrice(%s) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestDecodePriceRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `ping`},
		{"empty object", `{}`},
		{"unknown shape", `{"price": "100"}`},
		{"null price", `{"p": null}`},
		{"boolean price", `{"p": true}`},
		{"unparseable string", `{"p": "fast"}`},
		{"empty string", `{"p": ""}`},
		{"zero price", `{"p": "0"}`},
		{"negative price", `{"p": "-1.5"}`},
		{"nan price", `{"p": "NaN"}`},
		{"infinite price", `{"p": "Inf"}`},
		{"nested shape without price", `{"d": {"t0pv": "3.0"}}`},
		{"array frame", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePrice([]byte(tt.frame))
			if !errors.Is(err, ErrBadFrame) {
				t.Errorf("DecodePrice(%s) err = %v, want ErrBadFrame", tt.frame, err)
			}
		})
	}
}

func TestDecodePricePrefersTradeShape(t *testing.T) {
	got, err := DecodePrice([]byte(`{"p": "2.0", "d": {"t0pu": "3.0"}}`))
	if err != nil {
		t.Fatalf("DecodePrice failed: %v", err)
	}
	if got != 2.0 {
		t.Errorf("price = %v, want 2.0 from the trade field", got)
	}
}
