package feed

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// wireFrame covers the two frame shapes the feed accepts: a trade frame
// {"p": "..."} and a dex quote frame {"d": {"t0pu": "..."}}. Raw messages
// keep the price field untyped so both string and bare number encodings
// decode.
type wireFrame struct {
	P json.RawMessage `json:"p"`
	D struct {
		T0PU json.RawMessage `json:"t0pu"`
	} `json:"d"`
}

// DecodePrice extracts the price from one raw frame. Frames that are not
// valid JSON, match neither shape, or carry a non-positive price are
// rejected with ErrBadFrame. The trade shape wins when a frame somehow
// carries both fields.
func DecodePrice(frame []byte) (float64, error) {
	var w wireFrame
	if err := json.Unmarshal(frame, &w); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	raw := w.P
	if len(raw) == 0 {
		raw = w.D.T0PU
	}
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: no price field", ErrBadFrame)
	}

	price, err := parsePriceField(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	// ParseFloat accepts NaN and Inf spellings, and NaN fails every
	// ordered comparison, so a plain <= 0 check is not enough.
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: unusable price %v", ErrBadFrame, price)
	}
	return price, nil
}

// parsePriceField accepts the price as a JSON string or a bare JSON
// number.
func parsePriceField(raw json.RawMessage) (float64, error) {
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	return strconv.ParseFloat(string(raw), 64)
}
