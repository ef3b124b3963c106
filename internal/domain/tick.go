package domain

import "time"

// PriceTick is one validated price observation from the feed. The feed
// layer guarantees Price is positive; everything downstream relies on it.
type PriceTick struct {
	Symbol     string
	Price      float64
	ObservedAt time.Time
}
