package types

import (
	"time"
)

type Candle struct {
	AssetId   int       `json:"id,omitempty"`
	Ticker    string    `json:"ticker,omitempty"`
	Open      float64   `json:"open"`
	Close     float64   `json:"close"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Volume    float64   `json:"volume,omitempty"`
	Interval  Interval  `json:"interval,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
