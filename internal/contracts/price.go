package contracts

import (
	"encoding/json"
	"time"
)

// PriceBar is one daily OHLCV bar
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a weekday-only series with strictly increasing dates
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Bars   []PriceBar `json:"bars"`
}

// Len returns the number of bars
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices in order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// MovingAveragePoint is a bar with its trailing mean; MA is nil until the window fills
type MovingAveragePoint struct {
	PriceBar
	MA *float64 `json:"ma"`
}

// PriceSummary describes a whole series; Count == 0 means the series was empty
type PriceSummary struct {
	Count          int       `json:"count"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	CurrentPrice   float64   `json:"current_price"`
	MinPrice       float64   `json:"min_price"`
	MaxPrice       float64   `json:"max_price"`
	AvgPrice       float64   `json:"avg_price"`
	PriceChange    float64   `json:"price_change"`
	PriceChangePct float64   `json:"price_change_pct"`
}

// IsEmpty reports whether the summary describes no bars
func (s PriceSummary) IsEmpty() bool {
	return s.Count == 0
}

// MarshalJSON encodes an empty summary as {}
func (s PriceSummary) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return []byte("{}"), nil
	}
	type plain PriceSummary
	return json.Marshal(plain(s))
}
