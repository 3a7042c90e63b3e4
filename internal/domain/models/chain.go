package models

import "time"

// OptionQuote holds one leg (CE or PE) of a strike row.
// Missing fields from the upstream feed default to zero.
type OptionQuote struct {
	OpenInterest   float64 `json:"oi"`
	ChangeInOI     float64 `json:"oi_change"`
	Volume         float64 `json:"volume"`
	LastPrice      float64 `json:"ltp"`
	Change         float64 `json:"change"`
	ImpliedVol     float64 `json:"iv"`
}

// StrikeQuote is one row of the option chain: a strike with both legs.
type StrikeQuote struct {
	Strike float64     `json:"strike"`
	Call   OptionQuote `json:"ce"`
	Put    OptionQuote `json:"pe"`
}

// MarketSnapshot is one immutable poll of the full option chain.
// Strikes are sorted ascending by strike price.
type MarketSnapshot struct {
	Symbol     string        `json:"symbol"`
	SpotPrice  float64       `json:"spot_price"`
	ATMStrike  float64       `json:"atm_strike"`
	StrikeStep float64       `json:"strike_step"`
	Expiry     string        `json:"expiry"`
	Timestamp  time.Time     `json:"timestamp"`
	Strikes    []StrikeQuote `json:"strikes"`
}

// StrikeAt returns the row for an exact strike, or nil.
func (s *MarketSnapshot) StrikeAt(strike float64) *StrikeQuote {
	for i := range s.Strikes {
		if s.Strikes[i].Strike == strike {
			return &s.Strikes[i]
		}
	}
	return nil
}

// Step returns the strike interval, falling back to the spacing of the
// first two rows, then to 50.
func (s *MarketSnapshot) Step() float64 {
	if s.StrikeStep > 0 {
		return s.StrikeStep
	}
	if len(s.Strikes) >= 2 {
		if d := s.Strikes[1].Strike - s.Strikes[0].Strike; d > 0 {
			return d
		}
	}
	return 50
}
