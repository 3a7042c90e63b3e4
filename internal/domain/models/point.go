package models

import "time"

// MarketDataPoint is the ATM-centered projection of a snapshot, produced
// once per cycle by the normalizer and owned by the engine afterwards.
type MarketDataPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	SpotPrice   float64   `json:"spot_price"`
	TotalVolume float64   `json:"total_volume"`

	ATMCallOI     float64 `json:"atm_call_oi"`
	ATMPutOI      float64 `json:"atm_put_oi"`
	ATMCallIV     float64 `json:"atm_call_iv"`
	ATMPutIV      float64 `json:"atm_put_iv"`
	ATMCallVolume float64 `json:"atm_call_volume"`
	ATMPutVolume  float64 `json:"atm_put_volume"`

	TotalCallOI float64 `json:"total_call_oi"`
	TotalPutOI  float64 `json:"total_put_oi"`
}

// TotalOI is the chain-wide open interest across both legs.
func (p MarketDataPoint) TotalOI() float64 {
	return p.TotalCallOI + p.TotalPutOI
}
