package models

import (
	"fmt"

	"github.com/creasty/defaults"
)

// BreakoutConfig carries every detector threshold. It is built once per
// engine and never mutated during a cycle.
type BreakoutConfig struct {
	// Volume thresholds, as multiples of the rolling average volume.
	VolumeMultiplier     float64 `yaml:"volume_multiplier" default:"2.5"`
	HighVolumeMultiplier float64 `yaml:"high_volume_multiplier" default:"3.0"`

	// OI writing imbalance: minimum |Δ OI %| on both ATM legs.
	OIChangeThreshold float64 `yaml:"oi_change_threshold" default:"15"`

	// VWAP breakout: minimum distance from VWAP, percent of VWAP.
	VWAPDistanceThreshold float64 `yaml:"vwap_distance_threshold" default:"0.3"`

	// IV crush: minimum IV drop (points) and maximum concurrent price
	// range (percent of average price).
	IVDropThreshold      float64 `yaml:"iv_drop_threshold" default:"2.0"`
	IVStabilityThreshold float64 `yaml:"iv_stability_threshold" default:"0.3"`

	// Max-pain shift: minimum move of the coarse max pain, in points.
	MaxPainShiftThreshold float64 `yaml:"max_pain_shift_threshold" default:"50"`

	// Round-number levels and how close spot must be to one of them.
	RoundLevels             []float64 `yaml:"round_levels" default:"[100,500,1000]"`
	LevelProximityThreshold float64   `yaml:"level_proximity_threshold" default:"20"`

	// First trading hour, minutes after market open (exchange-local).
	MarketOpen       string `yaml:"market_open" default:"09:15"`
	FirstHourMinutes int    `yaml:"first_hour_minutes" default:"60"`

	// Rolling window lookback and the minimum confidence a signal needs
	// to survive aggregation.
	LookbackPeriods        int     `yaml:"lookback_periods" default:"20"`
	MinConfidenceThreshold float64 `yaml:"min_confidence_threshold" default:"60"`
}

// DefaultBreakoutConfig returns a config with every threshold at its
// default value.
func DefaultBreakoutConfig() BreakoutConfig {
	var c BreakoutConfig
	_ = defaults.Set(&c)
	return c
}

// Validate rejects thresholds that would disable or invert detector logic.
func (c *BreakoutConfig) Validate() error {
	if c.LookbackPeriods <= 0 {
		return fmt.Errorf("lookback_periods must be positive")
	}
	if c.VolumeMultiplier <= 0 || c.HighVolumeMultiplier <= 0 {
		return fmt.Errorf("volume multipliers must be positive")
	}
	if c.FirstHourMinutes <= 0 {
		return fmt.Errorf("first_hour_minutes must be positive")
	}
	if c.MinConfidenceThreshold < 0 || c.MinConfidenceThreshold > 100 {
		return fmt.Errorf("min_confidence_threshold must be in [0,100]")
	}
	return nil
}
