package models

import "time"

// Direction of a signal.
type Direction string

const (
	Bullish Direction = "BULLISH"
	Bearish Direction = "BEARISH"
	Neutral Direction = "NEUTRAL"
)

// Pattern identifies which detector emitted a signal.
type Pattern string

const (
	PatternWritingImbalance Pattern = "WRITING_IMBALANCE"
	PatternVWAPBreakout     Pattern = "VWAP_BREAKOUT"
	PatternOIDivergence     Pattern = "OI_PRICE_DIVERGENCE"
	PatternFirstHour        Pattern = "FIRST_HOUR_BREAKOUT"
	PatternMaxPainShift     Pattern = "MAX_PAIN_SHIFT"
	PatternIVCrush          Pattern = "IV_CRUSH"
	PatternVolumeAtLevel    Pattern = "VOLUME_AT_KEY_LEVEL"
)

// Strength bucket derived from confidence.
type Strength string

const (
	Weak     Strength = "WEAK"
	Moderate Strength = "MODERATE"
	Strong   Strength = "STRONG"
)

// Priority bucket derived from confidence.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Signal is one scored pattern detection, created fresh each cycle and
// immutable after aggregation.
type Signal struct {
	ID         string         `json:"id"`
	Pattern    Pattern        `json:"pattern"`
	Direction  Direction      `json:"direction"`
	Strength   Strength       `json:"strength"`
	Priority   Priority       `json:"priority"`
	Confidence float64        `json:"confidence"`
	Timestamp  time.Time      `json:"timestamp"`
	SpotPrice  float64        `json:"spot_price"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

// SignalSummary counts the filtered signals of one cycle.
type SignalSummary struct {
	Total         int       `json:"total"`
	Bullish       int       `json:"bullish"`
	Bearish       int       `json:"bearish"`
	Strong        int       `json:"strong"`
	HighPriority  int       `json:"high_priority"`
	Bias          Direction `json:"bias"`
	AvgConfidence float64   `json:"avg_confidence"`
}

// MarketState is the per-cycle context summary attached to a result.
type MarketState struct {
	Trend         string  `json:"trend"`          // BULLISH | BEARISH | SIDEWAYS
	Volatility    string  `json:"volatility"`     // HIGH | MEDIUM | LOW
	VolumeProfile string  `json:"volume_profile"` // HIGH | NORMAL | LOW
	Support       float64 `json:"support"`
	Resistance    float64 `json:"resistance"`
	VWAP          float64 `json:"vwap"`
	MaxPain       float64 `json:"max_pain"`
}

// AnalysisResult is the output of one detection cycle.
type AnalysisResult struct {
	Symbol    string        `json:"symbol"`
	Timestamp time.Time     `json:"timestamp"`
	Signals   []Signal      `json:"signals"`
	Summary   SignalSummary `json:"summary"`
	State     MarketState   `json:"state"`
}
