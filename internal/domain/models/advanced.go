package models

import "time"

// SkewPoint is the IV skew at one strike offset from ATM.
type SkewPoint struct {
	Offset int     `json:"offset"`
	Strike float64 `json:"strike"`
	Skew   float64 `json:"skew"`
}

// IVSkewMetrics summarizes the chain's volatility smile for one snapshot.
type IVSkewMetrics struct {
	ATMIV    float64     `json:"atm_iv"`
	CallSkew []SkewPoint `json:"call_skew"`
	PutSkew  []SkewPoint `json:"put_skew"`
	Overall  float64     `json:"overall"`
	Velocity float64     `json:"velocity"`
}

// StrikeGEX is the signed gamma exposure contributed by one strike.
type StrikeGEX struct {
	Strike float64 `json:"strike"`
	Call   float64 `json:"call"`
	Put    float64 `json:"put"`
	Net    float64 `json:"net"`
}

// GEXMetrics is the simplified dealer gamma-exposure profile.
type GEXMetrics struct {
	Total          float64     `json:"total"`
	ZeroGammaLevel float64     `json:"zero_gamma_level"`
	DominantZone   string      `json:"dominant_zone"` // long | short | neutral
	PerStrike      []StrikeGEX `json:"per_strike,omitempty"`
}

// OICluster is a contiguous run of strikes with outsized open interest.
type OICluster struct {
	Center   float64   `json:"center"`
	Strength float64   `json:"strength"`
	Type     string    `json:"type"` // call_heavy | put_heavy | balanced
	Strikes  []float64 `json:"strikes"`
	TotalOI  float64   `json:"total_oi"`
}

// OIClusterMetrics bundles the clusters of one snapshot with cross-cycle
// migration tracking.
type OIClusterMetrics struct {
	Clusters   []OICluster `json:"clusters"`
	Migration  float64     `json:"migration"`
	BreakAlert bool        `json:"break_alert"`
}

// PatternMetrics carries the motif/discord flags from the spot-price ring.
type PatternMetrics struct {
	MotifDetected    bool    `json:"motif_detected"`
	MotifCorrelation float64 `json:"motif_correlation"`
	DiscordDetected  bool    `json:"discord_detected"`
	DiscordScore     float64 `json:"discord_score"`
}

// AdvancedMetrics is the analytics engine output for one snapshot.
type AdvancedMetrics struct {
	Symbol    string           `json:"symbol"`
	Timestamp time.Time        `json:"timestamp"`
	IVSkew    IVSkewMetrics    `json:"iv_skew"`
	GEX       GEXMetrics       `json:"gex"`
	Clusters  OIClusterMetrics `json:"oi_clusters"`
	Patterns  PatternMetrics   `json:"patterns"`
	MaxPain   float64          `json:"max_pain"`
}
