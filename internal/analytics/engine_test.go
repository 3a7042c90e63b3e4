package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ChainPulse/internal/domain/models"
	"ChainPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func flatSnapshot(ts time.Time) *models.MarketSnapshot {
	snap := &models.MarketSnapshot{
		Symbol:     "NIFTY",
		SpotPrice:  22500,
		ATMStrike:  22500,
		StrikeStep: 50,
		Timestamp:  ts,
	}
	for strike := 22350.0; strike <= 22650; strike += 50 {
		snap.Strikes = append(snap.Strikes, models.StrikeQuote{
			Strike: strike,
			Call:   models.OptionQuote{OpenInterest: 1000, ImpliedVol: 15},
			Put:    models.OptionQuote{OpenInterest: 1000, ImpliedVol: 15},
		})
	}
	return snap
}

type panicGamma struct{}

func (panicGamma) Gamma(_, _, _ float64) float64 { panic("bad board") }

func TestComputeDegradesOnPanic(t *testing.T) {
	e := NewEngine(testLogger(t), WithGammaModel(panicGamma{}))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	m := e.Compute(flatSnapshot(ts))
	require.Equal(t, "NIFTY", m.Symbol)
	require.Equal(t, ts, m.Timestamp)
	require.Equal(t, models.GEXMetrics{}, m.GEX)
	require.Equal(t, models.OIClusterMetrics{}, m.Clusters)
	require.Equal(t, 0.0, m.MaxPain)
}

func TestComputeEmptyBoard(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	snap := &models.MarketSnapshot{Symbol: "NIFTY", SpotPrice: 22500, Timestamp: ts}

	m := e.Compute(snap)
	require.Equal(t, "NIFTY", m.Symbol)
	require.True(t, m.Clusters.BreakAlert)
	require.Equal(t, 0.0, m.MaxPain)
	require.Empty(t, m.GEX.PerStrike)
}

func TestIVSkewOffsets(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	snap := flatSnapshot(ts)

	// ATM call 15 / put 17; +2 call at 18; -2 put at 21
	atm := snap.StrikeAt(22500)
	atm.Put.ImpliedVol = 17
	snap.StrikeAt(22600).Call.ImpliedVol = 18
	snap.StrikeAt(22400).Put.ImpliedVol = 21

	m := e.computeIVSkew(snap)
	require.Equal(t, 16.0, m.ATMIV)
	require.Len(t, m.CallSkew, 3)
	require.Len(t, m.PutSkew, 3)
	require.Equal(t, 3.0, skewAtOffset(m.CallSkew, 2))
	require.Equal(t, 4.0, skewAtOffset(m.PutSkew, 2))
	require.Equal(t, 1.0, m.Overall)
	require.Equal(t, 0.0, m.Velocity)
}

func TestIVSkewVelocity(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	snap.StrikeAt(22400).Put.ImpliedVol = 16 // overall = 1
	e.computeIVSkew(snap)

	snap2 := flatSnapshot(ts.Add(time.Minute))
	snap2.StrikeAt(22400).Put.ImpliedVol = 18 // overall = 3
	m := e.computeIVSkew(snap2)
	require.Equal(t, 3.0, m.Overall)
	require.Equal(t, 2.0, m.Velocity)
}

func TestGEXLongDominantZone(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	for i := range snap.Strikes {
		snap.Strikes[i].Call.OpenInterest = 100000
		snap.Strikes[i].Put.OpenInterest = 0
	}

	m := e.computeGEX(snap)
	require.Greater(t, m.Total, 50000.0)
	require.Equal(t, "long", m.DominantZone)
	require.Len(t, m.PerStrike, len(snap.Strikes))
}

func TestGEXModestBoardStaysNeutral(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	for i := range snap.Strikes {
		snap.Strikes[i].Put.OpenInterest = 0
	}

	// gamma x OI x 100 over a 1000-OI call-only board sums to a few hundred,
	// nowhere near the +-50000 cutoffs
	m := e.computeGEX(snap)
	require.Greater(t, m.Total, 0.0)
	require.Less(t, m.Total, 50000.0)
	require.Equal(t, "neutral", m.DominantZone)

	atm := strikeGEXAt(m.PerStrike, 22500)
	require.InDelta(t, e.gamma.Gamma(22500, 22500, 15)*1000*100, atm.Call, 1e-9)
}

func strikeGEXAt(strikes []models.StrikeGEX, strike float64) models.StrikeGEX {
	for _, s := range strikes {
		if s.Strike == strike {
			return s
		}
	}
	return models.StrikeGEX{}
}

func TestGEXZeroGammaLevel(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := &models.MarketSnapshot{
		Symbol: "NIFTY", SpotPrice: 22500, ATMStrike: 22500, StrikeStep: 200, Timestamp: ts,
		Strikes: []models.StrikeQuote{
			{Strike: 22400, Call: models.OptionQuote{OpenInterest: 1000, ImpliedVol: 15}},
			{Strike: 22600, Put: models.OptionQuote{OpenInterest: 1000, ImpliedVol: 15}},
		},
	}

	m := e.computeGEX(snap)
	require.Equal(t, 22500.0, m.ZeroGammaLevel)
}

func TestGammaDegenerateInputs(t *testing.T) {
	g := bsGamma{}
	require.Equal(t, 0.0, g.Gamma(0, 22500, 15))
	require.Equal(t, 0.0, g.Gamma(22500, 0, 15))
	require.Equal(t, 0.0, g.Gamma(22500, 22500, 0))
	require.Greater(t, g.Gamma(22500, 22500, 15), 0.0)
}

func TestClustersFlatBoardBreakAlert(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	m := e.computeClusters(flatSnapshot(ts))
	require.Empty(t, m.Clusters)
	require.True(t, m.BreakAlert)
}

func TestClustersHeavyStrike(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	heavy := snap.StrikeAt(22500)
	heavy.Call.OpenInterest = 9000

	m := e.computeClusters(snap)
	require.Len(t, m.Clusters, 1)
	c := m.Clusters[0]
	require.Equal(t, 22500.0, c.Center)
	require.Equal(t, "call_heavy", c.Type)
	require.GreaterOrEqual(t, c.Strength, 2.0)
	require.False(t, m.BreakAlert)
	require.Equal(t, 0.0, m.Migration) // no prior cycle
}

func TestClustersOneSidedTyping(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	heavy := snap.StrikeAt(22500)
	heavy.Call.OpenInterest = 9000
	heavy.Put.OpenInterest = 0

	m := e.computeClusters(snap)
	require.Len(t, m.Clusters, 1)
	require.Equal(t, "call_heavy", m.Clusters[0].Type)

	snap2 := flatSnapshot(ts)
	heavy2 := snap2.StrikeAt(22500)
	heavy2.Call.OpenInterest = 0
	heavy2.Put.OpenInterest = 9000

	m2 := e.computeClusters(snap2)
	require.Len(t, m2.Clusters, 1)
	require.Equal(t, "put_heavy", m2.Clusters[0].Type)
}

func TestClustersMigration(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	snap.StrikeAt(22400).Call.OpenInterest = 9000
	e.computeClusters(snap)

	snap2 := flatSnapshot(ts.Add(time.Minute))
	snap2.StrikeAt(22600).Call.OpenInterest = 9000
	m := e.computeClusters(snap2)
	require.Equal(t, 200.0, m.Migration)
}

func TestClustersSmallMoveNoMigration(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	snap.StrikeAt(22500).Call.OpenInterest = 9000
	e.computeClusters(snap)

	snap2 := flatSnapshot(ts.Add(time.Minute))
	snap2.StrikeAt(22550).Call.OpenInterest = 9000
	m := e.computeClusters(snap2)
	require.Equal(t, 0.0, m.Migration)
}

func TestFullMaxPainDivergesFromCoarse(t *testing.T) {
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	snap := &models.MarketSnapshot{
		Symbol: "NIFTY", SpotPrice: 22480, Timestamp: ts,
		Strikes: []models.StrikeQuote{
			{Strike: 22400, Call: models.OptionQuote{OpenInterest: 100}},
			{Strike: 22500, Call: models.OptionQuote{OpenInterest: 100}},
			{Strike: 22600, Call: models.OptionQuote{OpenInterest: 100}},
		},
	}

	// call-only board: the lowest strike minimizes seller payout, while
	// the nearest-50 rounding of spot lands on 22500
	require.Equal(t, 22400.0, fullMaxPain(snap))
}

func TestFullMaxPainBalancedBoard(t *testing.T) {
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	snap := flatSnapshot(ts)
	got := fullMaxPain(snap)
	// symmetric OI: the middle strike owes the least
	require.Equal(t, 22500.0, got)
}

func TestMotifDetection(t *testing.T) {
	e := NewEngine(testLogger(t))
	pattern := []float64{22500, 22510, 22520, 22530, 22540, 22530, 22520, 22510, 22500, 22490}

	var motif bool
	var corr float64
	for cycle := 0; cycle < 2; cycle++ {
		for _, p := range pattern {
			motif, corr, _, _ = e.computePatterns(p)
		}
	}
	require.True(t, motif)
	require.Greater(t, corr, 0.8)
}

func TestDiscordDetection(t *testing.T) {
	e := NewEngine(testLogger(t))
	for i := 0; i < 9; i++ {
		e.computePatterns(22500)
	}
	_, _, discord, score := e.computePatterns(22650)
	require.True(t, discord)
	require.Greater(t, score, 2.0)
}

func TestNoDiscordOnStablePrices(t *testing.T) {
	e := NewEngine(testLogger(t))
	var discord bool
	for i := 0; i < 15; i++ {
		_, _, discord, _ = e.computePatterns(22500)
	}
	require.False(t, discord)
}

func TestCorrelationConstantSeries(t *testing.T) {
	require.Equal(t, 0.0, correlation([]float64{1, 1, 1}, []float64{1, 2, 3}))
	require.Equal(t, 0.0, correlation([]float64{1, 2}, []float64{1, 2, 3}))
	require.InDelta(t, 1.0, correlation([]float64{1, 2, 3}, []float64{4, 5, 6}), 1e-9)
}

func TestComputeFullCycle(t *testing.T) {
	e := NewEngine(testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	snap := flatSnapshot(ts)
	snap.StrikeAt(22500).Call.OpenInterest = 9000

	m := e.Compute(snap)
	require.Equal(t, "NIFTY", m.Symbol)
	require.Equal(t, ts, m.Timestamp)
	require.Equal(t, 15.0, m.IVSkew.ATMIV)
	require.NotEmpty(t, m.GEX.PerStrike)
	require.Len(t, m.Clusters.Clusters, 1)
	require.NotZero(t, m.MaxPain)
}
