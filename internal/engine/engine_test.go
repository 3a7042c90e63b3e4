package engine

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

// chainSnapshot builds a three-strike board centered on 22500.
func chainSnapshot(ts time.Time, spot, atmCallOI, atmPutOI float64) *models.MarketSnapshot {
	return &models.MarketSnapshot{
		Symbol:     "NIFTY",
		SpotPrice:  spot,
		ATMStrike:  22500,
		StrikeStep: 100,
		Timestamp:  ts,
		Strikes: []models.StrikeQuote{
			{Strike: 22400, Call: models.OptionQuote{OpenInterest: 500, Volume: 200}, Put: models.OptionQuote{OpenInterest: 500, Volume: 200}},
			{Strike: 22500, Call: models.OptionQuote{OpenInterest: atmCallOI, Volume: 300, ImpliedVol: 18}, Put: models.OptionQuote{OpenInterest: atmPutOI, Volume: 300, ImpliedVol: 18}},
			{Strike: 22600, Call: models.OptionQuote{OpenInterest: 500, Volume: 200}, Put: models.OptionQuote{OpenInterest: 500, Volume: 200}},
		},
	}
}

func TestNormalizePicksATMRow(t *testing.T) {
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	snap := chainSnapshot(ts, 22510, 1200, 900)

	pt := Normalize(snap)
	require.Equal(t, 22510.0, pt.SpotPrice)
	require.Equal(t, 1200.0, pt.ATMCallOI)
	require.Equal(t, 900.0, pt.ATMPutOI)
	require.Equal(t, 18.0, pt.ATMCallIV)
	require.Equal(t, 2200.0, pt.TotalCallOI)
	require.Equal(t, 1900.0, pt.TotalPutOI)
	require.Equal(t, 1400.0, pt.TotalVolume)
}

func TestNormalizeFallsBackToNearestStrike(t *testing.T) {
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	snap := chainSnapshot(ts, 22480, 1200, 900)
	snap.ATMStrike = 0

	pt := Normalize(snap)
	// 22500 is nearest to 22480
	require.Equal(t, 1200.0, pt.ATMCallOI)
}

func TestNormalizeEmptyBoard(t *testing.T) {
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	snap := &models.MarketSnapshot{Symbol: "NIFTY", SpotPrice: 22500, Timestamp: ts}

	pt := Normalize(snap)
	require.Equal(t, 22500.0, pt.SpotPrice)
	require.Equal(t, 0.0, pt.TotalVolume)
	require.Equal(t, 0.0, pt.TotalOI())
}

func TestEngineFirstCycleEmitsNothing(t *testing.T) {
	e := NewEngine("NIFTY", testConfig(), testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	res, adv := e.Analyze(chainSnapshot(ts, 22500, 1000, 1000))
	require.Empty(t, res.Signals)
	require.Equal(t, models.Neutral, res.Summary.Bias)
	require.Equal(t, "NIFTY", adv.Symbol)
}

func TestEngineDetectsWritingImbalance(t *testing.T) {
	e := NewEngine("NIFTY", testConfig(), testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		e.Analyze(chainSnapshot(ts.Add(time.Duration(i)*time.Minute), 22500, 1000, 1000))
	}
	res, _ := e.Analyze(chainSnapshot(ts.Add(3*time.Minute), 22500, 1300, 700))

	require.NotEmpty(t, res.Signals)
	found := false
	for _, sig := range res.Signals {
		if sig.Pattern == models.PatternWritingImbalance {
			found = true
			require.Equal(t, models.Bearish, sig.Direction)
			require.GreaterOrEqual(t, sig.Confidence, 60.0)
			require.LessOrEqual(t, sig.Confidence, 100.0)
		}
	}
	require.True(t, found)
}

func TestEngineEvaluateIsRepeatable(t *testing.T) {
	e := NewEngine("NIFTY", testConfig(), testLogger(t))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		e.Analyze(chainSnapshot(ts.Add(time.Duration(i)*time.Minute), 22500, 1000, 1000))
	}
	snap := chainSnapshot(ts.Add(3*time.Minute), 22500, 1300, 700)
	pt := Normalize(snap)
	e.window.AddPoint(pt)

	r1 := e.Evaluate(pt)
	r2 := e.Evaluate(pt)

	require.Equal(t, len(r1.Signals), len(r2.Signals))
	for i := range r1.Signals {
		require.Equal(t, r1.Signals[i].Pattern, r2.Signals[i].Pattern)
		require.Equal(t, r1.Signals[i].Direction, r2.Signals[i].Direction)
		require.Equal(t, r1.Signals[i].Confidence, r2.Signals[i].Confidence)
	}
	require.Equal(t, r1.Summary, r2.Summary)
	require.Equal(t, r1.State, r2.State)
}

func TestEngineCustomDetectorSet(t *testing.T) {
	e := NewEngine("NIFTY", testConfig(), testLogger(t), WithDetectors(nil))
	ts := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		res, _ := e.Analyze(chainSnapshot(ts.Add(time.Duration(i)*time.Minute), 22500, 1000, 1000))
		require.Empty(t, res.Signals)
	}
}
