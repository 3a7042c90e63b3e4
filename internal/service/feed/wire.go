package feed

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ChainPulse/internal/domain/models"
)

// Wire types for the NSE-style option-chain payload served by the chain
// gateway. Legs missing on a row decode as nil and default to zero.

type wireQuote struct {
	StrikePrice       float64 `json:"strikePrice"`
	OpenInterest      float64 `json:"openInterest"`
	ChangeInOI        float64 `json:"changeinOpenInterest"`
	TotalTradedVolume float64 `json:"totalTradedVolume"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	LastPrice         float64 `json:"lastPrice"`
	Change            float64 `json:"change"`
}

type wireRow struct {
	StrikePrice float64    `json:"strikePrice"`
	ExpiryDate  string     `json:"expiryDate"`
	CE          *wireQuote `json:"CE"`
	PE          *wireQuote `json:"PE"`
}

type wireChain struct {
	Records struct {
		ExpiryDates     []string  `json:"expiryDates"`
		Data            []wireRow `json:"data"`
		Timestamp       string    `json:"timestamp"`
		UnderlyingValue float64   `json:"underlyingValue"`
	} `json:"records"`
}

const wireTimeLayout = "02-Jan-2006 15:04:05"

// toSnapshot reduces the wire chain to the engine's snapshot: rows merged
// per strike, sorted ascending, ATM picked as the strike nearest spot.
func toSnapshot(symbol string, w *wireChain) (*models.MarketSnapshot, error) {
	if len(w.Records.Data) == 0 {
		return nil, fmt.Errorf("chain %s: empty board", symbol)
	}

	var expiry string
	if len(w.Records.ExpiryDates) > 0 {
		expiry = w.Records.ExpiryDates[0]
	}

	byStrike := make(map[float64]*models.StrikeQuote)
	for _, row := range w.Records.Data {
		if expiry != "" && row.ExpiryDate != expiry {
			continue
		}
		sq, ok := byStrike[row.StrikePrice]
		if !ok {
			sq = &models.StrikeQuote{Strike: row.StrikePrice}
			byStrike[row.StrikePrice] = sq
		}
		if row.CE != nil {
			sq.Call = toQuote(row.CE)
		}
		if row.PE != nil {
			sq.Put = toQuote(row.PE)
		}
	}

	strikes := make([]models.StrikeQuote, 0, len(byStrike))
	for _, sq := range byStrike {
		strikes = append(strikes, *sq)
	}
	sort.Slice(strikes, func(i, j int) bool { return strikes[i].Strike < strikes[j].Strike })

	ts := time.Now()
	if t, err := time.Parse(wireTimeLayout, w.Records.Timestamp); err == nil {
		ts = t
	}

	snap := &models.MarketSnapshot{
		Symbol:    symbol,
		SpotPrice: w.Records.UnderlyingValue,
		Expiry:    expiry,
		Timestamp: ts,
		Strikes:   strikes,
	}
	snap.ATMStrike = nearestStrike(strikes, snap.SpotPrice)
	if len(strikes) >= 2 {
		snap.StrikeStep = strikes[1].Strike - strikes[0].Strike
	}
	return snap, nil
}

func toQuote(q *wireQuote) models.OptionQuote {
	return models.OptionQuote{
		OpenInterest: q.OpenInterest,
		ChangeInOI:   q.ChangeInOI,
		Volume:       q.TotalTradedVolume,
		LastPrice:    q.LastPrice,
		Change:       q.Change,
		ImpliedVol:   q.ImpliedVolatility,
	}
}

func nearestStrike(strikes []models.StrikeQuote, spot float64) float64 {
	best, bestDist := 0.0, math.MaxFloat64
	for _, sq := range strikes {
		if d := math.Abs(sq.Strike - spot); d < bestDist {
			best, bestDist = sq.Strike, d
		}
	}
	return best
}
