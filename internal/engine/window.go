package engine

import (
	"strconv"
	"strings"
	"time"

	"ChainPulse/internal/domain/models"
	domsvc "ChainPulse/internal/domain/service"
)

// Window is the rolling per-symbol state: a bounded point history plus a
// session VWAP accumulator, the locked first-hour range, and the coarse
// max pain recorded last cycle. AddPoint is the only mutator and is called
// exactly once per cycle; detectors see the window through the read-only
// WindowView.
type Window struct {
	lookback int
	points   []models.MarketDataPoint

	vwapNum float64
	vwapDen float64
	vwapDay string

	fhHigh float64
	fhLow  float64
	fhSet  bool
	fhDay  string

	prevMaxPain    float64
	prevMaxPainSet bool

	openMinute    int // minutes after midnight, exchange-local
	firstHourMins int
}

// NewWindow builds a window sized from the config's lookback. The market
// open time is parsed from cfg ("HH:MM"); a malformed value falls back to
// 09:15.
func NewWindow(cfg *models.BreakoutConfig) *Window {
	return &Window{
		lookback:      cfg.LookbackPeriods,
		points:        make([]models.MarketDataPoint, 0, 2*cfg.LookbackPeriods+1),
		openMinute:    parseOpenMinute(cfg.MarketOpen),
		firstHourMins: cfg.FirstHourMinutes,
	}
}

func parseOpenMinute(s string) int {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) == 2 {
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil && h >= 0 && h < 24 && m >= 0 && m < 60 {
			return h*60 + m
		}
	}
	return 9*60 + 15
}

// AddPoint appends a point, compacts the history once it exceeds twice the
// lookback, rolls the VWAP accumulator on a date change, and extends the
// first-hour lock while inside the first-hour wall-clock window.
func (w *Window) AddPoint(pt models.MarketDataPoint) {
	w.points = append(w.points, pt)
	if w.Len() > 2*w.lookback {
		tail := w.points[len(w.points)-w.lookback:]
		compacted := make([]models.MarketDataPoint, w.lookback, 2*w.lookback+1)
		copy(compacted, tail)
		w.points = compacted
	}

	day := pt.Timestamp.Format("2006-01-02")
	if day != w.vwapDay {
		w.vwapDay = day
		w.vwapNum = 0
		w.vwapDen = 0
	}
	w.vwapNum += pt.SpotPrice * pt.TotalVolume
	w.vwapDen += pt.TotalVolume

	if day != w.fhDay {
		w.fhDay = day
		w.fhSet = false
	}
	if w.inFirstHour(pt.Timestamp) {
		if !w.fhSet {
			w.fhHigh = pt.SpotPrice
			w.fhLow = pt.SpotPrice
			w.fhSet = true
		} else {
			if pt.SpotPrice > w.fhHigh {
				w.fhHigh = pt.SpotPrice
			}
			if pt.SpotPrice < w.fhLow {
				w.fhLow = pt.SpotPrice
			}
		}
	}
}

// RecordMaxPain stores the coarse max pain of the finished cycle so the
// next cycle can compute its delta.
func (w *Window) RecordMaxPain(v float64) {
	w.prevMaxPain = v
	w.prevMaxPainSet = true
}

func (w *Window) Len() int { return len(w.points) }

func (w *Window) At(i int) models.MarketDataPoint { return w.points[i] }

func (w *Window) Last(n int) []models.MarketDataPoint {
	l := w.Len()
	if n > l {
		n = l
	}
	if n <= 0 {
		return nil
	}
	out := make([]models.MarketDataPoint, n)
	copy(out, w.points[len(w.points)-n:])
	return out
}

// AverageVolume is the mean volume over the last 10 points. Below 5 points
// there is no meaningful baseline and it reports 0.
func (w *Window) AverageVolume() float64 {
	if w.Len() < 5 {
		return 0
	}
	pts := w.Last(10)
	sum := 0.0
	for _, p := range pts {
		sum += p.TotalVolume
	}
	return sum / float64(len(pts))
}

func (w *Window) VWAP() float64 {
	if w.vwapDen == 0 {
		return 0
	}
	return w.vwapNum / w.vwapDen
}

func (w *Window) FirstHourRange() (high, low float64, ok bool) {
	return w.fhHigh, w.fhLow, w.fhSet
}

func (w *Window) PrevMaxPain() (float64, bool) {
	return w.prevMaxPain, w.prevMaxPainSet
}

func (w *Window) inFirstHour(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.openMinute && m < w.openMinute+w.firstHourMins
}

var _ domsvc.WindowView = (*Window)(nil)
