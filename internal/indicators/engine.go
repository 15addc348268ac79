// Package indicators derives technical indicator snapshots from close-price
// history. All computations are pure; values are NaN until their window is
// fully populated, and consumers must treat NaN as "no evaluation possible",
// never as zero.
package indicators

import "math"

// Default windows for the day-trading strategy.
const (
	EMAFastWindow   = 20
	EMASlowWindow   = 50
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerWindow = 20
	BollingerDev    = 2.0
)

// MinHistory is the number of candles needed before the latest two snapshots
// are both fully defined: max window (50) plus one.
const MinHistory = EMASlowWindow + 1

// Snapshot holds every indicator value for one bar.
type Snapshot struct {
	EMAFast    float64
	EMASlow    float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	BBUpper    float64
	BBMid      float64
	BBLower    float64
}

// Valid reports whether every field is defined.
func (s Snapshot) Valid() bool {
	for _, v := range []float64{
		s.EMAFast, s.EMASlow, s.RSI,
		s.MACD, s.MACDSignal, s.MACDHist,
		s.BBUpper, s.BBMid, s.BBLower,
	} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Compute derives one snapshot per close price, index-aligned with the input.
func Compute(closes []float64) []Snapshot {
	emaFast := EMA(closes, EMAFastWindow)
	emaSlow := EMA(closes, EMASlowWindow)
	rsi := RSI(closes, RSIPeriod)
	macd, macdSignal, macdHist := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	bbUpper, bbMid, bbLower := Bollinger(closes, BollingerWindow, BollingerDev)

	out := make([]Snapshot, len(closes))
	for i := range closes {
		out[i] = Snapshot{
			EMAFast:    emaFast[i],
			EMASlow:    emaSlow[i],
			RSI:        rsi[i],
			MACD:       macd[i],
			MACDSignal: macdSignal[i],
			MACDHist:   macdHist[i],
			BBUpper:    bbUpper[i],
			BBMid:      bbMid[i],
			BBLower:    bbLower[i],
		}
	}
	return out
}
