package indicators

import "math"

// MACD computes the moving-average-convergence-divergence line (fast EMA
// minus slow EMA), its signal line (EMA of the MACD line) and the histogram
// (line minus signal). Undefined positions are NaN.
func MACD(values []float64, fast, slow, signalWindow int) (line, signal, hist []float64) {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)

	line = nanSlice(len(values))
	for i := range values {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			line[i] = emaFast[i] - emaSlow[i]
		}
	}

	signal = EMA(line, signalWindow)

	hist = nanSlice(len(values))
	for i := range values {
		if !math.IsNaN(line[i]) && !math.IsNaN(signal[i]) {
			hist[i] = line[i] - signal[i]
		}
	}
	return line, signal, hist
}
