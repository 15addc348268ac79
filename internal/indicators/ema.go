package indicators

import "math"

// EMA computes an exponential moving average with smoothing 2/(window+1).
// The first defined output is the simple average of the first window defined
// inputs; positions before that (and any leading undefined inputs) are NaN.
func EMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 {
		return out
	}

	start := firstDefined(values)
	if start < 0 || len(values)-start < window {
		return out
	}

	sum := 0.0
	for i := start; i < start+window; i++ {
		sum += values[i]
	}
	prev := sum / float64(window)
	out[start+window-1] = prev

	alpha := 2.0 / (float64(window) + 1.0)
	for i := start + window; i < len(values); i++ {
		prev = alpha*values[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}
