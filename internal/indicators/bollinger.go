package indicators

import "math"

// Bollinger computes a simple moving average band: mid is the window SMA,
// upper/lower are mid ± dev standard deviations. NaN before the window fills.
func Bollinger(values []float64, window int, dev float64) (upper, mid, lower []float64) {
	upper = nanSlice(len(values))
	mid = nanSlice(len(values))
	lower = nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return upper, mid, lower
	}

	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)

		variance := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(window))

		mid[i] = mean
		upper[i] = mean + dev*sd
		lower[i] = mean - dev*sd
	}
	return upper, mid, lower
}
