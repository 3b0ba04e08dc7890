package forecast

import (
	"math"
	"sort"
)

const (
	iqrMultiplier   = 1.5
	minFilterPoints = 5
	minSmoothPoints = 5
	maxSmoothWindow = 3
)

// FilterOutliers drops values outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
// Applies only to series with more than 4 points. A constant series
// (zero IQR) passes through untouched, and if the rule would drop
// every point the original series is kept - the filter never discards
// all data.
func FilterOutliers(s Series) Series {
	if len(s) < minFilterPoints {
		return s
	}

	q1, q3 := quartiles(s.Values())
	iqr := q3 - q1
	if iqr == 0 {
		return s
	}

	lo := q1 - iqrMultiplier*iqr
	hi := q3 + iqrMultiplier*iqr

	filtered := make(Series, 0, len(s))
	for _, obs := range s {
		if obs.Value >= lo && obs.Value <= hi {
			filtered = append(filtered, obs)
		}
	}

	if len(filtered) == 0 {
		return s
	}
	return filtered
}

// quartiles returns Q1 and Q3 using linear interpolation between
// the closest ranks.
func quartiles(values []float64) (q1, q3 float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentile(sorted, 0.25), percentile(sorted, 0.75)
}

func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Smooth damps measurement noise with a centered moving average of
// window min(3, n/2), applied only when the series has at least 5
// points. The first and last points keep their original values to
// avoid edge distortion.
func Smooth(s Series) Series {
	n := len(s)
	if n < minSmoothPoints {
		return s
	}

	window := maxSmoothWindow
	if n/2 < window {
		window = n / 2
	}
	left := (window - 1) / 2
	right := window / 2

	smoothed := make(Series, n)
	copy(smoothed, s)
	for i := 1; i < n-1; i++ {
		from := i - left
		if from < 0 {
			from = 0
		}
		to := i + right
		if to > n-1 {
			to = n - 1
		}
		var sum float64
		for j := from; j <= to; j++ {
			sum += s[j].Value
		}
		smoothed[i].Value = sum / float64(to-from+1)
	}
	return smoothed
}

// trailingMean computes a rolling mean over the trailing window,
// shrinking the window at the start of the slice (min periods 1).
func trailingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		span := i + 1
		if span > window {
			span = window
		}
		out[i] = sum / float64(span)
	}
	return out
}

func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
