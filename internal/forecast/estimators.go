package forecast

import "math"

// Model identifies the fitting strategy used for a forecast.
type Model string

const (
	// ModelAuto lets the selector pick a strategy from the series itself.
	ModelAuto           Model = "auto"
	ModelLinear         Model = "linear"
	ModelWeightedLinear Model = "weighted-linear"
	ModelPolynomial     Model = "polynomial"
	ModelDoubleExp      Model = "double-exponential"
)

// polyImprovementRatio: in auto mode the polynomial fit must beat the
// linear fit by a meaningful margin (MSE below 80% of linear) to be
// picked. Heuristic constant, kept as is.
const polyImprovementRatio = 0.8

const minDoubleExpPoints = 6

// FitResult holds the in-sample fit and the out-of-sample forecast of
// a single strategy. StdErr is the in-sample RMSE, always >= 0 and 0
// for series with at most one point.
type FitResult struct {
	Model    Model
	Fitted   []float64
	Forecast []float64
	StdErr   float64
}

// Fit runs the requested strategy over y (zero-based index as the
// regressor) and forecasts the given horizon. Insufficient data or a
// numerically unstable fit degrades to a simpler strategy - Fit never
// fails.
func Fit(y []float64, horizon int, model Model) FitResult {
	switch model {
	case ModelLinear:
		return fitLinear(y, horizon)
	case ModelWeightedLinear:
		return fitWeightedLinear(y, horizon)
	case ModelPolynomial:
		return fitPolynomial(y, horizon)
	case ModelDoubleExp:
		return fitDoubleExp(y, horizon)
	default:
		return fitAuto(y, horizon)
	}
}

// fitAuto prefers double-exponential smoothing for longer series,
// then a polynomial fit when it is a clear improvement over linear,
// and plain linear otherwise.
func fitAuto(y []float64, horizon int) FitResult {
	if len(y) >= minDoubleExpPoints {
		return fitDoubleExp(y, horizon)
	}
	if len(y) >= 4 {
		lin := fitLinear(y, horizon)
		poly := fitPolynomial(y, horizon)
		if poly.Model == ModelPolynomial &&
			meanSquaredError(y, poly.Fitted) < polyImprovementRatio*meanSquaredError(y, lin.Fitted) {
			return poly
		}
		return lin
	}
	return fitLinear(y, horizon)
}

func fitLinear(y []float64, horizon int) FitResult {
	n := len(y)
	res := FitResult{Model: ModelLinear}
	if n == 0 {
		return res
	}

	intercept, slope := leastSquaresLine(indexRegressor(n), y)

	res.Fitted = make([]float64, n)
	for i := 0; i < n; i++ {
		res.Fitted[i] = intercept + slope*float64(i)
	}
	res.Forecast = make([]float64, horizon)
	for k := 0; k < horizon; k++ {
		res.Forecast[k] = intercept + slope*float64(n+k)
	}
	res.StdErr = residualStdError(y, res.Fitted)
	return res
}

// fitWeightedLinear biases the trend toward recent behavior: it fits
// only the most recent points with exponentially growing weights.
func fitWeightedLinear(y []float64, horizon int) FitResult {
	n := len(y)
	if n <= 1 {
		return repeatLast(y, horizon, ModelWeightedLinear)
	}

	t := indexRegressor(n)
	slope, intercept, stdErr := weightedRecentLine(t, y, DefaultRecentWeeks)

	res := FitResult{Model: ModelWeightedLinear, StdErr: stdErr}
	res.Fitted = make([]float64, n)
	for i := 0; i < n; i++ {
		res.Fitted[i] = intercept + slope*t[i]
	}
	res.Forecast = make([]float64, horizon)
	for k := 0; k < horizon; k++ {
		res.Forecast[k] = intercept + slope*float64(n+k)
	}
	return res
}

// fitPolynomial fits y = a + b*t + c*t^2. Needs at least degree+2
// points, otherwise falls back to linear. A singular normal-equations
// system also falls back to linear.
func fitPolynomial(y []float64, horizon int) FitResult {
	n := len(y)
	if n < 4 {
		return fitLinear(y, horizon)
	}

	// power sums for the 3x3 normal equations
	var s [5]float64
	var b [3]float64
	for i := 0; i < n; i++ {
		t := float64(i)
		tp := 1.0
		for p := 0; p <= 4; p++ {
			s[p] += tp
			if p <= 2 {
				b[p] += tp * y[i]
			}
			tp *= t
		}
	}
	m := [3][4]float64{
		{s[0], s[1], s[2], b[0]},
		{s[1], s[2], s[3], b[1]},
		{s[2], s[3], s[4], b[2]},
	}

	coef, ok := solve3(m)
	if !ok {
		return fitLinear(y, horizon)
	}

	res := FitResult{Model: ModelPolynomial}
	res.Fitted = make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i)
		res.Fitted[i] = coef[0] + coef[1]*t + coef[2]*t*t
	}
	res.Forecast = make([]float64, horizon)
	for k := 0; k < horizon; k++ {
		t := float64(n + k)
		res.Forecast[k] = coef[0] + coef[1]*t + coef[2]*t*t
	}
	res.StdErr = residualStdError(y, res.Fitted)
	return res
}

// fitDoubleExp runs Holt's trend-only exponential smoothing. The
// smoothing parameters are estimated by a deterministic grid search
// minimizing in-sample squared error. Requires at least 6 points and
// falls back to linear on any numerical failure.
func fitDoubleExp(y []float64, horizon int) FitResult {
	n := len(y)
	if n < minDoubleExpPoints {
		return fitLinear(y, horizon)
	}

	bestSSE := math.Inf(1)
	var bestFit []float64
	var bestLevel, bestTrend float64
	for alpha := 0.1; alpha < 1.0; alpha += 0.1 {
		for beta := 0.1; beta < 1.0; beta += 0.1 {
			fitted, level, trend, sse, ok := holtSmooth(y, alpha, beta)
			if ok && sse < bestSSE {
				bestSSE = sse
				bestFit = fitted
				bestLevel = level
				bestTrend = trend
			}
		}
	}

	if bestFit == nil {
		return fitLinear(y, horizon)
	}

	res := FitResult{Model: ModelDoubleExp, Fitted: bestFit}
	res.Forecast = make([]float64, horizon)
	for k := 0; k < horizon; k++ {
		res.Forecast[k] = bestLevel + float64(k+1)*bestTrend
	}
	res.StdErr = residualStdError(y, bestFit)
	return res
}

// holtSmooth runs one pass of Holt smoothing with fixed parameters.
// Returns ok=false when the state goes non-finite.
func holtSmooth(y []float64, alpha, beta float64) (fitted []float64, level, trend, sse float64, ok bool) {
	n := len(y)
	level = y[0]
	trend = y[1] - y[0]

	fitted = make([]float64, n)
	fitted[0] = y[0]
	for i := 1; i < n; i++ {
		oneStep := level + trend
		fitted[i] = oneStep

		prevLevel := level
		level = alpha*y[i] + (1-alpha)*oneStep
		trend = beta*(level-prevLevel) + (1-beta)*trend
		if math.IsNaN(level) || math.IsInf(level, 0) ||
			math.IsNaN(trend) || math.IsInf(trend, 0) {
			return nil, 0, 0, 0, false
		}

		diff := y[i] - oneStep
		sse += diff * diff
	}
	return fitted, level, trend, sse, true
}

// weightedRecentLine fits a line over only the most recent points
// (at least 3, at most recentWindow), with exponential weights
// exp(linspace(-2, 0, n)) normalized to sum to 1. A degenerate
// weighted system falls back to the plain least-squares line.
func weightedRecentLine(t, y []float64, recentWindow int) (slope, intercept, stdErr float64) {
	size := recentWindow
	if size < 3 {
		size = 3
	}
	if size > len(y) {
		size = len(y)
	}
	rt := t[len(t)-size:]
	ry := y[len(y)-size:]

	w := expWeights(size)
	var sw, swx, swy, swxx, swxy float64
	for i := 0; i < size; i++ {
		sw += w[i]
		swx += w[i] * rt[i]
		swy += w[i] * ry[i]
		swxx += w[i] * rt[i] * rt[i]
		swxy += w[i] * rt[i] * ry[i]
	}

	det := sw*swxx - swx*swx
	if math.Abs(det) < 1e-12 {
		intercept, slope = leastSquaresLine(rt, ry)
	} else {
		slope = (sw*swxy - swx*swy) / det
		intercept = (swxx*swy - swx*swxy) / det
	}

	if size > 1 {
		var ss float64
		for i := 0; i < size; i++ {
			r := ry[i] - (intercept + slope*rt[i])
			ss += r * r
		}
		stdErr = math.Sqrt(ss / float64(size))
	} else {
		stdErr = 1.0
	}
	return slope, intercept, stdErr
}

// expWeights returns exp(linspace(-2, 0, n)) normalized to sum to 1.
func expWeights(n int) []float64 {
	w := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		x := -2.0
		if n > 1 {
			x = -2.0 + 2.0*float64(i)/float64(n-1)
		}
		w[i] = math.Exp(x)
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// leastSquaresLine is plain OLS for y = intercept + slope*t.
// A degenerate regressor (all t equal) yields a flat line at the mean.
func leastSquaresLine(t, y []float64) (intercept, slope float64) {
	n := len(y)
	if n == 0 {
		return 0, 0
	}

	var sumT, sumY float64
	for i := 0; i < n; i++ {
		sumT += t[i]
		sumY += y[i]
	}
	meanT := sumT / float64(n)
	meanY := sumY / float64(n)

	var ssTT, ssTY float64
	for i := 0; i < n; i++ {
		dt := t[i] - meanT
		ssTT += dt * dt
		ssTY += dt * (y[i] - meanY)
	}
	if ssTT == 0 {
		return meanY, 0
	}

	slope = ssTY / ssTT
	intercept = meanY - slope*meanT
	return intercept, slope
}

// solve3 solves a 3x3 linear system given as an augmented matrix,
// using Gaussian elimination with partial pivoting.
func solve3(m [3][4]float64) ([3]float64, bool) {
	var x [3]float64
	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return x, false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for row := col + 1; row < 3; row++ {
			factor := m[row][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}
	for row := 2; row >= 0; row-- {
		x[row] = m[row][3]
		for k := row + 1; k < 3; k++ {
			x[row] -= m[row][k] * x[k]
		}
		x[row] /= m[row][row]
	}
	return x, true
}

func repeatLast(y []float64, horizon int, model Model) FitResult {
	res := FitResult{Model: model}
	if len(y) == 0 {
		return res
	}
	last := y[len(y)-1]
	res.Fitted = append([]float64(nil), y...)
	res.Forecast = make([]float64, horizon)
	for k := range res.Forecast {
		res.Forecast[k] = last
	}
	return res
}

func indexRegressor(n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i)
	}
	return t
}

func residualStdError(y, fitted []float64) float64 {
	if len(y) <= 1 {
		return 0
	}
	var ss float64
	for i := range y {
		r := y[i] - fitted[i]
		ss += r * r
	}
	return math.Sqrt(ss / float64(len(y)))
}

func meanSquaredError(y, fitted []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var ss float64
	for i := range y {
		r := y[i] - fitted[i]
		ss += r * r
	}
	return ss / float64(len(y))
}
