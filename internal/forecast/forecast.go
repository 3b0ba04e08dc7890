package forecast

import (
	"encoding/json"
	"math"
	"time"
)

// Kind marks a forecast point as an echoed observation or a prediction.
type Kind string

const (
	KindActual Kind = "actual"
	KindPred   Kind = "pred"
)

const (
	// zMultiplier is the fixed 95% band multiplier over the residual error.
	zMultiplier = 1.96
	// bandWidenPerStep widens the weight-path band multiplicatively by
	// (1 + 0.1*k) for the k-th future week. Heuristic constant, kept as is.
	bandWidenPerStep = 0.1

	DefaultHorizonWeeks  = 12
	DefaultRecentWeeks   = 6
	DefaultMaxAbsRatePct = 1.5

	week = 7 * 24 * time.Hour
)

// ForecastPoint is one dated value with its confidence band. Actual
// points carry degenerate bands (lower = upper = value).
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
	Kind  Kind      `json:"kind"`
}

func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
		Lower float64 `json:"lower"`
		Upper float64 `json:"upper"`
		Kind  Kind    `json:"kind"`
	}{
		Date:  p.Date.Format(DateLayout),
		Value: p.Value,
		Lower: p.Lower,
		Upper: p.Upper,
		Kind:  p.Kind,
	})
}

// ForecastSeries is the echoed actual points followed by the predicted
// points, contiguous by timestamp.
type ForecastSeries []ForecastPoint

// Predictions returns only the predicted part of the series.
func (fs ForecastSeries) Predictions() ForecastSeries {
	for i, p := range fs {
		if p.Kind == KindPred {
			return fs[i:]
		}
	}
	return nil
}

// Actuals returns only the echoed observed part of the series.
func (fs ForecastSeries) Actuals() ForecastSeries {
	for i, p := range fs {
		if p.Kind == KindPred {
			return fs[:i]
		}
	}
	return fs
}

// WeightOptions configures the body-weight projection path.
type WeightOptions struct {
	// HorizonWeeks is the number of weekly steps to project, default 12.
	HorizonWeeks int
	// TargetRatePct, when set and non-zero, overrides the estimated
	// trend with a planned weekly rate as a percentage of current
	// weight (negative to lose, positive to gain).
	TargetRatePct *float64
	// RecentWeeks is the recent-window size for the weighted fit,
	// default 6, minimum 3.
	RecentWeeks int
	// MaxAbsRatePct caps the weekly rate of change as a percentage of
	// current weight, default 1.5.
	MaxAbsRatePct float64
}

func (o *WeightOptions) setDefaults() {
	if o.HorizonWeeks <= 0 {
		o.HorizonWeeks = DefaultHorizonWeeks
	}
	if o.RecentWeeks <= 0 {
		o.RecentWeeks = DefaultRecentWeeks
	}
	if o.MaxAbsRatePct <= 0 {
		o.MaxAbsRatePct = DefaultMaxAbsRatePct
	}
}

// ForecastWeight projects a body-weight series forward at weekly
// cadence. The series is outlier-filtered and smoothed, the trend is
// estimated with a recency-weighted linear fit over the recent window
// (or taken from the caller's target rate), and the resulting weekly
// rate is clamped to a physiologically plausible bound. Bands grow
// with the horizon. With fewer than 2 observations only the actual
// points are echoed back.
func ForecastWeight(s Series, opts WeightOptions) ForecastSeries {
	if len(s) == 0 {
		return ForecastSeries{}
	}
	opts.setDefaults()

	out := actualPoints(s)
	if len(s) < 2 {
		return out
	}

	work := Smooth(FilterOutliers(s))
	t := work.weeksFromStart()
	y := work.Values()
	curr := y[len(y)-1]

	slope, _, stdErr := weightedRecentLine(t, y, opts.RecentWeeks)
	if opts.TargetRatePct != nil && math.Abs(*opts.TargetRatePct) > 1e-9 {
		slope = curr * (*opts.TargetRatePct / 100)
	}
	slope = clampRate(slope, curr, opts.MaxAbsRatePct)

	lastDate := s[len(s)-1].Timestamp
	for k := 1; k <= opts.HorizonWeeks; k++ {
		value := curr + slope*float64(k)
		half := zMultiplier * stdErr * (1 + bandWidenPerStep*float64(k))
		out = append(out, ForecastPoint{
			Date:  lastDate.Add(time.Duration(k) * week),
			Value: value,
			Lower: value - half,
			Upper: value + half,
			Kind:  KindPred,
		})
	}
	return out
}

// ForecastValues projects a generic weekly series (e.g. estimated 1RM
// per week) with the requested or auto-selected strategy. Bands are a
// constant 1.96 residual errors wide.
func ForecastValues(s Series, horizonWeeks int, model Model) ForecastSeries {
	if len(s) == 0 {
		return ForecastSeries{}
	}
	if horizonWeeks < 0 {
		horizonWeeks = 0
	}

	out := actualPoints(s)

	work := Smooth(FilterOutliers(s))
	res := Fit(work.Values(), horizonWeeks, model)

	half := zMultiplier * res.StdErr
	lastDate := s[len(s)-1].Timestamp
	for k, value := range res.Forecast {
		out = append(out, ForecastPoint{
			Date:  lastDate.Add(time.Duration(k+1) * week),
			Value: value,
			Lower: value - half,
			Upper: value + half,
			Kind:  KindPred,
		})
	}
	return out
}

// clampRate caps a per-week rate of change to
// +/- (maxAbsRatePct/100) * current.
func clampRate(rate, current, maxAbsRatePct float64) float64 {
	bound := math.Abs(maxAbsRatePct / 100 * current)
	if rate > bound {
		return bound
	}
	if rate < -bound {
		return -bound
	}
	return rate
}

func actualPoints(s Series) ForecastSeries {
	out := make(ForecastSeries, 0, len(s))
	for _, obs := range s {
		out = append(out, ForecastPoint{
			Date:  obs.Timestamp,
			Value: obs.Value,
			Lower: obs.Value,
			Upper: obs.Value,
			Kind:  KindActual,
		})
	}
	return out
}
