package bodyweight

import (
	"context"

	"github.com/2beens/fitforecast/internal/forecast"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=bodyweight_test

// Stats mirrors the weight summary shown on the dashboard. All fields
// are null until the first measurement is logged. Goal is the goal
// weight from the most recent entry that set one.
type Stats struct {
	Start   *float64 `json:"start"`
	Current *float64 `json:"current"`
	Delta   *float64 `json:"delta"`
	Goal    *float64 `json:"goal"`
}

type caloriesProvider interface {
	DailyCalories(ctx context.Context) (forecast.Series, error)
}

type tdeeEstimator interface {
	TDEEForWeightLbs(ctx context.Context, weightLbs float64) (float64, error)
}

type Analyzer struct {
	repo     entriesRepo
	calories caloriesProvider
	tdee     tdeeEstimator
}

func NewAnalyzer(repo entriesRepo, calories caloriesProvider, tdee tdeeEstimator) *Analyzer {
	return &Analyzer{
		repo:     repo,
		calories: calories,
		tdee:     tdee,
	}
}

func (a *Analyzer) Stats(ctx context.Context) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.bodyweight.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries, err := a.repo.ListAll(ctx, EntryParams{})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return &Stats{}, nil
	}

	start := entries[0].WeightLbs
	current := entries[len(entries)-1].WeightLbs
	delta := current - start

	stats := &Stats{
		Start:   &start,
		Current: &current,
		Delta:   &delta,
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].GoalLbs != nil {
			stats.Goal = entries[i].GoalLbs
			break
		}
	}
	return stats, nil
}

// LatestWeightLbs returns the most recent measurement, or nil when
// nothing is logged yet.
func (a *Analyzer) LatestWeightLbs(ctx context.Context) (_ *float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.bodyweight.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries, err := a.repo.ListAll(ctx, EntryParams{})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[len(entries)-1].WeightLbs, nil
}

// ForecastPlan projects the weight series from its own recent trend,
// optionally overridden by a planned weekly rate.
func (a *Analyzer) ForecastPlan(
	ctx context.Context,
	horizonWeeks int,
	targetRatePct *float64,
) (_ forecast.ForecastSeries, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.bodyweight.forecastplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s, err := a.series(ctx)
	if err != nil {
		return nil, err
	}

	return forecast.ForecastWeight(s, forecast.WeightOptions{
		HorizonWeeks:  horizonWeeks,
		TargetRatePct: targetRatePct,
	}), nil
}

// ForecastCalorie projects the weight series from the logged caloric
// balance against the profile TDEE. Without logged meals or weights
// the result is empty.
func (a *Analyzer) ForecastCalorie(
	ctx context.Context,
	horizonWeeks int,
	smoothDays int,
) (_ forecast.ForecastSeries, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.bodyweight.forecastcalorie")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	weights, err := a.series(ctx)
	if err != nil {
		return nil, err
	}
	if len(weights) == 0 {
		return forecast.ForecastSeries{}, nil
	}

	intake, err := a.calories.DailyCalories(ctx)
	if err != nil {
		return nil, err
	}
	if len(intake) == 0 {
		return forecast.ForecastSeries{}, nil
	}

	currentLbs := weights[len(weights)-1].Value
	tdee, err := a.tdee.TDEEForWeightLbs(ctx, currentLbs)
	if err != nil {
		return nil, err
	}

	balance := forecast.DailyBalance(intake, tdee)
	return forecast.ForecastWeightEnergy(weights, balance, forecast.EnergyOptions{
		HorizonWeeks: horizonWeeks,
		SmoothDays:   smoothDays,
	}), nil
}

func (a *Analyzer) series(ctx context.Context) (forecast.Series, error) {
	entries, err := a.repo.ListAll(ctx, EntryParams{})
	if err != nil {
		return nil, err
	}

	raw := make([]forecast.RawObservation, 0, len(entries))
	for _, entry := range entries {
		raw = append(raw, forecast.RawObservation{
			Date:  entry.Date.Format(forecast.DateLayout),
			Value: entry.WeightLbs,
		})
	}
	return forecast.NewSeries(raw), nil
}
