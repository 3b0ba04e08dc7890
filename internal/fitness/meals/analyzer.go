package meals

import (
	"context"
	"sort"
	"time"

	"github.com/2beens/fitforecast/internal/forecast"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
)

type DailyTotal struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
}

type Analyzer struct {
	repo mealsRepo
}

func NewAnalyzer(repo mealsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// DailyTotals sums the logged macros per calendar day, oldest day
// first. A non-nil selected date narrows the result to that day only.
func (a *Analyzer) DailyTotals(ctx context.Context, selected *time.Time) (_ []DailyTotal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.meals.dailytotals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx, MealParams{})
	if err != nil {
		return nil, err
	}

	perDay := make(map[string]*DailyTotal)
	for _, meal := range all {
		date := meal.Date.Format(forecast.DateLayout)
		total, ok := perDay[date]
		if !ok {
			total = &DailyTotal{Date: date}
			perDay[date] = total
		}
		total.Calories += meal.Calories
		total.ProteinG += meal.ProteinG
		total.CarbsG += meal.CarbsG
		total.FatG += meal.FatG
	}

	if selected != nil {
		selectedDate := selected.Format(forecast.DateLayout)
		if total, ok := perDay[selectedDate]; ok {
			return []DailyTotal{*total}, nil
		}
		return []DailyTotal{}, nil
	}

	totals := make([]DailyTotal, 0, len(perDay))
	for _, total := range perDay {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date < totals[j].Date
	})
	return totals, nil
}

// DailyCalories returns the per-day calorie sums as a series, ready
// for the energy-balance projection.
func (a *Analyzer) DailyCalories(ctx context.Context) (_ forecast.Series, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.meals.dailycalories")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	totals, err := a.DailyTotals(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw := make([]forecast.RawObservation, 0, len(totals))
	for _, total := range totals {
		raw = append(raw, forecast.RawObservation{
			Date:  total.Date,
			Value: total.Calories,
		})
	}
	return forecast.NewSeries(raw), nil
}
