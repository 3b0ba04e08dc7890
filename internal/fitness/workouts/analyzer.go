package workouts

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitforecast/internal/forecast"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
)

type Stats struct {
	SessionsThisWeek  int     `json:"sessionsThisWeek"`
	TotalVolume       float64 `json:"totalVolume"`
	DistinctExercises int     `json:"distinctExercises"`
}

type ProgressionPoint struct {
	Date      string  `json:"date"`
	TopWeight float64 `json:"topWeight"`
}

type PersonalBest struct {
	Exercise    string    `json:"exercise"`
	MuscleGroup string    `json:"muscleGroup"`
	WeightKg    float64   `json:"weightKg"`
	Reps        int       `json:"reps"`
	Est1RM      float64   `json:"est1RM"`
	Date        time.Time `json:"date"`
}

type WeeklyVolumePoint struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

type Analyzer struct {
	repo workoutsRepo
}

func NewAnalyzer(repo workoutsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// Stats returns sessions in the current ISO week, all-time total
// volume and the number of distinct exercises ever done.
func (a *Analyzer) Stats(ctx context.Context, now time.Time) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx, WorkoutParams{})
	if err != nil {
		return nil, err
	}

	currYear, currWeek := now.ISOWeek()
	sessionDays := make(map[string]struct{})
	exercises := make(map[string]struct{})
	var totalVolume float64
	for _, w := range all {
		totalVolume += w.Volume()
		exercises[w.Exercise] = struct{}{}
		if year, week := w.Date.ISOWeek(); year == currYear && week == currWeek {
			sessionDays[w.Date.Format(forecast.DateLayout)] = struct{}{}
		}
	}

	return &Stats{
		SessionsThisWeek:  len(sessionDays),
		TotalVolume:       totalVolume,
		DistinctExercises: len(exercises),
	}, nil
}

// Progression returns, for each day the given exercise was done,
// the heaviest weight lifted that day, oldest day first.
func (a *Analyzer) Progression(ctx context.Context, exercise string) (_ []ProgressionPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.progression")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exercise))

	history, err := a.repo.ListAll(ctx, WorkoutParams{Exercise: exercise})
	if err != nil {
		return nil, err
	}

	topPerDay := make(map[string]float64)
	for _, w := range history {
		day := w.Date.Format(forecast.DateLayout)
		if w.WeightKg > topPerDay[day] {
			topPerDay[day] = w.WeightKg
		}
	}

	progression := make([]ProgressionPoint, 0, len(topPerDay))
	for day, top := range topPerDay {
		progression = append(progression, ProgressionPoint{Date: day, TopWeight: top})
	}
	sort.Slice(progression, func(i, j int) bool {
		return progression[i].Date < progression[j].Date
	})

	return progression, nil
}

// PersonalBests returns, per exercise, the workout with the highest
// estimated one-rep max, sorted by the estimate, best first.
func (a *Analyzer) PersonalBests(ctx context.Context) (_ []PersonalBest, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.personalbests")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx, WorkoutParams{})
	if err != nil {
		return nil, err
	}

	best := make(map[string]PersonalBest)
	for _, w := range all {
		est := w.EstimatedOneRepMax()
		if curr, ok := best[w.Exercise]; !ok || est > curr.Est1RM {
			best[w.Exercise] = PersonalBest{
				Exercise:    w.Exercise,
				MuscleGroup: w.MuscleGroup,
				WeightKg:    w.WeightKg,
				Reps:        w.Reps,
				Est1RM:      est,
				Date:        w.Date,
			}
		}
	}

	bests := make([]PersonalBest, 0, len(best))
	for _, pb := range best {
		bests = append(bests, pb)
	}
	sort.Slice(bests, func(i, j int) bool {
		return bests[i].Est1RM > bests[j].Est1RM
	})

	return bests, nil
}

// WeeklyBest1RM aggregates the estimated one-rep max of the given
// exercise into per-ISO-week maximums.
func (a *Analyzer) WeeklyBest1RM(ctx context.Context, exercise string) (_ forecast.WeeklySeries, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.weeklybest1rm")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exercise))

	history, err := a.repo.ListAll(ctx, WorkoutParams{Exercise: exercise})
	if err != nil {
		return nil, err
	}

	s := make(forecast.Series, 0, len(history))
	for _, w := range history {
		s = append(s, forecast.Observation{
			Timestamp: w.Date,
			Value:     w.EstimatedOneRepMax(),
		})
	}

	return forecast.WeeklyMax(s), nil
}

// WeeklyVolume sums workout volume per ISO week.
func (a *Analyzer) WeeklyVolume(ctx context.Context) (_ []WeeklyVolumePoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.weeklyvolume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx, WorkoutParams{})
	if err != nil {
		return nil, err
	}

	s := make(forecast.Series, 0, len(all))
	for _, w := range all {
		s = append(s, forecast.Observation{
			Timestamp: w.Date,
			Value:     w.Volume(),
		})
	}

	weekly := forecast.WeeklySum(s)
	points := make([]WeeklyVolumePoint, 0, len(weekly))
	for _, w := range weekly {
		points = append(points, WeeklyVolumePoint{
			Date:   w.Date.Format(forecast.DateLayout),
			Volume: w.Value,
		})
	}
	return points, nil
}

// Forecast1RM projects the weekly best estimated one-rep max of the
// given exercise for the next horizonWeeks weeks.
func (a *Analyzer) Forecast1RM(
	ctx context.Context,
	exercise string,
	horizonWeeks int,
	model forecast.Model,
) (_ forecast.ForecastSeries, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.forecast1rm")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exercise))
	span.SetAttributes(attribute.Int("horizon_weeks", horizonWeeks))
	span.SetAttributes(attribute.String("model", string(model)))

	weekly, err := a.WeeklyBest1RM(ctx, exercise)
	if err != nil {
		return nil, err
	}
	if len(weekly) < 2 {
		return nil, nil
	}

	return forecast.ForecastValues(weekly.Series(), horizonWeeks, model), nil
}
