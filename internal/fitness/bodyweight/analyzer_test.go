package bodyweight_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/2beens/fitforecast/internal/fitness/bodyweight"
	"github.com/2beens/fitforecast/internal/forecast"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func day(dayStr string) time.Time {
	d, err := time.Parse(forecast.DateLayout, dayStr)
	if err != nil {
		panic(err)
	}
	return d
}

func lbs(v float64) *float64 {
	return &v
}

func weightEntries() []bodyweight.Entry {
	return []bodyweight.Entry{
		{ID: 1, Date: day("2024-01-01"), WeightLbs: 180},
		{ID: 2, Date: day("2024-01-08"), WeightLbs: 179, GoalLbs: lbs(170)},
		{ID: 3, Date: day("2024-01-15"), WeightLbs: 178},
		{ID: 4, Date: day("2024-01-22"), WeightLbs: 177.5, GoalLbs: lbs(172)},
		{ID: 5, Date: day("2024-01-29"), WeightLbs: 177},
		{ID: 6, Date: day("2024-02-05"), WeightLbs: 176.5},
	}
}

func newTestAnalyzer(t *testing.T) (*bodyweight.Analyzer, *MockentriesRepo, *MockcaloriesProvider, *MocktdeeEstimator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repoMock := NewMockentriesRepo(ctrl)
	caloriesMock := NewMockcaloriesProvider(ctrl)
	tdeeMock := NewMocktdeeEstimator(ctrl)
	return bodyweight.NewAnalyzer(repoMock, caloriesMock, tdeeMock), repoMock, caloriesMock, tdeeMock
}

func TestAnalyzer_Stats(t *testing.T) {
	analyzer, repoMock, _, _ := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(weightEntries(), nil)

	stats, err := analyzer.Stats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats.Start)
	require.NotNil(t, stats.Current)
	require.NotNil(t, stats.Delta)
	require.NotNil(t, stats.Goal)
	assert.Equal(t, float64(180), *stats.Start)
	assert.Equal(t, 176.5, *stats.Current)
	assert.InDelta(t, -3.5, *stats.Delta, 1e-9)
	// the goal from the most recent entry that set one
	assert.Equal(t, float64(172), *stats.Goal)
}

func TestAnalyzer_Stats_NoEntries(t *testing.T) {
	analyzer, repoMock, _, _ := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(nil, nil)

	stats, err := analyzer.Stats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats.Start)
	assert.Nil(t, stats.Current)
	assert.Nil(t, stats.Delta)
	assert.Nil(t, stats.Goal)
}

func TestAnalyzer_LatestWeightLbs(t *testing.T) {
	analyzer, repoMock, _, _ := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(weightEntries(), nil)

	latest, err := analyzer.LatestWeightLbs(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 176.5, *latest)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(nil, nil)
	latest, err = analyzer.LatestWeightLbs(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestAnalyzer_ForecastPlan(t *testing.T) {
	analyzer, repoMock, _, _ := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(weightEntries(), nil)

	series, err := analyzer.ForecastPlan(context.Background(), 4, nil)
	require.NoError(t, err)

	require.Len(t, series.Actuals(), 6)
	preds := series.Predictions()
	require.Len(t, preds, 4)

	// the recent trend is downward
	prev := 176.5
	for _, p := range preds {
		assert.Less(t, p.Value, prev)
		assert.LessOrEqual(t, p.Lower, p.Value)
		assert.LessOrEqual(t, p.Value, p.Upper)
		prev = p.Value
	}
}

func TestAnalyzer_ForecastPlan_TargetRate(t *testing.T) {
	analyzer, repoMock, _, _ := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(weightEntries(), nil)

	targetRate := -0.7
	series, err := analyzer.ForecastPlan(context.Background(), 2, &targetRate)
	require.NoError(t, err)

	preds := series.Predictions()
	require.Len(t, preds, 2)
	// slope = 176.5 * (-0.7 / 100)
	assert.InDelta(t, 176.5-1.2355, preds[0].Value, 1e-9)
	assert.InDelta(t, 176.5-2*1.2355, preds[1].Value, 1e-9)
}

func TestAnalyzer_ForecastCalorie(t *testing.T) {
	analyzer, repoMock, caloriesMock, tdeeMock := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return([]bodyweight.Entry{
		{ID: 1, Date: day("2024-05-01"), WeightLbs: 181},
		{ID: 2, Date: day("2024-05-02"), WeightLbs: 180},
	}, nil)
	// a steady 500 kcal daily deficit
	caloriesMock.EXPECT().DailyCalories(gomock.Any()).Return(forecast.NewSeries([]forecast.RawObservation{
		{Date: "2024-05-01", Value: 1700},
		{Date: "2024-05-02", Value: 1700},
	}), nil)
	tdeeMock.EXPECT().TDEEForWeightLbs(gomock.Any(), float64(180)).Return(2200.0, nil)

	series, err := analyzer.ForecastCalorie(context.Background(), 2, 7)
	require.NoError(t, err)

	require.Len(t, series.Actuals(), 2)
	preds := series.Predictions()
	require.Len(t, preds, 2)

	// -500 kcal/day, damped and converted to pounds
	dailyLbs := -500.0 / forecast.KcalPerKg * forecast.DefaultAdaptationFactor * forecast.LbsPerKg
	assert.InDelta(t, 180+dailyLbs, preds[0].Value, 1e-9)
	assert.InDelta(t, 180+8*dailyLbs, preds[1].Value, 1e-9)
	assert.Equal(t, day("2024-05-03"), preds[0].Date)
	assert.Equal(t, day("2024-05-10"), preds[1].Date)
}

func TestAnalyzer_ForecastCalorie_NoMeals(t *testing.T) {
	analyzer, repoMock, caloriesMock, _ := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(weightEntries(), nil)
	caloriesMock.EXPECT().DailyCalories(gomock.Any()).Return(nil, nil)

	series, err := analyzer.ForecastCalorie(context.Background(), 4, 7)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestAnalyzer_ForecastCalorie_NoWeights(t *testing.T) {
	analyzer, repoMock, _, _ := newTestAnalyzer(t)

	repoMock.EXPECT().ListAll(gomock.Any(), bodyweight.EntryParams{}).Return(nil, nil)

	series, err := analyzer.ForecastCalorie(context.Background(), 4, 7)
	require.NoError(t, err)
	assert.Empty(t, series)
}
