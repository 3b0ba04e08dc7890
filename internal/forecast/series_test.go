package forecast_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitforecast/internal/forecast"
)

func TestNewSeries(t *testing.T) {
	s := forecast.NewSeries([]forecast.RawObservation{
		{Date: "2024-01-08", Value: 179},
		{Date: "not-a-date", Value: 1},
		{Date: "2024-01-01", Value: 180},
		{Date: "2024-01-01", Value: 181}, // duplicate date, last wins
		{Date: "2024-01-15", Value: math.NaN()},
		{Date: "2024-01-22", Value: math.Inf(1)},
	})

	require.Len(t, s, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s[0].Timestamp)
	assert.Equal(t, 181.0, s[0].Value)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), s[1].Timestamp)
	assert.Equal(t, 179.0, s[1].Value)
}

func TestNewSeries_NoValidRecords(t *testing.T) {
	s := forecast.NewSeries([]forecast.RawObservation{
		{Date: "??", Value: 1},
		{Date: "2024-13-45", Value: 2},
	})
	require.NotNil(t, s)
	assert.Empty(t, s)

	assert.Empty(t, forecast.NewSeries(nil))
}

func TestWeeklyAggregates(t *testing.T) {
	s := forecast.NewSeries([]forecast.RawObservation{
		{Date: "2024-01-01", Value: 10}, // ISO week 1
		{Date: "2024-01-02", Value: 30}, // ISO week 1
		{Date: "2024-01-08", Value: 20}, // ISO week 2
	})
	require.Len(t, s, 3)

	maxes := forecast.WeeklyMax(s)
	require.Len(t, maxes, 2)
	assert.Equal(t, 2024, maxes[0].Year)
	assert.Equal(t, 1, maxes[0].Week)
	assert.Equal(t, 30.0, maxes[0].Value)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), maxes[0].Date)
	assert.Equal(t, 2, maxes[1].Week)
	assert.Equal(t, 20.0, maxes[1].Value)

	sums := forecast.WeeklySum(s)
	require.Len(t, sums, 2)
	assert.Equal(t, 40.0, sums[0].Value)
	assert.Equal(t, 20.0, sums[1].Value)

	means := forecast.WeeklyMean(s)
	require.Len(t, means, 2)
	assert.Equal(t, 20.0, means[0].Value)
	assert.Equal(t, 20.0, means[1].Value)

	weekly := maxes.Series()
	require.Len(t, weekly, 2)
	assert.Equal(t, maxes[0].Date, weekly[0].Timestamp)
	assert.Equal(t, maxes[0].Value, weekly[0].Value)
}

func TestSeries_Values(t *testing.T) {
	s := forecast.NewSeries([]forecast.RawObservation{
		{Date: "2024-01-01", Value: 1},
		{Date: "2024-01-02", Value: 2},
	})
	assert.Equal(t, []float64{1, 2}, s.Values())
}
