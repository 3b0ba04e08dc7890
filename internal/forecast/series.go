package forecast

import (
	"math"
	"sort"
	"time"
)

// DateLayout is the wire format for observation dates.
const DateLayout = "2006-01-02"

// RawObservation is a single measurement as it arrives from the logs:
// a YYYY-MM-DD date string and a numeric value.
type RawObservation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Observation struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is an ordered sequence of observations, strictly increasing
// by timestamp. Built fresh per forecast call, never mutated after.
type Series []Observation

// NewSeries builds a clean Series out of raw log records:
// records with an invalid date or a non-finite value are dropped,
// for duplicate dates the last-arriving value wins, and the result
// is sorted ascending. An empty result means "insufficient data",
// it is not an error.
func NewSeries(records []RawObservation) Series {
	byDay := make(map[time.Time]float64)
	for _, rec := range records {
		day, err := time.Parse(DateLayout, rec.Date)
		if err != nil {
			continue
		}
		if math.IsNaN(rec.Value) || math.IsInf(rec.Value, 0) {
			continue
		}
		byDay[day] = rec.Value
	}

	if len(byDay) == 0 {
		return Series{}
	}

	s := make(Series, 0, len(byDay))
	for day, val := range byDay {
		s = append(s, Observation{Timestamp: day, Value: val})
	}
	sort.Slice(s, func(i, j int) bool {
		return s[i].Timestamp.Before(s[j].Timestamp)
	})
	return s
}

func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, obs := range s {
		values[i] = obs.Value
	}
	return values
}

// weeksFromStart returns the observation times as week-fractional
// offsets from the first observation.
func (s Series) weeksFromStart() []float64 {
	t := make([]float64, len(s))
	if len(s) == 0 {
		return t
	}
	start := s[0].Timestamp
	for i, obs := range s {
		t[i] = obs.Timestamp.Sub(start).Hours() / (24 * 7)
	}
	return t
}

// WeeklyAggregate is one ISO week of a series collapsed to a single
// value. Date is the last observation date within that week, so that
// forecasts resampled to weekly cadence still carry real dates.
type WeeklyAggregate struct {
	Year  int       `json:"year"`
	Week  int       `json:"week"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type WeeklySeries []WeeklyAggregate

// Series converts the weekly aggregates back into a Series anchored
// at each week's last observation date.
func (ws WeeklySeries) Series() Series {
	s := make(Series, len(ws))
	for i, wa := range ws {
		s[i] = Observation{Timestamp: wa.Date, Value: wa.Value}
	}
	return s
}

// WeeklyMax groups the series by ISO week and keeps the max value per week.
func WeeklyMax(s Series) WeeklySeries {
	return weeklyReduce(s, func(acc, v float64, first bool) float64 {
		if first || v > acc {
			return v
		}
		return acc
	}, false)
}

// WeeklySum groups the series by ISO week and sums the values per week.
func WeeklySum(s Series) WeeklySeries {
	return weeklyReduce(s, func(acc, v float64, first bool) float64 {
		return acc + v
	}, false)
}

// WeeklyMean groups the series by ISO week and averages the values per week.
func WeeklyMean(s Series) WeeklySeries {
	return weeklyReduce(s, func(acc, v float64, first bool) float64 {
		return acc + v
	}, true)
}

func weeklyReduce(s Series, reduce func(acc, v float64, first bool) float64, mean bool) WeeklySeries {
	type yearWeek struct {
		year, week int
	}

	accs := make(map[yearWeek]*WeeklyAggregate)
	counts := make(map[yearWeek]int)
	for _, obs := range s {
		year, week := obs.Timestamp.ISOWeek()
		key := yearWeek{year, week}
		agg, ok := accs[key]
		if !ok {
			accs[key] = &WeeklyAggregate{
				Year:  year,
				Week:  week,
				Date:  obs.Timestamp,
				Value: reduce(0, obs.Value, true),
			}
			counts[key] = 1
			continue
		}
		agg.Value = reduce(agg.Value, obs.Value, false)
		if obs.Timestamp.After(agg.Date) {
			agg.Date = obs.Timestamp
		}
		counts[key]++
	}

	out := make(WeeklySeries, 0, len(accs))
	for key, agg := range accs {
		if mean {
			agg.Value /= float64(counts[key])
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}
