package forecast

import "time"

const (
	// KcalPerKg is the energy density of one kilogram of body mass.
	KcalPerKg = 7700.0
	// DefaultAdaptationFactor damps naive energy arithmetic: caloric
	// deficits produce less mass change than the 7700 kcal/kg rule
	// predicts, mostly due to metabolic adaptation.
	DefaultAdaptationFactor = 0.75
	DefaultSmoothDays       = 7

	LbsPerKg = 2.20462

	day = 24 * time.Hour

	// recentBandDays: the energy-path band comes from the sample
	// standard deviation of the most recent observed weights.
	recentBandDays = 14
)

// EnergyOptions configures the energy-balance projection path.
type EnergyOptions struct {
	HorizonWeeks     int
	SmoothDays       int
	MaxAbsRatePct    float64
	AdaptationFactor float64
}

func (o *EnergyOptions) setDefaults() {
	if o.HorizonWeeks <= 0 {
		o.HorizonWeeks = DefaultHorizonWeeks
	}
	if o.SmoothDays <= 0 {
		o.SmoothDays = DefaultSmoothDays
	}
	if o.MaxAbsRatePct <= 0 {
		o.MaxAbsRatePct = DefaultMaxAbsRatePct
	}
	if o.AdaptationFactor <= 0 {
		o.AdaptationFactor = DefaultAdaptationFactor
	}
}

// DailyBalance maps a daily caloric intake series to the surplus or
// deficit against the given expenditure estimate (negative = deficit).
func DailyBalance(intake Series, tdeeKcal float64) Series {
	balance := make(Series, len(intake))
	for i, obs := range intake {
		balance[i] = Observation{
			Timestamp: obs.Timestamp,
			Value:     obs.Value - tdeeKcal,
		}
	}
	return balance
}

// CaloriesToMassChangeKg converts a caloric surplus or deficit into
// the expected body-mass change, damped by the adaptation factor.
func CaloriesToMassChangeKg(balanceKcal, adaptation float64) float64 {
	return balanceKcal / KcalPerKg * adaptation
}

// ForecastWeightEnergy projects body weight from logged caloric
// balance instead of the weight series' own trend: the smoothed
// latest daily balance becomes an expected daily mass change, clamped
// to the same weekly percentage bound as the trend path, projected
// daily and resampled to weekly output. The band width comes from the
// spread of the recent observed weights.
func ForecastWeightEnergy(weights, balance Series, opts EnergyOptions) ForecastSeries {
	if len(weights) == 0 || len(balance) == 0 {
		return ForecastSeries{}
	}
	opts.setDefaults()

	currLbs := weights[len(weights)-1].Value
	currKg := currLbs / LbsPerKg

	smoothed := trailingMean(balance.Values(), opts.SmoothDays)
	lastBalance := smoothed[len(smoothed)-1]

	// the weekly percentage bound, expressed as a per-day rate
	dailyKg := CaloriesToMassChangeKg(lastBalance, opts.AdaptationFactor)
	dailyKg = clampRate(dailyKg*7, currKg, opts.MaxAbsRatePct) / 7

	recent := weights.Values()
	if len(recent) > recentBandDays {
		recent = recent[len(recent)-recentBandDays:]
	}
	sd := sampleStdDev(recent)
	if len(recent) < 2 {
		sd = 1.0
	}
	half := zMultiplier * sd

	out := actualPoints(weights)
	lastDate := weights[len(weights)-1].Timestamp
	totalDays := 7 * opts.HorizonWeeks
	for d := 1; d <= totalDays; d += 7 {
		valueLbs := (currKg + dailyKg*float64(d)) * LbsPerKg
		out = append(out, ForecastPoint{
			Date:  lastDate.Add(time.Duration(d) * day),
			Value: valueLbs,
			Lower: valueLbs - half,
			Upper: valueLbs + half,
			Kind:  KindPred,
		})
	}
	return out
}
