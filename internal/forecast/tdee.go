package forecast

import "strings"

// activityMultipliers maps activity categories to their TDEE
// multiplier over the basal rate.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very active": 1.9,
}

const defaultActivityMultiplier = 1.55

// EstimateTDEE computes the total daily energy expenditure estimate:
// Mifflin-St Jeor basal rate scaled by the activity multiplier.
// An unknown activity category falls back to moderate.
func EstimateTDEE(sex string, age int, heightCm, weightKg float64, activity string) float64 {
	sexConst := -161.0
	if strings.HasPrefix(strings.ToLower(sex), "m") {
		sexConst = 5.0
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age) + sexConst

	mult, ok := activityMultipliers[strings.ToLower(activity)]
	if !ok {
		mult = defaultActivityMultiplier
	}
	return bmr * mult
}

// ActivityCategories lists the known activity categories.
func ActivityCategories() []string {
	return []string{"sedentary", "light", "moderate", "active", "very active"}
}
