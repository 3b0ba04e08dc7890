package workouts

import "time"

type Workout struct {
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	Exercise    string    `json:"exercise"`
	MuscleGroup string    `json:"muscleGroup"`
	Sets        int       `json:"sets"`
	Reps        int       `json:"reps"`
	WeightKg    float64   `json:"weightKg"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Volume is the total moved weight of the workout: sets * reps * weight.
func (w Workout) Volume() float64 {
	return float64(w.Sets) * float64(w.Reps) * w.WeightKg
}

// EstimatedOneRepMax returns the Epley estimate of the one-rep max:
// weight * (1 + reps/30). For a single rep it equals the lifted weight.
func (w Workout) EstimatedOneRepMax() float64 {
	if w.Reps <= 1 {
		return w.WeightKg
	}
	return w.WeightKg * (1 + float64(w.Reps)/30)
}
