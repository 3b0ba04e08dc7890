package workouts

// ExerciseCatalog is the canonical exercise catalog, keyed by muscle group.
var ExerciseCatalog = map[string][]string{
	"Arms": {
		"Bicep Curl", "Hammer Curl", "EZ-Bar Curl",
		"Tricep Pushdown", "Overhead Tricep Extension",
	},
	"Chest":     {"Bench Press", "Incline DB Press", "Chest Fly"},
	"Back":      {"Lat Pulldown", "Barbell Row", "Seated Row"},
	"Shoulders": {"Overhead Press", "Lateral Raise", "Rear Delt Fly"},
	"Legs":      {"Back Squat", "Leg Press", "Romanian Deadlift", "Leg Extension"},
	"Core":      {"Cable Crunch", "Hanging Leg Raise", "Plank"},
}

// CatalogContains reports whether the given exercise is a known
// catalog exercise of the given muscle group.
func CatalogContains(muscleGroup, exercise string) bool {
	for _, e := range ExerciseCatalog[muscleGroup] {
		if e == exercise {
			return true
		}
	}
	return false
}
