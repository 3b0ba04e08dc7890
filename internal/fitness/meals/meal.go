package meals

import "time"

type Meal struct {
	ID        int       `json:"id"`
	Date      time.Time `json:"date"`
	Calories  float64   `json:"calories"`
	ProteinG  float64   `json:"proteinG"`
	CarbsG    float64   `json:"carbsG"`
	FatG      float64   `json:"fatG"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}
