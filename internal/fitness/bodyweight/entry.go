package bodyweight

import "time"

// Entry is a single body-weight measurement. GoalLbs optionally
// carries the goal weight valid from that date on.
type Entry struct {
	ID        int       `json:"id"`
	Date      time.Time `json:"date"`
	WeightLbs float64   `json:"weightLbs"`
	GoalLbs   *float64  `json:"goalLbs,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
