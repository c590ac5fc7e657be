package domain

import "time"

// RatingMin and RatingMax bound the accepted star values, inclusive.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating represents a single user's rating for a recipe. At most one row
// exists per (user, recipe) pair; resubmissions overwrite the value.
type Rating struct {
	RecipeID  string
	UserID    string
	Value     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRatingValue reports whether value is an accepted star value.
func ValidRatingValue(value int) bool {
	return value >= RatingMin && value <= RatingMax
}

// RatingAggregate provides average and count for a recipe's ratings.
type RatingAggregate struct {
	Average float64
	Count   int64
}
