package domain

import "time"

// Recipe status values stored in the database.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Recipe represents the canonical recipe entity in the database/service.
//
// Rating and RatingCount are denormalized aggregates over the recipe's
// rating rows. They are maintained exclusively by the ratings repository
// and always reflect the full current set of ratings.
type Recipe struct {
	ID           string
	Title        string
	Slug         string
	AuthorID     string
	Ingredients  string
	Instructions string
	Status       string
	Publish      time.Time
	Calories     *int
	CookingTime  *int
	Popularity   int
	Rating       float64
	RatingCount  int
	Tags         []Tag
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Published reports whether the recipe is visible to readers.
func (r Recipe) Published() bool {
	return r.Status == StatusPublished
}
