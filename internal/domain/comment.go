package domain

import "time"

// Comment is a reader comment attached to a published recipe. Comments are
// submitted anonymously with a display name and email; inactive comments
// are hidden from listings but kept in storage.
type Comment struct {
	ID        string
	RecipeID  string
	Name      string
	Email     string
	Body      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
