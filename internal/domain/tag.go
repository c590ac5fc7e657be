package domain

// Tag labels recipes for filtering and similarity ranking.
type Tag struct {
	ID   string
	Name string
	Slug string
}
