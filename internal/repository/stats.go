package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository supplies the staff dashboard counters.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// DashboardStats is a snapshot of site activity.
type DashboardStats struct {
	Recipes          int64
	PublishedRecipes int64
	Comments         int64
	ActiveComments   int64
	Ratings          int64
	Tags             int64
	Favorites        int64
}

// Dashboard gathers the counters in a single round trip.
func (r *StatsRepository) Dashboard(ctx context.Context) (DashboardStats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM recipes),
            (SELECT COUNT(*) FROM recipes WHERE status = 'published'),
            (SELECT COUNT(*) FROM comments),
            (SELECT COUNT(*) FROM comments WHERE active),
            (SELECT COUNT(*) FROM recipe_ratings),
            (SELECT COUNT(*) FROM tags),
            (SELECT COUNT(*) FROM favorites)
    `

	var stats DashboardStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Recipes,
		&stats.PublishedRecipes,
		&stats.Comments,
		&stats.ActiveComments,
		&stats.Ratings,
		&stats.Tags,
		&stats.Favorites,
	)
	if err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
