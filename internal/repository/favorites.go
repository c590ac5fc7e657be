package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/o-kravets/plateful/internal/domain"
)

// FavoritesRepository tracks which users saved which recipes.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

// Save marks a recipe as saved by the user. Saving twice is a no-op; the
// returned flag reports whether a new row was written.
func (r *FavoritesRepository) Save(ctx context.Context, userID, recipeID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
        INSERT INTO favorites (user_id, recipe_id)
        VALUES ($1,$2)
        ON CONFLICT (user_id, recipe_id) DO NOTHING
    `, userID, recipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes the user's saved marker for a recipe, reporting whether
// one existed.
func (r *FavoritesRepository) Remove(ctx context.Context, userID, recipeID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
        DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2
    `, userID, recipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's saved recipes, most recently saved first.
// Recipes that have since been unpublished are excluded.
func (r *FavoritesRepository) ListByUser(ctx context.Context, userID string) ([]domain.Recipe, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM favorites f
        JOIN recipes r ON r.id = f.recipe_id
        WHERE f.user_id = $1 AND r.status = $2
        ORDER BY f.created_at DESC, r.id DESC
    `, prefixedRecipeColumns("r"))

	rows, err := r.pool.Query(ctx, query, userID, domain.StatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}
