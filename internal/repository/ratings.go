package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/o-kravets/plateful/internal/domain"
)

// RatingsRepository owns the (user, recipe) rating rows and the denormalized
// rating/rating_count fields on recipes. Those fields are written nowhere
// else, so after every Submit they equal the aggregate of the rating rows.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// Submit records value as userID's rating of the recipe and refreshes the
// recipe's aggregate fields, returning the recipe as stored afterwards.
//
// A resubmission by the same user overwrites the prior value instead of
// adding a row. The upsert and the aggregate refresh run in one transaction
// holding a row lock on the recipe, so concurrent submissions for the same
// recipe serialize while submissions for different recipes proceed in
// parallel. The mean is always recomputed from the full set of rating rows,
// never incrementally.
//
// Values outside [RatingMin, RatingMax] are dropped without error and the
// recipe is returned unchanged.
func (r *RatingsRepository) Submit(ctx context.Context, recipeID, userID string, value int) (domain.Recipe, error) {
	if !domain.ValidRatingValue(value) {
		return r.currentPublished(ctx, recipeID)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Recipe{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The FOR UPDATE lock keys on the recipe row, serializing the
	// upsert + recompute + write sequence per recipe.
	lockQuery := fmt.Sprintf(`SELECT %s FROM recipes WHERE id = $1 AND status = $2 FOR UPDATE`, recipeColumns)
	if _, err := scanRecipe(tx.QueryRow(ctx, lockQuery, recipeID, domain.StatusPublished)); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO recipe_ratings (recipe_id, user_id, value)
        VALUES ($1,$2,$3)
        ON CONFLICT (recipe_id, user_id)
        DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `, recipeID, userID, value)
	if err != nil {
		return domain.Recipe{}, err
	}

	refreshQuery := fmt.Sprintf(`
        UPDATE recipes
        SET rating = agg.mean,
            rating_count = agg.cnt,
            updated_at = now()
        FROM (
            SELECT COALESCE(AVG(value), 0)::float8 AS mean, COUNT(*)::int4 AS cnt
            FROM recipe_ratings
            WHERE recipe_id = $1
        ) AS agg
        WHERE id = $1
        RETURNING %s
    `, prefixedRecipeColumns("recipes"))

	recipe, err := scanRecipe(tx.QueryRow(ctx, refreshQuery, recipeID))
	if err != nil {
		return domain.Recipe{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// Get retrieves a rating for a specific user/recipe combination.
func (r *RatingsRepository) Get(ctx context.Context, recipeID, userID string) (domain.Rating, error) {
	const query = `
        SELECT recipe_id, user_id, value, created_at, updated_at
        FROM recipe_ratings
        WHERE recipe_id = $1 AND user_id = $2
    `
	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, recipeID, userID).Scan(
		&rating.RecipeID,
		&rating.UserID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

// Aggregate returns the denormalized rating average and count stored on the
// recipe, which Submit keeps equal to the aggregate of the rating rows.
func (r *RatingsRepository) Aggregate(ctx context.Context, recipeID string) (domain.RatingAggregate, error) {
	const query = `SELECT rating, rating_count::int8 FROM recipes WHERE id = $1`

	var agg domain.RatingAggregate
	err := r.pool.QueryRow(ctx, query, recipeID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.RatingAggregate{}, ErrNotFound
		}
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

// AggregateFromEntries recomputes the aggregate directly from the rating
// rows, bypassing the denormalized fields.
func (r *RatingsRepository) AggregateFromEntries(ctx context.Context, recipeID string) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(value), 0)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM recipe_ratings
        WHERE recipe_id = $1
    `

	var agg domain.RatingAggregate
	if err := r.pool.QueryRow(ctx, query, recipeID).Scan(&agg.Average, &agg.Count); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate rating entries: %w", err)
	}
	return agg, nil
}

func (r *RatingsRepository) currentPublished(ctx context.Context, recipeID string) (domain.Recipe, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE id = $1 AND status = $2`, recipeColumns)
	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, recipeID, domain.StatusPublished))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, err
	}
	return recipe, nil
}
