package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/o-kravets/plateful/internal/domain"
)

// CommentsRepository provides persistence helpers for reader comments.
type CommentsRepository struct {
	pool *pgxpool.Pool
}

// CommentCreateParams captures the payload required to store a comment.
type CommentCreateParams struct {
	RecipeID string
	Name     string
	Email    string
	Body     string
}

// Create stores a comment on a recipe. New comments are active by default.
func (r *CommentsRepository) Create(ctx context.Context, params CommentCreateParams) (domain.Comment, error) {
	const query = `
        INSERT INTO comments (id, recipe_id, name, email, body)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, recipe_id, name, email, body, active, created_at, updated_at
    `

	var comment domain.Comment
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), params.RecipeID, params.Name, params.Email, params.Body).Scan(
		&comment.ID,
		&comment.RecipeID,
		&comment.Name,
		&comment.Email,
		&comment.Body,
		&comment.Active,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

// ListActive returns a recipe's visible comments, oldest first.
func (r *CommentsRepository) ListActive(ctx context.Context, recipeID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, recipe_id, name, email, body, active, created_at, updated_at
        FROM comments
        WHERE recipe_id = $1 AND active
        ORDER BY created_at, id
    `

	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.RecipeID,
			&comment.Name,
			&comment.Email,
			&comment.Body,
			&comment.Active,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// Deactivate hides a comment from listings without deleting it.
func (r *CommentsRepository) Deactivate(ctx context.Context, commentID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET active = FALSE, updated_at = now() WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
