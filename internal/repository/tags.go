package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/o-kravets/plateful/internal/domain"
)

// TagsRepository provides read access to the tag vocabulary.
type TagsRepository struct {
	pool *pgxpool.Pool
}

// List returns every tag ordered by name.
func (r *TagsRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]domain.Tag, 0)
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// linkTags upserts tag rows for the given names and links them to the recipe
// inside the caller's transaction. Blank and duplicate names are dropped.
func linkTags(ctx context.Context, tx pgx.Tx, recipeID string, names []string) ([]domain.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]domain.Tag, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := domain.Slugify(name)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		var tag domain.Tag
		err := tx.QueryRow(ctx, `
            INSERT INTO tags (id, name, slug)
            VALUES ($1,$2,$3)
            ON CONFLICT (slug) DO UPDATE SET name = tags.name
            RETURNING id, name, slug
        `, uuid.NewString(), name, slug).Scan(&tag.ID, &tag.Name, &tag.Slug)
		if err != nil {
			return nil, err
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO recipe_tags (recipe_id, tag_id)
            VALUES ($1,$2)
            ON CONFLICT DO NOTHING
        `, recipeID, tag.ID); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
