package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/o-kravets/plateful/internal/domain"
)

// RecipesRepository provides persistence helpers for recipe entities.
type RecipesRepository struct {
	pool *pgxpool.Pool
}

const recipeColumns = `
    id,
    title,
    slug,
    author_id,
    ingredients,
    instructions,
    status,
    publish,
    calories,
    cooking_time,
    popularity,
    rating,
    rating_count,
    created_at,
    updated_at
`

func prefixedRecipeColumns(alias string) string {
	parts := strings.Split(recipeColumns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

// RecipeCreateParams bundles the fields required to create a recipe.
type RecipeCreateParams struct {
	Title        string
	AuthorID     string
	Ingredients  string
	Instructions string
	Status       string
	Publish      *time.Time
	Calories     *int
	CookingTime  *int
	Tags         []string
}

// RecipeListFilters encapsulates search and pagination options for the
// published listing.
type RecipeListFilters struct {
	Query   *string
	TagSlug *string
	Limit   int
	Cursor  *RecipeCursor
}

// RecipeCursor allows stable pagination by publish/id.
type RecipeCursor struct {
	Publish time.Time `json:"publish"`
	ID      string    `json:"id"`
}

// RecipeListResult returns the paginated payload.
type RecipeListResult struct {
	Items      []domain.Recipe
	NextCursor *string
}

// Create inserts a new recipe row plus its tag links and returns the stored
// entity. The id and slug are generated here rather than in the database.
func (r *RecipesRepository) Create(ctx context.Context, params RecipeCreateParams) (domain.Recipe, error) {
	status := params.Status
	if status == "" {
		status = domain.StatusDraft
	}
	publish := time.Now().UTC()
	if params.Publish != nil {
		publish = params.Publish.UTC()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Recipe{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
        INSERT INTO recipes (id, title, slug, author_id, ingredients, instructions, status, publish, calories, cooking_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING %s
    `, recipeColumns)

	row := tx.QueryRow(ctx, query,
		uuid.NewString(),
		params.Title,
		domain.Slugify(params.Title),
		params.AuthorID,
		params.Ingredients,
		params.Instructions,
		status,
		publish,
		params.Calories,
		params.CookingTime,
	)
	recipe, err := scanRecipe(row)
	if err != nil {
		return domain.Recipe{}, err
	}

	tags, err := linkTags(ctx, tx, recipe.ID, params.Tags)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe.Tags = tags

	if err := tx.Commit(ctx); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// GetByID fetches a recipe by its identifier regardless of status.
func (r *RecipesRepository) GetByID(ctx context.Context, id string) (domain.Recipe, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE id = $1`, recipeColumns)
	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, err
	}
	if err := r.attachTags(ctx, &recipe); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// GetPublishedByID fetches a recipe visible to readers.
func (r *RecipesRepository) GetPublishedByID(ctx context.Context, id string) (domain.Recipe, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE id = $1 AND status = $2`, recipeColumns)
	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id, domain.StatusPublished))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, err
	}
	if err := r.attachTags(ctx, &recipe); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// GetPublishedBySlugDate resolves the canonical detail address
// /{year}/{month}/{day}/{slug}.
func (r *RecipesRepository) GetPublishedBySlugDate(ctx context.Context, year, month, day int, slug string) (domain.Recipe, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM recipes
        WHERE slug = $1
          AND status = $2
          AND date_part('year', publish) = $3
          AND date_part('month', publish) = $4
          AND date_part('day', publish) = $5
    `, recipeColumns)

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, slug, domain.StatusPublished, year, month, day))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, err
	}
	if err := r.attachTags(ctx, &recipe); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// List returns published recipes that match the provided filters, newest first.
func (r *RecipesRepository) List(ctx context.Context, filters RecipeListFilters) (RecipeListResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	} else if filters.Limit > 100 {
		filters.Limit = 100
	}

	where := []string{"status = 'published'"}
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Query != nil && strings.TrimSpace(*filters.Query) != "" {
		q := "%" + strings.TrimSpace(*filters.Query) + "%"
		where = append(where, fmt.Sprintf("title ILIKE %s", arg(q)))
	}
	if filters.TagSlug != nil && strings.TrimSpace(*filters.TagSlug) != "" {
		tagSlug := arg(strings.TrimSpace(*filters.TagSlug))
		where = append(where, fmt.Sprintf(
			"id IN (SELECT rt.recipe_id FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE t.slug = %s)", tagSlug))
	}
	if filters.Cursor != nil {
		cursorPublish := arg(filters.Cursor.Publish)
		cursorID := arg(filters.Cursor.ID)
		where = append(where, fmt.Sprintf("(publish, id) < (%s, %s)", cursorPublish, cursorID))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(recipeColumns)
	queryBuilder.WriteString(" FROM recipes WHERE ")
	queryBuilder.WriteString(strings.Join(where, " AND "))
	queryBuilder.WriteString(" ORDER BY publish DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", filters.Limit))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return RecipeListResult{}, err
	}
	defer rows.Close()

	items := make([]domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return RecipeListResult{}, err
		}
		items = append(items, recipe)
	}
	if err := rows.Err(); err != nil {
		return RecipeListResult{}, err
	}

	if err := r.attachTagsAll(ctx, items); err != nil {
		return RecipeListResult{}, err
	}

	var nextCursor *string
	if len(items) == filters.Limit {
		last := items[len(items)-1]
		token, err := encodeCursor(RecipeCursor{Publish: last.Publish, ID: last.ID})
		if err != nil {
			return RecipeListResult{}, err
		}
		nextCursor = &token
	}

	return RecipeListResult{Items: items, NextCursor: nextCursor}, nil
}

// Popular returns the top published recipes ordered by the popularity field.
func (r *RecipesRepository) Popular(ctx context.Context, limit int) ([]domain.Recipe, error) {
	if limit <= 0 {
		limit = 6
	}
	query := fmt.Sprintf(`
        SELECT %s FROM recipes
        WHERE status = $1
        ORDER BY popularity DESC, publish DESC
        LIMIT $2
    `, recipeColumns)

	rows, err := r.pool.Query(ctx, query, domain.StatusPublished, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Recipe, 0, limit)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Similar ranks published recipes sharing tags with the subject by the
// number of shared tags, then recency.
func (r *RecipesRepository) Similar(ctx context.Context, recipeID string, limit int) ([]domain.Recipe, error) {
	if limit <= 0 {
		limit = 3
	}
	query := fmt.Sprintf(`
        SELECT %s, COUNT(rt.tag_id) AS same_tags
        FROM recipes r
        JOIN recipe_tags rt ON rt.recipe_id = r.id
        WHERE rt.tag_id IN (SELECT tag_id FROM recipe_tags WHERE recipe_id = $1)
          AND r.id <> $1
          AND r.status = $2
        GROUP BY r.id
        ORDER BY same_tags DESC, r.publish DESC
        LIMIT $3
    `, prefixedRecipeColumns("r"))

	rows, err := r.pool.Query(ctx, query, recipeID, domain.StatusPublished, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Recipe, 0, limit)
	for rows.Next() {
		var sameTags int64
		recipe, err := scanRecipeExtra(rows, &sameTags)
		if err != nil {
			return nil, err
		}
		items = append(items, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RecipesRepository) attachTags(ctx context.Context, recipe *domain.Recipe) error {
	recipes := []domain.Recipe{*recipe}
	if err := r.attachTagsAll(ctx, recipes); err != nil {
		return err
	}
	*recipe = recipes[0]
	return nil
}

func (r *RecipesRepository) attachTagsAll(ctx context.Context, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}

	rows, err := r.pool.Query(ctx, `
        SELECT rt.recipe_id, t.id, t.name, t.slug
        FROM recipe_tags rt
        JOIN tags t ON t.id = rt.tag_id
        WHERE rt.recipe_id = ANY($1)
        ORDER BY t.name
    `, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byRecipe := make(map[string][]domain.Tag)
	for rows.Next() {
		var recipeID string
		var tag domain.Tag
		if err := rows.Scan(&recipeID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return err
		}
		byRecipe[recipeID] = append(byRecipe[recipeID], tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range recipes {
		recipes[i].Tags = byRecipe[recipes[i].ID]
	}
	return nil
}

func scanRecipe(row pgx.Row) (domain.Recipe, error) {
	return scanRecipeExtra(row)
}

func scanRecipeExtra(row pgx.Row, extra ...interface{}) (domain.Recipe, error) {
	var recipe domain.Recipe
	dest := []interface{}{
		&recipe.ID,
		&recipe.Title,
		&recipe.Slug,
		&recipe.AuthorID,
		&recipe.Ingredients,
		&recipe.Instructions,
		&recipe.Status,
		&recipe.Publish,
		&recipe.Calories,
		&recipe.CookingTime,
		&recipe.Popularity,
		&recipe.Rating,
		&recipe.RatingCount,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

func encodeCursor(c RecipeCursor) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeCursor parses a cursor token into a RecipeCursor.
func DecodeCursor(token string) (*RecipeCursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var cursor RecipeCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	return &cursor, nil
}
