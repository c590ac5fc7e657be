package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/o-kravets/plateful/internal/store"
)

// ErrNotFound indicates the requested entity does not exist or is not published.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Recipes   *RecipesRepository
	Ratings   *RatingsRepository
	Comments  *CommentsRepository
	Favorites *FavoritesRepository
	Tags      *TagsRepository
	Stats     *StatsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Recipes:   &RecipesRepository{pool: pool},
		Ratings:   &RatingsRepository{pool: pool},
		Comments:  &CommentsRepository{pool: pool},
		Favorites: &FavoritesRepository{pool: pool},
		Tags:      &TagsRepository{pool: pool},
		Stats:     &StatsRepository{pool: pool},
	}
}
