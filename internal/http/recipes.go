package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/o-kravets/plateful/internal/domain"
	"github.com/o-kravets/plateful/internal/repository"
)

type recipeCreateRequest struct {
	Title        string     `json:"title" validate:"required,max=250"`
	Ingredients  string     `json:"ingredients"`
	Instructions string     `json:"instructions"`
	Status       string     `json:"status" validate:"omitempty,oneof=draft published"`
	Publish      *time.Time `json:"publish"`
	Calories     *int       `json:"calories" validate:"omitempty,min=0"`
	CookingTime  *int       `json:"cookingTime" validate:"omitempty,min=0"`
	Tags         []string   `json:"tags" validate:"max=20,dive,max=50"`
}

type recipeListResponse struct {
	Items      []recipeResponse `json:"items"`
	NextCursor *string          `json:"nextCursor,omitempty"`
}

type recipeResponse struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	URL          string        `json:"url"`
	AuthorID     string        `json:"authorId"`
	Ingredients  string        `json:"ingredients"`
	Instructions string        `json:"instructions"`
	Status       string        `json:"status"`
	Publish      time.Time     `json:"publish"`
	Calories     *int          `json:"calories,omitempty"`
	CookingTime  *int          `json:"cookingTime,omitempty"`
	Rating       float64       `json:"rating"`
	RatingCount  int           `json:"ratingCount"`
	Tags         []tagResponse `json:"tags,omitempty"`
}

type tagResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type recipeDetailResponse struct {
	Recipe   recipeResponse    `json:"recipe"`
	Similar  []recipeResponse  `json:"similar"`
	Comments []commentResponse `json:"comments"`
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	filters, err := buildRecipeFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := s.repo.Recipes.List(r.Context(), filters)
	if err != nil {
		s.logger.Error().Err(err).Msg("list recipes")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list recipes")
		return
	}

	items := make([]recipeResponse, 0, len(result.Items))
	for _, recipe := range result.Items {
		items = append(items, s.toRecipeResponse(recipe))
	}

	resp := recipeListResponse{Items: items}
	if result.NextCursor != nil {
		resp.NextCursor = result.NextCursor
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func buildRecipeFilters(query url.Values) (repository.RecipeListFilters, error) {
	var filters repository.RecipeListFilters

	if q := strings.TrimSpace(query.Get("q")); q != "" {
		filters.Query = &q
	}
	if tag := strings.TrimSpace(query.Get("tag")); tag != "" {
		filters.TagSlug = &tag
	}
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil {
			return filters, fmt.Errorf("invalid limit value")
		}
		filters.Limit = limit
	}
	if val := strings.TrimSpace(query.Get("cursor")); val != "" {
		cursor, err := repository.DecodeCursor(val)
		if err != nil {
			return filters, fmt.Errorf("invalid cursor")
		}
		filters.Cursor = cursor
	}
	return filters, nil
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req recipeCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	recipe, err := s.repo.Recipes.Create(r.Context(), repository.RecipeCreateParams{
		Title:        strings.TrimSpace(req.Title),
		AuthorID:     id.UserID,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Status:       req.Status,
		Publish:      req.Publish,
		Calories:     req.Calories,
		CookingTime:  req.CookingTime,
		Tags:         req.Tags,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("create recipe")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create recipe")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/recipes/%s", url.PathEscape(recipe.ID)))
	s.respondJSON(w, http.StatusCreated, s.toRecipeResponse(recipe))
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "id")
	recipe, err := s.repo.Recipes.GetPublishedByID(r.Context(), recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("get recipe")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, s.toRecipeResponse(recipe))
}

func (s *Server) handlePopularRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.repo.Recipes.Popular(r.Context(), 6)
	if err != nil {
		s.logger.Error().Err(err).Msg("popular recipes")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list recipes")
		return
	}

	items := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		items = append(items, s.toRecipeResponse(recipe))
	}
	s.respondJSON(w, http.StatusOK, recipeListResponse{Items: items})
}

func (s *Server) handleRecipeDetail(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	month, err2 := strconv.Atoi(chi.URLParam(r, "month"))
	day, err3 := strconv.Atoi(chi.URLParam(r, "day"))
	slug, err4 := url.PathUnescape(chi.URLParam(r, "slug"))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || slug == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid detail address")
		return
	}

	recipe, err := s.repo.Recipes.GetPublishedBySlugDate(r.Context(), year, month, day, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("slug", slug).Msg("recipe detail")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch recipe")
		return
	}

	similar, err := s.repo.Recipes.Similar(r.Context(), recipe.ID, 3)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipe.ID).Msg("similar recipes")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch recipe")
		return
	}

	comments, err := s.repo.Comments.ListActive(r.Context(), recipe.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipe.ID).Msg("recipe comments")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch recipe")
		return
	}

	resp := recipeDetailResponse{
		Recipe:   s.toRecipeResponse(recipe),
		Similar:  make([]recipeResponse, 0, len(similar)),
		Comments: make([]commentResponse, 0, len(comments)),
	}
	for _, item := range similar {
		resp.Similar = append(resp.Similar, s.toRecipeResponse(item))
	}
	for _, comment := range comments {
		resp.Comments = append(resp.Comments, toCommentResponse(comment))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.repo.Tags.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list tags")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tags")
		return
	}

	items := make([]tagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, tagResponse{Name: tag.Name, Slug: tag.Slug})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) toRecipeResponse(recipe domain.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:           recipe.ID,
		Title:        recipe.Title,
		Slug:         recipe.Slug,
		URL:          s.detailURL(recipe),
		AuthorID:     recipe.AuthorID,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
		Status:       recipe.Status,
		Publish:      recipe.Publish,
		Calories:     recipe.Calories,
		CookingTime:  recipe.CookingTime,
		Rating:       recipe.Rating,
		RatingCount:  recipe.RatingCount,
	}
	for _, tag := range recipe.Tags {
		resp.Tags = append(resp.Tags, tagResponse{Name: tag.Name, Slug: tag.Slug})
	}
	return resp
}

// detailURL builds the canonical reader-facing address of a recipe.
func (s *Server) detailURL(recipe domain.Recipe) string {
	publish := recipe.Publish.UTC()
	return fmt.Sprintf("%s/recipes/%04d/%02d/%02d/%s",
		strings.TrimRight(s.cfg.SiteBaseURL, "/"),
		publish.Year(), int(publish.Month()), publish.Day(),
		url.PathEscape(recipe.Slug))
}
