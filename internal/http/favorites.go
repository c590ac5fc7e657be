package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-kravets/plateful/internal/repository"
)

type favoriteResponse struct {
	Saved bool `json:"saved"`
}

func (s *Server) handleSaveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	recipeID := chi.URLParam(r, "id")
	if _, err := s.repo.Recipes.GetPublishedByID(r.Context(), recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("save favorite")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save favorite")
		return
	}

	added, err := s.repo.Favorites.Save(r.Context(), id.UserID, recipeID)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("save favorite")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save favorite")
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, favoriteResponse{Saved: true})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	recipeID := chi.URLParam(r, "id")
	if _, err := s.repo.Favorites.Remove(r.Context(), id.UserID, recipeID); err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("remove favorite")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove favorite")
		return
	}
	s.respondJSON(w, http.StatusOK, favoriteResponse{Saved: false})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	recipes, err := s.repo.Favorites.ListByUser(r.Context(), id.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.UserID).Msg("list favorites")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list favorites")
		return
	}

	items := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		items = append(items, s.toRecipeResponse(recipe))
	}
	s.respondJSON(w, http.StatusOK, recipeListResponse{Items: items})
}
