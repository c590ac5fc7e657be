package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-kravets/plateful/internal/auth"
	"github.com/o-kravets/plateful/internal/repository"
)

type ratingSubmitRequest struct {
	Value int `json:"value"`
}

type ratingResponse struct {
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
	MyRating    *int    `json:"myRating,omitempty"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req ratingSubmitRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	recipeID := chi.URLParam(r, "id")
	recipe, err := s.repo.Ratings.Submit(r.Context(), recipeID, id.UserID, req.Value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("submit rating")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit rating")
		return
	}

	s.respondJSON(w, http.StatusOK, ratingResponse{
		Rating:      recipe.Rating,
		RatingCount: recipe.RatingCount,
	})
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "id")
	recipe, err := s.repo.Recipes.GetPublishedByID(r.Context(), recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("get rating")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch rating")
		return
	}

	resp := ratingResponse{
		Rating:      recipe.Rating,
		RatingCount: recipe.RatingCount,
	}
	if id, ok := auth.FromContext(r.Context()); ok {
		if own, err := s.repo.Ratings.Get(r.Context(), recipeID, id.UserID); err == nil {
			resp.MyRating = &own.Value
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("get own rating")
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}
