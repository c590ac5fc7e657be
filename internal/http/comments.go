package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/o-kravets/plateful/internal/domain"
	"github.com/o-kravets/plateful/internal/repository"
)

type commentSubmitRequest struct {
	Name  string `json:"name" validate:"required,max=25"`
	Email string `json:"email" validate:"required,email"`
	Body  string `json:"body" validate:"required,max=2000"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCommentResponse(comment domain.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Name:      comment.Name,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "id")
	if _, err := s.repo.Recipes.GetPublishedByID(r.Context(), recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("list comments")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list comments")
		return
	}

	comments, err := s.repo.Comments.ListActive(r.Context(), recipeID)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("list comments")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list comments")
		return
	}

	items := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, toCommentResponse(comment))
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleSubmitComment(w http.ResponseWriter, r *http.Request) {
	var req commentSubmitRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	recipeID := chi.URLParam(r, "id")
	if _, err := s.repo.Recipes.GetPublishedByID(r.Context(), recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("submit comment")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit comment")
		return
	}

	comment, err := s.repo.Comments.Create(r.Context(), repository.CommentCreateParams{
		RecipeID: recipeID,
		Name:     req.Name,
		Email:    req.Email,
		Body:     req.Body,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("submit comment")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit comment")
		return
	}
	s.respondJSON(w, http.StatusCreated, toCommentResponse(comment))
}
