package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-kravets/plateful/internal/mail"
	"github.com/o-kravets/plateful/internal/repository"
)

type shareRequest struct {
	Name     string `json:"name" validate:"required,max=25"`
	Email    string `json:"email" validate:"required,email"`
	To       string `json:"to" validate:"required,email"`
	Comments string `json:"comments" validate:"max=2000"`
}

type shareResponse struct {
	Sent bool `json:"sent"`
}

func (s *Server) handleShareRecipe(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	recipeID := chi.URLParam(r, "id")
	recipe, err := s.repo.Recipes.GetPublishedByID(r.Context(), recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("share recipe")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to share recipe")
		return
	}

	body := fmt.Sprintf("Read %q at %s", recipe.Title, s.detailURL(recipe))
	if req.Comments != "" {
		body = fmt.Sprintf("%s\n\n%s's comments: %s", body, req.Name, req.Comments)
	}

	msg := mail.Message{
		From:     s.cfg.MailFrom,
		FromName: req.Name,
		ReplyTo:  req.Email,
		To:       req.To,
		Subject:  fmt.Sprintf("%s recommends you read %q", req.Name, recipe.Title),
		Body:     body,
	}
	if err := s.mailer.Send(r.Context(), msg); err != nil {
		if errors.Is(err, mail.ErrRejected) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Mail relay rejected the message")
			return
		}
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("share recipe")
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to send share email")
		return
	}

	s.respondJSON(w, http.StatusOK, shareResponse{Sent: true})
}
