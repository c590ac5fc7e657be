package httpserver

import "net/http"

type dashboardResponse struct {
	Recipes          int64 `json:"recipes"`
	PublishedRecipes int64 `json:"publishedRecipes"`
	Comments         int64 `json:"comments"`
	ActiveComments   int64 `json:"activeComments"`
	Ratings          int64 `json:"ratings"`
	Tags             int64 `json:"tags"`
	Favorites        int64 `json:"favorites"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	if !id.Staff {
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Staff access required")
		return
	}

	stats, err := s.repo.Stats.Dashboard(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("dashboard stats")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to gather dashboard stats")
		return
	}

	s.respondJSON(w, http.StatusOK, dashboardResponse{
		Recipes:          stats.Recipes,
		PublishedRecipes: stats.PublishedRecipes,
		Comments:         stats.Comments,
		ActiveComments:   stats.ActiveComments,
		Ratings:          stats.Ratings,
		Tags:             stats.Tags,
		Favorites:        stats.Favorites,
	})
}
