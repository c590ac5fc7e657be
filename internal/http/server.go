package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/o-kravets/plateful/internal/auth"
	"github.com/o-kravets/plateful/internal/config"
	"github.com/o-kravets/plateful/internal/mail"
	"github.com/o-kravets/plateful/internal/repository"
	"github.com/o-kravets/plateful/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	store    *store.Store
	repo     *repository.Repository
	mailer   mail.Sender
	verifier *auth.Verifier
	validate *validator.Validate
	logger   zerolog.Logger
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, mailer mail.Sender, verifier *auth.Verifier, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Recoverer)
	r.Use(verifier.Middleware)

	s := &Server{
		cfg:      cfg,
		store:    st,
		repo:     repo,
		mailer:   mailer,
		verifier: verifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		router:   r,
	}
	r.Use(s.logRequests)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	anonLimit := httprate.LimitByIP(s.cfg.AnonWriteRPM, time.Minute)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/tags", s.handleListTags)
	s.router.Route("/recipes", func(r chi.Router) {
		r.Get("/", s.handleListRecipes)
		r.Post("/", s.handleCreateRecipe)
		r.Get("/popular", s.handlePopularRecipes)
		r.Get("/{year:[0-9]+}/{month:[0-9]+}/{day:[0-9]+}/{slug}", s.handleRecipeDetail)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRecipe)
			r.Post("/ratings", s.handleSubmitRating)
			r.Get("/rating", s.handleGetRating)
			r.Get("/comments", s.handleListComments)
			r.With(anonLimit).Post("/comments", s.handleSubmitComment)
			r.With(anonLimit).Post("/share", s.handleShareRecipe)
			r.Put("/favorite", s.handleSaveFavorite)
			r.Delete("/favorite", s.handleRemoveFavorite)
		})
	})
	s.router.Get("/profile/favorites", s.handleListFavorites)
	s.router.Get("/dashboard", s.handleDashboard)
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
