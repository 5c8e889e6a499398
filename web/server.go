// Package web serves the catalog page over HTTP: an HTML page driven by
// links and forms, a JSON API over the same session state, and an image proxy.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"receitas/catalog"
	"receitas/config"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	SessionCookie = "receitas_session"

	sessionIdle = 12 * time.Hour
	sweepEvery  = 10 * time.Minute
)

type Server struct {
	sessions *catalog.Sessions[string]
	log      *zap.Logger
	client   *http.Client
	handler  http.Handler
}

// New builds the server. Page options (language, logger) apply to every session.
func New(store catalog.RecipeStore, cfg config.HTTPConfig, log *zap.Logger, opts ...catalog.Option) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		sessions: catalog.NewSessions[string](store, opts...),
		log:      log,
		client:   &http.Client{Timeout: 10 * time.Second},
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{id}", s.handleDetail).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{id}/favorite", s.handleFavoriteForm).Methods(http.MethodPost)
	r.HandleFunc("/close", s.handleClose).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/recipes", s.handleAPIList).Methods(http.MethodGet)
	api.HandleFunc("/recipes/{id}/favorite", s.handleAPIFavorite).Methods(http.MethodPost)

	r.HandleFunc("/image", s.handleImage).Methods(http.MethodGet)
	r.HandleFunc("/static/default-recipe.png", handlePlaceholder).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	s.handler = c.Handler(r)
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

// Run serves on addr until ctx is cancelled, sweeping idle sessions meanwhile.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ticker.C:
			if gone := s.sessions.Sweep(sessionIdle); len(gone) > 0 {
				s.log.Debug("sessions swept", zap.Int("count", len(gone)))
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			s.client.CloseIdleConnections()
			return err
		}
	}
}

// session returns the caller's session, issuing a cookie on first visit.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *catalog.Session {
	key := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			key = id.String()
		}
	}
	if key == "" {
		key = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    key,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s.sessions.Get(r.Context(), key)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
