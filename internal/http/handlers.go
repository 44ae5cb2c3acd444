package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hperssn/reflex/internal/runner"
	"github.com/hperssn/reflex/internal/share"
)

// NewRouter wires the controller commands. staticDir, when it exists, is
// served at / for a browser front end.
func NewRouter(ctrl *runner.Controller, logger *zap.Logger, staticDir string) http.Handler {
	logger = logger.Named("http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", getState(ctrl))
		r.Post("/start", command(ctrl.Start))
		r.Post("/input", command(ctrl.Input))
		r.Post("/retry", command(ctrl.Retry))
		r.Post("/shortcut", command(ctrl.Shortcut))
		r.Get("/share", getShare(ctrl))
		r.Get("/events", StreamEvents(ctrl, logger))
	})

	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			fs := http.FileServer(http.Dir(staticDir))
			r.Handle("/static/*", http.StripPrefix("/static/", fs))
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			})
		}
	}

	return r
}

func getState(ctrl *runner.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, ctrl.Snapshot(), http.StatusOK)
	}
}

// command responds with the snapshot after the transition; inputs the
// current phase ignores still answer 200 with the unchanged state.
func command(apply func() runner.Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, apply(), http.StatusOK)
	}
}

func getShare(ctrl *runner.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		last, ok := ctrl.LastAttempt()
		if !ok {
			respondError(w, "no attempt recorded yet", http.StatusConflict)
			return
		}

		text := share.Text(last.Milliseconds)
		resp := struct {
			Title     string `json:"title"`
			Text      string `json:"text"`
			Clipboard string `json:"clipboard"`
		}{
			Title:     share.Title,
			Text:      text,
			Clipboard: share.WithURL(text, r.URL.Query().Get("url")),
		}

		respondJSON(w, resp, http.StatusOK)
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
