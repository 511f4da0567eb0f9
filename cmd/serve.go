package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/monitoring"
	"github.com/sells-group/lead-intel/internal/store"
)

var servePort int

const maxBodyBytes = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead enrichment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		if cfg.Monitoring.Enabled {
			checker := monitoring.NewChecker(env.Collector(), monitoring.NewAlerter(cfg.Monitoring), cfg.Monitoring)
			go checker.Run(ctx)
		}

		return startServer(ctx, buildRouter(env, cfg.Server.AllowedOrigins), resolvePort(servePort, cfg.Server.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// resolvePort prefers the --port flag over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves h on port until ctx is cancelled, then shuts down
// gracefully.
func startServer(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

type api struct {
	env       *leadEnv
	collector *monitoring.Collector
}

// buildRouter mounts the lead API on a chi router.
func buildRouter(env *leadEnv, allowedOrigins []string) http.Handler {
	a := &api{env: env, collector: env.Collector()}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", a.health)
	r.Post("/enrich", a.enrich)
	r.Post("/quickscore", a.quickScore)
	r.Get("/stats", a.stats)
	r.Get("/usage", a.usage)
	r.Get("/top", a.top)
	r.Get("/saved", a.listSaved)
	r.Route("/leads", func(r chi.Router) {
		r.Get("/", a.listLeads)
		r.Get("/{id}", a.getLead)
		r.Delete("/{id}", a.deleteLead)
		r.Post("/{id}/save", a.saveLead)
	})
	return r
}

// requestID tags each request with an ID and logs its outcome.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		zap.L().Debug("http request",
			zap.String("component", "api"),
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// writeStoreError maps store failures onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	zap.L().Error("store request failed",
		zap.String("component", "api"),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", validationMessages(err)...)
		return false
	}
	return true
}

// leadKey returns the URL-escaped lead key from the path.
func leadKey(r *http.Request) (string, bool) {
	key, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	if err := a.env.Store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) enrich(w http.ResponseWriter, r *http.Request) {
	var raw model.RawProfile
	if !decodeJSON(w, r, &raw) {
		return
	}

	lead := a.env.Enricher.EnrichOrBasic(r.Context(), raw)
	if err := a.env.record(r.Context(), lead); err != nil {
		zap.L().Warn("failed to save lead",
			zap.String("component", "api"),
			zap.String("name", lead.Name),
			zap.Error(err),
		)
	}
	writeJSON(w, http.StatusOK, lead)
}

type quickScoreRequest struct {
	Headline  string   `json:"headline" validate:"max=500"`
	Headlines []string `json:"headlines" validate:"max=100,dive,max=500"`
}

type quickScore struct {
	Headline string `json:"headline"`
	Score    int    `json:"score"`
	Class    string `json:"class"`
}

func (a *api) quickScore(w http.ResponseWriter, r *http.Request) {
	var req quickScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	headlines := req.Headlines
	if len(headlines) == 0 {
		headlines = []string{req.Headline}
	}
	writeJSON(w, http.StatusOK, map[string][]quickScore{"scores": quickScores(a.env.Enricher.Scorer(), headlines)})
}

func (a *api) listLeads(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLeadFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	leads, err := a.env.Store.ListLeads(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if leads == nil {
		leads = []*model.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}

func parseLeadFilter(q url.Values) (store.LeadFilter, error) {
	var f store.LeadFilter
	for name, dst := range map[string]*int{"min_score": &f.MinScore, "limit": &f.Limit, "offset": &f.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, eris.Errorf("%s must be a non-negative integer", name)
		}
		*dst = n
	}
	return f, nil
}

func (a *api) getLead(w http.ResponseWriter, r *http.Request) {
	key, ok := leadKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lead id")
		return
	}
	lead, err := a.env.Store.GetLead(r.Context(), key)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (a *api) deleteLead(w http.ResponseWriter, r *http.Request) {
	key, ok := leadKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lead id")
		return
	}
	if err := a.env.Store.DeleteLead(r.Context(), key); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) saveLead(w http.ResponseWriter, r *http.Request) {
	key, ok := leadKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lead id")
		return
	}
	saved, err := a.env.Store.SaveToList(r.Context(), key)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (a *api) listSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := a.env.Store.ListSaved(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if saved == nil {
		saved = []store.SavedLead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": saved, "count": len(saved)})
}

func (a *api) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.env.Store.Stats(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *api) usage(w http.ResponseWriter, r *http.Request) {
	snap, err := a.collector.Collect(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *api) top(w http.ResponseWriter, r *http.Request) {
	top, err := topLeads(r.Context(), a.env.Store, a.env.MinScore)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": top, "min_score": a.env.MinScore})
}
