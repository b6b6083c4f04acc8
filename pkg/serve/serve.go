// Package serve exposes a catalog over HTTP so the HTTP source can be pointed
// at something local.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/filter"
	"tableflip.dev/shelf/pkg/timeutil"
)

// Config holds runtime options for the fixture server.
type Config struct {
	Address string
	Catalog *catalog.Store
	Log     *zap.Logger
}

// Handler builds the router: /healthz, /items and /items/{id}.
func Handler(store *catalog.Store, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger(log))
	router.Use(chimw.Recoverer)

	h := &handlers{store: store, log: log}
	router.Get("/healthz", h.health)
	router.Route("/items", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	return router
}

// New constructs the HTTP server.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      Handler(cfg.Catalog, cfg.Log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	srv := New(cfg)
	errCh := make(chan error, 1)
	go func() {
		cfg.Log.Info("serving catalog", zap.String("addr", cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type handlers struct {
	store *catalog.Store
	log   *zap.Logger
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// list serves the catalog, optionally narrowed by ?q=, ?tag= and ?within=.
func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Load(r.Context())
	if err != nil {
		h.fail(w, http.StatusBadGateway, err)
		return
	}
	window, _, err := timeutil.ParseWindow(r.URL.Query().Get("within"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	items = filter.Within(items, time.Now(), window)
	items = filter.Tagged(items, r.URL.Query().Get("tag"))
	items = filter.Filter(items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, errors.New("id must be an integer"))
		return
	}
	if _, err := h.store.Load(r.Context()); err != nil {
		h.fail(w, http.StatusBadGateway, err)
		return
	}
	it, ok := h.store.Find(id)
	if !ok {
		h.fail(w, http.StatusNotFound, errors.New("item not found"))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *handlers) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.Warn("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger emits one structured log line per request.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("remote_ip", r.RemoteAddr),
			)
		})
	}
}
