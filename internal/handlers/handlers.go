// Package handlers wires HTTP routing and the page flows of the front end.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
	"github.com/handsomefox/movie-sentiment/internal/logger"
	"github.com/handsomefox/movie-sentiment/internal/sentiment"
	"github.com/handsomefox/movie-sentiment/internal/store"
	"github.com/handsomefox/movie-sentiment/internal/view"
)

const (
	defaultHandoffTTL = store.DefaultTTL
	historyLimit      = 10
)

type Handler struct {
	api         *sentiment.Client
	movies      *catalog.Cache
	handoffs    store.Handoffs
	handoffTTL  time.Duration
	views       *view.Renderer
	corsOrigins []string
}

type Config struct {
	API         *sentiment.Client
	Handoffs    store.Handoffs
	Views       *view.Renderer
	MoviesTTL   time.Duration
	HandoffTTL  time.Duration
	CORSOrigins []string
}

func New(cfg *Config) (*Handler, error) {
	if cfg.API == nil {
		return nil, errors.New("api client is required")
	}
	if cfg.Handoffs == nil {
		return nil, errors.New("handoff store is required")
	}
	if cfg.Views == nil {
		return nil, errors.New("renderer is required")
	}

	handoffTTL := cfg.HandoffTTL
	if handoffTTL <= 0 {
		handoffTTL = defaultHandoffTTL
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Handler{
		api:         cfg.API,
		movies:      catalog.NewCache(cfg.API.Movies, cfg.MoviesTTL),
		handoffs:    cfg.Handoffs,
		handoffTTL:  handoffTTL,
		views:       cfg.Views,
		corsOrigins: origins,
	}, nil
}

// Movies exposes the shared movie cache, e.g. for warming it at startup.
func (h *Handler) Movies() *catalog.Cache { return h.movies }

// pageState is resolved once per request and passed down explicitly to
// everything rendering that request.
type pageState struct {
	cookies []*http.Cookie
	session sentiment.Session
	nav     view.Nav

	movieID    string
	movieTitle string
}

// state asks the API for the session. The UI only reflects what the API
// reports, so a failed check renders as logged out.
func (h *Handler) state(r *http.Request) *pageState {
	if st, ok := r.Context().Value(stateKey{}).(*pageState); ok {
		return st
	}
	cookies := h.api.SessionCookies(r.Cookies())
	st := &pageState{cookies: cookies}
	sess, err := h.api.CheckSession(r.Context(), cookies)
	if err != nil {
		slog.Debug("session check failed", logger.Error(err))
		return st
	}
	st.session = sess
	st.nav = view.NewNav(sess)
	return st
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, b := range h.bindings() {
		handler := h.Adapt(b.Handle)
		if b.Auth {
			handler = h.MiddlewareRequireSession(handler)
		}
		r.Method(b.Method, b.Pattern, handler)
	}

	r.Method(http.MethodGet, "/readyz", http.HandlerFunc(h.getReady))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Method(http.MethodGet, "/suggest", AdaptJSON(h.getAPISuggest))
		r.Method(http.MethodGet, "/catalog", AdaptJSON(h.getAPICatalog))
	})

	r.NotFound(h.Adapt(func(w http.ResponseWriter, r *http.Request) error {
		return notFound("Page not found")
	}).ServeHTTP)
}

func (h *Handler) getReady(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.movies.Ready():
		writeJSON(w, http.StatusOK, &envelope{Success: true})
	default:
		writeJSON(w, http.StatusServiceUnavailable, &envelope{Success: false, Error: "movie list not loaded"})
	}
}
