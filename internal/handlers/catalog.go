package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
	"github.com/handsomefox/movie-sentiment/internal/logger"
	"github.com/handsomefox/movie-sentiment/internal/store"
	"github.com/handsomefox/movie-sentiment/internal/view"
)

const moviesLoadFailed = "Failed to load movies. Please check that the backend server is running."

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) error {
	st := h.state(r)

	movies, err := h.movies.Movies(r.Context())
	if err != nil {
		slog.Warn("catalog: load movies failed", logger.Error(err))
		return h.views.Page(w, http.StatusBadGateway, "catalog", view.CatalogLoadError(st.nav, moviesLoadFailed))
	}

	page := view.NewCatalog(st.nav, movies, catalog.ParseFilter(r.URL.Query()))
	return h.views.Page(w, http.StatusOK, "catalog", page)
}

// postSelectMovie hands the chosen movie to the search page through the
// handoff store.
func (h *Handler) postSelectMovie(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := movieParam(r)
	if err != nil {
		return err
	}

	movies, err := h.movies.Movies(ctx)
	if err != nil {
		slog.Warn("select movie: load movies failed", logger.Error(err))
		return badGateway(moviesLoadFailed)
	}
	movie, ok := catalog.Find(movies, id)
	if !ok {
		return notFound("Movie not found")
	}

	token, err := newToken()
	if err != nil {
		return internal(err)
	}
	if err := h.handoffs.Put(ctx, token, movie); err != nil {
		slog.Warn("select movie: store handoff failed", logger.Error(err))
		return internal(err)
	}

	setHandoffCookie(w, token, h.handoffTTL)
	redirect(w, r, "/search")
	return nil
}

// takeHandoff reads the pending selection, if any. The entry and the
// cookie are removed whatever the outcome so a back navigation does not
// replay it.
func (h *Handler) takeHandoff(w http.ResponseWriter, r *http.Request) (catalog.Movie, bool) {
	c, err := r.Cookie(handoffCookieName)
	if err != nil || c.Value == "" {
		return catalog.Movie{}, false
	}
	clearHandoffCookie(w)

	movie, err := h.handoffs.Take(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("take handoff failed", logger.Error(err))
		}
		return catalog.Movie{}, false
	}
	return movie, true
}
