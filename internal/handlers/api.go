package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
	"github.com/handsomefox/movie-sentiment/internal/logger"
	"github.com/handsomefox/movie-sentiment/internal/view"
)

type moviesResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Movies  []catalog.Movie `json:"movies"`
	Genres  []string        `json:"genres,omitempty"`
	Years   []int           `json:"years,omitempty"`
}

func (h *Handler) cachedMovies(r *http.Request) ([]catalog.Movie, error) {
	movies, err := h.movies.Movies(r.Context())
	if err != nil {
		slog.Warn("api: load movies failed", logger.Error(err))
		return nil, badGateway(moviesLoadFailed)
	}
	return movies, nil
}

func (h *Handler) getAPISuggest(w http.ResponseWriter, r *http.Request) error {
	movies, err := h.cachedMovies(r)
	if err != nil {
		return err
	}

	limit := view.MaxSuggestions
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest("limit must be a positive integer")
		}
		limit = min(n, view.MaxSuggestions)
	}

	matches := catalog.Suggest(movies, r.URL.Query().Get("q"), limit)
	if matches == nil {
		matches = []catalog.Movie{}
	}
	writeJSON(w, http.StatusOK, &moviesResponse{Success: true, Count: len(matches), Movies: matches})
	return nil
}

// getAPICatalog applies the same filter and sort as the catalog page.
func (h *Handler) getAPICatalog(w http.ResponseWriter, r *http.Request) error {
	movies, err := h.cachedMovies(r)
	if err != nil {
		return err
	}

	genres, years := catalog.Options(movies)
	shown := catalog.Apply(movies, catalog.ParseFilter(r.URL.Query()))
	writeJSON(w, http.StatusOK, &moviesResponse{
		Success: true,
		Count:   len(shown),
		Movies:  shown,
		Genres:  genres,
		Years:   years,
	})
	return nil
}
