package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
	"github.com/handsomefox/movie-sentiment/internal/logger"
	"github.com/handsomefox/movie-sentiment/internal/sentiment"
	"github.com/handsomefox/movie-sentiment/internal/view"
)

const (
	emptyQuery       = "Please enter a movie name"
	analyzeFailed    = "Failed to analyze movie"
	analyzeDown      = "Failed to analyze movie. Please check if the backend is running."
	reviewSubmitted  = "✅ Review submitted successfully!"
	reviewRejected   = "❌ "
	reviewSubmitDown = "Failed to submit review. Please try again."
)

// getSearch serves both the landing page and the search form. A pending
// catalog handoff wins over the query string.
func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	st := h.state(r)
	page := &view.Search{Nav: st.nav, Suggestions: view.Suggestions{Hidden: true}}

	if movie, ok := h.takeHandoff(w, r); ok {
		page.Query = movie.Title
		// The movie list must be in place before the analysis renders so
		// the suggestions and title lookups see the same catalog.
		if _, err := h.movies.Movies(ctx); err != nil {
			slog.Warn("search: movie list unavailable", logger.Error(err))
		}
		st.movieID, st.movieTitle = movie.ID, movie.Title
		h.analyze(ctx, st, page, view.NewReviewForm())
		return h.views.Page(w, http.StatusOK, "search", page)
	}

	q, searched := r.URL.Query()["q"]
	if !searched {
		return h.views.Page(w, http.StatusOK, "search", page)
	}
	query := strings.TrimSpace(strings.Join(q, ""))
	page.Query = query
	if query == "" {
		page.Error = view.NewBanner(emptyQuery)
		return h.views.Page(w, http.StatusOK, "search", page)
	}

	movies, err := h.movies.Movies(ctx)
	if err != nil {
		slog.Warn("search: load movies failed", logger.Error(err))
		page.Error = view.NewBanner(moviesLoadFailed)
		return h.views.Page(w, http.StatusOK, "search", page)
	}
	if movie, ok := catalog.FindTitle(movies, query); ok {
		redirect(w, r, analyzePath(movie.ID))
		return nil
	}

	page.Error = view.NewBanner(fmt.Sprintf("Movie %q not found. Please select from suggestions.", query))
	page.Suggestions = view.NewSuggestions(query, movies)
	return h.views.Page(w, http.StatusOK, "search", page)
}

// getSuggest renders the suggestion list fragment for the search box.
func (h *Handler) getSuggest(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		return h.views.Fragment(w, http.StatusOK, "suggestions", view.Suggestions{Hidden: true})
	}

	movies, err := h.movies.Movies(r.Context())
	if err != nil {
		slog.Warn("suggest: load movies failed", logger.Error(err))
		return h.views.Fragment(w, http.StatusOK, "suggestions", view.Suggestions{Empty: true})
	}
	return h.views.Fragment(w, http.StatusOK, "suggestions", view.NewSuggestions(query, movies))
}

func (h *Handler) getAnalyze(w http.ResponseWriter, r *http.Request) error {
	id, err := movieParam(r)
	if err != nil {
		return err
	}

	st := h.state(r)
	st.movieID = id
	page := &view.Search{Nav: st.nav, Suggestions: view.Suggestions{Hidden: true}}

	h.analyze(r.Context(), st, page, view.NewReviewForm())
	if r.URL.Query().Get("reviewed") == "1" && page.Reviews != nil {
		page.Reviews.Notice = reviewSubmitted
		page.Reviews.Alert = reviewSubmitted
	}
	return h.views.Page(w, http.StatusOK, "search", page)
}

// postReview validates locally first; an invalid form never reaches the API.
func (h *Handler) postReview(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := movieParam(r)
	if err != nil {
		return err
	}
	if err := r.ParseForm(); err != nil {
		return badRequest("bad request")
	}

	st := h.state(r)
	st.movieID = id
	st.movieTitle = strings.TrimSpace(r.PostForm.Get("movie_title"))
	form := view.ReviewForm{Rating: r.PostForm.Get("rating"), Text: r.PostForm.Get("review_text")}

	alert := ""
	rating, text, err := form.Validate()
	if err != nil {
		alert = err.Error()
	} else {
		_, err = h.api.SubmitReview(ctx, st.cookies, sentiment.ReviewSubmission{
			MovieID:    id,
			MovieTitle: st.movieTitle,
			Rating:     rating,
			ReviewText: text,
		})
		switch {
		case err == nil:
			redirect(w, r, analyzePath(id)+"?reviewed=1")
			return nil
		case sentiment.IsRejected(err):
			alert = reviewRejected + sentiment.UserMessage(err, reviewSubmitDown)
		default:
			slog.Warn("submit review failed", slog.String("movie_id", id), logger.Error(err))
			alert = reviewSubmitDown
		}
	}

	page := &view.Search{Nav: st.nav, Suggestions: view.Suggestions{Hidden: true}}
	h.analyze(ctx, st, page, form)
	if page.Reviews != nil {
		page.Reviews.Alert = alert
	} else if page.Error == nil {
		page.Error = view.NewBanner(alert)
	}
	return h.views.Page(w, http.StatusOK, "search", page)
}

// analyze fills page with the analysis of st.movieID. Failures become the
// page banner rather than an error response.
func (h *Handler) analyze(ctx context.Context, st *pageState, page *view.Search, form view.ReviewForm) {
	a, err := h.api.Analyze(ctx, st.cookies, st.movieID)
	if err != nil {
		if sentiment.IsRejected(err) {
			page.Error = view.NewBanner(sentiment.UserMessage(err, analyzeFailed))
		} else {
			slog.Warn("analyze failed", slog.String("movie_id", st.movieID), logger.Error(err))
			page.Error = view.NewBanner(analyzeDown)
		}
		if page.Query == "" {
			page.Query = st.movieTitle
		}
		return
	}

	page.Result = view.NewResult(a)
	page.Query = page.Result.Movie.Title
	if a.NoReviews {
		return
	}

	movie := page.Result.Movie
	var (
		media   *sentiment.Media
		reviews []sentiment.UserReview
		hidden  bool
	)
	var g errgroup.Group
	g.Go(func() error {
		m, err := h.api.Media(ctx, st.movieID)
		if err != nil {
			if !errors.Is(err, sentiment.ErrNoMedia) {
				slog.Debug("media lookup failed", logger.Error(err))
			}
			return nil
		}
		media = m
		return nil
	})
	g.Go(func() error {
		rs, err := h.api.UserReviews(ctx, st.cookies, st.movieID)
		switch {
		case err == nil:
			reviews = rs
		case sentiment.IsRejected(err):
		default:
			slog.Warn("user reviews failed", slog.String("movie_id", st.movieID), logger.Error(err))
			hidden = true
		}
		return nil
	})
	_ = g.Wait()

	page.Media = view.NewMedia(media)
	if !hidden {
		page.Reviews = view.NewReviews(movie, reviews, st.session.LoggedIn, form)
	}
}
