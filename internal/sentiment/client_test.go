package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "", time.Second)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestCheckSessionForwardsOnlySessionCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/check-session", r.URL.Path)
		sess, err := r.Cookie(DefaultSessionCookie)
		require.NoError(t, err)
		assert.Equal(t, "abc", sess.Value)
		_, err = r.Cookie("handoff")
		assert.ErrorIs(t, err, http.ErrNoCookie)
		writeBody(w, http.StatusOK, `{"success":true,"logged_in":true,"user":{"id":7,"username":"neo"}}`)
	})

	got, err := c.CheckSession(context.Background(), []*http.Cookie{
		{Name: DefaultSessionCookie, Value: "abc"},
		{Name: "handoff", Value: "tok"},
	})
	require.NoError(t, err)
	assert.Equal(t, Session{LoggedIn: true, Username: "neo"}, got)
}

func TestCheckSessionLoggedOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"success":true,"logged_in":false}`)
	})

	got, err := c.CheckSession(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, got.LoggedIn)
	assert.Empty(t, got.Username)
}

func TestLoginRelaysSessionCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, Credentials{Username: "neo", Password: "matrix"}, creds)

		http.SetCookie(w, &http.Cookie{Name: DefaultSessionCookie, Value: "signed", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "tracking", Value: "x"})
		writeBody(w, http.StatusOK, `{"success":true,"message":"Login successful"}`)
	})

	msg, cookies, err := c.Login(context.Background(), nil, Credentials{Username: "neo", Password: "matrix"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", msg)
	require.Len(t, cookies, 1)
	assert.Equal(t, "signed", cookies[0].Value)
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusUnauthorized, `{"success":false,"message":"Invalid username or password"}`)
	})

	_, _, err := c.Login(context.Background(), nil, Credentials{Username: "neo", Password: "nope"})
	require.Error(t, err)
	assert.True(t, IsRejected(err))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnauthorized, rejected.Status)
	assert.Equal(t, "Invalid username or password", UserMessage(err, "Login failed. Please try again."))
}

func TestTransportFailureUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, "", time.Second)

	_, err := c.Movies(context.Background())
	require.Error(t, err)
	assert.False(t, IsRejected(err))
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
}

func TestNonJSONErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Movies(context.Background())
	require.Error(t, err)
	assert.False(t, IsRejected(err))
	assert.ErrorContains(t, err, "502")
}

func TestMovies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies", r.URL.Path)
		writeBody(w, http.StatusOK, `{"success":true,"count":1,"movies":[
			{"id":"tt1160419","title":"Dune","rating":8.0,"genre":"Sci-Fi","year":2021}
		]}`)
	})

	movies, err := c.Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "tt1160419", movies[0].ID)
	assert.Equal(t, 2021, movies[0].Year)
	assert.InDelta(t, 8.0, movies[0].Rating, 0.001)
}

func TestAnalyzeFull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze/tt1", r.URL.Path)
		writeBody(w, http.StatusOK, `{
			"success": true,
			"movie": {"id":"tt1","title":"Dune","rating":8.0,"genre":"Sci-Fi","year":2021},
			"analysis": {
				"total_reviews": 4, "positive_count": 2, "neutral_count": 1, "negative_count": 1,
				"positive_percent": 50.0, "neutral_percent": 25.0, "negative_percent": 25.0,
				"verdict": "Mixed Reviews", "reason": "Opinions are divided."
			},
			"sample_reviews": {
				"positive": [{"review_title":"Great","review_text":"Loved it...","rating":9,"confidence":0.93,"sentiment":2}],
				"negative": []
			}
		}`)
	})

	a, err := c.Analyze(context.Background(), nil, "tt1")
	require.NoError(t, err)
	assert.False(t, a.NoReviews)
	assert.Equal(t, "Dune", a.Movie.Title)
	assert.Equal(t, 4, a.Stats.TotalReviews)
	assert.Equal(t, "Mixed Reviews", a.Stats.Verdict)
	require.Len(t, a.Samples.Positive, 1)
	assert.Equal(t, "Great", a.Samples.Positive[0].Title)
	assert.Empty(t, a.Samples.Negative)
}

func TestAnalyzeNoReviews(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{
			"success": true, "no_reviews": true,
			"movie": {"id":"tt9","title":"RRR","rating":7.8,"genre":"Action","year":2022,"poster_url":null},
			"message": "Sentiment analysis is not available."
		}`)
	})

	a, err := c.Analyze(context.Background(), nil, "tt9")
	require.NoError(t, err)
	assert.True(t, a.NoReviews)
	assert.Equal(t, "Sentiment analysis is not available.", a.Message)
	assert.Equal(t, "RRR", a.Movie.Title)
	assert.Zero(t, a.Stats)
}

func TestAnalyzeNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusNotFound, `{"success":false,"error":"Movie not found"}`)
	})

	_, err := c.Analyze(context.Background(), nil, "tt404")
	require.Error(t, err)
	assert.Equal(t, "Movie not found", UserMessage(err, "Failed to analyze movie"))
}

func TestMedia(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/movie-media/tt1":
			writeBody(w, http.StatusOK, `{"success":true,"poster":"https://img/p.jpg","backdrop":null,"trailer":"https://yt/v"}`)
		case "/api/movie-media/tt2":
			writeBody(w, http.StatusOK, `{"success":true,"poster":null,"trailer":null}`)
		default:
			writeBody(w, http.StatusNotFound, `{"success":false}`)
		}
	})

	m, err := c.Media(context.Background(), "tt1")
	require.NoError(t, err)
	assert.Equal(t, "https://img/p.jpg", m.Poster)
	assert.Equal(t, "https://yt/v", m.Trailer)

	_, err = c.Media(context.Background(), "tt2")
	assert.ErrorIs(t, err, ErrNoMedia)

	_, err = c.Media(context.Background(), "tt3")
	assert.ErrorIs(t, err, ErrNoMedia)
	assert.True(t, IsRejected(err))
}

func TestUserReviewsAndSubmit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user-reviews/tt1":
			writeBody(w, http.StatusOK, `{"success":true,"reviews":[
				{"username":"neo","rating":8,"review_text":"Solid sci-fi epic.","created_at":"2025-01-02T10:00:00"}
			]}`)
		case "/api/submit-review":
			var sub ReviewSubmission
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
			if sub.Rating > 10 {
				writeBody(w, http.StatusBadRequest, `{"success":false,"message":"Rating must be between 1 and 10"}`)
				return
			}
			writeBody(w, http.StatusOK, `{"success":true,"message":"Review submitted successfully"}`)
		}
	})

	reviews, err := c.UserReviews(context.Background(), nil, "tt1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "neo", reviews[0].Username)

	msg, err := c.SubmitReview(context.Background(), nil, ReviewSubmission{MovieID: "tt1", Rating: 8, ReviewText: "Solid sci-fi epic."})
	require.NoError(t, err)
	assert.Equal(t, "Review submitted successfully", msg)

	_, err = c.SubmitReview(context.Background(), nil, ReviewSubmission{MovieID: "tt1", Rating: 11, ReviewText: "Solid sci-fi epic."})
	assert.Equal(t, "Rating must be between 1 and 10", UserMessage(err, "Failed to submit review. Please try again."))
}

func TestSearchHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/search-history", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeBody(w, http.StatusOK, `{"success":true,"history":[{"movie_id":"tt1","movie_title":"Dune","searched_at":"2025-01-02"}]}`)
	})

	history, err := c.SearchHistory(context.Background(), nil, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Dune", history[0].MovieTitle)
}

func TestUserMessageIgnoresBlankRejection(t *testing.T) {
	err := error(&RejectedError{Status: http.StatusNotFound})
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("x"), "fallback"))
}
