package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
	"github.com/handsomefox/movie-sentiment/internal/sentiment"
	"github.com/handsomefox/movie-sentiment/internal/store"
	"github.com/handsomefox/movie-sentiment/internal/view"
	"github.com/handsomefox/movie-sentiment/internal/web"
)

const annToken = "tok-ann"

var annCookie = &http.Cookie{Name: sentiment.DefaultSessionCookie, Value: annToken}

var testMovies = []catalog.Movie{
	{ID: "tt1", Title: "Dune", Year: 2021, Genre: "Sci-Fi, Adventure", Rating: 8},
	{ID: "tt2", Title: "Alien", Year: 1979, Genre: "Horror, Sci-Fi", Rating: 8.5},
	{ID: "tt3", Title: "Blade Runner", Year: 1982, Genre: "Sci-Fi", Rating: 8.1},
	{ID: "tt4", Title: "Dune Part Two", Year: 2024, Genre: "Sci-Fi, Adventure", Rating: 8.5},
	{ID: "tt9", Title: "Obscure", Year: 2001, Genre: "Drama", Rating: 6.1},
}

const duneAnalysis = `{
	"success": true,
	"movie": {"id": "tt1", "title": "Dune", "year": 2021, "genre": "Sci-Fi, Adventure", "rating": 8},
	"analysis": {
		"total_reviews": 8,
		"positive_count": 5, "neutral_count": 1, "negative_count": 2,
		"positive_percent": 62.5, "neutral_percent": 12.5, "negative_percent": 25,
		"verdict": "Good Movie", "reason": "Most reviewers liked it"
	},
	"sample_reviews": {
		"positive": [{"review_title": "Epic", "review_text": "Loved the scale", "rating": 9, "confidence": 0.93}],
		"negative": []
	}
}`

const obscureAnalysis = `{
	"success": true,
	"no_reviews": true,
	"message": "No reviews found for this movie",
	"movie": {"id": "tt9", "title": "Obscure", "year": 2001, "genre": "Drama", "rating": 6.1}
}`

// fakeAPI stands in for the sentiment analysis API.
type fakeAPI struct {
	moviesDown  atomic.Bool
	reviewsDown atomic.Bool
	analyzeDown atomic.Bool

	mu           sync.Mutex
	calls        map[string]int
	submitted    []sentiment.ReviewSubmission
	submitReject string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func replyJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/check-session", func(w http.ResponseWriter, r *http.Request) {
		f.hit("check-session")
		if c, err := r.Cookie(sentiment.DefaultSessionCookie); err == nil && c.Value == annToken {
			reply(w, http.StatusOK, `{"success":true,"logged_in":true,"user":{"username":"ann"}}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"logged_in":false}`)
	})

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		f.hit("login")
		var creds sentiment.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "ann" || creds.Password != "secret" {
			reply(w, http.StatusUnauthorized, `{"success":false,"error":"Invalid credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sentiment.DefaultSessionCookie, Value: annToken, Path: "/"})
		reply(w, http.StatusOK, `{"success":true,"message":"Login successful"}`)
	})

	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		f.hit("register")
		var reg sentiment.Registration
		_ = json.NewDecoder(r.Body).Decode(&reg)
		if reg.Username == "taken" {
			reply(w, http.StatusBadRequest, `{"success":false,"error":"Username already exists"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"message":"Registration successful"}`)
	})

	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		f.hit("logout")
		http.SetCookie(w, &http.Cookie{Name: sentiment.DefaultSessionCookie, Value: "", Path: "/", MaxAge: -1})
		reply(w, http.StatusOK, `{"success":true}`)
	})

	mux.HandleFunc("GET /api/movies", func(w http.ResponseWriter, r *http.Request) {
		f.hit("movies")
		if f.moviesDown.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		replyJSON(w, map[string]any{"success": true, "movies": testMovies})
	})

	mux.HandleFunc("GET /api/analyze/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("analyze")
		if f.analyzeDown.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		switch r.PathValue("id") {
		case "tt1":
			reply(w, http.StatusOK, duneAnalysis)
		case "tt9":
			reply(w, http.StatusOK, obscureAnalysis)
		default:
			reply(w, http.StatusNotFound, `{"success":false,"error":"Movie not found"}`)
		}
	})

	mux.HandleFunc("GET /api/movie-media/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("media")
		reply(w, http.StatusOK, `{"success":true,"poster":"https://img.example/dune.jpg","trailer":"https://youtube.example/dune"}`)
	})

	mux.HandleFunc("GET /api/user-reviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("user-reviews")
		if f.reviewsDown.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"reviews":[{"username":"bob","rating":9,"review_text":"Stunning visuals","created_at":"2024-03-05 10:00:00"}]}`)
	})

	mux.HandleFunc("POST /api/submit-review", func(w http.ResponseWriter, r *http.Request) {
		f.hit("submit-review")
		var sub sentiment.ReviewSubmission
		_ = json.NewDecoder(r.Body).Decode(&sub)

		f.mu.Lock()
		reject := f.submitReject
		if reject == "" {
			f.submitted = append(f.submitted, sub)
		}
		f.mu.Unlock()

		if reject != "" {
			reply(w, http.StatusBadRequest, `{"success":false,"error":"`+reject+`"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"message":"Review submitted"}`)
	})

	mux.HandleFunc("GET /api/user/search-history", func(w http.ResponseWriter, r *http.Request) {
		f.hit("search-history")
		if r.URL.Query().Get("limit") != "10" {
			reply(w, http.StatusBadRequest, `{"success":false,"error":"bad limit"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"history":[{"movie_id":"tt1","movie_title":"Dune","searched_at":"2024-03-05T10:00:00Z"}]}`)
	})

	return mux
}

type testApp struct {
	api     *fakeAPI
	handler *Handler
	router  http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	api := newFakeAPI()
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)

	st, err := store.Open(":memory:", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	templates, err := web.Templates()
	require.NoError(t, err)
	views, err := view.NewRenderer(templates)
	require.NoError(t, err)

	h, err := New(&Config{
		API:       sentiment.New(srv.URL, "", 2*time.Second),
		Handoffs:  st,
		Views:     views,
		MoviesTTL: time.Minute,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return &testApp{api: api, handler: h, router: r}
}

func (a *testApp) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return a.send(http.MethodGet, target, nil, cookies...)
}

func (a *testApp) post(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return a.send(http.MethodPost, target, form, cookies...)
}

func (a *testApp) send(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) sendWithOrigin(target, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
