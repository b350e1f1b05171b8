// Package sentiment wraps the movie sentiment API: sessions, the movie
// list, per-movie analysis, media and user reviews.
package sentiment

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
)

const (
	DefaultSessionCookie = "session"
	maxResponseBytes     = 8 << 20
)

// ErrNoMedia is returned when the API has no poster for a movie.
var ErrNoMedia = errors.New("no media available")

// RejectedError is a response with success=false. Message is the text the
// API supplied for the user.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return "api rejected request: " + e.Message + " code=" + strconv.Itoa(e.Status)
}

// UserMessage returns the server supplied text for rejections and
// fallback for everything else.
func UserMessage(err error, fallback string) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && strings.TrimSpace(rejected.Message) != "" {
		return rejected.Message
	}
	return fallback
}

func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

type Client struct {
	baseURL       string
	sessionCookie string
	http          *http.Client
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func New(baseURL, sessionCookie string, timeout time.Duration) *Client {
	if strings.TrimSpace(sessionCookie) == "" {
		sessionCookie = DefaultSessionCookie
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		sessionCookie: sessionCookie,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// SessionCookie is the name of the API cookie that carries the session.
func (c *Client) SessionCookie() string { return c.sessionCookie }

// SessionCookies filters cookies down to the API session cookie.
func (c *Client) SessionCookies(cookies []*http.Cookie) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range cookies {
		if ck.Name == c.sessionCookie {
			out = append(out, ck)
		}
	}
	return out
}

// CheckSession never fails: any error is reported as logged out.
func (c *Client) CheckSession(ctx context.Context, cookies []*http.Cookie) (Session, error) {
	var payload struct {
		LoggedIn bool `json:"logged_in"`
		User     struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/check-session", cookies, nil, &payload); err != nil {
		return Session{}, err
	}
	if !payload.LoggedIn {
		return Session{}, nil
	}
	return Session{LoggedIn: true, Username: payload.User.Username}, nil
}

// Login returns the server message and the cookies the API set.
func (c *Client) Login(ctx context.Context, cookies []*http.Cookie, creds Credentials) (string, []*http.Cookie, error) {
	var payload envelope
	set, err := c.do(ctx, http.MethodPost, "/api/login", cookies, creds, &payload)
	if err != nil {
		return "", nil, err
	}
	return payload.Message, c.SessionCookies(set), nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	var payload envelope
	if _, err := c.do(ctx, http.MethodPost, "/api/register", nil, reg, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

func (c *Client) Logout(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error) {
	set, err := c.do(ctx, http.MethodPost, "/api/logout", cookies, nil, nil)
	if err != nil {
		return nil, err
	}
	return c.SessionCookies(set), nil
}

func (c *Client) Movies(ctx context.Context) ([]catalog.Movie, error) {
	var payload struct {
		Movies []catalog.Movie `json:"movies"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/movies", nil, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Movies == nil {
		payload.Movies = []catalog.Movie{}
	}
	return payload.Movies, nil
}

func (c *Client) Analyze(ctx context.Context, cookies []*http.Cookie, movieID string) (*Analysis, error) {
	var payload struct {
		NoReviews     bool          `json:"no_reviews"`
		Message       string        `json:"message"`
		Movie         AnalyzedMovie `json:"movie"`
		Analysis      Stats         `json:"analysis"`
		SampleReviews Samples       `json:"sample_reviews"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/analyze/"+url.PathEscape(movieID), cookies, nil, &payload); err != nil {
		return nil, err
	}
	out := &Analysis{
		NoReviews: payload.NoReviews,
		Message:   payload.Message,
		Movie:     payload.Movie,
	}
	if !payload.NoReviews {
		out.Stats = payload.Analysis
		out.Samples = payload.SampleReviews
	}
	return out, nil
}

// Media is best effort: every failure, including a missing poster, is
// reported as ErrNoMedia wrapping the cause.
func (c *Client) Media(ctx context.Context, movieID string) (*Media, error) {
	var payload Media
	if _, err := c.do(ctx, http.MethodGet, "/api/movie-media/"+url.PathEscape(movieID), nil, nil, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoMedia, err)
	}
	if strings.TrimSpace(payload.Poster) == "" {
		return nil, ErrNoMedia
	}
	return &payload, nil
}

func (c *Client) UserReviews(ctx context.Context, cookies []*http.Cookie, movieID string) ([]UserReview, error) {
	var payload struct {
		Reviews []UserReview `json:"reviews"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/user-reviews/"+url.PathEscape(movieID), cookies, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Reviews, nil
}

func (c *Client) SubmitReview(ctx context.Context, cookies []*http.Cookie, sub ReviewSubmission) (string, error) {
	var payload envelope
	if _, err := c.do(ctx, http.MethodPost, "/api/submit-review", cookies, sub, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

func (c *Client) SearchHistory(ctx context.Context, cookies []*http.Cookie, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))

	var payload struct {
		History []HistoryEntry `json:"history"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/user/search-history?"+values.Encode(), cookies, nil, &payload); err != nil {
		return nil, err
	}
	return payload.History, nil
}

// do sends one request and checks the envelope before decoding the
// payload into out. It returns the cookies set by the response.
func (c *Client) do(ctx context.Context, method, path string, cookies []*http.Cookie, body, out any) ([]*http.Cookie, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.SessionCookies(cookies) {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if cerr := resp.Body.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if !env.Success {
		return nil, &RejectedError{
			Status:  resp.StatusCode,
			Message: cmp.Or(env.Message, env.Error),
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return resp.Cookies(), nil
}
