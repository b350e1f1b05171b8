// Package view shapes API data into the models the page templates render.
// Nothing here performs I/O.
package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
	"github.com/handsomefox/movie-sentiment/internal/sentiment"
)

const (
	MaxSuggestions = 10
	MaxSamples     = 2
	BannerTimeout  = 5 * time.Second
)

type Nav struct {
	LoggedIn bool
	Username string
}

func NewNav(s sentiment.Session) Nav {
	if !s.LoggedIn {
		return Nav{}
	}
	return Nav{LoggedIn: true, Username: s.Username}
}

// Banner is a dismissible error that hides itself after HideAfter.
type Banner struct {
	Message   string
	HideAfter time.Duration
}

func NewBanner(msg string) *Banner {
	if msg == "" {
		return nil
	}
	return &Banner{Message: msg, HideAfter: BannerTimeout}
}

// HideAfterMillis is used by the page script.
func (b *Banner) HideAfterMillis() int64 { return b.HideAfter.Milliseconds() }

type MovieInfo struct {
	ID        string
	Title     string
	Year      int
	Genre     string
	Rating    string
	PosterURL string
}

func newMovieInfo(m catalog.Movie) MovieInfo {
	return MovieInfo{
		ID:     m.ID,
		Title:  m.Title,
		Year:   m.Year,
		Genre:  m.Genre,
		Rating: formatNumber(m.Rating),
	}
}

type Suggestion struct {
	ID    string
	Title string
	Meta  string
}

type Suggestions struct {
	Items []Suggestion
	// Empty means the query matched nothing and "No movies found" shows.
	Empty bool
	// Hidden means there is no query and the list is dismissed.
	Hidden bool
}

func NewSuggestions(query string, movies []catalog.Movie) Suggestions {
	if strings.TrimSpace(query) == "" {
		return Suggestions{Hidden: true}
	}
	matches := catalog.Suggest(movies, query, MaxSuggestions)
	if len(matches) == 0 {
		return Suggestions{Empty: true}
	}
	out := Suggestions{Items: make([]Suggestion, 0, len(matches))}
	for _, m := range matches {
		out.Items = append(out.Items, Suggestion{
			ID:    m.ID,
			Title: m.Title,
			Meta:  fmt.Sprintf("%d • %s • ⭐ %s", m.Year, m.Genre, formatNumber(m.Rating)),
		})
	}
	return out
}

type HistoryItem struct {
	MovieID string
	Title   string
	Date    string
}

type History struct {
	Nav   Nav
	Items []HistoryItem
	Error *Banner
}

func NewHistory(nav Nav, entries []sentiment.HistoryEntry) History {
	out := History{Nav: nav, Items: make([]HistoryItem, 0, len(entries))}
	for _, e := range entries {
		out.Items = append(out.Items, HistoryItem{
			MovieID: e.MovieID,
			Title:   e.MovieTitle,
			Date:    FormatDate(e.SearchedAt),
		})
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.DateOnly,
}

// FormatDate renders timestamps as "January 2, 2006". Unknown formats are
// returned unchanged.
func FormatDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return raw
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
