package catalog

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNone   SortKey = ""
	SortTitle  SortKey = "title"
	SortRating SortKey = "rating"
	SortYear   SortKey = "year"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortTitle, SortRating, SortYear:
		return true
	}
	return false
}

type Filter struct {
	Text  string
	Genre string
	Year  *int
	Sort  SortKey
}

// ParseFilter reads q, genre, year and sort. Unknown sort keys and
// unparsable years fall back to "no constraint".
func ParseFilter(values url.Values) Filter {
	f := Filter{
		Text:  values.Get("q"),
		Genre: strings.TrimSpace(values.Get("genre")),
		Sort:  SortKey(strings.TrimSpace(values.Get("sort"))),
	}
	if !f.Sort.Valid() {
		f.Sort = SortNone
	}
	if raw := strings.TrimSpace(values.Get("year")); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			f.Year = &year
		}
	}
	return f
}

func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Text != "" {
		v.Set("q", f.Text)
	}
	if f.Genre != "" {
		v.Set("genre", f.Genre)
	}
	if f.Year != nil {
		v.Set("year", strconv.Itoa(*f.Year))
	}
	if f.Sort != SortNone {
		v.Set("sort", string(f.Sort))
	}
	return v
}

func (f Filter) Match(m Movie) bool {
	text := strings.ToLower(strings.TrimSpace(f.Text))
	if text != "" && !strings.Contains(strings.ToLower(m.Title), text) {
		return false
	}
	if f.Genre != "" && !slices.Contains(m.Genres(), f.Genre) {
		return false
	}
	if f.Year != nil && m.Year != *f.Year {
		return false
	}
	return true
}

// Apply returns a new slice with the movies matching f, sorted by f.Sort.
// The input is never modified.
func Apply(movies []Movie, f Filter) []Movie {
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if f.Match(m) {
			out = append(out, m)
		}
	}

	switch f.Sort {
	case SortTitle:
		c := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b Movie) int {
			return c.CompareString(a.Title, b.Title)
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b Movie) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortYear:
		slices.SortStableFunc(out, func(a, b Movie) int {
			return cmp.Compare(b.Year, a.Year)
		})
	}
	return out
}
