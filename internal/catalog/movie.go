// Package catalog holds the cached movie list and the pure filter, sort
// and suggestion logic applied to it.
package catalog

import (
	"slices"
	"strings"
)

type Movie struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Genre  string  `json:"genre"`
	Rating float64 `json:"rating"`
}

// Genres splits the comma-joined genre string.
func (m Movie) Genres() []string {
	var out []string
	for _, g := range strings.Split(m.Genre, ",") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Options derives the filter option sets from the loaded list: unique
// genres ascending and unique years descending.
func Options(movies []Movie) (genres []string, years []int) {
	seenGenre := map[string]struct{}{}
	seenYear := map[int]struct{}{}
	for _, m := range movies {
		for _, g := range m.Genres() {
			seenGenre[g] = struct{}{}
		}
		seenYear[m.Year] = struct{}{}
	}

	genres = make([]string, 0, len(seenGenre))
	for g := range seenGenre {
		genres = append(genres, g)
	}
	slices.Sort(genres)

	years = make([]int, 0, len(seenYear))
	for y := range seenYear {
		years = append(years, y)
	}
	slices.SortFunc(years, func(a, b int) int { return b - a })
	return genres, years
}

func Find(movies []Movie, id string) (Movie, bool) {
	for _, m := range movies {
		if m.ID == id {
			return m, true
		}
	}
	return Movie{}, false
}

// FindTitle returns the movie whose title equals query, ignoring case and
// surrounding whitespace.
func FindTitle(movies []Movie, query string) (Movie, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Movie{}, false
	}
	for _, m := range movies {
		if strings.EqualFold(m.Title, query) {
			return m, true
		}
	}
	return Movie{}, false
}

// Suggest returns up to limit movies whose title contains query, in
// loaded order.
func Suggest(movies []Movie, query string, limit int) []Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}
	out := make([]Movie, 0, min(limit, len(movies)))
	for _, m := range movies {
		if !strings.Contains(strings.ToLower(m.Title), query) {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out
}
