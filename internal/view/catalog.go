package view

import (
	"strconv"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type MovieCard struct {
	MovieInfo
}

type Catalog struct {
	Nav    Nav
	Text   string
	Genres []Option
	Years  []Option
	Sorts  []Option
	Cards  []MovieCard
	// NoResults is set when the filter excludes every loaded movie.
	NoResults bool
	// LoadError replaces the grid with an error panel and a Retry control.
	LoadError string
}

var sortOptions = []Option{
	{Value: string(catalog.SortNone), Label: "Default order"},
	{Value: string(catalog.SortTitle), Label: "Title (A-Z)"},
	{Value: string(catalog.SortRating), Label: "Rating (high to low)"},
	{Value: string(catalog.SortYear), Label: "Year (newest)"},
}

// NewCatalog applies f to the loaded movies and builds the page model.
// Option lists always come from the full list, not the filtered one.
func NewCatalog(nav Nav, movies []catalog.Movie, f catalog.Filter) Catalog {
	genres, years := catalog.Options(movies)
	visible := catalog.Apply(movies, f)

	out := Catalog{
		Nav:       nav,
		Text:      f.Text,
		Genres:    make([]Option, 0, len(genres)+1),
		Years:     make([]Option, 0, len(years)+1),
		Sorts:     make([]Option, 0, len(sortOptions)),
		Cards:     make([]MovieCard, 0, len(visible)),
		NoResults: len(visible) == 0,
	}

	out.Genres = append(out.Genres, Option{Value: "", Label: "All genres", Selected: f.Genre == ""})
	for _, g := range genres {
		out.Genres = append(out.Genres, Option{Value: g, Label: g, Selected: g == f.Genre})
	}

	out.Years = append(out.Years, Option{Value: "", Label: "All years", Selected: f.Year == nil})
	for _, y := range years {
		v := strconv.Itoa(y)
		out.Years = append(out.Years, Option{Value: v, Label: v, Selected: f.Year != nil && *f.Year == y})
	}

	for _, o := range sortOptions {
		o.Selected = o.Value == string(f.Sort)
		out.Sorts = append(out.Sorts, o)
	}

	for _, m := range visible {
		out.Cards = append(out.Cards, MovieCard{MovieInfo: newMovieInfo(m)})
	}
	return out
}

func CatalogLoadError(nav Nav, msg string) Catalog {
	return Catalog{Nav: nav, LoadError: msg}
}
