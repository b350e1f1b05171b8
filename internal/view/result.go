package view

import (
	"fmt"
	"strconv"

	"github.com/handsomefox/movie-sentiment/internal/sentiment"
)

const (
	VerdictGood = "Good Movie"
	VerdictBad  = "Bad Movie"
)

// Bar is one sentiment class row: percentage, absolute count and a
// horizontal bar whose width is the percentage.
type Bar struct {
	Label   string
	Class   string
	Percent float64
	Count   int
}

func (b Bar) PercentText() string { return formatNumber(b.Percent) + "%" }

// Width is the CSS width of the bar.
func (b Bar) Width() string { return b.PercentText() }

func (b Bar) CountText() string {
	if b.Count == 1 {
		return "1 review"
	}
	return strconv.Itoa(b.Count) + " reviews"
}

type SampleCard struct {
	Title      string
	Text       string
	Rating     string
	Confidence string
}

type SampleGroup struct {
	Label string
	Class string
	Cards []SampleCard
}

// Empty reports whether the "No reviews available" placeholder shows.
func (g SampleGroup) Empty() bool { return len(g.Cards) == 0 }

type Result struct {
	Movie     MovieInfo
	NoReviews bool
	Message   string

	Verdict      string
	VerdictClass string
	Reason       string
	Bars         []Bar
	TotalReviews int
	Samples      []SampleGroup
}

func NewResult(a *sentiment.Analysis) *Result {
	if a == nil {
		return nil
	}
	movie := newMovieInfo(a.Movie.Movie)
	movie.PosterURL = a.Movie.PosterURL

	if a.NoReviews {
		return &Result{
			Movie:     movie,
			NoReviews: true,
			Message:   a.Message,
		}
	}

	s := a.Stats
	return &Result{
		Movie:        movie,
		Verdict:      s.Verdict,
		VerdictClass: verdictClass(s.Verdict),
		Reason:       s.Reason,
		TotalReviews: s.TotalReviews,
		Bars: []Bar{
			{Label: "Positive", Class: "positive", Percent: s.PositivePercent, Count: s.PositiveCount},
			{Label: "Neutral", Class: "neutral", Percent: s.NeutralPercent, Count: s.NeutralCount},
			{Label: "Negative", Class: "negative", Percent: s.NegativePercent, Count: s.NegativeCount},
		},
		Samples: []SampleGroup{
			newSampleGroup("Positive reviews", "positive", a.Samples.Positive),
			newSampleGroup("Negative reviews", "negative", a.Samples.Negative),
		},
	}
}

func verdictClass(verdict string) string {
	switch verdict {
	case VerdictGood:
		return "good"
	case VerdictBad:
		return "bad"
	default:
		return "mixed"
	}
}

func newSampleGroup(label, class string, reviews []sentiment.SampleReview) SampleGroup {
	g := SampleGroup{Label: label, Class: class}
	for i, r := range reviews {
		if i == MaxSamples {
			break
		}
		g.Cards = append(g.Cards, SampleCard{
			Title:      r.Title,
			Text:       r.Text,
			Rating:     formatNumber(r.Rating) + "/10",
			Confidence: fmt.Sprintf("%.1f%%", r.Confidence*100),
		})
	}
	return g
}

type Media struct {
	Poster  string
	Trailer string
}

func NewMedia(m *sentiment.Media) *Media {
	if m == nil || m.Poster == "" {
		return nil
	}
	return &Media{Poster: m.Poster, Trailer: m.Trailer}
}
