package view

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/handsomefox/movie-sentiment/internal/sentiment"
)

const (
	DefaultRating   = "7"
	MinReviewLength = 10
)

// Messages are shown to users verbatim.
//
//nolint:staticcheck
var (
	ErrReviewIncomplete = errors.New("Please provide both rating and review")
	ErrReviewTooShort   = errors.New("Please write a review of at least 10 characters")
	ErrRatingRange      = errors.New("Rating must be a whole number between 1 and 10")
)

type ReviewForm struct {
	Rating string
	Text   string
}

func NewReviewForm() ReviewForm { return ReviewForm{Rating: DefaultRating} }

// Validate checks the form before anything is sent and returns the parsed
// rating and trimmed text.
func (f ReviewForm) Validate() (int, string, error) {
	rating := strings.TrimSpace(f.Rating)
	text := strings.TrimSpace(f.Text)
	if rating == "" || text == "" {
		return 0, "", ErrReviewIncomplete
	}
	if utf8.RuneCountInString(text) < MinReviewLength {
		return 0, "", ErrReviewTooShort
	}
	n, err := strconv.Atoi(rating)
	if err != nil || n < 1 || n > 10 {
		return 0, "", ErrRatingRange
	}
	return n, text, nil
}

// Reset restores the default rating and clears the text.
func (f ReviewForm) Reset() ReviewForm { return NewReviewForm() }

type ReviewCard struct {
	Username string
	Rating   int
	Text     string
	Date     string
}

type Reviews struct {
	MovieID    string
	MovieTitle string
	Items      []ReviewCard
	CanSubmit  bool
	Form       ReviewForm
	// Alert is shown as a blocking alert after a submission attempt.
	Alert string
	// Notice confirms a successful submission.
	Notice string
}

func (r *Reviews) Empty() bool { return len(r.Items) == 0 }

func (r *Reviews) RatingOptions() []Option {
	out := make([]Option, 0, 10)
	for i := 10; i >= 1; i-- {
		v := strconv.Itoa(i)
		out = append(out, Option{Value: v, Label: v, Selected: v == r.Form.Rating})
	}
	return out
}

func NewReviews(movie MovieInfo, reviews []sentiment.UserReview, loggedIn bool, form ReviewForm) *Reviews {
	out := &Reviews{
		MovieID:    movie.ID,
		MovieTitle: movie.Title,
		Items:      make([]ReviewCard, 0, len(reviews)),
		CanSubmit:  loggedIn,
		Form:       form,
	}
	for _, r := range reviews {
		out.Items = append(out.Items, ReviewCard{
			Username: r.Username,
			Rating:   r.Rating,
			Text:     r.ReviewText,
			Date:     FormatDate(r.CreatedAt),
		})
	}
	return out
}

// Search is the search and analysis page.
type Search struct {
	Nav         Nav
	Query       string
	Error       *Banner
	Suggestions Suggestions
	Result      *Result
	Media       *Media
	Reviews     *Reviews
}

// Auth is the login or registration page.
type Auth struct {
	Nav      Nav
	Register bool
	Username string
	Email    string
	Error    string
	Success  string
	// RedirectURL with RedirectAfter > 0 schedules a delayed redirect.
	RedirectURL   string
	RedirectAfter int
}

type ErrorPage struct {
	Nav     Nav
	Status  int
	Message string
}
