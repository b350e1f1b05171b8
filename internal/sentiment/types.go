package sentiment

import (
	"github.com/handsomefox/movie-sentiment/internal/catalog"
)

type Session struct {
	LoggedIn bool
	Username string
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Analysis is one /api/analyze response. When NoReviews is set only Movie
// and Message are meaningful.
type Analysis struct {
	NoReviews bool
	Message   string
	Movie     AnalyzedMovie
	Stats     Stats
	Samples   Samples
}

type AnalyzedMovie struct {
	catalog.Movie
	PosterURL string `json:"poster_url"`
}

type Stats struct {
	TotalReviews    int     `json:"total_reviews"`
	PositiveCount   int     `json:"positive_count"`
	NeutralCount    int     `json:"neutral_count"`
	NegativeCount   int     `json:"negative_count"`
	PositivePercent float64 `json:"positive_percent"`
	NeutralPercent  float64 `json:"neutral_percent"`
	NegativePercent float64 `json:"negative_percent"`
	Verdict         string  `json:"verdict"`
	Reason          string  `json:"reason"`
}

type Samples struct {
	Positive []SampleReview `json:"positive"`
	Negative []SampleReview `json:"negative"`
}

type SampleReview struct {
	Title          string  `json:"review_title"`
	Text           string  `json:"review_text"`
	Rating         float64 `json:"rating"`
	Confidence     float64 `json:"confidence"`
	Sentiment      int     `json:"sentiment"`
	SentimentLabel string  `json:"sentiment_label"`
}

type Media struct {
	Poster   string `json:"poster"`
	Backdrop string `json:"backdrop"`
	Trailer  string `json:"trailer"`
}

type UserReview struct {
	Username   string `json:"username"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
	CreatedAt  string `json:"created_at"`
}

type ReviewSubmission struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type HistoryEntry struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	SearchedAt string `json:"searched_at"`
}
