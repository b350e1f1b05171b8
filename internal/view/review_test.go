package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsomefox/movie-sentiment/internal/sentiment"
)

func TestReviewFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		form    ReviewForm
		rating  int
		text    string
		wantErr error
	}{
		{name: "valid", form: ReviewForm{Rating: "8", Text: "  Really enjoyed it  "}, rating: 8, text: "Really enjoyed it"},
		{name: "exactly ten runes", form: ReviewForm{Rating: "1", Text: "éééééééééé"}, rating: 1, text: "éééééééééé"},
		{name: "missing text", form: ReviewForm{Rating: "7", Text: "   "}, wantErr: ErrReviewIncomplete},
		{name: "missing rating", form: ReviewForm{Text: "Long enough text"}, wantErr: ErrReviewIncomplete},
		{name: "too short after trim", form: ReviewForm{Rating: "7", Text: "  short  "}, wantErr: ErrReviewTooShort},
		{name: "rating above range", form: ReviewForm{Rating: "11", Text: "Long enough text"}, wantErr: ErrRatingRange},
		{name: "rating below range", form: ReviewForm{Rating: "0", Text: "Long enough text"}, wantErr: ErrRatingRange},
		{name: "rating not a number", form: ReviewForm{Rating: "7.5", Text: "Long enough text"}, wantErr: ErrRatingRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, text, err := tt.form.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rating, rating)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestReviewFormReset(t *testing.T) {
	f := ReviewForm{Rating: "3", Text: "something"}.Reset()
	assert.Equal(t, ReviewForm{Rating: "7"}, f)
}

func TestNewReviews(t *testing.T) {
	movie := MovieInfo{ID: "tt1", Title: "Dune"}
	got := NewReviews(movie, []sentiment.UserReview{
		{Username: "ann", Rating: 9, ReviewText: "Stunning visuals", CreatedAt: "2024-03-05 10:00:00"},
	}, true, NewReviewForm())

	assert.Equal(t, "tt1", got.MovieID)
	assert.Equal(t, "Dune", got.MovieTitle)
	assert.True(t, got.CanSubmit)
	assert.False(t, got.Empty())
	assert.Equal(t, ReviewCard{Username: "ann", Rating: 9, Text: "Stunning visuals", Date: "March 5, 2024"}, got.Items[0])

	opts := got.RatingOptions()
	require.Len(t, opts, 10)
	assert.Equal(t, "10", opts[0].Value)
	assert.Equal(t, "1", opts[9].Value)
	assert.True(t, opts[3].Selected, "default rating 7 is preselected")

	none := NewReviews(movie, nil, false, NewReviewForm())
	assert.True(t, none.Empty())
	assert.False(t, none.CanSubmit)
}
