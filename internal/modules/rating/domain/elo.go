package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	InitialRating = 1200.0
	DefaultK      = 32.0
)

type Player struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Rating    float64   `db:"rating" json:"rating"`
	Wins      int       `db:"wins" json:"wins"`
	Losses    int       `db:"losses" json:"losses"`
	Draws     int       `db:"draws" json:"draws"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Outcome int

const (
	OutcomeAWins Outcome = iota
	OutcomeBWins
	OutcomeDraw
)

// ExpectedScore is the standard logistic expectation for player A
// against player B.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// UpdateRatings returns the post-game ratings for both players. Both
// adjustments are computed against the passed-in pre-game ratings, so the
// second player's update does not depend on the first player's new value.
// An unknown outcome is a programming error, not a runtime condition.
func UpdateRatings(ratingA, ratingB float64, outcome Outcome, k float64) (float64, float64) {
	var scoreA, scoreB float64

	switch outcome {
	case OutcomeAWins:
		scoreA, scoreB = 1, 0
	case OutcomeBWins:
		scoreA, scoreB = 0, 1
	case OutcomeDraw:
		scoreA, scoreB = 0.5, 0.5
	default:
		panic(fmt.Sprintf("unknown outcome: %d", outcome))
	}

	expectedA := ExpectedScore(ratingA, ratingB)
	expectedB := ExpectedScore(ratingB, ratingA)

	return ratingA + k*(scoreA-expectedA), ratingB + k*(scoreB-expectedB)
}
