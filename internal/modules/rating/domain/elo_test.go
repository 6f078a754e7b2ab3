package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_UpdateRatings_EqualRatings_DecisiveResult(t *testing.T) {
	// Arrange
	ratingA, ratingB := 1200.0, 1200.0

	// Act
	newA, newB := UpdateRatings(ratingA, ratingB, OutcomeAWins, 32)

	// Assert
	require.InDelta(t, 1216.0, newA, 1e-9)
	require.InDelta(t, 1184.0, newB, 1e-9)
}

func Test_UpdateRatings_WinnerNeverLosesPoints(t *testing.T) {
	pairs := []struct {
		a, b float64
	}{
		{1200, 1200},
		{1200, 1800},
		{1800, 1200},
		{1000, 2400},
		{2400, 1000},
		{1500, 1501},
	}

	for _, pair := range pairs {
		newA, newB := UpdateRatings(pair.a, pair.b, OutcomeAWins, 32)
		require.GreaterOrEqual(t, newA, pair.a)
		require.LessOrEqual(t, newB, pair.b)

		newA, newB = UpdateRatings(pair.a, pair.b, OutcomeBWins, 32)
		require.LessOrEqual(t, newA, pair.a)
		require.GreaterOrEqual(t, newB, pair.b)
	}
}

func Test_UpdateRatings_Draw_FavorsLowerRatedPlayer(t *testing.T) {
	newA, newB := UpdateRatings(1800, 1200, OutcomeDraw, 32)

	require.Less(t, newA, 1800.0)
	require.Greater(t, newB, 1200.0)
}

func Test_UpdateRatings_Draw_EqualRatings_NoChange(t *testing.T) {
	newA, newB := UpdateRatings(1400, 1400, OutcomeDraw, 32)

	require.InDelta(t, 1400.0, newA, 1e-9)
	require.InDelta(t, 1400.0, newB, 1e-9)
}

func Test_ExpectedScore_SumsToOne(t *testing.T) {
	require.InDelta(t, 1.0, ExpectedScore(1700, 1300)+ExpectedScore(1300, 1700), 1e-9)
	require.InDelta(t, 0.5, ExpectedScore(1200, 1200), 1e-9)
}
