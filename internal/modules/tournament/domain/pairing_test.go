package domain

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func entrants(n int) []string {
	players := make([]string, n)
	for i := range players {
		players[i] = fmt.Sprintf("player-%d", i)
	}
	return players
}

func Test_PairRound_OddEntrants_ExactlyOneBye(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	matches := PairRound(1, 1, entrants(5), rng)

	require.Len(t, matches, 3)

	byes := 0
	for _, m := range matches {
		if m.Bye() {
			byes++
			require.Equal(t, MatchDone, m.Status)
			require.Equal(t, m.WhiteID, m.WinnerID)
		} else {
			require.Equal(t, MatchOngoing, m.Status)
			require.Empty(t, m.WinnerID)
		}
	}
	require.Equal(t, 1, byes)
}

func Test_PairRound_EvenEntrants_NoByes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	matches := PairRound(1, 1, entrants(8), rng)

	require.Len(t, matches, 4)
	for _, m := range matches {
		require.False(t, m.Bye())
	}
}

func Test_PairRound_EveryEntrantAppearsExactlyOnce(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 13} {
		rng := rand.New(rand.NewSource(int64(n)))
		players := entrants(n)

		matches := PairRound(1, 1, players, rng)

		seen := make(map[string]int)
		for _, m := range matches {
			seen[m.WhiteID]++
			if !m.Bye() {
				seen[m.BlackID]++
			}
		}

		require.Len(t, seen, n)
		for _, p := range players {
			require.Equal(t, 1, seen[p], "entrant %s with %d players", p, n)
		}
	}
}

func Test_PairRound_DoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	players := entrants(6)

	PairRound(1, 1, players, rng)

	require.Equal(t, entrants(6), players)
}

func Test_TiebreakMatch_SwapsColors(t *testing.T) {
	drawn := Match{TournamentID: 3, Round: 2, WhiteID: "alice", BlackID: "bob", Status: MatchDone}

	tiebreak := TiebreakMatch(drawn)

	require.Equal(t, "bob", tiebreak.WhiteID)
	require.Equal(t, "alice", tiebreak.BlackID)
	require.Equal(t, 2, tiebreak.Round)
	require.True(t, tiebreak.IsTiebreak)
	require.Equal(t, MatchOngoing, tiebreak.Status)
	require.Empty(t, tiebreak.WinnerID)
}
