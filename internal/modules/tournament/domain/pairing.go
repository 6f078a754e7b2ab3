package domain

import "math/rand"

// PairRound builds the matches for one round from the given entrants:
// shuffle uniformly at random, pop one entrant for a bye when the count is
// odd, and pair the remainder sequentially. The bye match is created already
// done with the unpaired player as winner; paired matches start ongoing.
func PairRound(tournamentID int64, round int, entrants []string, rng *rand.Rand) []Match {
	shuffled := make([]string, len(entrants))
	copy(shuffled, entrants)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	matches := make([]Match, 0, (len(shuffled)+1)/2)

	if len(shuffled)%2 == 1 {
		bye := shuffled[len(shuffled)-1]
		shuffled = shuffled[:len(shuffled)-1]
		matches = append(matches, Match{
			TournamentID: tournamentID,
			Round:        round,
			WhiteID:      bye,
			WinnerID:     bye,
			Status:       MatchDone,
		})
	}

	for i := 0; i < len(shuffled); i += 2 {
		matches = append(matches, Match{
			TournamentID: tournamentID,
			Round:        round,
			WhiteID:      shuffled[i],
			BlackID:      shuffled[i+1],
			Status:       MatchOngoing,
		})
	}

	return matches
}

// TiebreakMatch is the replay issued for a drawn match: same round, colors
// swapped, flagged so a second draw resolves randomly instead of replaying
// forever.
func TiebreakMatch(drawn Match) Match {
	return Match{
		TournamentID: drawn.TournamentID,
		Round:        drawn.Round,
		WhiteID:      drawn.BlackID,
		BlackID:      drawn.WhiteID,
		Status:       MatchOngoing,
		IsTiebreak:   true,
	}
}
