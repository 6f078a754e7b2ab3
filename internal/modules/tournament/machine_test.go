package tournament

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"
	gamedomain "github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu          sync.Mutex
	tournaments map[int64]domain.Tournament
	players     map[int64][]string
	matches     map[int64]domain.Match
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tournaments: make(map[int64]domain.Tournament),
		players:     make(map[int64][]string),
		matches:     make(map[int64]domain.Match),
	}
}

func (s *fakeStore) CreateTournament(_ context.Context, scope, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.tournaments[s.nextID] = domain.Tournament{
		ID:     s.nextID,
		Scope:  scope,
		Name:   name,
		Status: domain.StatusCreated,
	}
	return s.nextID, nil
}

func (s *fakeStore) GetTournament(_ context.Context, id int64) (domain.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tournaments[id]
	if !ok {
		return domain.Tournament{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *fakeStore) SetTournamentStatus(_ context.Context, id int64, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tournaments[id]
	t.Status = status
	s.tournaments[id] = t
	return nil
}

func (s *fakeStore) AddPlayer(_ context.Context, tournamentID int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players[tournamentID] = append(s.players[tournamentID], userID)
	return nil
}

func (s *fakeStore) HasPlayer(_ context.Context, tournamentID int64, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.players[tournamentID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListPlayers(_ context.Context, tournamentID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.players[tournamentID]...), nil
}

func (s *fakeStore) CreateMatch(_ context.Context, match domain.Match) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	match.ID = s.nextID
	s.matches[match.ID] = match
	return match.ID, nil
}

func (s *fakeStore) GetMatch(_ context.Context, matchID int64) (domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[matchID]
	if !ok {
		return domain.Match{}, domain.ErrMatchNotFound
	}
	return match, nil
}

func (s *fakeStore) CompleteMatch(_ context.Context, matchID int64, winnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match := s.matches[matchID]
	match.Status = domain.MatchDone
	match.WinnerID = winnerID
	s.matches[matchID] = match
	return nil
}

func (s *fakeStore) ListMatches(_ context.Context, tournamentID int64) ([]domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []domain.Match
	for _, match := range s.matches {
		if match.TournamentID == tournamentID {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (s *fakeStore) RoundMatches(_ context.Context, tournamentID int64, round int) ([]domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []domain.Match
	for _, match := range s.matches {
		if match.TournamentID == tournamentID && match.Round == round {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

type silentAnnouncer struct{}

func (silentAnnouncer) Announce(context.Context, string) {}

func newTestMachine(store Store) (*Machine, *game.Registry) {
	registry := game.NewRegistry()
	machine := NewMachine(store, registry, silentAnnouncer{}, rand.New(rand.NewSource(1)), zap.NewNop())
	return machine, registry
}

func Test_Join_Rejects_Unknown_Tournament(t *testing.T) {
	machine, _ := newTestMachine(newFakeStore())

	err := machine.Join(context.Background(), 99, "alice")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func Test_Join_Rejects_Duplicate_Registration(t *testing.T) {
	store := newFakeStore()
	machine, _ := newTestMachine(store)
	id, err := machine.Create(context.Background(), "channel-1", "weekly")
	require.NoError(t, err)

	require.NoError(t, machine.Join(context.Background(), id, "alice"))
	err = machine.Join(context.Background(), id, "alice")

	require.ErrorIs(t, err, domain.ErrAlreadyJoined)
}

func Test_Join_Rejects_Started_Tournament(t *testing.T) {
	store := newFakeStore()
	machine, _ := newTestMachine(store)
	id, _ := machine.Create(context.Background(), "channel-1", "weekly")
	require.NoError(t, machine.Join(context.Background(), id, "alice"))
	require.NoError(t, machine.Join(context.Background(), id, "bob"))
	_, err := machine.Start(context.Background(), id)
	require.NoError(t, err)

	err = machine.Join(context.Background(), id, "carol")

	require.ErrorIs(t, err, domain.ErrNotJoinable)
}

func Test_Start_Requires_Two_Players(t *testing.T) {
	store := newFakeStore()
	machine, _ := newTestMachine(store)
	id, _ := machine.Create(context.Background(), "channel-1", "weekly")
	require.NoError(t, machine.Join(context.Background(), id, "alice"))

	_, err := machine.Start(context.Background(), id)

	require.ErrorIs(t, err, domain.ErrInsufficientPlayers)
}

func Test_Start_Opens_Sessions_For_Paired_Matches(t *testing.T) {
	store := newFakeStore()
	machine, registry := newTestMachine(store)
	id, _ := machine.Create(context.Background(), "channel-1", "weekly")
	for _, player := range []string{"alice", "bob", "carol", "dave"} {
		require.NoError(t, machine.Join(context.Background(), id, player))
	}

	matches, err := machine.Start(context.Background(), id)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, match := range matches {
		white, ok := registry.Lookup(match.WhiteID)
		require.True(t, ok)
		black, ok := registry.Lookup(match.BlackID)
		require.True(t, ok)
		require.Same(t, white, black)
	}

	tournament, err := store.GetTournament(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOngoing, tournament.Status)
}

func Test_Draw_Creates_Tiebreak_With_Swapped_Colors(t *testing.T) {
	store := newFakeStore()
	machine, registry := newTestMachine(store)
	id, _ := machine.Create(context.Background(), "channel-1", "weekly")
	require.NoError(t, machine.Join(context.Background(), id, "alice"))
	require.NoError(t, machine.Join(context.Background(), id, "bob"))
	matches, err := machine.Start(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	first := matches[0]
	endSession(registry, first.WhiteID)

	err = machine.MatchConcluded(context.Background(), id, first.ID, gamedomain.ResultDraw, first.WhiteID, first.BlackID)
	require.NoError(t, err)

	all, err := store.ListMatches(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, all, 2)

	var tiebreak domain.Match
	for _, match := range all {
		if match.IsTiebreak {
			tiebreak = match
		}
	}
	require.NotZero(t, tiebreak.ID)
	require.Equal(t, first.Round, tiebreak.Round)
	require.Equal(t, first.BlackID, tiebreak.WhiteID)
	require.Equal(t, first.WhiteID, tiebreak.BlackID)
	require.Equal(t, domain.MatchOngoing, tiebreak.Status)

	// The round stays open until the tiebreak resolves.
	tournament, err := store.GetTournament(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOngoing, tournament.Status)
}

func Test_Drawn_Tiebreak_Resolves_By_Random_Winner(t *testing.T) {
	store := newFakeStore()
	machine, registry := newTestMachine(store)
	id, _ := machine.Create(context.Background(), "channel-1", "weekly")
	require.NoError(t, machine.Join(context.Background(), id, "alice"))
	require.NoError(t, machine.Join(context.Background(), id, "bob"))
	matches, err := machine.Start(context.Background(), id)
	require.NoError(t, err)
	first := matches[0]

	endSession(registry, first.WhiteID)
	require.NoError(t, machine.MatchConcluded(
		context.Background(), id, first.ID, gamedomain.ResultDraw, first.WhiteID, first.BlackID))

	all, _ := store.ListMatches(context.Background(), id)
	var tiebreak domain.Match
	for _, match := range all {
		if match.IsTiebreak {
			tiebreak = match
		}
	}

	endSession(registry, tiebreak.WhiteID)
	require.NoError(t, machine.MatchConcluded(
		context.Background(), id, tiebreak.ID, gamedomain.ResultDraw, tiebreak.WhiteID, tiebreak.BlackID))

	// A drawn tiebreak never spawns another tiebreak.
	all, _ = store.ListMatches(context.Background(), id)
	require.Len(t, all, 2)

	resolved, err := store.GetMatch(context.Background(), tiebreak.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchDone, resolved.Status)
	require.Contains(t, []string{tiebreak.WhiteID, tiebreak.BlackID}, resolved.WinnerID)

	tournament, err := store.GetTournament(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusFinished, tournament.Status)
}

func Test_Repeated_MatchConcluded_DoesNotDuplicateNextRound(t *testing.T) {
	store := newFakeStore()
	machine, registry := newTestMachine(store)
	id, _ := machine.Create(context.Background(), "channel-1", "weekly")
	for _, player := range []string{"alice", "bob", "carol", "dave"} {
		require.NoError(t, machine.Join(context.Background(), id, player))
	}
	round1, err := machine.Start(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, round1, 2)

	for _, match := range round1 {
		endSession(registry, match.WhiteID)
		require.NoError(t, machine.MatchConcluded(
			context.Background(), id, match.ID, gamedomain.ResultWhiteWins, match.WhiteID, match.BlackID))
	}

	round2, err := store.RoundMatches(context.Background(), id, 2)
	require.NoError(t, err)
	require.Len(t, round2, 1)

	// A stale duplicate report for a decided match is a no-op.
	stale := round1[1]
	require.NoError(t, machine.MatchConcluded(
		context.Background(), id, stale.ID, gamedomain.ResultWhiteWins, stale.WhiteID, stale.BlackID))

	round2, err = store.RoundMatches(context.Background(), id, 2)
	require.NoError(t, err)
	require.Len(t, round2, 1)

	resolved, err := store.GetMatch(context.Background(), stale.ID)
	require.NoError(t, err)
	require.Equal(t, stale.WhiteID, resolved.WinnerID)
}

func Test_Five_Player_Tournament_Runs_To_A_Champion(t *testing.T) {
	store := newFakeStore()
	machine, registry := newTestMachine(store)
	id, _ := machine.Create(context.Background(), "channel-1", "weekly")
	players := []string{"alice", "bob", "carol", "dave", "eve"}
	for _, player := range players {
		require.NoError(t, machine.Join(context.Background(), id, player))
	}

	round1, err := machine.Start(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, round1, 3)

	winners := map[string]bool{}
	for _, match := range round1 {
		if match.Bye() {
			winners[match.WinnerID] = true
			continue
		}
		endSession(registry, match.WhiteID)
		require.NoError(t, machine.MatchConcluded(
			context.Background(), id, match.ID, gamedomain.ResultWhiteWins, match.WhiteID, match.BlackID))
		winners[match.WhiteID] = true
	}
	require.Len(t, winners, 3)

	round2, err := store.RoundMatches(context.Background(), id, 2)
	require.NoError(t, err)
	require.Len(t, round2, 2)

	var played, bye domain.Match
	for _, match := range round2 {
		if match.Bye() {
			bye = match
		} else {
			played = match
		}
	}
	require.NotZero(t, played.ID)
	require.NotZero(t, bye.ID)
	require.True(t, winners[bye.WhiteID])
	require.True(t, winners[played.WhiteID])
	require.True(t, winners[played.BlackID])

	endSession(registry, played.WhiteID)
	require.NoError(t, machine.MatchConcluded(
		context.Background(), id, played.ID, gamedomain.ResultBlackWins, played.WhiteID, played.BlackID))

	round3, err := store.RoundMatches(context.Background(), id, 3)
	require.NoError(t, err)
	require.Len(t, round3, 1)
	final := round3[0]
	require.False(t, final.Bye())

	endSession(registry, final.WhiteID)
	require.NoError(t, machine.MatchConcluded(
		context.Background(), id, final.ID, gamedomain.ResultWhiteWins, final.WhiteID, final.BlackID))

	tournament, err := store.GetTournament(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusFinished, tournament.Status)

	resolvedFinal, err := store.GetMatch(context.Background(), final.ID)
	require.NoError(t, err)
	require.Equal(t, final.WhiteID, resolvedFinal.WinnerID)
}

// endSession clears the players' registry slots the way the settlement flow
// does before the bracket is notified.
func endSession(registry *game.Registry, participantID string) {
	if session, ok := registry.Lookup(participantID); ok {
		registry.End(session)
	}
}
