package tournament

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"
	gamedomain "github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/domain"

	"go.uber.org/zap"
)

// Store persists tournaments, registrations, and bracket matches.
type Store interface {
	CreateTournament(ctx context.Context, scope, name string) (int64, error)
	GetTournament(ctx context.Context, id int64) (domain.Tournament, error)
	SetTournamentStatus(ctx context.Context, id int64, status domain.Status) error

	AddPlayer(ctx context.Context, tournamentID int64, userID string) error
	HasPlayer(ctx context.Context, tournamentID int64, userID string) (bool, error)
	ListPlayers(ctx context.Context, tournamentID int64) ([]string, error)

	CreateMatch(ctx context.Context, match domain.Match) (int64, error)
	GetMatch(ctx context.Context, matchID int64) (domain.Match, error)
	// CompleteMatch marks the match done; winnerID may be empty for a drawn
	// non-tiebreak match superseded by its tiebreak.
	CompleteMatch(ctx context.Context, matchID int64, winnerID string) error
	ListMatches(ctx context.Context, tournamentID int64) ([]domain.Match, error)
	RoundMatches(ctx context.Context, tournamentID int64, round int) ([]domain.Match, error)
}

// Announcer delivers tournament progress messages to the participants'
// channel. The concrete messaging surface lives outside the core.
type Announcer interface {
	Announce(ctx context.Context, text string)
}

type LogAnnouncer struct {
	Logger *zap.Logger
}

func (a LogAnnouncer) Announce(_ context.Context, text string) {
	a.Logger.Info("tournament announcement", zap.String("text", text))
}

// Machine owns the single-elimination bracket state: round generation with
// byes, draw and tiebreak resolution, and winner propagation until one
// champion remains. It implements game.MatchReporter.
type Machine struct {
	store     Store
	registry  *game.Registry
	announcer Announcer
	logger    *zap.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ game.MatchReporter = (*Machine)(nil)

func NewMachine(store Store, registry *game.Registry, announcer Announcer, rng *rand.Rand, logger *zap.Logger) *Machine {
	return &Machine{
		store:     store,
		registry:  registry,
		announcer: announcer,
		logger:    logger,
		locks:     make(map[int64]*sync.Mutex),
		rng:       rng,
	}
}

// lockFor returns the critical-section lock for one tournament. Check-then-act
// sequences on a round must not interleave, but unrelated tournaments are
// never serialized against each other.
func (m *Machine) lockFor(tournamentID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[tournamentID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[tournamentID] = l
	}
	return l
}

func (m *Machine) Create(ctx context.Context, scope, name string) (int64, error) {
	return m.store.CreateTournament(ctx, scope, name)
}

func (m *Machine) Join(ctx context.Context, tournamentID int64, userID string) error {
	l := m.lockFor(tournamentID)
	l.Lock()
	defer l.Unlock()

	t, err := m.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}

	if t.Status != domain.StatusCreated {
		return domain.ErrNotJoinable
	}

	joined, err := m.store.HasPlayer(ctx, tournamentID, userID)
	if err != nil {
		return err
	}
	if joined {
		return domain.ErrAlreadyJoined
	}

	return m.store.AddPlayer(ctx, tournamentID, userID)
}

func (m *Machine) Start(ctx context.Context, tournamentID int64) ([]domain.Match, error) {
	l := m.lockFor(tournamentID)
	l.Lock()
	defer l.Unlock()

	t, err := m.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	if t.Status != domain.StatusCreated {
		return nil, domain.ErrNotJoinable
	}

	players, err := m.store.ListPlayers(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, domain.ErrInsufficientPlayers
	}

	matches, err := m.openRound(ctx, tournamentID, 1, players)
	if err != nil {
		return nil, err
	}

	if err := m.store.SetTournamentStatus(ctx, tournamentID, domain.StatusOngoing); err != nil {
		return nil, err
	}

	return matches, nil
}

// MatchConcluded records a match result and advances the bracket. Called by
// the settlement pipeline after the game record and ratings are written.
func (m *Machine) MatchConcluded(
	ctx context.Context,
	tournamentID, matchID int64,
	result gamedomain.Result,
	whiteID, blackID string,
) error {
	l := m.lockFor(tournamentID)
	l.Lock()
	defer l.Unlock()

	match, err := m.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	// A repeated report for a decided match must not re-run the
	// round-completion check and pair a duplicate next round.
	if match.Status == domain.MatchDone {
		return nil
	}

	if result == gamedomain.ResultDraw && !match.IsTiebreak {
		if err := m.store.CompleteMatch(ctx, matchID, ""); err != nil {
			return err
		}

		tiebreak := domain.TiebreakMatch(match)
		tiebreakID, err := m.store.CreateMatch(ctx, tiebreak)
		if err != nil {
			return err
		}
		tiebreak.ID = tiebreakID

		m.openSession(tiebreak)
		m.announcer.Announce(ctx, fmt.Sprintf(
			"Match drawn. Tiebreak started with swapped colors: %s (white) vs %s (black).",
			tiebreak.WhiteID, tiebreak.BlackID,
		))

		// The tiebreak keeps the round open; no completion check needed.
		return nil
	}

	winnerID := ""
	switch result {
	case gamedomain.ResultWhiteWins:
		winnerID = whiteID
	case gamedomain.ResultBlackWins:
		winnerID = blackID
	case gamedomain.ResultDraw:
		// A drawn tiebreak resolves by a uniform random choice.
		winnerID = m.pickRandom(whiteID, blackID)
		m.announcer.Announce(ctx, fmt.Sprintf("Tiebreak drawn. %s advances by random draw.", winnerID))
	}

	if err := m.store.CompleteMatch(ctx, matchID, winnerID); err != nil {
		return err
	}

	return m.advanceIfRoundDone(ctx, tournamentID, match.Round)
}

func (m *Machine) advanceIfRoundDone(ctx context.Context, tournamentID int64, round int) error {
	matches, err := m.store.RoundMatches(ctx, tournamentID, round)
	if err != nil {
		return err
	}

	winners := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Status != domain.MatchDone {
			return nil
		}
		if match.WinnerID != "" {
			winners = append(winners, match.WinnerID)
		}
	}

	if len(winners) == 1 {
		if err := m.store.SetTournamentStatus(ctx, tournamentID, domain.StatusFinished); err != nil {
			return err
		}
		m.announcer.Announce(ctx, fmt.Sprintf("Tournament #%d champion: %s!", tournamentID, winners[0]))
		return nil
	}

	m.announcer.Announce(ctx, fmt.Sprintf("All matches in round %d completed. Starting round %d.", round, round+1))
	_, err = m.openRound(ctx, tournamentID, round+1, winners)
	return err
}

func (m *Machine) openRound(ctx context.Context, tournamentID int64, round int, entrants []string) ([]domain.Match, error) {
	m.rngMu.Lock()
	matches := domain.PairRound(tournamentID, round, entrants, m.rng)
	m.rngMu.Unlock()

	for i := range matches {
		id, err := m.store.CreateMatch(ctx, matches[i])
		if err != nil {
			return nil, err
		}
		matches[i].ID = id
	}

	lines := fmt.Sprintf("Round %d matches:", round)
	for _, match := range matches {
		if match.Bye() {
			lines += fmt.Sprintf("\n%s advances on a bye.", match.WhiteID)
			continue
		}
		m.openSession(match)
		lines += fmt.Sprintf("\n%s (white) vs %s (black) - white to move.", match.WhiteID, match.BlackID)
	}
	m.announcer.Announce(ctx, lines)

	return matches, nil
}

// openSession begins the shared session for one paired match. Both players
// just finished (or never started) their previous game, so a conflict here
// means a participant raced into another game; the bracket match stays
// ongoing and is reported rather than corrupted.
func (m *Machine) openSession(match domain.Match) {
	session := gamedomain.NewTournamentSession(match.WhiteID, match.BlackID, match.TournamentID, match.ID)
	if err := m.registry.Begin(session); err != nil {
		m.logger.Error("failed to open tournament session",
			zap.Int64("tournament_id", match.TournamentID),
			zap.Int64("match_id", match.ID),
			zap.Error(err),
		)
	}
}

func (m *Machine) pickRandom(a, b string) string {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()

	if m.rng.Intn(2) == 0 {
		return a
	}
	return b
}

// Bracket is the read-only view of all rounds, matches, and winners.
func (m *Machine) Bracket(ctx context.Context, tournamentID int64) (domain.Bracket, error) {
	t, err := m.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return domain.Bracket{}, err
	}

	matches, err := m.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return domain.Bracket{}, err
	}

	byRound := make(map[int][]domain.Match)
	for _, match := range matches {
		byRound[match.Round] = append(byRound[match.Round], match)
	}

	rounds := make([]domain.BracketRound, 0, len(byRound))
	for round, roundMatches := range byRound {
		sort.Slice(roundMatches, func(i, j int) bool { return roundMatches[i].ID < roundMatches[j].ID })
		rounds = append(rounds, domain.BracketRound{Round: round, Matches: roundMatches})
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Round < rounds[j].Round })

	return domain.Bracket{Tournament: t, Rounds: rounds}, nil
}
