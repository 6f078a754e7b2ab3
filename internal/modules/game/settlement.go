package game

import (
	"context"
	"fmt"
	"time"

	gamedomain "github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"
	ratingdomain "github.com/intensealchemist/DiscordChessBot/internal/modules/rating/domain"

	"go.uber.org/zap"
)

// GameRecord is the immutable log entry for one concluded game.
type GameRecord struct {
	WhiteID   string            `db:"white_id" json:"white_id"`
	BlackID   string            `db:"black_id" json:"black_id"`
	Result    gamedomain.Result `db:"result" json:"result"`
	PGN       string            `db:"pgn" json:"pgn"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// SettlementStore persists the outcome of a settled game. PersistOutcome
// writes both rating updates and the game record as one logical transaction.
type SettlementStore interface {
	GetOrCreatePlayer(ctx context.Context, userID string) (ratingdomain.Player, error)
	PersistOutcome(ctx context.Context, white, black ratingdomain.Player, record GameRecord) error
}

// MatchReporter receives the result of a concluded tournament game.
// Implemented by the tournament state machine and attached after
// construction, since the machine itself opens sessions through the
// registry.
type MatchReporter interface {
	MatchConcluded(
		ctx context.Context,
		tournamentID, matchID int64,
		result gamedomain.Result,
		whiteID, blackID string,
	) error
}

// Settler runs the one-time settlement of a finished rated game: paired
// rating updates from pre-game ratings, the game record, and the tournament
// hand-off when the session belongs to a match.
type Settler struct {
	store    SettlementStore
	reporter MatchReporter
	k        float64
	logger   *zap.Logger
}

func NewSettler(store SettlementStore, k float64, logger *zap.Logger) *Settler {
	return &Settler{store: store, k: k, logger: logger}
}

func (s *Settler) AttachReporter(r MatchReporter) {
	s.reporter = r
}

func (s *Settler) Settle(ctx context.Context, session *gamedomain.Session, result gamedomain.Result) error {
	whiteID, blackID := session.WhiteID(), session.BlackID()

	white, err := s.store.GetOrCreatePlayer(ctx, whiteID)
	if err != nil {
		return fmt.Errorf("load white player: %w", err)
	}

	black, err := s.store.GetOrCreatePlayer(ctx, blackID)
	if err != nil {
		return fmt.Errorf("load black player: %w", err)
	}

	newWhite, newBlack := ratingdomain.UpdateRatings(white.Rating, black.Rating, outcomeFor(result), s.k)

	white.Rating, black.Rating = newWhite, newBlack
	switch result {
	case gamedomain.ResultWhiteWins:
		white.Wins++
		black.Losses++
	case gamedomain.ResultBlackWins:
		white.Losses++
		black.Wins++
	case gamedomain.ResultDraw:
		white.Draws++
		black.Draws++
	}

	record := GameRecord{
		WhiteID:   whiteID,
		BlackID:   blackID,
		Result:    result,
		PGN:       session.PGN(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.PersistOutcome(ctx, white, black, record); err != nil {
		return fmt.Errorf("persist settlement: %w", err)
	}

	s.logger.Info("game settled",
		zap.String("white_id", whiteID),
		zap.String("black_id", blackID),
		zap.String("result", string(result)),
		zap.Float64("white_rating", newWhite),
		zap.Float64("black_rating", newBlack),
	)

	if session.Mode() == gamedomain.ModeTournament && s.reporter != nil {
		return s.reporter.MatchConcluded(ctx, session.TournamentID(), session.MatchID(), result, whiteID, blackID)
	}

	return nil
}

func outcomeFor(result gamedomain.Result) ratingdomain.Outcome {
	switch result {
	case gamedomain.ResultWhiteWins:
		return ratingdomain.OutcomeAWins
	case gamedomain.ResultBlackWins:
		return ratingdomain.OutcomeBWins
	default:
		return ratingdomain.OutcomeDraw
	}
}
