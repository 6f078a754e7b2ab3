package game

import (
	"context"
	"database/sql"
	"time"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	ratingdomain "github.com/intensealchemist/DiscordChessBot/internal/modules/rating/domain"

	"github.com/eskrenkovic/tql"
)

var _ SettlementStore = (*PostgresSettlementStore)(nil)

type PostgresSettlementStore struct {
	db *sql.DB
}

func NewPostgresSettlementStore(db *sql.DB) *PostgresSettlementStore {
	return &PostgresSettlementStore{db}
}

// GetOrCreatePlayer reads a player's rating row, creating it with the
// default rating on first reference.
func (s *PostgresSettlementStore) GetOrCreatePlayer(ctx context.Context, userID string) (ratingdomain.Player, error) {
	const insertStmt = `
		INSERT INTO
			players (user_id, rating, wins, losses, draws, updated_at)
		VALUES
			($1, $2, 0, 0, 0, $3)
		ON CONFLICT (user_id) DO NOTHING;`
	if _, err := tql.Exec(ctx, s.db, insertStmt, userID, ratingdomain.InitialRating, time.Now().UTC()); err != nil {
		return ratingdomain.Player{}, err
	}

	const query = `
		SELECT
			user_id, rating, wins, losses, draws, updated_at
		FROM
			players
		WHERE
			user_id = $1;`
	return tql.QuerySingle[ratingdomain.Player](ctx, s.db, query, userID)
}

// PersistOutcome writes both rating updates and the game record in a single
// transaction, so a crash cannot apply one side's update without the other.
func (s *PostgresSettlementStore) PersistOutcome(
	ctx context.Context,
	white, black ratingdomain.Player,
	record GameRecord,
) error {
	return core.Tx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		const updateStmt = `
			UPDATE
				players
			SET
				rating = $2, wins = $3, losses = $4, draws = $5, updated_at = $6
			WHERE
				user_id = $1;`

		now := time.Now().UTC()

		for _, p := range []ratingdomain.Player{white, black} {
			if _, err := tql.Exec(ctx, tx, updateStmt, p.UserID, p.Rating, p.Wins, p.Losses, p.Draws, now); err != nil {
				return err
			}
		}

		const recordStmt = `
			INSERT INTO
				games (white_id, black_id, result, pgn, created_at)
			VALUES
				(:white_id, :black_id, :result, :pgn, :created_at);`
		_, err := tql.Exec(ctx, tx, recordStmt, record)
		return err
	})
}
