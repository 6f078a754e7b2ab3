package tournament

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/domain"

	"github.com/eskrenkovic/tql"
	"github.com/lib/pq"
)

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db}
}

func (s *PostgresStore) CreateTournament(ctx context.Context, scope, name string) (int64, error) {
	const stmt = `
		INSERT INTO
			tournaments (scope, name, status, created_at)
		VALUES
			($1, $2, $3, $4)
		RETURNING id;`
	return tql.QuerySingle[int64](ctx, s.db, stmt, scope, name, domain.StatusCreated, time.Now().UTC())
}

func (s *PostgresStore) GetTournament(ctx context.Context, id int64) (domain.Tournament, error) {
	const query = `
		SELECT
			id, scope, name, status, created_at
		FROM
			tournaments
		WHERE
			id = $1;`
	t, err := tql.QuerySingle[domain.Tournament](ctx, s.db, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tournament{}, domain.ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) SetTournamentStatus(ctx context.Context, id int64, status domain.Status) error {
	const stmt = `
		UPDATE
			tournaments
		SET
			status = $2
		WHERE
			id = $1;`
	_, err := tql.Exec(ctx, s.db, stmt, id, status)
	return err
}

func (s *PostgresStore) AddPlayer(ctx context.Context, tournamentID int64, userID string) error {
	const stmt = `
		INSERT INTO
			tournament_players (tournament_id, user_id)
		VALUES
			($1, $2);`
	_, err := tql.Exec(ctx, s.db, stmt, tournamentID, userID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrAlreadyJoined
	}
	return err
}

func (s *PostgresStore) HasPlayer(ctx context.Context, tournamentID int64, userID string) (bool, error) {
	const query = `
		SELECT
			count(*)
		FROM
			tournament_players
		WHERE
			tournament_id = $1 AND user_id = $2;`
	count, err := tql.QuerySingle[int](ctx, s.db, query, tournamentID, userID)
	return count > 0, err
}

func (s *PostgresStore) ListPlayers(ctx context.Context, tournamentID int64) ([]string, error) {
	const query = `
		SELECT
			user_id
		FROM
			tournament_players
		WHERE
			tournament_id = $1
		ORDER BY
			joined_at;`
	return tql.Query[string](ctx, s.db, query, tournamentID)
}

func (s *PostgresStore) CreateMatch(ctx context.Context, match domain.Match) (int64, error) {
	const stmt = `
		INSERT INTO
			tournament_matches (tournament_id, round, white_id, black_id, winner_id, status, is_tiebreak)
		VALUES
			($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`
	return tql.QuerySingle[int64](
		ctx,
		s.db,
		stmt,
		match.TournamentID,
		match.Round,
		match.WhiteID,
		match.BlackID,
		match.WinnerID,
		match.Status,
		match.IsTiebreak,
	)
}

func (s *PostgresStore) GetMatch(ctx context.Context, matchID int64) (domain.Match, error) {
	const query = `
		SELECT
			id, tournament_id, round, white_id, black_id, winner_id, status, is_tiebreak
		FROM
			tournament_matches
		WHERE
			id = $1;`
	match, err := tql.QuerySingle[domain.Match](ctx, s.db, query, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Match{}, domain.ErrMatchNotFound
	}
	return match, err
}

func (s *PostgresStore) CompleteMatch(ctx context.Context, matchID int64, winnerID string) error {
	const stmt = `
		UPDATE
			tournament_matches
		SET
			status = $2, winner_id = $3
		WHERE
			id = $1;`
	_, err := tql.Exec(ctx, s.db, stmt, matchID, domain.MatchDone, winnerID)
	return err
}

func (s *PostgresStore) ListMatches(ctx context.Context, tournamentID int64) ([]domain.Match, error) {
	const query = `
		SELECT
			id, tournament_id, round, white_id, black_id, winner_id, status, is_tiebreak
		FROM
			tournament_matches
		WHERE
			tournament_id = $1
		ORDER BY
			round, id;`
	return tql.Query[domain.Match](ctx, s.db, query, tournamentID)
}

func (s *PostgresStore) RoundMatches(ctx context.Context, tournamentID int64, round int) ([]domain.Match, error) {
	const query = `
		SELECT
			id, tournament_id, round, white_id, black_id, winner_id, status, is_tiebreak
		FROM
			tournament_matches
		WHERE
			tournament_id = $1 AND round = $2
		ORDER BY
			id;`
	return tql.Query[domain.Match](ctx, s.db, query, tournamentID, round)
}
