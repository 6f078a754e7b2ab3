package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/rating/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

const leaderboardSize = 10

type GetLeaderboardQuery struct {
	ActorID string
}

func (q GetLeaderboardQuery) Validate() error {
	if q.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", q.ActorID)
	}
	return nil
}

type GetLeaderboardResponse struct {
	Players      []domain.Player `json:"players"`
	Rank         int             `json:"rank"`
	TotalPlayers int             `json:"total_players"`
}

func HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := GetLeaderboardQuery{ActorID: core.ActorID(ctx)}

	response, err := mediator.Send[GetLeaderboardQuery, GetLeaderboardResponse](ctx, query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetLeaderboardQueryHandler struct {
	db *sql.DB
}

func NewGetLeaderboardQueryHandler(db *sql.DB) *GetLeaderboardQueryHandler {
	return &GetLeaderboardQueryHandler{db}
}

func (h *GetLeaderboardQueryHandler) Handle(
	ctx context.Context,
	request GetLeaderboardQuery,
) (GetLeaderboardResponse, error) {
	const topQuery = `
		SELECT
			user_id, rating, wins, losses, draws, updated_at
		FROM
			players
		ORDER BY
			rating DESC
		LIMIT $1;`
	players, err := tql.Query[domain.Player](ctx, h.db, topQuery, leaderboardSize)
	if err != nil {
		return GetLeaderboardResponse{}, err
	}

	const totalQuery = `
		SELECT
			count(*)
		FROM
			players;`
	total, err := tql.QuerySingle[int](ctx, h.db, totalQuery)
	if err != nil {
		return GetLeaderboardResponse{}, err
	}

	// Rank is 1 plus the number of strictly better ratings; an unrated
	// requester lands after everyone with an above-default rating.
	const rankQuery = `
		SELECT
			1 + count(*)
		FROM
			players
		WHERE
			rating > coalesce(
				(SELECT rating FROM players WHERE user_id = $1),
				$2
			);`
	rank, err := tql.QuerySingle[int](ctx, h.db, rankQuery, request.ActorID, domain.InitialRating)
	if err != nil {
		return GetLeaderboardResponse{}, err
	}

	return GetLeaderboardResponse{
		Players:      players,
		Rank:         rank,
		TotalPlayers: total,
	}, nil
}
