package queries

import (
	"context"
	"fmt"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
)

// Hints always come from the strongest setting, regardless of the session's
// own difficulty.
const hintSkillLevel = 20

type GetHintQuery struct {
	ActorID string
}

func (q GetHintQuery) Validate() error {
	if q.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", q.ActorID)
	}
	return nil
}

type GetHintResponse struct {
	Move string `json:"move"`
}

func HandleGetHint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := GetHintQuery{ActorID: core.ActorID(ctx)}

	response, err := mediator.Send[GetHintQuery, GetHintResponse](ctx, query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetHintQueryHandler struct {
	registry *game.Registry
	oracle   game.Oracle
}

func NewGetHintQueryHandler(registry *game.Registry, oracle game.Oracle) *GetHintQueryHandler {
	return &GetHintQueryHandler{registry: registry, oracle: oracle}
}

func (h *GetHintQueryHandler) Handle(
	ctx context.Context,
	request GetHintQuery,
) (GetHintResponse, error) {
	session, ok := h.registry.Lookup(request.ActorID)
	if !ok {
		return GetHintResponse{}, core.NewCommandError(http.StatusNotFound, domain.ErrNotInSession)
	}

	move, err := h.oracle.BestMove(ctx, session.FEN(), hintSkillLevel)
	if err != nil {
		return GetHintResponse{}, core.NewCommandError(http.StatusBadGateway, game.ErrEngineFailure)
	}

	return GetHintResponse{Move: move}, nil
}
