package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"

	"github.com/eskrenkovic/mediator-go"
)

type ChallengeCommand struct {
	ActorID  string `json:"-"`
	TargetID string `json:"target_id"`
}

func (c ChallengeCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	if c.TargetID == "" {
		return fmt.Errorf("invalid TargetID - '%s'", c.TargetID)
	}

	return nil
}

type ChallengeResponse struct {
	WhiteID string `json:"white_id"`
	BlackID string `json:"black_id"`
	FEN     string `json:"fen"`
}

// HandleChallenge blocks until the target accepts, declines, or the
// challenge times out.
func HandleChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[ChallengeCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.ActorID = core.ActorID(ctx)

	response, err := mediator.Send[ChallengeCommand, ChallengeResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ChallengeCommandHandler struct {
	desk *game.ChallengeDesk
}

func NewChallengeCommandHandler(desk *game.ChallengeDesk) *ChallengeCommandHandler {
	return &ChallengeCommandHandler{desk}
}

func (h *ChallengeCommandHandler) Handle(
	ctx context.Context,
	request ChallengeCommand,
) (ChallengeResponse, error) {
	session, err := h.desk.Propose(ctx, request.ActorID, request.TargetID)
	if err != nil {
		return ChallengeResponse{}, commandError(err)
	}

	return ChallengeResponse{
		WhiteID: session.WhiteID(),
		BlackID: session.BlackID(),
		FEN:     session.FEN(),
	}, nil
}
