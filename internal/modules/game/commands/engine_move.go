package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
)

type EngineMoveCommand struct {
	ActorID string
}

func (c EngineMoveCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}
	return nil
}

// HandleEngineMove asks the engine to play in the actor's session. Used to
// retry after an engine failure left the engine on the move.
func HandleEngineMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command := EngineMoveCommand{ActorID: core.ActorID(ctx)}

	response, err := mediator.Send[EngineMoveCommand, domain.MoveOutcome](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type EngineMoveCommandHandler struct {
	controller *game.Controller
}

func NewEngineMoveCommandHandler(controller *game.Controller) *EngineMoveCommandHandler {
	return &EngineMoveCommandHandler{controller}
}

func (h *EngineMoveCommandHandler) Handle(
	ctx context.Context,
	request EngineMoveCommand,
) (domain.MoveOutcome, error) {
	outcome, err := h.controller.PlayEngineMove(ctx, request.ActorID)
	if err != nil {
		return domain.MoveOutcome{}, commandError(err)
	}
	return outcome, nil
}
