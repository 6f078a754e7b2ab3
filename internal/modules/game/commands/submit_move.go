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

type SubmitMoveCommand struct {
	ActorID string `json:"-"`
	Move    string `json:"move"`
}

func (c SubmitMoveCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	if c.Move == "" {
		return fmt.Errorf("invalid Move - '%s'", c.Move)
	}

	return nil
}

func HandleSubmitMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[SubmitMoveCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.ActorID = core.ActorID(ctx)

	response, err := mediator.Send[SubmitMoveCommand, domain.MoveOutcome](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SubmitMoveCommandHandler struct {
	controller *game.Controller
}

func NewSubmitMoveCommandHandler(controller *game.Controller) *SubmitMoveCommandHandler {
	return &SubmitMoveCommandHandler{controller}
}

func (h *SubmitMoveCommandHandler) Handle(
	ctx context.Context,
	request SubmitMoveCommand,
) (domain.MoveOutcome, error) {
	outcome, err := h.controller.SubmitMove(ctx, request.ActorID, request.Move)
	if err != nil {
		return domain.MoveOutcome{}, commandError(err)
	}
	return outcome, nil
}
