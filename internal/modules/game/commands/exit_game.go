package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"

	"github.com/eskrenkovic/mediator-go"
)

type ExitGameCommand struct {
	ActorID string
}

func (c ExitGameCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}
	return nil
}

func HandleExitGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command := ExitGameCommand{ActorID: core.ActorID(ctx)}

	if _, err := mediator.Send[ExitGameCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type ExitGameCommandHandler struct {
	controller *game.Controller
}

func NewExitGameCommandHandler(controller *game.Controller) *ExitGameCommandHandler {
	return &ExitGameCommandHandler{controller}
}

func (h *ExitGameCommandHandler) Handle(
	ctx context.Context,
	request ExitGameCommand,
) (core.Unit, error) {
	if err := h.controller.Exit(ctx, request.ActorID); err != nil {
		return core.Unit{}, commandError(err)
	}
	return core.Unit{}, nil
}
