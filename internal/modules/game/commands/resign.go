package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"

	"github.com/eskrenkovic/mediator-go"
)

type ResignCommand struct {
	ActorID string
}

func (c ResignCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}
	return nil
}

type ResignResponse struct {
	Result string `json:"result"`
}

func HandleResign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command := ResignCommand{ActorID: core.ActorID(ctx)}

	response, err := mediator.Send[ResignCommand, ResignResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ResignCommandHandler struct {
	controller *game.Controller
}

func NewResignCommandHandler(controller *game.Controller) *ResignCommandHandler {
	return &ResignCommandHandler{controller}
}

func (h *ResignCommandHandler) Handle(
	ctx context.Context,
	request ResignCommand,
) (ResignResponse, error) {
	result, err := h.controller.Resign(ctx, request.ActorID)
	if err != nil {
		return ResignResponse{}, commandError(err)
	}
	return ResignResponse{Result: string(result)}, nil
}
