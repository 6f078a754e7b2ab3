package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"

	"github.com/eskrenkovic/mediator-go"
)

type AcceptChallengeCommand struct {
	ActorID string
}

func (c AcceptChallengeCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}
	return nil
}

func HandleAcceptChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command := AcceptChallengeCommand{ActorID: core.ActorID(ctx)}

	if _, err := mediator.Send[AcceptChallengeCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type AcceptChallengeCommandHandler struct {
	desk *game.ChallengeDesk
}

func NewAcceptChallengeCommandHandler(desk *game.ChallengeDesk) *AcceptChallengeCommandHandler {
	return &AcceptChallengeCommandHandler{desk}
}

func (h *AcceptChallengeCommandHandler) Handle(
	_ context.Context,
	request AcceptChallengeCommand,
) (core.Unit, error) {
	if err := h.desk.Respond(request.ActorID, true); err != nil {
		return core.Unit{}, commandError(err)
	}
	return core.Unit{}, nil
}

type DeclineChallengeCommand struct {
	ActorID string
}

func (c DeclineChallengeCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}
	return nil
}

func HandleDeclineChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command := DeclineChallengeCommand{ActorID: core.ActorID(ctx)}

	if _, err := mediator.Send[DeclineChallengeCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type DeclineChallengeCommandHandler struct {
	desk *game.ChallengeDesk
}

func NewDeclineChallengeCommandHandler(desk *game.ChallengeDesk) *DeclineChallengeCommandHandler {
	return &DeclineChallengeCommandHandler{desk}
}

func (h *DeclineChallengeCommandHandler) Handle(
	_ context.Context,
	request DeclineChallengeCommand,
) (core.Unit, error) {
	if err := h.desk.Respond(request.ActorID, false); err != nil {
		return core.Unit{}, commandError(err)
	}
	return core.Unit{}, nil
}
