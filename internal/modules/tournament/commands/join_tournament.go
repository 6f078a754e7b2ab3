package commands

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type JoinTournamentCommand struct {
	ActorID      string
	TournamentID int64
}

func (c JoinTournamentCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	if c.TournamentID < 1 {
		return fmt.Errorf("invalid TournamentID - '%d'", c.TournamentID)
	}

	return nil
}

func HandleJoinTournament(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tournamentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := JoinTournamentCommand{
		ActorID:      core.ActorID(ctx),
		TournamentID: tournamentID,
	}

	if _, err := mediator.Send[JoinTournamentCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type JoinTournamentCommandHandler struct {
	machine *tournament.Machine
}

func NewJoinTournamentCommandHandler(machine *tournament.Machine) *JoinTournamentCommandHandler {
	return &JoinTournamentCommandHandler{machine}
}

func (h *JoinTournamentCommandHandler) Handle(
	ctx context.Context,
	request JoinTournamentCommand,
) (core.Unit, error) {
	if err := h.machine.Join(ctx, request.TournamentID, request.ActorID); err != nil {
		return core.Unit{}, commandError(err)
	}
	return core.Unit{}, nil
}
