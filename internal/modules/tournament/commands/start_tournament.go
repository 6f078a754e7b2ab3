package commands

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type StartTournamentCommand struct {
	ActorID      string
	TournamentID int64
}

func (c StartTournamentCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	if c.TournamentID < 1 {
		return fmt.Errorf("invalid TournamentID - '%d'", c.TournamentID)
	}

	return nil
}

type StartTournamentResponse struct {
	Matches []domain.Match `json:"matches"`
}

func HandleStartTournament(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tournamentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := StartTournamentCommand{
		ActorID:      core.ActorID(ctx),
		TournamentID: tournamentID,
	}

	response, err := mediator.Send[StartTournamentCommand, StartTournamentResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type StartTournamentCommandHandler struct {
	machine *tournament.Machine
}

func NewStartTournamentCommandHandler(machine *tournament.Machine) *StartTournamentCommandHandler {
	return &StartTournamentCommandHandler{machine}
}

func (h *StartTournamentCommandHandler) Handle(
	ctx context.Context,
	request StartTournamentCommand,
) (StartTournamentResponse, error) {
	matches, err := h.machine.Start(ctx, request.TournamentID)
	if err != nil {
		return StartTournamentResponse{}, commandError(err)
	}
	return StartTournamentResponse{Matches: matches}, nil
}
