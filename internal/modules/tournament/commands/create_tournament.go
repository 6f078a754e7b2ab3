package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/domain"

	"github.com/eskrenkovic/mediator-go"
)

// commandError maps tournament sentinels to command boundary errors.
func commandError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMatchNotFound):
		return core.NewCommandError(http.StatusNotFound, err)
	case errors.Is(err, domain.ErrNotJoinable),
		errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrInsufficientPlayers):
		return core.NewCommandError(http.StatusConflict, err)
	default:
		return err
	}
}

type CreateTournamentCommand struct {
	ActorID string `json:"-"`
	Scope   string `json:"scope"`
	Name    string `json:"name"`
}

func (c CreateTournamentCommand) Validate() error {
	if c.Scope == "" {
		return fmt.Errorf("invalid Scope - '%s'", c.Scope)
	}

	if c.Name == "" {
		return fmt.Errorf("invalid Name - '%s'", c.Name)
	}

	return nil
}

type CreateTournamentResponse struct {
	TournamentID int64 `json:"tournament_id"`
}

func HandleCreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[CreateTournamentCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.ActorID = core.ActorID(ctx)

	response, err := mediator.Send[CreateTournamentCommand, CreateTournamentResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "tournaments", strconv.FormatInt(response.TournamentID, 10))
	core.WriteCreated(w, r, location)
}

type CreateTournamentCommandHandler struct {
	machine *tournament.Machine
}

func NewCreateTournamentCommandHandler(machine *tournament.Machine) *CreateTournamentCommandHandler {
	return &CreateTournamentCommandHandler{machine}
}

func (h *CreateTournamentCommandHandler) Handle(
	ctx context.Context,
	request CreateTournamentCommand,
) (CreateTournamentResponse, error) {
	id, err := h.machine.Create(ctx, request.Scope, request.Name)
	if err != nil {
		return CreateTournamentResponse{}, commandError(err)
	}
	return CreateTournamentResponse{TournamentID: id}, nil
}
