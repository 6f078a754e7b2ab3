package queries

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type GetBracketQuery struct {
	TournamentID int64
}

func (q GetBracketQuery) Validate() error {
	if q.TournamentID < 1 {
		return fmt.Errorf("invalid TournamentID - '%d'", q.TournamentID)
	}
	return nil
}

func HandleGetBracket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tournamentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	query := GetBracketQuery{TournamentID: tournamentID}

	response, err := mediator.Send[GetBracketQuery, domain.Bracket](ctx, query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetBracketQueryHandler struct {
	machine *tournament.Machine
}

func NewGetBracketQueryHandler(machine *tournament.Machine) *GetBracketQueryHandler {
	return &GetBracketQueryHandler{machine}
}

func (h *GetBracketQueryHandler) Handle(
	ctx context.Context,
	request GetBracketQuery,
) (domain.Bracket, error) {
	bracket, err := h.machine.Bracket(ctx, request.TournamentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Bracket{}, core.NewCommandError(http.StatusNotFound, err)
		}
		return domain.Bracket{}, err
	}
	return bracket, nil
}
