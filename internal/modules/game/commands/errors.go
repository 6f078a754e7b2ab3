package commands

import (
	"errors"
	"net/http"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"
)

// commandError maps domain sentinels to command boundary errors. Player
// mistakes are 400, session clashes are 409, engine trouble is 502.
func commandError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotInSession):
		return core.NewCommandError(http.StatusNotFound, err)
	case errors.Is(err, domain.ErrOutOfTurn),
		errors.Is(err, domain.ErrMalformedMove),
		errors.Is(err, domain.ErrIllegalMove),
		errors.Is(err, domain.ErrNotParticipant),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, game.ErrSelfChallenge):
		return core.NewCommandError(http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrAlreadyInSession),
		errors.Is(err, game.ErrChallengePending),
		errors.Is(err, game.ErrNoChallenge),
		errors.Is(err, game.ErrChallengeDeclined),
		errors.Is(err, game.ErrChallengeExpired):
		return core.NewCommandError(http.StatusConflict, err)
	case errors.Is(err, game.ErrEngineFailure):
		return core.NewCommandError(http.StatusBadGateway, err)
	default:
		return err
	}
}
