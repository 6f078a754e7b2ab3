package commands

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"

	"github.com/corentings/chess/v2"
	"github.com/eskrenkovic/mediator-go"
)

const (
	OpponentSolo   = "solo"
	OpponentEngine = "engine"
)

type StartGameCommand struct {
	ActorID    string `json:"-"`
	Opponent   string `json:"opponent"`
	Difficulty string `json:"difficulty"`
}

func (c StartGameCommand) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	if c.Opponent != OpponentSolo && c.Opponent != OpponentEngine {
		return fmt.Errorf("invalid Opponent - '%s'", c.Opponent)
	}

	if c.Difficulty != "" && c.Difficulty != "random" {
		if _, ok := game.Difficulties[c.Difficulty]; !ok {
			return fmt.Errorf("invalid Difficulty - '%s'", c.Difficulty)
		}
	}

	return nil
}

type StartGameResponse struct {
	Color      string `json:"color"`
	FEN        string `json:"fen"`
	EngineMove string `json:"engine_move,omitempty"`
}

func HandleStartGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[StartGameCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.ActorID = core.ActorID(ctx)

	response, err := mediator.Send[StartGameCommand, StartGameResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type StartGameCommandHandler struct {
	registry   *game.Registry
	controller *game.Controller

	mu  sync.Mutex
	rng *rand.Rand
}

func NewStartGameCommandHandler(
	registry *game.Registry,
	controller *game.Controller,
	rng *rand.Rand,
) *StartGameCommandHandler {
	return &StartGameCommandHandler{registry: registry, controller: controller, rng: rng}
}

func (h *StartGameCommandHandler) Handle(
	ctx context.Context,
	request StartGameCommand,
) (StartGameResponse, error) {
	if request.Opponent == OpponentSolo {
		session := domain.NewSoloSession(request.ActorID)
		if err := h.registry.Begin(session); err != nil {
			return StartGameResponse{}, commandError(err)
		}
		return StartGameResponse{Color: "both", FEN: session.FEN()}, nil
	}

	skill, color := h.roll(request.Difficulty)

	session := domain.NewEngineSession(request.ActorID, color, skill)
	if err := h.registry.Begin(session); err != nil {
		return StartGameResponse{}, commandError(err)
	}

	response := StartGameResponse{FEN: session.FEN(), Color: "white"}
	if color == chess.Black {
		response.Color = "black"

		outcome, err := h.controller.PlayEngineOpening(ctx, session)
		if err != nil {
			h.registry.End(session)
			return StartGameResponse{}, commandError(err)
		}
		response.EngineMove = outcome.Move
		response.FEN = outcome.FEN
	}

	return response, nil
}

// roll picks the skill level and the player's color. An unset difficulty
// means the default level; "random" draws a level between the easiest and
// hardest named ones.
func (h *StartGameCommandHandler) roll(difficulty string) (int, chess.Color) {
	h.mu.Lock()
	defer h.mu.Unlock()

	skill := game.DefaultSkillLevel
	switch difficulty {
	case "":
	case "random":
		skill = 1 + h.rng.Intn(20)
	default:
		skill = game.Difficulties[difficulty]
	}

	color := chess.White
	if h.rng.Intn(2) == 1 {
		color = chess.Black
	}
	return skill, color
}
