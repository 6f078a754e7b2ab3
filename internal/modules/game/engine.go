package game

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/uci"
)

// Difficulty names map onto UCI skill levels.
var Difficulties = map[string]int{
	"peaceful": 1,
	"easy":     2,
	"normal":   5,
	"hard":     10,
	"hardcore": 20,
}

const DefaultSkillLevel = 5

// Oracle recommends a move for a position at a given strength level.
type Oracle interface {
	BestMove(ctx context.Context, fen string, skill int) (string, error)
}

// UCIOracle drives a UCI engine binary (stockfish). The engine process
// answers one search at a time, so calls serialize on the oracle's lock -
// callers must not hold any session or registry lock while asking.
type UCIOracle struct {
	mu  sync.Mutex
	eng *uci.Engine
}

func NewUCIOracle(path string) (*UCIOracle, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("start uci engine: %w", err)
	}

	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		return nil, fmt.Errorf("initialize uci engine: %w", err)
	}

	return &UCIOracle{eng: eng}, nil
}

func (o *UCIOracle) BestMove(ctx context.Context, fen string, skill int) (string, error) {
	position, err := positionFromFEN(fen)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	err = o.eng.Run(
		uci.CmdSetOption{Name: "Skill Level", Value: strconv.Itoa(skill)},
		uci.CmdPosition{Position: position},
		uci.CmdGo{MoveTime: 100 * time.Millisecond},
	)
	if err != nil {
		return "", fmt.Errorf("engine search: %w", err)
	}

	best := o.eng.SearchResults().BestMove
	if best == nil {
		return "", fmt.Errorf("engine returned no move for position %q", fen)
	}

	return best.String(), nil
}

func (o *UCIOracle) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.eng.Close()
}

func positionFromFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}

	return chess.NewGame(opt).Position(), nil
}
