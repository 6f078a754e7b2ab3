package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"

	"go.uber.org/zap"
)

// ErrEngineFailure wraps move-oracle errors. The session is left untouched
// so the user can retry; an engine failure never advances the turn.
var ErrEngineFailure = errors.New("engine failed to produce a move")

// Controller owns the turn-taking protocol: it routes a participant's move
// to their session, plays engine replies, and hands terminal games to the
// settlement pipeline.
type Controller struct {
	registry *Registry
	oracle   Oracle
	settler  *Settler
	logger   *zap.Logger
}

func NewController(registry *Registry, oracle Oracle, settler *Settler, logger *zap.Logger) *Controller {
	return &Controller{
		registry: registry,
		oracle:   oracle,
		settler:  settler,
		logger:   logger,
	}
}

func (c *Controller) SubmitMove(ctx context.Context, actorID, move string) (domain.MoveOutcome, error) {
	session, ok := c.registry.Lookup(actorID)
	if !ok {
		return domain.MoveOutcome{}, domain.ErrNotInSession
	}

	out, err := session.SubmitMove(actorID, move)
	if err != nil {
		return domain.MoveOutcome{}, err
	}

	if out.Terminal {
		return out, c.conclude(ctx, session, out.Result)
	}

	if out.EngineToMove {
		return c.playEngine(ctx, session, out)
	}

	return out, nil
}

// PlayEngineOpening plays the engine's move when an engine-mode game starts
// with the engine as white.
func (c *Controller) PlayEngineOpening(ctx context.Context, session *domain.Session) (domain.MoveOutcome, error) {
	if session.PlayerToMove() != domain.EngineID {
		return domain.MoveOutcome{}, nil
	}

	return c.playEngine(ctx, session, domain.MoveOutcome{FEN: session.FEN(), EngineToMove: true})
}

// PlayEngineMove invokes the engine for actorID's session. The turn stays
// with the engine after an oracle failure, so this is the user's retry path:
// re-request the reply instead of moving out of turn.
func (c *Controller) PlayEngineMove(ctx context.Context, actorID string) (domain.MoveOutcome, error) {
	session, ok := c.registry.Lookup(actorID)
	if !ok {
		return domain.MoveOutcome{}, domain.ErrNotInSession
	}

	if session.PlayerToMove() != domain.EngineID {
		return domain.MoveOutcome{}, domain.ErrOutOfTurn
	}

	return c.playEngine(ctx, session, domain.MoveOutcome{FEN: session.FEN(), EngineToMove: true})
}

// playEngine runs engine replies until the human is to move or the game
// ends. The oracle computes on a position snapshot with no session lock
// held; the session re-validates turn and liveness when the reply is
// applied, in case of a concurrent resign.
func (c *Controller) playEngine(ctx context.Context, session *domain.Session, last domain.MoveOutcome) (domain.MoveOutcome, error) {
	out := last

	for out.EngineToMove {
		best, err := c.oracle.BestMove(ctx, out.FEN, session.SkillLevel())
		if err != nil {
			c.logger.Error("move oracle failed", zap.Error(err))
			return out, fmt.Errorf("%w: %v", ErrEngineFailure, err)
		}

		engineOut, err := session.SubmitMove(domain.EngineID, best)
		if err != nil {
			// The game ended while the engine was thinking.
			if errors.Is(err, domain.ErrGameOver) || errors.Is(err, domain.ErrOutOfTurn) {
				return out, nil
			}
			return out, fmt.Errorf("%w: %v", ErrEngineFailure, err)
		}

		out = engineOut
		if out.Terminal {
			return out, c.conclude(ctx, session, out.Result)
		}
	}

	return out, nil
}

// Resign ends actorID's session as a decisive loss for them. Tournament
// resignations advance the bracket exactly as a checkmate would.
func (c *Controller) Resign(ctx context.Context, actorID string) (domain.Result, error) {
	session, ok := c.registry.Lookup(actorID)
	if !ok {
		return "", domain.ErrNotInSession
	}

	result, err := session.Resign(actorID)
	if err != nil {
		return "", err
	}

	return result, c.conclude(ctx, session, result)
}

// Exit is the explicit cancellation primitive: it behaves as a resignation
// for rated games and simply clears solo and engine sessions.
func (c *Controller) Exit(ctx context.Context, actorID string) error {
	session, ok := c.registry.Lookup(actorID)
	if !ok {
		return domain.ErrNotInSession
	}

	if session.Mode().Rated() {
		_, err := c.Resign(ctx, actorID)
		return err
	}

	if session.MarkSettled() {
		c.registry.End(session)
	}

	return nil
}

// conclude removes the session from the registry and settles it. The settled
// flag guarantees a duplicate terminal trigger is a no-op, and the registry
// removal happens before settlement so the session is unreachable the moment
// its outcome is being recorded.
func (c *Controller) conclude(ctx context.Context, session *domain.Session, result domain.Result) error {
	if !session.MarkSettled() {
		return nil
	}

	c.registry.End(session)

	if !session.Mode().Rated() {
		return nil
	}

	return c.settler.Settle(ctx, session, result)
}
