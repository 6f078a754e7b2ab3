package domain

import "errors"

var (
	ErrNotInSession     = errors.New("no active game for participant")
	ErrAlreadyInSession = errors.New("participant is already in a game")
	ErrOutOfTurn        = errors.New("not this participant's turn")
	ErrMalformedMove    = errors.New("malformed move, expected UCI format like e2e4")
	ErrIllegalMove      = errors.New("move is not legal in the current position")
	ErrGameOver         = errors.New("game already reached a terminal state")
	ErrNotParticipant   = errors.New("actor is not a participant of this game")
)
