package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("tournament not found")
	ErrNotJoinable         = errors.New("tournament already started or finished")
	ErrAlreadyJoined       = errors.New("participant already registered in this tournament")
	ErrInsufficientPlayers = errors.New("need at least 2 players to start")
	ErrMatchNotFound       = errors.New("tournament match not found")
)

type Status string

const (
	StatusCreated  Status = "created"
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
)

type Tournament struct {
	ID        int64     `db:"id" json:"id"`
	Scope     string    `db:"scope" json:"scope"`
	Name      string    `db:"name" json:"name"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type MatchStatus string

// Matches are born ongoing (or done, for byes); there is no pending state.
const (
	MatchOngoing MatchStatus = "ongoing"
	MatchDone    MatchStatus = "done"
)

// Match is one pairing within a round. BlackID is empty for a bye; WinnerID
// is set exactly when the match is done and decided (a drawn non-tiebreak
// match is done with no winner, superseded by its tiebreak).
type Match struct {
	ID           int64       `db:"id" json:"id"`
	TournamentID int64       `db:"tournament_id" json:"tournament_id"`
	Round        int         `db:"round" json:"round"`
	WhiteID      string      `db:"white_id" json:"white_id"`
	BlackID      string      `db:"black_id" json:"black_id,omitempty"`
	WinnerID     string      `db:"winner_id" json:"winner_id,omitempty"`
	Status       MatchStatus `db:"status" json:"status"`
	IsTiebreak   bool        `db:"is_tiebreak" json:"is_tiebreak"`
}

// Bye reports whether this match auto-advances an unpaired player.
func (m Match) Bye() bool {
	return m.BlackID == ""
}

type BracketRound struct {
	Round   int     `json:"round"`
	Matches []Match `json:"matches"`
}

type Bracket struct {
	Tournament Tournament     `json:"tournament"`
	Rounds     []BracketRound `json:"rounds"`
}
