package domain

import (
	"regexp"
	"sync"

	"github.com/corentings/chess/v2"
)

// Well-formed move syntax is reported separately from moves that are legal
// chess notation but not playable in the position.
var uciMovePattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

type Mode string

const (
	ModeSolo       Mode = "solo"
	ModeEngine     Mode = "engine"
	ModeHeadToHead Mode = "1v1"
	ModeTournament Mode = "tournament"
)

// Rated reports whether games in this mode settle ratings and produce a
// persistent game record.
func (m Mode) Rated() bool {
	return m == ModeHeadToHead || m == ModeTournament
}

type Result string

const (
	ResultWhiteWins Result = "1-0"
	ResultBlackWins Result = "0-1"
	ResultDraw      Result = "1/2-1/2"
)

// EngineID is the reserved participant identity for the engine side of an
// engine-mode session. It never appears as a key in the session registry.
const EngineID = "engine"

// Session is the live shared state of one in-progress game. Both participants
// of a head-to-head or tournament game hold the same *Session, so a mutation
// by either side is observed by both. All mutating methods serialize on the
// session's own lock.
type Session struct {
	mu sync.Mutex

	game *chess.Game
	mode Mode

	whiteID string
	blackID string

	skill int

	tournamentID int64
	matchID      int64

	settled bool
}

type Option func(*Session) error

// WithFEN starts the session from an arbitrary position instead of the
// standard starting position.
func WithFEN(fen string) Option {
	return func(s *Session) error {
		opt, err := chess.FEN(fen)
		if err != nil {
			return err
		}

		s.game = chess.NewGame(opt)
		return nil
	}
}

func NewHeadToHeadSession(whiteID, blackID string, opts ...Option) (*Session, error) {
	s := &Session{
		game:    chess.NewGame(),
		mode:    ModeHeadToHead,
		whiteID: whiteID,
		blackID: blackID,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NewSoloSession creates a single-board session where one participant plays
// both colors.
func NewSoloSession(playerID string) *Session {
	return &Session{
		game:    chess.NewGame(),
		mode:    ModeSolo,
		whiteID: playerID,
		blackID: playerID,
	}
}

func NewEngineSession(playerID string, playerColor chess.Color, skill int) *Session {
	s := &Session{
		game:  chess.NewGame(),
		mode:  ModeEngine,
		skill: skill,
	}

	if playerColor == chess.White {
		s.whiteID, s.blackID = playerID, EngineID
	} else {
		s.whiteID, s.blackID = EngineID, playerID
	}

	return s
}

func NewTournamentSession(whiteID, blackID string, tournamentID, matchID int64) *Session {
	return &Session{
		game:         chess.NewGame(),
		mode:         ModeTournament,
		whiteID:      whiteID,
		blackID:      blackID,
		tournamentID: tournamentID,
		matchID:      matchID,
	}
}

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) WhiteID() string { return s.whiteID }

func (s *Session) BlackID() string { return s.blackID }

func (s *Session) SkillLevel() int { return s.skill }

func (s *Session) TournamentID() int64 { return s.tournamentID }

func (s *Session) MatchID() int64 { return s.matchID }

// Participants returns the registry keys for this session: every distinct
// human identity, never the engine.
func (s *Session) Participants() []string {
	ids := make([]string, 0, 2)
	if s.whiteID != EngineID {
		ids = append(ids, s.whiteID)
	}
	if s.blackID != EngineID && s.blackID != s.whiteID {
		ids = append(ids, s.blackID)
	}
	return ids
}

func (s *Session) IDForColor(c chess.Color) string {
	if c == chess.White {
		return s.whiteID
	}
	return s.blackID
}

// PlayerToMove returns the identity whose submission is currently accepted.
func (s *Session) PlayerToMove() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.IDForColor(s.game.Position().Turn())
}

func (s *Session) FEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.FEN()
}

// PGN exports the full move list for replay and the game record.
func (s *Session) PGN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.String()
}

// MarkSettled flips the settled flag and reports whether this call was the
// one that flipped it. Settlement runs at most once per session.
func (s *Session) MarkSettled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled {
		return false
	}
	s.settled = true
	return true
}

// MoveOutcome is the observable effect of one accepted move.
type MoveOutcome struct {
	Move         string `json:"move"`
	FEN          string `json:"fen"`
	Terminal     bool   `json:"terminal"`
	Result       Result `json:"result,omitempty"`
	Reason       string `json:"reason,omitempty"`
	NextPlayerID string `json:"next_player_id,omitempty"`
	EngineToMove bool   `json:"-"`
}

// SubmitMove validates turn ownership and legality for actorID's proposed
// move, applies it, and reports the resulting state. A rejected move leaves
// the session untouched. Engine replies go through the same protocol under
// the EngineID identity.
func (s *Session) SubmitMove(actorID, move string) (MoveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actorID != s.whiteID && actorID != s.blackID {
		return MoveOutcome{}, ErrNotParticipant
	}

	if s.settled || s.game.Outcome() != chess.NoOutcome {
		return MoveOutcome{}, ErrGameOver
	}

	pos := s.game.Position()
	if s.IDForColor(pos.Turn()) != actorID {
		return MoveOutcome{}, ErrOutOfTurn
	}

	if !uciMovePattern.MatchString(move) {
		return MoveOutcome{}, ErrMalformedMove
	}

	mv, err := chess.UCINotation{}.Decode(pos, move)
	if err != nil {
		return MoveOutcome{}, ErrIllegalMove
	}

	if err := s.game.Move(mv, nil); err != nil {
		return MoveOutcome{}, ErrIllegalMove
	}

	out := MoveOutcome{
		Move: mv.String(),
		FEN:  s.game.FEN(),
	}

	if result, reason, over := s.terminal(); over {
		out.Terminal = true
		out.Result = result
		out.Reason = reason
		return out, nil
	}

	next := s.IDForColor(s.game.Position().Turn())
	out.NextPlayerID = next
	out.EngineToMove = next == EngineID
	return out, nil
}

// Resign ends the game as a decisive loss for actorID.
func (s *Session) Resign(actorID string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actorID != s.whiteID && actorID != s.blackID {
		return "", ErrNotParticipant
	}

	if s.settled || s.game.Outcome() != chess.NoOutcome {
		return "", ErrGameOver
	}

	if actorID == s.whiteID {
		s.game.Resign(chess.White)
		return ResultBlackWins, nil
	}

	s.game.Resign(chess.Black)
	return ResultWhiteWins, nil
}

// terminal inspects the position after a move. Checkmate takes precedence;
// every other decided outcome is one of the draw conditions (stalemate,
// insufficient material, seventy-five moves, fivefold repetition).
func (s *Session) terminal() (Result, string, bool) {
	outcome := s.game.Outcome()
	if outcome == chess.NoOutcome {
		return "", "", false
	}

	if s.game.Method() == chess.Checkmate {
		// The side to move is the side that got mated.
		if outcome == chess.WhiteWon {
			return ResultWhiteWins, "checkmate", true
		}
		return ResultBlackWins, "checkmate", true
	}

	return ResultDraw, drawReason(s.game.Method()), true
}

func drawReason(method chess.Method) string {
	switch method {
	case chess.Stalemate:
		return "stalemate"
	case chess.InsufficientMaterial:
		return "insufficient material"
	case chess.SeventyFiveMoveRule:
		return "seventy-five move rule"
	case chess.FivefoldRepetition:
		return "fivefold repetition"
	default:
		return "draw"
	}
}
