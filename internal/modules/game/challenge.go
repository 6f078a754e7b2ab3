package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"

	"github.com/google/uuid"
)

var (
	ErrSelfChallenge     = errors.New("cannot challenge yourself")
	ErrChallengePending  = errors.New("opponent already has a pending challenge")
	ErrNoChallenge       = errors.New("no pending challenge for participant")
	ErrChallengeDeclined = errors.New("challenge was declined")
	ErrChallengeExpired  = errors.New("challenge expired without a response")
)

type challenge struct {
	id           string
	challengerID string
	targetID     string
	response     chan bool
}

// ChallengeDesk tracks pending head-to-head challenges. A challenge waits a
// bounded time for the target's one-shot accept/decline; an accepted
// challenge begins the session atomically, with the challenger as white.
type ChallengeDesk struct {
	mu       sync.Mutex
	pending  map[string]*challenge
	registry *Registry
	timeout  time.Duration
}

func NewChallengeDesk(registry *Registry, timeout time.Duration) *ChallengeDesk {
	return &ChallengeDesk{
		pending:  make(map[string]*challenge),
		registry: registry,
		timeout:  timeout,
	}
}

// Propose blocks until the target responds, the wait times out, or ctx is
// done. Only the initial acceptance has a bounded wait - an active game is
// never timed out.
func (d *ChallengeDesk) Propose(ctx context.Context, challengerID, targetID string) (*domain.Session, error) {
	if challengerID == targetID {
		return nil, ErrSelfChallenge
	}

	if d.registry.ActiveFor(challengerID) || d.registry.ActiveFor(targetID) {
		return nil, domain.ErrAlreadyInSession
	}

	c := &challenge{
		id:           uuid.NewString(),
		challengerID: challengerID,
		targetID:     targetID,
		response:     make(chan bool, 1),
	}

	d.mu.Lock()
	if _, exists := d.pending[targetID]; exists {
		d.mu.Unlock()
		return nil, ErrChallengePending
	}
	d.pending[targetID] = c
	d.mu.Unlock()

	defer d.remove(c)

	select {
	case accepted := <-c.response:
		if !accepted {
			return nil, ErrChallengeDeclined
		}
	case <-time.After(d.timeout):
		return nil, ErrChallengeExpired
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	session, err := domain.NewHeadToHeadSession(challengerID, targetID)
	if err != nil {
		return nil, err
	}

	// Begin re-checks availability atomically in case either party entered
	// another game while the challenge was open.
	if err := d.registry.Begin(session); err != nil {
		return nil, err
	}

	return session, nil
}

// Respond resolves the pending challenge addressed to targetID.
func (d *ChallengeDesk) Respond(targetID string, accept bool) error {
	d.mu.Lock()
	c, ok := d.pending[targetID]
	if ok {
		delete(d.pending, targetID)
	}
	d.mu.Unlock()

	if !ok {
		return ErrNoChallenge
	}

	c.response <- accept
	return nil
}

func (d *ChallengeDesk) remove(c *challenge) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending[c.targetID] == c {
		delete(d.pending, c.targetID)
	}
}
