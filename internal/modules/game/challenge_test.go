package game

import (
	"context"
	"testing"
	"time"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"

	"github.com/stretchr/testify/require"
)

func Test_ChallengeDesk_AcceptedChallenge_BeginsSharedSession(t *testing.T) {
	registry := NewRegistry()
	desk := NewChallengeDesk(registry, time.Second)

	go func() {
		// Give Propose time to register the pending challenge.
		for desk.Respond("bob", true) == ErrNoChallenge {
			time.Sleep(time.Millisecond)
		}
	}()

	session, err := desk.Propose(context.Background(), "alice", "bob")

	require.NoError(t, err)
	require.Equal(t, "alice", session.WhiteID())
	require.Equal(t, "bob", session.BlackID())

	fromAlice, ok := registry.Lookup("alice")
	require.True(t, ok)
	require.Same(t, session, fromAlice)
	require.True(t, registry.ActiveFor("bob"))
}

func Test_ChallengeDesk_DeclinedChallenge_NoSession(t *testing.T) {
	registry := NewRegistry()
	desk := NewChallengeDesk(registry, time.Second)

	go func() {
		for desk.Respond("bob", false) == ErrNoChallenge {
			time.Sleep(time.Millisecond)
		}
	}()

	_, err := desk.Propose(context.Background(), "alice", "bob")

	require.ErrorIs(t, err, ErrChallengeDeclined)
	require.False(t, registry.ActiveFor("alice"))
	require.False(t, registry.ActiveFor("bob"))
}

func Test_ChallengeDesk_Timeout_DropsChallenge(t *testing.T) {
	registry := NewRegistry()
	desk := NewChallengeDesk(registry, 20*time.Millisecond)

	_, err := desk.Propose(context.Background(), "alice", "bob")

	require.ErrorIs(t, err, ErrChallengeExpired)
	require.False(t, registry.ActiveFor("alice"))

	// The expired challenge is gone - a late response finds nothing.
	require.ErrorIs(t, desk.Respond("bob", true), ErrNoChallenge)
}

func Test_ChallengeDesk_SelfChallenge_Rejected(t *testing.T) {
	desk := NewChallengeDesk(NewRegistry(), time.Second)

	_, err := desk.Propose(context.Background(), "alice", "alice")

	require.ErrorIs(t, err, ErrSelfChallenge)
}

func Test_ChallengeDesk_ParticipantAlreadyPlaying_Rejected(t *testing.T) {
	registry := NewRegistry()
	desk := NewChallengeDesk(registry, time.Second)

	session, err := domain.NewHeadToHeadSession("bob", "carol")
	require.NoError(t, err)
	require.NoError(t, registry.Begin(session))

	_, err = desk.Propose(context.Background(), "alice", "bob")

	require.ErrorIs(t, err, domain.ErrAlreadyInSession)
}
