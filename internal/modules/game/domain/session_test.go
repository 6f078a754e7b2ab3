package domain

import (
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/stretchr/testify/require"
)

func Test_SubmitMove_OutOfTurn_DoesNotMutateSession(t *testing.T) {
	session, err := NewHeadToHeadSession("white-player", "black-player")
	require.NoError(t, err)

	before := session.FEN()

	_, err = session.SubmitMove("black-player", "e7e5")

	require.ErrorIs(t, err, ErrOutOfTurn)
	require.Equal(t, before, session.FEN())
	require.Equal(t, "white-player", session.PlayerToMove())
}

func Test_SubmitMove_MalformedMove_ReportedDistinctly(t *testing.T) {
	session, err := NewHeadToHeadSession("white-player", "black-player")
	require.NoError(t, err)

	before := session.FEN()

	_, err = session.SubmitMove("white-player", "knight to f3")
	require.ErrorIs(t, err, ErrMalformedMove)

	_, err = session.SubmitMove("white-player", "e2e5")
	require.ErrorIs(t, err, ErrIllegalMove)

	require.Equal(t, before, session.FEN())
}

func Test_SubmitMove_NonParticipant_Rejected(t *testing.T) {
	session, err := NewHeadToHeadSession("white-player", "black-player")
	require.NoError(t, err)

	_, err = session.SubmitMove("someone-else", "e2e4")

	require.ErrorIs(t, err, ErrNotParticipant)
}

func Test_SubmitMove_AcceptedMove_FlipsTurn(t *testing.T) {
	session, err := NewHeadToHeadSession("white-player", "black-player")
	require.NoError(t, err)

	out, err := session.SubmitMove("white-player", "e2e4")

	require.NoError(t, err)
	require.False(t, out.Terminal)
	require.Equal(t, "black-player", out.NextPlayerID)
	require.Equal(t, "black-player", session.PlayerToMove())
}

func Test_SubmitMove_Checkmate_SideToMoveLoses(t *testing.T) {
	session, err := NewHeadToHeadSession("white-player", "black-player")
	require.NoError(t, err)

	// Fool's mate - white gets mated.
	moves := []struct {
		actor, move string
	}{
		{"white-player", "f2f3"},
		{"black-player", "e7e5"},
		{"white-player", "g2g4"},
	}
	for _, m := range moves {
		_, err := session.SubmitMove(m.actor, m.move)
		require.NoError(t, err)
	}

	out, err := session.SubmitMove("black-player", "d8h4")

	require.NoError(t, err)
	require.True(t, out.Terminal)
	require.Equal(t, ResultBlackWins, out.Result)
	require.Equal(t, "checkmate", out.Reason)

	// Terminal session accepts no further moves.
	_, err = session.SubmitMove("white-player", "a2a3")
	require.ErrorIs(t, err, ErrGameOver)
}

func Test_SubmitMove_InsufficientMaterial_Draw(t *testing.T) {
	session, err := NewHeadToHeadSession(
		"white-player", "black-player",
		WithFEN("k7/8/8/8/8/8/q7/1K6 w - - 0 1"),
	)
	require.NoError(t, err)

	out, err := session.SubmitMove("white-player", "b1a2")

	require.NoError(t, err)
	require.True(t, out.Terminal)
	require.Equal(t, ResultDraw, out.Result)
	require.Equal(t, "insufficient material", out.Reason)
}

func Test_SoloSession_OneParticipantPlaysBothColors(t *testing.T) {
	session := NewSoloSession("player")

	_, err := session.SubmitMove("player", "e2e4")
	require.NoError(t, err)

	_, err = session.SubmitMove("player", "e7e5")
	require.NoError(t, err)

	require.Equal(t, []string{"player"}, session.Participants())
}

func Test_EngineSession_EngineToMoveAfterHumanMove(t *testing.T) {
	session := NewEngineSession("player", chess.White, 5)

	out, err := session.SubmitMove("player", "e2e4")

	require.NoError(t, err)
	require.True(t, out.EngineToMove)
	require.Equal(t, EngineID, out.NextPlayerID)
	require.Equal(t, []string{"player"}, session.Participants())
}

func Test_Resign_DecisiveLossForResigner(t *testing.T) {
	session, err := NewHeadToHeadSession("white-player", "black-player")
	require.NoError(t, err)

	result, err := session.Resign("white-player")

	require.NoError(t, err)
	require.Equal(t, ResultBlackWins, result)

	_, err = session.SubmitMove("white-player", "e2e4")
	require.ErrorIs(t, err, ErrGameOver)
}

func Test_MarkSettled_FlipsExactlyOnce(t *testing.T) {
	session, err := NewHeadToHeadSession("white-player", "black-player")
	require.NoError(t, err)

	require.True(t, session.MarkSettled())
	require.False(t, session.MarkSettled())
}
