package battle

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cardclash/internal/card"
)

// testDeck builds a deck of three cards with predictable IDs like "alice-0".
func testDeck(owner string, stats [3][2]int) []card.Card {
	deck := make([]card.Card, 0, DeckSize)
	for i, s := range stats {
		deck = append(deck, card.Card{
			ID:      owner + "-" + string(rune('0'+i)),
			Name:    owner + " card " + string(rune('0'+i)),
			Attack:  s[0],
			Defense: s[1],
			OwnerID: owner,
		})
	}
	return deck
}

func newTestSession(t *testing.T, deckA, deckB []card.Card) *Session {
	t.Helper()
	s, err := NewSession(zerolog.Nop(), "chan-1", "alice", "bob", deckA, deckB)
	require.NoError(t, err)
	return s
}

func TestNewSessionValidation(t *testing.T) {
	t.Parallel()

	deckA := testDeck("alice", [3][2]int{{5, 5}, {6, 4}, {3, 7}})
	deckB := testDeck("bob", [3][2]int{{4, 4}, {7, 2}, {2, 8}})

	t.Run("valid session starts at round one", func(t *testing.T) {
		s := newTestSession(t, deckA, deckB)
		assert.Equal(t, 1, s.Round())
		assert.Equal(t, StateWaitingForMoves, s.State())
		assert.NotEmpty(t, s.ID())
		assert.Equal(t, "chan-1", s.ChannelID())
		a, b := s.Participants()
		assert.Equal(t, "alice", a)
		assert.Equal(t, "bob", b)
	})

	t.Run("rejects same participant twice", func(t *testing.T) {
		_, err := NewSession(zerolog.Nop(), "chan-1", "alice", "alice", deckA, deckB)
		assert.Error(t, err)
	})

	t.Run("rejects short deck", func(t *testing.T) {
		_, err := NewSession(zerolog.Nop(), "chan-1", "alice", "bob", deckA[:2], deckB)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate card ids across decks", func(t *testing.T) {
		_, err := NewSession(zerolog.Nop(), "chan-1", "alice", "bob", deckA, deckA)
		assert.Error(t, err)
	})
}

func TestSubmitMoveValidation(t *testing.T) {
	t.Parallel()

	deckA := testDeck("alice", [3][2]int{{5, 5}, {6, 4}, {3, 7}})
	deckB := testDeck("bob", [3][2]int{{4, 4}, {7, 2}, {2, 8}})

	t.Run("unknown participant", func(t *testing.T) {
		s := newTestSession(t, deckA, deckB)
		out := s.SubmitMove("mallory", "alice-0", PositionAttack)
		errOut, ok := out.(Error)
		require.True(t, ok)
		assert.ErrorIs(t, errOut.Err, ErrUnknownParticipant)
	})

	t.Run("card not in deck", func(t *testing.T) {
		s := newTestSession(t, deckA, deckB)
		out := s.SubmitMove("alice", "bob-0", PositionAttack)
		errOut, ok := out.(Error)
		require.True(t, ok)
		assert.ErrorIs(t, errOut.Err, ErrCardNotInDeck)
	})

	t.Run("double submission in one round", func(t *testing.T) {
		s := newTestSession(t, deckA, deckB)
		out := s.SubmitMove("alice", "alice-0", PositionAttack)
		_, ok := out.(MoveAccepted)
		require.True(t, ok)

		out = s.SubmitMove("alice", "alice-1", PositionDefense)
		errOut, ok := out.(Error)
		require.True(t, ok)
		assert.ErrorIs(t, errOut.Err, ErrMoveAlreadySubmitted)

		// The rejected card was not consumed.
		assert.Len(t, s.RemainingCards("alice"), 2)
	})

	t.Run("card already used in earlier round", func(t *testing.T) {
		s := newTestSession(t, deckA, deckB)
		s.SubmitMove("alice", "alice-1", PositionAttack) // ATK 6
		s.SubmitMove("bob", "bob-0", PositionAttack)     // ATK 4, alice wins round 1

		out := s.SubmitMove("bob", "bob-0", PositionAttack)
		errOut, ok := out.(Error)
		require.True(t, ok)
		assert.ErrorIs(t, errOut.Err, ErrCardAlreadyUsed)
	})

	t.Run("failed submission leaves state untouched", func(t *testing.T) {
		s := newTestSession(t, deckA, deckB)
		before := s.State()
		s.SubmitMove("alice", "nope", PositionAttack)
		assert.Equal(t, before, s.State())
		assert.False(t, s.HasPendingMove("alice"))
	})
}

func TestBattleFirstToTwo(t *testing.T) {
	t.Parallel()

	// Alice's attacks dominate; she takes rounds 1 and 2.
	deckA := testDeck("alice", [3][2]int{{9, 1}, {8, 2}, {7, 3}})
	deckB := testDeck("bob", [3][2]int{{2, 3}, {3, 4}, {4, 5}})
	s := newTestSession(t, deckA, deckB)

	out := s.SubmitMove("alice", "alice-0", PositionAttack)
	_, ok := out.(MoveAccepted)
	require.True(t, ok)
	assert.Equal(t, StateRoundInProgress, s.State())
	assert.True(t, s.HasPendingMove("alice"))

	out = s.SubmitMove("bob", "bob-0", PositionAttack)
	rc, ok := out.(RoundComplete)
	require.True(t, ok)
	assert.Equal(t, "alice", rc.Round.Winner)
	assert.Equal(t, 2, rc.NextRound)
	assert.Equal(t, StateWaitingForMoves, s.State())
	assert.False(t, s.HasPendingMove("alice"))

	s.SubmitMove("alice", "alice-1", PositionAttack)
	out = s.SubmitMove("bob", "bob-1", PositionDefense)
	bc, ok := out.(BattleComplete)
	require.True(t, ok, "two straight wins end the battle early")
	assert.Equal(t, "alice", bc.Result.Winner)
	assert.Equal(t, EndReasonFirstToTwo, bc.Result.EndReason)
	assert.Equal(t, map[string]int{"alice": 2, "bob": 0}, bc.Result.Scores)
	assert.Len(t, bc.Result.Rounds, 2)
	assert.Equal(t, StateBattleComplete, s.State())

	// The terminal session accepts nothing further.
	out = s.SubmitMove("alice", "alice-2", PositionAttack)
	errOut, ok := out.(Error)
	require.True(t, ok)
	assert.ErrorIs(t, errOut.Err, ErrBattleComplete)

	result, done := s.Result()
	require.True(t, done)
	assert.Equal(t, "alice", result.Winner)
}

func TestBattleClinchOnFinalRound(t *testing.T) {
	t.Parallel()

	// Round 1: alice wins. Round 2: bob wins. Round 3: alice wins 2-1.
	deckA := testDeck("alice", [3][2]int{{9, 1}, {2, 2}, {8, 3}})
	deckB := testDeck("bob", [3][2]int{{3, 3}, {7, 4}, {4, 5}})
	s := newTestSession(t, deckA, deckB)

	s.SubmitMove("alice", "alice-0", PositionAttack)
	s.SubmitMove("bob", "bob-0", PositionAttack) // alice 9 > bob 3

	s.SubmitMove("alice", "alice-1", PositionAttack)
	s.SubmitMove("bob", "bob-1", PositionAttack) // bob 7 > alice 2

	assert.Equal(t, 3, s.Round())
	assert.Equal(t, 1, s.RoundsRemaining())

	s.SubmitMove("alice", "alice-2", PositionAttack)
	out := s.SubmitMove("bob", "bob-2", PositionAttack) // alice 8 > bob 4

	// A second win is a clinch even when it lands on the last possible round.
	bc, ok := out.(BattleComplete)
	require.True(t, ok)
	assert.Equal(t, "alice", bc.Result.Winner)
	assert.Equal(t, EndReasonFirstToTwo, bc.Result.EndReason)
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1}, bc.Result.Scores)
	assert.Len(t, bc.Result.Rounds, 3)
}

func TestBattleHighScoreAfterThreeRounds(t *testing.T) {
	t.Parallel()

	// One win for alice, two drawn rounds: 1-0 is only decidable once all
	// three rounds have been played.
	deckA := testDeck("alice", [3][2]int{{9, 1}, {2, 6}, {3, 7}})
	deckB := testDeck("bob", [3][2]int{{3, 3}, {4, 5}, {2, 8}})
	s := newTestSession(t, deckA, deckB)

	s.SubmitMove("alice", "alice-0", PositionAttack)
	s.SubmitMove("bob", "bob-0", PositionAttack) // alice 9 > bob 3

	s.SubmitMove("alice", "alice-1", PositionDefense)
	s.SubmitMove("bob", "bob-1", PositionDefense) // tie

	s.SubmitMove("alice", "alice-2", PositionDefense)
	out := s.SubmitMove("bob", "bob-2", PositionDefense) // tie

	bc, ok := out.(BattleComplete)
	require.True(t, ok)
	assert.Equal(t, "alice", bc.Result.Winner)
	assert.Equal(t, EndReasonHighScore, bc.Result.EndReason)
	assert.Equal(t, map[string]int{"alice": 1, "bob": 0}, bc.Result.Scores)
	assert.Len(t, bc.Result.Rounds, 3)
}

func TestBattleEndsInDraw(t *testing.T) {
	t.Parallel()

	// Every round is defense vs defense, so nobody scores.
	deckA := testDeck("alice", [3][2]int{{5, 5}, {6, 4}, {3, 7}})
	deckB := testDeck("bob", [3][2]int{{4, 4}, {7, 2}, {2, 8}})
	s := newTestSession(t, deckA, deckB)

	for i := 0; i < MaxRounds; i++ {
		suffix := string(rune('0' + i))
		s.SubmitMove("alice", "alice-"+suffix, PositionDefense)
		out := s.SubmitMove("bob", "bob-"+suffix, PositionDefense)
		if i < MaxRounds-1 {
			_, ok := out.(RoundComplete)
			require.True(t, ok)
		} else {
			bc, ok := out.(BattleComplete)
			require.True(t, ok)
			assert.Empty(t, bc.Result.Winner)
			assert.Equal(t, EndReasonTieGame, bc.Result.EndReason)
			assert.Equal(t, map[string]int{"alice": 0, "bob": 0}, bc.Result.Scores)
		}
	}

	assert.Empty(t, s.RemainingCards("alice"))
	assert.Empty(t, s.RemainingCards("bob"))
	assert.Zero(t, s.RoundsRemaining())
}

func TestBattleTiedOneOneWithDrawnFinalRound(t *testing.T) {
	t.Parallel()

	// Round 1 to alice, round 2 to bob, round 3 defense vs defense.
	deckA := testDeck("alice", [3][2]int{{9, 1}, {2, 2}, {3, 7}})
	deckB := testDeck("bob", [3][2]int{{3, 3}, {7, 4}, {2, 8}})
	s := newTestSession(t, deckA, deckB)

	s.SubmitMove("alice", "alice-0", PositionAttack)
	s.SubmitMove("bob", "bob-0", PositionAttack)

	s.SubmitMove("alice", "alice-1", PositionAttack)
	s.SubmitMove("bob", "bob-1", PositionAttack)

	s.SubmitMove("alice", "alice-2", PositionDefense)
	out := s.SubmitMove("bob", "bob-2", PositionDefense)

	bc, ok := out.(BattleComplete)
	require.True(t, ok)
	assert.Empty(t, bc.Result.Winner)
	assert.Equal(t, EndReasonTieGame, bc.Result.EndReason)
	assert.Equal(t, map[string]int{"alice": 1, "bob": 1}, bc.Result.Scores)
	assert.True(t, bc.FinalRound.IsTie())
}

func TestSubmitOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	deckA := testDeck("alice", [3][2]int{{9, 1}, {8, 2}, {7, 3}})
	deckB := testDeck("bob", [3][2]int{{2, 3}, {3, 4}, {4, 5}})
	s := newTestSession(t, deckA, deckB)

	// Bob moves first this time; resolution is identical.
	s.SubmitMove("bob", "bob-0", PositionAttack)
	out := s.SubmitMove("alice", "alice-0", PositionAttack)

	rc, ok := out.(RoundComplete)
	require.True(t, ok)
	assert.Equal(t, "alice", rc.Round.Winner)
	assert.Equal(t, "alice", rc.Round.MoveA.ParticipantID, "moves are reported in pairing order")
}

func TestSessionQueries(t *testing.T) {
	t.Parallel()

	deckA := testDeck("alice", [3][2]int{{9, 1}, {8, 2}, {7, 3}})
	deckB := testDeck("bob", [3][2]int{{2, 3}, {3, 4}, {4, 5}})
	s := newTestSession(t, deckA, deckB)

	assert.Equal(t, "bob", s.OpponentOf("alice"))
	assert.Equal(t, "alice", s.OpponentOf("bob"))
	assert.Empty(t, s.OpponentOf("mallory"))

	_, done := s.Result()
	assert.False(t, done)
	assert.Empty(t, s.History())

	s.SubmitMove("alice", "alice-0", PositionAttack)
	s.SubmitMove("bob", "bob-0", PositionAttack)

	assert.Equal(t, 1, s.RoundsPlayed())
	assert.Equal(t, 1, s.Score("alice"))
	assert.Equal(t, 0, s.Score("bob"))

	history := s.History()
	require.Len(t, history, 1)
	// The returned history is a copy.
	history[0].Winner = "mallory"
	assert.Equal(t, "alice", s.History()[0].Winner)
}
