package gateway

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/card"
)

func sampleRound() battle.RoundResult {
	return battle.RoundResult{
		Round:  1,
		Winner: "alice",
		MoveA: battle.Move{
			ParticipantID: "alice",
			Card:          card.Card{ID: "a-0", Name: "Razorfang", Attack: 8, Defense: 2, Rarity: card.Rare},
			Position:      battle.PositionAttack,
		},
		MoveB: battle.Move{
			ParticipantID: "npc-1",
			Card:          card.Card{ID: "n-0", Name: "Aegis Warden", Attack: 2, Defense: 6, Rarity: card.Common},
			Position:      battle.PositionDefense,
		},
		Summary: "Razorfang (ATK 8) assaults Aegis Warden (DEF 6)",
		Points:  1,
	}
}

func TestOutcomeMessageMoveAccepted(t *testing.T) {
	t.Parallel()

	msg, err := outcomeMessage("chan-1", battle.MoveAccepted{Round: 2})
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, MessageTypeMoveAccepted, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	var data MoveAcceptedData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "chan-1", data.ChannelID)
	assert.Equal(t, 2, data.Round)
}

func TestOutcomeMessageRoundComplete(t *testing.T) {
	t.Parallel()

	msg, err := outcomeMessage("chan-1", battle.RoundComplete{Round: sampleRound(), NextRound: 2})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeRoundComplete, msg.Type)

	var data RoundCompleteData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, 2, data.NextRound)
	assert.Equal(t, "alice", data.Round.Winner)
	assert.Equal(t, "ATTACK", data.Round.MoveA.Position)
	assert.Equal(t, "RARE", data.Round.MoveA.Card.Rarity)
	assert.Equal(t, "Aegis Warden", data.Round.MoveB.Card.Name)
}

func TestOutcomeMessageBattleComplete(t *testing.T) {
	t.Parallel()

	final := sampleRound()
	msg, err := outcomeMessage("chan-1", battle.BattleComplete{
		FinalRound: final,
		Result: battle.Result{
			Winner:    "alice",
			Scores:    map[string]int{"alice": 2, "npc-1": 0},
			Rounds:    []battle.RoundResult{final, final},
			EndReason: battle.EndReasonFirstToTwo,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeBattleComplete, msg.Type)

	var data BattleCompleteData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "alice", data.Winner)
	assert.Equal(t, battle.EndReasonFirstToTwo, data.EndReason)
	assert.Len(t, data.Rounds, 2)
	assert.Equal(t, 2, data.Scores["alice"])
}

func TestOutcomeMessageError(t *testing.T) {
	t.Parallel()

	msg, err := outcomeMessage("chan-1", battle.Error{Err: errors.New("card already used")})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeError, msg.Type)

	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "invalid_move", data.Code)
	assert.Equal(t, "card already used", data.Message)
}

func TestOutcomeMessageNilOutcome(t *testing.T) {
	t.Parallel()

	msg, err := outcomeMessage("chan-1", nil)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
