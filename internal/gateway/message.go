package gateway

import (
	"encoding/json"
	"time"

	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/card"
)

// Message is the base websocket envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

type ChallengeData struct {
	ChannelID   string   `json:"channelId"`
	PlayerID    string   `json:"playerId"`
	Personality string   `json:"personality,omitempty"` // empty picks one at random
	CardIDs     []string `json:"cardIds,omitempty"`     // empty picks the player's strongest three
}

type PlayCardData struct {
	ChannelID string `json:"channelId"`
	PlayerID  string `json:"playerId"`
	CardID    string `json:"cardId"`
	Position  string `json:"position"` // ATTACK or DEFENSE
}

type AbandonData struct {
	ChannelID string `json:"channelId"`
}

// Server → Client payloads

type CardInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
	Rarity      string `json:"rarity"`
	Description string `json:"description,omitempty"`
}

type BattleStartedData struct {
	SessionID           string     `json:"sessionId"`
	ChannelID           string     `json:"channelId"`
	OpponentID          string     `json:"opponentId"`
	OpponentName        string     `json:"opponentName"`
	OpponentPersonality string     `json:"opponentPersonality"`
	Deck                []CardInfo `json:"deck"`
	Round               int        `json:"round"`
}

type MoveAcceptedData struct {
	ChannelID string `json:"channelId"`
	Round     int    `json:"round"`
}

type MoveInfo struct {
	ParticipantID string   `json:"participantId"`
	Card          CardInfo `json:"card"`
	Position      string   `json:"position"`
}

type RoundResultInfo struct {
	Round   int      `json:"round"`
	Winner  string   `json:"winner,omitempty"` // empty on a tie
	MoveA   MoveInfo `json:"moveA"`
	MoveB   MoveInfo `json:"moveB"`
	Summary string   `json:"summary"`
	Points  int      `json:"points"`
}

type RoundCompleteData struct {
	ChannelID string          `json:"channelId"`
	Round     RoundResultInfo `json:"round"`
	NextRound int             `json:"nextRound"`
}

type BattleCompleteData struct {
	ChannelID  string            `json:"channelId"`
	FinalRound RoundResultInfo   `json:"finalRound"`
	Winner     string            `json:"winner,omitempty"` // empty on a tie
	Scores     map[string]int    `json:"scores"`
	Rounds     []RoundResultInfo `json:"rounds"`
	EndReason  string            `json:"endReason"`
}

type AbandonedData struct {
	ChannelID string `json:"channelId"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Conversions from engine types

func cardInfo(c card.Card) CardInfo {
	return CardInfo{
		ID:          c.ID,
		Name:        c.Name,
		Attack:      c.Attack,
		Defense:     c.Defense,
		Rarity:      c.Rarity.String(),
		Description: c.Description,
	}
}

func cardInfos(cards []card.Card) []CardInfo {
	infos := make([]CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = cardInfo(c)
	}
	return infos
}

func moveInfo(m battle.Move) MoveInfo {
	return MoveInfo{
		ParticipantID: m.ParticipantID,
		Card:          cardInfo(m.Card),
		Position:      m.Position.String(),
	}
}

func roundResultInfo(r battle.RoundResult) RoundResultInfo {
	return RoundResultInfo{
		Round:   r.Round,
		Winner:  r.Winner,
		MoveA:   moveInfo(r.MoveA),
		MoveB:   moveInfo(r.MoveB),
		Summary: r.Summary,
		Points:  r.Points,
	}
}

// outcomeMessage renders a submit outcome as the wire message for the
// channel. Returns nil for a nil outcome.
func outcomeMessage(channelID string, outcome battle.Outcome) (*Message, error) {
	switch out := outcome.(type) {
	case battle.MoveAccepted:
		return NewMessage(MessageTypeMoveAccepted, MoveAcceptedData{
			ChannelID: channelID,
			Round:     out.Round,
		})
	case battle.RoundComplete:
		return NewMessage(MessageTypeRoundComplete, RoundCompleteData{
			ChannelID: channelID,
			Round:     roundResultInfo(out.Round),
			NextRound: out.NextRound,
		})
	case battle.BattleComplete:
		rounds := make([]RoundResultInfo, len(out.Result.Rounds))
		for i, r := range out.Result.Rounds {
			rounds[i] = roundResultInfo(r)
		}
		return NewMessage(MessageTypeBattleComplete, BattleCompleteData{
			ChannelID:  channelID,
			FinalRound: roundResultInfo(out.FinalRound),
			Winner:     out.Result.Winner,
			Scores:     out.Result.Scores,
			Rounds:     rounds,
			EndReason:  out.Result.EndReason,
		})
	case battle.Error:
		return NewMessage(MessageTypeError, ErrorData{
			Code:    "invalid_move",
			Message: out.Err.Error(),
		})
	default:
		return nil, nil
	}
}
