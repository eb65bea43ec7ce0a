package battle

import (
	"fmt"
	"strings"

	"github.com/lox/cardclash/internal/card"
)

// Position is a card's posture for a round. It determines which stat is
// compared during resolution.
type Position int

const (
	PositionAttack Position = iota
	PositionDefense
)

// String returns the canonical upper-case name of the position.
func (p Position) String() string {
	switch p {
	case PositionAttack:
		return "ATTACK"
	case PositionDefense:
		return "DEFENSE"
	default:
		return "UNKNOWN"
	}
}

// ParsePosition maps a case-insensitive name back to a Position.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ATTACK", "ATK":
		return PositionAttack, nil
	case "DEFENSE", "DEF":
		return PositionDefense, nil
	default:
		return PositionAttack, fmt.Errorf("unknown position %q", s)
	}
}

// Move is one participant's secret play for a round. Created exactly once per
// participant per round at submission time, never mutated afterwards.
type Move struct {
	ParticipantID string
	Card          card.Card
	Position      Position
	Round         int
}

// stat returns the stat the move puts forward: attack when attacking,
// defense when defending.
func (m Move) stat() int {
	if m.Position == PositionAttack {
		return m.Card.Attack
	}
	return m.Card.Defense
}
