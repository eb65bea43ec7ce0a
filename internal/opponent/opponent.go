package opponent

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/cardclash/internal/card"
)

// Personality names a decision strategy for a scripted participant.
type Personality int

const (
	Aggressive Personality = iota
	Defensive
	Balanced
	Smart
	Chaotic
)

// Personalities lists every strategy in declaration order.
var Personalities = []Personality{Aggressive, Defensive, Balanced, Smart, Chaotic}

// String returns the canonical upper-case name of the personality.
func (p Personality) String() string {
	switch p {
	case Aggressive:
		return "AGGRESSIVE"
	case Defensive:
		return "DEFENSIVE"
	case Balanced:
		return "BALANCED"
	case Smart:
		return "SMART"
	case Chaotic:
		return "CHAOTIC"
	default:
		return "UNKNOWN"
	}
}

// ParsePersonality maps a case-insensitive name back to a Personality.
func ParsePersonality(s string) (Personality, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AGGRESSIVE", "AGGRO":
		return Aggressive, nil
	case "DEFENSIVE":
		return Defensive, nil
	case "BALANCED":
		return Balanced, nil
	case "SMART":
		return Smart, nil
	case "CHAOTIC", "RANDOM":
		return Chaotic, nil
	default:
		return Balanced, fmt.Errorf("unknown personality %q", s)
	}
}

// RandomPersonality picks a personality uniformly.
func RandomPersonality(rng *rand.Rand) Personality {
	return Personalities[rng.IntN(len(Personalities))]
}

// Opponent is a synthetic participant standing in for a second human player.
type Opponent struct {
	ID          string
	Name        string
	Personality Personality
	Pool        []card.Card
}
