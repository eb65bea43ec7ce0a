package card

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
)

// Rarity is an ordered tier: Common < Uncommon < Rare < Epic < Legendary.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

// String returns the canonical upper-case name of the rarity.
func (r Rarity) String() string {
	switch r {
	case Common:
		return "COMMON"
	case Uncommon:
		return "UNCOMMON"
	case Rare:
		return "RARE"
	case Epic:
		return "EPIC"
	case Legendary:
		return "LEGENDARY"
	default:
		return "UNKNOWN"
	}
}

// ParseRarity maps a case-insensitive name back to a Rarity.
func ParseRarity(s string) (Rarity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COMMON":
		return Common, nil
	case "UNCOMMON":
		return Uncommon, nil
	case "RARE":
		return Rare, nil
	case "EPIC":
		return Epic, nil
	case "LEGENDARY":
		return Legendary, nil
	default:
		return Common, fmt.Errorf("unknown rarity %q", s)
	}
}

// Upgraded returns the next tier up, capped at Legendary. Used when an
// external hint promotes a generated card.
func (r Rarity) Upgraded() Rarity {
	if r >= Legendary {
		return Legendary
	}
	return r + 1
}

// rarityWeights is the distribution contract of the generation service:
// Common 50%, Uncommon 25%, Rare 15%, Epic 8%, Legendary 2%.
var rarityWeights = []struct {
	rarity Rarity
	weight int
}{
	{Common, 50},
	{Uncommon, 25},
	{Rare, 15},
	{Epic, 8},
	{Legendary, 2},
}

// RollRarity samples the weighted rarity distribution.
func RollRarity(rng *rand.Rand) Rarity {
	roll := rng.IntN(100)
	for _, rw := range rarityWeights {
		if roll < rw.weight {
			return rw.rarity
		}
		roll -= rw.weight
	}
	return Common
}
