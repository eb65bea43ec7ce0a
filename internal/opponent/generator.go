package opponent

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/lox/cardclash/internal/card"
)

// Generated pools hold between poolMin and poolMax cards so the opponent
// always has spare cards beyond its three-card battle deck.
const (
	poolMin = 5
	poolMax = 7
)

// statRange biases generated attack/defense by personality. Aggressive pools
// skew high-attack/low-defense, defensive pools the inverse, and the rest
// widen progressively toward fully uniform.
type statRange struct {
	atkMin, atkMax int
	defMin, defMax int
}

var statRanges = map[Personality]statRange{
	Aggressive: {atkMin: 6, atkMax: 10, defMin: 1, defMax: 5},
	Defensive:  {atkMin: 1, atkMax: 5, defMin: 6, defMax: 10},
	Balanced:   {atkMin: 3, atkMax: 8, defMin: 3, defMax: 8},
	Smart:      {atkMin: 2, atkMax: 9, defMin: 2, defMax: 9},
	Chaotic:    {atkMin: 1, atkMax: 10, defMin: 1, defMax: 10},
}

var cardNames = map[Personality][]string{
	Aggressive: {
		"Razorfang", "Blood Howler", "Infernal Marauder", "Warpath Brute",
		"Cinder Reaver", "Skullcleaver", "Rampant Wyrm", "Iron Berserker",
	},
	Defensive: {
		"Stone Sentinel", "Aegis Warden", "Bulwark Golem", "Thorned Shellback",
		"Rampart Keeper", "Granite Tortoise", "Palisade Guard", "Oathbound Shield",
	},
	Balanced: {
		"Twin Blade Adept", "Temple Guardian", "Wandering Ronin", "Gale Duelist",
		"Bronze Champion", "Ember Knight", "Tide Warden", "Crescent Striker",
	},
	Smart: {
		"Arcane Strategist", "Mind Weaver", "Grand Tactician", "Gambit Architect",
		"Silent Calculator", "Oracle of Threads", "Foresight Adept", "Endgame Sage",
	},
	Chaotic: {
		"Giggling Imp", "Dice Goblin", "Static Jester", "Pandemonium Sprite",
		"Misfire Elemental", "Scrambled Chimera", "Entropy Hound", "Topsy Wisp",
	},
}

var displayNames = map[Personality][]string{
	Aggressive: {"Warlord Krag", "Captain Fury", "Bruiser Okk"},
	Defensive:  {"Warden Malla", "Keeper Dorn", "Old Ironhide"},
	Balanced:   {"Master Juno", "Ser Callan", "Veteran Rook"},
	Smart:      {"Professor Vex", "The Analyst", "Magister Olm"},
	Chaotic:    {"Wildcard Wen", "Mx. Mayhem", "The Scrambler"},
}

// Generate builds a synthetic participant for the given personality with a
// freshly generated card pool. Every generated card satisfies the card
// invariants; rarity follows the same weighted distribution as organically
// generated cards.
func Generate(rng *rand.Rand, personality Personality) Opponent {
	id := fmt.Sprintf("npc-%s", uuid.NewString()[:8])

	names := displayNames[personality]
	name := names[rng.IntN(len(names))]

	poolSize := poolMin + rng.IntN(poolMax-poolMin+1)
	pool := make([]card.Card, 0, poolSize)
	for i, nameIdx := range rng.Perm(len(cardNames[personality])) {
		if i >= poolSize {
			break
		}
		pool = append(pool, generateCard(rng, personality, id, cardNames[personality][nameIdx]))
	}

	return Opponent{
		ID:          id,
		Name:        name,
		Personality: personality,
		Pool:        pool,
	}
}

func generateCard(rng *rand.Rand, personality Personality, ownerID, name string) card.Card {
	r := statRanges[personality]
	c, err := card.New(card.Params{
		OwnerID:     ownerID,
		Name:        name,
		Attack:      r.atkMin + rng.IntN(r.atkMax-r.atkMin+1),
		Defense:     r.defMin + rng.IntN(r.defMax-r.defMin+1),
		Rarity:      card.RollRarity(rng),
		Description: fmt.Sprintf("A %s combatant summoned for battle.", strings.ToLower(personality.String())),
	})
	if err != nil {
		// Ranges above are all within the card stat bounds.
		panic(fmt.Sprintf("opponent card generation produced invalid card: %v", err))
	}
	return c
}
