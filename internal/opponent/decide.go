package opponent

import (
	rand "math/rand/v2"

	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/card"
)

// ChooseMove picks a card and position for a scripted participant. It never
// fails: when a preference yields no candidate it falls back to a uniform
// random choice. Only the non-random branches are deterministic — notably
// SMART's forced ATTACK on a tied final round.
func ChooseMove(rng *rand.Rand, personality Personality, available []card.Card, round, selfScore, oppScore int) (card.Card, battle.Position) {
	if len(available) == 0 {
		return card.Card{}, battle.PositionAttack
	}

	switch personality {
	case Aggressive:
		chosen := maxBy(available, byAttack)
		return chosen, positionWithBias(rng, battle.PositionAttack, 0.8)

	case Defensive:
		chosen := maxBy(available, byDefense)
		return chosen, positionWithBias(rng, battle.PositionDefense, 0.8)

	case Balanced:
		chosen := maxBy(available, card.Card.Power)
		if chosen.Attack > chosen.Defense {
			return chosen, battle.PositionAttack
		}
		return chosen, battle.PositionDefense

	case Smart:
		return chooseSmart(rng, available, round, selfScore, oppScore)

	default: // Chaotic
		chosen := available[rng.IntN(len(available))]
		if rng.IntN(2) == 0 {
			return chosen, battle.PositionAttack
		}
		return chosen, battle.PositionDefense
	}
}

// chooseSmart adapts to the score differential: press with attack when
// behind, protect the lead when ahead, and force ATTACK on the final round
// of a tied battle where a defensive stall guarantees at best a draw.
func chooseSmart(rng *rand.Rand, available []card.Card, round, selfScore, oppScore int) (card.Card, battle.Position) {
	var chosen card.Card
	switch {
	case selfScore < oppScore:
		chosen = maxBy(available, byAttack)
	case selfScore > oppScore:
		chosen = maxBy(available, byDefense)
	default:
		chosen = maxBy(available, card.Card.Power)
	}

	tied := selfScore == oppScore
	switch {
	case round >= battle.MaxRounds && tied:
		return chosen, battle.PositionAttack
	case selfScore < oppScore:
		return chosen, positionWithBias(rng, battle.PositionAttack, 0.7)
	case chosen.Attack >= chosen.Defense:
		return chosen, battle.PositionAttack
	default:
		return chosen, battle.PositionDefense
	}
}

// positionWithBias returns preferred with the given probability, otherwise
// the opposite position.
func positionWithBias(rng *rand.Rand, preferred battle.Position, prob float64) battle.Position {
	if rng.Float64() < prob {
		return preferred
	}
	if preferred == battle.PositionAttack {
		return battle.PositionDefense
	}
	return battle.PositionAttack
}

// maxBy returns the card maximising key, breaking ties by slice order.
func maxBy(cards []card.Card, key func(card.Card) int) card.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if key(c) > key(best) {
			best = c
		}
	}
	return best
}

func byAttack(c card.Card) int  { return c.Attack }
func byDefense(c card.Card) int { return c.Defense }
