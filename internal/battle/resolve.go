package battle

import "fmt"

// ResolveRound maps two simultaneous moves to a round outcome. It is pure
// and deterministic: ties are never randomized, and the defender is favored
// on exact stat equality in mixed-position rounds.
//
//	ATTACK  vs ATTACK  -> higher attack wins, equal attack ties
//	ATTACK  vs DEFENSE -> attacker wins iff attack > defense
//	DEFENSE vs DEFENSE -> always a tie, regardless of stats
func ResolveRound(a, b Move, round int) RoundResult {
	result := RoundResult{
		Round: round,
		MoveA: a,
		MoveB: b,
	}

	switch {
	case a.Position == PositionAttack && b.Position == PositionAttack:
		switch {
		case a.stat() > b.stat():
			result.Winner = a.ParticipantID
		case b.stat() > a.stat():
			result.Winner = b.ParticipantID
		}
		result.Summary = attackClashSummary(a, b, result.Winner)

	case a.Position == PositionAttack && b.Position == PositionDefense:
		if a.stat() > b.stat() {
			result.Winner = a.ParticipantID
		} else {
			result.Winner = b.ParticipantID
		}
		result.Summary = siegeSummary(a, b, result.Winner)

	case a.Position == PositionDefense && b.Position == PositionAttack:
		if b.stat() > a.stat() {
			result.Winner = b.ParticipantID
		} else {
			result.Winner = a.ParticipantID
		}
		result.Summary = siegeSummary(b, a, result.Winner)

	default: // DEFENSE vs DEFENSE
		result.Summary = fmt.Sprintf(
			"%s (DEF %d) and %s (DEF %d) both hold back behind their guard — nothing happens, round tied",
			a.Card.Name, a.Card.Defense, b.Card.Name, b.Card.Defense,
		)
	}

	if result.Winner != "" {
		result.Points = 1
	}
	return result
}

// attackClashSummary describes an attack-vs-attack round.
func attackClashSummary(a, b Move, winner string) string {
	head := fmt.Sprintf("%s (ATK %d) clashes with %s (ATK %d)",
		a.Card.Name, a.Card.Attack, b.Card.Name, b.Card.Attack)
	switch winner {
	case a.ParticipantID:
		return fmt.Sprintf("%s — %s strikes harder, round to %s", head, a.Card.Name, a.ParticipantID)
	case b.ParticipantID:
		return fmt.Sprintf("%s — %s strikes harder, round to %s", head, b.Card.Name, b.ParticipantID)
	default:
		return head + " — the blows cancel out, round tied"
	}
}

// siegeSummary describes an attacker-vs-defender round. attacker always has
// PositionAttack and defender PositionDefense.
func siegeSummary(attacker, defender Move, winner string) string {
	head := fmt.Sprintf("%s (ATK %d) assaults %s (DEF %d)",
		attacker.Card.Name, attacker.Card.Attack, defender.Card.Name, defender.Card.Defense)
	if winner == attacker.ParticipantID {
		return fmt.Sprintf("%s — the guard is broken, round to %s", head, attacker.ParticipantID)
	}
	return fmt.Sprintf("%s — the defense holds, round to %s", head, defender.ParticipantID)
}
