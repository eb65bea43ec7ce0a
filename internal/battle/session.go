package battle

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/cardclash/internal/card"
)

// Deck and round geometry. With exactly three cards per deck and no card
// replayable, a battle structurally cannot exceed three rounds; the
// termination logic below relies on that and is not deck-size generic.
const (
	DeckSize     = 3
	MaxRounds    = 3
	winsToClinch = 2
)

// State is the session state tag.
type State int

const (
	StateWaitingForMoves State = iota
	StateRoundInProgress
	StateBattleComplete
)

// String returns the canonical name of the state.
func (s State) String() string {
	switch s {
	case StateWaitingForMoves:
		return "WAITING_FOR_MOVES"
	case StateRoundInProgress:
		return "ROUND_IN_PROGRESS"
	case StateBattleComplete:
		return "BATTLE_COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Session is one battle from pairing to termination. It owns all of its
// state exclusively and performs no internal locking: callers must guarantee
// SubmitMove is never invoked concurrently for the same session (the arena
// registry holds a per-channel lock for exactly this).
type Session struct {
	id        string
	channelID string
	a, b      string
	decks     map[string][]card.Card // participant ID -> fixed deck, creation order
	used      map[string]struct{}    // card IDs played by either participant
	pending   map[string]Move        // at most one per participant per round
	round     int
	history   []RoundResult
	state     State
	result    *Result
	logger    zerolog.Logger
}

// NewSession pairs two eligible decks into a live battle. Each deck must hold
// exactly DeckSize cards with IDs unique across both decks.
func NewSession(logger zerolog.Logger, channelID, participantA, participantB string, deckA, deckB []card.Card) (*Session, error) {
	if participantA == "" || participantB == "" || participantA == participantB {
		return nil, fmt.Errorf("battle requires two distinct participants")
	}
	if len(deckA) != DeckSize {
		return nil, fmt.Errorf("deck for %s has %d cards, want %d", participantA, len(deckA), DeckSize)
	}
	if len(deckB) != DeckSize {
		return nil, fmt.Errorf("deck for %s has %d cards, want %d", participantB, len(deckB), DeckSize)
	}

	seen := make(map[string]struct{}, 2*DeckSize)
	for _, c := range append(append([]card.Card{}, deckA...), deckB...) {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %s across battle decks", c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	id := uuid.NewString()
	return &Session{
		id:        id,
		channelID: channelID,
		a:         participantA,
		b:         participantB,
		decks: map[string][]card.Card{
			participantA: append([]card.Card{}, deckA...),
			participantB: append([]card.Card{}, deckB...),
		},
		used:    make(map[string]struct{}, 2*DeckSize),
		pending: make(map[string]Move, 2),
		round:   1,
		state:   StateWaitingForMoves,
		logger: logger.With().
			Str("component", "battle").
			Str("session_id", id).
			Str("channel_id", channelID).
			Logger(),
	}, nil
}

// SubmitMove plays a card for a participant in the current round. Every state
// transition in a battle is a side effect of this call. Validation failures
// return an Error outcome and leave the session untouched.
func (s *Session) SubmitMove(participantID, cardID string, position Position) Outcome {
	deck, known := s.decks[participantID]
	if !known {
		return Error{Err: ErrUnknownParticipant}
	}
	if s.state == StateBattleComplete {
		return Error{Err: ErrBattleComplete}
	}
	if _, usedAlready := s.used[cardID]; usedAlready {
		return Error{Err: ErrCardAlreadyUsed}
	}
	if _, pendingAlready := s.pending[participantID]; pendingAlready {
		return Error{Err: ErrMoveAlreadySubmitted}
	}

	var played card.Card
	found := false
	for _, c := range deck {
		if c.ID == cardID {
			played = c
			found = true
			break
		}
	}
	if !found {
		return Error{Err: ErrCardNotInDeck}
	}

	move := Move{
		ParticipantID: participantID,
		Card:          played,
		Position:      position,
		Round:         s.round,
	}
	s.pending[participantID] = move
	s.used[cardID] = struct{}{}

	if len(s.pending) < 2 {
		s.state = StateRoundInProgress
		s.logger.Debug().
			Str("participant", participantID).
			Str("card", played.Name).
			Stringer("position", position).
			Int("round", s.round).
			Msg("First move pending, awaiting opponent")
		return MoveAccepted{Round: s.round}
	}

	return s.resolveRound()
}

// resolveRound runs the resolver over the two pending moves and evaluates
// termination. Called only with both moves present.
func (s *Session) resolveRound() Outcome {
	result := ResolveRound(s.pending[s.a], s.pending[s.b], s.round)
	s.history = append(s.history, result)
	s.pending = make(map[string]Move, 2)

	s.logger.Info().
		Int("round", result.Round).
		Str("winner", result.Winner).
		Str("summary", result.Summary).
		Msg("Round resolved")

	winsA := s.Score(s.a)
	winsB := s.Score(s.b)

	switch {
	case winsA >= winsToClinch:
		return s.complete(result, s.a, EndReasonFirstToTwo)
	case winsB >= winsToClinch:
		return s.complete(result, s.b, EndReasonFirstToTwo)
	case len(s.history) >= MaxRounds:
		switch {
		case winsA > winsB:
			return s.complete(result, s.a, EndReasonHighScore)
		case winsB > winsA:
			return s.complete(result, s.b, EndReasonHighScore)
		default:
			return s.complete(result, "", EndReasonTieGame)
		}
	default:
		s.round++
		s.state = StateWaitingForMoves
		return RoundComplete{Round: result, NextRound: s.round}
	}
}

// complete transitions to the terminal state and produces the immutable
// battle result.
func (s *Session) complete(finalRound RoundResult, winner, reason string) Outcome {
	s.state = StateBattleComplete
	s.result = &Result{
		Winner: winner,
		Scores: map[string]int{
			s.a: s.Score(s.a),
			s.b: s.Score(s.b),
		},
		Rounds:    append([]RoundResult{}, s.history...),
		EndReason: reason,
	}

	s.logger.Info().
		Str("winner", winner).
		Str("end_reason", reason).
		Int("rounds_played", len(s.history)).
		Msg("Battle complete")

	return BattleComplete{FinalRound: finalRound, Result: *s.result}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// ChannelID returns the conversation key the session is bound to.
func (s *Session) ChannelID() string { return s.channelID }

// Participants returns both participant IDs in pairing order.
func (s *Session) Participants() (string, string) { return s.a, s.b }

// OpponentOf returns the other participant's ID, or "" for an unknown one.
func (s *Session) OpponentOf(participantID string) string {
	switch participantID {
	case s.a:
		return s.b
	case s.b:
		return s.a
	default:
		return ""
	}
}

// State returns the current state tag.
func (s *Session) State() State { return s.state }

// Round returns the current round number, starting at 1.
func (s *Session) Round() int { return s.round }

// Score counts the rounds a participant has won so far.
func (s *Session) Score(participantID string) int {
	wins := 0
	for _, r := range s.history {
		if r.Winner == participantID {
			wins++
		}
	}
	return wins
}

// RoundsPlayed returns the number of resolved rounds.
func (s *Session) RoundsPlayed() int { return len(s.history) }

// RoundsRemaining returns how many rounds could still be played under the
// structural cap.
func (s *Session) RoundsRemaining() int {
	if s.state == StateBattleComplete {
		return 0
	}
	return MaxRounds - len(s.history)
}

// HasPendingMove reports whether the participant already moved this round.
func (s *Session) HasPendingMove(participantID string) bool {
	_, ok := s.pending[participantID]
	return ok
}

// RemainingCards returns the participant's unused deck cards in deck order.
func (s *Session) RemainingCards(participantID string) []card.Card {
	deck, ok := s.decks[participantID]
	if !ok {
		return nil
	}
	remaining := make([]card.Card, 0, len(deck))
	for _, c := range deck {
		if _, usedAlready := s.used[c.ID]; !usedAlready {
			remaining = append(remaining, c)
		}
	}
	return remaining
}

// History returns a copy of the resolved rounds in order.
func (s *Session) History() []RoundResult {
	return append([]RoundResult{}, s.history...)
}

// Result returns the battle result once the session is terminal.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
