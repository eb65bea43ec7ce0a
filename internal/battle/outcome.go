package battle

// RoundResult records one resolved exchange. Immutable once created and
// appended to the session history.
type RoundResult struct {
	Round   int
	Winner  string // participant ID, empty on a tie
	MoveA   Move
	MoveB   Move
	Summary string
	Points  int // 1 to the winner, 0 on a tie
}

// IsTie reports whether the round produced no winner.
func (r RoundResult) IsTie() bool {
	return r.Winner == ""
}

// Battle end reasons, referenced by the command layer when rendering results.
const (
	EndReasonFirstToTwo = "first to 2 round wins"
	EndReasonHighScore  = "higher score after 3 rounds"
	EndReasonTieGame    = "tie game after 3 rounds"
)

// Result is the overall battle outcome, produced once when the session
// reaches its terminal state.
type Result struct {
	Winner    string // participant ID, empty on a tie
	Scores    map[string]int
	Rounds    []RoundResult
	EndReason string
}

// Outcome is the result of a SubmitMove call: exactly one of MoveAccepted,
// RoundComplete, BattleComplete or Error.
type Outcome interface {
	isOutcome()
}

// MoveAccepted means the move is pending and the round awaits the other
// participant.
type MoveAccepted struct {
	Round int
}

// RoundComplete means both moves were present and the round resolved, with
// more rounds to play.
type RoundComplete struct {
	Round     RoundResult
	NextRound int
}

// BattleComplete means the submitted move resolved the final round.
type BattleComplete struct {
	FinalRound RoundResult
	Result     Result
}

// Error is a validation failure. The session state is exactly as it was
// before the call.
type Error struct {
	Err error
}

func (MoveAccepted) isOutcome()   {}
func (RoundComplete) isOutcome()  {}
func (BattleComplete) isOutcome() {}
func (Error) isOutcome()          {}

func (e Error) Error() string {
	return e.Err.Error()
}
