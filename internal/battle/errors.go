package battle

import "errors"

// Validation errors returned inside an Error outcome. None of these mutate
// session state.
var (
	ErrBattleComplete       = errors.New("battle already complete")
	ErrCardAlreadyUsed      = errors.New("card already used")
	ErrMoveAlreadySubmitted = errors.New("move already submitted this round")
	ErrCardNotInDeck        = errors.New("card not in your battle deck")
	ErrUnknownParticipant   = errors.New("unknown participant")
)
