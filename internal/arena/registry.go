package arena

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/opponent"
)

var (
	// ErrBattleInProgress is returned when a channel already has a live battle.
	ErrBattleInProgress = errors.New("a battle is already in progress in this channel")
	// ErrNoBattle is returned when a channel has no live battle.
	ErrNoBattle = errors.New("no active battle in this channel")
)

// entry pairs a live session with its per-channel lock. The lock is the
// serialization boundary the session itself relies on: all access to the
// session, mutating or not, happens while holding it.
type entry struct {
	mu       sync.Mutex
	session  *battle.Session
	opponent *opponent.Opponent // nil when both participants are human
}

// Registry maps a conversation/channel to at most one live battle session.
// It is injected state owned by the process, not a package singleton.
type Registry struct {
	logger  zerolog.Logger
	mu      sync.RWMutex
	battles map[string]*entry
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		logger:  logger.With().Str("component", "arena").Logger(),
		battles: make(map[string]*entry),
	}
}

// Create registers a freshly paired session under its channel key. The
// scripted opponent may be nil for human-vs-human battles.
func (r *Registry) Create(session *battle.Session, opp *opponent.Opponent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channelID := session.ChannelID()
	if _, live := r.battles[channelID]; live {
		return ErrBattleInProgress
	}
	r.battles[channelID] = &entry{session: session, opponent: opp}

	r.logger.Info().
		Str("channel_id", channelID).
		Str("session_id", session.ID()).
		Msg("Battle registered")
	return nil
}

// Submit plays a card for a participant in the channel's battle, serialized
// against any concurrent submission for the same channel. Completed battles
// are removed from the registry before the outcome is returned.
func (r *Registry) Submit(channelID, participantID, cardID string, position battle.Position) (battle.Outcome, error) {
	return r.WithBattle(channelID, func(session *battle.Session, _ *opponent.Opponent) battle.Outcome {
		return session.SubmitMove(participantID, cardID, position)
	})
}

// WithBattle runs fn against the channel's battle while holding its lock.
// If fn's outcome is BattleComplete the session is removed from the registry,
// so no later task can touch a finished battle.
func (r *Registry) WithBattle(channelID string, fn func(*battle.Session, *opponent.Opponent) battle.Outcome) (battle.Outcome, error) {
	r.mu.RLock()
	e, ok := r.battles[channelID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNoBattle
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	outcome := fn(e.session, e.opponent)
	if _, done := outcome.(battle.BattleComplete); done {
		r.remove(channelID, e)
	}
	return outcome, nil
}

// View runs fn with read access to the channel's battle, still under the
// per-channel lock so queries don't race a concurrent submission.
func (r *Registry) View(channelID string, fn func(*battle.Session, *opponent.Opponent)) error {
	r.mu.RLock()
	e, ok := r.battles[channelID]
	r.mu.RUnlock()
	if !ok {
		return ErrNoBattle
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session, e.opponent)
	return nil
}

// Abandon removes a channel's battle without resolving it.
func (r *Registry) Abandon(channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.battles[channelID]
	if !ok {
		return ErrNoBattle
	}
	delete(r.battles, channelID)

	r.logger.Info().
		Str("channel_id", channelID).
		Str("session_id", e.session.ID()).
		Msg("Battle abandoned")
	return nil
}

// Count returns the number of live battles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.battles)
}

func (r *Registry) remove(channelID string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Only remove if the entry is still the one we resolved; Abandon may
	// have already replaced the slot with a new battle.
	if current, ok := r.battles[channelID]; ok && current == e {
		delete(r.battles, channelID)
		r.logger.Debug().
			Str("channel_id", channelID).
			Str("session_id", e.session.ID()).
			Msg("Completed battle removed")
	}
}
