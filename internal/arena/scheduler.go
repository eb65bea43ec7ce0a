package arena

import (
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/opponent"
	"github.com/lox/cardclash/internal/randutil"
)

// Default bounds for the simulated thinking delay before a scripted
// opponent replies.
const (
	DefaultMinThinkingDelay = 2 * time.Second
	DefaultMaxThinkingDelay = 4 * time.Second
)

// Scheduler runs scripted opponents' replies as fire-and-forget tasks after
// a randomized thinking delay. The clock is injected so tests can advance
// time synthetically instead of sleeping.
type Scheduler struct {
	logger   zerolog.Logger
	registry *Registry
	clock    quartz.Clock
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduler constructs a scheduler over the given registry. minDelay and
// maxDelay of zero fall back to the defaults.
func NewScheduler(logger zerolog.Logger, registry *Registry, clock quartz.Clock, rng *rand.Rand, minDelay, maxDelay time.Duration) *Scheduler {
	if minDelay <= 0 {
		minDelay = DefaultMinThinkingDelay
	}
	if maxDelay < minDelay {
		maxDelay = DefaultMaxThinkingDelay
	}
	return &Scheduler{
		logger:   logger.With().Str("component", "scheduler").Logger(),
		registry: registry,
		clock:    clock,
		minDelay: minDelay,
		maxDelay: maxDelay,
		rng:      rng,
	}
}

// ScheduleReply schedules the scripted opponent's move for the channel's
// battle. The task is not cancellable; instead it re-checks the battle when
// it fires and quietly stands down if the battle has completed or vanished
// in the meantime. deliver receives the opponent's outcome, or an Error
// outcome if the task failed, and is never invoked with the session lock
// held. Task failures leave the session exactly as it was.
func (s *Scheduler) ScheduleReply(channelID string, deliver func(opp opponent.Opponent, outcome battle.Outcome)) {
	s.mu.Lock()
	delay := randutil.Between(s.rng, s.minDelay, s.maxDelay)
	s.mu.Unlock()

	s.logger.Debug().
		Str("channel_id", channelID).
		Dur("delay", delay).
		Msg("Opponent reply scheduled")

	s.clock.AfterFunc(delay, func() {
		s.reply(channelID, deliver)
	})
}

func (s *Scheduler) reply(channelID string, deliver func(opp opponent.Opponent, outcome battle.Outcome)) {
	var opp opponent.Opponent

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("opponent move failed: %v", r)
			s.logger.Error().
				Str("channel_id", channelID).
				Err(err).
				Msg("Opponent reply panicked, battle state untouched")
			deliver(opp, battle.Error{Err: err})
		}
	}()

	outcome, err := s.registry.WithBattle(channelID, func(session *battle.Session, scripted *opponent.Opponent) battle.Outcome {
		if scripted == nil {
			return battle.Error{Err: fmt.Errorf("channel %s has no scripted opponent", channelID)}
		}
		opp = *scripted

		// The battle may have resolved between scheduling and firing.
		if session.State() == battle.StateBattleComplete {
			return nil
		}
		if session.HasPendingMove(scripted.ID) {
			return nil
		}

		s.mu.Lock()
		chosen, position := opponent.ChooseMove(
			s.rng,
			scripted.Personality,
			session.RemainingCards(scripted.ID),
			session.Round(),
			session.Score(scripted.ID),
			session.Score(session.OpponentOf(scripted.ID)),
		)
		s.mu.Unlock()

		s.logger.Debug().
			Str("channel_id", channelID).
			Str("opponent", scripted.Name).
			Str("card", chosen.Name).
			Stringer("position", position).
			Msg("Opponent move chosen")

		return session.SubmitMove(scripted.ID, chosen.ID, position)
	})

	switch {
	case err != nil:
		// Battle was completed or abandoned before the task fired.
		s.logger.Debug().
			Str("channel_id", channelID).
			Err(err).
			Msg("Opponent reply skipped, battle gone")
	case outcome == nil:
		s.logger.Debug().
			Str("channel_id", channelID).
			Msg("Opponent reply skipped, nothing to do")
	default:
		deliver(opp, outcome)
	}
}
