package gateway

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/cardclash/internal/arena"
	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/card"
	"github.com/lox/cardclash/internal/opponent"
)

// CardSource supplies a player's owned cards. Satisfied by the sqlite store.
type CardSource interface {
	CardsByOwner(ctx context.Context, ownerID string) ([]card.Card, error)
}

// Service implements the gateway's command semantics over the battle engine.
type Service struct {
	logger    zerolog.Logger
	registry  *arena.Registry
	scheduler *arena.Scheduler
	cards     CardSource

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService wires the registry, scheduler and card source together.
func NewService(logger zerolog.Logger, registry *arena.Registry, scheduler *arena.Scheduler, cards CardSource, rng *rand.Rand) *Service {
	return &Service{
		logger:    logger.With().Str("component", "gateway").Logger(),
		registry:  registry,
		scheduler: scheduler,
		cards:     cards,
		rng:       rng,
	}
}

// Challenge starts a battle against a scripted opponent in the channel.
// An empty personality picks one at random; empty cardIDs picks the player's
// three strongest cards by combined stats.
func (s *Service) Challenge(ctx context.Context, data ChallengeData) (BattleStartedData, error) {
	owned, err := s.cards.CardsByOwner(ctx, data.PlayerID)
	if err != nil {
		return BattleStartedData{}, fmt.Errorf("load cards: %w", err)
	}
	if len(owned) < battle.DeckSize {
		return BattleStartedData{}, fmt.Errorf("you need at least %d cards to battle, you have %d", battle.DeckSize, len(owned))
	}

	deck, err := pickDeck(owned, data.CardIDs)
	if err != nil {
		return BattleStartedData{}, err
	}

	s.mu.Lock()
	personality := opponent.RandomPersonality(s.rng)
	if data.Personality != "" {
		personality, err = opponent.ParsePersonality(data.Personality)
	}
	if err != nil {
		s.mu.Unlock()
		return BattleStartedData{}, err
	}
	opp := opponent.Generate(s.rng, personality)
	oppDeck := make([]card.Card, 0, battle.DeckSize)
	for _, idx := range s.rng.Perm(len(opp.Pool))[:battle.DeckSize] {
		oppDeck = append(oppDeck, opp.Pool[idx])
	}
	s.mu.Unlock()

	session, err := battle.NewSession(s.logger, data.ChannelID, data.PlayerID, opp.ID, deck, oppDeck)
	if err != nil {
		return BattleStartedData{}, err
	}
	if err := s.registry.Create(session, &opp); err != nil {
		return BattleStartedData{}, err
	}

	s.logger.Info().
		Str("channel_id", data.ChannelID).
		Str("player_id", data.PlayerID).
		Str("opponent", opp.Name).
		Stringer("personality", personality).
		Msg("Battle started")

	return BattleStartedData{
		SessionID:           session.ID(),
		ChannelID:           data.ChannelID,
		OpponentID:          opp.ID,
		OpponentName:        opp.Name,
		OpponentPersonality: personality.String(),
		Deck:                cardInfos(deck),
		Round:               session.Round(),
	}, nil
}

// PlayCard submits the player's move. When the move is accepted and a
// scripted opponent is waiting, its reply is scheduled and later delivered
// through the deliver callback.
func (s *Service) PlayCard(data PlayCardData, deliver func(opp opponent.Opponent, outcome battle.Outcome)) (battle.Outcome, error) {
	position, err := battle.ParsePosition(data.Position)
	if err != nil {
		return nil, err
	}

	outcome, err := s.registry.Submit(data.ChannelID, data.PlayerID, data.CardID, position)
	if err != nil {
		return nil, err
	}

	if _, accepted := outcome.(battle.MoveAccepted); accepted {
		scripted := false
		_ = s.registry.View(data.ChannelID, func(_ *battle.Session, opp *opponent.Opponent) {
			scripted = opp != nil
		})
		if scripted {
			s.scheduler.ScheduleReply(data.ChannelID, deliver)
		}
	}

	return outcome, nil
}

// Abandon removes the channel's battle.
func (s *Service) Abandon(data AbandonData) error {
	return s.registry.Abandon(data.ChannelID)
}

// pickDeck selects the battle deck from a player's owned cards: the named
// cards when given, otherwise the strongest three by combined stats.
func pickDeck(owned []card.Card, cardIDs []string) ([]card.Card, error) {
	if len(cardIDs) == 0 {
		ranked := append([]card.Card{}, owned...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Power() > ranked[j].Power()
		})
		return ranked[:battle.DeckSize], nil
	}

	if len(cardIDs) != battle.DeckSize {
		return nil, fmt.Errorf("pick exactly %d cards, got %d", battle.DeckSize, len(cardIDs))
	}

	byID := make(map[string]card.Card, len(owned))
	for _, c := range owned {
		byID[c.ID] = c
	}

	deck := make([]card.Card, 0, battle.DeckSize)
	for _, id := range cardIDs {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("card %s is not in your collection", id)
		}
		deck = append(deck, c)
	}
	return deck, nil
}
