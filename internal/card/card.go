package card

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stat bounds for attack and defense. Construction fails outside this range.
const (
	StatMin = 1
	StatMax = 10
)

// Card is an immutable collectible produced by the generation service.
// The battle engine only ever reads cards; nothing downstream mutates them.
type Card struct {
	ID          string
	Name        string
	Attack      int
	Defense     int
	Rarity      Rarity
	OwnerID     string
	Description string
	ImageRef    string
	CreatedAt   time.Time
}

// Params describes a card to be constructed. Description and ImageRef are
// optional; everything else is required.
type Params struct {
	OwnerID     string
	Name        string
	Attack      int
	Defense     int
	Rarity      Rarity
	Description string
	ImageRef    string
}

// New validates the stat bounds and constructs a card with a fresh ID.
func New(p Params) (Card, error) {
	if p.OwnerID == "" {
		return Card{}, fmt.Errorf("card owner is required")
	}
	if p.Name == "" {
		return Card{}, fmt.Errorf("card name is required")
	}
	if p.Attack < StatMin || p.Attack > StatMax {
		return Card{}, fmt.Errorf("attack %d out of range [%d,%d]", p.Attack, StatMin, StatMax)
	}
	if p.Defense < StatMin || p.Defense > StatMax {
		return Card{}, fmt.Errorf("defense %d out of range [%d,%d]", p.Defense, StatMin, StatMax)
	}

	return Card{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Attack:      p.Attack,
		Defense:     p.Defense,
		Rarity:      p.Rarity,
		OwnerID:     p.OwnerID,
		Description: p.Description,
		ImageRef:    p.ImageRef,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// String returns a compact display form, e.g. "Stone Golem [RARE] 4/9".
func (c Card) String() string {
	return fmt.Sprintf("%s [%s] %d/%d", c.Name, c.Rarity, c.Attack, c.Defense)
}

// Power is the combined stat total used by balanced strategies.
func (c Card) Power() int {
	return c.Attack + c.Defense
}
