package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/cardclash/internal/card"
)

// Store provides SQLite-backed persistence for a player's card collection.
// The battle engine never touches it; the gateway uses it to build decks.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	name        TEXT NOT NULL,
	attack      INTEGER NOT NULL CHECK (attack BETWEEN 1 AND 10),
	defense     INTEGER NOT NULL CHECK (defense BETWEEN 1 AND 10),
	rarity      TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image_ref   TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cards_owner ON cards (owner_id, created_at);
`

// Open opens (and migrates) a SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveCard persists a card, replacing any existing row with the same id.
func (s *Store) SaveCard(ctx context.Context, c card.Card) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO cards
			(id, owner_id, name, attack, defense, rarity, description, image_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Attack, c.Defense, c.Rarity.String(),
		c.Description, c.ImageRef, toMillis(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save card %s: %w", c.ID, err)
	}
	return nil
}

// CardsByOwner returns a player's cards in creation order.
func (s *Store) CardsByOwner(ctx context.Context, ownerID string) ([]card.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, attack, defense, rarity, description, image_ref, created_at
		FROM cards WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query cards for %s: %w", ownerID, err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards for %s: %w", ownerID, err)
	}
	return cards, nil
}

// CardByID returns a single card by id.
func (s *Store) CardByID(ctx context.Context, id string) (card.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, attack, defense, rarity, description, image_ref, created_at
		FROM cards WHERE id = ?`, id)
	return scanCard(row)
}

// DeleteCard removes a card by id.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return nil
}

// CountByOwner returns how many cards a player owns.
func (s *Store) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE owner_id = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cards for %s: %w", ownerID, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (card.Card, error) {
	var (
		c         card.Card
		rarityRaw string
		createdAt int64
	)
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Attack, &c.Defense,
		&rarityRaw, &c.Description, &c.ImageRef, &createdAt,
	); err != nil {
		return card.Card{}, fmt.Errorf("scan card: %w", err)
	}

	rarity, err := card.ParseRarity(rarityRaw)
	if err != nil {
		return card.Card{}, err
	}
	c.Rarity = rarity
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
