package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/cardclash/cmd/cardclash/shared"
	"github.com/lox/cardclash/internal/card"
	"github.com/lox/cardclash/internal/randutil"
	"github.com/lox/cardclash/internal/storage/sqlite"
)

// CardsCmd groups collection management subcommands.
type CardsCmd struct {
	DB string `kong:"default='cardclash.db',help='Path to the SQLite database'"`

	List  CardsListCmd  `cmd:"" help:"List a player's cards"`
	Grant CardsGrantCmd `cmd:"" help:"Mint a card into a player's collection"`
}

// CardsListCmd prints a player's collection.
type CardsListCmd struct {
	Player string `kong:"arg,help='Player ID'"`
}

func (c *CardsListCmd) Run(parent *CardsCmd) error {
	store, err := sqlite.Open(parent.DB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cards, err := store.CardsByOwner(context.Background(), c.Player)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Printf("%s has no cards\n", c.Player)
		return nil
	}

	for _, cd := range cards {
		fmt.Printf("%s  %s\n", cd.ID, cardStyle.Render(cd.String()))
	}
	return nil
}

// CardsGrantCmd mints a card. Stats are random unless given explicitly.
type CardsGrantCmd struct {
	Player  string `kong:"arg,help='Player ID'"`
	Name    string `kong:"arg,help='Card name'"`
	Attack  int    `kong:"help='Attack stat (1-10, random when omitted)'"`
	Defense int    `kong:"help='Defense stat (1-10, random when omitted)'"`
	Rarity  string `kong:"help='Rarity (COMMON, UNCOMMON, RARE, EPIC, LEGENDARY). Rolled when omitted.'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *CardsGrantCmd) Run(parent *CardsCmd) error {
	logger := shared.SetupLogger(c.Debug)
	rng := randutil.New(time.Now().UnixNano())

	attack := c.Attack
	if attack == 0 {
		attack = rng.IntN(card.StatMax) + 1
	}
	defense := c.Defense
	if defense == 0 {
		defense = rng.IntN(card.StatMax) + 1
	}

	rarity := card.RollRarity(rng)
	if c.Rarity != "" {
		parsed, err := card.ParseRarity(c.Rarity)
		if err != nil {
			return err
		}
		rarity = parsed
	}

	minted, err := card.New(card.Params{
		OwnerID: c.Player,
		Name:    c.Name,
		Attack:  attack,
		Defense: defense,
		Rarity:  rarity,
	})
	if err != nil {
		return err
	}

	store, err := sqlite.Open(parent.DB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveCard(context.Background(), minted); err != nil {
		return err
	}

	logger.Info().
		Str("card_id", minted.ID).
		Str("owner", minted.OwnerID).
		Msg("Card minted")
	fmt.Printf("%s  %s\n", minted.ID, cardStyle.Render(minted.String()))
	return nil
}
