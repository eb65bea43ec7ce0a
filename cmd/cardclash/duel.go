package main

import (
	"bufio"
	"fmt"
	rand "math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/lox/cardclash/cmd/cardclash/shared"
	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/card"
	"github.com/lox/cardclash/internal/opponent"
	"github.com/lox/cardclash/internal/randutil"
)

// DuelCmd plays an interactive battle on the terminal.
type DuelCmd struct {
	Personality string `kong:"help='Opponent personality (AGGRESSIVE, DEFENSIVE, BALANCED, SMART, CHAOTIC). Random when omitted.'"`
	Seed        *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

var starterNames = []string{
	"Ember Knight", "Frost Warden", "Storm Caller", "Shadow Fang",
	"Iron Golem", "Sky Piercer", "Moon Dancer", "Flame Djinn",
}

func (c *DuelCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	if !c.Debug {
		logger = logger.Level(zerolog.WarnLevel)
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	personality := opponent.RandomPersonality(rng)
	if c.Personality != "" {
		parsed, err := opponent.ParsePersonality(c.Personality)
		if err != nil {
			return err
		}
		personality = parsed
	}

	opp := opponent.Generate(rng, personality)
	oppDeck := make([]card.Card, 0, battle.DeckSize)
	for _, idx := range rng.Perm(len(opp.Pool))[:battle.DeckSize] {
		oppDeck = append(oppDeck, opp.Pool[idx])
	}

	playerDeck, err := starterDeck(rng)
	if err != nil {
		return err
	}

	session, err := battle.NewSession(logger, "local", "you", opp.ID, playerDeck, oppDeck)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("You face %s (%s). Best of %d rounds.",
		opp.Name, personality, battle.MaxRounds)))
	fmt.Println()

	reader := bufio.NewScanner(os.Stdin)
	for session.State() != battle.StateBattleComplete {
		remaining := session.RemainingCards("you")
		fmt.Println(titleStyle.Render(fmt.Sprintf("Round %d", session.Round())))
		for i, cd := range remaining {
			fmt.Printf("  %d) %s\n", i+1, cardStyle.Render(cd.String()))
		}

		move, position, ok := promptMove(reader, remaining)
		if !ok {
			fmt.Println(tieStyle.Render("Battle abandoned."))
			return nil
		}

		outcome := session.SubmitMove("you", move.ID, position)
		if errOut, isErr := outcome.(battle.Error); isErr {
			fmt.Println(loseStyle.Render("  " + errOut.Err.Error()))
			continue
		}

		fmt.Printf("You play %s in %s. %s is thinking...\n",
			cardStyle.Render(move.Name), position, opp.Name)

		chosen, oppPosition := opponent.ChooseMove(rng, personality,
			session.RemainingCards(opp.ID), session.Round(),
			session.Score(opp.ID), session.Score("you"))
		outcome = session.SubmitMove(opp.ID, chosen.ID, oppPosition)

		switch out := outcome.(type) {
		case battle.RoundComplete:
			printRound(out.Round)
			fmt.Printf("Score: you %d, %s %d\n\n",
				session.Score("you"), opp.Name, session.Score(opp.ID))
		case battle.BattleComplete:
			printRound(out.FinalRound)
			printResult(out.Result, opp)
		case battle.Error:
			return fmt.Errorf("opponent move rejected: %w", out.Err)
		}
	}

	return nil
}

// promptMove reads a card number and position from the terminal. ok is false
// on EOF or when the player quits.
func promptMove(reader *bufio.Scanner, remaining []card.Card) (card.Card, battle.Position, bool) {
	for {
		fmt.Print(promptStyle.Render("Pick a card and position (e.g. '1 attack', or 'q' to quit): "))
		if !reader.Scan() {
			return card.Card{}, battle.PositionAttack, false
		}
		input := strings.TrimSpace(reader.Text())
		if strings.EqualFold(input, "q") || strings.EqualFold(input, "quit") {
			return card.Card{}, battle.PositionAttack, false
		}

		fields := strings.Fields(input)
		if len(fields) != 2 {
			fmt.Println("  Enter a card number and a position.")
			continue
		}

		num, err := strconv.Atoi(fields[0])
		if err != nil || num < 1 || num > len(remaining) {
			fmt.Printf("  Pick a card between 1 and %d.\n", len(remaining))
			continue
		}
		position, err := battle.ParsePosition(fields[1])
		if err != nil {
			fmt.Println("  Position must be attack or defense.")
			continue
		}

		return remaining[num-1], position, true
	}
}

func printRound(result battle.RoundResult) {
	fmt.Println("  " + result.Summary)
	switch {
	case result.IsTie():
		fmt.Println("  " + tieStyle.Render("Round tied."))
	case result.Winner == "you":
		fmt.Println("  " + winStyle.Render("You take the round!"))
	default:
		fmt.Println("  " + loseStyle.Render("Round lost."))
	}
}

func printResult(result battle.Result, opp opponent.Opponent) {
	fmt.Println()
	switch result.Winner {
	case "you":
		fmt.Println(winStyle.Render(fmt.Sprintf("Victory! (%s)", result.EndReason)))
	case "":
		fmt.Println(tieStyle.Render(fmt.Sprintf("Draw. (%s)", result.EndReason)))
	default:
		fmt.Println(loseStyle.Render(fmt.Sprintf("%s wins. (%s)", opp.Name, result.EndReason)))
	}
	fmt.Printf("Final score: you %d, %s %d\n", result.Scores["you"], opp.Name, result.Scores[opp.ID])
}

// starterDeck mints a fresh deck for the local player.
func starterDeck(rng *rand.Rand) ([]card.Card, error) {
	deck := make([]card.Card, 0, battle.DeckSize)
	for _, idx := range rng.Perm(len(starterNames))[:battle.DeckSize] {
		c, err := card.New(card.Params{
			OwnerID: "you",
			Name:    starterNames[idx],
			Attack:  rng.IntN(card.StatMax) + 1,
			Defense: rng.IntN(card.StatMax) + 1,
			Rarity:  card.RollRarity(rng),
		})
		if err != nil {
			return nil, err
		}
		deck = append(deck, c)
	}
	return deck, nil
}
