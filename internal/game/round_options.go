package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/poker"
)

// RoundOption configures a Round during creation.
type RoundOption func(*roundConfig)

type roundConfig struct {
	rng        *rand.Rand
	deck       *poker.Deck // overrides rng when set
	smallBlind int         // default: big blind / 2
	logger     *log.Logger
}

func newRoundConfig(bigBlind int, opts []RoundOption) *roundConfig {
	cfg := &roundConfig{
		smallBlind: bigBlind / 2,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.deck == nil {
		cfg.deck = poker.NewDeck(cfg.rng)
	}
	return cfg
}

// WithRand shuffles the round's deck with rng.
func WithRand(rng *rand.Rand) RoundOption {
	return func(c *roundConfig) {
		c.rng = rng
	}
}

// WithDeck deals from a prepared deck instead of shuffling a new one.
// Hole cards come off the top two per player in seat order, then the
// flop, turn and river with no burn cards.
func WithDeck(deck *poker.Deck) RoundOption {
	return func(c *roundConfig) {
		c.deck = deck
	}
}

// WithSmallBlind overrides the default small blind of half the big blind.
func WithSmallBlind(amount int) RoundOption {
	return func(c *roundConfig) {
		c.smallBlind = amount
	}
}

func WithLogger(logger *log.Logger) RoundOption {
	return func(c *roundConfig) {
		c.logger = logger
	}
}
