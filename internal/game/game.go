package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/randutil"
)

const (
	MinPlayers        = 2
	DefaultMaxPlayers = 9
)

// Game seats players at one table and plays rounds back to back. It owns
// the button and the roster between rounds; each round works on a copy of
// the roster taken when it starts.
type Game struct {
	players      Players
	bigBlind     int
	button       int
	round        *Round
	roundsPlayed int
	lastRound    bool
	maxPlayers   int
	notifier     Notifier
	logger       *log.Logger
	rng          *rand.Rand
	seed         int64
	seeded       bool
	roundOpts    []RoundOption
}

// GameOption configures a Game during creation.
type GameOption func(*Game)

func WithMaxPlayers(n int) GameOption {
	return func(g *Game) {
		g.maxPlayers = n
	}
}

func WithGameLogger(logger *log.Logger) GameOption {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithGameRand shuffles every round's deck from rng.
func WithGameRand(rng *rand.Rand) GameOption {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithSeed shuffles round n from a seed derived from seed and n, so any
// single round can be dealt again from the logs. It takes precedence over
// WithGameRand.
func WithSeed(seed int64) GameOption {
	return func(g *Game) {
		g.seed = seed
		g.seeded = true
	}
}

// WithRoundOptions passes extra options to every round the game starts.
func WithRoundOptions(opts ...RoundOption) GameOption {
	return func(g *Game) {
		g.roundOpts = append(g.roundOpts, opts...)
	}
}

// NewGame creates an empty table. It panics if bigBlind is not positive.
func NewGame(bigBlind int, notifier Notifier, opts ...GameOption) *Game {
	if bigBlind <= 0 {
		panic("big blind must be positive")
	}
	if notifier == nil {
		notifier = Discard
	}
	g := &Game{
		bigBlind:   bigBlind,
		maxPlayers: DefaultMaxPlayers,
		notifier:   notifier,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.logger = g.logger.WithPrefix("game")
	return g
}

// Join seats a player. Players joining mid-round wait for the next round.
func (g *Game) Join(p *Player) error {
	switch {
	case p.Money <= 0:
		return fmt.Errorf("%w: %s", ErrNoMoney, p)
	case g.players.Index(p.ID) >= 0:
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p)
	case len(g.players) >= g.maxPlayers:
		return ErrTableFull
	}
	g.players = append(g.players, p)
	g.notifier.Public(PlayerJoinedEvent{PlayerRef: refOf(p), Money: p.Money})
	g.logger.Info("player joined", "player", p, "money", p.Money)
	return nil
}

// Leave removes a player from the table. A player still holding cards in
// the current round has their hand folded first.
func (g *Game) Leave(playerID string) error {
	i := g.players.Index(playerID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	p := g.players[i]
	if g.InRound() && g.round.players.Contains(p) {
		if err := g.round.ForceFold(playerID); err != nil {
			return err
		}
	}
	g.remove(i)
	g.notifier.Public(PlayerLeftEvent{PlayerRef: refOf(p), Money: p.Money})
	g.logger.Info("player left", "player", p, "money", p.Money)
	g.continueRounds()
	return nil
}

// remove drops seat i, keeping the button on the same player, or on the
// seat before when the button itself leaves.
func (g *Game) remove(i int) {
	g.players = slices.Delete(g.players, i, i+1)
	if i <= g.button {
		g.button--
	}
	if g.button < 0 {
		g.button = max(len(g.players)-1, 0)
	}
}

// Refill tops a player's stack up to amount. Players still contesting the
// current round must wait until it ends or they fold.
func (g *Game) Refill(playerID string, amount int) (int, error) {
	p := g.players.ByID(playerID)
	if p == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if g.InRound() && g.round.players.Contains(p) && !p.Folded {
		return 0, ErrStillInHand
	}
	added := max(amount-p.Money, 0)
	p.Money += added
	return added, nil
}

// Ready reports whether enough players are seated to deal.
func (g *Game) Ready() bool {
	return len(g.players) >= MinPlayers && len(g.players) <= g.maxPlayers
}

// StartRound deals the next round. Rounds then follow one another until
// ToggleLastRound is set or the table runs short of players.
func (g *Game) StartRound() error {
	if g.InRound() {
		return ErrRoundInProgress
	}
	if !g.Ready() {
		return ErrTableNotReady
	}
	g.lastRound = false
	g.startRound()
	g.continueRounds()
	return nil
}

func (g *Game) startRound() {
	g.roundsPlayed++
	if g.button >= len(g.players) {
		g.button = 0
	}
	g.notifier.Public(NewRoundEvent{Index: g.roundsPlayed})

	rng := g.rng
	if g.seeded {
		seed := randutil.Derive(g.seed, g.roundsPlayed)
		rng = randutil.New(seed)
		g.logger.Info("round starting", "index", g.roundsPlayed, "players", len(g.players), "button", g.players[g.button], "seed", seed)
	} else {
		g.logger.Info("round starting", "index", g.roundsPlayed, "players", len(g.players), "button", g.players[g.button])
	}

	opts := []RoundOption{WithLogger(g.logger), WithRand(rng)}
	opts = append(opts, g.roundOpts...)
	g.round = NewRound(g.players, g.button, g.bigBlind, g.notifier, opts...)
}

// continueRounds wraps up any closed round and deals the next one while
// the table allows it. A round can close during its own construction when
// the blinds put everyone all in, hence the loop.
func (g *Game) continueRounds() {
	for g.round != nil && g.round.Closed() {
		g.finishRound()
		if g.lastRound || !g.Ready() {
			g.logger.Info("table stopped", "rounds", g.roundsPlayed, "players", len(g.players))
			return
		}
		g.startRound()
	}
}

func (g *Game) finishRound() {
	g.round = nil
	for i := 0; i < len(g.players); {
		p := g.players[i]
		if p.Money > 0 {
			i++
			continue
		}
		g.remove(i)
		g.notifier.Public(PlayerLostMoneyEvent{PlayerRef: refOf(p)})
		g.logger.Info("player busted", "player", p)
	}
	if len(g.players) > 0 {
		g.button = (g.button + 1) % len(g.players)
	}
}

// Submit forwards an action to the current round.
func (g *Game) Submit(playerID string, a Action) error {
	if !g.InRound() {
		return ErrRoundClosed
	}
	if err := g.round.Submit(playerID, a); err != nil {
		return err
	}
	g.continueRounds()
	return nil
}

// ToggleLastRound flips whether the table stops after the current round
// and returns the new setting.
func (g *Game) ToggleLastRound() bool {
	g.lastRound = !g.lastRound
	return g.lastRound
}

// InRound reports whether a round is waiting on player actions.
func (g *Game) InRound() bool {
	return g.round != nil && !g.round.Closed()
}

// Round returns the round in progress, or nil between rounds.
func (g *Game) Round() *Round {
	if !g.InRound() {
		return nil
	}
	return g.round
}

func (g *Game) Players() Players         { return slices.Clone(g.players) }
func (g *Game) Player(id string) *Player { return g.players.ByID(id) }
func (g *Game) RoundsPlayed() int        { return g.roundsPlayed }
func (g *Game) BigBlind() int            { return g.bigBlind }
func (g *Game) LastRound() bool          { return g.lastRound }

// Button returns the player who will post the big blind next, or nil for
// an empty table.
func (g *Game) Button() *Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[g.button%len(g.players)]
}
