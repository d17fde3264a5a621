package game

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/poker"
)

// RoundState is the lifecycle phase of a round.
type RoundState int

const (
	Dealing RoundState = iota
	Betting
	Settlement
	Closed
)

func (s RoundState) String() string {
	if s < Dealing || s > Closed {
		return "unknown"
	}
	return [...]string{"dealing", "betting", "settlement", "closed"}[s]
}

// Round runs a single hand of Texas Hold'em from the deal to settlement.
// It is driven entirely by Submit and ForceFold and is not safe for
// concurrent use.
type Round struct {
	players    Players
	button     int
	current    int
	bigBlind   int
	smallBlind int
	street     Street
	table      []poker.Card
	deck       *poker.Deck
	state      RoundState
	notifier   Notifier
	logger     *log.Logger
}

// NewRound deals a new hand to players, posts the blinds and waits for the
// first action. The small blind is posted by the player before the button
// and the big blind by the button. NewRound panics if fewer than two
// players are given, if a player has no money, if IDs repeat, if the
// button is out of range or if the small blind is negative or above the
// big blind.
func NewRound(players Players, button, bigBlind int, notifier Notifier, opts ...RoundOption) *Round {
	if len(players) < 2 {
		panic("at least 2 players required")
	}
	if button < 0 || button >= len(players) {
		panic("button position out of range")
	}
	if bigBlind <= 0 {
		panic("big blind must be positive")
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.Money <= 0 {
			panic(fmt.Sprintf("player %s has no money", p))
		}
		if seen[p.ID] {
			panic(fmt.Sprintf("duplicate player id %q", p.ID))
		}
		seen[p.ID] = true
	}
	if notifier == nil {
		notifier = Discard
	}

	cfg := newRoundConfig(bigBlind, opts)
	if cfg.smallBlind < 0 || cfg.smallBlind > bigBlind {
		panic(fmt.Sprintf("small blind %d outside 0..%d", cfg.smallBlind, bigBlind))
	}
	r := &Round{
		players:    slices.Clone(players),
		button:     button,
		current:    button,
		bigBlind:   bigBlind,
		smallBlind: cfg.smallBlind,
		street:     Preflop,
		deck:       cfg.deck,
		state:      Dealing,
		notifier:   notifier,
		logger:     cfg.logger.WithPrefix("round"),
	}

	for _, p := range r.players {
		p.reset()
		p.Cards = r.deck.Deal(2)
		if p.Cards == nil {
			panic("deck exhausted while dealing hole cards")
		}
		r.notifier.Private(p.ID, DealtCardsEvent{PlayerRef: refOf(p), Cards: slices.Clone(p.Cards)})
	}
	r.notifier.Public(NewTurnEvent{Street: Preflop, Table: []poker.Card{}})

	r.postBlinds()
	r.state = Betting
	r.logger.Debug("round started", "players", len(r.players), "button", r.players[button], "big_blind", bigBlind)
	r.processState()
	return r
}

func (r *Round) postBlinds() {
	sb := r.players[r.players.PreviousActive(r.button)]
	moved, allIn := r.commit(sb, r.smallBlind)
	r.notifier.Public(SmallBlindEvent{PlayerRef: refOf(sb), Amount: sb.TurnStake[Preflop]})
	if allIn {
		r.notifier.Public(WentAllInEvent{PlayerRef: refOf(sb), RemainingMoney: moved})
	}

	bb := r.players[r.button]
	moved, allIn = r.commit(bb, r.bigBlind)
	r.notifier.Public(BigBlindEvent{PlayerRef: refOf(bb), Amount: bb.TurnStake[Preflop]})
	if allIn {
		r.notifier.Public(WentAllInEvent{PlayerRef: refOf(bb), RemainingMoney: moved})
	}
}

// commit moves amount from p's stack into the current street, capped at
// the stack. A player who commits everything is all in.
func (r *Round) commit(p *Player, amount int) (moved int, allIn bool) {
	if amount < p.Money {
		p.Money -= amount
		p.TurnStake[r.street] += amount
		return amount, false
	}
	moved = p.Money
	p.TurnStake[r.street] += moved
	p.Money = 0
	p.AllIn = true
	return moved, true
}

// Submit applies an action for the player whose turn it is. A rejected
// action leaves the round untouched.
func (r *Round) Submit(playerID string, a Action) error {
	if r.state != Betting {
		return ErrRoundClosed
	}
	p := r.players.ByID(playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if r.players[r.current] != p {
		return fmt.Errorf("%w: waiting on %s", ErrNotYourTurn, r.players[r.current])
	}

	toCall := r.ToCall(p)
	switch a.Kind {
	case Fold:
		p.Folded = true
		r.notifier.Public(PlayerFoldedEvent{PlayerRef: refOf(p)})

	case Check:
		if toCall != 0 {
			return fmt.Errorf("%w: %d to call", ErrIllegalCheck, toCall)
		}
		r.notifier.Public(PlayerCheckedEvent{PlayerRef: refOf(p)})

	case Call:
		moved, allIn := r.commit(p, toCall)
		r.notifier.Public(PlayerCalledEvent{PlayerRef: refOf(p), Amount: moved})
		if allIn {
			r.notifier.Public(WentAllInEvent{PlayerRef: refOf(p), RemainingMoney: moved})
		}

	case Raise:
		if a.Amount < 0 {
			return fmt.Errorf("%w: negative raise %d", ErrInvalidAction, a.Amount)
		}
		if a.Amount < r.bigBlind && toCall+a.Amount < p.Money {
			return fmt.Errorf("%w: raised %d, minimum is %d", ErrRaiseTooSmall, a.Amount, r.bigBlind)
		}
		moved, allIn := r.commit(p, toCall+a.Amount)
		if allIn {
			r.notifier.Public(WentAllInEvent{PlayerRef: refOf(p), RemainingMoney: moved})
		} else {
			r.notifier.Public(PlayerRaisedEvent{PlayerRef: refOf(p), Amount: a.Amount})
		}

	case AllIn:
		moved, _ := r.commit(p, p.Money)
		r.notifier.Public(WentAllInEvent{PlayerRef: refOf(p), RemainingMoney: moved})

	default:
		return fmt.Errorf("%w: %v", ErrInvalidAction, a.Kind)
	}

	r.logger.Debug("action", "player", p, "action", a, "to_call", toCall, "street", r.street)
	p.PlayedTurn = true
	r.processState()
	return nil
}

// ForceFold folds a player outside of turn order, for example when they
// leave the table mid-round. All-in players keep their hand live. The
// round only moves on if the folded player held the turn, if the fold
// leaves a single contender, or if nobody left can still change the
// outcome and the board is run out.
func (r *Round) ForceFold(playerID string) error {
	if r.state != Betting {
		return ErrRoundClosed
	}
	i := r.players.Index(playerID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if i == r.current {
		return r.Submit(playerID, FoldAction())
	}
	p := r.players[i]
	if !p.IsActive() {
		return nil
	}
	p.Folded = true
	r.notifier.Public(PlayerFoldedEvent{PlayerRef: refOf(p)})
	r.logger.Debug("force fold", "player", p)
	if len(r.players.NotFolded()) <= 1 || (len(r.players.Active()) <= 1 && r.potsBalanced()) {
		r.processState()
	}
	return nil
}

func (r *Round) processState() {
	notFolded := r.players.NotFolded()
	switch {
	case len(notFolded) == 0:
		r.close()
		return

	case len(notFolded) == 1:
		r.awardUncontested(notFolded[0])
		r.close()
		return
	}

	balanced := r.potsBalanced()
	if len(r.players.Active()) <= 1 && balanced {
		r.runOut()
		r.settle()
		r.close()
		return
	}

	if r.players.AllPlayedTurn() && balanced {
		if r.street == River {
			r.settle()
			r.close()
			return
		}
		r.current = r.button
		r.advanceStreet()
	}

	r.current = r.players.NextActive(r.current)
	p := r.players[r.current]
	r.notifier.Public(AmountToCallEvent{PlayerRef: refOf(p), Amount: r.ToCall(p)})
}

// potsBalanced reports whether every active player has put in the same
// amount this street and nobody active owes less than an all-in player
// committed.
func (r *Round) potsBalanced() bool {
	active := r.players.Active()
	if len(active) == 0 {
		return true
	}
	stake := active[0].TurnStake[r.street]
	for _, p := range active[1:] {
		if p.TurnStake[r.street] != stake {
			return false
		}
	}
	for _, p := range r.players.AllInNotFolded() {
		if p.TurnStake[r.street] > stake {
			return false
		}
	}
	return true
}

// advanceStreet moves to the next street and returns the cards it dealt.
func (r *Round) advanceStreet() []poker.Card {
	r.street++
	cards := r.deck.Deal(r.street.Dealt())
	r.table = append(r.table, cards...)
	if len(r.table) != r.street.TableSize() {
		panic(fmt.Sprintf("deck exhausted while dealing the %s", r.street))
	}
	for _, p := range r.players {
		p.PlayedTurn = false
		if !p.Folded {
			h := poker.MustEvaluate(slices.Concat(p.Cards, r.table)...)
			p.Hand = &h
		}
	}
	r.notifier.Public(NewTurnEvent{Street: r.street, Table: slices.Clone(r.table)})
	return cards
}

// runOut deals every remaining street without waiting for input.
func (r *Round) runOut() {
	for r.street < River {
		r.advanceStreet()
	}
}

func (r *Round) awardUncontested(winner *Player) {
	won := r.Pot()
	winner.Money += won
	r.notifier.Public(UnfinishedWinnerEvent{PlayerRef: refOf(winner), Amount: won})
	r.logger.Debug("uncontested winner", "player", winner, "won", won)
}

func (r *Round) close() {
	r.state = Closed
	for _, p := range r.players {
		p.reset()
	}
	r.logger.Debug("round closed")
}

// ToCall returns what p must add to match the highest stake this street.
func (r *Round) ToCall(p *Player) int {
	highest := 0
	for _, q := range r.players {
		highest = max(highest, q.TurnStake[r.street])
	}
	return highest - p.TurnStake[r.street]
}

// PotSize returns the total committed on each street.
func (r *Round) PotSize() [NumStreets]int {
	var pots [NumStreets]int
	for _, p := range r.players {
		for i, s := range p.TurnStake {
			pots[i] += s
		}
	}
	return pots
}

// Pot returns the total committed this round.
func (r *Round) Pot() int {
	total := 0
	for _, s := range r.PotSize() {
		total += s
	}
	return total
}

// CurrentPlayer returns the player whose action is awaited, or nil once
// the round has stopped taking actions.
func (r *Round) CurrentPlayer() *Player {
	if r.state != Betting {
		return nil
	}
	return r.players[r.current]
}

func (r *Round) Street() Street      { return r.street }
func (r *Round) State() RoundState   { return r.state }
func (r *Round) Closed() bool        { return r.state == Closed }
func (r *Round) Button() int         { return r.button }
func (r *Round) BigBlind() int       { return r.bigBlind }
func (r *Round) SmallBlind() int     { return r.smallBlind }
func (r *Round) Players() Players    { return r.players }
func (r *Round) Table() []poker.Card { return slices.Clone(r.table) }

// PlayerSnapshot is the public view of one seat.
type PlayerSnapshot struct {
	ID        string
	Name      string
	Money     int
	TurnStake [NumStreets]int
	Folded    bool
	AllIn     bool
}

// RoundSnapshot is a copy of the public round state, safe to keep after
// the round moves on.
type RoundSnapshot struct {
	State   RoundState
	Street  Street
	Table   []poker.Card
	Pot     int
	Button  string
	Current string
	ToCall  int
	Players []PlayerSnapshot
}

func (r *Round) Snapshot() RoundSnapshot {
	s := RoundSnapshot{
		State:  r.state,
		Street: r.street,
		Table:  r.Table(),
		Pot:    r.Pot(),
		Button: r.players[r.button].ID,
	}
	if cur := r.CurrentPlayer(); cur != nil {
		s.Current = cur.ID
		s.ToCall = r.ToCall(cur)
	}
	for _, p := range r.players {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Money:     p.Money,
			TurnStake: p.TurnStake,
			Folded:    p.Folded,
			AllIn:     p.AllIn,
		})
	}
	return s
}
