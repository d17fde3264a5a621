package server

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/sanity-io/litter"

	"github.com/lox/holdem-engine/internal/command"
	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/game"
)

type input struct {
	client Client
	text   string
}

// Table owns one Game. A single goroutine (Run) applies every input in
// arrival order, so the game itself needs no locking.
type Table struct {
	game    *game.Game
	money   int
	timeout time.Duration
	clock   quartz.Clock
	logger  *log.Logger
	seed    int64

	clients map[string]Client

	register   chan Client
	unregister chan Client
	inputs     chan input
	expired    chan uint64
	done       chan struct{}

	// decision timer state, touched only by Run
	turn       uint64
	turnPlayer string
	timer      *quartz.Timer
}

type TableOption func(*Table)

func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) {
		t.clock = clock
	}
}

func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithSeed makes the deal of every round reproducible.
func WithSeed(seed int64) TableOption {
	return func(t *Table) {
		t.seed = seed
	}
}

// NewTable creates an empty table from the configuration. Players take a
// seat with ::buyin once connected.
func NewTable(cfg *config.Config, opts ...TableOption) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	t := &Table{
		money:      cfg.Table.StartingMoney,
		timeout:    timeout,
		clock:      quartz.NewReal(),
		logger:     log.New(io.Discard),
		clients:    make(map[string]Client),
		register:   make(chan Client),
		unregister: make(chan Client),
		inputs:     make(chan input),
		expired:    make(chan uint64),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithPrefix("table")
	gameOpts := []game.GameOption{
		game.WithMaxPlayers(cfg.Table.MaxPlayers),
		game.WithGameLogger(t.logger),
		game.WithRoundOptions(game.WithSmallBlind(cfg.Table.SmallBlind)),
	}
	if t.seed != 0 {
		gameOpts = append(gameOpts, game.WithSeed(t.seed))
	}
	t.game = game.NewGame(cfg.Table.BigBlind, game.NewBroadcaster(t, game.NewEventLogger(t.logger)), gameOpts...)
	return t, nil
}

// Run processes inputs until ctx is cancelled.
func (t *Table) Run(ctx context.Context) error {
	defer close(t.done)
	defer t.stopTimer()
	t.logger.Info("table open", "big_blind", t.game.BigBlind(), "timeout", t.timeout)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("table closed", "rounds", t.game.RoundsPlayed())
			return nil

		case c := <-t.register:
			t.clients[c.PlayerID()] = c
			t.info(c, "welcome %s, type ::buyin to take a seat or ::help for commands", c.Name())
			t.logger.Info("client registered", "name", c.Name(), "clients", len(t.clients))

		case c := <-t.unregister:
			t.disconnect(c)

		case in := <-t.inputs:
			t.handle(in.client, in.text)

		case turn := <-t.expired:
			t.expire(turn)
		}
		if !t.game.InRound() {
			t.stopTimer()
		}
	}
}

// Register adds a client that will receive public events.
func (t *Table) Register(c Client) {
	select {
	case t.register <- c:
	case <-t.done:
	}
}

// Unregister removes a client, folding and unseating its player.
func (t *Table) Unregister(c Client) {
	select {
	case t.unregister <- c:
	case <-t.done:
	}
}

// Input queues a line typed by a client.
func (t *Table) Input(c Client, text string) {
	select {
	case t.inputs <- input{client: c, text: text}:
	case <-t.done:
	}
}

func (t *Table) disconnect(c Client) {
	id := c.PlayerID()
	if t.clients[id] != c {
		return
	}
	delete(t.clients, id)
	if t.game.Player(id) != nil {
		if err := t.game.Leave(id); err != nil {
			t.logger.Error("failed to unseat disconnected player", "player", c.Name(), "error", err)
		}
	}
	t.logger.Info("client disconnected", "name", c.Name(), "clients", len(t.clients))
}

func (t *Table) handle(c Client, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	cmd, err := command.Parse(text)
	if err != nil {
		sendError(c, CodeBadCommand, err.Error())
		return
	}
	id := c.PlayerID()
	t.logger.Debug("input", "player", c.Name(), "command", cmd)

	switch cmd.Kind {
	case command.Act:
		err = t.game.Submit(id, cmd.Action)
	case command.Start:
		err = t.game.StartRound()
	case command.LastRound:
		if t.game.ToggleLastRound() {
			t.broadcastInfo("%s: the table stops after this round", c.Name())
		} else {
			t.broadcastInfo("%s: the table keeps dealing", c.Name())
		}
	case command.BuyIn:
		amount := cmd.Amount
		if amount == 0 {
			amount = t.money
		}
		err = t.game.Join(game.NewPlayer(id, c.Name(), amount))
	case command.Leave:
		err = t.game.Leave(id)
	case command.Refill:
		amount := cmd.Amount
		if amount == 0 {
			amount = t.money
		}
		var added int
		if added, err = t.game.Refill(id, amount); err == nil {
			t.broadcastInfo("%s refills %d", c.Name(), added)
		}
	case command.Money:
		t.info(c, "%s", stacks(t.game.Players()))
	case command.State:
		if r := t.game.Round(); r != nil {
			t.info(c, "%s", litter.Sdump(r.Snapshot()))
		} else {
			t.info(c, "no round in progress")
		}
	case command.Help:
		t.info(c, "%s", command.Usage)
	}
	if err != nil {
		sendError(c, CodeRejected, err.Error())
	}
}

// expire folds the player whose decision timer ran out. Timers armed for
// an earlier decision are ignored.
func (t *Table) expire(turn uint64) {
	if turn != t.turn {
		return
	}
	r := t.game.Round()
	if r == nil || r.CurrentPlayer() == nil || r.CurrentPlayer().ID != t.turnPlayer {
		return
	}
	p := r.CurrentPlayer()
	t.logger.Warn("decision timeout", "player", p, "timeout", t.timeout)
	t.broadcastInfo("%s ran out of time", p.Name)
	if err := t.game.Submit(p.ID, game.FoldAction()); err != nil {
		t.logger.Error("failed to fold timed out player", "player", p, "error", err)
	}
}

func (t *Table) armTimer(playerID string) {
	t.stopTimer()
	t.turn++
	t.turnPlayer = playerID
	if t.timeout <= 0 {
		return
	}
	turn := t.turn
	t.timer = t.clock.AfterFunc(t.timeout, func() {
		select {
		case t.expired <- turn:
		case <-t.done:
		}
	}, "table", "decision")
}

func (t *Table) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Private sends an event to one player.
func (t *Table) Private(playerID string, e game.Event) {
	c, ok := t.clients[playerID]
	if !ok {
		return
	}
	msg, err := eventMessage(e)
	if err != nil {
		t.logger.Error("failed to encode event", "type", e.Type(), "error", err)
		return
	}
	_ = c.Send(msg)
}

// Public sends an event to every client.
func (t *Table) Public(e game.Event) {
	if e, ok := e.(game.AmountToCallEvent); ok {
		t.armTimer(e.PlayerID)
	}
	msg, err := eventMessage(e)
	if err != nil {
		t.logger.Error("failed to encode event", "type", e.Type(), "error", err)
		return
	}
	t.broadcast(msg)
}

func (t *Table) broadcast(msg *Message) {
	for _, c := range t.clients {
		if err := c.Send(msg); err != nil {
			t.logger.Debug("failed to send", "name", c.Name(), "error", err)
		}
	}
}

func (t *Table) broadcastInfo(format string, args ...any) {
	msg, err := NewMessage(MessageTypeInfo, InfoData{Text: fmt.Sprintf(format, args...)})
	if err == nil {
		t.broadcast(msg)
	}
}

func (t *Table) info(c Client, format string, args ...any) {
	msg, err := NewMessage(MessageTypeInfo, InfoData{Text: fmt.Sprintf(format, args...)})
	if err == nil {
		_ = c.Send(msg)
	}
}

func stacks(ps game.Players) string {
	if len(ps) == 0 {
		return "nobody is seated"
	}
	var b strings.Builder
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d", p.Name, p.Money)
	}
	return b.String()
}
