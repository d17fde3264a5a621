// Package console plays a hot-seat game in a terminal: every player shares
// one keyboard and types their action when prompted.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sanity-io/litter"

	"github.com/lox/holdem-engine/internal/command"
	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/game"
)

// Console is a bubbletea model driving a Game: a log pane of table events
// above a prompt for whoever is to act.
type Console struct {
	game    *game.Game
	render  *Renderer
	history *history
	input   textinput.Model
	log     viewport.Model

	clock   quartz.Clock
	timeout time.Duration
	turn    int
	expiry  tea.Cmd
	stop    func()

	// the turn the prompt was last armed for
	round  *game.Round
	acting *game.Player

	money  int
	logger *log.Logger
	seed   int64
	color  bool
	done   bool
}

// expiredMsg reports that the decision timer of a turn ran out.
type expiredMsg struct {
	turn int
}

type Option func(*Console)

// WithClock replaces the wall clock used for decision timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(c *Console) {
		c.clock = clock
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// WithSeed makes the deal of every round reproducible.
func WithSeed(seed int64) Option {
	return func(c *Console) {
		c.seed = seed
	}
}

// WithColor enables ANSI styling of the output.
func WithColor(enabled bool) Option {
	return func(c *Console) {
		c.color = enabled
	}
}

// New seats the configured players at a fresh table. With no players
// configured two default seats are created.
func New(cfg *config.Config, opts ...Option) (*Console, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	c := &Console{
		history: &history{},
		clock:   quartz.NewReal(),
		timeout: timeout,
		money:   cfg.Table.StartingMoney,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix("console")
	c.render = NewRenderer(c.history, c.color)

	c.log = viewport.New(80, 20)
	c.input = textinput.New()
	c.input.Placeholder = "fold, check, call, raise 40, all in or ::help"
	c.input.CharLimit = 100
	c.input.Focus()

	gameOpts := []game.GameOption{
		game.WithMaxPlayers(cfg.Table.MaxPlayers),
		game.WithGameLogger(c.logger),
		game.WithRoundOptions(game.WithSmallBlind(cfg.Table.SmallBlind)),
	}
	if c.seed != 0 {
		gameOpts = append(gameOpts, game.WithSeed(c.seed))
	}
	notifier := game.NewBroadcaster(c.render, game.NewEventLogger(c.logger))
	c.game = game.NewGame(cfg.Table.BigBlind, notifier, gameOpts...)

	seats := cfg.Players
	if len(seats) == 0 {
		seats = []config.PlayerConfig{
			{Name: "Player 1", Money: c.money},
			{Name: "Player 2", Money: c.money},
		}
	}
	for _, s := range seats {
		if err := c.game.Join(game.NewPlayer(uuid.NewString(), s.Name, s.Money)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Game exposes the table being played.
func (c *Console) Game() *game.Game {
	return c.game
}

// Transcript returns everything printed to the log pane so far.
func (c *Console) Transcript() string {
	return strings.Join(c.history.lines, "\n")
}

// Run plays on a full-screen program until the table stops, the player
// quits or ctx is cancelled. The transcript is written to out afterwards
// so the session stays in the scrollback.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(c,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	c.stopTimer()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		c.logger.Info("interrupted", "rounds", c.game.RoundsPlayed())
		err = nil
	}
	fmt.Fprintln(out, c.Transcript())
	return err
}

// Init deals the first round.
func (c *Console) Init() tea.Cmd {
	c.render.Info("type ::help for the list of commands")
	if c.seed != 0 {
		c.render.Info("dealing with seed %d", c.seed)
	}
	if err := c.game.StartRound(); err != nil {
		c.render.Error(err)
		return c.finish()
	}
	return tea.Batch(textinput.Blink, c.next(true))
}

func (c *Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.log.Width = msg.Width
		c.log.Height = max(msg.Height-2, 1)
		c.input.Width = max(msg.Width-lipgloss.Width(c.input.Prompt)-1, 10)
		c.refresh()
		return c, nil

	case expiredMsg:
		return c, c.expire(msg.turn)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			c.logger.Info("quit", "rounds", c.game.RoundsPlayed())
			c.stopTimer()
			c.done = true
			return c, tea.Quit
		case tea.KeyEnter:
			if c.done {
				return c, nil
			}
			line := c.input.Value()
			c.input.Reset()
			c.render.Text(c.input.Prompt + line)
			moved := c.handle(line)
			return c, c.next(moved)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			c.log, cmd = c.log.Update(msg)
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *Console) View() string {
	if c.done {
		return c.log.View() + "\n"
	}
	return c.log.View() + "\n" + c.input.View()
}

// next points the prompt at whoever acts now and arms their timer when the
// turn changed, or stops the program once the table has stopped.
func (c *Console) next(moved bool) tea.Cmd {
	if !c.game.InRound() {
		return c.finish()
	}
	r := c.game.Round()
	p := r.CurrentPlayer()
	c.input.Prompt = c.render.PromptText(fmt.Sprintf("%s [to call %d, pot %d, stack %d] > ", p.Name, r.ToCall(p), r.Pot(), p.Money))
	c.refresh()
	if !moved && r == c.round && p == c.acting {
		return nil
	}
	c.round, c.acting = r, p
	return c.armTimer()
}

func (c *Console) finish() tea.Cmd {
	c.stopTimer()
	if !c.done {
		c.done = true
		c.render.Info("table stopped after %d rounds", c.game.RoundsPlayed())
		c.render.Stacks(c.game.Players())
	}
	c.refresh()
	return tea.Quit
}

func (c *Console) refresh() {
	c.log.SetContent(c.Transcript())
	c.log.GotoBottom()
}

// armTimer starts the decision clock for a new turn. The returned command
// delivers an expiredMsg when it runs out and nothing once it is stopped.
func (c *Console) armTimer() tea.Cmd {
	c.stopTimer()
	c.turn++
	if c.timeout <= 0 {
		return nil
	}
	turn := c.turn
	fired, stopped := make(chan struct{}), make(chan struct{})
	t := c.clock.AfterFunc(c.timeout, func() { close(fired) }, "console", "decision")
	c.stop = func() {
		t.Stop()
		close(stopped)
	}
	c.expiry = func() tea.Msg {
		select {
		case <-fired:
			return expiredMsg{turn: turn}
		case <-stopped:
			return nil
		}
	}
	return c.expiry
}

func (c *Console) stopTimer() {
	if c.stop != nil {
		c.stop()
	}
	c.stop, c.expiry = nil, nil
}

// expire folds for the player whose turn ran out. Timers of earlier turns
// are ignored.
func (c *Console) expire(turn int) tea.Cmd {
	if turn != c.turn || !c.game.InRound() {
		return nil
	}
	p := c.game.Round().CurrentPlayer()
	c.render.Info("%s ran out of time", p.Name)
	c.logger.Warn("decision timeout", "player", p, "timeout", c.timeout)
	if err := c.game.Submit(p.ID, game.FoldAction()); err != nil {
		c.render.Error(err)
	}
	return c.next(true)
}

// handle applies one line typed by the current player and reports whether
// the game moved on.
func (c *Console) handle(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	p := c.game.Round().CurrentPlayer()
	cmd, err := command.Parse(line)
	if err != nil {
		c.render.Error(err)
		return false
	}
	c.logger.Debug("input", "player", p, "command", cmd)

	moved := false
	switch cmd.Kind {
	case command.Act:
		err = c.game.Submit(p.ID, cmd.Action)
		moved = err == nil
	case command.Start:
		err = c.game.StartRound()
	case command.LastRound:
		if c.game.ToggleLastRound() {
			c.render.Info("the table stops after this round")
		} else {
			c.render.Info("the table keeps dealing")
		}
	case command.BuyIn:
		err = c.buyIn(cmd.Amount)
	case command.Leave:
		err = c.game.Leave(p.ID)
		moved = err == nil
	case command.Refill:
		c.refill(cmd.Amount)
	case command.Money:
		c.render.Stacks(c.game.Players())
	case command.State:
		c.render.Text(litter.Sdump(c.game.Round().Snapshot()))
	case command.Help:
		c.render.Text(command.Usage)
	}
	if err != nil {
		c.render.Error(err)
	}
	return moved
}

// buyIn seats a new player who joins from the next round.
func (c *Console) buyIn(amount int) error {
	if amount == 0 {
		amount = c.money
	}
	name := fmt.Sprintf("Player %d", len(c.game.Players())+1)
	return c.game.Join(game.NewPlayer(uuid.NewString(), name, amount))
}

// refill tops up everyone not holding a live hand.
func (c *Console) refill(amount int) {
	if amount == 0 {
		amount = c.money
	}
	for _, p := range c.game.Players() {
		added, err := c.game.Refill(p.ID, amount)
		switch {
		case errors.Is(err, game.ErrStillInHand):
			continue
		case err != nil:
			c.render.Error(err)
		case added > 0:
			c.render.Info("%s refills %d", p.Name, added)
		}
	}
}

// history collects rendered output line by line for the log pane.
type history struct {
	lines   []string
	partial string
}

func (h *history) Write(p []byte) (int, error) {
	parts := strings.Split(h.partial+string(p), "\n")
	h.lines = append(h.lines, parts[:len(parts)-1]...)
	h.partial = parts[len(parts)-1]
	return len(p), nil
}
