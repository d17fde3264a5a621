package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// Renderer prints game events as text lines. It implements game.Notifier.
type Renderer struct {
	out io.Writer

	header  lipgloss.Style
	action  lipgloss.Style
	winner  lipgloss.Style
	info    lipgloss.Style
	errorS  lipgloss.Style
	red     lipgloss.Style
	black   lipgloss.Style
	private lipgloss.Style
}

// NewRenderer styles output for w. The output ends up on the terminal
// through the log pane, so colors follow the terminal rather than w. With
// color disabled every style renders plain text, which is also what tests
// compare against.
func NewRenderer(w io.Writer, color bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if color {
		lr.SetColorProfile(termenv.EnvColorProfile())
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:     w,
		header:  lr.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Bold(true),
		action:  lr.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		winner:  lr.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		info:    lr.NewStyle().Foreground(lipgloss.Color("#626262")),
		errorS:  lr.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		red:     lr.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		black:   lr.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		private: lr.NewStyle().Foreground(lipgloss.Color("#04B575")),
	}
}

func (r *Renderer) Private(playerID string, e game.Event) {
	if e, ok := e.(game.DealtCardsEvent); ok {
		r.println(r.private.Render(fmt.Sprintf("%s is dealt ", e.PlayerName)) + r.cards(e.Cards))
	}
}

func (r *Renderer) Public(e game.Event) {
	switch e := e.(type) {
	case game.NewRoundEvent:
		r.println("")
		r.println(r.header.Render(fmt.Sprintf(" Round %d ", e.Index)))
	case game.SmallBlindEvent:
		r.println(r.info.Render(fmt.Sprintf("%s posts the small blind of %d", e.PlayerName, e.Amount)))
	case game.BigBlindEvent:
		r.println(r.info.Render(fmt.Sprintf("%s posts the big blind of %d", e.PlayerName, e.Amount)))
	case game.PlayerRaisedEvent:
		r.println(r.action.Render(fmt.Sprintf("%s raises by %d", e.PlayerName, e.Amount)))
	case game.PlayerCalledEvent:
		r.println(r.action.Render(fmt.Sprintf("%s calls %d", e.PlayerName, e.Amount)))
	case game.PlayerCheckedEvent:
		r.println(r.action.Render(e.PlayerName + " checks"))
	case game.PlayerFoldedEvent:
		r.println(r.action.Render(e.PlayerName + " folds"))
	case game.WentAllInEvent:
		r.println(r.action.Render(fmt.Sprintf("%s goes all in with %d", e.PlayerName, e.RemainingMoney)))
	case game.NewTurnEvent:
		if e.Street != game.Preflop {
			r.println(r.header.Render(" "+strings.ToUpper(e.Street.String())+" ") + " " + r.cards(e.Table))
		}
	case game.UnfinishedWinnerEvent:
		r.println(r.winner.Render(fmt.Sprintf("%s wins %d, everyone else folded", e.PlayerName, e.Amount)))
	case game.ShowCardsEvent:
		line := fmt.Sprintf("%s shows %s", e.PlayerName, r.cards(e.Cards))
		if e.Hand != nil {
			line += " " + e.Hand.Describe()
		}
		r.println(line)
	case game.FinishedWinnerEvent:
		hand := poker.EvaluatedHand{Type: e.HandType, Base: e.Base}
		line := fmt.Sprintf("%s wins %d with %s", e.PlayerName, e.Amount, hand.Describe())
		if len(e.Kicker) > 0 {
			line += fmt.Sprintf(" (kicker %s)", ranks(e.Kicker))
		}
		r.println(r.winner.Render(line))
	case game.PlayerLostMoneyEvent:
		r.println(r.errorS.Render(e.PlayerName + " is out of money and leaves the table"))
	case game.PlayerJoinedEvent:
		r.println(r.info.Render(fmt.Sprintf("%s sits down with %d", e.PlayerName, e.Money)))
	case game.PlayerLeftEvent:
		r.println(r.info.Render(fmt.Sprintf("%s leaves with %d", e.PlayerName, e.Money)))
	}
}

// Error prints a rejected input.
func (r *Renderer) Error(err error) {
	r.println(r.errorS.Render("error: " + err.Error()))
}

// Info prints a plain message.
func (r *Renderer) Info(format string, args ...any) {
	r.println(r.info.Render(fmt.Sprintf(format, args...)))
}

// Text prints s unstyled.
func (r *Renderer) Text(s string) {
	r.println(s)
}

// PromptText styles the prompt shown in front of the input line.
func (r *Renderer) PromptText(text string) string {
	return r.action.Render(text)
}

// Stacks prints one line per player with their money.
func (r *Renderer) Stacks(ps game.Players) {
	for _, p := range ps {
		r.println(fmt.Sprintf("  %-12s %6d", p.Name, p.Money))
	}
}

func (r *Renderer) cards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		style := r.black
		if s := c.Suit(); s == poker.Hearts || s == poker.Diamonds {
			style = r.red
		}
		parts[i] = style.Render(c.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func ranks(rs []poker.Rank) string {
	parts := make([]string, len(rs))
	for i, rk := range rs {
		parts[i] = rk.Name()
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}
