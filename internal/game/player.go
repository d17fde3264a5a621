package game

import (
	"github.com/lox/holdem-engine/poker"
)

// Player is a seat at the table. ID, Name and Money persist across rounds;
// the remaining fields belong to the round in progress and are cleared when
// it closes.
type Player struct {
	ID    string
	Name  string
	Money int

	Cards      []poker.Card
	Folded     bool
	AllIn      bool
	TurnStake  [NumStreets]int // committed per street
	PlayedTurn bool
	Hand       *poker.EvaluatedHand
}

// NewPlayer creates a player with the given stack.
func NewPlayer(id, name string, money int) *Player {
	return &Player{ID: id, Name: name, Money: money}
}

// IsActive returns true if the player can still act
func (p *Player) IsActive() bool {
	return !p.Folded && !p.AllIn
}

// Stake is the total committed this round.
func (p *Player) Stake() int {
	total := 0
	for _, s := range p.TurnStake {
		total += s
	}
	return total
}

func (p *Player) String() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func (p *Player) reset() {
	p.Cards = nil
	p.Folded = false
	p.AllIn = false
	p.TurnStake = [NumStreets]int{}
	p.PlayedTurn = false
	p.Hand = nil
}
