package game

import (
	"github.com/thoas/go-funk"
)

// Players is an ordered seating. Index order is table order, so "next" and
// "previous" wrap around the end of the slice.
type Players []*Player

func (ps Players) filter(keep func(*Player) bool) Players {
	return Players(funk.Filter([]*Player(ps), keep).([]*Player))
}

// Active returns the players who can still act.
func (ps Players) Active() Players {
	return ps.filter(func(p *Player) bool { return p.IsActive() })
}

// NotFolded returns the players still contesting the pot.
func (ps Players) NotFolded() Players {
	return ps.filter(func(p *Player) bool { return !p.Folded })
}

// AllInNotFolded returns the all-in players still contesting the pot.
func (ps Players) AllInNotFolded() Players {
	return ps.filter(func(p *Player) bool { return p.AllIn && !p.Folded })
}

// AllPlayedTurn reports whether every active player has acted this street.
func (ps Players) AllPlayedTurn() bool {
	for _, p := range ps {
		if p.IsActive() && !p.PlayedTurn {
			return false
		}
	}
	return true
}

// NextActive returns the index of the first active player after i, or -1
// when nobody can act.
func (ps Players) NextActive(i int) int {
	n := len(ps)
	for step := 1; step <= n; step++ {
		j := ((i+step)%n + n) % n
		if ps[j].IsActive() {
			return j
		}
	}
	return -1
}

// PreviousActive returns the index of the first active player before i, or
// -1 when nobody can act.
func (ps Players) PreviousActive(i int) int {
	n := len(ps)
	for step := 1; step <= n; step++ {
		j := ((i-step)%n + n) % n
		if ps[j].IsActive() {
			return j
		}
	}
	return -1
}

// Index returns the seat index of the player with the given ID, or -1.
func (ps Players) Index(id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ByID returns the player with the given ID, or nil.
func (ps Players) ByID(id string) *Player {
	if i := ps.Index(id); i >= 0 {
		return ps[i]
	}
	return nil
}

// Contains reports whether p is seated.
func (ps Players) Contains(p *Player) bool {
	return funk.Contains([]*Player(ps), p)
}

// TotalMoney sums every stack plus everything committed this round.
func (ps Players) TotalMoney() int {
	total := 0
	for _, p := range ps {
		total += p.Money + p.Stake()
	}
	return total
}
