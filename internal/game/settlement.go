package game

import (
	"slices"

	"github.com/lox/holdem-engine/poker"
)

// settle splits the pot between the players still holding cards.
//
// Contenders are ordered all-in players first, smallest stake first,
// followed by the active players. Every point where the stake grows opens a
// side pot contested by that player and everyone after them. Each side pot
// takes up to the boundary player's remaining stake from every player,
// folded players included, so no chip can be claimed twice.
func (r *Round) settle() {
	r.state = Settlement

	order := slices.Clone(r.players.AllInNotFolded())
	slices.SortStableFunc(order, func(a, b *Player) int {
		return a.Stake() - b.Stake()
	})
	order = append(order, r.players.Active()...)

	for _, p := range order {
		r.notifier.Public(ShowCardsEvent{PlayerRef: refOf(p), Cards: slices.Clone(p.Cards), Hand: p.Hand})
	}

	live := make(map[*Player]int, len(r.players))
	for _, p := range r.players {
		live[p] = p.Stake()
	}

	for i, boundaryPlayer := range order {
		if i > 0 && order[i-1].Stake() == boundaryPlayer.Stake() {
			continue
		}
		competitors := order[i:]
		last := !slices.ContainsFunc(competitors[1:], func(p *Player) bool {
			return p.Stake() != boundaryPlayer.Stake()
		})

		boundary := live[boundaryPlayer]
		pot := 0
		for _, p := range r.players {
			take := min(live[p], boundary)
			if last {
				// the top pot also sweeps anything folded players put in
				// beyond the largest remaining stake
				take = live[p]
			}
			live[p] -= take
			pot += take
		}
		if pot == 0 {
			continue
		}

		hands := make([]poker.EvaluatedHand, len(competitors))
		for j, p := range competitors {
			hands[j] = *p.Hand
		}
		var winners []*Player
		for _, j := range poker.Winners(hands) {
			winners = append(winners, competitors[j])
		}
		kicker := poker.Kicker(hands)

		shares := r.split(pot, winners)
		for _, w := range winners {
			won := shares[w]
			if won == 0 {
				continue
			}
			w.Money += won
			r.notifier.Public(FinishedWinnerEvent{
				PlayerRef: refOf(w),
				Amount:    won,
				HandType:  w.Hand.Type,
				Base:      slices.Clone(w.Hand.Base),
				Kicker:    kicker,
			})
			r.logger.Debug("pot awarded", "player", w, "won", won, "hand", w.Hand.Describe())
		}
	}
}

// split divides pot evenly between winners. Chips that do not divide go
// one at a time to the winners closest to the left of the button.
func (r *Round) split(pot int, winners []*Player) map[*Player]int {
	shares := make(map[*Player]int, len(winners))
	share, odd := pot/len(winners), pot%len(winners)
	for _, w := range winners {
		shares[w] = share
	}
	if odd == 0 {
		return shares
	}

	n := len(r.players)
	seated := slices.Clone(winners)
	slices.SortFunc(seated, func(a, b *Player) int {
		da := (r.players.Index(a.ID) - r.button - 1 + n) % n
		db := (r.players.Index(b.ID) - r.button - 1 + n) % n
		return da - db
	})
	for _, w := range seated[:odd] {
		shares[w]++
	}
	return shares
}
