package poker

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
)

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var handTypeNames = [...]string{
	"High Card",
	"Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

func (t HandType) String() string {
	if int(t) >= len(handTypeNames) {
		return "Unknown"
	}
	return handTypeNames[t]
}

func (t HandType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var (
	ErrInvalidCardCount = errors.New("evaluate needs 5 to 7 cards")
	ErrDuplicateCard    = errors.New("duplicate card")
)

// EvaluatedHand is the best five card hand found in a set of cards. Base
// holds the cards that make the category, Kickers the remaining cards in
// descending rank order.
type EvaluatedHand struct {
	Type    HandType `json:"type"`
	Base    []Card   `json:"base"`
	Kickers []Card   `json:"kickers"`
}

// Cards returns base followed by kickers.
func (h EvaluatedHand) Cards() []Card {
	out := make([]Card, 0, len(h.Base)+len(h.Kickers))
	out = append(out, h.Base...)
	return append(out, h.Kickers...)
}

// Evaluate finds the strongest hand that can be made from 5 to 7 distinct
// cards.
func Evaluate(cards ...Card) (EvaluatedHand, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return EvaluatedHand{}, fmt.Errorf("%w: got %d", ErrInvalidCardCount, len(cards))
	}
	var seen CardSet
	for _, c := range cards {
		if !c.Valid() {
			return EvaluatedHand{}, ErrInvalidCard
		}
		if seen.Has(c) {
			return EvaluatedHand{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen.Add(c)
	}
	return evaluate(cards), nil
}

// MustEvaluate is Evaluate for callers that have already validated their
// input. It panics on error.
func MustEvaluate(cards ...Card) EvaluatedHand {
	h, err := Evaluate(cards...)
	if err != nil {
		panic(err)
	}
	return h
}

func evaluate(cards []Card) EvaluatedHand {
	sorted := slices.Clone(cards)
	slices.SortStableFunc(sorted, func(a, b Card) int {
		if a.Rank() != b.Rank() {
			return int(b.Rank()) - int(a.Rank())
		}
		return int(b.Suit()) - int(a.Suit())
	})

	var byRank [13][]Card
	for _, c := range sorted {
		byRank[c.Rank()] = append(byRank[c.Rank()], c)
	}
	set := NewCardSet(sorted...)

	var flush []Card
	for suit := range Suit(4) {
		if bits.OnesCount16(set.SuitMask(suit)) >= 5 {
			flush = slices.DeleteFunc(slices.Clone(sorted), func(c Card) bool { return c.Suit() != suit })
		}
	}

	if flush != nil {
		if run := straightRun(flush, NewCardSet(flush...).RankMask()); run != nil {
			return EvaluatedHand{Type: StraightFlush, Base: run}
		}
	}

	var quads, trips, pairs []Rank
	for r := Ace; ; r-- {
		switch len(byRank[r]) {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
		if r == Two {
			break
		}
	}

	switch {
	case len(quads) > 0:
		base := byRank[quads[0]]
		return EvaluatedHand{Type: FourOfAKind, Base: base, Kickers: kickers(sorted, base, 1)}

	case len(trips) > 0 && (len(trips) > 1 || len(pairs) > 0):
		base := slices.Clone(byRank[trips[0]])
		var second Rank
		switch {
		case len(trips) > 1 && len(pairs) > 0:
			second = max(trips[1], pairs[0])
		case len(trips) > 1:
			second = trips[1]
		default:
			second = pairs[0]
		}
		base = append(base, byRank[second][:2]...)
		return EvaluatedHand{Type: FullHouse, Base: base}

	case flush != nil:
		return EvaluatedHand{Type: Flush, Base: slices.Clone(flush[:5])}
	}

	if run := straightRun(sorted, set.RankMask()); run != nil {
		return EvaluatedHand{Type: Straight, Base: run}
	}

	switch {
	case len(trips) > 0:
		base := byRank[trips[0]]
		return EvaluatedHand{Type: ThreeOfAKind, Base: base, Kickers: kickers(sorted, base, 2)}

	case len(pairs) > 1:
		base := slices.Concat(byRank[pairs[0]], byRank[pairs[1]])
		return EvaluatedHand{Type: TwoPair, Base: base, Kickers: kickers(sorted, base, 1)}

	case len(pairs) == 1:
		base := byRank[pairs[0]]
		return EvaluatedHand{Type: Pair, Base: base, Kickers: kickers(sorted, base, 3)}
	}

	base := sorted[:1]
	return EvaluatedHand{Type: HighCard, Base: slices.Clone(base), Kickers: kickers(sorted, base, 4)}
}

// straightRun returns the highest five card run in cards (sorted by
// descending rank) given their rank mask, ordered from the top of the run
// down. The wheel is returned as 5-4-3-2-A.
func straightRun(cards []Card, mask uint16) []Card {
	var ranks []Rank
	for high := Ace; high >= Six; high-- {
		run := uint16(0x1F) << (high - 4)
		if mask&run == run {
			ranks = []Rank{high, high - 1, high - 2, high - 3, high - 4}
			break
		}
	}
	const wheel = 1<<Ace | 1<<Five | 1<<Four | 1<<Three | 1<<Two
	if ranks == nil && mask&wheel == wheel {
		ranks = []Rank{Five, Four, Three, Two, Ace}
	}
	if ranks == nil {
		return nil
	}
	run := make([]Card, 0, 5)
	for _, r := range ranks {
		i := slices.IndexFunc(cards, func(c Card) bool { return c.Rank() == r })
		run = append(run, cards[i])
	}
	return run
}

func kickers(sorted, base []Card, n int) []Card {
	used := NewCardSet(base...)
	out := make([]Card, 0, n)
	for _, c := range sorted {
		if len(out) == n {
			break
		}
		if !used.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Compare orders two hands: positive when a beats b, negative when b beats
// a and zero for a split.
func Compare(a, b EvaluatedHand) int {
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	if c := compareRanks(a.Base, b.Base); c != 0 {
		return c
	}
	return compareRanks(a.Kickers, b.Kickers)
}

func compareRanks(a, b []Card) int {
	for i := range min(len(a), len(b)) {
		if a[i].Rank() != b[i].Rank() {
			return int(a[i].Rank()) - int(b[i].Rank())
		}
	}
	return len(a) - len(b)
}

// Winners returns the indices of every hand tied for the strongest.
func Winners(hands []EvaluatedHand) []int {
	if len(hands) == 0 {
		return nil
	}
	best := []int{0}
	for i := 1; i < len(hands); i++ {
		switch c := Compare(hands[i], hands[best[0]]); {
		case c > 0:
			best = []int{i}
		case c == 0:
			best = append(best, i)
		}
	}
	return best
}

// Kicker explains a win decided on kickers. It compares the best hand with
// the best losing hand and returns the winner's ranks up to and including
// the first one that beat the loser. It returns nil when every hand ties,
// when the categories differ, when the base cards differ, or for
// straights, full houses and straight flushes.
func Kicker(hands []EvaluatedHand) []Rank {
	winners := Winners(hands)
	if len(winners) == 0 {
		return nil
	}
	winner := hands[winners[0]]

	loser := -1
	for i, h := range hands {
		if Compare(h, winner) >= 0 {
			continue
		}
		if loser < 0 || Compare(h, hands[loser]) > 0 {
			loser = i
		}
	}
	if loser < 0 {
		return nil
	}
	lost := hands[loser]
	if winner.Type != lost.Type {
		return nil
	}

	var w, l []Card
	switch winner.Type {
	case Straight, FullHouse, StraightFlush:
		return nil
	case Flush:
		if winner.Base[0].Rank() != lost.Base[0].Rank() {
			return nil
		}
		w, l = winner.Base[1:], lost.Base[1:]
	default:
		if NewCardSet(winner.Base...).RankMask() != NewCardSet(lost.Base...).RankMask() {
			return nil
		}
		w, l = winner.Kickers, lost.Kickers
	}

	var out []Rank
	for i := range min(len(w), len(l)) {
		out = append(out, w[i].Rank())
		if w[i].Rank() > l[i].Rank() {
			return out
		}
	}
	return nil
}
