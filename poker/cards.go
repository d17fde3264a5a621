package poker

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Card is a single playing card stored as one bit of a uint64.
// Layout: [13 spades][13 hearts][13 diamonds][13 clubs]
type Card uint64

// Rank is a card rank, 0 (Two) through 12 (Ace).
type Rank uint8

// Suit is a card suit, 0 (Clubs) through 3 (Spades).
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

var ErrInvalidCard = errors.New("invalid card")

// NewCard creates a card from rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card(1) << (uint8(suit)*13 + uint8(rank))
}

func (c Card) position() uint8 {
	if c == 0 {
		return 255
	}
	return uint8(bits.TrailingZeros64(uint64(c)))
}

// Valid reports whether c is exactly one of the 52 cards.
func (c Card) Valid() bool {
	return c != 0 && bits.OnesCount64(uint64(c)) == 1 && c.position() < 52
}

func (c Card) Rank() Rank {
	return Rank(c.position() % 13)
}

func (c Card) Suit() Suit {
	return Suit(c.position() / 13)
}

// String returns the two character form, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidCard
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return string(rankChars[r])
}

func (r Rank) MarshalText() ([]byte, error) {
	if r > Ace {
		return nil, ErrInvalidCard
	}
	return []byte(r.String()), nil
}

var rankNames = [...]string{
	"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

// Name returns the english name of the rank, e.g. "King".
func (r Rank) Name() string {
	if r > Ace {
		return "Unknown"
	}
	return rankNames[r]
}

// Plural returns the plural english name, e.g. "Kings" or "Sixes".
func (r Rank) Plural() string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return string(suitChars[s])
}

// ParseCard parses a string like "As" into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	r := strings.IndexByte(rankChars, upper(s[0]))
	if r < 0 {
		return 0, fmt.Errorf("%w: rank %c", ErrInvalidCard, s[0])
	}
	st := strings.IndexByte(suitChars, lower(s[1]))
	if st < 0 {
		return 0, fmt.Errorf("%w: suit %c", ErrInvalidCard, s[1])
	}
	return NewCard(Rank(r), Suit(st)), nil
}

// MustParseCard is ParseCard for fixtures; it panics on bad input.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a whitespace separated list such as "As Kd 7c".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with single spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// CardSet holds any number of cards as a bitset.
type CardSet uint64

func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s |= CardSet(c)
	}
	return s
}

func (s *CardSet) Add(c Card) {
	*s |= CardSet(c)
}

func (s CardSet) Has(c Card) bool {
	return s&CardSet(c) != 0
}

func (s CardSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// SuitMask returns the 13 bit rank mask of the cards held in suit.
func (s CardSet) SuitMask(suit Suit) uint16 {
	return uint16((uint64(s) >> (uint8(suit) * 13)) & 0x1FFF)
}

// RankMask returns a 13 bit mask of all ranks present regardless of suit.
func (s CardSet) RankMask() uint16 {
	return s.SuitMask(Clubs) | s.SuitMask(Diamonds) | s.SuitMask(Hearts) | s.SuitMask(Spades)
}
