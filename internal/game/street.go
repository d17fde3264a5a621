package game

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

// NumStreets is the number of betting streets in a round.
const NumStreets = 4

var streetNames = [...]string{"preflop", "flop", "turn", "river"}

func (s Street) String() string {
	if s < Preflop || s > River {
		return "unknown"
	}
	return streetNames[s]
}

func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dealt is the number of community cards revealed when the street opens.
func (s Street) Dealt() int {
	return [...]int{0, 3, 1, 1}[s]
}

// TableSize is the number of community cards on the table during s.
func (s Street) TableSize() int {
	return [...]int{0, 3, 4, 5}[s]
}
