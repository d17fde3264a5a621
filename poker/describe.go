package poker

import "fmt"

// Describe returns a short human readable description such as
// "Full House, Kings over Sevens" or "Straight, Five high".
func (h EvaluatedHand) Describe() string {
	if len(h.Base) == 0 {
		return h.Type.String()
	}
	top := h.Base[0].Rank()
	switch h.Type {
	case StraightFlush:
		if top == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s high", top.Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", top.Plural())
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", top.Plural(), h.Base[3].Rank().Plural())
	case Flush:
		return fmt.Sprintf("Flush, %s high", top.Name())
	case Straight:
		return fmt.Sprintf("Straight, %s high", top.Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", top.Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", top.Plural(), h.Base[2].Rank().Plural())
	case Pair:
		return fmt.Sprintf("Pair of %s", top.Plural())
	default:
		return fmt.Sprintf("High Card, %s", top.Name())
	}
}
