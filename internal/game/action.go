package game

import "fmt"

// ActionKind is the closed set of moves a player can make.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
	AllIn
)

func (k ActionKind) String() string {
	if k < Fold || k > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "raise", "allin"}[k]
}

// Action is a player decision. Amount is only meaningful for Raise, where
// it is the amount raised on top of the call.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
}

func FoldAction() Action  { return Action{Kind: Fold} }
func CheckAction() Action { return Action{Kind: Check} }
func CallAction() Action  { return Action{Kind: Call} }
func AllInAction() Action { return Action{Kind: AllIn} }

// RaiseBy raises amount on top of whatever the player owes.
func RaiseBy(amount int) Action { return Action{Kind: Raise, Amount: amount} }

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("raise %d", a.Amount)
	}
	return a.Kind.String()
}
