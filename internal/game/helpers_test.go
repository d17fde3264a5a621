package game

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/poker"
)

var testNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan"}

// newPlayers seats one player per stack, with IDs p0, p1, ...
func newPlayers(money ...int) Players {
	ps := make(Players, len(money))
	for i, m := range money {
		ps[i] = NewPlayer(fmt.Sprintf("p%d", i), testNames[i], m)
	}
	return ps
}

// stackedDeck deals holes[i] to player i and then the board.
func stackedDeck(t *testing.T, board string, holes ...string) *poker.Deck {
	t.Helper()
	cards, err := poker.ParseCards(strings.Join(holes, " ") + " " + board)
	require.NoError(t, err)
	require.Equal(t, poker.NewCardSet(cards...).Len(), len(cards), "stacked deck has duplicate cards")
	return poker.NewStackedDeck(cards...)
}

// act submits an action for whoever holds the turn.
func act(t *testing.T, r *Round, a Action) {
	t.Helper()
	cur := r.CurrentPlayer()
	require.NotNil(t, cur, "no player to act")
	require.NoError(t, r.Submit(cur.ID, a), "%s %s", cur, a)
}

// checkDown checks or calls until the round closes.
func checkDown(t *testing.T, r *Round) {
	t.Helper()
	for i := 0; !r.Closed(); i++ {
		require.Less(t, i, 100, "round did not finish")
		cur := r.CurrentPlayer()
		if r.ToCall(cur) == 0 {
			act(t, r, CheckAction())
		} else {
			act(t, r, CallAction())
		}
	}
}

func moneyOf(ps Players) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.Money
	}
	return out
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
