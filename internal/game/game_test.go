package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/randutil"
)

func newTestGame(t *testing.T, rec *Recorder, money ...int) (*Game, Players) {
	t.Helper()
	g := NewGame(20, rec, WithGameRand(randutil.New(42)))
	ps := newPlayers(money...)
	for _, p := range ps {
		require.NoError(t, g.Join(p))
	}
	return g, ps
}

func TestJoin(t *testing.T) {
	t.Parallel()
	g := NewGame(20, nil, WithMaxPlayers(2))

	require.NoError(t, g.Join(NewPlayer("a", "Alice", 100)))
	assert.True(t, errors.Is(g.Join(NewPlayer("a", "Again", 100)), ErrDuplicatePlayer))
	assert.True(t, errors.Is(g.Join(NewPlayer("b", "Broke", 0)), ErrNoMoney))
	assert.False(t, g.Ready())
	assert.True(t, errors.Is(g.StartRound(), ErrTableNotReady))

	require.NoError(t, g.Join(NewPlayer("c", "Carol", 100)))
	assert.True(t, g.Ready())
	assert.True(t, errors.Is(g.Join(NewPlayer("d", "Dave", 100)), ErrTableFull))
}

func TestRoundsFollowEachOtherAndButtonMoves(t *testing.T) {
	t.Parallel()
	rec := &Recorder{}
	g, ps := newTestGame(t, rec, 1000, 1000, 1000)

	require.NoError(t, g.StartRound())
	assert.True(t, errors.Is(g.StartRound(), ErrRoundInProgress))
	assert.Equal(t, ps[0], g.Button())

	// everyone folds to the big blind, twice
	for range 2 {
		r := g.Round()
		require.NotNil(t, r)
		for r.CurrentPlayer() != nil && g.Round() == r {
			require.NoError(t, g.Submit(r.CurrentPlayer().ID, FoldAction()))
		}
	}

	assert.Equal(t, 3, g.RoundsPlayed())
	bigBlinds := Find[BigBlindEvent](rec)
	require.Len(t, bigBlinds, 3)
	assert.Equal(t, "p0", bigBlinds[0].PlayerID)
	assert.Equal(t, "p1", bigBlinds[1].PlayerID)
	assert.Equal(t, "p2", bigBlinds[2].PlayerID)

	rounds := Find[NewRoundEvent](rec)
	assert.Equal(t, []NewRoundEvent{{Index: 1}, {Index: 2}, {Index: 3}}, rounds)
	assert.Equal(t, 3000, g.Players().TotalMoney(), "blinds of the third round are still on the table")
}

func TestLastRoundStopsTheTable(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, nil, 1000, 1000)
	require.NoError(t, g.StartRound())

	assert.True(t, g.ToggleLastRound())
	require.NoError(t, g.Submit(g.Round().CurrentPlayer().ID, FoldAction()))

	assert.False(t, g.InRound())
	assert.Nil(t, g.Round())
	assert.Equal(t, 1, g.RoundsPlayed())
	assert.True(t, errors.Is(g.Submit("p0", CheckAction()), ErrRoundClosed))

	// starting again clears the flag
	require.NoError(t, g.StartRound())
	assert.False(t, g.LastRound())
	assert.Equal(t, 2, g.RoundsPlayed())
}

func TestBustedPlayersAreRemoved(t *testing.T) {
	t.Parallel()
	rec := &Recorder{}
	g := NewGame(20, rec, WithRoundOptions(WithDeck(stackedDeck(t, "2c 7h 9c Jh 3d", "As Ad", "Ks Kd"))))
	ps := newPlayers(1000, 300)
	for _, p := range ps {
		require.NoError(t, g.Join(p))
	}
	require.NoError(t, g.StartRound())

	require.NoError(t, g.Submit("p1", AllInAction()))
	require.NoError(t, g.Submit("p0", CallAction()))

	assert.False(t, g.InRound(), "one player left, the table stops")
	assert.Equal(t, Players{ps[0]}, g.Players())
	assert.Equal(t, 1300, ps[0].Money)
	assert.Equal(t, []PlayerLostMoneyEvent{{PlayerRef: refOf(ps[1])}}, Find[PlayerLostMoneyEvent](rec))
}

func TestBlindsAllInResolveWithoutInput(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, nil, 10, 10)

	require.NoError(t, g.StartRound())
	assert.False(t, g.InRound())
	require.Len(t, g.Players(), 1)
	assert.Equal(t, 20, g.Players()[0].Money)
}

func TestLeaveMidRound(t *testing.T) {
	t.Parallel()
	rec := &Recorder{}
	g, ps := newTestGame(t, rec, 1000, 1000, 1000)
	require.NoError(t, g.StartRound())
	require.Equal(t, ps[1], g.Round().CurrentPlayer())

	// p2 posted the small blind and leaves out of turn
	require.NoError(t, g.Leave("p2"))
	assert.True(t, g.InRound())
	assert.True(t, ps[2].Folded)
	assert.Len(t, g.Players(), 2)

	// the player to act leaves, p0 takes the blinds
	require.NoError(t, g.Leave("p1"))
	assert.False(t, g.InRound())
	assert.Equal(t, 1010, ps[0].Money)
	assert.Equal(t, 990, ps[2].Money)

	left := Find[PlayerLeftEvent](rec)
	require.Len(t, left, 2)
	assert.Equal(t, 990, left[0].Money)

	assert.True(t, errors.Is(g.Leave("p1"), ErrUnknownPlayer))
}

func TestRefill(t *testing.T) {
	t.Parallel()
	g, ps := newTestGame(t, nil, 1000, 500, 1000)
	require.NoError(t, g.StartRound())

	// p1 is to act and still holds cards
	_, err := g.Refill("p1", 1000)
	assert.True(t, errors.Is(err, ErrStillInHand))

	require.NoError(t, g.Submit("p1", FoldAction()))
	added, err := g.Refill("p1", 1000)
	require.NoError(t, err)
	assert.Equal(t, 500, added)
	assert.Equal(t, 1000, ps[1].Money)

	added, err = g.Refill("p1", 600)
	require.NoError(t, err)
	assert.Equal(t, 0, added, "refill never takes money away")
}

func TestSeedReplaysEachRound(t *testing.T) {
	t.Parallel()
	deal := func(foldFirst bool) []DealtCardsEvent {
		rec := &Recorder{}
		g := NewGame(20, rec, WithSeed(99))
		for _, p := range newPlayers(1000, 1000, 1000) {
			require.NoError(t, g.Join(p))
		}
		require.NoError(t, g.StartRound())
		if !foldFirst {
			// play round one differently before folding it away
			require.NoError(t, g.Submit(g.Round().CurrentPlayer().ID, CallAction()))
		}
		r := g.Round()
		for g.Round() == r {
			require.NoError(t, g.Submit(r.CurrentPlayer().ID, FoldAction()))
		}
		return Find[DealtCardsEvent](rec)
	}

	a, b := deal(true), deal(false)
	require.Len(t, a, 6)
	require.Len(t, b, 6)
	assert.Equal(t, a, b, "both games deal the same two rounds")
	assert.NotEqual(t, a[0].Cards, a[3].Cards, "rounds get their own shuffle")
}

func TestBroadcasterFansOut(t *testing.T) {
	t.Parallel()
	first, second := &Recorder{}, &Recorder{}
	b := NewBroadcaster(first)
	b.Subscribe(second)

	b.Public(NewRoundEvent{Index: 1})
	b.Private("p0", PlayerCheckedEvent{})
	b.Unsubscribe(first)
	b.Public(NewRoundEvent{Index: 2})

	assert.Len(t, first.Notifications, 2)
	require.Len(t, second.Notifications, 3)
	assert.Equal(t, "p0", second.Notifications[1].To)
}
