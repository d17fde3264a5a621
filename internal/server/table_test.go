package server

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/game"
)

type fakeClient struct {
	id, name string

	mu       sync.Mutex
	messages []*Message
}

func (c *fakeClient) PlayerID() string { return c.id }
func (c *fakeClient) Name() string     { return c.name }

func (c *fakeClient) Send(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

// events returns the names of the game events received so far.
func (c *fakeClient) events() []game.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []game.EventType
	for _, m := range c.messages {
		if m.Type != MessageTypeEvent {
			continue
		}
		var data struct {
			Name game.EventType `json:"name"`
		}
		if err := json.Unmarshal(m.Data, &data); err == nil {
			out = append(out, data.Name)
		}
	}
	return out
}

// payloads decodes every received event named name.
func (c *fakeClient) payloads(name game.EventType) []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []map[string]any
	for _, m := range c.messages {
		var data struct {
			Name    game.EventType `json:"name"`
			Payload map[string]any `json:"payload"`
		}
		if m.Type == MessageTypeEvent && json.Unmarshal(m.Data, &data) == nil && data.Name == name {
			out = append(out, data.Payload)
		}
	}
	return out
}

func (c *fakeClient) count(typ MessageType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if m.Type == typ {
			n++
		}
	}
	return n
}

func (c *fakeClient) has(name game.EventType) func() bool {
	return func() bool {
		for _, e := range c.events() {
			if e == name {
				return true
			}
		}
		return false
	}
}

func startTable(t *testing.T, timeout string, opts ...TableOption) *Table {
	t.Helper()
	cfg := config.Default()
	cfg.Table.DecisionTimeout = timeout
	opts = append([]TableOption{WithSeed(3)}, opts...)
	table, err := NewTable(cfg, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- table.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return table
}

// seat registers two clients and buys both in. Inputs are processed in
// order, so once Input returns for the last line the table has seen all.
func seat(t *testing.T, table *Table) (alice, bob *fakeClient) {
	t.Helper()
	alice = &fakeClient{id: "a", name: "alice"}
	bob = &fakeClient{id: "b", name: "bob"}
	for _, c := range []*fakeClient{alice, bob} {
		table.Register(c)
		table.Input(c, "::buyin")
	}
	return alice, bob
}

func TestTableRoutesPrivateEvents(t *testing.T) {
	t.Parallel()
	table := startTable(t, "")
	alice, bob := seat(t, table)
	table.Input(alice, "::start")

	require.Eventually(t, bob.has(game.EventTypeAmountToCall), time.Second, 5*time.Millisecond)

	dealtAlice := alice.payloads(game.EventTypeDealtCards)
	require.Len(t, dealtAlice, 1, "only alice's own cards")
	assert.Equal(t, "a", dealtAlice[0]["player_id"])
	assert.Len(t, dealtAlice[0]["cards"], 2)

	dealtBob := bob.payloads(game.EventTypeDealtCards)
	require.Len(t, dealtBob, 1)
	assert.Equal(t, "b", dealtBob[0]["player_id"])

	joined := bob.payloads(game.EventTypePlayerJoined)
	require.Len(t, joined, 1, "bob registered after alice joined")
	assert.Equal(t, float64(1000), joined[0]["money"])
}

func TestTableRejectsBadInput(t *testing.T) {
	t.Parallel()
	table := startTable(t, "")
	alice, bob := seat(t, table)
	table.Input(alice, "::start")

	table.Input(alice, "call")     // bob acts first
	table.Input(bob, "raise lots") // malformed
	table.Input(bob, "::buyin")    // already seated
	table.Input(bob, "::state")

	require.Eventually(t, func() bool { return bob.count(MessageTypeError) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, alice.count(MessageTypeError))

	table.Input(bob, "call")
	require.Eventually(t, alice.has(game.EventTypePlayerCalled), time.Second, 5*time.Millisecond)
}

func TestTableDecisionTimeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	table := startTable(t, "30s", WithClock(mClock))
	alice, bob := seat(t, table)
	table.Input(alice, "::start")
	require.Eventually(t, bob.has(game.EventTypeAmountToCall), time.Second, 5*time.Millisecond)

	mClock.Advance(30 * time.Second).MustWait(ctx)

	require.Eventually(t, alice.has(game.EventTypePlayerFolded), time.Second, 5*time.Millisecond)
	folded := alice.payloads(game.EventTypePlayerFolded)
	assert.Equal(t, "b", folded[0]["player_id"])

	won := alice.payloads(game.EventTypeUnfinishedWinner)
	require.Len(t, won, 1)
	assert.Equal(t, float64(30), won[0]["amount"])
}

func TestTableDisconnectLeaves(t *testing.T) {
	t.Parallel()
	table := startTable(t, "")
	alice, bob := seat(t, table)
	table.Input(alice, "::start")

	table.Unregister(bob)
	require.Eventually(t, alice.has(game.EventTypePlayerLeft), time.Second, 5*time.Millisecond)

	// bob folded on the way out and alice took the blinds
	won := alice.payloads(game.EventTypeUnfinishedWinner)
	require.Len(t, won, 1)
	assert.Equal(t, "a", won[0]["player_id"])

	table.Input(alice, "::money")
	require.Eventually(t, func() bool { return alice.count(MessageTypeInfo) >= 2 }, time.Second, 5*time.Millisecond)
}
