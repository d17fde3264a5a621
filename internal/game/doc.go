// Package game implements the Texas Hold'em rules engine.
//
// A Round plays one hand: it deals, posts the blinds, validates every action
// submitted for the player whose turn it is, moves through the streets and
// settles the pot, side pots included. A Game seats players at a table and
// plays rounds back to back, rotating the button and dropping busted players.
//
// # Basic Usage
//
//	rec := &game.Recorder{}
//	g := game.NewGame(20, rec, game.WithGameRand(randutil.New(42)))
//	_ = g.Join(game.NewPlayer("a", "Alice", 1000))
//	_ = g.Join(game.NewPlayer("b", "Bob", 1000))
//	_ = g.StartRound()
//	cur := g.Round().CurrentPlayer()
//	err := g.Submit(cur.ID, game.CallAction())
//
// Everything the engine does is reported through a Notifier: private events
// such as dealt cards go to one player, public events to the whole table.
// The engine never parses text; front-ends turn chat lines into Actions.
//
// # Deterministic Testing
//
// Pass a seeded *rand.Rand with WithRand or WithGameRand, or a prepared deck
// with WithDeck:
//
//	deck := poker.NewStackedDeck(poker.MustParseCards("As Ah Kd Kc 2c 7d 9h Js 3c")...)
//	r := game.NewRound(players, 0, 20, rec, game.WithDeck(deck))
//
// Neither Round nor Game is safe for concurrent use. Hosts serialize input.
package game
