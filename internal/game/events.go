package game

import (
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/poker"
)

// EventType names a notification on the wire.
type EventType string

const (
	EventTypeDealtCards       EventType = "dealt-cards"
	EventTypeNewRound         EventType = "new-round"
	EventTypeSmallBlind       EventType = "small-blind"
	EventTypeBigBlind         EventType = "big-blind"
	EventTypePlayerRaised     EventType = "player-raised"
	EventTypePlayerCalled     EventType = "player-called"
	EventTypePlayerChecked    EventType = "player-checked"
	EventTypePlayerFolded     EventType = "player-folded"
	EventTypeWentAllIn        EventType = "went-all-in"
	EventTypeNewTurn          EventType = "new-turn"
	EventTypeAmountToCall     EventType = "amount-to-call"
	EventTypeUnfinishedWinner EventType = "declare-unfinished-winner"
	EventTypeShowCards        EventType = "public-show-cards"
	EventTypeFinishedWinner   EventType = "declare-finished-winner"
	EventTypePlayerLostMoney  EventType = "player-lost-money"
	EventTypePlayerJoined     EventType = "player-joined"
	EventTypePlayerLeft       EventType = "player-left"
)

func (et EventType) String() string {
	return string(et)
}

// Event is any notification emitted by a round or a game.
type Event interface {
	Type() EventType
}

// Notifier receives events. Private events go to one player only, public
// events to everyone at the table. Implementations must not call back into
// the round that is notifying them.
type Notifier interface {
	Private(playerID string, e Event)
	Public(e Event)
}

// PlayerRef identifies the player an event is about.
type PlayerRef struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

func refOf(p *Player) PlayerRef {
	return PlayerRef{PlayerID: p.ID, PlayerName: p.Name}
}

type DealtCardsEvent struct {
	PlayerRef
	Cards []poker.Card `json:"cards"`
}

type NewRoundEvent struct {
	Index int `json:"index"`
}

type SmallBlindEvent struct {
	PlayerRef
	Amount int `json:"amount"`
}

type BigBlindEvent struct {
	PlayerRef
	Amount int `json:"amount"`
}

type PlayerRaisedEvent struct {
	PlayerRef
	Amount int `json:"amount"`
}

type PlayerCalledEvent struct {
	PlayerRef
	Amount int `json:"amount"`
}

type PlayerCheckedEvent struct {
	PlayerRef
}

type PlayerFoldedEvent struct {
	PlayerRef
}

// WentAllInEvent carries the stack the player pushed in.
type WentAllInEvent struct {
	PlayerRef
	RemainingMoney int `json:"remaining_money"`
}

type NewTurnEvent struct {
	Street Street       `json:"street"`
	Table  []poker.Card `json:"table"`
}

type AmountToCallEvent struct {
	PlayerRef
	Amount int `json:"amount"`
}

// UnfinishedWinnerEvent is sent when everyone else folded.
type UnfinishedWinnerEvent struct {
	PlayerRef
	Amount int `json:"amount"`
}

type ShowCardsEvent struct {
	PlayerRef
	Cards []poker.Card         `json:"cards"`
	Hand  *poker.EvaluatedHand `json:"hand,omitempty"`
}

// FinishedWinnerEvent is sent per winner of each showdown pot.
type FinishedWinnerEvent struct {
	PlayerRef
	Amount   int            `json:"amount"`
	HandType poker.HandType `json:"hand_type"`
	Base     []poker.Card   `json:"base"`
	Kicker   []poker.Rank   `json:"kicker,omitempty"`
}

type PlayerLostMoneyEvent struct {
	PlayerRef
}

type PlayerJoinedEvent struct {
	PlayerRef
	Money int `json:"money"`
}

type PlayerLeftEvent struct {
	PlayerRef
	Money int `json:"money"`
}

func (DealtCardsEvent) Type() EventType       { return EventTypeDealtCards }
func (NewRoundEvent) Type() EventType         { return EventTypeNewRound }
func (SmallBlindEvent) Type() EventType       { return EventTypeSmallBlind }
func (BigBlindEvent) Type() EventType         { return EventTypeBigBlind }
func (PlayerRaisedEvent) Type() EventType     { return EventTypePlayerRaised }
func (PlayerCalledEvent) Type() EventType     { return EventTypePlayerCalled }
func (PlayerCheckedEvent) Type() EventType    { return EventTypePlayerChecked }
func (PlayerFoldedEvent) Type() EventType     { return EventTypePlayerFolded }
func (WentAllInEvent) Type() EventType        { return EventTypeWentAllIn }
func (NewTurnEvent) Type() EventType          { return EventTypeNewTurn }
func (AmountToCallEvent) Type() EventType     { return EventTypeAmountToCall }
func (UnfinishedWinnerEvent) Type() EventType { return EventTypeUnfinishedWinner }
func (ShowCardsEvent) Type() EventType        { return EventTypeShowCards }
func (FinishedWinnerEvent) Type() EventType   { return EventTypeFinishedWinner }
func (PlayerLostMoneyEvent) Type() EventType  { return EventTypePlayerLostMoney }
func (PlayerJoinedEvent) Type() EventType     { return EventTypePlayerJoined }
func (PlayerLeftEvent) Type() EventType       { return EventTypePlayerLeft }

// Broadcaster fans events out to every subscribed notifier in
// subscription order.
type Broadcaster struct {
	subscribers []Notifier
}

func NewBroadcaster(subscribers ...Notifier) *Broadcaster {
	return &Broadcaster{subscribers: subscribers}
}

// Subscribe adds a notifier to receive events
func (b *Broadcaster) Subscribe(n Notifier) {
	b.subscribers = append(b.subscribers, n)
}

// Unsubscribe removes a notifier from receiving events
func (b *Broadcaster) Unsubscribe(n Notifier) {
	for i, sub := range b.subscribers {
		if sub == n {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			break
		}
	}
}

func (b *Broadcaster) Private(playerID string, e Event) {
	for _, sub := range b.subscribers {
		sub.Private(playerID, e)
	}
}

func (b *Broadcaster) Public(e Event) {
	for _, sub := range b.subscribers {
		sub.Public(e)
	}
}

// EventLogger writes every event to a logger at debug level.
type EventLogger struct {
	logger *log.Logger
}

func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{logger: logger.WithPrefix("events")}
}

func (l *EventLogger) Private(playerID string, e Event) {
	l.logger.Debug(e.Type().String(), "to", playerID, "event", e)
}

func (l *EventLogger) Public(e Event) {
	l.logger.Debug(e.Type().String(), "event", e)
}

// Notification is one recorded event. To is empty for public events.
type Notification struct {
	To    string
	Event Event
}

// Recorder keeps every event it receives, in order.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Private(playerID string, e Event) {
	r.Notifications = append(r.Notifications, Notification{To: playerID, Event: e})
}

func (r *Recorder) Public(e Event) {
	r.Notifications = append(r.Notifications, Notification{Event: e})
}

// Types lists the recorded event types in order.
func (r *Recorder) Types() []EventType {
	out := make([]EventType, len(r.Notifications))
	for i, n := range r.Notifications {
		out[i] = n.Event.Type()
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.Notifications = nil
}

// Find returns the recorded events of type T.
func Find[T Event](r *Recorder) []T {
	var out []T
	for _, n := range r.Notifications {
		if e, ok := n.Event.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

type discard struct{}

func (discard) Private(string, Event) {}
func (discard) Public(Event)          {}

// Discard drops every event.
var Discard Notifier = discard{}
