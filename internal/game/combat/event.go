package combat

// EventKind classifies an observable battle event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventBattleStarted
	EventTurnStarted
	EventStatusTick
	EventEffectExpired
	EventTurnSkipped
	EventAttack
	EventSpecialMiss
	EventConditionApplied
	EventInsufficientResource
	EventRegen
	EventTurnEnded
	EventLevelUp
	EventReward
	EventBattleEnded
)

// String returns the snake_case event name.
func (k EventKind) String() string {
	switch k {
	case EventBattleStarted:
		return "battle_started"
	case EventTurnStarted:
		return "turn_started"
	case EventStatusTick:
		return "status_tick"
	case EventEffectExpired:
		return "effect_expired"
	case EventTurnSkipped:
		return "turn_skipped"
	case EventAttack:
		return "attack"
	case EventSpecialMiss:
		return "special_miss"
	case EventConditionApplied:
		return "condition_applied"
	case EventInsufficientResource:
		return "insufficient_resource"
	case EventRegen:
		return "regen"
	case EventTurnEnded:
		return "turn_ended"
	case EventLevelUp:
		return "level_up"
	case EventReward:
		return "reward"
	case EventBattleEnded:
		return "battle_ended"
	default:
		return "unknown"
	}
}

// Event is a structured record of something that happened in a battle.
// Fields irrelevant to Kind are left zero.
type Event struct {
	Kind     EventKind
	BattleID string
	Turn     int
	// Actor is the name of the combatant the event is about.
	Actor string
	// Target is the name of the combatant acted upon, if any.
	Target string
	Action ActionType
	// Name is the special attack, condition ID, reward kind, or item involved.
	Name string
	// Amount is damage dealt, health restored, or bonus granted.
	Amount int
	// Remaining is a condition's duration after a tick or when applied, or the
	// target's health after an attack.
	Remaining  int
	Multiplier float64
	// Fallback marks a basic attack made because a special attack's precondition failed.
	Fallback bool
	// Resource and Cost describe what the actor paid, or for
	// EventInsufficientResource what it lacked (Cost is then the requirement).
	Resource Resource
	Cost     int
	Outcome  Outcome
	Level    int
}

// Notifier receives battle events. Rendering them is the implementation's concern.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

// Notify calls f.
func (f NotifierFunc) Notify(e Event) { f(e) }

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// Tee returns a Notifier that forwards every event to each non-nil notifier in order.
func Tee(notifiers ...Notifier) Notifier {
	var out []Notifier
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return NotifierFunc(func(e Event) {
		for _, n := range out {
			n.Notify(e)
		}
	})
}

// EventLog is a Notifier that records every event in order.
type EventLog struct {
	Events []Event
}

// Notify appends e.
func (l *EventLog) Notify(e Event) { l.Events = append(l.Events, e) }

// Of returns the recorded events of the given kind, in order.
func (l *EventLog) Of(kind EventKind) []Event {
	var out []Event
	for _, e := range l.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards all recorded events.
func (l *EventLog) Reset() { l.Events = nil }
