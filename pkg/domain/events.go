package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventTurn          EventType = "turn"
	EventRoundComplete EventType = "round_complete"
	EventRunComplete   EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RunEvent marks the start of a run.
type RunEvent struct {
	EventBase
	Agents   int   `json:"agents"`
	Rounds   int   `json:"rounds"`
	Dampener int64 `json:"dampener"`
	Modulus  int64 `json:"modulus"`
}

// TurnEvent reports one agent's turn. Inspected is zero for a no-op turn.
type TurnEvent struct {
	EventBase
	Round     int `json:"round"`
	AgentID   int `json:"agent_id"`
	Inspected int `json:"inspected"`
	ToTrue    int `json:"to_true"`
	ToFalse   int `json:"to_false"`
}

// RoundEvent reports the counters at a round boundary.
type RoundEvent struct {
	EventBase
	Round       int     `json:"round"`
	Inspections []int64 `json:"inspections"`
	Items       int     `json:"items"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the simulation goroutine and must not retain slices.
type LifecycleHooks struct {
	OnRunStart      func(*RunEvent)
	OnTurn          func(*TurnEvent)
	OnRoundComplete func(*RoundEvent)
	OnRunComplete   func(*Result)
}
