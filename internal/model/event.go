// internal/model/event.go
package model

import (
	"time"

	"bee-counter/pkg/bitdecoder"
)

// EventType represents the type of event
type EventType string

const (
	EventState        EventType = "state"
	EventSessionEnded EventType = "session_ended"
)

// Session end reasons
const (
	ReasonStopped   = "stopped"
	ReasonReadFault = "read_fault"
)

// Event is what the reader publishes to subscribers
type Event struct {
	Type      EventType               `json:"type"`
	SessionID string                  `json:"session_id"`
	Seq       uint64                  `json:"seq"`
	Timestamp time.Time               `json:"timestamp"`
	Vector    *bitdecoder.StateVector `json:"vector,omitempty"`
	Value     *uint32                 `json:"value,omitempty"`
	Reason    string                  `json:"reason,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

// NewStateEvent creates a state event for one decoded record
func NewStateEvent(sessionID string, seq uint64, sv bitdecoder.StateVector) Event {
	value := sv.Encode()
	return Event{
		Type:      EventState,
		SessionID: sessionID,
		Seq:       seq,
		Timestamp: time.Now(),
		Vector:    &sv,
		Value:     &value,
	}
}

// NewSessionEndedEvent creates the final event of a session
func NewSessionEndedEvent(sessionID string, seq uint64, reason string, err error) Event {
	event := Event{
		Type:      EventSessionEnded,
		SessionID: sessionID,
		Seq:       seq,
		Timestamp: time.Now(),
		Reason:    reason,
	}
	if err != nil {
		event.Error = err.Error()
	}
	return event
}
