package lib

type EventType string

const (
	EventStageBeginBlock = "begin_block"

	EventTypePollCreated   EventType = "created"
	EventTypePollCancelled EventType = "cancelled"
	EventTypeVoted         EventType = "voted"
	EventTypeVoteRemoved   EventType = "vote-removed"
	EventTypeCollected     EventType = "collected"
	EventTypePollFinished  EventType = "finished"
)

// Event is a notification of a committed polls operation
type Event struct {
	EventType EventType `json:"eventType"`
	Height    uint64    `json:"height"`
	Reference string    `json:"reference,omitempty"` // the message type or 'begin_block'
	Address   HexBytes  `json:"address,omitempty"`   // the account that caused the event
	PollId    uint64    `json:"pollId"`
	Amount    uint64    `json:"amount,omitempty"` // capital voted, refunded or collected
	Msg       any       `json:"msg,omitempty"`    // type specific payload
}

type Events []*Event

// EventsTracker buffers the events of a single operation until it commits
type EventsTracker struct {
	Reference string // the message type / 'begin_block' -> reference for events
	Events    Events // the actual events
}

// Add() adds an event to the tracker
func (t *EventsTracker) Add(event *Event) {
	if t == nil {
		return
	}
	t.Events = append(t.Events, event)
}

// Refer() sets a reference string for the event tracker
func (t *EventsTracker) Refer(s string) {
	if t == nil {
		return
	}
	t.Reference = s
}

// GetReference() is an accessor for the reference string
func (t *EventsTracker) GetReference() string {
	if t == nil {
		return ""
	}
	return t.Reference
}

// Reset() resets the event tracker and returns the captured events
func (t *EventsTracker) Reset() (e Events) {
	if t == nil {
		return
	}
	e = t.Events
	t.Events, t.Reference = nil, ""
	return
}
