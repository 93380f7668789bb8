package fsm

import (
	"sync"

	"github.com/canopy-network/fundpolls/lib"
)

const defaultEventLogSize = 1000

// EventSinkI receives the events of committed operations; emitting never fails
type EventSinkI interface {
	Emit(e *lib.Event)
}

// EventCreated is the payload of a poll created event
type EventCreated struct {
	CreatedBy lib.HexBytes `json:"createdBy"`
	Start     uint64       `json:"start"`
	End       uint64       `json:"end"`
	Goal      uint64       `json:"goal"`
	Currency  PollCurrency `json:"currency"`
}

// EventVoted is the payload of a voted or vote removed event
type EventVoted struct {
	Votes Votes `json:"votes"`
}

// EventFinished is the payload of a poll finished event
type EventFinished struct {
	Status  PollStatus `json:"status"`
	Capital uint64     `json:"capital"`
}

// EventPollCreated() adds a poll created event
func (s *StateMachine) EventPollCreated(p *Poll) {
	s.emit(lib.EventTypePollCreated, p.Id, p.CreatedBy, 0, &EventCreated{
		CreatedBy: lib.HexBytes(p.CreatedBy),
		Start:     p.Status.Start,
		End:       p.Status.End,
		Goal:      p.Goal,
		Currency:  p.Currency,
	})
}

// EventPollCancelled() adds a poll cancelled event
func (s *StateMachine) EventPollCancelled(pollId uint64, by []byte) {
	s.emit(lib.EventTypePollCancelled, pollId, by, 0, nil)
}

// EventVoted() adds a voted event carrying the capital moved into the pot
func (s *StateMachine) EventVoted(pollId uint64, voter []byte, votes Votes) {
	s.emit(lib.EventTypeVoted, pollId, voter, votes.Capital(), &EventVoted{Votes: votes.Copy()})
}

// EventVoteRemoved() adds a vote removed event carrying the refunded capital
func (s *StateMachine) EventVoteRemoved(pollId uint64, voter []byte, votes Votes) {
	s.emit(lib.EventTypeVoteRemoved, pollId, voter, votes.Capital(), &EventVoted{Votes: votes.Copy()})
}

// EventCollected() adds a collected event carrying the amount paid out of the pot
func (s *StateMachine) EventCollected(pollId uint64, account []byte, amount uint64) {
	s.emit(lib.EventTypeCollected, pollId, account, amount, nil)
}

// EventPollFinished() adds a poll finished event carrying the terminal status
func (s *StateMachine) EventPollFinished(p *Poll) {
	s.emit(lib.EventTypePollFinished, p.Id, nil, 0, &EventFinished{Status: p.Status, Capital: p.Votes.Capital()})
}

var _ EventSinkI = &EventLog{}

// EventLog is a bounded in-memory sink of the most recent events
type EventLog struct {
	mux    sync.Mutex
	events lib.Events
	size   int
	log    lib.LoggerI
}

// NewEventLog() creates a sink that keeps the last 'size' events
func NewEventLog(size int, log lib.LoggerI) *EventLog {
	if size <= 0 {
		size = defaultEventLogSize
	}
	return &EventLog{size: size, log: log}
}

// Emit() records the event, dropping the oldest once full
func (l *EventLog) Emit(e *lib.Event) {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.log != nil {
		l.log.Debugf("event %s poll=%d height=%d amount=%d", e.EventType, e.PollId, e.Height, e.Amount)
	}
	l.events = append(l.events, e)
	if over := len(l.events) - l.size; over > 0 {
		l.events = append(lib.Events(nil), l.events[over:]...)
	}
}

// Recent() returns up to n of the latest events, oldest first; n <= 0 returns all of them
func (l *EventLog) Recent(n int) lib.Events {
	l.mux.Lock()
	defer l.mux.Unlock()
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	return append(lib.Events(nil), l.events[len(l.events)-n:]...)
}

// Events() exposes the default sink of the state machine, nil if a custom sink is set
func (s *StateMachine) Events() *EventLog {
	if l, ok := s.sink.(*EventLog); ok {
		return l
	}
	return nil
}
