package fsm

import (
	"encoding/json"
	"fmt"
)

// StatusKind is the state of the poll lifecycle
// Ongoing -> {Cancelled, Finished, Failed}; terminal states never change
type StatusKind string

const (
	StatusOngoing   StatusKind = "ongoing"
	StatusCancelled StatusKind = "cancelled"
	StatusFinished  StatusKind = "finished"
	StatusFailed    StatusKind = "failed"
)

// PollStatus is the lifecycle state of a poll with the heights relevant to that state
type PollStatus struct {
	Kind          StatusKind `msgpack:"kind"`
	Start         uint64     `msgpack:"start"`         // ongoing
	End           uint64     `msgpack:"end"`           // ongoing, finished, failed
	At            uint64     `msgpack:"at"`            // cancelled
	WinningOption uint8      `msgpack:"winningOption"` // finished
}

func Ongoing(start, end uint64) PollStatus { return PollStatus{Kind: StatusOngoing, Start: start, End: end} }
func Cancelled(at uint64) PollStatus       { return PollStatus{Kind: StatusCancelled, At: at} }
func Failed(end uint64) PollStatus         { return PollStatus{Kind: StatusFailed, End: end} }
func Finished(winningOption uint8, end uint64) PollStatus {
	return PollStatus{Kind: StatusFinished, WinningOption: winningOption, End: end}
}

func (s PollStatus) IsOngoing() bool  { return s.Kind == StatusOngoing }
func (s PollStatus) IsTerminal() bool { return !s.IsOngoing() }

// String() is a short human readable form of the status
func (s PollStatus) String() string {
	switch s.Kind {
	case StatusOngoing:
		return fmt.Sprintf("ongoing(start=%d, end=%d)", s.Start, s.End)
	case StatusCancelled:
		return fmt.Sprintf("cancelled(at=%d)", s.At)
	case StatusFinished:
		return fmt.Sprintf("finished(winningOption=%d, end=%d)", s.WinningOption, s.End)
	case StatusFailed:
		return fmt.Sprintf("failed(end=%d)", s.End)
	}
	return string(s.Kind)
}

// pollStatusJSON only carries the fields relevant to the kind
type pollStatusJSON struct {
	Kind          StatusKind `json:"kind"`
	Start         *uint64    `json:"start,omitempty"`
	End           *uint64    `json:"end,omitempty"`
	At            *uint64    `json:"at,omitempty"`
	WinningOption *uint8     `json:"winningOption,omitempty"`
}

// MarshalJSON() implements the json.Marshaller interface for PollStatus
func (s PollStatus) MarshalJSON() ([]byte, error) {
	j := pollStatusJSON{Kind: s.Kind}
	switch s.Kind {
	case StatusOngoing:
		j.Start, j.End = &s.Start, &s.End
	case StatusCancelled:
		j.At = &s.At
	case StatusFinished:
		j.WinningOption, j.End = &s.WinningOption, &s.End
	case StatusFailed:
		j.End = &s.End
	}
	return json.Marshal(j)
}

// UnmarshalJSON() implements the json.Unmarshaler interface for PollStatus
func (s *PollStatus) UnmarshalJSON(b []byte) error {
	j := new(pollStatusJSON)
	if err := json.Unmarshal(b, j); err != nil {
		return err
	}
	*s = PollStatus{Kind: j.Kind}
	if j.Start != nil {
		s.Start = *j.Start
	}
	if j.End != nil {
		s.End = *j.End
	}
	if j.At != nil {
		s.At = *j.At
	}
	if j.WinningOption != nil {
		s.WinningOption = *j.WinningOption
	}
	return nil
}
