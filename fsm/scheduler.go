package fsm

import (
	"encoding/binary"

	"github.com/canopy-network/fundpolls/lib"
)

// SchedulerI is the deferred execution collaborator: it remembers which poll end is due at which height
type SchedulerI interface {
	// ScheduleOnce() registers a unique task due at the height; fails if the key exists or the height passed
	ScheduleOnce(key []byte, at, pollId uint64) lib.ErrorI
	// Cancel() removes the task; fails if no such task exists
	Cancel(key []byte) lib.ErrorI
	// PopDue() removes and returns every task due at the height
	PopDue(height uint64) ([]*Task, lib.ErrorI)
}

// Task is a scheduled poll end
type Task struct {
	Key    lib.HexBytes `json:"key"`
	Height uint64       `json:"height"`
	PollId uint64       `json:"pollId"`
}

var _ SchedulerI = &StateScheduler{}

// StateScheduler keeps the agenda in the state machine store
// agenda/<height>/<key> -> poll id and lookup/<key> -> height
type StateScheduler struct{ s *StateMachine }

// NewStateScheduler() creates a scheduler backed by the state of the state machine
func NewStateScheduler(s *StateMachine) *StateScheduler { return &StateScheduler{s: s} }

// ScheduleOnce() registers a poll end at a future height
func (sc *StateScheduler) ScheduleOnce(key []byte, at, pollId uint64) lib.ErrorI {
	if now := sc.s.Height(); at <= now {
		return ErrTaskInPast(at, now)
	}
	_, found, err := sc.lookup(key)
	if err != nil {
		return err
	}
	if found {
		return ErrTaskExists(key)
	}
	if err = sc.s.Set(KeyForAgenda(at, key), formatUint64(pollId)); err != nil {
		return err
	}
	return sc.s.Set(KeyForLookup(key), formatUint64(at))
}

// Cancel() removes a registered task from the agenda
func (sc *StateScheduler) Cancel(key []byte) lib.ErrorI {
	at, found, err := sc.lookup(key)
	if err != nil {
		return err
	}
	if !found {
		return ErrTaskNotFound(key)
	}
	return sc.s.DeleteAll([][]byte{KeyForAgenda(at, key), KeyForLookup(key)})
}

// PopDue() removes and returns the tasks of the height in key order
func (sc *StateScheduler) PopDue(height uint64) (tasks []*Task, err lib.ErrorI) {
	if tasks, err = sc.Due(height); err != nil {
		return nil, err
	}
	// the iterator is closed; deletions are safe now
	for _, t := range tasks {
		if err = sc.s.DeleteAll([][]byte{KeyForAgenda(height, t.Key), KeyForLookup(t.Key)}); err != nil {
			return nil, err
		}
	}
	return
}

// Due() lists the tasks of the height without removing them
func (sc *StateScheduler) Due(height uint64) (tasks []*Task, err lib.ErrorI) {
	err = sc.s.IterateAndExecute(AgendaPrefix(height), func(k, v []byte) lib.ErrorI {
		segments, e := lib.DecodeLengthPrefixed(k)
		if e != nil || len(segments) != 3 || len(v) != 8 {
			return ErrInvalidKey(k)
		}
		tasks = append(tasks, &Task{Key: segments[2], Height: height, PollId: binary.BigEndian.Uint64(v)})
		return nil
	})
	return
}

// lookup() returns the height of a registered task
func (sc *StateScheduler) lookup(key []byte) (height uint64, found bool, err lib.ErrorI) {
	bz, err := sc.s.Get(KeyForLookup(key))
	if err != nil || bz == nil {
		return 0, false, err
	}
	if len(bz) != 8 {
		return 0, false, ErrInvalidKey(KeyForLookup(key))
	}
	return binary.BigEndian.Uint64(bz), true, nil
}
