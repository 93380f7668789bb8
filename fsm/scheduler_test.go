package fsm

import (
	"testing"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/stretchr/testify/require"
)

func TestScheduleOnce(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		existing []uint64
		at       uint64
		error    lib.ErrorI
	}{
		{
			name:   "future height",
			detail: "a task in the future is scheduled",
			at:     5,
		},
		{
			name:   "current height",
			detail: "a task at the current height would never run",
			at:     1,
			error:  ErrTaskInPast(1, 1),
		},
		{
			name:     "duplicate key",
			detail:   "a key is scheduled at most once, even at another height",
			existing: []uint64{7},
			at:       5,
			error:    ErrTaskExists(TaskKey("fpolls", 0)),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := newTestStateMachine(t)
			sc := NewStateScheduler(sm)
			key := TaskKey(sm.Config.ModuleTag, 0)
			for _, at := range test.existing {
				require.NoError(t, sc.ScheduleOnce(key, at, 0))
			}
			err := sc.ScheduleOnce(key, test.at, 0)
			if test.error != nil {
				require.Equal(t, test.error, err)
				return
			}
			require.NoError(t, err)
			due, err := sc.Due(test.at)
			require.NoError(t, err)
			require.Equal(t, []*Task{{Key: key, Height: test.at, PollId: 0}}, due)
		})
	}
}

func TestSchedulerCancelAndPop(t *testing.T) {
	sm := newTestStateMachine(t)
	sc := NewStateScheduler(sm)
	for id := uint64(0); id < 3; id++ {
		require.NoError(t, sc.ScheduleOnce(TaskKey("fpolls", id), 5, id))
	}
	require.NoError(t, sc.ScheduleOnce(TaskKey("fpolls", 3), 6, 3))
	// cancel removes the task
	require.NoError(t, sc.Cancel(TaskKey("fpolls", 1)))
	require.Equal(t, ErrTaskNotFound(TaskKey("fpolls", 1)), sc.Cancel(TaskKey("fpolls", 1)))
	// pop returns what's due in key order and drains the height
	tasks, err := sc.PopDue(5)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.EqualValues(t, 0, tasks[0].PollId)
	require.EqualValues(t, 2, tasks[1].PollId)
	tasks, err = sc.PopDue(5)
	require.NoError(t, err)
	require.Empty(t, tasks)
	// other heights are untouched
	tasks, err = sc.Due(6)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	// a popped key may be scheduled again
	sm.SetHeight(5)
	require.NoError(t, sc.ScheduleOnce(TaskKey("fpolls", 0), 8, 0))
}

func TestTaskKeyUnique(t *testing.T) {
	require.NotEqual(t, TaskKey("fpolls", 1), TaskKey("fpolls", 2))
	require.NotEqual(t, TaskKey("fpolls", 1), TaskKey("other", 1))
}
