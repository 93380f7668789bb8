package controller

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var testContentReference = "Qm" + strings.Repeat("a", fsm.CIDv0Length-2)

func newTestController(t *testing.T, admin crypto.Address) *Controller {
	c := lib.DefaultConfig()
	c.DataDirPath, c.InMemory, c.BlockTimeMS = t.TempDir(), true, 10
	require.NoError(t, fsm.WriteGenesisFile(fsm.DefaultGenesis(admin), c.DataDirPath))
	controller, err := New(c, lib.NewMetricsServer(lib.DefaultMetricsConfig(), lib.NewNullLogger()), lib.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(controller.Stop)
	return controller
}

func TestControllerPollLifecycle(t *testing.T) {
	admin := crypto.NewModuleAddress("test", "admin")
	c := newTestController(t, admin)
	require.EqualValues(t, 1, c.Height())
	// the poll runs from height 1 to 3
	result, err := c.SubmitMessage(&fsm.MessageCreatePoll{Signer: admin, PollParams: fsm.PollParams{
		ContentReference: testContentReference,
		Goal:             100,
		OptionsCount:     2,
		Currency:         fsm.NativeCurrency(),
		Start:            1,
		End:              3,
	}})
	require.NoError(t, err)
	pollId := result.PollId
	_, err = c.SubmitMessage(&fsm.MessageVote{Signer: admin, PollId: pollId, Votes: fsm.Votes{0, 150}})
	require.NoError(t, err)
	// a rejected message leaves no trace
	_, err = c.SubmitMessage(&fsm.MessageVote{Signer: admin, PollId: pollId, Votes: fsm.Votes{0, 1}})
	require.Equal(t, fsm.ErrMultipleVotesNotAllowed(), err)
	require.NoError(t, c.ProduceHeight())
	require.NoError(t, c.ProduceHeight())
	require.EqualValues(t, 3, c.Height())
	// the scheduler ended the poll at height 3
	require.NoError(t, c.ReadOnly(func(sm *fsm.StateMachine) lib.ErrorI {
		p, e := sm.PollDetails(pollId)
		require.NoError(t, e)
		require.Equal(t, fsm.Finished(1, 3), p.Status)
		pot, e := sm.PotBalance(fsm.NativeCurrency())
		require.NoError(t, e)
		require.EqualValues(t, 150, pot)
		return nil
	}))
	result, err = c.SubmitMessage(&fsm.MessageCollect{Signer: admin, PollId: pollId})
	require.NoError(t, err)
	require.EqualValues(t, 150, result.Collected)
	types := make([]lib.EventType, 0)
	for _, e := range c.Events(0) {
		types = append(types, e.EventType)
	}
	require.Equal(t, []lib.EventType{lib.EventTypePollCreated, lib.EventTypeVoted, lib.EventTypePollFinished,
		lib.EventTypeCollected}, types)
	// telemetry follows the applied and rejected messages
	require.EqualValues(t, 1, testutil.ToFloat64(c.Metrics.MessagesApplied.WithLabelValues(fsm.MessageVoteName)))
	require.EqualValues(t, 1, testutil.ToFloat64(c.Metrics.MessagesFailed.WithLabelValues(fsm.MessageVoteName,
		string(lib.PollsModule), strconv.FormatUint(uint64(lib.CodeMultipleVotesNotAllowed), 10))))
	require.EqualValues(t, 3, testutil.ToFloat64(c.Metrics.Height))
}

func TestControllerReadOnlyDiscardsWrites(t *testing.T) {
	c := newTestController(t, crypto.NewModuleAddress("test", "admin"))
	require.NoError(t, c.ReadOnly(func(sm *fsm.StateMachine) lib.ErrorI {
		return sm.Set([]byte("key"), []byte("value"))
	}))
	require.NoError(t, c.ReadOnly(func(sm *fsm.StateMachine) lib.ErrorI {
		value, err := sm.Get([]byte("key"))
		require.NoError(t, err)
		require.Nil(t, value)
		return nil
	}))
}

func TestControllerStart(t *testing.T) {
	c := newTestController(t, crypto.NewModuleAddress("test", "admin"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan lib.ErrorI)
	go func() { done <- c.Start(ctx) }()
	require.Eventually(t, func() bool { return c.Height() >= 3 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestControllerStopped(t *testing.T) {
	admin := crypto.NewModuleAddress("test", "admin")
	c := newTestController(t, admin)
	c.Stop()
	_, err := c.SubmitMessage(&fsm.MessageCollect{Signer: admin})
	require.Equal(t, lib.ErrNodeStopped(), err)
	require.Equal(t, lib.ErrNodeStopped(), c.ProduceHeight())
	require.Equal(t, lib.ErrNodeStopped(), c.ReadOnly(func(*fsm.StateMachine) lib.ErrorI { return nil }))
}
