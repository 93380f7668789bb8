package rpc

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/canopy-network/fundpolls/controller"
	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
	"github.com/stretchr/testify/require"
)

var testContentReference = "Qm" + strings.Repeat("a", fsm.CIDv0Length-2)

// newTestServer() starts the rpc of an in memory node whose genesis funds and empowers the admin
func newTestServer(t *testing.T, admin crypto.Address) (*controller.Controller, *Client) {
	c := lib.DefaultConfig()
	c.DataDirPath, c.InMemory, c.MaxRequestBytes = t.TempDir(), true, 4096
	require.NoError(t, fsm.WriteGenesisFile(fsm.DefaultGenesis(admin), c.DataDirPath))
	node, err := controller.New(c, nil, lib.NewNullLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(NewServer(node, c, lib.NewNullLogger()).Handler())
	t.Cleanup(func() { ts.Close(); node.Stop() })
	return node, NewClient(ts.URL, "").WithMaxRetries(0)
}

func TestServerPollFlow(t *testing.T) {
	admin := crypto.NewModuleAddress("test", "admin")
	node, client := newTestServer(t, admin)
	version, err := client.Version()
	require.NoError(t, err)
	require.Equal(t, SoftwareVersion, *version)
	height, err := client.Height()
	require.NoError(t, err)
	require.EqualValues(t, 1, *height)
	// create and vote over the wire
	result, err := client.Transaction(&fsm.MessageCreatePoll{Signer: admin, PollParams: fsm.PollParams{
		ContentReference: testContentReference,
		Goal:             10,
		OptionsCount:     2,
		Currency:         fsm.NativeCurrency(),
		Start:            1,
		End:              2,
	}})
	require.NoError(t, err)
	_, err = client.Transaction(&fsm.MessageVote{Signer: admin, PollId: result.PollId, Votes: fsm.Votes{25, 0}})
	require.NoError(t, err)
	count, err := client.PollCount()
	require.NoError(t, err)
	require.EqualValues(t, 1, *count)
	p, err := client.Poll(result.PollId)
	require.NoError(t, err)
	require.Equal(t, fsm.Votes{25, 0}, p.Votes)
	require.Equal(t, fsm.Ongoing(1, 2), p.Status)
	page, err := client.Polls(lib.PageParams{PageNumber: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	require.Equal(t, result.PollId, page.Results[0].Id)
	record, err := client.VotingRecord(admin.String(), result.PollId)
	require.NoError(t, err)
	require.Equal(t, fsm.Votes{25, 0}, record.Votes)
	// an account that never voted has no record
	record, err = client.VotingRecord(crypto.NewModuleAddress("test", "other").String(), result.PollId)
	require.NoError(t, err)
	require.Nil(t, record)
	pot, err := client.Pot(fsm.NativeCurrency())
	require.NoError(t, err)
	require.EqualValues(t, 25, pot.Amount)
	balance, err := client.Balance(admin.String(), fsm.NativeCurrency())
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000_000-25, balance.Amount)
	supply, err := client.Supply(fsm.NativeCurrency())
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000_000, supply.Total)
	// the poll ends at height 2
	require.NoError(t, node.ProduceHeight())
	invariant, err := client.Invariant(fsm.NativeCurrency())
	require.NoError(t, err)
	require.True(t, invariant.Holds)
	require.EqualValues(t, 25, invariant.Outstanding)
	events, err := client.Events(2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, lib.EventTypeVoted, events[0].EventType)
	require.Equal(t, lib.EventTypePollFinished, events[1].EventType)
}

func TestServerErrors(t *testing.T) {
	admin := crypto.NewModuleAddress("test", "admin")
	_, client := newTestServer(t, admin)
	// state machine errors travel with their module and code
	_, err := client.Poll(7)
	require.Equal(t, fsm.ErrPollInvalid(), err)
	_, err = client.Transaction(&fsm.MessageRemoveVote{Signer: admin, PollId: 7})
	require.Equal(t, fsm.ErrPollInvalid(), err)
	_, err = client.Balance("not an address", fsm.NativeCurrency())
	require.Equal(t, fsm.ErrInvalidAccount("not an address"), err)
	// unreachable nodes fail without a response
	_, err = NewClient("http://127.0.0.1:1", "").WithMaxRetries(1).Height()
	require.Equal(t, lib.CodePostRequest, err.Code())
}

func TestClientRetries(t *testing.T) {
	// the node receives every request and drops the connection before answering
	var hits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
			_ = conn.Close()
		}
	}))
	defer ts.Close()
	client := NewClient(ts.URL, "").WithMaxRetries(2)
	tests := []struct {
		name     string
		detail   string
		call     func() lib.ErrorI
		expected int64
	}{
		{
			name:   "transaction",
			detail: "a delivered transaction may have been applied and is never sent twice",
			call: func() lib.ErrorI {
				_, err := client.Transaction(&fsm.MessageCollect{Signer: crypto.NewModuleAddress("test", "voter"), PollId: 1})
				return err
			},
			expected: 1,
		},
		{
			name:   "query",
			detail: "queries are retried on any transport failure",
			call: func() lib.ErrorI {
				_, err := client.Height()
				return err
			},
			expected: 3,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hits.Store(0)
			err := test.call()
			require.Equal(t, lib.CodePostRequest, err.Code())
			require.Equal(t, test.expected, hits.Load())
		})
	}
	// a transaction that can't be dialed is retried
	require.True(t, isDialError(func() error {
		_, err := http.Post("http://127.0.0.1:1", ApplicationJSON, nil)
		return err
	}()))
}

func TestServerRequestLimits(t *testing.T) {
	_, client := newTestServer(t, crypto.NewModuleAddress("test", "admin"))
	tests := []struct {
		name   string
		detail string
		body   []byte
		code   lib.ErrorCode
	}{
		{
			name:   "malformed",
			detail: "the body must be json",
			body:   []byte("{"),
			code:   lib.CodeInvalidParams,
		},
		{
			name:   "too large",
			detail: "bodies over the configured size are rejected",
			body:   bytes.Repeat([]byte(" "), 5000),
			code:   lib.CodeInvalidParams,
		},
		{
			name:   "unknown message",
			detail: "the envelope type must name a message",
			body:   []byte(`{"type":"send","msg":{}}`),
			code:   lib.CodeUnknownMessage,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp, e := http.Post(client.url(TxRouteName), ApplicationJSON, bytes.NewReader(test.body))
			require.NoError(t, e)
			err := client.unmarshal(resp, new(fsm.MessageResult))
			require.Error(t, err)
			require.Equal(t, test.code, err.Code())
		})
	}
}
