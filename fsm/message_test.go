package fsm

import (
	"encoding/hex"
	"testing"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	pk, err := crypto.NewEd25519PrivateKey()
	require.NoError(t, err)
	address := newTestAddress(t)
	tests := []struct {
		name     string
		detail   string
		raw      string
		expected crypto.Address
		error    lib.ErrorI
	}{
		{
			name:     "address",
			detail:   "a 20 byte hex address resolves to itself",
			raw:      address.String(),
			expected: address,
		},
		{
			name:     "prefixed address",
			detail:   "a 0x prefix is accepted",
			raw:      "0x" + address.String(),
			expected: address,
		},
		{
			name:     "public key",
			detail:   "a 32 byte ed25519 public key resolves to its address",
			raw:      pk.PublicKey().String(),
			expected: crypto.NewAddress(pk.PublicKey().Address().Bytes()),
		},
		{
			name:   "wrong size",
			detail: "other sizes are rejected",
			raw:    hex.EncodeToString([]byte{1, 2, 3}),
			error:  ErrInvalidAccount("010203"),
		},
		{
			name:   "not hex",
			detail: "non hex input is rejected",
			raw:    "zz",
			error:  ErrInvalidAccount("zz"),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := NewResolver().Resolve(test.raw)
			if test.error != nil {
				require.Equal(t, test.error, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expected, got)
		})
	}
}

func TestMessageEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		msg    MessageI
	}{
		{
			name:   "create poll",
			detail: "the poll parameters are flattened into the message",
			msg: &MessageCreatePoll{Signer: newTestAddress(t), PollParams: PollParams{
				ContentReference: testContentReference,
				Beneficiaries:    []RawBeneficiary{{Address: newTestAddress(t, 1).String(), Interest: 10}},
				Goal:             10,
				OptionsCount:     2,
				Currency:         AssetCurrency(1),
				Start:            1,
				End:              2,
			}},
		},
		{name: "vote", detail: "a vote", msg: &MessageVote{Signer: newTestAddress(t), PollId: 1, Votes: Votes{1, 0}}},
		{name: "remove vote", detail: "a vote removal", msg: &MessageRemoveVote{Signer: newTestAddress(t), PollId: 1}},
		{name: "collect", detail: "a collection", msg: &MessageCollect{Signer: newTestAddress(t), PollId: 1}},
		{name: "cancel", detail: "a cancellation", msg: &MessageEmergencyCancel{Signer: newTestAddress(t), PollId: 1}},
		{name: "enact", detail: "a manual end", msg: &MessageEnactPollEnd{Signer: newTestAddress(t), PollId: 1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			envelope, err := NewMessageEnvelope(test.msg)
			require.NoError(t, err)
			bz, err := lib.MarshalJSON(envelope)
			require.NoError(t, err)
			decoded := new(MessageEnvelope)
			require.NoError(t, lib.UnmarshalJSON(bz, decoded))
			require.Equal(t, test.msg.Name(), decoded.Type)
			got, err := decoded.Message()
			require.NoError(t, err)
			require.Equal(t, test.msg, got)
		})
	}
	_, err := (&MessageEnvelope{Type: "send", Msg: []byte("{}")}).Message()
	require.Equal(t, ErrUnknownMessageName("send"), err)
}

func TestApplyMessage(t *testing.T) {
	sm := newTestStateMachine(t)
	creator, voter, admin := newTestAddress(t), newTestAddress(t, 1), newTestAddress(t, 9)
	sm.Config.AdminAddress = lib.HexBytes(admin)
	fund(t, sm, voter, NativeCurrency(), 10)
	// a signer must be an address
	_, err := sm.ApplyMessage(&MessageVote{Signer: crypto.Address{1}, Votes: Votes{1}})
	require.Equal(t, ErrInvalidMessage("signer must be a 20 byte address"), err)
	result, err := sm.ApplyMessage(&MessageCreatePoll{Signer: creator, PollParams: testPollParams(5, 2, 1, 10)})
	require.NoError(t, err)
	require.Zero(t, result.PollId)
	_, err = sm.ApplyMessage(&MessageVote{Signer: voter, PollId: result.PollId, Votes: Votes{0, 10}})
	require.NoError(t, err)
	// only the root authority may end a poll early
	_, err = sm.ApplyMessage(&MessageEnactPollEnd{Signer: creator, PollId: result.PollId})
	require.Equal(t, ErrUnauthorized(), err)
	_, err = sm.ApplyMessage(&MessageEnactPollEnd{Signer: admin, PollId: result.PollId})
	require.NoError(t, err)
	p, err := sm.PollDetails(result.PollId)
	require.NoError(t, err)
	require.Equal(t, Finished(1, 10), p.Status)
	// the scheduled end is dropped with the early settlement
	due, err := sm.Scheduler().(*StateScheduler).Due(10)
	require.NoError(t, err)
	require.Empty(t, due)
	_, err = sm.ApplyMessage(&MessageEnactPollEnd{Signer: admin, PollId: result.PollId})
	require.Equal(t, ErrPollAlreadyFinished(), err)
	// the voter pays no beneficiary so collects the whole stake
	result, err = sm.ApplyMessage(&MessageCollect{Signer: voter, PollId: result.PollId})
	require.NoError(t, err)
	require.EqualValues(t, 10, result.Collected)
}
