package fsm

import (
	"encoding/json"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

const (
	MessageCreatePollName      = "create_poll"
	MessageVoteName            = "vote"
	MessageRemoveVoteName      = "remove_vote"
	MessageCollectName         = "collect"
	MessageEmergencyCancelName = "emergency_cancel"
	MessageEnactPollEndName    = "enact_poll_end"
)

// MessageI is a signed request to change the state of the polls module
type MessageI interface {
	// Name() is the type name used in the envelope
	Name() string
	// Check() is stateless validation of the message
	Check() lib.ErrorI
	// GetSigner() is the account the message acts for
	GetSigner() crypto.Address
}

// MessageResult is the output of an applied message
type MessageResult struct {
	PollId    uint64 `json:"pollId"`
	Collected uint64 `json:"collected,omitempty"`
}

// ApplyMessage() routes the MessageI to the correct `handler` based on its `type`
func (s *StateMachine) ApplyMessage(msg MessageI) (*MessageResult, lib.ErrorI) {
	if msg == nil {
		return nil, ErrInvalidMessage("empty message")
	}
	if err := msg.Check(); err != nil {
		return nil, err
	}
	switch x := msg.(type) {
	case *MessageCreatePoll:
		id, err := s.CreatePoll(x.Signer, x.PollParams)
		if err != nil {
			return nil, err
		}
		return &MessageResult{PollId: id}, nil
	case *MessageVote:
		return &MessageResult{PollId: x.PollId}, s.Vote(x.Signer, x.PollId, x.Votes)
	case *MessageRemoveVote:
		return &MessageResult{PollId: x.PollId}, s.RemoveVote(x.Signer, x.PollId)
	case *MessageCollect:
		amount, err := s.Collect(x.Signer, x.PollId)
		if err != nil {
			return nil, err
		}
		return &MessageResult{PollId: x.PollId, Collected: amount}, nil
	case *MessageEmergencyCancel:
		return &MessageResult{PollId: x.PollId}, s.EmergencyCancel(x.Signer, x.PollId)
	case *MessageEnactPollEnd:
		admin, err := s.GetAdmin()
		if err != nil {
			return nil, err
		}
		if admin == nil || !admin.Equals(x.Signer) {
			return nil, ErrUnauthorized()
		}
		return &MessageResult{PollId: x.PollId}, s.EnactPollEndEarly(x.PollId)
	default:
		return nil, ErrUnknownMessage(x)
	}
}

// GetAdmin() returns the root authority: the genesis admin, else the configured admin, else nil
func (s *StateMachine) GetAdmin() (crypto.Address, lib.ErrorI) {
	bz, err := s.Get(AdminKey())
	if err != nil {
		return nil, err
	}
	if bz != nil {
		return crypto.NewAddress(bz), nil
	}
	if len(s.Config.AdminAddress) != 0 {
		return crypto.NewAddress(s.Config.AdminAddress), nil
	}
	return nil, nil
}

var _ MessageI = &MessageCreatePoll{}

// MessageCreatePoll proposes a new poll
type MessageCreatePoll struct {
	Signer crypto.Address `json:"signer"`
	PollParams
}

func (x *MessageCreatePoll) Name() string              { return MessageCreatePollName }
func (x *MessageCreatePoll) GetSigner() crypto.Address { return x.Signer }
func (x *MessageCreatePoll) Check() lib.ErrorI {
	if err := checkSigner(x.Signer); err != nil {
		return err
	}
	if x.ContentReference == "" {
		return ErrInvalidMessage("content reference is empty")
	}
	return nil
}

var _ MessageI = &MessageVote{}

// MessageVote stakes on the options of a poll
type MessageVote struct {
	Signer crypto.Address `json:"signer"`
	PollId uint64         `json:"pollId"`
	Votes  Votes          `json:"votes"`
}

func (x *MessageVote) Name() string              { return MessageVoteName }
func (x *MessageVote) GetSigner() crypto.Address { return x.Signer }
func (x *MessageVote) Check() lib.ErrorI {
	if err := checkSigner(x.Signer); err != nil {
		return err
	}
	if len(x.Votes) == 0 {
		return ErrInvalidPollVotes()
	}
	return nil
}

var _ MessageI = &MessageRemoveVote{}

// MessageRemoveVote withdraws the vote record of the signer
type MessageRemoveVote struct {
	Signer crypto.Address `json:"signer"`
	PollId uint64         `json:"pollId"`
}

func (x *MessageRemoveVote) Name() string              { return MessageRemoveVoteName }
func (x *MessageRemoveVote) GetSigner() crypto.Address { return x.Signer }
func (x *MessageRemoveVote) Check() lib.ErrorI         { return checkSigner(x.Signer) }

var _ MessageI = &MessageCollect{}

// MessageCollect claims the payout of the signer from a terminal poll
type MessageCollect struct {
	Signer crypto.Address `json:"signer"`
	PollId uint64         `json:"pollId"`
}

func (x *MessageCollect) Name() string              { return MessageCollectName }
func (x *MessageCollect) GetSigner() crypto.Address { return x.Signer }
func (x *MessageCollect) Check() lib.ErrorI         { return checkSigner(x.Signer) }

var _ MessageI = &MessageEmergencyCancel{}

// MessageEmergencyCancel cancels an ongoing poll of the signer
type MessageEmergencyCancel struct {
	Signer crypto.Address `json:"signer"`
	PollId uint64         `json:"pollId"`
}

func (x *MessageEmergencyCancel) Name() string              { return MessageEmergencyCancelName }
func (x *MessageEmergencyCancel) GetSigner() crypto.Address { return x.Signer }
func (x *MessageEmergencyCancel) Check() lib.ErrorI         { return checkSigner(x.Signer) }

var _ MessageI = &MessageEnactPollEnd{}

// MessageEnactPollEnd settles a poll ahead of the scheduler; root authority only
type MessageEnactPollEnd struct {
	Signer crypto.Address `json:"signer"`
	PollId uint64         `json:"pollId"`
}

func (x *MessageEnactPollEnd) Name() string              { return MessageEnactPollEndName }
func (x *MessageEnactPollEnd) GetSigner() crypto.Address { return x.Signer }
func (x *MessageEnactPollEnd) Check() lib.ErrorI         { return checkSigner(x.Signer) }

func checkSigner(signer crypto.Address) lib.ErrorI {
	if len(signer) != crypto.AddressSize {
		return ErrInvalidMessage("signer must be a 20 byte address")
	}
	return nil
}

// MessageEnvelope is the JSON wire form of a message: {"type": "<name>", "msg": {...}}
type MessageEnvelope struct {
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// NewMessageEnvelope() wraps the message for the wire
func NewMessageEnvelope(msg MessageI) (*MessageEnvelope, lib.ErrorI) {
	bz, err := lib.MarshalJSON(msg)
	if err != nil {
		return nil, err
	}
	return &MessageEnvelope{Type: msg.Name(), Msg: bz}, nil
}

// Message() decodes the payload into the concrete message of the envelope type
func (e *MessageEnvelope) Message() (MessageI, lib.ErrorI) {
	var msg MessageI
	switch e.Type {
	case MessageCreatePollName:
		msg = new(MessageCreatePoll)
	case MessageVoteName:
		msg = new(MessageVote)
	case MessageRemoveVoteName:
		msg = new(MessageRemoveVote)
	case MessageCollectName:
		msg = new(MessageCollect)
	case MessageEmergencyCancelName:
		msg = new(MessageEmergencyCancel)
	case MessageEnactPollEndName:
		msg = new(MessageEnactPollEnd)
	default:
		return nil, ErrUnknownMessageName(e.Type)
	}
	if len(e.Msg) == 0 {
		return nil, ErrInvalidMessage("payload is empty")
	}
	if err := lib.UnmarshalJSON(e.Msg, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
