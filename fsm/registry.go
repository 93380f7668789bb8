package fsm

import (
	"encoding/binary"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

/* This file contains the persistence of polls, vote records and the poll index */

// GetPoll() returns the poll with the id; fails if it doesn't exist
func (s *StateMachine) GetPoll(id uint64) (*Poll, lib.ErrorI) {
	bz, err := s.Get(KeyForPoll(id))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, ErrPollInvalid()
	}
	p := new(Poll)
	if err = lib.Unmarshal(bz, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPoll() upserts the poll
func (s *StateMachine) SetPoll(p *Poll) lib.ErrorI {
	bz, err := lib.Marshal(p)
	if err != nil {
		return err
	}
	return s.Set(KeyForPoll(p.Id), bz)
}

// GetPolls() returns every poll in id order
// NOTE: polls are collected before the caller may iterate again
func (s *StateMachine) GetPolls() (polls []*Poll, err lib.ErrorI) {
	err = s.IterateAndExecute(PollPrefix(), func(_, value []byte) lib.ErrorI {
		p := new(Poll)
		if e := lib.Unmarshal(value, p); e != nil {
			return e
		}
		polls = append(polls, p)
		return nil
	})
	return
}

// GetPollsPaginated() returns a page of polls, newest first
func (s *StateMachine) GetPollsPaginated(p lib.PageParams) (*lib.Page, lib.ErrorI) {
	page, res := lib.NewPage(p), make([]*Poll, 0)
	err := page.Load(PollPrefix(), true, s.Store(), func(_, value []byte) lib.ErrorI {
		poll := new(Poll)
		if err := lib.Unmarshal(value, poll); err != nil {
			return err
		}
		res = append(res, poll)
		return nil
	})
	page.Results = res
	return page, err
}

// GetAccountVotes() returns the vote record of the account on the poll; nil if it doesn't exist
func (s *StateMachine) GetAccountVotes(address crypto.AddressI, pollId uint64) (*AccountVotes, lib.ErrorI) {
	bz, err := s.Get(KeyForAccountVotes(address, pollId))
	if err != nil || bz == nil {
		return nil, err
	}
	av := new(AccountVotes)
	if err = lib.Unmarshal(bz, av); err != nil {
		return nil, err
	}
	return av, nil
}

// SetAccountVotes() upserts the vote record of the account on the poll
func (s *StateMachine) SetAccountVotes(address crypto.AddressI, pollId uint64, av *AccountVotes) lib.ErrorI {
	bz, err := lib.Marshal(av)
	if err != nil {
		return err
	}
	return s.Set(KeyForAccountVotes(address, pollId), bz)
}

// DeleteAccountVotes() removes the vote record of the account on the poll
func (s *StateMachine) DeleteAccountVotes(address crypto.AddressI, pollId uint64) lib.ErrorI {
	return s.Delete(KeyForAccountVotes(address, pollId))
}

// VoteRecord is a vote record with the account it belongs to
type VoteRecord struct {
	Address crypto.Address `json:"address"`
	*AccountVotes
}

// GetVotesForPoll() returns every vote record of the poll in address order
func (s *StateMachine) GetVotesForPoll(pollId uint64) (records []*VoteRecord, err lib.ErrorI) {
	err = s.IterateAndExecute(VotesPrefix(pollId), func(key, value []byte) lib.ErrorI {
		segments, e := lib.DecodeLengthPrefixed(key)
		if e != nil || len(segments) != 3 {
			return ErrInvalidKey(key)
		}
		av := new(AccountVotes)
		if e = lib.Unmarshal(value, av); e != nil {
			return e
		}
		records = append(records, &VoteRecord{Address: crypto.NewAddress(segments[2]), AccountVotes: av})
		return nil
	})
	return
}

// PollCount() returns the next poll index, which is also the number of polls ever created
func (s *StateMachine) PollCount() (uint64, lib.ErrorI) {
	bz, err := s.Get(PollCountKey())
	if err != nil || bz == nil {
		return 0, err
	}
	if len(bz) != 8 {
		return 0, ErrInvalidKey(PollCountKey())
	}
	return binary.BigEndian.Uint64(bz), nil
}

// NextPollIndex() reserves and returns the next poll id; ids are never reused
func (s *StateMachine) NextPollIndex() (uint64, lib.ErrorI) {
	id, err := s.PollCount()
	if err != nil {
		return 0, err
	}
	next, ok := lib.SafeAdd(id, 1)
	if !ok {
		return 0, ErrArithmeticOverflow()
	}
	if err = s.Set(PollCountKey(), formatUint64(next)); err != nil {
		return 0, err
	}
	return id, nil
}
