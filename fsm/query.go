package fsm

import (
	"fmt"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

/* This file contains the read only views of the polls module */

// PollDetails() returns the poll with the id; fails if it doesn't exist
func (s *StateMachine) PollDetails(id uint64) (*Poll, lib.ErrorI) { return s.GetPoll(id) }

// VotingRecord() returns the vote record of the account on the poll; nil if it never voted
func (s *StateMachine) VotingRecord(who crypto.AddressI, pollId uint64) (*AccountVotes, lib.ErrorI) {
	return s.GetAccountVotes(who, pollId)
}

// PotBalance() returns the amount held in custody in the currency
func (s *StateMachine) PotBalance(currency PollCurrency) (uint64, lib.ErrorI) {
	return s.ledger.BalanceOf(s.PotAddress(), currency)
}

// Polls() returns a page of the polls, newest first
func (s *StateMachine) Polls(p lib.PageParams) (*lib.Page, lib.ErrorI) { return s.GetPollsPaginated(p) }

// Balance() returns the free balance of the account
func (s *StateMachine) Balance(who crypto.AddressI, currency PollCurrency) (uint64, lib.ErrorI) {
	return s.ledger.BalanceOf(who, currency)
}

// Supply() returns the minted amount of the currency when the state ledger is in use
func (s *StateMachine) Supply(currency PollCurrency) (*Supply, lib.ErrorI) {
	l, ok := s.ledger.(*StateLedger)
	if !ok {
		return nil, ErrUnexpectedBehavior(fmt.Sprintf("ledger %T doesn't track supply", s.ledger))
	}
	return l.GetSupply(currency)
}

// PotInvariant is the result of comparing the pot to everything it owes
type PotInvariant struct {
	Currency    PollCurrency `json:"currency"`
	PotBalance  uint64       `json:"potBalance"`
	Outstanding uint64       `json:"outstanding"` // stakes of ongoing polls plus uncollected payouts of terminal polls
	Dust        uint64       `json:"dust"`        // pot balance in excess of the outstanding amount
	Holds       bool         `json:"holds"`
}

// CheckPotInvariant() sums the entitlements of every poll in the currency and compares them to the pot
func (s *StateMachine) CheckPotInvariant(currency PollCurrency) (*PotInvariant, lib.ErrorI) {
	polls, err := s.GetPolls()
	if err != nil {
		return nil, err
	}
	var outstanding uint64
	for _, p := range polls {
		if p.Currency != currency {
			continue
		}
		owed, e := s.outstanding(p)
		if e != nil {
			return nil, e
		}
		var ok bool
		if outstanding, ok = lib.SafeAdd(outstanding, owed); !ok {
			return nil, ErrArithmeticOverflow()
		}
	}
	pot, err := s.PotBalance(currency)
	if err != nil {
		return nil, err
	}
	return &PotInvariant{
		Currency:    currency,
		PotBalance:  pot,
		Outstanding: outstanding,
		Dust:        lib.SaturatingSub(pot, outstanding),
		Holds:       pot >= outstanding,
	}, nil
}

// outstanding() is what the pot still owes for the poll
func (s *StateMachine) outstanding(p *Poll) (owed uint64, err lib.ErrorI) {
	if p.Status.IsOngoing() {
		capital, ok := p.Votes.CheckedCapital()
		if !ok {
			return 0, ErrArithmeticOverflow()
		}
		return capital, nil
	}
	records, err := s.GetVotesForPoll(p.Id)
	if err != nil {
		return 0, err
	}
	var ok bool
	for _, r := range records {
		if r.Collected {
			continue
		}
		amount, e := p.VoterPayout(r.Votes)
		if e != nil {
			return 0, e
		}
		if owed, ok = lib.SafeAdd(owed, amount); !ok {
			return 0, ErrArithmeticOverflow()
		}
	}
	for _, b := range p.Beneficiaries {
		if b.Collected {
			continue
		}
		amount, e := p.BeneficiaryPayout(b)
		if e != nil {
			return 0, e
		}
		if owed, ok = lib.SafeAdd(owed, amount); !ok {
			return 0, ErrArithmeticOverflow()
		}
	}
	return
}
