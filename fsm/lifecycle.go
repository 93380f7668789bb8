package fsm

import (
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

// RawBeneficiary is a beneficiary before its account is resolved
type RawBeneficiary struct {
	Address  string `json:"address"`
	Interest uint32 `json:"interest"`
}

// PollParams are the creator supplied fields of a new poll
type PollParams struct {
	ContentReference string           `json:"contentReference"`
	Beneficiaries    []RawBeneficiary `json:"beneficiaries"`
	RewardSettings   RewardSettings   `json:"rewardSettings"`
	Goal             uint64           `json:"goal"`
	OptionsCount     uint8            `json:"optionsCount"`
	MultipleVotes    bool             `json:"multipleVotes"`
	Currency         PollCurrency     `json:"currency"`
	Start            uint64           `json:"start"`
	End              uint64           `json:"end"`
}

// CreatePoll() registers a new ongoing poll and schedules its end
func (s *StateMachine) CreatePoll(creator crypto.AddressI, params PollParams) (id uint64, err lib.ErrorI) {
	err = s.atomic(MessageCreatePollName, func() lib.ErrorI {
		if s.isModuleAccount(creator) {
			return ErrModuleAccount()
		}
		beneficiaries := make([]*Beneficiary, 0, len(params.Beneficiaries))
		for _, raw := range params.Beneficiaries {
			address, e := s.resolver.Resolve(raw.Address)
			if e != nil {
				return e
			}
			if s.isModuleAccount(address) {
				return ErrModuleAccount()
			}
			beneficiaries = append(beneficiaries, &Beneficiary{Address: address, Interest: raw.Interest})
		}
		p := NewPoll(0, crypto.NewAddress(creator.Bytes()), params.ContentReference, beneficiaries, params.RewardSettings,
			params.Goal, params.OptionsCount, params.MultipleVotes, params.Currency, params.Start, params.End)
		if !p.Validate(s.Config.MaxBeneficiaries) {
			return ErrInvalidPollDetails()
		}
		now := s.Height()
		if !(params.Start >= now && params.End > now && params.End > params.Start) {
			return ErrInvalidPollPeriod()
		}
		if params.Currency.IsAsset() {
			issuance, e := s.ledger.TotalIssuance(params.Currency.AssetId)
			if e != nil {
				return e
			}
			if issuance == 0 {
				return ErrInvalidPollCurrency()
			}
		}
		var e lib.ErrorI
		if p.Id, e = s.NextPollIndex(); e != nil {
			return e
		}
		if e = s.SetPoll(p); e != nil {
			return e
		}
		if e = s.scheduler.ScheduleOnce(TaskKey(s.Config.ModuleTag, p.Id), p.Status.End, p.Id); e != nil {
			return e
		}
		s.EventPollCreated(p)
		id = p.Id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return
}

// Vote() stakes the votes of the account on the poll options, moving the capital into the pot
func (s *StateMachine) Vote(who crypto.AddressI, pollId uint64, votes Votes) lib.ErrorI {
	return s.atomic(MessageVoteName, func() lib.ErrorI {
		if s.isModuleAccount(who) {
			return ErrModuleAccount()
		}
		p, err := s.getOngoingPoll(pollId)
		if err != nil {
			return err
		}
		if !votes.Validate(p.OptionsCount) {
			return ErrInvalidPollVotes()
		}
		capital, ok := votes.CheckedCapital()
		if !ok || capital == 0 {
			return ErrInvalidPollVotes()
		}
		record, err := s.GetAccountVotes(who, pollId)
		if err != nil {
			return err
		}
		if !p.MultipleVotes && (votes.NonZeroCount() != 1 || record != nil) {
			return ErrMultipleVotesNotAllowed()
		}
		if p.Status.Start > s.Height() {
			return ErrPollNotStarted()
		}
		balance, err := s.ledger.BalanceOf(who, p.Currency)
		if err != nil {
			return err
		}
		if balance < capital {
			return ErrInsufficientFunds()
		}
		if err = s.ledger.Transfer(who, s.PotAddress(), p.Currency, capital); err != nil {
			return err
		}
		if record == nil {
			record = &AccountVotes{Votes: votes.Copy()}
		} else if !record.Votes.Add(votes) {
			return ErrArithmeticOverflow()
		}
		if !p.Votes.Add(votes) {
			return ErrArithmeticOverflow()
		}
		if err = s.SetAccountVotes(who, pollId, record); err != nil {
			return err
		}
		if err = s.SetPoll(p); err != nil {
			return err
		}
		s.EventVoted(pollId, who.Bytes(), votes)
		return nil
	})
}

// RemoveVote() withdraws the whole vote record of the account and refunds its capital from the pot
func (s *StateMachine) RemoveVote(who crypto.AddressI, pollId uint64) lib.ErrorI {
	return s.atomic(MessageRemoveVoteName, func() lib.ErrorI {
		if s.isModuleAccount(who) {
			return ErrModuleAccount()
		}
		p, err := s.getOngoingPoll(pollId)
		if err != nil {
			return err
		}
		record, err := s.GetAccountVotes(who, pollId)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrVotesNotExist()
		}
		capital, ok := record.Votes.CheckedCapital()
		if !ok {
			return ErrArithmeticOverflow()
		}
		if err = s.requirePotCovers(p.Currency, capital); err != nil {
			return err
		}
		if err = s.DeleteAccountVotes(who, pollId); err != nil {
			return err
		}
		if !p.Votes.Remove(record.Votes) {
			return ErrArithmeticUnderflow()
		}
		if err = s.ledger.Transfer(s.PotAddress(), who, p.Currency, capital); err != nil {
			return err
		}
		if err = s.SetPoll(p); err != nil {
			return err
		}
		s.EventVoteRemoved(pollId, who.Bytes(), record.Votes)
		return nil
	})
}

// EnactPollEnd() settles an ongoing poll: finished if the goal was reached, failed otherwise
// only reachable from the scheduler at the poll end or from the root authority
func (s *StateMachine) EnactPollEnd(pollId uint64) lib.ErrorI {
	return s.atomic(MessageEnactPollEndName, func() lib.ErrorI {
		p, err := s.getOngoingPoll(pollId)
		if err != nil {
			return err
		}
		end := p.Status.End
		if p.Votes.Capital() >= p.Goal {
			win, ok := p.Votes.WinningOption()
			if !ok {
				return ErrUnexpectedBehavior("poll has an empty tally")
			}
			p.Status = Finished(win, end)
		} else {
			p.Status = Failed(end)
		}
		if err = s.SetPoll(p); err != nil {
			return err
		}
		s.EventPollFinished(p)
		return nil
	})
}

// EnactPollEndEarly() settles an ongoing poll before its end height and drops its scheduled end
func (s *StateMachine) EnactPollEndEarly(pollId uint64) lib.ErrorI {
	return s.atomic(MessageEnactPollEndName, func() lib.ErrorI {
		if err := s.EnactPollEnd(pollId); err != nil {
			return err
		}
		err := s.scheduler.Cancel(TaskKey(s.Config.ModuleTag, pollId))
		if err != nil && !lib.ErrorIs(err, lib.PollsModule, lib.CodeTaskNotFound) {
			return err
		}
		return nil
	})
}

// EmergencyCancel() lets the creator cancel an ongoing poll; every stake becomes refundable
func (s *StateMachine) EmergencyCancel(who crypto.AddressI, pollId uint64) lib.ErrorI {
	return s.atomic(MessageEmergencyCancelName, func() lib.ErrorI {
		p, err := s.getOngoingPoll(pollId)
		if err != nil {
			return err
		}
		if !p.CreatedBy.Equals(who) {
			return ErrAccountNotAuthor()
		}
		if e := s.scheduler.Cancel(TaskKey(s.Config.ModuleTag, pollId)); e != nil {
			return ErrUnexpectedBehavior("cancel poll end: " + e.Error())
		}
		p.Status = Cancelled(s.Height())
		if err = s.SetPoll(p); err != nil {
			return err
		}
		s.EventPollCancelled(pollId, who.Bytes())
		return nil
	})
}

// Collect() pays the account what it is owed by a terminal poll and returns the amount
// beneficiaries receive their interest of the winning stake, voters their refund
func (s *StateMachine) Collect(who crypto.AddressI, pollId uint64) (total uint64, err lib.ErrorI) {
	err = s.atomic(MessageCollectName, func() lib.ErrorI {
		if s.isModuleAccount(who) {
			return ErrModuleAccount()
		}
		p, e := s.GetPoll(pollId)
		if e != nil {
			return e
		}
		if p.Status.IsOngoing() {
			return ErrCollectOnOngoingPoll()
		}
		beneficiary := p.GetMutBeneficiary(who)
		record, e := s.GetAccountVotes(who, pollId)
		if e != nil {
			return e
		}
		if beneficiary == nil && record == nil {
			return ErrAccountNotVoterOrBeneficiary()
		}
		var beneficiaryAmount, voterAmount uint64
		if beneficiary != nil && !beneficiary.Collected {
			if beneficiaryAmount, e = p.BeneficiaryPayout(beneficiary); e != nil {
				return e
			}
		}
		if record != nil && !record.Collected {
			if voterAmount, e = p.VoterPayout(record.Votes); e != nil {
				return e
			}
		}
		sum, ok := lib.SafeAdd(beneficiaryAmount, voterAmount)
		if !ok {
			return ErrArithmeticOverflow()
		}
		if sum == 0 {
			return ErrNothingToCollect()
		}
		if e = s.requirePotCovers(p.Currency, sum); e != nil {
			return e
		}
		if beneficiaryAmount > 0 {
			beneficiary.Collected = true
			if e = s.SetPoll(p); e != nil {
				return e
			}
		}
		if voterAmount > 0 {
			record.Collected = true
			if e = s.SetAccountVotes(who, pollId, record); e != nil {
				return e
			}
		}
		if e = s.ledger.Transfer(s.PotAddress(), who, p.Currency, sum); e != nil {
			return e
		}
		s.EventCollected(pollId, who.Bytes(), sum)
		total = sum
		return nil
	})
	if err != nil {
		return 0, err
	}
	return
}

// getOngoingPoll() loads a poll that still accepts votes
func (s *StateMachine) getOngoingPoll(pollId uint64) (*Poll, lib.ErrorI) {
	p, err := s.GetPoll(pollId)
	if err != nil {
		return nil, err
	}
	if !p.Status.IsOngoing() {
		return nil, ErrPollAlreadyFinished()
	}
	return p, nil
}

// isModuleAccount() is true for the custody accounts of the module
func (s *StateMachine) isModuleAccount(address crypto.AddressI) bool {
	return s.PotAddress().Equals(address)
}

// requirePotCovers() fails if the pot can't pay the amount in the currency
func (s *StateMachine) requirePotCovers(currency PollCurrency, amount uint64) lib.ErrorI {
	pot, err := s.PotBalance(currency)
	if err != nil {
		return err
	}
	if pot < amount {
		return ErrPotInsufficientFunds()
	}
	return nil
}
