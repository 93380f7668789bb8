package fsm

import (
	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

const (
	MinPollOptions = 1
	MaxPollOptions = 10

	// accepted content reference lengths
	CIDv0Length = 46 // base58 'Qm...'
	CIDv1Length = 59 // base32 'b...'
)

// RewardSettings is reserved for reward logic; only RewardNone is known
type RewardSettings uint8

const RewardNone RewardSettings = 0

// Beneficiary is an account entitled to a basis point share of the winning option stake
type Beneficiary struct {
	Address   crypto.Address `json:"address" msgpack:"address"`
	Interest  uint32         `json:"interest" msgpack:"interest"` // basis points out of 10,000
	Collected bool           `json:"collected" msgpack:"collected"`
}

// Poll is a funding vote with options, a goal and optional beneficiaries
type Poll struct {
	Id               uint64         `json:"id" msgpack:"id"`
	CreatedBy        crypto.Address `json:"createdBy" msgpack:"createdBy"`
	ContentReference string         `json:"contentReference" msgpack:"contentReference"`
	Beneficiaries    []*Beneficiary `json:"beneficiaries" msgpack:"beneficiaries"`
	RewardSettings   RewardSettings `json:"rewardSettings" msgpack:"rewardSettings"`
	Goal             uint64         `json:"goal" msgpack:"goal"`
	OptionsCount     uint8          `json:"optionsCount" msgpack:"optionsCount"`
	MultipleVotes    bool           `json:"multipleVotes" msgpack:"multipleVotes"`
	Votes            Votes          `json:"votes" msgpack:"votes"`
	Currency         PollCurrency   `json:"currency" msgpack:"currency"`
	Status           PollStatus     `json:"status" msgpack:"status"`
}

// AccountVotes is the vote record of one account on one poll
type AccountVotes struct {
	Votes     Votes `json:"votes" msgpack:"votes"`
	Collected bool  `json:"collected" msgpack:"collected"`
}

// NewPoll() creates an ongoing poll with a zero tally
func NewPoll(id uint64, createdBy crypto.Address, contentReference string, beneficiaries []*Beneficiary,
	rewardSettings RewardSettings, goal uint64, optionsCount uint8, multipleVotes bool, currency PollCurrency,
	start, end uint64) *Poll {
	return &Poll{
		Id:               id,
		CreatedBy:        createdBy,
		ContentReference: contentReference,
		Beneficiaries:    beneficiaries,
		RewardSettings:   rewardSettings,
		Goal:             goal,
		OptionsCount:     optionsCount,
		MultipleVotes:    multipleVotes,
		Votes:            NewVotes(optionsCount),
		Currency:         currency,
		Status:           Ongoing(start, end),
	}
}

// Validate() checks the static configuration of the poll
func (p *Poll) Validate(maxBeneficiaries int) bool {
	if l := len(p.ContentReference); l != CIDv0Length && l != CIDv1Length {
		return false
	}
	if p.OptionsCount < MinPollOptions || p.OptionsCount > MaxPollOptions {
		return false
	}
	if !p.Currency.IsValid() {
		return false
	}
	if len(p.Beneficiaries) > maxBeneficiaries {
		return false
	}
	if len(p.Beneficiaries) != 0 {
		if sum := p.BeneficiarySum(); sum == 0 || sum > lib.MaxBasisPoints {
			return false
		}
	}
	seen := make(map[string]struct{}, len(p.Beneficiaries))
	for _, b := range p.Beneficiaries {
		if _, duplicate := seen[b.Address.String()]; duplicate {
			return false
		}
		seen[b.Address.String()] = struct{}{}
	}
	return p.RewardSettings == RewardNone
}

// GetBeneficiary() returns a copy of the beneficiary entry of the account or nil
func (p *Poll) GetBeneficiary(address crypto.AddressI) *Beneficiary {
	if b := p.GetMutBeneficiary(address); b != nil {
		c := *b
		return &c
	}
	return nil
}

// GetMutBeneficiary() returns the beneficiary entry of the account for modification or nil
func (p *Poll) GetMutBeneficiary(address crypto.AddressI) *Beneficiary {
	for _, b := range p.Beneficiaries {
		if b.Address.Equals(address) {
			return b
		}
	}
	return nil
}

// BeneficiarySum() is the saturating sum of the beneficiary interests
func (p *Poll) BeneficiarySum() (sum uint32) {
	for _, b := range p.Beneficiaries {
		if s := sum + b.Interest; s >= sum {
			sum = s
		} else {
			return ^uint32(0)
		}
	}
	return
}

// WinningOption() is only set once the poll finished
func (p *Poll) WinningOption() (uint8, bool) {
	if p.Status.Kind != StatusFinished {
		return 0, false
	}
	return p.Status.WinningOption, true
}

// BeneficiaryPayout() is the share of the winning option stake owed to the beneficiary
// zero unless the poll finished
func (p *Poll) BeneficiaryPayout(b *Beneficiary) (uint64, lib.ErrorI) {
	win, ok := p.WinningOption()
	if !ok || b == nil {
		return 0, nil
	}
	if int(win) >= len(p.Votes) {
		return 0, ErrUnexpectedBehavior("winning option outside of the tally")
	}
	amount, ok := lib.BasisPointsOf(p.Votes[win], uint64(b.Interest))
	if !ok {
		return 0, ErrArithmeticUnderflow()
	}
	return amount, nil
}

// VoterPayout() is the amount owed to a vote record
// losing options are refunded in full; the winning option stake is refunded minus the beneficiaries' cut
func (p *Poll) VoterPayout(votes Votes) (total uint64, err lib.ErrorI) {
	win, won := p.WinningOption()
	keep, ok := lib.SafeSub(lib.MaxBasisPoints, uint64(p.BeneficiarySum()))
	if !ok {
		return 0, ErrArithmeticUnderflow()
	}
	for i, stake := range votes {
		part := stake
		if won && i == int(win) {
			if part, ok = lib.BasisPointsOf(stake, keep); !ok {
				return 0, ErrArithmeticUnderflow()
			}
		}
		if total, ok = lib.SafeAdd(total, part); !ok {
			return 0, ErrArithmeticOverflow()
		}
	}
	return
}

// Copy() returns an independent copy of the poll
func (p *Poll) Copy() *Poll {
	c := *p
	c.CreatedBy = append(crypto.Address(nil), p.CreatedBy...)
	c.Votes = p.Votes.Copy()
	c.Beneficiaries = make([]*Beneficiary, len(p.Beneficiaries))
	for i, b := range p.Beneficiaries {
		bc := *b
		bc.Address = append(crypto.Address(nil), b.Address...)
		c.Beneficiaries[i] = &bc
	}
	return &c
}
