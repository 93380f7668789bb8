package fsm

import "github.com/canopy-network/fundpolls/lib"

// Votes is the tally of a poll or of a single vote record: the stake on each option
type Votes []uint64

// NewVotes() returns a zero filled tally for the number of options
func NewVotes(optionsCount uint8) Votes { return make(Votes, optionsCount) }

// Validate() checks the tally has one entry per option
func (v Votes) Validate(optionsCount uint8) bool { return len(v) == int(optionsCount) }

// Capital() is the saturating sum of the stakes
func (v Votes) Capital() (capital uint64) {
	for _, stake := range v {
		capital = lib.SaturatingAdd(capital, stake)
	}
	return
}

// CheckedCapital() is the sum of the stakes; false on overflow
func (v Votes) CheckedCapital() (capital uint64, ok bool) {
	for _, stake := range v {
		if capital, ok = lib.SafeAdd(capital, stake); !ok {
			return 0, false
		}
	}
	return capital, true
}

// NonZeroCount() counts the options with a positive stake
func (v Votes) NonZeroCount() (count int) {
	for _, stake := range v {
		if stake > 0 {
			count++
		}
	}
	return
}

// Add() adds the other tally element wise
// fails on a length mismatch or overflow; the receiver is untouched on failure
func (v Votes) Add(other Votes) bool {
	if len(v) != len(other) {
		return false
	}
	sum := make(Votes, len(v))
	for i := range v {
		var ok bool
		if sum[i], ok = lib.SafeAdd(v[i], other[i]); !ok {
			return false
		}
	}
	copy(v, sum)
	return true
}

// Remove() subtracts the other tally element wise
// fails on a length mismatch or underflow; the receiver is untouched on failure
func (v Votes) Remove(other Votes) bool {
	if len(v) != len(other) {
		return false
	}
	diff := make(Votes, len(v))
	for i := range v {
		var ok bool
		if diff[i], ok = lib.SafeSub(v[i], other[i]); !ok {
			return false
		}
	}
	copy(v, diff)
	return true
}

// WinningOption() is the index of the highest stake, the lowest index wins a tie
// false only for an empty tally
func (v Votes) WinningOption() (uint8, bool) {
	if len(v) == 0 {
		return 0, false
	}
	winner := 0
	for i, stake := range v {
		if stake > v[winner] {
			winner = i
		}
	}
	return uint8(winner), true
}

// Copy() returns an independent copy of the tally
func (v Votes) Copy() Votes {
	if v == nil {
		return nil
	}
	c := make(Votes, len(v))
	copy(c, v)
	return c
}
