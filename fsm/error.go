package fsm

import (
	"fmt"

	"github.com/canopy-network/fundpolls/lib"
)

// This file defines error objects for the polls State Machine module

// user input

func ErrInvalidPollDetails() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidPollDetails, lib.PollsModule, "poll details are invalid")
}

func ErrInvalidPollPeriod() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidPollPeriod, lib.PollsModule, "poll period is invalid")
}

func ErrInvalidPollCurrency() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidPollCurrency, lib.PollsModule, "poll currency has no issuance")
}

func ErrInvalidPollVotes() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidPollVotes, lib.PollsModule, "votes are invalid")
}

func ErrMultipleVotesNotAllowed() lib.ErrorI {
	return lib.NewError(lib.CodeMultipleVotesNotAllowed, lib.PollsModule, "poll doesn't allow multiple votes")
}

func ErrPollNotStarted() lib.ErrorI {
	return lib.NewError(lib.CodePollNotStarted, lib.PollsModule, "poll hasn't started")
}

func ErrInsufficientFunds() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientFunds, lib.PollsModule, "insufficient funds")
}

func ErrInvalidAccount(raw string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAccount, lib.PollsModule, fmt.Sprintf("account %q can't be resolved", raw))
}

func ErrUnknownMessage(x any) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownMessage, lib.PollsModule, fmt.Sprintf("message %T is unknown", x))
}

func ErrUnknownMessageName(name string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownMessage, lib.PollsModule, fmt.Sprintf("message type %q is unknown", name))
}

func ErrInvalidMessage(reason string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidMessage, lib.PollsModule, fmt.Sprintf("message is invalid: %s", reason))
}

func ErrUnauthorized() lib.ErrorI {
	return lib.NewError(lib.CodeUnauthorized, lib.PollsModule, "signer is not authorized")
}

func ErrModuleAccount() lib.ErrorI {
	return lib.NewError(lib.CodeModuleAccount, lib.PollsModule, "module accounts can't take part in polls")
}

// state precondition

func ErrPollInvalid() lib.ErrorI {
	return lib.NewError(lib.CodePollInvalid, lib.PollsModule, "poll doesn't exist")
}

func ErrPollAlreadyFinished() lib.ErrorI {
	return lib.NewError(lib.CodePollAlreadyFinished, lib.PollsModule, "poll is already finished")
}

func ErrCollectOnOngoingPoll() lib.ErrorI {
	return lib.NewError(lib.CodeCollectOnOngoingPoll, lib.PollsModule, "can't collect on an ongoing poll")
}

func ErrAccountNotVoterOrBeneficiary() lib.ErrorI {
	return lib.NewError(lib.CodeAccountNotVoterOrBeneficiary, lib.PollsModule, "account is neither a voter nor a beneficiary")
}

func ErrAccountNotAuthor() lib.ErrorI {
	return lib.NewError(lib.CodeAccountNotAuthor, lib.PollsModule, "account is not the poll author")
}

func ErrNothingToCollect() lib.ErrorI {
	return lib.NewError(lib.CodeNothingToCollect, lib.PollsModule, "nothing to collect")
}

func ErrVotesNotExist() lib.ErrorI {
	return lib.NewError(lib.CodeVotesNotExist, lib.PollsModule, "votes don't exist")
}

// fatal

func ErrPotInsufficientFunds() lib.ErrorI {
	return lib.NewError(lib.CodePotInsufficientFunds, lib.PollsModule, "pot has insufficient funds")
}

func ErrArithmeticOverflow() lib.ErrorI {
	return lib.NewError(lib.CodeArithmeticOverflow, lib.PollsModule, "arithmetic overflow")
}

func ErrArithmeticUnderflow() lib.ErrorI {
	return lib.NewError(lib.CodeArithmeticUnderflow, lib.PollsModule, "arithmetic underflow")
}

func ErrUnexpectedBehavior(reason string) lib.ErrorI {
	return lib.NewError(lib.CodeUnexpectedBehavior, lib.PollsModule, fmt.Sprintf("unexpected behavior: %s", reason))
}

// collaborators

func ErrBalanceOverflow() lib.ErrorI {
	return lib.NewError(lib.CodeBalanceOverflow, lib.PollsModule, "balance overflow")
}

func ErrTaskExists(key []byte) lib.ErrorI {
	return lib.NewError(lib.CodeTaskExists, lib.PollsModule, fmt.Sprintf("task %s is already scheduled", lib.BytesToString(key)))
}

func ErrTaskNotFound(key []byte) lib.ErrorI {
	return lib.NewError(lib.CodeTaskNotFound, lib.PollsModule, fmt.Sprintf("task %s is not scheduled", lib.BytesToString(key)))
}

func ErrTaskInPast(at, now uint64) lib.ErrorI {
	return lib.NewError(lib.CodeTaskInPast, lib.PollsModule, fmt.Sprintf("can't schedule at height %d, current height is %d", at, now))
}

func ErrReadGenesisFile(err error) lib.ErrorI {
	return lib.NewError(lib.CodeReadGenesisFile, lib.PollsModule, fmt.Sprintf("read genesis file failed with err: %s", err.Error()))
}

func ErrUnmarshalGenesis(err error) lib.ErrorI {
	return lib.NewError(lib.CodeUnmarshalGenesis, lib.PollsModule, fmt.Sprintf("unmarshal genesis failed with err: %s", err.Error()))
}

func ErrInvalidGenesis(reason string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidGenesis, lib.PollsModule, fmt.Sprintf("genesis is invalid: %s", reason))
}

func ErrWrongStoreType() lib.ErrorI {
	return lib.NewError(lib.CodeWrongStoreType, lib.PollsModule, "wrong store type")
}

func ErrInvalidCurrency(s string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidCurrency, lib.PollsModule, fmt.Sprintf("currency %q is invalid", s))
}

func ErrInvalidKey(k []byte) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidStateKey, lib.PollsModule, fmt.Sprintf("key %s is invalid", lib.BytesToString(k)))
}
