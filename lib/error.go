package lib

import (
	"errors"
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

// Is() allows errors.Is() to match two coded errors regardless of their message
func (p *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.ECode == p.ECode && t.EModule == p.EModule
}

// ErrorIs() returns true if the error carries the module and code
func ErrorIs(err error, module ErrorModule, code ErrorCode) bool {
	var e ErrorI
	if !errors.As(err, &e) {
		return false
	}
	return e.Module() == module && e.Code() == code
}

// IsFatal() reports whether the error signals ledger or bookkeeping corruption rather than normal control flow
func IsFatal(err error) bool {
	var e ErrorI
	if !errors.As(err, &e) || e.Module() != PollsModule {
		return false
	}
	switch e.Code() {
	case CodePotInsufficientFunds, CodeArithmeticOverflow, CodeArithmeticUnderflow, CodeUnexpectedBehavior:
		return true
	}
	return false
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeInvalidAddress  ErrorCode = 1
	CodeJSONMarshal     ErrorCode = 2
	CodeJSONUnmarshal   ErrorCode = 3
	CodeUnmarshal       ErrorCode = 4
	CodeMarshal         ErrorCode = 5
	CodeStringToBytes   ErrorCode = 8
	CodeWriteFile       ErrorCode = 25
	CodeReadFile        ErrorCode = 26
	CodeInvalidArgument ErrorCode = 27
	CodePanic           ErrorCode = 49

	// Polls Module
	PollsModule ErrorModule = "polls"

	// Polls Module Error Codes
	// user input
	CodeInvalidPollDetails      ErrorCode = 1
	CodeInvalidPollPeriod       ErrorCode = 2
	CodeInvalidPollCurrency     ErrorCode = 3
	CodeInvalidPollVotes        ErrorCode = 4
	CodeMultipleVotesNotAllowed ErrorCode = 5
	CodePollNotStarted          ErrorCode = 6
	CodeInsufficientFunds       ErrorCode = 7
	CodeInvalidAccount          ErrorCode = 8
	CodeUnknownMessage          ErrorCode = 9
	CodeInvalidMessage          ErrorCode = 10
	CodeUnauthorized            ErrorCode = 11
	CodeModuleAccount           ErrorCode = 12
	// state precondition
	CodePollInvalid                  ErrorCode = 20
	CodePollAlreadyFinished          ErrorCode = 21
	CodeCollectOnOngoingPoll         ErrorCode = 22
	CodeAccountNotVoterOrBeneficiary ErrorCode = 23
	CodeAccountNotAuthor             ErrorCode = 24
	CodeNothingToCollect             ErrorCode = 25
	CodeVotesNotExist                ErrorCode = 26
	// fatal / invariant violations
	CodePotInsufficientFunds ErrorCode = 40
	CodeArithmeticOverflow   ErrorCode = 41
	CodeArithmeticUnderflow  ErrorCode = 42
	CodeUnexpectedBehavior   ErrorCode = 43
	// ledger and scheduler collaborators
	CodeBalanceOverflow   ErrorCode = 50
	CodeTaskExists        ErrorCode = 51
	CodeTaskNotFound      ErrorCode = 52
	CodeTaskInPast        ErrorCode = 53
	CodeReadGenesisFile   ErrorCode = 54
	CodeUnmarshalGenesis  ErrorCode = 55
	CodeInvalidGenesis    ErrorCode = 56
	CodeWrongStoreType    ErrorCode = 57
	CodeInvalidCurrency   ErrorCode = 58
	CodeInvalidStateKey   ErrorCode = 59

	// Storage Module
	StorageModule ErrorModule = "store"

	// Storage Module Error Codes
	CodeOpenDB      ErrorCode = 1
	CodeCloseDB     ErrorCode = 2
	CodeStoreSet    ErrorCode = 3
	CodeStoreGet    ErrorCode = 4
	CodeStoreDelete ErrorCode = 5
	CodeCommitDB    ErrorCode = 6
	CodeInvalidKey  ErrorCode = 7

	// RPC Module
	RPCModule ErrorModule = "rpc"

	// RPC Module Error Codes
	CodeServerTimeout ErrorCode = 1
	CodePostRequest   ErrorCode = 2
	CodeGetRequest    ErrorCode = 3
	CodeReadBody      ErrorCode = 4
	CodeHttpStatus    ErrorCode = 5
	CodeNodeStopped   ErrorCode = 6
	CodeInvalidParams ErrorCode = 7
	CodeStartServer   ErrorCode = 8
)

// Main Module Errors

func ErrInvalidAddress() ErrorI {
	return NewError(CodeInvalidAddress, MainModule, "address is invalid")
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.marshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.unmarshal() failed with err: %s", err.Error()))
}

func ErrUnmarshal(err error) ErrorI {
	return NewError(CodeUnmarshal, MainModule, fmt.Sprintf("unmarshal() failed with err: %s", err.Error()))
}

func ErrMarshal(err error) ErrorI {
	return NewError(CodeMarshal, MainModule, fmt.Sprintf("marshal() failed with err: %s", err.Error()))
}

func ErrStringToBytes(err error) ErrorI {
	return NewError(CodeStringToBytes, MainModule, fmt.Sprintf("stringToBytes() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrInvalidArgument() ErrorI {
	return NewError(CodeInvalidArgument, MainModule, "the argument is invalid")
}

func ErrPanic() ErrorI {
	return NewError(CodePanic, MainModule, "panic recovery")
}

// RPC Module Errors

func ErrServerTimeout() ErrorI {
	return NewError(CodeServerTimeout, RPCModule, "server timeout")
}

func ErrPostRequest(err error) ErrorI {
	return NewError(CodePostRequest, RPCModule, fmt.Sprintf("http.Post() failed with err: %s", err.Error()))
}

func ErrGetRequest(err error) ErrorI {
	return NewError(CodeGetRequest, RPCModule, fmt.Sprintf("http.Get() failed with err: %s", err.Error()))
}

func ErrReadBody(err error) ErrorI {
	return NewError(CodeReadBody, RPCModule, fmt.Sprintf("io.ReadAll(http.ResponseBody) failed with err: %s", err.Error()))
}

func ErrHttpStatus(status string, statusCode int, body []byte) ErrorI {
	return NewError(CodeHttpStatus, RPCModule, fmt.Sprintf("http response bad status %s with code %d and body %s", status, statusCode, body))
}

func ErrNodeStopped() ErrorI {
	return NewError(CodeNodeStopped, RPCModule, "the node is stopped")
}
