package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned when a token amount can't be parsed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownAction is returned when an action name has no registered kind
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoWallet is returned when an operation needs a signer and none is configured
	ErrNoWallet = errors.New("no wallet configured")

	// ErrNoDAO is returned when no DAO address could be resolved
	ErrNoDAO = errors.New("no DAO address configured")

	// ErrLoading is returned by Result.Get while a value is still being fetched
	ErrLoading = errors.New("still loading")
)

// ErrorKind classifies failures by how they should be surfaced to the user.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	// KindValidation is user input failing a field rule. Fix and resubmit.
	KindValidation
	// KindPrecondition is missing context such as a wallet or DAO address.
	KindPrecondition
	// KindNetwork covers RPC failures, reverted transactions and non-200 API replies.
	KindNetwork
	// KindPartialBatch means at least one proposal action failed to encode.
	KindPartialBatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindNetwork:
		return "network"
	case KindPartialBatch:
		return "partial_batch"
	default:
		return "internal"
	}
}

// Error is a classified error. Op names the operation that failed.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind and operation name.
func NewError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// ValidationError wraps err as a validation failure.
func ValidationError(op string, err error) error { return NewError(KindValidation, op, err) }

// NetworkError wraps err as a network or SDK failure.
func NetworkError(op string, err error) error { return NewError(KindNetwork, op, err) }

// PreconditionError wraps err as a missing-context failure.
func PreconditionError(op string, err error) error { return NewError(KindPrecondition, op, err) }

// KindOf returns the outermost classification of err.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}
	var batch *BatchError
	if errors.As(err, &batch) {
		return KindPartialBatch
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return KindValidation
	}
	if errors.Is(err, ErrNoWallet) || errors.Is(err, ErrNoDAO) {
		return KindPrecondition
	}
	if errors.Is(err, ErrInvalidAddress) || errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrUnknownAction) {
		return KindValidation
	}
	return KindInternal
}

// FieldError attaches a message to one field of one proposal action.
// Index is the position of the action in the proposal, or -1 when unknown.
type FieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewFieldError creates a field error with an unknown index.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Index: -1, Field: field, Message: message}
}

func (e *FieldError) Error() string {
	var b strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&b, "action %d: ", e.Index)
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// BatchError collects the field errors of every action that failed to encode.
type BatchError struct {
	Errors []*FieldError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("%d action error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// ForIndex returns the field errors attached to the action at index.
func (e *BatchError) ForIndex(index int) []*FieldError {
	var out []*FieldError
	for _, fe := range e.Errors {
		if fe.Index == index {
			out = append(out, fe)
		}
	}
	return out
}
