package clean

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTarget means no column of the table fits the action.
	ErrNoTarget = errors.New("no applicable column")
	// ErrEmptyValue means a manual fill was requested without a value.
	ErrEmptyValue = errors.New("fill value is empty")
	// ErrInvalidAction means the action itself is malformed.
	ErrInvalidAction = errors.New("invalid action")
)

// Code classifies an OperationError.
type Code string

const (
	CodeNoTarget      Code = "no_target"
	CodeEmptyValue    Code = "empty_value"
	CodeInvalidAction Code = "invalid_action"
)

// OperationError is returned when an action cannot be applied. The table
// it was applied to is unchanged.
type OperationError struct {
	Code   Code
	Action Kind
	Reason string
	Err    error
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Action, e.sentinel())
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error { return e.Err }

func (e *OperationError) Is(target error) bool { return target == e.sentinel() }

func (e *OperationError) sentinel() error {
	switch e.Code {
	case CodeNoTarget:
		return ErrNoTarget
	case CodeEmptyValue:
		return ErrEmptyValue
	default:
		return ErrInvalidAction
	}
}

func invalid(k Kind, format string, args ...any) error {
	return &OperationError{Code: CodeInvalidAction, Action: k, Reason: fmt.Sprintf(format, args...)}
}
