// Package apperrors carries the error kinds the service handlers report and
// the gateway maps onto HTTP statuses.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindInsufficientStock
	KindDependencyFailure
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// DependencyFailure wraps a failure of the persistence or blob collaborator.
func DependencyFailure(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindDependencyFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err, or KindUnknown when err does not carry one.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool          { return KindOf(err) == KindNotFound }
func IsInvalidInput(err error) bool      { return KindOf(err) == KindInvalidInput }
func IsInsufficientStock(err error) bool { return KindOf(err) == KindInsufficientStock }
