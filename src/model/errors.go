// Package model defines the catalog data structures and error kinds
package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the CLI can report
type ErrorKind int

const (
	// KindUnknown is never produced by this module; it marks foreign errors
	KindUnknown ErrorKind = iota
	// KindInvalidCommand - malformed or unrecognized method/path, too few tokens
	KindInvalidCommand
	// KindMissingParameters - POST without title, price and category
	KindMissingParameters
	// KindInvalidProductID - id segment of products/<id> is not numeric
	KindInvalidProductID
	// KindInvalidPrice - POST price is not a positive finite number
	KindInvalidPrice
	// KindNotFound - remote reports the product does not exist
	KindNotFound
	// KindAPIError - any other non-success status, transport failure or bad body
	KindAPIError
)

// Stable error codes, used in JSON output
const (
	ErrCodeInvalidCommand    = "INVALID_COMMAND"
	ErrCodeMissingParameters = "MISSING_PARAMETERS"
	ErrCodeInvalidProductID  = "INVALID_PRODUCT_ID"
	ErrCodeInvalidPrice      = "INVALID_PRICE"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAPIError          = "API_ERROR"
	ErrCodeUnknown           = "ERROR"
)

var kindCodes = map[ErrorKind]string{
	KindInvalidCommand:    ErrCodeInvalidCommand,
	KindMissingParameters: ErrCodeMissingParameters,
	KindInvalidProductID:  ErrCodeInvalidProductID,
	KindInvalidPrice:      ErrCodeInvalidPrice,
	KindNotFound:          ErrCodeNotFound,
	KindAPIError:          ErrCodeAPIError,
}

// Code returns the stable error code for the kind
func (k ErrorKind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return ErrCodeUnknown
}

// String implements fmt.Stringer
func (k ErrorKind) String() string {
	return k.Code()
}

// KindFromStatus maps a non-success HTTP status to an error kind.
// Only 404 is distinguished; everything else is an API error.
func KindFromStatus(status int) ErrorKind {
	if status == http.StatusNotFound {
		return KindNotFound
	}
	return KindAPIError
}

// Error is the typed error carried through every call boundary
type Error struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status when the failure came from the remote
	Status int
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Code()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrInvalidCommand    = &Error{Kind: KindInvalidCommand}
	ErrMissingParameters = &Error{Kind: KindMissingParameters}
	ErrInvalidProductID  = &Error{Kind: KindInvalidProductID}
	ErrInvalidPrice      = &Error{Kind: KindInvalidPrice}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrAPI               = &Error{Kind: KindAPIError}
)

// NewError creates a typed error with a formatted message
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a typed error around a cause
func WrapError(kind ErrorKind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf classifies any error. Errors produced outside this module are
// KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
