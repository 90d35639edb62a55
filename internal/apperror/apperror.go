// Package apperror defines the error taxonomy shared by services and the HTTP
// layer.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindDuplicateIdentity
	KindInvalidCredential
	KindInvalidToken
	KindExpiredToken
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindDuplicateIdentity:
		return "DuplicateIdentity"
	case KindInvalidCredential:
		return "InvalidCredential"
	case KindInvalidToken:
		return "InvalidToken"
	case KindExpiredToken:
		return "ExpiredToken"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	default:
		return "ServerError"
	}
}

// StatusCode maps the kind onto an HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindDuplicateIdentity, KindInvalidCredential:
		return http.StatusBadRequest
	case KindInvalidToken, KindExpiredToken, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error. Err holds the cause and is never
// shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrForbidden)
// holds for every forbidden error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrServer            = &Error{Kind: KindServer}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrDuplicateIdentity = &Error{Kind: KindDuplicateIdentity}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential}
	ErrInvalidToken      = &Error{Kind: KindInvalidToken}
	ErrExpiredToken      = &Error{Kind: KindExpiredToken}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
)

// New builds an error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func DuplicateIdentity(message string, cause error) *Error {
	return New(KindDuplicateIdentity, message, cause)
}

func InvalidCredential(message string) *Error {
	return New(KindInvalidCredential, message, nil)
}

func InvalidToken(cause error) *Error {
	return New(KindInvalidToken, "token is not valid", cause)
}

func ExpiredToken(cause error) *Error {
	return New(KindExpiredToken, "token has expired", cause)
}

func Unauthenticated(message string, cause error) *Error {
	return New(KindUnauthenticated, message, cause)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Server(message string, cause error) *Error {
	return New(KindServer, message, cause)
}

// From classifies err, treating anything unclassified as a server error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server("internal server error", err)
}

// KindOf returns the kind of err, KindServer when unclassified or nil.
func KindOf(err error) Kind {
	if err == nil {
		return KindServer
	}
	return From(err).Kind
}
