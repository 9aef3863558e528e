/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable, machine readable classification of an authorization failure.
type Kind string

// Error kinds. Parse-stage and proof-stage kinds are never retryable, delivery-stage kinds may be.
const (
	KindMalformedPayload     Kind = "MalformedPayload"
	KindInvalidJSON          Kind = "InvalidJson"
	KindMissingField         Kind = "MissingField"
	KindUnsupportedCircuit   Kind = "UnsupportedCircuit"
	KindNoMatchingCredential Kind = "NoMatchingCredential"
	KindProverFailure        Kind = "ProverFailure"
	KindNetworkUnavailable   Kind = "NetworkUnavailable"
	KindDeliveryTimeout      Kind = "DeliveryTimeout"
	KindRejectedByVerifier   Kind = "RejectedByVerifier"
	KindWalletNotInitialized Kind = "WalletNotInitialized"
	KindSessionBusy          Kind = "SessionBusy"
	KindCancelled            Kind = "Cancelled"
	KindInternal             Kind = "Internal"
)

// Sentinels for errors.Is comparisons. They match any *Error of the same kind.
var (
	ErrMalformedPayload     = &Error{Kind: KindMalformedPayload}
	ErrInvalidJSON          = &Error{Kind: KindInvalidJSON}
	ErrMissingField         = &Error{Kind: KindMissingField}
	ErrUnsupportedCircuit   = &Error{Kind: KindUnsupportedCircuit}
	ErrNoMatchingCredential = &Error{Kind: KindNoMatchingCredential}
	ErrProverFailure        = &Error{Kind: KindProverFailure}
	ErrNetworkUnavailable   = &Error{Kind: KindNetworkUnavailable}
	ErrDeliveryTimeout      = &Error{Kind: KindDeliveryTimeout}
	ErrRejectedByVerifier   = &Error{Kind: KindRejectedByVerifier}
	ErrWalletNotInitialized = &Error{Kind: KindWalletNotInitialized}
	ErrSessionBusy          = &Error{Kind: KindSessionBusy}
	ErrCancelled            = &Error{Kind: KindCancelled}
)

// Error is an authorization protocol failure carrying its Kind.
type Error struct {
	Kind Kind
	// StatusCode is the verifier's HTTP status, only set for KindRejectedByVerifier.
	StatusCode int
	Err        error
}

// NewError creates an Error of the given kind with a formatted cause.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WrapError wraps err with the given kind. A nil err yields nil.
func WrapError(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Err: err}
}

// RejectedByVerifier creates a KindRejectedByVerifier error for the given HTTP status.
func RejectedByVerifier(statusCode int, format string, args ...interface{}) *Error {
	return &Error{Kind: KindRejectedByVerifier, StatusCode: statusCode, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := string(e.Kind)

	if e.Kind == KindRejectedByVerifier && e.StatusCode != 0 {
		msg = fmt.Sprintf("%s(%d)", msg, e.StatusCode)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// KindOf extracts the Kind of err. Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// IsRetryable reports whether re-sending the same response may succeed.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Kind {
	case KindNetworkUnavailable, KindDeliveryTimeout:
		return true
	case KindRejectedByVerifier:
		return e.StatusCode == http.StatusRequestTimeout ||
			e.StatusCode == http.StatusTooManyRequests ||
			e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}
