package relay

import (
	"encoding/json"
	"net/http"
)

// FailureKind represents the class of a relay failure.
// Callers are expected to switch over it exhaustively instead of inspecting messages.
type FailureKind int

const (
	// FailureUnauthorized means no valid session was supplied; the backend was never contacted
	FailureUnauthorized FailureKind = iota

	// FailureTokenMint means the service credential could not be minted; the backend was never contacted
	FailureTokenMint

	// FailureBackendRejected means the backend returned a non-success status
	FailureBackendRejected

	// FailureTransport means no response was obtained from the backend at all
	FailureTransport
)

// Failure represents the failure branch of a relay result
type Failure struct {
	// Kind classifies the failure
	Kind FailureKind

	// Status is the HTTP status the client should receive
	Status int

	// SourceStatus preserves the backend's original HTTP status.
	// It is only set for backend-originated failures and is 0 for locally generated ones.
	SourceStatus int

	// Message is the client-facing failure message.
	// For backend-originated failures this is the raw response body text; locally
	// generated failures always carry a fixed message that never exposes the cause.
	Message string
}

// Result represents the normalized outcome of a single relay invocation
type Result struct {
	// Payload is the backend's JSON response payload.
	// It is nil on failure and on success responses with an empty body.
	Payload json.RawMessage

	// Failure describes why the invocation failed; nil on success
	Failure *Failure
}

// OK returns whether the relay invocation succeeded
func (result Result) OK() bool {
	return result.Failure == nil
}

func succeed(payload json.RawMessage) Result {
	return Result{Payload: payload}
}

func reject(kind FailureKind, status, sourceStatus int, message string) Result {
	return Result{Failure: &Failure{
		Kind:         kind,
		Status:       status,
		SourceStatus: sourceStatus,
		Message:      message,
	}}
}

func rejectInternal(kind FailureKind) Result {
	return reject(kind, http.StatusInternalServerError, 0, "internal error")
}
