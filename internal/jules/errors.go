// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

package jules

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error so callers (and the LLM host behind a tool
// call) can decide how to react without parsing message text.
type Kind string

const (
	// KindInvalidArgument is a local validation failure: malformed resource
	// name, missing required field. No request was sent upstream.
	KindInvalidArgument Kind = "invalid_argument"
	// KindNotFound maps upstream 404.
	KindNotFound Kind = "not_found"
	// KindUnauthenticated maps upstream 401, typically a bad API key.
	KindUnauthenticated Kind = "unauthenticated"
	// KindPermissionDenied maps upstream 403.
	KindPermissionDenied Kind = "permission_denied"
	// KindUpstream is any other non-2xx response.
	KindUpstream Kind = "upstream"
	// KindTransport is a network or timeout failure before any response
	// was received.
	KindTransport Kind = "transport"
)

// Error is the structured error returned by all Client methods.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for local and transport errors
	Message string
	Body    string // raw upstream error payload, if any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("jules: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	case e.cause != nil:
		return fmt.Sprintf("jules: %s: %s: %v", e.Kind, e.Message, e.cause)
	default:
		return fmt.Sprintf("jules: %s: %s", e.Kind, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is checks
// (e.g. context.DeadlineExceeded on timeouts).
func (e *Error) Unwrap() error { return e.cause }

// IsInvalidArgument reports whether err is a local validation failure.
func IsInvalidArgument(err error) bool { return hasKind(err, KindInvalidArgument) }

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsUnauthenticated reports whether err is an upstream 401.
func IsUnauthenticated(err error) bool { return hasKind(err, KindUnauthenticated) }

// IsPermissionDenied reports whether err is an upstream 403.
func IsPermissionDenied(err error) bool { return hasKind(err, KindPermissionDenied) }

// IsTransport reports whether err is a network/timeout failure.
func IsTransport(err error) bool { return hasKind(err, KindTransport) }

func hasKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// invalidArgf builds a local validation error. Nothing is sent upstream.
func invalidArgf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// transportErr wraps a failure that happened before a response arrived.
func transportErr(err error) *Error {
	return &Error{Kind: KindTransport, Message: "request failed", cause: err}
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindPermissionDenied
	default:
		return KindUpstream
	}
}

// googleErrorBody is the standard Google API error envelope.
type googleErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// apiError builds an Error from a non-2xx response body. It pulls the
// message out of the Google error envelope when present and keeps the raw
// payload for callers that want it.
func apiError(status int, body []byte) *Error {
	msg := http.StatusText(status)
	var ge googleErrorBody
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Message != "" {
		msg = ge.Error.Message
	}
	return &Error{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: msg,
		Body:    string(body),
	}
}
