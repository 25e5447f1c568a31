package web

import "github.com/google/uuid"

// RequestIDGenerator produces a new correlation id for an inbound request.
// NewRequestID (uuid.NewString) is the generator this package provides; a
// Dispatcher assigns no ids until its RequestIDs field is set. Tests and
// callers that want deterministic ids can supply their own.
type RequestIDGenerator func() string

// NewRequestID is the RequestIDGenerator this package provides, per SPEC_FULL's
// domain-stack table: github.com/google/uuid for dispatcher/logging
// correlation ids.
func NewRequestID() string {
	return uuid.NewString()
}
