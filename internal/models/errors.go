package models

import "fmt"

// The calculator error taxonomy. Handlers map these to HTTP statuses:
// ValidationError and RangeError → 400, DataUnavailableError → 404,
// ComputationError → 422, UpstreamError → 502 (504 on timeout).

// ValidationError reports malformed or out-of-domain request input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "Validation Failed: " + e.Msg
}

// NewValidationError formats a new ValidationError.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RangeError reports a requested period outside the scheme's NAV history.
// The bounds give callers enough context to correct the request.
type RangeError struct {
	Msg             string
	EarliestNAVDate string
	LatestNAVDate   string
	RequestedFrom   string
	RequestedTo     string
}

func (e *RangeError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "Date Range Error: Requested dates are outside the scheme's NAV history."
}

// DataUnavailableError reports missing or insufficient NAV data for a scheme,
// or a lookup that resolved no usable NAV point.
type DataUnavailableError struct {
	Msg string
}

func (e *DataUnavailableError) Error() string {
	return e.Msg
}

// NewDataUnavailableError formats a new DataUnavailableError.
func NewDataUnavailableError(format string, args ...interface{}) *DataUnavailableError {
	return &DataUnavailableError{Msg: fmt.Sprintf(format, args...)}
}

// ComputationError reports inputs that passed validation but make the
// calculation impossible, such as an unresolvable initial purchase NAV.
type ComputationError struct {
	Msg string
}

func (e *ComputationError) Error() string {
	return e.Msg
}

// NewComputationError formats a new ComputationError.
func NewComputationError(format string, args ...interface{}) *ComputationError {
	return &ComputationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError reports a provider failure. Timeout distinguishes slow
// upstreams (504) from other failures (502).
type UpstreamError struct {
	Msg     string
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
