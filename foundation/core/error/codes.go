// File: codes.go
// Title: Error Code Definitions
// Description: Classification codes for mcpi errors. Codes are stable strings
//              so they can be logged, exported as metric labels and compared
//              by callers.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-21
// Modified: 2026-10-12
//
// Change History:
// - 2026-09-21 v0.1.0: Initial code set
// - 2026-10-12 v0.2.0: Added estimation and cancellation codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeCancelled        Code = "CANCELLED"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Estimation engine
	CodeEstimationFailed Code = "ESTIMATION_FAILED"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeInvalidOperation, CodeCancelled,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeEstimationFailed:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeEstimationFailed:
		return "estimation"
	case CodeCancelled:
		return "lifecycle"
	default:
		return "generic"
	}
}
