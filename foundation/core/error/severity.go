// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick the log level of an error and to
//              decide whether a failure should abort an experiment run.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-21
// Modified: 2026-09-21
//
// Change History:
// - 2026-09-21 v0.1.0: Initial implementation with severity levels

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates rejected input; nothing was executed
	SeverityLow Severity = iota

	// SeverityMedium indicates a recoverable failure
	SeverityMedium

	// SeverityHigh indicates a failed computation
	SeverityHigh

	// SeverityCritical indicates an internal invariant was broken
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical

	case CodeEstimationFailed:
		return SeverityHigh

	case CodeInvalidConfig, CodeInvalidInput, CodeMissingConfig, CodeNotFound, CodeCancelled:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
