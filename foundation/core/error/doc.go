// Package error provides the coded error type used across mcpi.
//
// Package: error
// Title: mcpi Error Handling
// Description: Structured errors with a classification code, a severity,
//              free-form details and the operation that produced them. The
//              estimation engine reports configuration problems and worker
//              failures through this type so callers can branch on the code
//              instead of parsing messages.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-21
// Modified: 2026-10-12
//
// Change History:
// - 2026-09-21 v0.1.0: Coded errors with severity and details
// - 2026-10-12 v0.2.0: Chain-aware HasCode, engine codes
//
// Usage:
//
//	import mcerror "github.com/msto63/mcpi/foundation/core/error"
//
//	err := mcerror.New("totalPoints must be > 0").
//		WithCode(mcerror.CodeInvalidConfig).
//		WithOperation("estimator.Sequential.Estimate").
//		WithDetail("totalPoints", cfg.TotalPoints)
//
//	if mcerror.HasCode(err, mcerror.CodeInvalidConfig) {
//		// reject before any work was dispatched
//	}
package error
