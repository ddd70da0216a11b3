// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     version
// Description: Central version management
// Author:      Mike Stoffels
// Created:     2026-09-22
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants
const (
	// Application version
	App = "1.0.0"

	// Component versions
	Engine     = "1.0.0"
	Visualizer = "0.9.0"
)

// Set at build time via -ldflags "-X github.com/msto63/mcpi/pkg/core/version.Commit=..."
var Commit = "dev"

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "engine":
		return Engine
	case "visualizer":
		return Visualizer
	default:
		return App
	}
}

// String returns the full version line
func String() string {
	return fmt.Sprintf("mcpi %s (engine %s, visualizer %s, commit %s)", App, Engine, Visualizer, Commit)
}
