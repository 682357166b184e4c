// Package webtypes defines the capability interfaces and shared value types used by webshell.
// This file contains the narrow interfaces through which the command core consumes its external
// collaborators: the rendering engine, the shell, and the scrollbar adjustments.
package webtypes

import (
	"context"
	"fmt"
	"strings"
)

// Engine is the rendering-engine capability consumed by the command core.
// Implementations evaluate script in the current page, navigate, and expose the zoom level.
type Engine interface {
	// EvaluateScript runs script in the current page and returns its string form.
	EvaluateScript(ctx context.Context, script string) (string, error)
	// Navigate loads uri in the current page.
	Navigate(ctx context.Context, uri string) error
	// Zoom returns the current zoom level (1.0 is unscaled).
	Zoom() float64
	// SetZoom changes the zoom level.
	SetZoom(level float64) error
	// Version reports the engine version, e.g. "120.0.6099".
	Version() string
}

// Navigator is implemented by engines that keep a navigation history.
type Navigator interface {
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Reload(ctx context.Context, bypassCache bool) error
	Stop(ctx context.Context) error
}

// Shell runs commands on behalf of sync_sh, sh, spawn and @(...)@ substitutions.
// Run blocks until the command exits.
type Shell interface {
	// Run executes script with positional args and returns what it wrote to stdout.
	// A non-zero exit returns the captured stdout together with an error.
	Run(ctx context.Context, script string, args ...string) (string, error)
	// Spawn executes argv[0] directly, without a shell, and returns its stdout.
	Spawn(ctx context.Context, argv []string) (string, error)
}

// Adjustment is a scrollbar adjustment: a value bounded by lower and upper with a page size.
type Adjustment interface {
	Lower() float64
	Upper() float64
	PageSize() float64
	Value() float64
	SetValue(value float64)
}

// Axis names a scroll direction.
type Axis string

const (
	// AxisHorizontal scrolls left and right.
	AxisHorizontal Axis = "horizontal"
	// AxisVertical scrolls up and down.
	AxisVertical Axis = "vertical"
)

// ParseAxis converts the textual axis used by the scroll command.
func ParseAxis(text string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "horizontal", "h", "x":
		return AxisHorizontal, nil
	case "vertical", "v", "y":
		return AxisVertical, nil
	default:
		return "", fmt.Errorf("unknown scroll axis %q", text)
	}
}

// Scrollable is implemented by engines that expose their own scroll state.
type Scrollable interface {
	Adjustment(axis Axis) Adjustment
}
