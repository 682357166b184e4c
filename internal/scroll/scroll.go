// Package scroll applies scroll specifications to adjustment ranges.
package scroll

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Target is the subset of webtypes.Adjustment that scrolling needs.
type Target interface {
	Lower() float64
	Upper() float64
	PageSize() float64
	Value() float64
	SetValue(float64)
}

// Adjustment is an in-memory scroll range. It stands in for an engine that
// does not expose its own scroll state and is what the tests drive.
type Adjustment struct {
	mu       sync.Mutex
	lower    float64
	upper    float64
	pageSize float64
	value    float64
}

// NewAdjustment creates an adjustment positioned at lower.
func NewAdjustment(lower, upper, pageSize float64) *Adjustment {
	return &Adjustment{lower: lower, upper: upper, pageSize: pageSize, value: lower}
}

// Lower returns the minimum value.
func (a *Adjustment) Lower() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lower
}

// Upper returns the maximum value.
func (a *Adjustment) Upper() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.upper
}

// PageSize returns the size of the visible page.
func (a *Adjustment) PageSize() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pageSize
}

// Value returns the current position.
func (a *Adjustment) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// SetValue moves the position without clamping.
func (a *Adjustment) SetValue(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = v
}

// SetBounds updates the range, keeping the current position.
func (a *Adjustment) SetBounds(lower, upper, pageSize float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lower, a.upper, a.pageSize = lower, upper, pageSize
}

// Apply moves t according to spec:
//
//	begin   to the lower bound
//	end     to upper - page size
//	N%      by N percent of the page size
//	N       by N pixels
//
// The result is clamped to [lower, upper - page size].
func Apply(t Target, spec string) error {
	spec = strings.TrimSpace(spec)
	lower, upper, page := t.Lower(), t.Upper(), t.PageSize()
	maxValue := upper - page
	if maxValue < lower {
		maxValue = lower
	}

	var target float64
	switch {
	case spec == "begin":
		target = lower
	case spec == "end":
		target = maxValue
	case strings.HasSuffix(spec, "%"):
		percent, err := strconv.ParseFloat(strings.TrimSuffix(spec, "%"), 64)
		if err != nil {
			return fmt.Errorf("invalid scroll percentage %q", spec)
		}
		target = t.Value() + page*percent/100
	default:
		delta, err := strconv.ParseFloat(spec, 64)
		if err != nil {
			return fmt.Errorf("invalid scroll amount %q", spec)
		}
		target = t.Value() + delta
	}

	t.SetValue(clamp(target, lower, maxValue))
	return nil
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
