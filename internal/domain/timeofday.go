package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time expressed as minutes from midnight.
// Slot arithmetic (grid alignment, travel offsets) stays in plain
// integer minutes; HH:MM strings appear only at the API and storage
// boundaries.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:MM" string (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse time of day: %q is not HH:MM", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse time of day: hours in %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("parse time of day: minutes in %q: %w", s, err)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("parse time of day: %q out of range", s)
	}

	return TimeOfDay(hours*60 + minutes), nil
}

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// AlignUp rounds the time up to the next multiple of step minutes.
// A time already on the grid is returned unchanged.
func (t TimeOfDay) AlignUp(step int) TimeOfDay {
	if step <= 0 {
		return t
	}
	rem := int(t) % step
	if rem == 0 {
		return t
	}
	return t + TimeOfDay(step-rem)
}
