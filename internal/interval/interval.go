// Package interval defines the half-open time interval used for room
// reservations.  Every component that reasons about booking conflicts
// (the reservation stores, the availability engine, the handlers) must
// go through the predicates in this package so that conflict semantics
// stay identical everywhere: an interval covers [Start, End) and two
// intervals conflict only when they truly share at least one instant.
// A reservation ending exactly when another starts does not conflict.
package interval

import (
	"errors"
	"time"
)

// DBFormat is the canonical textual format for interval bounds, both on
// the wire (the `time` query parameter, reservation payloads) and in the
// MySQL DATETIME columns.  All values are interpreted as UTC.
const DBFormat = "2006-01-02 15:04:05"

// ErrMalformedTime is returned by ParseTime when the input matches
// neither DBFormat nor RFC3339.
var ErrMalformedTime = errors.New("malformed time string")

// Interval is a half-open time range [Start, End).  Both bounds are
// stored in UTC truncated to whole seconds; use New to build one.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New normalizes the given bounds to UTC with second resolution and
// returns the resulting interval.  It performs no validity check; call
// IsValid before trusting the result.
func New(start, end time.Time) Interval {
	return Interval{
		Start: start.UTC().Truncate(time.Second),
		End:   end.UTC().Truncate(time.Second),
	}
}

// IsValid reports whether the interval is non-empty and forward,
// i.e. Start < End.
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

// Overlaps reports whether two intervals share at least one instant.
// The predicate is a.Start < b.End && b.Start < a.End; touching
// endpoints are not an overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether the instant falls inside the interval,
// including the start bound and excluding the end bound.
func (iv Interval) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// ParseTime parses a wire-format timestamp.  The canonical format is
// DBFormat ("YYYY-MM-DD HH:MM:SS", UTC); RFC3339 is accepted as well so
// that clients echoing our own responses back keep working.  On failure
// ErrMalformedTime is returned.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(DBFormat, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Truncate(time.Second), nil
	}
	return time.Time{}, ErrMalformedTime
}

// FormatDB renders a time in the canonical DB format in UTC.
func FormatDB(t time.Time) string {
	return t.UTC().Format(DBFormat)
}
