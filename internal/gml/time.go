package gml

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ISO8601Format is the layout used for every time value written by the
// service.
const ISO8601Format = "2006-01-02T15:04:05.000Z07:00"

// Indeterminate time positions.
const (
	IndeterminateNow     = "now"
	IndeterminateUnknown = "unknown"
	IndeterminateBefore  = "before"
	IndeterminateAfter   = "after"
)

// ErrInvalidTime is returned when a time string cannot be parsed.
var ErrInvalidTime = errors.New("invalid time")

// Time is a gml time object: either a TimeInstant or a TimePeriod.
type Time interface {
	// Bounds returns the first and last instant covered by the time.
	Bounds() (TimeInstant, TimeInstant)
	isTime()
}

// TimeInstant is a single position in time, possibly indeterminate.
type TimeInstant struct {
	Value         time.Time
	Indeterminate string
}

// NewTimeInstant returns an instant at t.
func NewTimeInstant(t time.Time) TimeInstant {
	return TimeInstant{Value: t}
}

func (TimeInstant) isTime() {}

// Bounds returns the instant twice.
func (t TimeInstant) Bounds() (TimeInstant, TimeInstant) {
	return t, t
}

// IsSet reports whether the instant has a value or an indeterminate position.
func (t TimeInstant) IsSet() bool {
	return !t.Value.IsZero() || t.Indeterminate != ""
}

// String formats the instant as ISO-8601, or returns the indeterminate
// position when there is no value.
func (t TimeInstant) String() string {
	if t.Value.IsZero() {
		return t.Indeterminate
	}
	return t.Value.Format(ISO8601Format)
}

// Before reports whether t is strictly before o. Instants without a value
// are never before anything.
func (t TimeInstant) Before(o TimeInstant) bool {
	if t.Value.IsZero() || o.Value.IsZero() {
		return false
	}
	return t.Value.Before(o.Value)
}

// TimePeriod is a gml:TimePeriod with begin and end positions.
type TimePeriod struct {
	Start TimeInstant
	End   TimeInstant
}

// NewTimePeriod returns the period [start, end].
func NewTimePeriod(start, end time.Time) TimePeriod {
	return TimePeriod{Start: NewTimeInstant(start), End: NewTimeInstant(end)}
}

func (TimePeriod) isTime() {}

// Bounds returns start and end.
func (p TimePeriod) Bounds() (TimeInstant, TimeInstant) {
	return p.Start, p.End
}

// IsSet reports whether either boundary is set.
func (p TimePeriod) IsSet() bool {
	return p.Start.IsSet() || p.End.IsSet()
}

// Extend grows the period so that it covers t.
func (p *TimePeriod) Extend(t Time) {
	if t == nil {
		return
	}
	start, end := t.Bounds()
	if !p.Start.IsSet() || start.Before(p.Start) {
		p.Start = start
	}
	if !p.End.IsSet() || p.End.Before(end) {
		p.End = end
	}
}

// Contains reports whether the instant lies within the period, both ends
// inclusive.
func (p TimePeriod) Contains(t TimeInstant) bool {
	if t.Value.IsZero() {
		return false
	}
	if !p.Start.Value.IsZero() && t.Value.Before(p.Start.Value) {
		return false
	}
	if !p.End.Value.IsZero() && t.Value.After(p.End.Value) {
		return false
	}
	return true
}

// Overlaps reports whether t shares at least one instant with the period.
func (p TimePeriod) Overlaps(t Time) bool {
	start, end := t.Bounds()
	if !p.End.Value.IsZero() && !start.Value.IsZero() && start.Value.After(p.End.Value) {
		return false
	}
	if !p.Start.Value.IsZero() && !end.Value.IsZero() && end.Value.Before(p.Start.Value) {
		return false
	}
	return true
}

// ParseTime parses an ISO-8601 instant ("2012-11-19T13:00:00Z") or an
// ISO-8601 interval ("start/end") into a Time.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if start, end, ok := strings.Cut(s, "/"); ok {
		a, err := ParseInstant(start)
		if err != nil {
			return nil, err
		}
		b, err := ParseInstant(end)
		if err != nil {
			return nil, err
		}
		return TimePeriod{Start: a, End: b}, nil
	}
	return ParseInstant(s)
}

// ParseInstant parses an ISO-8601 instant or an indeterminate position.
func ParseInstant(s string) (TimeInstant, error) {
	s = strings.TrimSpace(s)
	switch s {
	case IndeterminateNow:
		return TimeInstant{Value: time.Now().UTC(), Indeterminate: IndeterminateNow}, nil
	case IndeterminateUnknown, IndeterminateBefore, IndeterminateAfter:
		return TimeInstant{Indeterminate: s}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, ISO8601Format, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeInstant{Value: t}, nil
		}
	}
	return TimeInstant{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
