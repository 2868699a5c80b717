package gml

import "math"

// Envelope is a two dimensional bounding box in the reference system SRID.
type Envelope struct {
	LowerLeft  [2]float64
	UpperRight [2]float64
	SRID       int
}

// NewEnvelope returns an empty envelope in srid.
func NewEnvelope(srid int) *Envelope {
	return &Envelope{
		LowerLeft:  [2]float64{math.Inf(1), math.Inf(1)},
		UpperRight: [2]float64{math.Inf(-1), math.Inf(-1)},
		SRID:       srid,
	}
}

// IsEmpty reports whether no coordinate was added yet.
func (e *Envelope) IsEmpty() bool {
	return e == nil || e.LowerLeft[0] > e.UpperRight[0] || e.LowerLeft[1] > e.UpperRight[1]
}

// ExpandToInclude grows the envelope to contain the point (x, y).
func (e *Envelope) ExpandToInclude(x, y float64) {
	e.LowerLeft[0] = math.Min(e.LowerLeft[0], x)
	e.LowerLeft[1] = math.Min(e.LowerLeft[1], y)
	e.UpperRight[0] = math.Max(e.UpperRight[0], x)
	e.UpperRight[1] = math.Max(e.UpperRight[1], y)
}

// Intersects reports whether the two envelopes share at least one point.
func (e *Envelope) Intersects(o *Envelope) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}
	return e.LowerLeft[0] <= o.UpperRight[0] && o.LowerLeft[0] <= e.UpperRight[0] &&
		e.LowerLeft[1] <= o.UpperRight[1] && o.LowerLeft[1] <= e.UpperRight[1]
}
