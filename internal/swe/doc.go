// Package swe implements the subset of the OGC SWE Common 2.0 data model used
// by the service: simple components (Boolean, Count, Quantity, Category,
// Text, Time and their range variants), data records and data arrays with a
// text encoding.
//
// DataComponent is a closed set: every kind is declared in this package and
// consumers dispatch on it with a type switch whose default arm reports the
// kind as unsupported.
package swe
