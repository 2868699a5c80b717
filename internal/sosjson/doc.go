// Package sosjson encodes SOS responses into the JSON binding of the
// Sensor Observation Service.
//
// Documents are built as ordered trees of Node values. Key order is the
// insertion order and is part of the wire format. Repeatable properties
// follow the singleton collapse rule: a single value is written inline and
// two or more values are written as an array.
//
// Geometries are written GeoJSON style. A "crs" link object is only added
// when the reference system of a geometry differs from the one it inherits
// from its parent.
package sosjson
