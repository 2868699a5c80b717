// Package om implements the Observations & Measurements model served by the
// SOS: observations, their typed result values, parameters and features of
// interest.
//
// Value is a closed union. TLVTValue and UnknownValue are part of the union
// so that producers can represent them, but no encoder supports them.
package om
