// Package catalog provides the read-only observation repository served by
// the SOS. A catalog is loaded from a YAML document listing procedures,
// features of interest, offerings and observations; offering extents are
// derived from the observations.
package catalog
