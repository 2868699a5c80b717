// Package gml holds the small GML building blocks shared by the SOS domain
// model: coded names and identifiers, time primitives, references and
// envelopes.
package gml
