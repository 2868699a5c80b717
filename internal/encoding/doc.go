// Package encoding provides the JSON and XML codecs of the SOS and content
// type negotiation for responses whose format is not fixed by the
// operation, such as exception reports.
//
// JSON is written with github.com/goccy/go-json. Values implementing
// json.Marshaler, such as the ordered documents built by package sosjson,
// are written as they render themselves and re-indented when pretty
// printing is enabled.
//
// All codecs and negotiators are safe for concurrent use.
package encoding
