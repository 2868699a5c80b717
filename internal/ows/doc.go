// Package ows holds the OGC Web Services Common metadata consumed by the
// capabilities encoder: service identification and provider, operations
// metadata, SOS contents, filter capabilities, extensions and exception
// reports.
//
// Optional sections are pointers or slices; an unset section is nil or empty
// and is omitted from encoded output.
package ows
