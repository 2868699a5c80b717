// Package config loads and validates the YAML configuration of the SOS
// server and watches configuration files for changes.
//
// Configuration files support environment variable substitution with the
// ${VAR} and ${VAR:-default} syntax; "$$" escapes a literal dollar sign.
// Durations are written in Go syntax ("30s", "5m").
//
// The Watcher type is generic over the loaded document so that the same
// debounce logic serves both the service configuration and the settings
// file of the file store.
package config
