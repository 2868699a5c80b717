// Package server provides the HTTP binding of the service.
//
// GET requests on the service path are decoded from key-value pairs and
// POST requests from a JSON body. Responses are always JSON; exception
// reports are written as JSON or XML depending on the Accept header. When
// enabled, the settings administration API is served below
// /admin/settings.
package server
