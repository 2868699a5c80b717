// Package sensorml describes procedures and writes them as SensorML 2.0
// PhysicalSystem documents.
package sensorml
