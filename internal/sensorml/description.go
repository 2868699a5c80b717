package sensorml

import (
	"github.com/twpayne/go-geom"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/swe"
)

// Format is the procedure description format of SensorML 2.0.
const Format = "http://www.opengis.net/sensorml/2.0"

// Description is the description of a procedure, valid for ValidTime.
type Description struct {
	Identifier  string
	Names       []gml.CodeType
	Description string
	Keywords    []string
	ValidTime   *gml.TimePeriod
	Outputs     []swe.Field
	Position    geom.T
}
