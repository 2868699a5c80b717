package sos

import (
	"golang.org/x/text/language"

	"github.com/52North/SOS-sub013/internal/gml"
)

// Request is a parsed operation request.
type Request interface {
	OperationName() string
	ServiceVersion() string
}

// GetCapabilitiesRequest asks for the service metadata.
type GetCapabilitiesRequest struct {
	Sections        []string
	AcceptVersions  []string
	AcceptFormats   []string
	UpdateSequence  string
	AcceptLanguages []language.Tag
}

// DescribeSensorRequest asks for the description of a procedure.
type DescribeSensorRequest struct {
	Version                    string
	Procedure                  string
	ProcedureDescriptionFormat string

	// ValidTime restricts the descriptions to those valid at the instant or
	// during the period.
	ValidTime gml.Time
}

// GetObservationRequest asks for observations.
type GetObservationRequest struct {
	Version            string
	Offerings          []string
	Procedures         []string
	ObservedProperties []string
	FeaturesOfInterest []string
	TemporalFilter     *gml.TimePeriod
	SpatialFilter      *gml.Envelope
	ResponseFormat     string
}

// GetFeatureOfInterestRequest asks for features of interest.
type GetFeatureOfInterestRequest struct {
	Version            string
	Procedures         []string
	ObservedProperties []string
	FeaturesOfInterest []string
	SpatialFilter      *gml.Envelope
}

// GetResultTemplateRequest asks for the structure of the results of an
// offering and observed property.
type GetResultTemplateRequest struct {
	Version          string
	Offering         string
	ObservedProperty string
}

// GetResultRequest asks for result values encoded as described by the
// result template.
type GetResultRequest struct {
	Version            string
	Offering           string
	ObservedProperty   string
	FeaturesOfInterest []string
	TemporalFilter     *gml.TimePeriod
	SpatialFilter      *gml.Envelope
}

func (*GetCapabilitiesRequest) OperationName() string      { return OpGetCapabilities }
func (*DescribeSensorRequest) OperationName() string       { return OpDescribeSensor }
func (*GetObservationRequest) OperationName() string       { return OpGetObservation }
func (*GetFeatureOfInterestRequest) OperationName() string { return OpGetFeatureOfInterest }
func (*GetResultTemplateRequest) OperationName() string    { return OpGetResultTemplate }
func (*GetResultRequest) OperationName() string            { return OpGetResult }

// ServiceVersion returns the negotiated version, which is always
// Version200 once the request was accepted.
func (*GetCapabilitiesRequest) ServiceVersion() string        { return Version200 }
func (r *DescribeSensorRequest) ServiceVersion() string       { return r.Version }
func (r *GetObservationRequest) ServiceVersion() string       { return r.Version }
func (r *GetFeatureOfInterestRequest) ServiceVersion() string { return r.Version }
func (r *GetResultTemplateRequest) ServiceVersion() string    { return r.Version }
func (r *GetResultRequest) ServiceVersion() string            { return r.Version }
