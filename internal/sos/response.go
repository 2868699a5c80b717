package sos

import (
	"github.com/52North/SOS-sub013/internal/om"
	"github.com/52North/SOS-sub013/internal/ows"
	"github.com/52North/SOS-sub013/internal/sensorml"
	"github.com/52North/SOS-sub013/internal/swe"
)

// Response is the result of an operation.
type Response interface {
	OperationName() string
	ServiceVersion() string
}

// GetCapabilitiesResponse carries the service metadata.
type GetCapabilitiesResponse struct {
	Version      string
	Capabilities *ows.Capabilities
}

// DescribeSensorResponse carries the descriptions of a procedure, one per
// validity period.
type DescribeSensorResponse struct {
	Version                    string
	ProcedureDescriptionFormat string
	Descriptions               []*sensorml.Description
}

// GetObservationResponse carries the matching observations.
type GetObservationResponse struct {
	Version      string
	Observations []*om.Observation
}

// GetFeatureOfInterestResponse carries the matching features.
type GetFeatureOfInterestResponse struct {
	Version  string
	Features []om.Feature
}

// GetResultTemplateResponse carries the structure and encoding of results
// returned by GetResult.
type GetResultTemplateResponse struct {
	Version         string
	ResultStructure *swe.DataRecord
	ResultEncoding  swe.TextEncoding
}

// GetResultResponse carries encoded result values.
type GetResultResponse struct {
	Version      string
	ResultValues string
}

func (*GetCapabilitiesResponse) OperationName() string      { return OpGetCapabilities }
func (*DescribeSensorResponse) OperationName() string       { return OpDescribeSensor }
func (*GetObservationResponse) OperationName() string       { return OpGetObservation }
func (*GetFeatureOfInterestResponse) OperationName() string { return OpGetFeatureOfInterest }
func (*GetResultTemplateResponse) OperationName() string    { return OpGetResultTemplate }
func (*GetResultResponse) OperationName() string            { return OpGetResult }

func (r *GetCapabilitiesResponse) ServiceVersion() string      { return r.Version }
func (r *DescribeSensorResponse) ServiceVersion() string       { return r.Version }
func (r *GetObservationResponse) ServiceVersion() string       { return r.Version }
func (r *GetFeatureOfInterestResponse) ServiceVersion() string { return r.Version }
func (r *GetResultTemplateResponse) ServiceVersion() string    { return r.Version }
func (r *GetResultResponse) ServiceVersion() string            { return r.Version }
