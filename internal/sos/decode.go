package sos

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/ows"
)

// Request parameter names.
const (
	ParamService                    = "service"
	ParamRequest                    = "request"
	ParamVersion                    = "version"
	ParamAcceptVersions             = "acceptVersions"
	ParamAcceptFormats              = "acceptFormats"
	ParamAcceptLanguages            = "acceptLanguages"
	ParamSections                   = "sections"
	ParamUpdateSequence             = "updateSequence"
	ParamProcedure                  = "procedure"
	ParamProcedureDescriptionFormat = "procedureDescriptionFormat"
	ParamValidTime                  = "validTime"
	ParamOffering                   = "offering"
	ParamObservedProperty           = "observedProperty"
	ParamFeatureOfInterest          = "featureOfInterest"
	ParamTemporalFilter             = "temporalFilter"
	ParamSpatialFilter              = "spatialFilter"
	ParamResponseFormat             = "responseFormat"
)

// Value references accepted by the filters.
const (
	ValueReferencePhenomenonTime = "om:phenomenonTime"
	ValueReferenceSamplingShape  = "om:featureOfInterest/*/sams:shape"
)

var capabilitiesSections = []string{
	ows.SectionServiceIdentification,
	ows.SectionServiceProvider,
	ows.SectionOperationsMetadata,
	ows.SectionFilterCapabilities,
	ows.SectionContents,
	ows.SectionExtensions,
	ows.SectionAll,
}

// params is the binding independent view of request parameters.
type params interface {
	get(name string) string
	list(name string) []string
	temporalFilter() (*gml.TimePeriod, error)
	spatialFilter() (*gml.Envelope, error)
}

// decode builds the request described by p.
func decode(p params) (Request, error) {
	operation := p.get(ParamRequest)
	if operation == "" {
		return nil, ows.MissingParameter(ParamRequest)
	}
	if !slices.Contains(Operations, operation) {
		return nil, ows.NewException(ows.CodeOperationNotSupported, ParamRequest,
			"the operation '%s' is not supported", operation)
	}

	switch service := p.get(ParamService); {
	case service == "":
		return nil, ows.MissingParameter(ParamService)
	case service != ServiceType:
		return nil, ows.InvalidParameter(ParamService, service)
	}

	if operation == OpGetCapabilities {
		return decodeGetCapabilities(p)
	}

	switch version := p.get(ParamVersion); {
	case version == "":
		return nil, ows.MissingParameter(ParamVersion)
	case version != Version200:
		return nil, ows.InvalidParameter(ParamVersion, version)
	}

	switch operation {
	case OpDescribeSensor:
		return decodeDescribeSensor(p)
	case OpGetObservation:
		return decodeGetObservation(p)
	case OpGetFeatureOfInterest:
		return decodeGetFeatureOfInterest(p)
	case OpGetResultTemplate:
		return decodeGetResultTemplate(p)
	default:
		return decodeGetResult(p)
	}
}

func decodeGetCapabilities(p params) (*GetCapabilitiesRequest, error) {
	req := &GetCapabilitiesRequest{
		AcceptVersions: p.list(ParamAcceptVersions),
		AcceptFormats:  p.list(ParamAcceptFormats),
		Sections:       p.list(ParamSections),
		UpdateSequence: p.get(ParamUpdateSequence),
	}
	if len(req.AcceptVersions) > 0 && !slices.Contains(req.AcceptVersions, Version200) {
		return nil, ows.NewException(ows.CodeVersionNegotiation, ParamAcceptVersions,
			"none of the accepted versions %s is supported", strings.Join(req.AcceptVersions, ", "))
	}
	for _, s := range req.Sections {
		if !slices.Contains(capabilitiesSections, s) {
			return nil, ows.InvalidParameter(ParamSections, s)
		}
	}
	for _, l := range p.list(ParamAcceptLanguages) {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, ows.InvalidParameter(ParamAcceptLanguages, l)
		}
		req.AcceptLanguages = append(req.AcceptLanguages, tag)
	}
	return req, nil
}

func decodeDescribeSensor(p params) (*DescribeSensorRequest, error) {
	req := &DescribeSensorRequest{
		Version:                    Version200,
		Procedure:                  p.get(ParamProcedure),
		ProcedureDescriptionFormat: p.get(ParamProcedureDescriptionFormat),
	}
	if req.Procedure == "" {
		return nil, ows.MissingParameter(ParamProcedure)
	}
	if req.ProcedureDescriptionFormat == "" {
		return nil, ows.MissingParameter(ParamProcedureDescriptionFormat)
	}
	if v := p.get(ParamValidTime); v != "" {
		t, err := gml.ParseTime(v)
		if err != nil {
			return nil, invalidCause(ParamValidTime, v, err)
		}
		req.ValidTime = t
	}
	return req, nil
}

func decodeGetObservation(p params) (*GetObservationRequest, error) {
	temporal, err := p.temporalFilter()
	if err != nil {
		return nil, err
	}
	spatial, err := p.spatialFilter()
	if err != nil {
		return nil, err
	}
	return &GetObservationRequest{
		Version:            Version200,
		Offerings:          p.list(ParamOffering),
		Procedures:         p.list(ParamProcedure),
		ObservedProperties: p.list(ParamObservedProperty),
		FeaturesOfInterest: p.list(ParamFeatureOfInterest),
		TemporalFilter:     temporal,
		SpatialFilter:      spatial,
		ResponseFormat:     p.get(ParamResponseFormat),
	}, nil
}

func decodeGetFeatureOfInterest(p params) (*GetFeatureOfInterestRequest, error) {
	spatial, err := p.spatialFilter()
	if err != nil {
		return nil, err
	}
	return &GetFeatureOfInterestRequest{
		Version:            Version200,
		Procedures:         p.list(ParamProcedure),
		ObservedProperties: p.list(ParamObservedProperty),
		FeaturesOfInterest: p.list(ParamFeatureOfInterest),
		SpatialFilter:      spatial,
	}, nil
}

func decodeGetResultTemplate(p params) (*GetResultTemplateRequest, error) {
	req := &GetResultTemplateRequest{
		Version:          Version200,
		Offering:         p.get(ParamOffering),
		ObservedProperty: p.get(ParamObservedProperty),
	}
	if req.Offering == "" {
		return nil, ows.MissingParameter(ParamOffering)
	}
	if req.ObservedProperty == "" {
		return nil, ows.MissingParameter(ParamObservedProperty)
	}
	return req, nil
}

func decodeGetResult(p params) (*GetResultRequest, error) {
	req := &GetResultRequest{
		Version:            Version200,
		Offering:           p.get(ParamOffering),
		ObservedProperty:   p.get(ParamObservedProperty),
		FeaturesOfInterest: p.list(ParamFeatureOfInterest),
	}
	if req.Offering == "" {
		return nil, ows.MissingParameter(ParamOffering)
	}
	if req.ObservedProperty == "" {
		return nil, ows.MissingParameter(ParamObservedProperty)
	}
	var err error
	if req.TemporalFilter, err = p.temporalFilter(); err != nil {
		return nil, err
	}
	if req.SpatialFilter, err = p.spatialFilter(); err != nil {
		return nil, err
	}
	return req, nil
}

func invalidCause(name, value string, cause error) *ows.Exception {
	exc := ows.InvalidParameter(name, value)
	exc.Cause = cause
	return exc
}

// sridFromURI extracts the EPSG code from a CRS URI or URN such as
// http://www.opengis.net/def/crs/EPSG/0/4326 or urn:ogc:def:crs:EPSG::4326.
func sridFromURI(uri string) (int, bool) {
	i := strings.LastIndexAny(uri, "/:")
	code := uri[i+1:]
	n := 0
	for _, r := range code {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, code != ""
}
