package sos

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/52North/SOS-sub013/internal/catalog"
	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/om"
	"github.com/52North/SOS-sub013/internal/ows"
	"github.com/52North/SOS-sub013/internal/sensorml"
	"github.com/52North/SOS-sub013/internal/swe"
)

const tracerName = "github.com/52North/SOS-sub013/internal/sos"

// Definitions of the phenomenon time field in result templates.
const (
	PhenomenonTimeDefinition = "http://www.opengis.net/def/property/OGC/0/PhenomenonTime"
	ISO8601UOM               = "http://www.opengis.net/def/uom/ISO-8601/0/Gregorian"
)

// Profiles lists the conformance classes of the service.
var Profiles = []string{
	"http://www.opengis.net/spec/SOS/2.0/conf/core",
	"http://www.opengis.net/spec/SOS/2.0/conf/resultRetrieval",
	"http://www.opengis.net/spec/OMXML/2.0/conf/observation",
}

// Errors returned by the setters.
var (
	// ErrInvalidSeparator is returned when a result encoding separator is
	// empty or clashes with another separator.
	ErrInvalidSeparator = errors.New("invalid separator")

	// ErrInvalidServiceURL is returned for a missing or relative endpoint.
	ErrInvalidServiceURL = errors.New("invalid service URL")
)

// DefaultEncoding returns the result encoding used until the separators
// are configured.
func DefaultEncoding() swe.TextEncoding {
	return swe.DefaultTextEncoding()
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// Service answers SOS operations from a catalog. Its metadata is
// configured through the setters, usually bound to the settings service.
type Service struct {
	catalog *catalog.Catalog
	logger  observability.Logger
	tracer  trace.Tracer

	mu             sync.RWMutex
	serviceURL     *url.URL
	identification ows.ServiceIdentification
	provider       ows.ServiceProvider
	encoding       swe.TextEncoding
	updateSequence string
}

// NewService creates a service answering from cat.
func NewService(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		logger:  observability.NopLogger(),
		tracer:  otel.Tracer(tracerName),
		identification: ows.ServiceIdentification{
			ServiceType:         gml.CodeType{Value: "OGC:" + ServiceType},
			ServiceTypeVersions: []string{Version200},
			Profiles:            Profiles,
		},
		encoding: DefaultEncoding(),
	}
	s.serviceURL, _ = url.Parse(DefaultServiceURL)
	for _, opt := range opts {
		opt(s)
	}
	s.touch()
	return s
}

// updateSequenceLayout has a fixed width so that update sequences order
// lexically.
const updateSequenceLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatUpdateSequence(t time.Time) string {
	return t.UTC().Format(updateSequenceLayout)
}

// touch records a metadata change. Callers hold mu or own s exclusively.
func (s *Service) touch() {
	s.updateSequence = formatUpdateSequence(time.Now())
}

func (s *Service) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.touch()
}

// SetServiceURL sets the advertised endpoint.
func (s *Service) SetServiceURL(u *url.URL) error {
	if u == nil {
		return fmt.Errorf("%w: not set", ErrInvalidServiceURL)
	}
	if !u.IsAbs() {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidServiceURL, u)
	}
	s.update(func() { s.serviceURL = u })
	return nil
}

// SetTitle sets the service title.
func (s *Service) SetTitle(title ows.MultilingualString) error {
	s.update(func() { s.identification.Title = title })
	return nil
}

// SetAbstract sets the service abstract.
func (s *Service) SetAbstract(abstract ows.MultilingualString) error {
	s.update(func() { s.identification.Abstract = abstract })
	return nil
}

// SetKeywords sets the keywords from a comma separated list.
func (s *Service) SetKeywords(keywords string) error {
	var list []string
	for _, k := range strings.Split(keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			list = append(list, k)
		}
	}
	s.update(func() { s.identification.Keywords = list })
	return nil
}

// SetFees sets the fees.
func (s *Service) SetFees(fees string) error {
	s.update(func() { s.identification.Fees = fees })
	return nil
}

// SetAccessConstraints sets the access constraints.
func (s *Service) SetAccessConstraints(constraints string) error {
	s.update(func() { s.identification.AccessConstraints = nonEmpty(constraints) })
	return nil
}

// SetProviderName sets the name of the service provider.
func (s *Service) SetProviderName(name string) error {
	s.update(func() { s.provider.Name = name })
	return nil
}

// SetProviderSite sets the website of the service provider.
func (s *Service) SetProviderSite(site *url.URL) error {
	s.update(func() {
		s.provider.Site = ""
		if site != nil {
			s.provider.Site = site.String()
		}
	})
	return nil
}

func (s *Service) contactSetter(set func(*ows.Contact, string)) func(string) error {
	return func(v string) error {
		s.update(func() {
			// Copy on write, built responses share the old contact.
			c := ows.Contact{}
			if s.provider.Contact != nil {
				c = *s.provider.Contact
			}
			set(&c, v)
			s.provider.Contact = &c
		})
		return nil
	}
}

func (s *Service) addressSetter(set func(*ows.Address, string)) func(string) error {
	return s.contactSetter(func(c *ows.Contact, v string) {
		a := ows.Address{}
		if c.Address != nil {
			a = *c.Address
		}
		set(&a, v)
		c.Address = &a
	})
}

// SetTokenSeparator sets the separator between the tokens of a result block.
func (s *Service) SetTokenSeparator(sep string) error {
	return s.setSeparator(sep, func(e *swe.TextEncoding) *string { return &e.TokenSeparator })
}

// SetTupleSeparator sets the separator between result blocks.
func (s *Service) SetTupleSeparator(sep string) error {
	return s.setSeparator(sep, func(e *swe.TextEncoding) *string { return &e.BlockSeparator })
}

// SetDecimalSeparator sets the decimal separator of numeric results.
func (s *Service) SetDecimalSeparator(sep string) error {
	return s.setSeparator(sep, func(e *swe.TextEncoding) *string { return &e.DecimalSeparator })
}

func (s *Service) setSeparator(sep string, field func(*swe.TextEncoding) *string) error {
	if sep == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSeparator)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.encoding
	*field(&next) = sep
	if next.TokenSeparator == next.BlockSeparator ||
		next.TokenSeparator == next.DecimalSeparator ||
		next.BlockSeparator == next.DecimalSeparator {
		return fmt.Errorf("%w: %q is already used", ErrInvalidSeparator, sep)
	}
	s.encoding = next
	s.touch()
	return nil
}

// Encoding returns the current result encoding.
func (s *Service) Encoding() swe.TextEncoding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encoding
}

// ServiceURL returns the advertised endpoint.
func (s *Service) ServiceURL() *url.URL {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serviceURL
}

// Handle dispatches req to its operation.
func (s *Service) Handle(ctx context.Context, req Request) (resp Response, err error) {
	ctx, span := s.tracer.Start(ctx, "sos."+req.OperationName(),
		trace.WithAttributes(
			attribute.String("sos.operation", req.OperationName()),
			attribute.String("sos.version", req.ServiceVersion()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	switch r := req.(type) {
	case *GetCapabilitiesRequest:
		return s.GetCapabilities(ctx, r)
	case *DescribeSensorRequest:
		return s.DescribeSensor(ctx, r)
	case *GetObservationRequest:
		return s.GetObservation(ctx, r)
	case *GetFeatureOfInterestRequest:
		return s.GetFeatureOfInterest(ctx, r)
	case *GetResultTemplateRequest:
		return s.GetResultTemplate(ctx, r)
	case *GetResultRequest:
		return s.GetResult(ctx, r)
	default:
		return nil, ows.NewException(ows.CodeOperationNotSupported, ParamRequest,
			"the operation '%s' is not supported", req.OperationName())
	}
}

// GetCapabilities returns the service metadata restricted to the requested
// sections.
func (s *Service) GetCapabilities(_ context.Context, req *GetCapabilitiesRequest) (*GetCapabilitiesResponse, error) {
	s.mu.RLock()
	identification := s.identification
	provider := s.provider
	serviceURL := s.serviceURL
	updateSequence := s.updateSequence
	s.mu.RUnlock()

	if req.UpdateSequence != "" && req.UpdateSequence > updateSequence {
		return nil, ows.NewException(ows.CodeInvalidUpdateSequence, ParamUpdateSequence,
			"the update sequence '%s' is greater than the current one", req.UpdateSequence)
	}

	identification.Title = identification.Title.Only(req.AcceptLanguages...)
	identification.Abstract = identification.Abstract.Only(req.AcceptLanguages...)

	offerings := s.catalog.Offerings()
	for i := range offerings {
		offerings[i].ResponseFormats = []string{ResponseFormatOM20, MediaTypeJSON}
	}

	caps := &ows.Capabilities{
		Version:               Version200,
		UpdateSequence:        updateSequence,
		ServiceIdentification: &identification,
		ServiceProvider:       &provider,
		OperationsMetadata:    s.operationsMetadata(serviceURL, offerings),
		FilterCapabilities:    filterCapabilities(),
		Contents:              offerings,
	}
	caps.Restrict(req.Sections)

	return &GetCapabilitiesResponse{Version: Version200, Capabilities: caps}, nil
}

func (s *Service) operationsMetadata(serviceURL *url.URL, offerings []ows.Offering) *ows.OperationsMetadata {
	href := serviceURL.String()
	dcps := []ows.DCP{
		{Method: ows.MethodGet, Href: href + "?"},
		{
			Method:      ows.MethodPost,
			Href:        href,
			Constraints: []ows.Domain{ows.NewAllowedValuesDomain("Content-Type", MediaTypeJSON)},
		},
	}

	var properties []string
	var phenomenon gml.TimePeriod
	for _, off := range offerings {
		properties = append(properties, off.ObservableProperties...)
		if off.PhenomenonTime != nil {
			phenomenon.Extend(*off.PhenomenonTime)
		}
	}
	slices.Sort(properties)
	properties = slices.Compact(properties)

	offeringIDs := s.catalog.OfferingIDs()
	procedureIDs := s.catalog.ProcedureIDs()
	featureIDs := s.catalog.FeatureIDs()

	temporal := ows.Domain{Name: ParamTemporalFilter, PossibleValues: ows.AnyValue{}}
	if phenomenon.IsSet() {
		temporal.PossibleValues = ows.AllowedValues{Ranges: []ows.Range{{
			Min: phenomenon.Start.String(),
			Max: phenomenon.End.String(),
		}}}
	}

	operation := func(name string, params ...ows.Domain) ows.Operation {
		return ows.Operation{Name: name, DCPs: dcps, Parameters: params}
	}

	return &ows.OperationsMetadata{
		Operations: []ows.Operation{
			operation(OpGetCapabilities,
				ows.NewAllowedValuesDomain(ParamAcceptVersions, Version200),
				ows.NewAllowedValuesDomain(ParamAcceptFormats, MediaTypeJSON),
				ows.NewAllowedValuesDomain(ParamSections, capabilitiesSections...),
			),
			operation(OpDescribeSensor,
				ows.NewAllowedValuesDomain(ParamProcedure, procedureIDs...),
				ows.NewAllowedValuesDomain(ParamProcedureDescriptionFormat, sensorml.Format),
			),
			operation(OpGetObservation,
				ows.NewAllowedValuesDomain(ParamOffering, offeringIDs...),
				ows.NewAllowedValuesDomain(ParamProcedure, procedureIDs...),
				ows.NewAllowedValuesDomain(ParamObservedProperty, properties...),
				ows.NewAllowedValuesDomain(ParamFeatureOfInterest, featureIDs...),
				ows.NewAllowedValuesDomain(ParamResponseFormat, ResponseFormatOM20, MediaTypeJSON),
				temporal,
				ows.Domain{Name: ParamSpatialFilter, PossibleValues: ows.AnyValue{}},
			),
			operation(OpGetFeatureOfInterest,
				ows.NewAllowedValuesDomain(ParamProcedure, procedureIDs...),
				ows.NewAllowedValuesDomain(ParamObservedProperty, properties...),
				ows.NewAllowedValuesDomain(ParamFeatureOfInterest, featureIDs...),
				ows.Domain{Name: ParamSpatialFilter, PossibleValues: ows.AnyValue{}},
			),
			operation(OpGetResultTemplate,
				ows.NewAllowedValuesDomain(ParamOffering, offeringIDs...),
				ows.NewAllowedValuesDomain(ParamObservedProperty, properties...),
			),
			operation(OpGetResult,
				ows.NewAllowedValuesDomain(ParamOffering, offeringIDs...),
				ows.NewAllowedValuesDomain(ParamObservedProperty, properties...),
				ows.NewAllowedValuesDomain(ParamFeatureOfInterest, featureIDs...),
				temporal,
			),
		},
		Parameters: []ows.Domain{
			ows.NewAllowedValuesDomain(ParamService, ServiceType),
			ows.NewAllowedValuesDomain(ParamVersion, Version200),
		},
	}
}

func filterCapabilities() *ows.FilterCapabilities {
	return &ows.FilterCapabilities{
		SpatialOperands: []string{"gml:Envelope"},
		SpatialOperators: []ows.Operator{
			{Name: "BBOX", Operands: []string{"gml:Envelope"}},
		},
		TemporalOperands: []string{"gml:TimeInstant", "gml:TimePeriod"},
		TemporalOperators: []ows.Operator{
			{Name: "During", Operands: []string{"gml:TimePeriod"}},
			{Name: "TEquals", Operands: []string{"gml:TimeInstant", "gml:TimePeriod"}},
			{Name: "After", Operands: []string{"gml:TimeInstant"}},
			{Name: "Before", Operands: []string{"gml:TimeInstant"}},
		},
	}
}

// DescribeSensor returns the SensorML description of a procedure.
func (s *Service) DescribeSensor(_ context.Context, req *DescribeSensorRequest) (*DescribeSensorResponse, error) {
	if req.ProcedureDescriptionFormat != sensorml.Format {
		return nil, ows.InvalidParameter(ParamProcedureDescriptionFormat, req.ProcedureDescriptionFormat)
	}
	desc, ok := s.catalog.Procedure(req.Procedure)
	if !ok {
		return nil, ows.InvalidParameter(ParamProcedure, req.Procedure)
	}
	if req.ValidTime != nil && desc.ValidTime != nil && !desc.ValidTime.Overlaps(req.ValidTime) {
		return nil, ows.NewException(ows.CodeInvalidParameterValue, ParamValidTime,
			"no description of '%s' is valid at the requested time", req.Procedure)
	}
	return &DescribeSensorResponse{
		Version:                    Version200,
		ProcedureDescriptionFormat: req.ProcedureDescriptionFormat,
		Descriptions:               []*sensorml.Description{desc},
	}, nil
}

// GetObservation returns the observations matching the request filters.
func (s *Service) GetObservation(ctx context.Context, req *GetObservationRequest) (*GetObservationResponse, error) {
	if req.ResponseFormat != "" && req.ResponseFormat != ResponseFormatOM20 && req.ResponseFormat != MediaTypeJSON {
		return nil, ows.InvalidParameter(ParamResponseFormat, req.ResponseFormat)
	}
	if err := s.checkFilter(req.Offerings, req.Procedures, req.ObservedProperties, req.FeaturesOfInterest, req.SpatialFilter); err != nil {
		return nil, err
	}
	observations := s.catalog.Observations(catalog.Filter{
		Offerings:          req.Offerings,
		Procedures:         req.Procedures,
		ObservedProperties: req.ObservedProperties,
		Features:           req.FeaturesOfInterest,
		PhenomenonTime:     req.TemporalFilter,
		BBox:               req.SpatialFilter,
	})
	s.logger.WithContext(ctx).Debug("observations selected",
		observability.Int("count", len(observations)),
	)
	return &GetObservationResponse{Version: Version200, Observations: observations}, nil
}

// GetFeatureOfInterest returns the features matching the request filters.
func (s *Service) GetFeatureOfInterest(_ context.Context, req *GetFeatureOfInterestRequest) (*GetFeatureOfInterestResponse, error) {
	if err := s.checkFilter(nil, req.Procedures, req.ObservedProperties, req.FeaturesOfInterest, req.SpatialFilter); err != nil {
		return nil, err
	}
	features := s.catalog.Features(catalog.Filter{
		Procedures:         req.Procedures,
		ObservedProperties: req.ObservedProperties,
		Features:           req.FeaturesOfInterest,
		BBox:               req.SpatialFilter,
	})
	return &GetFeatureOfInterestResponse{Version: Version200, Features: features}, nil
}

// checkFilter rejects identifiers unknown to the catalog and spatial
// filters in a reference system other than the catalog's.
func (s *Service) checkFilter(offerings, procedures, properties, features []string, bbox *gml.Envelope) error {
	for _, id := range offerings {
		if !s.catalog.HasOffering(id) {
			return ows.InvalidParameter(ParamOffering, id)
		}
	}
	for _, id := range procedures {
		if _, ok := s.catalog.Procedure(id); !ok {
			return ows.InvalidParameter(ParamProcedure, id)
		}
	}
	for _, id := range properties {
		if !s.catalog.HasObservedProperty(id) {
			return ows.InvalidParameter(ParamObservedProperty, id)
		}
	}
	for _, id := range features {
		if _, ok := s.catalog.Feature(id); !ok {
			return ows.InvalidParameter(ParamFeatureOfInterest, id)
		}
	}
	if bbox != nil && bbox.SRID != s.catalog.SRID() {
		return ows.NewException(ows.CodeOptionNotSupported, ParamSpatialFilter,
			"the reference system EPSG:%d is not supported, use EPSG:%d", bbox.SRID, s.catalog.SRID())
	}
	return nil
}

// GetResultTemplate returns the structure and encoding of the results of
// an offering and observed property.
func (s *Service) GetResultTemplate(_ context.Context, req *GetResultTemplateRequest) (*GetResultTemplateResponse, error) {
	if err := s.checkResultRequest(req.Offering, req.ObservedProperty); err != nil {
		return nil, err
	}
	return &GetResultTemplateResponse{
		Version:         Version200,
		ResultStructure: s.resultStructure(req.ObservedProperty),
		ResultEncoding:  s.Encoding(),
	}, nil
}

func (s *Service) checkResultRequest(offering, property string) error {
	if !s.catalog.HasOffering(offering) {
		return ows.InvalidParameter(ParamOffering, offering)
	}
	observed := s.catalog.Observations(catalog.Filter{
		Offerings:          []string{offering},
		ObservedProperties: []string{property},
	})
	if len(observed) == 0 {
		return ows.InvalidParameter(ParamObservedProperty, property)
	}
	return nil
}

func (s *Service) resultStructure(property string) *swe.DataRecord {
	output, ok := s.catalog.OutputFor(property)
	if !ok {
		output = swe.Field{
			Name:    "value",
			Element: &swe.ObservableProperty{Common: swe.Common{Definition: property}},
		}
	}
	return &swe.DataRecord{
		Fields: []swe.Field{
			{
				Name: "phenomenonTime",
				Element: &swe.Time{
					Common: swe.Common{Definition: PhenomenonTimeDefinition},
					UOM:    ISO8601UOM,
				},
			},
			output,
		},
	}
}

// GetResult returns the result values of an offering and observed property
// encoded with the current result encoding, one block per phenomenon time.
func (s *Service) GetResult(_ context.Context, req *GetResultRequest) (*GetResultResponse, error) {
	if err := s.checkResultRequest(req.Offering, req.ObservedProperty); err != nil {
		return nil, err
	}
	if err := s.checkFilter(nil, nil, nil, req.FeaturesOfInterest, req.SpatialFilter); err != nil {
		return nil, err
	}
	encoding := s.Encoding()
	observations := s.catalog.Observations(catalog.Filter{
		Offerings:          []string{req.Offering},
		ObservedProperties: []string{req.ObservedProperty},
		Features:           req.FeaturesOfInterest,
		PhenomenonTime:     req.TemporalFilter,
		BBox:               req.SpatialFilter,
	})

	var rows [][]string
	for _, o := range observations {
		if tvp, ok := o.Value.(*om.TVPValue); ok {
			for _, p := range tvp.Points {
				if req.TemporalFilter != nil && !req.TemporalFilter.Overlaps(p.Time) {
					continue
				}
				token, err := formatToken(p.Value, encoding)
				if err != nil {
					return nil, err
				}
				rows = append(rows, []string{formatTime(p.Time), token})
			}
			continue
		}
		token, err := formatToken(o.Value, encoding)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{formatTime(o.PhenomenonTime), token})
	}
	return &GetResultResponse{Version: Version200, ResultValues: encoding.Join(rows)}, nil
}

func formatTime(t gml.Time) string {
	switch v := t.(type) {
	case gml.TimeInstant:
		return v.String()
	case gml.TimePeriod:
		return v.Start.String() + "/" + v.End.String()
	default:
		return ""
	}
}

// formatToken writes a simple value as a result token.
func formatToken(v om.Value, encoding swe.TextEncoding) (string, error) {
	switch v := v.(type) {
	case *om.QuantityValue:
		return strings.Replace(v.Value.String(), ".", encoding.DecimalSeparator, 1), nil
	case *om.CountValue:
		return strconv.FormatInt(v.Value, 10), nil
	case *om.BooleanValue:
		return strconv.FormatBool(v.Value), nil
	case *om.CategoryValue:
		return v.Value, nil
	case *om.TextValue:
		return v.Value, nil
	case *om.ReferenceValue:
		return v.Reference.Href, nil
	case nil:
		return "", nil
	default:
		return "", ows.NewException(ows.CodeNoApplicableCode, "",
			"results of kind %s cannot be encoded as text", v.Kind())
	}
}

// AcceptLanguages parses an Accept-Language style list. Unparsable entries
// are dropped.
func AcceptLanguages(header string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	return tags
}
