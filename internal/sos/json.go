package sos

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/ows"
)

// ErrInvalidJSON is wrapped by the cause of exceptions for malformed JSON
// requests.
var ErrInvalidJSON = errors.New("invalid JSON request")

// stringList accepts either a single string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*l = values
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value != "" {
		*l = stringList{value}
	}
	return nil
}

type jsonFilter struct {
	Ref   string          `json:"ref"`
	Value json.RawMessage `json:"value"`
}

// jsonParams is a JSON encoded request, e.g.
//
//	{"request": "GetObservation", "service": "SOS", "version": "2.0.0",
//	 "offering": "o1", "temporalFilter": {"during": {"ref": "om:phenomenonTime",
//	 "value": ["2012-11-19T13:00:00Z", "2012-11-19T14:00:00Z"]}}}
type jsonParams struct {
	values   map[string]string
	lists    map[string][]string
	temporal map[string]jsonFilter
	spatial  map[string]jsonFilter
}

// ParseJSON decodes a POST request with a JSON body.
func ParseJSON(body []byte) (Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, jsonError("", err)
	}
	p := &jsonParams{
		values: make(map[string]string),
		lists:  make(map[string][]string),
	}
	for name, value := range raw {
		var err error
		switch name {
		case ParamTemporalFilter:
			err = json.Unmarshal(value, &p.temporal)
		case ParamSpatialFilter:
			err = json.Unmarshal(value, &p.spatial)
		default:
			var l stringList
			if err = json.Unmarshal(value, &l); err == nil {
				p.lists[name] = l
				if len(l) > 0 {
					p.values[name] = l[0]
				}
			}
		}
		if err != nil {
			return nil, jsonError(name, err)
		}
	}
	return decode(p)
}

func jsonError(locator string, err error) *ows.Exception {
	exc := ows.NewException(ows.CodeInvalidRequest, locator, "the request is not valid JSON: %v", err)
	exc.Cause = fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	return exc
}

func (p *jsonParams) get(name string) string {
	return p.values[name]
}

func (p *jsonParams) list(name string) []string {
	return p.lists[name]
}

// temporalFilter supports the during, equals, after and before operators on
// om:phenomenonTime.
func (p *jsonParams) temporalFilter() (*gml.TimePeriod, error) {
	if len(p.temporal) == 0 {
		return nil, nil
	}
	if len(p.temporal) > 1 {
		return nil, ows.NewException(ows.CodeInvalidParameterValue, ParamTemporalFilter,
			"only one temporal filter is supported")
	}
	for op, f := range p.temporal {
		if f.Ref != ValueReferencePhenomenonTime {
			return nil, ows.NewException(ows.CodeOptionNotSupported, ParamTemporalFilter,
				"the value reference '%s' is not supported", f.Ref)
		}
		var values stringList
		if err := json.Unmarshal(f.Value, &values); err != nil || len(values) == 0 {
			return nil, ows.InvalidParameter(ParamTemporalFilter, string(f.Value))
		}
		t, err := gml.ParseTime(strings.Join(values, "/"))
		if err != nil {
			return nil, invalidCause(ParamTemporalFilter, string(f.Value), err)
		}
		start, end := t.Bounds()
		switch op {
		case "during", "equals":
			return &gml.TimePeriod{Start: start, End: end}, nil
		case "after":
			return &gml.TimePeriod{Start: end}, nil
		case "before":
			return &gml.TimePeriod{End: start}, nil
		default:
			return nil, ows.NewException(ows.CodeOptionNotSupported, ParamTemporalFilter,
				"the temporal operator '%s' is not supported", op)
		}
	}
	return nil, nil
}

// spatialFilter supports the bbox operator with a GeoJSON geometry value.
func (p *jsonParams) spatialFilter() (*gml.Envelope, error) {
	if len(p.spatial) == 0 {
		return nil, nil
	}
	f, ok := p.spatial["bbox"]
	if !ok || len(p.spatial) > 1 {
		return nil, ows.NewException(ows.CodeOptionNotSupported, ParamSpatialFilter,
			"only the bbox operator is supported")
	}
	if f.Ref != ValueReferenceSamplingShape {
		return nil, ows.NewException(ows.CodeOptionNotSupported, ParamSpatialFilter,
			"the value reference '%s' is not supported", f.Ref)
	}
	var t geom.T
	if err := geojson.Unmarshal(f.Value, &t); err != nil {
		return nil, invalidCause(ParamSpatialFilter, string(f.Value), err)
	}
	var named struct {
		CRS *struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
	}
	if err := json.Unmarshal(f.Value, &named); err != nil {
		return nil, invalidCause(ParamSpatialFilter, string(f.Value), err)
	}
	srid := DefaultFilterSRID
	if named.CRS != nil {
		if srid, ok = sridFromURI(named.CRS.Properties.Name); !ok {
			return nil, ows.InvalidParameter(ParamSpatialFilter, named.CRS.Properties.Name)
		}
	}
	b := t.Bounds()
	return bbox([4]float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}, srid), nil
}
