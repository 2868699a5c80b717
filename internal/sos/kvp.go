package sos

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/ows"
)

// DefaultFilterSRID is the reference system of a spatial filter that does
// not name one.
const DefaultFilterSRID = 4326

// kvpParams holds the parameters of a KVP request keyed by lower case name.
type kvpParams map[string]string

// ParseKVP decodes a GET request. Parameter names are case insensitive and
// list values are comma separated.
func ParseKVP(values url.Values) (Request, error) {
	p := make(kvpParams, len(values))
	for name, v := range values {
		if len(v) == 0 {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := p[key]; dup || len(v) > 1 {
			return nil, ows.NewException(ows.CodeInvalidRequest, key,
				"the parameter '%s' is given more than once", key)
		}
		p[key] = strings.TrimSpace(v[0])
	}
	return decode(p)
}

func (p kvpParams) get(name string) string {
	return p[strings.ToLower(name)]
}

func (p kvpParams) list(name string) []string {
	raw := p.get(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// temporalFilter parses "om:phenomenonTime,<instant or start/end>".
func (p kvpParams) temporalFilter() (*gml.TimePeriod, error) {
	raw := p.get(ParamTemporalFilter)
	if raw == "" {
		return nil, nil
	}
	ref, value, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, ows.InvalidParameter(ParamTemporalFilter, raw)
	}
	if ref = strings.TrimSpace(ref); ref != ValueReferencePhenomenonTime {
		return nil, ows.NewException(ows.CodeOptionNotSupported, ParamTemporalFilter,
			"the value reference '%s' is not supported", ref)
	}
	t, err := gml.ParseTime(value)
	if err != nil {
		return nil, invalidCause(ParamTemporalFilter, raw, err)
	}
	start, end := t.Bounds()
	return &gml.TimePeriod{Start: start, End: end}, nil
}

// spatialFilter parses "<reference>,minx,miny,maxx,maxy[,crs]".
func (p kvpParams) spatialFilter() (*gml.Envelope, error) {
	raw := p.get(ParamSpatialFilter)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 5 && len(parts) != 6 {
		return nil, ows.InvalidParameter(ParamSpatialFilter, raw)
	}
	if ref := strings.TrimSpace(parts[0]); ref != ValueReferenceSamplingShape {
		return nil, ows.NewException(ows.CodeOptionNotSupported, ParamSpatialFilter,
			"the value reference '%s' is not supported", ref)
	}
	var coords [4]float64
	for i := range coords {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i+1]), 64)
		if err != nil {
			return nil, invalidCause(ParamSpatialFilter, raw, err)
		}
		coords[i] = f
	}
	srid := DefaultFilterSRID
	if len(parts) == 6 {
		var ok bool
		if srid, ok = sridFromURI(strings.TrimSpace(parts[5])); !ok {
			return nil, ows.InvalidParameter(ParamSpatialFilter, raw)
		}
	}
	return bbox(coords, srid), nil
}

func bbox(c [4]float64, srid int) *gml.Envelope {
	env := gml.NewEnvelope(srid)
	env.ExpandToInclude(c[0], c[1])
	env.ExpandToInclude(c[2], c[3])
	return env
}
