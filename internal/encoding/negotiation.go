package encoding

import (
	"mime"
	"sort"
	"strconv"
	"strings"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/observability"
)

// Negotiator selects the response content type of a request.
type Negotiator interface {
	// Negotiate returns the supported type preferred by the Accept header,
	// or the default type when nothing acceptable is supported.
	Negotiate(acceptHeader string) string
}

type negotiator struct {
	logger         observability.Logger
	metrics        *Metrics
	supportedTypes []string
	defaultType    string
}

// NegotiatorOption configures a negotiator.
type NegotiatorOption func(*negotiator)

// WithDefaultType sets the type used when the Accept header is empty or
// names nothing supported.
func WithDefaultType(contentType string) NegotiatorOption {
	return func(n *negotiator) {
		n.defaultType = contentType
	}
}

// WithNegotiatorLogger sets the logger for the negotiator.
func WithNegotiatorLogger(logger observability.Logger) NegotiatorOption {
	return func(n *negotiator) {
		n.logger = logger
	}
}

// WithNegotiatorMetrics records negotiation results in m.
func WithNegotiatorMetrics(m *Metrics) NegotiatorOption {
	return func(n *negotiator) {
		n.metrics = m
	}
}

// NewNegotiator creates a negotiator choosing among supportedTypes. Earlier
// types win between equally preferred candidates.
func NewNegotiator(supportedTypes []string, opts ...NegotiatorOption) Negotiator {
	n := &negotiator{
		logger:         observability.NopLogger(),
		supportedTypes: supportedTypes,
		defaultType:    config.ContentTypeJSON,
	}
	for _, opt := range opts {
		opt(n)
	}
	if len(n.supportedTypes) == 0 {
		n.supportedTypes = []string{config.ContentTypeJSON}
	}
	return n
}

func (n *negotiator) Negotiate(acceptHeader string) string {
	if strings.TrimSpace(acceptHeader) == "" {
		n.record(n.defaultType, "default")
		return n.defaultType
	}

	ranges := parseAccept(acceptHeader)
	best, bestQuality := "", 0.0
	for _, supported := range n.supportedTypes {
		if q := quality(ranges, supported); q > bestQuality {
			best, bestQuality = supported, q
		}
	}

	if best == "" {
		n.logger.Debug("no acceptable content type, using default",
			observability.String("accept", acceptHeader),
			observability.String("default", n.defaultType))
		n.record(n.defaultType, "default")
		return n.defaultType
	}

	n.logger.Debug("content type negotiated",
		observability.String("accept", acceptHeader),
		observability.String("selected", best))
	n.record(best, "matched")
	return best
}

func (n *negotiator) record(contentType, result string) {
	if n.metrics != nil {
		n.metrics.RecordNegotiation(contentType, result)
	}
}

// mediaRange is one element of an Accept header.
type mediaRange struct {
	typ, subtype string
	quality      float64
}

// specificity ranks exact ranges over type/* over */*.
func (r mediaRange) specificity() int {
	switch {
	case r.typ == "*":
		return 0
	case r.subtype == "*":
		return 1
	default:
		return 2
	}
}

func (r mediaRange) matches(contentType string) bool {
	typ, subtype, _ := strings.Cut(contentType, "/")
	if r.typ != "*" && r.typ != typ {
		return false
	}
	return r.subtype == "*" || r.subtype == subtype
}

// parseAccept parses an Accept header such as
// "application/json, application/xml;q=0.9, */*;q=0.8". Ranges are
// returned most specific first; unparsable elements are skipped.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for _, part := range strings.Split(header, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		typ, subtype, ok := strings.Cut(mediaType, "/")
		if !ok {
			continue
		}
		r := mediaRange{typ: typ, subtype: subtype, quality: 1}
		if q, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v >= 0 && v <= 1 {
				r.quality = v
			}
		}
		ranges = append(ranges, r)
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].specificity() > ranges[j].specificity()
	})
	return ranges
}

// quality returns the quality the most specific matching range assigns to
// contentType. Clients asking for text/xml accept application/xml.
func quality(ranges []mediaRange, contentType string) float64 {
	for _, r := range ranges {
		if r.matches(contentType) {
			return r.quality
		}
		if contentType == config.ContentTypeXML && r.typ == "text" && r.subtype == "xml" {
			return r.quality
		}
	}
	return 0
}
