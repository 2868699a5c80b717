package sos

// Service identification.
const (
	ServiceType = "SOS"
	Version200  = "2.0.0"
)

// Operation names.
const (
	OpGetCapabilities      = "GetCapabilities"
	OpDescribeSensor       = "DescribeSensor"
	OpGetObservation       = "GetObservation"
	OpGetFeatureOfInterest = "GetFeatureOfInterest"
	OpGetResultTemplate    = "GetResultTemplate"
	OpGetResult            = "GetResult"
)

// Operations lists every supported operation in capabilities order.
var Operations = []string{
	OpGetCapabilities,
	OpDescribeSensor,
	OpGetObservation,
	OpGetFeatureOfInterest,
	OpGetResultTemplate,
	OpGetResult,
}

// Formats.
const (
	ResponseFormatOM20 = "http://www.opengis.net/om/2.0"
	MediaTypeJSON      = "application/json"
)
