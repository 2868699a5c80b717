package om

import (
	"fmt"

	"github.com/twpayne/go-geom"

	"github.com/52North/SOS-sub013/internal/gml"
)

// NamedValue is an observation parameter.
type NamedValue struct {
	Name  string
	Value Value
}

// Feature is a feature of interest, either fully described or referenced.
type Feature interface {
	FeatureIdentifier() gml.CodeWithAuthority
	isFeature()
}

// SamplingFeature is a spatial sampling feature (point, curve or surface).
type SamplingFeature struct {
	Identifier      gml.CodeWithAuthority
	Names           []gml.CodeType
	Description     string
	FeatureType     string
	SampledFeatures []string
	Geometry        geom.T
}

// FeatureIdentifier returns the feature identifier.
func (f *SamplingFeature) FeatureIdentifier() gml.CodeWithAuthority { return f.Identifier }

func (*SamplingFeature) isFeature() {}

// FeatureReference refers to a feature by identifier only.
type FeatureReference struct {
	Identifier gml.CodeWithAuthority
}

// FeatureIdentifier returns the feature identifier.
func (f *FeatureReference) FeatureIdentifier() gml.CodeWithAuthority { return f.Identifier }

func (*FeatureReference) isFeature() {}

// Observation is an om:OM_Observation.
type Observation struct {
	Type               string
	Identifier         *gml.CodeWithAuthority
	Procedure          string
	ObservableProperty string
	FeatureOfInterest  Feature
	Offerings          []string
	Parameters         []NamedValue
	PhenomenonTime     gml.Time
	ResultTime         *gml.TimeInstant
	ValidTime          *gml.TimePeriod
	Value              Value
}

// ResolvedType returns the declared observation type after checking it
// against the value, or the type inferred from the value when none is
// declared. The generic OM_Observation type accepts every supported value.
func (o *Observation) ResolvedType() (string, error) {
	expected, err := ExpectedType(o.Value)
	if err != nil {
		return "", err
	}
	switch {
	case o.Type == "":
		if expected == "" {
			return "", fmt.Errorf("%w: cannot infer type of empty series", ErrInconsistentType)
		}
		return expected, nil
	case o.Type == ObservationTypeGeneric, expected == "", o.Type == expected:
		return o.Type, nil
	default:
		return "", fmt.Errorf("%w: declared %s, value is %s", ErrInconsistentType, o.Type, o.Value.Kind())
	}
}

// ResultTimeOrPhenomenonEnd returns the result time, falling back to the end
// of the phenomenon time as the SOS does for observations that omit it.
func (o *Observation) ResultTimeOrPhenomenonEnd() gml.TimeInstant {
	if o.ResultTime != nil && o.ResultTime.IsSet() {
		return *o.ResultTime
	}
	if o.PhenomenonTime == nil {
		return gml.TimeInstant{}
	}
	_, end := o.PhenomenonTime.Bounds()
	return end
}
