package om

import (
	"errors"
	"fmt"
)

// Observation type URIs.
const (
	observationTypePrefix = "http://www.opengis.net/def/observationType/OGC-OM/2.0/"

	ObservationTypeGeneric     = observationTypePrefix + "OM_Observation"
	ObservationTypeMeasurement = observationTypePrefix + "OM_Measurement"
	ObservationTypeCount       = observationTypePrefix + "OM_CountObservation"
	ObservationTypeTruth       = observationTypePrefix + "OM_TruthObservation"
	ObservationTypeCategory    = observationTypePrefix + "OM_CategoryObservation"
	ObservationTypeText        = observationTypePrefix + "OM_TextObservation"
	ObservationTypeGeometry    = observationTypePrefix + "OM_GeometryObservation"
	ObservationTypeComplex     = observationTypePrefix + "OM_ComplexObservation"
	ObservationTypeSweArray    = observationTypePrefix + "OM_SWEArrayObservation"
	ObservationTypeReference   = observationTypePrefix + "OM_ReferenceObservation"
)

// Feature type URIs.
const (
	FeatureTypeSamplingPoint   = "http://www.opengis.net/def/samplingFeatureType/OGC-OM/2.0/SF_SamplingPoint"
	FeatureTypeSamplingCurve   = "http://www.opengis.net/def/samplingFeatureType/OGC-OM/2.0/SF_SamplingCurve"
	FeatureTypeSamplingSurface = "http://www.opengis.net/def/samplingFeatureType/OGC-OM/2.0/SF_SamplingSurface"
)

// Errors reported by the observation model.
var (
	// ErrUnsupportedValue is returned for value kinds without an
	// observation type.
	ErrUnsupportedValue = errors.New("unsupported observation value")

	// ErrInconsistentType is returned when the declared observation type
	// does not match the runtime kind of the value.
	ErrInconsistentType = errors.New("observation type does not match value")
)

// ExpectedType returns the observation type matching the runtime kind of v.
// A time series takes the type of its first point.
func ExpectedType(v Value) (string, error) {
	switch val := v.(type) {
	case *QuantityValue:
		return ObservationTypeMeasurement, nil
	case *CountValue:
		return ObservationTypeCount, nil
	case *BooleanValue:
		return ObservationTypeTruth, nil
	case *CategoryValue:
		return ObservationTypeCategory, nil
	case *TextValue:
		return ObservationTypeText, nil
	case *GeometryValue:
		return ObservationTypeGeometry, nil
	case *ReferenceValue:
		return ObservationTypeReference, nil
	case *ComplexValue:
		return ObservationTypeComplex, nil
	case *SweDataArrayValue:
		return ObservationTypeSweArray, nil
	case *TVPValue:
		if len(val.Points) == 0 {
			return "", nil
		}
		return ExpectedType(val.Points[0].Value)
	case nil:
		return "", fmt.Errorf("%w: no value", ErrUnsupportedValue)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedValue, v.Kind())
	}
}
