package sosjson

import (
	"errors"
	"fmt"
	"time"

	"github.com/52North/SOS-sub013/internal/om"
)

// EncodeObservation encodes an observation. The result is encoded according
// to the kind of its value, which must be consistent with the declared
// observation type.
func (e *Encoder) EncodeObservation(o *om.Observation) (obj *Object, err error) {
	start := time.Now()
	defer func() { e.observe("observation", start, err) }()

	if o == nil {
		return nil, fmt.Errorf("%w: nil observation", ErrInvalidObservation)
	}
	return e.encodeObservation(o)
}

func (e *Encoder) encodeObservation(o *om.Observation) (*Object, error) {
	obsType, err := o.ResolvedType()
	if err != nil {
		if errors.Is(err, om.ErrUnsupportedValue) {
			return nil, unsupported("value", valueKind(o.Value))
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidObservation, err)
	}

	result, err := e.EncodeValue(o.Value, o.ObservableProperty)
	if err != nil {
		return nil, err
	}

	obj := NewObject()
	obj.PutString(keyType, obsType)
	if o.Identifier != nil && o.Identifier.IsSet() {
		obj.Put(keyIdentifier, encodeIdentifier(*o.Identifier))
	}
	obj.PutString(keyProcedure, o.Procedure)
	putCollapsedStrings(obj, keyOffering, o.Offerings)
	obj.PutString(keyObservableProperty, o.ObservableProperty)

	if o.FeatureOfInterest != nil {
		foi, err := e.EncodeFeature(o.FeatureOfInterest)
		if err != nil {
			return nil, err
		}
		obj.Put(keyFeatureOfInterest, foi)
	}

	params := make([]Node, 0, len(o.Parameters))
	for _, p := range o.Parameters {
		param, err := e.encodeParameter(p, o.ObservableProperty)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	putCollapsed(obj, keyParameter, params)

	if pt := encodeTime(o.PhenomenonTime); pt != nil {
		obj.Put(keyPhenomenonTime, pt)
	}
	if rt := o.ResultTimeOrPhenomenonEnd(); rt.IsSet() {
		obj.PutString(keyResultTime, rt.String())
	}
	if o.ValidTime != nil && o.ValidTime.IsSet() {
		obj.Put(keyValidTime, encodePeriod(*o.ValidTime))
	}
	obj.Put(keyResult, result)
	return obj, nil
}

func (e *Encoder) encodeParameter(p om.NamedValue, observedProperty string) (*Object, error) {
	value, err := e.EncodeValue(p.Value, observedProperty)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
	}
	obj := NewObject()
	obj.PutString(keyName, p.Name)
	obj.Put(keyValue, value)
	return obj, nil
}

// EncodeFeature encodes a sampling feature as an object and a feature
// reference as its identifier.
func (e *Encoder) EncodeFeature(f om.Feature) (Node, error) {
	switch feature := f.(type) {
	case *om.SamplingFeature:
		obj := NewObject()
		obj.Put(keyIdentifier, encodeIdentifier(feature.Identifier))
		putCollapsed(obj, keyName, encodeCodeTypes(feature.Names))
		putCollapsedStrings(obj, keySampledFeature, feature.SampledFeatures)
		if feature.Geometry != nil {
			g, err := e.EncodeGeometry(feature.Geometry)
			if err != nil {
				return nil, err
			}
			obj.Put(keyGeometry, g)
		}
		return obj, nil
	case *om.FeatureReference:
		return encodeIdentifier(feature.Identifier), nil
	default:
		return nil, unsupportedType("feature", f)
	}
}

func valueKind(v om.Value) om.ValueKind {
	if v == nil {
		return "nil"
	}
	return v.Kind()
}
