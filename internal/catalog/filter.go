package catalog

import (
	"slices"
	"sort"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/om"
	"github.com/52North/SOS-sub013/internal/ows"
	"github.com/52North/SOS-sub013/internal/sensorml"
)

// Filter selects observations. Empty lists match everything; non-empty
// lists match any of their entries.
type Filter struct {
	Offerings          []string
	Procedures         []string
	ObservedProperties []string
	Features           []string

	// PhenomenonTime selects observations whose phenomenon time overlaps
	// the period.
	PhenomenonTime *gml.TimePeriod

	// BBox selects observations whose feature geometry intersects the
	// envelope. Envelope and geometries must share a reference system.
	BBox *gml.Envelope
}

func matches(list []string, v string) bool {
	return len(list) == 0 || slices.Contains(list, v)
}

func matchesAny(list, values []string) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range values {
		if slices.Contains(list, v) {
			return true
		}
	}
	return false
}

func (f *Filter) match(o *om.Observation) bool {
	if !matchesAny(f.Offerings, o.Offerings) ||
		!matches(f.Procedures, o.Procedure) ||
		!matches(f.ObservedProperties, o.ObservableProperty) ||
		!matches(f.Features, o.FeatureOfInterest.FeatureIdentifier().Value) {
		return false
	}
	if f.PhenomenonTime != nil && !f.PhenomenonTime.Overlaps(o.PhenomenonTime) {
		return false
	}
	if f.BBox != nil {
		sf, ok := o.FeatureOfInterest.(*om.SamplingFeature)
		if !ok || !f.BBox.Intersects(envelopeOf(sf.Geometry)) {
			return false
		}
	}
	return true
}

// Observations returns the observations matching f in document order.
func (c *Catalog) Observations(f Filter) []*om.Observation {
	var result []*om.Observation
	for _, o := range c.observations {
		if f.match(o) {
			result = append(result, o)
		}
	}
	return result
}

// Features returns the features of the observations matching f, sorted by
// identifier. A filter naming only features returns those features whether
// or not they were observed; an empty filter returns all features.
func (c *Catalog) Features(f Filter) []om.Feature {
	var ids []string
	switch {
	case onlyFeatures(f) && len(f.Features) == 0:
		ids = c.featureIDs
	case onlyFeatures(f):
		for _, id := range f.Features {
			if _, ok := c.features[id]; ok && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
	default:
		seen := make(map[string]bool)
		for _, o := range c.Observations(f) {
			seen[o.FeatureOfInterest.FeatureIdentifier().Value] = true
		}
		ids = sortedKeys(seen)
	}

	features := make([]om.Feature, len(ids))
	for i, id := range ids {
		features[i] = c.features[id]
	}
	return features
}

// onlyFeatures reports whether f has no criteria besides Features.
func onlyFeatures(f Filter) bool {
	return len(f.Offerings) == 0 && len(f.Procedures) == 0 && len(f.ObservedProperties) == 0 &&
		f.PhenomenonTime == nil && f.BBox == nil
}

// Offerings returns the offerings with their contents derived from the
// observations: observed properties, features, observed area, phenomenon
// and result time extents and observation types.
func (c *Catalog) Offerings() []ows.Offering {
	offerings := make([]ows.Offering, 0, len(c.offeringIDs))
	for _, id := range c.offeringIDs {
		offerings = append(offerings, c.describeOffering(c.offerings[id]))
	}
	return offerings
}

func (c *Catalog) describeOffering(off *offering) ows.Offering {
	result := ows.Offering{
		Identifier:                  off.id,
		Names:                       off.names,
		Procedures:                  []string{off.procedure},
		ProcedureDescriptionFormats: []string{sensorml.Format},
	}

	properties := make(map[string]bool)
	features := make(map[string]bool)
	obsTypes := make(map[string]bool)
	featureTypes := make(map[string]bool)
	area := gml.NewEnvelope(c.srid)
	var phenomenon, resultTime gml.TimePeriod

	for _, o := range c.Observations(Filter{Offerings: []string{off.id}}) {
		properties[o.ObservableProperty] = true
		if t, err := o.ResolvedType(); err == nil {
			obsTypes[t] = true
		}
		phenomenon.Extend(o.PhenomenonTime)
		resultTime.Extend(o.ResultTimeOrPhenomenonEnd())

		sf, ok := o.FeatureOfInterest.(*om.SamplingFeature)
		if !ok {
			continue
		}
		features[sf.Identifier.Value] = true
		if sf.FeatureType != "" {
			featureTypes[sf.FeatureType] = true
		}
		if env := envelopeOf(sf.Geometry); env != nil {
			if area.IsEmpty() {
				area.SRID = env.SRID
			}
			area.ExpandToInclude(env.LowerLeft[0], env.LowerLeft[1])
			area.ExpandToInclude(env.UpperRight[0], env.UpperRight[1])
		}
	}

	result.ObservableProperties = sortedKeys(properties)
	result.ObservationTypes = sortedKeys(obsTypes)
	result.FeatureOfInterestTypes = sortedKeys(featureTypes)
	for _, id := range sortedKeys(features) {
		result.RelatedFeatures = append(result.RelatedFeatures, ows.RelatedFeature{
			Feature: id,
			Roles:   []string{"featureOfInterest"},
		})
	}
	if !area.IsEmpty() {
		result.ObservedArea = area
	}
	if phenomenon.IsSet() {
		result.PhenomenonTime = &phenomenon
	}
	if resultTime.IsSet() {
		result.ResultTime = &resultTime
	}
	return result
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
