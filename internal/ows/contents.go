package ows

import (
	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/swe"
)

// RelatedFeature associates a feature with the roles it plays for an
// offering.
type RelatedFeature struct {
	Feature string
	Roles   []string
}

// Offering is an SOS observation offering listed in the contents section.
type Offering struct {
	Identifier                  string
	Names                       []gml.CodeType
	Procedures                  []string
	ObservableProperties        []string
	RelatedFeatures             []RelatedFeature
	ObservedArea                *gml.Envelope
	PhenomenonTime              *gml.TimePeriod
	ResultTime                  *gml.TimePeriod
	ResponseFormats             []string
	ObservationTypes            []string
	FeatureOfInterestTypes      []string
	ProcedureDescriptionFormats []string
}

// Operator is a filter operator with the operands it supports.
type Operator struct {
	Name     string
	Operands []string
}

// FilterCapabilities is the fes:Filter_Capabilities section.
type FilterCapabilities struct {
	Conformance         []Domain
	SpatialOperands     []string
	SpatialOperators    []Operator
	TemporalOperands    []string
	TemporalOperators   []Operator
	ComparisonOperators []string
}

// Extension is a capabilities extension carrying a SWE value.
type Extension struct {
	Identifier string
	Definition string
	Value      *swe.Field
}

// Section names usable in a GetCapabilities request.
const (
	SectionServiceIdentification = "ServiceIdentification"
	SectionServiceProvider       = "ServiceProvider"
	SectionOperationsMetadata    = "OperationsMetadata"
	SectionFilterCapabilities    = "FilterCapabilities"
	SectionContents              = "Contents"
	SectionExtensions            = "Extensions"
	SectionAll                   = "All"
)

// Capabilities is the body of a GetCapabilities response.
type Capabilities struct {
	Version               string
	UpdateSequence        string
	ServiceIdentification *ServiceIdentification
	ServiceProvider       *ServiceProvider
	OperationsMetadata    *OperationsMetadata
	Contents              []Offering
	Extensions            []Extension
	FilterCapabilities    *FilterCapabilities
}

// HasServiceIdentification reports whether the section is set.
func (c *Capabilities) HasServiceIdentification() bool { return c.ServiceIdentification != nil }

// HasServiceProvider reports whether the section is set.
func (c *Capabilities) HasServiceProvider() bool { return c.ServiceProvider != nil }

// HasUpdateSequence reports whether an update sequence is set.
func (c *Capabilities) HasUpdateSequence() bool { return c.UpdateSequence != "" }

// HasOperationsMetadata reports whether the section is set.
func (c *Capabilities) HasOperationsMetadata() bool { return c.OperationsMetadata != nil }

// HasContents reports whether at least one offering is set.
func (c *Capabilities) HasContents() bool { return len(c.Contents) > 0 }

// HasExtensions reports whether at least one extension is set.
func (c *Capabilities) HasExtensions() bool { return len(c.Extensions) > 0 }

// HasFilterCapabilities reports whether the section is set.
func (c *Capabilities) HasFilterCapabilities() bool { return c.FilterCapabilities != nil }

// Restrict drops every section not listed. An empty list or "All" keeps
// everything.
func (c *Capabilities) Restrict(sections []string) {
	if len(sections) == 0 {
		return
	}
	keep := make(map[string]bool, len(sections))
	for _, s := range sections {
		if s == SectionAll {
			return
		}
		keep[s] = true
	}
	if !keep[SectionServiceIdentification] {
		c.ServiceIdentification = nil
	}
	if !keep[SectionServiceProvider] {
		c.ServiceProvider = nil
	}
	if !keep[SectionOperationsMetadata] {
		c.OperationsMetadata = nil
	}
	if !keep[SectionContents] {
		c.Contents = nil
	}
	if !keep[SectionExtensions] {
		c.Extensions = nil
	}
	if !keep[SectionFilterCapabilities] {
		c.FilterCapabilities = nil
	}
}
