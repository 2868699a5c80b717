package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/om"
	"github.com/52North/SOS-sub013/internal/sensorml"
	"github.com/52North/SOS-sub013/internal/swe"
)

// DefaultSRID is used when the document does not name one.
const DefaultSRID = 4326

// ErrInvalidCatalog is returned for documents with dangling references or
// malformed values.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is an immutable set of procedures, features, offerings and
// observations. It is safe for concurrent use.
type Catalog struct {
	srid int

	procedures    map[string]*sensorml.Description
	procedureIDs  []string
	features      map[string]*om.SamplingFeature
	featureIDs    []string
	offerings     map[string]*offering
	offeringIDs   []string
	observations  []*om.Observation
	outputsByProp map[string]swe.Field
}

type offering struct {
	id        string
	names     []gml.CodeType
	procedure string
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(&doc)
}

// New builds a catalog from doc.
func New(doc *Document) (*Catalog, error) {
	c := &Catalog{
		srid:          doc.SRID,
		procedures:    make(map[string]*sensorml.Description, len(doc.Procedures)),
		features:      make(map[string]*om.SamplingFeature, len(doc.Features)),
		offerings:     make(map[string]*offering, len(doc.Offerings)),
		outputsByProp: make(map[string]swe.Field),
	}
	if c.srid == 0 {
		c.srid = DefaultSRID
	}

	for i := range doc.Procedures {
		if err := c.addProcedure(&doc.Procedures[i]); err != nil {
			return nil, err
		}
	}
	for i := range doc.Features {
		if err := c.addFeature(&doc.Features[i]); err != nil {
			return nil, err
		}
	}
	for _, o := range doc.Offerings {
		if o.ID == "" {
			return nil, fmt.Errorf("%w: offering without id", ErrInvalidCatalog)
		}
		if _, ok := c.procedures[o.Procedure]; !ok {
			return nil, fmt.Errorf("%w: offering %s references unknown procedure %q", ErrInvalidCatalog, o.ID, o.Procedure)
		}
		if _, dup := c.offerings[o.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate offering %s", ErrInvalidCatalog, o.ID)
		}
		c.offerings[o.ID] = &offering{id: o.ID, names: o.Names, procedure: o.Procedure}
		c.offeringIDs = append(c.offeringIDs, o.ID)
	}
	for i := range doc.Observations {
		obs, err := c.buildObservation(&doc.Observations[i])
		if err != nil {
			return nil, fmt.Errorf("%w: observation %d: %v", ErrInvalidCatalog, i, err)
		}
		c.observations = append(c.observations, obs)
	}

	sort.Strings(c.procedureIDs)
	sort.Strings(c.featureIDs)
	sort.Strings(c.offeringIDs)
	return c, nil
}

func (c *Catalog) geometrySRID(srid int) int {
	if srid == 0 {
		return c.srid
	}
	return srid
}

func (c *Catalog) addProcedure(p *ProcedureDoc) error {
	if p.ID == "" {
		return fmt.Errorf("%w: procedure without id", ErrInvalidCatalog)
	}
	if _, dup := c.procedures[p.ID]; dup {
		return fmt.Errorf("%w: duplicate procedure %s", ErrInvalidCatalog, p.ID)
	}

	d := &sensorml.Description{
		Identifier:  p.ID,
		Names:       p.Names,
		Description: p.Description,
		Keywords:    p.Keywords,
	}
	if p.ValidTime != "" {
		t, err := gml.ParseTime(p.ValidTime)
		if err != nil {
			return fmt.Errorf("%w: procedure %s: %v", ErrInvalidCatalog, p.ID, err)
		}
		start, end := t.Bounds()
		d.ValidTime = &gml.TimePeriod{Start: start, End: end}
	}

	pos, err := parseGeometry(&p.Position, c.geometrySRID(p.SRID))
	if err != nil {
		return fmt.Errorf("%w: procedure %s position: %v", ErrInvalidCatalog, p.ID, err)
	}
	d.Position = pos

	for _, out := range p.Outputs {
		f, err := buildOutput(out)
		if err != nil {
			return fmt.Errorf("%w: procedure %s: %v", ErrInvalidCatalog, p.ID, err)
		}
		d.Outputs = append(d.Outputs, f)
		if _, seen := c.outputsByProp[out.Definition]; !seen {
			c.outputsByProp[out.Definition] = f
		}
	}

	c.procedures[p.ID] = d
	c.procedureIDs = append(c.procedureIDs, p.ID)
	return nil
}

func buildOutput(out OutputDoc) (swe.Field, error) {
	common := swe.Common{Definition: out.Definition, Label: out.Label}
	var dc swe.DataComponent
	switch swe.SimpleType(out.Type) {
	case swe.TypeQuantity:
		dc = &swe.Quantity{Common: common, UOM: out.UOM}
	case swe.TypeCount:
		dc = &swe.Count{Common: common}
	case swe.TypeBoolean:
		dc = &swe.Boolean{Common: common}
	case swe.TypeCategory:
		dc = &swe.Category{Common: common, CodeSpace: out.CodeSpace}
	case swe.TypeText:
		dc = &swe.Text{Common: common}
	case swe.TypeTime:
		dc = &swe.Time{Common: common, UOM: out.UOM}
	default:
		return swe.Field{}, fmt.Errorf("output %s has unsupported type %q", out.Name, out.Type)
	}
	return swe.Field{Name: out.Name, Element: dc}, nil
}

func (c *Catalog) addFeature(f *FeatureDoc) error {
	if f.ID == "" {
		return fmt.Errorf("%w: feature without id", ErrInvalidCatalog)
	}
	if _, dup := c.features[f.ID]; dup {
		return fmt.Errorf("%w: duplicate feature %s", ErrInvalidCatalog, f.ID)
	}

	g, err := parseGeometry(&f.Geometry, c.geometrySRID(f.SRID))
	if err != nil {
		return fmt.Errorf("%w: feature %s: %v", ErrInvalidCatalog, f.ID, err)
	}
	ft := f.Type
	if ft == "" {
		ft = featureType(g)
	}

	c.features[f.ID] = &om.SamplingFeature{
		Identifier:      gml.CodeWithAuthority{Value: f.ID, CodeSpace: f.CodeSpace},
		Names:           f.Names,
		Description:     f.Description,
		FeatureType:     ft,
		SampledFeatures: f.SampledFeatures,
		Geometry:        g,
	}
	c.featureIDs = append(c.featureIDs, f.ID)
	return nil
}

func (c *Catalog) buildObservation(d *ObservationDoc) (*om.Observation, error) {
	off, ok := c.offerings[d.Offering]
	if !ok {
		return nil, fmt.Errorf("unknown offering %q", d.Offering)
	}
	procedure := d.Procedure
	if procedure == "" {
		procedure = off.procedure
	}
	if _, ok := c.procedures[procedure]; !ok {
		return nil, fmt.Errorf("unknown procedure %q", procedure)
	}
	feature, ok := c.features[d.Feature]
	if !ok {
		return nil, fmt.Errorf("unknown feature %q", d.Feature)
	}
	if d.ObservedProperty == "" {
		return nil, errors.New("missing observed property")
	}

	phenomenonTime, err := gml.ParseTime(d.PhenomenonTime)
	if err != nil {
		return nil, fmt.Errorf("phenomenon time: %w", err)
	}

	obs := &om.Observation{
		Type:               d.Type,
		Procedure:          procedure,
		ObservableProperty: d.ObservedProperty,
		FeatureOfInterest:  feature,
		Offerings:          []string{off.id},
		PhenomenonTime:     phenomenonTime,
	}
	if d.ID != "" {
		obs.Identifier = &gml.CodeWithAuthority{Value: d.ID, CodeSpace: d.CodeSpace}
	}
	if d.ResultTime != "" {
		rt, err := gml.ParseInstant(d.ResultTime)
		if err != nil {
			return nil, fmt.Errorf("result time: %w", err)
		}
		obs.ResultTime = &rt
	}
	if d.ValidTime != "" {
		vt, err := gml.ParseTime(d.ValidTime)
		if err != nil {
			return nil, fmt.Errorf("valid time: %w", err)
		}
		start, end := vt.Bounds()
		obs.ValidTime = &gml.TimePeriod{Start: start, End: end}
	}
	for _, p := range d.Parameters {
		v, err := c.buildValue(p.Result)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		obs.Parameters = append(obs.Parameters, om.NamedValue{Name: p.Name, Value: v})
	}

	obs.Value, err = c.buildValue(d.Result)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	if _, err := obs.ResolvedType(); err != nil {
		return nil, err
	}
	return obs, nil
}

func (c *Catalog) buildValue(r ResultDoc) (om.Value, error) {
	kind := r.Type
	if kind == "" {
		switch {
		case len(r.Points) > 0:
			kind = "series"
		case r.UOM != "":
			kind = "quantity"
		default:
			kind = "text"
		}
	}

	switch kind {
	case "quantity":
		d, err := decimal.NewFromString(strings.TrimSpace(r.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", r.Value)
		}
		return &om.QuantityValue{Value: d, UOM: r.UOM}, nil
	case "count":
		n, err := strconv.ParseInt(strings.TrimSpace(r.Value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid count %q", r.Value)
		}
		return &om.CountValue{Value: n}, nil
	case "boolean":
		b, err := strconv.ParseBool(strings.TrimSpace(r.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", r.Value)
		}
		return &om.BooleanValue{Value: b}, nil
	case "category":
		return &om.CategoryValue{Value: r.Value, CodeSpace: r.CodeSpace}, nil
	case "text":
		return &om.TextValue{Value: r.Value}, nil
	case "geometry":
		node := yaml.Node{Kind: yaml.ScalarNode, Value: r.Value}
		g, err := parseGeometry(&node, c.srid)
		if err != nil {
			return nil, err
		}
		return &om.GeometryValue{Geometry: g}, nil
	case "reference":
		return &om.ReferenceValue{Reference: gml.ReferenceType{Href: r.Value, Title: r.Title}}, nil
	case "series":
		tvp := &om.TVPValue{}
		for _, p := range r.Points {
			t, err := gml.ParseTime(p.Time)
			if err != nil {
				return nil, err
			}
			v, err := c.buildValue(ResultDoc{Value: p.Value, UOM: r.UOM, Type: seriesElementType(r.UOM)})
			if err != nil {
				return nil, err
			}
			tvp.Points = append(tvp.Points, om.TimeValuePair{Time: t, Value: v})
		}
		return tvp, nil
	default:
		return nil, fmt.Errorf("unsupported result type %q", kind)
	}
}

func seriesElementType(uom string) string {
	if uom == "" {
		return "count"
	}
	return "quantity"
}

// SRID returns the default reference system of the catalog.
func (c *Catalog) SRID() int {
	return c.srid
}

// Procedure returns the description of the procedure id.
func (c *Catalog) Procedure(id string) (*sensorml.Description, bool) {
	d, ok := c.procedures[id]
	return d, ok
}

// ProcedureIDs returns all procedure identifiers, sorted.
func (c *Catalog) ProcedureIDs() []string {
	return append([]string(nil), c.procedureIDs...)
}

// Feature returns the feature id.
func (c *Catalog) Feature(id string) (*om.SamplingFeature, bool) {
	f, ok := c.features[id]
	return f, ok
}

// FeatureIDs returns all feature identifiers, sorted.
func (c *Catalog) FeatureIDs() []string {
	return append([]string(nil), c.featureIDs...)
}

// HasOffering reports whether id is an offering.
func (c *Catalog) HasOffering(id string) bool {
	_, ok := c.offerings[id]
	return ok
}

// OfferingIDs returns all offering identifiers, sorted.
func (c *Catalog) OfferingIDs() []string {
	return append([]string(nil), c.offeringIDs...)
}

// OutputFor returns the first procedure output measuring property.
func (c *Catalog) OutputFor(property string) (swe.Field, bool) {
	f, ok := c.outputsByProp[property]
	return f, ok
}

// HasObservedProperty reports whether any observation measures property.
func (c *Catalog) HasObservedProperty(property string) bool {
	for _, o := range c.observations {
		if o.ObservableProperty == property {
			return true
		}
	}
	return false
}
