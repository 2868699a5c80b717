package catalog

import (
	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub013/internal/gml"
)

// Document is the YAML representation of a catalog.
type Document struct {
	// SRID is used for geometries without an explicit SRID.
	SRID         int              `yaml:"srid,omitempty"`
	Procedures   []ProcedureDoc   `yaml:"procedures"`
	Features     []FeatureDoc     `yaml:"features"`
	Offerings    []OfferingDoc    `yaml:"offerings"`
	Observations []ObservationDoc `yaml:"observations"`
}

// ProcedureDoc describes a sensor.
type ProcedureDoc struct {
	ID          string         `yaml:"id"`
	Names       []gml.CodeType `yaml:"names,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Keywords    []string       `yaml:"keywords,omitempty"`
	ValidTime   string         `yaml:"validTime,omitempty"`
	Position    yaml.Node      `yaml:"position,omitempty"`
	SRID        int            `yaml:"srid,omitempty"`
	Outputs     []OutputDoc    `yaml:"outputs,omitempty"`
}

// OutputDoc describes one output of a procedure. Type is a SWE simple type
// name such as "quantity" or "category".
type OutputDoc struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Definition string `yaml:"definition"`
	Label      string `yaml:"label,omitempty"`
	UOM        string `yaml:"uom,omitempty"`
	CodeSpace  string `yaml:"codeSpace,omitempty"`
}

// FeatureDoc describes a sampling feature. Geometry is WKT or a GeoJSON
// geometry object.
type FeatureDoc struct {
	ID              string         `yaml:"id"`
	CodeSpace       string         `yaml:"codeSpace,omitempty"`
	Names           []gml.CodeType `yaml:"names,omitempty"`
	Description     string         `yaml:"description,omitempty"`
	Type            string         `yaml:"type,omitempty"`
	SampledFeatures []string       `yaml:"sampledFeatures,omitempty"`
	Geometry        yaml.Node      `yaml:"geometry,omitempty"`
	SRID            int            `yaml:"srid,omitempty"`
}

// OfferingDoc describes an offering of a single procedure.
type OfferingDoc struct {
	ID        string         `yaml:"id"`
	Names     []gml.CodeType `yaml:"names,omitempty"`
	Procedure string         `yaml:"procedure"`
}

// ObservationDoc describes an observation. Procedure defaults to the
// procedure of the offering.
type ObservationDoc struct {
	ID               string     `yaml:"id,omitempty"`
	CodeSpace        string     `yaml:"codeSpace,omitempty"`
	Type             string     `yaml:"type,omitempty"`
	Offering         string     `yaml:"offering"`
	Procedure        string     `yaml:"procedure,omitempty"`
	ObservedProperty string     `yaml:"observedProperty"`
	Feature          string     `yaml:"feature"`
	PhenomenonTime   string     `yaml:"phenomenonTime"`
	ResultTime       string     `yaml:"resultTime,omitempty"`
	ValidTime        string     `yaml:"validTime,omitempty"`
	Parameters       []ParamDoc `yaml:"parameters,omitempty"`
	Result           ResultDoc  `yaml:"result"`
}

// ParamDoc is a named text or quantity parameter.
type ParamDoc struct {
	Name   string    `yaml:"name"`
	Result ResultDoc `yaml:"result"`
}

// ResultDoc is an observation result. Type is one of quantity, count,
// boolean, category, text, geometry, reference or series; it defaults to
// quantity when UOM is set and to text otherwise. A series carries Points
// whose values all have the series' UOM.
type ResultDoc struct {
	Type      string     `yaml:"type,omitempty"`
	Value     string     `yaml:"value,omitempty"`
	UOM       string     `yaml:"uom,omitempty"`
	CodeSpace string     `yaml:"codeSpace,omitempty"`
	Title     string     `yaml:"title,omitempty"`
	Points    []PointDoc `yaml:"points,omitempty"`
}

// PointDoc is one time value pair of a series.
type PointDoc struct {
	Time  string `yaml:"time"`
	Value string `yaml:"value"`
}
