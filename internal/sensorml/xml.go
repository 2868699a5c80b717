package sensorml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"

	"github.com/52North/SOS-sub013/internal/encoding"
	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/swe"
)

// Namespaces written on the root element.
const (
	NamespaceSML   = "http://www.opengis.net/sensorml/2.0"
	NamespaceGML   = "http://www.opengis.net/gml/3.2"
	NamespaceSWE   = "http://www.opengis.net/swe/2.0"
	NamespaceXLink = "http://www.w3.org/1999/xlink"

	uniqueIDCodeSpace = "uniqueID"
)

// ErrUnsupported is returned for outputs or positions that have no
// SensorML rendition here.
var ErrUnsupported = errors.New("unsupported sensorml content")

type physicalSystem struct {
	XMLName    xml.Name      `xml:"sml:PhysicalSystem"`
	XMLNSSML   string        `xml:"xmlns:sml,attr"`
	XMLNSGML   string        `xml:"xmlns:gml,attr"`
	XMLNSSWE   string        `xml:"xmlns:swe,attr"`
	XMLNSXLink string        `xml:"xmlns:xlink,attr"`
	ID         string        `xml:"gml:id,attr"`
	Desc       string        `xml:"gml:description,omitempty"`
	Identifier codeElement   `xml:"gml:identifier"`
	Names      []codeElement `xml:"gml:name,omitempty"`
	Keywords   *keywords     `xml:"sml:keywords,omitempty"`
	ValidTime  *validTime    `xml:"sml:validTime,omitempty"`
	Outputs    *outputs      `xml:"sml:outputs,omitempty"`
	Position   *position     `xml:"sml:position,omitempty"`
}

type codeElement struct {
	CodeSpace string `xml:"codeSpace,attr,omitempty"`
	Value     string `xml:",chardata"`
}

type keywords struct {
	Keywords []string `xml:"sml:KeywordList>sml:keyword"`
}

type validTime struct {
	Period timePeriod `xml:"gml:TimePeriod"`
}

type timePeriod struct {
	ID    string `xml:"gml:id,attr"`
	Begin string `xml:"gml:beginPosition"`
	End   string `xml:"gml:endPosition"`
}

type outputs struct {
	Outputs []output `xml:"sml:OutputList>sml:output"`
}

type output struct {
	Name      string `xml:"name,attr"`
	Component component
}

type component struct {
	XMLName    xml.Name
	Definition string     `xml:"definition,attr,omitempty"`
	Label      string     `xml:"swe:label,omitempty"`
	Desc       string     `xml:"swe:description,omitempty"`
	Identifier string     `xml:"swe:identifier,omitempty"`
	CodeSpace  *reference `xml:"swe:codeSpace,omitempty"`
	UOM        *uom       `xml:"swe:uom,omitempty"`
	Value      string     `xml:"swe:value,omitempty"`
}

type reference struct {
	Href string `xml:"xlink:href,attr"`
}

type uom struct {
	Code string `xml:"code,attr,omitempty"`
	Href string `xml:"xlink:href,attr,omitempty"`
}

type position struct {
	Point point `xml:"gml:Point"`
}

type point struct {
	ID      string `xml:"gml:id,attr"`
	SRSName string `xml:"srsName,attr,omitempty"`
	Pos     string `xml:"gml:pos"`
}

// Marshal writes d as a sml:PhysicalSystem document without XML
// declaration. srsPrefix is prepended to the SRID of the position.
// Element ids derive from the identifier, so the output is stable.
func Marshal(d *Description, srsPrefix string) ([]byte, error) {
	doc, err := build(d, srsPrefix)
	if err != nil {
		return nil, err
	}
	return encoding.NewXMLFragmentCodec().Encode(doc)
}

func build(d *Description, srsPrefix string) (*physicalSystem, error) {
	if d == nil || d.Identifier == "" {
		return nil, fmt.Errorf("%w: description without identifier", ErrUnsupported)
	}
	id := gmlID(d.Identifier)

	doc := &physicalSystem{
		XMLNSSML:   NamespaceSML,
		XMLNSGML:   NamespaceGML,
		XMLNSSWE:   NamespaceSWE,
		XMLNSXLink: NamespaceXLink,
		ID:         "ps_" + id,
		Desc:       d.Description,
		Identifier: codeElement{CodeSpace: uniqueIDCodeSpace, Value: d.Identifier},
	}
	for _, n := range d.Names {
		name := codeElement{Value: n.Value}
		if n.IsSetCodeSpace() {
			name.CodeSpace = n.CodeSpace
		}
		doc.Names = append(doc.Names, name)
	}
	if len(d.Keywords) > 0 {
		doc.Keywords = &keywords{Keywords: d.Keywords}
	}
	if d.ValidTime != nil && d.ValidTime.IsSet() {
		doc.ValidTime = &validTime{Period: timePeriod{
			ID:    "vt_" + id,
			Begin: d.ValidTime.Start.String(),
			End:   d.ValidTime.End.String(),
		}}
	}
	if len(d.Outputs) > 0 {
		doc.Outputs = &outputs{}
		for _, f := range d.Outputs {
			c, err := buildComponent(f.Element)
			if err != nil {
				return nil, fmt.Errorf("output %s: %w", f.Name, err)
			}
			doc.Outputs.Outputs = append(doc.Outputs.Outputs, output{Name: f.Name, Component: c})
		}
	}
	if d.Position != nil {
		p, err := buildPosition(d.Position, srsPrefix, id)
		if err != nil {
			return nil, err
		}
		doc.Position = p
	}
	return doc, nil
}

func gmlID(identifier string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(identifier)).String()
}

func buildComponent(dc swe.DataComponent) (component, error) {
	if dc == nil {
		return component{}, fmt.Errorf("%w: missing component", ErrUnsupported)
	}
	meta := dc.Metadata()
	c := component{
		XMLName:    xml.Name{Local: "swe:" + sweElementName(dc.Type())},
		Definition: meta.Definition,
		Label:      meta.Label,
		Desc:       meta.Description,
		Identifier: meta.Identifier,
	}

	switch v := dc.(type) {
	case *swe.Boolean:
		if v.Value != nil {
			c.Value = strconv.FormatBool(*v.Value)
		}
	case *swe.Count:
		if v.Value != nil {
			c.Value = strconv.FormatInt(*v.Value, 10)
		}
	case *swe.CountRange:
		if v.Value != nil {
			c.Value = strconv.FormatInt(v.Value.Start, 10) + " " + strconv.FormatInt(v.Value.End, 10)
		}
	case *swe.Quantity:
		c.UOM = &uom{Code: v.UOM}
		if v.Value != nil {
			c.Value = formatFloat(*v.Value)
		}
	case *swe.QuantityRange:
		c.UOM = &uom{Code: v.UOM}
		if v.Value != nil {
			c.Value = formatFloat(v.Value.Start) + " " + formatFloat(v.Value.End)
		}
	case *swe.Text:
		if v.Value != nil {
			c.Value = *v.Value
		}
	case *swe.Category:
		if v.CodeSpace != "" {
			c.CodeSpace = &reference{Href: v.CodeSpace}
		}
		if v.Value != nil {
			c.Value = *v.Value
		}
	case *swe.Time:
		c.UOM = timeUOM(v.UOM)
		if v.Value != nil {
			c.Value = v.Value.Format(gml.ISO8601Format)
		}
	case *swe.TimeRange:
		c.UOM = timeUOM(v.UOM)
		if v.Value != nil {
			c.Value = v.Value.Start.Format(gml.ISO8601Format) + " " + v.Value.End.Format(gml.ISO8601Format)
		}
	default:
		return component{}, fmt.Errorf("%w: component %s", ErrUnsupported, dc.Type())
	}
	return c, nil
}

func timeUOM(u string) *uom {
	if u == "" {
		return nil
	}
	return &uom{Href: u}
}

// sweElementName turns a type tag such as "quantityRange" into the element
// name "QuantityRange".
func sweElementName(t swe.SimpleType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildPosition(g geom.T, srsPrefix, id string) (*position, error) {
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("%w: position of type %T", ErrUnsupported, g)
	}
	coords := make([]string, 0, p.Stride())
	for _, c := range p.FlatCoords() {
		coords = append(coords, formatFloat(c))
	}
	pt := point{ID: "pos_" + id, Pos: strings.Join(coords, " ")}
	if p.SRID() != 0 {
		pt.SRSName = srsPrefix + strconv.Itoa(p.SRID())
	}
	return &position{Point: pt}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
