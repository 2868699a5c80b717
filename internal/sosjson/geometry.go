package sosjson

import (
	"math"
	"strconv"

	"github.com/twpayne/go-geom"
)

// GeoJSON geometry type names.
const (
	geometryPoint              = "Point"
	geometryLineString         = "LineString"
	geometryPolygon            = "Polygon"
	geometryMultiPoint         = "MultiPoint"
	geometryMultiLineString    = "MultiLineString"
	geometryMultiPolygon       = "MultiPolygon"
	geometryGeometryCollection = "GeometryCollection"
)

// EncodeGeometry encodes g as a top-level geometry, i.e. with the default
// SRID as parent.
func (e *Encoder) EncodeGeometry(g geom.T) (*Object, error) {
	return e.encodeGeometry(g, e.DefaultSRID())
}

// EncodeGeometryWithParent encodes g inside a parent whose reference system
// is parentSRID.
func (e *Encoder) EncodeGeometryWithParent(g geom.T, parentSRID int) (*Object, error) {
	return e.encodeGeometry(g, parentSRID)
}

func (e *Encoder) encodeGeometry(g geom.T, parentSRID int) (*Object, error) {
	if g == nil {
		return nil, unsupported("geometry", "nil")
	}

	obj := NewObject()
	switch t := g.(type) {
	case *geom.Point:
		obj.PutString(keyType, geometryPoint)
		obj.Put(keyCoordinates, encodeCoord(t.Layout(), t.FlatCoords()))
	case *geom.LineString:
		obj.PutString(keyType, geometryLineString)
		obj.Put(keyCoordinates, encodeCoords(t.Layout(), t.Coords()))
	case *geom.Polygon:
		obj.PutString(keyType, geometryPolygon)
		obj.Put(keyCoordinates, encodeRings(t.Layout(), t.Coords()))
	case *geom.MultiPoint:
		obj.PutString(keyType, geometryMultiPoint)
		points := NewArray()
		for i := 0; i < t.NumPoints(); i++ {
			p := t.Point(i)
			points.Add(encodeCoord(p.Layout(), p.FlatCoords()))
		}
		obj.Put(keyCoordinates, points)
	case *geom.MultiLineString:
		obj.PutString(keyType, geometryMultiLineString)
		obj.Put(keyCoordinates, encodeRings(t.Layout(), t.Coords()))
	case *geom.MultiPolygon:
		obj.PutString(keyType, geometryMultiPolygon)
		polygons := NewArray()
		for _, rings := range t.Coords() {
			polygons.Add(encodeRings(t.Layout(), rings))
		}
		obj.Put(keyCoordinates, polygons)
	case *geom.GeometryCollection:
		obj.PutString(keyType, geometryGeometryCollection)
		collectionSRID := t.SRID()
		if collectionSRID == 0 {
			collectionSRID = parentSRID
		}
		geometries := obj.PutArray(keyGeometries)
		for _, child := range t.Geoms() {
			encoded, err := e.encodeGeometry(child, collectionSRID)
			if err != nil {
				return nil, err
			}
			geometries.Add(encoded)
		}
	default:
		return nil, unsupportedType("geometry", g)
	}

	if crs := e.encodeCRS(g.SRID(), parentSRID); crs != nil {
		obj.Put(keyCRS, crs)
	}
	return obj, nil
}

// encodeCRS returns a link to the reference system srid, or nil when srid
// is inherited from the parent.
func (e *Encoder) encodeCRS(srid, parentSRID int) *Object {
	defaultSRID := e.DefaultSRID()
	if srid == parentSRID || srid == 0 || (parentSRID == defaultSRID && srid == defaultSRID) {
		return nil
	}
	return e.crsLink(srid)
}

func (e *Encoder) crsLink(srid int) *Object {
	crs := NewObject()
	crs.PutString(keyType, crsTypeLink)
	crs.PutObject(keyProperties).PutString(keyHref, e.CRSPrefix()+strconv.Itoa(srid))
	return crs
}

// encodeCoord writes x and y, plus z when the layout has one that is a
// number.
func encodeCoord(layout geom.Layout, coord []float64) *Array {
	a := NewArray()
	if len(coord) < 2 {
		return a
	}
	a.Add(Double(coord[0])).Add(Double(coord[1]))
	if zi := layout.ZIndex(); zi > 0 && zi < len(coord) && !math.IsNaN(coord[zi]) {
		a.Add(Double(coord[zi]))
	}
	return a
}

func encodeCoords(layout geom.Layout, coords []geom.Coord) *Array {
	a := NewArray()
	for _, c := range coords {
		a.Add(encodeCoord(layout, c))
	}
	return a
}

func encodeRings(layout geom.Layout, rings [][]geom.Coord) *Array {
	a := NewArray()
	for _, ring := range rings {
		a.Add(encodeCoords(layout, ring))
	}
	return a
}
