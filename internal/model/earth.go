// Package model implements the well and layered earth model: bed boundaries,
// invasion zones, per-layer petrophysical properties and mineral/fluid
// compositions. All mutation goes through methods so the structural
// invariants hold: boundary depths strictly increasing inside the modeling
// interval, per-layer storage reindexed on every layer split or merge.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrBoundaryIndex is returned for an out-of-range bed boundary index.
	ErrBoundaryIndex = errors.New("bed boundary index out of range")

	// ErrBoundaryDepth is returned when a boundary depth would violate the
	// strictly increasing ordering inside the modeling interval.
	ErrBoundaryDepth = errors.New("invalid bed boundary depth")

	// ErrLayerIndex is returned for an out-of-range layer index.
	ErrLayerIndex = errors.New("layer index out of range")

	// ErrZoneIndex is returned for an out-of-range invasion zone index.
	ErrZoneIndex = errors.New("invasion zone index out of range")
)

// boundaryTol is the minimum separation between bed boundaries in meters.
const boundaryTol = 1e-6

// ZoneProperty is a property value scoped to one invasion zone of one layer.
type ZoneProperty struct {
	Name  string  `json:"name"`
	Layer int     `json:"layer"`
	Zone  int     `json:"zone"`
	Value float64 `json:"value"`
}

// EarthModel is the layered subsurface representation of a well. The
// modeling interval [TopMD, BottomMD] is divided into len(Boundaries)+1
// layers by the interior bed boundaries.
type EarthModel struct {
	TopMD    float64 `json:"top_md"`
	BottomMD float64 `json:"bottom_md"`

	// Boundaries holds the interior bed boundary depths, strictly
	// increasing, exclusive of the interval endpoints.
	Boundaries []float64 `json:"boundaries"`

	// Props maps property name to per-layer values. Slices always have
	// NumLayers entries; unset entries hold NaN.
	Props map[string][]float64 `json:"props"`

	// Invasion holds per-layer invasion front radii in meters, strictly
	// increasing within a layer. Zone i of a layer is the region inside
	// radius Invasion[layer][i].
	Invasion [][]float64 `json:"invasion"`

	// ZoneProps holds property values scoped to invasion zones.
	ZoneProps []ZoneProperty `json:"zone_props,omitempty"`

	// Classes holds the per-layer rock class name ("" when unassigned).
	Classes []string `json:"classes"`

	// Comps holds per-layer compositions, one entry per (slot, layer).
	Comps []Composition `json:"comps,omitempty"`
}

// NewEarthModel creates a single-layer earth model over [top, bottom].
func NewEarthModel(top, bottom float64) (*EarthModel, error) {
	if bottom <= top {
		return nil, fmt.Errorf("modeling interval invalid: top %v, bottom %v", top, bottom)
	}
	return &EarthModel{
		TopMD:    top,
		BottomMD: bottom,
		Props:    make(map[string][]float64),
		Invasion: [][]float64{nil},
		Classes:  []string{""},
	}, nil
}

// NumLayers returns the current layer count.
func (m *EarthModel) NumLayers() int {
	return len(m.Boundaries) + 1
}

// LayerBounds returns the depth interval of a layer.
func (m *EarthModel) LayerBounds(layer int) (top, bottom float64, err error) {
	if layer < 0 || layer >= m.NumLayers() {
		return 0, 0, fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	top = m.TopMD
	if layer > 0 {
		top = m.Boundaries[layer-1]
	}
	bottom = m.BottomMD
	if layer < len(m.Boundaries) {
		bottom = m.Boundaries[layer]
	}
	return top, bottom, nil
}

// LayerAt returns the index of the layer containing the given depth.
func (m *EarthModel) LayerAt(md float64) (int, error) {
	if md < m.TopMD || md > m.BottomMD {
		return 0, fmt.Errorf("depth %v outside modeling interval [%v, %v]", md, m.TopMD, m.BottomMD)
	}
	// Boundaries are sorted; the layer is the count of boundaries above md.
	return sort.SearchFloat64s(m.Boundaries, md), nil
}

// AddBB inserts a bed boundary at the given measured depth, splitting the
// containing layer in two. Both halves inherit the parent layer's
// properties, composition, rock class and invasion state. Returns the index
// of the new boundary.
func (m *EarthModel) AddBB(md float64) (int, error) {
	if md <= m.TopMD+boundaryTol || md >= m.BottomMD-boundaryTol {
		return 0, fmt.Errorf("%w: %v outside open interval (%v, %v)", ErrBoundaryDepth, md, m.TopMD, m.BottomMD)
	}
	i := sort.SearchFloat64s(m.Boundaries, md)
	if i < len(m.Boundaries) && math.Abs(m.Boundaries[i]-md) < boundaryTol {
		return 0, fmt.Errorf("%w: boundary already exists at %v", ErrBoundaryDepth, md)
	}
	if i > 0 && math.Abs(m.Boundaries[i-1]-md) < boundaryTol {
		return 0, fmt.Errorf("%w: boundary already exists at %v", ErrBoundaryDepth, md)
	}

	m.Boundaries = append(m.Boundaries, 0)
	copy(m.Boundaries[i+1:], m.Boundaries[i:])
	m.Boundaries[i] = md

	// The boundary falls inside layer i: split it into layers i and i+1.
	m.splitLayer(i)
	return i, nil
}

// MoveBB shifts an existing bed boundary to a new depth. The new depth must
// stay strictly between the neighboring boundaries so no layer vanishes.
func (m *EarthModel) MoveBB(index int, md float64) error {
	if index < 0 || index >= len(m.Boundaries) {
		return fmt.Errorf("%w: %d of %d", ErrBoundaryIndex, index, len(m.Boundaries))
	}
	lo := m.TopMD
	if index > 0 {
		lo = m.Boundaries[index-1]
	}
	hi := m.BottomMD
	if index < len(m.Boundaries)-1 {
		hi = m.Boundaries[index+1]
	}
	if md <= lo+boundaryTol || md >= hi-boundaryTol {
		return fmt.Errorf("%w: %v outside open interval (%v, %v)", ErrBoundaryDepth, md, lo, hi)
	}
	m.Boundaries[index] = md
	return nil
}

// DeleteBB removes a bed boundary, merging the layers it separated. The
// merged layer keeps the shallower layer's properties, composition, class
// and invasion state.
func (m *EarthModel) DeleteBB(index int) error {
	if index < 0 || index >= len(m.Boundaries) {
		return fmt.Errorf("%w: %d of %d", ErrBoundaryIndex, index, len(m.Boundaries))
	}
	m.Boundaries = append(m.Boundaries[:index], m.Boundaries[index+1:]...)
	m.mergeLayer(index)
	return nil
}

// splitLayer duplicates per-layer storage when layer i splits into i and i+1.
func (m *EarthModel) splitLayer(i int) {
	for name, vals := range m.Props {
		vals = append(vals, 0)
		copy(vals[i+1:], vals[i:])
		m.Props[name] = vals
	}
	m.Invasion = append(m.Invasion, nil)
	copy(m.Invasion[i+1:], m.Invasion[i:])
	m.Invasion[i+1] = append([]float64(nil), m.Invasion[i]...)

	m.Classes = append(m.Classes, "")
	copy(m.Classes[i+1:], m.Classes[i:])

	var dup []Composition
	for k := range m.Comps {
		if m.Comps[k].Layer > i {
			m.Comps[k].Layer++
		} else if m.Comps[k].Layer == i {
			c := m.Comps[k].clone()
			c.Layer = i + 1
			dup = append(dup, c)
		}
	}
	m.Comps = append(m.Comps, dup...)

	var zdup []ZoneProperty
	for k := range m.ZoneProps {
		if m.ZoneProps[k].Layer > i {
			m.ZoneProps[k].Layer++
		} else if m.ZoneProps[k].Layer == i {
			z := m.ZoneProps[k]
			z.Layer = i + 1
			zdup = append(zdup, z)
		}
	}
	m.ZoneProps = append(m.ZoneProps, zdup...)
}

// mergeLayer collapses layers i and i+1 into layer i, keeping layer i's data.
func (m *EarthModel) mergeLayer(i int) {
	for name, vals := range m.Props {
		m.Props[name] = append(vals[:i+1], vals[i+2:]...)
	}
	m.Invasion = append(m.Invasion[:i+1], m.Invasion[i+2:]...)
	m.Classes = append(m.Classes[:i+1], m.Classes[i+2:]...)

	comps := m.Comps[:0]
	for _, c := range m.Comps {
		if c.Layer == i+1 {
			continue
		}
		if c.Layer > i+1 {
			c.Layer--
		}
		comps = append(comps, c)
	}
	m.Comps = comps

	zprops := m.ZoneProps[:0]
	for _, z := range m.ZoneProps {
		if z.Layer == i+1 {
			continue
		}
		if z.Layer > i+1 {
			z.Layer--
		}
		zprops = append(zprops, z)
	}
	m.ZoneProps = zprops
}

// AddInvasionZone attaches an invasion front of the given radius to a layer.
// Radii within a layer must be strictly increasing, so each new front must
// lie beyond the deepest existing one.
func (m *EarthModel) AddInvasionZone(layer int, radius float64) error {
	if layer < 0 || layer >= m.NumLayers() {
		return fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	if radius <= 0 {
		return fmt.Errorf("invasion radius must be positive, got %v", radius)
	}
	fronts := m.Invasion[layer]
	if n := len(fronts); n > 0 && radius <= fronts[n-1] {
		return fmt.Errorf("invasion radius %v not beyond existing front %v", radius, fronts[n-1])
	}
	m.Invasion[layer] = append(fronts, radius)
	return nil
}

// NumZones returns the number of invasion zones attached to a layer.
func (m *EarthModel) NumZones(layer int) (int, error) {
	if layer < 0 || layer >= m.NumLayers() {
		return 0, fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	return len(m.Invasion[layer]), nil
}
