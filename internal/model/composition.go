package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrUnknownComponent is returned for a component name outside the catalog.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrBadFractions is returned when component fractions are negative or do
	// not sum to one.
	ErrBadFractions = errors.New("invalid component fractions")

	// ErrCompositionUnset is returned when reading a composition slot that
	// was never assigned on the requested layer.
	ErrCompositionUnset = errors.New("composition not set")
)

// fractionTol is the tolerance on the component fraction sum.
const fractionTol = 1e-3

// Slot names a composition slot on a layer.
type Slot string

const (
	SlotMatrix Slot = "matrix"
	SlotShale  Slot = "shale"
	SlotFluid  Slot = "fluid"
)

// Component is one mineral or fluid with its volume fraction within a slot.
type Component struct {
	Name     string  `json:"name"`
	Fraction float64 `json:"fraction"`
}

// Composition assigns a component fraction vector to one slot of one layer.
type Composition struct {
	Slot       Slot        `json:"slot"`
	Layer      int         `json:"layer"`
	Components []Component `json:"components"`
}

func (c Composition) clone() Composition {
	out := c
	out.Components = append([]Component(nil), c.Components...)
	return out
}

// ComponentProps holds the tool-response constants of a catalog component.
// Density in g/cm3, Slowness in us/ft, GammaAPI in gAPI, HydrogenIndex
// dimensionless.
type ComponentProps struct {
	Density       float64
	Slowness      float64
	GammaAPI      float64
	HydrogenIndex float64
	Fluid         bool
}

// componentCatalog holds the minerals and fluids the composition slots accept.
var componentCatalog = map[string]ComponentProps{
	"quartz":    {Density: 2.65, Slowness: 55.5, GammaAPI: 10, HydrogenIndex: -0.02},
	"calcite":   {Density: 2.71, Slowness: 47.5, GammaAPI: 11, HydrogenIndex: 0},
	"dolomite":  {Density: 2.87, Slowness: 43.5, GammaAPI: 8, HydrogenIndex: 0.02},
	"illite":    {Density: 2.75, Slowness: 90, GammaAPI: 110, HydrogenIndex: 0.30},
	"kaolinite": {Density: 2.59, Slowness: 80, GammaAPI: 80, HydrogenIndex: 0.37},
	"water":     {Density: 1.00, Slowness: 189, GammaAPI: 0, HydrogenIndex: 1.0, Fluid: true},
	"oil":       {Density: 0.80, Slowness: 238, GammaAPI: 0, HydrogenIndex: 1.0, Fluid: true},
	"gas":       {Density: 0.20, Slowness: 600, GammaAPI: 0, HydrogenIndex: 0.4, Fluid: true},
}

// ComponentCatalog returns the props of a cataloged component.
func ComponentCatalog(name string) (ComponentProps, error) {
	p, ok := componentCatalog[name]
	if !ok {
		return ComponentProps{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return p, nil
}

// ComponentNames returns the catalog's component names, sorted.
func ComponentNames() []string {
	out := make([]string, 0, len(componentCatalog))
	for name := range componentCatalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func validSlot(slot Slot) bool {
	switch slot {
	case SlotMatrix, SlotShale, SlotFluid:
		return true
	}
	return false
}

// SetComposition assigns a component fraction vector to one slot of a layer.
// Every component must be cataloged, fractions non-negative, and the
// fraction sum must be 1 within tolerance.
func (m *EarthModel) SetComposition(slot Slot, layer int, comps []Component) error {
	if !validSlot(slot) {
		return fmt.Errorf("unknown composition slot %q", slot)
	}
	if layer < 0 || layer >= m.NumLayers() {
		return fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	if len(comps) == 0 {
		return fmt.Errorf("%w: empty component list", ErrBadFractions)
	}
	sum := 0.0
	for _, c := range comps {
		if _, ok := componentCatalog[c.Name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownComponent, c.Name)
		}
		if c.Fraction < 0 {
			return fmt.Errorf("%w: %q has negative fraction %v", ErrBadFractions, c.Name, c.Fraction)
		}
		sum += c.Fraction
	}
	if math.Abs(sum-1) > fractionTol {
		return fmt.Errorf("%w: fractions sum to %v", ErrBadFractions, sum)
	}

	stored := Composition{Slot: slot, Layer: layer, Components: append([]Component(nil), comps...)}
	for i := range m.Comps {
		if m.Comps[i].Slot == slot && m.Comps[i].Layer == layer {
			m.Comps[i] = stored
			return nil
		}
	}
	m.Comps = append(m.Comps, stored)
	return nil
}

// Composition reads the component vector of one slot of a layer.
func (m *EarthModel) Composition(slot Slot, layer int) ([]Component, error) {
	if !validSlot(slot) {
		return nil, fmt.Errorf("unknown composition slot %q", slot)
	}
	if layer < 0 || layer >= m.NumLayers() {
		return nil, fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	for _, c := range m.Comps {
		if c.Slot == slot && c.Layer == layer {
			return append([]Component(nil), c.Components...), nil
		}
	}
	return nil, fmt.Errorf("%w: slot %q on layer %d", ErrCompositionUnset, slot, layer)
}
