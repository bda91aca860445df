package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ambia/UTAPWeLS/internal/units"
)

var (
	// ErrUnknownProperty is returned for a property name outside the catalog.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrPropertyUnset is returned when reading a property that was never
	// assigned for the requested layer or zone.
	ErrPropertyUnset = errors.New("property not set")
)

// Property names accepted by the earth model accessors. The comma-suffixed
// forms follow the naming the scripting surface exposes.
const (
	PropPorosityTotal    = "Porosity, Total"
	PropWaterSatTotal    = "Water Saturation, Total"
	PropSalinity         = "Salinity"
	PropWaterResistivity = "Water Resistivity"
	PropTemperature      = "Temperature"
	PropPressure         = "Pressure"
	PropResistivityTrue  = "Resistivity, True"
	PropResistivityXO    = "Resistivity, Flushed Zone"
	PropMudFiltrateRes   = "Mud Filtrate Resistivity"
	PropShaleVolume      = "Shale Volume"
	PropOverpressure     = "Overpressure"
)

// propertyCatalog maps each accepted property name to its storage unit.
var propertyCatalog = map[string]units.Unit{
	PropPorosityTotal:    units.VolFraction,
	PropWaterSatTotal:    units.VolFraction,
	PropSalinity:         units.PPM,
	PropWaterResistivity: units.OhmMeter,
	PropTemperature:      units.DegC,
	PropPressure:         units.MPa,
	PropResistivityTrue:  units.OhmMeter,
	PropResistivityXO:    units.OhmMeter,
	PropMudFiltrateRes:   units.OhmMeter,
	PropShaleVolume:      units.VolFraction,
	PropOverpressure:     units.MPa,
}

// PropertyUnit returns the storage unit of a cataloged property.
func PropertyUnit(name string) (units.Unit, error) {
	u, ok := propertyCatalog[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return u, nil
}

// PropertyNames returns the catalog's property names, sorted.
func PropertyNames() []string {
	out := make([]string, 0, len(propertyCatalog))
	for name := range propertyCatalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SetProperty assigns a named property on one layer.
func (m *EarthModel) SetProperty(name string, layer int, value float64) error {
	if _, ok := propertyCatalog[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	if layer < 0 || layer >= m.NumLayers() {
		return fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	vals, ok := m.Props[name]
	if !ok {
		vals = make([]float64, m.NumLayers())
		for i := range vals {
			vals[i] = math.NaN()
		}
		m.Props[name] = vals
	}
	vals[layer] = value
	return nil
}

// SetPropertyAll assigns a named property on every layer.
func (m *EarthModel) SetPropertyAll(name string, value float64) error {
	for layer := 0; layer < m.NumLayers(); layer++ {
		if err := m.SetProperty(name, layer, value); err != nil {
			return err
		}
	}
	return nil
}

// Property reads a named property from one layer.
func (m *EarthModel) Property(name string, layer int) (float64, error) {
	if _, ok := propertyCatalog[name]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	if layer < 0 || layer >= m.NumLayers() {
		return 0, fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	vals, ok := m.Props[name]
	if !ok || math.IsNaN(vals[layer]) {
		return 0, fmt.Errorf("%w: %q on layer %d", ErrPropertyUnset, name, layer)
	}
	return vals[layer], nil
}

// SetZoneProperty assigns a named property on one invasion zone of a layer.
func (m *EarthModel) SetZoneProperty(name string, layer, zone int, value float64) error {
	if _, ok := propertyCatalog[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	nz, err := m.NumZones(layer)
	if err != nil {
		return err
	}
	if zone < 0 || zone >= nz {
		return fmt.Errorf("%w: zone %d of %d on layer %d", ErrZoneIndex, zone, nz, layer)
	}
	for i := range m.ZoneProps {
		z := &m.ZoneProps[i]
		if z.Name == name && z.Layer == layer && z.Zone == zone {
			z.Value = value
			return nil
		}
	}
	m.ZoneProps = append(m.ZoneProps, ZoneProperty{Name: name, Layer: layer, Zone: zone, Value: value})
	return nil
}

// ZoneProperty reads a named property from one invasion zone of a layer.
func (m *EarthModel) ZoneProperty(name string, layer, zone int) (float64, error) {
	if _, ok := propertyCatalog[name]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	nz, err := m.NumZones(layer)
	if err != nil {
		return 0, err
	}
	if zone < 0 || zone >= nz {
		return 0, fmt.Errorf("%w: zone %d of %d on layer %d", ErrZoneIndex, zone, nz, layer)
	}
	for _, z := range m.ZoneProps {
		if z.Name == name && z.Layer == layer && z.Zone == zone {
			return z.Value, nil
		}
	}
	return 0, fmt.Errorf("%w: %q on layer %d zone %d", ErrPropertyUnset, name, layer, zone)
}

// SetRockClass assigns a rock class name to a layer.
func (m *EarthModel) SetRockClass(layer int, class string) error {
	if layer < 0 || layer >= m.NumLayers() {
		return fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	m.Classes[layer] = class
	return nil
}

// RockClass returns the rock class assigned to a layer ("" if none).
func (m *EarthModel) RockClass(layer int) (string, error) {
	if layer < 0 || layer >= m.NumLayers() {
		return "", fmt.Errorf("%w: %d of %d", ErrLayerIndex, layer, m.NumLayers())
	}
	return m.Classes[layer], nil
}
