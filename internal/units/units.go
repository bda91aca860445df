// Package units provides unit conversion for the physical quantities the
// toolkit manipulates: depth, temperature, pressure, resistivity, salinity,
// density, slowness, porosity and gamma ray.
//
// Every unit belongs to exactly one quantity and is defined by an affine
// transform to that quantity's canonical unit. Conversion between units of
// different quantities is an error.
package units

import (
	"fmt"
	"sort"
)

// Quantity identifies a physical quantity.
type Quantity string

const (
	QuantityDepth       Quantity = "depth"
	QuantityTemperature Quantity = "temperature"
	QuantityPressure    Quantity = "pressure"
	QuantityResistivity Quantity = "resistivity"
	QuantitySalinity    Quantity = "salinity"
	QuantityDensity     Quantity = "density"
	QuantitySlowness    Quantity = "slowness"
	QuantityPorosity    Quantity = "porosity"
	QuantityGammaRay    Quantity = "gamma-ray"
	QuantityNone        Quantity = "dimensionless"
)

// Unit is a unit symbol, e.g. "m", "ft", "degC", "ohm.m".
type Unit string

// Canonical unit symbols per quantity.
const (
	Meter       Unit = "m"
	Foot        Unit = "ft"
	DegC        Unit = "degC"
	DegF        Unit = "degF"
	MPa         Unit = "MPa"
	KPa         Unit = "kPa"
	PSI         Unit = "psi"
	OhmMeter    Unit = "ohm.m"
	PPM         Unit = "ppm"
	KPPM        Unit = "kppm"
	GramPerCC   Unit = "g/cm3"
	KgPerM3     Unit = "kg/m3"
	USPerFoot   Unit = "us/ft"
	USPerMeter  Unit = "us/m"
	VolFraction Unit = "v/v"
	PorosityPU  Unit = "pu"
	GAPI        Unit = "gAPI"
	None        Unit = ""
)

// def describes a unit as canonical = value*scale + offset.
type def struct {
	quantity Quantity
	scale    float64
	offset   float64
}

var defs = map[Unit]def{
	Meter: {QuantityDepth, 1, 0},
	Foot:  {QuantityDepth, 0.3048, 0},

	DegC: {QuantityTemperature, 1, 0},
	DegF: {QuantityTemperature, 5.0 / 9.0, -160.0 / 9.0},

	MPa: {QuantityPressure, 1, 0},
	KPa: {QuantityPressure, 0.001, 0},
	PSI: {QuantityPressure, 0.00689476, 0},

	OhmMeter: {QuantityResistivity, 1, 0},

	PPM:  {QuantitySalinity, 1, 0},
	KPPM: {QuantitySalinity, 1000, 0},

	GramPerCC: {QuantityDensity, 1, 0},
	KgPerM3:   {QuantityDensity, 0.001, 0},

	USPerFoot:  {QuantitySlowness, 1, 0},
	USPerMeter: {QuantitySlowness, 0.3048, 0},

	VolFraction: {QuantityPorosity, 1, 0},
	PorosityPU:  {QuantityPorosity, 0.01, 0},

	GAPI: {QuantityGammaRay, 1, 0},

	None: {QuantityNone, 1, 0},
}

// QuantityOf returns the quantity a unit measures.
func QuantityOf(u Unit) (Quantity, error) {
	d, ok := defs[u]
	if !ok {
		return "", fmt.Errorf("unknown unit %q", u)
	}
	return d.quantity, nil
}

// Known reports whether u is a registered unit symbol.
func Known(u Unit) bool {
	_, ok := defs[u]
	return ok
}

// Units returns all registered unit symbols, sorted.
func Units() []Unit {
	out := make([]Unit, 0, len(defs))
	for u := range defs {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Convert converts a value from one unit to another. Both units must be
// registered and measure the same quantity.
func Convert(v float64, from, to Unit) (float64, error) {
	if from == to {
		return v, nil
	}
	fd, ok := defs[from]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	td, ok := defs[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	if fd.quantity != td.quantity {
		return 0, fmt.Errorf("cannot convert %s (%s) to %s (%s)", from, fd.quantity, to, td.quantity)
	}
	canonical := v*fd.scale + fd.offset
	return (canonical - td.offset) / td.scale, nil
}

// ConvertSeries converts a series in place-safe fashion: the input slice is
// not modified and a freshly allocated slice is returned.
func ConvertSeries(xs []float64, from, to Unit) ([]float64, error) {
	out := make([]float64, len(xs))
	if from == to {
		copy(out, xs)
		return out, nil
	}
	// Validate once, then apply the affine transform directly.
	if _, err := Convert(0, from, to); err != nil {
		return nil, err
	}
	fd := defs[from]
	td := defs[to]
	for i, x := range xs {
		out[i] = (x*fd.scale + fd.offset - td.offset) / td.scale
	}
	return out, nil
}
