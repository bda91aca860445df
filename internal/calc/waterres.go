package calc

import (
	"context"
	"fmt"

	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/units"
)

// WaterResistivity derives brine resistivity from salinity and temperature
// using the Arps relation. With the in-situ flags set it reads salinity and
// temperature from the earth model per layer; otherwise it uses the
// configured surface-condition values.
type WaterResistivity struct {
	// InSituSalinity reads each layer's Salinity property instead of
	// Salinity below.
	InSituSalinity bool

	// InSituTemperature reads each layer's Temperature property instead of
	// Temperature below.
	InSituTemperature bool

	// Salinity is the brine salinity in ppm NaCl when InSituSalinity is off.
	Salinity float64

	// Temperature is the brine temperature in degC when InSituTemperature
	// is off.
	Temperature float64
}

// DefaultWaterResistivity returns a calculator reading in-situ salinity and
// temperature from the earth model.
func DefaultWaterResistivity() *WaterResistivity {
	return &WaterResistivity{InSituSalinity: true, InSituTemperature: true}
}

// Name implements Calculator.
func (c *WaterResistivity) Name() string { return "Water Resistivity" }

// RwFromSalinity evaluates the Arps-style chart fit for NaCl brine
// resistivity (ohm.m) at the given salinity (ppm) and temperature (degC).
func RwFromSalinity(ppm, tempC float64) (float64, error) {
	if ppm <= 0 {
		return 0, fmt.Errorf("salinity must be positive, got %v ppm", ppm)
	}
	tempF, err := units.Convert(tempC, units.DegC, units.DegF)
	if err != nil {
		return 0, err
	}
	if tempF <= -6.77 {
		return 0, fmt.Errorf("temperature %v degC below the Arps fit range", tempC)
	}
	rw75 := 0.0123 + 3647.5/powf(ppm, 0.955)
	return rw75 * 81.77 / (tempF + 6.77), nil
}

// Calculate implements Calculator.
func (c *WaterResistivity) Calculate(ctx context.Context, w *model.Well) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	em := w.Earth
	for layer := 0; layer < em.NumLayers(); layer++ {
		ppm := c.Salinity
		if c.InSituSalinity {
			v, err := em.Property(model.PropSalinity, layer)
			if err != nil {
				return fmt.Errorf("water resistivity on layer %d: %w", layer, err)
			}
			ppm = v
		}
		tempC := c.Temperature
		if c.InSituTemperature {
			v, err := em.Property(model.PropTemperature, layer)
			if err != nil {
				return fmt.Errorf("water resistivity on layer %d: %w", layer, err)
			}
			tempC = v
		}

		rw, err := RwFromSalinity(ppm, tempC)
		if err != nil {
			return fmt.Errorf("water resistivity on layer %d: %w", layer, err)
		}
		if err := em.SetProperty(model.PropWaterResistivity, layer, rw); err != nil {
			return fmt.Errorf("water resistivity on layer %d: %w", layer, err)
		}
	}
	return nil
}
