package calc

import (
	"context"
	"errors"
	"fmt"

	"github.com/ambia/UTAPWeLS/internal/constants"
	"github.com/ambia/UTAPWeLS/internal/model"
)

// HydrostaticGradient is the pressure gradient of fresh water, MPa per meter.
const HydrostaticGradient = 0.00981

// Pressure assigns a pore pressure profile referenced to a known pressure at
// a known depth: P(md) = ReferencePressure + Gradient * (md - ReferenceMD),
// plus any per-layer overpressure already set on the earth model.
type Pressure struct {
	// ReferenceMD is the depth of the reference pressure, in meters.
	ReferenceMD float64

	// ReferencePressure is the pressure at ReferenceMD, in MPa.
	ReferencePressure float64

	// Gradient is the pressure gradient in MPa per meter.
	Gradient float64
}

// DefaultPressure returns a Pressure calculator with atmospheric pressure at
// surface and a fresh-water hydrostatic gradient.
func DefaultPressure() *Pressure {
	return &Pressure{
		ReferenceMD:       0,
		ReferencePressure: constants.AtmosphericPressure,
		Gradient:          HydrostaticGradient,
	}
}

// Name implements Calculator.
func (c *Pressure) Name() string { return "Pressure" }

// Calculate implements Calculator.
func (c *Pressure) Calculate(ctx context.Context, w *model.Well) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Gradient <= 0 {
		return fmt.Errorf("pressure gradient must be positive, got %v", c.Gradient)
	}
	em := w.Earth
	for layer := 0; layer < em.NumLayers(); layer++ {
		mid, err := layerMidpoint(em, layer)
		if err != nil {
			return err
		}
		p := c.ReferencePressure + c.Gradient*(mid-c.ReferenceMD)

		over, err := em.Property(model.PropOverpressure, layer)
		switch {
		case err == nil:
			p += over
		case errors.Is(err, model.ErrPropertyUnset):
			// No overpressure assigned on this layer.
		default:
			return err
		}

		if err := em.SetProperty(model.PropPressure, layer, p); err != nil {
			return fmt.Errorf("pressure on layer %d: %w", layer, err)
		}
	}
	return nil
}
