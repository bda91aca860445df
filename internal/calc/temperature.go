package calc

import (
	"context"
	"fmt"

	"github.com/ambia/UTAPWeLS/internal/constants"
	"github.com/ambia/UTAPWeLS/internal/model"
)

// Temperature assigns a linear geothermal profile: the temperature at a
// layer midpoint is SurfaceTemp + Gradient * midpoint depth.
type Temperature struct {
	// SurfaceTemp is the temperature at zero measured depth, in degC.
	SurfaceTemp float64

	// Gradient is the geothermal gradient in degC per meter.
	Gradient float64
}

// DefaultTemperature returns a Temperature calculator with a 15 degC surface
// temperature and a 30 degC/km gradient.
func DefaultTemperature() *Temperature {
	return &Temperature{
		SurfaceTemp: constants.DefaultSurfaceTemp,
		Gradient:    constants.DefaultGeothermalGradient,
	}
}

// Name implements Calculator.
func (c *Temperature) Name() string { return "Temperature" }

// Calculate implements Calculator.
func (c *Temperature) Calculate(ctx context.Context, w *model.Well) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Gradient < 0 {
		return fmt.Errorf("geothermal gradient must be non-negative, got %v", c.Gradient)
	}
	em := w.Earth
	for layer := 0; layer < em.NumLayers(); layer++ {
		mid, err := layerMidpoint(em, layer)
		if err != nil {
			return err
		}
		temp := c.SurfaceTemp + c.Gradient*mid
		if err := em.SetProperty(model.PropTemperature, layer, temp); err != nil {
			return fmt.Errorf("temperature on layer %d: %w", layer, err)
		}
	}
	return nil
}
