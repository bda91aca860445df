package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/calc"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/session"
)

func newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <calculator> <well>",
		Short: "Run a property calculator over a well's layers",
		Long: `Run a property calculator over every layer of a well.

Available calculators:
  temperature        linear geothermal gradient
  pressure           hydrostatic pore pressure plus overpressure
  water_resistivity  Rw from salinity and temperature (Arps)
  archie             Rt and Rxo from porosity and saturation`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := calculatorByName(args[0])
			if err != nil {
				return err
			}
			return withWell(cmd, args[1], func(sess *session.Session, w *model.Well) error {
				if err := c.Calculate(context.Background(), w); err != nil {
					return fmt.Errorf("calculator %s failed: %w", c.Name(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ran %s on %s\n", c.Name(), w.Name)
				return nil
			})
		},
	}

	return cmd
}

func calculatorByName(name string) (calc.Calculator, error) {
	switch name {
	case "temperature":
		return calc.DefaultTemperature(), nil
	case "pressure":
		return calc.DefaultPressure(), nil
	case "water_resistivity":
		return calc.DefaultWaterResistivity(), nil
	case "archie":
		return calc.NewArchie(), nil
	}
	return nil, fmt.Errorf("unknown calculator %q (valid: temperature, pressure, water_resistivity, archie)", name)
}
