// Package constants provides named constants used throughout the toolkit.
// This centralizes magic numbers for better maintainability and documentation.
package constants

// Sampling and modeling defaults
const (
	// DefaultSamplingRate is the default log sampling rate in meters
	// (half a foot), used when a simulator config leaves it unset.
	DefaultSamplingRate = 0.1524

	// DefaultSurfaceTemp is the default surface temperature in degC for the
	// geothermal gradient calculator.
	DefaultSurfaceTemp = 15.0

	// DefaultGeothermalGradient is the default geothermal gradient in degC
	// per meter (30 degC/km).
	DefaultGeothermalGradient = 0.03

	// AtmosphericPressure is surface pressure in MPa, the default reference
	// for the pore pressure calculator.
	AtmosphericPressure = 0.101325
)

// Tool variant defaults
const (
	// DefaultResistivityTool is the resistivity simulator variant used when
	// none is configured.
	DefaultResistivityTool = "induction"

	// DefaultNuclearTool is the nuclear simulator variant used when none is
	// configured.
	DefaultNuclearTool = "standard"

	// DefaultSonicVariant is the sonic porosity-slowness transform used
	// when none is configured.
	DefaultSonicVariant = "wyllie"
)
