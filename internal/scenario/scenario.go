// Package scenario runs YAML-scripted modeling workflows: a sequence of
// steps that build wells, populate earth models, run calculators and
// simulators, perturb curves and export results. Scenarios are the batch
// counterpart of the interactive CLI commands.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step kinds.
const (
	StepCreateWell      = "create_well"
	StepGenerateLayers  = "generate_layers"
	StepAddBB           = "add_bb"
	StepMoveBB          = "move_bb"
	StepDeleteBB        = "delete_bb"
	StepSetProperty     = "set_property"
	StepSetZoneProperty = "set_zone_property"
	StepSetRockClass    = "set_rock_class"
	StepSetComposition  = "set_composition"
	StepAddInvasion     = "add_invasion"
	StepCalculate       = "calculate"
	StepSimulate        = "simulate"
	StepAddNoise        = "add_noise"
	StepComposite       = "composite"
	StepExport          = "export"
	StepPlot            = "plot"
)

// ErrUnknownStep is returned for a step kind the runner does not recognize.
var ErrUnknownStep = errors.New("unknown step kind")

// Scenario is a named sequence of modeling steps.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scenario action. Kind selects the action; the remaining
// fields parameterize it and most are meaningful only for some kinds.
type Step struct {
	Kind string `yaml:"kind"`
	Well string `yaml:"well,omitempty"`

	// create_well
	TopMD    float64 `yaml:"top_md,omitempty"`
	BottomMD float64 `yaml:"bottom_md,omitempty"`

	// generate_layers
	Count  int     `yaml:"count,omitempty"`
	Jitter float64 `yaml:"jitter,omitempty"`
	Seed   uint64  `yaml:"seed,omitempty"`

	// add_bb, move_bb
	MD float64 `yaml:"md,omitempty"`

	// move_bb, delete_bb
	Index int `yaml:"index,omitempty"`

	// layer-scoped steps; nil means every layer where that makes sense
	Layer *int `yaml:"layer,omitempty"`
	Zone  int  `yaml:"zone,omitempty"`

	// set_property, set_zone_property
	Property string  `yaml:"property,omitempty"`
	Value    float64 `yaml:"value,omitempty"`

	// set_rock_class
	Class string `yaml:"class,omitempty"`

	// set_composition
	Slot       string             `yaml:"slot,omitempty"`
	Components map[string]float64 `yaml:"components,omitempty"`

	// add_invasion
	Radius float64 `yaml:"radius,omitempty"`

	// calculate
	Calculator string `yaml:"calculator,omitempty"`

	// simulate
	Simulator    string   `yaml:"simulator,omitempty"`
	Tool         string   `yaml:"tool,omitempty"`
	Variant      string   `yaml:"variant,omitempty"`
	Outputs      []string `yaml:"outputs,omitempty"`
	SamplingRate float64  `yaml:"sampling_rate,omitempty"`

	// add_noise, composite, export, plot
	Set string `yaml:"set,omitempty"`
	Log string `yaml:"log,omitempty"`

	// add_noise
	Mult float64 `yaml:"mult,omitempty"`
	Add  float64 `yaml:"add,omitempty"`
	Bias float64 `yaml:"bias,omitempty"`

	// composite
	Donor  string  `yaml:"donor,omitempty"`
	Top    float64 `yaml:"top,omitempty"`
	Bottom float64 `yaml:"bottom,omitempty"`

	// export, plot
	Format string   `yaml:"format,omitempty"`
	Path   string   `yaml:"path,omitempty"`
	Logs   []string `yaml:"logs,omitempty"`
}

// Load reads and validates a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// validKinds holds every step kind the runner implements.
var validKinds = map[string]bool{
	StepCreateWell:      true,
	StepGenerateLayers:  true,
	StepAddBB:           true,
	StepMoveBB:          true,
	StepDeleteBB:        true,
	StepSetProperty:     true,
	StepSetZoneProperty: true,
	StepSetRockClass:    true,
	StepSetComposition:  true,
	StepAddInvasion:     true,
	StepCalculate:       true,
	StepSimulate:        true,
	StepAddNoise:        true,
	StepComposite:       true,
	StepExport:          true,
	StepPlot:            true,
}

// Validate checks structural validity: a name, at least one step, known
// step kinds and a well on every step that needs one.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return errors.New("scenario name is required")
	}
	if len(sc.Steps) == 0 {
		return errors.New("scenario has no steps")
	}
	for i, st := range sc.Steps {
		if !validKinds[st.Kind] {
			return fmt.Errorf("step %d: %w: %q", i, ErrUnknownStep, st.Kind)
		}
		if st.Well == "" {
			return fmt.Errorf("step %d (%s): well is required", i, st.Kind)
		}
	}
	return nil
}
