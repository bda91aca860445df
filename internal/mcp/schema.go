// Package mcp exposes the modeling session over the Model Context Protocol
// so agents can create wells, edit layered models and run simulations.
package mcp

// CreateWellInput defines the input for the wels_create_well tool.
type CreateWellInput struct {
	Name     string  `json:"name" jsonschema:"Well name"`
	TopMD    float64 `json:"top_md" jsonschema:"Top measured depth of the modeled interval in meters"`
	BottomMD float64 `json:"bottom_md" jsonschema:"Bottom measured depth of the modeled interval in meters"`
}

// CreateWellOutput defines the output for the wels_create_well tool.
type CreateWellOutput struct {
	Name     string  `json:"name" jsonschema:"Well name"`
	TopMD    float64 `json:"top_md" jsonschema:"Top measured depth in meters"`
	BottomMD float64 `json:"bottom_md" jsonschema:"Bottom measured depth in meters"`
	Layers   int     `json:"layers" jsonschema:"Number of layers in the new earth model"`
}

// ListWellsInput defines the input for the wels_list_wells tool.
type ListWellsInput struct{}

// ListWellsOutput defines the output for the wels_list_wells tool.
type ListWellsOutput struct {
	Wells []WellSummary `json:"wells" jsonschema:"Wells in the project"`
	Count int           `json:"count" jsonschema:"Number of wells"`
}

// WellSummary provides a list view of a well.
type WellSummary struct {
	Name     string   `json:"name"`
	TopMD    float64  `json:"top_md"`
	BottomMD float64  `json:"bottom_md"`
	Layers   int      `json:"layers"`
	LogSets  []string `json:"log_sets,omitempty"`
}

// AddBoundaryInput defines the input for the wels_add_boundary tool.
type AddBoundaryInput struct {
	Well string  `json:"well" jsonschema:"Well name"`
	MD   float64 `json:"md" jsonschema:"Measured depth of the new bed boundary in meters"`
}

// AddBoundaryOutput defines the output for the wels_add_boundary tool.
type AddBoundaryOutput struct {
	Index  int `json:"index" jsonschema:"Index of the inserted boundary"`
	Layers int `json:"layers" jsonschema:"Number of layers after the split"`
}

// SetPropertyInput defines the input for the wels_set_property tool.
type SetPropertyInput struct {
	Well     string  `json:"well" jsonschema:"Well name"`
	Property string  `json:"property" jsonschema:"Property name (e.g. 'Porosity, Total')"`
	Value    float64 `json:"value" jsonschema:"Property value in the property's canonical unit"`
	Layer    *int    `json:"layer,omitempty" jsonschema:"Layer index; omit to set every layer"`
	Zone     *int    `json:"zone,omitempty" jsonschema:"Radial zone index within the layer (requires layer)"`
}

// SetPropertyOutput defines the output for the wels_set_property tool.
type SetPropertyOutput struct {
	Property string `json:"property" jsonschema:"Property name"`
	Layers   int    `json:"layers" jsonschema:"Number of layers the value was applied to"`
}

// SetCompositionInput defines the input for the wels_set_composition tool.
type SetCompositionInput struct {
	Well       string             `json:"well" jsonschema:"Well name"`
	Layer      int                `json:"layer" jsonschema:"Layer index"`
	Slot       string             `json:"slot" jsonschema:"Composition slot: 'matrix' or 'fluid'"`
	Components map[string]float64 `json:"components" jsonschema:"Component name to volume fraction; fractions must sum to 1"`
}

// SetCompositionOutput defines the output for the wels_set_composition tool.
type SetCompositionOutput struct {
	Layer      int `json:"layer" jsonschema:"Layer index"`
	Components int `json:"components" jsonschema:"Number of components set"`
}

// RunCalculatorInput defines the input for the wels_run_calculator tool.
type RunCalculatorInput struct {
	Well       string `json:"well" jsonschema:"Well name"`
	Calculator string `json:"calculator" jsonschema:"Calculator to run: 'temperature' 'pressure' 'water_resistivity' or 'archie'"`
}

// RunCalculatorOutput defines the output for the wels_run_calculator tool.
type RunCalculatorOutput struct {
	Calculator string `json:"calculator" jsonschema:"Calculator that ran"`
	Well       string `json:"well" jsonschema:"Well the calculator ran against"`
}

// RunSimulatorInput defines the input for the wels_run_simulator tool.
type RunSimulatorInput struct {
	Well         string   `json:"well" jsonschema:"Well name"`
	Simulator    string   `json:"simulator" jsonschema:"Simulator to run: 'resistivity' 'nuclear' or 'sonic'"`
	Tool         string   `json:"tool,omitempty" jsonschema:"Tool variant (resistivity: induction/laterolog; nuclear: standard/hires); defaults from project config"`
	Variant      string   `json:"variant,omitempty" jsonschema:"Sonic transform: wyllie or rhg; defaults from project config"`
	Outputs      []string `json:"outputs,omitempty" jsonschema:"Subset of output logs to produce; omit for all"`
	SamplingRate float64  `json:"sampling_rate,omitempty" jsonschema:"Depth sampling rate in meters; defaults from project config"`
	Set          string   `json:"set,omitempty" jsonschema:"Destination log set; defaults to Simulated"`
}

// RunSimulatorOutput defines the output for the wels_run_simulator tool.
type RunSimulatorOutput struct {
	Simulator string   `json:"simulator" jsonschema:"Simulator that ran"`
	Set       string   `json:"set" jsonschema:"Log set holding the produced logs"`
	Logs      []string `json:"logs" jsonschema:"Logs now present in the set"`
}

// AddNoiseInput defines the input for the wels_add_noise tool.
type AddNoiseInput struct {
	Well string  `json:"well" jsonschema:"Well name"`
	Log  string  `json:"log" jsonschema:"Log to perturb"`
	Set  string  `json:"set,omitempty" jsonschema:"Log set holding the log; defaults to Simulated"`
	Mult float64 `json:"mult,omitempty" jsonschema:"Multiplicative noise standard deviation (fraction of value)"`
	Add  float64 `json:"add,omitempty" jsonschema:"Additive noise standard deviation in the log's unit"`
	Bias float64 `json:"bias,omitempty" jsonschema:"Constant bias in the log's unit"`
	Seed uint64  `json:"seed,omitempty" jsonschema:"Random seed; defaults from project config"`
}

// AddNoiseOutput defines the output for the wels_add_noise tool.
type AddNoiseOutput struct {
	Log     string `json:"log" jsonschema:"Perturbed log name"`
	Set     string `json:"set" jsonschema:"Log set holding the log"`
	Samples int    `json:"samples" jsonschema:"Number of samples perturbed"`
}

// GetLogInput defines the input for the wels_get_log tool.
type GetLogInput struct {
	Well       string `json:"well" jsonschema:"Well name"`
	Log        string `json:"log" jsonschema:"Log name"`
	Set        string `json:"set,omitempty" jsonschema:"Log set holding the log; defaults to Simulated"`
	MaxSamples int    `json:"max_samples,omitempty" jsonschema:"Cap on returned samples; the log is decimated evenly when it has more (default 200)"`
}

// GetLogOutput defines the output for the wels_get_log tool.
// Absent samples come back as null rather than NaN so the payload stays
// valid JSON.
type GetLogOutput struct {
	Name    string            `json:"name" jsonschema:"Log name"`
	Unit    string            `json:"unit" jsonschema:"Log unit"`
	Samples int               `json:"samples" jsonschema:"Total samples in the stored log"`
	Depths  []float64         `json:"depths" jsonschema:"Returned sample depths in meters"`
	Values  []*float64        `json:"values" jsonschema:"Returned sample values; null where the log has no value"`
	Meta    map[string]string `json:"meta,omitempty" jsonschema:"Provenance metadata recorded on the log"`
}

// RunScenarioInput defines the input for the wels_run_scenario tool.
type RunScenarioInput struct {
	Path string `json:"path" jsonschema:"Path to a scenario YAML file (relative to the project root)"`
}

// RunScenarioOutput defines the output for the wels_run_scenario tool.
type RunScenarioOutput struct {
	RunID    string `json:"run_id" jsonschema:"Unique ID of this run"`
	Scenario string `json:"scenario" jsonschema:"Scenario name"`
	StepsRun int    `json:"steps_run" jsonschema:"Number of steps that completed"`
}
