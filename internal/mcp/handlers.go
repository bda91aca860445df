package mcp

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ambia/UTAPWeLS/internal/calc"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/noise"
	"github.com/ambia/UTAPWeLS/internal/ratelimit"
	"github.com/ambia/UTAPWeLS/internal/scenario"
	"github.com/ambia/UTAPWeLS/internal/sim"
)

// defaultMaxSamples caps how many samples wels_get_log returns per call.
const defaultMaxSamples = 200

// registerTools registers all modeling MCP tools with the server.
func (s *Server) registerTools() error {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_create_well",
		Description: "Create a well with a single-layer earth model over [top_md, bottom_md]",
	}, s.handleCreateWell)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_list_wells",
		Description: "List the wells in the project with their intervals, layer counts and log sets",
	}, s.handleListWells)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_add_boundary",
		Description: "Insert a bed boundary at a measured depth, splitting the containing layer",
	}, s.handleAddBoundary)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_set_property",
		Description: "Set a petrophysical property on one layer, one radial zone, or every layer of a well",
	}, s.handleSetProperty)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_set_composition",
		Description: "Set the matrix or fluid composition of a layer as volume fractions summing to 1",
	}, s.handleSetComposition)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_run_calculator",
		Description: "Run a property calculator (temperature, pressure, water_resistivity or archie) over a well's layers",
	}, s.handleRunCalculator)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_run_simulator",
		Description: "Run a logging tool simulator (resistivity, nuclear or sonic) and store the produced logs",
	}, s.handleRunSimulator)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_add_noise",
		Description: "Perturb a simulated log with multiplicative and additive Gaussian noise plus a bias",
	}, s.handleAddNoise)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_get_log",
		Description: "Read a log's samples, unit and provenance metadata, decimated to a sample cap",
	}, s.handleGetLog)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "wels_run_scenario",
		Description: "Run a scenario YAML file: an ordered list of modeling, simulation and export steps",
	}, s.handleRunScenario)

	return nil
}

// registerResources registers MCP resources describing the project's wells.
func (s *Server) registerResources() error {
	s.server.AddResource(&sdk.Resource{
		URI:         "wels://wells",
		Name:        "wels-wells",
		Description: "Wells in the current project with their modeled intervals and log sets.",
		MIMEType:    "text/markdown",
	}, s.handleWellsResource)

	s.server.AddResourceTemplate(&sdk.ResourceTemplate{
		URITemplate: "wels://wells/{name}",
		Name:        "wels-well-detail",
		Description: "Full detail for one well: layer boundaries, per-layer properties and log sets.",
		MIMEType:    "text/markdown",
	}, s.handleWellResource)

	return nil
}

// handleWellsResource returns a markdown summary of every well in the project.
func (s *Server) handleWellsResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	names, err := s.sess.Wells(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wells: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Wells\n\n")
	if len(names) == 0 {
		sb.WriteString("No wells in this project yet. Use wels_create_well to add one.\n")
	}
	for _, name := range names {
		w, err := s.sess.Well(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load well %q: %w", name, err)
		}
		fmt.Fprintf(&sb, "- **%s**: %.4g-%.4g m, %d layer(s)", w.Name, w.TopMD, w.BottomMD, w.Earth.NumLayers())
		if sets := w.LogSetNames(); len(sets) > 0 {
			fmt.Fprintf(&sb, ", log sets: %s", strings.Join(sets, ", "))
		}
		sb.WriteString("\n")
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      "wels://wells",
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}

// handleWellResource returns the full detail for one well.
func (s *Server) handleWellResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	name := strings.TrimPrefix(req.Params.URI, "wels://wells/")
	if name == "" || name == req.Params.URI {
		return nil, fmt.Errorf("invalid well URI: %s", req.Params.URI)
	}

	w, err := s.sess.Well(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load well %q: %w", name, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Well %s\n\n", w.Name)
	fmt.Fprintf(&sb, "Interval: %.4g-%.4g m\n\n", w.TopMD, w.BottomMD)

	sb.WriteString("## Layers\n\n")
	for i := 0; i < w.Earth.NumLayers(); i++ {
		top, bottom, err := w.Earth.LayerBounds(i)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "- layer %d: %.4g-%.4g m", i, top, bottom)
		if class, err := w.Earth.RockClass(i); err == nil && class != "" {
			fmt.Fprintf(&sb, " (%s)", class)
		}
		sb.WriteString("\n")
	}

	if sets := w.LogSetNames(); len(sets) > 0 {
		sb.WriteString("\n## Log sets\n\n")
		for _, setName := range sets {
			set, err := w.LogSet(setName)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&sb, "- **%s**: %s\n", setName, strings.Join(set.Names(), ", "))
		}
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}

// handleCreateWell implements the wels_create_well tool.
func (s *Server) handleCreateWell(ctx context.Context, req *sdk.CallToolRequest, args CreateWellInput) (*sdk.CallToolResult, CreateWellOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "wels_create_well"); err != nil {
		return nil, CreateWellOutput{}, err
	}

	w, err := s.sess.CreateWell(ctx, args.Name, args.TopMD, args.BottomMD)
	if err != nil {
		return nil, CreateWellOutput{}, fmt.Errorf("failed to create well: %w", err)
	}

	return nil, CreateWellOutput{
		Name:     w.Name,
		TopMD:    w.TopMD,
		BottomMD: w.BottomMD,
		Layers:   w.Earth.NumLayers(),
	}, nil
}

// handleListWells implements the wels_list_wells tool.
func (s *Server) handleListWells(ctx context.Context, req *sdk.CallToolRequest, args ListWellsInput) (*sdk.CallToolResult, ListWellsOutput, error) {
	names, err := s.sess.Wells(ctx)
	if err != nil {
		return nil, ListWellsOutput{}, fmt.Errorf("failed to list wells: %w", err)
	}

	out := ListWellsOutput{Wells: make([]WellSummary, 0, len(names))}
	for _, name := range names {
		w, err := s.sess.Well(ctx, name)
		if err != nil {
			return nil, ListWellsOutput{}, fmt.Errorf("failed to load well %q: %w", name, err)
		}
		out.Wells = append(out.Wells, WellSummary{
			Name:     w.Name,
			TopMD:    w.TopMD,
			BottomMD: w.BottomMD,
			Layers:   w.Earth.NumLayers(),
			LogSets:  w.LogSetNames(),
		})
	}
	out.Count = len(out.Wells)

	return nil, out, nil
}

// handleAddBoundary implements the wels_add_boundary tool.
func (s *Server) handleAddBoundary(ctx context.Context, req *sdk.CallToolRequest, args AddBoundaryInput) (*sdk.CallToolResult, AddBoundaryOutput, error) {
	w, err := s.sess.Well(ctx, args.Well)
	if err != nil {
		return nil, AddBoundaryOutput{}, err
	}

	idx, err := w.Earth.AddBB(args.MD)
	if err != nil {
		return nil, AddBoundaryOutput{}, fmt.Errorf("failed to add boundary: %w", err)
	}
	if err := s.sess.SaveWell(ctx, args.Well); err != nil {
		return nil, AddBoundaryOutput{}, err
	}

	return nil, AddBoundaryOutput{Index: idx, Layers: w.Earth.NumLayers()}, nil
}

// handleSetProperty implements the wels_set_property tool.
func (s *Server) handleSetProperty(ctx context.Context, req *sdk.CallToolRequest, args SetPropertyInput) (*sdk.CallToolResult, SetPropertyOutput, error) {
	w, err := s.sess.Well(ctx, args.Well)
	if err != nil {
		return nil, SetPropertyOutput{}, err
	}

	layers := 1
	switch {
	case args.Zone != nil:
		if args.Layer == nil {
			return nil, SetPropertyOutput{}, fmt.Errorf("zone requires a layer")
		}
		err = w.Earth.SetZoneProperty(args.Property, *args.Layer, *args.Zone, args.Value)
	case args.Layer != nil:
		err = w.Earth.SetProperty(args.Property, *args.Layer, args.Value)
	default:
		layers = w.Earth.NumLayers()
		err = w.Earth.SetPropertyAll(args.Property, args.Value)
	}
	if err != nil {
		return nil, SetPropertyOutput{}, fmt.Errorf("failed to set property: %w", err)
	}
	if err := s.sess.SaveWell(ctx, args.Well); err != nil {
		return nil, SetPropertyOutput{}, err
	}

	return nil, SetPropertyOutput{Property: args.Property, Layers: layers}, nil
}

// handleSetComposition implements the wels_set_composition tool.
func (s *Server) handleSetComposition(ctx context.Context, req *sdk.CallToolRequest, args SetCompositionInput) (*sdk.CallToolResult, SetCompositionOutput, error) {
	w, err := s.sess.Well(ctx, args.Well)
	if err != nil {
		return nil, SetCompositionOutput{}, err
	}

	if err := w.Earth.SetComposition(model.Slot(args.Slot), args.Layer, componentList(args.Components)); err != nil {
		return nil, SetCompositionOutput{}, fmt.Errorf("failed to set composition: %w", err)
	}
	if err := s.sess.SaveWell(ctx, args.Well); err != nil {
		return nil, SetCompositionOutput{}, err
	}

	return nil, SetCompositionOutput{Layer: args.Layer, Components: len(args.Components)}, nil
}

// componentList flattens a name-to-fraction map into a deterministic
// component slice.
func componentList(m map[string]float64) []model.Component {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]model.Component, 0, len(names))
	for _, name := range names {
		out = append(out, model.Component{Name: name, Fraction: m[name]})
	}
	return out
}

// handleRunCalculator implements the wels_run_calculator tool.
func (s *Server) handleRunCalculator(ctx context.Context, req *sdk.CallToolRequest, args RunCalculatorInput) (*sdk.CallToolResult, RunCalculatorOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "wels_run_calculator"); err != nil {
		return nil, RunCalculatorOutput{}, err
	}

	w, err := s.sess.Well(ctx, args.Well)
	if err != nil {
		return nil, RunCalculatorOutput{}, err
	}

	var c calc.Calculator
	switch args.Calculator {
	case "temperature":
		c = calc.DefaultTemperature()
	case "pressure":
		c = calc.DefaultPressure()
	case "water_resistivity":
		c = calc.DefaultWaterResistivity()
	case "archie":
		c = calc.NewArchie()
	default:
		return nil, RunCalculatorOutput{}, fmt.Errorf("unknown calculator %q", args.Calculator)
	}

	if err := c.Calculate(ctx, w); err != nil {
		return nil, RunCalculatorOutput{}, fmt.Errorf("calculator %s failed: %w", c.Name(), err)
	}
	if err := s.sess.SaveWell(ctx, args.Well); err != nil {
		return nil, RunCalculatorOutput{}, err
	}

	return nil, RunCalculatorOutput{Calculator: args.Calculator, Well: args.Well}, nil
}

// handleRunSimulator implements the wels_run_simulator tool.
func (s *Server) handleRunSimulator(ctx context.Context, req *sdk.CallToolRequest, args RunSimulatorInput) (*sdk.CallToolResult, RunSimulatorOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "wels_run_simulator"); err != nil {
		return nil, RunSimulatorOutput{}, err
	}

	w, err := s.sess.Well(ctx, args.Well)
	if err != nil {
		return nil, RunSimulatorOutput{}, err
	}

	cfg := s.sess.Config()
	base := sim.Config{SamplingRate: args.SamplingRate, LogSet: args.Set}
	if base.SamplingRate == 0 {
		base.SamplingRate = cfg.Simulation.SamplingRate
	}

	var simulator sim.Simulator
	switch args.Simulator {
	case "resistivity":
		tool := args.Tool
		if tool == "" {
			tool = cfg.Simulation.ResistivityTool
		}
		simulator = &sim.Resistivity{Config: base, Tool: tool, Outputs: args.Outputs}
	case "nuclear":
		tool := args.Tool
		if tool == "" {
			tool = cfg.Simulation.NuclearTool
		}
		simulator = &sim.Nuclear{Config: base, Tool: tool, Outputs: args.Outputs}
	case "sonic":
		variant := args.Variant
		if variant == "" {
			variant = cfg.Simulation.SonicVariant
		}
		simulator = &sim.Sonic{Config: base, Variant: variant}
	default:
		return nil, RunSimulatorOutput{}, fmt.Errorf("unknown simulator %q", args.Simulator)
	}

	if err := simulator.Run(ctx, w); err != nil {
		return nil, RunSimulatorOutput{}, fmt.Errorf("simulator %s failed: %w", args.Simulator, err)
	}
	if err := s.sess.SaveWell(ctx, args.Well); err != nil {
		return nil, RunSimulatorOutput{}, err
	}

	setName := args.Set
	if setName == "" {
		setName = model.LogSetSimulated
	}
	set, err := w.LogSet(setName)
	if err != nil {
		return nil, RunSimulatorOutput{}, err
	}

	return nil, RunSimulatorOutput{Simulator: args.Simulator, Set: setName, Logs: set.Names()}, nil
}

// handleAddNoise implements the wels_add_noise tool.
func (s *Server) handleAddNoise(ctx context.Context, req *sdk.CallToolRequest, args AddNoiseInput) (*sdk.CallToolResult, AddNoiseOutput, error) {
	w, err := s.sess.Well(ctx, args.Well)
	if err != nil {
		return nil, AddNoiseOutput{}, err
	}

	setName := args.Set
	if setName == "" {
		setName = model.LogSetSimulated
	}
	set, err := w.LogSet(setName)
	if err != nil {
		return nil, AddNoiseOutput{}, err
	}

	seed := args.Seed
	if seed == 0 {
		seed = s.sess.Config().Noise.Seed
	}
	if err := noise.Apply(set, args.Log, noise.Params{
		Mult: args.Mult,
		Add:  args.Add,
		Bias: args.Bias,
		Seed: seed,
	}); err != nil {
		return nil, AddNoiseOutput{}, fmt.Errorf("failed to add noise: %w", err)
	}
	if err := s.sess.SaveWell(ctx, args.Well); err != nil {
		return nil, AddNoiseOutput{}, err
	}

	l, err := set.Get(args.Log)
	if err != nil {
		return nil, AddNoiseOutput{}, err
	}

	return nil, AddNoiseOutput{Log: args.Log, Set: setName, Samples: len(l.Values)}, nil
}

// handleGetLog implements the wels_get_log tool.
func (s *Server) handleGetLog(ctx context.Context, req *sdk.CallToolRequest, args GetLogInput) (*sdk.CallToolResult, GetLogOutput, error) {
	w, err := s.sess.Well(ctx, args.Well)
	if err != nil {
		return nil, GetLogOutput{}, err
	}

	setName := args.Set
	if setName == "" {
		setName = model.LogSetSimulated
	}
	l, err := w.FindLog(setName, args.Log)
	if err != nil {
		return nil, GetLogOutput{}, err
	}

	maxSamples := args.MaxSamples
	if maxSamples <= 0 {
		maxSamples = defaultMaxSamples
	}
	stride := 1
	if len(l.Depths) > maxSamples {
		stride = (len(l.Depths) + maxSamples - 1) / maxSamples
	}

	out := GetLogOutput{
		Name:    l.Name,
		Unit:    string(l.Unit),
		Samples: len(l.Depths),
		Meta:    l.Meta,
	}
	appendSample := func(i int) {
		out.Depths = append(out.Depths, l.Depths[i])
		if math.IsNaN(l.Values[i]) {
			out.Values = append(out.Values, nil)
		} else {
			v := l.Values[i]
			out.Values = append(out.Values, &v)
		}
	}
	last := len(l.Depths) - 1
	for i := 0; i < len(l.Depths); i += stride {
		appendSample(i)
	}
	// Striding can skip the deepest sample; the response must span the full
	// interval.
	if last >= 0 && out.Depths[len(out.Depths)-1] != l.Depths[last] {
		appendSample(last)
	}

	return nil, out, nil
}

// handleRunScenario implements the wels_run_scenario tool.
func (s *Server) handleRunScenario(ctx context.Context, req *sdk.CallToolRequest, args RunScenarioInput) (*sdk.CallToolResult, RunScenarioOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "wels_run_scenario"); err != nil {
		return nil, RunScenarioOutput{}, err
	}

	path := args.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, RunScenarioOutput{}, fmt.Errorf("failed to load scenario: %w", err)
	}

	res, err := scenario.NewRunner(s.sess).Run(ctx, sc)
	if err != nil {
		if res != nil {
			return nil, RunScenarioOutput{RunID: res.RunID, Scenario: res.Scenario, StepsRun: res.StepsRun}, err
		}
		return nil, RunScenarioOutput{}, err
	}

	return nil, RunScenarioOutput{RunID: res.RunID, Scenario: res.Scenario, StepsRun: res.StepsRun}, nil
}
