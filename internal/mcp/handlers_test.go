package mcp

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/ratelimit"
	"github.com/ambia/UTAPWeLS/internal/session"
	"github.com/ambia/UTAPWeLS/internal/store"
	"github.com/ambia/UTAPWeLS/internal/units"
)

// newTestServer builds a server over an in-memory store so handler tests
// never touch disk.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess := session.New(store.NewInMemoryCaseStore(), nil, nil)
	t.Cleanup(func() { sess.Close() })
	return &Server{
		sess:         sess,
		root:         t.TempDir(),
		toolLimiters: ratelimit.ToolLimiters{},
	}
}

func layerPtr(i int) *int { return &i }

func createTestWell(t *testing.T, s *Server, name string) {
	t.Helper()
	_, _, err := s.handleCreateWell(context.Background(), nil, CreateWellInput{
		Name: name, TopMD: 1000, BottomMD: 1020,
	})
	if err != nil {
		t.Fatalf("handleCreateWell failed: %v", err)
	}
}

func TestHandleCreateWell(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleCreateWell(context.Background(), nil, CreateWellInput{
		Name: "test-1", TopMD: 1000, BottomMD: 1050,
	})
	if err != nil {
		t.Fatalf("handleCreateWell failed: %v", err)
	}
	if out.Name != "test-1" {
		t.Errorf("Name = %q, want %q", out.Name, "test-1")
	}
	if out.Layers != 1 {
		t.Errorf("Layers = %d, want 1", out.Layers)
	}
}

func TestHandleCreateWell_Duplicate(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "dup")

	_, _, err := s.handleCreateWell(context.Background(), nil, CreateWellInput{
		Name: "dup", TopMD: 1000, BottomMD: 1020,
	})
	if err == nil {
		t.Fatal("expected error creating duplicate well")
	}
}

func TestHandleListWells(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "beta")
	createTestWell(t, s, "alpha")

	_, out, err := s.handleListWells(context.Background(), nil, ListWellsInput{})
	if err != nil {
		t.Fatalf("handleListWells failed: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	// Session lists wells sorted by name.
	if out.Wells[0].Name != "alpha" || out.Wells[1].Name != "beta" {
		t.Errorf("wells = [%s, %s], want [alpha, beta]", out.Wells[0].Name, out.Wells[1].Name)
	}
}

func TestHandleAddBoundary(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	_, out, err := s.handleAddBoundary(context.Background(), nil, AddBoundaryInput{
		Well: "w", MD: 1010,
	})
	if err != nil {
		t.Fatalf("handleAddBoundary failed: %v", err)
	}
	if out.Layers != 2 {
		t.Errorf("Layers = %d, want 2", out.Layers)
	}

	// Out-of-interval boundary is rejected.
	_, _, err = s.handleAddBoundary(context.Background(), nil, AddBoundaryInput{
		Well: "w", MD: 900,
	})
	if err == nil {
		t.Error("expected error for boundary outside the modeled interval")
	}
}

func TestHandleSetProperty(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")
	if _, _, err := s.handleAddBoundary(context.Background(), nil, AddBoundaryInput{Well: "w", MD: 1010}); err != nil {
		t.Fatal(err)
	}

	// All layers when no layer is given.
	_, out, err := s.handleSetProperty(context.Background(), nil, SetPropertyInput{
		Well: "w", Property: model.PropPorosityTotal, Value: 0.2,
	})
	if err != nil {
		t.Fatalf("handleSetProperty failed: %v", err)
	}
	if out.Layers != 2 {
		t.Errorf("Layers = %d, want 2", out.Layers)
	}

	// Single layer.
	_, out, err = s.handleSetProperty(context.Background(), nil, SetPropertyInput{
		Well: "w", Property: model.PropPorosityTotal, Value: 0.05, Layer: layerPtr(1),
	})
	if err != nil {
		t.Fatalf("handleSetProperty failed: %v", err)
	}
	if out.Layers != 1 {
		t.Errorf("Layers = %d, want 1", out.Layers)
	}

	w, err := s.sess.Well(context.Background(), "w")
	if err != nil {
		t.Fatal(err)
	}
	if got, err := w.Earth.Property(model.PropPorosityTotal, 1); err != nil || got != 0.05 {
		t.Errorf("layer 1 porosity = %v, %v, want 0.05", got, err)
	}
}

func TestHandleSetProperty_ZoneRequiresLayer(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	_, _, err := s.handleSetProperty(context.Background(), nil, SetPropertyInput{
		Well: "w", Property: model.PropResistivityXO, Value: 20, Zone: layerPtr(0),
	})
	if err == nil {
		t.Fatal("expected error when zone is set without a layer")
	}
}

func TestHandleSetComposition(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	_, out, err := s.handleSetComposition(context.Background(), nil, SetCompositionInput{
		Well:  "w",
		Layer: 0,
		Slot:  "matrix",
		Components: map[string]float64{
			"quartz": 0.8,
			"illite": 0.2,
		},
	})
	if err != nil {
		t.Fatalf("handleSetComposition failed: %v", err)
	}
	if out.Components != 2 {
		t.Errorf("Components = %d, want 2", out.Components)
	}

	// Fractions that do not sum to 1 are rejected.
	_, _, err = s.handleSetComposition(context.Background(), nil, SetCompositionInput{
		Well:       "w",
		Layer:      0,
		Slot:       "matrix",
		Components: map[string]float64{"quartz": 0.5},
	})
	if err == nil {
		t.Error("expected error for fractions not summing to 1")
	}
}

func TestHandleRunCalculator(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	_, out, err := s.handleRunCalculator(context.Background(), nil, RunCalculatorInput{
		Well: "w", Calculator: "temperature",
	})
	if err != nil {
		t.Fatalf("handleRunCalculator failed: %v", err)
	}
	if out.Calculator != "temperature" {
		t.Errorf("Calculator = %q, want %q", out.Calculator, "temperature")
	}

	w, err := s.sess.Well(context.Background(), "w")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Earth.Property(model.PropTemperature, 0); err != nil {
		t.Errorf("temperature not set after calculator run: %v", err)
	}
}

func TestHandleRunCalculator_Unknown(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	_, _, err := s.handleRunCalculator(context.Background(), nil, RunCalculatorInput{
		Well: "w", Calculator: "alchemy",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown calculator") {
		t.Fatalf("error = %v, want unknown calculator", err)
	}
}

func TestHandleRunSimulator(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	if _, _, err := s.handleSetProperty(context.Background(), nil, SetPropertyInput{
		Well: "w", Property: model.PropResistivityTrue, Value: 50,
	}); err != nil {
		t.Fatal(err)
	}

	_, out, err := s.handleRunSimulator(context.Background(), nil, RunSimulatorInput{
		Well: "w", Simulator: "resistivity",
	})
	if err != nil {
		t.Fatalf("handleRunSimulator failed: %v", err)
	}
	if out.Set != model.LogSetSimulated {
		t.Errorf("Set = %q, want %q", out.Set, model.LogSetSimulated)
	}
	found := false
	for _, name := range out.Logs {
		if name == "RD" {
			found = true
		}
	}
	if !found {
		t.Errorf("Logs = %v, want RD present", out.Logs)
	}
}

func TestHandleRunSimulator_Unknown(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	_, _, err := s.handleRunSimulator(context.Background(), nil, RunSimulatorInput{
		Well: "w", Simulator: "gravity",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown simulator") {
		t.Fatalf("error = %v, want unknown simulator", err)
	}
}

func TestHandleAddNoiseAndGetLog(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	if _, _, err := s.handleSetProperty(context.Background(), nil, SetPropertyInput{
		Well: "w", Property: model.PropResistivityTrue, Value: 50,
	}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleRunSimulator(context.Background(), nil, RunSimulatorInput{
		Well: "w", Simulator: "resistivity",
	}); err != nil {
		t.Fatal(err)
	}

	_, noiseOut, err := s.handleAddNoise(context.Background(), nil, AddNoiseInput{
		Well: "w", Log: "RD", Mult: 0.05, Seed: 42,
	})
	if err != nil {
		t.Fatalf("handleAddNoise failed: %v", err)
	}
	if noiseOut.Samples == 0 {
		t.Error("Samples = 0, want > 0")
	}

	_, logOut, err := s.handleGetLog(context.Background(), nil, GetLogInput{
		Well: "w", Log: "RD",
	})
	if err != nil {
		t.Fatalf("handleGetLog failed: %v", err)
	}
	if logOut.Unit != "ohm.m" {
		t.Errorf("Unit = %q, want %q", logOut.Unit, "ohm.m")
	}
	if logOut.Meta["noise_mult"] == "" {
		t.Error("noise_mult metadata missing after noise injection")
	}
	if len(logOut.Depths) != len(logOut.Values) {
		t.Errorf("depths/values length mismatch: %d vs %d", len(logOut.Depths), len(logOut.Values))
	}
}

func TestHandleGetLog_Decimation(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "w")

	w, err := s.sess.Well(context.Background(), "w")
	if err != nil {
		t.Fatal(err)
	}

	// A log with 1000 samples, one of them absent.
	l := &curves.Log{Name: "GR", Unit: units.GAPI}
	for i := 0; i < 1000; i++ {
		l.Depths = append(l.Depths, 1000+float64(i)*0.02)
		l.Values = append(l.Values, 75)
	}
	l.Values[0] = math.NaN()
	if err := w.EnsureLogSet(model.LogSetSimulated).Add(l); err != nil {
		t.Fatal(err)
	}

	_, out, err := s.handleGetLog(context.Background(), nil, GetLogInput{
		Well: "w", Log: "GR", MaxSamples: 100,
	})
	if err != nil {
		t.Fatalf("handleGetLog failed: %v", err)
	}
	if out.Samples != 1000 {
		t.Errorf("Samples = %d, want 1000", out.Samples)
	}
	if len(out.Depths) > 101 {
		t.Errorf("returned %d samples, want <= 101", len(out.Depths))
	}
	if out.Values[0] != nil {
		t.Errorf("Values[0] = %v, want null for NaN sample", *out.Values[0])
	}
	// The deepest sample survives decimation even when the stride skips it.
	if got, want := out.Depths[len(out.Depths)-1], l.Depths[len(l.Depths)-1]; got != want {
		t.Errorf("last depth = %v, want %v", got, want)
	}
}

func TestHandleRunScenario(t *testing.T) {
	s := newTestServer(t)

	yaml := `name: smoke
steps:
  - kind: create_well
    well: scenario-well
    top_md: 1000
    bottom_md: 1020
  - kind: add_bb
    well: scenario-well
    md: 1010
`
	path := filepath.Join(s.root, "smoke.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	// Relative paths resolve against the project root.
	_, out, err := s.handleRunScenario(context.Background(), nil, RunScenarioInput{Path: "smoke.yaml"})
	if err != nil {
		t.Fatalf("handleRunScenario failed: %v", err)
	}
	if out.StepsRun != 2 {
		t.Errorf("StepsRun = %d, want 2", out.StepsRun)
	}
	if out.RunID == "" {
		t.Error("RunID is empty")
	}

	w, err := s.sess.Well(context.Background(), "scenario-well")
	if err != nil {
		t.Fatalf("scenario well missing: %v", err)
	}
	if w.Earth.NumLayers() != 2 {
		t.Errorf("NumLayers = %d, want 2", w.Earth.NumLayers())
	}
}

func TestHandleWellsResource(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "res-well")

	req := &sdk.ReadResourceRequest{
		Params: &sdk.ReadResourceParams{URI: "wels://wells"},
	}
	res, err := s.handleWellsResource(context.Background(), req)
	if err != nil {
		t.Fatalf("handleWellsResource failed: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("Contents length = %d, want 1", len(res.Contents))
	}
	if !strings.Contains(res.Contents[0].Text, "res-well") {
		t.Errorf("resource text missing well name:\n%s", res.Contents[0].Text)
	}
}

func TestHandleWellResource(t *testing.T) {
	s := newTestServer(t)
	createTestWell(t, s, "res-well")

	req := &sdk.ReadResourceRequest{
		Params: &sdk.ReadResourceParams{URI: "wels://wells/res-well"},
	}
	res, err := s.handleWellResource(context.Background(), req)
	if err != nil {
		t.Fatalf("handleWellResource failed: %v", err)
	}
	text := res.Contents[0].Text
	if !strings.Contains(text, "# Well res-well") {
		t.Errorf("resource text missing title:\n%s", text)
	}
	if !strings.Contains(text, "layer 0") {
		t.Errorf("resource text missing layer listing:\n%s", text)
	}
}

func TestHandleWellResource_Unknown(t *testing.T) {
	s := newTestServer(t)

	req := &sdk.ReadResourceRequest{
		Params: &sdk.ReadResourceParams{URI: "wels://wells/nope"},
	}
	if _, err := s.handleWellResource(context.Background(), req); err == nil {
		t.Fatal("expected error for unknown well")
	}
}
