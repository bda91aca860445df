package main

import (
	"strings"
	"testing"
)

func TestModelEditWorkflow(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := runCommand(t, tmpDir, "well", "create", "w", "--top", "1000", "--bottom", "1020"); err != nil {
		t.Fatalf("well create failed: %v", err)
	}

	out, err := runCommand(t, tmpDir, "model", "add-bb", "w", "--md", "1010")
	if err != nil {
		t.Fatalf("add-bb failed: %v", err)
	}
	if !strings.Contains(out, "2 layers") {
		t.Errorf("add-bb output = %q, want 2 layers", out)
	}

	if _, err := runCommand(t, tmpDir, "model", "set-prop", "w", "--property", "Porosity, Total", "--value", "0.2"); err != nil {
		t.Fatalf("set-prop failed: %v", err)
	}

	if _, err := runCommand(t, tmpDir, "model", "set-comp", "w", "quartz=0.8", "illite=0.2", "--layer", "0", "--slot", "matrix"); err != nil {
		t.Fatalf("set-comp failed: %v", err)
	}

	if _, err := runCommand(t, tmpDir, "model", "add-invasion", "w", "--layer", "0", "--radius", "0.3"); err != nil {
		t.Fatalf("add-invasion failed: %v", err)
	}

	// Edits persist across invocations.
	out, err = runCommand(t, tmpDir, "well", "show", "w")
	if err != nil {
		t.Fatalf("well show failed: %v", err)
	}
	if !strings.Contains(out, "Layers: 2") {
		t.Errorf("show output = %q, want Layers: 2", out)
	}
}

func TestModelGenerateLayers(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := runCommand(t, tmpDir, "well", "create", "w", "--top", "1000", "--bottom", "1100"); err != nil {
		t.Fatalf("well create failed: %v", err)
	}

	out, err := runCommand(t, tmpDir, "model", "generate-layers", "w", "--count", "8", "--jitter", "0.2", "--seed", "7")
	if err != nil {
		t.Fatalf("generate-layers failed: %v", err)
	}
	if !strings.Contains(out, "Generated 8 layers") {
		t.Errorf("output = %q, want 8 layers", out)
	}
}

func TestModelSetProp_OutOfRange(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := runCommand(t, tmpDir, "well", "create", "w", "--top", "1000", "--bottom", "1020"); err != nil {
		t.Fatalf("well create failed: %v", err)
	}

	if _, err := runCommand(t, tmpDir, "model", "set-prop", "w", "--property", "Porosity, Total", "--value", "0.2", "--layer", "5"); err == nil {
		t.Fatal("expected error for out-of-range layer")
	}
}

func TestParseComponents(t *testing.T) {
	comps, err := parseComponents([]string{"quartz=0.8", "illite=0.2"})
	if err != nil {
		t.Fatalf("parseComponents failed: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
	// Sorted by name.
	if comps[0].Name != "illite" || comps[0].Fraction != 0.2 {
		t.Errorf("comps[0] = %+v, want illite 0.2", comps[0])
	}

	if _, err := parseComponents([]string{"quartz"}); err == nil {
		t.Error("expected error for missing fraction")
	}
	if _, err := parseComponents([]string{"quartz=abc"}); err == nil {
		t.Error("expected error for non-numeric fraction")
	}
}
