package curves

import (
	"errors"
	"math"
	"testing"

	"github.com/ambia/UTAPWeLS/internal/units"
)

func makeLog(name string, depths, values []float64) *Log {
	return &Log{Name: name, Unit: units.OhmMeter, Depths: depths, Values: values}
}

func TestLogValidate(t *testing.T) {
	tests := []struct {
		name    string
		log     *Log
		wantErr bool
	}{
		{
			name: "valid",
			log:  makeLog("RT", []float64{100, 101, 102}, []float64{1, 2, 3}),
		},
		{
			name:    "empty name",
			log:     makeLog("", []float64{100}, []float64{1}),
			wantErr: true,
		},
		{
			name:    "length mismatch",
			log:     makeLog("RT", []float64{100, 101}, []float64{1}),
			wantErr: true,
		},
		{
			name:    "non-increasing depths",
			log:     makeLog("RT", []float64{100, 100, 102}, []float64{1, 2, 3}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.log.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogValueAt(t *testing.T) {
	l := makeLog("RT", []float64{100, 110, 120}, []float64{10, 20, 40})

	tests := []struct {
		md   float64
		want float64
	}{
		{md: 100, want: 10},
		{md: 105, want: 15},
		{md: 115, want: 30},
		{md: 120, want: 40},
		{md: 50, want: 10},  // clamps above
		{md: 200, want: 40}, // clamps below
	}
	for _, tt := range tests {
		if got := l.ValueAt(tt.md); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ValueAt(%v) = %v, want %v", tt.md, got, tt.want)
		}
	}
}

func TestLogSetBasicOps(t *testing.T) {
	s := NewLogSet("Simulated")

	if err := s.Add(makeLog("RT", []float64{100, 101}, []float64{1, 2})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(makeLog("RT", []float64{100, 101}, []float64{1, 2})); !errors.Is(err, ErrLogExists) {
		t.Fatalf("Add duplicate: got %v, want ErrLogExists", err)
	}
	if _, err := s.Get("GR"); !errors.Is(err, ErrNoSuchLog) {
		t.Fatalf("Get missing: got %v, want ErrNoSuchLog", err)
	}

	if err := s.Overwrite("RT", []float64{5, 6}); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	l, err := s.Get("RT")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if l.Values[0] != 5 || l.Values[1] != 6 {
		t.Errorf("Overwrite produced %v", l.Values)
	}
	if err := s.Overwrite("RT", []float64{1}); err == nil {
		t.Error("Overwrite with wrong length should fail")
	}

	if err := s.Relabel("RT", "RT_NOISY"); err != nil {
		t.Fatalf("Relabel: %v", err)
	}
	if _, err := s.Get("RT"); err == nil {
		t.Error("old name still present after Relabel")
	}
	if _, err := s.Get("RT_NOISY"); err != nil {
		t.Errorf("new name absent after Relabel: %v", err)
	}

	names := s.Names()
	if len(names) != 1 || names[0] != "RT_NOISY" {
		t.Errorf("Names() = %v", names)
	}

	if err := s.Remove("RT_NOISY"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Remove", s.Len())
	}
}

func TestCopyToIsDeep(t *testing.T) {
	src := NewLogSet("Simulated")
	dst := NewLogSet("Composite")
	if err := src.Add(makeLog("GR", []float64{100, 101}, []float64{50, 60})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := src.CopyTo(dst, "GR"); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	orig, _ := src.Get("GR")
	cp, _ := dst.Get("GR")
	cp.Values[0] = 999
	if orig.Values[0] == 999 {
		t.Error("CopyTo shares value storage with the source log")
	}
}

func TestUniformGrid(t *testing.T) {
	grid, err := UniformGrid(100, 101, 0.25)
	if err != nil {
		t.Fatalf("UniformGrid: %v", err)
	}
	want := []float64{100, 100.25, 100.5, 100.75, 101}
	if len(grid) != len(want) {
		t.Fatalf("grid = %v, want %v", grid, want)
	}
	for i := range want {
		if math.Abs(grid[i]-want[i]) > 1e-9 {
			t.Errorf("grid[%d] = %v, want %v", i, grid[i], want[i])
		}
	}

	if _, err := UniformGrid(100, 100, 0.25); err == nil {
		t.Error("empty interval should fail")
	}
	if _, err := UniformGrid(100, 101, 0); err == nil {
		t.Error("zero step should fail")
	}

	// Grids must be strictly increasing even when the step does not divide
	// the interval evenly.
	grid, err = UniformGrid(0, 10.1, 0.25)
	if err != nil {
		t.Fatalf("UniformGrid: %v", err)
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			t.Fatalf("grid not strictly increasing at %d: %v <= %v", i, grid[i], grid[i-1])
		}
	}
	if got := grid[len(grid)-1]; got != 10.1 {
		t.Errorf("last sample = %v, want 10.1", got)
	}
}

func TestResample(t *testing.T) {
	l := makeLog("DT", []float64{100, 110}, []float64{60, 80})
	out, err := Resample(l, []float64{100, 105, 110})
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	want := []float64{60, 70, 80}
	for i := range want {
		if math.Abs(out.Values[i]-want[i]) > 1e-12 {
			t.Errorf("Values[%d] = %v, want %v", i, out.Values[i], want[i])
		}
	}

	if _, err := Resample(l, []float64{100, 100}); err == nil {
		t.Error("non-increasing target grid should fail")
	}
}

func TestComposite(t *testing.T) {
	nan := math.NaN()
	base := makeLog("RT", []float64{100, 101, 102, 103, 104}, []float64{1, nan, nan, 1, nan})
	donor := makeLog("RT_FIELD", []float64{100, 103}, []float64{9, 9})

	out, err := Composite("RT_MERGED", base, donor)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if out.Name != "RT_MERGED" {
		t.Errorf("Name = %q", out.Name)
	}
	// Gaps inside the donor's coverage are filled; held base values and the
	// gap below the donor's reach survive.
	want := []float64{1, 9, 9, 1, nan}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(out.Values[i]) {
				t.Errorf("Values[%d] = %v, want NaN", i, out.Values[i])
			}
			continue
		}
		if out.Values[i] != want[i] {
			t.Errorf("Values[%d] = %v, want %v", i, out.Values[i], want[i])
		}
	}
	// Base log untouched.
	for i, v := range base.Values {
		if i != 1 && i != 2 && i != 4 && v != 1 {
			t.Errorf("base mutated at %d: %v", i, v)
		}
	}
}

func TestComposite_GaplessBaseUnchanged(t *testing.T) {
	base := makeLog("RT", []float64{100, 101, 102, 103, 104}, []float64{10, 10, 10, 10, 10})
	donor := makeLog("RT_FIELD", []float64{100, 101, 102, 103, 104}, []float64{99, 99, 99, 99, 99})

	out, err := Composite("RT_MERGED", base, donor)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	for i, v := range out.Values {
		if v != 10 {
			t.Errorf("Values[%d] = %v, want base value 10", i, v)
		}
	}
}
