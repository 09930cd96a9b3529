package profile

import (
	"slices"
	"testing"
)

func TestProfiler_DisabledModes(t *testing.T) {
	tests := []struct {
		name string
		mode string
	}{
		{"empty", ""},
		{"unknown", "sundial"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profiler{Mode: tt.mode, Dir: t.TempDir()}

			if p.Enabled() {
				t.Fatalf("expected mode %q to be disabled", tt.mode)
			}

			if _, ok := p.Start().(ignore); !ok {
				t.Error("expected no-op profiler")
			}
		})
	}
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("expected sorted modes, got %v", m)
	}
}
