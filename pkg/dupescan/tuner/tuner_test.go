package tuner

import (
	"runtime"
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

func TestDetect(t *testing.T) {
	resources, err := Detect()
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if resources.CPUCores != runtime.NumCPU() {
		t.Errorf("CPUCores = %d, want %d", resources.CPUCores, runtime.NumCPU())
	}
	if resources.TotalRAM <= 0 {
		t.Errorf("TotalRAM = %d, want > 0", resources.TotalRAM)
	}
	if resources.AvailableRAM <= 0 {
		t.Errorf("AvailableRAM = %d, want > 0", resources.AvailableRAM)
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		resources SystemResources
		want      int
	}{
		{
			name:      "typical workstation",
			resources: SystemResources{CPUCores: 8, TotalRAM: 16 * types.GiB, AvailableRAM: 8 * types.GiB},
			want:      8,
		},
		{
			name:      "many cores capped",
			resources: SystemResources{CPUCores: 64, TotalRAM: 256 * types.GiB, AvailableRAM: 128 * types.GiB},
			want:      maxHashWorkers,
		},
		{
			name:      "memory constrained",
			resources: SystemResources{CPUCores: 8, TotalRAM: 16 * types.GiB, AvailableRAM: 8 * 1024 * 1024},
			want:      minHashWorkers,
		},
		{
			name:      "single core floor",
			resources: SystemResources{CPUCores: 1, TotalRAM: 4 * types.GiB, AvailableRAM: 2 * types.GiB},
			want:      minHashWorkers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.resources)
			if got.HashWorkers != tt.want {
				t.Errorf("Calculate().HashWorkers = %d, want %d", got.HashWorkers, tt.want)
			}
		})
	}
}

func TestCalculateWithOverrides(t *testing.T) {
	resources := SystemResources{CPUCores: 8, TotalRAM: 16 * types.GiB, AvailableRAM: 8 * types.GiB}

	if got := CalculateWithOverrides(resources, 4).HashWorkers; got != 4 {
		t.Errorf("override 4: HashWorkers = %d, want 4", got)
	}
	if got := CalculateWithOverrides(resources, 100).HashWorkers; got != maxHashWorkers {
		t.Errorf("override 100: HashWorkers = %d, want %d (capped)", got, maxHashWorkers)
	}
	if got := CalculateWithOverrides(resources, 0).HashWorkers; got != 8 {
		t.Errorf("override 0: HashWorkers = %d, want calculated 8", got)
	}
}
