// Package tuner detects system resources and derives a hashing worker
// configuration from them. Digest computation is I/O bound with a CPU
// component, so the worker count tracks core count with a memory-based
// ceiling for constrained machines.
package tuner

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the available (free) RAM in bytes.
	// This may be an estimate based on system heuristics.
	AvailableRAM int64
}
