package tuner

// Worker configuration limits.
const (
	// maxHashWorkers caps the hashing pool. Past this point, parallel
	// reads on a single disk contend rather than overlap.
	maxHashWorkers = 16

	// minHashWorkers keeps at least some overlap between reading one
	// file and digesting another.
	minHashWorkers = 2

	// bytesPerWorker is the approximate working-set memory per hashing
	// worker (read buffer plus digest state plus bucket bookkeeping).
	bytesPerWorker = 4 * 1024 * 1024
)

// OptimalConfig contains tuned worker configuration for the detected
// system resources.
type OptimalConfig struct {
	// HashWorkers is the number of concurrent digest workers.
	HashWorkers int
}

// Calculate returns the optimal configuration for the given resources.
// Workers track the core count, bounded by available memory and the
// contention cap.
func Calculate(resources SystemResources) OptimalConfig {
	workers := resources.CPUCores

	// Memory ceiling for very constrained machines.
	if resources.AvailableRAM > 0 {
		byMemory := int(resources.AvailableRAM / bytesPerWorker)
		workers = min(workers, byMemory)
	}

	workers = max(workers, minHashWorkers)
	workers = min(workers, maxHashWorkers)

	return OptimalConfig{HashWorkers: workers}
}

// CalculateWithOverrides applies a user worker override to the optimal
// config. A non-positive override keeps the calculated value.
func CalculateWithOverrides(resources SystemResources, workerOverride int) OptimalConfig {
	config := Calculate(resources)

	if workerOverride > 0 {
		config.HashWorkers = min(workerOverride, maxHashWorkers)
	}

	return config
}
