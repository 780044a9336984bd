package md2html

import "runtime"

// Worker pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps automatic sizing; conversions are CPU-bound and
	// gain little past this on a single disk.
	MaxPoolSize = 16
)

// ResolvePoolSize determines how many files to convert in parallel.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
