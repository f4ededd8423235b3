// Package parallel provides the data-parallel execution knob shared by the
// forward engines. Independent samples of a batch are split into contiguous
// chunks, one goroutine per chunk.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count. Items handed to the
// engines are whole samples, so a chunk of one item is already worth a
// goroutine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1,
	}
}

// Sequential returns a configuration that runs everything on the calling
// goroutine. It simulates the single-core low-power deployment.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// WithWorkers returns a copy of cfg capped to n workers. n <= 1 disables
// parallelism entirely.
func (cfg Config) WithWorkers(n int) Config {
	if n <= 1 {
		return Sequential()
	}
	cfg.Enabled = true
	cfg.NumWorkers = n
	if cfg.MinChunkSize < 1 {
		cfg.MinChunkSize = 1
	}
	return cfg
}

// Workers returns the effective number of goroutines For may use.
func (cfg Config) Workers() int {
	if !cfg.Enabled || cfg.NumWorkers < 1 {
		return 1
	}
	return cfg.NumWorkers
}

// ForRange splits [0, n) into contiguous chunks and calls f(start, end) once
// per chunk. Falls back to a single sequential call if parallelism is
// disabled or n is too small. Per-chunk scratch buffers belong inside f.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	workers := cfg.Workers()
	minChunk := max(cfg.MinChunkSize, 1)
	if workers == 1 || n < 2*minChunk {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+workers-1)/workers, minChunk)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n) with optional parallelism.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}
