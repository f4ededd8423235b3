package cbp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/cbpkrp/internal/material"
)

// BenchmarkForward compares the three kernels on a VGG-like final
// convolutional map.
func BenchmarkForward(b *testing.B) {
	cfg := material.Config{Channels: 512, OutputDim: 4096, Sparsity: 8, PoolSize: 1024, Repeats: 4, Seed: 1}
	dense, sparseOn, sparseOff := engines(b, cfg)
	batch := randomBatch(b, 2, 4, cfg.Channels, 14, 14)

	for _, e := range []Engine{dense, sparseOn, sparseOff} {
		b.Run(e.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := e.Forward(batch)
				require.NoError(b, err)
			}
		})
	}
}

func BenchmarkForwardWorkers(b *testing.B) {
	cfg := material.Config{Channels: 256, OutputDim: 1024, Sparsity: 8, PoolSize: 512, Repeats: 4, Seed: 1}
	batch := randomBatch(b, 3, 16, cfg.Channels, 7, 7)

	for _, workers := range []int{1, 2, 4, 8} {
		_, sparseOn, _ := engines(b, cfg, WithWorkers(workers))
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, err := sparseOn.Forward(batch)
				require.NoError(b, err)
			}
		})
	}
}
