package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/born-ml/cbpkrp/internal/cbp"
	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/internal/tensor"
)

// agreementTolerance bounds the max abs difference between engines relative
// to the largest descriptor magnitude.
const agreementTolerance = 1e-3

type benchResult struct {
	engine  cbp.Engine
	elapsed time.Duration
	out     *tensor.RawTensor
}

func runBench(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(out)
	cfg := configFlags(fs)
	path := fs.String("material", "", "material file; generated from -c -k -s -p -t -seed when empty")
	n := fs.Int("n", 8, "batch size")
	h := fs.Int("h", 14, "feature map height")
	w := fs.Int("w", 14, "feature map width")
	iters := fs.Int("iters", 10, "forward calls per engine")
	threads := fs.Int("threads", runtime.NumCPU(), "worker goroutines and GOMAXPROCS")
	quiet := fs.Bool("quiet", false, "disable the progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *iters < 1 || *n < 1 || *h < 1 || *w < 1 || *threads < 1 {
		return errors.Wrap(material.ErrInvalidParameter, "bench: -n, -h, -w, -iters and -threads must be positive")
	}
	prev := runtime.GOMAXPROCS(*threads)
	defer runtime.GOMAXPROCS(prev)

	var m *material.Material
	var err error
	if *path != "" {
		m, err = material.Load(*path)
	} else {
		m, err = material.Generate(*cfg)
	}
	if err != nil {
		return err
	}
	klog.V(1).Infof("bench: material %s [%s]", m, m.Fingerprint())

	engines := []cbp.Engine{
		must.M1(cbp.NewDenseEngine(m, cbp.WithWorkers(*threads))),
		must.M1(cbp.NewSparseEngine(m, cbp.WithWorkers(*threads))),
		must.M1(cbp.NewSparseEngine(m, cbp.WithWorkers(*threads), cbp.WithSparseMultiplication(false))),
	}
	batch := randomBatch(*n, m.Channels(), *h, *w, cfg.Seed)

	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.NewOptions(len(engines)**iters,
			progressbar.OptionSetDescription("forward"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("calls"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]benchResult, len(engines))
	for i, e := range engines {
		results[i].engine = e
		for it := 0; it < *iters; it++ {
			start := time.Now()
			y, err := e.Forward(batch)
			results[i].elapsed += time.Since(start)
			if err != nil {
				return errors.WithMessagef(err, "bench: %s", e.Name())
			}
			results[i].out = y
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	_, _ = fmt.Fprintf(out, "%s, batch (%d, %d, %d, %d), %d iterations, %d threads\n",
		m, *n, m.Channels(), *h, *w, *iters, *threads)
	base := results[0]
	for _, r := range results {
		per := max(r.elapsed/time.Duration(*iters), time.Nanosecond)
		_, _ = fmt.Fprintf(out, "  %-22s %12s/call %10s samples/s  x%.2f\n",
			r.engine.Name(), per, humanize.Commaf(math.Round(float64(*n)/per.Seconds())),
			base.elapsed.Seconds()/max(r.elapsed.Seconds(), 1e-9))
	}

	for _, r := range results[1:] {
		if diff := relativeDiff(base.out.AsFloat32(), r.out.AsFloat32()); diff > agreementTolerance {
			return errors.Errorf("bench: %s disagrees with %s (relative diff %.3g)", r.engine.Name(), base.engine.Name(), diff)
		}
	}
	_, err = fmt.Fprintln(out, "  engines agree")
	return err
}

// randomBatch fills an (n, c, h, w) batch with ReLU-like activations.
func randomBatch(n, c, h, w int, seed uint64) *tensor.RawTensor {
	rng := rand.New(rand.NewPCG(seed, seed+1)) //nolint:gosec // G404: benchmark data
	batch := must.M1(tensor.NewRaw(tensor.Shape{n, c, h, w}, tensor.Float32))
	data := batch.AsFloat32()
	for i := range data {
		data[i] = float32(max(0, rng.NormFloat64()))
	}
	return batch
}

// relativeDiff returns max|a-b| / max|a|.
func relativeDiff(a, b []float32) float64 {
	var diff, scale float64
	for i := range a {
		diff = max(diff, math.Abs(float64(a[i])-float64(b[i])))
		scale = max(scale, math.Abs(float64(a[i])))
	}
	if scale == 0 {
		return diff
	}
	return diff / scale
}
