package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/born-ml/cbpkrp/internal/material"
)

// configFlags registers the material parameters on fs.
func configFlags(fs *flag.FlagSet) *material.Config {
	cfg := material.DefaultConfig(512)
	fs.IntVar(&cfg.Channels, "c", cfg.Channels, "input channels (C)")
	fs.IntVar(&cfg.OutputDim, "k", cfg.OutputDim, "descriptor width (K)")
	fs.IntVar(&cfg.Sparsity, "s", cfg.Sparsity, "nonzeros per pool vector (S)")
	fs.IntVar(&cfg.PoolSize, "p", cfg.PoolSize, "pool size (P)")
	fs.IntVar(&cfg.Repeats, "t", cfg.Repeats, "pool vectors summed per column (T)")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "random seed")
	return &cfg
}

func runGenerate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(out)
	cfg := configFlags(fs)
	path := fs.String("o", "material.safetensors", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := material.Generate(*cfg)
	if err != nil {
		return err
	}
	if err := material.Save(*path, m); err != nil {
		return errors.WithMessagef(err, "saving %s", *path)
	}

	_, err = fmt.Fprintf(out, "wrote %s to %s (%s, fingerprint %s)\n",
		m, *path, humanize.Bytes(uint64(m.ByteSize())), m.Fingerprint())
	return err
}
