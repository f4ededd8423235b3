package main

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/born-ml/cbpkrp/internal/cbp"
	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/internal/serialization"
)

func runInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("inspect: expected exactly one material file")
	}
	path := fs.Arg(0)

	reader, err := serialization.NewSafeTensorsReader(path)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s\n", path)
	meta := reader.Metadata()
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		_, _ = fmt.Fprintf(out, "  meta %-12s %s\n", key, meta[key])
	}
	for _, name := range reader.TensorNames() {
		info, err := reader.TensorInfo(name)
		if err != nil {
			_ = reader.Close()
			return err
		}
		_, _ = fmt.Fprintf(out, "  tensor %-8s %s %v\n", name, info.DType, info.Shape)
	}
	if err := reader.Close(); err != nil {
		return err
	}

	m, err := material.Load(path)
	if err != nil {
		return err
	}
	sparse, err := cbp.NewSparseEngine(m, cbp.WithWorkers(1))
	if err != nil {
		return err
	}
	dense, err := cbp.NewDenseEngine(m, cbp.WithWorkers(1))
	if err != nil {
		return err
	}

	csr := m.CSR()
	_, err = fmt.Fprintf(out, "  %s\n  projection nnz %s of %s (%.2f%%), csr %s, dense %s\n",
		m,
		humanize.Comma(int64(sparse.ProjectionNNZ())),
		humanize.Comma(int64(csr.Rows*csr.Cols)),
		100*csr.Density(),
		humanize.Bytes(uint64(sparse.MemoryFootprint())),
		humanize.Bytes(uint64(dense.MemoryFootprint())))
	return err
}
