// Package main provides the cbpkrp CLI: it generates, inspects and
// benchmarks compact bilinear pooling material.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "cbpkrp %s - compact bilinear pooling by random projection\n\n", version)
	_, _ = fmt.Fprintln(w, "Usage: cbpkrp [klog flags] <command> [flags]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  version    Show version")
	_, _ = fmt.Fprintln(w, "  generate   Generate random material and save it")
	_, _ = fmt.Fprintln(w, "  inspect    Describe a material file")
	_, _ = fmt.Fprintln(w, "  bench      Compare dense and sparse engine latency")
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() { usage(flag.CommandLine.Output()) }
	flag.Parse()
	defer klog.Flush()

	must.M(run(flag.Args(), os.Stdout))
}

// run dispatches one subcommand.
func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}

	err := dispatch(args[0], args[1:], out)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func dispatch(cmd string, rest []string, out io.Writer) error {
	switch cmd {
	case "version":
		_, err := fmt.Fprintf(out, "cbpkrp %s\n", version)
		return err
	case "generate":
		return runGenerate(rest, out)
	case "inspect":
		return runInspect(rest, out)
	case "bench":
		return runBench(rest, out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return errors.Errorf("unknown command %q", cmd)
	}
}
