// Command hull3d evaluates a hull script and prints a summary of each
// convex hull it defines.
//
// Usage:
//
//	hull3d [-config file] [-seed n] [-validate] [-json] script.hull
//
// A script of "-" is read from standard input.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/hull3d/pkg/config"
	"github.com/chazu/hull3d/pkg/kernel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hull3d:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("hull3d", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML settings file")
	seed := fs.Uint64("seed", 0, "random seed for hull construction (0 keeps the configured seed)")
	validate := fs.Bool("validate", false, "check mesh invariants after every insertion")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one script path")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Hull.Seed = *seed
	}
	if *validate {
		cfg.Hull.Validate = true
	}

	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	source, err := readScript(fs.Arg(0), stdin)
	if err != nil {
		return err
	}

	result := NewAppWithConfig(cfg, log).Evaluate(source)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return errors.Wrap(err, "encode result")
		}
	} else {
		printSummary(stdout, result)
	}
	if len(result.Errors) > 0 {
		log.Debug("script had errors", zap.Int("errors", len(result.Errors)))
		return errors.Errorf("%d error(s)", len(result.Errors))
	}
	return nil
}

func readScript(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

func printSummary(w io.Writer, r EvalResult) {
	for _, m := range r.Meshes {
		lo, hi := meshBounds(m)
		fmt.Fprintf(w, "%-16s %6d triangles  [%g %g %g] - [%g %g %g]\n",
			m.PartName, len(m.Indices)/3, lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	}
	for _, e := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", describe(e))
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", describe(e))
	}
}

func meshBounds(m MeshData) (lo, hi [3]float32) {
	km := kernel.Mesh{Vertices: m.Vertices}
	return km.Bounds()
}

func describe(e EvalErrorData) string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.Hull != "":
		return fmt.Sprintf("%s: %s", e.Hull, e.Message)
	default:
		return e.Message
	}
}
