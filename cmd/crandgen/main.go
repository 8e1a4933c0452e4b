// Command crandgen loads a YAML problem definition and runs randomize()
// against it one or more times, printing each resulting assignment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/constrainedrandom/pkg/config"
	"github.com/dshills/constrainedrandom/pkg/debugviz"
	"github.com/dshills/constrainedrandom/pkg/problem"
	"github.com/dshills/constrainedrandom/pkg/solver"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML problem definition file (required)")
	count      = flag.Int("count", 1, "Number of randomize() calls to run")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	debugFlag  = flag.Bool("debug", false, "Retain per-attempt debug records on failure")
	svgPath    = flag.String("svg", "", "If set, write a debug-view SVG on failure to <path without extension>_<call index>.svg")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("crandgen version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		printUsage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *verbose {
		fmt.Printf("Loading problem definition from %s\n", *configPath)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Seed, *seedFlag)
		}
		cfg.Seed = *seedFlag
	}

	p, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build problem: %w", err)
	}

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Seed)
		fmt.Printf("Variables: %d\n", p.NumVars())
		fmt.Printf("Constraints: %d\n", len(p.MultiConstraints))
	}

	for i := 0; i < *count; i++ {
		assignment, err := solver.Solve(p, solver.RandomizeOptions{Debug: *debugFlag})
		if err != nil {
			fmt.Fprintf(os.Stderr, "randomize() failed on call %d: %v\n", i+1, err)
			if randErr, ok := err.(*solver.RandomizationError); ok && *svgPath != "" {
				if svgErr := writeDebugSVG(p, randErr.DebugInfo, i); svgErr != nil {
					fmt.Fprintf(os.Stderr, "  (failed to write debug SVG: %v)\n", svgErr)
				}
			}
			return err
		}

		out, err := json.Marshal(assignment)
		if err != nil {
			return fmt.Errorf("failed to marshal assignment: %w", err)
		}
		fmt.Println(string(out))
	}

	return nil
}

func writeDebugSVG(p *problem.MultiVarProblem, info *solver.RandomizationDebugInfo, iteration int) error {
	opts := debugviz.DefaultOptions()
	opts.Title = fmt.Sprintf("crandgen debug view (call %d)", iteration+1)
	name := fmt.Sprintf("%s_%d.svg", trimExt(*svgPath), iteration)
	return debugviz.SaveToFile(p, info, name, opts)
}

func trimExt(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: crandgen -config <problem.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'crandgen -help' for detailed help")
}

func printHelp() {
	fmt.Printf("crandgen version %s\n\n", version)
	fmt.Println("A command-line tool for running constrained-random problem definitions.")
	fmt.Println("\nUsage:")
	fmt.Println("  crandgen -config <problem.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML problem definition file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -count int")
	fmt.Println("        Number of randomize() calls to run (default: 1)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed)")
	fmt.Println("  -debug")
	fmt.Println("        Retain per-attempt debug records on failure")
	fmt.Println("  -svg string")
	fmt.Println("        If set, write a debug-view SVG on failure to <path without extension>_<call index>.svg")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  crandgen -config problem.yaml")
	fmt.Println("  crandgen -config problem.yaml -seed 12345 -count 5")
	fmt.Println("  crandgen -config problem.yaml -debug -svg out/debug.svg")
}
