// Command benchmark runs the SM213 timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv            Output results in CSV format (default: human-readable)
//	-json           Output results as a JSON report
//	-core           Run only the three core benchmarks
//	-timing-config  Path to timing configuration JSON file
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/sm213/benchmarks"
	"github.com/sarchlab/sm213/timing/latency"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	timingPath := flag.String("timing-config", "", "Path to timing configuration JSON file")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout
	config.Verbose = *verbose
	if *timingPath != "" {
		timing, err := latency.LoadConfig(*timingPath)
		if err == nil {
			err = timing.Validate()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timing
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		fmt.Println("SM213 Timing Benchmark Harness")
		fmt.Println("==============================")
		fmt.Println("")
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Valid {
			os.Exit(1)
		}
	}
}
