// Package benchmarks provides the timing benchmark harness for SM213
// programs.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sm213/emu"
	"github.com/sarchlab/sm213/loader"
	"github.com/sarchlab/sm213/timing/core"
	"github.com/sarchlab/sm213/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the clocked core
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// SimTime is the simulated run time in seconds
	SimTime float64 `json:"sim_time_s"`

	// Status is halted or faulted
	Status string `json:"status"`

	// R0 is the value left in r0, which every benchmark uses as its result
	R0 int32 `json:"r0"`

	// Valid is true when R0 matches the benchmark's expected value
	Valid bool `json:"valid"`

	// Error is set when the benchmark could not be assembled or faulted
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the emulator state (e.g., initialize registers, memory)
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Source is the SM213 assembly to run
	Source string

	// ExpectedR0 is the value r0 must hold at halt
	ExpectedR0 int32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing sets the per-class latencies
	Timing *latency.TimingConfig

	// Frequency is the core clock
	Frequency sim.Freq

	// MemorySize is the capacity given to each benchmark
	MemorySize int

	// MaxInstructions bounds a benchmark that fails to halt
	MaxInstructions uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Timing:          latency.DefaultTimingConfig(),
		Frequency:       core.DefaultFrequency,
		MemorySize:      64 * 1024,
		MaxInstructions: 1_000_000,
		Output:          os.Stdout,
		Verbose:         false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	prog, err := loader.Assemble([]byte(bench.Source))
	if err != nil {
		result.Status = emu.StepFaulted.String()
		result.Error = err.Error()
		return result
	}

	// Create fresh state
	regFile := &emu.RegFile{}
	memory := emu.NewMemory(h.config.MemorySize)
	if err := prog.LoadInto(memory); err != nil {
		result.Status = emu.StepFaulted.String()
		result.Error = err.Error()
		return result
	}

	// Run setup if provided
	if bench.Setup != nil {
		bench.Setup(regFile, memory)
	}

	emulator := emu.NewEmulator(bench.Name, memory,
		emu.WithRegFile(regFile),
		emu.WithEntryPoint(prog.EntryPoint),
		emu.WithMaxInstructions(h.config.MaxInstructions),
		emu.WithStdout(io.Discard),
		emu.WithStderr(io.Discard),
	)
	c := core.NewCore(emulator,
		core.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)),
		core.WithFrequency(h.config.Frequency),
	)

	// Run simulation and measure time
	start := time.Now()
	report := c.Run()
	result.WallTime = time.Since(start)

	result.SimulatedCycles = report.Cycles
	result.InstructionsRetired = report.Instructions
	if report.Instructions > 0 {
		result.CPI = float64(report.Cycles) / float64(report.Instructions)
	}
	result.SimTime = float64(report.SimTime)
	result.Status = report.Result.Status.String()
	result.R0 = regFile.R[0]
	result.Valid = report.Result.Status == emu.StepHalted && result.R0 == bench.ExpectedR0
	if report.Result.Err != nil {
		result.Error = report.Result.Err.Error()
	}

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s: %s after %d instructions\n",
			bench.Name, result.Status, result.InstructionsRetired)
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== SM213 Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Status: %s\n", r.Status)
		_, _ = fmt.Fprintf(h.config.Output, "  r0: %d (valid: %v)\n", r.R0, r.Valid)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Time:       %.3e s\n", r.SimTime)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "name,cycles,instructions,cpi,status,r0,valid")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%s,%d,%v\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.Status,
			r.R0,
			r.Valid,
		)
	}
}

// BenchmarkReport is the JSON document written by PrintJSON.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Timing is the latency configuration used
	Timing *latency.TimingConfig `json:"timing"`

	// FrequencyHz is the core clock
	FrequencyHz float64 `json:"frequency_hz"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Failed counts benchmarks whose result did not validate
	Failed int `json:"failed"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all instructions retired
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		summary.TotalCycles += r.SimulatedCycles
		summary.TotalInstructions += r.InstructionsRetired
		summary.TotalWallTime += r.WallTime
		if !r.Valid {
			summary.Failed++
		}
	}
	if summary.TotalInstructions > 0 {
		summary.AverageCPI = float64(summary.TotalCycles) / float64(summary.TotalInstructions)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Timing:      h.config.Timing,
			FrequencyHz: float64(h.config.Frequency),
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
