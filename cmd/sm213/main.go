// Package main provides the command line entry point for the SM213 simulator.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/sarchlab/sm213/config"
	"github.com/sarchlab/sm213/debugger"
	"github.com/sarchlab/sm213/emu"
	"github.com/sarchlab/sm213/insts"
	"github.com/sarchlab/sm213/loader"
	"github.com/sarchlab/sm213/timing/core"
	"github.com/sarchlab/sm213/timing/latency"
	"github.com/sarchlab/sm213/translate"
)

// StatsviewAddress is where -statsview serves runtime charts.
const StatsviewAddress = "localhost:12600"

type options struct {
	configPath string
	timingPath string
	base       uint
	entry      string
	max        uint64
	verbose    bool
	timing     bool
	step       bool
	memvizPath string
	statsview  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	flags := flag.NewFlagSet("sm213", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.configPath, "config", "", "Path to machine configuration JSON file")
	flags.StringVar(&opts.timingPath, "timing-config", "", "Path to timing configuration JSON file")
	flags.UintVar(&opts.base, "base", 0, "Load address for raw images")
	flags.StringVar(&opts.entry, "entry", "", "Initial PC, overriding the program and config")
	flags.Uint64Var(&opts.max, "max", 0, "Maximum instructions to execute (0 keeps the config value)")
	flags.BoolVar(&opts.verbose, "v", false, "Trace every instruction and dump registers at the end")
	flags.BoolVar(&opts.timing, "timing", false, "Run on the clocked core and print a timing report")
	flags.BoolVar(&opts.step, "step", false, "Start the interactive single-step monitor")
	flags.StringVar(&opts.memvizPath, "memviz", "", "Write a Graphviz dump of the final machine state to this file")
	flags.BoolVar(&opts.statsview, "statsview", false, "Serve runtime statistics at "+StatsviewAddress)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sm213 [options] <program.s|image.bin>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() < 1 {
		flags.Usage()
		return 1
	}
	programPath := flags.Arg(0)

	if opts.verbose {
		translate.SetOutput(stderr)
		defer translate.SetOutput(nil)
	}

	cfg, err := loadConfig(&opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	prog, err := loader.Load(programPath, uint32(opts.base))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	memory := emu.NewMemory(cfg.MemorySize)
	if err := prog.LoadInto(memory); err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	entry := prog.EntryPoint
	if cfg.EntryPoint != 0 {
		entry = cfg.EntryPoint
	}
	if opts.entry != "" {
		v, err := strconv.ParseUint(opts.entry, 0, 32)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing -entry: %v\n", err)
			return 1
		}
		entry = uint32(v)
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "Loaded: %s\n", programPath)
		fmt.Fprintf(stdout, "Entry point: 0x%X\n", entry)
		fmt.Fprintf(stdout, "Segments: %d\n", len(prog.Segments))
	}

	emuOpts := []emu.EmulatorOption{
		emu.WithStdout(stdout),
		emu.WithStderr(stderr),
		emu.WithEntryPoint(entry),
		emu.WithMaxInstructions(cfg.MaxInstructions),
	}
	if opts.verbose {
		emuOpts = append(emuOpts, emu.WithTrace(stdout))
	}
	emulator := emu.NewEmulator("sm213", memory, emuOpts...)

	if opts.statsview {
		launchStatsview(stdout)
	}

	var result emu.StepResult
	switch {
	case opts.step:
		result, err = runMonitor(emulator, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case opts.timing:
		result = runTiming(emulator, cfg, programPath, stdout, stderr)
	default:
		result = emulator.Run()
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "\nProgram: %s\n", programPath)
		fmt.Fprintf(stdout, "Result: %v\n", result.Status)
		fmt.Fprintf(stdout, "Instructions executed: %d\n", emulator.InstructionCount())
		emulator.DumpRegisters()
	}

	if opts.memvizPath != "" {
		if err := writeMemviz(opts.memvizPath, emulator, prog); err != nil {
			fmt.Fprintf(stderr, "Error writing memviz: %v\n", err)
			return 1
		}
	}

	if result.Status == emu.StepFaulted {
		return 1
	}
	return 0
}

// loadConfig applies the config files and flag overrides to the defaults.
func loadConfig(opts *options) (*config.MachineConfig, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.timingPath != "" {
		timing, err := latency.LoadConfig(opts.timingPath)
		if err != nil {
			return nil, err
		}
		cfg.Timing = timing
	}

	if opts.max != 0 {
		cfg.MaxInstructions = opts.max
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runTiming runs the program on the clocked core and prints a report.
func runTiming(
	emulator *emu.Emulator,
	cfg *config.MachineConfig,
	programPath string,
	stdout, stderr io.Writer,
) emu.StepResult {
	c := core.NewCore(emulator,
		core.WithLatencyTable(latency.NewTableWithConfig(cfg.Timing)),
		core.WithFrequency(cfg.Frequency()),
	)

	report := c.Run()
	if report.Result.Status == emu.StepFaulted {
		fmt.Fprintf(stderr, "Emulation error: %v\n", report.Result.Err)
	}

	cpi := 0.0
	if report.Instructions > 0 {
		cpi = float64(report.Cycles) / float64(report.Instructions)
	}

	fmt.Fprintf(stdout, "\n")
	fmt.Fprintf(stdout, "Program: %s\n", programPath)
	fmt.Fprintf(stdout, "Result: %v\n", report.Result.Status)
	fmt.Fprintf(stdout, "Total Instructions: %d\n", report.Instructions)
	fmt.Fprintf(stdout, "Total Cycles: %d\n", report.Cycles)
	fmt.Fprintf(stdout, "CPI: %.2f\n", cpi)
	fmt.Fprintf(stdout, "Clock: %.0f MHz\n", cfg.ClockMHz)
	fmt.Fprintf(stdout, "Simulated time: %.3e s\n", float64(report.SimTime))

	return report.Result
}

// runMonitor hands the emulator to the interactive monitor on the
// controlling terminal.
func runMonitor(emulator *emu.Emulator, stdout io.Writer) (emu.StepResult, error) {
	tty, err := debugger.OpenTerminal(debugger.DefaultTTY)
	if err != nil {
		return emu.StepResult{}, err
	}
	defer func() { _ = tty.Close() }()

	fmt.Fprintf(stdout, "h for help\n")
	return debugger.NewMonitor(emulator, tty, stdout).Run()
}

func launchStatsview(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(StatsviewAddress))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at %s/debug/statsview\n", StatsviewAddress)
}

// machineState is the part of the machine worth drawing: memory itself is
// too large to graph.
type machineState struct {
	Registers *emu.RegFile
	LastInst  *insts.Instruction
	Labels    map[string]uint32
	Executed  uint64
}

func writeMemviz(path string, emulator *emu.Emulator, prog *loader.Program) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	state := &machineState{
		Registers: emulator.RegFile(),
		Labels:    prog.Labels,
		Executed:  emulator.InstructionCount(),
	}
	if last := emulator.LastCycle(); last != nil {
		state.LastInst = last.Inst
	}

	memviz.Map(f, state)
	return f.Close()
}
