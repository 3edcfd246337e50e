// Package emu provides functional SM213 emulation.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/sm213/insts"
)

// CPUStep is the two-stage interface a driver uses to run one cycle.
type CPUStep interface {
	Fetch(c *Cycle) error
	Execute(c *Cycle) StepResult
}

// Emulator executes SM213 instructions functionally.
type Emulator struct {
	name    string
	regFile *RegFile
	memory  MemoryBackend

	// I/O
	stdout io.Writer
	stderr io.Writer
	trace  io.Writer

	// Execution state
	entryPoint       uint32
	lastCycle        *Cycle
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithTrace writes one line per executed instruction to w.
func WithTrace(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.trace = w
	}
}

// WithRegFile uses an externally owned register file.
func WithRegFile(regFile *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = regFile
	}
}

// WithEntryPoint sets the PC used at creation and on Reset.
func WithEntryPoint(pc uint32) EmulatorOption {
	return func(e *Emulator) {
		e.entryPoint = pc
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new SM213 CPU named name, attached to memory.
func NewEmulator(name string, memory MemoryBackend, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		name:    name,
		regFile: &RegFile{},
		memory:  memory,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.regFile.PC = e.entryPoint

	return e
}

// Name returns the name the CPU was created with.
func (e *Emulator) Name() string {
	return e.name
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() MemoryBackend {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LastCycle returns the most recent cycle, or nil before the first Step.
func (e *Emulator) LastCycle() *Cycle {
	return e.lastCycle
}

// SetPC moves the program counter.
func (e *Emulator) SetPC(pc uint32) {
	e.regFile.PC = pc
}

// Reset clears the registers, sets PC to the entry point and zeroes the
// instruction count. Memory is left alone.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.regFile.PC = e.entryPoint
	e.instructionCount = 0
	e.lastCycle = nil
}

// NewCycle creates an empty cycle over the emulator's registers and memory.
func (e *Emulator) NewCycle() *Cycle {
	return NewCycle(e.regFile, e.memory)
}

// Fetch runs the fetch stage of c.
func (e *Emulator) Fetch(c *Cycle) error {
	return c.Fetch()
}

// Execute runs the execute stage of c.
func (e *Emulator) Execute(c *Cycle) StepResult {
	return c.Execute()
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return faulted(ErrMaxInstructions)
	}

	c := e.NewCycle()
	e.lastCycle = c

	if err := e.Fetch(c); err != nil {
		return faulted(fmt.Errorf("fetch at pc 0x%x: %w", c.PC, err))
	}

	if e.trace != nil {
		_, _ = fmt.Fprintf(e.trace, "%08x: %-12x %v\n",
			c.PC, insts.Encode(c.Inst), c.Inst.Disassemble(c.PC))
	}

	result := e.Execute(c)
	e.instructionCount++

	return result
}

// Run executes instructions until the program halts or a fault occurs.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		switch result.Status {
		case StepHalted:
			return result
		case StepFaulted:
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return result
		}
	}
}

// DumpRegisters writes the PC and general-purpose registers to stdout.
func (e *Emulator) DumpRegisters() {
	_, _ = fmt.Fprintf(e.stdout, "pc: 0x%08x\n", e.regFile.PC)
	for i, v := range e.regFile.R {
		_, _ = fmt.Fprintf(e.stdout, "r%d: 0x%08x (%d)\n", i, uint32(v), v)
	}
}
