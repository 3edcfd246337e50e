// Package core provides the clocked CPU core model.
// It drives the functional emulator from an akita event engine and charges
// each instruction the cycles given by the latency table.
package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sm213/emu"
	"github.com/sarchlab/sm213/timing/latency"
)

// DefaultFrequency is the core clock used when no frequency is given.
const DefaultFrequency = 1 * sim.GHz

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// SimTime is the virtual time at which the last instruction completed.
	SimTime sim.VTimeInSec
}

// Report is the outcome of a Run.
type Report struct {
	Stats
	// Result is the final step result: halted or faulted.
	Result emu.StepResult
}

// tickEvent asks the core to execute its next instruction.
type tickEvent struct {
	*sim.EventBase
}

// Core represents a clocked SM213 core.
type Core struct {
	emulator *emu.Emulator
	table    *latency.Table
	engine   sim.Engine
	freq     sim.Freq

	stats  Stats
	result emu.StepResult
	halted bool

	// Engine time only moves forward, so Reset rebases SimTime on start.
	start sim.VTimeInSec
	next  sim.VTimeInSec
	until uint64 // cycle budget for RunCycles, 0 means none
}

// Option configures a Core.
type Option func(*Core)

// WithLatencyTable sets the per-instruction cycle costs.
func WithLatencyTable(table *latency.Table) Option {
	return func(c *Core) {
		c.table = table
	}
}

// WithFrequency sets the core clock.
func WithFrequency(freq sim.Freq) Option {
	return func(c *Core) {
		c.freq = freq
	}
}

// WithEngine runs the core on an existing engine.
func WithEngine(engine sim.Engine) Option {
	return func(c *Core) {
		c.engine = engine
	}
}

// NewCore creates a new Core driving emulator.
func NewCore(emulator *emu.Emulator, opts ...Option) *Core {
	c := &Core{
		emulator: emulator,
		table:    latency.NewTable(),
		freq:     DefaultFrequency,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.engine == nil {
		c.engine = sim.NewSerialEngine()
	}

	return c
}

// Emulator returns the functional model the core drives.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// SetPC sets the program counter.
func (c *Core) SetPC(pc uint32) {
	c.emulator.SetPC(pc)
}

// Halted returns true once the core has halted or faulted.
func (c *Core) Halted() bool {
	return c.halted
}

// Result returns the step result that stopped the core.
func (c *Core) Result() emu.StepResult {
	return c.result
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Handle executes one instruction per tick event and schedules the next
// tick after the instruction's latency.
func (c *Core) Handle(e sim.Event) error {
	if _, ok := e.(tickEvent); !ok {
		return nil
	}

	c.Tick()
	if !c.halted && (c.until == 0 || c.stats.Cycles < c.until) {
		c.engine.Schedule(tickEvent{sim.NewEventBase(c.next, c)})
	}
	return nil
}

// Tick executes one instruction outside the engine and charges its latency.
func (c *Core) Tick() {
	if c.halted {
		return
	}

	before := c.emulator.InstructionCount()
	result := c.emulator.Step()

	// A step stopped by the instruction limit or a fetch fault retires
	// nothing and costs no cycles.
	if executed := c.emulator.InstructionCount() - before; executed > 0 {
		c.stats.Instructions += executed
		cycles := c.table.GetLatency(c.emulator.LastCycle().Inst)
		c.stats.Cycles += cycles
		c.next += c.freq.Period() * sim.VTimeInSec(cycles)
		c.stats.SimTime = c.next - c.start
	}

	if result.Status != emu.StepContinue {
		c.halted = true
		c.result = result
	}
}

// Run executes the core until it halts or faults.
func (c *Core) Run() Report {
	c.run(0)
	return Report{Stats: c.stats, Result: c.result}
}

// RunCycles executes the core for at least the specified number of cycles.
// An instruction is never split, so the count may be exceeded by the last
// instruction's latency. Returns true if still running, false if halted.
func (c *Core) RunCycles(cycles uint64) bool {
	c.run(c.stats.Cycles + cycles)
	return !c.halted
}

func (c *Core) run(until uint64) {
	if c.halted {
		return
	}

	c.until = until
	c.engine.Schedule(tickEvent{sim.NewEventBase(c.next, c)})

	if err := c.engine.Run(); err != nil {
		c.halted = true
		c.result = emu.StepResult{Status: emu.StepFaulted, Err: err}
	}
}

// Reset clears all core state and resets the emulator.
func (c *Core) Reset() {
	c.emulator.Reset()
	c.stats = Stats{}
	c.result = emu.StepResult{}
	c.halted = false
	c.until = 0
	c.start = c.next
}
