// Package debugger implements an interactive single-step monitor for the
// SM213 emulator.
//
// Commands are single keys, so the monitor is best used on a terminal in
// cbreak mode (see OpenTerminal), but any io.Reader works.
package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/sm213/emu"
	"github.com/sarchlab/sm213/insts"
)

// MemoryWindow is the number of bytes the m command shows.
const MemoryWindow = 16

const help = `s  step one instruction
c  continue until halt or fault
r  show registers
m  show memory at pc
q  quit
h  this help
`

// Monitor steps an emulator under interactive control.
type Monitor struct {
	emulator *emu.Emulator
	in       *bufio.Reader
	out      io.Writer
	decoder  *insts.Decoder
	result   emu.StepResult
}

// NewMonitor creates a monitor that reads commands from in and writes to out.
func NewMonitor(emulator *emu.Emulator, in io.Reader, out io.Writer) *Monitor {
	return &Monitor{
		emulator: emulator,
		in:       bufio.NewReader(in),
		out:      out,
		decoder:  insts.NewDecoder(),
	}
}

// Run processes commands until the program stops, the user quits or the
// input ends. It returns the last step result.
func (m *Monitor) Run() (emu.StepResult, error) {
	for {
		m.prompt()

		cmd, err := m.in.ReadByte()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(m.out)
			return m.result, nil
		}
		if err != nil {
			return m.result, err
		}

		switch cmd {
		case 's':
			fmt.Fprintln(m.out)
			m.step()
		case 'c':
			fmt.Fprintln(m.out)
			for m.result.Status == emu.StepContinue {
				m.step()
			}
		case 'r':
			fmt.Fprintln(m.out)
			m.registers()
		case 'm':
			fmt.Fprintln(m.out)
			m.memory()
		case 'q':
			fmt.Fprintln(m.out)
			return m.result, nil
		case 'h', '?':
			fmt.Fprintln(m.out)
			fmt.Fprint(m.out, help)
		case ' ', '\t', '\r', '\n':
			continue
		default:
			fmt.Fprintf(m.out, "\nunknown command %q, h for help\n", cmd)
		}

		if m.result.Status != emu.StepContinue {
			return m.result, nil
		}
	}
}

func (m *Monitor) prompt() {
	pc := m.emulator.RegFile().PC
	fmt.Fprintf(m.out, "%08x: %-24s > ", pc, m.peek(pc))
}

// peek disassembles the instruction at pc without executing it.
func (m *Monitor) peek(pc uint32) string {
	mem := m.emulator.Memory()

	head, err := mem.Read(int(pc), 2)
	if err != nil {
		return "??"
	}

	var ext uint32
	if insts.HasExtension(insts.Opcode(head[0] >> 4)) {
		if ext, err = emu.ReadUint32(mem, int(pc)+2); err != nil {
			return "??"
		}
	}

	return m.decoder.Decode(head[0], head[1], ext).Disassemble(pc)
}

func (m *Monitor) step() {
	m.result = m.emulator.Step()

	switch m.result.Status {
	case emu.StepHalted:
		fmt.Fprintf(m.out, "halted after %d instructions\n", m.emulator.InstructionCount())
	case emu.StepFaulted:
		fmt.Fprintf(m.out, "fault: %v\n", m.result.Err)
	}
}

func (m *Monitor) registers() {
	regs := m.emulator.RegFile()
	fmt.Fprintf(m.out, "pc: 0x%08x\n", regs.PC)
	for i, v := range regs.R {
		fmt.Fprintf(m.out, "r%d: 0x%08x (%d)\n", i, uint32(v), v)
	}
}

func (m *Monitor) memory() {
	mem := m.emulator.Memory()
	pc := int(m.emulator.RegFile().PC)

	n := min(MemoryWindow, mem.Capacity()-pc)
	if n <= 0 {
		fmt.Fprintf(m.out, "pc 0x%08x is outside memory\n", pc)
		return
	}

	data, err := mem.Read(pc, n)
	if err != nil {
		fmt.Fprintf(m.out, "%v\n", err)
		return
	}
	fmt.Fprintf(m.out, "%08x: % x\n", pc, data)
}
