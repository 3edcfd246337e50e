package emu

import (
	"github.com/sarchlab/sm213/insts"
)

// StepStatus tells the driver what to do after a cycle.
type StepStatus uint8

const (
	// StepContinue means the instruction completed and the next may run.
	StepContinue StepStatus = iota
	// StepHalted means a halt instruction ended the run normally.
	StepHalted
	// StepFaulted means the cycle failed; Err holds the cause.
	StepFaulted
)

func (s StepStatus) String() string {
	switch s {
	case StepContinue:
		return "continue"
	case StepHalted:
		return "halted"
	case StepFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	Status StepStatus

	// Err is set when Status is StepFaulted.
	Err error
}

func faulted(err error) StepResult {
	return StepResult{Status: StepFaulted, Err: err}
}

var decoder = insts.NewDecoder()

// Cycle is the state of one fetch/execute cycle: the decoded instruction and
// the registers and memory it acts on. Fetch fills Inst, Execute consumes it.
type Cycle struct {
	Regs *RegFile
	Mem  MemoryBackend

	// PC is the address Inst was fetched from.
	PC   uint32
	Inst *insts.Instruction
}

// NewCycle creates a cycle context over a register file and memory.
func NewCycle(regs *RegFile, mem MemoryBackend) *Cycle {
	return &Cycle{Regs: regs, Mem: mem}
}

// Fetch reads and decodes the instruction at PC and advances PC past it.
//
// If the extension word of a 6-byte instruction cannot be read, PC has
// already moved past the 2-byte head.
func (c *Cycle) Fetch() error {
	c.Inst = nil
	c.PC = c.Regs.PC

	head, err := c.Mem.Read(int(c.PC), 2)
	if err != nil {
		return err
	}

	next := c.PC + 2
	c.Regs.PC = next

	var ext uint32
	if insts.HasExtension(insts.Opcode(head[0] >> 4)) {
		ext, err = ReadUint32(c.Mem, int(next))
		if err != nil {
			return err
		}
		next += 4
	}

	c.Inst = decoder.Decode(head[0], head[1], ext)
	c.Regs.PC = next

	return nil
}

// Execute performs the fetched instruction.
//
// Faults leave registers and memory as they were: every instruction reads
// all of its operands before writing its single result.
func (c *Cycle) Execute() StepResult {
	if c.Inst == nil {
		return faulted(ErrInvalidInstruction)
	}

	var err error

	switch c.Inst.Op {
	case insts.OpLoadImm:
		err = c.Regs.WriteReg(c.Inst.Op0, int32(c.Inst.Ext))
	case insts.OpLoadOffset, insts.OpLoadIndexed:
		err = c.executeLoad()
	case insts.OpStoreOffset, insts.OpStoreIndexed:
		err = c.executeStore()
	case insts.OpMov, insts.OpAdd, insts.OpAnd,
		insts.OpInc, insts.OpIncA, insts.OpDec, insts.OpDecA,
		insts.OpNot, insts.OpGPC:
		err = c.executeALU()
	case insts.OpShift:
		err = c.executeShift()
	case insts.OpBranch, insts.OpBranchZero, insts.OpBranchGT,
		insts.OpJump, insts.OpJumpIndirect:
		err = c.executeBranch()
	case insts.OpHalt:
		return StepResult{Status: StepHalted}
	case insts.OpNop:
	default:
		err = c.invalid()
	}

	if err != nil {
		return faulted(err)
	}

	return StepResult{}
}

func (c *Cycle) invalid() error {
	return &InvalidInstructionError{
		PC:       c.PC,
		Opcode:   uint8(c.Inst.Opcode),
		Function: c.Inst.Op0,
	}
}
