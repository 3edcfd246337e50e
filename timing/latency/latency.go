// Package latency provides per-instruction cycle costs for the clocked
// simulation mode.
//
// The values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/sm213/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction. Unknown and nil instructions cost one cycle.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch {
	case t.IsALUOp(inst):
		return t.config.ALULatency
	case inst.Op == insts.OpShift:
		return t.config.ShiftLatency
	case t.IsLoadOp(inst):
		return t.config.LoadLatency
	case t.IsStoreOp(inst):
		return t.config.StoreLatency
	case t.IsBranchOp(inst):
		return t.config.BranchLatency
	case t.IsJumpOp(inst):
		return t.config.JumpLatency
	case inst.Op == insts.OpHalt, inst.Op == insts.OpNop:
		return t.config.HaltLatency
	default:
		return 1
	}
}

// IsALUOp returns true for the ALU group, including gpc.
func (t *Table) IsALUOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpMov, insts.OpAdd, insts.OpAnd, insts.OpInc, insts.OpIncA,
		insts.OpDec, insts.OpDecA, insts.OpNot, insts.OpGPC:
		return true
	default:
		return false
	}
}

// IsMemoryOp returns true if the instruction accesses memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return t.IsStoreOp(inst) ||
		inst.Op == insts.OpLoadOffset || inst.Op == insts.OpLoadIndexed
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpLoadImm, insts.OpLoadOffset, insts.OpLoadIndexed:
		return true
	default:
		return false
	}
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpStoreOffset || inst.Op == insts.OpStoreIndexed
}

// IsBranchOp returns true for the PC-relative branches.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpBranch, insts.OpBranchZero, insts.OpBranchGT:
		return true
	default:
		return false
	}
}

// IsJumpOp returns true for both jump forms.
func (t *Table) IsJumpOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpJump || inst.Op == insts.OpJumpIndirect
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
