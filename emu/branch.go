// Package emu provides functional SM213 emulation.
package emu

import (
	"github.com/sarchlab/sm213/insts"
)

// executeBranch performs the PC-relative branches and both jumps. Relative
// targets are computed from the post-fetch PC.
func (c *Cycle) executeBranch() error {
	inst := c.Inst
	regs := c.Regs

	switch inst.Op {
	case insts.OpBranch:
		regs.PC += uint32(inst.Displacement())

	case insts.OpBranchZero, insts.OpBranchGT:
		value, err := regs.ReadReg(inst.Op0)
		if err != nil {
			return err
		}
		taken := value == 0
		if inst.Op == insts.OpBranchGT {
			taken = value > 0
		}
		if taken {
			regs.PC += uint32(inst.Displacement())
		}

	case insts.OpJump:
		regs.PC = inst.Ext

	case insts.OpJumpIndirect:
		base, err := regs.ReadReg(inst.Op0)
		if err != nil {
			return err
		}
		regs.PC = uint32(base + inst.IndirectOffset())

	default:
		return c.invalid()
	}

	return nil
}
