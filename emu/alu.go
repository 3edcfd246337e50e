// Package emu provides functional SM213 emulation.
package emu

import (
	"github.com/sarchlab/sm213/insts"
)

// executeALU performs the opcode 0x6 group. Results wrap at 32 bits.
func (c *Cycle) executeALU() error {
	inst := c.Inst
	regs := c.Regs

	// gpc reads the post-fetch PC, not a register.
	if inst.Op == insts.OpGPC {
		return regs.WriteReg(inst.Op2, int32(regs.PC+2*uint32(inst.Op1)))
	}

	dst, err := regs.ReadReg(inst.Op2)
	if err != nil {
		return err
	}

	var result int32

	switch inst.Op {
	case insts.OpMov, insts.OpAdd, insts.OpAnd:
		src, err := regs.ReadReg(inst.Op1)
		if err != nil {
			return err
		}
		switch inst.Op {
		case insts.OpMov:
			result = src
		case insts.OpAdd:
			result = src + dst
		default:
			result = src & dst
		}
	case insts.OpInc:
		result = dst + 1
	case insts.OpIncA:
		result = dst + 4
	case insts.OpDec:
		result = dst - 1
	case insts.OpDecA:
		result = dst - 4
	case insts.OpNot:
		result = ^dst
	default:
		return c.invalid()
	}

	return regs.WriteReg(inst.Op2, result)
}

// executeShift shifts r[op0] left by a positive immediate, or arithmetically
// right by the magnitude of a non-positive one. Like 32-bit shift hardware,
// only the low five bits of the count are used.
func (c *Cycle) executeShift() error {
	reg := c.Inst.Op0

	value, err := c.Regs.ReadReg(reg)
	if err != nil {
		return err
	}

	imm := int(c.Inst.Imm)
	if imm > 0 {
		value <<= uint(imm) & 31
	} else {
		value >>= uint(-imm) & 31
	}

	return c.Regs.WriteReg(reg, value)
}
