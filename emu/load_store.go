// Package emu provides functional SM213 emulation.
package emu

import (
	"github.com/sarchlab/sm213/insts"
)

// Effective addresses are computed in 32-bit signed arithmetic, as the
// registers hold them; a negative result is an invalid address.

// executeLoad performs ld o(rs), rd and ld (rs, ri, 4), rd.
func (c *Cycle) executeLoad() error {
	inst := c.Inst

	var addr int32
	if inst.Op == insts.OpLoadOffset {
		base, err := c.Regs.ReadReg(inst.Op1)
		if err != nil {
			return err
		}
		addr = int32(inst.Op0)*4 + base
	} else {
		base, err := c.Regs.ReadReg(inst.Op0)
		if err != nil {
			return err
		}
		index, err := c.Regs.ReadReg(inst.Op1)
		if err != nil {
			return err
		}
		addr = base + index*4
	}

	// Reject a bad destination before touching memory.
	if _, err := c.Regs.ReadReg(inst.Op2); err != nil {
		return err
	}

	value, err := ReadInt32(c.Mem, int(addr))
	if err != nil {
		return err
	}

	return c.Regs.WriteReg(inst.Op2, value)
}

// executeStore performs st rs, o(rd) and st rs, (rd, ri, 4).
func (c *Cycle) executeStore() error {
	inst := c.Inst

	value, err := c.Regs.ReadReg(inst.Op0)
	if err != nil {
		return err
	}

	var addr int32
	if inst.Op == insts.OpStoreOffset {
		base, err := c.Regs.ReadReg(inst.Op2)
		if err != nil {
			return err
		}
		addr = base + int32(inst.Op1)*4
	} else {
		base, err := c.Regs.ReadReg(inst.Op1)
		if err != nil {
			return err
		}
		index, err := c.Regs.ReadReg(inst.Op2)
		if err != nil {
			return err
		}
		addr = base + index*4
	}

	return WriteInt32(c.Mem, int(addr), value)
}
