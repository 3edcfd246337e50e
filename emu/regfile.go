// Package emu provides functional SM213 emulation.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 8

// RegFile represents the SM213 register file.
// It contains eight 32-bit general-purpose registers (r0-r7) and the
// program counter (PC).
type RegFile struct {
	// R holds general-purpose registers r0-r7.
	R [NumRegs]int32

	// PC is the program counter.
	PC uint32
}

// ReadReg reads a general-purpose register.
func (r *RegFile) ReadReg(reg uint8) (int32, error) {
	if int(reg) >= NumRegs {
		return 0, &InvalidRegisterError{Index: reg}
	}
	return r.R[reg], nil
}

// WriteReg writes a general-purpose register.
func (r *RegFile) WriteReg(reg uint8, value int32) error {
	if int(reg) >= NumRegs {
		return &InvalidRegisterError{Index: reg}
	}
	r.R[reg] = value
	return nil
}

// Reset clears all registers and the PC.
func (r *RegFile) Reset() {
	*r = RegFile{}
}
