package insts

// Encode returns the big-endian wire form of an instruction: two bytes, plus
// the four extension bytes for opcodes that carry one.
func Encode(inst *Instruction) []byte {
	b0 := byte(inst.Opcode)<<4 | inst.Op0&0x0f
	b1 := inst.Op1<<4 | inst.Op2&0x0f

	if !HasExtension(inst.Opcode) {
		return []byte{b0, b1}
	}

	return []byte{
		b0, b1,
		byte(inst.Ext >> 24),
		byte(inst.Ext >> 16),
		byte(inst.Ext >> 8),
		byte(inst.Ext),
	}
}

// Build decodes an instruction from its individual fields.
func Build(opcode Opcode, op0, op1, op2 uint8, ext uint32) *Instruction {
	b0 := byte(opcode)<<4 | op0&0x0f
	b1 := (op1&0x0f)<<4 | op2&0x0f
	return NewDecoder().Decode(b0, b1, ext)
}

// BuildImm8 decodes an instruction whose second byte is a signed 8-bit
// immediate or displacement.
func BuildImm8(opcode Opcode, op0 uint8, imm int8) *Instruction {
	b := uint8(imm)
	return Build(opcode, op0, b>>4, b&0x0f, 0)
}
