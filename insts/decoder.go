// Package insts provides SM213 instruction definitions, decoding and encoding.
package insts

// Opcode is the primary 4-bit instruction selector.
type Opcode uint8

// SM213 primary opcodes.
const (
	OpcodeLoadImm      Opcode = 0x0 // ld $v, rd .............. 0d-- vvvv vvvv
	OpcodeLoadOffset   Opcode = 0x1 // ld o(rs), rd .......... 1psd
	OpcodeLoadIndexed  Opcode = 0x2 // ld (rs, ri, 4), rd .... 2sid
	OpcodeStoreOffset  Opcode = 0x3 // st rs, o(rd) .......... 3spd
	OpcodeStoreIndexed Opcode = 0x4 // st rs, (rd, ri, 4) .... 4sdi
	OpcodeALU          Opcode = 0x6 // ALU group ............. 6fsd
	OpcodeShift        Opcode = 0x7 // shl/shr $i, rd ........ 7dii
	OpcodeBranch       Opcode = 0x8 // br a .................. 8-pp
	OpcodeBranchZero   Opcode = 0x9 // beq rs, a ............. 9rpp
	OpcodeBranchGT     Opcode = 0xa // bgt rs, a ............. arpp
	OpcodeJump         Opcode = 0xb // j a ................... b--- aaaa aaaa
	OpcodeJumpIndirect Opcode = 0xc // j o(rr) ............... crpp
	OpcodeHalt         Opcode = 0xf // halt / nop ............ f?--
)

// ALU group functions, selected by op0 when the opcode is OpcodeALU.
const (
	FuncMov  uint8 = 0x0
	FuncAdd  uint8 = 0x1
	FuncAnd  uint8 = 0x2
	FuncInc  uint8 = 0x3
	FuncIncA uint8 = 0x4
	FuncDec  uint8 = 0x5
	FuncDecA uint8 = 0x6
	FuncNot  uint8 = 0x7
	FuncGPC  uint8 = 0xf
)

// FuncHalt selects halt within the OpcodeHalt group. Every other op0 is a nop.
const FuncHalt uint8 = 0x0

// FuncNop is the canonical nop encoding within the OpcodeHalt group.
const FuncNop uint8 = 0xf

// Op identifies a fully decoded SM213 operation.
type Op uint8

// SM213 operations.
const (
	OpUnknown Op = iota
	OpLoadImm
	OpLoadOffset
	OpLoadIndexed
	OpStoreOffset
	OpStoreIndexed
	OpMov
	OpAdd
	OpAnd
	OpInc
	OpIncA
	OpDec
	OpDecA
	OpNot
	OpGPC
	OpShift
	OpBranch
	OpBranchZero
	OpBranchGT
	OpJump
	OpJumpIndirect
	OpHalt
	OpNop
)

var opNames = map[Op]string{
	OpUnknown:      "unknown",
	OpLoadImm:      "ld",
	OpLoadOffset:   "ld",
	OpLoadIndexed:  "ld",
	OpStoreOffset:  "st",
	OpStoreIndexed: "st",
	OpMov:          "mov",
	OpAdd:          "add",
	OpAnd:          "and",
	OpInc:          "inc",
	OpIncA:         "inca",
	OpDec:          "dec",
	OpDecA:         "deca",
	OpNot:          "not",
	OpGPC:          "gpc",
	OpShift:        "sh",
	OpBranch:       "br",
	OpBranchZero:   "beq",
	OpBranchGT:     "bgt",
	OpJump:         "j",
	OpJumpIndirect: "j",
	OpHalt:         "halt",
	OpNop:          "nop",
}

// String returns the assembler mnemonic of the operation.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

var aluOps = map[uint8]Op{
	FuncMov:  OpMov,
	FuncAdd:  OpAdd,
	FuncAnd:  OpAnd,
	FuncInc:  OpInc,
	FuncIncA: OpIncA,
	FuncDec:  OpDec,
	FuncDecA: OpDecA,
	FuncNot:  OpNot,
	FuncGPC:  OpGPC,
}

// Instruction represents a decoded SM213 instruction.
type Instruction struct {
	Op     Op     // Decoded operation
	Opcode Opcode // Primary opcode (high nibble of byte 0)

	Op0 uint8 // Low nibble of byte 0
	Op1 uint8 // High nibble of byte 1
	Op2 uint8 // Low nibble of byte 1

	// Imm is byte 1 reinterpreted as a signed value.
	Imm int8

	// Ext is the extension word for load immediate and jump absolute.
	Ext    uint32
	HasExt bool

	// Raw is byte0<<40 | byte1<<32 | ext, kept for diagnostics.
	Raw uint64
}

// Size returns the encoded length of the instruction in bytes.
func (i *Instruction) Size() int {
	if i.HasExt {
		return 6
	}
	return 2
}

// Disp8 returns the signed 8-bit value formed by op1:op2.
func (i *Instruction) Disp8() int32 {
	return int32(int8(i.Op1<<4 | i.Op2))
}

// Displacement returns the branch displacement in bytes.
func (i *Instruction) Displacement() int32 {
	return i.Disp8() * 2
}

// IndirectOffset returns the unsigned byte offset of a jump indirect.
func (i *Instruction) IndirectOffset() int32 {
	return int32(i.Op1)<<5 | int32(i.Op2)<<1
}

// HasExtension reports whether an opcode carries a 32-bit extension word.
func HasExtension(opcode Opcode) bool {
	return opcode == OpcodeLoadImm || opcode == OpcodeJump
}

// Decoder decodes SM213 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new SM213 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 2-byte instruction head and its extension word. The
// extension is ignored for opcodes that do not carry one.
func (d *Decoder) Decode(b0, b1 byte, ext uint32) *Instruction {
	inst := &Instruction{
		Opcode: Opcode(b0 >> 4),
		Op0:    b0 & 0x0f,
		Op1:    b1 >> 4,
		Op2:    b1 & 0x0f,
		Imm:    int8(b1),
	}

	if HasExtension(inst.Opcode) {
		inst.Ext = ext
		inst.HasExt = true
	}
	inst.Raw = uint64(b0)<<40 | uint64(b1)<<32 | uint64(inst.Ext)
	inst.Op = d.classify(inst)

	return inst
}

// DecodeBytes decodes the instruction at the start of code. It returns nil
// when code is too short to hold the whole instruction.
func (d *Decoder) DecodeBytes(code []byte) *Instruction {
	if len(code) < 2 {
		return nil
	}

	var ext uint32
	if HasExtension(Opcode(code[0] >> 4)) {
		if len(code) < 6 {
			return nil
		}
		ext = uint32(code[2])<<24 | uint32(code[3])<<16 | uint32(code[4])<<8 | uint32(code[5])
	}

	return d.Decode(code[0], code[1], ext)
}

func (d *Decoder) classify(inst *Instruction) Op {
	switch inst.Opcode {
	case OpcodeLoadImm:
		return OpLoadImm
	case OpcodeLoadOffset:
		return OpLoadOffset
	case OpcodeLoadIndexed:
		return OpLoadIndexed
	case OpcodeStoreOffset:
		return OpStoreOffset
	case OpcodeStoreIndexed:
		return OpStoreIndexed
	case OpcodeALU:
		if op, ok := aluOps[inst.Op0]; ok {
			return op
		}
		return OpUnknown
	case OpcodeShift:
		return OpShift
	case OpcodeBranch:
		return OpBranch
	case OpcodeBranchZero:
		return OpBranchZero
	case OpcodeBranchGT:
		return OpBranchGT
	case OpcodeJump:
		return OpJump
	case OpcodeJumpIndirect:
		return OpJumpIndirect
	case OpcodeHalt:
		if inst.Op0 == FuncHalt {
			return OpHalt
		}
		return OpNop
	default:
		return OpUnknown
	}
}
