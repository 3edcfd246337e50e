package insts

import "fmt"

// Disassemble renders the instruction in SM213 assembly syntax. pc is the
// address of the instruction and is used to resolve branch targets.
func (i *Instruction) Disassemble(pc uint32) string {
	next := pc + uint32(i.Size())

	switch i.Op {
	case OpLoadImm:
		return fmt.Sprintf("ld $0x%x, r%d", i.Ext, i.Op0)
	case OpLoadOffset:
		return fmt.Sprintf("ld %d(r%d), r%d", int(i.Op0)*4, i.Op1, i.Op2)
	case OpLoadIndexed:
		return fmt.Sprintf("ld (r%d, r%d, 4), r%d", i.Op0, i.Op1, i.Op2)
	case OpStoreOffset:
		return fmt.Sprintf("st r%d, %d(r%d)", i.Op0, int(i.Op1)*4, i.Op2)
	case OpStoreIndexed:
		return fmt.Sprintf("st r%d, (r%d, r%d, 4)", i.Op0, i.Op1, i.Op2)
	case OpMov, OpAdd, OpAnd:
		return fmt.Sprintf("%v r%d, r%d", i.Op, i.Op1, i.Op2)
	case OpInc, OpIncA, OpDec, OpDecA, OpNot:
		return fmt.Sprintf("%v r%d", i.Op, i.Op2)
	case OpGPC:
		return fmt.Sprintf("gpc $%d, r%d", int(i.Op1)*2, i.Op2)
	case OpShift:
		if i.Imm > 0 {
			return fmt.Sprintf("shl $%d, r%d", i.Imm, i.Op0)
		}
		return fmt.Sprintf("shr $%d, r%d", -int(i.Imm), i.Op0)
	case OpBranch:
		return fmt.Sprintf("br 0x%x", next+uint32(i.Displacement()))
	case OpBranchZero, OpBranchGT:
		return fmt.Sprintf("%v r%d, 0x%x", i.Op, i.Op0, next+uint32(i.Displacement()))
	case OpJump:
		return fmt.Sprintf("j 0x%x", i.Ext)
	case OpJumpIndirect:
		return fmt.Sprintf("j %d(r%d)", i.IndirectOffset(), i.Op0)
	case OpHalt:
		return "halt"
	case OpNop:
		return "nop"
	default:
		return fmt.Sprintf("(bad) %02x%02x", byte(i.Opcode)<<4|i.Op0, i.Op1<<4|i.Op2)
	}
}
