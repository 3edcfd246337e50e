package asm

import (
	"strings"

	"github.com/sarchlab/sm213/insts"
)

// encode is the second pass: it turns one statement into bytes.
func (asm *Assembler) encode(st *statement) ([]byte, error) {
	ops := st.operands

	need := func(n int) error {
		if len(ops) != n {
			return ErrOperandCount
		}
		return nil
	}

	emit := func(inst *insts.Instruction, err error) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return insts.Encode(inst), nil
	}

	switch st.mnemonic {
	case ".long":
		var out []byte
		for _, op := range ops {
			v, err := asm.evalRange(op, -1<<31, 1<<32-1)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
		}
		return out, nil

	case "ld":
		if err := need(2); err != nil {
			return nil, err
		}
		return emit(asm.load(ops[0], ops[1]))

	case "st":
		if err := need(2); err != nil {
			return nil, err
		}
		return emit(asm.store(ops[0], ops[1]))

	case "mov", "add", "and":
		if err := need(2); err != nil {
			return nil, err
		}
		rs, err := parseReg(ops[0])
		if err != nil {
			return nil, err
		}
		rd, err := parseReg(ops[1])
		if err != nil {
			return nil, err
		}
		return emit(insts.Build(insts.OpcodeALU, aluFuncs[st.mnemonic], rs, rd, 0), nil)

	case "inc", "inca", "dec", "deca", "not":
		if err := need(1); err != nil {
			return nil, err
		}
		rd, err := parseReg(ops[0])
		if err != nil {
			return nil, err
		}
		return emit(insts.Build(insts.OpcodeALU, aluFuncs[st.mnemonic], 0, rd, 0), nil)

	case "gpc":
		if err := need(2); err != nil {
			return nil, err
		}
		expr, err := immediate(ops[0])
		if err != nil {
			return nil, err
		}
		half, err := asm.evalScaled(expr, 2, 15)
		if err != nil {
			return nil, err
		}
		rd, err := parseReg(ops[1])
		if err != nil {
			return nil, err
		}
		return emit(insts.Build(insts.OpcodeALU, insts.FuncGPC, uint8(half), rd, 0), nil)

	case "shl", "shr":
		if err := need(2); err != nil {
			return nil, err
		}
		return emit(asm.shift(st.mnemonic, ops[0], ops[1]))

	case "br":
		if err := need(1); err != nil {
			return nil, err
		}
		disp, err := asm.displacement(st, ops[0])
		if err != nil {
			return nil, err
		}
		return emit(insts.BuildImm8(insts.OpcodeBranch, 0, disp), nil)

	case "beq", "bgt":
		if err := need(2); err != nil {
			return nil, err
		}
		rs, err := parseReg(ops[0])
		if err != nil {
			return nil, err
		}
		disp, err := asm.displacement(st, ops[1])
		if err != nil {
			return nil, err
		}
		opcode := insts.OpcodeBranchZero
		if st.mnemonic == "bgt" {
			opcode = insts.OpcodeBranchGT
		}
		return emit(insts.BuildImm8(opcode, rs, disp), nil)

	case "j":
		if err := need(1); err != nil {
			return nil, err
		}
		return emit(asm.jump(ops[0]))

	case "halt":
		if err := need(0); err != nil {
			return nil, err
		}
		return emit(insts.Build(insts.OpcodeHalt, insts.FuncHalt, 0, 0, 0), nil)

	case "nop":
		if err := need(0); err != nil {
			return nil, err
		}
		return emit(insts.Build(insts.OpcodeHalt, insts.FuncNop, 0, 0, 0), nil)
	}

	return nil, ErrOpcodeInvalid
}

func immediate(op string) (string, error) {
	if !strings.HasPrefix(op, "$") {
		return "", ErrOperandInvalid
	}
	return op[1:], nil
}

// load handles the three ld forms.
func (asm *Assembler) load(src, dst string) (*insts.Instruction, error) {
	rd, err := parseReg(dst)
	if err != nil {
		return nil, err
	}

	if expr, err := immediate(src); err == nil {
		v, err := asm.evalRange(expr, -1<<31, 1<<32-1)
		if err != nil {
			return nil, err
		}
		return insts.Build(insts.OpcodeLoadImm, rd, 0, 0, uint32(v)), nil
	}

	if rb, ri, err := asm.indexed(src); err == nil {
		return insts.Build(insts.OpcodeLoadIndexed, rb, ri, rd, 0), nil
	} else if err != ErrOperandInvalid {
		return nil, err
	}

	p, rb, err := asm.baseOffset(src, 4, 15)
	if err != nil {
		return nil, err
	}
	return insts.Build(insts.OpcodeLoadOffset, uint8(p), rb, rd, 0), nil
}

// store handles both st forms.
func (asm *Assembler) store(src, dst string) (*insts.Instruction, error) {
	rs, err := parseReg(src)
	if err != nil {
		return nil, err
	}

	if rb, ri, err := asm.indexed(dst); err == nil {
		return insts.Build(insts.OpcodeStoreIndexed, rs, rb, ri, 0), nil
	} else if err != ErrOperandInvalid {
		return nil, err
	}

	p, rb, err := asm.baseOffset(dst, 4, 15)
	if err != nil {
		return nil, err
	}
	return insts.Build(insts.OpcodeStoreOffset, rs, uint8(p), rb, 0), nil
}

// indexed parses `(rb, ri, 4)`. It returns ErrOperandInvalid when op has a
// different shape.
func (asm *Assembler) indexed(op string) (rb, ri uint8, err error) {
	m := reIndexed.FindStringSubmatch(op)
	if m == nil {
		err = ErrOperandInvalid
		return
	}
	if rb, err = parseReg(m[1]); err != nil {
		return
	}
	if ri, err = parseReg(m[2]); err != nil {
		return
	}
	scale, err := asm.eval(m[3])
	if err != nil {
		return
	}
	if scale != 4 {
		err = ErrIndexScaleInvalid
	}
	return
}

// baseOffset parses `o(rb)` and returns o/scale.
func (asm *Assembler) baseOffset(op string, scale, maxField int64) (field int64, rb uint8, err error) {
	m := reBaseOff.FindStringSubmatch(op)
	if m == nil {
		err = ErrOperandInvalid
		return
	}
	if rb, err = parseReg(m[2]); err != nil {
		return
	}
	expr := strings.TrimSpace(m[1])
	if len(expr) == 0 {
		return
	}
	field, err = asm.evalScaled(expr, scale, maxField)
	return
}

func (asm *Assembler) shift(mnemonic, amount, reg string) (*insts.Instruction, error) {
	expr, err := immediate(amount)
	if err != nil {
		return nil, err
	}
	rd, err := parseReg(reg)
	if err != nil {
		return nil, err
	}

	if mnemonic == "shl" {
		n, err := asm.evalRange(expr, 0, 127)
		if err != nil {
			return nil, err
		}
		return insts.BuildImm8(insts.OpcodeShift, rd, int8(n)), nil
	}

	n, err := asm.evalRange(expr, 0, 128)
	if err != nil {
		return nil, err
	}
	return insts.BuildImm8(insts.OpcodeShift, rd, int8(-n)), nil
}

func (asm *Assembler) jump(target string) (*insts.Instruction, error) {
	if strings.Contains(target, "(") {
		half, rb, err := asm.baseOffset(target, 2, 255)
		if err != nil {
			return nil, err
		}
		return insts.Build(insts.OpcodeJumpIndirect, rb, uint8(half>>4), uint8(half&0xf), 0), nil
	}

	v, err := asm.evalRange(target, 0, 1<<32-1)
	if err != nil {
		return nil, err
	}
	return insts.Build(insts.OpcodeJump, 0, 0, 0, uint32(v)), nil
}

// displacement converts a branch target into the signed instruction count
// relative to the address after the branch.
func (asm *Assembler) displacement(st *statement, target string) (int8, error) {
	v, err := asm.evalRange(target, 0, 1<<32-1)
	if err != nil {
		return 0, err
	}

	diff := v - int64(st.address) - int64(st.size)
	if diff%2 != 0 {
		return 0, ErrValueMisaligned
	}
	if diff/2 < -128 || diff/2 > 127 {
		return 0, ErrBranchRange
	}
	return int8(diff / 2), nil
}
