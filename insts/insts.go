// Package insts provides SM213 instruction definitions, decoding and encoding.
//
// SM213 instructions are big-endian and either 2 or 6 bytes long. The first
// byte holds the opcode (high nibble) and op0 (low nibble), the second byte
// holds op1 and op2. Opcodes 0x0 (load immediate) and 0xb (jump absolute) are
// followed by a 32-bit extension word.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x63, 0x00, 0) // inc r0
//	fmt.Println(inst.Disassemble(0x100))
package insts
