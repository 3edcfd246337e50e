package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sm213/emu"
	"github.com/sarchlab/sm213/insts"
)

var _ = Describe("Branches and jumps", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		regFile.PC = 0x1000 // post-fetch PC
		memory = emu.NewMemory(16)
	})

	Describe("br", func() {
		It("should branch forward", func() {
			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranch, 0, 4))

			Expect(regFile.PC).To(Equal(uint32(0x1008)))
		})

		It("should branch backward with pp = 0xfe", func() {
			execute(regFile, memory, insts.Build(insts.OpcodeBranch, 0, 0xf, 0xe, 0))

			Expect(regFile.PC).To(Equal(uint32(0x0ffc)))
		})

		It("should reach the extremes of the displacement", func() {
			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranch, 0, -128))
			Expect(regFile.PC).To(Equal(uint32(0x1000 - 256)))

			regFile.PC = 0x1000
			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranch, 0, 127))
			Expect(regFile.PC).To(Equal(uint32(0x1000 + 254)))
		})
	})

	Describe("beq", func() {
		It("should branch when the register is zero", func() {
			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranchZero, 1, 3))

			Expect(regFile.PC).To(Equal(uint32(0x1006)))
		})

		It("should fall through otherwise", func() {
			regFile.R[1] = -1

			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranchZero, 1, 3))

			Expect(regFile.PC).To(Equal(uint32(0x1000)))
		})
	})

	Describe("bgt", func() {
		It("should branch when the register is positive", func() {
			regFile.R[2] = 1

			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranchGT, 2, -1))

			Expect(regFile.PC).To(Equal(uint32(0x0ffe)))
		})

		It("should treat negative values as not greater", func() {
			regFile.R[2] = -0x80000000

			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranchGT, 2, -1))

			Expect(regFile.PC).To(Equal(uint32(0x1000)))
		})

		It("should fall through on zero", func() {
			execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranchGT, 2, 5))

			Expect(regFile.PC).To(Equal(uint32(0x1000)))
		})

		It("should fault on an invalid test register", func() {
			result := execute(regFile, memory, insts.BuildImm8(insts.OpcodeBranchGT, 12, 5))

			Expect(result.Err).To(MatchError(emu.ErrInvalidRegister))
			Expect(regFile.PC).To(Equal(uint32(0x1000)))
		})
	})

	Describe("j", func() {
		It("should jump to the extension word", func() {
			execute(regFile, memory, insts.Build(insts.OpcodeJump, 0, 0, 0, 0x2468))

			Expect(regFile.PC).To(Equal(uint32(0x2468)))
		})

		It("should jump to a register plus an unsigned offset", func() {
			regFile.R[4] = 0x300

			// j 510(r4)
			execute(regFile, memory, insts.Build(insts.OpcodeJumpIndirect, 4, 0xf, 0xf, 0))

			Expect(regFile.PC).To(Equal(uint32(0x300 + 510)))
		})
	})
})
