package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sm213/emu"
	"github.com/sarchlab/sm213/insts"
)

var _ = Describe("Cycle", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		cycle   *emu.Cycle
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory(32)
		cycle = emu.NewCycle(regFile, memory)
	})

	Describe("Fetch", func() {
		It("should decode a two byte instruction and advance pc by 2", func() {
			Expect(memory.Write(4, []byte{0x61, 0x23})).To(Succeed())
			regFile.PC = 4

			Expect(cycle.Fetch()).To(Succeed())

			Expect(cycle.PC).To(Equal(uint32(4)))
			Expect(cycle.Inst.Op).To(Equal(insts.OpAdd))
			Expect(cycle.Inst.Op1).To(Equal(uint8(2)))
			Expect(cycle.Inst.Op2).To(Equal(uint8(3)))
			Expect(cycle.Inst.HasExt).To(BeFalse())
			Expect(regFile.PC).To(Equal(uint32(6)))
		})

		It("should read the extension and advance pc by 6", func() {
			Expect(memory.Write(0, []byte{0x02, 0x00, 0x80, 0x00, 0x00, 0x01})).To(Succeed())

			Expect(cycle.Fetch()).To(Succeed())

			Expect(cycle.Inst.Op).To(Equal(insts.OpLoadImm))
			Expect(cycle.Inst.Ext).To(Equal(uint32(0x80000001)))
			Expect(cycle.Inst.Raw).To(Equal(uint64(0x020080000001)))
			Expect(regFile.PC).To(Equal(uint32(6)))
		})

		It("should fail when pc is outside memory", func() {
			regFile.PC = 32

			err := cycle.Fetch()

			Expect(err).To(MatchError(emu.ErrInvalidAddress))
			Expect(cycle.Inst).To(BeNil())
			Expect(regFile.PC).To(Equal(uint32(32)))
		})

		It("should fail when the head straddles the end", func() {
			regFile.PC = 31

			Expect(cycle.Fetch()).To(MatchError(emu.ErrInvalidAddress))
		})

		It("should fail on a truncated extension after advancing past the head", func() {
			Expect(memory.Write(28, []byte{0xb0, 0x00})).To(Succeed())
			regFile.PC = 28

			Expect(cycle.Fetch()).To(MatchError(emu.ErrInvalidAddress))
			Expect(regFile.PC).To(Equal(uint32(30)))
		})
	})

	Describe("Execute", func() {
		It("should halt on f0", func() {
			cycle.Inst = halt()

			result := cycle.Execute()

			Expect(result.Status).To(Equal(emu.StepHalted))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("should treat ff and other op0 values as nop", func() {
			for _, op0 := range []uint8{0xf, 0x1, 0x7} {
				regFile.PC = 10
				cycle.Inst = insts.Build(insts.OpcodeHalt, op0, 0, 0, 0)

				Expect(cycle.Execute().Status).To(Equal(emu.StepContinue))
				Expect(regFile.PC).To(Equal(uint32(10)))
			}
		})

		It("should fault on an unknown opcode without touching state", func() {
			regFile.R[0] = 5
			Expect(memory.Write(0, []byte{0x50, 0x12})).To(Succeed())
			before := memory.Bytes()
			Expect(cycle.Fetch()).To(Succeed())
			regsBefore := *regFile

			result := cycle.Execute()

			Expect(result.Status).To(Equal(emu.StepFaulted))
			Expect(result.Err).To(MatchError(emu.ErrInvalidInstruction))
			Expect(*regFile).To(Equal(regsBefore))
			Expect(memory.Bytes()).To(Equal(before))

			invalid := result.Err.(*emu.InvalidInstructionError)
			Expect(invalid.Opcode).To(Equal(uint8(5)))
			Expect(invalid.PC).To(Equal(uint32(0)))
		})

		It("should fault when nothing was fetched", func() {
			Expect(cycle.Execute().Err).To(MatchError(emu.ErrInvalidInstruction))
		})
	})

	Describe("StepStatus", func() {
		It("should name each status", func() {
			Expect(emu.StepContinue.String()).To(Equal("continue"))
			Expect(emu.StepHalted.String()).To(Equal("halted"))
			Expect(emu.StepFaulted.String()).To(Equal("faulted"))
		})
	})
})
