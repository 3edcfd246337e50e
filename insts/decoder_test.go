package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sm213/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("field extraction", func() {
		// 1 2 3 4 -> ld 8(r3), r4 with op0 = 2
		It("should split both bytes into nibbles", func() {
			inst := decoder.Decode(0x12, 0x34, 0)

			Expect(inst.Opcode).To(Equal(insts.OpcodeLoadOffset))
			Expect(inst.Op0).To(Equal(uint8(2)))
			Expect(inst.Op1).To(Equal(uint8(3)))
			Expect(inst.Op2).To(Equal(uint8(4)))
			Expect(inst.Imm).To(Equal(int8(0x34)))
			Expect(inst.Op).To(Equal(insts.OpLoadOffset))
		})

		It("should reinterpret the second byte as signed", func() {
			inst := decoder.Decode(0x70, 0xfd, 0)

			Expect(inst.Op).To(Equal(insts.OpShift))
			Expect(inst.Imm).To(Equal(int8(-3)))
		})
	})

	Describe("extension words", func() {
		It("should keep the extension for load immediate", func() {
			inst := decoder.Decode(0x03, 0x00, 0x12345678)

			Expect(inst.Op).To(Equal(insts.OpLoadImm))
			Expect(inst.HasExt).To(BeTrue())
			Expect(inst.Ext).To(Equal(uint32(0x12345678)))
			Expect(inst.Size()).To(Equal(6))
			Expect(inst.Raw).To(Equal(uint64(0x030012345678)))
		})

		It("should keep the extension for jump absolute", func() {
			inst := decoder.Decode(0xb0, 0x00, 0x1000)

			Expect(inst.Op).To(Equal(insts.OpJump))
			Expect(inst.Ext).To(Equal(uint32(0x1000)))
			Expect(inst.Size()).To(Equal(6))
		})

		It("should drop the extension for two byte instructions", func() {
			inst := decoder.Decode(0x63, 0x01, 0xdeadbeef)

			Expect(inst.HasExt).To(BeFalse())
			Expect(inst.Ext).To(BeZero())
			Expect(inst.Size()).To(Equal(2))
			Expect(inst.Raw).To(Equal(uint64(0x630100000000)))
		})

		It("should only flag opcodes 0x0 and 0xb", func() {
			for op := insts.Opcode(0); op < 16; op++ {
				want := op == insts.OpcodeLoadImm || op == insts.OpcodeJump
				Expect(insts.HasExtension(op)).To(Equal(want), "opcode %x", op)
			}
		})
	})

	Describe("ALU group", func() {
		DescribeTable("should decode the function in op0",
			func(b0 byte, want insts.Op) {
				Expect(decoder.Decode(b0, 0x12, 0).Op).To(Equal(want))
			},
			Entry("mov", byte(0x60), insts.OpMov),
			Entry("add", byte(0x61), insts.OpAdd),
			Entry("and", byte(0x62), insts.OpAnd),
			Entry("inc", byte(0x63), insts.OpInc),
			Entry("inca", byte(0x64), insts.OpIncA),
			Entry("dec", byte(0x65), insts.OpDec),
			Entry("deca", byte(0x66), insts.OpDecA),
			Entry("not", byte(0x67), insts.OpNot),
			Entry("gpc", byte(0x6f), insts.OpGPC),
			Entry("undefined 0x8", byte(0x68), insts.OpUnknown),
			Entry("undefined 0xe", byte(0x6e), insts.OpUnknown),
		)
	})

	Describe("halt group", func() {
		It("should decode f0 as halt", func() {
			Expect(decoder.Decode(0xf0, 0x00, 0).Op).To(Equal(insts.OpHalt))
		})

		It("should decode ff as nop", func() {
			Expect(decoder.Decode(0xff, 0x00, 0).Op).To(Equal(insts.OpNop))
		})

		It("should decode any other op0 as nop", func() {
			Expect(decoder.Decode(0xf3, 0x00, 0).Op).To(Equal(insts.OpNop))
		})
	})

	Describe("undefined opcodes", func() {
		It("should mark 0x5, 0xd and 0xe unknown", func() {
			Expect(decoder.Decode(0x50, 0x00, 0).Op).To(Equal(insts.OpUnknown))
			Expect(decoder.Decode(0xd0, 0x00, 0).Op).To(Equal(insts.OpUnknown))
			Expect(decoder.Decode(0xe0, 0x00, 0).Op).To(Equal(insts.OpUnknown))
		})
	})

	Describe("displacements", func() {
		It("should sign extend pp = 0xfe to -4 bytes", func() {
			inst := decoder.Decode(0x80, 0xfe, 0)

			Expect(inst.Disp8()).To(Equal(int32(-2)))
			Expect(inst.Displacement()).To(Equal(int32(-4)))
		})

		It("should scale positive displacements", func() {
			inst := decoder.Decode(0x91, 0x7f, 0)

			Expect(inst.Displacement()).To(Equal(int32(254)))
		})

		It("should treat the jump indirect offset as unsigned", func() {
			inst := decoder.Decode(0xc2, 0xff, 0)

			Expect(inst.IndirectOffset()).To(Equal(int32(510)))
		})
	})

	Describe("DecodeBytes", func() {
		It("should decode a six byte instruction", func() {
			inst := decoder.DecodeBytes([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x0a})

			Expect(inst).NotTo(BeNil())
			Expect(inst.Op).To(Equal(insts.OpLoadImm))
			Expect(inst.Ext).To(Equal(uint32(10)))
		})

		It("should reject truncated input", func() {
			Expect(decoder.DecodeBytes([]byte{0x63})).To(BeNil())
			Expect(decoder.DecodeBytes([]byte{0xb0, 0x00, 0x00})).To(BeNil())
		})
	})
})
