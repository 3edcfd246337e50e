package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sm213/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	It("should name operations by mnemonic", func() {
		Expect(insts.OpInc.String()).To(Equal("inc"))
		Expect(insts.OpBranchZero.String()).To(Equal("beq"))
		Expect(insts.Op(200).String()).To(Equal("unknown"))
	})
})
