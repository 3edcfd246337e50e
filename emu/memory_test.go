package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sm213/emu"
)

var _ = Describe("Memory", func() {
	var (
		memory *emu.Memory

		b0 = byte(0x00)
		b1 = byte(0x01)
		b2 = byte(0x7f)
		b3 = byte(0x80)
		b4 = byte(0xfe)
		bf = byte(0xff)
	)

	BeforeEach(func() {
		memory = emu.NewMemory(5)
	})

	Describe("NewMemory", func() {
		It("should report its capacity", func() {
			Expect(memory.Capacity()).To(Equal(5))
		})

		It("should start zeroed", func() {
			data, err := memory.Read(0, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte{0, 0, 0, 0, 0}))
		})

		It("should clamp a negative capacity to zero", func() {
			Expect(emu.NewMemory(-4).Capacity()).To(Equal(0))
		})
	})

	Describe("IsAligned", func() {
		It("should accept multiples of the length", func() {
			Expect(memory.IsAligned(4, 2)).To(BeTrue())
			Expect(memory.IsAligned(4, 1)).To(BeTrue())
			Expect(memory.IsAligned(4, 4)).To(BeTrue())
			Expect(memory.IsAligned(2, 2)).To(BeTrue())
			Expect(memory.IsAligned(0, 4)).To(BeTrue())
		})

		It("should reject remainders", func() {
			Expect(memory.IsAligned(3, 2)).To(BeFalse())
			Expect(memory.IsAligned(2, 4)).To(BeFalse())
		})

		It("should never treat a zero length as aligned", func() {
			Expect(memory.IsAligned(4, 0)).To(BeFalse())
		})
	})

	Describe("BytesToInt32", func() {
		DescribeTable("should compose big-endian values",
			func(a, b, c, d byte, want int32) {
				Expect(emu.BytesToInt32(a, b, c, d)).To(Equal(want))
			},
			Entry("positive", b1, b2, b3, b4, int32(25133310)),
			Entry("negative", b4, b3, b1, b2, int32(-25165441)),
			Entry("all ones", bf, bf, bf, bf, int32(-1)),
			Entry("zero", b0, b0, b0, b0, int32(0)),
			Entry("one", b0, b0, b0, b1, int32(1)),
			Entry("leading 0xff", bf, b4, b3, b2, int32(-98177)),
			Entry("leading 0x7f", b2, b4, b1, b3, int32(2147352960)),
			Entry("max", b2, bf, bf, bf, int32(2147483647)),
			Entry("min", b3, b0, b0, b0, int32(-2147483648)),
		)

		It("should give the unsigned view of the same bits", func() {
			Expect(emu.BytesToUint32(bf, bf, bf, bf)).To(Equal(uint32(0xffffffff)))
		})
	})

	Describe("Int32ToBytes", func() {
		DescribeTable("should split values big-endian",
			func(v int32, want [4]byte) {
				Expect(emu.Int32ToBytes(v)).To(Equal(want))
			},
			Entry("65535", int32(65535), [4]byte{b0, b0, bf, bf}),
			Entry("-65536", int32(-65536), [4]byte{bf, bf, b0, b0}),
			Entry("positive", int32(25133310), [4]byte{b1, b2, b3, b4}),
			Entry("negative", int32(-25165441), [4]byte{b4, b3, b1, b2}),
			Entry("all ones", int32(-1), [4]byte{bf, bf, bf, bf}),
			Entry("zero", int32(0), [4]byte{b0, b0, b0, b0}),
			Entry("one", int32(1), [4]byte{b0, b0, b0, b1}),
			Entry("max", int32(2147483647), [4]byte{b2, bf, bf, bf}),
			Entry("min", int32(-2147483648), [4]byte{b3, b0, b0, b0}),
		)
	})

	Describe("Read and Write", func() {
		It("should read back what was written", func() {
			Expect(memory.Write(0, []byte{b1, b2, b3, b4})).To(Succeed())
			Expect(memory.Read(0, 4)).To(Equal([]byte{b1, b2, b3, b4}))

			Expect(memory.Write(4, []byte{b0})).To(Succeed())
			Expect(memory.Read(4, 1)).To(Equal([]byte{b0}))

			Expect(memory.Read(0, 5)).To(Equal([]byte{b1, b2, b3, b4, b0}))
		})

		It("should overwrite earlier values", func() {
			Expect(memory.Write(0, []byte{b1, b2, b3})).To(Succeed())
			Expect(memory.Write(0, []byte{b4, b0, bf})).To(Succeed())

			Expect(memory.Read(0, 3)).To(Equal([]byte{b4, b0, bf}))
		})

		It("should return a copy", func() {
			data, err := memory.Read(0, 2)
			Expect(err).NotTo(HaveOccurred())
			data[0] = 0xaa

			Expect(memory.Read(0, 2)).To(Equal([]byte{0, 0}))
		})

		It("should allow empty accesses at the end", func() {
			Expect(memory.Read(5, 0)).To(BeEmpty())
			Expect(memory.Write(5, nil)).To(Succeed())
		})

		DescribeTable("should reject out of range writes without modifying memory",
			func(address int, data []byte) {
				Expect(memory.Write(0, []byte{1, 2, 3, 4, 5})).To(Succeed())

				err := memory.Write(address, data)
				Expect(err).To(MatchError(emu.ErrInvalidAddress))

				Expect(memory.Read(0, 5)).To(Equal([]byte{1, 2, 3, 4, 5}))
			},
			Entry("too long", 0, []byte{b1, b2, b3, b1, b2, b3}),
			Entry("past the end", 9, []byte{b1}),
			Entry("straddling the end", 4, []byte{b4, b1}),
			Entry("negative address", -1, []byte{b1, b2}),
		)

		DescribeTable("should reject out of range reads",
			func(address, length int) {
				data, err := memory.Read(address, length)
				Expect(err).To(MatchError(emu.ErrInvalidAddress))
				Expect(data).To(BeNil())
			},
			Entry("too long", 0, 6),
			Entry("past the end", 7, 1),
			Entry("straddling the end", 4, 2),
			Entry("negative address", -2, 1),
			Entry("negative length", 0, -1),
		)

		It("should describe the failing access", func() {
			_, err := memory.Read(4, 2)

			var addrErr *emu.InvalidAddressError
			Expect(err).To(BeAssignableToTypeOf(addrErr))
			addrErr = err.(*emu.InvalidAddressError)
			Expect(addrErr.Address).To(Equal(4))
			Expect(addrErr.Length).To(Equal(2))
			Expect(addrErr.Capacity).To(Equal(5))
		})
	})

	Describe("word access", func() {
		BeforeEach(func() {
			memory = emu.NewMemory(16)
		})

		It("should round trip aligned words", func() {
			Expect(memory.WriteInt32(4, -2)).To(Succeed())
			Expect(memory.ReadInt32(4)).To(Equal(int32(-2)))
			Expect(memory.Read(4, 4)).To(Equal([]byte{0xff, 0xff, 0xff, 0xfe}))
		})

		It("should allow unaligned words", func() {
			Expect(memory.WriteInt32(5, 0x01020304)).To(Succeed())
			Expect(memory.ReadUint32(5)).To(Equal(uint32(0x01020304)))
		})

		It("should fault words crossing the end", func() {
			Expect(memory.WriteInt32(13, 1)).To(MatchError(emu.ErrInvalidAddress))
			_, err := memory.ReadInt32(13)
			Expect(err).To(MatchError(emu.ErrInvalidAddress))
		})

		It("should access single bytes", func() {
			Expect(memory.Write8(15, 0x42)).To(Succeed())
			Expect(memory.Read8(15)).To(Equal(byte(0x42)))
			_, err := memory.Read8(16)
			Expect(err).To(MatchError(emu.ErrInvalidAddress))
		})
	})

	Describe("LoadImage", func() {
		It("should place the image at the address", func() {
			memory = emu.NewMemory(8)
			Expect(memory.LoadImage(2, []byte{0xf0, 0x00})).To(Succeed())
			Expect(memory.Bytes()).To(Equal([]byte{0, 0, 0xf0, 0, 0, 0, 0, 0}))
		})

		It("should refuse images that do not fit", func() {
			Expect(memory.LoadImage(4, []byte{1, 2})).To(MatchError(emu.ErrInvalidAddress))
		})
	})
})
