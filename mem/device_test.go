package mem_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/mem"
)

func TestMem(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mem Suite")
}

var _ = Describe("Device", func() {
	var ram *mem.Device

	BeforeEach(func() {
		ram = mem.NewRAM(1024)
	})

	It("should reject capacities that are not powers of two", func() {
		Expect(func() { mem.NewRAM(1000) }).To(Panic())
		Expect(func() { mem.NewRAM(0) }).To(Panic())
	})

	Describe("word access", func() {
		It("should read back a written word", func() {
			Expect(ram.Write(0x10, 0xDEADBEEF, mem.WidthWord)).To(Succeed())

			v, err := ram.Read(0x10, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0xDEADBEEF)))
		})

		It("should fault on unaligned word access", func() {
			for _, addr := range []uint32{0x11, 0x12, 0x13} {
				_, err := ram.Read(addr, mem.WidthWord)

				var ua *mem.UnalignedError
				Expect(errors.As(err, &ua)).To(BeTrue())
				Expect(ua.Addr).To(Equal(addr))
				Expect(ua.Width).To(Equal(mem.WidthWord))
			}
		})
	})

	Describe("byte lanes", func() {
		BeforeEach(func() {
			Expect(ram.Write(0x20, 0x11223344, mem.WidthWord)).To(Succeed())
		})

		It("should map offset 0 to the most significant byte", func() {
			v, err := ram.Read(0x20, mem.WidthByte)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0x11)))
		})

		It("should map offset 3 to the least significant byte", func() {
			v, err := ram.Read(0x23, mem.WidthByte)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0x44)))
		})

		It("should write only the targeted lane", func() {
			Expect(ram.Write(0x21, 0xAB, mem.WidthByte)).To(Succeed())

			v, err := ram.Read(0x20, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0x11AB3344)))
		})

		It("should truncate a wide value to the lane width", func() {
			Expect(ram.Write(0x23, 0xFFFFFF99, mem.WidthByte)).To(Succeed())

			v, err := ram.Read(0x20, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0x11223399)))
		})
	})

	Describe("half lanes", func() {
		BeforeEach(func() {
			Expect(ram.Write(0x30, 0xAABBCCDD, mem.WidthWord)).To(Succeed())
		})

		It("should map offset 0 to the upper half", func() {
			v, err := ram.Read(0x30, mem.WidthHalf)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0xAABB)))
		})

		It("should map offset 2 to the lower half", func() {
			v, err := ram.Read(0x32, mem.WidthHalf)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0xCCDD)))
		})

		It("should write only the targeted half", func() {
			Expect(ram.Write(0x32, 0x1234, mem.WidthHalf)).To(Succeed())

			v, err := ram.Read(0x30, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0xAABB1234)))
		})

		It("should fault on odd offsets", func() {
			for _, addr := range []uint32{0x31, 0x33} {
				_, err := ram.Read(addr, mem.WidthHalf)

				var ua *mem.UnalignedError
				Expect(errors.As(err, &ua)).To(BeTrue())
				Expect(ua.Width).To(Equal(mem.WidthHalf))
			}
		})
	})

	Describe("address wrapping", func() {
		It("should mirror addresses beyond capacity", func() {
			Expect(ram.Write(0x3C, 0xCAFEBABE, mem.WidthWord)).To(Succeed())

			v, err := ram.Read(1024+0x3C, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0xCAFEBABE)))
		})
	})

	Describe("ROM", func() {
		var rom *mem.Device

		BeforeEach(func() {
			rom = mem.NewROM(1024)
		})

		It("should fill unloaded words with the reset pattern", func() {
			v, err := rom.Read(0x0, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("should silently drop writes", func() {
			Expect(rom.LoadWords([]uint32{0x12345678})).To(Succeed())

			Expect(rom.Write(0x0, 0, mem.WidthWord)).To(Succeed())

			v, err := rom.Read(0x0, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0x12345678)))
		})

		It("should still fault on unaligned writes", func() {
			err := rom.Write(0x2, 0, mem.WidthWord)

			var ua *mem.UnalignedError
			Expect(errors.As(err, &ua)).To(BeTrue())
		})

		It("should accept a program up to capacity", func() {
			words := make([]uint32, 256)
			Expect(rom.LoadWords(words)).To(Succeed())
		})

		It("should reject a program exceeding capacity", func() {
			words := make([]uint32, 257)

			err := rom.LoadWords(words)
			Expect(errors.Is(err, mem.ErrProgramTooLarge)).To(BeTrue())
		})
	})
})
