package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/mem"
)

var _ = Describe("Bus", func() {
	var bus *mem.Bus

	BeforeEach(func() {
		bus = mem.NewBus(mem.NewROM(4096), mem.NewRAM(4096))
	})

	It("should route ROM-range reads to the ROM device", func() {
		Expect(bus.ROM().LoadWords([]uint32{0x00A00093})).To(Succeed())

		v, err := bus.Read(mem.ROMBase, mem.WidthWord)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0x00A00093)))
	})

	It("should drop ROM-range writes", func() {
		Expect(bus.ROM().LoadWords([]uint32{0x00A00093})).To(Succeed())

		Expect(bus.Write(mem.ROMBase, 0, mem.WidthWord)).To(Succeed())

		v, err := bus.Read(mem.ROMBase, mem.WidthWord)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0x00A00093)))
	})

	It("should route RAM-range accesses to the RAM device", func() {
		Expect(bus.Write(mem.RAMBase+0x40, 0xCAFED00D, mem.WidthWord)).To(Succeed())

		v, err := bus.Read(mem.RAMBase+0x40, mem.WidthWord)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0xCAFED00D)))

		// The device sees only the low 28 bits of the address.
		direct, err := bus.RAM().Read(0x40, mem.WidthWord)
		Expect(err).NotTo(HaveOccurred())
		Expect(direct).To(Equal(uint32(0xCAFED00D)))
	})

	It("should decode the region from the upper address bits", func() {
		Expect(bus.Write(mem.RAMBase+0x8, 0x55, mem.WidthByte)).To(Succeed())

		// Same region offset in ROM space reads the reset pattern, not
		// the RAM value.
		v, err := bus.Read(mem.ROMBase+0x8, mem.WidthByte)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0xFF)))
	})

	Describe("open bus", func() {
		It("should read zero outside any mapped region", func() {
			v, err := bus.Read(0x00000000, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0)))

			v, err = bus.Read(0x30000000, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0)))
		})

		It("should drop writes outside any mapped region", func() {
			Expect(bus.Write(0x30000000, 0xFFFFFFFF, mem.WidthWord)).To(Succeed())

			v, err := bus.Read(0x30000000, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0)))
		})

		It("should not validate alignment on unmapped addresses", func() {
			_, err := bus.Read(0x00000001, mem.WidthWord)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("NewDefaultBus", func() {
		It("should build devices with the default capacities", func() {
			b := mem.NewDefaultBus()

			Expect(b.ROM().Capacity()).To(Equal(mem.DefaultROMCapacity))
			Expect(b.RAM().Capacity()).To(Equal(mem.DefaultRAMCapacity))
		})
	})
})
