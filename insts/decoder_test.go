package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("U-type", func() {
		// LUI x5, 0x12345000 -> 0x123452B7
		It("should decode LUI", func() {
			inst, err := decoder.Decode(0x123452B7)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpLUI))
			Expect(inst.Format).To(Equal(insts.FormatU))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Imm).To(Equal(int32(0x12345000)))
		})

		// AUIPC x2, 0xFFFFF000 -> 0xFFFFF117
		It("should decode AUIPC with a negative upper immediate", func() {
			inst, err := decoder.Decode(0xFFFFF117)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpAUIPC))
			Expect(inst.Rd).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(int32(-4096)))
		})
	})

	Describe("Jumps", func() {
		// JAL x1, +8 -> 0x008000EF
		It("should decode JAL with a positive offset", func() {
			inst, err := decoder.Decode(0x008000EF)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.Format).To(Equal(insts.FormatJ))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Imm).To(Equal(int32(8)))
		})

		// JALR x0, x1, 0 -> 0x00008067 (RET idiom)
		It("should decode JALR", func() {
			inst, err := decoder.Decode(0x00008067)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpJALR))
			Expect(inst.Format).To(Equal(insts.FormatI))
			Expect(inst.Rd).To(Equal(uint8(0)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Imm).To(Equal(int32(0)))
		})

		It("should reject JALR with a nonzero funct3", func() {
			_, err := decoder.Decode(0x0000F067)

			var decodeErr *insts.DecodeError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
		})
	})

	Describe("Branches", func() {
		// BNE x1, x0, -4 -> 0xFE009EE3
		It("should decode BNE with a negative offset", func() {
			inst, err := decoder.Decode(0xFE009EE3)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpBNE))
			Expect(inst.Format).To(Equal(insts.FormatB))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Rs2).To(Equal(uint8(0)))
			Expect(inst.Imm).To(Equal(int32(-4)))
		})

		// BEQ x0, x0, 0 -> 0x00000063
		It("should decode BEQ", func() {
			inst, err := decoder.Decode(0x00000063)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpBEQ))
			Expect(inst.Imm).To(Equal(int32(0)))
		})

		It("should reject the unused branch funct3 encodings", func() {
			// funct3 = 0x2 is not a defined branch.
			_, err := decoder.Decode(0x00002063)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Loads and stores", func() {
		// LW x2, 4(x1) -> 0x0040A103
		It("should decode LW", func() {
			inst, err := decoder.Decode(0x0040A103)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.Rd).To(Equal(uint8(2)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Imm).To(Equal(int32(4)))
			Expect(inst.IsLoad()).To(BeTrue())
		})

		// SW x2, 8(x1) -> 0x0020A423
		It("should decode SW with the scattered S-type immediate", func() {
			inst, err := decoder.Decode(0x0020A423)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.Format).To(Equal(insts.FormatS))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Rs2).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(int32(8)))
		})

		It("should reject the unused load funct3 encodings", func() {
			// funct3 = 0x3 (LD) is not RV32I.
			_, err := decoder.Decode(0x0000B003)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ALU immediate", func() {
		// ADDI x1, x0, 10 -> 0x00A00093
		It("should decode ADDI", func() {
			inst, err := decoder.Decode(0x00A00093)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(0)))
			Expect(inst.Imm).To(Equal(int32(10)))
		})

		// ADDI x1, x1, -1 -> 0xFFF08093
		It("should sign-extend the I-type immediate", func() {
			inst, err := decoder.Decode(0xFFF08093)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Imm).To(Equal(int32(-1)))
		})

		// SRAI x1, x2, 3 -> 0x40315093
		It("should decode SRAI with the shift amount as immediate", func() {
			inst, err := decoder.Decode(0x40315093)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpSRAI))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(int32(3)))
		})

		It("should reject SLLI with a nonzero funct7", func() {
			// SLLI with funct7 = 0x20.
			_, err := decoder.Decode(0x40311093)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ALU register-register", func() {
		// ADD x3, x1, x2 -> 0x002081B3
		It("should decode ADD", func() {
			inst, err := decoder.Decode(0x002081B3)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Format).To(Equal(insts.FormatR))
			Expect(inst.Rd).To(Equal(uint8(3)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Rs2).To(Equal(uint8(2)))
		})

		// SUB x3, x1, x2 -> 0x402081B3
		It("should decode SUB on funct7", func() {
			inst, err := decoder.Decode(0x402081B3)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpSUB))
		})

		It("should reject undefined funct7 combinations", func() {
			// ADD encoding with funct7 = 0x01 (an M-extension word).
			_, err := decoder.Decode(0x022081B3)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Unsupported words", func() {
		It("should fault on the all-zero word", func() {
			_, err := decoder.Decode(0x00000000)

			var decodeErr *insts.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Word).To(Equal(uint32(0)))
		})

		It("should fault on the all-ones word", func() {
			_, err := decoder.Decode(0xFFFFFFFF)
			Expect(err).To(HaveOccurred())
		})

		It("should fault on system instructions", func() {
			// ECALL
			_, err := decoder.Decode(0x00000073)
			Expect(err).To(HaveOccurred())
		})
	})
})
