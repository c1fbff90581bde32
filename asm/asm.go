// Package asm encodes RV32I instructions into 32-bit machine-code words.
// It is the external collaborator of the simulator core: the machine only
// ever consumes pre-encoded words, produced here by the per-mnemonic
// constructors or assembled into an image by Program.
//
// There is no text parsing; programs are built in Go:
//
//	p := asm.NewProgram()
//	p.Add(asm.ADDI(1, 0, 10))
//	p.Add(asm.SW(0, 1, 0x100))
//	p.Halt()
//	words := p.Words()
package asm

// Base field packers for the six RV32I formats.

func encodeR(opcode, funct3, funct7 uint32, rd, rs1, rs2 uint8) uint32 {
	return funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}

func encodeI(opcode, funct3 uint32, rd, rs1 uint8, imm int32) uint32 {
	return uint32(imm)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}

func encodeS(opcode, funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7F)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | (u&0x1F)<<7 | opcode
}

func encodeB(opcode, funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>12&0x1)<<31 | (u>>5&0x3F)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 |
		funct3<<12 | (u>>1&0xF)<<8 | (u>>11&0x1)<<7 | opcode
}

func encodeU(opcode uint32, rd uint8, imm uint32) uint32 {
	return imm&0xFFFFF000 | uint32(rd)<<7 | opcode
}

func encodeJ(opcode uint32, rd uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>20&0x1)<<31 | (u>>1&0x3FF)<<21 | (u>>11&0x1)<<20 |
		(u>>12&0xFF)<<12 | uint32(rd)<<7 | opcode
}

// U-type.

// LUI encodes LUI rd, imm. The low 12 bits of imm are discarded.
func LUI(rd uint8, imm uint32) uint32 { return encodeU(0x37, rd, imm) }

// AUIPC encodes AUIPC rd, imm. The low 12 bits of imm are discarded.
func AUIPC(rd uint8, imm uint32) uint32 { return encodeU(0x17, rd, imm) }

// Jumps.

// JAL encodes JAL rd, offset (byte offset relative to the instruction).
func JAL(rd uint8, offset int32) uint32 { return encodeJ(0x6F, rd, offset) }

// JALR encodes JALR rd, rs1, imm.
func JALR(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x67, 0x0, rd, rs1, imm) }

// B-type branches; offsets are byte offsets relative to the branch.

// BEQ encodes BEQ rs1, rs2, offset.
func BEQ(rs1, rs2 uint8, offset int32) uint32 { return encodeB(0x63, 0x0, rs1, rs2, offset) }

// BNE encodes BNE rs1, rs2, offset.
func BNE(rs1, rs2 uint8, offset int32) uint32 { return encodeB(0x63, 0x1, rs1, rs2, offset) }

// BLT encodes BLT rs1, rs2, offset.
func BLT(rs1, rs2 uint8, offset int32) uint32 { return encodeB(0x63, 0x4, rs1, rs2, offset) }

// BGE encodes BGE rs1, rs2, offset.
func BGE(rs1, rs2 uint8, offset int32) uint32 { return encodeB(0x63, 0x5, rs1, rs2, offset) }

// BLTU encodes BLTU rs1, rs2, offset.
func BLTU(rs1, rs2 uint8, offset int32) uint32 { return encodeB(0x63, 0x6, rs1, rs2, offset) }

// BGEU encodes BGEU rs1, rs2, offset.
func BGEU(rs1, rs2 uint8, offset int32) uint32 { return encodeB(0x63, 0x7, rs1, rs2, offset) }

// Loads.

// LB encodes LB rd, imm(rs1).
func LB(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x03, 0x0, rd, rs1, imm) }

// LH encodes LH rd, imm(rs1).
func LH(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x03, 0x1, rd, rs1, imm) }

// LW encodes LW rd, imm(rs1).
func LW(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x03, 0x2, rd, rs1, imm) }

// LBU encodes LBU rd, imm(rs1).
func LBU(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x03, 0x4, rd, rs1, imm) }

// LHU encodes LHU rd, imm(rs1).
func LHU(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x03, 0x5, rd, rs1, imm) }

// Stores.

// SB encodes SB rs2, imm(rs1).
func SB(rs1, rs2 uint8, imm int32) uint32 { return encodeS(0x23, 0x0, rs1, rs2, imm) }

// SH encodes SH rs2, imm(rs1).
func SH(rs1, rs2 uint8, imm int32) uint32 { return encodeS(0x23, 0x1, rs1, rs2, imm) }

// SW encodes SW rs2, imm(rs1).
func SW(rs1, rs2 uint8, imm int32) uint32 { return encodeS(0x23, 0x2, rs1, rs2, imm) }

// ALU immediate.

// ADDI encodes ADDI rd, rs1, imm.
func ADDI(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x13, 0x0, rd, rs1, imm) }

// SLTI encodes SLTI rd, rs1, imm.
func SLTI(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x13, 0x2, rd, rs1, imm) }

// SLTIU encodes SLTIU rd, rs1, imm.
func SLTIU(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x13, 0x3, rd, rs1, imm) }

// XORI encodes XORI rd, rs1, imm.
func XORI(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x13, 0x4, rd, rs1, imm) }

// ORI encodes ORI rd, rs1, imm.
func ORI(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x13, 0x6, rd, rs1, imm) }

// ANDI encodes ANDI rd, rs1, imm.
func ANDI(rd, rs1 uint8, imm int32) uint32 { return encodeI(0x13, 0x7, rd, rs1, imm) }

// SLLI encodes SLLI rd, rs1, shamt.
func SLLI(rd, rs1, shamt uint8) uint32 { return encodeR(0x13, 0x1, 0x00, rd, rs1, shamt) }

// SRLI encodes SRLI rd, rs1, shamt.
func SRLI(rd, rs1, shamt uint8) uint32 { return encodeR(0x13, 0x5, 0x00, rd, rs1, shamt) }

// SRAI encodes SRAI rd, rs1, shamt.
func SRAI(rd, rs1, shamt uint8) uint32 { return encodeR(0x13, 0x5, 0x20, rd, rs1, shamt) }

// ALU register-register.

// ADD encodes ADD rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x0, 0x00, rd, rs1, rs2) }

// SUB encodes SUB rd, rs1, rs2.
func SUB(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x0, 0x20, rd, rs1, rs2) }

// SLL encodes SLL rd, rs1, rs2.
func SLL(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x1, 0x00, rd, rs1, rs2) }

// SLT encodes SLT rd, rs1, rs2.
func SLT(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x2, 0x00, rd, rs1, rs2) }

// SLTU encodes SLTU rd, rs1, rs2.
func SLTU(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x3, 0x00, rd, rs1, rs2) }

// XOR encodes XOR rd, rs1, rs2.
func XOR(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x4, 0x00, rd, rs1, rs2) }

// SRL encodes SRL rd, rs1, rs2.
func SRL(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x5, 0x00, rd, rs1, rs2) }

// SRA encodes SRA rd, rs1, rs2.
func SRA(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x5, 0x20, rd, rs1, rs2) }

// OR encodes OR rd, rs1, rs2.
func OR(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x6, 0x00, rd, rs1, rs2) }

// AND encodes AND rd, rs1, rs2.
func AND(rd, rs1, rs2 uint8) uint32 { return encodeR(0x33, 0x7, 0x00, rd, rs1, rs2) }

// NOP encodes the canonical ADDI x0, x0, 0.
func NOP() uint32 { return ADDI(0, 0, 0) }

// Halt is the all-zero halt sentinel word.
const Halt uint32 = 0

// Program accumulates instruction words into a loadable image.
type Program struct {
	words []uint32
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{}
}

// Add appends an instruction word and returns the program for chaining.
func (p *Program) Add(words ...uint32) *Program {
	p.words = append(p.words, words...)
	return p
}

// Halt appends the halt sentinel.
func (p *Program) Halt() *Program {
	return p.Add(Halt)
}

// Len returns the number of words in the program.
func (p *Program) Len() int {
	return len(p.words)
}

// Words returns the program image.
func (p *Program) Words() []uint32 {
	return p.words
}
