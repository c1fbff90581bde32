// Package insts provides RV32I instruction definitions and decoding.
package insts

import "fmt"

// Op represents an RV32I opcode.
type Op uint8

// RV32I opcodes.
const (
	OpUnknown Op = iota

	// U-type
	OpLUI
	OpAUIPC

	// J-type
	OpJAL

	// I-type jumps
	OpJALR

	// B-type branches
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	// I-type loads
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU

	// S-type stores
	OpSB
	OpSH
	OpSW

	// I-type ALU
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	// R-type ALU
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
)

// Format represents an RV32I instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR // register-register ALU
	FormatI // immediate ALU, loads, JALR
	FormatS // stores
	FormatB // conditional branches
	FormatU // LUI, AUIPC
	FormatJ // JAL
)

// Instruction represents a decoded RV32I instruction. Only the fields the
// format defines are populated; the rest stay zero.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Encoding format

	Rd  uint8 // Destination register
	Rs1 uint8 // First source register
	Rs2 uint8 // Second source register

	// Imm is the sign-extended immediate. For shifts it holds the 5-bit
	// shift amount; for U-type it holds the already-shifted upper 20 bits.
	Imm int32
}

// IsLoad reports whether the instruction reads memory.
func (i *Instruction) IsLoad() bool {
	switch i.Op {
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		return true
	}
	return false
}

// IsStore reports whether the instruction writes memory.
func (i *Instruction) IsStore() bool {
	switch i.Op {
	case OpSB, OpSH, OpSW:
		return true
	}
	return false
}

// IsBranch reports whether the instruction is a conditional branch.
func (i *Instruction) IsBranch() bool {
	return i.Format == FormatB
}

// WritesRd reports whether the instruction class defines a destination
// register. Branches and stores do not retire a register write.
func (i *Instruction) WritesRd() bool {
	switch i.Format {
	case FormatS, FormatB:
		return false
	}
	return true
}

// DecodeError reports an instruction word with no supported class.
type DecodeError struct {
	Word uint32 // the undecodable instruction word
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("no instruction class for word 0x%08X", e.Word)
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Field extraction helpers. RV32I keeps register fields at fixed positions
// across formats; only the immediates are scattered.

func rdField(word uint32) uint8  { return uint8((word >> 7) & 0x1F) }
func rs1Field(word uint32) uint8 { return uint8((word >> 15) & 0x1F) }
func rs2Field(word uint32) uint8 { return uint8((word >> 20) & 0x1F) }
func funct3(word uint32) uint32  { return (word >> 12) & 0x7 }
func funct7(word uint32) uint32  { return (word >> 25) & 0x7F }

// immI extracts the sign-extended I-type immediate, bits [31:20].
func immI(word uint32) int32 {
	return int32(word) >> 20
}

// immS extracts the sign-extended S-type immediate, bits [31:25|11:7].
func immS(word uint32) int32 {
	return (int32(word) >> 20 & ^int32(0x1F)) | int32((word>>7)&0x1F)
}

// immB extracts the sign-extended B-type immediate,
// bits [31|7|30:25|11:8] scaled by 2.
func immB(word uint32) int32 {
	imm := (int32(word) >> 19 & ^int32(0xFFF)) | // bit 31 -> imm[12]
		int32((word>>7)&0x1)<<11 | // bit 7 -> imm[11]
		int32((word>>25)&0x3F)<<5 | // bits 30:25 -> imm[10:5]
		int32((word>>8)&0xF)<<1 // bits 11:8 -> imm[4:1]
	return imm
}

// immU extracts the U-type immediate, bits [31:12] already in place.
func immU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// immJ extracts the sign-extended J-type immediate,
// bits [31|19:12|20|30:21] scaled by 2.
func immJ(word uint32) int32 {
	imm := (int32(word) >> 11 & ^int32(0xFFFFF)) | // bit 31 -> imm[20]
		int32(word&0xFF000) | // bits 19:12 -> imm[19:12]
		int32((word>>20)&0x1)<<11 | // bit 20 -> imm[11]
		int32((word>>21)&0x3FF)<<1 // bits 30:21 -> imm[10:1]
	return imm
}

// Decode decodes a 32-bit RV32I instruction word. Unsupported encodings
// return a *DecodeError.
func (d *Decoder) Decode(word uint32) (*Instruction, error) {
	opcode := word & 0x7F

	switch opcode {
	case 0x37:
		return &Instruction{Op: OpLUI, Format: FormatU, Rd: rdField(word), Imm: immU(word)}, nil
	case 0x17:
		return &Instruction{Op: OpAUIPC, Format: FormatU, Rd: rdField(word), Imm: immU(word)}, nil
	case 0x6F:
		return &Instruction{Op: OpJAL, Format: FormatJ, Rd: rdField(word), Imm: immJ(word)}, nil
	case 0x67:
		return d.decodeJALR(word)
	case 0x63:
		return d.decodeBranch(word)
	case 0x03:
		return d.decodeLoad(word)
	case 0x23:
		return d.decodeStore(word)
	case 0x13:
		return d.decodeOpImm(word)
	case 0x33:
		return d.decodeOp(word)
	default:
		return nil, &DecodeError{Word: word}
	}
}

// decodeJALR decodes the JALR instruction. funct3 must be 0.
func (d *Decoder) decodeJALR(word uint32) (*Instruction, error) {
	if funct3(word) != 0 {
		return nil, &DecodeError{Word: word}
	}
	return &Instruction{
		Op:     OpJALR,
		Format: FormatI,
		Rd:     rdField(word),
		Rs1:    rs1Field(word),
		Imm:    immI(word),
	}, nil
}

// decodeBranch decodes B-type conditional branches.
func (d *Decoder) decodeBranch(word uint32) (*Instruction, error) {
	var op Op
	switch funct3(word) {
	case 0x0:
		op = OpBEQ
	case 0x1:
		op = OpBNE
	case 0x4:
		op = OpBLT
	case 0x5:
		op = OpBGE
	case 0x6:
		op = OpBLTU
	case 0x7:
		op = OpBGEU
	default:
		return nil, &DecodeError{Word: word}
	}
	return &Instruction{
		Op:     op,
		Format: FormatB,
		Rs1:    rs1Field(word),
		Rs2:    rs2Field(word),
		Imm:    immB(word),
	}, nil
}

// decodeLoad decodes I-type load instructions.
func (d *Decoder) decodeLoad(word uint32) (*Instruction, error) {
	var op Op
	switch funct3(word) {
	case 0x0:
		op = OpLB
	case 0x1:
		op = OpLH
	case 0x2:
		op = OpLW
	case 0x4:
		op = OpLBU
	case 0x5:
		op = OpLHU
	default:
		return nil, &DecodeError{Word: word}
	}
	return &Instruction{
		Op:     op,
		Format: FormatI,
		Rd:     rdField(word),
		Rs1:    rs1Field(word),
		Imm:    immI(word),
	}, nil
}

// decodeStore decodes S-type store instructions.
func (d *Decoder) decodeStore(word uint32) (*Instruction, error) {
	var op Op
	switch funct3(word) {
	case 0x0:
		op = OpSB
	case 0x1:
		op = OpSH
	case 0x2:
		op = OpSW
	default:
		return nil, &DecodeError{Word: word}
	}
	return &Instruction{
		Op:     op,
		Format: FormatS,
		Rs1:    rs1Field(word),
		Rs2:    rs2Field(word),
		Imm:    immS(word),
	}, nil
}

// decodeOpImm decodes I-type ALU instructions. Shift encodings reuse the
// rs2 field as the shift amount and discriminate on funct7.
func (d *Decoder) decodeOpImm(word uint32) (*Instruction, error) {
	inst := &Instruction{
		Format: FormatI,
		Rd:     rdField(word),
		Rs1:    rs1Field(word),
		Imm:    immI(word),
	}

	switch funct3(word) {
	case 0x0:
		inst.Op = OpADDI
	case 0x2:
		inst.Op = OpSLTI
	case 0x3:
		inst.Op = OpSLTIU
	case 0x4:
		inst.Op = OpXORI
	case 0x6:
		inst.Op = OpORI
	case 0x7:
		inst.Op = OpANDI
	case 0x1:
		if funct7(word) != 0x00 {
			return nil, &DecodeError{Word: word}
		}
		inst.Op = OpSLLI
		inst.Imm = int32(rs2Field(word))
	case 0x5:
		switch funct7(word) {
		case 0x00:
			inst.Op = OpSRLI
		case 0x20:
			inst.Op = OpSRAI
		default:
			return nil, &DecodeError{Word: word}
		}
		inst.Imm = int32(rs2Field(word))
	default:
		return nil, &DecodeError{Word: word}
	}

	return inst, nil
}

// decodeOp decodes R-type ALU instructions on funct3/funct7.
func (d *Decoder) decodeOp(word uint32) (*Instruction, error) {
	inst := &Instruction{
		Format: FormatR,
		Rd:     rdField(word),
		Rs1:    rs1Field(word),
		Rs2:    rs2Field(word),
	}

	f3 := funct3(word)
	f7 := funct7(word)

	switch {
	case f3 == 0x0 && f7 == 0x00:
		inst.Op = OpADD
	case f3 == 0x0 && f7 == 0x20:
		inst.Op = OpSUB
	case f3 == 0x1 && f7 == 0x00:
		inst.Op = OpSLL
	case f3 == 0x2 && f7 == 0x00:
		inst.Op = OpSLT
	case f3 == 0x3 && f7 == 0x00:
		inst.Op = OpSLTU
	case f3 == 0x4 && f7 == 0x00:
		inst.Op = OpXOR
	case f3 == 0x5 && f7 == 0x00:
		inst.Op = OpSRL
	case f3 == 0x5 && f7 == 0x20:
		inst.Op = OpSRA
	case f3 == 0x6 && f7 == 0x00:
		inst.Op = OpOR
	case f3 == 0x7 && f7 == 0x00:
		inst.Op = OpAND
	default:
		return nil, &DecodeError{Word: word}
	}

	return inst, nil
}
