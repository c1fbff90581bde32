// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements decoding of RV32I machine code into structured
// instruction representations. It supports the base integer instruction
// classes in their standard encodings:
//   - U-type: LUI, AUIPC
//   - J-type: JAL
//   - I-type: JALR, loads, ALU immediate operations
//   - B-type: conditional branches
//   - S-type: stores
//   - R-type: register-register ALU operations
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x00A00093) // ADDI x1, x0, 10
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
//
// An opcode/funct combination with no supported instruction class yields a
// *DecodeError rather than a silently-unknown instruction.
package insts
