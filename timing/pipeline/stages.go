package pipeline

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/mem"
	"github.com/sarchlab/rv32sim/reg"
)

// FetchStage reads instruction words from the bus. It owns the pc,
// pcPlus4, and instruction registers. Next-PC selection happens first:
// a committed branch from the execute stage redirects the fetch address,
// otherwise the sequential successor is fetched.
type FetchStage struct {
	bus     *mem.Bus
	active  func() StageID
	execOut func() ExecutionOutput

	pc          *reg.Register[uint32]
	pcPlus4     *reg.Register[uint32]
	instruction *reg.Register[uint32]
}

// NewFetchStage creates a fetch stage wired to the bus, the shared
// active-stage accessor, and the execute stage's committed output. The
// first fetch reads the ROM base.
func NewFetchStage(bus *mem.Bus, active func() StageID, execOut func() ExecutionOutput) *FetchStage {
	return &FetchStage{
		bus:         bus,
		active:      active,
		execOut:     execOut,
		pc:          reg.NewRegister(mem.ROMBase),
		pcPlus4:     reg.NewRegister(mem.ROMBase),
		instruction: reg.NewRegister(uint32(0)),
	}
}

// ID returns the stage identity.
func (s *FetchStage) ID() StageID { return StageFetch }

func (s *FetchStage) stalled() bool { return s.active() != StageFetch }

// Compute selects the next PC, reads the instruction word there, and
// stages pc, pcPlus4, and the instruction latch.
func (s *FetchStage) Compute() error {
	if s.stalled() {
		return nil
	}

	exec := s.execOut()
	pcNext := s.pcPlus4.Get()
	if exec.BranchValid {
		pcNext = exec.BranchAddress
	}

	word, err := s.bus.Read(pcNext, mem.WidthWord)
	if err != nil {
		return fmt.Errorf("instruction fetch at 0x%08X: %w", pcNext, err)
	}

	s.pc.SetPending(pcNext)
	s.pcPlus4.SetPending(pcNext + 4)
	s.instruction.SetPending(word)

	return nil
}

// Commit latches the staged pc, pcPlus4, and instruction values.
func (s *FetchStage) Commit() {
	s.pc.Commit()
	s.pcPlus4.Commit()
	s.instruction.Commit()
}

// Output returns the last committed fetch output.
func (s *FetchStage) Output() FetchOutput {
	return FetchOutput{
		Instruction: s.instruction.Get(),
		PC:          s.pc.Get(),
		PCPlus4:     s.pcPlus4.Get(),
	}
}

// DecodeStage parses the committed fetch output and resolves operand
// values from the register file.
type DecodeStage struct {
	regFile  *reg.File
	decoder  *insts.Decoder
	active   func() StageID
	fetchOut func() FetchOutput

	out *reg.Register[DecodedInstruction]
}

// NewDecodeStage creates a decode stage wired to the register file and
// the fetch stage's committed output.
func NewDecodeStage(regFile *reg.File, active func() StageID, fetchOut func() FetchOutput) *DecodeStage {
	return &DecodeStage{
		regFile:  regFile,
		decoder:  insts.NewDecoder(),
		active:   active,
		fetchOut: fetchOut,
		out:      reg.NewRegister(DecodedInstruction{}),
	}
}

// ID returns the stage identity.
func (s *DecodeStage) ID() StageID { return StageDecode }

func (s *DecodeStage) stalled() bool { return s.active() != StageDecode }

// Compute decodes the fetched word and stages the decoded descriptor. An
// unsupported encoding is a decode fault, fatal to the run.
func (s *DecodeStage) Compute() error {
	if s.stalled() {
		return nil
	}

	fo := s.fetchOut()
	inst, err := s.decoder.Decode(fo.Instruction)
	if err != nil {
		return fmt.Errorf("decode at 0x%08X: %w", fo.PC, err)
	}

	s.out.SetPending(DecodedInstruction{
		Inst:     inst,
		PC:       fo.PC,
		PCPlus4:  fo.PCPlus4,
		Rs1Value: s.regFile.Read(inst.Rs1),
		Rs2Value: s.regFile.Read(inst.Rs2),
	})

	return nil
}

// Commit latches the staged decode output.
func (s *DecodeStage) Commit() { s.out.Commit() }

// Output returns the last committed decode output.
func (s *DecodeStage) Output() DecodedInstruction { return s.out.Get() }

// ExecuteStage computes ALU results, evaluates branch conditions and
// targets, and prepares memory requests for loads and stores.
type ExecuteStage struct {
	active    func() StageID
	decodeOut func() DecodedInstruction

	out *reg.Register[ExecutionOutput]
}

// NewExecuteStage creates an execute stage wired to the decode stage's
// committed output.
func NewExecuteStage(active func() StageID, decodeOut func() DecodedInstruction) *ExecuteStage {
	return &ExecuteStage{
		active:    active,
		decodeOut: decodeOut,
		out:       reg.NewRegister(ExecutionOutput{}),
	}
}

// ID returns the stage identity.
func (s *ExecuteStage) ID() StageID { return StageExecute }

func (s *ExecuteStage) stalled() bool { return s.active() != StageExecute }

// Compute stages the execution output for the committed decoded
// instruction.
func (s *ExecuteStage) Compute() error {
	if s.stalled() {
		return nil
	}

	d := s.decodeOut()
	if d.Inst == nil {
		s.out.SetPending(ExecutionOutput{})
		return nil
	}

	s.out.SetPending(execute(d))

	return nil
}

// Commit latches the staged execution output.
func (s *ExecuteStage) Commit() { s.out.Commit() }

// Output returns the last committed execution output.
func (s *ExecuteStage) Output() ExecutionOutput { return s.out.Get() }

// execute evaluates one decoded instruction against its resolved
// operands.
func execute(d DecodedInstruction) ExecutionOutput {
	inst := d.Inst
	rs1 := d.Rs1Value
	rs2 := d.Rs2Value
	imm := uint32(inst.Imm)

	out := ExecutionOutput{
		DestReg: inst.Rd,
		HasDest: inst.WritesRd(),
	}

	switch inst.Op {
	case insts.OpLUI:
		out.ALUResult = imm
	case insts.OpAUIPC:
		out.ALUResult = d.PC + imm

	case insts.OpJAL:
		out.ALUResult = d.PCPlus4
		out.BranchValid = true
		out.BranchAddress = d.PC + imm
	case insts.OpJALR:
		out.ALUResult = d.PCPlus4
		out.BranchValid = true
		out.BranchAddress = (rs1 + imm) &^ 1

	case insts.OpBEQ, insts.OpBNE, insts.OpBLT, insts.OpBGE, insts.OpBLTU, insts.OpBGEU:
		if branchTaken(inst.Op, rs1, rs2) {
			out.BranchValid = true
			out.BranchAddress = d.PC + imm
		}

	case insts.OpLB:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthByte, IsLoad: true, Signed: true}
	case insts.OpLH:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthHalf, IsLoad: true, Signed: true}
	case insts.OpLW:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthWord, IsLoad: true}
	case insts.OpLBU:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthByte, IsLoad: true}
	case insts.OpLHU:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthHalf, IsLoad: true}

	case insts.OpSB:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthByte, Value: rs2, IsStore: true}
	case insts.OpSH:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthHalf, Value: rs2, IsStore: true}
	case insts.OpSW:
		out.Mem = MemoryRequest{Address: rs1 + imm, Width: mem.WidthWord, Value: rs2, IsStore: true}

	default:
		out.ALUResult = aluOp(inst.Op, rs1, rs2, imm)
	}

	return out
}

// branchTaken evaluates a conditional branch against its operands.
func branchTaken(op insts.Op, rs1, rs2 uint32) bool {
	switch op {
	case insts.OpBEQ:
		return rs1 == rs2
	case insts.OpBNE:
		return rs1 != rs2
	case insts.OpBLT:
		return int32(rs1) < int32(rs2)
	case insts.OpBGE:
		return int32(rs1) >= int32(rs2)
	case insts.OpBLTU:
		return rs1 < rs2
	case insts.OpBGEU:
		return rs1 >= rs2
	default:
		return false
	}
}

// aluOp evaluates the arithmetic/logic operations on operand-operand or
// operand-immediate forms. Shift amounts use the low 5 bits.
func aluOp(op insts.Op, rs1, rs2, imm uint32) uint32 {
	switch op {
	case insts.OpADDI:
		return rs1 + imm
	case insts.OpSLTI:
		if int32(rs1) < int32(imm) {
			return 1
		}
		return 0
	case insts.OpSLTIU:
		if rs1 < imm {
			return 1
		}
		return 0
	case insts.OpXORI:
		return rs1 ^ imm
	case insts.OpORI:
		return rs1 | imm
	case insts.OpANDI:
		return rs1 & imm
	case insts.OpSLLI:
		return rs1 << (imm & 0x1F)
	case insts.OpSRLI:
		return rs1 >> (imm & 0x1F)
	case insts.OpSRAI:
		return uint32(int32(rs1) >> (imm & 0x1F))

	case insts.OpADD:
		return rs1 + rs2
	case insts.OpSUB:
		return rs1 - rs2
	case insts.OpSLL:
		return rs1 << (rs2 & 0x1F)
	case insts.OpSLT:
		if int32(rs1) < int32(rs2) {
			return 1
		}
		return 0
	case insts.OpSLTU:
		if rs1 < rs2 {
			return 1
		}
		return 0
	case insts.OpXOR:
		return rs1 ^ rs2
	case insts.OpSRL:
		return rs1 >> (rs2 & 0x1F)
	case insts.OpSRA:
		return uint32(int32(rs1) >> (rs2 & 0x1F))
	case insts.OpOR:
		return rs1 | rs2
	case insts.OpAND:
		return rs1 & rs2
	default:
		return 0
	}
}

// MemoryAccessStage issues the bus operation a committed execution
// output requires: a width-qualified read for loads, a write for stores,
// or a straight passthrough of the ALU result. A bus fault here is fatal
// to the run.
type MemoryAccessStage struct {
	bus     *mem.Bus
	active  func() StageID
	execOut func() ExecutionOutput

	out *reg.Register[MemoryAccessOutput]
}

// NewMemoryAccessStage creates a memory-access stage wired to the bus
// and the execute stage's committed output.
func NewMemoryAccessStage(bus *mem.Bus, active func() StageID, execOut func() ExecutionOutput) *MemoryAccessStage {
	return &MemoryAccessStage{
		bus:     bus,
		active:  active,
		execOut: execOut,
		out:     reg.NewRegister(MemoryAccessOutput{}),
	}
}

// ID returns the stage identity.
func (s *MemoryAccessStage) ID() StageID { return StageMemoryAccess }

func (s *MemoryAccessStage) stalled() bool { return s.active() != StageMemoryAccess }

// Compute performs the memory request and stages the value to retire.
func (s *MemoryAccessStage) Compute() error {
	if s.stalled() {
		return nil
	}

	e := s.execOut()

	switch {
	case e.Mem.IsLoad:
		value, err := s.bus.Read(e.Mem.Address, e.Mem.Width)
		if err != nil {
			return fmt.Errorf("load at 0x%08X: %w", e.Mem.Address, err)
		}
		if e.Mem.Signed {
			value = signExtend(value, e.Mem.Width)
		}
		s.out.SetPending(MemoryAccessOutput{
			Value:   value,
			DestReg: e.DestReg,
			HasDest: e.HasDest,
		})

	case e.Mem.IsStore:
		if err := s.bus.Write(e.Mem.Address, e.Mem.Value, e.Mem.Width); err != nil {
			return fmt.Errorf("store at 0x%08X: %w", e.Mem.Address, err)
		}
		// Stores do not retire a register write.
		s.out.SetPending(MemoryAccessOutput{})

	default:
		s.out.SetPending(MemoryAccessOutput{
			Value:   e.ALUResult,
			DestReg: e.DestReg,
			HasDest: e.HasDest,
		})
	}

	return nil
}

// Commit latches the staged memory-access output.
func (s *MemoryAccessStage) Commit() { s.out.Commit() }

// Output returns the last committed memory-access output.
func (s *MemoryAccessStage) Output() MemoryAccessOutput { return s.out.Get() }

// signExtend widens a sub-word value to 32 bits preserving its sign.
func signExtend(value uint32, width mem.AccessWidth) uint32 {
	switch width {
	case mem.WidthByte:
		return uint32(int32(int8(value)))
	case mem.WidthHalf:
		return uint32(int32(int16(value)))
	default:
		return value
	}
}

// WriteBackStage stages the retiring value into the register file. The
// register file itself is committed by the sequencer as part of the
// global commit point, so the write becomes visible from the next
// cycle's compute phase onward.
type WriteBackStage struct {
	regFile *reg.File
	active  func() StageID
	memOut  func() MemoryAccessOutput
}

// NewWriteBackStage creates a writeback stage wired to the register file
// and the memory-access stage's committed output.
func NewWriteBackStage(regFile *reg.File, active func() StageID, memOut func() MemoryAccessOutput) *WriteBackStage {
	return &WriteBackStage{
		regFile: regFile,
		active:  active,
		memOut:  memOut,
	}
}

// ID returns the stage identity.
func (s *WriteBackStage) ID() StageID { return StageWriteBack }

func (s *WriteBackStage) stalled() bool { return s.active() != StageWriteBack }

// Compute stages the retiring value unless the instruction has no
// destination or targets the hardwired zero register.
func (s *WriteBackStage) Compute() error {
	if s.stalled() {
		return nil
	}

	m := s.memOut()
	if m.HasDest && m.DestReg != 0 {
		s.regFile.SetPending(m.DestReg, m.Value)
	}

	return nil
}

// Commit is a no-op: the writeback stage owns no output registers of its
// own, and the register file commit belongs to the sequencer.
func (s *WriteBackStage) Commit() {}
