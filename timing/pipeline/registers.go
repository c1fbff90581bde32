// Package pipeline provides the five cooperating stages of the machine.
//
// Each stage holds private double-buffered registers for its output
// fields. Compute reads only the last committed output of its upstream
// stage, obtained through a fixed accessor wired at system-construction
// time, plus committed register and memory state; Commit promotes the
// staged values. Within one cycle no stage observes another's pending
// values.
package pipeline

import (
	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/mem"
)

// StageID identifies a pipeline stage. Each stage computes only when the
// sequencer's active-stage value matches its own identity.
type StageID uint8

// Stage identities, in pipeline order.
const (
	StageFetch StageID = iota
	StageDecode
	StageExecute
	StageMemoryAccess
	StageWriteBack
)

func (id StageID) String() string {
	switch id {
	case StageFetch:
		return "FETCH"
	case StageDecode:
		return "DECODE"
	case StageExecute:
		return "EXECUTE"
	case StageMemoryAccess:
		return "MEMORY_ACCESS"
	case StageWriteBack:
		return "WRITE_BACK"
	default:
		return "UNKNOWN"
	}
}

// Stage is the common contract every pipeline stage satisfies. The
// sequencer invokes Compute on all stages each cycle (inactive stages
// no-op internally), then Commit on all stages as one global commit
// point.
type Stage interface {
	ID() StageID
	Compute() error
	Commit()
}

// FetchOutput is the committed output of the fetch stage.
type FetchOutput struct {
	// Instruction is the raw 32-bit instruction word. Exactly 0 is the
	// halt sentinel.
	Instruction uint32

	// PC is the address the instruction was fetched from.
	PC uint32

	// PCPlus4 is the sequential successor address.
	PCPlus4 uint32
}

// DecodedInstruction is the committed output of the decode stage: the
// parsed instruction with its operand values already resolved from the
// register file.
type DecodedInstruction struct {
	// Inst is the decoded instruction. Nil until the first decode commits.
	Inst *insts.Instruction

	// PC and PCPlus4 are carried from the fetch output for branch target
	// and link-value computation.
	PC      uint32
	PCPlus4 uint32

	// Committed register values of rs1/rs2.
	Rs1Value uint32
	Rs2Value uint32
}

// MemoryRequest describes the bus operation an instruction requires, if
// any.
type MemoryRequest struct {
	Address uint32
	Width   mem.AccessWidth

	// Value is the store data.
	Value uint32

	IsLoad  bool
	IsStore bool

	// Signed selects sign extension of a sub-word loaded value.
	Signed bool
}

// ExecutionOutput is the committed output of the execute stage. Its
// branch fields feed the fetch stage's next-PC selection.
type ExecutionOutput struct {
	// ALUResult is the value to retire for non-load instructions.
	ALUResult uint32

	// BranchAddress is the redirect target when BranchValid is set.
	BranchAddress uint32
	BranchValid   bool

	// Mem is the memory operation for loads and stores.
	Mem MemoryRequest

	// DestReg is the destination register when HasDest is set.
	DestReg uint8
	HasDest bool
}

// MemoryAccessOutput is the committed output of the memory-access stage:
// the value to retire paired with its destination register. Stores carry
// no destination.
type MemoryAccessOutput struct {
	Value   uint32
	DestReg uint8
	HasDest bool
}
