// Package core provides the top-level machine model. The System owns the
// register file, the memory bus, and the five pipeline stages, and drives
// the global compute-then-commit cycle loop.
package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/mem"
	"github.com/sarchlab/rv32sim/reg"
	"github.com/sarchlab/rv32sim/timing/pipeline"
)

// State is the sequencer state. The five working states mirror the
// pipeline stage identities in order; TERMINATE is terminal.
type State uint8

// Sequencer states.
const (
	StateFetch State = iota
	StateDecode
	StateExecute
	StateMemoryAccess
	StateWriteBack
	StateTerminate
)

func (s State) String() string {
	if s == StateTerminate {
		return "TERMINATE"
	}
	return pipeline.StageID(s).String()
}

// Stats holds run statistics for the machine.
type Stats struct {
	// Cycles is the total number of cycles executed.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
}

// CPI returns the cycles per retired instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// System is the whole machine: register file, bus, five stages, and the
// active-stage state machine. Exactly one stage performs meaningful work
// per cycle; retiring one instruction costs five cycles.
type System struct {
	bus     *mem.Bus
	regFile *reg.File

	fetch     *pipeline.FetchStage
	decode    *pipeline.DecodeStage
	execute   *pipeline.ExecuteStage
	memAccess *pipeline.MemoryAccessStage
	writeBack *pipeline.WriteBackStage
	stages    []pipeline.Stage

	state     State
	freq      sim.Freq
	maxCycles uint64
	stats     Stats
}

// NewSystem constructs a powered-on machine from the given configuration
// (nil selects defaults): PC at the ROM base, all registers zero, state
// FETCH. The stage dependency graph is wired here, once.
func NewSystem(cfg *Config) (*System, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sys := &System{
		bus:       mem.NewBus(mem.NewROM(cfg.ROMCapacity), mem.NewRAM(cfg.RAMCapacity)),
		regFile:   reg.NewFile(),
		state:     StateFetch,
		freq:      cfg.ClockFreq,
		maxCycles: cfg.MaxCycles,
	}

	active := func() pipeline.StageID { return pipeline.StageID(sys.state) }

	// Fetch's upstream accessor closes over sys because the execute
	// stage does not exist yet; the remaining edges bind method values
	// directly.
	sys.fetch = pipeline.NewFetchStage(sys.bus, active,
		func() pipeline.ExecutionOutput { return sys.execute.Output() })
	sys.decode = pipeline.NewDecodeStage(sys.regFile, active, sys.fetch.Output)
	sys.execute = pipeline.NewExecuteStage(active, sys.decode.Output)
	sys.memAccess = pipeline.NewMemoryAccessStage(sys.bus, active, sys.execute.Output)
	sys.writeBack = pipeline.NewWriteBackStage(sys.regFile, active, sys.memAccess.Output)

	sys.stages = []pipeline.Stage{
		sys.fetch, sys.decode, sys.execute, sys.memAccess, sys.writeBack,
	}

	return sys, nil
}

// Load copies pre-encoded instruction words into ROM starting at offset
// 0. A program exceeding ROM capacity is rejected before any cycle runs.
func (s *System) Load(words []uint32) error {
	if err := s.bus.ROM().LoadWords(words); err != nil {
		return fmt.Errorf("load program: %w", err)
	}
	return nil
}

// Cycle executes one machine cycle: Compute on all five stages, one
// global commit of all stage registers plus the register file, the
// round-robin state advance, and the halt-sentinel check. A decode or
// bus fault aborts before the commit point, so only fully-committed
// state remains visible.
func (s *System) Cycle() error {
	if s.state == StateTerminate {
		return nil
	}

	s.stats.Cycles++

	for _, stage := range s.stages {
		if err := stage.Compute(); err != nil {
			fo := s.fetch.Output()
			return fmt.Errorf("cycle %d (%s) pc=0x%08X inst=0x%08X: %w",
				s.stats.Cycles, s.state, fo.PC, fo.Instruction, err)
		}
	}

	for _, stage := range s.stages {
		stage.Commit()
	}
	s.regFile.CommitAll()

	if s.state == StateWriteBack {
		s.stats.Instructions++
	}

	if s.state == StateWriteBack {
		s.state = StateFetch
	} else {
		s.state++
	}

	if s.fetch.Output().Instruction == 0 {
		s.state = StateTerminate
	}

	return nil
}

// Run executes cycles until the machine terminates, a fault occurs, or
// the configured cycle limit is reached.
func (s *System) Run() error {
	for s.state != StateTerminate {
		if s.maxCycles > 0 && s.stats.Cycles >= s.maxCycles {
			return fmt.Errorf("cycle limit reached after %d cycles", s.stats.Cycles)
		}
		if err := s.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

// State returns the sequencer state.
func (s *System) State() State {
	return s.state
}

// Terminated reports whether the machine reached the terminal state.
func (s *System) Terminated() bool {
	return s.state == StateTerminate
}

// PC returns the committed program counter.
func (s *System) PC() uint32 {
	return s.fetch.Output().PC
}

// RegFile returns the register file for inspection.
func (s *System) RegFile() *reg.File {
	return s.regFile
}

// Bus returns the memory bus for inspection and memory-image loading.
func (s *System) Bus() *mem.Bus {
	return s.bus
}

// Stats returns run statistics.
func (s *System) Stats() Stats {
	return s.stats
}

// Time returns the simulated time elapsed at the configured clock
// frequency.
func (s *System) Time() sim.VTimeInSec {
	return sim.VTimeInSec(float64(s.stats.Cycles) / float64(s.freq))
}
