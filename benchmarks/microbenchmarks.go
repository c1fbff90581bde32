package benchmarks

import (
	"fmt"

	"github.com/sarchlab/rv32sim/asm"
	"github.com/sarchlab/rv32sim/mem"
	"github.com/sarchlab/rv32sim/timing/core"
)

// expectReg builds a check that a register holds an exact value.
func expectReg(index uint8, want uint32) func(sys *core.System) error {
	return func(sys *core.System) error {
		got := sys.RegFile().Read(index)
		if got != want {
			return fmt.Errorf("x%d = 0x%08X, want 0x%08X", index, got, want)
		}
		return nil
	}
}

// Microbenchmarks returns the standard calibration benchmark suite.
func Microbenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		dependencyChain(),
		memorySequential(),
		logicOps(),
	}
}

// arithmeticLoop counts down from 100 in a two-instruction loop.
func arithmeticLoop() Benchmark {
	p := asm.NewProgram()
	p.Add(asm.ADDI(1, 0, 100))
	p.Add(asm.ADDI(1, 1, -1))
	p.Add(asm.BNE(1, 0, -4))
	p.Halt()

	return Benchmark{
		Name:        "arithmetic_loop",
		Description: "Countdown loop dominated by ALU and taken branches",
		Program:     p.Words(),
		Check:       expectReg(1, 0),
	}
}

// dependencyChain doubles a value through a chain of dependent adds.
func dependencyChain() Benchmark {
	p := asm.NewProgram()
	p.Add(asm.ADDI(1, 0, 1))
	for rd := uint8(2); rd <= 8; rd++ {
		p.Add(asm.ADD(rd, rd-1, rd-1))
	}
	p.Halt()

	return Benchmark{
		Name:        "dependency_chain",
		Description: "Straight-line adds where each result feeds the next",
		Program:     p.Words(),
		Check:       expectReg(8, 128),
	}
}

// memorySequential walks a RAM buffer with paired stores and loads.
func memorySequential() Benchmark {
	p := asm.NewProgram()
	p.Add(asm.LUI(1, mem.RAMBase))
	p.Add(asm.ADDI(2, 0, 8))
	p.Add(asm.ADDI(3, 0, 0))
	p.Add(asm.SW(1, 2, 0))
	p.Add(asm.LW(4, 1, 0))
	p.Add(asm.ADD(3, 3, 4))
	p.Add(asm.ADDI(1, 1, 4))
	p.Add(asm.ADDI(2, 2, -1))
	p.Add(asm.BNE(2, 0, -20))
	p.Halt()

	return Benchmark{
		Name:        "memory_sequential",
		Description: "Sequential store/load pairs over a RAM buffer",
		Program:     p.Words(),
		Check:       expectReg(3, 36),
	}
}

// logicOps runs a straight line of shifts and bitwise operations.
func logicOps() Benchmark {
	p := asm.NewProgram()
	p.Add(asm.ADDI(1, 0, 0x7F))
	p.Add(asm.SLLI(2, 1, 4))
	p.Add(asm.XORI(3, 2, 0xFF))
	p.Add(asm.ORI(4, 3, 0xF0))
	p.Add(asm.ANDI(5, 4, 0xFF))
	p.Add(asm.SRLI(6, 5, 4))
	p.Halt()

	return Benchmark{
		Name:        "logic_ops",
		Description: "Straight-line shifts and bitwise operations",
		Program:     p.Words(),
		Check:       expectReg(6, 0xF),
	}
}
