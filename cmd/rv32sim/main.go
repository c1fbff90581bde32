// Package main provides the entry point for rv32sim.
// rv32sim is a cycle-level staged RV32I CPU simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rv32sim/loader"
	"github.com/sarchlab/rv32sim/timing/core"
)

var (
	configPath = flag.String("config", "", "Path to machine configuration JSON file")
	maxCycles  = flag.Uint64("max-cycles", 0, "Cycle limit (0 uses the config value)")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32sim [options] <program.img>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	words, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Words: %d\n", len(words))
	}

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	sys, err := core.NewSystem(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building machine: %v\n", err)
		os.Exit(1)
	}

	if err := sys.Load(words); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if err := sys.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report(sys, programPath)
}

// resolveConfig builds the machine configuration from the -config and
// -max-cycles flags.
func resolveConfig() (*core.Config, error) {
	cfg := core.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = core.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}
	if *maxCycles != 0 {
		cfg.MaxCycles = *maxCycles
	}
	return cfg, nil
}

// report prints the run statistics and the final register state.
func report(sys *core.System, programPath string) {
	stats := sys.Stats()

	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Total Instructions: %d\n", stats.Instructions)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("CPI: %.2f\n", stats.CPI())
	fmt.Printf("Simulated time: %.9fs\n", float64(sys.Time()))

	if *verbose {
		fmt.Printf("\nRegisters:\n")
		for i := uint8(0); i < 32; i++ {
			fmt.Printf("  x%-2d = 0x%08X\n", i, sys.RegFile().Read(i))
		}
		fmt.Printf("  pc  = 0x%08X\n", sys.PC())
	}
}
