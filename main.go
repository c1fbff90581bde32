// Package main provides the entry point for rv32sim.
// rv32sim is a cycle-level staged RV32I CPU simulator.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - RV32I staged CPU simulator")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] <program.img>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to machine configuration JSON file")
	fmt.Println("  -max-cycles  Cycle limit before the run is aborted")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
