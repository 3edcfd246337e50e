// Package main provides the entry point for the SM213 simulator.
// SM213 is a teaching CPU with eight 32-bit registers and a 2/6-byte
// big-endian instruction format.
//
// For the full CLI, use: go run ./cmd/sm213
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("SM213 - Simple Machine CPU Simulator")
	fmt.Println("Clocked mode built on the Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: sm213 [options] <program.s|image.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Run on the clocked core and print a timing report")
	fmt.Println("  -config    Path to machine configuration JSON file")
	fmt.Println("  -step      Interactive single-step monitor")
	fmt.Println("  -v         Trace every instruction")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/sm213' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/sm213' instead.")
	}
}
