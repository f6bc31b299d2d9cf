// Package main provides the entry point for DFESim.
// DFESim is a cycle-accurate streaming data-filter engine simulator
// built on Akita.
//
// For the full CLI, use: go run ./cmd/dfesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("DFESim - Streaming Data-Filter Engine Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: dfesim [options] <program.yaml>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to bench configuration JSON file")
	fmt.Println("  -o         Write emitted readings to a raw byte file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("See cmd/dfesim for the full implementation.")
	os.Exit(0)
}
