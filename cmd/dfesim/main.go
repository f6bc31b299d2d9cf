// Package main provides the entry point for DFESim.
// DFESim is a cycle-accurate streaming data-filter engine simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sarchlab/dfesim/engine"
	"github.com/sarchlab/dfesim/harness"
	"github.com/sarchlab/dfesim/stimulus"
)

var (
	configPath = flag.String("config", "", "Path to bench configuration JSON file")
	serialPort = flag.String("serial", "", "Read stimulus bytes from a serial port instead of a program file")
	baudRate   = flag.Int("baud", 0, "Serial baud rate (default 115200)")
	modeName   = flag.String("mode", "", "Filter mode for -serial (max, min, avg, extract, exclude, peak-max, peak-min)")
	listPorts  = flag.Bool("list-ports", false, "List available serial ports and exit")
	outPath    = flag.String("o", "", "Write emitted readings to a raw byte file")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if *listPorts {
		ports, err := stimulus.Ports()
		if err != nil {
			color.Red("Error listing serial ports: %v", err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if *serialPort == "" && flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: dfesim [options] <program.yaml>\n")
		fmt.Fprintf(os.Stderr, "       dfesim -serial <port> -mode <mode> [options]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	config := harness.DefaultConfig()
	if *configPath != "" {
		var err error
		config, err = harness.LoadConfig(*configPath)
		if err != nil {
			color.Red("Error loading bench config: %v", err)
			os.Exit(1)
		}
	}

	var source stimulus.Source
	var mode engine.Mode
	if *serialPort != "" {
		src, m := openSerialSource(config)
		defer src.Close()
		source, mode = src, m
	} else {
		source, mode = loadProgramSource(config)
	}

	bench := harness.NewBench(engine.New(), source, mode, config)
	captures, err := bench.Run()
	if err != nil {
		color.Red("Bench error: %v", err)
		os.Exit(1)
	}

	if *verbose {
		for _, c := range captures {
			fmt.Printf("  cycle %6d  %s\n", c.Cycle, c.Value)
		}
	}

	stats := bench.Engine().Stats()
	color.Green("Emitted %d readings over %d cycles", len(captures), bench.Cycles())
	fmt.Printf("Readings assembled: %d\n", stats.ReadingsAssembled)
	fmt.Printf("Streams completed:  %d\n", stats.StreamsCompleted)
	fmt.Printf("Emit rate:          %.4f\n", stats.EmitRate())

	if *outPath != "" {
		values := make([]engine.Uint128, len(captures))
		for i, c := range captures {
			values[i] = c.Value
		}
		if err := stimulus.WriteFile(*outPath, values); err != nil {
			color.Red("Error writing output: %v", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("Wrote %d readings to %s\n", len(values), *outPath)
		}
	}
}

// openSerialSource feeds the bench from a live sensor port. The mode
// must be given explicitly since there is no program file to name it.
func openSerialSource(config *harness.Config) (*stimulus.SerialSource, engine.Mode) {
	mode, err := engine.ParseMode(*modeName)
	if err != nil {
		color.Red("Error: -serial requires -mode: %v", err)
		os.Exit(1)
	}

	src, err := stimulus.OpenSerial(*serialPort, *baudRate)
	if err != nil {
		color.Red("Error opening serial port: %v", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Serial: %s\n", *serialPort)
		fmt.Printf("Mode: %s\n", mode)
		fmt.Printf("Clock: %.2f GHz\n", config.ClockGHz)
	}
	return src, mode
}

// loadProgramSource expands a YAML stimulus program into a byte
// source.
func loadProgramSource(config *harness.Config) (stimulus.Source, engine.Mode) {
	program, err := stimulus.Load(flag.Arg(0))
	if err != nil {
		color.Red("Error loading stimulus program: %v", err)
		os.Exit(1)
	}

	mode, err := program.EngineMode()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	var data []byte
	for _, readings := range program.Expand() {
		data = append(data, stimulus.Encode(readings)...)
	}

	if *verbose {
		fmt.Printf("Program: %s\n", flag.Arg(0))
		fmt.Printf("Mode: %s\n", mode)
		fmt.Printf("Streams: %d (%d bytes)\n", len(program.Streams), len(data))
		fmt.Printf("Clock: %.2f GHz\n", config.ClockGHz)
	}
	return stimulus.NewByteSource(data), mode
}
