// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

const (
	EXIT_OK        = 0
	EXIT_FAILURE   = 1
	EXIT_NOT_FOUND = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command line, writing PRN output and diagnostics to stdout.
func run(args []string, stdout io.Writer) (code int) {
	var assemble bool
	var output string
	var verbose bool

	logger := log.New(stdout, "", 0)

	flags := flag.NewFlagSet("ls8", flag.ContinueOnError)
	flags.SetOutput(stdout)
	flags.BoolVar(&assemble, "a", false, "Assemble the program from LS-8 mnemonics")
	flags.StringVar(&output, "o", "", "Write the program in .ls8 format, do not execute")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.Usage = func() {
		logger.Printf("usage: ls8 [-a] [-v] [-o output] program")
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil {
		return EXIT_FAILURE
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return EXIT_FAILURE
	}

	// Verbose traces share stdout with PRN output.
	log.SetOutput(stdout)
	log.SetFlags(0)

	filename := flags.Arg(0)
	inf, err := os.Open(filename)
	if err != nil {
		logger.Printf("%v: %v", filename, err)
		if errors.Is(err, fs.ErrNotExist) {
			return EXIT_NOT_FOUND
		}
		return EXIT_FAILURE
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.SetOutput(stdout)

	var prog *cpu.Program
	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: verbose}
		prog, err = ld.Parse(inf)
	}
	if err != nil {
		logger.Printf("%v: %v", filename, err)
		return EXIT_FAILURE
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			logger.Printf("%v: %v", output, err)
			return EXIT_FAILURE
		}
		defer ouf.Close()

		_, err = prog.WriteTo(ouf)
		if err != nil {
			logger.Printf("%v: %v", output, err)
			return EXIT_FAILURE
		}
		return EXIT_OK
	}

	emu.Program = prog
	err = emu.Reset()
	if err == nil {
		err = emu.Run()
	}
	if err != nil {
		logger.Printf("%v: %v", filename, err)
		return EXIT_FAILURE
	}

	return EXIT_OK
}
