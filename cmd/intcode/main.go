// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/ezrec/intcode/amplifier"
	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/io"
)

func loadProgram(conf *config.Config) (prog *cpu.Program) {
	switch {
	case len(conf.Source) != 0:
		inf, err := os.Open(conf.Source)
		if err != nil {
			log.Fatalf("%v: %v", conf.Source, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: conf.Verbose}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", conf.Source, err)
		}
	case len(conf.Program) != 0:
		inf, err := os.Open(conf.Program)
		if err != nil {
			log.Fatalf("%v: %v", conf.Program, err)
		}
		defer inf.Close()

		words, err := io.ReadProgram(inf)
		if err != nil {
			log.Fatalf("%v: %v", conf.Program, err)
		}
		prog = cpu.Disassemble(words)
	default:
		log.Fatalf("%v: One of -c or -p is required", os.Args[0])
	}

	return
}

func runAmplifier(conf *config.Config, prog *cpu.Program) {
	amp := conf.Amplifier

	if amp.Search {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := amplifier.Search(ctx, prog.Binary(), amp.Phases, amp.Feedback)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d %v\n", result.Signal, result.Phases)
		return
	}

	ring := amplifier.NewRing(prog.Binary(), amp.Phases)
	ring.Verbose = conf.Verbose

	var output int64
	var err error
	if amp.Feedback {
		output, err = ring.Feedback(amp.Signal)
	} else {
		output, err = ring.Chain(amp.Signal)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d\n", output)
}

func main() {
	var run string
	var listing bool
	var phases string

	conf := &config.Config{}
	flags := &config.Config{}

	flag.StringVar(&flags.Source, "c", "", "assembly source file to compile")
	flag.StringVar(&flags.Program, "p", "", "comma separated program file")
	flag.StringVar(&run, "f", "", "TOML run file")
	flag.StringVar(&flags.Input, "i", "-", "Tape input")
	flag.StringVar(&flags.Output, "o", "-", "Tape output")
	flag.BoolVar(&listing, "l", false, "Print program listing, do not execute")
	flag.StringVar(&phases, "a", "", "Amplifier phases, comma separated")
	flag.BoolVar(&flags.Amplifier.Feedback, "feedback", false, "Run amplifiers in a feedback loop")
	flag.BoolVar(&flags.Amplifier.Search, "search", false, "Search all orderings of the amplifier phases")
	flag.Int64Var(&flags.Amplifier.Signal, "signal", 0, "Amplifier input signal")
	flag.BoolVar(&flags.Verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(run) != 0 {
		var err error
		conf, err = config.Load(run)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		conf.Input = "-"
		conf.Output = "-"
	}

	// Explicit flags override the run file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "c":
			conf.Source, conf.Program = flags.Source, ""
		case "p":
			conf.Program, conf.Source = flags.Program, ""
		case "i":
			conf.Input = flags.Input
		case "o":
			conf.Output = flags.Output
		case "a":
			words, err := io.ReadProgram(strings.NewReader(phases))
			if err != nil {
				log.Fatalf("-a: %v", err)
			}
			conf.Amplifier.Phases = words
		case "feedback":
			conf.Amplifier.Feedback = flags.Amplifier.Feedback
		case "search":
			conf.Amplifier.Search = flags.Amplifier.Search
		case "signal":
			conf.Amplifier.Signal = flags.Amplifier.Signal
		case "v":
			conf.Verbose = flags.Verbose
		}
	})

	prog := loadProgram(conf)

	if listing {
		fmt.Print(prog.Listing())
		return
	}

	if len(conf.Amplifier.Phases) != 0 || conf.Amplifier.Search {
		runAmplifier(conf, prog)
		return
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = conf.Verbose

	tape := &io.Tape{}

	if conf.Input == "-" || len(conf.Input) == 0 {
		tape.Input = os.Stdin
	} else {
		inf, err := os.Open(conf.Input)
		if err != nil {
			log.Fatalf("%v: %v", conf.Input, err)
		}
		defer inf.Close()
		tape.Input = inf
	}

	if conf.Output == "-" || len(conf.Output) == 0 {
		tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(conf.Output)
		if err != nil {
			log.Fatalf("%v: %v", conf.Output, err)
		}
		defer ouf.Close()
		tape.Output = ouf
	}

	emu.Tape = tape
	emu.Reset()

	err := emu.Run()
	if err != nil {
		log.Fatal(err)
	}
}
