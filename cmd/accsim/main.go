package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ezrec/accsim/emulator"
	"github.com/ezrec/accsim/isa"
)

func main() {
	var compile string
	var image string
	var save string
	var config string
	var input string
	var listing bool
	var verbose bool
	var trace bool
	var memory int
	var limit int

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&image, "p", "", "program image (.json, .yml) to load")
	flag.StringVar(&save, "s", "", "Save program image, do not execute")
	flag.StringVar(&config, "config", "", ".toml run configuration")
	flag.StringVar(&input, "i", "", "Tape input file, - for stdin")
	flag.BoolVar(&listing, "l", false, "Print program listing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&trace, "t", false, "Trace every tick, with memory")
	flag.IntVar(&memory, "m", emulator.MEMORY_SIZE, "Data memory size in words")
	flag.IntVar(&limit, "n", emulator.INSTRUCTION_LIMIT, "Instruction limit")

	flag.Parse()

	log := logrus.StandardLogger()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		var err error
		cfg, err = emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	// Explicit flags override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "m":
			cfg.MemorySize = memory
		case "n":
			cfg.Limit = limit
		case "v", "t":
			cfg.Verbose = verbose || trace
		case "i":
			cfg.Input = input
		}
	})

	switch {
	case trace:
		log.SetLevel(logrus.TraceLevel)
	case cfg.Verbose:
		log.SetLevel(logrus.DebugLevel)
	}

	img := &isa.Image{}

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &isa.Assembler{Verbose: cfg.Verbose, Logger: log}
		img, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(image) != 0:
		var err error
		img, err = isa.LoadImage(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	default:
		log.Fatalf("%v: one of -c or -p is required", os.Args[0])
	}

	if listing {
		os.Stdout.WriteString(img.Code.Listing())
	}

	if len(save) != 0 {
		err := isa.SaveImage(save, img)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	emu := emulator.NewEmulator()
	cfg.Apply(emu)
	emu.Logger = log
	emu.Image = img

	switch cfg.Input {
	case "":
		emu.Tape.Load("")
	case "-":
		if term.IsTerminal(int(os.Stdin.Fd())) {
			log.Info("reading tape input from terminal, end with ^D")
		}
		_, err := emu.Tape.ReadFrom(os.Stdin)
		if err != nil {
			log.Fatalf("stdin: %v", err)
		}
	default:
		inf, err := os.Open(cfg.Input)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Input, err)
		}
		_, err = emu.Tape.ReadFrom(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", cfg.Input, err)
		}
	}

	report, err := emu.Run()
	if err != nil {
		log.Fatal(err)
	}

	_, err = report.WriteTo(os.Stdout)
	if err != nil {
		log.Fatalf("stdout: %v", err)
	}

	if report.Err != nil {
		os.Exit(1)
	}
}
