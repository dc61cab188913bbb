// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/nes6502/host"
	"github.com/beevik/nes6502/logger"
	"github.com/beevik/nes6502/statsview"
	"github.com/beevik/term"
)

var (
	rom       string
	mirror    string
	statsAddr string
	dumpLog   bool
)

func init() {
	flag.StringVar(&rom, "rom", "", "load iNES cartridge image")
	flag.StringVar(&mirror, "mirror", "decode", "internal memory mirroring (decode or none)")
	flag.StringVar(&statsAddr, "statsview", "", "serve runtime statistics on `address`")
	flag.BoolVar(&dumpLog, "log", false, "write the log to stderr on exit")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: nes6502 [options] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	var mirroring cpu.Mirroring
	switch mirror {
	case "decode":
		mirroring = cpu.MirrorDecode
	case "none":
		mirroring = cpu.MirrorNone
	default:
		exitOnError(fmt.Errorf("unknown mirroring '%s'", mirror))
	}

	if statsAddr != "" {
		statsview.Launch(os.Stdout, statsAddr)
	}

	h := host.New(mirroring)
	if dumpLog {
		defer logger.Write(os.Stderr)
	}

	if rom != "" {
		if err := h.LoadROM(rom); err != nil {
			exitOnError(err)
		}
	}

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands from stdin, with a prompt when it is a terminal.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
