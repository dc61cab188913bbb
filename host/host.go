// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive monitor around the NES 6502
// core. The host owns a CPU and its memory map and accepts commands that
// load cartridge images and raw binaries, execute and step instructions,
// set execution and data breakpoints, dump and disassemble memory,
// manipulate registers, inspect the log and run Lua scripts.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/nes6502/disasm"
	"github.com/beevik/nes6502/ines"
	"github.com/beevik/nes6502/logger"
)

type state int32

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateInterrupted
)

var errQuit = errors.New("exiting program")

// A Host represents an NES CPU with its memory map, a built-in debugger,
// and other useful tools.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.Memory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *cmd.Selection
	state       atomic.Int32
	settings    *settings
	rom         *ines.ROM
	scriptQuit  bool // a script ran the quit command
}

// New creates a new host whose memory uses the requested mirroring.
func New(mirroring cpu.Mirroring) *Host {
	h := &Host{
		output:   bufio.NewWriter(os.Stdout),
		settings: newSettings(),
	}

	// Create the emulated CPU and memory.
	h.mem = cpu.NewMemory(mirroring)
	h.cpu = cpu.NewCPU(h.mem)

	// Create a CPU debugger and attach it to the CPU.
	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	h.cpu.AttachDebugger(h.debugger)

	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	h.onSettingsUpdate()
	defer logger.SetEcho(nil)

	if interactive {
		h.println()
		h.displayPC()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		if err := h.processLine(line); errors.Is(err, errQuit) {
			break
		}
	}
	h.flush()
}

// LoadROM loads an iNES image, installs it and resets the CPU.
func (h *Host) LoadROM(filename string) error {
	rom, err := ines.Open(filename)
	if err != nil {
		return err
	}
	if err := rom.Install(h.mem); err != nil {
		return err
	}

	h.rom = rom
	h.cpu.Reset()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	logger.Logf("host", "loaded '%s'", filepath.Base(filename))
	return nil
}

// Break interrupts a running CPU. It may be called from any goroutine.
func (h *Host) Break() {
	h.state.CompareAndSwap(int32(stateRunning), int32(stateInterrupted))
}

func (h *Host) getState() state {
	return state(h.state.Load())
}

func (h *Host) setState(s state) {
	h.state.Store(int32(s))
}

func (h *Host) processLine(line string) error {
	line = strings.TrimSpace(line)

	var c cmd.Selection
	if line != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case errors.Is(err, cmd.ErrNotFound):
			h.println("Command not found.")
			return nil
		case errors.Is(err, cmd.ErrAmbiguous):
			h.println("Command is ambiguous.")
			return nil
		case err != nil:
			h.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if h.lastCmd != nil {
		c = *h.lastCmd
	}

	if c.Command == nil {
		// A subtree name on its own lists the subtree's commands.
		if line != "" {
			if g := findGroup(strings.Fields(line)[0]); g != nil {
				h.displayGroup(g)
			}
		}
		return nil
	}
	h.lastCmd = &c

	err := c.Command.Data.(*command).handler(h, c)
	h.flush()
	return err
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.print("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	d, _ := h.disassemble(h.cpu.Reg.PC, true)
	h.println(d)
}

func (h *Host) cmdBinary(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := parseAddr(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	filename := c.Args[0]
	b, err := os.ReadFile(filename)
	if err != nil {
		h.printf("Failed to read '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	if room := 0x10000 - int(addr); len(b) > room {
		h.printf("File '%s' truncated to %d bytes.\n", filepath.Base(filename), room)
		b = b[:room]
	}
	if len(b) == 0 {
		h.printf("File '%s' is empty.\n", filepath.Base(filename))
		return nil
	}

	h.mem.StoreBytes(addr, b)
	h.cpu.SetPC(addr)
	h.settings.NextDisasmAddr = addr
	h.printf("Loaded '%s' to $%04X..$%04X\n", filepath.Base(filename), addr, int(addr)+len(b)-1)
	logger.Logf("host", "loaded %d bytes from '%s' at $%04X", len(b), filepath.Base(filename), addr)
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := parseByte(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, value)
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, value)
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

// Resolve an address argument. "$" continues from 'next' (or the program
// counter if 'next' is unset) and "." is the program counter.
func (h *Host) addrArg(arg string, next uint16) (uint16, error) {
	switch arg {
	case "$":
		if next == 0 {
			return h.cpu.Reg.PC, nil
		}
		return next, nil
	case ".":
		return h.cpu.Reg.PC, nil
	default:
		return parseAddr(arg)
	}
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	addr, err := h.addrArg(c.Args[0], h.settings.NextDisasmAddr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		lines, err = parseNumber(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, false)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdExec(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	opcode, err := parseByte(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.cpu.Execute(opcode)
	h.println(disasm.FormatInfo(h.cpu.Info()))
	h.displayPC()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdGraph(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	if err := h.writeGraph(c.Args[0]); err != nil {
		h.printf("Failed to write graph: %v\n", err)
		return nil
	}
	h.printf("Graph written to '%s'.\n", filepath.Base(c.Args[0]))
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayGroup(rootGroup)
		return nil
	}

	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err == nil && s.Command != nil {
		command := s.Command.Data.(*command)
		if command.usage != "" {
			h.printf("Syntax: %s\n\n", command.usage)
		}
		switch {
		case command.description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, command.description))
		case command.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, command.brief))
		}
		return nil
	}

	if g := findGroup(c.Args[0]); g != nil {
		h.displayGroup(g)
		return nil
	}

	h.println("Command not found.")
	return nil
}

func (h *Host) cmdInfo(c cmd.Selection) error {
	h.println(disasm.FormatInfo(h.cpu.Info()))
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".nes"
	}

	if err := h.LoadROM(filename); err != nil {
		h.printf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Loaded '%s': %s\n", filepath.Base(filename), h.rom.Header)
	h.displayPC()
	return nil
}

func (h *Host) cmdLog(c cmd.Selection) error {
	if logger.Len() == 0 {
		h.println("Log is empty.")
		return nil
	}

	if len(c.Args) > 0 {
		n, err := parseNumber(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		logger.Tail(h.output, n)
	} else {
		logger.Write(h.output)
	}
	h.flush()
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	addr, err := h.addrArg(c.Args[0], h.settings.NextMemDumpAddr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	bytes := h.settings.MemDumpBytes
	if len(c.Args) >= 2 {
		bytes, err = parseNumber(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}
	if bytes <= 0 {
		return nil
	}

	h.dumpMemory(addr, uint16(min(bytes, 0x10000-int(addr), 0xffff)))

	h.settings.NextMemDumpAddr = addr + uint16(bytes)
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(c.Args)-1)
	for _, s := range c.Args[1:] {
		v, err := parseByte(s)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b = append(b, v)
	}

	h.mem.StoreBytes(addr, b)
	h.printf("Stored %d bytes at $%04X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errQuit
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println(disasm.RegisterString(&h.cpu.Reg))
		h.displayPC()

	case 1:
		r, err := lookupRegister(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.displayRegister(r)

	default:
		r, err := lookupRegister(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}

		var v int
		if r.size == 0 {
			var b bool
			b, err = stringToBool(c.Args[1])
			v = boolToInt(b)
		} else {
			v, err = parseNumber(c.Args[1])
		}
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}

		r.set(&h.cpu.Reg, v)
		h.printf("Register %s set to ", r.name)
		h.displayRegister(r)
		if r.name == "PC" {
			h.settings.NextDisasmAddr = h.cpu.Reg.PC
		}
	}
	return nil
}

func (h *Host) displayRegister(r *register) {
	v := r.get(&h.cpu.Reg)
	switch r.size {
	case 0:
		h.printf("%s=%v\n", r.name, v != 0)
	case 1:
		h.printf("%s=$%02X\n", r.name, v)
	default:
		h.printf("%s=$%04X\n", r.name, v)
	}
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.cpu.Reset()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.printf("CPU reset to $%04X.\n", h.cpu.Reg.PC)
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)
	steps := h.run(h.settings.StepLimit)
	h.printf("Executed %d instructions.\n", steps)

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdScript(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	if err := h.runScript(c.Args[0]); err != nil {
		if errors.Is(err, errQuit) {
			return err
		}
		h.printf("Script failed: %v\n", err)
	}
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		err := h.settings.Set(c.Args[0], strings.Join(c.Args[1:], " "))
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.println("Setting updated.")
		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	// Parse the number of steps.
	count := 1
	if len(c.Args) > 0 {
		n, err := parseNumber(c.Args[0])
		if err == nil {
			count = n
		}
	}

	// Step the CPU count times.
	h.setState(stateRunning)
	for i := count - 1; i >= 0 && h.getState() == stateRunning; i-- {
		ok := h.step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
		if !ok {
			break
		}
	}
	h.setState(stateProcessingCommands)

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// Run the CPU until it stops. A positive limit bounds the number of
// instructions executed. Returns the number of instructions executed.
func (h *Host) run(limit int) (steps int) {
	h.setState(stateRunning)
	for h.getState() == stateRunning {
		if limit > 0 && steps >= limit {
			h.printf("Step limit of %d reached.\n", limit)
			h.displayPC()
			break
		}
		steps++
		if !h.step() {
			break
		}
	}

	switch h.getState() {
	case stateInterrupted:
		h.println("Interrupted.")
		h.displayPC()
	case stateBreakpoint:
		h.displayPC()
	}
	h.setState(stateProcessingCommands)
	return steps
}

// Execute one instruction. Returns false if the opcode was unmapped.
func (h *Host) step() bool {
	h.cpu.Step()

	info := h.cpu.Info()
	if info.Mode == cpu.NoMap {
		h.printf("Unmapped opcode $%02X at $%04X.\n", info.Opcode, h.cpu.Reg.PC)
		if h.getState() == stateRunning {
			h.setState(stateBreakpoint)
		}
		return false
	}
	return true
}

func (h *Host) onSettingsUpdate() {
	if h.settings.EchoLog {
		logger.SetEcho(h.output)
	} else {
		logger.SetEcho(nil)
	}
}

func (h *Host) disassemble(addr uint16, showRegs bool) (str string, next uint16) {
	var line string
	line, next = disasm.Disassemble(h.mem, addr)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, disasm.CodeBytes(h.mem, addr), line)
	if showRegs {
		str += " " + disasm.RegisterString(&h.cpu.Reg)
	}
	return str, next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.mem.LoadByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := start
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= uint32(addr0) && a <= uint32(addr1) {
				m := h.mem.LoadByte(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayUsage(c cmd.Selection) {
	if command := c.Command.Data.(*command); command.usage != "" {
		h.printf("Syntax: %s\n", command.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayGroup(g *commandGroup) {
	type entry struct{ name, brief string }

	var entries []entry
	for _, c := range g.commands {
		if c.brief != "" {
			entries = append(entries, entry{c.name, c.brief})
		}
	}
	if g == rootGroup {
		for _, sg := range groupOrder {
			entries = append(entries, entry{sg.name, sg.brief})
		}
		slices.SortFunc(entries, func(a, b entry) int {
			return strings.Compare(a.name, b.name)
		})
	}

	h.printf("%s commands:\n", g.name)
	for _, e := range entries {
		h.printf("    %-15s  %s\n", e.name, e.brief)
	}
}

func (h *Host) onBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.state.CompareAndSwap(int32(stateRunning), int32(stateBreakpoint))
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
}

func (h *Host) onDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)
	h.state.CompareAndSwap(int32(stateRunning), int32(stateBreakpoint))

	d, _ := h.disassemble(c.LastPC, false)
	h.println(d)
}
