// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"cmp"
	"slices"
)

// A Debugger watches a CPU for execution and data breakpoints. Attach it
// with CPU.AttachDebugger.
//
// While attached, data breakpoints are keyed by the canonical address of
// the CPU's memory, so a breakpoint on any mirror of a byte watches every
// other mirror of it too.
type Debugger struct {
	breakpointHandler BreakpointHandler
	breakpoints       map[uint16]*Breakpoint
	dataBreakpoints   map[uint16]*DataBreakpoint
	mem               *Memory // memory of the attached CPU, or nil
}

// The BreakpointHandler interface should be implemented by any object that
// wishes to receive debugger breakpoint notifications.
type BreakpointHandler interface {
	OnBreakpoint(cpu *CPU, b *Breakpoint)
	OnDataBreakpoint(cpu *CPU, b *DataBreakpoint)
}

// A Breakpoint represents an address that will cause the debugger to stop
// code execution when the program counter reaches it.
type Breakpoint struct {
	Address  uint16 // address of execution breakpoint
	Disabled bool   // this breakpoint is currently disabled
}

// A DataBreakpoint represents an address that will cause the debugger to
// stop executing code when a byte is stored to it. Stores through any
// mirror of the address also trigger it when the memory decodes mirrors.
type DataBreakpoint struct {
	Address     uint16 // breakpoint triggered by stores to this address
	Disabled    bool   // this breakpoint is currently disabled
	Conditional bool   // this breakpoint is conditional on a certain Value being stored
	Value       byte   // the value that must be stored if the breakpoint is conditional
}

// NewDebugger creates a new CPU debugger.
func NewDebugger(breakpointHandler BreakpointHandler) *Debugger {
	return &Debugger{
		breakpointHandler: breakpointHandler,
		breakpoints:       make(map[uint16]*Breakpoint),
		dataBreakpoints:   make(map[uint16]*DataBreakpoint),
	}
}

// GetBreakpoint looks up a breakpoint by address and returns it if found.
// Otherwise it returns nil.
func (d *Debugger) GetBreakpoint(addr uint16) *Breakpoint {
	return d.breakpoints[addr]
}

// GetBreakpoints returns all breakpoints currently set in the debugger,
// ordered by address.
func (d *Debugger) GetBreakpoints() []*Breakpoint {
	breakpoints := make([]*Breakpoint, 0, len(d.breakpoints))
	for _, b := range d.breakpoints {
		breakpoints = append(breakpoints, b)
	}
	slices.SortFunc(breakpoints, func(a, b *Breakpoint) int {
		return cmp.Compare(a.Address, b.Address)
	})
	return breakpoints
}

// AddBreakpoint adds a new breakpoint address to the debugger. If the
// breakpoint was already set, it is replaced by an enabled one.
func (d *Debugger) AddBreakpoint(addr uint16) *Breakpoint {
	b := &Breakpoint{Address: addr}
	d.breakpoints[addr] = b
	return b
}

// RemoveBreakpoint removes a breakpoint from the debugger.
func (d *Debugger) RemoveBreakpoint(addr uint16) {
	delete(d.breakpoints, addr)
}

// GetDataBreakpoint looks up a data breakpoint on the provided address
// and returns it if found. Otherwise it returns nil.
func (d *Debugger) GetDataBreakpoint(addr uint16) *DataBreakpoint {
	return d.dataBreakpoints[d.dataKey(addr)]
}

// GetDataBreakpoints returns all data breakpoints currently set in the
// debugger, ordered by address.
func (d *Debugger) GetDataBreakpoints() []*DataBreakpoint {
	breakpoints := make([]*DataBreakpoint, 0, len(d.dataBreakpoints))
	for _, b := range d.dataBreakpoints {
		breakpoints = append(breakpoints, b)
	}
	slices.SortFunc(breakpoints, func(a, b *DataBreakpoint) int {
		return cmp.Compare(a.Address, b.Address)
	})
	return breakpoints
}

// AddDataBreakpoint adds an unconditional data breakpoint on the requested
// address.
func (d *Debugger) AddDataBreakpoint(addr uint16) *DataBreakpoint {
	b := &DataBreakpoint{Address: addr}
	d.dataBreakpoints[d.dataKey(addr)] = b
	return b
}

// AddConditionalDataBreakpoint adds a conditional data breakpoint on the
// requested address.
func (d *Debugger) AddConditionalDataBreakpoint(addr uint16, value byte) *DataBreakpoint {
	b := &DataBreakpoint{
		Address:     addr,
		Conditional: true,
		Value:       value,
	}
	d.dataBreakpoints[d.dataKey(addr)] = b
	return b
}

// RemoveDataBreakpoint removes a (conditional or unconditional) data
// breakpoint at the requested address.
func (d *Debugger) RemoveDataBreakpoint(addr uint16) {
	delete(d.dataBreakpoints, d.dataKey(addr))
}

func (d *Debugger) dataKey(addr uint16) uint16 {
	if d.mem == nil {
		return addr
	}
	return d.mem.Canonical(addr)
}

// Rekey the data breakpoints for the memory of a newly attached (or
// detached) CPU.
func (d *Debugger) setMemory(m *Memory) {
	d.mem = m
	breakpoints := make(map[uint16]*DataBreakpoint, len(d.dataBreakpoints))
	for _, b := range d.dataBreakpoints {
		breakpoints[d.dataKey(b.Address)] = b
	}
	d.dataBreakpoints = breakpoints
}

func (d *Debugger) onUpdatePC(cpu *CPU, addr uint16) {
	if d.breakpointHandler == nil {
		return
	}
	if b, ok := d.breakpoints[addr]; ok && !b.Disabled {
		d.breakpointHandler.OnBreakpoint(cpu, b)
	}
}

func (d *Debugger) onDataStore(cpu *CPU, addr uint16, v byte) {
	if d.breakpointHandler == nil || len(d.dataBreakpoints) == 0 {
		return
	}
	b, ok := d.dataBreakpoints[cpu.Mem.Canonical(addr)]
	if !ok || b.Disabled || (b.Conditional && b.Value != v) {
		return
	}
	d.breakpointHandler.OnDataBreakpoint(cpu, b)
}
