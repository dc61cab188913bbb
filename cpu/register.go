// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// A Flag identifies one bit of the processor status register.
type Flag byte

// Bits assigned to the processor status byte. The break bit (4) and the
// unused bit (5) are not modeled as flags.
const (
	Carry            Flag = 1 << 0 // C
	Zero             Flag = 1 << 1 // Z
	InterruptDisable Flag = 1 << 2 // I
	Decimal          Flag = 1 << 3 // D
	Overflow         Flag = 1 << 6 // V
	Negative         Flag = 1 << 7 // N
)

// PowerOnStatus is the processor status after power-on: interrupts
// disabled, plus the two bits that always read back high.
const PowerOnStatus = 0x34

// Registers contains the state of all 6502 registers.
type Registers struct {
	A  byte   // accumulator
	X  byte   // X indexing register
	Y  byte   // Y indexing register
	PC uint16 // program counter
	S  byte   // stack pointer ($100 + S = stack memory location)
	P  byte   // processor status
}

// Init initializes all registers to their power-on state. A, X, Y = 0.
// S = 0xfd. PC = 0. P = 0x34.
func (r *Registers) Init() {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.S = 0xfd
	r.PC = 0
	r.P = PowerOnStatus
}

// Set sets a status flag.
func (r *Registers) Set(f Flag) {
	r.P |= byte(f)
}

// Clear clears a status flag.
func (r *Registers) Clear(f Flag) {
	r.P &^= byte(f)
}

// Test returns true if the status flag is set.
func (r *Registers) Test(f Flag) bool {
	return r.P&byte(f) != 0
}

// SetTo sets the status flag if v is true and clears it otherwise.
func (r *Registers) SetTo(f Flag, v bool) {
	if v {
		r.Set(f)
	} else {
		r.Clear(f)
	}
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
