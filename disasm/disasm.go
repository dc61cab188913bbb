// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6502 instruction set
// disassembler.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/nes6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"",        // IMP
	"A",       // ACC
	"#$%s",    // IMM
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"$%s",     // REL
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. Bytes that do
// not hold a defined opcode are shown as data.
func Disassemble(m *cpu.Memory, addr uint16) (line string, next uint16) {
	opcode := m.LoadByte(addr)
	inst := cpu.Lookup(opcode)
	if !inst.Defined() {
		return fmt.Sprintf(".DB $%02X", opcode), addr + 1
	}

	operand := make([]byte, inst.Mode.Size()-1)
	m.LoadBytes(addr+1, operand)
	if inst.Mode == cpu.REL {
		// Convert relative offset to absolute address.
		braddr := addr + 2 + uint16(int8(operand[0]))
		operand = []byte{byte(braddr), byte(braddr >> 8)}
	}

	line = inst.Name
	if format := modeFormat[inst.Mode]; format != "" {
		if len(operand) > 0 {
			format = fmt.Sprintf(format, hexString(operand))
		}
		line += " " + format
	}
	next = addr + uint16(inst.Length)
	return
}

// CodeBytes returns the machine code bytes of the instruction at 'addr'
// as a space-separated hex string.
func CodeBytes(m *cpu.Memory, addr uint16) string {
	n := int(cpu.LengthOf(m.LoadByte(addr)))
	if n == 0 {
		n = 1
	}
	b := make([]byte, n)
	m.LoadBytes(addr, b)

	s := make([]string, n)
	for i, v := range b {
		s[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(s, " ")
}

// FormatInfo returns a diagnostic description of the instruction most
// recently dispatched by a CPU.
func FormatInfo(info cpu.InstructionInfo) string {
	inst := cpu.Lookup(info.Opcode)
	return fmt.Sprintf("opcode=$%02X (%s) mode=%s addr=$%04X",
		info.Opcode, inst.Name, info.Mode, info.Addr)
}

// Flag letters, most significant bit first. Bits 5 and 4 are not modeled.
var flagNames = []struct {
	f cpu.Flag
	c byte
}{
	{cpu.Negative, 'N'},
	{cpu.Overflow, 'V'},
	{0, '-'},
	{0, '-'},
	{cpu.Decimal, 'D'},
	{cpu.InterruptDisable, 'I'},
	{cpu.Zero, 'Z'},
	{cpu.Carry, 'C'},
}

// RegisterString returns a one-line description of the registers.
func RegisterString(r *cpu.Registers) string {
	var flags [8]byte
	for i, fn := range flagNames {
		switch {
		case fn.f == 0:
			flags[i] = fn.c
		case r.Test(fn.f):
			flags[i] = fn.c
		default:
			flags[i] = '.'
		}
	}
	return fmt.Sprintf("A=$%02X X=$%02X Y=$%02X PC=$%04X S=$%02X P=$%02X [%s]",
		r.A, r.X, r.Y, r.PC, r.S, r.P, flags[:])
}
