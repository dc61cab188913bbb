// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/prefixtree/v2"
)

var errInvalidNumber = errors.New("invalid number")

// parseNumber parses a number written in decimal, in hexadecimal with a '$'
// or "0x" prefix, or in binary with a '%' prefix.
func parseNumber(s string) (int, error) {
	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "%"):
		s, base = s[1:], 2
	}

	v, err := strconv.ParseInt(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w '%s'", errInvalidNumber, s)
	}
	return int(v), nil
}

// parseAddr parses a 16-bit address. Negative values wrap.
func parseAddr(s string) (uint16, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < -0x8000 || v > 0xffff {
		return 0, fmt.Errorf("address out of range '%s'", s)
	}
	return uint16(v), nil
}

// parseByte parses an 8-bit value. Negative values wrap.
func parseByte(s string) (byte, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < -0x80 || v > 0xff {
		return 0, fmt.Errorf("byte out of range '%s'", s)
	}
	return byte(v), nil
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

// A register names a CPU register or status flag that can be viewed and
// changed from the host.
type register struct {
	name string
	size int // bytes; 0 for a status flag
	flag cpu.Flag
	get  func(r *cpu.Registers) int
	set  func(r *cpu.Registers, v int)
}

var registerTree = prefixtree.New[*register]()

func init() {
	regs := []*register{
		{name: "A", size: 1,
			get: func(r *cpu.Registers) int { return int(r.A) },
			set: func(r *cpu.Registers, v int) { r.A = byte(v) }},
		{name: "X", size: 1,
			get: func(r *cpu.Registers) int { return int(r.X) },
			set: func(r *cpu.Registers, v int) { r.X = byte(v) }},
		{name: "Y", size: 1,
			get: func(r *cpu.Registers) int { return int(r.Y) },
			set: func(r *cpu.Registers, v int) { r.Y = byte(v) }},
		{name: "SP", size: 1,
			get: func(r *cpu.Registers) int { return int(r.S) },
			set: func(r *cpu.Registers, v int) { r.S = byte(v) }},
		{name: "STATUS", size: 1,
			get: func(r *cpu.Registers) int { return int(r.P) },
			set: func(r *cpu.Registers, v int) { r.P = byte(v) }},
		{name: "PC", size: 2,
			get: func(r *cpu.Registers) int { return int(r.PC) },
			set: func(r *cpu.Registers, v int) { r.PC = uint16(v) }},
		{name: "CARRY", flag: cpu.Carry},
		{name: "ZERO", flag: cpu.Zero},
		{name: "INTERRUPT", flag: cpu.InterruptDisable},
		{name: "DECIMAL", flag: cpu.Decimal},
		{name: "OVERFLOW", flag: cpu.Overflow},
		{name: "NEGATIVE", flag: cpu.Negative},
	}

	for _, r := range regs {
		if r.size == 0 {
			f := r.flag
			r.get = func(reg *cpu.Registers) int { return boolToInt(reg.Test(f)) }
			r.set = func(reg *cpu.Registers, v int) { reg.SetTo(f, v != 0) }
		}
		registerTree.Add(strings.ToLower(r.name), r)
	}
	overflow, _ := registerTree.FindValue("overflow")
	registerTree.Add("v", overflow)
}

// lookupRegister finds a register or flag by unambiguous name prefix.
func lookupRegister(name string) (*register, error) {
	r, err := registerTree.FindValue(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("register '%s': %w", name, err)
	}
	return r, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}

// indentWrap wraps the text at 80 columns, indenting every line by the
// requested number of spaces.
func indentWrap(indent int, s string) string {
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return ""
	}

	pad := strings.Repeat(" ", indent)
	var lines []string
	line := pad + ss[0]
	for _, w := range ss[1:] {
		if len(line)+1+len(w) > 80 {
			lines = append(lines, line)
			line = pad + w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
