// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "strings"

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symADC opsym = iota
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRK
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symNOP
	symORA
	symPHA
	symPHP
	symPLA
	symPLP
	symROL
	symROR
	symRTI
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSTA
	symSTX
	symSTY
	symTAX
	symTAY
	symTSX
	symTXA
	symTXS
	symTYA
)

type instfunc func(c *CPU, info *InstructionInfo)

// Emulator implementation for each opcode
type opcodeImpl struct {
	sym  opsym
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{symADC, "ADC", (*CPU).adc},
	{symAND, "AND", (*CPU).and},
	{symASL, "ASL", (*CPU).asl},
	{symBCC, "BCC", (*CPU).bcc},
	{symBCS, "BCS", (*CPU).bcs},
	{symBEQ, "BEQ", (*CPU).beq},
	{symBIT, "BIT", (*CPU).bit},
	{symBMI, "BMI", (*CPU).bmi},
	{symBNE, "BNE", (*CPU).bne},
	{symBPL, "BPL", (*CPU).bpl},
	{symBRK, "BRK", (*CPU).brk},
	{symBVC, "BVC", (*CPU).bvc},
	{symBVS, "BVS", (*CPU).bvs},
	{symCLC, "CLC", (*CPU).clc},
	{symCLD, "CLD", (*CPU).cld},
	{symCLI, "CLI", (*CPU).cli},
	{symCLV, "CLV", (*CPU).clv},
	{symCMP, "CMP", (*CPU).cmp},
	{symCPX, "CPX", (*CPU).cpx},
	{symCPY, "CPY", (*CPU).cpy},
	{symDEC, "DEC", (*CPU).dec},
	{symDEX, "DEX", (*CPU).dex},
	{symDEY, "DEY", (*CPU).dey},
	{symEOR, "EOR", (*CPU).eor},
	{symINC, "INC", (*CPU).inc},
	{symINX, "INX", (*CPU).inx},
	{symINY, "INY", (*CPU).iny},
	{symJMP, "JMP", (*CPU).jmp},
	{symJSR, "JSR", (*CPU).jsr},
	{symLDA, "LDA", (*CPU).lda},
	{symLDX, "LDX", (*CPU).ldx},
	{symLDY, "LDY", (*CPU).ldy},
	{symLSR, "LSR", (*CPU).lsr},
	{symNOP, "NOP", (*CPU).nop},
	{symORA, "ORA", (*CPU).ora},
	{symPHA, "PHA", (*CPU).pha},
	{symPHP, "PHP", (*CPU).php},
	{symPLA, "PLA", (*CPU).pla},
	{symPLP, "PLP", (*CPU).plp},
	{symROL, "ROL", (*CPU).rol},
	{symROR, "ROR", (*CPU).ror},
	{symRTI, "RTI", (*CPU).rti},
	{symRTS, "RTS", (*CPU).rts},
	{symSBC, "SBC", (*CPU).sbc},
	{symSEC, "SEC", (*CPU).sec},
	{symSED, "SED", (*CPU).sed},
	{symSEI, "SEI", (*CPU).sei},
	{symSTA, "STA", (*CPU).sta},
	{symSTX, "STX", (*CPU).stx},
	{symSTY, "STY", (*CPU).sty},
	{symTAX, "TAX", (*CPU).tax},
	{symTAY, "TAY", (*CPU).tay},
	{symTSX, "TSX", (*CPU).tsx},
	{symTXA, "TXA", (*CPU).txa},
	{symTXS, "TXS", (*CPU).txs},
	{symTYA, "TYA", (*CPU).tya},
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMP   Mode = iota // Implied (no operand)
	ACC               // Accumulator (no operand)
	IMM               // Immediate
	ZPG               // Zero Page
	ZPX               // Zero Page,X
	ZPY               // Zero Page,Y
	ABS               // Absolute
	ABX               // Absolute,X
	ABY               // Absolute,Y
	REL               // Relative
	IND               // (Indirect)
	IDX               // (Indirect,X)
	IDY               // (Indirect),Y
	NoMap             // no instruction defined for the opcode
)

var modeNames = [...]string{
	"IMP", "ACC", "IMM", "ZPG", "ZPX", "ZPY", "ABS",
	"ABX", "ABY", "REL", "IND", "IDX", "IDY", "---",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "???"
}

// Size returns the number of bytes an instruction using the mode occupies,
// including the opcode. It returns 0 for NoMap.
func (m Mode) Size() int {
	switch m {
	case IMP, ACC:
		return 1
	case IMM, ZPG, ZPX, ZPY, REL, IDX, IDY:
		return 2
	case ABS, ABX, ABY, IND:
		return 3
	default:
		return 0
	}
}

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym    opsym // internal opcode symbol
	mode   Mode  // addressing mode
	opcode byte  // opcode hex value
	length byte  // length of opcode + operand in bytes
}

// All valid (opcode, mode) pairs of the NMOS 6502
var data = []opcodeData{
	{symLDA, IMM, 0xa9, 2},
	{symLDA, ZPG, 0xa5, 2},
	{symLDA, ZPX, 0xb5, 2},
	{symLDA, ABS, 0xad, 3},
	{symLDA, ABX, 0xbd, 3},
	{symLDA, ABY, 0xb9, 3},
	{symLDA, IDX, 0xa1, 2},
	{symLDA, IDY, 0xb1, 2},

	{symLDX, IMM, 0xa2, 2},
	{symLDX, ZPG, 0xa6, 2},
	{symLDX, ZPY, 0xb6, 2},
	{symLDX, ABS, 0xae, 3},
	{symLDX, ABY, 0xbe, 3},

	{symLDY, IMM, 0xa0, 2},
	{symLDY, ZPG, 0xa4, 2},
	{symLDY, ZPX, 0xb4, 2},
	{symLDY, ABS, 0xac, 3},
	{symLDY, ABX, 0xbc, 3},

	{symSTA, ZPG, 0x85, 2},
	{symSTA, ZPX, 0x95, 2},
	{symSTA, ABS, 0x8d, 3},
	{symSTA, ABX, 0x9d, 3},
	{symSTA, ABY, 0x99, 3},
	{symSTA, IDX, 0x81, 2},
	{symSTA, IDY, 0x91, 2},

	{symSTX, ZPG, 0x86, 2},
	{symSTX, ZPY, 0x96, 2},
	{symSTX, ABS, 0x8e, 3},

	{symSTY, ZPG, 0x84, 2},
	{symSTY, ZPX, 0x94, 2},
	{symSTY, ABS, 0x8c, 3},

	{symADC, IMM, 0x69, 2},
	{symADC, ZPG, 0x65, 2},
	{symADC, ZPX, 0x75, 2},
	{symADC, ABS, 0x6d, 3},
	{symADC, ABX, 0x7d, 3},
	{symADC, ABY, 0x79, 3},
	{symADC, IDX, 0x61, 2},
	{symADC, IDY, 0x71, 2},

	{symSBC, IMM, 0xe9, 2},
	{symSBC, ZPG, 0xe5, 2},
	{symSBC, ZPX, 0xf5, 2},
	{symSBC, ABS, 0xed, 3},
	{symSBC, ABX, 0xfd, 3},
	{symSBC, ABY, 0xf9, 3},
	{symSBC, IDX, 0xe1, 2},
	{symSBC, IDY, 0xf1, 2},

	{symCMP, IMM, 0xc9, 2},
	{symCMP, ZPG, 0xc5, 2},
	{symCMP, ZPX, 0xd5, 2},
	{symCMP, ABS, 0xcd, 3},
	{symCMP, ABX, 0xdd, 3},
	{symCMP, ABY, 0xd9, 3},
	{symCMP, IDX, 0xc1, 2},
	{symCMP, IDY, 0xd1, 2},

	{symCPX, IMM, 0xe0, 2},
	{symCPX, ZPG, 0xe4, 2},
	{symCPX, ABS, 0xec, 3},

	{symCPY, IMM, 0xc0, 2},
	{symCPY, ZPG, 0xc4, 2},
	{symCPY, ABS, 0xcc, 3},

	{symBIT, ZPG, 0x24, 2},
	{symBIT, ABS, 0x2c, 3},

	{symCLC, IMP, 0x18, 1},
	{symSEC, IMP, 0x38, 1},
	{symCLI, IMP, 0x58, 1},
	{symSEI, IMP, 0x78, 1},
	{symCLD, IMP, 0xd8, 1},
	{symSED, IMP, 0xf8, 1},
	{symCLV, IMP, 0xb8, 1},

	{symBCC, REL, 0x90, 2},
	{symBCS, REL, 0xb0, 2},
	{symBEQ, REL, 0xf0, 2},
	{symBNE, REL, 0xd0, 2},
	{symBMI, REL, 0x30, 2},
	{symBPL, REL, 0x10, 2},
	{symBVC, REL, 0x50, 2},
	{symBVS, REL, 0x70, 2},

	{symBRK, IMP, 0x00, 2},

	{symAND, IMM, 0x29, 2},
	{symAND, ZPG, 0x25, 2},
	{symAND, ZPX, 0x35, 2},
	{symAND, ABS, 0x2d, 3},
	{symAND, ABX, 0x3d, 3},
	{symAND, ABY, 0x39, 3},
	{symAND, IDX, 0x21, 2},
	{symAND, IDY, 0x31, 2},

	{symORA, IMM, 0x09, 2},
	{symORA, ZPG, 0x05, 2},
	{symORA, ZPX, 0x15, 2},
	{symORA, ABS, 0x0d, 3},
	{symORA, ABX, 0x1d, 3},
	{symORA, ABY, 0x19, 3},
	{symORA, IDX, 0x01, 2},
	{symORA, IDY, 0x11, 2},

	{symEOR, IMM, 0x49, 2},
	{symEOR, ZPG, 0x45, 2},
	{symEOR, ZPX, 0x55, 2},
	{symEOR, ABS, 0x4d, 3},
	{symEOR, ABX, 0x5d, 3},
	{symEOR, ABY, 0x59, 3},
	{symEOR, IDX, 0x41, 2},
	{symEOR, IDY, 0x51, 2},

	{symINC, ZPG, 0xe6, 2},
	{symINC, ZPX, 0xf6, 2},
	{symINC, ABS, 0xee, 3},
	{symINC, ABX, 0xfe, 3},

	{symDEC, ZPG, 0xc6, 2},
	{symDEC, ZPX, 0xd6, 2},
	{symDEC, ABS, 0xce, 3},
	{symDEC, ABX, 0xde, 3},

	{symINX, IMP, 0xe8, 1},
	{symINY, IMP, 0xc8, 1},

	{symDEX, IMP, 0xca, 1},
	{symDEY, IMP, 0x88, 1},

	{symJMP, ABS, 0x4c, 3},
	{symJMP, IND, 0x6c, 3},

	{symJSR, ABS, 0x20, 3},
	{symRTS, IMP, 0x60, 1},

	{symRTI, IMP, 0x40, 1},

	{symNOP, IMP, 0xea, 1},

	{symTAX, IMP, 0xaa, 1},
	{symTXA, IMP, 0x8a, 1},
	{symTAY, IMP, 0xa8, 1},
	{symTYA, IMP, 0x98, 1},
	{symTXS, IMP, 0x9a, 1},
	{symTSX, IMP, 0xba, 1},

	{symPHA, IMP, 0x48, 1},
	{symPLA, IMP, 0x68, 1},
	{symPHP, IMP, 0x08, 1},
	{symPLP, IMP, 0x28, 1},

	{symASL, ACC, 0x0a, 1},
	{symASL, ZPG, 0x06, 2},
	{symASL, ZPX, 0x16, 2},
	{symASL, ABS, 0x0e, 3},
	{symASL, ABX, 0x1e, 3},

	{symLSR, ACC, 0x4a, 1},
	{symLSR, ZPG, 0x46, 2},
	{symLSR, ZPX, 0x56, 2},
	{symLSR, ABS, 0x4e, 3},
	{symLSR, ABX, 0x5e, 3},

	{symROL, ACC, 0x2a, 1},
	{symROL, ZPG, 0x26, 2},
	{symROL, ZPX, 0x36, 2},
	{symROL, ABS, 0x2e, 3},
	{symROL, ABX, 0x3e, 3},

	{symROR, ACC, 0x6a, 1},
	{symROR, ZPG, 0x66, 2},
	{symROR, ZPX, 0x76, 2},
	{symROR, ABS, 0x6e, 3},
	{symROR, ABX, 0x7e, 3},
}

// UnusedName is the name given to opcodes with no defined instruction.
const UnusedName = "???"

// An Instruction describes a CPU instruction, including its name, its
// addressing mode, its opcode value and its length in bytes.
type Instruction struct {
	Name   string   // all-caps name of the instruction
	Mode   Mode     // addressing mode
	Opcode byte     // hexadecimal opcode value
	Length byte     // combined size of opcode and operand, in bytes
	fn     instfunc // emulator implementation of the instruction
}

// Defined returns true if the opcode has a defined 6502 instruction.
func (inst Instruction) Defined() bool {
	return inst.Mode != NoMap
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU. Instructions are handed out by value, so
// the set cannot be modified through them.
type InstructionSet struct {
	instructions [256]Instruction  // all instructions by opcode
	variants     map[string][]byte // opcodes of each instruction's variants
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
func (s *InstructionSet) Lookup(opcode byte) Instruction {
	return s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string, or nil if there are none.
func (s *InstructionSet) GetInstructions(name string) []Instruction {
	opcodes := s.variants[strings.ToUpper(name)]
	if opcodes == nil {
		return nil
	}
	insts := make([]Instruction, len(opcodes))
	for i, opcode := range opcodes {
		insts[i] = s.instructions[opcode]
	}
	return insts
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		variants: make(map[string][]byte),
	}

	// Every opcode starts out unused; defined opcodes overwrite their slot.
	for i := range set.instructions {
		set.instructions[i] = Instruction{
			Name:   UnusedName,
			Mode:   NoMap,
			Opcode: byte(i),
			Length: 0,
			fn:     (*CPU).unused,
		}
	}

	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	for _, d := range data {
		impl := symToImpl[d.sym]
		inst := &set.instructions[d.opcode]
		inst.Name = impl.name
		inst.Mode = d.mode
		inst.Length = d.length
		inst.fn = impl.fn
		set.variants[inst.Name] = append(set.variants[inst.Name], d.opcode)
	}

	return set
}

// The instruction set is shared by every CPU and never modified after
// package initialization.
var instructions = newInstructionSet()

// GetInstructionSet returns the 6502 instruction set.
func GetInstructionSet() *InstructionSet {
	return instructions
}

// Lookup retrieves the instruction for an opcode from the 6502 instruction
// set.
func Lookup(opcode byte) Instruction {
	return instructions.Lookup(opcode)
}

// ModeOf returns the addressing mode used by an opcode.
func ModeOf(opcode byte) Mode {
	return instructions.instructions[opcode].Mode
}

// LengthOf returns the length in bytes of the instruction selected by an
// opcode, or 0 if the opcode is unused.
func LengthOf(opcode byte) byte {
	return instructions.instructions[opcode].Length
}
