// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the instruction-execution core of the 6502 used by
// the NES: a flat memory map with named regions, the register file, the
// stack, the thirteen addressing modes and the documented instruction set.
//
// The core models instruction effects, not cycle timing. Each call to
// Execute decodes a single opcode against the current program counter,
// advances the program counter and runs the instruction. The most recently
// resolved InstructionInfo remains available for diagnostics.
package cpu

import "github.com/beevik/nes6502/logger"

// Interrupt vectors
const (
	VectorNMI   = 0xfffa
	VectorReset = 0xfffc
	VectorIRQ   = 0xfffe
	VectorBRK   = 0xfffe
)

// InstructionInfo describes the instruction most recently dispatched by
// Execute.
type InstructionInfo struct {
	Addr   uint16 // effective operand address (0 when unused)
	Mode   Mode   // addressing mode used to resolve Addr
	Opcode byte   // opcode executed
}

// CPU represents a single 6502 CPU. It owns its registers and its memory.
type CPU struct {
	Reg       Registers // CPU registers
	Mem       *Memory   // assigned memory
	LastPC    uint16    // address of the most recently executed opcode
	info      InstructionInfo
	debugger  *Debugger
	storeByte func(cpu *CPU, addr uint16, v byte)
}

// NewCPU creates an emulated 6502 CPU bound to the specified memory. If m
// is nil, a new memory using MirrorDecode is created.
func NewCPU(m *Memory) *CPU {
	if m == nil {
		m = NewMemory(MirrorDecode)
	}
	cpu := &CPU{
		Mem:       m,
		storeByte: (*CPU).storeByteNormal,
	}
	cpu.Reg.Init()
	return cpu
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// Info returns the most recently resolved instruction information.
func (cpu *CPU) Info() InstructionInfo {
	return cpu.info
}

// GetInstruction returns the instruction whose opcode is stored at the
// requested address.
func (cpu *CPU) GetInstruction(addr uint16) Instruction {
	return Lookup(cpu.Mem.LoadByte(addr))
}

// Resolve computes the effective operand address of an instruction using
// addressing mode 'mode' whose opcode is stored at 'pc'. It also returns the
// number of bytes the mode consumes, including the opcode byte.
func (cpu *CPU) Resolve(mode Mode, pc uint16) (addr uint16, n int) {
	m := cpu.Mem
	switch mode {
	case IMP, ACC:
		addr = 0
	case IMM:
		addr = pc + 1
	case ZPG:
		addr = uint16(m.LoadByte(pc + 1))
	case ZPX:
		addr = offsetZeroPage(m.LoadByte(pc+1), cpu.Reg.X)
	case ZPY:
		addr = offsetZeroPage(m.LoadByte(pc+1), cpu.Reg.Y)
	case ABS:
		addr = m.LoadAddress(pc + 1)
	case ABX:
		addr = offsetAddress(m.LoadAddress(pc+1), cpu.Reg.X)
	case ABY:
		addr = offsetAddress(m.LoadAddress(pc+1), cpu.Reg.Y)
	case REL:
		offset := m.LoadByte(pc + 1)
		addr = pc + 2 + uint16(int8(offset))
	case IND:
		addr = m.LoadAddressBug(m.LoadAddress(pc + 1))
	case IDX:
		zpaddr := offsetZeroPage(m.LoadByte(pc+1), cpu.Reg.X)
		addr = m.LoadAddressBug(zpaddr)
	case IDY:
		zpaddr := uint16(m.LoadByte(pc + 1))
		addr = offsetAddress(m.LoadAddressBug(zpaddr), cpu.Reg.Y)
	default:
		logger.Logf("cpu", "WARNING: unmapped opcode $%02X at $%04X", m.LoadByte(pc), pc)
		return 0, 0
	}
	return addr, mode.Size()
}

// Execute runs the instruction selected by 'opcode' as though it were
// stored at the current program counter. Its operand bytes are read from
// the addresses following the program counter.
func (cpu *CPU) Execute(opcode byte) {
	inst := &instructions.instructions[opcode]

	var addr uint16
	if inst.Mode == NoMap {
		logger.Logf("cpu", "WARNING: unmapped opcode $%02X at $%04X", opcode, cpu.Reg.PC)
	} else {
		addr, _ = cpu.Resolve(inst.Mode, cpu.Reg.PC)
	}

	cpu.LastPC = cpu.Reg.PC
	cpu.Reg.PC += uint16(inst.Length)

	cpu.info = InstructionInfo{Addr: addr, Mode: inst.Mode, Opcode: opcode}
	inst.fn(cpu, &cpu.info)
}

// Step fetches the opcode at the program counter and executes it.
func (cpu *CPU) Step() {
	cpu.Execute(cpu.Mem.LoadByte(cpu.Reg.PC))

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
}

// Reset restores the power-on register state and loads the program counter
// from the reset vector.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Reg.PC = cpu.Mem.LoadAddress(VectorReset)
}

// NMI generates a non-maskable interrupt.
func (cpu *CPU) NMI() {
	cpu.handleInterrupt(VectorNMI)
}

// IRQ generates a maskable interrupt request. It is ignored while the
// interrupt-disable flag is set.
func (cpu *CPU) IRQ() {
	if !cpu.Reg.Test(InterruptDisable) {
		cpu.handleInterrupt(VectorIRQ)
	}
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	if cpu.debugger != nil {
		cpu.debugger.setMemory(nil)
	}
	debugger.setMemory(cpu.Mem)
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the current debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	if cpu.debugger != nil {
		cpu.debugger.setMemory(nil)
	}
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Push8 pushes a byte onto the stack.
func (cpu *CPU) Push8(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.S), v)
	cpu.Reg.S--
}

// Push16 pushes a 16-bit value onto the stack, high byte first.
func (cpu *CPU) Push16(v uint16) {
	cpu.Push8(byte(v >> 8))
	cpu.Push8(byte(v))
}

// Pull8 pulls a byte from the stack.
func (cpu *CPU) Pull8() byte {
	cpu.Reg.S++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.S))
}

// Pull16 pulls a 16-bit value from the stack, low byte first.
func (cpu *CPU) Pull16() uint16 {
	lo := cpu.Pull8()
	hi := cpu.Pull8()
	return uint16(lo) | uint16(hi)<<8
}

// Load the operand byte of the current instruction.
func (cpu *CPU) load(info *InstructionInfo) byte {
	if info.Mode == ACC {
		return cpu.Reg.A
	}
	return cpu.Mem.LoadByte(info.Addr)
}

// Store a byte to the operand of the current instruction.
func (cpu *CPU) store(info *InstructionInfo, v byte) {
	if info.Mode == ACC {
		cpu.Reg.A = v
		return
	}
	cpu.storeByte(cpu, info.Addr, v)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.Mem.StoreByte(addr, v)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.SetTo(Zero, v == 0)
	cpu.Reg.SetTo(Negative, v&0x80 != 0)
}

// Store the program counter and status on the stack, then jump through the
// vector at 'addr'.
func (cpu *CPU) handleInterrupt(addr uint16) {
	cpu.Push16(cpu.Reg.PC)
	cpu.Push8(cpu.Reg.P)
	cpu.Reg.Set(InterruptDisable)
	cpu.Reg.PC = cpu.Mem.LoadAddress(addr)
}

// Execute a branch to the resolved target.
func (cpu *CPU) branch(info *InstructionInfo, cond bool) {
	if cond {
		cpu.Reg.PC = info.Addr
	}
}

func (cpu *CPU) compare(reg byte, info *InstructionInfo) {
	v := cpu.load(info)
	cpu.Reg.SetTo(Carry, reg >= v)
	cpu.updateNZ(reg - v)
}

// Add with carry
func (cpu *CPU) adc(info *InstructionInfo) {
	acc := uint16(cpu.Reg.A)
	add := uint16(cpu.load(info))
	v := acc + add + uint16(boolToByte(cpu.Reg.Test(Carry)))

	cpu.Reg.SetTo(Carry, v > 0xff)
	cpu.Reg.SetTo(Overflow, (acc^add)&0x80 == 0 && (acc^v)&0x80 != 0)

	cpu.Reg.A = byte(v)
	cpu.updateNZ(cpu.Reg.A)
}

// Boolean AND
func (cpu *CPU) and(info *InstructionInfo) {
	cpu.Reg.A &= cpu.load(info)
	cpu.updateNZ(cpu.Reg.A)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(info *InstructionInfo) {
	v := cpu.load(info)
	cpu.Reg.SetTo(Carry, v&0x80 != 0)
	v <<= 1
	cpu.updateNZ(v)
	cpu.store(info, v)
}

// Branch if Carry Clear
func (cpu *CPU) bcc(info *InstructionInfo) {
	cpu.branch(info, !cpu.Reg.Test(Carry))
}

// Branch if Carry Set
func (cpu *CPU) bcs(info *InstructionInfo) {
	cpu.branch(info, cpu.Reg.Test(Carry))
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(info *InstructionInfo) {
	cpu.branch(info, cpu.Reg.Test(Zero))
}

// Bit Test
func (cpu *CPU) bit(info *InstructionInfo) {
	v := cpu.load(info)
	cpu.Reg.SetTo(Zero, v&cpu.Reg.A == 0)
	cpu.Reg.SetTo(Negative, v&0x80 != 0)
	cpu.Reg.SetTo(Overflow, v&0x40 != 0)
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(info *InstructionInfo) {
	cpu.branch(info, cpu.Reg.Test(Negative))
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(info *InstructionInfo) {
	cpu.branch(info, !cpu.Reg.Test(Zero))
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(info *InstructionInfo) {
	cpu.branch(info, !cpu.Reg.Test(Negative))
}

// Break
func (cpu *CPU) brk(info *InstructionInfo) {
	cpu.handleInterrupt(VectorBRK)
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(info *InstructionInfo) {
	cpu.branch(info, !cpu.Reg.Test(Overflow))
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(info *InstructionInfo) {
	cpu.branch(info, cpu.Reg.Test(Overflow))
}

// Clear Carry flag
func (cpu *CPU) clc(info *InstructionInfo) {
	cpu.Reg.Clear(Carry)
}

// Clear Decimal flag
func (cpu *CPU) cld(info *InstructionInfo) {
	cpu.Reg.Clear(Decimal)
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(info *InstructionInfo) {
	cpu.Reg.Clear(InterruptDisable)
}

// Clear oVerflow flag
func (cpu *CPU) clv(info *InstructionInfo) {
	cpu.Reg.Clear(Overflow)
}

// Compare to accumulator
func (cpu *CPU) cmp(info *InstructionInfo) {
	cpu.compare(cpu.Reg.A, info)
}

// Compare to X register
func (cpu *CPU) cpx(info *InstructionInfo) {
	cpu.compare(cpu.Reg.X, info)
}

// Compare to Y register
func (cpu *CPU) cpy(info *InstructionInfo) {
	cpu.compare(cpu.Reg.Y, info)
}

// Decrement memory value
func (cpu *CPU) dec(info *InstructionInfo) {
	v := cpu.load(info) - 1
	cpu.updateNZ(v)
	cpu.store(info, v)
}

// Decrement X register
func (cpu *CPU) dex(info *InstructionInfo) {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
}

// Decrement Y register
func (cpu *CPU) dey(info *InstructionInfo) {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
}

// Boolean XOR
func (cpu *CPU) eor(info *InstructionInfo) {
	cpu.Reg.A ^= cpu.load(info)
	cpu.updateNZ(cpu.Reg.A)
}

// Increment memory value
func (cpu *CPU) inc(info *InstructionInfo) {
	v := cpu.load(info) + 1
	cpu.updateNZ(v)
	cpu.store(info, v)
}

// Increment X register
func (cpu *CPU) inx(info *InstructionInfo) {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
}

// Increment Y register
func (cpu *CPU) iny(info *InstructionInfo) {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
}

// Jump to memory address. The indirect form was already resolved through
// the page-wrapping pointer fetch.
func (cpu *CPU) jmp(info *InstructionInfo) {
	cpu.Reg.PC = info.Addr
}

// Jump to subroutine
func (cpu *CPU) jsr(info *InstructionInfo) {
	cpu.Push16(cpu.Reg.PC - 1)
	cpu.Reg.PC = info.Addr
}

// load Accumulator
func (cpu *CPU) lda(info *InstructionInfo) {
	cpu.Reg.A = cpu.load(info)
	cpu.updateNZ(cpu.Reg.A)
}

// load the X register
func (cpu *CPU) ldx(info *InstructionInfo) {
	cpu.Reg.X = cpu.load(info)
	cpu.updateNZ(cpu.Reg.X)
}

// load the Y register
func (cpu *CPU) ldy(info *InstructionInfo) {
	cpu.Reg.Y = cpu.load(info)
	cpu.updateNZ(cpu.Reg.Y)
}

// Logical Shift Right
func (cpu *CPU) lsr(info *InstructionInfo) {
	v := cpu.load(info)
	cpu.Reg.SetTo(Carry, v&1 != 0)
	v >>= 1
	cpu.updateNZ(v)
	cpu.store(info, v)
}

// No-operation
func (cpu *CPU) nop(info *InstructionInfo) {
}

// Boolean OR
func (cpu *CPU) ora(info *InstructionInfo) {
	cpu.Reg.A |= cpu.load(info)
	cpu.updateNZ(cpu.Reg.A)
}

// Push Accumulator
func (cpu *CPU) pha(info *InstructionInfo) {
	cpu.Push8(cpu.Reg.A)
}

// Push Processor flags
func (cpu *CPU) php(info *InstructionInfo) {
	cpu.Push8(cpu.Reg.P)
}

// Pull (pop) Accumulator
func (cpu *CPU) pla(info *InstructionInfo) {
	cpu.Reg.A = cpu.Pull8()
	cpu.updateNZ(cpu.Reg.A)
}

// Pull (pop) Processor flags
func (cpu *CPU) plp(info *InstructionInfo) {
	cpu.Reg.P = cpu.Pull8()
}

// Rotate Left
func (cpu *CPU) rol(info *InstructionInfo) {
	tmp := cpu.load(info)
	v := tmp<<1 | boolToByte(cpu.Reg.Test(Carry))
	cpu.Reg.SetTo(Carry, tmp&0x80 != 0)
	cpu.updateNZ(v)
	cpu.store(info, v)
}

// Rotate Right
func (cpu *CPU) ror(info *InstructionInfo) {
	tmp := cpu.load(info)
	v := tmp>>1 | boolToByte(cpu.Reg.Test(Carry))<<7
	cpu.Reg.SetTo(Carry, tmp&1 != 0)
	cpu.updateNZ(v)
	cpu.store(info, v)
}

// Return from Interrupt
func (cpu *CPU) rti(info *InstructionInfo) {
	cpu.Reg.P = cpu.Pull8()
	cpu.Reg.PC = cpu.Pull16()
}

// Return from Subroutine
func (cpu *CPU) rts(info *InstructionInfo) {
	cpu.Reg.PC = cpu.Pull16() + 1
}

// Subtract with Carry
func (cpu *CPU) sbc(info *InstructionInfo) {
	acc := int(cpu.Reg.A)
	sub := int(cpu.load(info))
	v := acc - sub - int(1-boolToByte(cpu.Reg.Test(Carry)))

	cpu.Reg.SetTo(Carry, v >= 0)
	cpu.Reg.SetTo(Overflow, (acc^sub)&0x80 != 0 && (acc^v)&0x80 != 0)

	cpu.Reg.A = byte(v)
	cpu.updateNZ(cpu.Reg.A)
}

// Set Carry flag
func (cpu *CPU) sec(info *InstructionInfo) {
	cpu.Reg.Set(Carry)
}

// Set Decimal flag
func (cpu *CPU) sed(info *InstructionInfo) {
	cpu.Reg.Set(Decimal)
}

// Set InterruptDisable flag
func (cpu *CPU) sei(info *InstructionInfo) {
	cpu.Reg.Set(InterruptDisable)
}

// Store Accumulator
func (cpu *CPU) sta(info *InstructionInfo) {
	cpu.store(info, cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(info *InstructionInfo) {
	cpu.store(info, cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(info *InstructionInfo) {
	cpu.store(info, cpu.Reg.Y)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(info *InstructionInfo) {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(info *InstructionInfo) {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
}

// Transfer stack pointer to X register
func (cpu *CPU) tsx(info *InstructionInfo) {
	cpu.Reg.X = cpu.Reg.S
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(info *InstructionInfo) {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
}

// Transfer X register to the stack pointer
func (cpu *CPU) txs(info *InstructionInfo) {
	cpu.Reg.S = cpu.Reg.X
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(info *InstructionInfo) {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
}

// Unused opcode. The warning has already been logged by Execute.
func (cpu *CPU) unused(info *InstructionInfo) {
}
