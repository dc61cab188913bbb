package cpu_test

import (
	"strings"
	"testing"

	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/nes6502/logger"
)

const origin = 0x8000

func loadCPU(t *testing.T, code ...byte) *cpu.CPU {
	t.Helper()
	c := cpu.NewCPU(cpu.NewMemory(cpu.MirrorDecode))
	c.Mem.StoreBytes(origin, code)
	c.SetPC(origin)
	return c
}

func stepCPU(c *cpu.CPU, steps int) {
	for i := 0; i < steps; i++ {
		c.Step()
	}
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	t.Helper()
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp byte) {
	t.Helper()
	if c.Reg.S != sp {
		t.Errorf("stack pointer incorrect. exp: $%02X, got: $%02X", sp, c.Reg.S)
	}
}

func expectMem(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	t.Helper()
	got := c.Mem.LoadByte(addr)
	if got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func expectFlag(t *testing.T, c *cpu.CPU, f cpu.Flag, name string, set bool) {
	t.Helper()
	if c.Reg.Test(f) != set {
		t.Errorf("%s flag incorrect. exp: %v, got: %v (P=$%02X)", name, set, !set, c.Reg.P)
	}
}

// Write an instruction at the origin whose operand resolves to an address
// holding v, then execute it.
func execWithOperand(t *testing.T, c *cpu.CPU, inst cpu.Instruction, v byte) {
	t.Helper()
	c.Mem.StoreBytes(origin, []byte{inst.Opcode, 0x10, 0x03})
	c.Mem.StoreAddress(0x10, 0x0300)
	c.Mem.StoreAddress(0x12, 0x0400)
	c.SetPC(origin)

	addr, n := c.Resolve(inst.Mode, origin)
	if n != inst.Mode.Size() {
		t.Errorf("%s %s resolve size incorrect. exp: %d, got: %d", inst.Name, inst.Mode, inst.Mode.Size(), n)
	}
	c.Mem.StoreByte(addr, v)

	c.Execute(inst.Opcode)
	expectPC(t, c, origin+uint16(inst.Length))
}

func TestPowerOn(t *testing.T) {
	c := cpu.NewCPU(nil)
	if c.Reg.A != 0 || c.Reg.X != 0 || c.Reg.Y != 0 {
		t.Errorf("registers not cleared: %+v", c.Reg)
	}
	expectSP(t, c, 0xfd)
	expectPC(t, c, 0)
	if c.Reg.P != cpu.PowerOnStatus {
		t.Errorf("status incorrect. exp: $%02X, got: $%02X", cpu.PowerOnStatus, c.Reg.P)
	}
	expectFlag(t, c, cpu.InterruptDisable, "I", true)
	if c.Mem.Mirroring() != cpu.MirrorDecode {
		t.Errorf("default mirroring incorrect")
	}
}

func TestAccumulator(t *testing.T) {
	c := loadCPU(t,
		0xa9, 0x5e,       // LDA #$5E
		0x85, 0x15,       // STA $15
		0x8d, 0x00, 0x05, // STA $0500
	)
	stepCPU(c, 3)

	expectPC(t, c, 0x8007)
	expectACC(t, c, 0x5e)
	expectMem(t, c, 0x15, 0x5e)
	expectMem(t, c, 0x0500, 0x5e)
}

func TestStack(t *testing.T) {
	c := loadCPU(t,
		0xa9, 0x11, 0x48,       // LDA #$11, PHA
		0xa9, 0x12, 0x48,       // LDA #$12, PHA
		0xa9, 0x13, 0x48,       // LDA #$13, PHA
		0x68, 0x8d, 0x00, 0x60, // PLA, STA $6000
		0x68, 0x8d, 0x01, 0x60, // PLA, STA $6001
		0x68, 0x8d, 0x02, 0x60, // PLA, STA $6002
	)
	stepCPU(c, 6)

	expectSP(t, c, 0xfa)
	expectACC(t, c, 0x13)
	expectMem(t, c, 0x1fd, 0x11)
	expectMem(t, c, 0x1fc, 0x12)
	expectMem(t, c, 0x1fb, 0x13)

	stepCPU(c, 6)
	expectACC(t, c, 0x11)
	expectSP(t, c, 0xfd)
	expectMem(t, c, 0x6000, 0x13)
	expectMem(t, c, 0x6001, 0x12)
	expectMem(t, c, 0x6002, 0x11)
}

func TestPushPull(t *testing.T) {
	c := cpu.NewCPU(nil)

	c.Push16(0x1234)
	expectSP(t, c, 0xfb)
	expectMem(t, c, 0x1fd, 0x12)
	expectMem(t, c, 0x1fc, 0x34)

	c.Push8(0x56)
	if v := c.Pull8(); v != 0x56 {
		t.Errorf("Pull8 incorrect. exp: $56, got: $%02X", v)
	}
	if v := c.Pull16(); v != 0x1234 {
		t.Errorf("Pull16 incorrect. exp: $1234, got: $%04X", v)
	}
	expectSP(t, c, 0xfd)
}

func TestStackWrap(t *testing.T) {
	c := cpu.NewCPU(nil)

	c.Reg.S = 0x00
	c.Push8(0x5a)
	expectMem(t, c, 0x0100, 0x5a)
	expectSP(t, c, 0xff)

	c.Mem.StoreByte(0x0100, 0xa5)
	if v := c.Pull8(); v != 0xa5 {
		t.Errorf("Pull8 incorrect. exp: $A5, got: $%02X", v)
	}
	expectSP(t, c, 0x00)

	// A word pushed across the bottom of the stack wraps to the top.
	c.Push16(0xbeef)
	expectMem(t, c, 0x0100, 0xbe)
	expectMem(t, c, 0x01ff, 0xef)
	expectSP(t, c, 0xfe)
	if v := c.Pull16(); v != 0xbeef {
		t.Errorf("Pull16 incorrect. exp: $BEEF, got: $%04X", v)
	}
	expectSP(t, c, 0x00)
}

func TestStackRoundTrip(t *testing.T) {
	c := cpu.NewCPU(nil)
	for i := 0; i < 256; i++ {
		v, s := byte(i), byte(i*7)

		c.Reg.S = s
		c.Push8(v)
		if got := c.Pull8(); got != v || c.Reg.S != s {
			t.Errorf("Push8/Pull8 $%02X at S=$%02X incorrect. got: $%02X, S=$%02X", v, s, got, c.Reg.S)
		}

		w := uint16(i)<<8 | uint16(^v)
		c.Push16(w)
		if got := c.Pull16(); got != w || c.Reg.S != s {
			t.Errorf("Push16/Pull16 $%04X at S=$%02X incorrect. got: $%04X, S=$%02X", w, s, got, c.Reg.S)
		}
	}
}

func TestBRK(t *testing.T) {
	c := cpu.NewCPU(nil)
	c.Reg.Clear(cpu.InterruptDisable)
	c.Mem.StoreByte(cpu.VectorBRK, 0x34)
	p := c.Reg.P

	c.Execute(0x00)

	expectFlag(t, c, cpu.InterruptDisable, "I", true)
	expectPC(t, c, 0x0034)
	if v := c.Pull8(); v != p {
		t.Errorf("pushed status incorrect. exp: $%02X, got: $%02X", p, v)
	}
	if v := c.Pull16(); v != 2 {
		t.Errorf("pushed PC incorrect. exp: $0002, got: $%04X", v)
	}
}

func TestFlagInstructions(t *testing.T) {
	c := cpu.NewCPU(nil)
	c.Reg.P = 0

	c.Execute(0x78) // SEI
	expectFlag(t, c, cpu.InterruptDisable, "I", true)
	expectPC(t, c, 1)

	c.Execute(0xf8) // SED
	expectFlag(t, c, cpu.Decimal, "D", true)
	c.Execute(0xd8) // CLD
	expectFlag(t, c, cpu.Decimal, "D", false)

	c.Execute(0x38) // SEC
	expectFlag(t, c, cpu.Carry, "C", true)
	c.Execute(0x18) // CLC
	expectFlag(t, c, cpu.Carry, "C", false)

	c.Execute(0x58) // CLI
	expectFlag(t, c, cpu.InterruptDisable, "I", false)

	c.Reg.Set(cpu.Overflow)
	c.Execute(0xb8) // CLV
	expectFlag(t, c, cpu.Overflow, "V", false)
	expectPC(t, c, 7)
}

func TestLoads(t *testing.T) {
	regs := []struct {
		name string
		get  func(c *cpu.CPU) byte
	}{
		{"LDA", func(c *cpu.CPU) byte { return c.Reg.A }},
		{"LDX", func(c *cpu.CPU) byte { return c.Reg.X }},
		{"LDY", func(c *cpu.CPU) byte { return c.Reg.Y }},
	}

	for _, r := range regs {
		insts := cpu.GetInstructionSet().GetInstructions(r.name)
		if len(insts) == 0 {
			t.Fatalf("no variants of %s", r.name)
		}
		for _, inst := range insts {
			for _, v := range []byte{0x00, 0xff} {
				c := cpu.NewCPU(nil)
				c.Reg.X, c.Reg.Y = 2, 2
				execWithOperand(t, c, inst, v)

				if got := r.get(c); got != v {
					t.Errorf("%s %s loaded $%02X, exp $%02X", r.name, inst.Mode, got, v)
				}
				expectFlag(t, c, cpu.Zero, "Z", v == 0)
				expectFlag(t, c, cpu.Negative, "N", v&0x80 != 0)
			}
		}
	}
}

func TestORAModes(t *testing.T) {
	insts := cpu.GetInstructionSet().GetInstructions("ORA")
	if len(insts) != 8 {
		t.Fatalf("ORA variant count incorrect. exp: 8, got: %d", len(insts))
	}
	for _, inst := range insts {
		c := cpu.NewCPU(nil)
		c.Reg.A = 0xf0
		c.Reg.X, c.Reg.Y = 2, 2
		execWithOperand(t, c, inst, 0x0f)
		expectACC(t, c, 0xff)
		expectFlag(t, c, cpu.Negative, "N", true)
		expectFlag(t, c, cpu.Zero, "Z", false)
	}
}

func TestLogic(t *testing.T) {
	c := loadCPU(t,
		0xa9, 0xf0, // LDA #$F0
		0x29, 0x3c, // AND #$3C
		0x49, 0xff, // EOR #$FF
		0x29, 0x00, // AND #$00
	)
	stepCPU(c, 2)
	expectACC(t, c, 0x30)
	c.Step()
	expectACC(t, c, 0xcf)
	expectFlag(t, c, cpu.Negative, "N", true)
	c.Step()
	expectACC(t, c, 0x00)
	expectFlag(t, c, cpu.Zero, "Z", true)
}

func TestADC(t *testing.T) {
	tests := []struct {
		a, m     byte
		carry    bool
		r        byte
		c, v, z  bool
		negative bool
	}{
		{0xf0, 0x0f, false, 0xff, false, false, false, true},
		{0x50, 0x50, false, 0xa0, false, true, false, true},
		{0xff, 0x01, false, 0x00, true, false, true, false},
		{0x01, 0x01, true, 0x03, false, false, false, false},
		{0x80, 0x80, false, 0x00, true, true, true, false},
	}

	for i, tc := range tests {
		c := loadCPU(t, 0x69, tc.m) // ADC #m
		c.Reg.A = tc.a
		c.Reg.SetTo(cpu.Carry, tc.carry)
		c.Step()
		if c.Reg.A != tc.r {
			t.Errorf("case %d: result incorrect. exp: $%02X, got: $%02X", i, tc.r, c.Reg.A)
		}
		expectFlag(t, c, cpu.Carry, "C", tc.c)
		expectFlag(t, c, cpu.Overflow, "V", tc.v)
		expectFlag(t, c, cpu.Zero, "Z", tc.z)
		expectFlag(t, c, cpu.Negative, "N", tc.negative)
	}
}

func TestSBC(t *testing.T) {
	tests := []struct {
		a, m  byte
		carry bool
		r     byte
		c, v  bool
	}{
		{0xff, 0x0f, true, 0xf0, true, false},
		{0x00, 0x01, true, 0xff, false, false},
		{0x80, 0x01, true, 0x7f, true, true},
		{0x05, 0x02, false, 0x02, true, false},
		{0x7f, 0xff, true, 0x80, false, true},
	}

	for i, tc := range tests {
		c := loadCPU(t, 0xe9, tc.m) // SBC #m
		c.Reg.A = tc.a
		c.Reg.SetTo(cpu.Carry, tc.carry)
		c.Step()
		if c.Reg.A != tc.r {
			t.Errorf("case %d: result incorrect. exp: $%02X, got: $%02X", i, tc.r, c.Reg.A)
		}
		expectFlag(t, c, cpu.Carry, "C", tc.c)
		expectFlag(t, c, cpu.Overflow, "V", tc.v)
	}
}

func TestCompare(t *testing.T) {
	c := loadCPU(t,
		0xc9, 0x40, // CMP #$40
		0xc9, 0x41, // CMP #$41
		0xe0, 0x10, // CPX #$10
		0xc0, 0x20, // CPY #$20
	)
	c.Reg.A, c.Reg.X, c.Reg.Y = 0x40, 0x20, 0x10

	c.Step()
	expectFlag(t, c, cpu.Zero, "Z", true)
	expectFlag(t, c, cpu.Carry, "C", true)

	c.Step()
	expectFlag(t, c, cpu.Zero, "Z", false)
	expectFlag(t, c, cpu.Carry, "C", false)
	expectFlag(t, c, cpu.Negative, "N", true)

	c.Step()
	expectFlag(t, c, cpu.Carry, "C", true)
	expectFlag(t, c, cpu.Zero, "Z", false)

	c.Step()
	expectFlag(t, c, cpu.Carry, "C", false)
	expectACC(t, c, 0x40)
}

func TestShifts(t *testing.T) {
	c := cpu.NewCPU(nil)

	c.Reg.A = 0x81
	c.Execute(0x0a) // ASL A
	expectACC(t, c, 0x02)
	expectFlag(t, c, cpu.Carry, "C", true)

	c.Reg.A = 0x01
	c.Execute(0x4a) // LSR A
	expectACC(t, c, 0x00)
	expectFlag(t, c, cpu.Carry, "C", true)
	expectFlag(t, c, cpu.Zero, "Z", true)

	c.Reg.A = 0x80
	c.Reg.Set(cpu.Carry)
	c.Execute(0x2a) // ROL A
	expectACC(t, c, 0x01)
	expectFlag(t, c, cpu.Carry, "C", true)

	c.Reg.A = 0x01
	c.Execute(0x6a) // ROR A
	expectACC(t, c, 0x80)
	expectFlag(t, c, cpu.Carry, "C", true)
	expectFlag(t, c, cpu.Negative, "N", true)
	expectPC(t, c, 4)

	m := loadCPU(t,
		0x06, 0x10, // ASL $10
		0x46, 0x11, // LSR $11
	)
	m.Mem.StoreByte(0x10, 0x40)
	m.Mem.StoreByte(0x11, 0x02)
	m.Reg.A = 0x55
	stepCPU(m, 2)
	expectMem(t, m, 0x10, 0x80)
	expectMem(t, m, 0x11, 0x01)
	expectACC(t, m, 0x55)
	expectFlag(t, m, cpu.Carry, "C", false)
}

func TestBranches(t *testing.T) {
	c := loadCPU(t, 0xf0, 0x04) // BEQ +4
	c.Reg.Set(cpu.Zero)
	c.Step()
	expectPC(t, c, 0x8006)

	c = loadCPU(t, 0xd0, 0x04) // BNE +4
	c.Reg.Set(cpu.Zero)
	c.Step()
	expectPC(t, c, 0x8002)

	c = loadCPU(t, 0x90, 0xfc) // BCC -4
	c.Reg.Clear(cpu.Carry)
	c.Step()
	expectPC(t, c, 0x7ffe)

	branches := []struct {
		opcode byte
		flag   cpu.Flag
		taken  bool
	}{
		{0x10, cpu.Negative, false}, // BPL
		{0x30, cpu.Negative, true},  // BMI
		{0x50, cpu.Overflow, false}, // BVC
		{0x70, cpu.Overflow, true},  // BVS
		{0x90, cpu.Carry, false},    // BCC
		{0xb0, cpu.Carry, true},     // BCS
		{0xd0, cpu.Zero, false},     // BNE
		{0xf0, cpu.Zero, true},      // BEQ
	}
	for _, b := range branches {
		for _, set := range []bool{false, true} {
			c := loadCPU(t, b.opcode, 0x10)
			c.Reg.SetTo(b.flag, set)
			c.Step()
			exp := uint16(0x8002)
			if set == b.taken {
				exp = 0x8012
			}
			if c.Reg.PC != exp {
				t.Errorf("%s with flag=%v: PC exp $%04X, got $%04X",
					cpu.Lookup(b.opcode).Name, set, exp, c.Reg.PC)
			}
		}
	}
}

func TestJMPIndirectBug(t *testing.T) {
	c := loadCPU(t, 0x6c, 0xff, 0x02) // JMP ($02FF)
	c.Mem.StoreByte(0x02ff, 0x34)
	c.Mem.StoreByte(0x0200, 0x12)
	c.Mem.StoreByte(0x0300, 0x56)
	c.Step()
	expectPC(t, c, 0x1234)

	c = loadCPU(t, 0x4c, 0x00, 0x90) // JMP $9000
	c.Step()
	expectPC(t, c, 0x9000)
}

func TestSubroutine(t *testing.T) {
	c := loadCPU(t, 0x20, 0x00, 0x90, 0xea) // JSR $9000, NOP
	c.Mem.StoreByte(0x9000, 0x60)            // RTS

	c.Step()
	expectPC(t, c, 0x9000)
	expectSP(t, c, 0xfb)
	expectMem(t, c, 0x1fd, 0x80)
	expectMem(t, c, 0x1fc, 0x02)

	c.Step()
	expectPC(t, c, 0x8003)
	expectSP(t, c, 0xfd)
}

func TestRTI(t *testing.T) {
	c := cpu.NewCPU(nil)
	c.Push16(0x1234)
	c.Push8(0xc3)
	c.Execute(0x40) // RTI
	expectPC(t, c, 0x1234)
	if c.Reg.P != 0xc3 {
		t.Errorf("status incorrect. exp: $C3, got: $%02X", c.Reg.P)
	}
}

func TestBIT(t *testing.T) {
	c := loadCPU(t, 0x24, 0x10, 0x2c, 0x11, 0x00) // BIT $10, BIT $0011
	c.Mem.StoreByte(0x10, 0xc0)
	c.Mem.StoreByte(0x11, 0x01)
	c.Reg.A = 0x01

	c.Step()
	expectFlag(t, c, cpu.Zero, "Z", true)
	expectFlag(t, c, cpu.Negative, "N", true)
	expectFlag(t, c, cpu.Overflow, "V", true)

	c.Step()
	expectFlag(t, c, cpu.Zero, "Z", false)
	expectFlag(t, c, cpu.Negative, "N", false)
	expectFlag(t, c, cpu.Overflow, "V", false)
	expectACC(t, c, 0x01)
}

func TestIncDec(t *testing.T) {
	c := loadCPU(t,
		0xe6, 0x10, // INC $10
		0xc6, 0x11, // DEC $11
		0xe8,       // INX
		0x88,       // DEY
		0xc8,       // INY
		0xca,       // DEX
	)
	c.Mem.StoreByte(0x10, 0xff)
	c.Reg.X = 0xff

	c.Step()
	expectMem(t, c, 0x10, 0x00)
	expectFlag(t, c, cpu.Zero, "Z", true)

	c.Step()
	expectMem(t, c, 0x11, 0xff)
	expectFlag(t, c, cpu.Negative, "N", true)

	c.Step()
	if c.Reg.X != 0 {
		t.Errorf("X incorrect. exp: $00, got: $%02X", c.Reg.X)
	}
	c.Step()
	if c.Reg.Y != 0xff {
		t.Errorf("Y incorrect. exp: $FF, got: $%02X", c.Reg.Y)
	}
	c.Step()
	expectFlag(t, c, cpu.Zero, "Z", true)
	c.Step()
	if c.Reg.X != 0xff {
		t.Errorf("X incorrect. exp: $FF, got: $%02X", c.Reg.X)
	}
}

func TestTransfers(t *testing.T) {
	c := loadCPU(t,
		0xaa,       // TAX
		0xa8,       // TAY
		0x9a,       // TXS
		0xa9, 0x00, // LDA #$00
		0x8a,       // TXA
		0xa2, 0x00, // LDX #$00
		0xba,       // TSX
		0x98,       // TYA
	)
	c.Reg.A = 0x80
	stepCPU(c, 3)
	if c.Reg.X != 0x80 || c.Reg.Y != 0x80 {
		t.Errorf("X/Y incorrect: $%02X/$%02X", c.Reg.X, c.Reg.Y)
	}
	expectSP(t, c, 0x80)

	stepCPU(c, 2)
	expectACC(t, c, 0x80)
	expectFlag(t, c, cpu.Negative, "N", true)

	stepCPU(c, 2)
	if c.Reg.X != 0x80 {
		t.Errorf("TSX incorrect. exp: $80, got: $%02X", c.Reg.X)
	}
	c.Step()
	expectACC(t, c, 0x80)
}

func TestStoreModes(t *testing.T) {
	c := loadCPU(t,
		0x96, 0xff, // STX $FF,Y
		0x94, 0xff, // STY $FF,X
		0x91, 0x20, // STA ($20),Y
	)
	c.Reg.A, c.Reg.X, c.Reg.Y = 0x33, 0x03, 0x01
	c.Mem.StoreAddress(0x20, 0x02ff)
	stepCPU(c, 3)

	expectMem(t, c, 0x0000, 0x03)
	expectMem(t, c, 0x0002, 0x01)
	expectMem(t, c, 0x0300, 0x33)
}

func TestPHPPLP(t *testing.T) {
	c := loadCPU(t, 0x08, 0x28, 0x48, 0x68) // PHP, PLP, PHA, PLA
	c.Reg.P = 0xc3
	c.Step()
	c.Reg.P = 0
	c.Step()
	if c.Reg.P != 0xc3 {
		t.Errorf("status incorrect. exp: $C3, got: $%02X", c.Reg.P)
	}

	c.Reg.A = 0x00
	c.Step()
	c.Reg.A = 0x55
	c.Step()
	expectACC(t, c, 0x00)
	expectFlag(t, c, cpu.Zero, "Z", true)
	expectSP(t, c, 0xfd)
}

func TestUnmappedOpcode(t *testing.T) {
	logger.Clear()
	c := loadCPU(t, 0x02)
	reg := c.Reg

	c.Step()

	if c.Reg != reg {
		t.Errorf("registers changed. exp: %+v, got: %+v", reg, c.Reg)
	}
	info := c.Info()
	if info.Mode != cpu.NoMap || info.Addr != 0 || info.Opcode != 0x02 {
		t.Errorf("info incorrect: %+v", info)
	}

	entries := logger.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Detail, "unmapped opcode $02 at $8000") {
		t.Errorf("missing unmapped opcode warning: %v", entries)
	}
}

func TestReset(t *testing.T) {
	c := cpu.NewCPU(nil)
	c.Mem.StoreAddress(cpu.VectorReset, 0x8123)
	c.Reg.A, c.Reg.S, c.Reg.P = 0x12, 0x40, 0xff
	c.Reset()
	expectPC(t, c, 0x8123)
	expectACC(t, c, 0)
	expectSP(t, c, 0xfd)
}

func TestInterrupts(t *testing.T) {
	c := cpu.NewCPU(nil)
	c.Mem.StoreAddress(cpu.VectorNMI, 0x9000)
	c.Mem.StoreByte(cpu.VectorIRQ, 0x40)
	c.SetPC(0x8100)

	c.IRQ()
	expectPC(t, c, 0x8100)
	expectSP(t, c, 0xfd)

	c.NMI()
	expectPC(t, c, 0x9000)
	expectSP(t, c, 0xfa)
	expectMem(t, c, 0x1fd, 0x81)
	expectMem(t, c, 0x1fc, 0x00)

	c.Reg.Clear(cpu.InterruptDisable)
	c.IRQ()
	expectPC(t, c, 0x0040)
	expectFlag(t, c, cpu.InterruptDisable, "I", true)
}

func TestInfo(t *testing.T) {
	c := loadCPU(t, 0xbd, 0x00, 0x03) // LDA $0300,X
	c.Reg.X = 4
	c.Step()
	info := c.Info()
	if info.Addr != 0x0304 || info.Mode != cpu.ABX || info.Opcode != 0xbd {
		t.Errorf("info incorrect: %+v", info)
	}
	if c.LastPC != origin {
		t.Errorf("LastPC incorrect. exp: $%04X, got: $%04X", origin, c.LastPC)
	}
}
