// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Size is the number of bytes in the CPU's memory array. Address $FFFF
// lies one past its end and has no storage.
const Size = 0xffff

// A Region names a fixed window of the CPU address space.
type Region byte

// Memory regions, in address order.
const (
	RAM                Region = iota // work RAM
	RAMMirror0                       // first mirror of work RAM
	RAMMirror1                       // second mirror of work RAM
	RAMMirror2                       // third mirror of work RAM
	PPURegisters                     // picture processor registers
	PPURegisterMirrors               // 1023 mirrors of the PPU registers
	APUIORegisters                   // audio and I/O registers
	APUIOTestMode                    // normally disabled APU/IO test registers
	CartridgeSpace                   // cartridge PRG ROM, PRG RAM and mapper registers
	numRegions
)

const (
	ramSize        = 0x0800
	ppuRegsSize    = 0x0008
	numPPUMirrors  = 1023
	apuIORegsSize  = 0x0018
	apuIOTestSize  = 0x0008
	cartridgeSize  = 0xbfe0
	ramMirrorsEnd  = 0x2000
	ppuMirrorsEnd  = 0x4000
	ramAddressMask = ramSize - 1
	ppuAddressMask = ppuRegsSize - 1
)

type regionInfo struct {
	name   string
	offset int
	size   int
}

var regions = func() [numRegions]regionInfo {
	sizes := [numRegions]struct {
		name string
		size int
	}{
		{"RAM", ramSize},
		{"RAM mirror 0", ramSize},
		{"RAM mirror 1", ramSize},
		{"RAM mirror 2", ramSize},
		{"PPU registers", ppuRegsSize},
		{"PPU register mirrors", ppuRegsSize * numPPUMirrors},
		{"APU/IO registers", apuIORegsSize},
		{"APU/IO test mode", apuIOTestSize},
		{"cartridge space", cartridgeSize},
	}

	var r [numRegions]regionInfo
	offset := 0
	for i, s := range sizes {
		r[i] = regionInfo{name: s.name, offset: offset, size: s.size}
		offset += s.size
	}
	return r
}()

// Offset returns the address of the first byte of the region.
func (r Region) Offset() uint16 {
	return uint16(regions[r].offset)
}

// Size returns the nominal size of the region in bytes.
func (r Region) Size() int {
	return regions[r].size
}

func (r Region) String() string {
	if r >= numRegions {
		return "unknown region"
	}
	return regions[r].name
}

// Mirroring selects how the mirror regions relate to the regions they
// mirror.
type Mirroring byte

const (
	// MirrorDecode aliases the RAM mirrors onto RAM and the PPU register
	// mirrors onto the PPU registers at access time, the way the console's
	// address decoder does.
	MirrorDecode Mirroring = iota

	// MirrorNone treats every mirror region as independent storage.
	MirrorNone
)

// Memory is the CPU's flat address space. Each named region is a window
// into a single backing array.
type Memory struct {
	b         [Size]byte
	mirroring Mirroring
}

// NewMemory creates a zeroed address space using the requested mirroring.
func NewMemory(mirroring Mirroring) *Memory {
	return &Memory{mirroring: mirroring}
}

// Mirroring returns the mirroring mode the memory was created with.
func (m *Memory) Mirroring() Mirroring {
	return m.mirroring
}

// Raw returns the entire backing array.
func (m *Memory) Raw() []byte {
	return m.b[:]
}

// Region returns the slice of the backing array holding region r. The
// cartridge region is clipped to the end of the array.
func (m *Memory) Region(r Region) []byte {
	info := regions[r]
	end := info.offset + info.size
	if end > Size {
		end = Size
	}
	return m.b[info.offset:end:end]
}

// decode maps a CPU address to an index into the backing array. It returns
// false for the one address with no storage.
func (m *Memory) decode(addr uint16) (int, bool) {
	if m.mirroring == MirrorDecode {
		switch {
		case addr < ramMirrorsEnd:
			addr &= ramAddressMask
		case addr < ppuMirrorsEnd:
			addr = PPURegisters.Offset() | addr&ppuAddressMask
		}
	}
	if int(addr) >= Size {
		return 0, false
	}
	return int(addr), true
}

// Canonical returns the address whose storage backs addr. Mirrors decode
// to the address they alias; every other address is its own canonical
// address.
func (m *Memory) Canonical(addr uint16) uint16 {
	if i, ok := m.decode(addr); ok {
		return uint16(i)
	}
	return addr
}

// LoadByte loads a single byte from the address and returns it.
func (m *Memory) LoadByte(addr uint16) byte {
	i, ok := m.decode(addr)
	if !ok {
		return 0
	}
	return m.b[i]
}

// StoreByte stores a byte at the requested address.
func (m *Memory) StoreByte(addr uint16, v byte) {
	if i, ok := m.decode(addr); ok {
		m.b[i] = v
	}
}

// LoadBytes loads len(b) consecutive bytes starting at addr. Addresses
// wrap at the top of the address space.
func (m *Memory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.LoadByte(addr + uint16(i))
	}
}

// StoreBytes stores the bytes of b starting at addr.
func (m *Memory) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		m.StoreByte(addr+uint16(i), v)
	}
}

// LoadAddress loads a little-endian 16-bit value from addr and addr+1.
func (m *Memory) LoadAddress(addr uint16) uint16 {
	return uint16(m.LoadByte(addr)) | uint16(m.LoadByte(addr+1))<<8
}

// StoreAddress stores a 16-bit value in little-endian order.
func (m *Memory) StoreAddress(addr uint16, v uint16) {
	m.StoreByte(addr, byte(v))
	m.StoreByte(addr+1, byte(v>>8))
}

// LoadAddressBug loads a 16-bit pointer the way the 6502 does for indirect
// addressing: incrementing the low byte of the pointer address never
// carries into the high byte. For example, a pointer at $02FF is read from
// $02FF (low byte) and $0200 (high byte).
func (m *Memory) LoadAddressBug(addr uint16) uint16 {
	hiAddr := addr&0xff00 | (addr+1)&0x00ff
	return uint16(m.LoadByte(addr)) | uint16(m.LoadByte(hiAddr))<<8
}

// Return the offset address 'addr' + 'offset'.
func offsetAddress(addr uint16, offset byte) uint16 {
	return addr + uint16(offset)
}

// Offset a zero-page address 'addr' by 'offset'. If the address
// exceeds the zero-page address space, wrap it.
func offsetZeroPage(addr byte, offset byte) uint16 {
	return uint16(addr+offset) & 0x00ff
}

// Given a 1-byte stack pointer register, return the stack
// corresponding memory address.
func stackAddress(offset byte) uint16 {
	return uint16(0x100) + uint16(offset)
}
