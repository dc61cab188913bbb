// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ines reads NES cartridge images stored in the iNES file format
// and installs their program ROM into CPU memory.
package ines

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/nes6502/logger"
)

// Sizes of the fixed-length parts of an iNES image.
const (
	HeaderSize  = 16
	TrainerSize = 512
	PRGPageSize = 0x4000
	CHRPageSize = 0x2000
)

// Address at which mapper 0 places program ROM.
const prgBase = 0x8000

var magic = []byte{'N', 'E', 'S', 0x1a}

// Errors
var (
	ErrShortHeader       = errors.New("iNES header too short")
	ErrBadMagic          = errors.New("iNES header has invalid magic bytes")
	ErrReservedBytes     = errors.New("iNES header bytes 8-15 not zero")
	ErrTruncated         = errors.New("iNES image truncated")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// Mirroring describes how the PPU nametables are arranged by the
// cartridge.
type Mirroring byte

// Nametable arrangements
const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "four-screen"
	}
}

// Header holds the fields of an iNES header.
type Header struct {
	PRGPages byte // number of 16 KiB program ROM pages
	CHRPages byte // number of 8 KiB character ROM pages
	Flags6   byte
	Flags7   byte
}

// Mapper returns the mapper number assembled from both flag bytes.
func (h Header) Mapper() byte {
	return h.Flags7&0xf0 | h.Flags6>>4
}

// Mirroring returns the nametable arrangement.
func (h Header) Mirroring() Mirroring {
	switch {
	case h.Flags6&0x08 != 0:
		return FourScreen
	case h.Flags6&0x01 != 0:
		return Vertical
	default:
		return Horizontal
	}
}

// Battery returns true if the cartridge has battery-backed PRG RAM.
func (h Header) Battery() bool {
	return h.Flags6&0x02 != 0
}

// Trainer returns true if a 512-byte trainer precedes the program ROM.
func (h Header) Trainer() bool {
	return h.Flags6&0x04 != 0
}

// VSUnisystem returns true for VS Unisystem cartridges.
func (h Header) VSUnisystem() bool {
	return h.Flags7&0x01 != 0
}

// PlayChoice10 returns true for PlayChoice-10 cartridges.
func (h Header) PlayChoice10() bool {
	return h.Flags7&0x02 != 0
}

// IsNES2 returns true if the header uses the NES 2.0 extensions.
func (h Header) IsNES2() bool {
	return h.Flags7&0x0c == 0x08
}

func (h Header) String() string {
	return fmt.Sprintf("PRG=%dx16K CHR=%dx8K mapper=%d mirroring=%s",
		h.PRGPages, h.CHRPages, h.Mapper(), h.Mirroring())
}

// ParseHeader decodes an iNES header from the first HeaderSize bytes of b.
// The returned header is populated even when the header fails validation.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}

	h := Header{
		PRGPages: b[4],
		CHRPages: b[5],
		Flags6:   b[6],
		Flags7:   b[7],
	}

	if !bytes.Equal(b[0:4], magic) {
		return h, ErrBadMagic
	}
	for _, v := range b[8:HeaderSize] {
		if v != 0 {
			return h, ErrReservedBytes
		}
	}
	return h, nil
}

// A ROM is a cartridge image read from an iNES file.
type ROM struct {
	Header  Header
	Trainer []byte
	PRG     []byte
	CHR     []byte
	err     error
}

// Valid returns true if the image was read without error.
func (r *ROM) Valid() bool {
	return r.err == nil
}

// Err returns the error encountered while reading the image, if any.
func (r *ROM) Err() error {
	return r.err
}

// Load reads an iNES image. A ROM is always returned; when the image is
// malformed it holds whatever could be read and the error is also
// available from its Err method.
func Load(r io.Reader) (*ROM, error) {
	rom := &ROM{}

	var hdr [HeaderSize]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		rom.err = fmt.Errorf("%w: read %d bytes", ErrShortHeader, n)
		return rom, rom.err
	}

	rom.Header, rom.err = ParseHeader(hdr[:])
	if rom.err != nil {
		return rom, rom.err
	}

	if rom.Header.Trainer() {
		if rom.Trainer, err = readSection(r, TrainerSize, "trainer"); err != nil {
			rom.err = err
			return rom, err
		}
	}
	if rom.PRG, err = readSection(r, int(rom.Header.PRGPages)*PRGPageSize, "PRG ROM"); err != nil {
		rom.err = err
		return rom, err
	}
	if rom.CHR, err = readSection(r, int(rom.Header.CHRPages)*CHRPageSize, "CHR ROM"); err != nil {
		rom.err = err
		return rom, err
	}

	logger.Logf("ines", "loaded %s", rom.Header)
	return rom, nil
}

func readSection(r io.Reader, size int, name string) ([]byte, error) {
	b := make([]byte, size)
	n, err := io.ReadFull(r, b)
	if err != nil {
		return b[:n], fmt.Errorf("%w: %s has %d of %d bytes", ErrTruncated, name, n, size)
	}
	return b, nil
}

// Open reads an iNES image from a file.
func Open(filename string) (*ROM, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rom, err := Load(file)
	if err != nil {
		return rom, fmt.Errorf("%s: %w", filename, err)
	}
	return rom, nil
}

// Install copies the program ROM into the cartridge space of m. Only
// mapper 0 (NROM) is supported: a single 16 KiB page is mirrored into
// both halves of $8000-$FFFF.
func (r *ROM) Install(m *cpu.Memory) error {
	if !r.Valid() {
		return r.err
	}
	if mapper := r.Header.Mapper(); mapper != 0 {
		return fmt.Errorf("%w: %d", ErrUnsupportedMapper, mapper)
	}
	if len(r.PRG) == 0 {
		return fmt.Errorf("%w: no PRG ROM", ErrTruncated)
	}

	for addr := 0; addr < 0x8000; addr += len(r.PRG) {
		n := min(len(r.PRG), 0x8000-addr)
		m.StoreBytes(uint16(prgBase+addr), r.PRG[:n])
	}

	logger.Logf("ines", "installed %d bytes of PRG ROM at $%04X", len(r.PRG), prgBase)
	return nil
}
