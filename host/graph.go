// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"os"

	"github.com/beevik/nes6502/cpu"
	"github.com/bradleyjkemp/memviz"
)

// cpuSnapshot is the structure rendered by the graph command.
type cpuSnapshot struct {
	Registers cpu.Registers
	Last      cpu.InstructionInfo
	LastPC    uint16
	Mirroring cpu.Mirroring
}

// writeGraph writes a Graphviz description of the CPU state to a file.
func (h *Host) writeGraph(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	snap := &cpuSnapshot{
		Registers: h.cpu.Reg,
		Last:      h.cpu.Info(),
		LastPC:    h.cpu.LastPC,
		Mirroring: h.mem.Mirroring(),
	}
	memviz.Map(file, snap)

	return file.Close()
}
