// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/nes6502/cpu"

// The debugHandler receives breakpoint notifications from the cpu debugger
// and forwards them to the host.
type debugHandler struct {
	host *Host
}

func newDebugHandler(h *Host) *debugHandler {
	return &debugHandler{host: h}
}

func (h *debugHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.host.onBreakpoint(c, b)
}

func (h *debugHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.host.onDataBreakpoint(c, b)
}
