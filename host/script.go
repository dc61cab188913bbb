// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// runScript runs a Lua script file with the host's scripting functions
// installed as globals.
func (h *Host) runScript(filename string) error {
	L := lua.NewState()
	defer L.Close()
	h.installScriptFuncs(L)
	h.scriptQuit = false
	return h.scriptErr(L.DoFile(filename))
}

// runScriptString runs a Lua chunk.
func (h *Host) runScriptString(src string) error {
	L := lua.NewState()
	defer L.Close()
	h.installScriptFuncs(L)
	h.scriptQuit = false
	return h.scriptErr(L.DoString(src))
}

// A quit command issued from a script aborts it with a Lua error and sets
// scriptQuit; report errQuit so the command loop still exits.
func (h *Host) scriptErr(err error) error {
	if h.scriptQuit {
		h.scriptQuit = false
		return errQuit
	}
	return err
}

func (h *Host) installScriptFuncs(L *lua.LState) {
	funcs := map[string]lua.LGFunction{
		"peek":    h.luaPeek,
		"poke":    h.luaPoke,
		"step":    h.luaStep,
		"exec":    h.luaExec,
		"reg":     h.luaReg,
		"setreg":  h.luaSetReg,
		"info":    h.luaInfo,
		"command": h.luaCommand,
		"print":   h.luaPrint,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// peek(addr) returns the byte stored at addr.
func (h *Host) luaPeek(L *lua.LState) int {
	addr := L.CheckInt(1)
	L.Push(lua.LNumber(h.mem.LoadByte(uint16(addr))))
	return 1
}

// poke(addr, value [, value...]) stores bytes starting at addr.
func (h *Host) luaPoke(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	for i := 2; i <= L.GetTop(); i++ {
		h.mem.StoreByte(addr, byte(L.CheckInt(i)))
		addr++
	}
	return 0
}

// step([count]) steps the CPU and returns the program counter. Stepping
// stops early on a breakpoint or an unmapped opcode.
func (h *Host) luaStep(L *lua.LState) int {
	count := L.OptInt(1, 1)
	h.setState(stateRunning)
	for i := 0; i < count && h.getState() == stateRunning; i++ {
		if !h.step() {
			break
		}
	}
	h.setState(stateProcessingCommands)
	L.Push(lua.LNumber(h.cpu.Reg.PC))
	return 1
}

// exec(opcode) executes a single opcode at the program counter.
func (h *Host) luaExec(L *lua.LState) int {
	h.cpu.Execute(byte(L.CheckInt(1)))
	L.Push(lua.LNumber(h.cpu.Reg.PC))
	return 1
}

// reg(name) returns the value of a register or flag.
func (h *Host) luaReg(L *lua.LState) int {
	r, err := lookupRegister(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(r.get(&h.cpu.Reg)))
	return 1
}

// setreg(name, value) changes a register or flag.
func (h *Host) luaSetReg(L *lua.LState) int {
	r, err := lookupRegister(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	var v int
	switch lv := L.Get(2).(type) {
	case lua.LBool:
		v = boolToInt(bool(lv))
	default:
		v = L.CheckInt(2)
	}
	r.set(&h.cpu.Reg, v)
	return 0
}

// info() returns a table describing the most recently executed
// instruction.
func (h *Host) luaInfo(L *lua.LState) int {
	info := h.cpu.Info()
	t := L.NewTable()
	t.RawSetString("addr", lua.LNumber(info.Addr))
	t.RawSetString("mode", lua.LString(info.Mode.String()))
	t.RawSetString("opcode", lua.LNumber(info.Opcode))
	L.Push(t)
	return 1
}

// command(line) runs a host command.
func (h *Host) luaCommand(L *lua.LState) int {
	if err := h.processLine(L.CheckString(1)); err != nil {
		if errors.Is(err, errQuit) {
			h.scriptQuit = true
		}
		L.RaiseError("%v", err)
	}
	return 0
}

// print(...) writes its arguments to the host output.
func (h *Host) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	args := make([]string, n)
	for i := 1; i <= n; i++ {
		args[i-1] = L.Get(i).String()
	}
	h.println(strings.Join(args, "\t"))
	return 0
}
