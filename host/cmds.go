// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/prefixtree/v2"
)

// A command is the data attached to each node of the command tree.
type command struct {
	name        string
	brief       string
	description string
	usage       string
	handler     func(*Host, cmd.Selection) error
}

// A commandGroup lists the commands of the root tree or of one subtree,
// for help display.
type commandGroup struct {
	name     string
	brief    string
	commands []*command
}

var (
	cmds       *cmd.Tree
	rootGroup  *commandGroup
	groupTree  = prefixtree.New[*commandGroup]()
	groupOrder []*commandGroup
)

type treeBuilder struct {
	tree  *cmd.Tree
	group *commandGroup
}

func (b *treeBuilder) add(c *command) {
	b.tree.AddCommand(cmd.CommandDescriptor{
		Name:        c.name,
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        c,
	})
	b.group.commands = append(b.group.commands, c)
}

func (b *treeBuilder) subtree(name, brief string) *treeBuilder {
	g := &commandGroup{name: name, brief: brief}
	groupTree.Add(name, g)
	groupOrder = append(groupOrder, g)
	return &treeBuilder{
		tree:  b.tree.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief}),
		group: g,
	}
}

func init() {
	rootGroup = &commandGroup{name: "nes6502"}
	root := &treeBuilder{
		tree:  cmd.NewTree(cmd.TreeDescriptor{Name: "nes6502"}),
		group: rootGroup,
	}

	root.add(&command{
		name:        "help",
		description: "Display help for a command.",
		usage:       "help [<command>]",
		handler:     (*Host).cmdHelp,
	})

	// Breakpoint commands
	bp := root.subtree("breakpoint", "Breakpoint commands")
	bp.add(&command{
		name:        "list",
		brief:       "List breakpoints",
		description: "List all current breakpoints.",
		usage:       "breakpoint list",
		handler:     (*Host).cmdBreakpointList,
	})
	bp.add(&command{
		name:  "add",
		brief: "Add a breakpoint",
		description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		usage:   "breakpoint add <address>",
		handler: (*Host).cmdBreakpointAdd,
	})
	bp.add(&command{
		name:        "remove",
		brief:       "Remove a breakpoint",
		description: "Remove a breakpoint at the specified address.",
		usage:       "breakpoint remove <address>",
		handler:     (*Host).cmdBreakpointRemove,
	})

	// Data breakpoint commands
	db := root.subtree("databreakpoint", "Data breakpoint commands")
	db.add(&command{
		name:        "list",
		brief:       "List data breakpoints",
		description: "List all current data breakpoints.",
		usage:       "databreakpoint list",
		handler:     (*Host).cmdDataBreakpointList,
	})
	db.add(&command{
		name:  "add",
		brief: "Add a data breakpoint",
		description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address," +
			" or at one of its mirrors, the breakpoint will stop the CPU." +
			" Optionally, a byte value may be specified, and the CPU will" +
			" stop only when this value is stored.",
		usage:   "databreakpoint add <address> [<value>]",
		handler: (*Host).cmdDataBreakpointAdd,
	})
	db.add(&command{
		name:  "remove",
		brief: "Remove a data breakpoint",
		description: "Remove a previously added data breakpoint at" +
			" the specified memory address.",
		usage:   "databreakpoint remove <address>",
		handler: (*Host).cmdDataBreakpointRemove,
	})

	root.add(&command{
		name:  "binary",
		brief: "Load a raw binary file",
		description: "Load the contents of a raw binary file into memory" +
			" at the specified address, and set the program counter to" +
			" that address.",
		usage:   "binary <filename> <address>",
		handler: (*Host).cmdBinary,
	})
	root.add(&command{
		name:  "disassemble",
		brief: "Disassemble code",
		description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		usage:   "disassemble [<address>] [<lines>]",
		handler: (*Host).cmdDisassemble,
	})
	root.add(&command{
		name:  "exec",
		brief: "Execute a single opcode",
		description: "Execute the instruction selected by an opcode as" +
			" though it were stored at the program counter. Operand bytes" +
			" are read from memory following the program counter.",
		usage:   "exec <opcode>",
		handler: (*Host).cmdExec,
	})
	root.add(&command{
		name:  "graph",
		brief: "Write a graph of the CPU state",
		description: "Write a Graphviz description of the CPU registers and" +
			" the most recently executed instruction to a file.",
		usage:   "graph <filename>",
		handler: (*Host).cmdGraph,
	})
	root.add(&command{
		name:  "info",
		brief: "Display the last instruction",
		description: "Display the opcode, addressing mode and effective" +
			" address of the most recently executed instruction.",
		usage:   "info",
		handler: (*Host).cmdInfo,
	})
	root.add(&command{
		name:  "load",
		brief: "Load an iNES cartridge image",
		description: "Load an iNES cartridge image, install its program" +
			" ROM into cartridge space and reset the CPU through the reset" +
			" vector.",
		usage:   "load <filename>",
		handler: (*Host).cmdLoad,
	})
	root.add(&command{
		name:  "log",
		brief: "Display the log",
		description: "Display the most recent log entries. If no count" +
			" is given, the entire log is displayed.",
		usage:   "log [<count>]",
		handler: (*Host).cmdLog,
	})

	// Memory commands
	me := root.subtree("memory", "Memory commands")
	me.add(&command{
		name:  "dump",
		brief: "Dump memory at address",
		description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		usage:   "memory dump [<address>] [<bytes>]",
		handler: (*Host).cmdMemoryDump,
	})
	me.add(&command{
		name:  "set",
		brief: "Set memory at address",
		description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values.",
		usage:   "memory set <address> <byte> [<byte> ...]",
		handler: (*Host).cmdMemorySet,
	})

	root.add(&command{
		name:        "quit",
		brief:       "Quit the program",
		description: "Quit the program.",
		usage:       "quit",
		handler:     (*Host).cmdQuit,
	})
	root.add(&command{
		name:  "register",
		brief: "View or change register values",
		description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers. When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y, PC, SP and STATUS." +
			" Allowed status flag names include CARRY, ZERO, INTERRUPT, DECIMAL," +
			" OVERFLOW and NEGATIVE. Names may be abbreviated.",
		usage:   "register [<name> <value>]",
		handler: (*Host).cmdRegister,
	})
	root.add(&command{
		name:  "reset",
		brief: "Reset the CPU",
		description: "Restore the power-on register state and load the" +
			" program counter from the reset vector.",
		usage:   "reset",
		handler: (*Host).cmdReset,
	})
	root.add(&command{
		name:  "run",
		brief: "Run the CPU",
		description: "Run the CPU until a breakpoint is hit, an unmapped" +
			" opcode is executed, the step limit is reached, or the user" +
			" types Ctrl-C.",
		usage:   "run [<address>]",
		handler: (*Host).cmdRun,
	})
	root.add(&command{
		name:  "script",
		brief: "Run a Lua script",
		description: "Run a Lua script against the CPU. Scripts may call" +
			" peek, poke, step, exec, reg, setreg, info and command.",
		usage:   "script <filename>",
		handler: (*Host).cmdScript,
	})
	root.add(&command{
		name:  "set",
		brief: "Set a configuration variable",
		description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		usage:   "set [<var> <value>]",
		handler: (*Host).cmdSet,
	})
	root.add(&command{
		name:  "step",
		brief: "Step the CPU",
		description: "Step the CPU by a single instruction. The number of" +
			" steps may be specified as an option.",
		usage:   "step [<count>]",
		handler: (*Host).cmdStep,
	})

	// Add command shortcuts.
	root.tree.AddShortcut("b", "breakpoint")
	root.tree.AddShortcut("bp", "breakpoint")
	root.tree.AddShortcut("ba", "breakpoint add")
	root.tree.AddShortcut("br", "breakpoint remove")
	root.tree.AddShortcut("bl", "breakpoint list")
	root.tree.AddShortcut("d", "disassemble")
	root.tree.AddShortcut("db", "databreakpoint")
	root.tree.AddShortcut("dbp", "databreakpoint")
	root.tree.AddShortcut("dbl", "databreakpoint list")
	root.tree.AddShortcut("dba", "databreakpoint add")
	root.tree.AddShortcut("dbr", "databreakpoint remove")
	root.tree.AddShortcut("m", "memory dump")
	root.tree.AddShortcut("ms", "memory set")
	root.tree.AddShortcut("r", "register")
	root.tree.AddShortcut("s", "step")
	root.tree.AddShortcut("?", "help")
	root.tree.AddShortcut(".", "register")

	cmds = root.tree
}

// findGroup returns the command group named by an unambiguous prefix.
func findGroup(name string) *commandGroup {
	g, err := groupTree.FindValue(strings.ToLower(name))
	if err != nil {
		return nil
	}
	return g
}
