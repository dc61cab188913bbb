// This file is adapted from the logger package of Gopher2600
// (https://github.com/JetSetIlly/Gopher2600) and keeps its license.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package logger implements the central diagnostic log shared by the CPU
// core, the ROM loader and the monitor host.
//
// Entries are tagged with the name of the component that produced them.
// Consecutive identical entries are folded into a single entry with a
// repeat count, so a program stepping repeatedly through an unmapped opcode
// does not flood the log.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// MaxEntries is the number of entries retained by the central log. Older
// entries are discarded first.
const MaxEntries = 256

// Entry represents a single line in the log.
type Entry struct {
	Tag      string
	Detail   string
	Repeated int
}

func (e *Entry) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s: %s", e.Tag, e.Detail)
	if e.Repeated > 0 {
		fmt.Fprintf(&s, " (repeat x%d)", e.Repeated+1)
	}
	s.WriteString("\n")
	return s.String()
}

type logger struct {
	mu      sync.Mutex
	entries []Entry
	echo    io.Writer
}

// there is only one log for the whole program.
var central = &logger{}

func (l *logger) log(tag, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	var e *Entry
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		e = &l.entries[n-1]
		e.Repeated++
	} else {
		l.entries = append(l.entries, Entry{Tag: tag, Detail: detail})
		if len(l.entries) > MaxEntries {
			l.entries = l.entries[len(l.entries)-MaxEntries:]
		}
		e = &l.entries[len(l.entries)-1]
	}

	if l.echo != nil {
		io.WriteString(l.echo, e.String())
	}
}

// Log adds an entry to the central log.
func Log(tag, detail string) {
	central.log(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(tag, format string, args ...interface{}) {
	central.log(tag, fmt.Sprintf(format, args...))
}

// Clear removes all entries from the central log.
func Clear() {
	central.mu.Lock()
	defer central.mu.Unlock()
	central.entries = central.entries[:0]
}

// Len returns the number of entries in the central log.
func Len() int {
	central.mu.Lock()
	defer central.mu.Unlock()
	return len(central.entries)
}

// Entries returns a copy of all entries in the central log.
func Entries() []Entry {
	central.mu.Lock()
	defer central.mu.Unlock()
	c := make([]Entry, len(central.entries))
	copy(c, central.entries)
	return c
}

// Write writes the contents of the central log to w.
func Write(w io.Writer) {
	Tail(w, MaxEntries)
}

// Tail writes the last n entries of the central log to w.
func Tail(w io.Writer, n int) {
	central.mu.Lock()
	defer central.mu.Unlock()

	if n > len(central.entries) {
		n = len(central.entries)
	}
	if n < 0 {
		n = 0
	}
	for _, e := range central.entries[len(central.entries)-n:] {
		io.WriteString(w, e.String())
	}
}

// SetEcho causes every new log entry to be written to w as it is added.
// Passing nil turns echoing off.
func SetEcho(w io.Writer) {
	central.mu.Lock()
	defer central.mu.Unlock()
	central.echo = w
}
