// This file is adapted from the statsview package of Gopher2600
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

// Package statsview runs a local HTTP server offering runtime statistics
// for a running emulator session.
//
// After launch, graphical statistics are viewable at:
//
//	<addr>/debug/statsview
//
// and standard Go pprof statistics at:
//
//	<addr>/debug/pprof/
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress is the address used when none is supplied.
const DefaultAddress = "localhost:12650"

const url = "/debug/statsview"

// Launch starts the statistics server in a new goroutine and reports its
// location to output.
func Launch(output io.Writer, addr string) {
	if addr == "" {
		addr = DefaultAddress
	}

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at %s%s\n", addr, url)
}
