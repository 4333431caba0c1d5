// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package mdd

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// humanSize returns a readable size for n elements of the given size (in
// bytes).
func humanSize(n int, size uintptr) string {
	b := float64(n) * float64(size)
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", b/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", b/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", b/(1<<10))
	}
	return fmt.Sprintf("%d B", int(b))
}

// PrintStats writes a textual representation of the statistics of forest f
// and, if ct is not nil, of a compute table.
func (f *Forest) PrintStats(w io.Writer, ct *ComputeTable) {
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w, f.Stats())
	if ct != nil {
		fmt.Fprintln(w, "==============")
		fmt.Fprintln(w, ct.Stats())
	}
	fmt.Fprintln(w, "==============")
	if _DEBUG {
		f.logTable()
	}
}

// ******************************************************************************************************

// Print returns a one-line description of node h.
func (f *Forest) Print(h Handle) string {
	if h == False {
		return "False"
	}
	if h < 0 {
		return fmt.Sprintf("Terminal(%d)", f.TerminalValue(h))
	}
	if int(h) >= len(f.nodes) {
		return fmt.Sprintf("Error (%d not a valid index)", h)
	}
	n := &f.nodes[h]
	if n.status == Dead {
		return fmt.Sprintf("Error (node %d reclaimed)", h)
	}
	return fmt.Sprintf("%d[%d] %s", h, n.level, f.children(n))
}

// children returns the children of n, with their edge values in index-set
// forests, as in (3:0 0:0 5:1).
func (f *Forest) children(n *packedNode) string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, c := range n.down {
		if i > 0 {
			sb.WriteString(" ")
		}
		if n.edges != nil {
			fmt.Fprintf(&sb, "%d:%d", c, n.edges[i])
			continue
		}
		fmt.Fprintf(&sb, "%d", c)
	}
	sb.WriteString(")")
	return sb.String()
}

// PrintAll writes the totality of the stored nodes of f on w, one node by
// line.
func (f *Forest) PrintAll(w io.Writer) error {
	nodes := []int{}
	for k := 1; k < len(f.nodes); k++ {
		if f.nodes[k].status != Dead {
			nodes = append(nodes, k)
		}
	}
	return f.printString(w, nodes)
}

// PrintSet writes the nodes reachable from e on w.
func (f *Forest) PrintSet(w io.Writer, e *Edge) error {
	if err := f.checkEdge(e); err != nil {
		return err
	}
	nodes := []int{}
	f.Allnodes(func(h Handle, _ int, _ []Handle) error {
		nodes = append(nodes, int(h))
		return nil
	}, e)
	return f.printString(w, nodes)
}

func (f *Forest) printString(w io.Writer, nodes []int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	sort.Ints(nodes)
	for _, k := range nodes {
		n := &f.nodes[k]
		fmt.Fprintf(tw, "%d\t[%d]\t%s\t#%d\t%s\n", k, n.level, f.children(n), n.payload, n.status)
	}
	return tw.Flush()
}

// ******************************************************************************************************

// WriteDot writes a graph-like description of the diagrams in edges (or of
// the whole forest if edges is empty) using the DOT format. We do not draw
// arcs that go to the constant false. In index-set forests, arcs are labeled
// with the value of the variable and the edge value.
func (f *Forest) WriteDot(w io.Writer, edges ...*Edge) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	terminals := map[Handle]bool{}
	err := f.Allnodes(func(h Handle, level int, down []Handle) error {
		fmt.Fprintf(bw, "%d %s\n", h, dotlabel(int(h), level))
		for i, c := range down {
			if c == False {
				continue
			}
			if c < 0 {
				terminals[c] = true
			}
			if f.labeling == IndexSet {
				fmt.Fprintf(bw, "%d -> %s [label=\"%d:%d\"];\n", h, dotid(c), i, f.EdgeValue(h, i))
				continue
			}
			fmt.Fprintf(bw, "%d -> %s [label=\"%d\"];\n", h, dotid(c), i)
		}
		return nil
	}, edges...)
	if err != nil {
		return err
	}
	for _, e := range edges {
		if e.node < 0 {
			terminals[e.node] = true
		}
	}
	keys := make([]int, 0, len(terminals))
	for t := range terminals {
		keys = append(keys, int(t))
	}
	sort.Ints(keys)
	for _, t := range keys {
		fmt.Fprintf(bw, "%s [shape=box, label=\"%d\", style=filled, height=0.3, width=0.3];\n", dotid(Handle(t)), -t)
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func dotid(h Handle) string {
	if h < 0 {
		return fmt.Sprintf("t%d", -h)
	}
	return fmt.Sprintf("%d", h)
}

func dotlabel(a int, level int) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">x%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, level, a)
}
