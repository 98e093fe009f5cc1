package bt

import (
	"fmt"
	"strconv"
	"strings"
)

// Dot renders the tree below n as a graphviz digraph with nodes filled by
// status. It does not touch the tree. Node ids are the label plus the child
// index path from the root, quoted.
func Dot(n Node) string {
	var sb strings.Builder
	sb.WriteString("digraph behavior_tree {\n")
	writeDot(&sb, n, "0")
	sb.WriteString("}")
	return sb.String()
}

func writeDot(sb *strings.Builder, n Node, path string) {
	id := dotID(n, path)
	fmt.Fprintf(sb, "  %s [label=%q, style=\"filled\", fillcolor=\"%s\"];\n", id, n.Name(), fillColor(n.Status()))
	children := n.Children()
	for i, c := range children {
		fmt.Fprintf(sb, "  %s -> %s;\n", id, dotID(c, childPath(path, i)))
	}
	for i, c := range children {
		writeDot(sb, c, childPath(path, i))
	}
}

func childPath(path string, index int) string {
	return path + "." + strconv.Itoa(index)
}

func dotID(n Node, path string) string {
	return strconv.Quote(n.Name() + "@" + path)
}

func fillColor(s Status) string {
	switch s {
	case Running:
		return "lightblue"
	case Success:
		return "lightgreen"
	case Fail:
		return "indianred1"
	default:
		return "white"
	}
}
