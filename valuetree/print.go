package valuetree

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/gongfarmer/amqpval/kind"
)

// Format renders the tree's full top-level sequence using a debug grammar:
// "@d v" (descriptor), "@T[...]" (array), "[...]" (list), "{k=v, ...}"
// (map), leaf kinds in their natural literal form, binaries as b"..." with
// hex escapes, symbols bare when alpha-only or quoted otherwise. This is
// reversible-looking but not meant to be parsed back.
func (t *Tree) Format() string {
	var b strings.Builder
	for id := t.nodes[Root].firstChild; id != Root; id = t.nodes[id].next {
		if id != t.nodes[Root].firstChild {
			b.WriteString(" ")
		}
		t.formatNode(&b, id)
	}
	return b.String()
}

// Dump writes Format's output to w, followed by a newline. Colors are
// applied when the process's standard output is a terminal, whatever w is
// (see highlight).
func (t *Tree) Dump(w io.Writer) error {
	_, err := io.WriteString(w, t.Format()+"\n")
	return err
}

func (t *Tree) formatNode(b *strings.Builder, id NodeID) {
	n := t.nodes[id]
	switch n.kind {
	case kind.Descriptor:
		t.formatDescriptor(b, id)
		return
	case kind.List:
		t.formatList(b, id, "[", "]")
		return
	case kind.Map:
		t.formatMap(b, id)
		return
	case kind.Array:
		t.formatArray(b, id)
		return
	}

	var lit strings.Builder
	switch n.kind {
	case kind.Null:
		lit.WriteString("null")
	case kind.Bool:
		if n.bits != 0 {
			lit.WriteString("true")
		} else {
			lit.WriteString("false")
		}
	case kind.UByte:
		fmt.Fprintf(&lit, "%dub", n.bits)
	case kind.Byte:
		fmt.Fprintf(&lit, "%db", int8(n.bits))
	case kind.UShort:
		fmt.Fprintf(&lit, "%dus", n.bits)
	case kind.Short:
		fmt.Fprintf(&lit, "%ds", int16(n.bits))
	case kind.UInt:
		fmt.Fprintf(&lit, "%du", uint32(n.bits))
	case kind.Int:
		fmt.Fprintf(&lit, "%d", int32(n.bits))
	case kind.ULong:
		fmt.Fprintf(&lit, "%dul", n.bits)
	case kind.Long:
		fmt.Fprintf(&lit, "%dl", int64(n.bits))
	case kind.Char:
		lit.WriteString(strconv.QuoteRune(rune(n.bits)))
	case kind.Timestamp:
		fmt.Fprintf(&lit, "%dt", int64(n.bits))
	case kind.Float:
		fmt.Fprintf(&lit, "%gf", math.Float32frombits(uint32(n.bits)))
	case kind.Double:
		fmt.Fprintf(&lit, "%gd", math.Float64frombits(n.bits))
	case kind.Decimal32:
		fmt.Fprintf(&lit, "D32:%08x", uint32(n.bits))
	case kind.Decimal64:
		fmt.Fprintf(&lit, "D64:%016x", n.bits)
	case kind.Decimal128:
		fmt.Fprintf(&lit, "D128:%x", n.fixed16[:])
	case kind.UUID:
		lit.WriteString(uuid.UUID(n.fixed16).String())
	case kind.Binary:
		writeBinaryLiteral(&lit, t.bytesOf(id))
	case kind.String:
		lit.WriteString(strconv.Quote(string(t.bytesOf(id))))
	case kind.Symbol:
		writeSymbolLiteral(&lit, t.bytesOf(id))
	default:
		fmt.Fprintf(&lit, "<%s>", n.kind)
	}
	b.WriteString(highlight(n.kind, lit.String()))
}

func (t *Tree) formatDescriptor(b *strings.Builder, id NodeID) {
	n := t.nodes[id]
	children := childIDs(t, n.firstChild)
	b.WriteString("@")
	if len(children) > 0 {
		t.formatNode(b, children[0])
	}
	b.WriteString(" ")
	if len(children) > 1 {
		t.formatNode(b, children[1])
	}
}

func (t *Tree) formatList(b *strings.Builder, id NodeID, open, close string) {
	b.WriteString(highlight(kind.List, open))
	first := true
	for child := t.nodes[id].firstChild; child != Root; child = t.nodes[child].next {
		if !first {
			b.WriteString(", ")
		}
		first = false
		t.formatNode(b, child)
	}
	b.WriteString(highlight(kind.List, close))
}

func (t *Tree) formatMap(b *strings.Builder, id NodeID) {
	b.WriteString(highlight(kind.Map, "{"))
	first := true
	child := t.nodes[id].firstChild
	for child != Root {
		key := child
		val := t.nodes[child].next
		if !first {
			b.WriteString(", ")
		}
		first = false
		t.formatNode(b, key)
		b.WriteString("=")
		if val != Root {
			t.formatNode(b, val)
			child = t.nodes[val].next
		} else {
			child = Root
		}
	}
	b.WriteString(highlight(kind.Map, "}"))
}

func (t *Tree) formatArray(b *strings.Builder, id NodeID) {
	n := t.nodes[id]
	b.WriteString("@")
	b.WriteString(n.elementType.String())
	b.WriteString(highlight(kind.Array, "["))
	child := n.firstChild
	if n.described && child != Root {
		child = t.nodes[child].next // skip the descriptor-described key
	}
	first := true
	for ; child != Root; child = t.nodes[child].next {
		if !first {
			b.WriteString(", ")
		}
		first = false
		t.formatNode(b, child)
	}
	b.WriteString(highlight(kind.Array, "]"))
}

func childIDs(t *Tree, first NodeID) []NodeID {
	var out []NodeID
	for id := first; id != Root; id = t.nodes[id].next {
		out = append(out, id)
	}
	return out
}

func writeBinaryLiteral(b *strings.Builder, data []byte) {
	b.WriteString(`b"`)
	for _, c := range data {
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(b, `\x%02x`, c)
		}
	}
	b.WriteString(`"`)
}

func writeSymbolLiteral(b *strings.Builder, data []byte) {
	bare := len(data) > 0
	for _, r := range string(data) {
		if !unicode.IsLetter(r) {
			bare = false
			break
		}
	}
	if bare {
		b.WriteString(":")
		b.Write(data)
		return
	}
	b.WriteString(":")
	b.WriteString(strconv.Quote(string(data)))
}

// highlight wraps s in color by kind. fatih/color decides once, from the
// process's standard output, whether to color at all; when stdout is not a
// terminal it returns s unchanged.
func highlight(k kind.Kind, s string) string {
	switch {
	case k.IsCompound():
		return color.New(color.FgYellow).Sprint(s)
	case k.IsVariableLength():
		return color.New(color.FgGreen).Sprint(s)
	default:
		return color.New(color.FgCyan).Sprint(s)
	}
}
