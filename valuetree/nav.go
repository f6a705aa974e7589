package valuetree

import (
	"math"

	"github.com/gongfarmer/amqpval/kind"
)

// Next advances the cursor to the next sibling at the current nesting
// level, returning false (without moving) if there is none.
func (t *Tree) Next() bool {
	if t.current == Root {
		first := t.nodes[t.parent].firstChild
		if first == Root {
			return false
		}
		t.current = first
		return true
	}
	next := t.nodes[t.current].next
	if next == Root {
		return false
	}
	t.current = next
	return true
}

// Prev moves the cursor to the previous sibling, returning false (without
// moving) if the cursor is already before the first child.
func (t *Tree) Prev() bool {
	if t.current == Root {
		return false
	}
	prev := t.nodes[t.current].prev
	if prev == Root {
		t.current = Root
		return false
	}
	t.current = prev
	return true
}

// Rewind resets the cursor to before the first child at the current
// nesting level.
func (t *Tree) Rewind() { t.current = Root }

// Narrow anchors the current (parent, current) pair so a later Widen can
// return to it, letting callers restrict navigation to a subtree without
// losing their place in the outer one.
func (t *Tree) Narrow() {
	t.baseParent = t.parent
	t.baseCurrent = t.current
}

// Widen restores the cursor to the last Narrow anchor.
func (t *Tree) Widen() {
	t.parent = t.baseParent
	t.current = t.baseCurrent
	t.baseParent = Root
	t.baseCurrent = Root
}

// Point is a saved cursor, opaque to callers, for Restore.
type Point struct {
	parent, current, baseParent, baseCurrent NodeID
}

// Point captures the full cursor state (navigation position and narrow
// anchors).
func (t *Tree) Point() Point {
	return Point{t.parent, t.current, t.baseParent, t.baseCurrent}
}

// Restore resets the cursor to a previously captured Point.
func (t *Tree) Restore(p Point) {
	t.parent, t.current, t.baseParent, t.baseCurrent = p.parent, p.current, p.baseParent, p.baseCurrent
}

// Type reports the kind of the node under the cursor, or kind.Null if the
// cursor has no current node.
func (t *Tree) Type() kind.Kind {
	if t.current == Root {
		return kind.Null
	}
	return t.nodes[t.current].kind
}

// Count returns the current composite node's child count, or 0 if the
// cursor is not on a composite. For a described array the
// descriptor-described key is not counted, so the result is the number of
// elements (the count written on the wire).
func (t *Tree) Count() int {
	if t.current == Root {
		return 0
	}
	n := &t.nodes[t.current]
	if n.kind == kind.Array && n.described && n.children > 0 {
		return n.children - 1
	}
	return n.children
}

// Described reports whether the current array node was built with
// described=true.
func (t *Tree) Described() bool {
	if t.current == Root || t.nodes[t.current].kind != kind.Array {
		return false
	}
	return t.nodes[t.current].described
}

// ElementType returns the current array node's element kind.
func (t *Tree) ElementType() kind.Kind {
	if t.current == Root || t.nodes[t.current].kind != kind.Array {
		return kind.Null
	}
	return t.nodes[t.current].elementType
}

// Get<Kind> reads the current node's value, returning the zero value if
// the current node is not of that kind.

func (t *Tree) GetBool() bool {
	if t.current == Root || t.nodes[t.current].kind != kind.Bool {
		return false
	}
	return t.nodes[t.current].bits != 0
}

func (t *Tree) GetUByte() uint8   { return uint8(t.bitsIf(kind.UByte)) }
func (t *Tree) GetByte() int8     { return int8(t.bitsIf(kind.Byte)) }
func (t *Tree) GetUShort() uint16 { return uint16(t.bitsIf(kind.UShort)) }
func (t *Tree) GetShort() int16   { return int16(t.bitsIf(kind.Short)) }
func (t *Tree) GetUInt() uint32   { return uint32(t.bitsIf(kind.UInt)) }
func (t *Tree) GetInt() int32     { return int32(t.bitsIf(kind.Int)) }
func (t *Tree) GetULong() uint64  { return t.bitsIf(kind.ULong) }
func (t *Tree) GetLong() int64    { return int64(t.bitsIf(kind.Long)) }
func (t *Tree) GetChar() rune     { return rune(t.bitsIf(kind.Char)) }
func (t *Tree) GetTimestamp() int64 { return int64(t.bitsIf(kind.Timestamp)) }

func (t *Tree) GetFloat() float32 {
	return math.Float32frombits(uint32(t.bitsIf(kind.Float)))
}

func (t *Tree) GetDouble() float64 {
	return math.Float64frombits(t.bitsIf(kind.Double))
}

func (t *Tree) GetDecimal32() uint32 { return uint32(t.bitsIf(kind.Decimal32)) }
func (t *Tree) GetDecimal64() uint64 { return t.bitsIf(kind.Decimal64) }

func (t *Tree) GetDecimal128() [16]byte { return t.fixed16If(kind.Decimal128) }
func (t *Tree) GetUUID() [16]byte       { return t.fixed16If(kind.UUID) }

func (t *Tree) GetBinary() []byte { return t.bytesIf(kind.Binary) }
func (t *Tree) GetString() []byte { return t.bytesIf(kind.String) }
func (t *Tree) GetSymbol() []byte { return t.bytesIf(kind.Symbol) }

func (t *Tree) bitsIf(k kind.Kind) uint64 {
	if t.current == Root || t.nodes[t.current].kind != k {
		return 0
	}
	return t.nodes[t.current].bits
}

func (t *Tree) fixed16If(k kind.Kind) [16]byte {
	if t.current == Root || t.nodes[t.current].kind != k {
		return [16]byte{}
	}
	return t.nodes[t.current].fixed16
}

func (t *Tree) bytesIf(k kind.Kind) []byte {
	if t.current == Root || t.nodes[t.current].kind != k {
		return nil
	}
	return t.bytesOf(t.current)
}
