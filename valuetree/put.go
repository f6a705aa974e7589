package valuetree

import (
	"math"

	"github.com/gongfarmer/amqpval/kind"
)

// Put<Kind> writes a leaf atom just after the cursor. If a node already
// follows the cursor it is reused and overwritten (the replay semantics of
// the insertion algorithm); otherwise a new node is appended. The cursor
// then rests on that node.

func (t *Tree) PutNull() error {
	t.add(kind.Null)
	return nil
}

func (t *Tree) PutBool(v bool) error {
	id := t.add(kind.Bool)
	if v {
		t.nodes[id].bits = 1
	}
	return nil
}

func (t *Tree) PutUByte(v uint8) error {
	id := t.add(kind.UByte)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutByte(v int8) error {
	id := t.add(kind.Byte)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutUShort(v uint16) error {
	id := t.add(kind.UShort)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutShort(v int16) error {
	id := t.add(kind.Short)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutUInt(v uint32) error {
	id := t.add(kind.UInt)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutInt(v int32) error {
	id := t.add(kind.Int)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutULong(v uint64) error {
	id := t.add(kind.ULong)
	t.nodes[id].bits = v
	return nil
}

func (t *Tree) PutLong(v int64) error {
	id := t.add(kind.Long)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutChar(v rune) error {
	id := t.add(kind.Char)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutTimestamp(v int64) error {
	id := t.add(kind.Timestamp)
	t.nodes[id].bits = uint64(v)
	return nil
}

func (t *Tree) PutFloat(v float32) error {
	id := t.add(kind.Float)
	t.nodes[id].bits = uint64(math.Float32bits(v))
	return nil
}

func (t *Tree) PutDouble(v float64) error {
	id := t.add(kind.Double)
	t.nodes[id].bits = math.Float64bits(v)
	return nil
}

func (t *Tree) PutDecimal32(bits uint32) error {
	id := t.add(kind.Decimal32)
	t.nodes[id].bits = uint64(bits)
	return nil
}

func (t *Tree) PutDecimal64(bits uint64) error {
	id := t.add(kind.Decimal64)
	t.nodes[id].bits = bits
	return nil
}

func (t *Tree) PutDecimal128(bits [16]byte) error {
	id := t.add(kind.Decimal128)
	t.nodes[id].fixed16 = bits
	return nil
}

func (t *Tree) PutUUID(bits [16]byte) error {
	id := t.add(kind.UUID)
	t.nodes[id].fixed16 = bits
	return nil
}

func (t *Tree) PutBinary(v []byte) error { return t.putBytes(kind.Binary, v) }
func (t *Tree) PutString(v []byte) error { return t.putBytes(kind.String, v) }
func (t *Tree) PutSymbol(v []byte) error { return t.putBytes(kind.Symbol, v) }

// PutList appends an empty list composite; the caller Enters it to add
// children.
func (t *Tree) PutList() error {
	t.add(kind.List)
	return nil
}

// PutMap appends an empty map composite. The resulting child count must
// end up even, one key then one value per pair; PutMap does not enforce
// this itself (enforced on Encode).
func (t *Tree) PutMap() error {
	t.add(kind.Map)
	return nil
}

// PutDescribed appends a descriptor composite. It must end up with
// exactly two children (descriptor value, described value); Enter to add
// them.
func (t *Tree) PutDescribed() error {
	t.add(kind.Descriptor)
	return nil
}

// PutArray appends an array composite whose children must all share
// elementType. If described, the first child Entered is the
// descriptor-described key and the rest are elements.
func (t *Tree) PutArray(described bool, elementType kind.Kind) error {
	id := t.add(kind.Array)
	n := &t.nodes[id]
	n.described = described
	n.elementType = elementType
	return nil
}

// Enter descends the cursor into the current composite node's children.
// Current becomes Root (before-first-child) at the new, deeper parent
// level.
func (t *Tree) Enter() error {
	if t.current == Root {
		return t.setErr(genErr("enter: cursor has no current node"))
	}
	if !t.nodes[t.current].kind.IsCompound() {
		return t.setErr(argErr("enter: current node %s is not composite", t.nodes[t.current].kind))
	}
	t.parent = t.current
	t.current = Root
	return nil
}

// Exit ascends the cursor back onto the composite node it last Entered.
func (t *Tree) Exit() error {
	if t.parent == Root {
		return t.setErr(genErr("exit: cursor is already at the root level"))
	}
	composite := t.parent
	t.parent = t.nodes[composite].parent
	t.current = composite
	return nil
}

// EnterSentinel descends into the current node regardless of its kind.
// The format interpreter's "?" operator emits a null atom to stand in for
// a composite whose predicate came out false, then needs to redirect
// writes into it so the composite's body parses normally but produces
// nothing real; Enter would reject a null node as non-composite.
func (t *Tree) EnterSentinel() error {
	if t.current == Root {
		return t.setErr(genErr("enter: cursor has no current node"))
	}
	t.parent = t.current
	t.current = Root
	return nil
}

// AutoExitIfComplete implements the fill interpreter's post-condition
// logic: called after each element is appended, it walks up once if the
// enclosing composite just became "done" on its own terms — a descriptor
// with its 2 children, or a "?" null sentinel with its single (discarded)
// child — and reports whether it exited.
func (t *Tree) AutoExitIfComplete() bool {
	if t.parent == Root {
		return false
	}
	p := &t.nodes[t.parent]
	switch {
	case p.kind == kind.Descriptor && p.children == 2:
		_ = t.Exit()
		return true
	case p.kind == kind.Null && p.children == 1:
		p.firstChild = Root
		p.children = 0
		_ = t.Exit()
		return true
	default:
		return false
	}
}
