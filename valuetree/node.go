package valuetree

import "github.com/gongfarmer/amqpval/kind"

// NodeID is a stable index into a Tree's node arena, not a pointer. Root
// (0) is a permanently allocated sentinel: as a `parent` it names the
// tree's top-level sibling list; it is never itself a valid `current`.
type NodeID int32

// Root names the tree's top-level scope.
const Root NodeID = 0

// node is one entry in the arena, owning integer sibling/parent links
// rather than pointers to other nodes, so every reference survives arena
// growth by index, not address.
type node struct {
	kind kind.Kind

	// Scalar payload: one raw bit pattern (two's complement for signed
	// kinds, literal for unsigned, IEEE-754 bits for float/double, rune
	// value for char, millisecond count for timestamp) — one field
	// reinterpreted per Kind, not N sparse fields.
	bits uint64

	// decimal128/uuid: fixed 16-byte payload, inline (no need to intern a
	// fixed-size blob).
	fixed16 [16]byte

	// binary/string/symbol: interned into the tree's byte store as
	// (offset, size), the equivalent of a pointer-rebase scheme, since an
	// offset into an append-only buffer stays valid across the buffer's
	// own growth with no rebase pass needed.
	dataOffset int
	dataSize   int
	interned   bool

	// tree links, by index.
	parent, prev, next, firstChild NodeID
	children                       int

	// array-only.
	described   bool
	elementType kind.Kind
	start       int  // unused: Encode keeps the reserved size field's offset in a local instead
	small       bool // encode-time width hint; always false here (see encodeCompound)
}
