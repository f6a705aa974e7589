// Package valuetree implements an index-addressed, arbitrarily nested tree
// of AMQP 1.0 typed atoms with cursor-based navigation, insertion,
// encode/decode against the wire format, and a debug pretty-printer.
//
// Built as an append-only node arena addressed by integer NodeID rather
// than owned pointers to parent/child structs, so every reference survives
// arena growth without a rebase pass over the tree shape itself (only the
// interned byte store needs an offset/size scheme).
package valuetree

import (
	"github.com/gongfarmer/amqpval/amqperr"
	"github.com/gongfarmer/amqpval/kind"
)

// Tree is an ordered, nested collection of atoms plus a cursor naming the
// current position for navigation and insertion.
type Tree struct {
	nodes    []node
	interned []byte

	parent      NodeID
	current     NodeID
	baseParent  NodeID
	baseCurrent NodeID

	err error
}

// NewTree allocates a tree with capacity hints for the node arena and the
// interned byte store. Both grow past the hint via append's own
// amortized-doubling; the hint only avoids early reallocations.
func NewTree(nodeCap, internedCap int) *Tree {
	t := &Tree{
		nodes:    make([]node, 1, max(nodeCap, 1)),
		interned: make([]byte, 0, internedCap),
	}
	t.nodes[0] = node{} // index 0 is the permanent Root sentinel
	return t
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Clear drops every node and interned byte, resetting the cursor to the
// empty tree. Nodes are never freed individually; Clear is the only way to
// reclaim them.
func (t *Tree) Clear() {
	t.nodes = t.nodes[:1]
	t.nodes[0] = node{}
	t.interned = t.interned[:0]
	t.parent, t.current, t.baseParent, t.baseCurrent = Root, Root, Root, Root
	t.err = nil
}

// Err returns the last error set on the tree's error sink, folded directly
// into Tree since this engine has no separate collaborator object.
func (t *Tree) Err() error { return t.err }

func (t *Tree) setErr(err error) error {
	t.err = err
	return err
}

// newNode appends a fresh node of the given kind and returns its id. This
// is the only call in the package that grows t.nodes; every caller must
// stop holding *node pointers taken before calling it; t.nodes may have
// reallocated, so read it back as t.nodes[id] instead of reusing any older
// pointer into the old and discarded backing array.
func (t *Tree) newNode(k kind.Kind) NodeID {
	t.nodes = append(t.nodes, node{kind: k})
	return NodeID(len(t.nodes) - 1)
}

// resetNode overwrites id's atom payload in place for idempotent replay,
// without touching its structural links (parent/prev/next), which the
// tree's shape already fixed when the node was first allocated. Any
// previous children become unreachable garbage in the arena, consistent
// with nodes never being freed individually.
func (t *Tree) resetNode(id NodeID, k kind.Kind) {
	n := &t.nodes[id]
	n.kind = k
	n.bits = 0
	n.fixed16 = [16]byte{}
	n.dataOffset, n.dataSize, n.interned = 0, 0, false
	n.described = false
	n.elementType = kind.Null
	n.start = 0
	n.small = false
	n.firstChild = 0
	n.children = 0
}

// add implements the tree's insertion algorithm, returning the id of the
// node now under the cursor. It never holds a *node across a call to
// newNode, since that call may reallocate t.nodes.
func (t *Tree) add(k kind.Kind) NodeID {
	if t.current != Root {
		if next := t.nodes[t.current].next; next != Root {
			t.current = next
			t.resetNode(t.current, k)
			return t.current
		}
		prevID := t.current
		parentID := t.nodes[prevID].parent
		id := t.newNode(k)
		t.nodes[id].prev = prevID
		t.nodes[id].parent = parentID
		t.nodes[prevID].next = id
		t.nodes[parentID].children++
		t.current = id
		return id
	}

	if first := t.nodes[t.parent].firstChild; first != Root {
		t.current = first
		t.resetNode(t.current, k)
		return t.current
	}

	parentID := t.parent
	id := t.newNode(k)
	t.nodes[parentID].firstChild = id
	t.nodes[parentID].children = 1
	t.nodes[id].parent = parentID
	t.current = id
	return id
}

// bytesOf returns the interned payload for a binary/string/symbol node, by
// reslicing the tree's interned buffer on demand from (offset, size).
// There is never a stored pointer to rebase: an offset/size pair into one
// growing buffer stays valid across reallocation without one.
func (t *Tree) bytesOf(id NodeID) []byte {
	n := &t.nodes[id]
	if !n.interned {
		return nil
	}
	return t.interned[n.dataOffset : n.dataOffset+n.dataSize]
}

func (t *Tree) putBytes(k kind.Kind, v []byte) error {
	id := t.add(k)
	offset := len(t.interned)
	t.interned = append(t.interned, v...)
	n := &t.nodes[id]
	n.dataOffset, n.dataSize, n.interned = offset, len(v), true
	return nil
}

func argErr(format string, args ...interface{}) error {
	return amqperr.Newf(amqperr.ArgumentError, format, args...)
}

func genErr(msg string) error {
	return amqperr.New(amqperr.GenericError, msg)
}
