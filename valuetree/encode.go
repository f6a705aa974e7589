package valuetree

import (
	"math"

	"github.com/gongfarmer/amqpval/atomcodec"
	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/wire"
)

// Encode serializes every top-level node in the tree, in order, appending
// to buf. It returns the extended buffer and the number of bytes written.
// A pre-order traversal over the node arena directly (not through the
// public cursor, which Encode leaves untouched), reserving and
// back-patching each compound's 4-byte size prefix.
func (t *Tree) Encode(buf []byte) ([]byte, int, error) {
	c := wire.NewWriteCursor(buf)
	start := c.Pos()
	for id := t.nodes[Root].firstChild; id != Root; id = t.nodes[id].next {
		if err := t.encodeNode(c, id); err != nil {
			return c.Bytes(), c.Pos() - start, err
		}
	}
	return c.Bytes(), c.Pos() - start, nil
}

func (t *Tree) encodeNode(c *wire.Cursor, id NodeID) error {
	n := t.nodes[id]
	switch n.kind {
	case kind.Null:
		return atomcodec.EncodeNull(c)
	case kind.Bool:
		return atomcodec.EncodeBool(c, n.bits != 0)
	case kind.UByte:
		return atomcodec.EncodeUByte(c, uint8(n.bits))
	case kind.Byte:
		return atomcodec.EncodeByte(c, int8(n.bits))
	case kind.UShort:
		return atomcodec.EncodeUShort(c, uint16(n.bits))
	case kind.Short:
		return atomcodec.EncodeShort(c, int16(n.bits))
	case kind.UInt:
		return atomcodec.EncodeUInt(c, uint32(n.bits))
	case kind.Int:
		return atomcodec.EncodeInt(c, int32(n.bits))
	case kind.ULong:
		return atomcodec.EncodeULong(c, n.bits)
	case kind.Long:
		return atomcodec.EncodeLong(c, int64(n.bits))
	case kind.Char:
		return atomcodec.EncodeChar(c, rune(n.bits))
	case kind.Timestamp:
		return atomcodec.EncodeTimestamp(c, int64(n.bits))
	case kind.Float:
		return atomcodec.EncodeFloat(c, math.Float32frombits(uint32(n.bits)))
	case kind.Double:
		return atomcodec.EncodeDouble(c, math.Float64frombits(n.bits))
	case kind.Decimal32:
		return atomcodec.EncodeDecimal32(c, uint32(n.bits))
	case kind.Decimal64:
		return atomcodec.EncodeDecimal64(c, n.bits)
	case kind.Decimal128:
		return atomcodec.EncodeDecimal128(c, n.fixed16)
	case kind.UUID:
		return atomcodec.EncodeUUID(c, n.fixed16)
	case kind.Binary:
		return atomcodec.EncodeBinary(c, t.bytesOf(id))
	case kind.String:
		return atomcodec.EncodeString(c, t.bytesOf(id))
	case kind.Symbol:
		return atomcodec.EncodeSymbol(c, t.bytesOf(id))
	case kind.List:
		return t.encodeCompound(c, id, kind.CodeList32)
	case kind.Map:
		if n.children%2 != 0 {
			return argErr("encode: map node has odd child count %d", n.children)
		}
		return t.encodeCompound(c, id, kind.CodeMap32)
	case kind.Descriptor:
		if n.children != 2 {
			return argErr("encode: descriptor node has %d children, want 2", n.children)
		}
		if err := c.WriteUint8(uint8(kind.CodeDescriptor)); err != nil {
			return err
		}
		return t.encodeChildren(c, id)
	case kind.Array:
		return t.encodeArray(c, id)
	default:
		return argErr("encode: cannot encode node of kind %s", n.kind)
	}
}

// encodeCompound writes a list/map header using the 32-bit size and count
// width unconditionally. The original source's encode path never sets a
// compound node's "small" flag (grep of pn_data_encode_node shows only
// LIST32/MAP32/ARRAY32 on the encode side); decode still accepts the 8-bit
// form, since that is the wire contract, not a choice this encoder makes.
func (t *Tree) encodeCompound(c *wire.Cursor, id NodeID, code kind.Code) error {
	if err := c.WriteUint8(uint8(code)); err != nil {
		return err
	}
	return t.encodeCompoundBody(c, id)
}

// encodeCompoundBody writes only the size/count/children part of a
// list/map, without its leading type-code byte. A compound array element
// shares the array's single stamped element-type byte rather than
// carrying its own, so it is encoded through this entry point instead of
// encodeCompound.
func (t *Tree) encodeCompoundBody(c *wire.Cursor, id NodeID) error {
	sizeOff, err := c.ReserveUint32()
	if err != nil {
		return err
	}
	if err := c.WriteUint32(uint32(t.nodes[id].children)); err != nil {
		return err
	}
	if err := t.encodeChildren(c, id); err != nil {
		return err
	}
	return c.PatchUint32(sizeOff, uint32(c.Pos()-sizeOff-4))
}

func (t *Tree) encodeChildren(c *wire.Cursor, id NodeID) error {
	for child := t.nodes[id].firstChild; child != Root; child = t.nodes[child].next {
		if err := t.encodeNode(c, child); err != nil {
			return err
		}
	}
	return nil
}

// encodeArray writes an array header, the (possibly descriptor-prefixed)
// shared element type code, then every element's bare payload. On an
// empty array the element type code is still written so the on-wire form
// stays well-formed.
func (t *Tree) encodeArray(c *wire.Cursor, id NodeID) error {
	if err := c.WriteUint8(uint8(kind.CodeArray32)); err != nil {
		return err
	}
	return t.encodeArrayBody(c, id)
}

// encodeArrayBody writes only the size/count/element-type/elements part
// of an array, without its leading type-code byte, so a nested array used
// as another array's element (sharing the outer element-type byte) can
// reuse it.
//
// Grounded on the original source's pn_data_encode_node/pn_data_flatten:
// a described array's first child is the bare descriptor value itself
// (not a wrapping descriptor node) and is not counted in the declared
// element count (`node->described ? node->children - 1 : node->children`).
func (t *Tree) encodeArrayBody(c *wire.Cursor, id NodeID) error {
	n := t.nodes[id]
	child := n.firstChild
	elemCount := n.children
	if n.described {
		elemCount--
	}

	sizeOff, err := c.ReserveUint32()
	if err != nil {
		return err
	}
	if err := c.WriteUint32(uint32(elemCount)); err != nil {
		return err
	}

	elemCode, ok := atomcodec.DefaultCode(n.elementType)
	if !ok {
		return argErr("encode: array has no element type code for kind %s", n.elementType)
	}

	if n.described {
		if err := c.WriteUint8(uint8(kind.CodeDescriptor)); err != nil {
			return err
		}
		if child == Root {
			return argErr("encode: described array missing descriptor value")
		}
		if err := t.encodeNode(c, child); err != nil {
			return err
		}
		child = t.nodes[child].next
	}

	if err := c.WriteUint8(uint8(elemCode)); err != nil {
		return err
	}
	for ; child != Root; child = t.nodes[child].next {
		// A compound array element still carries its own full size/count
		// header: only the leading type-code byte is shared across
		// elements (mirrors atomcodec.decodeElementPayload's symmetric
		// delegation to decodeByCode with a known, unread code).
		switch n.elementType {
		case kind.List, kind.Map:
			if err := t.encodeCompoundBody(c, child); err != nil {
				return err
			}
			continue
		case kind.Array:
			if err := t.encodeArrayBody(c, child); err != nil {
				return err
			}
			continue
		}
		a := atomToFlat(t, child)
		if err := atomcodec.EncodeElementPayload(c, n.elementType, a); err != nil {
			return err
		}
	}

	return c.PatchUint32(sizeOff, uint32(c.Pos()-sizeOff-4))
}

// atomToFlat projects a node into the FlatAtom shape EncodeElementPayload
// expects, since array elements share one code byte and are written
// through the same raw-payload helper atomcodec uses for decode.
func atomToFlat(t *Tree, id NodeID) atomcodec.FlatAtom {
	n := t.nodes[id]
	a := atomcodec.FlatAtom{Kind: n.kind, Bits: n.bits, Fixed16: n.fixed16}
	if n.kind.IsVariableLength() {
		a.Bytes = t.bytesOf(id)
	}
	return a
}
