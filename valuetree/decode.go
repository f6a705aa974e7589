package valuetree

import (
	"math"

	"github.com/gongfarmer/amqpval/atomcodec"
	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/wire"
)

// Decode clears the tree and rebuilds it from one top-level atom read out
// of buf (which may itself be compound and arbitrarily nested), returning
// the number of input bytes consumed. atomcodec.DecodeOne produces a flat
// atom stream (append already amortizes the scratch buffer the original
// source manually doubles), then parseAtoms walks it calling
// put_*/enter/exit to rebuild the tree.
func (t *Tree) Decode(buf []byte) (int, error) {
	t.Clear()
	c := wire.NewReadCursor(buf)

	flat, err := atomcodec.DecodeOne(c, nil)
	if err != nil {
		return c.Pos(), err
	}
	if err := t.parseAtoms(flat); err != nil {
		return c.Pos(), err
	}
	t.Rewind()
	return c.Pos(), nil
}

// parseAtoms replays a flat decode stream against the tree's put_*/
// enter/exit API, honoring descriptor markers and array type-reference
// atoms exactly as atomcodec.DecodeOne produced them.
func (t *Tree) parseAtoms(flat []atomcodec.FlatAtom) error {
	i := 0
	for i < len(flat) {
		next, err := t.parseOne(flat, i)
		if err != nil {
			return err
		}
		i = next
	}
	return nil
}

// parseOne consumes exactly one atom (and everything structurally under
// it) starting at flat[i], appending it at the tree's current cursor, and
// returns the index just past what it consumed.
func (t *Tree) parseOne(flat []atomcodec.FlatAtom, i int) (int, error) {
	a := flat[i]
	switch a.Kind {
	case kind.Null:
		return i + 1, t.PutNull()
	case kind.Bool:
		return i + 1, t.PutBool(a.Bits != 0)
	case kind.UByte:
		return i + 1, t.PutUByte(uint8(a.Bits))
	case kind.Byte:
		return i + 1, t.PutByte(int8(a.Bits))
	case kind.UShort:
		return i + 1, t.PutUShort(uint16(a.Bits))
	case kind.Short:
		return i + 1, t.PutShort(int16(a.Bits))
	case kind.UInt:
		return i + 1, t.PutUInt(uint32(a.Bits))
	case kind.Int:
		return i + 1, t.PutInt(int32(a.Bits))
	case kind.ULong:
		return i + 1, t.PutULong(a.Bits)
	case kind.Long:
		return i + 1, t.PutLong(int64(a.Bits))
	case kind.Char:
		return i + 1, t.PutChar(rune(a.Bits))
	case kind.Timestamp:
		return i + 1, t.PutTimestamp(int64(a.Bits))
	case kind.Float:
		return i + 1, t.PutFloat(math.Float32frombits(uint32(a.Bits)))
	case kind.Double:
		return i + 1, t.PutDouble(math.Float64frombits(a.Bits))
	case kind.Decimal32:
		return i + 1, t.PutDecimal32(uint32(a.Bits))
	case kind.Decimal64:
		return i + 1, t.PutDecimal64(a.Bits)
	case kind.Decimal128:
		return i + 1, t.PutDecimal128(a.Fixed16)
	case kind.UUID:
		return i + 1, t.PutUUID(a.Fixed16)
	case kind.Binary:
		return i + 1, t.PutBinary(a.Bytes)
	case kind.String:
		return i + 1, t.PutString(a.Bytes)
	case kind.Symbol:
		return i + 1, t.PutSymbol(a.Bytes)

	case kind.Descriptor:
		valEnd := spanEnd(flat, i+1)
		if valEnd < len(flat) && flat[valEnd].Kind == kind.Array {
			// A descriptor directly prefixing an array is not a generic
			// wrapping value: per the original source's pn_data_put_array/
			// pn_data_flatten, the descriptor value becomes the array's own
			// first child (its descriptor-described key), not an outer
			// descriptor node.
			return t.parseDescribedArray(flat, i, valEnd)
		}
		if err := t.PutDescribed(); err != nil {
			return i, err
		}
		if err := t.Enter(); err != nil {
			return i, err
		}
		next, err := t.parseOne(flat, i+1) // descriptor value
		if err != nil {
			return i, err
		}
		next, err = t.parseOne(flat, next) // described value
		if err != nil {
			return i, err
		}
		if err := t.Exit(); err != nil {
			return i, err
		}
		return next, nil

	case kind.List, kind.Map:
		if a.Kind == kind.List {
			if err := t.PutList(); err != nil {
				return i, err
			}
		} else {
			if err := t.PutMap(); err != nil {
				return i, err
			}
		}
		if a.Count == 0 {
			return i + 1, nil
		}
		if err := t.Enter(); err != nil {
			return i, err
		}
		next := i + 1
		for n := 0; n < a.Count; n++ {
			var err error
			next, err = t.parseOne(flat, next)
			if err != nil {
				return i, err
			}
		}
		if err := t.Exit(); err != nil {
			return i, err
		}
		return next, nil

	case kind.Array:
		// Reached only for an undescribed array: a described one is routed
		// through parseDescribedArray by the kind.Descriptor case above.
		return t.parseArrayElements(flat, i, false, 0)

	default:
		return i, argErr("decode: cannot rebuild tree node of kind %s", a.Kind)
	}
}

// parseDescribedArray rebuilds an array whose leading descriptor value
// spans flat[descStart:arrayIdx), with the array atom itself at arrayIdx.
// The descriptor value becomes the array's own first child.
func (t *Tree) parseDescribedArray(flat []atomcodec.FlatAtom, descStart, arrayIdx int) (int, error) {
	return t.parseArrayElements(flat, arrayIdx, true, descStart+1)
}

// parseArrayElements builds an Array node at flat[arrayIdx] (which must be
// immediately followed by a TypeRef atom), optionally prefixed by a
// descriptor value read from flat[descValueIdx] when described is true.
func (t *Tree) parseArrayElements(flat []atomcodec.FlatAtom, arrayIdx int, described bool, descValueIdx int) (int, error) {
	a := flat[arrayIdx]
	if arrayIdx+1 >= len(flat) || flat[arrayIdx+1].Kind != kind.TypeRef {
		return arrayIdx, argErr("decode: array atom not followed by a type reference")
	}
	if err := t.PutArray(described, a.ElemKind); err != nil {
		return arrayIdx, err
	}
	if !described && a.Count == 0 {
		return arrayIdx + 2, nil
	}
	if err := t.Enter(); err != nil {
		return arrayIdx, err
	}
	if described {
		if _, err := t.parseOne(flat, descValueIdx); err != nil {
			return arrayIdx, err
		}
	}
	next := arrayIdx + 2 // skip the array atom and its type-reference atom
	for n := 0; n < a.Count; n++ {
		var err error
		next, err = t.parseOne(flat, next)
		if err != nil {
			return arrayIdx, err
		}
	}
	if err := t.Exit(); err != nil {
		return arrayIdx, err
	}
	return next, nil
}

// spanEnd returns the flat-stream index just past the one atom (and
// everything structurally nested under it) starting at i, without
// mutating the tree. Used to peek past a descriptor's value and check
// whether it introduces an array.
func spanEnd(flat []atomcodec.FlatAtom, i int) int {
	if i >= len(flat) {
		return i
	}
	a := flat[i]
	switch a.Kind {
	case kind.Descriptor:
		valEnd := spanEnd(flat, i+1)
		return spanEnd(flat, valEnd)
	case kind.List, kind.Map:
		end := i + 1
		for n := 0; n < a.Count; n++ {
			end = spanEnd(flat, end)
		}
		return end
	case kind.Array:
		end := i + 2 // array atom + type reference
		for n := 0; n < a.Count; n++ {
			end = spanEnd(flat, end)
		}
		return end
	default:
		return i + 1
	}
}
