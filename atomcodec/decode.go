package atomcodec

import (
	"github.com/gongfarmer/amqpval/amqperr"
	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/wire"
)

// DecodeOne decodes exactly one top-level atom (which may be compound, and
// may be wrapped in one or more descriptors) from c, appending its flat
// atom stream to out. It returns the extended slice.
//
// Descriptors unroll inline (0x00 emits a descriptor atom, then recursively
// decodes one atom for its value), and arrays emit an array atom plus a
// type-reference atom ahead of their raw element payloads. Returns a plain
// Go slice rather than writing into a fixed-capacity scratch buffer:
// append() already amortized-doubles it, so there is no manual
// overflow/retry loop to write.
func DecodeOne(c *wire.Cursor, out []FlatAtom) ([]FlatAtom, error) {
	codeByte, err := c.ReadUint8()
	if err != nil {
		return out, err
	}
	code := kind.Code(codeByte)

	if code == kind.CodeDescriptor {
		out = append(out, FlatAtom{Kind: kind.Descriptor})
		out, err = DecodeOne(c, out) // descriptor's value
		if err != nil {
			return out, err
		}
		return DecodeOne(c, out) // described value
	}

	return decodeByCode(c, code, out)
}

func decodeByCode(c *wire.Cursor, code kind.Code, out []FlatAtom) ([]FlatAtom, error) {
	switch code {
	case kind.CodeNull:
		return append(out, FlatAtom{Kind: kind.Null}), nil
	case kind.CodeTrue:
		return append(out, FlatAtom{Kind: kind.Bool, Bits: 1}), nil
	case kind.CodeFalse:
		return append(out, FlatAtom{Kind: kind.Bool, Bits: 0}), nil
	case kind.CodeUInt0:
		return append(out, FlatAtom{Kind: kind.UInt}), nil
	case kind.CodeULong0:
		return append(out, FlatAtom{Kind: kind.ULong}), nil
	case kind.CodeList0:
		return append(out, FlatAtom{Kind: kind.List, Count: 0}), nil

	case kind.CodeUByte:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: kind.UByte, Bits: uint64(v)}), err
	case kind.CodeByte:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: kind.Byte, Bits: uint64(int64(int8(v)))}), err
	case kind.CodeSmallUInt:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: kind.UInt, Bits: uint64(v)}), err
	case kind.CodeSmallULong:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: kind.ULong, Bits: uint64(v)}), err
	case kind.CodeSmallInt:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: kind.Int, Bits: uint64(int64(int8(v)))}), err
	case kind.CodeSmallLong:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: kind.Long, Bits: uint64(int64(int8(v)))}), err
	case kind.CodeBool:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: kind.Bool, Bits: uint64(v)}), err

	case kind.CodeUShort:
		v, err := c.ReadUint16()
		return append(out, FlatAtom{Kind: kind.UShort, Bits: uint64(v)}), err
	case kind.CodeShort:
		v, err := c.ReadUint16()
		return append(out, FlatAtom{Kind: kind.Short, Bits: uint64(int64(int16(v)))}), err

	case kind.CodeUInt:
		v, err := c.ReadUint32()
		return append(out, FlatAtom{Kind: kind.UInt, Bits: uint64(v)}), err
	case kind.CodeInt:
		v, err := c.ReadUint32()
		return append(out, FlatAtom{Kind: kind.Int, Bits: uint64(int64(int32(v)))}), err
	case kind.CodeFloat:
		v, err := c.ReadUint32()
		return append(out, FlatAtom{Kind: kind.Float, Bits: uint64(v)}), err
	case kind.CodeChar:
		v, err := c.ReadUint32()
		return append(out, FlatAtom{Kind: kind.Char, Bits: uint64(v)}), err
	case kind.CodeDecimal32:
		v, err := c.ReadUint32()
		return append(out, FlatAtom{Kind: kind.Decimal32, Bits: uint64(v)}), err

	case kind.CodeULong:
		v, err := c.ReadUint64()
		return append(out, FlatAtom{Kind: kind.ULong, Bits: v}), err
	case kind.CodeLong:
		v, err := c.ReadUint64()
		return append(out, FlatAtom{Kind: kind.Long, Bits: v}), err
	case kind.CodeDouble:
		v, err := c.ReadUint64()
		return append(out, FlatAtom{Kind: kind.Double, Bits: v}), err
	case kind.CodeTimestamp:
		v, err := c.ReadUint64()
		return append(out, FlatAtom{Kind: kind.Timestamp, Bits: v}), err
	case kind.CodeDecimal64:
		v, err := c.ReadUint64()
		return append(out, FlatAtom{Kind: kind.Decimal64, Bits: v}), err

	case kind.CodeDecimal128:
		v, err := c.ReadFixed16()
		return append(out, FlatAtom{Kind: kind.Decimal128, Fixed16: v}), err
	case kind.CodeUUID:
		v, err := c.ReadFixed16()
		return append(out, FlatAtom{Kind: kind.UUID, Fixed16: v}), err

	case kind.CodeVBin8:
		return decodeVarLen(c, out, kind.Binary, false)
	case kind.CodeVBin32:
		return decodeVarLen(c, out, kind.Binary, true)
	case kind.CodeStr8:
		return decodeVarLen(c, out, kind.String, false)
	case kind.CodeStr32:
		return decodeVarLen(c, out, kind.String, true)
	case kind.CodeSym8:
		return decodeVarLen(c, out, kind.Symbol, false)
	case kind.CodeSym32:
		return decodeVarLen(c, out, kind.Symbol, true)

	case kind.CodeList8:
		return decodeCompound(c, out, kind.List, false)
	case kind.CodeList32:
		return decodeCompound(c, out, kind.List, true)
	case kind.CodeMap8:
		return decodeCompound(c, out, kind.Map, false)
	case kind.CodeMap32:
		return decodeCompound(c, out, kind.Map, true)
	case kind.CodeArray8:
		return decodeArray(c, out, false)
	case kind.CodeArray32:
		return decodeArray(c, out, true)

	default:
		return out, amqperr.Newf(amqperr.ArgumentError, "unknown type code 0x%02x", byte(code))
	}
}

func decodeVarLen(c *wire.Cursor, out []FlatAtom, k kind.Kind, wide bool) ([]FlatAtom, error) {
	n, err := readLen(c, wide)
	if err != nil {
		return out, err
	}
	b, err := c.ReadBytes(n)
	if err != nil {
		return out, err
	}
	return append(out, FlatAtom{Kind: k, Bytes: b}), nil
}

func readLen(c *wire.Cursor, wide bool) (int, error) {
	if wide {
		v, err := c.ReadUint32()
		return int(v), err
	}
	v, err := c.ReadUint8()
	return int(v), err
}

// decodeCompound reads a list/map header (size, then count, both at the
// code's width) and decodes count child atoms recursively. The size prefix
// itself is not independently validated against remaining input here — spec
// §9's open question leaves this as an implementation choice, and per-child
// underflow checks (each ReadXxx call) already reject truncated input, so a
// separate pre-check would only catch a corrupt-but-plausible size earlier,
// never a case per-child checks miss.
func decodeCompound(c *wire.Cursor, out []FlatAtom, k kind.Kind, wide bool) ([]FlatAtom, error) {
	if _, err := readLen(c, wide); err != nil { // declared byte size, unused: see doc comment
		return out, err
	}
	count, err := readLen(c, wide)
	if err != nil {
		return out, err
	}
	out = append(out, FlatAtom{Kind: k, Count: count})
	for i := 0; i < count; i++ {
		out, err = DecodeOne(c, out)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// decodeArray reads a list/array header, then the shared element type code
// (which may itself be preceded by nested descriptors), then `count` raw
// element payloads using that one code.
func decodeArray(c *wire.Cursor, out []FlatAtom, wide bool) ([]FlatAtom, error) {
	if _, err := readLen(c, wide); err != nil { // declared byte size, unused: see decodeCompound's doc comment
		return out, err
	}
	count, err := readLen(c, wide)
	if err != nil {
		return out, err
	}

	described := false
	for {
		b, err := c.ReadUint8()
		if err != nil {
			return out, err
		}
		code := kind.Code(b)
		if code != kind.CodeDescriptor {
			elemKind, err := kindForElementCode(code)
			if err != nil {
				return out, err
			}
			out = append(out, FlatAtom{Kind: kind.Array, Count: count, Described: described, ElemKind: elemKind})
			out = append(out, FlatAtom{Kind: kind.TypeRef, ElemKind: elemKind})
			for i := 0; i < count; i++ {
				out, err = decodeElementPayload(c, out, elemKind)
				if err != nil {
					return out, err
				}
			}
			return out, nil
		}
		described = true
		out = append(out, FlatAtom{Kind: kind.Descriptor})
		out, err = DecodeOne(c, out)
		if err != nil {
			return out, err
		}
	}
}

func kindForElementCode(code kind.Code) (kind.Kind, error) {
	for _, k := range []kind.Kind{
		kind.Null, kind.Bool, kind.UByte, kind.Byte, kind.UShort, kind.Short,
		kind.UInt, kind.Int, kind.ULong, kind.Long, kind.Char, kind.Timestamp,
		kind.Float, kind.Double, kind.Decimal32, kind.Decimal64, kind.Decimal128,
		kind.UUID, kind.Binary, kind.String, kind.Symbol, kind.List, kind.Map, kind.Array,
	} {
		if c, ok := DefaultCode(k); ok && c == code {
			return k, nil
		}
	}
	return 0, amqperr.Newf(amqperr.ArgumentError, "unrecognized array element type code 0x%02x", byte(code))
}

func decodeElementPayload(c *wire.Cursor, out []FlatAtom, k kind.Kind) ([]FlatAtom, error) {
	switch k {
	case kind.Null:
		return append(out, FlatAtom{Kind: k}), nil
	case kind.Bool, kind.UByte, kind.Byte:
		v, err := c.ReadUint8()
		return append(out, FlatAtom{Kind: k, Bits: signExtendIfNeeded(k, uint64(v), 1)}), err
	case kind.UShort, kind.Short:
		v, err := c.ReadUint16()
		return append(out, FlatAtom{Kind: k, Bits: signExtendIfNeeded(k, uint64(v), 2)}), err
	case kind.UInt, kind.Int, kind.Float, kind.Decimal32, kind.Char:
		v, err := c.ReadUint32()
		return append(out, FlatAtom{Kind: k, Bits: signExtendIfNeeded(k, uint64(v), 4)}), err
	case kind.ULong, kind.Long, kind.Double, kind.Decimal64, kind.Timestamp:
		v, err := c.ReadUint64()
		return append(out, FlatAtom{Kind: k, Bits: v}), err
	case kind.Decimal128, kind.UUID:
		v, err := c.ReadFixed16()
		return append(out, FlatAtom{Kind: k, Fixed16: v}), err
	case kind.Binary, kind.String, kind.Symbol:
		n, err := c.ReadUint32()
		if err != nil {
			return out, err
		}
		b, err := c.ReadBytes(int(n))
		return append(out, FlatAtom{Kind: k, Bytes: b}), err
	case kind.List, kind.Map, kind.Array:
		// Array elements that are themselves compounds still carry their
		// own full compound header (size/count), per §6: only the leading
		// type-code byte is shared, not the body.
		return decodeByCode(c, mustDefaultCode(k), out)
	default:
		return out, amqperr.Newf(amqperr.ArgumentError, "cannot decode array element of kind %s", k)
	}
}

func mustDefaultCode(k kind.Kind) kind.Code {
	c, _ := DefaultCode(k)
	return c
}

func signExtendIfNeeded(k kind.Kind, v uint64, width int) uint64 {
	switch k {
	case kind.Byte, kind.Short, kind.Int:
		shift := uint(64 - width*8)
		return uint64(int64(v<<shift) >> shift)
	default:
		return v
	}
}
