package atomcodec

import (
	"math"

	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/wire"
)

// Encode<Kind> writes one scalar atom's code byte and payload, choosing the
// most compact AMQP 1.0 wire code available for the value. Compound headers
// (list/map/array) are written by valuetree's encode walk directly, since
// their size prefix must be back-patched once children are known — a
// concern that belongs to the tree walk, not to a single-atom codec call.

func EncodeNull(c *wire.Cursor) error {
	return c.WriteUint8(uint8(kind.CodeNull))
}

func EncodeBool(c *wire.Cursor, v bool) error {
	if v {
		return c.WriteUint8(uint8(kind.CodeTrue))
	}
	return c.WriteUint8(uint8(kind.CodeFalse))
}

func EncodeUByte(c *wire.Cursor, v uint8) error {
	if err := c.WriteUint8(uint8(kind.CodeUByte)); err != nil {
		return err
	}
	return c.WriteUint8(v)
}

func EncodeByte(c *wire.Cursor, v int8) error {
	if err := c.WriteUint8(uint8(kind.CodeByte)); err != nil {
		return err
	}
	return c.WriteUint8(uint8(v))
}

func EncodeUShort(c *wire.Cursor, v uint16) error {
	if err := c.WriteUint8(uint8(kind.CodeUShort)); err != nil {
		return err
	}
	return c.WriteUint16(v)
}

func EncodeShort(c *wire.Cursor, v int16) error {
	if err := c.WriteUint8(uint8(kind.CodeShort)); err != nil {
		return err
	}
	return c.WriteUint16(uint16(v))
}

// AMQP 1.0 short-form codes carry a 1-byte payload: smalluint/smallulong
// take unsigned values up to 255, smallint/smalllong take signed values in
// -128..127, and vbin8/str8/sym8 carry an 8-bit length prefix (lengths up
// to 255). Outside those ranges, the full-width code and its 4-byte (or
// 8-byte) payload are required.
const (
	compactSmallMax = 255 // inclusive: values <= this fit the 1-byte "small" codes
	compactLenMax   = 255 // inclusive: variable-length payloads <= this use the 8-bit length prefix
)

func EncodeUInt(c *wire.Cursor, v uint32) error {
	switch {
	case v == 0:
		return c.WriteUint8(uint8(kind.CodeUInt0))
	case v <= compactSmallMax:
		if err := c.WriteUint8(uint8(kind.CodeSmallUInt)); err != nil {
			return err
		}
		return c.WriteUint8(uint8(v))
	default:
		if err := c.WriteUint8(uint8(kind.CodeUInt)); err != nil {
			return err
		}
		return c.WriteUint32(v)
	}
}

func EncodeInt(c *wire.Cursor, v int32) error {
	if v >= -128 && v <= 127 {
		if err := c.WriteUint8(uint8(kind.CodeSmallInt)); err != nil {
			return err
		}
		return c.WriteUint8(uint8(int8(v)))
	}
	if err := c.WriteUint8(uint8(kind.CodeInt)); err != nil {
		return err
	}
	return c.WriteUint32(uint32(v))
}

func EncodeULong(c *wire.Cursor, v uint64) error {
	switch {
	case v == 0:
		return c.WriteUint8(uint8(kind.CodeULong0))
	case v <= compactSmallMax:
		if err := c.WriteUint8(uint8(kind.CodeSmallULong)); err != nil {
			return err
		}
		return c.WriteUint8(uint8(v))
	default:
		if err := c.WriteUint8(uint8(kind.CodeULong)); err != nil {
			return err
		}
		return c.WriteUint64(v)
	}
}

func EncodeLong(c *wire.Cursor, v int64) error {
	if v >= -128 && v <= 127 {
		if err := c.WriteUint8(uint8(kind.CodeSmallLong)); err != nil {
			return err
		}
		return c.WriteUint8(uint8(int8(v)))
	}
	if err := c.WriteUint8(uint8(kind.CodeLong)); err != nil {
		return err
	}
	return c.WriteUint64(uint64(v))
}

func EncodeChar(c *wire.Cursor, v rune) error {
	if err := c.WriteUint8(uint8(kind.CodeChar)); err != nil {
		return err
	}
	return c.WriteUint32(uint32(v))
}

func EncodeTimestamp(c *wire.Cursor, v int64) error {
	if err := c.WriteUint8(uint8(kind.CodeTimestamp)); err != nil {
		return err
	}
	return c.WriteUint64(uint64(v))
}

func EncodeFloat(c *wire.Cursor, v float32) error {
	if err := c.WriteUint8(uint8(kind.CodeFloat)); err != nil {
		return err
	}
	return c.WriteUint32(math.Float32bits(v))
}

func EncodeDouble(c *wire.Cursor, v float64) error {
	if err := c.WriteUint8(uint8(kind.CodeDouble)); err != nil {
		return err
	}
	return c.WriteUint64(math.Float64bits(v))
}

func EncodeDecimal32(c *wire.Cursor, bits uint32) error {
	if err := c.WriteUint8(uint8(kind.CodeDecimal32)); err != nil {
		return err
	}
	return c.WriteUint32(bits)
}

func EncodeDecimal64(c *wire.Cursor, bits uint64) error {
	if err := c.WriteUint8(uint8(kind.CodeDecimal64)); err != nil {
		return err
	}
	return c.WriteUint64(bits)
}

func EncodeDecimal128(c *wire.Cursor, bits [16]byte) error {
	if err := c.WriteUint8(uint8(kind.CodeDecimal128)); err != nil {
		return err
	}
	return c.WriteFixed16(bits)
}

func EncodeUUID(c *wire.Cursor, bits [16]byte) error {
	if err := c.WriteUint8(uint8(kind.CodeUUID)); err != nil {
		return err
	}
	return c.WriteFixed16(bits)
}

func EncodeBinary(c *wire.Cursor, v []byte) error {
	return encodeVarLen(c, v, kind.CodeVBin8, kind.CodeVBin32)
}

func EncodeString(c *wire.Cursor, v []byte) error {
	return encodeVarLen(c, v, kind.CodeStr8, kind.CodeStr32)
}

func EncodeSymbol(c *wire.Cursor, v []byte) error {
	return encodeVarLen(c, v, kind.CodeSym8, kind.CodeSym32)
}

func encodeVarLen(c *wire.Cursor, v []byte, code8, code32 kind.Code) error {
	if len(v) <= compactLenMax {
		if err := c.WriteUint8(uint8(code8)); err != nil {
			return err
		}
		if err := c.WriteUint8(uint8(len(v))); err != nil {
			return err
		}
		return c.WriteBytes(v)
	}
	if err := c.WriteUint8(uint8(code32)); err != nil {
		return err
	}
	if err := c.WriteUint32(uint32(len(v))); err != nil {
		return err
	}
	return c.WriteBytes(v)
}

// DefaultCode is the canonical, non-compacted wire code for a kind: the code
// used once to stamp every element of an array, since AMQP arrays carry a
// single shared element type code rather than a per-element one, so every
// element must share the widest/uncompacted width regardless of its own
// value. CodeDescriptor (0x00) is not part of this table, since it names no
// value kind of its own. Grounded on the original source's pn_type2code,
// the code table an array's shared element-type byte is drawn from.
func DefaultCode(k kind.Kind) (kind.Code, bool) {
	switch k {
	case kind.Null:
		return kind.CodeNull, true
	case kind.Bool:
		return kind.CodeBool, true
	case kind.UByte:
		return kind.CodeUByte, true
	case kind.Byte:
		return kind.CodeByte, true
	case kind.UShort:
		return kind.CodeUShort, true
	case kind.Short:
		return kind.CodeShort, true
	case kind.UInt:
		return kind.CodeUInt, true
	case kind.Int:
		return kind.CodeInt, true
	case kind.ULong:
		return kind.CodeULong, true
	case kind.Long:
		return kind.CodeLong, true
	case kind.Char:
		return kind.CodeChar, true
	case kind.Timestamp:
		return kind.CodeTimestamp, true
	case kind.Float:
		return kind.CodeFloat, true
	case kind.Double:
		return kind.CodeDouble, true
	case kind.Decimal32:
		return kind.CodeDecimal32, true
	case kind.Decimal64:
		return kind.CodeDecimal64, true
	case kind.Decimal128:
		return kind.CodeDecimal128, true
	case kind.UUID:
		return kind.CodeUUID, true
	case kind.Binary:
		return kind.CodeVBin32, true
	case kind.String:
		return kind.CodeStr32, true
	case kind.Symbol:
		return kind.CodeSym32, true
	case kind.List:
		return kind.CodeList32, true
	case kind.Map:
		return kind.CodeMap32, true
	case kind.Array:
		return kind.CodeArray32, true
	default:
		return 0, false
	}
}

// EncodeElementPayload writes one array element's payload using the shared
// code already stamped for the array (no per-element code byte).
func EncodeElementPayload(c *wire.Cursor, k kind.Kind, a FlatAtom) error {
	switch k {
	case kind.Null:
		return nil
	case kind.Bool:
		if a.Bits != 0 {
			return c.WriteUint8(1)
		}
		return c.WriteUint8(0)
	case kind.UByte, kind.Byte:
		return c.WriteUint8(uint8(a.Bits))
	case kind.UShort, kind.Short:
		return c.WriteUint16(uint16(a.Bits))
	case kind.UInt, kind.Int, kind.Float, kind.Decimal32, kind.Char:
		return c.WriteUint32(uint32(a.Bits))
	case kind.ULong, kind.Long, kind.Double, kind.Decimal64, kind.Timestamp:
		return c.WriteUint64(a.Bits)
	case kind.Decimal128, kind.UUID:
		return c.WriteFixed16(a.Fixed16)
	case kind.Binary, kind.String, kind.Symbol:
		// Element payloads always use the 32-bit length prefix: the shared
		// code stamped once for the whole array is the *32 variant (see
		// DefaultCode), so every element's length field matches that width.
		if err := c.WriteUint32(uint32(len(a.Bytes))); err != nil {
			return err
		}
		return c.WriteBytes(a.Bytes)
	default:
		return nil
	}
}
