// Package kind defines the AMQP 1.0 atom kind vocabulary and the wire type
// codes that name each kind on the wire (ISO/IEC 19464 §1.6). It has no
// dependencies: every other package in this module builds on this shared
// vocabulary, the same way a single type-constant block anchors an entire
// codec.
package kind

// Kind discriminates the payload carried by one atom. It is a sum type over
// every value the wire format can carry, matched exhaustively wherever an
// atom is produced or consumed.
type Kind uint8

const (
	Null Kind = iota
	Bool
	UByte
	Byte
	UShort
	Short
	UInt
	Int
	ULong
	Long
	Char
	Timestamp
	Float
	Double
	Decimal32
	Decimal64
	Decimal128
	UUID
	Binary
	String
	Symbol
	Descriptor
	Array
	List
	Map
	TypeRef // internal: names an array's element kind in the flat atom stream
)

var kindNames = [...]string{
	Null: "null", Bool: "bool", UByte: "ubyte", Byte: "byte",
	UShort: "ushort", Short: "short", UInt: "uint", Int: "int",
	ULong: "ulong", Long: "long", Char: "char", Timestamp: "timestamp",
	Float: "float", Double: "double", Decimal32: "decimal32",
	Decimal64: "decimal64", Decimal128: "decimal128", UUID: "uuid",
	Binary: "binary", String: "string", Symbol: "symbol",
	Descriptor: "descriptor", Array: "array", List: "list", Map: "map",
	TypeRef: "type-reference",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown-kind"
}

// IsCompound reports whether values of this kind carry children in the tree.
func (k Kind) IsCompound() bool {
	switch k {
	case List, Map, Array, Descriptor:
		return true
	default:
		return false
	}
}

// IsVariableLength reports whether this kind's payload is an interned byte run.
func (k Kind) IsVariableLength() bool {
	switch k {
	case Binary, String, Symbol:
		return true
	default:
		return false
	}
}

// Code is a single wire type-code byte. 0x00 means "descriptor follows"
// (CodeDescriptor below; handled by atomcodec) and names no value kind.
type Code byte

// Wire type codes, AMQP 1.0 §1.6.
const (
	CodeNull   Code = 0x40
	CodeTrue   Code = 0x41
	CodeFalse  Code = 0x42
	CodeBool   Code = 0x56 // 1-byte payload variant (0/1)
	CodeUInt0  Code = 0x43
	CodeULong0 Code = 0x44
	CodeList0  Code = 0x45

	CodeUByte Code = 0x50
	CodeByte  Code = 0x51

	CodeSmallUInt  Code = 0x52
	CodeSmallULong Code = 0x53
	CodeSmallInt   Code = 0x54
	CodeSmallLong  Code = 0x55

	CodeUShort Code = 0x60
	CodeShort  Code = 0x61

	CodeUInt Code = 0x70
	CodeInt  Code = 0x71
	CodeFloat Code = 0x72
	CodeChar  Code = 0x73
	CodeDecimal32 Code = 0x74

	CodeULong     Code = 0x80
	CodeLong      Code = 0x81
	CodeDouble    Code = 0x82
	CodeTimestamp Code = 0x83
	CodeDecimal64 Code = 0x84

	CodeUUID       Code = 0x98
	CodeDecimal128 Code = 0x94

	CodeVBin8  Code = 0xa0
	CodeStr8   Code = 0xa1
	CodeSym8   Code = 0xa3
	CodeVBin32 Code = 0xb0
	CodeStr32  Code = 0xb1
	CodeSym32  Code = 0xb3

	CodeList8   Code = 0xc0
	CodeMap8    Code = 0xc1
	CodeList32  Code = 0xd0
	CodeMap32   Code = 0xd1
	CodeArray8  Code = 0xe0
	CodeArray32 Code = 0xf0

	// CodeDescriptor is the marker byte introducing a described value. It
	// does not name a Kind on its own (decode_type unrolls it into a
	// Descriptor atom plus the two atoms that follow); kept here because
	// it is part of the same single-byte wire vocabulary.
	CodeDescriptor Code = 0x00
)
