package valuetree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gongfarmer/amqpval/kind"
)

// roundTrip encodes src, decodes the bytes into a fresh tree, and returns
// it alongside the byte count consumed, to check atom-level and tree-level
// round trip.
func roundTrip(t *testing.T, src *Tree) (*Tree, int) {
	t.Helper()
	buf, n, err := src.Encode(nil)
	require.NoError(t, err)
	require.Len(t, buf, n)

	dst := NewTree(8, 32)
	consumed, err := dst.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, n, consumed)
	return dst, n
}

func TestRoundTripScalars(t *testing.T) {
	// Decode rebuilds one top-level value per call, so the scalars travel
	// as the children of a single list.
	src := NewTree(16, 32)
	require.NoError(t, src.PutList())
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutNull())
	require.NoError(t, src.PutBool(true))
	require.NoError(t, src.PutUByte(200))
	require.NoError(t, src.PutByte(-5))
	require.NoError(t, src.PutUShort(40000))
	require.NoError(t, src.PutShort(-1234))
	require.NoError(t, src.PutUInt(1 << 30))
	require.NoError(t, src.PutInt(-70000))
	require.NoError(t, src.PutULong(1 << 40))
	require.NoError(t, src.PutLong(-(1 << 40)))
	require.NoError(t, src.PutChar('λ'))
	require.NoError(t, src.PutTimestamp(1234567890123))
	require.NoError(t, src.PutFloat(3.5))
	require.NoError(t, src.PutDouble(2.718281828))
	require.NoError(t, src.PutBinary([]byte{0, 1, 2, 0xff}))
	require.NoError(t, src.PutString([]byte("hello world")))
	require.NoError(t, src.PutSymbol([]byte("urn:example")))
	require.NoError(t, src.Exit())

	dst, _ := roundTrip(t, src)
	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.List, dst.Type())
	require.NoError(t, dst.Enter())

	require.True(t, dst.Next())
	require.Equal(t, kind.Null, dst.Type())
	require.True(t, dst.Next())
	require.True(t, dst.GetBool())
	require.True(t, dst.Next())
	require.EqualValues(t, 200, dst.GetUByte())
	require.True(t, dst.Next())
	require.EqualValues(t, -5, dst.GetByte())
	require.True(t, dst.Next())
	require.EqualValues(t, 40000, dst.GetUShort())
	require.True(t, dst.Next())
	require.EqualValues(t, -1234, dst.GetShort())
	require.True(t, dst.Next())
	require.EqualValues(t, 1<<30, dst.GetUInt())
	require.True(t, dst.Next())
	require.EqualValues(t, -70000, dst.GetInt())
	require.True(t, dst.Next())
	require.EqualValues(t, 1<<40, dst.GetULong())
	require.True(t, dst.Next())
	require.EqualValues(t, -(1 << 40), dst.GetLong())
	require.True(t, dst.Next())
	require.Equal(t, 'λ', dst.GetChar())
	require.True(t, dst.Next())
	require.EqualValues(t, 1234567890123, dst.GetTimestamp())
	require.True(t, dst.Next())
	require.EqualValues(t, 3.5, dst.GetFloat())
	require.True(t, dst.Next())
	require.EqualValues(t, 2.718281828, dst.GetDouble())
	require.True(t, dst.Next())
	require.Equal(t, []byte{0, 1, 2, 0xff}, dst.GetBinary())
	require.True(t, dst.Next())
	require.Equal(t, "hello world", string(dst.GetString()))
	require.True(t, dst.Next())
	require.Equal(t, "urn:example", string(dst.GetSymbol()))
	require.False(t, dst.Next())
}

func TestRoundTripNestedListAndMap(t *testing.T) {
	src := NewTree(16, 32)
	require.NoError(t, src.PutList())
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutInt(1))
	require.NoError(t, src.PutMap())
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutSymbol([]byte("k")))
	require.NoError(t, src.PutInt(9))
	require.NoError(t, src.Exit())
	require.NoError(t, src.PutInt(3))
	require.NoError(t, src.Exit())

	dst, _ := roundTrip(t, src)
	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.List, dst.Type())
	require.Equal(t, 3, dst.Count())

	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.EqualValues(t, 1, dst.GetInt())

	require.True(t, dst.Next())
	require.Equal(t, kind.Map, dst.Type())
	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.Equal(t, "k", string(dst.GetSymbol()))
	require.True(t, dst.Next())
	require.EqualValues(t, 9, dst.GetInt())
	require.False(t, dst.Next())
	require.NoError(t, dst.Exit())

	require.True(t, dst.Next())
	require.EqualValues(t, 3, dst.GetInt())
	require.False(t, dst.Next())
}

func TestRoundTripDescriptor(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutDescribed())
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutULong(0x13))
	require.NoError(t, src.PutString([]byte("payload")))
	require.NoError(t, src.Exit())

	dst, _ := roundTrip(t, src)
	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.Descriptor, dst.Type())
	require.Equal(t, 2, dst.Count())
	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.EqualValues(t, 0x13, dst.GetULong())
	require.True(t, dst.Next())
	require.Equal(t, "payload", string(dst.GetString()))
	require.False(t, dst.Next())
}

func TestRoundTripUndescribedArray(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutArray(false, kind.Int))
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutInt(1))
	require.NoError(t, src.PutInt(2))
	require.NoError(t, src.PutInt(3))
	require.NoError(t, src.Exit())

	dst, _ := roundTrip(t, src)
	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.Array, dst.Type())
	require.False(t, dst.Described())
	require.Equal(t, kind.Int, dst.ElementType())
	require.Equal(t, 3, dst.Count())

	require.NoError(t, dst.Enter())
	var got []int32
	for dst.Next() {
		got = append(got, dst.GetInt())
	}
	require.Equal(t, []int32{1, 2, 3}, got)
}

func TestRoundTripDescribedArray(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutArray(true, kind.UInt))
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutULong(0x77)) // descriptor-described key
	require.NoError(t, src.PutUInt(10))
	require.NoError(t, src.PutUInt(20))
	require.NoError(t, src.Exit())

	dst, _ := roundTrip(t, src)
	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.Array, dst.Type())
	require.True(t, dst.Described())
	require.Equal(t, kind.UInt, dst.ElementType())
	// Wire element count excludes the descriptor-described key (the
	// original source's pn_data_flatten).
	require.Equal(t, 2, dst.Count())

	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.EqualValues(t, 0x77, dst.GetULong())
	require.True(t, dst.Next())
	require.EqualValues(t, 10, dst.GetUInt())
	require.True(t, dst.Next())
	require.EqualValues(t, 20, dst.GetUInt())
	require.False(t, dst.Next())
}

func TestRoundTripArrayOfLists(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutArray(false, kind.List))
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutList())
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutInt(1))
	require.NoError(t, src.PutInt(2))
	require.NoError(t, src.Exit())
	require.NoError(t, src.PutList())
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutInt(3))
	require.NoError(t, src.Exit())
	require.NoError(t, src.Exit())

	dst, _ := roundTrip(t, src)
	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.Array, dst.Type())
	require.NoError(t, dst.Enter())

	require.True(t, dst.Next())
	require.Equal(t, kind.List, dst.Type())
	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.EqualValues(t, 1, dst.GetInt())
	require.True(t, dst.Next())
	require.EqualValues(t, 2, dst.GetInt())
	require.False(t, dst.Next())
	require.NoError(t, dst.Exit())

	require.True(t, dst.Next())
	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.EqualValues(t, 3, dst.GetInt())
	require.NoError(t, dst.Exit())
}

func TestEncodeCompactness(t *testing.T) {
	// Small values must take the compact wire form: a zero ulong is 1 byte
	// (0x44), not 9.
	tr := NewTree(4, 4)
	require.NoError(t, tr.PutULong(0))
	buf, n, err := tr.Encode(nil)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(kind.CodeULong0), buf[0])

	tr.Clear()
	require.NoError(t, tr.PutLong(5))
	buf, n, err = tr.Encode(nil)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, byte(kind.CodeSmallLong), buf[0])
}
