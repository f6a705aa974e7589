package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/valuetree"
)

func TestScanScalars(t *testing.T) {
	tr := valuetree.NewTree(8, 32)
	require.NoError(t, tr.PutInt(5))
	require.NoError(t, tr.PutString([]byte("hi")))
	require.NoError(t, tr.PutBool(true))
	tr.Rewind()

	var i int32
	var s []byte
	var b bool
	require.NoError(t, Scan(tr, "iSo", &i, &s, &b))
	require.EqualValues(t, 5, i)
	require.Equal(t, "hi", string(s))
	require.True(t, b)
}

func TestScanList(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, Fill(tr, "[ii]", int32(1), int32(2)))
	tr.Rewind()

	var a, b int32
	require.NoError(t, Scan(tr, "[ii]", &a, &b))
	require.EqualValues(t, 1, a)
	require.EqualValues(t, 2, b)
}

func TestScanDescriptor(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, Fill(tr, "Dsl", "urn:x", int64(42)))
	tr.Rewind()

	var sym []byte
	var v int64
	require.NoError(t, Scan(tr, "Dsl", &sym, &v))
	require.Equal(t, "urn:x", string(sym))
	require.EqualValues(t, 42, v)
}

func TestScanArray(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, Fill(tr, "@T[ii]", kind.Int, int32(1), int32(2)))
	tr.Rewind()

	var et kind.Kind
	var a, b int32
	require.NoError(t, Scan(tr, "@T[ii]", &et, &a, &b))
	require.Equal(t, kind.Int, et)
	require.EqualValues(t, 1, a)
	require.EqualValues(t, 2, b)
}

// TestScanSuspensionSkipsAbsentDescriptor exercises scan suspension: a
// scan pattern carrying an optional described prefix still finds the real
// main value when the prefix is absent, without consuming it.
func TestScanSuspensionSkipsAbsentDescriptor(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, tr.PutInt(99)) // no descriptor wrapping this value
	tr.Rewind()

	var ghost1, ghost2 int32
	var real int32
	require.NoError(t, Scan(tr, "Diii", &ghost1, &ghost2, &real))
	require.Zero(t, ghost1)
	require.Zero(t, ghost2)
	require.EqualValues(t, 99, real)
}

func TestScanOptionalReportsMatch(t *testing.T) {
	described := valuetree.NewTree(8, 16)
	require.NoError(t, Fill(described, "Dii", int32(1), int32(2)))
	described.Rewind()

	var matched bool
	var a, b int32
	require.NoError(t, Scan(described, "?Dii", &matched, &a, &b))
	require.True(t, matched)
	require.EqualValues(t, 1, a)
	require.EqualValues(t, 2, b)

	plain := valuetree.NewTree(8, 16)
	require.NoError(t, plain.PutInt(5))
	plain.Rewind()

	matched = false
	a, b = 0, 0
	require.NoError(t, Scan(plain, "?Dii", &matched, &a, &b))
	require.False(t, matched)
	require.Zero(t, a)
	require.Zero(t, b)
}

func TestScanSkipCode(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutInt(2))
	tr.Rewind()

	var second int32
	require.NoError(t, Scan(tr, ".i", &second))
	require.EqualValues(t, 2, second)
}

func TestScanNestedTreeCopiesCurrentElement(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, tr.PutList())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutInt(2))
	require.NoError(t, tr.Exit())
	tr.Rewind()

	dst := valuetree.NewTree(8, 16)
	require.NoError(t, Scan(tr, "C", dst))

	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.List, dst.Type())
	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.EqualValues(t, 1, dst.GetInt())
	require.True(t, dst.Next())
	require.EqualValues(t, 2, dst.GetInt())
	require.False(t, dst.Next())
}

func TestScanStarSymbols(t *testing.T) {
	tr := valuetree.NewTree(8, 32)
	require.NoError(t, Fill(tr, "*s", 2, []byte("a"), []byte("b")))
	tr.Rewind()

	var count int
	var syms [][]byte
	require.NoError(t, Scan(tr, "*s", &count, &syms))
	require.Equal(t, 2, count)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, syms)
}
