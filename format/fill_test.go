package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/valuetree"
)

func TestFillScalars(t *testing.T) {
	tr := valuetree.NewTree(8, 32)
	require.NoError(t, Fill(tr, "iSo", int32(5), "hi", true))

	tr.Rewind()
	require.True(t, tr.Next())
	require.EqualValues(t, 5, tr.GetInt())
	require.True(t, tr.Next())
	require.Equal(t, "hi", string(tr.GetString()))
	require.True(t, tr.Next())
	require.True(t, tr.GetBool())
	require.False(t, tr.Next())
}

func TestFillList(t *testing.T) {
	tr := valuetree.NewTree(8, 32)
	require.NoError(t, Fill(tr, "[ii]", int32(1), int32(2)))

	tr.Rewind()
	require.True(t, tr.Next())
	require.Equal(t, kind.List, tr.Type())
	require.Equal(t, 2, tr.Count())
	require.NoError(t, tr.Enter())
	require.True(t, tr.Next())
	require.EqualValues(t, 1, tr.GetInt())
	require.True(t, tr.Next())
	require.EqualValues(t, 2, tr.GetInt())
	require.False(t, tr.Next())
}

func TestFillDescriptorAutoExitsAfterTwoChildren(t *testing.T) {
	tr := valuetree.NewTree(8, 32)
	require.NoError(t, Fill(tr, "Dsl", "urn:x", int64(42)))

	tr.Rewind()
	require.True(t, tr.Next())
	require.Equal(t, kind.Descriptor, tr.Type())
	require.Equal(t, 2, tr.Count())
	require.False(t, tr.Next()) // cursor landed back at top level, nothing after

	require.NoError(t, tr.Enter())
	require.True(t, tr.Next())
	require.Equal(t, "urn:x", string(tr.GetSymbol()))
	require.True(t, tr.Next())
	require.EqualValues(t, 42, tr.GetLong())
	require.False(t, tr.Next())
}

func TestFillOptionalTruePredicateWritesRealValue(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, Fill(tr, "?i", true, int32(9)))

	tr.Rewind()
	require.True(t, tr.Next())
	require.Equal(t, kind.Int, tr.Type())
	require.EqualValues(t, 9, tr.GetInt())
	require.False(t, tr.Next())
}

func TestFillOptionalFalsePredicateWritesNothingReal(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, Fill(tr, "?i", false, int32(9)))

	tr.Rewind()
	require.True(t, tr.Next())
	require.Equal(t, kind.Null, tr.Type())
	require.Equal(t, 0, tr.Count()) // the absorbed 'i' was discarded
	require.False(t, tr.Next())
}

func TestFillArray(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, Fill(tr, "@T[ii]", kind.Int, int32(1), int32(2)))

	tr.Rewind()
	require.True(t, tr.Next())
	require.Equal(t, kind.Array, tr.Type())
	require.Equal(t, kind.Int, tr.ElementType())
	require.Equal(t, 2, tr.Count())
}

func TestFillStarSymbols(t *testing.T) {
	tr := valuetree.NewTree(8, 32)
	require.NoError(t, Fill(tr, "*s", 3, []byte("a"), []byte("b"), []byte("c")))

	tr.Rewind()
	var got []string
	for tr.Next() {
		got = append(got, string(tr.GetSymbol()))
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFillNestedTreeFromSource(t *testing.T) {
	src := valuetree.NewTree(4, 8)
	require.NoError(t, src.PutInt(77))

	dst := valuetree.NewTree(4, 8)
	require.NoError(t, Fill(dst, "C", src))

	dst.Rewind()
	require.True(t, dst.Next())
	require.EqualValues(t, 77, dst.GetInt())
}

func TestFillNestedTreeFromEmptySourceWritesNull(t *testing.T) {
	src := valuetree.NewTree(4, 8)

	dst := valuetree.NewTree(4, 8)
	require.NoError(t, Fill(dst, "C", src))

	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, kind.Null, dst.Type())
}

func TestFillErrorsOnArgumentCountMismatch(t *testing.T) {
	tr := valuetree.NewTree(4, 8)
	require.Error(t, Fill(tr, "ii", int32(1)))
	require.Error(t, Fill(tr, "i", int32(1), int32(2)))
}
