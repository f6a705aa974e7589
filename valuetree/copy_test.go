package valuetree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gongfarmer/amqpval/kind"
)

func TestCopyReplacesDestinationContents(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutInt(1))
	require.NoError(t, src.PutList())
	require.NoError(t, src.Enter())
	require.NoError(t, src.PutString([]byte("a")))
	require.NoError(t, src.Exit())

	dst := NewTree(8, 16)
	require.NoError(t, dst.PutBool(true)) // pre-existing content must be discarded

	require.NoError(t, dst.Copy(src))

	dst.Rewind()
	require.True(t, dst.Next())
	require.EqualValues(t, 1, dst.GetInt())
	require.True(t, dst.Next())
	require.Equal(t, kind.List, dst.Type())
	require.NoError(t, dst.Enter())
	require.True(t, dst.Next())
	require.Equal(t, "a", string(dst.GetString()))
	require.False(t, dst.Next())
	require.NoError(t, dst.Exit())
	require.False(t, dst.Next())
}

func TestCopyIsolatesInternedBytes(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutString([]byte("original")))

	dst := NewTree(8, 16)
	require.NoError(t, dst.Copy(src))

	// Mutating src afterward must not affect dst's copy: every leaf is
	// copied by value through Put/Get, never by aliasing the interned byte
	// store.
	src.Clear()
	require.NoError(t, src.PutString([]byte("mutated")))

	dst.Rewind()
	require.True(t, dst.Next())
	require.Equal(t, "original", string(dst.GetString()))
}

func TestAppendNLimitsTopLevelCount(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutInt(1))
	require.NoError(t, src.PutInt(2))
	require.NoError(t, src.PutInt(3))

	before := src.current

	dst := NewTree(8, 16)
	require.NoError(t, dst.AppendN(src, 2))

	dst.Rewind()
	require.True(t, dst.Next())
	require.EqualValues(t, 1, dst.GetInt())
	require.True(t, dst.Next())
	require.EqualValues(t, 2, dst.GetInt())
	require.False(t, dst.Next())

	// src's own cursor is restored to where it was before the call.
	require.Equal(t, before, src.current)
}

func TestAppendPreservesSrcCursor(t *testing.T) {
	src := NewTree(8, 16)
	require.NoError(t, src.PutInt(1))
	src.Rewind()
	require.True(t, src.Next()) // park mid-stream

	saved := src.Point()

	dst := NewTree(8, 16)
	require.NoError(t, dst.Append(src))

	require.Equal(t, saved, src.Point())
}
