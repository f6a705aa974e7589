package valuetree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gongfarmer/amqpval/kind"
)

// buildScalarTree writes a few flat scalar values used by several tests.
func buildScalarTree(t *testing.T) *Tree {
	t.Helper()
	tr := NewTree(8, 32)
	require.NoError(t, tr.PutInt(7))
	require.NoError(t, tr.PutString([]byte("hello")))
	require.NoError(t, tr.PutBool(true))
	return tr
}

func TestPutAndNavigateFlatSiblings(t *testing.T) {
	tr := buildScalarTree(t)
	tr.Rewind()

	require.True(t, tr.Next())
	require.Equal(t, kind.Int, tr.Type())
	require.EqualValues(t, 7, tr.GetInt())

	require.True(t, tr.Next())
	require.Equal(t, kind.String, tr.Type())
	require.Equal(t, "hello", string(tr.GetString()))

	require.True(t, tr.Next())
	require.Equal(t, kind.Bool, tr.Type())
	require.True(t, tr.GetBool())

	require.False(t, tr.Next())
}

func TestReplaySemanticsOverwriteInPlace(t *testing.T) {
	tr := NewTree(4, 16)
	require.NoError(t, tr.PutInt(1))
	firstID := tr.current
	require.NoError(t, tr.PutInt(2))

	// Replaying from the top should reuse the same nodes, not grow the tree.
	tr.Rewind()
	require.NoError(t, tr.PutInt(100))
	require.Equal(t, firstID, tr.current)
	require.NoError(t, tr.PutInt(200))

	tr.Rewind()
	require.True(t, tr.Next())
	require.EqualValues(t, 100, tr.GetInt())
	require.True(t, tr.Next())
	require.EqualValues(t, 200, tr.GetInt())
	require.False(t, tr.Next())
}

func TestReplayDiscardsStaleChildren(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutList())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutInt(2))
	require.NoError(t, tr.Exit())

	// Overwrite the list node itself with a scalar; its old children become
	// unreachable garbage, not a dangling subtree.
	tr.Rewind()
	require.NoError(t, tr.PutNull())
	tr.Rewind()
	require.True(t, tr.Next())
	require.Equal(t, kind.Null, tr.Type())
	require.False(t, tr.Next())
}

func TestEnterRejectsNonComposite(t *testing.T) {
	tr := NewTree(4, 8)
	require.NoError(t, tr.PutInt(1))
	require.Error(t, tr.Enter())
}

func TestExitAtTopLevelErrors(t *testing.T) {
	tr := NewTree(4, 8)
	require.Error(t, tr.Exit())
}

func TestGetWrongKindReturnsZeroValue(t *testing.T) {
	tr := NewTree(4, 8)
	require.NoError(t, tr.PutString([]byte("x")))
	tr.Rewind()
	require.True(t, tr.Next())
	require.Zero(t, tr.GetInt())
	require.Nil(t, tr.GetBinary())
}

func TestDescriptorRequiresExactlyTwoChildrenToEncode(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutDescribed())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutULong(42))
	require.NoError(t, tr.Exit())

	_, _, err := tr.Encode(nil)
	require.Error(t, err)
}

func TestMapRequiresEvenChildCountToEncode(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutMap())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutString([]byte("key")))
	require.NoError(t, tr.Exit())

	_, _, err := tr.Encode(nil)
	require.Error(t, err)
}

func TestNarrowWidenRoundTrip(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutList())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutInt(2))
	require.NoError(t, tr.Exit())
	require.NoError(t, tr.PutInt(3))

	tr.Rewind()
	require.True(t, tr.Next()) // on the list
	tr.Narrow()
	require.NoError(t, tr.Enter())
	require.True(t, tr.Next())
	require.EqualValues(t, 1, tr.GetInt())
	tr.Widen()
	require.Equal(t, kind.List, tr.Type())
}
