package valuetree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gongfarmer/amqpval/kind"
)

func TestFormatScalarLiterals(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutInt(-5))
	require.NoError(t, tr.PutUInt(5))
	require.NoError(t, tr.PutBool(false))
	require.NoError(t, tr.PutString([]byte("hi")))
	require.NoError(t, tr.PutSymbol([]byte("urn:x")))
	require.NoError(t, tr.PutBinary([]byte{0xde, 0xad}))

	require.Equal(t, `-5 5u false "hi" :"urn:x" b"\xde\xad"`, tr.Format())
}

func TestFormatList(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutList())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutInt(2))
	require.NoError(t, tr.Exit())

	require.Equal(t, "[1, 2]", tr.Format())
}

func TestFormatMap(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutMap())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutSymbol([]byte("k")))
	require.NoError(t, tr.PutInt(9))
	require.NoError(t, tr.Exit())

	require.Equal(t, "{:k=9}", tr.Format())
}

func TestFormatDescriptor(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutDescribed())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutULong(0x13))
	require.NoError(t, tr.PutInt(7))
	require.NoError(t, tr.Exit())

	require.Equal(t, "@19ul 7", tr.Format())
}

func TestFormatUndescribedArray(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutArray(false, kind.Int))
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutInt(2))
	require.NoError(t, tr.Exit())

	require.Equal(t, "@int[1, 2]", tr.Format())
}

func TestFormatDescribedArraySkipsDescriptorKeyInOutput(t *testing.T) {
	tr := NewTree(8, 16)
	require.NoError(t, tr.PutArray(true, kind.Int))
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutULong(0x77))
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.Exit())

	require.Equal(t, "@int[1]", tr.Format())
}

func TestDumpWritesTrailingNewline(t *testing.T) {
	tr := NewTree(4, 8)
	require.NoError(t, tr.PutBool(true))

	var out bytes.Buffer
	require.NoError(t, tr.Dump(&out))
	require.Equal(t, "true\n", out.String())
}
