package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gongfarmer/amqpval/valuetree"
)

// encodedFixture encodes a single top-level list value, matching
// Tree.Decode's "one top-level value per call" contract.
func encodedFixture(t *testing.T) []byte {
	t.Helper()
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, tr.PutList())
	require.NoError(t, tr.Enter())
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutString([]byte("hi")))
	require.NoError(t, tr.Exit())

	buf, _, err := tr.Encode(nil)
	require.NoError(t, err)
	return buf
}

func TestRoundTripSucceedsOnWellFormedInput(t *testing.T) {
	buf := encodedFixture(t)
	ok, consumed, report, err := RoundTrip(buf)
	require.NoError(t, err)
	require.Empty(t, report)
	require.True(t, ok)
	require.Equal(t, len(buf), consumed)
}

func TestRoundTripFailsOnTruncatedInput(t *testing.T) {
	buf := encodedFixture(t)
	_, _, _, err := RoundTrip(buf[:len(buf)-1])
	require.Error(t, err)
}

func TestRoundTripFailsOnGarbageInput(t *testing.T) {
	_, _, _, err := RoundTrip([]byte{0xff, 0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestRoundTripReportsOnlyFirstAtomsConsumedBytes(t *testing.T) {
	tr := valuetree.NewTree(8, 16)
	require.NoError(t, tr.PutInt(1))
	require.NoError(t, tr.PutBool(true))
	buf, _, err := tr.Encode(nil)
	require.NoError(t, err)

	// Two top-level atoms were encoded; RoundTrip only decodes the first.
	ok, firstConsumed, _, err := RoundTrip(buf)
	require.NoError(t, err)
	require.True(t, ok)
	require.Less(t, firstConsumed, len(buf))

	// The remaining bytes are exactly the second atom, fully consumed.
	ok, secondConsumed, _, err := RoundTrip(buf[firstConsumed:])
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, len(buf)-firstConsumed, secondConsumed)
}
