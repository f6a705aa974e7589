// Package atomcodec implements the AMQP 1.0 atom codec: the coupling of a
// one-byte type code with a fixed-shape value payload, encoded against
// wire.Cursor. Decode produces a flat stream of FlatAtom values with
// descriptors and array type-references unrolled inline; valuetree then
// rebuilds that flat stream into a tree.
//
// Decoding dispatches on the type code with one switch and recurses into
// each nested container, appending every atom it reads to a single flat
// stream.
package atomcodec

import "github.com/gongfarmer/amqpval/kind"

// FlatAtom is one element of the flat stream the decode path produces.
// Scalars carry their value as a raw bit pattern in Bits (interpreted per
// Kind by valuetree's Get<Kind> accessors); binary-like kinds carry an
// owned copy of their payload in Bytes (the decoder never aliases the
// input); decimal128/uuid carry Fixed16; compounds carry Count
// (+Described/ElemKind for arrays).
type FlatAtom struct {
	Kind      kind.Kind
	Bits      uint64
	Bytes     []byte
	Fixed16   [16]byte
	Count     int
	Described bool
	ElemKind  kind.Kind
}
