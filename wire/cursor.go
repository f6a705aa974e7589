// Package wire implements fixed-width big-endian reads and writes, as used
// by the AMQP 1.0 type system (ISO/IEC 19464 §1.6), over a cursor view of a
// mutable byte range. Every byte consumed, on read or write, passes through
// ltrim; there is no other path that advances a Cursor.
//
// Built as a seekable slice cursor rather than an io.Reader/io.Writer pair:
// the value tree's encode walk must back-patch a compound's length prefix
// after its children are written, which requires random access a
// forward-only stream can't give.
package wire

import (
	"encoding/binary"
	"math"

	"github.com/gongfarmer/amqpval/amqperr"
)

func newErr(k amqperr.Kind, msg string) error {
	return amqperr.New(k, msg)
}

// Cursor is a mutable window into a byte range: [buf[pos:]] is the
// unconsumed remainder. Writers grow buf by appending (and so may
// reallocate its backing array); readers only ever shrink the visible
// window.
type Cursor struct {
	buf []byte
	pos int
}

// NewReadCursor wraps buf for reading starting at offset 0.
func NewReadCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// NewWriteCursor wraps buf for writing, appending from its current length.
func NewWriteCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, pos: len(buf)}
}

// Pos returns the current absolute byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Bytes returns the full underlying buffer (including already-consumed
// prefix), so callers can seek and overwrite a reserved span (the back-patch
// use case below).
func (c *Cursor) Bytes() []byte { return c.buf }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// ltrim is the sole byte-consuming primitive: every read/write advances the
// cursor by exactly n bytes on success, or fails without moving at all.
func (c *Cursor) ltrim(n int) error {
	if c.pos+n > len(c.buf) {
		return newErr(amqperr.Underflow, "cursor: read past end of input")
	}
	c.pos += n
	return nil
}

// ---- reads ----

func (c *Cursor) ReadUint8() (uint8, error) {
	if c.Remaining() < 1 {
		return 0, newErr(amqperr.Underflow, "uint8: underflow")
	}
	v := c.buf[c.pos]
	_ = c.ltrim(1)
	return v, nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	if c.Remaining() < 2 {
		return 0, newErr(amqperr.Underflow, "uint16: underflow")
	}
	v := binary.BigEndian.Uint16(c.buf[c.pos:])
	_ = c.ltrim(2)
	return v, nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, newErr(amqperr.Underflow, "uint32: underflow")
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos:])
	_ = c.ltrim(4)
	return v, nil
}

func (c *Cursor) ReadUint64() (uint64, error) {
	if c.Remaining() < 8 {
		return 0, newErr(amqperr.Underflow, "uint64: underflow")
	}
	v := binary.BigEndian.Uint64(c.buf[c.pos:])
	_ = c.ltrim(8)
	return v, nil
}

func (c *Cursor) ReadFloat32() (float32, error) {
	bits, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func (c *Cursor) ReadFloat64() (float64, error) {
	bits, err := c.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// ReadBytes returns a copy of the next n bytes: source buffers may be freed
// after decode returns, so decode never aliases into the input.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, newErr(amqperr.Underflow, "bytes: underflow")
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	_ = c.ltrim(n)
	return out, nil
}

// ReadFixed16 reads a 16-byte blob (decimal128/uuid payload).
func (c *Cursor) ReadFixed16() ([16]byte, error) {
	var out [16]byte
	if c.Remaining() < 16 {
		return out, newErr(amqperr.Underflow, "fixed16: underflow")
	}
	copy(out[:], c.buf[c.pos:c.pos+16])
	_ = c.ltrim(16)
	return out, nil
}

// ---- writes ----
// Writers append to buf, growing it rather than writing through a
// fixed-size buffer. Growth may reallocate the backing array, so callers
// read the current slice back through Bytes instead of keeping their own.

func (c *Cursor) WriteUint8(v uint8) error {
	c.buf = append(c.buf, v)
	return c.ltrim(1)
}

func (c *Cursor) WriteUint16(v uint16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	c.buf = append(c.buf, tmp[:]...)
	return c.ltrim(2)
}

func (c *Cursor) WriteUint32(v uint32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	c.buf = append(c.buf, tmp[:]...)
	return c.ltrim(4)
}

func (c *Cursor) WriteUint64(v uint64) error {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	c.buf = append(c.buf, tmp[:]...)
	return c.ltrim(8)
}

func (c *Cursor) WriteFloat32(v float32) error {
	return c.WriteUint32(math.Float32bits(v))
}

func (c *Cursor) WriteFloat64(v float64) error {
	return c.WriteUint64(math.Float64bits(v))
}

func (c *Cursor) WriteBytes(b []byte) error {
	c.buf = append(c.buf, b...)
	return c.ltrim(len(b))
}

func (c *Cursor) WriteFixed16(b [16]byte) error {
	c.buf = append(c.buf, b[:]...)
	return c.ltrim(16)
}

// ReserveUint32 appends a placeholder 4 bytes and returns the absolute
// offset it was written at, for a later PatchUint32 once the real value
// (a compound's encoded byte size) is known.
func (c *Cursor) ReserveUint32() (offset int, err error) {
	offset = c.pos
	return offset, c.WriteUint32(0)
}

// PatchUint32 overwrites the 4 bytes at offset (previously reserved) with v.
// It does not move the cursor.
func (c *Cursor) PatchUint32(offset int, v uint32) error {
	if offset < 0 || offset+4 > len(c.buf) {
		return newErr(amqperr.Overflow, "patch: offset out of range")
	}
	binary.BigEndian.PutUint32(c.buf[offset:offset+4], v)
	return nil
}
