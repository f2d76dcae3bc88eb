/*
 * VPD - Bounds-checked byte cursor.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package cursor is the byte reader all VPD parsers walk the input
// buffer with: little-endian 16-bit decode and bounds-checked advance
// over an immutable byte slice, the same "check first, then index"
// discipline the emulator's memory package applies to guest addresses.
package cursor

import "errors"

// ErrTruncated is returned whenever a read or slice would run past the
// end of the buffer.
var ErrTruncated = errors.New("cursor: truncated")

// Cursor is a read-only, bounds-checked view over buf with a current
// position. It never mutates buf.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Pos returns the current cursor position.
func (c *Cursor) Pos() int {
	return c.pos
}

// SeekTo moves the cursor to an absolute position. It fails if pos lies
// outside [0, len(buf)].
func (c *Cursor) SeekTo(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return ErrTruncated
	}
	c.pos = pos
	return nil
}

// Advance moves the cursor forward by n bytes. It fails, leaving the
// cursor unmoved, if the resulting position would exceed the buffer.
func (c *Cursor) Advance(n int) error {
	if n < 0 || c.pos+n > len(c.buf) {
		return ErrTruncated
	}
	c.pos += n
	return nil
}

// Byte reads one byte at the current position without advancing.
func (c *Cursor) Byte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrTruncated
	}
	return c.buf[c.pos], nil
}

// ReadByte reads one byte at the current position and advances by 1.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.Byte()
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

// ReadU16LE reads a little-endian 16-bit value at the current position
// and advances by 2.
func (c *Cursor) ReadU16LE() (uint16, error) {
	v, err := ReadU16LE(c.buf, c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return v, nil
}

// ReadBytes reads exactly n bytes at the current position and advances
// by n. The returned slice aliases the underlying buffer and must not
// be mutated by the caller.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	s, err := Slice(c.buf, c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return s, nil
}

// ReadU16LE returns buf[i] | (buf[i+1] << 8), failing with ErrTruncated
// when the read would exceed the buffer.
func ReadU16LE(buf []byte, i int) (uint16, error) {
	if i < 0 || i+2 > len(buf) {
		return 0, ErrTruncated
	}
	return uint16(buf[i]) | uint16(buf[i+1])<<8, nil
}

// Slice returns a bounds-checked view of n bytes starting at i.
func Slice(buf []byte, i, n int) ([]byte, error) {
	if i < 0 || n < 0 || i+n > len(buf) {
		return nil, ErrTruncated
	}
	return buf[i : i+n], nil
}
