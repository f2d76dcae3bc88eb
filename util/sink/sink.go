/*
 * VPD - Write-back sink for corrected ECC regions.
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

// Package sink implements the caller-supplied write-back target that an
// IPZ parse uses to persist a corrected ECC region back to its EEPROM.
// A parse never opens its own file handle; it is handed a sink that is
// assumed to already be open and exclusive to that parse, the same
// attach-once, exclusive-handle contract the emulator's tape and card
// devices use for their backing files.
package sink

import (
	"errors"
	"os"
)

// ErrNotAttached is returned when a FileSink is used before Attach.
var ErrNotAttached = errors.New("sink: not attached to a file")

// FileSink adapts an *os.File into a write-back sink (it satisfies
// vpd.WriteBackSink) by seeking to an absolute offset before every
// write. It is the sink implementation for callers that parse directly
// from the EEPROM device node or image file; tests use MemSink instead.
type FileSink struct {
	file *os.File
}

// Attach opens fileName for read/write and binds it to the sink. The
// caller owns the returned error; Attach never panics on a missing file.
func (s *FileSink) Attach(fileName string) error {
	f, err := os.OpenFile(fileName, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	s.file = f
	return nil
}

// Detach closes the underlying file, if any.
func (s *FileSink) Detach() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// SeekAbsolute positions the sink at offset bytes from the start of the
// underlying file.
func (s *FileSink) SeekAbsolute(offset int64) error {
	if s.file == nil {
		return ErrNotAttached
	}
	_, err := s.file.Seek(offset, 0)
	return err
}

// Write writes p at the sink's current position, advancing it by
// len(p) on success.
func (s *FileSink) Write(p []byte) (int, error) {
	if s.file == nil {
		return 0, ErrNotAttached
	}
	return s.file.Write(p)
}

// NewFileSink returns an unattached FileSink; call Attach before use.
func NewFileSink() *FileSink {
	return &FileSink{}
}

// MemSink is an in-memory write-back sink over a byte slice, useful for unit tests
// that want to assert on exactly what bytes were written where.
type MemSink struct {
	Data  []byte
	pos   int64
	Calls []WriteCall
}

// WriteCall records one write made to a MemSink, for test assertions.
type WriteCall struct {
	Offset int64
	Data   []byte
}

// NewMemSink returns a MemSink backed by a zeroed buffer of the given size.
func NewMemSink(size int) *MemSink {
	return &MemSink{Data: make([]byte, size)}
}

func (m *MemSink) SeekAbsolute(offset int64) error {
	m.pos = offset
	return nil
}

func (m *MemSink) Write(p []byte) (int, error) {
	if m.pos < 0 || int(m.pos)+len(p) > len(m.Data) {
		return 0, errors.New("sink: write out of range")
	}
	n := copy(m.Data[m.pos:], p)
	cp := make([]byte, len(p))
	copy(cp, p)
	m.Calls = append(m.Calls, WriteCall{Offset: m.pos, Data: cp})
	m.pos += int64(n)
	return n, nil
}
