/*
 * VPD - Typed parse errors.
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

package vpd

import "fmt"

// ErrorKind names one of the fatal failure classes a parse can report.
// These are distinct from Diagnostic, which covers non-fatal events.
type ErrorKind int

const (
	ErrUnknownFormat ErrorKind = iota
	ErrTruncated
	ErrBadMagic
	ErrMissingVtoc
	ErrEccUncorrectable
	ErrBadChecksum
	ErrBadTrailer
	ErrDataException
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownFormat:
		return "UnknownFormat"
	case ErrTruncated:
		return "Truncated"
	case ErrBadMagic:
		return "BadMagic"
	case ErrMissingVtoc:
		return "MissingVtoc"
	case ErrEccUncorrectable:
		return "EccUncorrectable"
	case ErrBadChecksum:
		return "BadChecksum"
	case ErrBadTrailer:
		return "BadTrailer"
	case ErrDataException:
		return "DataException"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every fatal parse failure returns.
// Source and Record are advisory context, not part of Kind's identity;
// callers should branch on Kind (or errors.Is against the Err it wraps),
// never on the formatted message.
type Error struct {
	Kind   ErrorKind
	Source string
	Record string
	Err    error
}

func (e *Error) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("vpd: %s: %s[%s]: %v", e.Kind, e.Source, e.Record, e.Err)
	}
	return fmt.Sprintf("vpd: %s: %s: %v", e.Kind, e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic is a non-fatal event surfaced alongside a successful parse:
// a corrected ECC region, a skipped record, a failed write-back. It is
// never returned as an error and never aborts a parse.
type Diagnostic struct {
	Kind    string
	Message string
	Record  string
}
