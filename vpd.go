/*
 * VPD - Parsing and decoding core for server hardware inventory data.
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

// Package vpd discriminates and decodes the Vital Product Data formats a
// server's field-replaceable units carry: IBM's IPZ record format,
// plain Keyword-VPD, and DDR5 DDIMM SPD data. A single Parse call
// inspects the buffer, dispatches to the matching decoder, and returns
// a tagged Result; nothing here touches a bus, a config file, or a
// device tree — those live in whatever calls this package.
package vpd

import (
	"errors"
	"log/slog"

	"github.com/rcornwell/vpd/internal/ddimm"
	"github.com/rcornwell/vpd/internal/ipz"
	"github.com/rcornwell/vpd/internal/kwvpd"
)

// Kind names which variant of Result is populated.
type Kind int

const (
	KindEmpty Kind = iota
	KindIPZ
	KindKeywordVPD
	KindDDIMM
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindIPZ:
		return "IPZ"
	case KindKeywordVPD:
		return "KeywordVPD"
	case KindDDIMM:
		return "DDIMM"
	case KindUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// IPZResult holds the record -> keyword -> raw-bytes map an IPZ parse
// produces. Keyword values are kept raw; call Decode (package keyword)
// to render a printable string for a given keyword name.
type IPZResult struct {
	Records map[string]map[string][]byte
}

// KeywordVPDResult holds the flat keyword -> raw-bytes map a Keyword-VPD
// parse produces.
type KeywordVPDResult struct {
	Keywords map[string][]byte
}

// DDIMMResult holds the fixed set of fields a DDR5 DDIMM SPD decode
// produces. FN and PN always carry identical bytes per spec.
type DDIMMResult struct {
	MemorySizeInKB uint64
	FN             []byte
	PN             []byte
	SN             []byte
	CC             []byte
}

// Result is the tagged union every Parse call returns. For KindIPZ,
// KindKeywordVPD and KindDDIMM exactly the matching one of IPZ,
// KeywordVPD, DDIMM is non-nil; for KindUnsupported all three are nil
// and Unsupported carries the format tag.
type Result struct {
	Kind        Kind
	IPZ         *IPZResult
	KeywordVPD  *KeywordVPDResult
	DDIMM       *DDIMMResult
	Unsupported string
	Diagnostics []Diagnostic
}

// WriteBackSink is the caller-supplied target a parse writes a
// corrected ECC region back to. A nil sink is valid: a correction is
// then applied in memory only, and a Diagnostic notes the write-back
// was skipped.
type WriteBackSink interface {
	SeekAbsolute(offset int64) error
	Write(p []byte) (int, error)
}

// Parse discriminates buf's format and dispatches to the matching
// decoder. sourceID is advisory context for diagnostics and error
// messages (typically a file or FRU path). sink, if non-nil, receives
// any ECC corrections found during an IPZ parse at baseOffset plus the
// corrected region's offset within buf. logger, if nil, defaults to
// slog.Default().
func Parse(buf []byte, sourceID string, baseOffset int64, sink WriteBackSink, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(buf) == 0 {
		return Result{}, &Error{Kind: ErrTruncated, Source: sourceID, Err: errEmptyBuffer}
	}

	switch discriminate(buf) {
	case formatIPZ:
		rec, diags, err := ipz.Parse(buf, sourceID, baseOffset, sink, logger)
		if err != nil {
			return Result{}, wrapIPZErr(sourceID, err)
		}
		return Result{Kind: KindIPZ, IPZ: &IPZResult{Records: rec}, Diagnostics: convertDiagnostics(diags)}, nil

	case formatKeywordVPD:
		kw, err := kwvpd.Parse(buf)
		if err != nil {
			return Result{}, &Error{Kind: mapKWVPDKind(err), Source: sourceID, Err: err}
		}
		return Result{Kind: KindKeywordVPD, KeywordVPD: &KeywordVPDResult{Keywords: kw}}, nil

	case formatDDR5DDIMM:
		d, err := ddimm.ParseDDR5(buf)
		if err != nil {
			return Result{}, &Error{Kind: ErrDataException, Source: sourceID, Err: err}
		}
		return Result{Kind: KindDDIMM, DDIMM: &DDIMMResult{
			MemorySizeInKB: d.MemorySizeInKB,
			FN:             d.FN,
			PN:             d.PN,
			SN:             d.SN,
			CC:             d.CC,
		}}, nil

	case formatDDR4DDIMM:
		return Result{Kind: KindUnsupported, Unsupported: "ddr4-ddimm"}, nil

	case formatDDR5ISDIMM:
		return Result{Kind: KindUnsupported, Unsupported: "ddr5-isdimm"}, nil

	case formatDDR4ISDIMM:
		return Result{Kind: KindUnsupported, Unsupported: "ddr4-isdimm"}, nil

	default:
		return Result{}, &Error{Kind: ErrUnknownFormat, Source: sourceID, Err: errUnrecognized}
	}
}

func convertDiagnostics(in []ipz.Diagnostic) []Diagnostic {
	if len(in) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(in))
	for i, d := range in {
		out[i] = Diagnostic{Kind: d.Kind, Message: d.Message, Record: d.Record}
	}
	return out
}

func wrapIPZErr(sourceID string, err error) *Error {
	if e, ok := err.(*ipz.Error); ok {
		return &Error{Kind: mapIPZKind(e.Kind), Source: sourceID, Record: e.Record, Err: e.Err}
	}
	return &Error{Kind: ErrTruncated, Source: sourceID, Err: err}
}

func mapIPZKind(k ipz.ErrorKind) ErrorKind {
	switch k {
	case ipz.ErrTruncated:
		return ErrTruncated
	case ipz.ErrBadMagic:
		return ErrBadMagic
	case ipz.ErrMissingVtoc:
		return ErrMissingVtoc
	case ipz.ErrEccUncorrectable:
		return ErrEccUncorrectable
	default:
		return ErrTruncated
	}
}

// mapKWVPDKind translates a kwvpd sentinel error into the public
// ErrorKind it represents, the same way mapIPZKind does for ipz.Error.
func mapKWVPDKind(err error) ErrorKind {
	switch {
	case errors.Is(err, kwvpd.ErrBadTag), errors.Is(err, kwvpd.ErrBadVendor):
		return ErrBadMagic
	case errors.Is(err, kwvpd.ErrZeroSize):
		return ErrDataException
	case errors.Is(err, kwvpd.ErrBadTrailer):
		return ErrBadTrailer
	case errors.Is(err, kwvpd.ErrBadChecksum):
		return ErrBadChecksum
	default:
		return ErrTruncated
	}
}
