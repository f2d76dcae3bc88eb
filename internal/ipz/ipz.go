/*
 * VPD - IPZ record format parser.
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

// Package ipz walks IBM's IPZ record format: a VHDR header, a VTOC
// naming the page-table (PT) location, a PT listing every record's
// offset/length/ECC coordinates, and per-record keyword streams. Every
// ECC-protected region (VHDR, VTOC, each record) is verified through
// package ecc before its bytes are trusted.
package ipz

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcornwell/vpd/internal/cursor"
	"github.com/rcornwell/vpd/internal/ecc"
)

// ErrorKind classifies a fatal IPZ parse failure.
type ErrorKind int

const (
	ErrTruncated ErrorKind = iota
	ErrBadMagic
	ErrMissingVtoc
	ErrEccUncorrectable
)

// Error is the fatal error type Parse returns. Record is set when the
// failure is tied to a specific record name (VTOC parses carry none).
type Error struct {
	Kind   ErrorKind
	Record string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ipz: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic is a non-fatal event: a corrected region, a skipped
// record, a failed write-back, a PT entry pointing outside the buffer.
type Diagnostic struct {
	Kind    string
	Message string
	Record  string
}

// WriteBackSink receives a corrected ECC region at an absolute file
// offset. A nil sink is valid; correction then only happens in memory.
type WriteBackSink interface {
	SeekAbsolute(offset int64) error
	Write(p []byte) (int, error)
}

// Every IPZ record (VTOC included) opens with a 4-byte record_id +
// record_size header, then an RT keyword entry whose value is the
// record's 4-byte name, then further keyword entries until PF.
const (
	recPrefixLen  = 4 // record_id(2) + record_size(2)
	kwNameLen     = 2
	kwSizeLen     = 1
	recordNameLen = 4
	ptEntryLen    = recordNameLen + 1 + 2 + 2 + 2 + 2 // RECORD_NAME + RECORD_TYPE + 4x u16
)

var (
	errShortHeader  = errors.New("ipz: buffer shorter than a VHDR header")
	errBadVhdrMagic = errors.New("ipz: missing VHDR magic")
	errBadVtocMagic = errors.New("ipz: missing VTOC magic")
)

// Parse walks buf and returns the record -> keyword -> raw-bytes map.
// sourceID and baseOffset are used only for diagnostics and for
// addressing sink writes; sink and logger may be nil. buf itself is
// never mutated: a corrected region is applied to a private clone
// (made on first use) and, when sink is non-nil, persisted there at
// baseOffset plus the region's offset.
func Parse(buf []byte, sourceID string, baseOffset int64, sink WriteBackSink, logger *slog.Logger) (map[string]map[string][]byte, []Diagnostic, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var diags []Diagnostic
	work := buf
	owned := false

	fatal := func(kind ErrorKind, err error) error {
		e := &Error{Kind: kind, Err: err}
		logger.Error("ipz parse failed", "source", sourceID, "kind", kind, "error", err)
		return e
	}

	if len(buf) < 55 {
		return nil, nil, fatal(ErrTruncated, errShortHeader)
	}
	if string(buf[17:21]) != "VHDR" {
		return nil, nil, fatal(ErrBadMagic, errBadVhdrMagic)
	}

	headerData := buf[11:55]
	headerEcc := buf[0:11]
	res, err := ecc.Verify(headerData, headerEcc)
	if err != nil || res.Status == ecc.Uncorrectable {
		return nil, nil, fatal(ErrEccUncorrectable, fmt.Errorf("VHDR: %w", eccFailure(err, res)))
	}
	if res.Status == ecc.Correctable {
		cd, cwork := correct(work, &owned, buf, sink, baseOffset, 11, res.Corrected, "VHDR", sourceID, logger)
		diags = append(diags, cd...)
		work = cwork
	}

	vtocOffset, err := cursor.ReadU16LE(work, 35)
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}
	vtocLength, err := cursor.ReadU16LE(work, 37)
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}
	vtocEccOffset, err := cursor.ReadU16LE(work, 39)
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}
	vtocEccLength, err := cursor.ReadU16LE(work, 41)
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}

	// The VTOC record's RT value sits 7 bytes in: record_id(2) +
	// record_size(2) + KW_NAME(2) + KW_SIZE(1).
	vtocNameOffset := int(vtocOffset) + recPrefixLen + kwNameLen + kwSizeLen
	vtocName, err := cursor.Slice(work, vtocNameOffset, recordNameLen)
	if err != nil || string(vtocName) != "VTOC" {
		return nil, nil, fatal(ErrMissingVtoc, errBadVtocMagic)
	}

	vtocData, err := cursor.Slice(work, int(vtocOffset), int(vtocLength))
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}
	vtocEcc, err := cursor.Slice(work, int(vtocEccOffset), int(vtocEccLength))
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}
	res, err = ecc.Verify(vtocData, vtocEcc)
	if err != nil || res.Status == ecc.Uncorrectable {
		return nil, nil, fatal(ErrEccUncorrectable, fmt.Errorf("VTOC: %w", eccFailure(err, res)))
	}
	if res.Status == ecc.Correctable {
		cd, cwork := correct(work, &owned, buf, sink, baseOffset, int(vtocOffset), res.Corrected, "VTOC", sourceID, logger)
		diags = append(diags, cd...)
		work = cwork
	}

	// PT data begins past the VTOC record's RECORD_NAME value (4
	// bytes, just confirmed above) and the PT keyword's own KW_NAME
	// (2 bytes); the byte there is the PT length, then PT entries
	// follow.
	ptLenPos := vtocNameOffset + recordNameLen + kwNameLen
	ptLenByte, err := cursor.Slice(work, ptLenPos, 1)
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}
	ptLen := int(ptLenByte[0])
	ptStart := ptLenPos + 1
	ptBytes, err := cursor.Slice(work, ptStart, ptLen)
	if err != nil {
		return nil, nil, fatal(ErrTruncated, err)
	}

	type recEntry struct {
		name   string
		offset int
		length int
	}
	var records []recEntry

	for i := 0; i+ptEntryLen <= len(ptBytes); i += ptEntryLen {
		entry := ptBytes[i : i+ptEntryLen]
		ptName := string(entry[0:recordNameLen])
		recOffset := int(entry[5]) | int(entry[6])<<8
		recLength := int(entry[7]) | int(entry[8])<<8
		recEccOffset := int(entry[9]) | int(entry[10])<<8
		recEccLength := int(entry[11]) | int(entry[12])<<8

		if recOffset == 0 || recLength == 0 || recEccOffset == 0 || recEccLength == 0 {
			diags = append(diags, warnDiag(logger, sourceID, "InvalidPTEntry", "zero-valued PT geometry, skipped", ptName))
			continue
		}

		recData, err := cursor.Slice(work, recOffset, recLength)
		if err != nil {
			diags = append(diags, warnDiag(logger, sourceID, "OutOfRange", "PT entry outside buffer, skipped", ptName))
			continue
		}
		recEcc, err := cursor.Slice(work, recEccOffset, recEccLength)
		if err != nil {
			diags = append(diags, warnDiag(logger, sourceID, "OutOfRange", "PT entry ECC region outside buffer, skipped", ptName))
			continue
		}

		res, err := ecc.Verify(recData, recEcc)
		if err != nil {
			diags = append(diags, warnDiag(logger, sourceID, "EccError", err.Error(), ptName))
			continue
		}
		switch res.Status {
		case ecc.Uncorrectable:
			diags = append(diags, warnDiag(logger, sourceID, "EccUncorrectable", "record ECC uncorrectable, skipped", ptName))
			continue
		case ecc.Correctable:
			cd, cwork := correct(work, &owned, buf, sink, baseOffset, recOffset, res.Corrected, ptName, sourceID, logger)
			diags = append(diags, cd...)
			work = cwork
		}
		records = append(records, recEntry{name: ptName, offset: recOffset, length: recLength})
	}

	out := make(map[string]map[string][]byte, len(records))
	for _, r := range records {
		recBuf, err := cursor.Slice(work, r.offset, r.length)
		if err != nil {
			diags = append(diags, warnDiag(logger, sourceID, "OutOfRange", "record body outside buffer, skipped", r.name))
			continue
		}
		name, kws, err := parseRecord(recBuf)
		if err != nil {
			diags = append(diags, warnDiag(logger, sourceID, "RecordParseFailed", err.Error(), r.name))
			continue
		}
		out[name] = kws
	}

	return out, diags, nil
}

// warnDiag builds a Diagnostic for a non-fatal, skipped-but-recovered
// event and emits it through logger at Warn, per SPEC_FULL §4's
// diagnostic routing.
func warnDiag(logger *slog.Logger, sourceID, kind, message, record string) Diagnostic {
	logger.Warn(message, "source", sourceID, "kind", kind, "record", record)
	return Diagnostic{Kind: kind, Message: message, Record: record}
}

// correct applies a correctable ECC result to a private copy of buf
// (cloning it on first use, so buf itself is never mutated), attempts
// a best-effort write-back through sink, and returns the Diagnostics
// produced plus the (possibly newly cloned) working slice to read from
// for the rest of the parse.
func correct(work []byte, owned *bool, buf []byte, sink WriteBackSink, baseOffset int64, offset int, data []byte, record, sourceID string, logger *slog.Logger) ([]Diagnostic, []byte) {
	if !*owned {
		cloned := make([]byte, len(buf))
		copy(cloned, buf)
		work = cloned
		*owned = true
	}
	copy(work[offset:offset+len(data)], data)

	msg := "ECC corrected in memory"
	logger.Info(msg, "source", sourceID, "record", record)
	diags := []Diagnostic{{Kind: "EccCorrected", Message: msg, Record: record}}

	if sink != nil {
		if werr := writeBack(sink, baseOffset, offset, data); werr != nil {
			diags = append(diags, warnDiag(logger, sourceID, "WriteBackFailed", werr.Error(), record))
		}
	} else {
		diags = append(diags, warnDiag(logger, sourceID, "WriteBackSkipped", "no sink supplied", record))
	}
	return diags, work
}

// parseRecord walks a single record's keyword stream. recBuf begins at
// the record_id/record_size header; the keyword loop itself starts
// just past that header, so its first iteration re-reads the RT entry
// and stores it like any other keyword.
func parseRecord(recBuf []byte) (string, map[string][]byte, error) {
	if len(recBuf) < recPrefixLen {
		return "", nil, cursor.ErrTruncated
	}
	c := cursor.New(recBuf)
	if err := c.Advance(recPrefixLen); err != nil {
		return "", nil, err
	}

	kws := make(map[string][]byte)
	var name string

	for {
		kwName, err := c.ReadBytes(kwNameLen)
		if err != nil {
			return "", nil, err
		}
		kn := string(kwName)
		if kn == "PF" {
			break
		}

		var length int
		if kn[0] == '#' {
			lb, err := c.ReadU16LE()
			if err != nil {
				return "", nil, err
			}
			length = int(lb)
		} else {
			lb, err := c.ReadByte()
			if err != nil {
				return "", nil, err
			}
			length = int(lb)
		}

		val, err := c.ReadBytes(length)
		if err != nil {
			return "", nil, err
		}
		valCopy := make([]byte, len(val))
		copy(valCopy, val)
		kws[kn] = valCopy

		if kn == "RT" {
			name = string(val)
		}
	}

	return name, kws, nil
}

func writeBack(sink WriteBackSink, baseOffset int64, regionOffset int, data []byte) error {
	if err := sink.SeekAbsolute(baseOffset + int64(regionOffset)); err != nil {
		return err
	}
	_, err := sink.Write(data)
	return err
}

func eccFailure(err error, res ecc.Result) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("status %s", res.Status)
}
