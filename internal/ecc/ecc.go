/*
 * VPD - ECC verification and correction for IPZ regions.
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

// Package ecc implements the single-error-correct, double-error-detect
// code IPZ uses to protect the VHDR, VTOC and each per-record region
// against bit rot on the EEPROM. The real P8/P9 VPD ECC code this
// stands in for is a fixed, proprietary 11-ECC-byte-per-44-data-byte
// layout; no third-party Go library implements that exact layout (see
// DESIGN.md), so this is a from-scratch, openly documented SEC-DED
// Hamming code over the data region, with the parity bits kept in a
// separate word (the ecc region) rather than interleaved with data.
package ecc

import "errors"

// Status is the outcome of verifying a data region against its ECC
// region.
type Status int

const (
	OK Status = iota
	Correctable
	Uncorrectable
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Correctable:
		return "CORRECTABLE"
	case Uncorrectable:
		return "UNCORRECTABLE"
	default:
		return "UNKNOWN"
	}
}

// ErrEccTooShort is returned when the ECC region is too small to carry
// the parity bits a data region of this size requires.
var ErrEccTooShort = errors.New("ecc: ecc region too short for data region")

// Result carries the verification outcome and, when the error was
// correctable, the corrected copy of the data region.
type Result struct {
	Status    Status
	Corrected []byte // only set when Status == Correctable
}

// Verify checks data against ecc and returns the status. When the
// status is Correctable, Result.Corrected holds a fixed copy of data;
// the caller (the IPZ parser) is responsible for using that copy for
// parsing and, if a write-back sink is present, persisting it.
func Verify(data, eccBytes []byte) (Result, error) {
	parityBits, err := parityBitCount(len(data) * 8)
	if err != nil {
		return Result{}, err
	}
	// parityBits Hamming parity bits plus one overall parity bit.
	neededBits := parityBits + 1
	if len(eccBytes)*8 < neededBits {
		return Result{}, ErrEccTooShort
	}

	computedParity, computedOverall := computeParity(data, parityBits)
	storedParity, storedOverall := extractParity(eccBytes, parityBits)

	syndrome := computedParity ^ storedParity
	overallMismatch := computedOverall != storedOverall

	switch {
	case syndrome == 0 && !overallMismatch:
		return Result{Status: OK}, nil

	case syndrome == 0 && overallMismatch:
		// Single-bit error confined to the stored overall parity bit;
		// the data region itself is already correct.
		return Result{Status: Correctable, Corrected: cloneBytes(data)}, nil

	case syndrome != 0 && overallMismatch:
		// Odd number of bit errors with a non-zero syndrome: exactly
		// one data bit is wrong, and the syndrome names its position.
		bitPos := int(syndrome) - 1 // syndrome is 1-indexed bit position
		if bitPos < 0 || bitPos >= len(data)*8 {
			return Result{Status: Uncorrectable}, nil
		}
		corrected := cloneBytes(data)
		flipBit(corrected, bitPos)
		return Result{Status: Correctable, Corrected: corrected}, nil

	default:
		// Non-zero syndrome but matching overall parity: an even
		// number of bit errors occurred. Not correctable by a SEC-DED
		// code.
		return Result{Status: Uncorrectable}, nil
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func flipBit(data []byte, bitPos int) {
	byteIdx := bitPos / 8
	bitIdx := bitPos % 8
	data[byteIdx] ^= 1 << uint(bitIdx)
}

// parityBitCount returns the number of Hamming parity bits required to
// uniquely address n data bits by their 1-indexed bit position.
func parityBitCount(n int) (int, error) {
	if n <= 0 {
		return 0, errors.New("ecc: empty data region")
	}
	r := 0
	for (1 << uint(r)) < n+1 {
		r++
	}
	return r, nil
}

// computeParity returns the r Hamming parity bits (packed into the low
// r bits of the returned value) and the overall (even) parity bit for
// data, treating bit positions as 1-indexed from the least significant
// bit of data[0] (bit 0 of each byte first, as bitSet and flipBit do).
func computeParity(data []byte, r int) (parity uint32, overall byte) {
	for bitPos := 1; bitPos <= len(data)*8; bitPos++ {
		if !bitSet(data, bitPos-1) {
			continue
		}
		overall ^= 1
		for j := 0; j < r; j++ {
			if bitPos&(1<<uint(j)) != 0 {
				parity ^= 1 << uint(j)
			}
		}
	}
	return parity, overall
}

// extractParity reads the r parity bits and the trailing overall
// parity bit back out of the ECC region, using the same bit layout
// Encode writes: parity bit j at bit position j counted from the most
// significant bit of eccBytes[0], overall parity bit at position r.
func extractParity(eccBytes []byte, r int) (parity uint32, overall byte) {
	for j := 0; j < r; j++ {
		if bitSetMSB(eccBytes, j) {
			parity ^= 1 << uint(j)
		}
	}
	overall = 0
	if bitSetMSB(eccBytes, r) {
		overall = 1
	}
	return parity, overall
}

func bitSet(data []byte, bitIdx int) bool {
	return data[bitIdx/8]&(1<<uint(bitIdx%8)) != 0
}

// bitSetMSB reads the bit at position idx counting from the most
// significant bit of b[0].
func bitSetMSB(b []byte, idx int) bool {
	byteIdx := idx / 8
	if byteIdx >= len(b) {
		return false
	}
	bitIdx := 7 - (idx % 8)
	return b[byteIdx]&(1<<uint(bitIdx)) != 0
}

// Encode computes the ECC bytes for data, sized to fit eccLen bytes
// (remaining bytes beyond the parity+overall bits are left zero, as
// reserved space — mirroring the real code's wider-than-minimum ECC
// regions). Encode is not used during parsing; it exists so tests (and
// callers building synthetic fixtures) can construct a valid region
// without hand-computing parity bits.
func Encode(data []byte, eccLen int) ([]byte, error) {
	r, err := parityBitCount(len(data) * 8)
	if err != nil {
		return nil, err
	}
	if eccLen*8 < r+1 {
		return nil, ErrEccTooShort
	}
	parity, overall := computeParity(data, r)
	out := make([]byte, eccLen)
	for j := 0; j < r; j++ {
		if parity&(1<<uint(j)) != 0 {
			setBitMSB(out, j)
		}
	}
	if overall == 1 {
		setBitMSB(out, r)
	}
	return out, nil
}

func setBitMSB(b []byte, idx int) {
	byteIdx := idx / 8
	bitIdx := 7 - (idx % 8)
	b[byteIdx] |= 1 << uint(bitIdx)
}
