/*
 * VPD - Keyword-VPD (flat, tag-framed) format parser.
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

// Package kwvpd parses the flat Keyword-VPD layout: a tag byte, an
// identifier block, a vendor record tag, a run of 2-byte-name /
// 1-byte-length keyword entries, a trailing checksum, and a fixed
// end-of-data trailer. Unlike IPZ there is no ECC; the whole format
// relies on a single two's-complement checksum, and any structural
// mismatch is fatal.
package kwvpd

import (
	"errors"

	"github.com/rcornwell/vpd/internal/cursor"
)

var (
	ErrBadTag      = errors.New("kwvpd: missing leading 0x82 tag")
	ErrBadVendor   = errors.New("kwvpd: missing vendor record tag (0x84/0x90)")
	ErrZeroSize    = errors.New("kwvpd: zero total_size")
	ErrBadChecksum = errors.New("kwvpd: checksum mismatch")
	ErrBadTrailer  = errors.New("kwvpd: missing small-end/VPD-end trailer")
)

const (
	tagStart    = 0x82
	tagVendorA  = 0x84
	tagVendorB  = 0x90
	tagSmallEnd = 0x79
	tagVPDEnd   = 0x78
)

// Parse returns the flat keyword -> raw-bytes map a Keyword-VPD buffer
// carries. Every failure here is fatal and structural; there is no
// partial/lenient result for this format.
func Parse(buf []byte) (map[string][]byte, error) {
	c := cursor.New(buf)

	tag, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if tag != tagStart {
		return nil, ErrBadTag
	}

	idLen, err := c.ReadU16LE()
	if err != nil {
		return nil, err
	}
	if err := c.Advance(int(idLen)); err != nil {
		return nil, err
	}

	vendorTag, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if vendorTag != tagVendorA && vendorTag != tagVendorB {
		return nil, ErrBadVendor
	}

	checksumStart := c.Pos() - 1 // the vendor tag byte itself starts the checksummed region

	totalSize, err := c.ReadU16LE()
	if err != nil {
		return nil, err
	}
	if totalSize == 0 {
		return nil, ErrZeroSize
	}

	out := make(map[string][]byte)
	for totalSize > 0 {
		name, err := c.ReadBytes(2)
		if err != nil {
			return nil, err
		}
		size, err := c.ReadByte()
		if err != nil {
			return nil, err
		}
		val, err := c.ReadBytes(int(size))
		if err != nil {
			return nil, err
		}
		valCopy := make([]byte, len(val))
		copy(valCopy, val)
		out[string(name)] = valCopy

		consumed := 2 + 1 + int(size)
		if consumed > int(totalSize) {
			return nil, ErrZeroSize
		}
		totalSize -= uint16(consumed)
	}

	checksumEnd := c.Pos()
	region, err := cursor.Slice(buf, checksumStart, checksumEnd-checksumStart)
	if err != nil {
		return nil, err
	}
	var sum byte
	for _, b := range region {
		sum += b
	}
	sum = byte(-int8(sum))

	// One reserved byte sits between the last keyword value and the
	// checksum byte; the checksum itself is at checksumEnd+1.
	storedSum, err := cursor.Slice(buf, checksumEnd+1, 1)
	if err != nil {
		return nil, err
	}
	if storedSum[0] != sum {
		return nil, ErrBadChecksum
	}
	if err := c.Advance(2); err != nil {
		return nil, err
	}

	smallEnd, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	vpdEnd, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if smallEnd != tagSmallEnd || vpdEnd != tagVPDEnd {
		return nil, ErrBadTrailer
	}

	return out, nil
}
