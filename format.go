/*
 * VPD - Format discriminator.
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

import "errors"

var (
	errEmptyBuffer  = errors.New("vpd: empty buffer")
	errUnrecognized = errors.New("vpd: buffer matches no known VPD format")
)

type format int

const (
	formatUnknown format = iota
	formatIPZ
	formatKeywordVPD
	formatDDR5DDIMM
	formatDDR4DDIMM
	formatDDR5ISDIMM
	formatDDR4ISDIMM
)

// discriminate examines buf and returns the first matching format, in
// the fixed priority order the VPD layouts require: IPZ and Keyword-VPD
// are distinguished by a single leading/interior tag byte, so they must
// be checked before anything that looks at DIMM SPD geometry bytes that
// happen to live at the same low offsets.
func discriminate(buf []byte) format {
	if len(buf) > 11 && buf[11] == 0x84 {
		return formatIPZ
	}
	if len(buf) > 0 && buf[0] == 0x82 {
		return formatKeywordVPD
	}
	if hasDDIMMMarker(buf) {
		if len(buf) > 3 && buf[2] == 0x12 && buf[3]&0x0F == 0x0A {
			return formatDDR5DDIMM
		}
		if len(buf) > 3 && buf[2] == 0x0C && buf[3]&0x0F == 0x0A {
			return formatDDR4DDIMM
		}
	}
	if len(buf) > 2 && buf[2] == 0x12 {
		return formatDDR5ISDIMM
	}
	if len(buf) > 2 && buf[2] == 0x0C {
		return formatDDR4ISDIMM
	}
	return formatUnknown
}

func hasDDIMMMarker(buf []byte) bool {
	return len(buf) >= 419 && string(buf[416:419]) == "11S"
}
