/*
 * VPD - Keyword value decoder.
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

// Package keyword maps a keyword name and its raw bytes to the printable
// string a consumer actually wants to see. Decoding is deferred: the IPZ
// and Keyword-VPD parsers store raw bytes only, and this package is
// consulted on demand by whoever wants a human-readable view.
package keyword

import (
	"errors"

	vpdhex "github.com/rcornwell/vpd/util/hex"
)

// Encoding names one of the printable renderings a keyword's raw bytes
// can carry.
type Encoding int

const (
	Unknown Encoding = iota
	ASCII
	RawHex
	MAC
	Date
	UUID
)

// table is the fixed keyword-name -> encoding mapping from the VPD
// keyword dictionary. Unlisted keywords are Unknown.
var table = map[string]Encoding{
	"DR": ASCII,
	"PN": ASCII,
	"SN": ASCII,
	"CC": ASCII,
	"VN": ASCII,
	"MM": ASCII,
	"VP": ASCII,
	"VS": ASCII,
	"HW": RawHex,
	"B1": MAC,
	"MB": Date,
	"UD": UUID,
}

// ErrUnknownKeyword is returned by Decode in strict mode for a keyword
// name absent from the dictionary.
var ErrUnknownKeyword = errors.New("keyword: unknown keyword name")

// EncodingFor returns the encoding registered for name, or (Unknown,
// false) if name carries no documented encoding.
func EncodingFor(name string) (Encoding, bool) {
	enc, ok := table[name]
	return enc, ok
}

// Decode renders data as a printable string per name's encoding. In
// strict mode, a keyword with no documented encoding is reported as
// ErrUnknownKeyword; in lenient mode the raw bytes are returned
// unmodified as a string instead.
func Decode(name string, data []byte, strict bool) (string, error) {
	enc, ok := table[name]
	if !ok {
		if strict {
			return "", ErrUnknownKeyword
		}
		return string(data), nil
	}
	return decode(enc, data)
}

func decode(enc Encoding, data []byte) (string, error) {
	switch enc {
	case ASCII:
		return string(data), nil
	case RawHex:
		return vpdhex.Bytes(data), nil
	case MAC:
		return decodeMAC(data)
	case Date:
		return decodeDate(data)
	case UUID:
		return decodeUUID(data)
	default:
		return string(data), nil
	}
}

// decodeMAC renders six bytes as aa:bb:cc:dd:ee:ff.
func decodeMAC(data []byte) (string, error) {
	if len(data) < 6 {
		return "", errors.New("keyword: MAC value shorter than 6 bytes")
	}
	return vpdhex.WithSeparators(data[:6], ':', 2, 4, 6, 8, 10), nil
}

// decodeDate renders the build-time keyword: 8 input bytes, byte 0
// skipped, the remaining 7 rendered as lowercase hex with dashes after
// the 4th, 6th and 8th hex digit and colons after the 10th and 12th, so
// the result reads YYYY-MM-DD-HH:MM:SS.
func decodeDate(data []byte) (string, error) {
	if len(data) < 8 {
		return "", errors.New("keyword: DATE value shorter than 8 bytes")
	}
	raw := vpdhex.Bytes(data[1:8]) // 14 hex characters
	var b []byte
	b = append(b, raw[0:4]...)
	b = append(b, '-')
	b = append(b, raw[4:6]...)
	b = append(b, '-')
	b = append(b, raw[6:8]...)
	b = append(b, '-')
	b = append(b, raw[8:10]...)
	b = append(b, ':')
	b = append(b, raw[10:12]...)
	b = append(b, ':')
	b = append(b, raw[12:14]...)
	return string(b), nil
}

// decodeUUID renders sixteen bytes as
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func decodeUUID(data []byte) (string, error) {
	if len(data) < 16 {
		return "", errors.New("keyword: UUID value shorter than 16 bytes")
	}
	return vpdhex.WithSeparators(data[:16], '-', 8, 12, 16, 20), nil
}
