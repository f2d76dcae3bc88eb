/*
 * VPD - Convert bytes to lowercase hex strings.
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

// Package hex renders byte slices as lowercase hex, one nibble at a
// time, the same builder style the original emulator used for its
// (uppercase) instruction dumps. VPD keyword values are always rendered
// lowercase, with the separator conventions RAW-HEX, MAC, DATE and UUID
// each define for themselves.
package hex

import "strings"

var hexMap = "0123456789abcdef"

// FormatBytes appends each byte of data to str as two lowercase hex
// digits, with no separator between bytes.
func FormatBytes(str *strings.Builder, data []byte) {
	for _, by := range data {
		str.WriteByte(hexMap[(by>>4)&0xf])
		str.WriteByte(hexMap[by&0xf])
	}
}

// FormatByte appends a single byte as two lowercase hex digits.
func FormatByte(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[(data>>4)&0xf])
	str.WriteByte(hexMap[data&0xf])
}

// Bytes renders data as a lowercase hex string with no separators.
func Bytes(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 2)
	FormatBytes(&b, data)
	return b.String()
}

// WithSeparators renders data as lowercase hex and inserts sep after
// each character position named in after (1-based, counted from the
// start of the unseparated hex string). Each of the MAC, DATE and UUID
// keyword encodings has its own fixed set of separator positions.
func WithSeparators(data []byte, sep byte, after ...int) string {
	atPos := make(map[int]bool, len(after))
	for _, p := range after {
		atPos[p] = true
	}

	raw := Bytes(data)

	var b strings.Builder
	b.Grow(len(raw) + len(after))
	for i := 0; i < len(raw); i++ {
		b.WriteByte(raw[i])
		if atPos[i+1] {
			b.WriteByte(sep)
		}
	}
	return b.String()
}
