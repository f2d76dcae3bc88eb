/*
 * VPD - DDR5 DDIMM SPD parser.
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

// Package ddimm computes a DDR5 DDIMM's capacity from its SPD geometry
// bytes and extracts its printable identity fields. DDR4 DDIMMs and
// both generations of ISDIMM are recognized by the format discriminator
// but are not decoded here.
package ddimm

import "errors"

// ErrZeroCapacity is returned when the computed capacity is 0, which
// per the SPD geometry rules always indicates an invalid buffer rather
// than a legitimately empty DIMM.
var ErrZeroCapacity = errors.New("ddimm: computed capacity is 0")

const (
	memoryDataStart = 416
	marker11SLen    = 3
	partNumLen      = 7
	serialNumLen    = 12
	ccinLen         = 4
)

// Result is the fixed set of fields a DDR5 DDIMM decode produces.
type Result struct {
	MemorySizeInKB uint64
	FN             []byte
	PN             []byte
	SN             []byte
	CC             []byte
}

// ParseDDR5 computes capacity and identity fields for a DDR5 DDIMM SPD
// buffer. The caller (the format discriminator) is responsible for
// having already confirmed buf looks like a DDR5 DDIMM; ParseDDR5 still
// validates every subfield it reads before trusting it.
func ParseDDR5(buf []byte) (Result, error) {
	if len(buf) < memoryDataStart+marker11SLen+partNumLen+serialNumLen+ccinLen {
		return Result{}, errors.New("ddimm: buffer too short for identity fields")
	}

	sizeGB, err := capacityGB(buf)
	if err != nil {
		return Result{}, err
	}
	if sizeGB == 0 {
		return Result{}, ErrZeroCapacity
	}

	pos := memoryDataStart + marker11SLen
	pn := cloneRange(buf, pos, partNumLen)
	pos += partNumLen
	sn := cloneRange(buf, pos, serialNumLen)
	pos += serialNumLen
	cc := cloneRange(buf, pos, ccinLen)

	return Result{
		MemorySizeInKB: sizeGB * 1024 * 1024,
		FN:             cloneRange(buf, memoryDataStart+marker11SLen, partNumLen),
		PN:             pn,
		SN:             sn,
		CC:             cc,
	}, nil
}

func cloneRange(buf []byte, off, n int) []byte {
	out := make([]byte, n)
	copy(out, buf[off:off+n])
	return out
}

// capacityGB applies the DDR5 DDIMM capacity formula from SPD bytes
// 4, 6, 234 and 235. Any out-of-range subfield yields capacity 0.
func capacityGB(buf []byte) (uint64, error) {
	b235 := buf[235]
	b4 := buf[4]
	b234 := buf[234]
	b6 := buf[6]

	bit01 := b235 & 0x03
	bit345 := (b235 >> 3) & 0x07
	if !inRange(bit01, 1, 3) || !inRange(bit345, 1, 3) {
		return 0, nil
	}
	channelsPerDDIMM := uint64(0)
	if bit01 != 0 {
		channelsPerDDIMM++
	}
	if bit345 != 0 {
		channelsPerDDIMM++
	}

	bit012 := b235 & 0x07
	if !inRange(bit012, 1, 3) {
		return 0, nil
	}
	busWidthPerChannel := uint64(0)
	if bit012 != 0 {
		busWidthPerChannel = 32
	}

	dieRaw := (b4 >> 5) & 0x07
	if !inRange(dieRaw, 0, 5) {
		return 0, nil
	}
	diePerPackage := diePerPackageFor(dieRaw)

	densityRaw := b4 & 0x1F
	if !inRange(densityRaw, 1, 8) {
		return 0, nil
	}
	densityPerDieGB := densityPerDieFor(densityRaw)

	ranksPerChannel := uint64((b234>>3)&0x07) + uint64(b234&0x07) + 2

	dramWidthRaw := (b6 >> 5) & 0x07
	if !inRange(dramWidthRaw, 0, 3) {
		return 0, nil
	}
	dramWidth := uint64(4) * (uint64(1) << dramWidthRaw)

	sizeGB := (channelsPerDDIMM * busWidthPerChannel * diePerPackage * densityPerDieGB * ranksPerChannel) / (8 * dramWidth)
	return sizeGB, nil
}

func inRange(v byte, lo, hi byte) bool {
	return v >= lo && v <= hi
}

func diePerPackageFor(b byte) uint64 {
	if b < 2 {
		return uint64(b) + 1
	}
	return uint64(1) << uint(b-1)
}

func densityPerDieFor(b byte) uint64 {
	switch {
	case b <= 4:
		return uint64(b) * 4
	case b == 5:
		return 24
	case b == 6:
		return 32
	case b == 7:
		return 48
	case b == 8:
		return 64
	default:
		return 0
	}
}
