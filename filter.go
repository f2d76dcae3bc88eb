/*
 * VPD - Strict-mode record filtering.
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

// strictRecords is the fixed set of record names a strict-mode caller
// cares about. Parse itself always runs ECC-enabled and therefore
// always lenient (every record the PT names is kept); FilterRecords
// lets a caller opt into the narrower strict-mode view afterward.
var strictRecords = map[string]bool{
	"VINI": true,
	"OPFR": true,
	"OSYS": true,
}

// FilterRecords returns the subset of an IPZResult's records named
// VINI, OPFR or OSYS. Calling this on a Result whose Kind is not
// KindIPZ returns an empty map.
func FilterRecords(result Result) map[string]map[string][]byte {
	out := make(map[string]map[string][]byte)
	if result.Kind != KindIPZ || result.IPZ == nil {
		return out
	}
	for name, kws := range result.IPZ.Records {
		if strictRecords[name] {
			out[name] = kws
		}
	}
	return out
}
