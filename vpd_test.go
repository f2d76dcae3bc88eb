package vpd

import (
	"encoding/binary"
	"testing"

	"github.com/rcornwell/vpd/internal/ecc"
)

const (
	ipzRecPrefixLen = 4
	ipzKwNameLen    = 2
	ipzKwSizeLen    = 1
	ipzRecNameLen   = 4
	ipzPTEntryLen   = ipzRecNameLen + 1 + 2 + 2 + 2 + 2
)

func buildIPZBuffer(t *testing.T) []byte {
	t.Helper()

	const (
		vtocOffset    = 55
		vtocNameOff   = vtocOffset + ipzRecPrefixLen + ipzKwNameLen + ipzKwSizeLen
		ptLenPos      = vtocNameOff + ipzRecNameLen + ipzKwNameLen
		ptStart       = ptLenPos + 1
		vtocLength    = ptStart + ipzPTEntryLen - vtocOffset
		vtocEccOffset = 100
		vtocEccLength = 3
		recOffset     = 120
		recLength     = 19
		recEccOffset  = 150
		recEccLength  = 3
	)

	buf := make([]byte, 220)
	buf[11] = 0x84 // format discriminator tag, inside the ECC'd header region

	copy(buf[17:21], "VHDR")
	binary.LittleEndian.PutUint16(buf[35:37], uint16(vtocOffset))
	binary.LittleEndian.PutUint16(buf[37:39], uint16(vtocLength))
	binary.LittleEndian.PutUint16(buf[39:41], uint16(vtocEccOffset))
	binary.LittleEndian.PutUint16(buf[41:43], uint16(vtocEccLength))

	headerEcc, err := ecc.Encode(buf[11:55], 11)
	if err != nil {
		t.Fatalf("Encode header ecc: %v", err)
	}
	copy(buf[0:11], headerEcc)

	copy(buf[vtocNameOff:vtocNameOff+4], "VTOC")
	copy(buf[vtocNameOff-3:vtocNameOff-1], "RT")
	buf[vtocNameOff-1] = 4
	copy(buf[ptLenPos-2:ptLenPos], "PT")
	buf[ptLenPos] = ipzPTEntryLen

	entry := buf[ptStart : ptStart+ipzPTEntryLen]
	copy(entry[0:4], "VINI")
	binary.LittleEndian.PutUint16(entry[5:7], uint16(recOffset))
	binary.LittleEndian.PutUint16(entry[7:9], uint16(recLength))
	binary.LittleEndian.PutUint16(entry[9:11], uint16(recEccOffset))
	binary.LittleEndian.PutUint16(entry[11:13], uint16(recEccLength))

	vtocEcc, err := ecc.Encode(buf[vtocOffset:vtocOffset+vtocLength], vtocEccLength)
	if err != nil {
		t.Fatalf("Encode vtoc ecc: %v", err)
	}
	copy(buf[vtocEccOffset:vtocEccOffset+vtocEccLength], vtocEcc)

	rec := buf[recOffset:]
	copy(rec[4:6], "RT")
	rec[6] = 4
	copy(rec[7:11], "VINI")
	copy(rec[11:13], "PN")
	rec[13] = 3
	copy(rec[14:17], "123")
	copy(rec[17:19], "PF")

	recEcc, err := ecc.Encode(buf[recOffset:recOffset+recLength], recEccLength)
	if err != nil {
		t.Fatalf("Encode record ecc: %v", err)
	}
	copy(buf[recEccOffset:recEccOffset+recEccLength], recEcc)

	return buf
}

func buildKeywordVPDBuffer(t *testing.T) []byte {
	t.Helper()

	body := []byte{0x84, 0, 0} // vendor tag + total_size placeholder
	kwBytes := []byte{'P', 'N', 3, '1', '2', '3'}
	body[1] = byte(len(kwBytes))
	body[2] = byte(len(kwBytes) >> 8)
	body = append(body, kwBytes...)

	var sum byte
	for _, b := range body {
		sum += b
	}
	sum = byte(-int8(sum))

	buf := []byte{0x82, 0x00, 0x00} // start tag + id length 0
	buf = append(buf, body...)
	buf = append(buf, 0x00, sum, 0x79, 0x78)
	return buf
}

func buildDDR5Buffer(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, 442)
	buf[2] = 0x12
	buf[3] = 0x0A
	buf[4] = 0x01
	buf[6] = 0x00
	buf[234] = 0x00
	buf[235] = 0x09
	copy(buf[416:419], "11S")
	copy(buf[419:426], "PARTNO1")
	copy(buf[426:438], "SERIALNUM123")
	copy(buf[438:442], "CCIN")
	return buf
}

func TestParseIPZ(t *testing.T) {
	buf := buildIPZBuffer(t)

	result, err := Parse(buf, "test", 0, nil, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Kind != KindIPZ {
		t.Fatalf("Kind = %v, want KindIPZ", result.Kind)
	}
	if string(result.IPZ.Records["VINI"]["PN"]) != "123" {
		t.Errorf("PN = %q, want 123", result.IPZ.Records["VINI"]["PN"])
	}

	strict := FilterRecords(result)
	if _, ok := strict["VINI"]; !ok {
		t.Errorf("FilterRecords dropped VINI: %v", strict)
	}
}

func TestParseKeywordVPD(t *testing.T) {
	buf := buildKeywordVPDBuffer(t)

	result, err := Parse(buf, "test", 0, nil, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Kind != KindKeywordVPD {
		t.Fatalf("Kind = %v, want KindKeywordVPD", result.Kind)
	}
	if string(result.KeywordVPD.Keywords["PN"]) != "123" {
		t.Errorf("PN = %q, want 123", result.KeywordVPD.Keywords["PN"])
	}
}

func TestParseDDIMM(t *testing.T) {
	buf := buildDDR5Buffer(t)

	result, err := Parse(buf, "test", 0, nil, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Kind != KindDDIMM {
		t.Fatalf("Kind = %v, want KindDDIMM", result.Kind)
	}
	if string(result.DDIMM.PN) != "PARTNO1" {
		t.Errorf("PN = %q, want PARTNO1", result.DDIMM.PN)
	}
}

func TestParseEmptyBuffer(t *testing.T) {
	if _, err := Parse(nil, "test", 0, nil, nil); err == nil {
		t.Fatal("expected error for empty buffer")
	}
}

func TestParseUnknownFormat(t *testing.T) {
	buf := make([]byte, 500)
	if _, err := Parse(buf, "test", 0, nil, nil); err == nil {
		t.Fatal("expected error for unrecognized format")
	}
}

func TestFilterRecordsNonIPZ(t *testing.T) {
	result := Result{Kind: KindDDIMM}
	if got := FilterRecords(result); len(got) != 0 {
		t.Fatalf("expected empty filter result for non-IPZ Result, got %v", got)
	}
}

func TestParseKeywordVPDErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func([]byte) []byte
		want    ErrorKind
	}{
		{
			name: "bad vendor tag",
			corrupt: func(buf []byte) []byte {
				buf[3] = 0x00
				return buf
			},
			want: ErrBadMagic,
		},
		{
			name: "zero total_size",
			corrupt: func(buf []byte) []byte {
				buf[4], buf[5] = 0, 0
				return buf
			},
			want: ErrDataException,
		},
		{
			name: "bad checksum",
			corrupt: func(buf []byte) []byte {
				for i, b := range buf {
					if b == '1' {
						buf[i] = '9'
						break
					}
				}
				return buf
			},
			want: ErrBadChecksum,
		},
		{
			name: "bad trailer",
			corrupt: func(buf []byte) []byte {
				buf[len(buf)-1] = 0x00
				return buf
			},
			want: ErrBadTrailer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := tt.corrupt(buildKeywordVPDBuffer(t))

			_, err := Parse(buf, "test", 0, nil, nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			vpdErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("got %T, want *Error", err)
			}
			if vpdErr.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", vpdErr.Kind, tt.want)
			}
		})
	}
}
