package ddimm

import "testing"

// buildDDR5 assembles a minimal DDR5 DDIMM SPD buffer with a fixed,
// known-good geometry and identity fields.
func buildDDR5(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, 442)

	buf[2] = 0x12 // DRAM type DDR5
	buf[3] = 0x0A // module type DDIMM (low nibble)

	// byte 4: die-per-package raw=0 (bits 5..7), density raw=1 (bits 0..4) -> 1*4=4GB
	buf[4] = 0x01
	// byte 6: dram width raw=0 (bits 5..7) -> 4 * 2^0 = 4
	buf[6] = 0x00
	// byte 234: ranks = (bits3..5>>3)=0 + (bits0..2)=0 + 2 = 2
	buf[234] = 0x00
	// byte 235: channels: bit01=1, bit345=1 -> channels=2; bus width bits012=1 -> 32
	buf[235] = 0x09 // 0b0000_1001: bits0-1=01, bit3=1

	copy(buf[416:419], "11S")
	copy(buf[419:426], "PARTNO1")
	copy(buf[426:438], "SERIALNUM123")
	copy(buf[438:442], "CCIN")

	return buf
}

func TestParseDDR5Valid(t *testing.T) {
	buf := buildDDR5(t)

	res, err := ParseDDR5(buf)
	if err != nil {
		t.Fatalf("ParseDDR5: %v", err)
	}

	// channels(2) * bus(32) * die(1) * density(4) * ranks(2) / (8*4) = 16
	wantGB := uint64(16)
	wantKB := wantGB * 1024 * 1024
	if res.MemorySizeInKB != wantKB {
		t.Errorf("MemorySizeInKB = %d, want %d", res.MemorySizeInKB, wantKB)
	}
	if string(res.PN) != "PARTNO1" {
		t.Errorf("PN = %q, want PARTNO1", res.PN)
	}
	if string(res.FN) != "PARTNO1" {
		t.Errorf("FN = %q, want PARTNO1", res.FN)
	}
	if string(res.SN) != "SERIALNUM123" {
		t.Errorf("SN = %q, want SERIALNUM123", res.SN)
	}
	if string(res.CC) != "CCIN" {
		t.Errorf("CC = %q, want CCIN", res.CC)
	}
}

func TestParseDDR5ZeroCapacity(t *testing.T) {
	buf := buildDDR5(t)
	buf[235] = 0x00 // channels subfields now 0, out of [1,3] range -> capacity 0

	if _, err := ParseDDR5(buf); err != ErrZeroCapacity {
		t.Fatalf("got %v, want ErrZeroCapacity", err)
	}
}

func TestParseDDR5TooShort(t *testing.T) {
	if _, err := ParseDDR5(make([]byte, 100)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestDensityPerDieTable(t *testing.T) {
	cases := map[byte]uint64{
		0: 0, 1: 4, 2: 8, 3: 12, 4: 16,
		5: 24, 6: 32, 7: 48, 8: 64,
	}
	for raw, want := range cases {
		if got := densityPerDieFor(raw); got != want {
			t.Errorf("densityPerDieFor(%d) = %d, want %d", raw, got, want)
		}
	}
}

func TestDiePerPackageTable(t *testing.T) {
	cases := map[byte]uint64{
		0: 1, 1: 2, 2: 2, 3: 4, 4: 8, 5: 16,
	}
	for raw, want := range cases {
		if got := diePerPackageFor(raw); got != want {
			t.Errorf("diePerPackageFor(%d) = %d, want %d", raw, got, want)
		}
	}
}
