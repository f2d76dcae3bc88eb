package keyword

import "testing"

func TestEncodingFor(t *testing.T) {
	cases := map[string]Encoding{
		"PN": ASCII,
		"HW": RawHex,
		"B1": MAC,
		"MB": Date,
		"UD": UUID,
	}
	for name, want := range cases {
		got, ok := EncodingFor(name)
		if !ok {
			t.Errorf("EncodingFor(%q): not found", name)
			continue
		}
		if got != want {
			t.Errorf("EncodingFor(%q) = %v, want %v", name, got, want)
		}
	}

	if _, ok := EncodingFor("ZZ"); ok {
		t.Error("EncodingFor(ZZ) should not be found")
	}
}

func TestDecodeASCII(t *testing.T) {
	got, err := Decode("PN", []byte("ABC1234"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ABC1234" {
		t.Fatalf("got %q, want ABC1234", got)
	}
}

func TestDecodeRawHex(t *testing.T) {
	got, err := Decode("HW", []byte{0xde, 0xad, 0xbe, 0xef}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "deadbeef" {
		t.Fatalf("got %q, want deadbeef", got)
	}
}

func TestDecodeMAC(t *testing.T) {
	got, err := Decode("B1", []byte{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "00:1a:2b:3c:4d:5e" {
		t.Fatalf("got %q, want 00:1a:2b:3c:4d:5e", got)
	}
}

func TestDecodeMACTooShort(t *testing.T) {
	if _, err := Decode("B1", []byte{0x01, 0x02}, true); err == nil {
		t.Fatal("expected error for short MAC value")
	}
}

func TestDecodeDate(t *testing.T) {
	// byte 0 is skipped; remaining 7 bytes render as
	// YYYY-MM-DD-HH:MM:SS across 14 hex characters.
	data := []byte{0x00, 0x20, 0x24, 0x01, 0x15, 0x09, 0x30, 0x00}
	got, err := Decode("MB", data, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "2024-01-15-09:30:00"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeUUID(t *testing.T) {
	data := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06,
		0x07, 0x08,
		0x09, 0x0a,
		0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	}
	got, err := Decode("UD", data, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "01020304-0506-0708-090a-0b0c0d0e0f10"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeUnknownStrict(t *testing.T) {
	if _, err := Decode("ZZ", []byte("whatever"), true); err != ErrUnknownKeyword {
		t.Fatalf("got %v, want ErrUnknownKeyword", err)
	}
}

func TestDecodeUnknownLenient(t *testing.T) {
	got, err := Decode("ZZ", []byte("whatever"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "whatever" {
		t.Fatalf("got %q, want whatever", got)
	}
}
