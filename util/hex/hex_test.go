package hex

import "testing"

func TestBytes(t *testing.T) {
	got := Bytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	if got != "deadbeef" {
		t.Fatalf("got %q, want deadbeef", got)
	}
}

func TestBytesEmpty(t *testing.T) {
	if got := Bytes(nil); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestWithSeparators(t *testing.T) {
	got := WithSeparators([]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}, ':', 2, 4, 6, 8, 10)
	want := "aa:bb:cc:dd:ee:ff"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWithSeparatorsNoSeparators(t *testing.T) {
	got := WithSeparators([]byte{0x01, 0x02}, '-')
	if got != "0102" {
		t.Fatalf("got %q, want 0102", got)
	}
}
