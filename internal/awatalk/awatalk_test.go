package awatalk

import (
	"testing"

	"awa5/internal/bitcode"
)

func TestExtractNoHeader(t *testing.T) {
	if _, _, err := Extract([]byte("hello world")); err != ErrNoHeader {
		t.Fatalf("want ErrNoHeader, got %v", err)
	}
}

func TestExtractCaseInsensitiveHeader(t *testing.T) {
	if _, _, err := Extract([]byte("AWA wa wa")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractBasicBits(t *testing.T) {
	// "awa" header, then "wa" (1), " awa" (0), "wa" (1).
	buf, bitLen, err := Extract([]byte("awawa awawa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bitLen != 3 {
		t.Fatalf("want 3 bits, got %d", bitLen)
	}
	r := bitcode.NewReader(buf)
	want := []uint64{1, 0, 1}
	for i, w := range want {
		got, ok := r.ReadBits(1)
		if !ok || got != w {
			t.Fatalf("bit %d: want %d got %d (ok=%v)", i, w, got, ok)
		}
	}
}

func TestExtractIgnoresFillerText(t *testing.T) {
	// filler "xyz" shares no letters with either pattern, so it can never
	// spuriously advance a match in progress.
	buf, bitLen, err := Extract([]byte("awa waxyzwaxyz awaxyzwa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bitLen != 4 {
		t.Fatalf("want 4 bits, got %d", bitLen)
	}
	r := bitcode.NewReader(buf)
	want := []uint64{1, 1, 0, 1}
	for i, w := range want {
		got, ok := r.ReadBits(1)
		if !ok || got != w {
			t.Fatalf("bit %d: want %d got %d (ok=%v)", i, w, got, ok)
		}
	}
}
