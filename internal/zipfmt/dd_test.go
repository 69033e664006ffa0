package zipfmt

import "testing"

func TestParseDD_EmbeddedAndStandalone(t *testing.T) {
	embedded := DD{CRC32: 0x11223344, ZSize: 100, USize: 200}
	raw := embedded.Append(nil)

	got, n, err := ParseDD(raw)
	if err != nil {
		t.Fatalf("ParseDD (no magic): %v", err)
	}
	if got != embedded || n != 12 {
		t.Errorf("got %+v/%d, want %+v/12", got, n, embedded)
	}

	withMagic := append(append([]byte{}, ddMagic[:]...), raw...)
	got2, n2, err := ParseDD(withMagic)
	if err != nil {
		t.Fatalf("ParseDD (magic): %v", err)
	}
	if got2 != embedded || n2 != 16 {
		t.Errorf("got %+v/%d, want %+v/16", got2, n2, embedded)
	}
}

func TestParseDD_Truncated(t *testing.T) {
	if _, _, err := ParseDD([]byte{1, 2, 3}); err != ErrFormat {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}
