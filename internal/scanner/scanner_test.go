package scanner

import (
	"bytes"
	"reflect"
	"testing"
)

func TestFindAll(t *testing.T) {
	pattern := [4]byte{'P', 'K', 0x05, 0x06}
	blob := bytes.Join([][]byte{
		[]byte("junk--"),
		pattern[:],
		[]byte("middle"),
		pattern[:],
		[]byte("tail"),
	}, nil)

	got := FindAll(blob, pattern)
	want := []int64{6, 6 + 4 + 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll = %v, want %v", got, want)
	}
}

func TestFindAll_NoMatches(t *testing.T) {
	pattern := [4]byte{'P', 'K', 0x05, 0x06}
	if got := FindAll([]byte("nothing here"), pattern); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestFindAll_NonOverlapping(t *testing.T) {
	// Two back-to-back occurrences: after the hit at 0 the cursor advances
	// by len(pattern) to offset 4, where the second occurrence starts, so
	// both are reported.
	pattern := [4]byte{'P', 'K', 0x05, 0x06}
	blob := []byte{'P', 'K', 0x05, 0x06, 'P', 'K', 0x05, 0x06}
	got := FindAll(blob, pattern)
	want := []int64{0, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll = %v, want %v", got, want)
	}
}

func TestFindAllAt(t *testing.T) {
	pattern := [4]byte{'P', 'K', 0x01, 0x02}
	blob := bytes.Join([][]byte{
		bytes.Repeat([]byte{0}, 10),
		pattern[:],
		bytes.Repeat([]byte{0}, 20),
	}, nil)

	got, err := FindAllAt(bytes.NewReader(blob), int64(len(blob)), pattern)
	if err != nil {
		t.Fatalf("FindAllAt: %v", err)
	}
	want := []int64{10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAllAt = %v, want %v", got, want)
	}
}
