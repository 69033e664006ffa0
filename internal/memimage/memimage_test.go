package memimage

import "testing"

func TestNew_PageCoverage(t *testing.T) {
	blob := make([]byte, 2500)
	pp := New(blob, 1024)
	if got, want := pp.Remaining(), 3; got != want {
		t.Fatalf("Remaining = %d, want %d", got, want)
	}
	if pp.pages[2].End()-pp.pages[2].Start() != 452 {
		t.Errorf("last page short-size = %d, want 452", pp.pages[2].End()-pp.pages[2].Start())
	}
}

func TestTakePageFor(t *testing.T) {
	blob := make([]byte, 2048)
	pp := New(blob, 1024)

	p, err := pp.TakePageFor(500)
	if err != nil {
		t.Fatalf("TakePageFor: %v", err)
	}
	if p.Start() != 0 || p.End() != 1024 {
		t.Errorf("got page [%d,%d), want [0,1024)", p.Start(), p.End())
	}
	if pp.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", pp.Remaining())
	}

	// Taking again from the same page must miss: it has already left the pool.
	if _, err := pp.TakePageFor(10); err != ErrPoolMiss {
		t.Errorf("expected ErrPoolMiss on re-take, got %v", err)
	}
}

func TestTakePageFor_OutOfRange(t *testing.T) {
	blob := make([]byte, 1024)
	pp := New(blob, 1024)
	if _, err := pp.TakePageFor(5000); err != ErrPoolMiss {
		t.Errorf("expected ErrPoolMiss for out-of-range addr, got %v", err)
	}
}

func TestPoolInvariant_SumConserved(t *testing.T) {
	blob := make([]byte, 10240)
	pp := New(blob, 1024)
	total := pp.Remaining()

	taken := 0
	for _, addr := range []int64{0, 1024, 5000} {
		if _, err := pp.TakePageFor(addr); err == nil {
			taken++
		}
	}
	if pp.Remaining()+taken != total {
		t.Errorf("pool + attributed = %d, want %d", pp.Remaining()+taken, total)
	}
}

func TestFindBytes(t *testing.T) {
	blob := append(append(make([]byte, 10), []byte("PK\x05\x06")...), make([]byte, 10)...)
	pp := New(blob, 1024)
	got := pp.FindBytes([4]byte{'P', 'K', 0x05, 0x06})
	if len(got) != 1 || got[0] != 10 {
		t.Errorf("FindBytes = %v, want [10]", got)
	}
}
