package zipfmt

import (
	"testing"
	"time"
)

func TestParseDOSTimeS1(t *testing.T) {
	// "69 8C 9D 48" -> dostime=0x8C69, dosdate=0x489D -> 2016-04-29 17:35:18 UTC
	got, err := ParseDOSTime(0x8C69, 0x489D)
	if err != nil {
		t.Fatalf("ParseDOSTime: %v", err)
	}
	want := time.Date(2016, time.April, 29, 17, 35, 18, 0, time.UTC).Unix()
	if int64(got) != want {
		t.Errorf("got epoch %d, want %d", got, want)
	}
}

func TestParseDOSTimeRejectsBadHour(t *testing.T) {
	// hours field = 24 (bits 11-15 == 24) with otherwise-valid minutes/seconds.
	dosTime := uint16(24 << 11)
	if _, err := ParseDOSTime(dosTime, 0x489D); err != ErrBadTime {
		t.Errorf("expected ErrBadTime, got %v", err)
	}
}

func TestParseDOSTimeRejectsBadMinuteSecond(t *testing.T) {
	badMinute := uint16(60 << 5)
	if _, err := ParseDOSTime(badMinute, 0x489D); err != ErrBadTime {
		t.Errorf("expected ErrBadTime for minute>=60, got %v", err)
	}
	badSecond := uint16(30) // seconds = 2*30 = 60
	if _, err := ParseDOSTime(badSecond, 0x489D); err != ErrBadTime {
		t.Errorf("expected ErrBadTime for second>=60, got %v", err)
	}
}

func TestParseDOSDateRejectsBadFields(t *testing.T) {
	// year<1970 is unreachable: (d>>9)+1980 is unsigned and non-negative, so
	// the minimum representable year is 1980. Exercise month/day bounds instead.
	badMonth := uint16(0) << 5 // month field 0, out of [1,12]
	if _, err := ParseDOSTime(0, badMonth|1); err != ErrBadTime {
		t.Errorf("expected ErrBadTime for month=0, got %v", err)
	}

	badDay := uint16(0) // day field 0, out of [1,31]
	if _, err := ParseDOSTime(0, (1<<5)|badDay); err != ErrBadTime {
		t.Errorf("expected ErrBadTime for day=0, got %v", err)
	}
}

func TestDOSTimeRoundTrip(t *testing.T) {
	for dosDate := uint16(0); dosDate < 0x2000; dosDate += 7 {
		for dosTime := uint16(0); dosTime < 0xC000; dosTime += 97 {
			epoch, err := ParseDOSTime(dosTime, dosDate)
			if err != nil {
				continue
			}
			gotTime, gotDate := ToDOSTime(epoch)
			epoch2, err := ParseDOSTime(gotTime, gotDate)
			if err != nil {
				t.Fatalf("re-encoded time/date %04x/%04x failed to parse: %v", gotTime, gotDate, err)
			}
			if epoch2 != epoch {
				t.Errorf("round trip mismatch: dosTime=%04x dosDate=%04x epoch=%d -> %04x/%04x -> epoch=%d",
					dosTime, dosDate, epoch, gotTime, gotDate, epoch2)
			}
		}
	}
}
