package zipfmt

import (
	"encoding/binary"
	"errors"
)

// ErrFormat is returned when a signature was found but the header at that
// offset did not parse: the byte run is too short, or a fixed field
// contradicts the declared record length. Callers treat this as "no
// header here" and skip the instance.
var ErrFormat = errors.New("zipfmt: not a valid header")

// EOCDMagic is the 4-byte signature a scanner looks for to find EOCD
// candidates in a blob.
var EOCDMagic = [4]byte{'P', 'K', 0x05, 0x06}

var eocdMagic = EOCDMagic

const eocdFixedLen = 22

// EOCD is the End-of-Central-Directory record.
type EOCD struct {
	DiskNumber    uint16
	DiskWithCD    uint16
	EntriesOnDisk uint16
	TotalEntries  uint16
	CDSize        uint32
	CDOffset      uint32
	CommentLength uint16
	Comment       string
}

// ParseEOCD parses an EOCD starting at b[0]. It succeeds iff b starts with
// "PK\x05\x06" and is at least 22+CommentLength bytes long.
// Returns the record and the number of bytes consumed (22+CommentLength).
func ParseEOCD(b []byte) (EOCD, int, error) {
	if len(b) < eocdFixedLen || string(b[:4]) != string(eocdMagic[:]) {
		return EOCD{}, 0, ErrFormat
	}

	e := EOCD{
		DiskNumber:    binary.LittleEndian.Uint16(b[4:]),
		DiskWithCD:    binary.LittleEndian.Uint16(b[6:]),
		EntriesOnDisk: binary.LittleEndian.Uint16(b[8:]),
		TotalEntries:  binary.LittleEndian.Uint16(b[10:]),
		CDSize:        binary.LittleEndian.Uint32(b[12:]),
		CDOffset:      binary.LittleEndian.Uint32(b[16:]),
		CommentLength: binary.LittleEndian.Uint16(b[20:]),
	}

	total := eocdFixedLen + int(e.CommentLength)
	if len(b) < total {
		return EOCD{}, 0, ErrFormat
	}
	e.Comment = string(b[eocdFixedLen:total])
	return e, total, nil
}
