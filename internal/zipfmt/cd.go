package zipfmt

import "encoding/binary"

// CDMagic is the 4-byte signature a scanner looks for to find Central
// Directory candidates in a blob.
var CDMagic = [4]byte{'P', 'K', 0x01, 0x02}

var cdMagic = CDMagic

const cdFixedLen = 46

// CD is a Central Directory entry: per-file metadata living between the
// LFs and the EOCD.
type CD struct {
	VersionMadeBy   uint16
	VersionNeeded   uint16
	Flags           Flags
	Method          uint16
	Timestamp       uint32 // UNIX epoch, derived from DOS time+date
	DD              DD
	FilenameLen     uint16
	ExtraLen        uint16
	CommentLen      uint16
	DiskNumberStart uint16
	InternalAttrs   uint16
	ExternalAttrs   uint32
	LFOffset        uint32 // zip-internal offset of the matching LF
	Filename        string
}

// ParseCD parses a Central Directory entry starting at b[0]. Returns the
// record and the number of bytes consumed (46+FilenameLen+ExtraLen+CommentLen).
// Fails closed: ErrFormat on a bad signature or a truncated run, ErrBadTime
// on an invalid embedded DOS date/time.
func ParseCD(b []byte) (CD, int, error) {
	if len(b) < cdFixedLen || string(b[:4]) != string(cdMagic[:]) {
		return CD{}, 0, ErrFormat
	}

	dosTime := binary.LittleEndian.Uint16(b[12:])
	dosDate := binary.LittleEndian.Uint16(b[14:])
	timestamp, err := ParseDOSTime(dosTime, dosDate)
	if err != nil {
		return CD{}, 0, err
	}

	ddRaw, err := ParseDDEmbedded(b[16:28])
	if err != nil {
		return CD{}, 0, err
	}

	c := CD{
		VersionMadeBy:   binary.LittleEndian.Uint16(b[4:]),
		VersionNeeded:   binary.LittleEndian.Uint16(b[6:]),
		Flags:           Flags(binary.LittleEndian.Uint16(b[8:])),
		Method:          binary.LittleEndian.Uint16(b[10:]),
		Timestamp:       timestamp,
		DD:              ddRaw,
		FilenameLen:     binary.LittleEndian.Uint16(b[28:]),
		ExtraLen:        binary.LittleEndian.Uint16(b[30:]),
		CommentLen:      binary.LittleEndian.Uint16(b[32:]),
		DiskNumberStart: binary.LittleEndian.Uint16(b[34:]),
		InternalAttrs:   binary.LittleEndian.Uint16(b[36:]),
		ExternalAttrs:   binary.LittleEndian.Uint32(b[38:]),
		LFOffset:        binary.LittleEndian.Uint32(b[42:]),
	}

	total := cdFixedLen + int(c.FilenameLen) + int(c.ExtraLen) + int(c.CommentLen)
	if len(b) < total {
		return CD{}, 0, ErrFormat
	}
	c.Filename = string(b[cdFixedLen : cdFixedLen+int(c.FilenameLen)])
	return c, total, nil
}

// AsLF derives the Local File header that must precede this CD's bytes in
// a well-formed archive, for use as a reverse-serialisation search key
// (see LF.Append) when the driver reparses CDs on a rendered skeleton and
// needs to locate the matching LF among the original blob's LF magics.
func (c CD) AsLF() LF {
	return LF{
		VersionNeeded: c.VersionNeeded,
		Flags:         c.Flags,
		Method:        c.Method,
		Timestamp:     c.Timestamp,
		DD:            c.DD,
		FilenameLen:   c.FilenameLen,
		ExtraLen:      c.ExtraLen,
		Filename:      c.Filename,
	}
}

// Fingerprint returns the 5-dimensional clustering feature vector:
// timestamp, method, version-made-by, version-needed, and the raw
// gp_flags bitset, all as float64.
func (c CD) Fingerprint() [5]float64 {
	return [5]float64{
		float64(c.Timestamp),
		float64(c.Method),
		float64(c.VersionMadeBy),
		float64(c.VersionNeeded),
		float64(c.Flags.Bits()),
	}
}
