package zipfmt

import "encoding/binary"

// LFMagic is the 4-byte signature a scanner looks for to find Local File
// header candidates in a blob.
var LFMagic = [4]byte{'P', 'K', 0x03, 0x04}

var lfMagic = LFMagic

const lfFixedLen = 30

// LF is a Local File header: the per-file preamble immediately preceding
// compressed bytes.
type LF struct {
	VersionNeeded uint16
	Flags         Flags
	Method        uint16
	Timestamp     uint32
	DD            DD
	FilenameLen   uint16
	ExtraLen      uint16
	Filename      string
}

// ParseLF parses a Local File header starting at b[0]. Returns the record
// and the number of bytes consumed (30+FilenameLen+ExtraLen).
func ParseLF(b []byte) (LF, int, error) {
	if len(b) < lfFixedLen || string(b[:4]) != string(lfMagic[:]) {
		return LF{}, 0, ErrFormat
	}

	flags := Flags(binary.LittleEndian.Uint16(b[6:]))

	dosTime := binary.LittleEndian.Uint16(b[10:])
	dosDate := binary.LittleEndian.Uint16(b[12:])
	timestamp, err := ParseDOSTime(dosTime, dosDate)
	if err != nil {
		return LF{}, 0, err
	}

	var dd DD
	if !flags.DataDescriptor() {
		dd, err = ParseDDEmbedded(b[14:26])
		if err != nil {
			return LF{}, 0, err
		}
	}

	l := LF{
		VersionNeeded: binary.LittleEndian.Uint16(b[4:]),
		Flags:         flags,
		Method:        binary.LittleEndian.Uint16(b[8:]),
		Timestamp:     timestamp,
		DD:            dd,
		FilenameLen:   binary.LittleEndian.Uint16(b[26:]),
		ExtraLen:      binary.LittleEndian.Uint16(b[28:]),
	}

	total := lfFixedLen + int(l.FilenameLen) + int(l.ExtraLen)
	if len(b) < total {
		return LF{}, 0, ErrFormat
	}
	l.Filename = string(b[lfFixedLen : lfFixedLen+int(l.FilenameLen)])
	return l, total, nil
}

// Append re-serialises the LF bit-exact: magic, v_needed, flags,
// method, DOS date/time, then either 12 zero bytes (DataDescriptor flag
// set) or the DD's 12 bytes, then fn_len, ef_len, then the filename (the
// extra field's own bytes are never carried, only its declared length).
// This is used as a byte-search key when the driver reparses CDs on a
// rendered skeleton and needs to find the matching LF among the original
// blob's LF magics.
func (l LF) Append(buf []byte) []byte {
	buf = append(buf, lfMagic[:]...)

	var head [8]byte
	binary.LittleEndian.PutUint16(head[0:], l.VersionNeeded)
	binary.LittleEndian.PutUint16(head[2:], l.Flags.Bits())
	binary.LittleEndian.PutUint16(head[4:], l.Method)
	buf = append(buf, head[:6]...)

	dosTime, dosDate := ToDOSTime(l.Timestamp)
	var dt [4]byte
	binary.LittleEndian.PutUint16(dt[0:], dosTime)
	binary.LittleEndian.PutUint16(dt[2:], dosDate)
	buf = append(buf, dt[:]...)

	if l.Flags.DataDescriptor() {
		var zero [12]byte
		buf = append(buf, zero[:]...)
	} else {
		buf = l.DD.Append(buf)
	}

	var lens [4]byte
	binary.LittleEndian.PutUint16(lens[0:], l.FilenameLen)
	binary.LittleEndian.PutUint16(lens[2:], l.ExtraLen)
	buf = append(buf, lens[:]...)

	buf = append(buf, []byte(l.Filename)...)
	return buf
}
