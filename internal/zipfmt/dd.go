package zipfmt

import "encoding/binary"

// DD is the Data Descriptor: the (crc32, compressed size, uncompressed
// size) triple that trails a Local File's data when FlagDataDescriptor is
// set, or stands alone (optionally prefixed with magic "PK\x07\x08") when
// scanned for directly.
type DD struct {
	CRC32 uint32
	ZSize uint32
	USize uint32
}

const ddMagicLen = 4
const ddBodyLen = 12

var ddMagic = [4]byte{'P', 'K', 0x07, 0x08}

// ParseDDEmbedded parses a 12-byte DD with no magic, as embedded inline in
// an LF or CD record.
func ParseDDEmbedded(b []byte) (DD, error) {
	if len(b) < ddBodyLen {
		return DD{}, ErrFormat
	}
	return DD{
		CRC32: binary.LittleEndian.Uint32(b[0:]),
		ZSize: binary.LittleEndian.Uint32(b[4:]),
		USize: binary.LittleEndian.Uint32(b[8:]),
	}, nil
}

// ParseDD parses a stand-alone Data Descriptor, tolerating the optional
// "PK\x07\x08" magic prefix used when one is found by scanning the blob.
// It returns the record and the number of bytes consumed.
func ParseDD(b []byte) (DD, int, error) {
	if len(b) >= ddMagicLen && string(b[:ddMagicLen]) == string(ddMagic[:]) {
		dd, err := ParseDDEmbedded(b[ddMagicLen:])
		if err != nil {
			return DD{}, 0, err
		}
		return dd, ddMagicLen + ddBodyLen, nil
	}
	dd, err := ParseDDEmbedded(b)
	if err != nil {
		return DD{}, 0, err
	}
	return dd, ddBodyLen, nil
}

// Append serialises the DD's 12 bytes (no magic), little-endian, bit-exact
// with the PKZIP layout.
func (dd DD) Append(buf []byte) []byte {
	var tmp [12]byte
	binary.LittleEndian.PutUint32(tmp[0:], dd.CRC32)
	binary.LittleEndian.PutUint32(tmp[4:], dd.ZSize)
	binary.LittleEndian.PutUint32(tmp[8:], dd.USize)
	return append(buf, tmp[:]...)
}
