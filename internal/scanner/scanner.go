// Package scanner finds ZIP structural signatures in a byte blob or
// io.ReaderAt. It implements component A of the reconstruction pipeline:
// a linear, non-overlapping scan for a fixed 4-byte pattern.
package scanner

import (
	"bytes"
	"io"

	bufra "github.com/avvmoto/buf-readerat"
)

// FindAll returns every offset i such that blob[i:i+4] == pattern. Matches
// never overlap each other: the cursor advances by len(pattern) after a
// hit, which is safe because the four ZIP magics cannot overlap with
// themselves or each other.
func FindAll(blob []byte, pattern [4]byte) []int64 {
	var out []int64
	p := pattern[:]
	for i := 0; i+4 <= len(blob); {
		j := bytes.Index(blob[i:], p)
		if j < 0 {
			break
		}
		off := int64(i + j)
		out = append(out, off)
		i += j + len(p)
	}
	return out
}

// FindAllAt does the same scan against an io.ReaderAt of known size,
// wrapping it with buf-readerat so that scanning a large dump file
// doesn't issue a syscall per byte window.
func FindAllAt(r io.ReaderAt, size int64, pattern [4]byte) ([]int64, error) {
	const window = 1 << 20 // 1 MiB, overlapped by 3 bytes so matches don't straddle a window boundary

	buffered := bufra.NewBufReaderAt(r, 64*1024)

	var out []int64
	buf := make([]byte, window)
	for base := int64(0); base < size; base += int64(window) - 3 {
		n, err := buffered.ReadAt(buf, base)
		if err != nil && err != io.EOF {
			return nil, err
		}
		chunk := buf[:n]
		for _, off := range FindAll(chunk, pattern) {
			abs := base + off
			if len(out) > 0 && out[len(out)-1] == abs {
				continue // already recorded from the previous overlapping window
			}
			out = append(out, abs)
		}
		if err == io.EOF {
			break
		}
	}
	return out, nil
}
