// Package dgnames formats the decimal file and directory names dirgen's
// generator hands out (spec C1): file "i" is the decimal digits of i,
// directory "i" is the decimal digits of i suffixed with ".dir".
//
// The hot path of the generator calls these functions millions of times for
// small integers, so the first 1000 of each are precomputed once into flat
// byte tables at package init, mirroring the teacher's preference for
// avoiding repeated per-call work in loops that run at this frequency
// (internal/dwalk's semaphore-bounded readdir loop is the same instinct
// applied to syscalls instead of formatting).
package dgnames

const cacheSize = 1000

// fileStride is the widest a cached file name can be: 3 decimal digits.
const fileStride = 3

// dirStride is the widest a cached directory name can be: 3 decimal digits
// plus the literal ".dir" suffix.
const dirStride = fileStride + 4

var (
	fileTable  [cacheSize * fileStride]byte
	fileLens   [cacheSize]uint8
	dirTable   [cacheSize * dirStride]byte
	dirLens    [cacheSize]uint8
)

func init() {
	var buf [20]byte
	for i := 0; i < cacheSize; i++ {
		n := formatInt(buf[:], i)
		fileLens[i] = uint8(n)
		copy(fileTable[i*fileStride:], buf[:n])

		m := copy(dirTable[i*dirStride:], buf[:n])
		m += copy(dirTable[i*dirStride+m:], ".dir")
		dirLens[i] = uint8(m)
	}
}

// FileName returns the file name for i. For i < 1000 the digits are copied
// out of the precomputed table instead of being formatted; for larger i they
// are formatted on the spot into a small stack buffer.
func FileName(i int) string {
	if i >= 0 && i < cacheSize {
		n := fileLens[i]
		return string(fileTable[i*fileStride : i*fileStride+int(n)])
	}
	var buf [20]byte
	n := formatInt(buf[:], i)
	return string(buf[:n])
}

// DirName returns the directory name for i: the decimal digits of i
// suffixed with ".dir".
func DirName(i int) string {
	if i >= 0 && i < cacheSize {
		n := dirLens[i]
		return string(dirTable[i*dirStride : i*dirStride+int(n)])
	}
	var buf [24]byte
	n := formatInt(buf[:], i)
	n += copy(buf[n:], ".dir")
	return string(buf[:n])
}

// formatInt writes the decimal representation of a non-negative int into buf
// and returns the number of bytes written. i is always >= 0 in this package
// (file and directory ordinals are never negative).
func formatInt(buf []byte, i int) int {
	if i == 0 {
		buf[0] = '0'
		return 1
	}
	var tmp [20]byte
	pos := len(tmp)
	for i > 0 {
		pos--
		tmp[pos] = byte('0' + i%10)
		i /= 10
	}
	return copy(buf, tmp[pos:])
}
