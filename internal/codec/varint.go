package codec

import (
	"strconv"

	"github.com/youruser/lordeck/internal/deckerr"
)

const (
	allButMSB = 0x7f
	justMSB   = 0x80
)

// MaxVarIntLen is the longest encoding of a uint64.
const MaxVarIntLen = 10

// AppendVarInt appends the varint encoding of value to dst.
func AppendVarInt(dst []byte, value uint64) []byte {
	if value == 0 {
		return append(dst, 0)
	}
	for value != 0 {
		b := byte(value & allButMSB)
		value >>= 7
		if value != 0 {
			b |= justMSB
		}
		dst = append(dst, b)
	}
	return dst
}

// VarInt returns the varint encoding of value. 0 encodes as a single zero byte.
func VarInt(value uint64) []byte {
	return AppendVarInt(make([]byte, 0, MaxVarIntLen), value)
}

// PopVarInt decodes the varint at the start of b and returns the value and the
// number of bytes it occupied. b is not modified.
func PopVarInt(b []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, c := range b {
		if i >= MaxVarIntLen {
			return 0, 0, deckerr.WithMetadata(deckerr.KindTruncation, "varint overflows 64 bits", map[string]string{
				"consumed": strconv.Itoa(i),
			})
		}
		// The tenth byte holds only bit 63.
		if i == MaxVarIntLen-1 && c > 1 {
			return 0, 0, deckerr.WithMetadata(deckerr.KindTruncation, "varint overflows 64 bits", map[string]string{
				"consumed": strconv.Itoa(i + 1),
			})
		}
		result |= uint64(c&allButMSB) << shift
		if c&justMSB == 0 {
			return result, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, deckerr.WithMetadata(deckerr.KindTruncation, "byte array did not contain a terminated varint", map[string]string{
		"available": strconv.Itoa(len(b)),
	})
}

// Reader reads consecutive varints from a byte slice it does not own.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Next decodes the next varint and advances past it.
func (r *Reader) Next() (uint64, error) {
	v, n, err := PopVarInt(r.buf[r.off:])
	if err != nil {
		return 0, err
	}
	r.off += n
	return v, nil
}

// NextN decodes the next n varints.
func (r *Reader) NextN(n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := r.Next()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Len reports the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Offset reports how many bytes have been consumed.
func (r *Reader) Offset() int {
	return r.off
}
