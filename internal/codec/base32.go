package codec

import (
	"strconv"
	"strings"

	"github.com/youruser/lordeck/internal/deckerr"
)

// Alphabet is the RFC 4648 base32 alphabet used by deck codes.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

const (
	shift   = 5
	mask    = len(Alphabet) - 1
	padChar = '='
	padUnit = 8

	// MaxEncodeLen bounds Encode input. No real deck comes anywhere near it.
	MaxEncodeLen = 1 << 28
)

var symbolValues = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = int8(i)
	}
	return t
}()

// Decode unpacks a base32 string. Input is upper-cased and trimmed, and every
// '=' and '-' is dropped before decoding. An input that is empty after that
// decodes to a single zero byte.
func Decode(code string) ([]byte, error) {
	trimmed := strings.NewReplacer("=", "", "-", "").Replace(strings.TrimSpace(strings.ToUpper(code)))
	if trimmed == "" {
		return []byte{0}, nil
	}

	out := make([]byte, 0, len(trimmed)*shift/8)
	var buffer uint32
	var bitsLeft uint
	for i, r := range trimmed {
		v := int8(-1)
		if r < 256 {
			v = symbolValues[r]
		}
		if v < 0 {
			return nil, deckerr.WithMetadata(deckerr.KindAlphabet, "illegal character in base32 input", map[string]string{
				"char":     string(r),
				"position": strconv.Itoa(i),
				"input":    trimmed,
			})
		}
		buffer = buffer<<shift | uint32(v)
		bitsLeft += shift
		if bitsLeft >= 8 {
			bitsLeft -= 8
			out = append(out, byte(buffer>>bitsLeft))
			buffer &= 1<<bitsLeft - 1
		}
	}
	return out, nil
}

// Encode packs b into base32 symbols. With pad set the output is filled with
// '=' to a multiple of 8 characters; an empty b then yields "========".
func Encode(b []byte, pad bool) (string, error) {
	if len(b) >= MaxEncodeLen {
		return "", deckerr.WithMetadata(deckerr.KindSize, "value is too long to encode as base32 string", map[string]string{
			"length": strconv.Itoa(len(b)),
		})
	}
	if len(b) == 0 {
		if pad {
			return strings.Repeat(string(padChar), padUnit), nil
		}
		return "", nil
	}

	var sb strings.Builder
	sb.Grow((len(b)*8+shift-1)/shift + padUnit)

	buffer := uint32(b[0])
	next := 1
	bitsLeft := uint(8)
	for bitsLeft > 0 || next < len(b) {
		if bitsLeft < shift {
			if next < len(b) {
				buffer = buffer<<8 | uint32(b[next])
				next++
				bitsLeft += 8
			} else {
				p := shift - bitsLeft
				buffer <<= p
				bitsLeft += p
			}
		}
		bitsLeft -= shift
		sb.WriteByte(Alphabet[mask&int(buffer>>bitsLeft)])
		buffer &= 1<<bitsLeft - 1
	}

	if pad {
		if rem := sb.Len() % padUnit; rem != 0 {
			sb.WriteString(strings.Repeat(string(padChar), padUnit-rem))
		}
	}
	return sb.String(), nil
}
