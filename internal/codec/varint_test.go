package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/youruser/lordeck/internal/deckerr"
)

func TestVarIntKnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{172, 2}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}

	for _, tt := range tests {
		got := VarInt(tt.value)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("VarInt(%d) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	t.Parallel()

	values := []uint64{0, 1, 2, 63, 64, 127, 128, 255, 256, 300, 999, 1 << 14, 1<<21 - 1, 1 << 28, 1<<35 + 7, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		enc := VarInt(v)
		got, n, err := PopVarInt(enc)
		if err != nil {
			t.Fatalf("PopVarInt(VarInt(%d)): %v", v, err)
		}
		if got != v || n != len(enc) {
			t.Errorf("PopVarInt(VarInt(%d)) = (%d, %d), want (%d, %d)", v, got, n, v, len(enc))
		}
	}
}

func TestPopVarIntDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []byte{172, 2, 5}
	orig := append([]byte(nil), in...)
	v, n, err := PopVarInt(in)
	if err != nil {
		t.Fatalf("PopVarInt: %v", err)
	}
	if v != 300 || n != 2 {
		t.Errorf("PopVarInt = (%d, %d), want (300, 2)", v, n)
	}
	if !bytes.Equal(in, orig) {
		t.Errorf("input changed to %v, want %v", in, orig)
	}
}

func TestPopVarIntTruncated(t *testing.T) {
	t.Parallel()

	for _, in := range [][]byte{nil, {}, {0x80}, {0xff, 0xff}} {
		if _, _, err := PopVarInt(in); !errors.Is(err, deckerr.ErrTruncation) {
			t.Errorf("PopVarInt(%v) error = %v, want truncation", in, err)
		}
	}

	overlong := bytes.Repeat([]byte{0x80}, MaxVarIntLen+1)
	if _, _, err := PopVarInt(overlong); !errors.Is(err, deckerr.ErrTruncation) {
		t.Errorf("PopVarInt(overlong) error = %v, want truncation", err)
	}
}

func TestPopVarIntRejectsBitsPast64(t *testing.T) {
	t.Parallel()

	for _, last := range []byte{0x02, 0x7f} {
		in := append(bytes.Repeat([]byte{0xff}, MaxVarIntLen-1), last)
		if v, _, err := PopVarInt(in); !errors.Is(err, deckerr.ErrTruncation) {
			t.Errorf("PopVarInt(%v) = (%d, %v), want truncation", in, v, err)
		}
	}

	largest := append(bytes.Repeat([]byte{0xff}, MaxVarIntLen-1), 0x01)
	if v, n, err := PopVarInt(largest); err != nil || v != math.MaxUint64 || n != MaxVarIntLen {
		t.Errorf("PopVarInt(largest) = (%d, %d, %v), want (MaxUint64, %d, nil)", v, n, err, MaxVarIntLen)
	}
}

func TestReaderSequence(t *testing.T) {
	t.Parallel()

	var buf []byte
	want := []uint64{3, 300, 0, 1, 99999}
	for _, v := range want {
		buf = AppendVarInt(buf, v)
	}

	r := NewReader(buf)
	first, err := r.Next()
	if err != nil || first != 3 {
		t.Fatalf("Next() = (%d, %v), want (3, nil)", first, err)
	}
	rest, err := r.NextN(4)
	if err != nil {
		t.Fatalf("NextN: %v", err)
	}
	for i, v := range rest {
		if v != want[i+1] {
			t.Errorf("value %d = %d, want %d", i+1, v, want[i+1])
		}
	}
	if r.Len() != 0 || r.Offset() != len(buf) {
		t.Errorf("Len() = %d, Offset() = %d, want 0, %d", r.Len(), r.Offset(), len(buf))
	}
	if _, err := r.Next(); !errors.Is(err, deckerr.ErrTruncation) {
		t.Errorf("Next() past end error = %v, want truncation", err)
	}
}
