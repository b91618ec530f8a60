package deck

import (
	"errors"
	"math/rand"
	"slices"
	"sort"
	"testing"

	"github.com/youruser/lordeck/internal/cards"
	"github.com/youruser/lordeck/internal/codec"
	"github.com/youruser/lordeck/internal/deckerr"
)

const (
	exampleCode   = "CEAAECABAQJRWHBIFU2DOOYIAEBAMCIMCINCILJZAICACBANE4VCYBABAILR2HRL"
	canonicalCode = "CEAAECABAIDASDASDISC2OIIAECBGGY4FAWTINZ3AICACAQXDUPCWBABAQGSOKRM"
)

func parseCards(t *testing.T, codes ...string) []cards.Card {
	t.Helper()
	out := make([]cards.Card, len(codes))
	for i, code := range codes {
		c, err := cards.FromCode(code)
		if err != nil {
			t.Fatalf("FromCode(%q): %v", code, err)
		}
		out[i] = c
	}
	return out
}

func cardStrings(cs []cards.Card) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

func TestEncodeEmptyDeck(t *testing.T) {
	t.Parallel()

	got, err := Encode(nil, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "CEAAAAA" {
		t.Errorf("Encode(nil) = %q, want CEAAAAA", got)
	}

	cs, err := Decode("CEAAAAA", false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(cs) != 0 {
		t.Errorf("Decode(CEAAAAA) returned %d cards, want 0", len(cs))
	}
}

func TestEncodeKnownDecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards []string
		want  string
	}{
		{"single card", []string{"01DE001"}, "CEAAAAIBAEAAC"},
		{"single 3-of", []string{"01DE001:3"}, "CEAQCAIAAEAAA"},
		{"version 2", []string{"01BW001:3", "01DE001:2"}, "CIAQCAIGAEAQCAIAAEAA"},
		{"three tiers", []string{"01MT001:3", "01BW001:2", "01DE001:1"}, "CIAQCAIJAEAQCAIGAEAQCAIAAE"},
		{"version 4", []string{"01BC001:3"}, "CQAQCAIKAEAAA"},
		{"version 5", []string{"05RU001"}, "CUAAAAIBAUGAC"},
		{"overflow", []string{"01DE001:4"}, "CEAAAAAEAEAAC"},
		{"overflow sorted", []string{"02FR010:12", "01DE002:7", "01DE001:4"}, "CEAAAAAEAEAACBYBAABAYAQBBI"},
		{"multi byte count", []string{"01DE001:200"}, "CEAAAAGIAEAQAAI"},
		{"mixed tiers and overflow", []string{"03BW004:5", "04SH010:3", "02DE002:4", "04SH003:2"}, "CMAQCBAHBIAQCBAHAMAAIAQAAICQGBQE"},
		{"bandle city", []string{"01BC020:3", "01BC010:3"}, "CQAQEAIKBIKAAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Encode(parseCards(t, tt.cards...), 0)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode(%v) = %q, want %q", tt.cards, got, tt.want)
			}
		})
	}
}

func TestDecodeKnownDecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want []string
	}{
		{
			"CEBAIAIFB4WDANQIAEAQGDAUDAQSIJZUAIAQCBIFAEAQCBAA",
			[]string{"01SI015:3", "01SI044:3", "01SI048:3", "01SI054:3", "01FR003:3", "01FR012:3", "01FR020:3", "01FR024:3",
				"01FR033:3", "01FR036:3", "01FR039:3", "01FR052:3", "01SI005:2", "01FR004:2"},
		},
		{
			"CEBAEAIBAQTQMAIAAILSQLBNGUBACAIBFYDACAAHBEHR2IBLAEBACAIFAY",
			[]string{"01FR004:3", "01FR039:3", "01DE002:3", "01DE023:3", "01DE040:3", "01DE044:3", "01DE045:3", "01DE053:3",
				"01FR046:2", "01DE007:2", "01DE009:2", "01DE015:2", "01DE029:2", "01DE032:2", "01DE043:2", "01FR005:1", "01FR006:1"},
		},
		{
			"CEAQYAIBAEFREEYUDAPCCJJGFIYACAQBAEUDIAA",
			[]string{"01FR001:3", "01FR011:3", "01FR018:3", "01FR019:3", "01FR020:3", "01FR024:3", "01FR030:3", "01FR033:3",
				"01FR037:3", "01FR038:3", "01FR042:3", "01FR048:3", "01FR040:2", "01FR052:2"},
		},
		{"CMAQCBAHBIAQCBAHAMAAIAQAAICQGBQE", []string{"04SH010:3", "04SH003:2", "02DE002:4", "03BW004:5"}},
		{"CQAQEAIKBIKAAAA", []string{"01BC010:3", "01BC020:3"}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			cs, err := Decode(tt.code, false)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got := cardStrings(cs); !slices.Equal(got, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestKnownVectorReencodesCanonically(t *testing.T) {
	t.Parallel()

	cs, err := Decode(exampleCode, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(cs) != 24 {
		t.Fatalf("Decode returned %d cards, want 24", len(cs))
	}
	got, err := Encode(cs, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != canonicalCode {
		t.Errorf("Encode(Decode(example)) = %q, want %q", got, canonicalCode)
	}

	again, err := Decode(got, false)
	if err != nil {
		t.Fatalf("Decode(canonical): %v", err)
	}
	if code, _ := Encode(again, 0); code != canonicalCode {
		t.Errorf("canonical code is not a fixed point: %q", code)
	}
}

func TestEncodeOrderIndependent(t *testing.T) {
	t.Parallel()

	cs, err := Decode(exampleCode, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	cs = append(cs, parseCards(t, "02DE002:4", "03BW004:5", "01NX010:6", "04SH010:3", "04SH003:2")...)
	want, err := Encode(cs, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := slices.Clone(cs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Encode(shuffled, 0)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got != want {
			t.Fatalf("permutation %d encoded to %q, want %q", i, got, want)
		}
	}
}

func TestRoundTripPreservesMultiset(t *testing.T) {
	t.Parallel()

	in := parseCards(t, "01DE001:1", "01DE002:2", "01DE003:3", "01FR010:4", "02BW005:9", "03SH100:2", "04BC999:1", "05RU012:3", "01DE050:150")
	code, err := Encode(in, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(code, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := cardStrings(in)
	got := cardStrings(out)
	sort.Strings(want)
	sort.Strings(got)
	if !slices.Equal(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
	if again, _ := Encode(out, 0); again != code {
		t.Errorf("re-encode = %q, want %q", again, code)
	}
}

func TestHeaderFidelity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards   []string
		hint    int
		version int
	}{
		{nil, 0, 1},
		{[]string{"01DE001"}, 0, 1},
		{[]string{"01DE001", "01BW001"}, 0, 2},
		{[]string{"01SH001:4"}, 0, 3},
		{[]string{"01DE001", "01BC001:2"}, 0, 4},
		{[]string{"01RU001:3"}, 0, 5},
		{[]string{"01DE001"}, 3, 3},
		{[]string{"01RU001"}, 2, 5},
	}

	for _, tt := range tests {
		code, err := Encode(parseCards(t, tt.cards...), tt.hint)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		b, err := codec.Decode(code)
		if err != nil {
			t.Fatalf("codec.Decode: %v", err)
		}
		if format := int(b[0] >> 4); format != SupportedFormat {
			t.Errorf("%v: format = %d, want %d", tt.cards, format, SupportedFormat)
		}
		if version := int(b[0] & 0xf); version != tt.version {
			t.Errorf("%v (hint %d): version = %d, want %d", tt.cards, tt.hint, version, tt.version)
		}
	}
}

func TestOverflowCountPreserved(t *testing.T) {
	t.Parallel()

	for _, count := range []int{4, 5, 127, 128, 300, 1 << 20} {
		c, _ := cards.NewWithFactionID(2, 1, 77, count)
		code, err := Encode([]cards.Card{c}, 0)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		out, err := Decode(code, false)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(out) != 1 || out[0].Count != count || !out[0].Equal(c) {
			t.Errorf("count %d round tripped to %v", count, cardStrings(out))
		}
	}
}

func TestEncodeRejectsNonPositiveCount(t *testing.T) {
	t.Parallel()

	for _, count := range []int{0, -1} {
		c, _ := cards.NewWithFactionID(1, 0, 1, count)
		cs := append(parseCards(t, "01FR001:2"), c)
		if _, err := Encode(cs, 0); !errors.Is(err, deckerr.ErrInvalidDeck) {
			t.Errorf("Encode with count %d error = %v, want invalid deck", count, err)
		}
	}
}

func TestDecodeFormatCheck(t *testing.T) {
	t.Parallel()

	// EUAAAAA has format 2, version 5.
	if _, err := Decode("EUAAAAA", false); !errors.Is(err, deckerr.ErrFormat) {
		t.Errorf("Decode(EUAAAAA) error = %v, want format error", err)
	}
	cs, err := Decode("EUAAAAA", true)
	if err != nil {
		t.Fatalf("Decode(EUAAAAA, skip): %v", err)
	}
	if len(cs) != 0 {
		t.Errorf("Decode(EUAAAAA, skip) returned %d cards, want 0", len(cs))
	}
}

func TestDecodeVersionCheck(t *testing.T) {
	t.Parallel()

	// Header 0x16: format 1, version 6.
	code, _ := codec.Encode([]byte{0x16, 0, 0, 0}, false)
	_, err := Decode(code, true)
	if !errors.Is(err, deckerr.ErrVersion) {
		t.Fatalf("Decode(version 6) error = %v, want version error", err)
	}
	var de *deckerr.Error
	if errors.As(err, &de) && (de.Metadata["version"] != "6" || de.Metadata["max_version"] != "5") {
		t.Errorf("metadata = %v", de.Metadata)
	}
}

func TestDecodeInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want error
	}{
		{"illegal character", "!CEBQCAABAAAQEAABAA", deckerr.ErrAlphabet},
		{"empty", "", deckerr.ErrTruncation},
		{"header only", "CE", deckerr.ErrTruncation},
		{"partial header", "C", deckerr.ErrTruncation},
		{"partial header lowercase", "c", deckerr.ErrTruncation},
		{"partial header padded", "A=", deckerr.ErrTruncation},
		{"partial header hyphen", "A-", deckerr.ErrTruncation},
		{"missing tiers", mustEncodeBytes(t, 0x11, 0), deckerr.ErrTruncation},
		{"short group", mustEncodeBytes(t, 0x11, 1, 2, 1, 0, 1), deckerr.ErrTruncation},
		{"short overflow", mustEncodeBytes(t, 0x11, 0, 0, 0, 4, 1, 0), deckerr.ErrTruncation},
		{"unterminated varint", mustEncodeBytes(t, 0x11, 0, 0, 0x80), deckerr.ErrTruncation},
		{"unknown faction", mustEncodeBytes(t, 0x11, 0, 0, 1, 1, 1, 8, 1), deckerr.ErrValidation},
		{"set zero", mustEncodeBytes(t, 0x11, 0, 0, 1, 1, 0, 0, 1), deckerr.ErrValidation},
		{"id too large", mustEncodeBytes(t, 0x11, 0, 0, 1, 1, 1, 0, 0xe8, 0x07), deckerr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode(tt.code, false); !errors.Is(err, tt.want) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.code, err, tt.want)
			}
		})
	}
}

func mustEncodeBytes(t *testing.T, b ...byte) string {
	t.Helper()
	s, err := codec.Encode(b, false)
	if err != nil {
		t.Fatalf("codec.Encode: %v", err)
	}
	return s
}
