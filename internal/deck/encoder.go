package deck

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/youruser/lordeck/internal/cards"
	"github.com/youruser/lordeck/internal/codec"
	"github.com/youruser/lordeck/internal/deckerr"
)

const (
	// SupportedFormat is the format nibble written into every header.
	SupportedFormat = 1
	// InitialVersion is the lowest version a code may declare.
	InitialVersion = 1
)

// tierCounts are the grouped count tiers, in wire order.
var tierCounts = [...]int{3, 2, 1}

type groupKey struct {
	set     int
	faction cards.Faction
}

type group struct {
	key groupKey
	ids []int
}

// Encode returns the canonical deck code for cs. version is a lower bound:
// the code declares at least the newest faction version present, and never
// less than InitialVersion. Any card with a non-positive count fails the
// whole call.
func Encode(cs []cards.Card, version int) (string, error) {
	for _, c := range cs {
		if c.Count <= 0 {
			return "", deckerr.WithMetadata(deckerr.KindInvalidDeck, "invalid deck: card count must be positive", map[string]string{
				"card":  c.Code(),
				"count": strconv.Itoa(c.Count),
			})
		}
	}

	version = max(version, InitialVersion)
	for _, c := range cs {
		version = max(version, c.Faction.Version)
	}

	tiers := make(map[int][]cards.Card, len(tierCounts))
	var overflow []cards.Card
	for _, c := range cs {
		if c.Count > tierCounts[0] {
			overflow = append(overflow, c)
			continue
		}
		tiers[c.Count] = append(tiers[c.Count], c)
	}

	var values []uint64
	for _, count := range tierCounts {
		groups := groupBySetAndFaction(tiers[count])
		values = append(values, uint64(len(groups)))
		for _, g := range groups {
			values = append(values, uint64(len(g.ids)), uint64(g.key.set), uint64(g.key.faction.ID))
			for _, id := range g.ids {
				values = append(values, uint64(id))
			}
		}
	}

	slices.SortStableFunc(overflow, cards.Compare)
	for _, c := range overflow {
		values = append(values, uint64(c.Count), uint64(c.Set), uint64(c.Faction.ID), uint64(c.ID))
	}

	buf := make([]byte, 0, 1+len(values)*2)
	buf = append(buf, byte(SupportedFormat<<4|version&0xf))
	for _, v := range values {
		buf = codec.AppendVarInt(buf, v)
	}
	return codec.Encode(buf, false)
}

// groupBySetAndFaction groups one tier and puts it in canonical order: groups
// by ascending size, then set, then faction code; ids ascending inside a group.
func groupBySetAndFaction(cs []cards.Card) []group {
	index := make(map[groupKey]int)
	var groups []group
	for _, c := range cs {
		k := groupKey{set: c.Set, faction: c.Faction}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].ids = append(groups[i].ids, c.ID)
	}

	for i := range groups {
		slices.Sort(groups[i].ids)
	}
	slices.SortFunc(groups, func(a, b group) int {
		if c := cmp.Compare(len(a.ids), len(b.ids)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.key.set, b.key.set); c != 0 {
			return c
		}
		return cmp.Compare(a.key.faction.SortKey, b.key.faction.SortKey)
	})
	return groups
}

// Decode parses a deck code into its cards, in the encoder's canonical order.
// With skipFormatCheck set, codes declaring a newer format are still read.
func Decode(code string, skipFormatCheck bool) ([]cards.Card, error) {
	b, err := codec.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("invalid deck code: %w", err)
	}
	if len(b) == 0 {
		return nil, deckerr.WithMetadata(deckerr.KindTruncation, "deck code has no header byte", map[string]string{
			"code": code,
		})
	}

	format := int(b[0] >> 4)
	version := int(b[0] & 0xf)
	if !skipFormatCheck && format > SupportedFormat {
		return nil, deckerr.WithMetadata(deckerr.KindFormat, "deck format is not supported", map[string]string{
			"format":    strconv.Itoa(format),
			"supported": strconv.Itoa(SupportedFormat),
		})
	}
	if version > cards.MaxVersion() {
		return nil, deckerr.WithMetadata(deckerr.KindVersion, "deck version is not supported", map[string]string{
			"version":     strconv.Itoa(version),
			"max_version": strconv.Itoa(cards.MaxVersion()),
		})
	}

	r := codec.NewReader(b[1:])
	var result []cards.Card
	for _, count := range tierCounts {
		groups, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("read %d-of group count: %w", count, err)
		}
		for g := uint64(0); g < groups; g++ {
			head, err := r.NextN(3)
			if err != nil {
				return nil, fmt.Errorf("read %d-of group header: %w", count, err)
			}
			size, set, factionID := head[0], head[1], head[2]
			for i := uint64(0); i < size; i++ {
				id, err := r.Next()
				if err != nil {
					return nil, fmt.Errorf("read %d-of card id: %w", count, err)
				}
				c, err := cards.NewWithFactionID(toInt(set), toInt(factionID), toInt(id), count)
				if err != nil {
					return nil, err
				}
				result = append(result, c)
			}
		}
	}

	for r.Len() > 0 {
		q, err := r.NextN(4)
		if err != nil {
			return nil, fmt.Errorf("read overflow card: %w", err)
		}
		c, err := cards.NewWithFactionID(toInt(q[1]), toInt(q[2]), toInt(q[3]), toInt(q[0]))
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

// toInt saturates so out-of-range wire values fail card validation instead of wrapping.
func toInt(v uint64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
