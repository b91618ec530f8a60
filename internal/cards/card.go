package cards

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/youruser/lordeck/internal/deckerr"
)

const (
	MinSet = 1
	MaxSet = 99
	MinID  = 1
	MaxID  = 999
)

var cardCodePattern = regexp.MustCompile(`^(\d{2})([A-Z]{2})(\d{3})(?::(\d+))?$`)

// Card is one entry of a deck. Count is not part of the card's identity.
type Card struct {
	Set     int     `json:"set"`
	Faction Faction `json:"faction"`
	ID      int     `json:"id"`
	Count   int     `json:"count"`
}

// CodeAndCount is the text form of a card used in deck files and APIs.
type CodeAndCount struct {
	Code  string `json:"code" yaml:"code"`
	Count int    `json:"count" yaml:"count"`
}

type cardValidator func(Card) error

func validateSet(c Card) error {
	if c.Set < MinSet || c.Set > MaxSet {
		return deckerr.WithMetadata(deckerr.KindValidation, "set is not a valid number", map[string]string{
			"set": strconv.Itoa(c.Set),
		})
	}
	return nil
}

func validateFaction(c Card) error {
	if !c.Faction.Known() {
		return deckerr.WithMetadata(deckerr.KindValidation, "faction is not valid", map[string]string{
			"faction_id":   strconv.Itoa(c.Faction.ID),
			"faction_code": c.Faction.Code,
		})
	}
	return nil
}

func validateID(c Card) error {
	if c.ID < MinID || c.ID > MaxID {
		return deckerr.WithMetadata(deckerr.KindValidation, "id is not valid", map[string]string{
			"id": strconv.Itoa(c.ID),
		})
	}
	return nil
}

// New builds a validated card. Count is not checked here; encoding rejects
// non-positive counts.
func New(set int, faction Faction, id, count int) (Card, error) {
	if known, ok := FactionByID(faction.ID); ok && known.Code == faction.Code {
		faction = known
	}
	c := Card{Set: set, Faction: faction, ID: id, Count: count}

	validators := []cardValidator{
		validateSet,
		validateFaction,
		validateID,
	}
	for _, v := range validators {
		if err := v(c); err != nil {
			return Card{}, err
		}
	}
	return c, nil
}

// NewWithFactionID builds a card resolving the faction from its numeric id.
func NewWithFactionID(set, factionID, id, count int) (Card, error) {
	f, ok := FactionByID(factionID)
	if !ok {
		return Card{}, deckerr.WithMetadata(deckerr.KindValidation, "faction is not valid", map[string]string{
			"faction_id": strconv.Itoa(factionID),
		})
	}
	return New(set, f, id, count)
}

// FromCode parses a card text code such as "01DE001" or "01DE001:3".
// The count defaults to 1 when the code carries no suffix.
func FromCode(code string) (Card, error) {
	return parseCode(code, 0)
}

// FromCodeWithCount parses a card text code and uses count in place of any
// suffix count.
func FromCodeWithCount(code string, count int) (Card, error) {
	return parseCode(code, count)
}

// FromCodeAndCount parses the structured text form. A zero count falls back
// to the code's suffix or 1.
func FromCodeAndCount(cc CodeAndCount) (Card, error) {
	return parseCode(cc.Code, cc.Count)
}

func parseCode(code string, override int) (Card, error) {
	m := cardCodePattern.FindStringSubmatch(code)
	if m == nil {
		return Card{}, deckerr.WithMetadata(deckerr.KindFormat, "code is not a valid card code", map[string]string{
			"code": code,
		})
	}
	set, _ := strconv.Atoi(m[1])
	id, _ := strconv.Atoi(m[3])

	f, ok := FactionByCode(m[2])
	if !ok {
		return Card{}, deckerr.WithMetadata(deckerr.KindValidation, "faction is not valid", map[string]string{
			"faction_code": m[2],
		})
	}

	count := 1
	if m[4] != "" {
		n, err := strconv.Atoi(m[4])
		if err != nil {
			return Card{}, deckerr.Wrap(deckerr.KindValidation, "card count is not a valid number", err)
		}
		count = n
	}
	if override != 0 {
		count = override
	}
	return New(set, f, id, count)
}

// Code returns the 7 character card code, e.g. "01DE001".
func (c Card) Code() string {
	return fmt.Sprintf("%02d%s%03d", c.Set, c.Faction.Code, c.ID)
}

// String returns the code with its count, e.g. "01DE001:3".
func (c Card) String() string {
	return c.Code() + ":" + strconv.Itoa(c.Count)
}

// CodeAndCount returns the structured text form of the card.
func (c Card) CodeAndCount() CodeAndCount {
	return CodeAndCount{Code: c.Code(), Count: c.Count}
}

// Equal reports whether both cards name the same set, faction and id.
func (c Card) Equal(other Card) bool {
	return c.Set == other.Set && c.Faction.ID == other.Faction.ID && c.ID == other.ID
}

// Compare orders cards by set, then faction code, then id.
func Compare(a, b Card) int {
	if a.Set != b.Set {
		return a.Set - b.Set
	}
	if a.Faction.SortKey != b.Faction.SortKey {
		return a.Faction.SortKey - b.Faction.SortKey
	}
	return a.ID - b.ID
}
