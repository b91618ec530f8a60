// Package deck holds the deck aggregate and the deck code encoder and decoder.
package deck

import (
	"slices"

	"github.com/youruser/lordeck/internal/cards"
	"github.com/youruser/lordeck/internal/deckerr"
)

// Deck is an ordered list of distinct cards. Two cards are distinct when
// they differ in set, faction or id; counts do not merge.
type Deck struct {
	cards []cards.Card
}

// CardInput is a card to add to a deck: either an Instance or a TextCode.
type CardInput interface {
	resolve() (cards.Card, error)
}

// Instance adds an already built card.
type Instance struct {
	Card cards.Card
}

func (in Instance) resolve() (cards.Card, error) {
	return in.Card, nil
}

// TextCode adds a card parsed from its text code. A non-zero Count
// replaces any count suffix in Code.
type TextCode struct {
	Code  string
	Count int
}

func (in TextCode) resolve() (cards.Card, error) {
	return cards.FromCodeWithCount(in.Code, in.Count)
}

// New returns a deck holding cs in order. Duplicate cards are rejected.
func New(cs ...cards.Card) (*Deck, error) {
	d := &Deck{cards: make([]cards.Card, 0, len(cs))}
	for _, c := range cs {
		if err := d.Add(Instance{Card: c}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FromCode decodes a deck code. Newer format nibbles are tolerated; unknown
// versions and factions are not.
func FromCode(code string) (*Deck, error) {
	cs, err := Decode(code, true)
	if err != nil {
		return nil, err
	}
	return New(cs...)
}

// FromCardCodes builds a deck from card text codes such as "01DE001:3".
func FromCardCodes(codes []string) (*Deck, error) {
	d := &Deck{}
	for _, code := range codes {
		if err := d.Add(TextCode{Code: code}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FromCardCodesAndCounts builds a deck from structured code/count pairs.
func FromCardCodesAndCounts(list []cards.CodeAndCount) (*Deck, error) {
	d := &Deck{}
	for _, cc := range list {
		if err := d.Add(TextCode{Code: cc.Code, Count: cc.Count}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add appends a card, failing if an equal card is already present.
func (d *Deck) Add(in CardInput) error {
	c, err := in.resolve()
	if err != nil {
		return err
	}
	if d.Contains(c) {
		return deckerr.WithMetadata(deckerr.KindDuplicateCard, "deck already contains this card", map[string]string{
			"card": c.Code(),
		})
	}
	d.cards = append(d.cards, c)
	return nil
}

// Contains reports whether the deck holds a card equal to c.
func (d *Deck) Contains(c cards.Card) bool {
	return slices.ContainsFunc(d.cards, c.Equal)
}

// Cards returns a copy of the deck's cards.
func (d *Deck) Cards() []cards.Card {
	return slices.Clone(d.cards)
}

// Len returns the number of distinct cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Size returns the total number of cards, counting copies.
func (d *Deck) Size() int {
	n := 0
	for _, c := range d.cards {
		n += c.Count
	}
	return n
}

// Version returns the newest faction version in the deck, at least 1.
func (d *Deck) Version() int {
	v := InitialVersion
	for _, c := range d.cards {
		v = max(v, c.Faction.Version)
	}
	return v
}

// Code encodes the deck.
func (d *Deck) Code() (string, error) {
	return Encode(d.cards, d.Version())
}

// List returns every card as "code:count".
func (d *Deck) List() []string {
	out := make([]string, len(d.cards))
	for i, c := range d.cards {
		out[i] = c.String()
	}
	return out
}

// AllCodeAndCount returns every card in its structured text form.
func (d *Deck) AllCodeAndCount() []cards.CodeAndCount {
	out := make([]cards.CodeAndCount, len(d.cards))
	for i, c := range d.cards {
		out[i] = c.CodeAndCount()
	}
	return out
}

// Sort orders the deck in place by set, faction code and id.
func (d *Deck) Sort() {
	slices.SortStableFunc(d.cards, cards.Compare)
}

// FactionCodes returns the distinct faction codes in the deck, in card order.
func (d *Deck) FactionCodes() []string {
	var out []string
	for _, c := range d.cards {
		if !slices.Contains(out, c.Faction.Code) {
			out = append(out, c.Faction.Code)
		}
	}
	return out
}
