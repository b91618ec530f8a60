// Package render turns a decoded deck and its metadata into JSON, an HTML
// page or a terminal list.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/youruser/lordeck/internal/cards"
	"github.com/youruser/lordeck/internal/deck"
	"github.com/youruser/lordeck/internal/metadata"
)

// UnknownRarity groups cards the metadata does not know.
const UnknownRarity = "Unknown"

// MatchedCard is a deck card's metadata with its associated cards resolved.
type MatchedCard struct {
	metadata.CardMetadata
	AssociatedCards []metadata.CardMetadata `json:"associatedCards,omitempty"`
}

// Page is everything the renderers show about one deck.
type Page struct {
	Code           string                             `json:"code"`
	Version        int                                `json:"version"`
	Cards          []cards.CodeAndCount               `json:"cards"`
	CardTypes      map[string][]cards.CodeAndCount    `json:"cardTypes"`
	MatchedCards   map[string]MatchedCard             `json:"matchedCards"`
	MatchedRegions map[string]metadata.RegionMetadata `json:"matchedRegions"`
}

// Build collects d and md into a Page. md may be nil.
func Build(d *deck.Deck, md *metadata.Metadata) (*Page, error) {
	code, err := d.Code()
	if err != nil {
		return nil, err
	}
	sorted, err := deck.New(d.Cards()...)
	if err != nil {
		return nil, err
	}
	sorted.Sort()

	p := &Page{
		Code:           code,
		Version:        d.Version(),
		Cards:          sorted.AllCodeAndCount(),
		CardTypes:      map[string][]cards.CodeAndCount{},
		MatchedCards:   map[string]MatchedCard{},
		MatchedRegions: map[string]metadata.RegionMetadata{},
	}
	if md == nil {
		md = &metadata.Metadata{}
	}
	for _, cc := range p.Cards {
		rarity := UnknownRarity
		if m, ok := md.Cards[cc.Code]; ok {
			if m.RarityRef != "" {
				rarity = m.RarityRef
			}
			mc := MatchedCard{CardMetadata: m}
			for _, ref := range m.AssociatedCardRefs {
				if a, ok := md.Cards[ref]; ok {
					mc.AssociatedCards = append(mc.AssociatedCards, a)
				}
			}
			p.MatchedCards[cc.Code] = mc
		}
		p.CardTypes[rarity] = append(p.CardTypes[rarity], cc)
	}
	for _, f := range d.FactionCodes() {
		if r, ok := md.Regions[f]; ok {
			p.MatchedRegions[f] = r
		}
	}
	return p, nil
}

// JSON renders p as two-space indented JSON that keeps short arrays and
// objects on one line up to 180 columns.
func JSON(p *Page) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal page: %w", err)
	}
	return pretty.PrettyOptions(raw, &pretty.Options{Width: 180, Indent: "  "}), nil
}
