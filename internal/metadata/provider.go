// Package metadata enriches decoded decks with display data: card names,
// rarities, regions and art. It never changes a deck; a provider failure
// leaves the codec result untouched.
package metadata

import (
	"context"
	"errors"

	"github.com/youruser/lordeck/internal/deck"
)

// Asset is one art variant of a card.
type Asset struct {
	GameAbsolutePath string `json:"gameAbsolutePath" cbor:"gameAbsolutePath"`
	FullAbsolutePath string `json:"fullAbsolutePath" cbor:"fullAbsolutePath"`
}

// CardMetadata is the display data of one card, keyed by card code.
type CardMetadata struct {
	CardCode           string   `json:"cardCode" cbor:"cardCode"`
	Name               string   `json:"name" cbor:"name"`
	Rarity             string   `json:"rarity" cbor:"rarity"`
	RarityRef          string   `json:"rarityRef" cbor:"rarityRef"`
	Region             string   `json:"region" cbor:"region"`
	RegionRef          string   `json:"regionRef" cbor:"regionRef"`
	Set                string   `json:"set" cbor:"set"`
	Type               string   `json:"type" cbor:"type"`
	Cost               int      `json:"cost" cbor:"cost"`
	Attack             int      `json:"attack" cbor:"attack"`
	Health             int      `json:"health" cbor:"health"`
	DescriptionRaw     string   `json:"descriptionRaw" cbor:"descriptionRaw"`
	Assets             []Asset  `json:"assets" cbor:"assets"`
	AssociatedCardRefs []string `json:"associatedCardRefs" cbor:"associatedCardRefs"`
}

// ImageURL returns the first game art path, or "".
func (c CardMetadata) ImageURL() string {
	if len(c.Assets) == 0 {
		return ""
	}
	return c.Assets[0].GameAbsolutePath
}

// RegionMetadata is the display data of a faction, keyed by faction code.
type RegionMetadata struct {
	Abbreviation     string `json:"abbreviation" cbor:"abbreviation"`
	Name             string `json:"name" cbor:"name"`
	NameRef          string `json:"nameRef" cbor:"nameRef"`
	IconAbsolutePath string `json:"iconAbsolutePath" cbor:"iconAbsolutePath"`
}

// Metadata is a provider answer. Codes the provider does not know are absent.
type Metadata struct {
	Cards   map[string]CardMetadata   `json:"cards"`
	Regions map[string]RegionMetadata `json:"regions"`
}

// Provider looks up display data for card codes and faction codes.
type Provider interface {
	Fetch(ctx context.Context, cardCodes, factionCodes []string, language string) (*Metadata, error)
}

// ErrNoProvider is returned by Enrich when no provider is configured.
var ErrNoProvider = errors.New("metadata: no provider configured")

// Enrich looks up metadata for every card and faction of d, plus the cards
// they reference.
func Enrich(ctx context.Context, p Provider, d *deck.Deck, language string) (*Metadata, error) {
	if p == nil {
		return nil, ErrNoProvider
	}
	var codes []string
	for _, c := range d.Cards() {
		codes = append(codes, c.Code())
	}
	md, err := p.Fetch(ctx, codes, d.FactionCodes(), language)
	if err != nil {
		return nil, err
	}

	// Associated cards (spells a champion creates, level-ups) are looked
	// up in a second round so pages can show them.
	var extra []string
	seen := map[string]bool{}
	for _, c := range md.Cards {
		for _, ref := range c.AssociatedCardRefs {
			if _, ok := md.Cards[ref]; !ok && !seen[ref] {
				seen[ref] = true
				extra = append(extra, ref)
			}
		}
	}
	if len(extra) == 0 {
		return md, nil
	}
	more, err := p.Fetch(ctx, extra, nil, language)
	if err != nil {
		return nil, err
	}
	for code, c := range more.Cards {
		md.Cards[code] = c
	}
	return md, nil
}

func pick(cards []CardMetadata, regions []RegionMetadata, cardCodes, factionCodes []string) *Metadata {
	byCode := make(map[string]CardMetadata, len(cards))
	for _, c := range cards {
		byCode[c.CardCode] = c
	}
	out := &Metadata{
		Cards:   make(map[string]CardMetadata, len(cardCodes)),
		Regions: make(map[string]RegionMetadata, len(factionCodes)),
	}
	for _, code := range cardCodes {
		if c, ok := byCode[code]; ok {
			out.Cards[code] = c
		}
	}
	for _, code := range factionCodes {
		for _, r := range regions {
			if r.Abbreviation == code {
				out.Regions[code] = r
				break
			}
		}
	}
	return out
}
