package metadata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/youruser/lordeck/internal/cards"
)

// CSVProvider serves metadata from CSV files in a data directory. It ignores
// the requested language.
type CSVProvider struct {
	DataDir string

	once    sync.Once
	cards   []CardMetadata
	loadErr error
}

// NewCSVProvider returns a provider reading cards.csv, and custom_cards.csv
// when present, from dataDir.
func NewCSVProvider(dataDir string) *CSVProvider {
	return &CSVProvider{DataDir: dataDir}
}

// Fetch implements Provider.
func (p *CSVProvider) Fetch(_ context.Context, cardCodes, factionCodes []string, _ string) (*Metadata, error) {
	p.once.Do(func() { p.cards, p.loadErr = LoadCardsFromDataDir(p.DataDir) })
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return pick(p.cards, registryRegions(), cardCodes, factionCodes), nil
}

func registryRegions() []RegionMetadata {
	fs := cards.Factions()
	out := make([]RegionMetadata, 0, len(fs))
	for _, f := range fs {
		out = append(out, RegionMetadata{Abbreviation: f.Code, Name: f.Name, NameRef: nameRef(f.Name)})
	}
	return out
}

// nameRef keeps the letters of name, so "Piltover & Zaun" becomes "PiltoverZaun".
func nameRef(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, name)
}

func parseListCell(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == ',' })
	out := []string{}
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" && t != "-" {
			out = append(out, t)
		}
	}
	return out
}

// LoadCardsFromDataDir loads cards.csv and the optional custom_cards.csv.
// Rows in custom_cards.csv replace rows with the same card code.
func LoadCardsFromDataDir(dataDir string) ([]CardMetadata, error) {
	files := []string{
		filepath.Join(dataDir, "cards.csv"),
		filepath.Join(dataDir, "custom_cards.csv"),
	}

	byCode := map[string]CardMetadata{}
	var found bool
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		found = true
		cs, err := loadSingleCSV(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		for _, c := range cs {
			byCode[c.CardCode] = c
		}
	}
	if !found {
		return nil, fmt.Errorf("no card CSVs found in %s", dataDir)
	}

	out := make([]CardMetadata, 0, len(byCode))
	for _, c := range byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardCode < out[j].CardCode })
	return out, nil
}

func loadSingleCSV(path string) ([]CardMetadata, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}
	if _, ok := cols["cardCode"]; !ok {
		return nil, fmt.Errorf("csv %s has no cardCode column", path)
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	num := func(row []string, name string) int {
		v, err := strconv.Atoi(get(row, name))
		if err != nil {
			return 0
		}
		return v
	}

	out := []CardMetadata{}
	for line, row := range rows[1:] {
		code := get(row, "cardCode")
		if code == "" {
			continue
		}
		if _, err := cards.FromCode(code); err != nil {
			return nil, fmt.Errorf("csv %s line %d: %w", path, line+2, err)
		}
		c := CardMetadata{
			CardCode:           code,
			Name:               get(row, "name"),
			Rarity:             get(row, "rarity"),
			RarityRef:          get(row, "rarityRef"),
			Region:             get(row, "region"),
			RegionRef:          get(row, "regionRef"),
			Set:                get(row, "set"),
			Type:               get(row, "type"),
			Cost:               num(row, "cost"),
			Attack:             num(row, "attack"),
			Health:             num(row, "health"),
			DescriptionRaw:     get(row, "description"),
			AssociatedCardRefs: parseListCell(get(row, "associatedCards")),
		}
		if c.RarityRef == "" {
			c.RarityRef = c.Rarity
		}
		if img := get(row, "image"); img != "" {
			c.Assets = []Asset{{GameAbsolutePath: img}}
		}
		out = append(out, c)
	}
	return out, nil
}
